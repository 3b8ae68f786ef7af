package model

import (
	"time"
)

// Subscription represents the active service window of a boitier
type Subscription struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	StartDate time.Time `json:"start_date" gorm:"not null"`
	EndDate   time.Time `json:"end_date" gorm:"not null"`
	BoitierID uint      `json:"boitier_id" gorm:"index;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SubscriptionDTO is the subscription projection returned by the API
type SubscriptionDTO struct {
	ID        uint   `json:"id"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// DateLayout is the wire format of subscription dates
const DateLayout = "2006-01-02"

// ToDTO builds the API projection of the subscription
func (s *Subscription) ToDTO() SubscriptionDTO {
	return SubscriptionDTO{
		ID:        s.ID,
		StartDate: s.StartDate.Format(DateLayout),
		EndDate:   s.EndDate.Format(DateLayout),
	}
}
