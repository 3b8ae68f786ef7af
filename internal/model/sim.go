package model

import (
	"time"
)

// Sim represents a SIM card delivered by the stock microservice
type Sim struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	SimMicroserviceID uint      `json:"sim_microservice_id" gorm:"uniqueIndex;not null"`
	PhoneNumber       string    `json:"phone_number" gorm:"type:varchar(20);not null"`
	Type              string    `json:"type" gorm:"type:varchar(100)"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// SimDTO is the SIM projection returned by the API
type SimDTO struct {
	ID                uint   `json:"id"`
	SimMicroserviceID uint   `json:"simMicroserviceId"`
	PhoneNumber       string `json:"phoneNumber"`
	Type              string `json:"type"`
}

// ToDTO builds the API projection of the SIM
func (s *Sim) ToDTO() SimDTO {
	return SimDTO{
		ID:                s.ID,
		SimMicroserviceID: s.SimMicroserviceID,
		PhoneNumber:       s.PhoneNumber,
		Type:              s.Type,
	}
}
