package model

import (
	"time"
)

// Client represents a vehicle owner mirrored from the user microservice
type Client struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	UserMicroserviceID uint      `json:"user_microservice_id" gorm:"uniqueIndex;not null"`
	Name               string    `json:"name" gorm:"type:varchar(255);not null"`
	Company            string    `json:"company" gorm:"type:varchar(255)"`
	Vehicles           []Vehicle `json:"vehicles,omitempty" gorm:"foreignKey:ClientID"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// ClientDTO is the client projection returned by the API
type ClientDTO struct {
	ID                 uint   `json:"id"`
	UserMicroserviceID uint   `json:"userMicroserviceId"`
	Name               string `json:"name"`
	Company            string `json:"company"`
}

// ToDTO builds the API projection of the client
func (c *Client) ToDTO() ClientDTO {
	return ClientDTO{
		ID:                 c.ID,
		UserMicroserviceID: c.UserMicroserviceID,
		Name:               c.Name,
		Company:            c.Company,
	}
}
