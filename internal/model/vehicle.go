package model

import (
	"time"
)

// Vehicle represents a tracked vehicle owned by a client
type Vehicle struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Matricule string    `json:"matricule" gorm:"type:varchar(50);uniqueIndex;not null"`
	Type      string    `json:"type" gorm:"type:varchar(100);not null"`
	ClientID  uint      `json:"client_id" gorm:"index;not null"`
	Client    Client    `json:"client" gorm:"foreignKey:ClientID"`
	Boitiers  []Boitier `json:"boitiers,omitempty" gorm:"foreignKey:VehicleID"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VehicleDTO is the vehicle projection returned by the API
type VehicleDTO struct {
	ID        uint   `json:"id"`
	Matricule string `json:"matricule"`
	Type      string `json:"type"`
}

// ToDTO builds the API projection of the vehicle
func (v *Vehicle) ToDTO() VehicleDTO {
	return VehicleDTO{
		ID:        v.ID,
		Matricule: v.Matricule,
		Type:      v.Type,
	}
}
