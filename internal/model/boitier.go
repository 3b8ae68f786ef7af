package model

import (
	"time"
)

// Boitier represents a tracking unit pairing one device with one SIM.
// VehicleID stays nil while the boitier is not attached to a vehicle.
type Boitier struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	DeviceID      uint           `json:"device_id" gorm:"uniqueIndex;not null"`
	Device        Device         `json:"device" gorm:"foreignKey:DeviceID"`
	SimID         uint           `json:"sim_id" gorm:"uniqueIndex;not null"`
	Sim           Sim            `json:"sim" gorm:"foreignKey:SimID"`
	VehicleID     *uint          `json:"vehicle_id" gorm:"index"`
	Subscriptions []Subscription `json:"subscriptions,omitempty" gorm:"foreignKey:BoitierID"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// BoitierDTO is the boitier projection returned by the API
type BoitierDTO struct {
	ID            uint              `json:"id"`
	Device        DeviceDTO         `json:"device"`
	Sim           SimDTO            `json:"sim"`
	Subscriptions []SubscriptionDTO `json:"subscriptions,omitempty"`
}

// ToDTO builds the API projection of the boitier with its nested device,
// SIM and subscriptions
func (b *Boitier) ToDTO() BoitierDTO {
	dto := BoitierDTO{
		ID:     b.ID,
		Device: b.Device.ToDTO(),
		Sim:    b.Sim.ToDTO(),
	}
	for i := range b.Subscriptions {
		dto.Subscriptions = append(dto.Subscriptions, b.Subscriptions[i].ToDTO())
	}
	return dto
}
