package model

import (
	"time"
)

// Device represents a physical tracking module delivered by the stock microservice
type Device struct {
	ID                   uint      `json:"id" gorm:"primaryKey"`
	DeviceMicroserviceID uint      `json:"device_microservice_id" gorm:"uniqueIndex;not null"`
	IMEI                 string    `json:"imei" gorm:"type:varchar(20);not null"`
	Type                 string    `json:"type" gorm:"type:varchar(100)"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// DeviceDTO is the device projection returned by the API
type DeviceDTO struct {
	ID                   uint   `json:"id"`
	DeviceMicroserviceID uint   `json:"deviceMicroserviceId"`
	IMEI                 string `json:"imei"`
	Type                 string `json:"type"`
}

// ToDTO builds the API projection of the device
func (d *Device) ToDTO() DeviceDTO {
	return DeviceDTO{
		ID:                   d.ID,
		DeviceMicroserviceID: d.DeviceMicroserviceID,
		IMEI:                 d.IMEI,
		Type:                 d.Type,
	}
}
