package service

import (
	"context"
	"errors"
	"math"
	"net/http"
	"time"
	"vehicle-service/internal/model"
	"vehicle-service/internal/response"
	"vehicle-service/pkg/remote"
	"vehicle-service/prometheus"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StockService mutates device and SIM statuses in the stock microservice
type StockService interface {
	ChangeDeviceStatus(ctx context.Context, id uint, status string) bool
	ChangeSimStatus(ctx context.Context, id uint, status string) bool
}

// BoitierInput carries a validated boitier creation request
type BoitierInput struct {
	DeviceMicroserviceID uint
	IMEI                 string
	DeviceType           string
	SimMicroserviceID    uint
	PhoneNumber          string
	SimType              string
	StartDate            time.Time
	EndDate              time.Time
}

// BoitierService assembles and tears down boitier aggregates
type BoitierService struct {
	db    *gorm.DB
	stock StockService
	log   *zap.Logger
}

// NewBoitierService creates a boitier service
func NewBoitierService(db *gorm.DB, stock StockService, log *zap.Logger) *BoitierService {
	return &BoitierService{db: db, stock: stock, log: log}
}

// Create validates the request and persists the device, SIM, boitier and
// initial subscription as one transaction. The duplicate checks are a fast
// path; the unique indexes on the external ids are the actual race guard.
func (s *BoitierService) Create(ctx context.Context, in BoitierInput) (*model.BoitierDTO, error) {
	var count int64
	s.db.WithContext(ctx).Model(&model.Device{}).
		Where("device_microservice_id = ?", in.DeviceMicroserviceID).Count(&count)
	if count > 0 {
		return nil, response.NewError("Device already used in other boitier", response.MessageError, http.StatusBadRequest)
	}

	s.db.WithContext(ctx).Model(&model.Sim{}).
		Where("sim_microservice_id = ?", in.SimMicroserviceID).Count(&count)
	if count > 0 {
		return nil, response.NewError("Sim already used in other boitier", response.MessageError, http.StatusBadRequest)
	}

	if !in.StartDate.Before(in.EndDate) {
		return nil, response.NewError("Start date must be before the end date", response.MessageError, http.StatusBadRequest)
	}

	if in.StartDate.Before(startOfToday()) {
		return nil, response.NewError("Start date must be after the current date", response.MessageError, http.StatusBadRequest)
	}

	device := model.Device{
		DeviceMicroserviceID: in.DeviceMicroserviceID,
		IMEI:                 in.IMEI,
		Type:                 in.DeviceType,
	}
	sim := model.Sim{
		SimMicroserviceID: in.SimMicroserviceID,
		PhoneNumber:       in.PhoneNumber,
		Type:              in.SimType,
	}
	var boitier model.Boitier

	defer prometheus.TrackDBOperation("boitier_create")(time.Now())
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&device).Error; err != nil {
			return err
		}
		if err := tx.Create(&sim).Error; err != nil {
			return err
		}
		boitier = model.Boitier{DeviceID: device.ID, SimID: sim.ID}
		if err := tx.Create(&boitier).Error; err != nil {
			return err
		}
		subscription := model.Subscription{
			StartDate: in.StartDate,
			EndDate:   in.EndDate,
			BoitierID: boitier.ID,
		}
		if err := tx.Create(&subscription).Error; err != nil {
			return err
		}
		boitier.Device = device
		boitier.Sim = sim
		boitier.Subscriptions = []model.Subscription{subscription}
		return nil
	})
	if err != nil {
		s.log.Error("Failed to persist boitier aggregate", zap.Error(err))
		return nil, response.NewError("Failed to create boitier", response.MessageError, http.StatusInternalServerError)
	}

	s.log.Info("Boitier created",
		zap.Uint("boitier_id", boitier.ID),
		zap.String("imei", device.IMEI),
		zap.String("phone", sim.PhoneNumber))
	prometheus.RecordBoitierOperation("create")

	dto := boitier.ToDTO()
	return &dto, nil
}

// List returns one page of boitiers with pagination metadata. An empty page
// is not an error: the caller gets an empty list and the real page count.
func (s *BoitierService) List(ctx context.Context, page, size int) ([]model.BoitierDTO, *response.MetaData, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 5
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&model.Boitier{}).Count(&total).Error; err != nil {
		s.log.Error("Failed to count boitiers", zap.Error(err))
		return nil, nil, response.NewError("Failed to retrieve boitiers", response.MessageError, http.StatusInternalServerError)
	}

	var boitiers []model.Boitier
	err := s.db.WithContext(ctx).
		Preload("Device").
		Preload("Sim").
		Preload("Subscriptions").
		Offset((page - 1) * size).
		Limit(size).
		Order("id").
		Find(&boitiers).Error
	if err != nil {
		s.log.Error("Failed to list boitiers", zap.Error(err))
		return nil, nil, response.NewError("Failed to retrieve boitiers", response.MessageError, http.StatusInternalServerError)
	}

	dtos := make([]model.BoitierDTO, 0, len(boitiers))
	for i := range boitiers {
		dtos = append(dtos, boitiers[i].ToDTO())
	}

	meta := &response.MetaData{
		CurrentPage: page,
		TotalPages:  int(math.Ceil(float64(total) / float64(size))),
		Size:        size,
	}
	return dtos, meta, nil
}

// Delete removes a boitier with its subscriptions and releases the device
// and SIM back to the stock microservice. The release runs inside the
// transaction so a refused release keeps the boitier row.
func (s *BoitierService) Delete(ctx context.Context, id uint) error {
	var boitier model.Boitier
	err := s.db.WithContext(ctx).
		Preload("Device").
		Preload("Sim").
		First(&boitier, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewError("Boitier not found", response.MessageError, http.StatusNotFound)
		}
		s.log.Error("Failed to load boitier", zap.Uint("boitier_id", id), zap.Error(err))
		return response.NewError("Failed to delete boitier", response.MessageError, http.StatusInternalServerError)
	}

	defer prometheus.TrackDBOperation("boitier_delete")(time.Now())
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("boitier_id = ?", boitier.ID).Delete(&model.Subscription{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Boitier{}, boitier.ID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Device{}, boitier.DeviceID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Sim{}, boitier.SimID).Error; err != nil {
			return err
		}
		if !s.stock.ChangeDeviceStatus(ctx, boitier.Device.DeviceMicroserviceID, remote.StatusAvailable) {
			return response.NewError("Error while releasing the device in the stock service", response.MessageWarning, http.StatusInternalServerError)
		}
		if !s.stock.ChangeSimStatus(ctx, boitier.Sim.SimMicroserviceID, remote.StatusAvailable) {
			return response.NewError("Error while releasing the sim in the stock service", response.MessageWarning, http.StatusInternalServerError)
		}
		return nil
	})
	if err != nil {
		if bizErr, ok := err.(*response.Error); ok {
			return bizErr
		}
		s.log.Error("Failed to delete boitier", zap.Uint("boitier_id", id), zap.Error(err))
		return response.NewError("Failed to delete boitier", response.MessageError, http.StatusInternalServerError)
	}

	s.log.Info("Boitier deleted",
		zap.Uint("boitier_id", id),
		zap.String("imei", boitier.Device.IMEI),
		zap.String("phone", boitier.Sim.PhoneNumber))
	prometheus.RecordBoitierOperation("delete")
	return nil
}

func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
