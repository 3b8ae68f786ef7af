package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"
	"unicode"
	"vehicle-service/internal/model"
	"vehicle-service/internal/response"
	"vehicle-service/prometheus"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserService checks client identities against the user microservice
type UserService interface {
	ExistsForVehicle(ctx context.Context, clientID uint, clientName, companyName string) bool
}

// TrackingService registers devices in the tracking microservice
type TrackingService interface {
	CreateDevice(ctx context.Context, clientName, imei, company, matricule string) bool
}

// VehicleInput carries a validated vehicle creation request
type VehicleInput struct {
	Matricule            string
	Type                 string
	ClientMicroserviceID uint
	ClientName           string
	ClientCompany        string
	BoitierIDs           []uint
}

// VehicleListItem pairs a vehicle projection with its owning client
type VehicleListItem struct {
	Vehicle model.VehicleDTO `json:"vehicle"`
	Client  model.ClientDTO  `json:"client"`
}

// VehicleService assembles vehicles from unattached boitiers
type VehicleService struct {
	db       *gorm.DB
	users    UserService
	tracking TrackingService
	log      *zap.Logger
}

// NewVehicleService creates a vehicle service
func NewVehicleService(db *gorm.DB, users UserService, tracking TrackingService, log *zap.Logger) *VehicleService {
	return &VehicleService{db: db, users: users, tracking: tracking, log: log}
}

// Create runs the vehicle assembly workflow: plate uniqueness, remote client
// confirmation, resolve-or-create of the local client, boitier validation,
// tracking registration, then one transaction persisting the vehicle and
// attaching the boitiers. Every check precedes the first external side
// effect, and the tracking registrations precede the local writes so no
// vehicle row exists unless every registration succeeded.
func (s *VehicleService) Create(ctx context.Context, in VehicleInput) (*model.VehicleDTO, error) {
	var count int64
	s.db.WithContext(ctx).Model(&model.Vehicle{}).
		Where("matricule = ?", in.Matricule).Count(&count)
	if count > 0 {
		return nil, response.NewError("Vehicle already exists", response.MessageError, http.StatusConflict)
	}

	if !s.users.ExistsForVehicle(ctx, in.ClientMicroserviceID, in.ClientName, in.ClientCompany) {
		return nil, response.NewError("Client does not exist in the user service", response.MessageError, http.StatusBadRequest)
	}

	client, err := s.resolveClient(ctx, in)
	if err != nil {
		return nil, err
	}

	boitiers, err := s.loadUnattachedBoitiers(ctx, in.BoitierIDs)
	if err != nil {
		return nil, err
	}

	for i := range boitiers {
		saved := s.tracking.CreateDevice(ctx, in.ClientName, boitiers[i].Device.IMEI, in.ClientCompany, in.Matricule)
		if !saved {
			return nil, response.NewError("Error while saving the boitier in the tracking service", response.MessageWarning, http.StatusInternalServerError)
		}
	}

	vehicle := model.Vehicle{
		Matricule: in.Matricule,
		Type:      in.Type,
		ClientID:  client.ID,
	}

	defer prometheus.TrackDBOperation("vehicle_create")(time.Now())
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&vehicle).Error; err != nil {
			return err
		}
		for i := range boitiers {
			err := tx.Model(&model.Boitier{}).
				Where("id = ?", boitiers[i].ID).
				Update("vehicle_id", vehicle.ID).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.log.Error("Failed to persist vehicle aggregate",
			zap.String("matricule", in.Matricule),
			zap.Error(err))
		return nil, response.NewError("Failed to create vehicle", response.MessageError, http.StatusInternalServerError)
	}

	s.log.Info("Vehicle created",
		zap.Uint("vehicle_id", vehicle.ID),
		zap.String("matricule", vehicle.Matricule),
		zap.Int("boitiers", len(boitiers)))
	prometheus.RecordVehicleOperation("create")

	dto := vehicle.ToDTO()
	return &dto, nil
}

// resolveClient reuses the local client mirror when it exists, otherwise
// creates it from the request with a capitalized display name.
func (s *VehicleService) resolveClient(ctx context.Context, in VehicleInput) (*model.Client, error) {
	var client model.Client
	err := s.db.WithContext(ctx).
		Where("user_microservice_id = ?", in.ClientMicroserviceID).
		First(&client).Error
	if err == nil {
		return &client, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.log.Error("Failed to load client", zap.Error(err))
		return nil, response.NewError("Error while saving client", response.MessageError, http.StatusInternalServerError)
	}

	client = model.Client{
		UserMicroserviceID: in.ClientMicroserviceID,
		Name:               capitalize(in.ClientName),
		Company:            in.ClientCompany,
	}
	if err := s.db.WithContext(ctx).Create(&client).Error; err != nil {
		s.log.Error("Failed to save client", zap.Error(err))
		return nil, response.NewError("Error while saving client", response.MessageError, http.StatusInternalServerError)
	}

	s.log.Info("Client saved",
		zap.Uint("client_id", client.ID),
		zap.Uint("user_microservice_id", client.UserMicroserviceID))
	return &client, nil
}

// loadUnattachedBoitiers loads every requested boitier and rejects the whole
// operation when one is missing or already attached to a vehicle.
func (s *VehicleService) loadUnattachedBoitiers(ctx context.Context, ids []uint) ([]model.Boitier, error) {
	boitiers := make([]model.Boitier, 0, len(ids))
	for _, id := range ids {
		var boitier model.Boitier
		err := s.db.WithContext(ctx).
			Preload("Device").
			Preload("Sim").
			First(&boitier, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, response.NewError("Boitier not found", response.MessageError, http.StatusNotFound)
			}
			s.log.Error("Failed to load boitier", zap.Uint("boitier_id", id), zap.Error(err))
			return nil, response.NewError("Failed to load boitier", response.MessageError, http.StatusInternalServerError)
		}
		if boitier.VehicleID != nil {
			message := fmt.Sprintf("Boitier with the phone %s and device IMEI %s already attached to a vehicle",
				boitier.Sim.PhoneNumber, boitier.Device.IMEI)
			return nil, response.NewError(message, response.MessageWarning, http.StatusConflict)
		}
		boitiers = append(boitiers, boitier)
	}
	return boitiers, nil
}

// List returns one page of vehicles with their client projection. An empty
// page yields an empty list and metadata, never an error.
func (s *VehicleService) List(ctx context.Context, page, size int) ([]VehicleListItem, *response.MetaData, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 5
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&model.Vehicle{}).Count(&total).Error; err != nil {
		s.log.Error("Failed to count vehicles", zap.Error(err))
		return nil, nil, response.NewError("Failed to retrieve vehicles", response.MessageError, http.StatusInternalServerError)
	}

	var vehicles []model.Vehicle
	err := s.db.WithContext(ctx).
		Preload("Client").
		Offset((page - 1) * size).
		Limit(size).
		Order("id").
		Find(&vehicles).Error
	if err != nil {
		s.log.Error("Failed to list vehicles", zap.Error(err))
		return nil, nil, response.NewError("Failed to retrieve vehicles", response.MessageError, http.StatusInternalServerError)
	}

	items := make([]VehicleListItem, 0, len(vehicles))
	for i := range vehicles {
		items = append(items, VehicleListItem{
			Vehicle: vehicles[i].ToDTO(),
			Client:  vehicles[i].Client.ToDTO(),
		})
	}

	meta := &response.MetaData{
		CurrentPage: page,
		TotalPages:  int(math.Ceil(float64(total) / float64(size))),
		Size:        size,
	}
	return items, meta, nil
}

// capitalize upper-cases the first rune of the name
func capitalize(name string) string {
	runes := []rune(name)
	if len(runes) == 0 {
		return name
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
