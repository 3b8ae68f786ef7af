package handler

import (
	"net/http"
	"strconv"
	"time"
	"vehicle-service/internal/model"
	"vehicle-service/internal/response"
	"vehicle-service/internal/service"
	"vehicle-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// BoitierRequest defines the structure for boitier creation requests
type BoitierRequest struct {
	// Device information
	DeviceMicroserviceID uint   `json:"deviceMicroserviceId"`
	IMEI                 string `json:"imei"`
	DeviceType           string `json:"deviceType"`

	// SIM card information
	SimMicroserviceID uint   `json:"simMicroserviceId"`
	PhoneNumber       string `json:"phoneNumber"`
	SimType           string `json:"simType"`

	// Subscription window
	DateStart string `json:"dateStart"`
	DateEnd   string `json:"dateFin"`
}

// Validate checks the request fields and parses the subscription window.
// Violations are grouped under device/sim/dateStart/dateEnd keys.
func (r *BoitierRequest) Validate() (start, end time.Time, violations []fieldViolation) {
	if r.DeviceMicroserviceID == 0 {
		violations = append(violations, fieldViolation{"device", "Stock Microservice ID is required"})
	}
	if r.IMEI == "" {
		violations = append(violations, fieldViolation{"device", "IMEI is required"})
	} else if !isDigits(r.IMEI) || len(r.IMEI) < 9 {
		violations = append(violations, fieldViolation{"device", "IMEI should be at least 9 digits"})
	}
	if r.DeviceType == "" {
		violations = append(violations, fieldViolation{"device", "Type is required"})
	}

	if r.SimMicroserviceID == 0 {
		violations = append(violations, fieldViolation{"sim", "Stock Microservice ID is required"})
	}
	if r.PhoneNumber == "" {
		violations = append(violations, fieldViolation{"sim", "Phone number is required"})
	} else if !isDigits(r.PhoneNumber) || len(r.PhoneNumber) != 10 {
		violations = append(violations, fieldViolation{"sim", "Phone number must be 10 digits"})
	}
	if r.SimType == "" {
		violations = append(violations, fieldViolation{"sim", "SIM type is required"})
	}

	var err error
	if r.DateStart == "" {
		violations = append(violations, fieldViolation{"dateStart", "Start date is required"})
	} else if start, err = time.ParseInLocation(model.DateLayout, r.DateStart, time.Local); err != nil {
		violations = append(violations, fieldViolation{"dateStart", "Start date must be in the format " + model.DateLayout})
	}
	if r.DateEnd == "" {
		violations = append(violations, fieldViolation{"dateEnd", "End date is required"})
	} else if end, err = time.ParseInLocation(model.DateLayout, r.DateEnd, time.Local); err != nil {
		violations = append(violations, fieldViolation{"dateEnd", "End date must be in the format " + model.DateLayout})
	}

	return start, end, violations
}

// BoitierHandler exposes the boitier endpoints
type BoitierHandler struct {
	svc *service.BoitierService
}

// NewBoitierHandler creates a boitier handler
func NewBoitierHandler(svc *service.BoitierService) *BoitierHandler {
	return &BoitierHandler{svc: svc}
}

// Create handles creating a boitier with its device, SIM and subscription
func (h *BoitierHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)

	var req BoitierRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, response.Response{
			Message:     "Invalid request data",
			MessageType: response.MessageError,
		})
	}

	start, end, violations := req.Validate()
	if len(violations) > 0 {
		log.Warn("Boitier request rejected by validation",
			zap.Int("violations", len(violations)))
		return c.JSON(http.StatusBadRequest, response.Response{
			MessageObject: renderViolations(violations),
			MessageType:   response.MessageError,
		})
	}

	dto, err := h.svc.Create(c.Request().Context(), service.BoitierInput{
		DeviceMicroserviceID: req.DeviceMicroserviceID,
		IMEI:                 req.IMEI,
		DeviceType:           req.DeviceType,
		SimMicroserviceID:    req.SimMicroserviceID,
		PhoneNumber:          req.PhoneNumber,
		SimType:              req.SimType,
		StartDate:            start,
		EndDate:              end,
	})
	if err != nil {
		bizErr := response.AsError(err)
		log.Warn("Boitier creation rejected",
			zap.String("reason", bizErr.Response.Message))
		return c.JSON(bizErr.Response.Status, bizErr.Response)
	}

	log.Info("Boitier created successfully", zap.Uint("boitier_id", dto.ID))
	return c.JSON(http.StatusCreated, response.Response{
		Content:     dto,
		Message:     "Boitier created successfully",
		MessageType: response.MessageSuccess,
	})
}

// List handles the paginated boitier listing
func (h *BoitierHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	page := queryParamAsInt(c, "page", 1)
	size := queryParamAsInt(c, "size", 5)

	boitiers, meta, err := h.svc.List(c.Request().Context(), page, size)
	if err != nil {
		bizErr := response.AsError(err)
		return c.JSON(bizErr.Response.Status, bizErr.Response)
	}

	log.Info("Boitiers retrieved successfully",
		zap.Int("count", len(boitiers)),
		zap.Int("page", page))
	return c.JSON(http.StatusOK, response.Response{
		Content: echo.Map{
			"boitiers": boitiers,
			"metadata": meta,
		},
		Message:     "Boitiers retrieved successfully",
		MessageType: response.MessageSuccess,
	})
}

// Delete handles deleting a boitier by id
func (h *BoitierHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.Response{
			Message:     "Invalid boitier id",
			MessageType: response.MessageError,
		})
	}

	if err := h.svc.Delete(c.Request().Context(), uint(id)); err != nil {
		bizErr := response.AsError(err)
		log.Warn("Boitier deletion rejected",
			zap.Uint64("boitier_id", id),
			zap.String("reason", bizErr.Response.Message))
		return c.JSON(bizErr.Response.Status, bizErr.Response)
	}

	log.Info("Boitier deleted successfully", zap.Uint64("boitier_id", id))
	return c.JSON(http.StatusOK, response.Response{
		Message:     "Boitier deleted successfully",
		MessageType: response.MessageSuccess,
	})
}

// queryParamAsInt reads an integer query parameter with a default
func queryParamAsInt(c echo.Context, name string, defaultValue int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return value
}
