package handler

import (
	"net/http"
	"vehicle-service/internal/response"
	"vehicle-service/internal/service"
	"vehicle-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// VehicleRequest defines the structure for vehicle creation requests
type VehicleRequest struct {
	Matricule            string `json:"matricule"`
	Type                 string `json:"type"`
	ClientMicroserviceID uint   `json:"clientMicroserviceId"`
	ClientName           string `json:"clientName"`
	ClientCompany        string `json:"clientCompany"`
	BoitiersIDs          []uint `json:"boitiersIds"`
}

// Validate checks the request fields; violations are keyed by field name
func (r *VehicleRequest) Validate() []fieldViolation {
	var violations []fieldViolation
	if r.Matricule == "" {
		violations = append(violations, fieldViolation{"matricule", "Matricule is required"})
	}
	if r.Type == "" {
		violations = append(violations, fieldViolation{"type", "Type is required"})
	}
	if r.ClientMicroserviceID == 0 {
		violations = append(violations, fieldViolation{"clientMicroserviceId", "User Microservice ID is required"})
	}
	if r.ClientName == "" {
		violations = append(violations, fieldViolation{"clientName", "Name is required"})
	} else if len(r.ClientName) > 255 {
		violations = append(violations, fieldViolation{"clientName", "Name cannot exceed 255 characters"})
	}
	if r.ClientCompany == "" {
		violations = append(violations, fieldViolation{"clientCompany", "Company is required"})
	} else if len(r.ClientCompany) > 255 {
		violations = append(violations, fieldViolation{"clientCompany", "Company cannot exceed 255 characters"})
	}
	if r.BoitiersIDs == nil {
		violations = append(violations, fieldViolation{"boitiersIds", "Boitiers IDs are required"})
	}
	return violations
}

// VehicleHandler exposes the vehicle endpoints
type VehicleHandler struct {
	svc *service.VehicleService
}

// NewVehicleHandler creates a vehicle handler
func NewVehicleHandler(svc *service.VehicleService) *VehicleHandler {
	return &VehicleHandler{svc: svc}
}

// Create handles the vehicle assembly workflow
func (h *VehicleHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)

	var req VehicleRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, response.Response{
			Message:     "Invalid request data",
			MessageType: response.MessageError,
		})
	}

	if violations := req.Validate(); len(violations) > 0 {
		log.Warn("Vehicle request rejected by validation",
			zap.Int("violations", len(violations)))
		return c.JSON(http.StatusBadRequest, response.Response{
			MessageObject: renderViolations(violations),
			MessageType:   response.MessageError,
		})
	}

	dto, err := h.svc.Create(c.Request().Context(), service.VehicleInput{
		Matricule:            req.Matricule,
		Type:                 req.Type,
		ClientMicroserviceID: req.ClientMicroserviceID,
		ClientName:           req.ClientName,
		ClientCompany:        req.ClientCompany,
		BoitierIDs:           req.BoitiersIDs,
	})
	if err != nil {
		bizErr := response.AsError(err)
		log.Warn("Vehicle creation rejected",
			zap.String("matricule", req.Matricule),
			zap.String("reason", bizErr.Response.Message))
		return c.JSON(bizErr.Response.Status, bizErr.Response)
	}

	log.Info("Vehicle created successfully",
		zap.Uint("vehicle_id", dto.ID),
		zap.String("matricule", dto.Matricule))
	return c.JSON(http.StatusCreated, response.Response{
		Content:     dto,
		Message:     "Vehicle created successfully",
		MessageType: response.MessageInfo,
	})
}

// List handles the paginated vehicle listing with client projections
func (h *VehicleHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	page := queryParamAsInt(c, "page", 1)
	size := queryParamAsInt(c, "size", 5)

	vehicles, meta, err := h.svc.List(c.Request().Context(), page, size)
	if err != nil {
		bizErr := response.AsError(err)
		return c.JSON(bizErr.Response.Status, bizErr.Response)
	}

	log.Info("Vehicles retrieved successfully",
		zap.Int("count", len(vehicles)),
		zap.Int("page", page))
	return c.JSON(http.StatusOK, response.Response{
		Content:     vehicles,
		Metadata:    meta,
		MessageType: response.MessageSuccess,
	})
}
