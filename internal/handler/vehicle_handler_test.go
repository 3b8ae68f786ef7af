package handler

import (
	"context"
	"net/http"
	"testing"
	"vehicle-service/internal/model"
	"vehicle-service/internal/service"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeUsers struct{ exists bool }

func (f *fakeUsers) ExistsForVehicle(context.Context, uint, string, string) bool { return f.exists }

type fakeTracking struct{ fail bool }

func (f *fakeTracking) CreateDevice(context.Context, string, string, string, string) bool {
	return !f.fail
}

func newVehicleHandler(t *testing.T, db *gorm.DB, users *fakeUsers, tracking *fakeTracking) *VehicleHandler {
	t.Helper()
	svc := service.NewVehicleService(db, users, tracking, zap.NewNop())
	return NewVehicleHandler(svc)
}

func seedBoitierRow(t *testing.T, db *gorm.DB) *model.Boitier {
	t.Helper()
	boitierHandler := NewBoitierHandler(service.NewBoitierService(db, &fakeStock{}, zap.NewNop()))
	e := echo.New()
	if rec := doJSON(t, e, http.MethodPost, "/api/boitier/", validBoitierBody(), boitierHandler.Create); rec.Code != http.StatusCreated {
		t.Fatalf("seed boitier failed: %d %s", rec.Code, rec.Body.String())
	}
	var boitier model.Boitier
	if err := db.First(&boitier).Error; err != nil {
		t.Fatalf("load boitier: %v", err)
	}
	return &boitier
}

func TestVehicleCreateEndpoint(t *testing.T) {
	db := setupTestDB(t)
	boitier := seedBoitierRow(t, db)
	h := newVehicleHandler(t, db, &fakeUsers{exists: true}, &fakeTracking{})
	e := echo.New()

	body := `{
		"matricule": "123ABC",
		"type": "Car",
		"clientMicroserviceId": 42,
		"clientName": "john doe",
		"clientCompany": "Acme",
		"boitiersIds": [1]
	}`
	rec := doJSON(t, e, http.MethodPost, "/api/vehicles/", body, h.Create)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}

	payload := decodeEnvelope(t, rec)
	if payload["message"] != "Vehicle created successfully" {
		t.Fatalf("unexpected message: %v", payload["message"])
	}

	var reloaded model.Boitier
	if err := db.First(&reloaded, boitier.ID).Error; err != nil {
		t.Fatalf("load boitier: %v", err)
	}
	if reloaded.VehicleID == nil {
		t.Fatalf("boitier not attached after vehicle creation")
	}
}

func TestVehicleCreateValidationErrorMap(t *testing.T) {
	db := setupTestDB(t)
	h := newVehicleHandler(t, db, &fakeUsers{exists: true}, &fakeTracking{})
	e := echo.New()

	rec := doJSON(t, e, http.MethodPost, "/api/vehicles/", `{"type": "Car"}`, h.Create)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}

	payload := decodeEnvelope(t, rec)
	errs, ok := payload["messageObject"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected messageObject: %s", rec.Body.String())
	}
	for _, field := range []string{"matricule", "clientMicroserviceId", "clientName", "clientCompany", "boitiersIds"} {
		if _, present := errs[field]; !present {
			t.Fatalf("missing violation for %s: %v", field, errs)
		}
	}
}

func TestVehicleCreateConflictStatus(t *testing.T) {
	db := setupTestDB(t)
	seedBoitierRow(t, db)
	h := newVehicleHandler(t, db, &fakeUsers{exists: true}, &fakeTracking{})
	e := echo.New()

	body := `{
		"matricule": "123ABC",
		"type": "Car",
		"clientMicroserviceId": 42,
		"clientName": "john doe",
		"clientCompany": "Acme",
		"boitiersIds": [1]
	}`
	if rec := doJSON(t, e, http.MethodPost, "/api/vehicles/", body, h.Create); rec.Code != http.StatusCreated {
		t.Fatalf("seed vehicle failed: %d", rec.Code)
	}

	rec := doJSON(t, e, http.MethodPost, "/api/vehicles/", body, h.Create)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
	payload := decodeEnvelope(t, rec)
	if payload["message"] != "Vehicle already exists" {
		t.Fatalf("unexpected message: %v", payload["message"])
	}
}

func TestVehicleListEmptyReturnsMetadata(t *testing.T) {
	db := setupTestDB(t)
	h := newVehicleHandler(t, db, &fakeUsers{exists: true}, &fakeTracking{})
	e := echo.New()

	rec := doJSON(t, e, http.MethodGet, "/api/vehicles/?page=1&size=5", "", h.List)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}

	payload := decodeEnvelope(t, rec)
	meta, ok := payload["metadata"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected metadata: %s", rec.Body.String())
	}
	if meta["currentPage"] != float64(1) || meta["totalPages"] != float64(0) || meta["size"] != float64(5) {
		t.Fatalf("unexpected metadata: %v", meta)
	}
}
