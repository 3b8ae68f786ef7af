package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"vehicle-service/prometheus"

	"go.uber.org/zap"
)

// TrackingClient registers devices in the tracking (TracCar) microservice
type TrackingClient struct {
	BaseURL    string
	HTTPClient *http.Client
	Policy     RetryPolicy
	Logger     *zap.Logger
}

// NewTrackingClient creates a tracking microservice client
func NewTrackingClient(baseURL string, httpClient *http.Client, policy RetryPolicy, logger *zap.Logger) *TrackingClient {
	return &TrackingClient{
		BaseURL:    baseURL,
		HTTPClient: httpClient,
		Policy:     policy,
		Logger:     logger,
	}
}

type trackingDeviceRequest struct {
	ClientName string `json:"clientName"`
	IMEI       string `json:"imei"`
	Company    string `json:"company"`
	Matricule  string `json:"matricule"`
}

// CreateDevice registers a boitier device in the tracking microservice.
// Failures are reported as false, never as a transport error.
func (c *TrackingClient) CreateDevice(ctx context.Context, clientName, imei, company, matricule string) bool {
	payload, err := json.Marshal(trackingDeviceRequest{
		ClientName: clientName,
		IMEI:       imei,
		Company:    company,
		Matricule:  matricule,
	})
	if err != nil {
		c.Logger.Error("Failed to encode tracking request", zap.Error(err))
		prometheus.RecordRemoteCall("tracking", false)
		return false
	}

	endpoint := fmt.Sprintf("%s/traccar-api/devices/", c.BaseURL)

	resp, err := c.Policy.Do(ctx, c.HTTPClient, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		c.Logger.Error("Tracking service request failed", zap.Error(err))
		prometheus.RecordRemoteCall("tracking", false)
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.Logger.Error("Tracking service refused device creation",
			zap.String("imei", imei),
			zap.String("matricule", matricule),
			zap.Int("http_status", resp.StatusCode))
		prometheus.RecordRemoteCall("tracking", false)
		return false
	}

	c.Logger.Info("Device registered in tracking service",
		zap.String("imei", imei),
		zap.String("matricule", matricule))
	prometheus.RecordRemoteCall("tracking", true)
	return true
}
