package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"vehicle-service/prometheus"

	"go.uber.org/zap"
)

// envelope mirrors the response wrapper the collaborating services answer with
type envelope struct {
	Content interface{} `json:"content"`
	Message string      `json:"message"`
}

// UserClient checks client identities against the user microservice
type UserClient struct {
	BaseURL    string
	HTTPClient *http.Client
	Policy     RetryPolicy
	Logger     *zap.Logger
}

// NewUserClient creates a user microservice client
func NewUserClient(baseURL string, httpClient *http.Client, policy RetryPolicy, logger *zap.Logger) *UserClient {
	return &UserClient{
		BaseURL:    baseURL,
		HTTPClient: httpClient,
		Policy:     policy,
		Logger:     logger,
	}
}

// ExistsForVehicle asks the user microservice whether the client identified
// by id, name and company exists. Any failure is reported as false, never as
// a transport error.
func (c *UserClient) ExistsForVehicle(ctx context.Context, clientID uint, clientName, companyName string) bool {
	query := url.Values{}
	query.Set("clientId", strconv.FormatUint(uint64(clientID), 10))
	query.Set("clientName", clientName)
	query.Set("companyName", companyName)

	endpoint := fmt.Sprintf("%s/user-api/clients/exist-for-create-vehicle/?%s", c.BaseURL, query.Encode())

	resp, err := c.Policy.Do(ctx, c.HTTPClient, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		c.Logger.Error("User service request failed", zap.Error(err))
		prometheus.RecordRemoteCall("user", false)
		return false
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.Logger.Error("Failed to read user service response", zap.Error(err))
		prometheus.RecordRemoteCall("user", false)
		return false
	}

	if resp.StatusCode != http.StatusOK {
		c.Logger.Error("User service returned error status",
			zap.Int("status", resp.StatusCode),
			zap.String("response", string(body)))
		prometheus.RecordRemoteCall("user", false)
		return false
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		c.Logger.Error("Failed to parse user service response", zap.Error(err))
		prometheus.RecordRemoteCall("user", false)
		return false
	}

	exists, ok := env.Content.(bool)
	if !ok {
		c.Logger.Error("Unexpected content in user service response",
			zap.Any("content", env.Content))
		prometheus.RecordRemoteCall("user", false)
		return false
	}

	c.Logger.Info("Client existence checked",
		zap.Uint("client_id", clientID),
		zap.Bool("exists", exists))
	prometheus.RecordRemoteCall("user", true)
	return exists
}
