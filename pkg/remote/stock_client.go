package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"vehicle-service/prometheus"

	"go.uber.org/zap"
)

// Device and SIM statuses understood by the stock microservice
const (
	StatusAvailable = "available"
	StatusInstalled = "installed"
)

// StockClient mutates device and SIM statuses in the stock microservice
type StockClient struct {
	BaseURL    string
	HTTPClient *http.Client
	Policy     RetryPolicy
	Logger     *zap.Logger
}

// NewStockClient creates a stock microservice client
func NewStockClient(baseURL string, httpClient *http.Client, policy RetryPolicy, logger *zap.Logger) *StockClient {
	return &StockClient{
		BaseURL:    baseURL,
		HTTPClient: httpClient,
		Policy:     policy,
		Logger:     logger,
	}
}

// ChangeDeviceStatus changes the status of a device in the stock microservice
func (c *StockClient) ChangeDeviceStatus(ctx context.Context, id uint, status string) bool {
	return c.changeStatus(ctx, "devices", id, status)
}

// ChangeSimStatus changes the status of a SIM in the stock microservice
func (c *StockClient) ChangeSimStatus(ctx context.Context, id uint, status string) bool {
	return c.changeStatus(ctx, "sim", id, status)
}

func (c *StockClient) changeStatus(ctx context.Context, resource string, id uint, status string) bool {
	query := url.Values{}
	query.Set("id", strconv.FormatUint(uint64(id), 10))
	query.Set("status", status)

	endpoint := fmt.Sprintf("%s/stock-api/%s/status/?%s", c.BaseURL, resource, query.Encode())

	resp, err := c.Policy.Do(ctx, c.HTTPClient, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodPut, endpoint, nil)
	})
	if err != nil {
		c.Logger.Error("Stock service request failed",
			zap.String("resource", resource),
			zap.Error(err))
		prometheus.RecordRemoteCall("stock", false)
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		c.Logger.Error("Stock service refused status change",
			zap.String("resource", resource),
			zap.Uint("id", id),
			zap.String("status", status),
			zap.Int("http_status", resp.StatusCode))
		prometheus.RecordRemoteCall("stock", false)
		return false
	}

	c.Logger.Info("Stock status changed",
		zap.String("resource", resource),
		zap.Uint("id", id),
		zap.String("status", status))
	prometheus.RecordRemoteCall("stock", true)
	return true
}
