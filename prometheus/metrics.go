package prometheus

import (
	"time"
	"vehicle-service/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec

	// Database operation metrics
	DbOperationDuration *prometheus.HistogramVec

	// Boitier metrics
	BoitierOperationsCounter *prometheus.CounterVec

	// Vehicle metrics
	VehicleOperationsCounter *prometheus.CounterVec

	// Outbound microservice call metrics
	RemoteCallsCounter *prometheus.CounterVec
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	// Use metric prefix from configuration
	prefix := config.Metrics.Prefix

	// HTTP request metrics
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTP request duration
	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Database operation metrics
	DbOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	// Boitier metrics
	BoitierOperationsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_boitier_operations_total",
			Help: "Total number of boitier operations",
		},
		[]string{"operation"},
	)

	// Vehicle metrics
	VehicleOperationsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_vehicle_operations_total",
			Help: "Total number of vehicle operations",
		},
		[]string{"operation"},
	)

	// Outbound microservice call metrics
	RemoteCallsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_remote_calls_total",
			Help: "Total number of calls to collaborating microservices",
		},
		[]string{"service", "outcome"},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		if DbOperationDuration == nil {
			return
		}
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordBoitierOperation increments the counter for boitier operations
func RecordBoitierOperation(operation string) {
	if BoitierOperationsCounter == nil {
		return
	}
	BoitierOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordVehicleOperation increments the counter for vehicle operations
func RecordVehicleOperation(operation string) {
	if VehicleOperationsCounter == nil {
		return
	}
	VehicleOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordRemoteCall increments the counter for outbound microservice calls
func RecordRemoteCall(service string, success bool) {
	if RemoteCallsCounter == nil {
		return
	}
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	RemoteCallsCounter.WithLabelValues(service, outcome).Inc()
}
