package remote

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func testPolicy(maxRetries int) RetryPolicy {
	return DefaultRetryPolicy(maxRetries, time.Millisecond)
}

func TestUserClientRetriesOnServiceUnavailable(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		if r.URL.Query().Get("clientId") != "42" {
			t.Errorf("missing clientId query param")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content": true, "message": "Client exists"}`))
	}))
	defer srv.Close()

	client := NewUserClient(srv.URL, srv.Client(), testPolicy(5), zap.NewNop())
	exists := client.ExistsForVehicle(context.Background(), 42, "John Doe", "Acme")
	if !exists {
		t.Fatalf("expected exists after retries")
	}
	if hits != 3 {
		t.Fatalf("expected 3 attempts, got %d", hits)
	}
}

func TestUserClientDoesNotRetryOtherFailures(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewUserClient(srv.URL, srv.Client(), testPolicy(5), zap.NewNop())
	if client.ExistsForVehicle(context.Background(), 42, "John Doe", "Acme") {
		t.Fatalf("expected false on 404")
	}
	if hits != 1 {
		t.Fatalf("expected a single attempt, got %d", hits)
	}
}

func TestUserClientFalseOnNegativeAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content": false}`))
	}))
	defer srv.Close()

	client := NewUserClient(srv.URL, srv.Client(), testPolicy(0), zap.NewNop())
	if client.ExistsForVehicle(context.Background(), 42, "John Doe", "Acme") {
		t.Fatalf("expected false")
	}
}

func TestUserClientFalseOnUnreachableService(t *testing.T) {
	client := NewUserClient("http://127.0.0.1:1", &http.Client{Timeout: 100 * time.Millisecond}, testPolicy(0), zap.NewNop())
	if client.ExistsForVehicle(context.Background(), 42, "John Doe", "Acme") {
		t.Fatalf("expected false when the service is unreachable")
	}
}

func TestStockClientChangeDeviceStatus(t *testing.T) {
	var gotPath, gotID, gotStatus string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT, got %s", r.Method)
		}
		gotPath = r.URL.Path
		gotID = r.URL.Query().Get("id")
		gotStatus = r.URL.Query().Get("status")
		w.Write([]byte(`{"message": "ok"}`))
	}))
	defer srv.Close()

	client := NewStockClient(srv.URL, srv.Client(), testPolicy(0), zap.NewNop())
	if !client.ChangeDeviceStatus(context.Background(), 7, StatusAvailable) {
		t.Fatalf("expected success")
	}
	if gotPath != "/stock-api/devices/status/" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotID != "7" || gotStatus != StatusAvailable {
		t.Fatalf("unexpected query: id=%s status=%s", gotID, gotStatus)
	}
}

func TestStockClientGivesUpAfterRetries(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewStockClient(srv.URL, srv.Client(), testPolicy(2), zap.NewNop())
	if client.ChangeSimStatus(context.Background(), 7, StatusAvailable) {
		t.Fatalf("expected failure on persistent 503")
	}
	if hits != 3 {
		t.Fatalf("expected initial attempt plus 2 retries, got %d", hits)
	}
}

func TestTrackingClientCreateDevice(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := NewTrackingClient(srv.URL, srv.Client(), testPolicy(0), zap.NewNop())
	ok := client.CreateDevice(context.Background(), "John Doe", "356938035643809", "Acme", "123ABC")
	if !ok {
		t.Fatalf("expected success")
	}
	for _, want := range []string{"John Doe", "356938035643809", "Acme", "123ABC"} {
		if !strings.Contains(gotBody, want) {
			t.Fatalf("request body missing %q: %s", want, gotBody)
		}
	}
}

func TestTrackingClientFalseOnRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewTrackingClient(srv.URL, srv.Client(), testPolicy(0), zap.NewNop())
	if client.CreateDevice(context.Background(), "John Doe", "356938035643809", "Acme", "123ABC") {
		t.Fatalf("expected false on rejection")
	}
}

func TestRetryPolicyHonorsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	policy := DefaultRetryPolicy(5, time.Minute)
	_, err := policy.Do(ctx, srv.Client(), func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	})
	if err == nil {
		t.Fatalf("expected context error")
	}
}
