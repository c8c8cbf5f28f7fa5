package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ewaste-collection-service/internal/adapters/notify"
	"ewaste-collection-service/internal/adapters/repositories"
	"ewaste-collection-service/internal/api/dto"
	"ewaste-collection-service/internal/domain"
	"ewaste-collection-service/internal/services"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	return NewRouter(
		repositories.NewMemoryPickupRepository(),
		repositories.NewMemoryClusterRepository(),
		repositories.NewMemoryUserRepository(),
		repositories.NewMemoryInvoiceRepository(),
		notify.NewMemoryNotifier(),
		domain.DefaultHubs,
		services.DefaultClusterConfig(),
	)
}

func TestHealthEndpoint(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestCreatePickupClustersImmediately(t *testing.T) {
	router := testRouter(t)

	body := `{
		"area": "Borivali West",
		"address": "12 Chandavarkar Rd",
		"ewaste_type": "Laptop",
		"weight_grams": 60000,
		"latitude": 19.2301,
		"longitude": 72.8502
	}`
	req := httptest.NewRequest(http.MethodPost, "/pickups", strings.NewReader(body))
	req.Header.Set("X-Actor-Id", "u1")
	req.Header.Set("X-Actor-Role", "user")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var res dto.CreatePickupResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Pickup.Status != string(domain.PickupClustered) {
		t.Fatalf("pickup status = %q, want clustered", res.Pickup.Status)
	}
	if res.Cluster == nil || res.Cluster.ClusterID != res.Pickup.ClusterID {
		t.Fatalf("cluster missing or unlinked: %+v", res.Cluster)
	}
	if res.Cluster.Status != string(domain.ClusterPending) {
		t.Fatalf("cluster status = %q, want pending for a lone 60 kg pickup", res.Cluster.Status)
	}
}

func TestCreatePickupRejectsSubKilogramWeight(t *testing.T) {
	router := testRouter(t)

	body := `{"ewaste_type": "Laptop", "weight_grams": 60}`
	req := httptest.NewRequest(http.MethodPost, "/pickups", strings.NewReader(body))
	req.Header.Set("X-Actor-Id", "u1")
	req.Header.Set("X-Actor-Role", "user")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCreatePickupRejectsUnknownFields(t *testing.T) {
	router := testRouter(t)

	body := `{"ewaste_type": "Laptop", "weight_grams": 60000, "weight_kg": 60}`
	req := httptest.NewRequest(http.MethodPost, "/pickups", strings.NewReader(body))
	req.Header.Set("X-Actor-Id", "u1")
	req.Header.Set("X-Actor-Role", "user")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for unknown field", rec.Code)
	}
}

func TestCreatePickupRequiresActorHeaders(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/pickups", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestPricingQuoteEndpoint(t *testing.T) {
	router := testRouter(t)

	body := `{"category": "Laptop", "weight_kg": 2, "condition": "working", "age_years": 0}`
	req := httptest.NewRequest(http.MethodPost, "/pricing/quote", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var res dto.QuoteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.EstimatedValue != 900 {
		t.Fatalf("estimated value = %v, want 900", res.EstimatedValue)
	}
}

func TestSettleRequiresAuthorizedRole(t *testing.T) {
	router := testRouter(t)

	body := `{"pickup_id": "p1", "amount": 1000, "transaction_id": "txn-1"}`
	req := httptest.NewRequest(http.MethodPost, "/payments/settle", strings.NewReader(body))
	req.Header.Set("X-Actor-Id", "u1")
	req.Header.Set("X-Actor-Role", "user")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestClusterStatusUnknownID(t *testing.T) {
	router := testRouter(t)

	body := `{"status": "ready"}`
	req := httptest.NewRequest(http.MethodPost, "/clusters/ghost/status", strings.NewReader(body))
	req.Header.Set("X-Actor-Id", "wh1")
	req.Header.Set("X-Actor-Role", "warehouse")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
