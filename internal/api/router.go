package api

import (
	"net/http"

	"ewaste-collection-service/internal/api/handlers"
	"ewaste-collection-service/internal/domain"
	"ewaste-collection-service/internal/ports"
	"ewaste-collection-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(
	pickups ports.PickupRepository,
	clusters ports.ClusterRepository,
	users ports.UserRepository,
	invoices ports.InvoiceRepository,
	notifier ports.Notifier,
	hubs []domain.Hub,
	cfg services.ClusterConfig,
) http.Handler {
	mux := http.NewServeMux()

	clusterer := services.NewClusterer(pickups, clusters, cfg)
	lifecycle := services.NewLifecycle(clusters, pickups, users, notifier, hubs)
	recommender := services.NewRecommender(users, clusters)
	inspector := services.NewInspector(pickups)
	settler := services.NewSettler(pickups, clusters, users, invoices)

	pickupHandler := &handlers.PickupHandler{
		Repo:      pickups,
		Clusterer: clusterer,
		Inspector: inspector,
	}
	clusterHandler := &handlers.ClusterHandler{
		Repo:        clusters,
		Clusterer:   clusterer,
		Lifecycle:   lifecycle,
		Recommender: recommender,
	}
	paymentHandler := &handlers.PaymentHandler{Settler: settler}

	mux.HandleFunc("/health", handlers.Health)

	mux.HandleFunc("GET /pickups", pickupHandler.List)
	mux.HandleFunc("POST /pickups", pickupHandler.Create)
	mux.HandleFunc("POST /pickups/{id}/inspection", pickupHandler.Inspect)

	mux.HandleFunc("GET /clusters", clusterHandler.List)
	mux.HandleFunc("POST /clusters/analyze", clusterHandler.Analyze)
	mux.HandleFunc("GET /clusters/{id}/recommendations", clusterHandler.Recommend)
	mux.HandleFunc("POST /clusters/{id}/assignment", clusterHandler.Assign)
	mux.HandleFunc("POST /clusters/{id}/schedule", clusterHandler.Schedule)
	mux.HandleFunc("POST /clusters/{id}/status", clusterHandler.Transition)

	mux.HandleFunc("POST /pricing/quote", handlers.Quote)
	mux.HandleFunc("POST /payments/settle", paymentHandler.Settle)

	return loggingMiddleware(mux)
}
