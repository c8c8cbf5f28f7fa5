package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"ewaste-collection-service/internal/adapters/notify"
	"ewaste-collection-service/internal/adapters/repositories"
	"ewaste-collection-service/internal/api"
	"ewaste-collection-service/internal/config"
	"ewaste-collection-service/internal/domain"
	"ewaste-collection-service/internal/platform/db"
	"ewaste-collection-service/internal/ports"
	"ewaste-collection-service/internal/services"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}
	port := config.Get("PORT", "8080")

	conn, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	// Initialize schema and seed demo data on startup for local runs.
	if err := initAndSeed(conn, config.Get("SEED_PATH", "data/seeds/demo.json")); err != nil {
		log.Fatal(err)
	}

	pickups := repositories.NewSQLPickupRepository(conn)
	clusters := repositories.NewSQLClusterRepository(conn)
	users := repositories.NewSQLUserRepository(conn)
	invoices := repositories.NewSQLInvoiceRepository(conn)

	// Redis fan-out is optional for local runs; fall back to log output.
	var notifier ports.Notifier = &notify.LogNotifier{}
	if addr := os.Getenv("REDIS_ADDR"); strings.TrimSpace(addr) != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("redis ping addr=%s err=%v", addr, err)
		}
		notifier = &notify.RedisNotifier{Client: client}
	}

	router := api.NewRouter(
		pickups,
		clusters,
		users,
		invoices,
		notifier,
		domain.DefaultHubs,
		services.DefaultClusterConfig(),
	)

	resetCtx, cancelReset := context.WithCancel(context.Background())
	defer cancelReset()
	go services.RunAvailabilityReset(resetCtx, users)

	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func initAndSeed(conn *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	if err := repositories.SeedFromJSON(conn, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	return nil
}
