package main

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"sealed-pack-tracking-service/internal/adapters/locks"
	"sealed-pack-tracking-service/internal/adapters/repositories"
	"sealed-pack-tracking-service/internal/api"
	"sealed-pack-tracking-service/internal/config"
	"sealed-pack-tracking-service/internal/platform/db"
	"sealed-pack-tracking-service/internal/ports"
	"sealed-pack-tracking-service/internal/services"
)

// main is the application composition root.
// It wires a concrete store (SQLite by default, Postgres when DATABASE_URL is
// set) and a task locker (in-process, or Redis when REDIS_ADDR is set) behind
// the engine's ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := config.Get("DB_PATH", "data/app.db")
	seedPath := config.Get("SEED_PATH", "data/seeds/tasks.json")
	port := config.Get("PORT", "8080")

	store, closeDB, err := openStore(dbPath, seedPath)
	if err != nil {
		log.Fatal(err)
	}
	defer closeDB()

	engine := services.NewTrackingEngine(store, newLocker())
	engine.RequireAssignedAgent = config.GetBool("REQUIRE_ASSIGNED_AGENT", false)

	router := api.NewRouter(engine, api.DefaultRolePolicy())

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

func openStore(dbPath, seedPath string) (ports.TrackingStore, func(), error) {
	if databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL")); databaseURL != "" {
		pg, err := db.OpenPostgres(databaseURL)
		if err != nil {
			return nil, nil, err
		}
		// Postgres deployments run schema/seed through cmd/dbtool.
		return repositories.NewPostgresTrackingRepository(pg), func() { _ = pg.Close() }, nil
	}

	sq, err := db.OpenSqlite(dbPath)
	if err != nil {
		return nil, nil, err
	}

	// Initialize schema and seed demo tasks on startup for local runs.
	if err := repositories.InitSqliteSchema(sq); err != nil {
		_ = sq.Close()
		return nil, nil, err
	}
	if err := repositories.SeedSqliteFromJSON(sq, seedPath); err != nil {
		_ = sq.Close()
		return nil, nil, err
	}

	return repositories.NewSqliteTrackingRepository(sq), func() { _ = sq.Close() }, nil
}

func newLocker() ports.TaskLocker {
	redisAddr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if redisAddr == "" {
		return locks.NewMemoryTaskLocker()
	}

	client := redis.NewClient(&redis.Options{Addr: redisAddr})
	log.Printf("Using redis task locker addr=%s", redisAddr)
	return locks.NewRedisTaskLocker(client)
}
