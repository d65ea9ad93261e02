package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"backdesk.app/internal/audit"
	"backdesk.app/internal/auth"
	"backdesk.app/internal/event"
	"backdesk.app/internal/httpapi"
	"backdesk.app/internal/notify"
	"backdesk.app/internal/obs"
	"backdesk.app/internal/token"
)

var (
	version = "0.3.1"
	commit  = "dev"
)

func main() {
	_ = godotenv.Load()

	obs.Init()
	obs.InitBuildInfo(version, commit)

	secret := os.Getenv("BACKDESK_AUTH_SECRET")
	if secret == "" {
		log.Fatal("BACKDESK_AUTH_SECRET is required")
	}
	verifier, err := auth.NewJWTVerifier(secret, envDefault("BACKDESK_AUTH_ISSUER", "backdesk"))
	if err != nil {
		log.Fatalf("verifier: %v", err)
	}

	var (
		db         *sql.DB
		tokenStore token.Store
		auditStore audit.Store
		eventStore event.Store
	)
	if dsn := os.Getenv("BACKDESK_PG_DSN"); dsn != "" {
		db, err = sql.Open("pgx", dsn)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
		tokenStore = token.NewPGStore(db)
		auditStore = audit.NewPGStore(db)
		eventStore = event.NewPGStore(db)
	} else {
		log.Println("BACKDESK_PG_DSN not set, using in-memory stores")
		tokenStore = token.NewMemStore()
		auditStore = audit.NewMemStore()
		eventStore = event.NewMemStore()
	}

	api := httpapi.New(
		httpapi.ReadyProbe{DB: db},
		version,
		verifier,
		token.NewService(tokenStore, auditStore),
		eventStore,
		notify.NewHub(16),
	)

	srv := &http.Server{
		Addr:              envDefault("BACKDESK_ADDR", ":8080"),
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		// no WriteTimeout: /v1/notifications/stream holds the connection open
		IdleTimeout: 60 * time.Second,
	}

	log.Printf("Starting backdesk-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	if db != nil {
		_ = db.Close()
	}
	log.Println("Stopped")
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
