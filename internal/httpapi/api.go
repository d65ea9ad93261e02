package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"backdesk.app/internal/auth"
	"backdesk.app/internal/event"
	"backdesk.app/internal/notify"
	"backdesk.app/internal/obs"
	"backdesk.app/internal/token"
)

// ReadyProbe is the readiness check backing /readyz (DB ping when configured).
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// API is the HTTP layer.
type API struct {
	mux        *http.ServeMux
	readyProbe ReadyProbe
	version    string
	verifier   auth.Verifier
	tokens     *token.Service
	events     event.Store
	hub        *notify.Hub

	rateBurst  int
	ratePerSec int
}

func New(rp ReadyProbe, version string, verifier auth.Verifier, tokens *token.Service, events event.Store, hub *notify.Hub) *API {
	a := &API{
		mux:        http.NewServeMux(),
		readyProbe: rp,
		version:    version,
		verifier:   verifier,
		tokens:     tokens,
		events:     events,
		hub:        hub,
		rateBurst:  20,
		ratePerSec: 10,
	}

	// health/ready/info
	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/v1/info", a.Info)

	// Prometheus metrics
	a.mux.Handle("/metrics", obs.Handler())

	// token lifecycle
	a.mux.HandleFunc("/v1/tokens", a.handleTokensCollection)
	a.mux.HandleFunc("/v1/tokens/", a.handleTokenResource)

	// deadline dashboard
	a.mux.HandleFunc("/v1/events", a.handleEvents)

	// notification stream for dashboard clients
	a.mux.HandleFunc("/v1/notifications/stream", a.Stream)

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler returns the fully wrapped http.Handler for the server.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = a.withAuth(h)
	h = MaxBodyBytes(h, 1<<20)
	h = RateLimit(h, a.rateBurst, a.ratePerSec)
	h = CORS(h)
	h = LoggingJSON(h)
	h = RequestID(h)
	return obs.Instrument(h)
}

// --- Handlers ---

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "backdesk-api",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "backdesk-api",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}
