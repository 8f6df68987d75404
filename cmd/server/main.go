package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/term"

	"shopdash/internal/config"
	"shopdash/internal/handlers/insights"
	"shopdash/internal/handlers/products"
	"shopdash/internal/handlers/trends"
	httpx "shopdash/internal/http"
	"shopdash/internal/logger"
	"shopdash/internal/models"
	"shopdash/internal/services/dataset"
	"shopdash/internal/services/filter"
	"shopdash/internal/services/metrics"
	"shopdash/internal/services/session"
	"shopdash/internal/services/storage"
	"shopdash/internal/version"
)

var (
	cfg        *config.Config
	log        *zap.SugaredLogger
	store      *storage.Storage
	loader     *dataset.Loader
	metricsSvc *metrics.Service
	sessions   *session.Manager
)

func main() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	zl, err := logger.New(cfg.Environment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer zl.Sync()
	log = zl.Sugar()

	log.Infow("Starting shopdash", "addr", cfg.ListenAddr, "dataDir", cfg.DataDirectory, "version", version.Get().Version)

	if err := SetupDependencies(cfg); err != nil {
		log.Fatalw("Setup failed", "error", err)
	}

	// The dataset is the only I/O-bound step; load it once up front so a
	// missing or corrupt file is fatal at startup, not at first request.
	if _, err := loader.Load(); err != nil {
		log.Fatalw("Dataset load failed", "error", err)
	}

	router := SetupRouter()

	log.Infof("Server starting on %s", cfg.ListenAddr)
	log.Fatal(http.ListenAndServe(cfg.ListenAddr, router))
}

// SetupDependencies initializes storage, the dataset loader and the services.
// Split out of main so tests can wire their own config.
func SetupDependencies(c *config.Config) error {
	var err error
	store, err = storage.New(c.DataDirectory)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	if store.IsEncrypted() {
		passphrase := c.DataPassphrase
		if passphrase == "" {
			passphrase, err = promptPassphrase()
			if err != nil {
				return fmt.Errorf("passphrase prompt: %w", err)
			}
		}
		if err := store.Unlock(passphrase); err != nil {
			return fmt.Errorf("unlock data directory: %w", err)
		}
		log.Info("Encrypted data directory unlocked")
	}

	log.Infow("Storage ready", "dir", store.BaseDir(), "encrypted", store.IsEncrypted())

	loader = dataset.New(store, log, c.OrdersPath(), c.SegmentsPath(), c.CLVPath())
	metricsSvc = metrics.New()
	sessions = session.NewManager()

	return nil
}

// SetupRouter builds the chi router with all view and API routes
func SetupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	insights.Initialize(loader, metricsSvc, log)
	products.Initialize(loader, metricsSvc, log)
	trends.Initialize(loader, metricsSvc, log)

	insights.RegisterRoutes(r)
	products.RegisterRoutes(r)
	trends.RegisterRoutes(r)

	r.Get("/api/health", handleHealth)
	r.Get("/api/meta", handleMeta)
	r.Post("/api/session", handleSessionCreate)
	r.Get("/api/session/{id}", handleSessionGet)
	r.Put("/api/session/{id}", handleSessionUpdate)

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"status":  "ok",
		"version": version.Get(),
	}

	if snap, err := loader.Load(); err == nil {
		resp["orders"] = snap.Orders.Len()
		resp["segments"] = snap.Segments.Len()
		resp["clv"] = len(snap.CLV)
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}

// handleMeta feeds the sidebar controls: available options, date bounds,
// recommended defaults
func handleMeta(w http.ResponseWriter, r *http.Request) {
	snap, err := loader.Load()
	if err != nil {
		httpx.WriteError(w, "dataset unavailable", http.StatusInternalServerError)
		return
	}

	minDate := snap.Orders.MinDate()
	maxDate := snap.Orders.MaxDate()

	httpx.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"categories":     snap.Orders.Categories(),
		"segments":       snap.Segments.Labels(),
		"segment_groups": models.SegmentGroups(),
		"min_date":       minDate.Format("2006-01-02"),
		"max_date":       maxDate.Format("2006-01-02"),
		"default":        filter.DefaultSelection(minDate, maxDate),
		"churn_bounds":   []int{filter.MinChurnThreshold, filter.MaxChurnThreshold},
		"churn_default":  filter.DefaultChurnThreshold,
	})
}

func handleSessionCreate(w http.ResponseWriter, r *http.Request) {
	snap, err := loader.Load()
	if err != nil {
		httpx.WriteError(w, "dataset unavailable", http.StatusInternalServerError)
		return
	}

	sel, err := httpx.ParseSelection(r.URL.Query(), snap.Orders.MinDate(), snap.Orders.MaxDate())
	if err != nil {
		httpx.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	s := sessions.Create(sel)
	httpx.WriteJSON(w, http.StatusCreated, s)
}

func handleSessionGet(w http.ResponseWriter, r *http.Request) {
	s, err := sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, "session not found", http.StatusNotFound)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, s)
}

func handleSessionUpdate(w http.ResponseWriter, r *http.Request) {
	snap, err := loader.Load()
	if err != nil {
		httpx.WriteError(w, "dataset unavailable", http.StatusInternalServerError)
		return
	}

	sel, err := httpx.ParseSelection(r.URL.Query(), snap.Orders.MinDate(), snap.Orders.MaxDate())
	if err != nil {
		httpx.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	s, err := sessions.Update(chi.URLParam(r, "id"), sel)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			httpx.WriteError(w, "session not found", http.StatusNotFound)
			return
		}
		httpx.WriteError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, s)
}

// promptPassphrase reads the data passphrase from the terminal without echo
func promptPassphrase() (string, error) {
	fmt.Fprint(os.Stderr, "Data directory passphrase: ")
	passphrase, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(passphrase), nil
}
