// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	estimatesettlement "claims-portal/internal/actions/claims/estimate-settlement"
	lookupclaim "claims-portal/internal/actions/claims/lookup-claim"
	submitclaim "claims-portal/internal/actions/claims/submit-claim"
	"claims-portal/internal/common/claimsapi"
	"claims-portal/internal/common/config"
	"claims-portal/internal/common/flash"
	"claims-portal/internal/common/logger"
	"claims-portal/internal/common/observability"
	"claims-portal/internal/common/view"
	"claims-portal/internal/settlement"
	"claims-portal/pkg/registry"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps is everything the portal routes need. Receipts and Obs may be nil;
// leave Receipts unset rather than assigning a nil pointer.
type Deps struct {
	Config   *config.Config
	API      *claimsapi.Client
	Flash    flash.Store
	Receipts submitclaim.ReceiptSender
	Calc     *settlement.Calculator
	View     *view.Renderer
	Obs      *observability.Observability
	Logger   logger.Logger
}

// NewRouter registers the index page and every enabled action.
func NewRouter(d Deps) *mux.Router {
	r := mux.NewRouter()
	r.Use(WithLogger(d.Logger), Traced())

	r.Handle("/", &indexHandler{flash: d.Flash, view: d.View, logger: d.Logger}).Methods(http.MethodGet)

	if config.IsActionEnabled(d.Config, submitclaim.TaskType) {
		submitclaim.NewHandler(submitclaim.LoadConfig(d.Config), d.API, d.Flash, d.Receipts, d.View, d.Obs, d.Logger).Register(r)
	}
	if config.IsActionEnabled(d.Config, lookupclaim.TaskType) {
		lookupclaim.NewHandler(lookupclaim.LoadConfig(d.Config), d.API, d.Calc, d.View, d.Obs, d.Logger).Register(r)
	}
	if config.IsActionEnabled(d.Config, estimatesettlement.TaskType) {
		estimatesettlement.NewHandler(d.Calc, d.View, d.Obs, d.Logger).Register(r)
	}

	for _, a := range registry.Default().Actions {
		if a.Path == "" {
			continue
		}
		d.Logger.Info("Action route", map[string]interface{}{
			"taskType": a.TaskType,
			"method":   a.Method,
			"path":     a.Path,
			"enabled":  config.IsActionEnabled(d.Config, a.TaskType),
		})
	}

	return r
}

// ReadyFunc reports whether a backing dependency is usable.
type ReadyFunc func(ctx context.Context) error

// NewMetricsMux serves /health, /ready and /metrics.
func NewMetricsMux(ready ReadyFunc) *http.ServeMux {
	m := http.NewServeMux()
	m.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy", "")
	})
	m.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := ready(ctx); err != nil {
				writeStatus(w, http.StatusServiceUnavailable, "not ready", err.Error())
				return
			}
		}
		writeStatus(w, http.StatusOK, "ready", "")
	})
	m.Handle("/metrics", promhttp.Handler())
	return m
}

func writeStatus(w http.ResponseWriter, code int, status, reason string) {
	body := map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	}
	if reason != "" {
		body["error"] = reason
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

// Server runs the portal and the health/metrics listener side by side.
type Server struct {
	portal  *http.Server
	metrics *http.Server
	logger  logger.Logger
}

func New(cfg config.ServerConfig, portal http.Handler, ready ReadyFunc, log logger.Logger) *Server {
	return &Server{
		portal: &http.Server{
			Addr:         cfg.Address,
			Handler:      portal,
			ReadTimeout:  config.GetDuration(cfg.ReadTimeout),
			WriteTimeout: config.GetDuration(cfg.WriteTimeout),
		},
		metrics: &http.Server{
			Addr:              cfg.MetricsAddress,
			Handler:           NewMetricsMux(ready),
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: log,
	}
}

// Start listens on both addresses. It returns when either listener fails
// or after Shutdown.
func (s *Server) Start() error {
	errCh := make(chan error, 2)

	go func() {
		s.logger.Info("Health/Metrics server listening", map[string]interface{}{"address": s.metrics.Addr})
		errCh <- serve(s.metrics)
	}()
	go func() {
		s.logger.Info("Portal listening", map[string]interface{}{"address": s.portal.Addr})
		errCh <- serve(s.portal)
	}()

	return <-errCh
}

func serve(srv *http.Server) error {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests on both listeners.
func (s *Server) Shutdown(ctx context.Context) error {
	return errors.Join(s.portal.Shutdown(ctx), s.metrics.Shutdown(ctx))
}
