// internal/actions/claims/lookup-claim/handler.go
package lookupclaim

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"claims-portal/internal/common/claimsapi"
	apperrors "claims-portal/internal/common/errors"
	"claims-portal/internal/common/logger"
	"claims-portal/internal/common/metrics"
	"claims-portal/internal/common/observability"
	"claims-portal/internal/common/view"
	"claims-portal/internal/settlement"

	"github.com/gorilla/mux"
)

const (
	TaskType = "lookup-claim"
)

var (
	ErrEmptyQuery = errors.New("EMPTY_QUERY")
)

type ClaimFinder interface {
	Lookup(ctx context.Context, query string) (*claimsapi.ClaimDetail, error)
}

type Handler struct {
	config *Config
	api    ClaimFinder
	calc   *settlement.Calculator
	view   *view.Renderer
	obs    *observability.Observability
	errs   *apperrors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, api ClaimFinder, calc *settlement.Calculator, renderer *view.Renderer, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		api:    api,
		calc:   calc,
		view:   renderer,
		obs:    obs,
		errs:   apperrors.NewErrorHandler(log),
		logger: log,
	}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/consultar", h.ServeHTTP).Methods(http.MethodGet)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	query := strings.TrimSpace(r.URL.Query().Get("search"))
	page := &view.Page{Query: query}
	status := http.StatusOK

	output, err := h.execute(ctx, query)
	switch {
	case errors.Is(err, ErrEmptyQuery):
		h.record(ctx, start, OutcomeEmpty)
		page.Alert = &view.Alert{Variant: view.VariantWarning, Message: MsgEmptyQuery}

	case err != nil:
		h.record(ctx, start, OutcomeFailed)
		_, status = h.errs.HandleRequestError(TaskType, err)
		page.Alert = &view.Alert{Variant: view.VariantDanger, Message: MsgConnectFail + apperrors.DisplayMessage(err)}

	case !output.Found:
		h.record(ctx, start, OutcomeNotFound)
		page.Alert = &view.Alert{Variant: view.VariantWarning, Message: MsgNotFound}

	default:
		h.record(ctx, start, OutcomeFound)
		page.Detail = BuildDetailCard(output.Detail, h.calc)
	}

	if err := h.view.Render(w, status, page); err != nil {
		h.logger.Error("render failed", map[string]interface{}{"error": err})
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// execute reports a missing claim as Found=false, not as an error.
func (h *Handler) execute(ctx context.Context, query string) (*Output, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	detail, err := h.api.Lookup(ctx, query)
	if apperrors.HasCode(err, apperrors.ErrCodeClaimNotFound) {
		h.logger.Info("claim not found", map[string]interface{}{"search": query})
		return &Output{Found: false}, nil
	}
	if err != nil {
		return nil, err
	}
	return &Output{Found: true, Detail: detail}, nil
}

func (h *Handler) Execute(ctx context.Context, query string) (*Output, error) {
	return h.execute(ctx, query)
}

func (h *Handler) record(ctx context.Context, start time.Time, outcome string) {
	elapsed := time.Since(start)
	metrics.PortalActionsTotal.WithLabelValues(TaskType, outcome).Inc()
	metrics.PortalActionDuration.WithLabelValues(TaskType).Observe(elapsed.Seconds())
	h.obs.RecordActionProcessed(ctx, TaskType, outcome)
	h.obs.RecordActionDuration(ctx, TaskType, elapsed, outcome)
}
