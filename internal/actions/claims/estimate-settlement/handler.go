// internal/actions/claims/estimate-settlement/handler.go
package estimatesettlement

import (
	"context"
	"errors"
	"net/http"
	"time"

	"claims-portal/internal/actions/claims/claimform"
	apperrors "claims-portal/internal/common/errors"
	"claims-portal/internal/common/logger"
	"claims-portal/internal/common/metrics"
	"claims-portal/internal/common/observability"
	"claims-portal/internal/common/view"
	"claims-portal/internal/settlement"

	"github.com/gorilla/mux"
)

const (
	TaskType = "estimate-settlement"
)

// Handler computes a local, non-binding settlement. It never calls the claims API.
type Handler struct {
	calc   *settlement.Calculator
	view   *view.Renderer
	obs    *observability.Observability
	logger logger.Logger
}

func NewHandler(calc *settlement.Calculator, renderer *view.Renderer, obs *observability.Observability, log logger.Logger) *Handler {
	return &Handler{
		calc:   calc,
		view:   renderer,
		obs:    obs,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/estimar", h.ServeHTTP).Methods(http.MethodPost)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	form, err := claimform.Parse(r)
	if err != nil {
		h.record(ctx, start, OutcomeInvalid)
		h.render(w, http.StatusBadRequest, &view.Page{Modal: &view.Modal{
			Title: TitleInvalid, Message: err.Error(), Variant: view.VariantDanger,
		}})
		return
	}

	page := &view.Page{Form: form.Values()}

	output, err := h.execute(ctx, form)
	if err != nil {
		h.record(ctx, start, OutcomeInvalid)
		page.Invalid = make(map[string]bool)
		for _, f := range apperrors.Fields(err) {
			page.Invalid[f] = true
		}
		page.Modal = &view.Modal{Title: TitleInvalid, Message: apperrors.DisplayMessage(err), Variant: view.VariantWarning}
		h.render(w, http.StatusUnprocessableEntity, page)
		return
	}

	h.record(ctx, start, OutcomeEstimated)
	page.Modal = Modal(output.Result)
	h.render(w, http.StatusOK, page)
}

func (h *Handler) execute(_ context.Context, form *claimform.Form) (*Output, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	res, err := h.calc.Calculate(Input(form))
	if errors.Is(err, settlement.ErrNegativeCost) {
		return nil, apperrors.NewValidationError(err.Error(), "mano_obra", "piezas")
	}
	if errors.Is(err, settlement.ErrNegativeAmount) {
		return nil, apperrors.NewValidationError(err.Error(), "limite", "franquicia")
	}
	if err != nil {
		return nil, err
	}

	h.logger.Debug("settlement estimated", map[string]interface{}{
		"policyType":   res.PolicyType,
		"total":        res.Total.String(),
		"insurerPays":  res.InsurerPays.String(),
		"customerPays": res.CustomerPays.String(),
	})
	return &Output{Result: res}, nil
}

func (h *Handler) Execute(ctx context.Context, form *claimform.Form) (*Output, error) {
	return h.execute(ctx, form)
}

// Input maps the claim form onto calculator input.
func Input(form *claimform.Form) settlement.Input {
	return settlement.Input{
		PolicyType: form.TipoPoliza,
		Limit:      claimform.ParseAmount(form.Limite),
		Deductible: claimform.ParseAmount(form.Franquicia),
		Labor:      claimform.ParseAmount(form.ManoObra),
		Parts:      claimform.ParseAmount(form.Piezas),
		Year:       claimform.ParseYear(form.Anio),
	}
}

// Modal lays a result out as the breakdown table.
func Modal(res *settlement.Result) *view.Modal {
	return &view.Modal{
		Title:   TitleEstimate,
		Message: res.Resolution,
		Detail:  res.VehicleNote,
		Variant: view.VariantInfo,
		Rows: []view.Row{
			{Label: "Mano de obra", Value: settlement.Euros(res.Labor)},
			{Label: "Piezas", Value: settlement.Euros(res.Parts)},
			{Label: "Depreciación piezas", Value: "-" + settlement.Euros(res.Depreciation)},
			{Label: "Base imponible", Value: settlement.Euros(res.Base), Strong: true},
			{Label: "IVA (21%)", Value: settlement.Euros(res.VAT)},
			{Label: "Total siniestro", Value: settlement.Euros(res.Total), Strong: true},
			{Label: "A pagar por aseguradora", Value: settlement.Euros(res.InsurerPays)},
			{Label: "A pagar por cliente", Value: settlement.Euros(res.CustomerPays)},
		},
	}
}

func (h *Handler) record(ctx context.Context, start time.Time, outcome string) {
	elapsed := time.Since(start)
	metrics.PortalActionsTotal.WithLabelValues(TaskType, outcome).Inc()
	metrics.PortalActionDuration.WithLabelValues(TaskType).Observe(elapsed.Seconds())
	h.obs.RecordActionProcessed(ctx, TaskType, outcome)
	h.obs.RecordActionDuration(ctx, TaskType, elapsed, outcome)
}

func (h *Handler) render(w http.ResponseWriter, status int, page *view.Page) {
	if err := h.view.Render(w, status, page); err != nil {
		h.logger.Error("render failed", map[string]interface{}{"error": err})
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
