// internal/actions/claims/submit-claim/handler.go
package submitclaim

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"claims-portal/internal/actions/claims/claimform"
	sendreceipt "claims-portal/internal/actions/notification/send-receipt"
	"claims-portal/internal/common/claimsapi"
	"claims-portal/internal/common/errors"
	"claims-portal/internal/common/flash"
	"claims-portal/internal/common/logger"
	"claims-portal/internal/common/metrics"
	"claims-portal/internal/common/observability"
	"claims-portal/internal/common/view"

	"github.com/gorilla/mux"
)

const (
	TaskType = "submit-claim"
)

type ClaimCreator interface {
	Create(ctx context.Context, rec *claimsapi.ClaimRecord) (*claimsapi.CreateResult, error)
}

type ReceiptSender interface {
	Send(ctx context.Context, input *sendreceipt.Input) *sendreceipt.Output
}

type Handler struct {
	config   *Config
	api      ClaimCreator
	flash    flash.Store
	receipts ReceiptSender
	view     *view.Renderer
	obs      *observability.Observability
	errs     *errors.ErrorHandler
	logger   logger.Logger
}

// NewHandler wires the action. receipts and obs may be nil.
func NewHandler(config *Config, api ClaimCreator, store flash.Store, receipts ReceiptSender, renderer *view.Renderer, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		api:      api,
		flash:    store,
		receipts: receipts,
		view:     renderer,
		obs:      obs,
		errs:     errors.NewErrorHandler(log),
		logger:   log,
	}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/siniestros", h.ServeHTTP).Methods(http.MethodPost)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	form, err := claimform.Parse(r)
	if err != nil {
		h.logger.Warn("unreadable form", map[string]interface{}{"error": err})
		h.record(ctx, start, OutcomeInvalid)
		h.render(w, http.StatusBadRequest, &view.Page{Modal: &view.Modal{
			Title: TitleSendFailed, Message: err.Error(), Variant: view.VariantDanger,
		}})
		return
	}

	output, err := h.execute(ctx, form)
	if err != nil {
		h.handleFailure(ctx, w, start, form, err)
		return
	}
	h.record(ctx, start, OutcomeSaved)

	msg := flash.Message{
		Title:   TitleSaved,
		Message: output.Message,
		Detail:  fmt.Sprintf("El expediente de %s ya está en la base de datos.", output.CustomerName),
		Variant: view.VariantSuccess,
	}

	id, err := h.flash.Put(ctx, msg)
	if err != nil {
		// Still a success: show the confirmation directly over a clean form.
		h.logger.Warn("flash store unavailable", map[string]interface{}{
			"error": errors.NewFlashStoreFailedError("put", err),
		})
		h.render(w, http.StatusOK, &view.Page{Modal: &view.Modal{
			Title: msg.Title, Message: msg.Message, Detail: msg.Detail, Variant: msg.Variant,
		}})
		return
	}

	flash.SetCookie(w, id, h.config.FlashTTL)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) handleFailure(ctx context.Context, w http.ResponseWriter, start time.Time, form *claimform.Form, err error) {
	page := &view.Page{Form: form.Values()}
	stdErr, status := h.errs.HandleRequestError(TaskType, err)

	if stdErr.Code == errors.ErrCodeValidationFailed {
		h.record(ctx, start, OutcomeInvalid)
		page.Invalid = make(map[string]bool)
		for _, f := range errors.Fields(err) {
			page.Invalid[f] = true
		}
		page.Modal = &view.Modal{Title: TitleInvalid, Message: errors.DisplayMessage(err), Variant: view.VariantWarning}
		h.render(w, status, page)
		return
	}

	h.record(ctx, start, OutcomeFailed)
	page.Modal = &view.Modal{Title: TitleSendFailed, Message: errors.DisplayMessage(err), Variant: view.VariantDanger}
	h.render(w, status, page)
}

func (h *Handler) execute(ctx context.Context, form *claimform.Form) (*Output, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	rec := form.ToRecord()
	res, err := h.api.Create(ctx, rec)
	if err != nil {
		return nil, err
	}

	message := res.Text()
	if message == "" {
		message = DefaultConfirmed
	}

	output := &Output{
		Outcome:      OutcomeSaved,
		Message:      message,
		CustomerName: rec.Cliente.Nombre,
	}

	if h.receipts != nil {
		receipt := h.receipts.Send(context.WithoutCancel(ctx), &sendreceipt.Input{
			ClaimID:      form.IDSiniestro,
			CustomerName: rec.Cliente.Nombre,
			Email:        rec.Cliente.Email,
			Plate:        rec.Vehiculo.Matricula,
			Workshop:     rec.Reparacion.Taller,
			Message:      message,
		})
		output.ReceiptStatus = receipt.Status
	}

	h.logger.Info("claim submitted", map[string]interface{}{
		"plate":         rec.Vehiculo.Matricula,
		"receiptStatus": output.ReceiptStatus,
	})
	return output, nil
}

func (h *Handler) Execute(ctx context.Context, form *claimform.Form) (*Output, error) {
	return h.execute(ctx, form)
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
