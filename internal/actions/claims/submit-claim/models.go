// internal/actions/claims/submit-claim/models.go
package submitclaim

type Output struct {
	Outcome       string `json:"outcome"`
	Message       string `json:"message"`
	CustomerName  string `json:"customerName"`
	ReceiptStatus string `json:"receiptStatus,omitempty"`
}

// Outcomes, also the metric label.
const (
	OutcomeSaved   = "saved"
	OutcomeInvalid = "invalid"
	OutcomeFailed  = "failed"
)

const (
	TitleSaved       = "¡Guardado Correctamente!"
	TitleSendFailed  = "Error de Envío"
	TitleInvalid     = "Revisa el formulario"
	DefaultConfirmed = "Siniestro procesado"
)
