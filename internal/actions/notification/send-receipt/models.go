// internal/actions/notification/send-receipt/models.go
package sendreceipt

type Input struct {
	ClaimID      string `json:"claimId,omitempty"`
	CustomerName string `json:"customerName"`
	Email        string `json:"email"`
	Plate        string `json:"plate"`
	Workshop     string `json:"workshop"`
	Message      string `json:"message"` // confirmation returned by the claims API
}

type Output struct {
	NotificationID string `json:"notificationId"`
	Status         string `json:"status"` // "sent", "failed", "disabled"
	SentAt         string `json:"sentAt"` // ISO 8601
}

// Statuses
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)

const (
	receiptSubject = "Siniestro registrado"
	receiptBody    = "Estimado/a {{customerName}},\n\n" +
		"Hemos registrado su siniestro{{claimRef}} para el vehículo {{plate}}.\n" +
		"Taller asignado: {{workshop}}.\n\n" +
		"{{message}}\n\n" +
		"Atentamente,\n" +
		"El equipo de Gestión de Siniestros\n"
)
