// internal/actions/claims/estimate-settlement/models.go
package estimatesettlement

import "claims-portal/internal/settlement"

type Output struct {
	Result *settlement.Result `json:"result"`
}

const (
	OutcomeEstimated = "estimated"
	OutcomeInvalid   = "invalid"
)

const (
	TitleEstimate = "Estimación de costes"
	TitleInvalid  = "Revisa el formulario"
)
