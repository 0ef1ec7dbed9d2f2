// internal/actions/claims/lookup-claim/models.go
package lookupclaim

import "claims-portal/internal/common/claimsapi"

type Output struct {
	Found  bool                   `json:"found"`
	Detail *claimsapi.ClaimDetail `json:"detail,omitempty"`
}

const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeEmpty    = "empty_query"
	OutcomeFailed   = "failed"
)

const (
	MsgEmptyQuery  = "Introduce un DNI o ID"
	MsgNotFound    = "No se encontró ningún expediente con ese ID/DNI."
	MsgConnectFail = "Error al conectar con la API: "
)
