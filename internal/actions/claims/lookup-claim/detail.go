// internal/actions/claims/lookup-claim/detail.go
package lookupclaim

import (
	"strconv"
	"strings"

	"claims-portal/internal/common/claimsapi"
	"claims-portal/internal/common/view"
	"claims-portal/internal/settlement"

	"github.com/shopspring/decimal"
)

// StatusBadge picks the badge colour for a claim state.
func StatusBadge(estado string) string {
	s := strings.ToLower(estado)
	switch {
	case strings.Contains(s, "pendiente"):
		return view.VariantWarning
	case strings.Contains(s, "finalizado"):
		return view.VariantSuccess
	default:
		return view.VariantSecondary
	}
}

// ResolveTotal is the API total when present and non-zero, otherwise labor
// plus parts.
func ResolveTotal(d *claimsapi.ClaimDetail) decimal.Decimal {
	if d.Total.Valid && !d.Total.Decimal.IsZero() {
		return d.Total.Decimal
	}
	return amount(d.ManoObra).Add(amount(d.Piezas))
}

// BuildDetailCard formats d for display. When the API gave no payment split
// and the policy type is known, calc fills in an estimate. calc may be nil.
func BuildDetailCard(d *claimsapi.ClaimDetail, calc *settlement.Calculator) *view.DetailCard {
	card := &view.DetailCard{
		IDSiniestro: orDefault(d.IDSiniestro, "N/A"),
		Cliente:     orDefault(d.Nombre, "Desconocido"),
		DNI:         d.DNI,
		Email:       d.Email,
		Taller:      orDefault(d.Taller, "No asignado"),
		Matricula:   d.Matricula,
		Vehiculo:    vehicle(d),
		TipoPoliza:  d.TipoPoliza,
		Limite:      optionalEuros(d.Limite),
		Franquicia:  optionalEuros(d.Franquicia),
		ManoObra:    settlement.Euros(amount(d.ManoObra)),
		Piezas:      settlement.Euros(amount(d.Piezas)),
		Total:       settlement.Euros(ResolveTotal(d)),
		Estado:      d.Estado,
		StatusBadge: StatusBadge(d.Estado),
		DocumentURL: d.URLDocumento,
	}

	switch {
	case d.HasPaymentSplit():
		card.ShowSplit = true
		card.PagoAseguradora = settlement.Euros(amount(d.PagoAseguradora))
		card.PagoCliente = settlement.Euros(amount(d.PagoCliente))

	case calc != nil && d.TipoPoliza != "":
		res, err := calc.Calculate(settlement.Input{
			PolicyType: d.TipoPoliza,
			Limit:      amount(d.Limite),
			Deductible: amount(d.Franquicia),
			Labor:      amount(d.ManoObra),
			Parts:      amount(d.Piezas),
			Year:       d.Anio,
		})
		if err != nil {
			break
		}
		card.ShowSplit = true
		card.SplitEstimated = true
		card.PagoAseguradora = settlement.Euros(res.InsurerPays)
		card.PagoCliente = settlement.Euros(res.CustomerPays)
		card.Note = res.Resolution
	}

	return card
}

// vehicle joins make and model, adding the year when known.
func vehicle(d *claimsapi.ClaimDetail) string {
	v := strings.TrimSpace(d.Marca + " " + d.Modelo)
	if d.Anio > 0 {
		if v == "" {
			return strconv.Itoa(d.Anio)
		}
		v += " (" + strconv.Itoa(d.Anio) + ")"
	}
	return v
}

func optionalEuros(n decimal.NullDecimal) string {
	if !n.Valid {
		return ""
	}
	return settlement.Euros(n.Decimal)
}

func amount(n decimal.NullDecimal) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	return n.Decimal
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
