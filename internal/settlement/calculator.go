// Package settlement estimates how a repair bill splits between insurer and
// customer: parts depreciation for old cars, VAT, then policy coverage.
package settlement

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	PolicyThirdParty = "TERCEROS"
	PolicyAllRisk    = "TODO_RIESGO"
	deductibleMarker = "FRANQUICIA"

	depreciationAge = 10
)

var (
	ErrNegativeCost   = errors.New("Los costes no pueden ser negativos.")
	ErrNegativeAmount = errors.New("El límite y la franquicia no pueden ser negativos.")

	vatRate          = decimal.RequireFromString("0.21")
	depreciationRate = decimal.RequireFromString("0.20")
)

type Input struct {
	PolicyType string
	Limit      decimal.Decimal
	Deductible decimal.Decimal
	Labor      decimal.Decimal
	Parts      decimal.Decimal
	Year       int // 0 = current year
}

type Result struct {
	PolicyType   string
	VehicleAge   int
	Labor        decimal.Decimal
	Parts        decimal.Decimal
	Depreciation decimal.Decimal
	Base         decimal.Decimal
	VAT          decimal.Decimal
	Total        decimal.Decimal
	InsurerPays  decimal.Decimal
	CustomerPays decimal.Decimal
	VehicleNote  string
	Resolution   string
}

type Calculator struct {
	now func() time.Time
}

func NewCalculator() *Calculator {
	return &Calculator{now: time.Now}
}

// NewCalculatorAt pins the clock, for tests and reproducible receipts.
func NewCalculatorAt(now func() time.Time) *Calculator {
	return &Calculator{now: now}
}

func (c *Calculator) Calculate(in Input) (*Result, error) {
	if in.Labor.IsNegative() || in.Parts.IsNegative() {
		return nil, ErrNegativeCost
	}
	if in.Limit.IsNegative() || in.Deductible.IsNegative() {
		return nil, ErrNegativeAmount
	}

	currentYear := c.now().Year()
	year := in.Year
	if year == 0 {
		year = currentYear
	}
	age := currentYear - year

	depreciation := decimal.Zero
	vehicleNote := "Vehículo moderno (<10 años). Sin depreciación."
	if age > depreciationAge {
		depreciation = in.Parts.Mul(depreciationRate)
		vehicleNote = fmt.Sprintf("Vehículo antiguo (%d años). Depreciación del 20%% aplicada.", age)
	}

	base := in.Labor.Add(in.Parts).Sub(depreciation)
	vat := base.Mul(vatRate)
	total := base.Add(vat)

	policy := strings.ToUpper(strings.TrimSpace(in.PolicyType))
	if policy == "" {
		policy = PolicyThirdParty
	}

	insurer, customer, resolution := cover(policy, total, in.Limit, in.Deductible)

	return &Result{
		PolicyType:   policy,
		VehicleAge:   age,
		Labor:        in.Labor.Round(2),
		Parts:        in.Parts.Round(2),
		Depreciation: depreciation.Round(2),
		Base:         base.Round(2),
		VAT:          vat.Round(2),
		Total:        total.Round(2),
		InsurerPays:  insurer.Round(2),
		CustomerPays: customer.Round(2),
		VehicleNote:  vehicleNote,
		Resolution:   resolution,
	}, nil
}

func cover(policy string, total, limit, deductible decimal.Decimal) (insurer, customer decimal.Decimal, note string) {
	switch {
	case policy == PolicyThirdParty:
		return decimal.Zero, total, "Póliza a TERCEROS: No cubre daños propios del vehículo asegurado."

	case policy == PolicyAllRisk:
		if total.GreaterThan(limit) {
			return limit, total.Sub(limit), "TODO RIESGO: Cubierto hasta el límite de la póliza."
		}
		return total, decimal.Zero, "TODO RIESGO: Cobertura completa aplicada."

	case strings.Contains(policy, deductibleMarker):
		if total.LessThanOrEqual(deductible) {
			return decimal.Zero, total, fmt.Sprintf("El coste (%s€) es inferior a la franquicia (%s€).",
				total.StringFixed(2), deductible.StringFixed(2))
		}
		customer = deductible
		rest := total.Sub(deductible)
		if rest.GreaterThan(limit) {
			insurer = limit
			customer = customer.Add(rest.Sub(limit))
		} else {
			insurer = rest
		}
		return insurer, customer, fmt.Sprintf("Aplicada franquicia de %s€. El seguro cubre el resto.", deductible.StringFixed(2))

	default:
		return decimal.Zero, total, fmt.Sprintf("Tipo de seguro '%s' desconocido. Se rechaza cobertura por defecto.", policy)
	}
}

// Euros formats an amount the way the portal shows money.
func Euros(d decimal.Decimal) string {
	return d.StringFixed(2) + "€"
}
