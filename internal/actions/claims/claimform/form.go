// Package claimform is the claim form DTO shared by submit and estimate.
package claimform

import (
	"net/http"
	"strconv"
	"strings"

	"claims-portal/internal/common/claimsapi"
	"claims-portal/internal/common/errors"
	"claims-portal/internal/common/validation"

	"github.com/go-playground/form"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var Decoder = form.NewDecoder()

// Field order matters: format checks report the first failure in this order.
type Form struct {
	IDSiniestro string `form:"id_siniestro"`
	Nombre      string `form:"nombre" validate:"required"`
	DNI         string `form:"dni" validate:"required,dni"`
	Email       string `form:"email" validate:"required,loose_email"`
	Matricula   string `form:"matricula" validate:"required,plate"`
	Marca       string `form:"marca" validate:"required"`
	Modelo      string `form:"modelo" validate:"required"`
	Anio        string `form:"anio" validate:"required"`
	TipoPoliza  string `form:"tipo_poliza" validate:"required"`
	Limite      string `form:"limite" validate:"required"`
	Franquicia  string `form:"franquicia"`
	Taller      string `form:"taller" validate:"required"`
	ManoObra    string `form:"mano_obra"`
	Piezas      string `form:"piezas"`
}

var formatMessages = map[string]string{
	"dni":         "DNI inválido",
	"loose_email": "Email inválido",
	"plate":       "Matrícula inválida",
}

// Parse decodes the POST body into a normalized Form.
func Parse(r *http.Request) (*Form, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	f := &Form{}
	if err := Decoder.Decode(f, r.PostForm); err != nil {
		return nil, err
	}
	f.Normalize()
	return f, nil
}

// Normalize trims every value.
func (f *Form) Normalize() {
	for _, p := range f.fields() {
		*p.value = strings.TrimSpace(*p.value)
	}
}

// Validate reports all missing required fields at once. Only when none are
// missing are formats checked, and only the first bad one is reported.
func (f *Form) Validate() error {
	err := validation.Validate.Struct(f)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	var missing []string
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
		}
	}
	if len(missing) > 0 {
		return errors.NewValidationError(errors.MsgRequiredFields, missing...)
	}

	fe := verrs[0]
	msg, ok := formatMessages[fe.Tag()]
	if !ok {
		msg = errors.MsgRequiredFields
	}
	return errors.NewValidationError(msg, fe.Field())
}

// Values returns the form keyed by input name, for re-rendering.
func (f *Form) Values() map[string]string {
	out := make(map[string]string, 14)
	for _, p := range f.fields() {
		out[p.name] = *p.value
	}
	return out
}

// ToRecord builds the payload for POST /crear.
func (f *Form) ToRecord() *claimsapi.ClaimRecord {
	var id *string
	if f.IDSiniestro != "" {
		v := f.IDSiniestro
		id = &v
	}
	return &claimsapi.ClaimRecord{
		IDSiniestro: id,
		Cliente:     claimsapi.Cliente{Nombre: f.Nombre, DNI: f.DNI, Email: f.Email},
		Vehiculo: claimsapi.Vehiculo{
			Matricula: f.Matricula,
			Marca:     f.Marca,
			Modelo:    f.Modelo,
			Anio:      ParseYear(f.Anio),
		},
		Poliza: claimsapi.Poliza{
			Tipo:       f.TipoPoliza,
			Limite:     ParseAmount(f.Limite).InexactFloat64(),
			Franquicia: ParseAmount(f.Franquicia).InexactFloat64(),
		},
		Reparacion: claimsapi.Reparacion{
			Taller:   f.Taller,
			ManoObra: ParseAmount(f.ManoObra).InexactFloat64(),
			Piezas:   ParseAmount(f.Piezas).InexactFloat64(),
		},
	}
}

// FromRecord is the inverse of ToRecord, used when a claim arrives as JSON
// instead of a form post. A zero year is left blank so it fails as missing.
func FromRecord(rec *claimsapi.ClaimRecord) *Form {
	f := &Form{
		Nombre:     rec.Cliente.Nombre,
		DNI:        rec.Cliente.DNI,
		Email:      rec.Cliente.Email,
		Matricula:  rec.Vehiculo.Matricula,
		Marca:      rec.Vehiculo.Marca,
		Modelo:     rec.Vehiculo.Modelo,
		TipoPoliza: rec.Poliza.Tipo,
		Limite:     formatAmount(rec.Poliza.Limite),
		Franquicia: formatAmount(rec.Poliza.Franquicia),
		Taller:     rec.Reparacion.Taller,
		ManoObra:   formatAmount(rec.Reparacion.ManoObra),
		Piezas:     formatAmount(rec.Reparacion.Piezas),
	}
	if rec.IDSiniestro != nil {
		f.IDSiniestro = *rec.IDSiniestro
	}
	if rec.Vehiculo.Anio != 0 {
		f.Anio = strconv.Itoa(rec.Vehiculo.Anio)
	}
	f.Normalize()
	return f
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseAmount reads a money value, accepting a decimal comma. Blank or
// garbage is zero.
func ParseAmount(s string) decimal.Decimal {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseYear reads the leading integer of s, 0 when there is none.
func ParseYear(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

type namedField struct {
	name  string
	value *string
}

func (f *Form) fields() []namedField {
	return []namedField{
		{"id_siniestro", &f.IDSiniestro},
		{"nombre", &f.Nombre},
		{"dni", &f.DNI},
		{"email", &f.Email},
		{"matricula", &f.Matricula},
		{"marca", &f.Marca},
		{"modelo", &f.Modelo},
		{"anio", &f.Anio},
		{"tipo_poliza", &f.TipoPoliza},
		{"limite", &f.Limite},
		{"franquicia", &f.Franquicia},
		{"taller", &f.Taller},
		{"mano_obra", &f.ManoObra},
		{"piezas", &f.Piezas},
	}
}
