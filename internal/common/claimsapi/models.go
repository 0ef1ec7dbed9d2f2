package claimsapi

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ClaimRecord is the body of POST /crear.
type ClaimRecord struct {
	IDSiniestro *string    `json:"id_siniestro"`
	Cliente     Cliente    `json:"cliente"`
	Vehiculo    Vehiculo   `json:"vehiculo"`
	Poliza      Poliza     `json:"poliza"`
	Reparacion  Reparacion `json:"reparacion"`
}

type Cliente struct {
	Nombre string `json:"nombre"`
	DNI    string `json:"dni"`
	Email  string `json:"email"`
}

type Vehiculo struct {
	Matricula string `json:"matricula"`
	Marca     string `json:"marca"`
	Modelo    string `json:"modelo"`
	Anio      int    `json:"anio"`
}

type Poliza struct {
	Tipo       string  `json:"tipo"`
	Limite     float64 `json:"limite"`
	Franquicia float64 `json:"franquicia"`
}

type Reparacion struct {
	Taller   string  `json:"taller"`
	ManoObra float64 `json:"mo"`
	Piezas   float64 `json:"piezas"`
}

// CreateResult is the 2xx body of POST /crear.
type CreateResult struct {
	Mensaje string `json:"mensaje"`
	Message string `json:"message"`
}

// Text is the confirmation to show, empty when the server sent none.
func (r *CreateResult) Text() string {
	if r == nil {
		return ""
	}
	if r.Mensaje != "" {
		return r.Mensaje
	}
	return r.Message
}

type errorBody struct {
	Error string `json:"error"`
}

// ClaimDetail is the flat record returned by GET /consultar. Money fields
// accept numbers, numeric strings and null.
type ClaimDetail struct {
	IDSiniestro string `json:"id_siniestro"`
	Nombre      string `json:"nombre"`
	DNI         string `json:"dni"`
	Email       string `json:"email"`
	Matricula   string `json:"matricula"`
	Marca       string `json:"marca"`
	Modelo      string `json:"modelo"`
	Anio        int    `json:"anio"`
	Taller      string `json:"taller"`

	ManoObra        decimal.NullDecimal `json:"mano_obra"`
	Piezas          decimal.NullDecimal `json:"piezas"`
	Total           decimal.NullDecimal `json:"total"`
	PagoAseguradora decimal.NullDecimal `json:"pago_aseguradora"`
	PagoCliente     decimal.NullDecimal `json:"pago_cliente"`

	TipoPoliza string              `json:"tipo_poliza"`
	Limite     decimal.NullDecimal `json:"limite"`
	Franquicia decimal.NullDecimal `json:"franquicia"`

	Estado       string `json:"estado"`
	URLDocumento string `json:"url_documento"`
}

// wireDetail mirrors ClaimDetail with types that take whatever JSON kind
// the API happens to send for a field.
type wireDetail struct {
	IDSiniestro looseString `json:"id_siniestro"`
	Nombre      looseString `json:"nombre"`
	DNI         looseString `json:"dni"`
	Email       looseString `json:"email"`
	Matricula   looseString `json:"matricula"`
	Marca       looseString `json:"marca"`
	Modelo      looseString `json:"modelo"`
	Anio        looseInt    `json:"anio"`
	Taller      looseString `json:"taller"`

	ManoObra        looseDecimal `json:"mano_obra"`
	Piezas          looseDecimal `json:"piezas"`
	Total           looseDecimal `json:"total"`
	PagoAseguradora looseDecimal `json:"pago_aseguradora"`
	PagoCliente     looseDecimal `json:"pago_cliente"`
	PagoSeguro      looseDecimal `json:"pago_seguro"`

	TipoPoliza looseString  `json:"tipo_poliza"`
	Limite     looseDecimal `json:"limite"`
	Franquicia looseDecimal `json:"franquicia"`

	Estado       looseString `json:"estado"`
	URLDocumento looseString `json:"url_documento"`

	// ClaimRecord-shaped sections some deployments return.
	Cliente    json.RawMessage `json:"cliente"`
	Vehiculo   json.RawMessage `json:"vehiculo"`
	Poliza     json.RawMessage `json:"poliza"`
	Reparacion json.RawMessage `json:"reparacion"`
}

type nestedCliente struct {
	Nombre looseString `json:"nombre"`
	DNI    looseString `json:"dni"`
	Email  looseString `json:"email"`
}

type nestedVehiculo struct {
	Matricula looseString `json:"matricula"`
	Marca     looseString `json:"marca"`
	Modelo    looseString `json:"modelo"`
	Anio      looseInt    `json:"anio"`
}

type nestedPoliza struct {
	Tipo       looseString  `json:"tipo"`
	Limite     looseDecimal `json:"limite"`
	Franquicia looseDecimal `json:"franquicia"`
}

type nestedReparacion struct {
	Taller   looseString  `json:"taller"`
	ManoObra looseDecimal `json:"mo"`
	Piezas   looseDecimal `json:"piezas"`
}

// UnmarshalJSON decodes the flat shape and fills gaps from the nested one.
// Only a body that is not a JSON object is an error; odd field types degrade
// to missing values.
func (d *ClaimDetail) UnmarshalJSON(data []byte) error {
	var w wireDetail
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*d = ClaimDetail{
		IDSiniestro:     string(w.IDSiniestro),
		Nombre:          string(w.Nombre),
		DNI:             string(w.DNI),
		Email:           string(w.Email),
		Matricula:       string(w.Matricula),
		Marca:           string(w.Marca),
		Modelo:          string(w.Modelo),
		Anio:            int(w.Anio),
		Taller:          string(w.Taller),
		ManoObra:        decimal.NullDecimal(w.ManoObra),
		Piezas:          decimal.NullDecimal(w.Piezas),
		Total:           decimal.NullDecimal(w.Total),
		PagoAseguradora: firstValid(decimal.NullDecimal(w.PagoAseguradora), decimal.NullDecimal(w.PagoSeguro)),
		PagoCliente:     decimal.NullDecimal(w.PagoCliente),
		TipoPoliza:      string(w.TipoPoliza),
		Limite:          decimal.NullDecimal(w.Limite),
		Franquicia:      decimal.NullDecimal(w.Franquicia),
		Estado:          string(w.Estado),
		URLDocumento:    string(w.URLDocumento),
	}

	var c nestedCliente
	if name, ok := section(w.Cliente, &c); ok {
		d.Nombre = firstNonEmpty(d.Nombre, name)
		d.Nombre = firstNonEmpty(d.Nombre, string(c.Nombre))
		d.DNI = firstNonEmpty(d.DNI, string(c.DNI))
		d.Email = firstNonEmpty(d.Email, string(c.Email))
	}
	var v nestedVehiculo
	if plate, ok := section(w.Vehiculo, &v); ok {
		d.Matricula = firstNonEmpty(d.Matricula, plate)
		d.Matricula = firstNonEmpty(d.Matricula, string(v.Matricula))
		d.Marca = firstNonEmpty(d.Marca, string(v.Marca))
		d.Modelo = firstNonEmpty(d.Modelo, string(v.Modelo))
		if d.Anio == 0 {
			d.Anio = int(v.Anio)
		}
	}
	var p nestedPoliza
	if tipo, ok := section(w.Poliza, &p); ok {
		d.TipoPoliza = firstNonEmpty(d.TipoPoliza, tipo)
		d.TipoPoliza = firstNonEmpty(d.TipoPoliza, string(p.Tipo))
		d.Limite = firstValid(d.Limite, decimal.NullDecimal(p.Limite))
		d.Franquicia = firstValid(d.Franquicia, decimal.NullDecimal(p.Franquicia))
	}
	var r nestedReparacion
	if taller, ok := section(w.Reparacion, &r); ok {
		d.Taller = firstNonEmpty(d.Taller, taller)
		d.Taller = firstNonEmpty(d.Taller, string(r.Taller))
		d.ManoObra = firstValid(d.ManoObra, decimal.NullDecimal(r.ManoObra))
		d.Piezas = firstValid(d.Piezas, decimal.NullDecimal(r.Piezas))
	}
	return nil
}

// section decodes a nested block into dst. A block sent as a bare scalar
// comes back as text instead. ok is false when there is nothing usable.
func section(raw json.RawMessage, dst interface{}) (text string, ok bool) {
	if len(raw) == 0 {
		return "", false
	}
	if raw[0] != '{' {
		var s looseString
		if err := json.Unmarshal(raw, &s); err != nil || s == "" {
			return "", false
		}
		return string(s), true
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return "", false
	}
	return "", true
}

// looseString accepts strings, numbers and booleans. Other kinds decode as "".
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch t := v.(type) {
	case string:
		*s = looseString(strings.TrimSpace(t))
	case json.Number:
		*s = looseString(t.String())
	case bool:
		*s = looseString(strconv.FormatBool(t))
	default:
		*s = ""
	}
	return nil
}

// looseInt accepts numbers and numeric strings. Anything else decodes as 0.
type looseInt int

func (i *looseInt) UnmarshalJSON(b []byte) error {
	var s looseString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	f, err := strconv.ParseFloat(string(s), 64)
	if err != nil {
		*i = 0
		return nil
	}
	*i = looseInt(f)
	return nil
}

// looseDecimal is a NullDecimal that turns unparsable values into null.
type looseDecimal decimal.NullDecimal

func (d *looseDecimal) UnmarshalJSON(b []byte) error {
	var s looseString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	v, err := decimal.NewFromString(strings.Replace(string(s), ",", ".", 1))
	if err != nil {
		*d = looseDecimal{}
		return nil
	}
	*d = looseDecimal{Decimal: v, Valid: true}
	return nil
}

// HasPaymentSplit reports whether the API already settled who pays what.
func (d *ClaimDetail) HasPaymentSplit() bool {
	return d.PagoAseguradora.Valid || d.PagoCliente.Valid
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func firstValid(a, b decimal.NullDecimal) decimal.NullDecimal {
	if a.Valid {
		return a
	}
	return b
}
