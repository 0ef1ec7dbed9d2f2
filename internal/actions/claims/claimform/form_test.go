package claimform

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"claims-portal/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validValues() url.Values {
	return url.Values{
		"nombre":      {" Ana Pérez "},
		"dni":         {"12345678a"},
		"email":       {"ana@example.es"},
		"matricula":   {"1234ABC"},
		"marca":       {"Seat"},
		"modelo":      {"Ibiza"},
		"anio":        {"2018"},
		"tipo_poliza": {"TODO_RIESGO"},
		"limite":      {"5000"},
		"franquicia":  {""},
		"taller":      {"Talleres Sur"},
		"mano_obra":   {"100,50"},
		"piezas":      {"200"},
	}
}

func parse(t *testing.T, v url.Values) *Form {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/siniestros", strings.NewReader(v.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	f, err := Parse(r)
	require.NoError(t, err)
	return f
}

func TestParse_Normalizes(t *testing.T) {
	f := parse(t, validValues())
	assert.Equal(t, "Ana Pérez", f.Nombre)
	assert.Equal(t, "Ana Pérez", f.Values()["nombre"])
	assert.NoError(t, f.Validate())
}

func TestValidate_ReportsAllMissingFields(t *testing.T) {
	v := validValues()
	v.Set("nombre", "   ")
	v.Set("dni", "")
	v.Set("taller", "")
	v.Set("email", "not-an-email")

	err := parse(t, v).Validate()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidationFailed))
	assert.Equal(t, errors.MsgRequiredFields, errors.DisplayMessage(err))
	assert.Equal(t, []string{"nombre", "dni", "taller"}, errors.Fields(err))
}

func TestValidate_FormatOrder(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(url.Values)
		wantMsg   string
		wantField string
	}{
		{"bad dni first", func(v url.Values) { v.Set("dni", "1234567A"); v.Set("matricula", "ABC1234") }, "DNI inválido", "dni"},
		{"bad email before plate", func(v url.Values) { v.Set("email", "ana@example"); v.Set("matricula", "ABC1234") }, "Email inválido", "email"},
		{"bad plate", func(v url.Values) { v.Set("matricula", "ABC1234") }, "Matrícula inválida", "matricula"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validValues()
			tt.mutate(v)
			err := parse(t, v).Validate()
			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, errors.DisplayMessage(err))
			assert.Equal(t, []string{tt.wantField}, errors.Fields(err))
		})
	}
}

func TestToRecord(t *testing.T) {
	v := validValues()
	v.Set("anio", "dos mil")
	rec := parse(t, v).ToRecord()

	assert.Nil(t, rec.IDSiniestro)
	assert.Equal(t, 0, rec.Vehiculo.Anio)
	assert.Equal(t, 100.5, rec.Reparacion.ManoObra)
	assert.Equal(t, 0.0, rec.Poliza.Franquicia)
	assert.Equal(t, 5000.0, rec.Poliza.Limite)

	v.Set("id_siniestro", " S-9 ")
	rec = parse(t, v).ToRecord()
	require.NotNil(t, rec.IDSiniestro)
	assert.Equal(t, "S-9", *rec.IDSiniestro)
}

func TestParseYear(t *testing.T) {
	assert.Equal(t, 2018, ParseYear("2018"))
	assert.Equal(t, 2018, ParseYear("2018.7"))
	assert.Equal(t, 0, ParseYear(""))
	assert.Equal(t, 0, ParseYear("abc"))
}

func TestParseAmount(t *testing.T) {
	assert.Equal(t, "12.5", ParseAmount("12,5").String())
	assert.True(t, ParseAmount("").IsZero())
	assert.True(t, ParseAmount("doce").IsZero())
}

func TestFromRecord_RoundTripsAndValidates(t *testing.T) {
	f := parse(t, validValues())
	back := FromRecord(f.ToRecord())

	assert.Equal(t, f.Nombre, back.Nombre)
	assert.Equal(t, "100.5", back.ManoObra)
	assert.Equal(t, "0", back.Franquicia)
	assert.NoError(t, back.Validate())
}

func TestFromRecord_MissingYearIsRequired(t *testing.T) {
	rec := parse(t, validValues()).ToRecord()
	rec.Vehiculo.Anio = 0

	err := FromRecord(rec).Validate()
	require.Error(t, err)
	assert.Equal(t, []string{"anio"}, errors.Fields(err))
}
