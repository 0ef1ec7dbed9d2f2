package claimsapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"claims-portal/internal/common/errors"
	commonhttp "claims-portal/internal/common/http"
	"claims-portal/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() *ClaimRecord {
	return &ClaimRecord{
		Cliente:    Cliente{Nombre: "Ana Pérez", DNI: "12345678A", Email: "ana@example.es"},
		Vehiculo:   Vehiculo{Matricula: "1234ABC", Marca: "Seat", Modelo: "Ibiza", Anio: 2018},
		Poliza:     Poliza{Tipo: "TODO_RIESGO", Limite: 5000},
		Reparacion: Reparacion{Taller: "Talleres Sur", ManoObra: 100, Piezas: 200},
	}
}

func newTestClient(t *testing.T, srv *httptest.Server, base string) *Client {
	t.Helper()
	return NewClient(base, commonhttp.NewClientWith(srv.Client()), nil, logger.NewTestLogger(t))
}

func TestCreate_Success(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/Prod/crear", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"mensaje":"Expediente creado"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv, srv.URL+"/Prod/")
	res, err := client.Create(t.Context(), sampleRecord())
	require.NoError(t, err)
	assert.Equal(t, "Expediente creado", res.Text())

	assert.Nil(t, got["id_siniestro"])
	assert.Contains(t, got, "id_siniestro")
	rep := got["reparacion"].(map[string]interface{})
	assert.Equal(t, float64(100), rep["mo"])
}

func TestCreate_SuccessWithUnreadableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`OK`))
	}))
	defer srv.Close()

	res, err := newTestClient(t, srv, srv.URL).Create(t.Context(), sampleRecord())
	require.NoError(t, err)
	assert.Equal(t, "", res.Text())
}

func TestCreate_ServerError(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"with error field", `{"error":"DNI duplicado"}`, "DNI duplicado"},
		{"without body", ``, errors.MsgServerDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newTestClient(t, srv, srv.URL).Create(t.Context(), sampleRecord())
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrCodeServerError))
			assert.Equal(t, tt.wantMsg, errors.DisplayMessage(err))
		})
	}
}

func TestCreate_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	_, err := NewClient(base, commonhttp.NewClient(0), nil, logger.NewNoOpLogger()).Create(t.Context(), sampleRecord())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNetworkError))
	assert.NotEmpty(t, errors.DisplayMessage(err))
}

func TestCreate_SchemaViolationMakesNoRequest(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	rec := sampleRecord()
	rec.Cliente.DNI = "123"
	_, err := newTestClient(t, srv, srv.URL).Create(t.Context(), rec)

	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidationFailed))
	assert.Contains(t, errors.Fields(err), "cliente.dni")
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestLookup_FlatDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/consultar", r.URL.Path)
		assert.Equal(t, "12345678A B", r.URL.Query().Get("search"))
		_, _ = w.Write([]byte(`{
			"id_siniestro": "S-42", "nombre": "Ana", "taller": "Talleres Sur",
			"mano_obra": 100, "piezas": "200.50", "total": null,
			"pago_aseguradora": 250, "estado": "Pendiente de peritaje",
			"url_documento": "https://docs.example.es/S-42.pdf"
		}`))
	}))
	defer srv.Close()

	detail, err := newTestClient(t, srv, srv.URL).Lookup(t.Context(), "12345678A B")
	require.NoError(t, err)
	assert.Equal(t, "S-42", detail.IDSiniestro)
	assert.Equal(t, "100", detail.ManoObra.Decimal.String())
	assert.Equal(t, "200.5", detail.Piezas.Decimal.String())
	assert.False(t, detail.Total.Valid)
	assert.True(t, detail.HasPaymentSplit())
}

func TestLookup_NestedDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"id_siniestro": "S-7",
			"cliente": {"nombre": "Luis", "dni": "87654321B", "email": "luis@example.es"},
			"vehiculo": {"matricula": "0000BBB", "marca": "Opel", "modelo": "Corsa", "anio": 2009},
			"poliza": {"tipo": "TERCEROS", "limite": 0, "franquicia": 0},
			"reparacion": {"taller": "Garaje Norte", "mo": 80, "piezas": 20}
		}`))
	}))
	defer srv.Close()

	detail, err := newTestClient(t, srv, srv.URL).Lookup(t.Context(), "S-7")
	require.NoError(t, err)
	assert.Equal(t, "Luis", detail.Nombre)
	assert.Equal(t, "Garaje Norte", detail.Taller)
	assert.Equal(t, 2009, detail.Anio)
	assert.Equal(t, "TERCEROS", detail.TipoPoliza)
	assert.Equal(t, "80", detail.ManoObra.Decimal.String())
	assert.False(t, detail.HasPaymentSplit())
}

func TestLookup_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"no existe"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, srv.URL).Lookup(t.Context(), "nada")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeClaimNotFound))
}

func TestLookup_DecodeFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>gateway</html>`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, srv.URL).Lookup(t.Context(), "S-1")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNetworkError))
	assert.Contains(t, errors.DisplayMessage(err), "decode response")
}

func TestLookup_LenientFieldTypes(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		check func(t *testing.T, d *ClaimDetail)
	}{
		{
			name: "numeric claim id",
			body: `{"id_siniestro": 42, "nombre": "Ana", "mano_obra": 100, "piezas": 200}`,
			check: func(t *testing.T, d *ClaimDetail) {
				assert.Equal(t, "42", d.IDSiniestro)
				assert.Equal(t, "Ana", d.Nombre)
			},
		},
		{
			name: "year as string",
			body: `{"id_siniestro": "S-3", "anio": "2015", "limite": "5000,50"}`,
			check: func(t *testing.T, d *ClaimDetail) {
				assert.Equal(t, 2015, d.Anio)
				assert.Equal(t, "5000.5", d.Limite.Decimal.String())
			},
		},
		{
			name: "scalar sections",
			body: `{"id_siniestro": "S-1", "cliente": "Ana", "poliza": "TODO_RIESGO", "vehiculo": ["x"], "mano_obra": 10}`,
			check: func(t *testing.T, d *ClaimDetail) {
				assert.Equal(t, "S-1", d.IDSiniestro)
				assert.Equal(t, "Ana", d.Nombre)
				assert.Equal(t, "TODO_RIESGO", d.TipoPoliza)
				assert.Empty(t, d.Matricula)
				assert.Equal(t, "10", d.ManoObra.Decimal.String())
			},
		},
		{
			name: "unparsable amounts and mistyped nested fields",
			body: `{"piezas": "n/d", "estado": true, "reparacion": {"taller": "Sur", "mo": {"a": 1}}}`,
			check: func(t *testing.T, d *ClaimDetail) {
				assert.False(t, d.Piezas.Valid)
				assert.False(t, d.ManoObra.Valid)
				assert.Equal(t, "true", d.Estado)
				assert.Equal(t, "Sur", d.Taller)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			detail, err := newTestClient(t, srv, srv.URL).Lookup(t.Context(), "S-1")
			require.NoError(t, err)
			tt.check(t, detail)
		})
	}
}

func TestClaimDetail_RejectsNonObject(t *testing.T) {
	var d ClaimDetail
	assert.Error(t, json.Unmarshal([]byte(`["S-1"]`), &d))
	assert.Error(t, json.Unmarshal([]byte(`"S-1"`), &d))
}
