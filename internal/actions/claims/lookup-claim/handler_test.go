// internal/actions/claims/lookup-claim/handler_test.go
package lookupclaim

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"claims-portal/internal/common/claimsapi"
	commonhttp "claims-portal/internal/common/http"
	"claims-portal/internal/common/logger"
	"claims-portal/internal/common/view"
	"claims-portal/internal/settlement"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeAPI(t *testing.T, calls *int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		switch r.URL.Query().Get("search") {
		case "S-42":
			_, _ = w.Write([]byte(`{"id_siniestro":"S-42","nombre":"Ana","taller":"Talleres Sur",
				"mano_obra":100,"piezas":200,"estado":"Pendiente","url_documento":"https://docs.example.es/S-42.pdf"}`))
		case "broken":
			_, _ = w.Write([]byte(`not json`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newRouter(t *testing.T, base string) *mux.Router {
	t.Helper()
	renderer, err := view.New()
	require.NoError(t, err)
	api := claimsapi.NewClient(base, commonhttp.NewClient(0), nil, logger.NewNoOpLogger())
	h := NewHandler(&Config{}, api, settlement.NewCalculator(), renderer, nil, logger.NewTestLogger(t))
	r := mux.NewRouter()
	h.Register(r)
	return r
}

func get(router http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestLookup_Found(t *testing.T) {
	calls := 0
	srv := fakeAPI(t, &calls)

	w := get(newRouter(t, srv.URL), "/consultar?search=+S-42+")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Detalle del Expediente")
	assert.Contains(t, body, "300.00€")
	assert.Contains(t, body, `badge bg-warning`)
	assert.Contains(t, body, `value="S-42"`)
	assert.Equal(t, 1, calls)
}

func TestLookup_EmptyQueryMakesNoCall(t *testing.T) {
	calls := 0
	srv := fakeAPI(t, &calls)

	w := get(newRouter(t, srv.URL), "/consultar?search=%20%20")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), MsgEmptyQuery)
	assert.Equal(t, 0, calls)
}

func TestLookup_NotFoundIsNotAnError(t *testing.T) {
	calls := 0
	srv := fakeAPI(t, &calls)
	renderer, err := view.New()
	require.NoError(t, err)
	api := claimsapi.NewClient(srv.URL, commonhttp.NewClient(0), nil, logger.NewNoOpLogger())
	h := NewHandler(&Config{}, api, nil, renderer, nil, logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), "99999999Z")
	require.NoError(t, err)
	assert.False(t, out.Found)

	w := get(newRouter(t, srv.URL), "/consultar?search=99999999Z")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), MsgNotFound)
	assert.Contains(t, w.Body.String(), "alert-warning")
}

func TestLookup_DecodeFailure(t *testing.T) {
	calls := 0
	srv := fakeAPI(t, &calls)

	w := get(newRouter(t, srv.URL), "/consultar?search=broken")

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), MsgConnectFail)
	assert.Contains(t, w.Body.String(), "alert-danger")
}

func TestLookup_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	w := get(newRouter(t, base), "/consultar?search=S-1")

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), MsgConnectFail)
}

func detailFrom(t *testing.T, raw string) *claimsapi.ClaimDetail {
	t.Helper()
	var d claimsapi.ClaimDetail
	require.NoError(t, json.Unmarshal([]byte(raw), &d))
	return &d
}

func TestResolveTotal(t *testing.T) {
	assert.Equal(t, "300", ResolveTotal(detailFrom(t, `{"mano_obra":100,"piezas":200}`)).String())
	assert.Equal(t, "300", ResolveTotal(detailFrom(t, `{"mano_obra":100,"piezas":200,"total":0}`)).String())
	assert.Equal(t, "363", ResolveTotal(detailFrom(t, `{"mano_obra":100,"piezas":200,"total":363}`)).String())
	assert.True(t, ResolveTotal(detailFrom(t, `{}`)).IsZero())
}

func TestStatusBadge(t *testing.T) {
	assert.Equal(t, view.VariantWarning, StatusBadge("PENDIENTE de peritaje"))
	assert.Equal(t, view.VariantSuccess, StatusBadge("Finalizado"))
	assert.Equal(t, view.VariantSecondary, StatusBadge("En reparación"))
	assert.Equal(t, view.VariantSecondary, StatusBadge(""))
}

func TestBuildDetailCard_Defaults(t *testing.T) {
	card := BuildDetailCard(detailFrom(t, `{}`), settlement.NewCalculator())

	assert.Equal(t, "N/A", card.IDSiniestro)
	assert.Equal(t, "Desconocido", card.Cliente)
	assert.Equal(t, "No asignado", card.Taller)
	assert.Equal(t, "0.00€", card.Total)
	assert.False(t, card.ShowSplit)
	assert.Empty(t, card.DocumentURL)
	assert.Empty(t, card.Vehiculo)
	assert.Empty(t, card.Limite)
}

func TestBuildDetailCard_VehicleAndPolicy(t *testing.T) {
	card := BuildDetailCard(detailFrom(t, `{"dni":"12345678Z","matricula":"1234ABC","marca":"Seat","modelo":"Ibiza","anio":2010,
		"tipo_poliza":"TODO_RIESGO_FRANQUICIA","limite":5000,"franquicia":"150"}`), nil)

	assert.Equal(t, "12345678Z", card.DNI)
	assert.Equal(t, "1234ABC", card.Matricula)
	assert.Equal(t, "Seat Ibiza (2010)", card.Vehiculo)
	assert.Equal(t, "5000.00€", card.Limite)
	assert.Equal(t, "150.00€", card.Franquicia)
}

func TestBuildDetailCard_APISplitWins(t *testing.T) {
	card := BuildDetailCard(detailFrom(t, `{"tipo_poliza":"TODO_RIESGO","mano_obra":100,"piezas":200,"pago_aseguradora":"250.5"}`),
		settlement.NewCalculator())

	assert.True(t, card.ShowSplit)
	assert.False(t, card.SplitEstimated)
	assert.Equal(t, "250.50€", card.PagoAseguradora)
	assert.Equal(t, "0.00€", card.PagoCliente)
}

func TestBuildDetailCard_EstimatedSplit(t *testing.T) {
	calc := settlement.NewCalculatorAt(func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) })
	d := detailFrom(t, `{"tipo_poliza":"TODO_RIESGO","limite":5000,"anio":2020,"mano_obra":100,"piezas":200}`)

	card := BuildDetailCard(d, calc)

	assert.True(t, card.SplitEstimated)
	assert.Equal(t, "363.00€", card.PagoAseguradora)
	assert.Equal(t, "0.00€", card.PagoCliente)
	assert.NotEmpty(t, card.Note)
	assert.True(t, decimal.NewFromInt(300).Equal(ResolveTotal(d)))
}
