package http_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/materias-primas/internal/application/dto"
	pkgjwt "github.com/jhoicas/materias-primas/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testSiteID    = "W1" // UEB sembrada por newAPI
	testIssuer    = "materias-primas-test"
	testExpMin    = 60
)

func tokenFor(t *testing.T, siteID, role string, expMin int) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, siteID, role, testIssuer, expMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	return tokenFor(t, testSiteID, role, testExpMin)
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e), string(body))
	return e.Code
}

func TestAuth_ConsultaNoConfirmaDocumentos(t *testing.T) {
	app := newAPI(t)
	doc := createDoc(t, app, dto.CreateDocumentRequest{
		Kind: "RECEIPT", Date: "2026-03-10", ClientID: "C1", WarehouseID: "W1",
		Lines: []dto.DocumentLineRequest{{ProductID: "P", Quantity: decimal.NewFromInt(5)}},
	})

	resp, body := call(t, app, http.MethodPost, "/api/documents/"+doc.ID+"/confirm", "consulta", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", errorCode(t, body))

	// el documento sigue en borrador y sin efecto en existencias
	resp, body = call(t, app, http.MethodGet, "/api/documents/"+doc.ID, "consulta", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got dto.DocumentResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "DRAFT", got.Status)

	resp, body = call(t, app, http.MethodGet, "/api/stock/W1/P", "consulta", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var bal dto.BalanceResponse
	require.NoError(t, json.Unmarshal(body, &bal))
	assert.True(t, bal.Quantity.IsZero())
}

func TestAuth_AlmaceneroNoCreaAlmacenes(t *testing.T) {
	app := newAPI(t)
	parent := "W1"
	in := dto.CreateWarehouseRequest{Name: "Casa 2", Kind: "CASA_COMPRA", ParentID: &parent}

	resp, body := call(t, app, http.MethodPost, "/api/warehouses", "almacenero", in)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", errorCode(t, body))

	resp, body = call(t, app, http.MethodPost, "/api/warehouses", "admin", in)
	assert.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
}

func TestAuth_ConsultaLeeExistenciasPorUEB(t *testing.T) {
	app := newAPI(t)
	doc := createDoc(t, app, dto.CreateDocumentRequest{
		Kind: "RECEIPT", Date: "2026-03-10", ClientID: "C1", WarehouseID: "W1",
		Lines: []dto.DocumentLineRequest{{ProductID: "P", Quantity: decimal.NewFromInt(8)}},
	})
	resp, _ := call(t, app, http.MethodPost, "/api/documents/"+doc.ID+"/confirm", "almacenero", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for _, path := range []string{"/api/sites/W1/stock", "/api/sites/mine/stock"} {
		resp, body := call(t, app, http.MethodGet, path, "consulta", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, path+": "+string(body))
		var site dto.SiteBalanceListResponse
		require.NoError(t, json.Unmarshal(body, &site))
		require.Len(t, site.Items, 1, path)
		assert.True(t, site.Items[0].Quantity.Equal(decimal.NewFromInt(8)), path)
	}
}

func TestAuth_UEBPropiaRequiereClaim(t *testing.T) {
	app := newAPI(t)

	resp, body := callWithAuth(t, app, http.MethodGet, "/api/sites/mine/stock", tokenFor(t, "", "consulta", testExpMin), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "MISSING_SITE", errorCode(t, body))

	resp, _ = callWithAuth(t, app, http.MethodGet, "/api/sites/mine/stock", tokenFor(t, "NO-EXISTE", "consulta", testExpMin), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAuth_TokenRechazado(t *testing.T) {
	app := newAPI(t)

	tests := []struct {
		name string
		auth string
		code string
	}{
		{"sin cabecera", "", "MISSING_TOKEN"},
		{"malformado", "Bearer token.invalido.aqui", "INVALID_TOKEN"},
		{"expirado", tokenFor(t, testSiteID, "admin", -1), "INVALID_TOKEN"},
		{"sin rol", tokenFor(t, testSiteID, "", testExpMin), "MISSING_ROLE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := callWithAuth(t, app, http.MethodGet, "/api/stock/W1/P", tt.auth, nil)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, tt.code, errorCode(t, body))
		})
	}
}

func TestAuth_RolDesconocido(t *testing.T) {
	app := newAPI(t)
	resp, body := callWithAuth(t, app, http.MethodGet, "/api/stock/W1/P", tokenFor(t, testSiteID, "auditor", testExpMin), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", errorCode(t, body))
}
