package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/materias-primas/internal/application/dto"
	"github.com/jhoicas/materias-primas/internal/application/inventory"
	"github.com/jhoicas/materias-primas/internal/application/usecase"
	"github.com/jhoicas/materias-primas/internal/domain/entity"
	"github.com/jhoicas/materias-primas/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/materias-primas/internal/interfaces/http"
)

// newAPI monta el router completo sobre el backend en memoria con W1 (UEB), producto P y cliente C1.
func newAPI(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore(0)
	ctx := context.Background()
	now := time.Now().UTC()
	require.NoError(t, store.Warehouses().Create(ctx, &entity.Warehouse{ID: "W1", Name: "UEB Centro", Kind: entity.WarehouseKindUEB, CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "P", Code: "COBRE", Name: "Cobre", UnitMeasure: "kg", CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, store.Clients().Create(ctx, &entity.Client{ID: "C1", Code: "01", Name: "Proveedor", CreatedAt: now, UpdatedAt: now}))

	tx := memory.NewTxRunner(store)
	master := inventory.MasterData{Products: store.Products(), Warehouses: store.Warehouses(), Clients: store.Clients()}
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Documents:   inventory.NewDocumentUseCase(store.Documents(), tx, master, zerolog.Nop()),
		Engine:      inventory.NewPostingEngine(store.Documents(), tx, master, nil, inventory.EngineConfig{}, zerolog.Nop()),
		Stock:       inventory.NewStockQueryUseCase(store.Stock(), store.Movements(), store.Warehouses()),
		WarehouseUC: usecase.NewWarehouseUseCase(store.Warehouses()),
		ProductUC:   usecase.NewProductUseCase(store.Products()),
		ClientUC:    usecase.NewClientUseCase(store.Clients()),
		JWTSecret:   testJWTSecret,
		ServiceName: "materias-primas",
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, role string, body any) (*http.Response, []byte) {
	t.Helper()
	auth := ""
	if role != "" {
		auth = tokenForRole(t, role)
	}
	return callWithAuth(t, app, method, path, auth, body)
}

func callWithAuth(t *testing.T, app *fiber.App, method, path, auth string, body any) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out bytes.Buffer
	_, err = out.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, out.Bytes()
}

func createDoc(t *testing.T, app *fiber.App, in dto.CreateDocumentRequest) dto.DocumentResponse {
	t.Helper()
	resp, body := call(t, app, http.MethodPost, "/api/documents", "almacenero", in)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var doc dto.DocumentResponse
	require.NoError(t, json.Unmarshal(body, &doc))
	return doc
}

func TestAPI_FlujoEntradaYVenta(t *testing.T) {
	app := newAPI(t)

	receipt := createDoc(t, app, dto.CreateDocumentRequest{
		Kind: "RECEIPT", Date: "2026-03-10", ClientID: "C1", WarehouseID: "W1",
		Lines: []dto.DocumentLineRequest{{ProductID: "P", Quantity: decimal.NewFromInt(100), PriceMN: decimal.NewFromInt(2)}},
	})
	assert.Equal(t, "DRAFT", receipt.Status)
	assert.True(t, receipt.TotalMN.Equal(decimal.NewFromInt(200)))

	resp, body := call(t, app, http.MethodPost, "/api/documents/"+receipt.ID+"/confirm", "almacenero", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var confirmed dto.ConfirmDocumentResponse
	require.NoError(t, json.Unmarshal(body, &confirmed))
	assert.Equal(t, "CONFIRMED", confirmed.Document.Status)
	require.Len(t, confirmed.Changes, 1)
	assert.True(t, confirmed.Changes[0].BalanceAfter.Equal(decimal.NewFromInt(100)))

	resp, body = call(t, app, http.MethodPost, "/api/documents/"+receipt.ID+"/confirm", "almacenero", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "ALREADY_CONFIRMED")

	sale := createDoc(t, app, dto.CreateDocumentRequest{
		Kind: "SALE", Date: "2026-03-11", ClientID: "C1", WarehouseID: "W1",
		Lines: []dto.DocumentLineRequest{{ProductID: "P", Quantity: decimal.NewFromInt(150)}},
	})
	resp, body = call(t, app, http.MethodPost, "/api/documents/"+sale.ID+"/confirm", "admin", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "NEGATIVE_STOCK")

	resp, body = call(t, app, http.MethodGet, "/api/stock/W1/P", "consulta", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var bal dto.BalanceResponse
	require.NoError(t, json.Unmarshal(body, &bal))
	assert.True(t, bal.Quantity.Equal(decimal.NewFromInt(100)))

	resp, body = call(t, app, http.MethodGet, "/api/stock/W1/P/movements", "consulta", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var kardex dto.MovementListResponse
	require.NoError(t, json.Unmarshal(body, &kardex))
	assert.Len(t, kardex.Items, 1)

	resp, _ = call(t, app, http.MethodDelete, "/api/documents/"+sale.ID, "almacenero", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = call(t, app, http.MethodDelete, "/api/documents/"+receipt.ID, "almacenero", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestAPI_ErroresDeValidacion(t *testing.T) {
	app := newAPI(t)

	// falla en el validador de la petición
	resp, body := call(t, app, http.MethodPost, "/api/documents", "almacenero", dto.CreateDocumentRequest{Kind: "REGALO", Date: "10/03/2026"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var errResp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, "VALIDATION", errResp.Code)
	assert.Len(t, errResp.Problems, 2)

	// falla en las reglas del documento: línea con cantidad cero
	resp, body = call(t, app, http.MethodPost, "/api/documents", "almacenero", dto.CreateDocumentRequest{
		Kind: "SALE", Date: "2026-03-10", ClientID: "C1", WarehouseID: "W1",
		Lines: []dto.DocumentLineRequest{{ProductID: "P", Quantity: decimal.Zero}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &errResp))
	require.NotEmpty(t, errResp.Problems)
	assert.Equal(t, 1, errResp.Problems[0].Line)
	assert.Equal(t, "quantity", errResp.Problems[0].Field)

	// referencia inexistente al crear
	resp, _ = call(t, app, http.MethodPost, "/api/documents", "almacenero", dto.CreateDocumentRequest{
		Kind: "RECEIPT", Date: "2026-03-10", ClientID: "C1", WarehouseID: "W9",
		Lines: []dto.DocumentLineRequest{{ProductID: "P", Quantity: decimal.NewFromInt(1)}},
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = call(t, app, http.MethodPost, "/api/documents/NO-EXISTE/confirm", "almacenero", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_PermisosPorRol(t *testing.T) {
	app := newAPI(t)

	resp, _ := call(t, app, http.MethodPost, "/api/documents", "consulta", dto.CreateDocumentRequest{Kind: "RECEIPT", Date: "2026-03-10"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = call(t, app, http.MethodGet, "/api/stock/W1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = call(t, app, http.MethodPost, "/api/warehouses", "almacenero", dto.CreateWarehouseRequest{Name: "Casa", Kind: "CASA_COMPRA"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAPI_MaestroYExistenciasPorUEB(t *testing.T) {
	app := newAPI(t)

	parent := "W1"
	resp, body := call(t, app, http.MethodPost, "/api/warehouses", "admin", dto.CreateWarehouseRequest{Name: "Casa 1", Kind: "CASA_COMPRA", ParentID: &parent, Municipality: "Cerro"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var casa dto.WarehouseResponse
	require.NoError(t, json.Unmarshal(body, &casa))

	resp, _ = call(t, app, http.MethodPost, "/api/products", "admin", dto.CreateProductRequest{Code: "COBRE", Name: "Otro", UnitMeasure: "kg"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	doc := createDoc(t, app, dto.CreateDocumentRequest{
		Kind: "RECEIPT", Date: "2026-03-10", ClientID: "C1", WarehouseID: casa.ID,
		Lines: []dto.DocumentLineRequest{{ProductID: "P", Quantity: decimal.RequireFromString("12.5")}},
	})
	resp, _ = call(t, app, http.MethodPost, "/api/documents/"+doc.ID+"/confirm", "almacenero", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = call(t, app, http.MethodGet, "/api/sites/W1/stock", "consulta", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var site dto.SiteBalanceListResponse
	require.NoError(t, json.Unmarshal(body, &site))
	require.Len(t, site.Items, 1)
	assert.True(t, site.Items[0].Quantity.Equal(decimal.RequireFromString("12.5")))

	resp, _ = call(t, app, http.MethodGet, "/api/stock/NO-EXISTE", "consulta", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_Health(t *testing.T) {
	app := newAPI(t)
	resp, body := call(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"ok"`)
}
