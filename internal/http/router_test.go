package http_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cestas/internal/app"
	"github.com/MrJamesThe3rd/cestas/internal/auth"
	cestasHttp "github.com/MrJamesThe3rd/cestas/internal/http"
	authHandler "github.com/MrJamesThe3rd/cestas/internal/http/auth"
	basketHandler "github.com/MrJamesThe3rd/cestas/internal/http/basket"
	exportHandler "github.com/MrJamesThe3rd/cestas/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/cestas/internal/http/importcsv"
	itemHandler "github.com/MrJamesThe3rd/cestas/internal/http/item"
	reportHandler "github.com/MrJamesThe3rd/cestas/internal/http/report"
	txHandler "github.com/MrJamesThe3rd/cestas/internal/http/transaction"
	"github.com/MrJamesThe3rd/cestas/internal/kv/memory"
)

type server struct {
	t       *testing.T
	handler http.Handler
	token   string
}

func newServer(t *testing.T) *server {
	t.Helper()

	a := app.Build(memory.New())
	authSvc := auth.NewService(auth.Config{
		Username: "admin",
		Password: "123456",
		Secret:   "test",
		TokenTTL: time.Hour,
	})

	h := cestasHttp.New(cestasHttp.Handlers{
		Auth:         authHandler.NewHandler(authSvc),
		Items:        itemHandler.NewHandler(a.Items, a.Sales),
		Baskets:      basketHandler.NewHandler(a.Baskets, a.Items),
		Transactions: txHandler.NewHandler(a.Transactions, a.Items),
		Reports:      reportHandler.NewHandler(a.Items, a.Transactions),
		Import:       importHandler.NewHandler(a.Import),
		Export:       exportHandler.NewHandler(a.Export),
	}, cestasHttp.Options{
		AllowedOrigins: []string{"*"},
		RequireAuth:    authSvc.Middleware,
	})

	return &server{t: t, handler: h}
}

func (s *server) do(method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	return rec
}

func (s *server) login() {
	s.t.Helper()

	rec := s.do(http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "admin", "password": "123456"})
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &resp))

	s.token = resp.Token
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())

	return v
}

func TestAuth(t *testing.T) {
	s := newServer(t)

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/items", nil).Code)

	rec := s.do(http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "admin", "password": "errada"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	s.login()
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/v1/items", nil).Code)
}

func TestItems(t *testing.T) {
	s := newServer(t)
	s.login()

	items := decode[[]map[string]any](t, s.do(http.MethodGet, "/api/v1/items?q=arroz", nil))
	require.Len(t, items, 1)
	assert.Equal(t, "Arroz", items[0]["name"])

	rec := s.do(http.MethodPost, "/api/v1/items", map[string]any{
		"name":         "Detergente",
		"quantity":     12,
		"min_quantity": 6,
		"unit":         "un",
		"unit_price":   "2.99",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decode[map[string]any](t, rec)
	id := created["id"].(string)
	assert.NotEmpty(t, id)

	rec = s.do(http.MethodPost, "/api/v1/items/"+id+"/adjust", map[string]int{"delta": -20})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, decode[map[string]any](t, rec)["quantity"])

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/v1/items", map[string]any{"unit": "kg"}).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/v1/items/nope", nil).Code)
	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, "/api/v1/items/"+id, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/api/v1/items/"+id, nil).Code)
}

func TestApplySales(t *testing.T) {
	s := newServer(t)
	s.login()

	rec := s.do(http.MethodPost, "/api/v1/items/apply-sales", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	first := decode[[]map[string]any](t, rec)
	for _, it := range first {
		assert.GreaterOrEqual(t, it["quantity"].(float64), 0.0)
	}

	// seed sells 20 kg of café out of 8
	got := decode[map[string]any](t, s.do(http.MethodGet, "/api/v1/items/4", nil))
	assert.EqualValues(t, 0, got["quantity"])

	rec = s.do(http.MethodPost, "/api/v1/items/4/adjust", map[string]int{"delta": 6})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/api/v1/items/apply-sales", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	second := decode[[]map[string]any](t, rec)
	require.Len(t, second, len(first))

	for i := range first {
		if first[i]["id"] == "4" {
			assert.EqualValues(t, 6, second[i]["quantity"])
			continue
		}

		assert.Equal(t, first[i]["quantity"], second[i]["quantity"], first[i]["name"])
	}
}

func TestBasketFeasibility(t *testing.T) {
	s := newServer(t)
	s.login()

	rec := s.do(http.MethodGet, "/api/v1/baskets/1/feasibility", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[struct {
		MaxBaskets int `json:"max_baskets"`
		Limiting   []struct {
			Name string `json:"name"`
		} `json:"limiting_items"`
		Cost string `json:"cost"`
	}](t, rec)

	assert.Equal(t, 4, resp.MaxBaskets)
	require.Len(t, resp.Limiting, 1)
	assert.Equal(t, "Café", resp.Limiting[0].Name)
	assert.Equal(t, "181.85", resp.Cost)

	rec = s.do(http.MethodPost, "/api/v1/baskets", map[string]any{
		"name":  "Cesta Mínima",
		"lines": []map[string]any{{"item_id": "1", "quantity": 1}, {"item_id": "1", "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decode[struct {
		Lines []struct {
			ItemName string `json:"item_name"`
			Quantity int    `json:"quantity"`
		} `json:"lines"`
	}](t, rec)
	require.Len(t, created.Lines, 1)
	assert.Equal(t, 3, created.Lines[0].Quantity)
	assert.Equal(t, "Arroz", created.Lines[0].ItemName)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/v1/baskets", map[string]any{"name": "Vazia"}).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/v1/baskets/99/feasibility", nil).Code)
}

func TestTransactionsAndReports(t *testing.T) {
	s := newServer(t)
	s.login()

	rec := s.do(http.MethodPost, "/api/v1/transactions", map[string]any{
		"date":        "2023-05-01",
		"item_id":     "1",
		"quantity":    10,
		"total_price": "55.00",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	id := decode[map[string]any](t, rec)["id"].(string)

	rec = s.do(http.MethodPatch, "/api/v1/transactions/"+id, map[string]any{"description": "Reposição"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, decode[map[string]any](t, rec)["id"])

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/v1/transactions", map[string]any{"item_id": "1"}).Code)

	list := decode[[]map[string]any](t, s.do(http.MethodGet, "/api/v1/transactions?start_date=2023-04-01&end_date=2023-04-30", nil))
	assert.Len(t, list, 3)

	finance := decode[struct {
		TotalSpent string `json:"total_spent"`
		SpentToday string `json:"spent_today"`
		Monthly    []struct {
			Label string `json:"label"`
		} `json:"monthly"`
		Recent []struct {
			ID string `json:"id"`
		} `json:"recent"`
	}](t, s.do(http.MethodGet, "/api/v1/reports/finance?date=2023-04-20", nil))

	assert.Equal(t, "1657.5", finance.TotalSpent)
	assert.Equal(t, "362.5", finance.SpentToday)
	require.Len(t, finance.Monthly, 3)
	assert.Equal(t, "Mar", finance.Monthly[0].Label)
	require.Len(t, finance.Recent, 3)
	assert.Equal(t, id, finance.Recent[0].ID)

	stock := decode[struct {
		LowStockCount int `json:"low_stock_count"`
		Categories    []struct {
			Category string `json:"category"`
		} `json:"categories"`
	}](t, s.do(http.MethodGet, "/api/v1/reports/stock", nil))

	assert.Equal(t, 1, stock.LowStockCount)
	assert.Len(t, stock.Categories, 3)
}

func TestExport(t *testing.T) {
	s := newServer(t)
	s.login()

	rec := s.do(http.MethodPost, "/api/v1/export", map[string]any{"type": "inventory"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Nome;Categoria;"))

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/v1/export", map[string]any{"type": "pdf"}).Code)

	rec = s.do(http.MethodPost, "/api/v1/export/download", map[string]any{"start_date": "2023-04-01"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/zip", rec.Header().Get("Content-Type"))
}

func TestImport(t *testing.T) {
	s := newServer(t)
	s.login()

	var body bytes.Buffer

	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "estoque.csv")
	require.NoError(t, err)

	_, err = fw.Write([]byte("Nome;Quantidade;Unidade;Preço unitário\nArroz;10;kg;5,75\nSabão em pó;6;un;12,90\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.token)

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[struct {
		Created []map[string]any `json:"created"`
		Updated []map[string]any `json:"updated"`
	}](t, rec)

	require.Len(t, resp.Created, 1)
	require.Len(t, resp.Updated, 1)
	assert.EqualValues(t, 60, resp.Updated[0]["quantity"])
}
