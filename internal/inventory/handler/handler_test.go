package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fekuna/omnipos-pharmacy-service/internal/events"
	"github.com/fekuna/omnipos-pharmacy-service/internal/inventory/handler"
	"github.com/fekuna/omnipos-pharmacy-service/internal/inventory/repository"
	"github.com/fekuna/omnipos-pharmacy-service/internal/inventory/usecase"
	"github.com/fekuna/omnipos-pharmacy-service/internal/model"
	"github.com/fekuna/omnipos-pharmacy-service/internal/store"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/i18n"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/logger"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-memdb"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productID = "0b6f0c1e-8f7b-4a55-9d3b-1e2f3a4b5c6d"

func setup(t *testing.T, products ...*model.Product) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := store.NewMemDB()
	require.NoError(t, err)
	require.NoError(t, db.Write(context.Background(), func(txn *memdb.Txn) error {
		for _, p := range products {
			if err := db.PutProduct(txn, p); err != nil {
				return err
			}
		}
		return nil
	}))

	uc := usecase.NewInventoryUseCase(repository.NewMemRepository(db), db, events.NoopPublisher{}, usecase.Options{
		MaxConflictRetries: 3,
		Now:                func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) },
	}, logger.NewNop())
	h := handler.NewInventoryHandler(uc, logger.NewNop())

	tr, err := i18n.New("pt-BR")
	require.NoError(t, err)

	r := gin.New()
	r.Use(response.Localizer(tr))
	r.POST("/produtos/entrada/:id", h.Entry)
	r.POST("/produtos/saida/:id", h.Exit)
	r.GET("/produtos/movimentacoes/:id", h.Movements)
	r.GET("/produtos/criticalStorage", h.CriticalStock)
	r.GET("/produtos/expirationDate", h.CriticalExpiry)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func dipirona(qty int) *model.Product {
	return &model.Product{ID: productID, Name: "Dipirona", Price: decimal.NewFromInt(5), Quantity: qty, ReorderThreshold: 5, Active: true, Version: 1}
}

func TestEntry(t *testing.T) {
	r := setup(t, dipirona(10))

	w := do(r, http.MethodPost, "/produtos/entrada/"+productID, `{"quantidade": 5, "observacao": "Compra"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(15), body["quantidadeEmEstoque"])
	ledger := body["historicoMovimentacao"].([]any)
	require.Len(t, ledger, 1)
	assert.Equal(t, "entrada", ledger[0].(map[string]any)["tipo"])
}

func TestExit_Errors(t *testing.T) {
	r := setup(t, dipirona(2))

	tests := []struct {
		name    string
		path    string
		body    string
		status  int
		message string
	}{
		{"invalid id", "/produtos/saida/abc", `{"quantidade": 1}`, http.StatusBadRequest, "ID inválido."},
		{"bad body", "/produtos/saida/" + productID, `{"quantidade": "um"}`, http.StatusBadRequest, "Corpo da requisição inválido."},
		{"zero quantity", "/produtos/saida/" + productID, `{"quantidade": 0}`, http.StatusBadRequest, "A quantidade deve ser maior que zero."},
		{"beyond stock", "/produtos/saida/" + productID, `{"quantidade": 3}`, http.StatusBadRequest, "Estoque insuficiente"},
		{"unknown product", "/produtos/saida/9a1f6c2e-0000-4000-8000-000000000000", `{"quantidade": 1}`, http.StatusNotFound, "Produto não encontrado."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, `{"message":"`+tt.message+`"}`, w.Body.String())
		})
	}
}

func TestCriticalStock(t *testing.T) {
	r := setup(t, dipirona(5))

	w := do(r, http.MethodGet, "/produtos/criticalStorage", "")
	require.Equal(t, http.StatusOK, w.Code)
	var items []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, productID, items[0]["id"])
}

func TestCriticalViews_EmptyIsNotFound(t *testing.T) {
	r := setup(t, dipirona(6))

	w := do(r, http.MethodGet, "/produtos/criticalStorage", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodGet, "/produtos/expirationDate", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Nenhum produto próximo do vencimento."}`, w.Body.String())
}

func TestMovements(t *testing.T) {
	r := setup(t, dipirona(10))
	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/produtos/saida/"+productID, `{"quantidade": 1}`).Code)

	w := do(r, http.MethodGet, "/produtos/movimentacoes/"+productID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var movements []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &movements))
	require.Len(t, movements, 1)
	assert.Equal(t, "saida", movements[0]["tipo"])
}
