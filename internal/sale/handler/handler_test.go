package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fekuna/omnipos-pharmacy-service/internal/auth"
	"github.com/fekuna/omnipos-pharmacy-service/internal/events"
	inventoryrepo "github.com/fekuna/omnipos-pharmacy-service/internal/inventory/repository"
	"github.com/fekuna/omnipos-pharmacy-service/internal/model"
	"github.com/fekuna/omnipos-pharmacy-service/internal/sale/handler"
	"github.com/fekuna/omnipos-pharmacy-service/internal/sale/repository"
	"github.com/fekuna/omnipos-pharmacy-service/internal/sale/usecase"
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

const productID = "7f1c2a9e-4b1e-4c55-9d0a-2f3b8f6d1a10"

type memIdempotency map[string]bool

func (m memIdempotency) Reserve(_ context.Context, key string, _ time.Duration) (bool, error) {
	if m[key] {
		return false, nil
	}
	m[key] = true
	return true, nil
}

func (m memIdempotency) Release(_ context.Context, key string) error {
	delete(m, key)
	return nil
}

func setup(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := store.NewMemDB()
	require.NoError(t, err)
	require.NoError(t, db.Write(context.Background(), func(txn *memdb.Txn) error {
		return db.PutProduct(txn, &model.Product{
			ID: productID, Name: "Dipirona", Price: decimal.RequireFromString("5.0"),
			Quantity: 10, ReorderThreshold: 5, Active: true, Version: 1,
		})
	}))

	uc := usecase.NewSaleUseCase(repository.NewMemRepository(db), inventoryrepo.NewMemRepository(db), db,
		events.NoopPublisher{}, memIdempotency{}, usecase.Options{MaxConflictRetries: 3}, logger.NewNop())
	h := handler.NewSaleHandler(uc, logger.NewNop())

	tr, err := i18n.New("pt-BR")
	require.NoError(t, err)
	tm := auth.NewTokenManager("test-secret", time.Hour)
	token, err := tm.Issue(&model.User{ID: "u1", Name: "Ana", Role: model.RoleAdmin})
	require.NoError(t, err)

	r := gin.New()
	r.Use(response.Localizer(tr))
	g := r.Group("/vendas", auth.Authenticate(tm))
	g.POST("/registrar", h.RegisterSale)
	g.GET("/relatorio", h.ListSales)
	return r, token
}

func do(r *gin.Engine, method, path, token, body string, headers ...string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	r.ServeHTTP(w, req)
	return w
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Message
}

func TestRegisterSale_ActorFromToken(t *testing.T) {
	r, token := setup(t)

	w := do(r, http.MethodPost, "/vendas/registrar", token,
		`{"usuarioNome":"Mallory","usuarioId":"forged","role":"ADMIN","itens":[{"produtoId":"`+productID+`","quantidade":3}]}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Ana", body["usuario"])
	assert.Equal(t, "u1", body["usuarioId"])
	assert.Equal(t, float64(15), body["total"])
	items := body["itens"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, float64(5), items[0].(map[string]any)["precoUnitario"])

	w = do(r, http.MethodGet, "/vendas/relatorio", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	var sales []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sales))
	assert.Len(t, sales, 1)
}

func TestRegisterSale_Errors(t *testing.T) {
	r, token := setup(t)

	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{"empty cart", `{"itens":[]}`, http.StatusBadRequest, "O carrinho está vazio."},
		{"bad body", `{"itens":"x"}`, http.StatusBadRequest, "Corpo da requisição inválido."},
		{"zero quantity", `{"itens":[{"produtoId":"` + productID + `","quantidade":0}]}`, http.StatusBadRequest, "A quantidade deve ser maior que zero."},
		{"unknown product", `{"itens":[{"produtoId":"nope","quantidade":1}]}`, http.StatusBadRequest, "Produto não encontrado (ID: nope)"},
		{"insufficient stock", `{"itens":[{"produtoId":"` + productID + `","quantidade":11}]}`, http.StatusBadRequest, "Estoque insuficiente para: Dipirona. Restam: 10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/vendas/registrar", token, tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.message, message(t, w))
		})
	}
}

func TestRegisterSale_IdempotencyKey(t *testing.T) {
	r, token := setup(t)
	body := `{"itens":[{"produtoId":"` + productID + `","quantidade":1}]}`

	w := do(r, http.MethodPost, "/vendas/registrar", token, body, "Idempotency-Key", "abc-1")
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(r, http.MethodPost, "/vendas/registrar", token, body, "Idempotency-Key", "abc-1")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodPost, "/vendas/registrar", token, body, "Idempotency-Key", "abc-1", "Accept-Language", "en")
	assert.Equal(t, "This sale has already been registered.", message(t, w))
}

func TestRegisterSale_RequiresToken(t *testing.T) {
	r, _ := setup(t)

	w := do(r, http.MethodPost, "/vendas/registrar", "", `{"itens":[]}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
