package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-pharmacy-service/internal/product/handler"
	"github.com/fekuna/omnipos-pharmacy-service/internal/product/repository"
	"github.com/fekuna/omnipos-pharmacy-service/internal/product/usecase"
	"github.com/fekuna/omnipos-pharmacy-service/internal/store"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/i18n"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/logger"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := store.NewMemDB()
	require.NoError(t, err)
	uc := usecase.NewProductUseCase(repository.NewMemRepository(db), usecase.Options{DefaultReorderThreshold: 5}, logger.NewNop())
	h := handler.NewProductHandler(uc, logger.NewNop())

	tr, err := i18n.New("pt-BR")
	require.NoError(t, err)

	r := gin.New()
	r.Use(response.Localizer(tr))
	r.POST("/produtos/create", h.CreateProduct)
	r.GET("/produtos/findById/:id", h.GetProduct)
	r.PUT("/produtos/update/:id", h.UpdateProduct)
	r.DELETE("/produtos/delete/:id", h.DeleteProduct)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestProductLifecycle(t *testing.T) {
	r := setup(t)

	w := do(r, http.MethodPost, "/produtos/create",
		`{"nome":"Dipirona","preco":5.5,"quantidadeEmEstoque":10,"validade":"2026-08-01","formaFarmaceutica":"Comprimido"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Message string         `json:"message"`
		Product map[string]any `json:"product"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Produto criado com sucesso.", created.Message)
	assert.Equal(t, 5.5, created.Product["preco"])
	assert.Equal(t, "2026-08-01T00:00:00Z", created.Product["validade"])
	id := created.Product["id"].(string)

	w = do(r, http.MethodPut, "/produtos/update/"+id, `{"preco":7,"quantidadeEmEstoque":999}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/produtos/findById/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, float64(7), got["preco"])
	assert.Equal(t, float64(10), got["quantidadeEmEstoque"])

	w = do(r, http.MethodDelete, "/produtos/delete/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/produtos/findById/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateProduct_Errors(t *testing.T) {
	r := setup(t)
	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/produtos/create", `{"nome":"A","preco":1,"codigoBarras":"789"}`).Code)

	tests := []struct {
		name   string
		body   string
		status int
		msg    string
	}{
		{"missing price", `{"nome":"A"}`, http.StatusBadRequest, "Nome e preço são obrigatórios."},
		{"negative price", `{"nome":"A","preco":-1}`, http.StatusBadRequest, "O preço não pode ser negativo."},
		{"bad date", `{"nome":"A","preco":1,"validade":"amanhã"}`, http.StatusBadRequest, "Campo inválido: validade."},
		{"bad form", `{"nome":"A","preco":1,"formaFarmaceutica":"Spray"}`, http.StatusBadRequest, "Campo inválido: formaFarmaceutica."},
		{"barcode taken", `{"nome":"B","preco":1,"codigoBarras":"789"}`, http.StatusConflict, "Código de barras já cadastrado."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/produtos/create", tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, `{"message":"`+tt.msg+`"}`, w.Body.String())
		})
	}
}

func TestProduct_InvalidID(t *testing.T) {
	r := setup(t)
	w := do(r, http.MethodGet, "/produtos/findById/123", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
