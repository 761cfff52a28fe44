package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fekuna/omnipos-pharmacy-service/pkg/i18n"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFail_LocalizesMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tr, err := i18n.New("pt-BR")
	require.NoError(t, err)

	r := gin.New()
	r.Use(Localizer(tr))
	r.GET("/", func(c *gin.Context) {
		Fail(c, http.StatusBadRequest, i18n.MsgEmptyCart, nil)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "en")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"The cart is empty."}`, w.Body.String())
}

func TestFail_WithoutTranslatorUsesMessageID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		Fail(c, http.StatusNotFound, i18n.MsgProductNotFound, nil)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"ProductNotFound"}`, w.Body.String())
}

func TestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/:id", func(c *gin.Context) {
		id, ok := ID(c)
		if !ok {
			return
		}
		c.String(http.StatusOK, id)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/6F9619FF-8B86-D011-B42D-00C04FC964FF", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "6f9619ff-8b86-d011-b42d-00c04fc964ff", w.Body.String())
}
