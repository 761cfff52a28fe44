// Package response writes the JSON envelopes shared by every HTTP handler.
package response

import (
	"net/http"

	"github.com/fekuna/omnipos-pharmacy-service/pkg/i18n"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const translatorKey = "translator"

// Localizer makes the translator available to Fail and Message.
func Localizer(tr *i18n.Translator) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(translatorKey, tr)
		c.Next()
	}
}

// Message localizes messageID using the request's Accept-Language header.
func Message(c *gin.Context, messageID string, data map[string]any) string {
	v, _ := c.Get(translatorKey)
	tr, _ := v.(*i18n.Translator)
	return tr.Localize(c.GetHeader("Accept-Language"), messageID, data)
}

// Fail aborts the request with {"message": ...}.
func Fail(c *gin.Context, status int, messageID string, data map[string]any) {
	c.AbortWithStatusJSON(status, gin.H{"message": Message(c, messageID, data)})
}

// ID reads the :id path parameter. A malformed id fails the request with 400.
func ID(c *gin.Context) (string, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		Fail(c, http.StatusBadRequest, i18n.MsgInvalidID, nil)
		return "", false
	}
	return id.String(), true
}
