package middleware

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCORS_Preflight(t *testing.T) {
	r := gin.New()
	r.Any("/api/auth", CORS(nil, "GET", "POST", "OPTIONS"), okHandler)

	w := perform(r, http.MethodOptions, "/api/auth", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type, X-Auth-Token", w.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"))
}

func TestCORS_DecoratesRegularResponses(t *testing.T) {
	r := gin.New()
	r.Any("/api/products", CORS(nil, "GET", "POST", "PUT", "OPTIONS"), okHandler)

	w := perform(r, http.MethodGet, "/api/products", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, PUT, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Empty(t, w.Header().Get("Access-Control-Max-Age"))
}

func TestCORS_AllowList(t *testing.T) {
	r := gin.New()
	r.Any("/api/auth", CORS([]string{"https://balcvetov.ru"}, "GET", "OPTIONS"), okHandler)

	w := perform(r, http.MethodGet, "/api/auth", map[string]string{"Origin": "https://balcvetov.ru"})
	assert.Equal(t, "https://balcvetov.ru", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", w.Header().Get("Vary"))

	w = perform(r, http.MethodGet, "/api/auth", map[string]string{"Origin": "https://evil.example"})
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
