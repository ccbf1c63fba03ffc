package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"balcvetov/api/internal/config"
	"balcvetov/api/internal/security"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var fixedTime = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

var sessionColumns = []string{
	"id", "user_id", "expires_at", "email", "full_name", "phone", "role", "referral_code", "is_active",
}

func newTestRouter(t *testing.T) (*gin.Engine, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})

	h := NewHandlerSet(zerolog.Nop(), mock, nil, &config.AppConfig{Environment: "test"})
	r := gin.New()
	h.Register(r.Group("/api"))
	return r, mock
}

func do(r http.Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// expectSession makes the next session lookup for token resolve to a user
// with the given role.
func expectSession(mock pgxmock.PgxPoolIface, token, role string) {
	mock.ExpectQuery(`FROM sessions s`).
		WithArgs(security.HashSessionToken(token)).
		WillReturnRows(pgxmock.NewRows(sessionColumns).
			AddRow(int64(1), int64(42), time.Now().Add(time.Hour), "anna@example.com", "Anna", "+7900", role, "BAL00042", true))
}
