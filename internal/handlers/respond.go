package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"balcvetov/api/internal/service"
)

const (
	msgInvalidBody      = "Invalid request body"
	msgInvalidToken     = "Invalid or expired token"
	msgMethodNotAllowed = "Method not allowed"
)

func errorJSON(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func internalError(c *gin.Context, err error, msg string) {
	zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg(msg)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
}

// serviceError maps service failures onto status codes. Every credential or
// session failure produces the same body whatever the cause.
func serviceError(c *gin.Context, err error, msg string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		errorJSON(c, http.StatusBadRequest, verr.Message)
	case errors.Is(err, service.ErrDuplicateEmail):
		errorJSON(c, http.StatusBadRequest, "Email already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		errorJSON(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, service.ErrUnauthorized):
		errorJSON(c, http.StatusUnauthorized, msgInvalidToken)
	default:
		internalError(c, err, msg)
	}
}

var errInvalidID = errors.New("invalid id")

// queryID reads a positive integer id from the query string. It returns 0 when
// the parameter is absent.
func queryID(c *gin.Context, name string) (int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}
