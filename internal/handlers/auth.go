package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"balcvetov/api/internal/middleware"
	"balcvetov/api/internal/models"
	"balcvetov/api/internal/service"
)

// referrerField accepts referred_by as a JSON number (user id) or a string
// holding either a user id or a referral code.
type referrerField struct {
	service.ReferrerRef
}

func (f *referrerField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		f.ReferrerRef = service.ReferrerRef{}
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		f.ReferrerRef = service.ParseReferrerRef(raw)
		return nil
	}

	var id int64
	if err := json.Unmarshal(data, &id); err != nil {
		return errors.New("referred_by must be a user id or a referral code")
	}
	f.ReferrerRef = service.ReferrerRef{ID: id}
	return nil
}

type registerRequest struct {
	Email      string        `json:"email"`
	Password   string        `json:"password"`
	FullName   string        `json:"full_name"`
	Phone      string        `json:"phone"`
	ReferredBy referrerField `json:"referred_by"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	Role         string `json:"role"`
	ReferralCode string `json:"referral_code"`
}

type meResponse struct {
	userResponse
	Phone string `json:"phone"`
}

func newUserResponse(user models.User) userResponse {
	return userResponse{
		ID:           user.ID,
		Email:        user.Email,
		FullName:     user.FullName,
		Role:         string(user.Role),
		ReferralCode: user.ReferralCode,
	}
}

// Auth dispatches on the action query parameter. Unknown combinations get 400,
// not 405, which the storefront relies on.
func (h HandlerSet) Auth(c *gin.Context) {
	action := c.Query("action")
	switch {
	case c.Request.Method == http.MethodPost && action == "register":
		h.register(c)
	case c.Request.Method == http.MethodPost && action == "login":
		h.login(c)
	case c.Request.Method == http.MethodPost && action == "logout":
		h.logout(c)
	case c.Request.Method == http.MethodGet:
		h.whoAmI(c)
	default:
		errorJSON(c, http.StatusBadRequest, "Invalid action")
	}
}

func (h HandlerSet) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	result, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Email:      req.Email,
		Password:   req.Password,
		FullName:   req.FullName,
		Phone:      req.Phone,
		ReferredBy: req.ReferredBy.ReferrerRef,
	})
	if err != nil {
		serviceError(c, err, "register failed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":       "User registered successfully",
		"user_id":       result.UserID,
		"referral_code": result.ReferralCode,
	})
}

func (h HandlerSet) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		serviceError(c, err, "login failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": result.Token,
		"user":  newUserResponse(result.User),
	})
}

func (h HandlerSet) logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), middleware.AuthToken(c)); err != nil {
		internalError(c, err, "logout failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h HandlerSet) whoAmI(c *gin.Context) {
	user, err := h.auth.WhoAmI(c.Request.Context(), middleware.AuthToken(c))
	if err != nil {
		serviceError(c, err, "session lookup failed")
		return
	}
	c.JSON(http.StatusOK, meResponse{userResponse: newUserResponse(user), Phone: user.Phone})
}
