package handler

import (
	"net/http"

	"betteredible/internal/apierror"
	"betteredible/internal/dto"
	"betteredible/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler issues and renews JWT token pairs.
type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// unauthorized answers 401 with the service's message. Login failures and
// bad refresh tokens deliberately share one shape.
func unauthorized(c *gin.Context, err error) {
	c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
}

// Login godoc
// @Summary User login
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	pair, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		unauthorized(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

// Refresh godoc
// @Summary Exchange a refresh token for a new token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RefreshRequest true "Refresh token"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Router /v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindAndValidate(c, &req) {
		return
	}

	pair, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		unauthorized(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}
