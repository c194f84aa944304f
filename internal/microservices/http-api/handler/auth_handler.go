package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eshelf/internal/microservices/http-api/dto"
	"eshelf/internal/microservices/http-api/service"
)

type AuthHandler struct {
	authService service.AuthService
	// exposeResetToken returns the reset token in the response body; it is
	// only enabled outside production where no mailer is wired.
	exposeResetToken bool
}

func NewAuthHandler(authService service.AuthService, exposeResetToken bool) *AuthHandler {
	return &AuthHandler{authService: authService, exposeResetToken: exposeResetToken}
}

func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, guards Guards) {
	rg.POST("/register", h.Register)
	rg.POST("/login", h.Login)
	rg.POST("/forgot-password", h.ForgotPassword)
	rg.POST("/reset-password", h.ResetPassword)

	rg.GET("/me", guards.Auth, h.Me)
	rg.PUT("/update-password", guards.Auth, h.UpdatePassword)
}

func (h *AuthHandler) Register(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}

	resp, err := h.authService.Register(ctx, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	created(c, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}

	resp, err := h.authService.Login(ctx, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, resp)
}

func (h *AuthHandler) Me(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	user, found := currentUser(c)
	if !found {
		return
	}
	fresh, err := h.authService.Me(ctx, user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, fresh)
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	var req dto.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}

	token, err := h.authService.ForgotPassword(ctx, req.Email)
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp := dto.Envelope{Success: true, Message: "password reset token generated"}
	if h.exposeResetToken {
		resp.Data = dto.ForgotPasswordResponse{ResetToken: token}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}

	resp, err := h.authService.ResetPassword(ctx, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, resp)
}

func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	user, found := currentUser(c)
	if !found {
		return
	}
	var req dto.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}

	resp, err := h.authService.UpdatePassword(ctx, user.ID, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, resp)
}
