package handler

import (
	"github.com/KenTheWhale/unisew-partner/internal/partner/service"
	"github.com/gin-gonic/gin"
)

// AuthHandler 注册与认证接口
type AuthHandler struct {
	authSvc *service.AuthService
	regSvc  *service.RegistrationService
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(authSvc *service.AuthService, regSvc *service.RegistrationService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, regSvc: regSvc}
}

// Register POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	partner, err := h.regSvc.Register(c.Request.Context(), &req)
	if err != nil {
		if partner != nil {
			// 建档成功但邮件发送失败，提示重发
			Created(c, gin.H{
				"partner":      partner,
				"mail_warning": "确认邮件发送失败，请稍后重发",
			})
			return
		}
		handleServiceError(c, err)
		return
	}
	Created(c, gin.H{"partner": partner})
}

// Confirm GET /auth/confirm?token=xxx
func (h *AuthHandler) Confirm(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		BadRequest(c, "缺少确认token")
		return
	}

	partner, err := h.regSvc.Confirm(c.Request.Context(), token)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Success(c, gin.H{"partner": partner})
}

// ResendConfirmation POST /auth/confirm/resend
func (h *AuthHandler) ResendConfirmation(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	if err := h.regSvc.ResendConfirmation(c.Request.Context(), req.Email); err != nil {
		handleServiceError(c, err)
		return
	}
	Success(c, nil)
}

// Login POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	partner, pair, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Success(c, gin.H{"partner": partner, "token": pair})
}

// Refresh POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	pair, err := h.authSvc.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Success(c, gin.H{"token": pair})
}

// Logout POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		InternalError(c, "注销失败: "+err.Error())
		return
	}
	Success(c, nil)
}

// Me GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	partner, err := h.authSvc.GetCurrentPartner(c.Request.Context(), GetPartnerID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Success(c, gin.H{"partner": partner})
}
