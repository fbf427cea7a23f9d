// internal/handlers/auth.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cacho-medina/luxbuy-back/internal/apperrors"
	"github.com/cacho-medina/luxbuy-back/internal/i18n"
	"github.com/cacho-medina/luxbuy-back/internal/services"
	"github.com/cacho-medina/luxbuy-back/internal/utils"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	response, err := h.authService.Login(&req)
	if err != nil {
		if apperrors.IsValidation(err) {
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidCredentials))
			return
		}
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAuthLoginSuccess),
		"auth":    response,
	})
}

// POST /auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	response, err := h.authService.RefreshToken(req.RefreshToken)
	if err != nil {
		if apperrors.IsValidation(err) {
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidToken))
			return
		}
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"auth": response})
}

// GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return
	}

	user, err := h.authService.GetProfile(userID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"user": user})
}
