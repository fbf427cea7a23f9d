// internal/handlers/user.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cacho-medina/luxbuy-back/internal/i18n"
	"github.com/cacho-medina/luxbuy-back/internal/services"
	"github.com/cacho-medina/luxbuy-back/internal/utils"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// POST /users
func (h *UserHandler) CreateUser(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	user, err := h.userService.Create(&req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyUserCreated),
		"user":    user,
	})
}

// GET /users
func (h *UserHandler) GetUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	result, err := h.userService.FindAll(params)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.PaginatedResponse(c, *result)
}

// GET /users/active
func (h *UserHandler) GetActiveUsers(c *gin.Context) {
	users, err := h.userService.FindAllActive()
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"users": users})
}

// GET /users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return
	}

	user, err := h.userService.FindOne(id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"user": user})
}

// PATCH /users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return
	}

	var req services.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	user, err := h.userService.Update(id, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyUserUpdated, user.Name),
		"user":    user,
	})
}

// DELETE /users/:id (soft delete)
func (h *UserHandler) DeleteUser(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return
	}

	user, err := h.userService.SoftDelete(id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyUserDeleted, user.Name),
	})
}

// POST /users/:id/reset-password
func (h *UserHandler) ResetPasswordUser(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return
	}

	if err := h.userService.ResetPassword(id); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyUserPasswordReset),
	})
}

// DELETE /users/:id/permanent
func (h *UserHandler) RemoveUser(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return
	}

	if err := h.userService.Remove(id); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyUserRemoved),
	})
}
