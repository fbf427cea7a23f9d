// internal/handlers/category.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cacho-medina/luxbuy-back/internal/i18n"
	"github.com/cacho-medina/luxbuy-back/internal/services"
	"github.com/cacho-medina/luxbuy-back/internal/utils"
)

type CategoryHandler struct {
	categoryService *services.CategoryService
}

func NewCategoryHandler(categoryService *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// GET /categories
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	categories, err := h.categoryService.FindAll()
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"categories": categories})
}

// GET /categories/:id
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid category ID", nil)
		return
	}

	category, err := h.categoryService.FindOne(id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"category": category})
}

// POST /categories
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	category, err := h.categoryService.Create(&req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyCategoryCreated),
		"category": category,
	})
}

// POST /categories/upload
func (h *CategoryHandler) UploadCategories(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationRequired, "file"), nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), nil)
		return
	}
	defer file.Close()

	count, err := h.categoryService.Upload(file)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCategoriesImported),
		"count":   count,
	})
}

// PATCH /categories/:id
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid category ID", nil)
		return
	}

	var req services.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	category, err := h.categoryService.Update(id, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyCategoryUpdated),
		"category": category,
	})
}

// DELETE /categories/:id
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid category ID", nil)
		return
	}

	if _, err := h.categoryService.Remove(id); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCategoryDeleted),
	})
}

// PATCH /categories/restore/:id
func (h *CategoryHandler) RestoreCategory(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid category ID", nil)
		return
	}

	category, err := h.categoryService.Restore(id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyCategoryRestored),
		"category": category,
	})
}
