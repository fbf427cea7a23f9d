// internal/handlers/image.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cacho-medina/luxbuy-back/internal/i18n"
	"github.com/cacho-medina/luxbuy-back/internal/services"
	"github.com/cacho-medina/luxbuy-back/internal/utils"
)

type ImageHandler struct {
	imageService *services.ImageService
}

func NewImageHandler(imageService *services.ImageService) *ImageHandler {
	return &ImageHandler{imageService: imageService}
}

// POST /images/product/:id
func (h *ImageHandler) UploadImage(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "form"), err.Error())
		return
	}

	headers := form.File["image"]
	if len(headers) == 0 {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationRequired, "image"), nil)
		return
	}

	images, errMsg := readImageFiles(lang, headers[:1])
	if errMsg != "" {
		utils.BadRequestResponse(c, errMsg, nil)
		return
	}

	if alt := formValue(form, "alt_text"); alt != "" {
		images[0].AltText = alt
	}

	image, err := h.imageService.Upload(productID, images[0])
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyImageUploaded),
		"image":   image,
	})
}

// GET /images
func (h *ImageHandler) GetImages(c *gin.Context) {
	images, err := h.imageService.FindAll()
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"images": images})
}

// GET /images/:id
func (h *ImageHandler) GetImage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid image ID", nil)
		return
	}

	image, err := h.imageService.FindOne(id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"image": image})
}

// GET /images/:id/url
func (h *ImageHandler) GetImageDownloadURL(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid image ID", nil)
		return
	}

	url, err := h.imageService.DownloadURL(id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"url": url})
}

// DELETE /images/:id
func (h *ImageHandler) DeleteImage(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid image ID", nil)
		return
	}

	if err := h.imageService.Delete(id); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyImageDeleted),
	})
}
