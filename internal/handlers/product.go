// internal/handlers/product.go
package handlers

import (
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cacho-medina/luxbuy-back/internal/i18n"
	"github.com/cacho-medina/luxbuy-back/internal/services"
	"github.com/cacho-medina/luxbuy-back/internal/utils"
)

// Upload boundary limits for product images.
const (
	maxProductImages = 5
	maxImageSizeMB   = 5
	maxImageSize     = maxImageSizeMB * 1024 * 1024
)

type ProductHandler struct {
	productService *services.ProductService
}

func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	filters := services.ProductFilters{
		Name: c.Query("name"),
	}

	if categoryIDStr := c.Query("category_id"); categoryIDStr != "" {
		if categoryID, err := uuid.Parse(categoryIDStr); err == nil {
			filters.CategoryID = &categoryID
		}
	}

	if minPriceStr := c.Query("min_price"); minPriceStr != "" {
		if minPrice, err := decimal.NewFromString(minPriceStr); err == nil {
			filters.MinPrice = &minPrice
		}
	}

	if maxPriceStr := c.Query("max_price"); maxPriceStr != "" {
		if maxPrice, err := decimal.NewFromString(maxPriceStr); err == nil {
			filters.MaxPrice = &maxPrice
		}
	}

	if minStockStr := c.Query("min_stock"); minStockStr != "" {
		if minStock, err := strconv.Atoi(minStockStr); err == nil {
			filters.MinStock = &minStock
		}
	}

	if maxStockStr := c.Query("max_stock"); maxStockStr != "" {
		if maxStock, err := strconv.Atoi(maxStockStr); err == nil {
			filters.MaxStock = &maxStock
		}
	}

	result, err := h.productService.FindAll(filters, params)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.PaginatedResponse(c, *result)
}

// GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	product, err := h.productService.FindOne(id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"product": product})
}

// POST /products
// Multipart form: name, description, price, stock, category_ids
// (comma-separated) plus up to five image files under "images".
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	form, err := c.MultipartForm()
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "form"), err.Error())
		return
	}

	req, err := parseProductForm(form)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	images, errMsg := readImageFiles(lang, form.File["images"])
	if errMsg != "" {
		utils.BadRequestResponse(c, errMsg, nil)
		return
	}

	product, err := h.productService.Create(req, images)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductCreated),
		"product": product,
	})
}

// POST /products/upload
func (h *ProductHandler) UploadProducts(c *gin.Context) {
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

	count, err := h.productService.Upload(file)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductsImported),
		"count":   count,
	})
}

// PATCH /products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	product, err := h.productService.Update(id, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductUpdated),
		"product": product,
	})
}

// DELETE /products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	if _, err := h.productService.Remove(id); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductDeleted),
	})
}

// PATCH /products/restore/:id
func (h *ProductHandler) RestoreProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	product, err := h.productService.Restore(id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductRestored),
		"product": product,
	})
}

func parseProductForm(form *multipart.Form) (*services.CreateProductRequest, error) {
	req := &services.CreateProductRequest{
		Name:        formValue(form, "name"),
		Description: formValue(form, "description"),
	}

	price, err := decimal.NewFromString(formValue(form, "price"))
	if err != nil {
		return nil, err
	}
	req.Price = price

	stock, err := strconv.Atoi(formValue(form, "stock"))
	if err != nil {
		return nil, err
	}
	req.Stock = stock

	for _, token := range strings.Split(formValue(form, "category_ids"), ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		id, err := uuid.Parse(token)
		if err != nil {
			return nil, err
		}
		req.CategoryIDs = append(req.CategoryIDs, id)
	}

	return req, nil
}

func formValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

// readImageFiles enforces the upload boundary: at most five files, five
// megabytes each, JPEG or PNG by magic bytes. Returns a translated message
// on violation.
func readImageFiles(lang string, headers []*multipart.FileHeader) ([]services.ImageUpload, string) {
	if len(headers) > maxProductImages {
		return nil, i18n.T(lang, i18n.KeyFileTooMany, strconv.Itoa(maxProductImages))
	}

	var images []services.ImageUpload
	for _, header := range headers {
		if header.Size > maxImageSize {
			return nil, i18n.T(lang, i18n.KeyFileTooLarge, strconv.Itoa(maxImageSizeMB))
		}

		file, err := header.Open()
		if err != nil {
			return nil, i18n.T(lang, i18n.KeyFileUploadFailed)
		}

		data, err := io.ReadAll(io.LimitReader(file, maxImageSize+1))
		file.Close()
		if err != nil || len(data) > maxImageSize {
			return nil, i18n.T(lang, i18n.KeyFileTooLarge, strconv.Itoa(maxImageSizeMB))
		}

		if !services.IsValidImage(data) {
			return nil, i18n.T(lang, i18n.KeyFileInvalidType)
		}

		images = append(images, services.ImageUpload{
			Data:        data,
			ContentType: header.Header.Get("Content-Type"),
			AltText:     header.Filename,
		})
	}

	return images, ""
}
