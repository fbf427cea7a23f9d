// internal/services/product_service.go
package services

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/cacho-medina/luxbuy-back/internal/apperrors"
	"github.com/cacho-medina/luxbuy-back/internal/database"
	"github.com/cacho-medina/luxbuy-back/internal/models"
	"github.com/cacho-medina/luxbuy-back/internal/utils"
)

// Required spreadsheet columns for the product import.
const (
	productColName        = "Nombre"
	productColPrice       = "Precio"
	productColStock       = "Stock"
	productColDescription = "Descripcion"
	productColCategory    = "Categoria"
)

type ProductService struct {
	db         *gorm.DB
	excel      *ExcelService
	storage    ObjectStorage
	categories *CategoryService
}

type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,min=2,max=255"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" validate:"gte=0"`
	CategoryIDs []uuid.UUID     `json:"category_ids" validate:"required,min=1"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Stock       *int             `json:"stock,omitempty" validate:"omitempty,gte=0"`
	CategoryIDs []uuid.UUID      `json:"category_ids,omitempty"`
}

// ImageUpload carries one image binary through the create workflow. The
// handler boundary enforces count, size and type limits before it gets here.
type ImageUpload struct {
	Data        []byte
	ContentType string
	AltText     string
}

type ProductFilters struct {
	Name       string
	CategoryID *uuid.UUID
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	MinStock   *int
	MaxStock   *int
}

func NewProductService(db *gorm.DB, excel *ExcelService, storage ObjectStorage, categories *CategoryService) *ProductService {
	return &ProductService{
		db:         db,
		excel:      excel,
		storage:    storage,
		categories: categories,
	}
}

func (s *ProductService) FindAll(filters ProductFilters, params utils.PaginationParams) (*utils.PaginationResult, error) {
	var products []models.Product
	var total int64

	query := s.db.Model(&models.Product{}).Scopes(models.ActiveOf("products"))

	if filters.Name != "" {
		query = query.Where("LOWER(products.name) LIKE LOWER(?)", "%"+filters.Name+"%")
	}
	if filters.MinPrice != nil {
		query = query.Where("products.price >= ?", filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		query = query.Where("products.price <= ?", filters.MaxPrice)
	}
	if filters.MinStock != nil {
		query = query.Where("products.stock >= ?", filters.MinStock)
	}
	if filters.MaxStock != nil {
		query = query.Where("products.stock <= ?", filters.MaxStock)
	}
	if filters.CategoryID != nil {
		query = query.Joins("JOIN product_categories pc ON pc.product_id = products.id").
			Where("pc.category_id = ?", filters.CategoryID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "database error", err)
	}

	query = utils.ApplySort(query, params, []string{"name", "price", "stock", "created_at"})
	query = utils.ApplyPagination(query, params)

	err := query.
		Preload("Images").
		Preload("Categories.Category", models.Active).
		Find(&products).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "database error", err)
	}

	for i := range products {
		normalizeRelations(&products[i])
	}

	result := utils.CreatePaginationResult(products, total, params)
	return &result, nil
}

// normalizeRelations swaps nil relation slices for empty ones so they
// serialize as [] rather than null.
func normalizeRelations(product *models.Product) {
	if product.Images == nil {
		product.Images = []models.Image{}
	}
	if product.Categories == nil {
		product.Categories = []models.ProductCategory{}
	}
}

func (s *ProductService) FindOne(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := s.db.Scopes(models.Active).
		Preload("Images").
		Preload("Categories.Category", models.Active).
		First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "product not found")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "database error", err)
	}
	normalizeRelations(&product)
	return &product, nil
}

// Create inserts a product with its category associations and stores every
// supplied image. Storage writes are not transactional, so they run as a
// second phase: uploads fan out concurrently inside the transaction scope,
// and if the transaction fails afterwards the uploaded objects are deleted
// as a compensating action.
func (s *ProductService) Create(req *CreateProductRequest, images []ImageUpload) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Wrap(apperrors.KindValidation, "validation failed", err)
	}
	if req.Price.IsNegative() {
		return nil, apperrors.New(apperrors.KindValidation, "price must not be negative")
	}

	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Status:      models.StatusActive,
	}

	var uploadedKeys []string

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Product{}).Scopes(models.Active).
			Where("LOWER(name) = LOWER(?)", req.Name).Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.KindInternal, "database error", err)
		}
		if count > 0 {
			return apperrors.Newf(apperrors.KindConflict, "product already exists: %s", req.Name)
		}

		categoryIDs, err := s.categories.ValidateCategories(tx, req.CategoryIDs)
		if err != nil {
			return err
		}

		for _, categoryID := range categoryIDs {
			product.Categories = append(product.Categories, models.ProductCategory{CategoryID: categoryID})
		}

		if err := tx.Create(product).Error; err != nil {
			return apperrors.Wrap(apperrors.KindInternal, "failed to create product", err)
		}

		if len(images) == 0 {
			return nil
		}

		// Phase two: concurrent uploads, joined before commit.
		results := make([]*UploadResult, len(images))
		var g errgroup.Group
		for i, img := range images {
			i, img := i, img
			g.Go(func() error {
				result, err := s.storage.UploadProductImage(img.Data, img.ContentType, product.ID)
				if err != nil {
					return err
				}
				results[i] = result
				return nil
			})
		}
		uploadErr := g.Wait()

		for _, result := range results {
			if result != nil {
				uploadedKeys = append(uploadedKeys, result.Key)
			}
		}
		if uploadErr != nil {
			return apperrors.Wrap(apperrors.KindInternal, "failed to upload product images", uploadErr)
		}

		rows := make([]models.Image, len(results))
		for i, result := range results {
			rows[i] = models.Image{
				URL:        result.URL,
				AltText:    images[i].AltText,
				StorageKey: result.Key,
				ProductID:  product.ID,
			}
		}
		if err := tx.Create(&rows).Error; err != nil {
			return apperrors.Wrap(apperrors.KindInternal, "failed to save product images", err)
		}
		product.Images = rows

		return nil
	})

	if err != nil {
		// The transaction rolled back but the stored objects survived it.
		s.deleteUploaded(uploadedKeys)
		return nil, err
	}

	return s.FindOne(product.ID)
}

func (s *ProductService) deleteUploaded(keys []string) {
	for _, key := range keys {
		if err := s.storage.Delete(key); err != nil {
			logrus.WithError(err).WithField("key", key).Error("failed to delete orphaned object")
		}
	}
}

type importRow struct {
	name        string
	description string
	price       decimal.Decimal
	stock       int
	categories  []string
}

// Upload runs the bulk product import. Invalid rows are discarded without
// feedback, duplicates within the file collapse to the first occurrence
// (case-insensitive), and the whole import fails if any surviving name
// already exists or any category name is unknown. Either every product is
// created or none is.
func (s *ProductService) Upload(file io.Reader) (int, error) {
	rows, err := s.excel.Read(file, []string{
		productColName, productColPrice, productColStock, productColDescription, productColCategory,
	})
	if err != nil {
		return 0, importFailure(err)
	}

	valid := parseImportRows(rows)
	if len(valid) == 0 {
		return 0, importFailure(apperrors.New(apperrors.KindValidation, "no valid products found in file"))
	}

	deduped := dedupeByName(valid)

	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		names := make([]string, len(deduped))
		for i, row := range deduped {
			names[i] = strings.ToLower(row.name)
		}

		var existing []models.Product
		if err := tx.Scopes(models.Active).Where("LOWER(name) IN ?", names).Find(&existing).Error; err != nil {
			return apperrors.Wrap(apperrors.KindInternal, "database error", err)
		}
		if len(existing) > 0 {
			offenders := make([]string, len(existing))
			for i, p := range existing {
				offenders[i] = p.Name
			}
			return apperrors.Newf(apperrors.KindValidation, "products already exist: %s", strings.Join(offenders, ", "))
		}

		// All category names across all rows must resolve before any insert.
		if _, err := s.categories.ResolveNames(tx, categoryUnion(deduped)); err != nil {
			return err
		}

		for _, row := range deduped {
			product := models.Product{
				Name:        row.name,
				Description: row.description,
				Price:       row.price,
				Stock:       row.stock,
				Status:      models.StatusActive,
			}
			if err := tx.Create(&product).Error; err != nil {
				return apperrors.Wrap(apperrors.KindInternal, fmt.Sprintf("failed to create product %s", row.name), err)
			}

			categoryIDs, err := s.categories.ResolveNames(tx, row.categories)
			if err != nil {
				return err
			}

			joins := make([]models.ProductCategory, len(categoryIDs))
			for i, categoryID := range categoryIDs {
				joins[i] = models.ProductCategory{ProductID: product.ID, CategoryID: categoryID}
			}
			if err := tx.Create(&joins).Error; err != nil {
				return apperrors.Wrap(apperrors.KindInternal, fmt.Sprintf("failed to link categories for %s", row.name), err)
			}
		}

		return nil
	})
	if err != nil {
		return 0, importFailure(err)
	}

	return len(deduped), nil
}

// importFailure coalesces every product import error into one validation
// failure carrying the cause message, whatever stage produced it.
func importFailure(err error) error {
	return apperrors.Wrap(apperrors.KindValidation, "failed to import products: "+apperrors.Message(err), err)
}

func parseImportRows(rows []map[string]string) []importRow {
	var valid []importRow
	for _, row := range rows {
		name := strings.TrimSpace(row[productColName])
		if name == "" {
			continue
		}

		price, err := decimal.NewFromString(strings.TrimSpace(row[productColPrice]))
		if err != nil || price.IsNegative() {
			continue
		}

		stock, err := strconv.Atoi(strings.TrimSpace(row[productColStock]))
		if err != nil || stock < 0 {
			continue
		}

		categories := splitCategories(row[productColCategory])
		if len(categories) == 0 {
			continue
		}

		valid = append(valid, importRow{
			name:        name,
			description: strings.TrimSpace(row[productColDescription]),
			price:       price,
			stock:       stock,
			categories:  categories,
		})
	}
	return valid
}

func splitCategories(cell string) []string {
	var out []string
	for _, token := range strings.Split(cell, ",") {
		token = strings.TrimSpace(token)
		if token != "" {
			out = append(out, token)
		}
	}
	return out
}

// dedupeByName keeps the first occurrence per case-insensitive name,
// preserving input order.
func dedupeByName(rows []importRow) []importRow {
	seen := make(map[string]bool, len(rows))
	out := make([]importRow, 0, len(rows))
	for _, row := range rows {
		key := strings.ToLower(row.name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, row)
	}
	return out
}

// categoryUnion collects the distinct category tokens across all rows,
// keeping first-seen order.
func categoryUnion(rows []importRow) []string {
	seen := make(map[string]bool)
	var out []string
	for _, row := range rows {
		for _, name := range row.categories {
			key := strings.ToLower(name)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, name)
		}
	}
	return out
}

// Update merges the supplied fields over the stored product. A supplied
// category list replaces the associations wholesale.
func (s *ProductService) Update(id uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Wrap(apperrors.KindValidation, "validation failed", err)
	}
	if req.Price != nil && req.Price.IsNegative() {
		return nil, apperrors.New(apperrors.KindValidation, "price must not be negative")
	}

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Scopes(models.Active).First(&product, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.New(apperrors.KindNotFound, "product not found")
			}
			return apperrors.Wrap(apperrors.KindInternal, "database error", err)
		}

		if req.Name != nil && !strings.EqualFold(*req.Name, product.Name) {
			var count int64
			if err := tx.Model(&models.Product{}).Scopes(models.Active).
				Where("LOWER(name) = LOWER(?) AND id <> ?", *req.Name, id).Count(&count).Error; err != nil {
				return apperrors.Wrap(apperrors.KindInternal, "database error", err)
			}
			if count > 0 {
				return apperrors.Newf(apperrors.KindConflict, "product already exists: %s", *req.Name)
			}
		}

		if req.Name != nil {
			product.Name = *req.Name
		}
		if req.Description != nil {
			product.Description = *req.Description
		}
		if req.Price != nil {
			product.Price = *req.Price
		}
		if req.Stock != nil {
			product.Stock = *req.Stock
		}

		if err := tx.Save(&product).Error; err != nil {
			return apperrors.Wrap(apperrors.KindInternal, "failed to update product", err)
		}

		if req.CategoryIDs != nil {
			categoryIDs, err := s.categories.ValidateCategories(tx, req.CategoryIDs)
			if err != nil {
				return err
			}

			if err := tx.Where("product_id = ?", id).Delete(&models.ProductCategory{}).Error; err != nil {
				return apperrors.Wrap(apperrors.KindInternal, "failed to replace categories", err)
			}

			joins := make([]models.ProductCategory, len(categoryIDs))
			for i, categoryID := range categoryIDs {
				joins[i] = models.ProductCategory{ProductID: id, CategoryID: categoryID}
			}
			if err := tx.Create(&joins).Error; err != nil {
				return apperrors.Wrap(apperrors.KindInternal, "failed to replace categories", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.FindOne(id)
}

func (s *ProductService) Remove(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.Scopes(models.Active).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "product not found")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "database error", err)
	}

	product.Status = models.StatusDeleted
	if err := s.db.Save(&product).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to delete product", err)
	}

	return &product, nil
}

func (s *ProductService) Restore(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "product not found")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "database error", err)
	}

	if product.Status == models.StatusActive {
		return nil, apperrors.New(apperrors.KindValidation, "product is already active")
	}

	product.Status = models.StatusActive
	if err := s.db.Save(&product).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to restore product", err)
	}

	return &product, nil
}
