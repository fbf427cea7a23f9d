// internal/services/category_service.go
package services

import (
	"errors"
	"io"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cacho-medina/luxbuy-back/internal/apperrors"
	"github.com/cacho-medina/luxbuy-back/internal/database"
	"github.com/cacho-medina/luxbuy-back/internal/models"
	"github.com/cacho-medina/luxbuy-back/internal/utils"
)

const categoryNameColumn = "Nombre"

type CategoryService struct {
	db    *gorm.DB
	excel *ExcelService
}

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=2,max=255"`
}

type UpdateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=2,max=255"`
}

func NewCategoryService(db *gorm.DB, excel *ExcelService) *CategoryService {
	return &CategoryService{
		db:    db,
		excel: excel,
	}
}

func (s *CategoryService) FindAll() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Scopes(models.Active).Order("name asc").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "database error", err)
	}
	return categories, nil
}

// FindOne returns the category together with its active products and their
// images.
func (s *CategoryService) FindOne(id uuid.UUID) (*models.Category, error) {
	var category models.Category
	err := s.db.Scopes(models.Active).
		Preload("Products.Product", models.Active).
		Preload("Products.Product.Images").
		First(&category, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "category not found")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "database error", err)
	}
	return &category, nil
}

func (s *CategoryService) Create(req *CreateCategoryRequest) (*models.Category, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Wrap(apperrors.KindValidation, "validation failed", err)
	}

	category := &models.Category{Name: req.Name, Status: models.StatusActive}

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Category{}).Scopes(models.Active).
			Where("LOWER(name) = LOWER(?)", req.Name).Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.KindInternal, "database error", err)
		}
		if count > 0 {
			return apperrors.Newf(apperrors.KindConflict, "category already exists: %s", req.Name)
		}

		if err := tx.Create(category).Error; err != nil {
			return apperrors.Wrap(apperrors.KindInternal, "failed to create category", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return category, nil
}

// Upload bulk-inserts one category per spreadsheet row. There is no dedupe
// and no existing-name check on this path, repeated imports create repeated
// names. The whole insert is one transaction.
func (s *CategoryService) Upload(file io.Reader) (int, error) {
	rows, err := s.excel.Read(file, []string{categoryNameColumn})
	if err != nil {
		return 0, apperrors.Wrap(apperrors.KindValidation, "failed to import categories: "+apperrors.Message(err), err)
	}

	categories := make([]models.Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, models.Category{
			Name:   row[categoryNameColumn],
			Status: models.StatusActive,
		})
	}

	if len(categories) == 0 {
		return 0, apperrors.New(apperrors.KindValidation, "no categories found in file")
	}

	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Create(&categories).Error; err != nil {
			return apperrors.Wrap(apperrors.KindValidation, "failed to import categories: "+err.Error(), err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return len(categories), nil
}

func (s *CategoryService) Update(id uuid.UUID, req *UpdateCategoryRequest) (*models.Category, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Wrap(apperrors.KindValidation, "validation failed", err)
	}

	category, err := s.FindOne(id)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.Category{}).Scopes(models.Active).
		Where("LOWER(name) = LOWER(?) AND id <> ?", req.Name, id).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "database error", err)
	}
	if count > 0 {
		return nil, apperrors.Newf(apperrors.KindConflict, "category already exists: %s", req.Name)
	}

	category.Name = req.Name
	if err := s.db.Save(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to update category", err)
	}

	return category, nil
}

func (s *CategoryService) Remove(id uuid.UUID) (*models.Category, error) {
	category, err := s.FindOne(id)
	if err != nil {
		return nil, err
	}

	category.Status = models.StatusDeleted
	if err := s.db.Save(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to delete category", err)
	}

	return category, nil
}

func (s *CategoryService) Restore(id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "category not found")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "database error", err)
	}

	if category.Status == models.StatusActive {
		return nil, apperrors.New(apperrors.KindValidation, "category is already active")
	}

	category.Status = models.StatusActive
	if err := s.db.Save(&category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to restore category", err)
	}

	return &category, nil
}

// ValidateCategories checks that every id names an active category within the
// given transaction. Reads run against tx so rows inserted earlier in the
// same transaction count as existing. Missing ids are reported comma-joined
// in input order, duplicates included.
func (s *CategoryService) ValidateCategories(tx *gorm.DB, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, apperrors.New(apperrors.KindValidation, "no categories provided")
	}

	var found []models.Category
	if err := tx.Scopes(models.Active).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "database error", err)
	}

	foundSet := make(map[uuid.UUID]bool, len(found))
	matched := make([]uuid.UUID, 0, len(found))
	for _, c := range found {
		foundSet[c.ID] = true
		matched = append(matched, c.ID)
	}

	var missing []string
	for _, id := range ids {
		if !foundSet[id] {
			missing = append(missing, id.String())
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.Newf(apperrors.KindValidation, "unknown categories: %s", strings.Join(missing, ", "))
	}

	return matched, nil
}

// ResolveNames maps category names to ids within the given transaction.
// Matching is case-insensitive against active categories. Unknown names are
// reported comma-joined in input order.
func (s *CategoryService) ResolveNames(tx *gorm.DB, names []string) ([]uuid.UUID, error) {
	if len(names) == 0 {
		return nil, apperrors.New(apperrors.KindValidation, "no categories provided")
	}

	var found []models.Category
	if err := tx.Scopes(models.Active).Where("LOWER(name) IN ?", lowered(names)).Find(&found).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "database error", err)
	}

	byName := make(map[string]uuid.UUID, len(found))
	for _, c := range found {
		byName[strings.ToLower(c.Name)] = c.ID
	}

	ids := make([]uuid.UUID, 0, len(names))
	var missing []string
	for _, name := range names {
		id, ok := byName[strings.ToLower(name)]
		if !ok {
			missing = append(missing, name)
			continue
		}
		ids = append(ids, id)
	}
	if len(missing) > 0 {
		return nil, apperrors.Newf(apperrors.KindValidation, "unknown categories: %s", strings.Join(missing, ", "))
	}

	return ids, nil
}

func lowered(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}
