// internal/services/product_service_test.go
package services

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cacho-medina/luxbuy-back/internal/apperrors"
	"github.com/cacho-medina/luxbuy-back/internal/models"
	"github.com/cacho-medina/luxbuy-back/internal/utils"
)

var productSheetHeaders = []string{"Nombre", "Precio", "Stock", "Descripcion", "Categoria"}

func defaultPagination() utils.PaginationParams {
	return utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"}
}

func TestProductUploadDedupesCaseInsensitive(t *testing.T) {
	db := setupTestDB(t)
	products, _ := newTestProductService(t, db)
	createCategory(t, db, "Gadgets")

	file := buildSheet(t, productSheetHeaders, [][]interface{}{
		{"Widget", "9.99", "5", "first", "Gadgets"},
		{"widget", "19.99", "3", "second", "Gadgets"},
	})

	count, err := products.Upload(file)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	var stored []models.Product
	require.NoError(t, db.Find(&stored).Error)
	require.Len(t, stored, 1)
	assert.Equal(t, "Widget", stored[0].Name)
	assert.Equal(t, "first", stored[0].Description)
}

func TestProductUploadDiscardsInvalidRows(t *testing.T) {
	db := setupTestDB(t)
	products, _ := newTestProductService(t, db)
	createCategory(t, db, "Gadgets")

	file := buildSheet(t, productSheetHeaders, [][]interface{}{
		{"Widget", "abc", "5", "bad price", "Gadgets"},
	})

	_, err := products.Upload(file)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "no valid products")

	var count int64
	require.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestProductUploadKeepsValidRowsOnly(t *testing.T) {
	db := setupTestDB(t)
	products, _ := newTestProductService(t, db)
	createCategory(t, db, "Gadgets")

	file := buildSheet(t, productSheetHeaders, [][]interface{}{
		{"", "9.99", "5", "no name", "Gadgets"},
		{"Widget", "9.99", "many", "bad stock", "Gadgets"},
		{"Gizmo", "9.99", "5", "no category", ""},
		{"Doodad", "9.99", "5", "ok", "Gadgets"},
	})

	count, err := products.Upload(file)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	var stored models.Product
	require.NoError(t, db.First(&stored).Error)
	assert.Equal(t, "Doodad", stored.Name)
}

func TestProductUploadFailsOnExistingName(t *testing.T) {
	db := setupTestDB(t)
	products, _ := newTestProductService(t, db)
	createCategory(t, db, "Gadgets")

	require.NoError(t, db.Create(&models.Product{
		Name:   "Widget",
		Price:  decimal.NewFromInt(1),
		Status: models.StatusActive,
	}).Error)

	file := buildSheet(t, productSheetHeaders, [][]interface{}{
		{"widget", "9.99", "5", "duplicate", "Gadgets"},
		{"Gizmo", "9.99", "5", "fine", "Gadgets"},
	})

	_, err := products.Upload(file)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "failed to import products")
	assert.Contains(t, err.Error(), "Widget")

	// Atomic failure: the fine row was not imported either
	var count int64
	require.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestProductUploadFailsOnUnknownCategory(t *testing.T) {
	db := setupTestDB(t)
	products, _ := newTestProductService(t, db)
	createCategory(t, db, "Gadgets")

	file := buildSheet(t, productSheetHeaders, [][]interface{}{
		{"Widget", "9.99", "5", "ok", "Gadgets"},
		{"Gizmo", "9.99", "5", "bad", "Gadgets, Nonsense"},
	})

	_, err := products.Upload(file)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "failed to import products")
	assert.Contains(t, err.Error(), "Nonsense")

	var count int64
	require.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestProductUploadResolvesMultipleCategories(t *testing.T) {
	db := setupTestDB(t)
	products, _ := newTestProductService(t, db)
	gadgets := createCategory(t, db, "Gadgets")
	office := createCategory(t, db, "Office")

	file := buildSheet(t, productSheetHeaders, [][]interface{}{
		{"Widget", "9.99", "5", "both", "Gadgets, office"},
	})

	count, err := products.Upload(file)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	var joins []models.ProductCategory
	require.NoError(t, db.Find(&joins).Error)
	require.Len(t, joins, 2)
	categoryIDs := []string{joins[0].CategoryID.String(), joins[1].CategoryID.String()}
	assert.Contains(t, categoryIDs, gadgets.ID.String())
	assert.Contains(t, categoryIDs, office.ID.String())
}

func TestCreateProductConflictKeepsNothing(t *testing.T) {
	db := setupTestDB(t)
	products, _ := newTestProductService(t, db)
	category := createCategory(t, db, "Gadgets")

	require.NoError(t, db.Create(&models.Product{
		Name:   "Phone",
		Price:  decimal.NewFromInt(500),
		Status: models.StatusActive,
	}).Error)

	_, err := products.Create(&CreateProductRequest{
		Name:        "phone",
		Price:       decimal.NewFromInt(300),
		Stock:       1,
		CategoryIDs: uuid.UUIDs{category.ID},
	}, []ImageUpload{{Data: pngBytes(), ContentType: "image/png"}})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))

	var productCount, imageCount int64
	require.NoError(t, db.Model(&models.Product{}).Count(&productCount).Error)
	require.NoError(t, db.Model(&models.Image{}).Count(&imageCount).Error)
	assert.Equal(t, int64(1), productCount)
	assert.Zero(t, imageCount)
}

func TestCreateProductWithImagesAndCategories(t *testing.T) {
	db := setupTestDB(t)
	products, _ := newTestProductService(t, db)
	category := createCategory(t, db, "Electronics")

	created, err := products.Create(&CreateProductRequest{
		Name:        "Phone",
		Description: "A phone",
		Price:       decimal.NewFromInt(500),
		Stock:       10,
		CategoryIDs: uuid.UUIDs{category.ID},
	}, []ImageUpload{
		{Data: pngBytes(), ContentType: "image/png", AltText: "front"},
		{Data: pngBytes(), ContentType: "image/png", AltText: "back"},
	})
	require.NoError(t, err)

	require.Len(t, created.Images, 2)
	require.Len(t, created.Categories, 1)
	assert.Equal(t, "Electronics", created.Categories[0].Category.Name)
	assert.NotEmpty(t, created.Images[0].URL)
}

func TestCreateProductDeletesUploadsWhenSaveFails(t *testing.T) {
	db := setupTestDB(t)
	storage := &recordingStorage{}
	excel := NewExcelService()
	products := NewProductService(db, excel, storage, NewCategoryService(db, excel))
	category := createCategory(t, db, "Electronics")

	// With the images table gone the row insert fails inside the transaction,
	// after the objects already went out to storage.
	require.NoError(t, db.Migrator().DropTable(&models.Image{}))

	_, err := products.Create(&CreateProductRequest{
		Name:        "Phone",
		Price:       decimal.NewFromInt(500),
		Stock:       10,
		CategoryIDs: uuid.UUIDs{category.ID},
	}, []ImageUpload{
		{Data: pngBytes(), ContentType: "image/png", AltText: "front"},
		{Data: pngBytes(), ContentType: "image/png", AltText: "back"},
	})
	require.Error(t, err)

	// Every uploaded object was deleted again
	require.Len(t, storage.uploaded, 2)
	assert.ElementsMatch(t, storage.uploaded, storage.deleted)

	var count int64
	require.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestFindOneSerializesEmptyImageList(t *testing.T) {
	db := setupTestDB(t)
	products, _ := newTestProductService(t, db)
	category := createCategory(t, db, "Electronics")

	created, err := products.Create(&CreateProductRequest{
		Name:        "Phone",
		Price:       decimal.NewFromInt(500),
		Stock:       10,
		CategoryIDs: uuid.UUIDs{category.ID},
	}, nil)
	require.NoError(t, err)

	found, err := products.FindOne(created.ID)
	require.NoError(t, err)

	body, err := json.Marshal(found)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"images":[]`)
}

func TestCreateProductUnknownCategoryRollsBack(t *testing.T) {
	db := setupTestDB(t)
	products, _ := newTestProductService(t, db)

	_, err := products.Create(&CreateProductRequest{
		Name:        "Phone",
		Price:       decimal.NewFromInt(500),
		Stock:       10,
		CategoryIDs: uuid.UUIDs{uuid.New()},
	}, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	var count int64
	require.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdateProductPartial(t *testing.T) {
	db := setupTestDB(t)
	products, _ := newTestProductService(t, db)
	category := createCategory(t, db, "Electronics")

	created, err := products.Create(&CreateProductRequest{
		Name:        "Phone",
		Description: "A phone",
		Price:       decimal.NewFromInt(500),
		Stock:       3,
		CategoryIDs: uuid.UUIDs{category.ID},
	}, nil)
	require.NoError(t, err)

	stock := 10
	updated, err := products.Update(created.ID, &UpdateProductRequest{Stock: &stock})
	require.NoError(t, err)

	assert.Equal(t, 10, updated.Stock)
	assert.Equal(t, "Phone", updated.Name)
	assert.Equal(t, "A phone", updated.Description)
	assert.True(t, decimal.NewFromInt(500).Equal(updated.Price))
	require.Len(t, updated.Categories, 1)
	assert.Equal(t, category.ID, updated.Categories[0].CategoryID)
}

func TestUpdateProductReplacesCategories(t *testing.T) {
	db := setupTestDB(t)
	products, _ := newTestProductService(t, db)
	first := createCategory(t, db, "Electronics")
	second := createCategory(t, db, "Office")

	created, err := products.Create(&CreateProductRequest{
		Name:        "Phone",
		Price:       decimal.NewFromInt(500),
		Stock:       3,
		CategoryIDs: uuid.UUIDs{first.ID},
	}, nil)
	require.NoError(t, err)

	updated, err := products.Update(created.ID, &UpdateProductRequest{
		CategoryIDs: uuid.UUIDs{second.ID},
	})
	require.NoError(t, err)

	require.Len(t, updated.Categories, 1)
	assert.Equal(t, second.ID, updated.Categories[0].CategoryID)
}

func TestProductLifecycleScenario(t *testing.T) {
	db := setupTestDB(t)
	products, _ := newTestProductService(t, db)
	category := createCategory(t, db, "Electronics")

	created, err := products.Create(&CreateProductRequest{
		Name:        "Phone",
		Price:       decimal.NewFromInt(500),
		Stock:       10,
		CategoryIDs: uuid.UUIDs{category.ID},
	}, nil)
	require.NoError(t, err)

	found, err := products.FindOne(created.ID)
	require.NoError(t, err)
	require.Len(t, found.Categories, 1)
	assert.Equal(t, "Electronics", found.Categories[0].Category.Name)
	assert.Empty(t, found.Images)

	_, err = products.Remove(created.ID)
	require.NoError(t, err)

	result, err := products.FindAll(ProductFilters{}, defaultPagination())
	require.NoError(t, err)
	assert.Zero(t, result.Total)

	_, err = products.FindOne(created.ID)
	assert.True(t, apperrors.IsNotFound(err))

	restored, err := products.Restore(created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, restored.Status)

	found, err = products.FindOne(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Phone", found.Name)
	assert.Equal(t, 10, found.Stock)
}

func TestRestoreActiveProductFails(t *testing.T) {
	db := setupTestDB(t)
	products, _ := newTestProductService(t, db)
	category := createCategory(t, db, "Electronics")

	created, err := products.Create(&CreateProductRequest{
		Name:        "Phone",
		Price:       decimal.NewFromInt(500),
		Stock:       10,
		CategoryIDs: uuid.UUIDs{category.ID},
	}, nil)
	require.NoError(t, err)

	_, err = products.Restore(created.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestFindAllFilters(t *testing.T) {
	db := setupTestDB(t)
	products, _ := newTestProductService(t, db)
	category := createCategory(t, db, "Electronics")
	other := createCategory(t, db, "Office")

	_, err := products.Create(&CreateProductRequest{
		Name: "Phone", Price: decimal.NewFromInt(500), Stock: 10,
		CategoryIDs: uuid.UUIDs{category.ID},
	}, nil)
	require.NoError(t, err)
	_, err = products.Create(&CreateProductRequest{
		Name: "Stapler", Price: decimal.NewFromInt(5), Stock: 100,
		CategoryIDs: uuid.UUIDs{other.ID},
	}, nil)
	require.NoError(t, err)

	minPrice := decimal.NewFromInt(100)
	result, err := products.FindAll(ProductFilters{MinPrice: &minPrice}, defaultPagination())
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)

	result, err = products.FindAll(ProductFilters{CategoryID: &other.ID}, defaultPagination())
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)

	result, err = products.FindAll(ProductFilters{Name: "pho"}, defaultPagination())
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
}

// Minimal valid PNG header for boundary checks
func pngBytes() []byte {
	return []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
}
