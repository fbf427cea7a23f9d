// internal/services/helpers_test.go
package services

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cacho-medina/luxbuy-back/internal/config"
	"github.com/cacho-medina/luxbuy-back/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open test database")

	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.ProductCategory{},
		&models.Image{},
		&models.Order{},
		&models.OrderItem{},
	)
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		Server:      config.ServerConfig{Port: "8080"},
		Mailjet:     config.MailjetConfig{FromName: "LuxBuy"},
		Frontend:    config.FrontendConfig{BaseURL: "http://localhost:3000"},
	}
}

func newTestStorage(t *testing.T) *StorageService {
	t.Helper()

	storage, err := NewStorageService(testConfig())
	require.NoError(t, err)
	return storage
}

// recordingStorage implements ObjectStorage in memory and remembers every
// uploaded and deleted key.
type recordingStorage struct {
	mtx      sync.Mutex
	uploaded []string
	deleted  []string
}

func (r *recordingStorage) UploadProductImage(data []byte, contentType string, productID uuid.UUID) (*UploadResult, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	key := fmt.Sprintf("products/%s/%d.png", productID, len(r.uploaded))
	r.uploaded = append(r.uploaded, key)
	return &UploadResult{
		URL:      "http://storage.test/" + key,
		Key:      key,
		Size:     int64(len(data)),
		MimeType: contentType,
	}, nil
}

func (r *recordingStorage) Delete(key string) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.deleted = append(r.deleted, key)
	return nil
}

func (r *recordingStorage) GeneratePresignedURL(key string, expiration time.Duration) (string, error) {
	return "http://storage.test/signed/" + key, nil
}

func newTestProductService(t *testing.T, db *gorm.DB) (*ProductService, *CategoryService) {
	t.Helper()

	excel := NewExcelService()
	categories := NewCategoryService(db, excel)
	products := NewProductService(db, excel, newTestStorage(t), categories)
	return products, categories
}

// buildSheet writes an in-memory xlsx with the given header row and data
// rows.
func buildSheet(t *testing.T, headers []string, rows [][]interface{}) io.Reader {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	headerCells := make([]interface{}, len(headers))
	for i, h := range headers {
		headerCells[i] = h
	}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &headerCells))

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	buffer, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buffer.Bytes())
}

func createCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()

	category := &models.Category{Name: name, Status: models.StatusActive}
	require.NoError(t, db.Create(category).Error)
	return category
}

func createUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{
		Name:     "Test User",
		Email:    email,
		Role:     models.RoleUser,
		IsActive: true,
		Status:   models.StatusActive,
	}
	require.NoError(t, user.SetPassword("Passw0rd!"))
	require.NoError(t, db.Create(user).Error)
	return user
}
