// internal/services/image_service.go
package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/cacho-medina/luxbuy-back/internal/apperrors"
	"github.com/cacho-medina/luxbuy-back/internal/models"
)

const downloadURLTTL = 15 * time.Minute

type ImageService struct {
	db      *gorm.DB
	storage ObjectStorage
}

func NewImageService(db *gorm.DB, storage ObjectStorage) *ImageService {
	return &ImageService{
		db:      db,
		storage: storage,
	}
}

// Upload stores one image for an existing active product. If the row insert
// fails after the object went out, the object is deleted again.
func (s *ImageService) Upload(productID uuid.UUID, upload ImageUpload) (*models.Image, error) {
	var product models.Product
	if err := s.db.Scopes(models.Active).First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "product not found")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "database error", err)
	}

	result, err := s.storage.UploadProductImage(upload.Data, upload.ContentType, productID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to upload image", err)
	}

	image := &models.Image{
		URL:        result.URL,
		AltText:    upload.AltText,
		StorageKey: result.Key,
		ProductID:  productID,
	}

	if err := s.db.Create(image).Error; err != nil {
		if delErr := s.storage.Delete(result.Key); delErr != nil {
			logrus.WithError(delErr).WithField("key", result.Key).Error("failed to delete orphaned object")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to save image", err)
	}

	return image, nil
}

func (s *ImageService) FindAll() ([]models.Image, error) {
	var images []models.Image
	if err := s.db.Order("created_at desc").Find(&images).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "database error", err)
	}
	return images, nil
}

func (s *ImageService) FindOne(id uuid.UUID) (*models.Image, error) {
	var image models.Image
	if err := s.db.First(&image, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "image not found")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "database error", err)
	}
	return &image, nil
}

// DownloadURL returns a short-lived presigned link for fetching the stored
// object directly. Images without a storage key keep their public URL.
func (s *ImageService) DownloadURL(id uuid.UUID) (string, error) {
	image, err := s.FindOne(id)
	if err != nil {
		return "", err
	}

	if image.StorageKey == "" {
		return image.URL, nil
	}

	url, err := s.storage.GeneratePresignedURL(image.StorageKey, downloadURLTTL)
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindInternal, "failed to generate download link", err)
	}
	return url, nil
}

// Delete removes the row first, then the stored object. A failed object
// delete is logged only, the row is already gone.
func (s *ImageService) Delete(id uuid.UUID) error {
	image, err := s.FindOne(id)
	if err != nil {
		return err
	}

	if err := s.db.Delete(image).Error; err != nil {
		return apperrors.Wrap(apperrors.KindInternal, "failed to delete image", err)
	}

	if image.StorageKey != "" {
		if err := s.storage.Delete(image.StorageKey); err != nil {
			logrus.WithError(err).WithField("key", image.StorageKey).Error("failed to delete stored object")
		}
	}

	return nil
}
