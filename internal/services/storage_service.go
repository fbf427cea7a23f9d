// internal/services/storage_service.go
package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cacho-medina/luxbuy-back/internal/config"
)

// ObjectStorage is the storage surface the catalog services depend on.
// Uploads are durable once they return; callers that roll back database
// writes after a successful upload must call Delete with the returned key.
type ObjectStorage interface {
	UploadProductImage(data []byte, contentType string, productID uuid.UUID) (*UploadResult, error)
	Delete(key string) error
	GeneratePresignedURL(key string, expiration time.Duration) (string, error)
}

// StorageService stores image binaries in S3 and hands back public URLs.
type StorageService struct {
	s3Client *s3.S3
	config   *config.Config
}

var _ ObjectStorage = (*StorageService)(nil)

type UploadResult struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

func NewStorageService(config *config.Config) (*StorageService, error) {
	if config.AWS.AccessKeyID == "" {
		// Return service without S3 for local development
		return &StorageService{config: config}, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(config.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			config.AWS.AccessKeyID,
			config.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{
		s3Client: s3.New(sess),
		config:   config,
	}, nil
}

// UploadProductImage stores an image under a key containing the owning
// product id so orphaned objects remain traceable to their product.
func (s *StorageService) UploadProductImage(data []byte, contentType string, productID uuid.UUID) (*UploadResult, error) {
	key := s.generateKey("products", productID, contentType)
	return s.upload(data, key, contentType)
}

func (s *StorageService) upload(data []byte, key, contentType string) (*UploadResult, error) {
	if s.s3Client == nil {
		return s.uploadToLocal(data, key, contentType)
	}

	params := &s3.PutObjectInput{
		Bucket:        aws.String(s.config.AWS.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
		ACL:           aws.String("public-read"),
	}

	if _, err := s.s3Client.PutObject(params); err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &UploadResult{
		URL:      s.getS3URL(key),
		Key:      key,
		Size:     int64(len(data)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) uploadToLocal(data []byte, key, contentType string) (*UploadResult, error) {
	// Local development keeps the workflow testable without credentials.
	return &UploadResult{
		URL:      s.localURL(key),
		Key:      key,
		Size:     int64(len(data)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) localURL(key string) string {
	return fmt.Sprintf("http://localhost:%s/uploads/%s", s.config.Server.Port, key)
}

// Delete removes a stored object. Used both for image removal and as the
// compensating action when a transaction fails after its uploads succeeded.
func (s *StorageService) Delete(key string) error {
	if s.s3Client == nil {
		logrus.WithField("key", key).Debug("local storage: skipping object delete")
		return nil
	}

	_, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.config.AWS.S3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}

	return nil
}

// GeneratePresignedURL signs a time-limited GET for the object. Without S3
// configured the plain local URL comes back instead.
func (s *StorageService) GeneratePresignedURL(key string, expiration time.Duration) (string, error) {
	if s.s3Client == nil {
		return s.localURL(key), nil
	}

	req, _ := s.s3Client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.config.AWS.S3Bucket),
		Key:    aws.String(key),
	})

	url, err := req.Presign(expiration)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return url, nil
}

func (s *StorageService) generateKey(folder string, ownerID uuid.UUID, contentType string) string {
	id := uuid.New()
	timestamp := time.Now().Format("20060102")
	return fmt.Sprintf("%s/%s/%s_%s%s", folder, ownerID, timestamp, id.String()[:8], extensionFor(contentType))
}

func (s *StorageService) getS3URL(key string) string {
	if s.config.AWS.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", s.config.AWS.CloudFrontURL, key)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		s.config.AWS.S3Bucket, s.config.AWS.Region, key)
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg", "image/jpg":
		return ".jpg"
	default:
		return ""
	}
}

// IsValidImage checks the magic bytes for the formats the catalog accepts.
func IsValidImage(data []byte) bool {
	// JPEG
	if len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF {
		return true
	}

	// PNG
	if len(data) >= 8 && data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47 {
		return true
	}

	return false
}
