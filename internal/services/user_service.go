// internal/services/user_service.go
package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cacho-medina/luxbuy-back/internal/apperrors"
	"github.com/cacho-medina/luxbuy-back/internal/models"
	"github.com/cacho-medina/luxbuy-back/internal/utils"
)

type UserService struct {
	db            *gorm.DB
	notifications *NotificationService
}

type CreateUserRequest struct {
	Name     string          `json:"name" validate:"required,min=2,max=100"`
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,strong_password"`
	Role     models.UserRole `json:"role" validate:"omitempty,oneof=admin user"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,strong_password"`
	Image    *string `json:"image,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

func NewUserService(db *gorm.DB, notifications *NotificationService) *UserService {
	return &UserService{
		db:            db,
		notifications: notifications,
	}
}

func (s *UserService) Create(req *CreateUserRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Wrap(apperrors.KindValidation, "validation failed", err)
	}

	var count int64
	if err := s.db.Model(&models.User{}).Scopes(models.Active).
		Where("LOWER(email) = LOWER(?)", req.Email).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "database error", err)
	}
	if count > 0 {
		return nil, apperrors.New(apperrors.KindConflict, "user with this email already exists")
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Role:     role,
		IsActive: true,
		Status:   models.StatusActive,
	}

	if err := user.SetPassword(req.Password); err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to hash password", err)
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to create user", err)
	}

	// Welcome email is best effort
	go s.notifications.SendWelcomeEmail(user)

	return user, nil
}

// FindAll returns every user that has not been soft-deleted, inactive
// accounts included.
func (s *UserService) FindAll(params utils.PaginationParams) (*utils.PaginationResult, error) {
	var users []models.User
	var total int64

	query := s.db.Model(&models.User{}).Scopes(models.Active)
	if params.Search != "" {
		search := "%" + params.Search + "%"
		query = query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)", search, search)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "database error", err)
	}

	query = utils.ApplySort(query, params, []string{"name", "email", "created_at"})
	query = utils.ApplyPagination(query, params)

	if err := query.Find(&users).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "database error", err)
	}

	result := utils.CreatePaginationResult(users, total, params)
	return &result, nil
}

// FindAllActive narrows FindAll to accounts that can currently log in.
func (s *UserService) FindAllActive() ([]models.User, error) {
	var users []models.User
	if err := s.db.Scopes(models.Active).Where("is_active = ?", true).
		Order("name asc").Find(&users).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "database error", err)
	}
	return users, nil
}

func (s *UserService) FindOne(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.Scopes(models.Active).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "user not found")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "database error", err)
	}
	return &user, nil
}

func (s *UserService) Update(id uuid.UUID, req *UpdateUserRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Wrap(apperrors.KindValidation, "validation failed", err)
	}

	user, err := s.FindOne(id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != user.Email {
		var count int64
		if err := s.db.Model(&models.User{}).Scopes(models.Active).
			Where("LOWER(email) = LOWER(?) AND id <> ?", *req.Email, id).Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.KindInternal, "database error", err)
		}
		if count > 0 {
			return nil, apperrors.New(apperrors.KindConflict, "user with this email already exists")
		}
		user.Email = *req.Email
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Image != nil {
		user.Image = *req.Image
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Password != nil {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, apperrors.Wrap(apperrors.KindInternal, "failed to hash password", err)
		}
	}

	if err := s.db.Save(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to update user", err)
	}

	return user, nil
}

// ResetPassword replaces the user's password with a generated temporary one
// and emails it. The password never travels back through the API.
func (s *UserService) ResetPassword(id uuid.UUID) error {
	user, err := s.FindOne(id)
	if err != nil {
		return err
	}

	temporary, err := utils.GenerateTemporaryPassword()
	if err != nil {
		return apperrors.Wrap(apperrors.KindInternal, "failed to generate password", err)
	}

	if err := user.SetPassword(temporary); err != nil {
		return apperrors.Wrap(apperrors.KindInternal, "failed to hash password", err)
	}

	if err := s.db.Save(user).Error; err != nil {
		return apperrors.Wrap(apperrors.KindInternal, "failed to reset password", err)
	}

	go s.notifications.SendPasswordReset(user, temporary)

	return nil
}

// SoftDelete marks the account deleted; it stays addressable by id.
func (s *UserService) SoftDelete(id uuid.UUID) (*models.User, error) {
	user, err := s.FindOne(id)
	if err != nil {
		return nil, err
	}

	user.Status = models.StatusDeleted
	user.IsActive = false
	if err := s.db.Save(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to delete user", err)
	}

	return user, nil
}

// Remove deletes the row permanently.
func (s *UserService) Remove(id uuid.UUID) error {
	result := s.db.Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.KindInternal, "failed to remove user", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.KindNotFound, "user not found")
	}
	return nil
}
