// internal/services/auth_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cacho-medina/luxbuy-back/internal/apperrors"
	"github.com/cacho-medina/luxbuy-back/internal/config"
	"github.com/cacho-medina/luxbuy-back/internal/models"
	"github.com/cacho-medina/luxbuy-back/internal/utils"
)

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"` // in seconds
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{
		db:  db,
		cfg: cfg,
	}
}

func (s *AuthService) Login(req *LoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Wrap(apperrors.KindValidation, "validation failed", err)
	}

	var user models.User
	if err := s.db.Scopes(models.Active).Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindValidation, "invalid email or password")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "database error", err)
	}

	if !user.IsActive {
		return nil, apperrors.New(apperrors.KindValidation, "account is inactive")
	}

	if err := user.CheckPassword(req.Password); err != nil {
		return nil, apperrors.New(apperrors.KindValidation, "invalid email or password")
	}

	return s.buildAuthResponse(&user)
}

func (s *AuthService) RefreshToken(refreshToken string) (*AuthResponse, error) {
	userIDStr, err := utils.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindValidation, "invalid refresh token", err)
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindValidation, "invalid user ID in token", err)
	}

	var user models.User
	if err := s.db.Scopes(models.Active).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "user not found")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "database error", err)
	}

	if !user.IsActive {
		return nil, apperrors.New(apperrors.KindValidation, "account is inactive")
	}

	return s.buildAuthResponse(&user)
}

func (s *AuthService) GetProfile(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.Scopes(models.Active).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "user not found")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "database error", err)
	}
	return &user, nil
}

func (s *AuthService) buildAuthResponse(user *models.User) (*AuthResponse, error) {
	accessToken, err := utils.GenerateJWT(user.ID, user.Email, string(user.Role), s.cfg.JWT.AccessTokenTTL)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, fmt.Sprintf("failed to generate access token for %s", user.Email), err)
	}

	refreshToken, err := utils.GenerateRefreshToken(user.ID, s.cfg.JWT.RefreshTokenTTL)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to generate refresh token", err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.cfg.JWT.AccessTokenTTL * 3600, // Convert hours to seconds
	}, nil
}
