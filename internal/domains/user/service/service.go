package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"agency-erp/internal/domains/user/model"
	"agency-erp/internal/domains/user/repository"
	"agency-erp/pkg/jwt"
	"agency-erp/pkg/logger"
)

type ServiceInterface interface {
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.UserDTO, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req model.ChangePasswordRequest) error
}

type userService struct {
	repo repository.Repository
	jwt  *jwt.Manager
}

func NewUserService(repo repository.Repository, jwtManager *jwt.Manager) ServiceInterface {
	return &userService{repo: repo, jwt: jwtManager}
}

// Login xác thực email/password và cấp access token
func (s *userService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	// Step 1: Validate
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Step 2: Find user (không tiết lộ email có tồn tại hay không)
	user, err := s.repo.FindByEmail(ctx, req.NormalizedEmail())
	if err != nil {
		if !errors.Is(err, model.ErrUserNotFound) {
			logger.Error("Failed to load user for login", err)
		}
		return nil, model.ErrInvalidCredentials
	}

	// Step 3: Check active
	if !user.IsActive {
		return nil, model.ErrUserInactive
	}

	// Step 4: Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	// Step 5: Generate token
	token, expiresAt, err := s.jwt.GenerateAccessToken(user.ID.String(), user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	// Step 6: Update last login (fire and forget)
	go func(id uuid.UUID) {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.repo.UpdateLastLogin(bgCtx, id); err != nil {
			logger.Error("Failed to update last login", err)
		}
	}(user.ID)

	return &model.LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        user.ToDTO(),
	}, nil
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.UserDTO, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, model.ErrUserInactive
	}
	dto := user.ToDTO()
	return &dto, nil
}

func (s *userService) ChangePassword(ctx context.Context, userID uuid.UUID, req model.ChangePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if req.CurrentPassword == req.NewPassword {
		return validation.Errors{"newPassword": model.ErrSamePassword}
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return model.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}

	logger.Info("Password changed", map[string]interface{}{"user_id": userID.String()})
	return nil
}
