package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"todo-api/backend/internal/config"
	"todo-api/backend/internal/models"
	"todo-api/backend/internal/repositories"
)

// ErrInvalidCredentials はアカウントが存在しないかパスワードが一致しないことを表します。
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserService はユーザー関連のビジネスロジックを扱います。
type UserService struct {
	userRepo *repositories.UserRepository
}

// NewUserService は新しいUserServiceを作成します。
func NewUserService(userRepo *repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// AuthenticateUser はユーザーを認証し、成功したらユーザーを返します。
func (s *UserService) AuthenticateUser(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	foundUser, err := s.userRepo.FindByUserID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := repositories.VerifyPassword(foundUser.PasswordHash, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	foundUser.PasswordHash = "" // レスポンスにパスワードを含めない
	return foundUser, nil
}

// SeedUsers は users テーブルが空のとき、admin と demo を登録します。
func (s *UserService) SeedUsers(ctx context.Context, seed config.SeedConfig, logger *log.Logger) error {
	n, err := s.userRepo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	users := []struct {
		id, password, role string
	}{
		{"admin", seed.AdminPassword, models.RoleAdmin},
		{"demo", seed.DemoPassword, models.RoleUser},
	}
	for _, u := range users {
		hash, err := repositories.HashPassword(u.password)
		if err != nil {
			return err
		}
		if err := s.userRepo.Create(ctx, &models.User{UserID: u.id, PasswordHash: hash, Role: u.role}); err != nil {
			return fmt.Errorf("seed user %s: %w", u.id, err)
		}
		if logger != nil {
			logger.Info("seeded user", "user_id", u.id, "role", u.role)
		}
	}
	return nil
}
