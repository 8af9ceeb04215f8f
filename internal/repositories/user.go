// Package repositories はデータベース操作を行うリポジトリを提供します。
package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"todo-api/backend/internal/models"

	"golang.org/x/crypto/bcrypt" // パスワードのハッシュ化用
)

// UserRepository はユーザーテーブルを操作します。
type UserRepository struct {
	DB *sqlx.DB
}

// NewUserRepository は新しいUserRepositoryインスタンスを作成します。
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// HashPassword は与えられたパスワードをbcryptでハッシュ化します。
func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedPassword), nil
}

// VerifyPassword はハッシュ化されたパスワードと平文のパスワードを比較します。
func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

var (
	ErrDuplicateUser = errors.New("duplicate user")
	ErrUserNotFound  = errors.New("user not found")
)

// Create は新しいユーザーを挿入します。
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	query := "INSERT INTO users (user_id, password_hash, role) VALUES (?, ?, ?)"
	if _, err := r.DB.ExecContext(ctx, query, u.UserID, u.PasswordHash, u.Role); err != nil {
		// MySQLの重複エントリーエラーコード1062をチェック
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return ErrDuplicateUser
		}
		return fmt.Errorf("could not insert user: %w", err)
	}
	return nil
}

// FindByUserID はアカウント ID でユーザーを検索します。
func (r *UserRepository) FindByUserID(ctx context.Context, userID string) (*models.User, error) {
	var u models.User
	err := r.DB.GetContext(ctx, &u, "SELECT user_id, password_hash, role FROM users WHERE user_id = ?", userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("could not query user: %w", err)
	}
	return &u, nil
}

// Count は登録済みユーザー数を返します。
func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.GetContext(ctx, &n, "SELECT COUNT(*) FROM users"); err != nil {
		return 0, fmt.Errorf("could not count users: %w", err)
	}
	return n, nil
}
