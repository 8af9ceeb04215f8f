package services

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-api/backend/internal/config"
	"todo-api/backend/internal/database"
	"todo-api/backend/internal/logging"
	"todo-api/backend/internal/models"
	"todo-api/backend/internal/repositories"
)

func setupSQLite(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()
	db, err := database.Open(ctx, database.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(ctx, db))
	return db
}

func TestUserService(t *testing.T) {
	ctx := context.Background()
	userRepo := repositories.NewUserRepository(setupSQLite(t))
	svc := NewUserService(userRepo)

	seed := config.SeedConfig{AdminPassword: "admin123", DemoPassword: "demo123"}
	require.NoError(t, svc.SeedUsers(ctx, seed, logging.Discard()))

	t.Run("seeding twice is a no-op", func(t *testing.T) {
		require.NoError(t, svc.SeedUsers(ctx, seed, nil))
		n, err := userRepo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("valid credentials", func(t *testing.T) {
		u, err := svc.AuthenticateUser(ctx, models.LoginRequest{UserID: "admin", Password: "admin123"})
		require.NoError(t, err)
		assert.Equal(t, "admin", u.UserID)
		assert.Equal(t, models.RoleAdmin, u.Role)
		assert.Empty(t, u.PasswordHash)
	})

	t.Run("demo user has user role", func(t *testing.T) {
		u, err := svc.AuthenticateUser(ctx, models.LoginRequest{UserID: "demo", Password: "demo123"})
		require.NoError(t, err)
		assert.Equal(t, models.RoleUser, u.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.AuthenticateUser(ctx, models.LoginRequest{UserID: "admin", Password: "demo123"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.AuthenticateUser(ctx, models.LoginRequest{UserID: "ghost", Password: "admin123"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
