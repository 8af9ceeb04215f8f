//go:build integration

package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mysql"

	"todo-api/backend/internal/database"
)

// go test -tags integration ./internal/repositories/... で実行します (Docker が必要)。
func TestTodoRepository_MySQL(t *testing.T) {
	ctx := context.Background()

	container, err := mysql.Run(ctx, "mysql:8.0",
		mysql.WithDatabase("todo"),
		mysql.WithUsername("todo"),
		mysql.WithPassword("secret"),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	dsn, err := container.ConnectionString(ctx, "parseTime=true", "loc=Local", "charset=utf8mb4")
	require.NoError(t, err)

	db, err := database.Open(ctx, database.DriverMySQL, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(ctx, db))

	t.Run("crud", func(t *testing.T) { runTodoRepositoryCRUD(t, db) })

	_, err = db.ExecContext(ctx, "TRUNCATE TABLE todos")
	require.NoError(t, err)
	t.Run("find", func(t *testing.T) { runTodoRepositoryFind(t, db) })
}
