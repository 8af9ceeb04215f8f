package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-api/backend/internal/database"
	"todo-api/backend/internal/models"
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

func newTodo(title, user string) *models.Todo {
	return &models.Todo{
		TodoTitle:  title,
		IsComplete: models.TodoIncomplete,
		AddTime:    time.Now().Truncate(time.Microsecond),
		AddUserID:  user,
	}
}

func TestTodoRepository_CRUD(t *testing.T) {
	runTodoRepositoryCRUD(t, setupSQLite(t))
}

func TestTodoRepository_Find(t *testing.T) {
	runTodoRepositoryFind(t, setupSQLite(t))
}

func runTodoRepositoryCRUD(t *testing.T, db *sqlx.DB) {
	ctx := context.Background()
	repo := NewTodoRepository(db)

	content := "內容"
	todo := newTodo("測試待辦", "admin")
	todo.TodoContent = &content
	require.NoError(t, repo.Create(ctx, todo))
	require.Greater(t, todo.TodoID, 0)

	t.Run("find by id", func(t *testing.T) {
		got, err := repo.FindByID(ctx, todo.TodoID)
		require.NoError(t, err)
		assert.Equal(t, "測試待辦", got.TodoTitle)
		require.NotNil(t, got.TodoContent)
		assert.Equal(t, "內容", *got.TodoContent)
		assert.Equal(t, models.TodoIncomplete, got.IsComplete)
		assert.Nil(t, got.CompleteTime)
		assert.True(t, todo.AddTime.Equal(got.AddTime))
		assert.Equal(t, "admin", got.AddUserID)
	})

	t.Run("update", func(t *testing.T) {
		done := time.Now().Truncate(time.Microsecond)
		todo.TodoTitle = "已更新"
		todo.TodoContent = nil
		todo.IsComplete = models.TodoComplete
		todo.CompleteTime = &done
		require.NoError(t, repo.Update(ctx, todo))

		got, err := repo.FindByID(ctx, todo.TodoID)
		require.NoError(t, err)
		assert.Equal(t, "已更新", got.TodoTitle)
		assert.Nil(t, got.TodoContent)
		assert.Equal(t, models.TodoComplete, got.IsComplete)
		require.NotNil(t, got.CompleteTime)
		assert.True(t, done.Equal(*got.CompleteTime))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, todo.TodoID))

		_, err := repo.FindByID(ctx, todo.TodoID)
		assert.ErrorIs(t, err, ErrTodoNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, todo.TodoID), ErrTodoNotFound)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := repo.FindByID(ctx, 999999)
		assert.ErrorIs(t, err, ErrTodoNotFound)
	})
}

func runTodoRepositoryFind(t *testing.T, db *sqlx.DB) {
	ctx := context.Background()
	repo := NewTodoRepository(db)

	t.Run("empty table returns empty slice", func(t *testing.T) {
		todos, err := repo.Find(ctx, models.TodoQuery{})
		require.NoError(t, err)
		assert.NotNil(t, todos)
		assert.Empty(t, todos)
	})

	seed := []*models.Todo{
		newTodo("測試待辦", "admin"),
		newTodo("其他待辦", "admin"),
		newTodo("再測試一次", "demo"),
		newTodo("Report", "demo"),
	}
	seed[1].IsComplete = models.TodoComplete
	for _, todo := range seed {
		require.NoError(t, repo.Create(ctx, todo))
	}

	titles := func(todos []models.Todo) []string {
		out := make([]string, 0, len(todos))
		for _, todo := range todos {
			out = append(out, todo.TodoTitle)
		}
		return out
	}

	tests := []struct {
		name  string
		query models.TodoQuery
		want  []string
	}{
		{"no filter", models.TodoQuery{}, []string{"測試待辦", "其他待辦", "再測試一次", "Report"}},
		{"title substring", models.TodoQuery{TodoTitle: "測試"}, []string{"測試待辦", "再測試一次"}},
		{"title is case sensitive", models.TodoQuery{TodoTitle: "report"}, []string{}},
		{"title exact case", models.TodoQuery{TodoTitle: "Rep"}, []string{"Report"}},
		{"completion", models.TodoQuery{IsComplete: models.TodoComplete}, []string{"其他待辦"}},
		{"creator", models.TodoQuery{AddUserID: "demo"}, []string{"再測試一次", "Report"}},
		{"blank filters", models.TodoQuery{TodoTitle: " ", IsComplete: "\t", AddUserID: "  "}, []string{"測試待辦", "其他待辦", "再測試一次", "Report"}},
		{"combined", models.TodoQuery{TodoTitle: "待辦", IsComplete: models.TodoIncomplete, AddUserID: "admin"}, []string{"測試待辦"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			todos, err := repo.Find(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(todos))
		})
	}
}
