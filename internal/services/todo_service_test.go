package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-api/backend/internal/models"
	"todo-api/backend/internal/repositories"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestTodoService_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2024, 5, 1, 9, 0, 0, 0, time.Local)}
	svc := NewTodoService(repositories.NewTodoRepository(setupSQLite(t))).WithClock(clock.now)

	content := "B"
	created, err := svc.CreateTodo(ctx, models.InsertTodoRequest{TodoTitle: "A", TodoContent: &content}, "admin")
	require.NoError(t, err)
	assert.Greater(t, created.TodoID, 0)
	assert.Equal(t, models.TodoIncomplete, created.IsComplete)
	assert.Nil(t, created.CompleteTime)
	assert.Equal(t, "admin", created.AddUserID)

	got, err := svc.GetTodoByID(ctx, created.TodoID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.TodoTitle)
	require.NotNil(t, got.TodoContent)
	assert.Equal(t, "B", *got.TodoContent)
	assert.Equal(t, models.TodoIncomplete, got.IsComplete)
	assert.Equal(t, "admin", got.AddUserID)
	assert.True(t, clock.t.Equal(got.AddTime))

	_, err = svc.GetTodoByID(ctx, 999999)
	assert.ErrorIs(t, err, repositories.ErrTodoNotFound)
}

func TestTodoService_UpdateCompletionTransitions(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2024, 5, 1, 9, 0, 0, 0, time.Local)}
	svc := NewTodoService(repositories.NewTodoRepository(setupSQLite(t))).WithClock(clock.now)

	created, err := svc.CreateTodo(ctx, models.InsertTodoRequest{TodoTitle: "A"}, "admin")
	require.NoError(t, err)
	id := created.TodoID

	update := func(isComplete string) *models.Todo {
		t.Helper()
		todo, err := svc.UpdateTodo(ctx, id, models.UpdateTodoRequest{TodoTitle: "A", IsComplete: isComplete})
		require.NoError(t, err)
		stored, err := svc.GetTodoByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, todo.IsComplete, stored.IsComplete)
		return stored
	}

	// N → N
	clock.advance(time.Minute)
	todo := update(models.TodoIncomplete)
	assert.Nil(t, todo.CompleteTime)

	// N → Y
	clock.advance(time.Minute)
	completedAt := clock.t
	todo = update(models.TodoComplete)
	require.NotNil(t, todo.CompleteTime)
	assert.True(t, completedAt.Equal(*todo.CompleteTime))
	assert.False(t, todo.CompleteTime.Before(todo.AddTime))

	// Y → Y
	clock.advance(time.Minute)
	todo = update(models.TodoComplete)
	require.NotNil(t, todo.CompleteTime)
	assert.True(t, completedAt.Equal(*todo.CompleteTime), "complete time is kept")

	// Y → N
	clock.advance(time.Minute)
	todo = update(models.TodoIncomplete)
	assert.Nil(t, todo.CompleteTime)

	t.Run("add time and creator never change", func(t *testing.T) {
		assert.True(t, created.AddTime.Equal(todo.AddTime))
		assert.Equal(t, "admin", todo.AddUserID)
	})

	t.Run("missing todo", func(t *testing.T) {
		_, err := svc.UpdateTodo(ctx, 999999, models.UpdateTodoRequest{TodoTitle: "A", IsComplete: models.TodoComplete})
		assert.ErrorIs(t, err, repositories.ErrTodoNotFound)
	})
}

func TestTodoService_Delete(t *testing.T) {
	ctx := context.Background()
	svc := NewTodoService(repositories.NewTodoRepository(setupSQLite(t)))

	created, err := svc.CreateTodo(ctx, models.InsertTodoRequest{TodoTitle: "A"}, "admin")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTodo(ctx, created.TodoID))

	_, err = svc.GetTodoByID(ctx, created.TodoID)
	assert.ErrorIs(t, err, repositories.ErrTodoNotFound)
	assert.ErrorIs(t, svc.DeleteTodo(ctx, created.TodoID), repositories.ErrTodoNotFound)
}

func TestTodoService_GetTodos(t *testing.T) {
	ctx := context.Background()
	svc := NewTodoService(repositories.NewTodoRepository(setupSQLite(t)))

	for _, title := range []string{"測試待辦", "其他待辦"} {
		_, err := svc.CreateTodo(ctx, models.InsertTodoRequest{TodoTitle: title}, "admin")
		require.NoError(t, err)
	}

	todos, err := svc.GetTodos(ctx, models.TodoQuery{TodoTitle: "測試"})
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "測試待辦", todos[0].TodoTitle)
}
