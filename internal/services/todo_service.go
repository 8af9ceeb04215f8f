package services

import (
	"context"
	"time"

	"todo-api/backend/internal/models"
	"todo-api/backend/internal/repositories"
)

// TodoService はTodo関連のビジネスロジックを扱います。
type TodoService struct {
	todoRepo *repositories.TodoRepository
	now      func() time.Time
}

// NewTodoService は新しいTodoServiceを作成します。
func NewTodoService(todoRepo *repositories.TodoRepository) *TodoService {
	return &TodoService{todoRepo: todoRepo, now: time.Now}
}

// WithClock は時刻の取得元を差し替えます。
func (s *TodoService) WithClock(now func() time.Time) *TodoService {
	s.now = now
	return s
}

// timestamp は DB に保存できる精度 (マイクロ秒) に丸めた現在時刻です。
func (s *TodoService) timestamp() time.Time {
	return s.now().Truncate(time.Microsecond)
}

// GetTodos は条件に合うTodoを取得します。
func (s *TodoService) GetTodos(ctx context.Context, q models.TodoQuery) ([]models.Todo, error) {
	return s.todoRepo.Find(ctx, q)
}

// GetTodoByID は指定IDのTodoを取得します。
func (s *TodoService) GetTodoByID(ctx context.Context, id int) (*models.Todo, error) {
	return s.todoRepo.FindByID(ctx, id)
}

// CreateTodo は新しいTodoを作成します。完了状態は常に未完了で作成されます。
func (s *TodoService) CreateTodo(ctx context.Context, req models.InsertTodoRequest, userID string) (*models.Todo, error) {
	todo := &models.Todo{
		TodoTitle:   req.TodoTitle,
		TodoContent: req.TodoContent,
		IsComplete:  models.TodoIncomplete,
		AddTime:     s.timestamp(),
		AddUserID:   userID,
	}
	if err := s.todoRepo.Create(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

// UpdateTodo はTodoを更新します。
// 未完了から完了になったときに完了日時を設定し、完了から未完了に戻したときにクリアします。
func (s *TodoService) UpdateTodo(ctx context.Context, id int, req models.UpdateTodoRequest) (*models.Todo, error) {
	todo, err := s.todoRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	wasIncomplete := todo.IsComplete == models.TodoIncomplete
	switch {
	case wasIncomplete && req.IsComplete == models.TodoComplete:
		now := s.timestamp()
		todo.CompleteTime = &now
	case !wasIncomplete && req.IsComplete == models.TodoIncomplete:
		todo.CompleteTime = nil
	}

	todo.TodoTitle = req.TodoTitle
	todo.TodoContent = req.TodoContent
	todo.IsComplete = req.IsComplete

	if err := s.todoRepo.Update(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

// DeleteTodo はTodoを削除します。
func (s *TodoService) DeleteTodo(ctx context.Context, id int) error {
	if _, err := s.todoRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.todoRepo.Delete(ctx, id)
}
