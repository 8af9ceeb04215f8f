package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"todo-api/backend/internal/models"
)

// ErrTodoNotFound は指定IDのTodoが存在しないことを表します。
var ErrTodoNotFound = errors.New("todo not found")

const todoColumns = "todo_id, todo_title, todo_content, is_complete, complete_time, add_time, add_user_id"

// TodoRepository は todos テーブルを操作します。
type TodoRepository struct {
	DB *sqlx.DB
}

// NewTodoRepository は新しいTodoRepositoryインスタンスを作成します。
func NewTodoRepository(db *sqlx.DB) *TodoRepository {
	return &TodoRepository{DB: db}
}

// FindByID は主キーで検索します。
func (r *TodoRepository) FindByID(ctx context.Context, id int) (*models.Todo, error) {
	var t models.Todo
	err := r.DB.GetContext(ctx, &t, "SELECT "+todoColumns+" FROM todos WHERE todo_id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("could not query todo %d: %w", id, err)
	}
	return &t, nil
}

// Find は条件に合う Todo を todo_id 順で返します。空白のみの条件は無視します。
// 該当がない場合は空スライスを返します。
func (r *TodoRepository) Find(ctx context.Context, q models.TodoQuery) ([]models.Todo, error) {
	var (
		where []string
		args  []any
	)
	if !isBlank(q.TodoTitle) {
		// 大文字小文字を区別する部分一致 (MySQL 側は utf8mb4_bin 照合順序)
		where = append(where, "INSTR(todo_title, ?) > 0")
		args = append(args, q.TodoTitle)
	}
	if !isBlank(q.IsComplete) {
		where = append(where, "is_complete = ?")
		args = append(args, q.IsComplete)
	}
	if !isBlank(q.AddUserID) {
		where = append(where, "add_user_id = ?")
		args = append(args, q.AddUserID)
	}

	query := "SELECT " + todoColumns + " FROM todos"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY todo_id"

	todos := []models.Todo{}
	if err := r.DB.SelectContext(ctx, &todos, query, args...); err != nil {
		return nil, fmt.Errorf("could not query todos: %w", err)
	}
	return todos, nil
}

// Create はTodoを挿入し、採番された ID を t に設定します。
func (r *TodoRepository) Create(ctx context.Context, t *models.Todo) error {
	query := `INSERT INTO todos (todo_title, todo_content, is_complete, complete_time, add_time, add_user_id)
		VALUES (?, ?, ?, ?, ?, ?)`
	result, err := r.DB.ExecContext(ctx, query,
		t.TodoTitle, t.TodoContent, t.IsComplete, t.CompleteTime, t.AddTime, t.AddUserID)
	if err != nil {
		return fmt.Errorf("could not insert todo: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("could not get last insert ID: %w", err)
	}
	t.TodoID = int(id)
	return nil
}

// Update はタイトル・内容・完了状態・完了日時を上書きします。
// add_time と add_user_id は変更しません。
// MySQL は値が変わらない行を影響行数に数えないため、存在確認は呼び出し側で行います。
func (r *TodoRepository) Update(ctx context.Context, t *models.Todo) error {
	query := `UPDATE todos SET todo_title = ?, todo_content = ?, is_complete = ?, complete_time = ?
		WHERE todo_id = ?`
	_, err := r.DB.ExecContext(ctx, query,
		t.TodoTitle, t.TodoContent, t.IsComplete, t.CompleteTime, t.TodoID)
	if err != nil {
		return fmt.Errorf("could not update todo %d: %w", t.TodoID, err)
	}
	return nil
}

// Delete はTodoを削除します。
func (r *TodoRepository) Delete(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, "DELETE FROM todos WHERE todo_id = ?", id)
	if err != nil {
		return fmt.Errorf("could not delete todo %d: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected for todo %d: %w", id, err)
	}
	if n == 0 {
		return ErrTodoNotFound
	}
	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
