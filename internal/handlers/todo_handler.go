package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"todo-api/backend/internal/models"
	"todo-api/backend/internal/repositories"
	"todo-api/backend/internal/response"
	"todo-api/backend/internal/services"
	"todo-api/backend/internal/validation"
)

// メッセージ
const (
	msgQuerySuccess  = "查詢成功"
	msgInsertSuccess = "新增成功"
	msgUpdateSuccess = "更新成功"
	msgDeleteSuccess = "刪除成功"
	msgTodoNotFound  = "找不到指定的待辦事項"
)

// TodoHandler はTodo関連のハンドラーを管理します。
type TodoHandler struct {
	todoService *services.TodoService
	validator   *validation.Validator
}

// NewTodoHandler は新しいTodoHandlerを作成します。
func NewTodoHandler(todoService *services.TodoService, v *validation.Validator) *TodoHandler {
	return &TodoHandler{todoService: todoService, validator: v}
}

// GetTodosHandler は条件に合うTodoの一覧を返します。該当なしでも成功です。
func (h *TodoHandler) GetTodosHandler(c *gin.Context) {
	var q models.TodoQuery
	if errs := h.validator.BindQuery(c, &q); errs != nil {
		response.BadRequest(c, errs)
		return
	}

	todos, err := h.todoService.GetTodos(c.Request.Context(), q)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Ok(c, msgQuerySuccess, todos)
}

// GetTodoByIDHandler は指定IDのTodoを返します。
func (h *TodoHandler) GetTodoByIDHandler(c *gin.Context) {
	id, errs := validation.PathID(c, "id")
	if errs != nil {
		response.BadRequest(c, errs)
		return
	}

	todo, err := h.todoService.GetTodoByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Ok(c, msgQuerySuccess, todo)
}

// CreateTodoHandler は新しいTodoを作成します。作成者はトークンの subject です。
func (h *TodoHandler) CreateTodoHandler(c *gin.Context) {
	var req models.InsertTodoRequest
	if errs := h.validator.BindJSON(c, &req); errs != nil {
		response.BadRequest(c, errs)
		return
	}

	principal, ok := CurrentPrincipal(c)
	if !ok {
		response.Unauthorized(c, "")
		return
	}

	todo, err := h.todoService.CreateTodo(c.Request.Context(), req, principal.UserID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Ok(c, msgInsertSuccess, todo)
}

// UpdateTodoHandler はTodoを更新します。
func (h *TodoHandler) UpdateTodoHandler(c *gin.Context) {
	id, errs := validation.PathID(c, "id")
	if errs != nil {
		response.BadRequest(c, errs)
		return
	}

	var req models.UpdateTodoRequest
	if errs := h.validator.BindJSON(c, &req); errs != nil {
		response.BadRequest(c, errs)
		return
	}

	todo, err := h.todoService.UpdateTodo(c.Request.Context(), id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Ok(c, msgUpdateSuccess, todo)
}

// DeleteTodoHandler はTodoを削除し、削除したIDを返します。
func (h *TodoHandler) DeleteTodoHandler(c *gin.Context) {
	id, errs := validation.PathID(c, "id")
	if errs != nil {
		response.BadRequest(c, errs)
		return
	}

	if err := h.todoService.DeleteTodo(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	response.Ok(c, msgDeleteSuccess, models.DeleteTodoResponse{TodoID: id})
}

// handleError は存在しないTodoを 422、それ以外を 500 として扱います。
func (h *TodoHandler) handleError(c *gin.Context, err error) {
	if errors.Is(err, repositories.ErrTodoNotFound) {
		response.BusinessLogicError(c, msgTodoNotFound)
		return
	}
	_ = c.Error(err)
}
