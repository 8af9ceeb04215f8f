// Package handlers は HTTP リクエストを処理し、統一エンベロープで応答します。
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"todo-api/backend/internal/models"
	"todo-api/backend/internal/response"
	"todo-api/backend/internal/services"
	"todo-api/backend/internal/validation"
)

// メッセージ
const (
	msgLoginSuccess       = "登入成功"
	msgInvalidCredentials = "帳號或密碼不正確"
)

// PrincipalKey は認証済みユーザーを gin.Context に格納するキーです。
const PrincipalKey = "principal"

// CurrentPrincipal は認証ミドルウェアが格納した呼び出し元を返します。
func CurrentPrincipal(c *gin.Context) (models.Principal, bool) {
	v, ok := c.Get(PrincipalKey)
	if !ok {
		return models.Principal{}, false
	}
	p, ok := v.(models.Principal)
	return p, ok
}

// UserHandler はユーザー関連のハンドラーを管理します。
type UserHandler struct {
	userService *services.UserService
	jwtService  *services.JWTService
	validator   *validation.Validator
}

// NewUserHandler は新しいUserHandlerを作成します。
func NewUserHandler(userService *services.UserService, jwtService *services.JWTService, v *validation.Validator) *UserHandler {
	return &UserHandler{userService: userService, jwtService: jwtService, validator: v}
}

// LoginHandler はユーザーログインを処理します。
// 認証失敗はトークンがまだ存在しないため 401 ではなく 422 で返します。
func (h *UserHandler) LoginHandler(c *gin.Context) {
	var req models.LoginRequest
	if errs := h.validator.BindJSON(c, &req); errs != nil {
		response.BadRequest(c, errs)
		return
	}

	user, err := h.userService.AuthenticateUser(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			response.BusinessLogicError(c, msgInvalidCredentials)
			return
		}
		_ = c.Error(err)
		return
	}

	token, err := h.jwtService.GenerateToken(user.UserID, user.UserID, user.Role)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Ok(c, msgLoginSuccess, models.LoginResponse{Token: token, ExpiresIn: h.jwtService.ExpiresIn()})
}
