// Package response はすべての API 応答で共通のエンベロープ形式を提供します。
//
// 成功・入力検証エラー・業務エラー・認証/認可エラー・内部エラーのいずれも
// {code, message, data | validationErrors | exceptionDetails, traceId} の形で返します。
package response

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

// Code はエンベロープの状態コードです。
type Code int

const (
	CodeSuccess             Code = 2000
	CodeValidationError     Code = 4000
	CodeUnauthorized        Code = 4001
	CodeForbidden           Code = 4003
	CodeBusinessLogicError  Code = 4022
	CodeInternalServerError Code = 5000
)

// 既定のメッセージ
const (
	MessageSuccess             = "操作成功"
	MessageValidationError     = "資料驗證錯誤"
	MessageUnauthorized        = "未驗證或 Token 無效"
	MessageForbidden           = "權限不足"
	MessageInternalServerError = "程式內部錯誤"
)

// RequestIDKey は gin.Context にリクエスト ID を格納するキーです。
const RequestIDKey = "request_id"

// ValidationErrors はフィールド名からエラーメッセージ一覧への対応です。
type ValidationErrors map[string][]string

// Add は field にメッセージを追加します。
func (v ValidationErrors) Add(field, message string) {
	v[field] = append(v[field], message)
}

// ExceptionDetails は 500 応答に含める例外情報です。
type ExceptionDetails struct {
	Type      string `json:"type"`
	Title     string `json:"title"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"requestId"`
}

// APIResponse は API の統一レスポンス形式です。
type APIResponse[T any] struct {
	Code             Code              `json:"code"`
	Message          string            `json:"message"`
	Data             *T                `json:"data,omitempty"`
	ValidationErrors ValidationErrors  `json:"validationErrors,omitempty"`
	ExceptionDetails *ExceptionDetails `json:"exceptionDetails,omitempty"`
	TraceID          string            `json:"traceId,omitempty"`
}

// Ok は 200 / 2000 を返します。message が空の場合は既定メッセージを使います。
func Ok[T any](c *gin.Context, message string, data T) {
	if message == "" {
		message = MessageSuccess
	}
	write(c, http.StatusOK, APIResponse[T]{Code: CodeSuccess, Message: message, Data: &data})
}

// BadRequest は 400 / 4000 を返します。
func BadRequest(c *gin.Context, errs ValidationErrors) {
	write(c, http.StatusBadRequest, APIResponse[any]{
		Code:             CodeValidationError,
		Message:          MessageValidationError,
		ValidationErrors: errs,
	})
}

// Unauthorized は 401 / 4001 を返します。
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = MessageUnauthorized
	}
	write(c, http.StatusUnauthorized, APIResponse[any]{Code: CodeUnauthorized, Message: message})
}

// Forbidden は 403 / 4003 を返します。
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = MessageForbidden
	}
	write(c, http.StatusForbidden, APIResponse[any]{Code: CodeForbidden, Message: message})
}

// BusinessLogicError は 422 / 4022 を返します。
// 入力は正しいが処理を完了できない場合 (対象が存在しない等) に使います。
func BusinessLogicError(c *gin.Context, message string) {
	write(c, http.StatusUnprocessableEntity, APIResponse[any]{Code: CodeBusinessLogicError, Message: message})
}

// InternalServerError は 500 / 5000 を返します。
func InternalServerError(c *gin.Context, details ExceptionDetails) {
	write(c, http.StatusInternalServerError, APIResponse[any]{
		Code:             CodeInternalServerError,
		Message:          MessageInternalServerError,
		ExceptionDetails: &details,
	})
}

// NewExceptionDetails は err から ExceptionDetails を組み立てます。
// includeDetail が false の場合、スタックを含む詳細は返しません。
func NewExceptionDetails(err error, requestID string, includeDetail bool) ExceptionDetails {
	if err == nil {
		err = errors.New("unknown error")
	}
	details := ExceptionDetails{
		Type:      typeName(err),
		Title:     err.Error(),
		RequestID: requestID,
	}
	if includeDetail {
		details.Detail = fmt.Sprintf("%+v\n%s", err, debug.Stack())
	}
	return details
}

// RequestID は gin.Context に格納されたリクエスト ID を返します。
func RequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

func write[T any](c *gin.Context, status int, body APIResponse[T]) {
	body.TraceID = RequestID(c)
	// PureJSON は HTML をエスケープせず、非 ASCII 文字もそのまま出力する
	c.PureJSON(status, body)
}

// typeName はラップされた最も内側のエラー型名を返します。
func typeName(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			break
		}
		err = next
	}
	t := reflect.TypeOf(err)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return t.String()
	}
	return t.Name()
}
