package routes

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"todo-api/backend/internal/handlers"
	"todo-api/backend/internal/logging"
	"todo-api/backend/internal/models"
	"todo-api/backend/internal/response"
	"todo-api/backend/internal/services"
)

// RequestIDHeader はリクエスト ID を受け渡すヘッダーです。
const RequestIDHeader = "X-Request-ID"

// 認証失敗の理由
const (
	msgTokenExpired   = "Token 已過期"
	msgTokenSignature = "Token 簽章無效"
	msgTokenAudience  = "Token 發行者或受眾無效"
)

// maxLoggedBody はデバッグログに出力するリクエストボディの上限です。
const maxLoggedBody = 2048

// PanicError は handler で発生した panic を表します。
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// RequestID はリクエスト ID を決定し、コンテキストとレスポンスヘッダーに設定します。
// クライアントが X-Request-ID を送った場合はその値を使います。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(response.RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestLogger はリクエスト単位のロガーを context に格納し、処理結果を記録します。
func RequestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqLogger := logger.With("request_id", response.RequestID(c))
		c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), reqLogger))

		if reqLogger.GetLevel() <= log.DebugLevel && c.Request.Body != nil && !strings.HasSuffix(c.Request.URL.Path, "/login") {
			body, err := io.ReadAll(c.Request.Body)
			if err == nil {
				c.Request.Body = io.NopCloser(bytes.NewReader(body))
				if len(body) > maxLoggedBody {
					body = body[:maxLoggedBody]
				}
				if len(body) > 0 {
					reqLogger.Debug("request body", "body", string(body))
				}
			}
		}

		c.Next()

		status := c.Writer.Status()
		fields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		switch {
		case status >= 500:
			reqLogger.Error("request completed", fields...)
		case status >= 400:
			reqLogger.Warn("request completed", fields...)
		default:
			reqLogger.Info("request completed", fields...)
		}
	}
}

// Recovery は panic を 500 のエンベロープに変換します。
func Recovery(logger *log.Logger, exposeDetail bool) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		err, ok := recovered.(error)
		if !ok {
			err = &PanicError{Value: recovered}
		}
		logging.FromContext(c.Request.Context(), logger).Error("panic recovered", "err", err)

		response.InternalServerError(c, response.NewExceptionDetails(err, response.RequestID(c), exposeDetail))
		c.Abort()
	})
}

// ErrorHandler は handler が c.Error で記録した想定外のエラーを 500 のエンベロープに変換します。
// 詳細は常にログに残し、exposeDetail が true の場合のみクライアントに返します。
func ErrorHandler(logger *log.Logger, exposeDetail bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		logging.FromContext(c.Request.Context(), logger).Error("unhandled error",
			"err", err, "method", c.Request.Method, "path", c.Request.URL.Path)

		if c.Writer.Written() {
			return
		}
		response.InternalServerError(c, response.NewExceptionDetails(err, response.RequestID(c), exposeDetail))
	}
}

// AuthMiddleware はJWTトークンを検証し、呼び出し元をコンテキストに設定するミドルウェアです。
func AuthMiddleware(jwtService *services.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		scheme, tokenString, found := strings.Cut(strings.TrimSpace(c.GetHeader("Authorization")), " ")
		tokenString = strings.TrimSpace(tokenString)
		if !found || !strings.EqualFold(scheme, "Bearer") || tokenString == "" {
			response.Unauthorized(c, "")
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			response.Unauthorized(c, tokenFailureReason(err))
			c.Abort()
			return
		}

		c.Set(handlers.PrincipalKey, models.Principal{
			UserID: claims.Subject,
			Name:   claims.UniqueName,
			Roles:  claims.Roles,
		})
		c.Next()
	}
}

// RequireRole は呼び出し元が role を持つ場合のみ処理を続行します。
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := handlers.CurrentPrincipal(c)
		if !ok {
			response.Unauthorized(c, "")
			c.Abort()
			return
		}
		if !principal.HasRole(role) {
			response.Forbidden(c, "")
			c.Abort()
			return
		}
		c.Next()
	}
}

func tokenFailureReason(err error) string {
	switch {
	case errors.Is(err, services.ErrTokenExpired):
		return msgTokenExpired
	case errors.Is(err, services.ErrTokenSignature):
		return msgTokenSignature
	case errors.Is(err, services.ErrTokenAudience):
		return msgTokenAudience
	default:
		return ""
	}
}
