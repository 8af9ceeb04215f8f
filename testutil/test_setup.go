// Package testutil は HTTP レベルのテストで使う共通処理を提供します。
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"todo-api/backend/internal/config"
	"todo-api/backend/internal/database"
	"todo-api/backend/internal/logging"
	"todo-api/backend/internal/models"
	"todo-api/backend/internal/repositories"
	"todo-api/backend/internal/response"
	"todo-api/backend/internal/routes"
	"todo-api/backend/internal/services"
)

// テスト用の初期ユーザー
const (
	AdminUserID   = "admin"
	AdminPassword = "admin123"
	DemoUserID    = "demo"
	DemoPassword  = "demo123"
)

// TestConfig はテスト用の設定です。
func TestConfig() config.Config {
	return config.Config{
		AppEnv:            "test",
		DBDriver:          database.DriverSQLite,
		DatabaseDSN:       ":memory:",
		AllowOrigins:      []string{"http://localhost:5173"},
		ExposeErrorDetail: true,
		JWT: config.JWTConfig{
			Issuer:        "TodoAPI",
			Audience:      "TodoWeb",
			SignKey:       "test-sign-key-0123456789abcdefghij",
			ExpireMinutes: 60,
		},
		Seed: config.SeedConfig{AdminPassword: AdminPassword, DemoPassword: DemoPassword},
	}
}

// NewJWTService は TestConfig と同じ鍵でトークンを発行するサービスを返します。
func NewJWTService(t *testing.T) *services.JWTService {
	t.Helper()
	svc, err := services.NewJWTService(TestConfig().JWT)
	require.NoError(t, err)
	return svc
}

// SetupTestDB はメモリ上の SQLite にテーブルを作成し、初期ユーザーを投入してルーターを返します。
func SetupTestDB(t *testing.T) (*sqlx.DB, *gin.Engine, *repositories.TodoRepository, *repositories.UserRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	cfg := TestConfig()

	db, err := database.Open(ctx, cfg.DBDriver, cfg.DatabaseDSN)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(ctx, db))

	todoRepo := repositories.NewTodoRepository(db)
	userRepo := repositories.NewUserRepository(db)
	require.NoError(t, services.NewUserService(userRepo).SeedUsers(ctx, cfg.Seed, nil))

	router := routes.SetupRouter(routes.Dependencies{
		DB:         db,
		Config:     cfg,
		Logger:     logging.Discard(),
		JWTService: NewJWTService(t),
	})
	return db, router, todoRepo, userRepo
}

// DoJSON は JSON ボディ付きのリクエストを router に送ります。token が空なら Authorization を付けません。
func DoJSON(t *testing.T, router http.Handler, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		switch p := payload.(type) {
		case string:
			body.WriteString(p)
		default:
			require.NoError(t, json.NewEncoder(&body).Encode(p))
		}
	}

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

// DecodeEnvelope はレスポンスボディをエンベロープとして読み取ります。
func DecodeEnvelope[T any](t *testing.T, resp *httptest.ResponseRecorder) response.APIResponse[T] {
	t.Helper()
	var env response.APIResponse[T]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env), "body: %s", resp.Body.String())
	return env
}

// LoginAndGetToken はログインしてトークンを返します。
func LoginAndGetToken(t *testing.T, router http.Handler, userID, password string) (string, error) {
	t.Helper()
	resp := DoJSON(t, router, http.MethodPost, "/api/user/login", "", models.LoginRequest{UserID: userID, Password: password})
	if resp.Code != http.StatusOK {
		return "", fmt.Errorf("login failed with status %d: %s", resp.Code, resp.Body.String())
	}

	env := DecodeEnvelope[models.LoginResponse](t, resp)
	if env.Data == nil || env.Data.Token == "" {
		return "", fmt.Errorf("token not found in login response: %s", resp.Body.String())
	}
	return env.Data.Token, nil
}

// AdminToken は admin でログインしたトークンを返します。
func AdminToken(t *testing.T, router http.Handler) string {
	t.Helper()
	token, err := LoginAndGetToken(t, router, AdminUserID, AdminPassword)
	require.NoError(t, err)
	return token
}

// CreateTestTodo はAPI経由でTODOを作成し、作成結果を返します。
func CreateTestTodo(t *testing.T, router http.Handler, token, title string, content *string) *models.Todo {
	t.Helper()
	resp := DoJSON(t, router, http.MethodPost, "/api/todo", token, models.InsertTodoRequest{TodoTitle: title, TodoContent: content})
	require.Equal(t, http.StatusOK, resp.Code, "TODO作成に失敗しました: %s", resp.Body.String())

	env := DecodeEnvelope[models.Todo](t, resp)
	require.NotNil(t, env.Data)
	return env.Data
}
