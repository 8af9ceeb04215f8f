// Package routesはroutingを行います。
package routes

import (
	"slices"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"todo-api/backend/internal/config"
	"todo-api/backend/internal/handlers"
	"todo-api/backend/internal/logging"
	"todo-api/backend/internal/models"
	"todo-api/backend/internal/repositories"
	"todo-api/backend/internal/services"
	"todo-api/backend/internal/validation"
)

// Dependencies はルーターの構築に必要な依存です。
type Dependencies struct {
	DB         *sqlx.DB
	Config     config.Config
	Logger     *log.Logger
	JWTService *services.JWTService
}

// SetupRouter はGinルーターをセットアップし、すべてのエンドポイントを登録します。
func SetupRouter(deps Dependencies) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	expose := deps.Config.ExposeErrorDetail

	r := gin.New()
	r.Use(RequestID(), RequestLogger(logger), Recovery(logger, expose))
	r.Use(cors.New(corsConfig(deps.Config.AllowOrigins)))
	r.Use(ErrorHandler(logger, expose))

	// リポジトリ
	todoRepo := repositories.NewTodoRepository(deps.DB)
	userRepo := repositories.NewUserRepository(deps.DB)

	// サービス
	todoService := services.NewTodoService(todoRepo)
	userService := services.NewUserService(userRepo)

	// ハンドラー
	v := validation.New()
	userHandler := handlers.NewUserHandler(userService, deps.JWTService, v)
	todoHandler := handlers.NewTodoHandler(todoService, v)

	// ルーティング
	api := r.Group("/api")
	api.GET("/health", handlers.HealthHandler(deps.DB))
	api.POST("/user/login", userHandler.LoginHandler)

	todos := api.Group("/todo")
	todos.Use(AuthMiddleware(deps.JWTService), RequireRole(models.RoleAdmin))
	{
		todos.GET("", todoHandler.GetTodosHandler)
		todos.GET("/:id", todoHandler.GetTodoByIDHandler)
		todos.POST("", todoHandler.CreateTodoHandler)
		todos.PUT("/:id", todoHandler.UpdateTodoHandler)
		todos.DELETE("/:id", todoHandler.DeleteTodoHandler)
	}

	return r
}

// CORS対策
func corsConfig(origins []string) cors.Config {
	config := cors.DefaultConfig()
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", RequestIDHeader}
	config.ExposeHeaders = []string{RequestIDHeader}

	if len(origins) == 0 || slices.Contains(origins, "*") {
		config.AllowAllOrigins = true
		return config
	}
	config.AllowOrigins = origins
	config.AllowCredentials = true
	return config
}
