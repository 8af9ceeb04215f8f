package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"todo-api/backend/internal/database"
	"todo-api/backend/internal/response"
)

// HealthHandler は DB への疎通を確認します。
func HealthHandler(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		health, err := database.Check(c.Request.Context(), db)
		if err != nil {
			_ = c.Error(err)
			return
		}
		response.Ok(c, "", health)
	}
}
