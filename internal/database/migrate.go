package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id VARCHAR(50) NOT NULL PRIMARY KEY,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(50) NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS todos (
		todo_id INT AUTO_INCREMENT PRIMARY KEY,
		todo_title VARCHAR(100) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL,
		todo_content VARCHAR(500) NULL,
		is_complete CHAR(1) NOT NULL DEFAULT 'N',
		complete_time DATETIME(6) NULL,
		add_time DATETIME(6) NOT NULL,
		add_user_id VARCHAR(50) NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id TEXT NOT NULL PRIMARY KEY,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS todos (
		todo_id INTEGER PRIMARY KEY AUTOINCREMENT,
		todo_title TEXT NOT NULL,
		todo_content TEXT,
		is_complete TEXT NOT NULL DEFAULT 'N',
		complete_time DATETIME,
		add_time DATETIME NOT NULL,
		add_user_id TEXT NOT NULL
	)`,
}

// Migrate は users と todos テーブルを作成します。既に存在する場合は何もしません。
func Migrate(ctx context.Context, db *sqlx.DB) error {
	schema := mysqlSchema
	if db.DriverName() == DriverSQLite {
		schema = sqliteSchema
	}

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
