// Package database はデータベース接続の初期化とスキーマ作成を行います。
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// ドライバ名
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Open はデータベース接続を初期化し、疎通を確認します。
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	switch driver {
	case DriverSQLite:
		// SQLite は単一コネクションでないとロック競合やメモリ DB の分離が起きる
		db.SetMaxOpenConns(1)
	default:
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Health は疎通確認の結果とコネクションプールの状態です。
type Health struct {
	Status          string `json:"status"`
	Driver          string `json:"driver"`
	OpenConnections int    `json:"openConnections"`
	InUse           int    `json:"inUse"`
	Idle            int    `json:"idle"`
	WaitCount       int64  `json:"waitCount"`
}

// Check は DB に ping し、プールの統計を返します。
func Check(ctx context.Context, db *sqlx.DB) (Health, error) {
	stats := db.Stats()
	h := Health{
		Status:          "ok",
		Driver:          db.DriverName(),
		OpenConnections: stats.OpenConnections,
		InUse:           stats.InUse,
		Idle:            stats.Idle,
		WaitCount:       stats.WaitCount,
	}
	if err := db.PingContext(ctx); err != nil {
		h.Status = "error"
		return h, fmt.Errorf("database ping failed: %w", err)
	}
	return h, nil
}
