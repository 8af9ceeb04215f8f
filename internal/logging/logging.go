// Package logging は charmbracelet/log を使った構造化ロガーを提供します。
// ロガーはグローバル変数ではなく、生成したものを依存として渡し、
// リクエスト単位のロガーは context.Context 経由で受け渡します。
package logging

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

type ctxKey struct{}

// New は指定レベルのロガーを作成します。
// json が true の場合は JSON 形式、それ以外はテキスト形式で出力します。
func New(w io.Writer, level string, json bool) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}

	formatter := log.TextFormatter
	if json {
		formatter = log.JSONFormatter
	}

	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Formatter:       formatter,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "todo-api",
	})
}

// Discard は出力を捨てるロガーです。テストで使います。
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// WithContext はロガーを ctx に格納します。
func WithContext(ctx context.Context, logger *log.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext は ctx に格納されたロガーを返します。
// 格納されていない場合は fallback を返し、fallback も nil なら出力を捨てるロガーを返します。
func FromContext(ctx context.Context, fallback *log.Logger) *log.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(ctxKey{}).(*log.Logger); ok && logger != nil {
			return logger
		}
	}
	if fallback != nil {
		return fallback
	}
	return Discard()
}
