// internal/pkg/logger/logger.go
package logger

import (
	"context"
	"os"

	"github.com/rs/zerolog"
)

// base 是全局基础 logger，由 Init 初始化一次。
var base zerolog.Logger

func init() {
	// 保证在 Init 被调用之前也有一个可用的 logger（例如单元测试场景）
	base = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// Init 初始化全局 logger，并附带服务名字段。
func Init(serviceName string) {
	base = zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}

// L 返回全局 logger。
func L() *zerolog.Logger {
	return &base
}

// WithContext 将全局 logger 注入到 context 中，
// 下游可以通过 Ctx(ctx) 取回并附加请求级字段。
func WithContext(ctx context.Context) context.Context {
	return base.WithContext(ctx)
}

// Ctx 从 context 中取出 logger；如果 context 中没有，回退到全局 logger。
func Ctx(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx)
	if l.GetLevel() == zerolog.Disabled {
		return &base
	}
	return l
}
