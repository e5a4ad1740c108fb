// internal/pkg/bootstrap/app.go
package bootstrap

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"depot/internal/pkg/config"
	"depot/internal/pkg/logger"
)

// AppCtx 传递给业务方的注册回调，用于挂载 HTTP 路由。
type AppCtx struct {
	Mux    *http.ServeMux
	Config *config.Config
}

// AppInfo 包含了启动一个服务所需的所有特定信息。
type AppInfo struct {
	ServiceName      string
	Config           *config.Config
	RegisterHandlers func(appCtx AppCtx) // 一个函数，允许服务注册自己独特的 HTTP 路由
	OnShutdown       func(ctx context.Context) error
}

// StartService 封装了服务的通用启动和优雅关停逻辑。
func StartService(info AppInfo) {
	cfg := info.Config
	if cfg == nil {
		cfg = config.Default()
	}

	// 1. 创建并启动 HTTP Server
	mux := http.NewServeMux()
	if info.RegisterHandlers != nil {
		info.RegisterHandlers(AppCtx{Mux: mux, Config: cfg})
	}
	server := &http.Server{Addr: cfg.Service.Addr, Handler: mux}
	go func() {
		logger.L().Info().Str("addr", server.Addr).Msgf("✅ %s listening", info.ServiceName)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.L().Fatal().Err(err).Msgf("could not listen on %s", server.Addr)
		}
	}()

	// 2. 阻塞主 goroutine，直到接收到退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.L().Info().Msgf("Shutting down service %s...", info.ServiceName)

	// 3. 创建一个有超时的 context，用于关停流程
	timeout := cfg.Service.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// 4. 按顺序执行清理操作 (后进先出)
	// a. 关闭 HTTP 服务器，不再接收新请求
	if err := server.Shutdown(ctx); err != nil {
		logger.L().Error().Err(err).Msg("Error shutting down http server")
	} else {
		logger.L().Info().Msg("HTTP server shut down.")
	}

	// b. 业务方的清理回调（例如关闭数据库连接池）
	if info.OnShutdown != nil {
		if err := info.OnShutdown(ctx); err != nil {
			logger.L().Error().Err(err).Msg("Error during shutdown callback")
		}
	}

	logger.L().Info().Msgf("Service %s gracefully shut down.", info.ServiceName)
}
