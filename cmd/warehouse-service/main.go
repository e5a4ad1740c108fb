// cmd/warehouse-service/main.go
package main

import (
	"context"
	"os"

	"depot/internal/pkg/bootstrap"
	"depot/internal/pkg/config"
	"depot/internal/pkg/logger"
	"depot/internal/pkg/metrics"
	"depot/internal/service/warehouse/application"
	"depot/internal/service/warehouse/infrastructure"
	"depot/internal/service/warehouse/interfaces"
)

const serviceName = "warehouse-service"

// main 函数是应用的"组装根" (Composition Root)
// 它的核心职责是：创建并组装所有依赖项，然后启动应用。
func main() {
	logger.Init(serviceName)

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		logger.L().Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infrastructure.NewDB(cfg.MySQL)
	if err != nil {
		logger.L().Fatal().Err(err).Msg("failed to connect to mysql")
	}

	// 同一契约的两条执行路径
	txAllocator := infrastructure.NewGormAllocator(db)
	procAllocator := infrastructure.NewProcedureAllocator(db)

	allocationMetrics := metrics.NewAllocationMetrics("warehouse")
	service := application.NewAllocationService(txAllocator, procAllocator, cfg.Allocation.Strategy, allocationMetrics)
	handler := interfaces.NewWarehouseHandler(service)

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Config:      cfg,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			handler.RegisterRoutes(appCtx.Mux)
		},
		OnShutdown: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})
}
