// internal/service/warehouse/application/service.go
package application

import (
	"context"
	"errors"
	"time"

	"depot/internal/pkg/config"
	"depot/internal/pkg/logger"
	"depot/internal/pkg/metrics"
	"depot/internal/service/warehouse/domain"
)

// AllocationService 对外暴露入库工作流的两个操作。
// 两条执行路径实现同一个 Allocator 契约；/add-product 默认走哪条
// 由配置决定，封装路径另有显式入口。
type AllocationService struct {
	txAllocator   domain.Allocator
	procAllocator domain.Allocator
	strategy      string
	metrics       *metrics.AllocationMetrics
}

// NewAllocationService 创建服务实例。m 可以为 nil（例如单元测试）。
func NewAllocationService(tx, proc domain.Allocator, strategy string, m *metrics.AllocationMetrics) *AllocationService {
	if strategy == "" {
		strategy = config.StrategyTransaction
	}
	return &AllocationService{
		txAllocator:   tx,
		procAllocator: proc,
		strategy:      strategy,
		metrics:       m,
	}
}

// Allocate 按配置选择的策略执行入库。
func (s *AllocationService) Allocate(ctx context.Context, req *AllocateRequest) (*AllocateResponse, error) {
	if s.strategy == config.StrategyProcedure {
		return s.allocate(ctx, req, config.StrategyProcedure, s.procAllocator)
	}
	return s.allocate(ctx, req, config.StrategyTransaction, s.txAllocator)
}

// AllocateOrchestrated 显式走编排路径（服务控制的单条事务）。
func (s *AllocationService) AllocateOrchestrated(ctx context.Context, req *AllocateRequest) (*AllocateResponse, error) {
	return s.allocate(ctx, req, config.StrategyTransaction, s.txAllocator)
}

// AllocateViaProcedure 显式走封装路径（数据库内原子例程）。
func (s *AllocationService) AllocateViaProcedure(ctx context.Context, req *AllocateRequest) (*AllocateResponse, error) {
	return s.allocate(ctx, req, config.StrategyProcedure, s.procAllocator)
}

func (s *AllocationService) allocate(ctx context.Context, req *AllocateRequest, path string, allocator domain.Allocator) (*AllocateResponse, error) {
	cmd := req.ToCommand()

	// 本地校验失败在任何存储 I/O 之前返回
	if err := cmd.Validate(); err != nil {
		s.observe(path, err, 0)
		return nil, err
	}

	start := time.Now()
	newID, err := allocator.Allocate(ctx, cmd)
	s.observe(path, err, time.Since(start))

	if err != nil {
		logger.Ctx(ctx).Warn().
			Str("path", path).
			Int64("product_id", cmd.ProductID).
			Int64("warehouse_id", cmd.WarehouseID).
			Int("amount", cmd.Amount).
			Err(err).
			Msg("allocation failed")
		return nil, err
	}

	logger.Ctx(ctx).Info().
		Str("path", path).
		Int64("product_id", cmd.ProductID).
		Int64("warehouse_id", cmd.WarehouseID).
		Int("amount", cmd.Amount).
		Int64("allocation_id", newID).
		Msg("allocation committed")
	return &AllocateResponse{NewID: newID}, nil
}

func (s *AllocationService) observe(path string, err error, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.Allocations.WithLabelValues(path, Classify(err)).Inc()
	if elapsed > 0 {
		s.metrics.LatencyMS.WithLabelValues(path).Observe(float64(elapsed.Milliseconds()))
	}
}

// Classify 把一次调用的结果归入稳定的对外分类，
// 调用方据此区分可重试与不可重试的失败，而无需解析错误文本。
func Classify(err error) string {
	switch {
	case err == nil:
		return "ok"
	case isInvalidRequest(err):
		return "invalid_request"
	case isNotFound(err):
		return "not_found"
	default:
		return "storage_failure"
	}
}

func isInvalidRequest(err error) bool {
	return errors.Is(err, domain.ErrInvalidAmount) || errors.Is(err, domain.ErrNoPendingOrder)
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrProductNotFound) || errors.Is(err, domain.ErrWarehouseNotFound)
}
