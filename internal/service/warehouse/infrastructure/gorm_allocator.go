// internal/service/warehouse/infrastructure/gorm_allocator.go
package infrastructure

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"depot/internal/pkg/logger"
	"depot/internal/service/warehouse/domain"
)

// GormAllocator 是编排路径：服务自己控制一条事务，
// 按固定顺序执行检查和写入，任何一步失败都整体回滚。
type GormAllocator struct {
	db *gorm.DB
}

func NewGormAllocator(db *gorm.DB) *GormAllocator {
	return &GormAllocator{db: db}
}

// Allocate 在单条事务内完成完整的入库序列：
//
//	商品存在性 → 仓库存在性 → 锁定一条匹配订单 → 履约 → 取价 → 写入库记录
//
// 订单匹配只锁定并消费“一条”候选订单（按 CreatedAt 最早优先），
// 入库记录显式绑定这条订单的标识；匹配与更新之间由行锁保护，
// 两个并发请求不可能消费同一条订单。
func (a *GormAllocator) Allocate(ctx context.Context, cmd domain.AllocationCommand) (int64, error) {
	var newID int64
	state := domain.StateValidated

	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. 商品存在性检查
		state = domain.StateCheckingProduct
		var product ProductModel
		if err := tx.Select("Id").Take(&product, "Id = ?", cmd.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrProductNotFound
			}
			return mapStorageError(err)
		}

		// 2. 仓库存在性检查
		state = domain.StateCheckingWarehouse
		var warehouse WarehouseModel
		if err := tx.Select("Id").Take(&warehouse, "Id = ?", cmd.WarehouseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrWarehouseNotFound
			}
			return mapStorageError(err)
		}

		// 3. 选出并锁定一条候选订单。
		// SELECT ... FOR UPDATE 把“检查”和“更新”置于同一把行锁之下，
		// 最早创建的订单优先被消费。
		state = domain.StateCheckingOrder
		var order OrderModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("ProductId = ? AND Amount = ? AND CreatedAt < ? AND FulfilledAt IS NULL",
				cmd.ProductID, cmd.Amount, cmd.RequestedAt).
			Order("CreatedAt ASC").
			Take(&order).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNoPendingOrder
			}
			return mapStorageError(err)
		}

		// 4. 按主键履约这一条订单，FulfilledAt 用服务端时钟
		state = domain.StateFulfillingOrder
		now := time.Now()
		res := tx.Model(&OrderModel{}).
			Where("Id = ? AND FulfilledAt IS NULL", order.ID).
			Update("FulfilledAt", now)
		if res.Error != nil {
			return mapStorageError(res.Error)
		}
		if res.RowsAffected != 1 {
			// 行锁已持有，正常不可达；守卫防止把已履约订单再次消费
			return domain.ErrOrderAlreadyFulfilled
		}

		// 5. 读取入库时刻的商品单价
		state = domain.StatePricing
		var priced ProductModel
		if err := tx.Select("Price").Take(&priced, "Id = ?", cmd.ProductID).Error; err != nil {
			return mapStorageError(err)
		}

		// 6. 写入入库记录，价格快照 = 单价 × 数量，CreatedAt 用服务端时钟
		state = domain.StateInserting
		alloc := AllocationModel{
			ProductID:   cmd.ProductID,
			WarehouseID: cmd.WarehouseID,
			OrderID:     order.ID,
			Amount:      cmd.Amount,
			Price:       domain.AllocationPrice(priced.Price, cmd.Amount),
			CreatedAt:   now,
		}
		if err := tx.Create(&alloc).Error; err != nil {
			return mapStorageError(err)
		}

		newID = alloc.ID
		state = domain.StateCommitted
		return nil
	})

	if err != nil {
		logger.Ctx(ctx).Debug().
			Str("state", string(state)).
			Int64("product_id", cmd.ProductID).
			Int64("warehouse_id", cmd.WarehouseID).
			Err(err).
			Msg("allocation rolled back")
		return 0, err
	}
	return newID, nil
}
