// internal/service/warehouse/infrastructure/procedure_allocator.go
package infrastructure

import (
	"context"

	"gorm.io/gorm"

	"depot/internal/service/warehouse/domain"
)

// ProcedureAllocator 是封装路径：整个检查-写入序列委托给数据库内的
// 原子例程 AddProductToWarehouse（见 scripts/warehouse.sql），
// 服务只解释成功（新标识）或失败，不观察中间状态。
type ProcedureAllocator struct {
	db *gorm.DB
}

func NewProcedureAllocator(db *gorm.DB) *ProcedureAllocator {
	return &ProcedureAllocator{db: db}
}

// Allocate 调用存储例程并取回新入库记录的标识。
// 例程内部执行与编排路径完全相同的检查序列和原子性保证，
// 失败通过 SIGNAL 上抛，由 mapProcedureError 还原为同一套领域错误。
func (a *ProcedureAllocator) Allocate(ctx context.Context, cmd domain.AllocationCommand) (int64, error) {
	var newID int64
	err := a.db.WithContext(ctx).
		Raw("CALL AddProductToWarehouse(?, ?, ?, ?)",
			cmd.ProductID, cmd.WarehouseID, cmd.Amount, cmd.RequestedAt).
		Scan(&newID).Error
	if err != nil {
		return 0, mapProcedureError(err)
	}
	return newID, nil
}
