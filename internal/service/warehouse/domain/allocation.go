// internal/service/warehouse/domain/allocation.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Allocation 记录一次商品入库：某商品的一定数量进入某仓库，
// 并绑定它所消费的那一条订单。Price 是入库时刻的价格快照
// （单价 × 数量），之后不随商品价格变化。
type Allocation struct {
	ID          int64
	ProductID   int64
	WarehouseID int64
	OrderID     int64
	Amount      int
	Price       decimal.Decimal
	CreatedAt   time.Time
}

// AllocationCommand 是一次入库请求的全部输入。
// RequestedAt 只参与订单匹配，Allocation.CreatedAt 由服务端时钟决定。
type AllocationCommand struct {
	ProductID   int64
	WarehouseID int64
	Amount      int
	RequestedAt time.Time
}

// Validate 做不触达存储的本地校验。
// 数量必须为正，否则整个工作流在任何 I/O 之前就被拒绝。
func (c AllocationCommand) Validate() error {
	if c.Amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// AllocationPrice 计算入库价格快照：入库时刻的单价 × 数量。
func AllocationPrice(unitPrice decimal.Decimal, amount int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(amount)))
}

// NewAllocation 用被锁定并消费的订单和当时的商品单价组装一条入库记录。
func NewAllocation(cmd AllocationCommand, orderID int64, unitPrice decimal.Decimal, now time.Time) *Allocation {
	return &Allocation{
		ProductID:   cmd.ProductID,
		WarehouseID: cmd.WarehouseID,
		OrderID:     orderID,
		Amount:      cmd.Amount,
		Price:       AllocationPrice(unitPrice, cmd.Amount),
		CreatedAt:   now,
	}
}
