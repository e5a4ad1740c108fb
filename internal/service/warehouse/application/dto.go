// internal/service/warehouse/application/dto.go
package application

import (
	"time"

	"depot/internal/service/warehouse/domain"
)

// AllocateRequest 是接口层传入的入库请求。
// 字段名保持与既有调用方的 JSON 契约一致。
type AllocateRequest struct {
	ProductID   int64     `json:"ProductId"`
	WarehouseID int64     `json:"WarehouseId"`
	Amount      int       `json:"Amount"`
	CreatedAt   time.Time `json:"CreatedAt"`
}

// ToCommand 将应用层 DTO 转换为领域命令。
// 请求中的 CreatedAt 是调用方时间戳，只参与订单匹配。
func (r *AllocateRequest) ToCommand() domain.AllocationCommand {
	return domain.AllocationCommand{
		ProductID:   r.ProductID,
		WarehouseID: r.WarehouseID,
		Amount:      r.Amount,
		RequestedAt: r.CreatedAt,
	}
}

// AllocateResponse 返回新入库记录的标识。
type AllocateResponse struct {
	NewID int64 `json:"NewId"`
}
