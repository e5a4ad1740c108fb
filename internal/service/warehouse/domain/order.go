// internal/service/warehouse/domain/order.go
package domain

import "time"

// Order 是待履约订单。FulfilledAt 为空表示 pending，可以被匹配；
// 一旦被某次入库消费，就永久转为 fulfilled，不允许再次匹配。
type Order struct {
	ID          int64
	ProductID   int64
	Amount      int
	CreatedAt   time.Time
	FulfilledAt *time.Time
}

// Pending 判断订单是否仍可被匹配。
func (o *Order) Pending() bool {
	return o.FulfilledAt == nil
}

// Matches 判断订单能否被给定的入库命令消费：
// 商品一致、数量完全一致、且订单创建时间严格早于请求时间。
func (o *Order) Matches(cmd AllocationCommand) bool {
	return o.Pending() &&
		o.ProductID == cmd.ProductID &&
		o.Amount == cmd.Amount &&
		o.CreatedAt.Before(cmd.RequestedAt)
}

// Fulfill 将订单标记为已履约。同一订单只能被履约一次。
func (o *Order) Fulfill(now time.Time) error {
	if !o.Pending() {
		return ErrOrderAlreadyFulfilled
	}
	t := now
	o.FulfilledAt = &t
	return nil
}
