// internal/service/warehouse/domain/errors.go
package domain

import (
	"errors"
	"fmt"
)

// 业务失败的完整分类。调用方通过 errors.Is / errors.As 区分，
// 而不是解析错误文本。
var (
	// ErrInvalidAmount 数量非正，本地校验失败，不产生任何存储 I/O
	ErrInvalidAmount = errors.New("amount must be greater than 0")
	// ErrProductNotFound 引用的商品不存在
	ErrProductNotFound = errors.New("product not found")
	// ErrWarehouseNotFound 引用的仓库不存在
	ErrWarehouseNotFound = errors.New("warehouse not found")
	// ErrNoPendingOrder 找不到可匹配的待履约订单
	ErrNoPendingOrder = errors.New("no matching pending order")
	// ErrOrderAlreadyFulfilled 订单重复履约（防御性守卫，正常流程不会触发）
	ErrOrderAlreadyFulfilled = errors.New("order already fulfilled")
)

// StorageError 表示存储层失败：连接中断、约束冲突、死锁等。
// Retryable 标记该失败是否是序列化冲突一类、整个操作可安全重试的情况
// （因为事务已回滚，什么都没有提交）。
type StorageError struct {
	Retryable bool
	Err       error
}

func (e *StorageError) Error() string {
	if e.Retryable {
		return fmt.Sprintf("storage failure (retryable): %v", e.Err)
	}
	return fmt.Sprintf("storage failure: %v", e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsRetryable 判断错误是否是可整体重试的存储失败。
func IsRetryable(err error) bool {
	var se *StorageError
	return errors.As(err, &se) && se.Retryable
}

// IsStorageFailure 判断错误是否属于存储层失败。
func IsStorageFailure(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
