// internal/service/warehouse/infrastructure/errors.go
package infrastructure

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"depot/internal/service/warehouse/domain"
)

// MySQL 错误码。1205/1213 是锁竞争类冲突：事务已整体回滚，
// 调用方可以安全地重试整个操作。
const (
	mysqlErrLockWaitTimeout = 1205
	mysqlErrDeadlock        = 1213
	mysqlErrSignalException = 1644 // SIGNAL SQLSTATE '45000'
)

// 存储例程通过 SIGNAL 上抛的错误文本。
// 两条执行路径必须给出相同的错误分类，所以 Go 侧按这些文本还原领域错误；
// 文本是例程契约的一部分，不是展示给用户的消息。
const (
	signalProductNotFound   = "product not found"
	signalWarehouseNotFound = "warehouse not found"
	signalNoPendingOrder    = "no matching pending order"
)

// mapStorageError 把驱动层错误包装为 StorageError，并标记可重试的冲突类失败。
func mapStorageError(err error) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlErrLockWaitTimeout, mysqlErrDeadlock:
			return &domain.StorageError{Retryable: true, Err: err}
		}
	}
	return &domain.StorageError{Err: err}
}

// mapProcedureError 解释存储例程的失败：
// SIGNAL 出来的业务错误还原为对应的领域错误，其余按普通存储失败处理。
func mapProcedureError(err error) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlErrSignalException {
		switch strings.ToLower(strings.TrimSpace(myErr.Message)) {
		case signalProductNotFound:
			return domain.ErrProductNotFound
		case signalWarehouseNotFound:
			return domain.ErrWarehouseNotFound
		case signalNoPendingOrder:
			return domain.ErrNoPendingOrder
		}
	}
	return mapStorageError(err)
}
