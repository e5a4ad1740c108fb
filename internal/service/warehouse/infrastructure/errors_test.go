package infrastructure

import (
	"errors"
	"testing"

	"github.com/go-sql-driver/mysql"

	"depot/internal/service/warehouse/domain"
)

func TestMapStorageErrorMarksConflictsRetryable(t *testing.T) {
	for _, num := range []uint16{mysqlErrDeadlock, mysqlErrLockWaitTimeout} {
		err := mapStorageError(&mysql.MySQLError{Number: num, Message: "conflict"})
		if !domain.IsRetryable(err) {
			t.Fatalf("mysql error %d must map to a retryable storage failure", num)
		}
	}
}

func TestMapStorageErrorDefaultsNonRetryable(t *testing.T) {
	err := mapStorageError(errors.New("connection refused"))
	if !domain.IsStorageFailure(err) {
		t.Fatalf("expected a storage failure, got %v", err)
	}
	if domain.IsRetryable(err) {
		t.Fatalf("plain failures must not be marked retryable")
	}

	err = mapStorageError(&mysql.MySQLError{Number: 1452, Message: "fk violation"})
	if domain.IsRetryable(err) {
		t.Fatalf("constraint violations must not be marked retryable")
	}
}

// 封装路径必须把例程 SIGNAL 出来的业务错误还原为与编排路径相同的领域错误。
func TestMapProcedureErrorRestoresDomainErrors(t *testing.T) {
	cases := []struct {
		message string
		want    error
	}{
		{"product not found", domain.ErrProductNotFound},
		{"warehouse not found", domain.ErrWarehouseNotFound},
		{"no matching pending order", domain.ErrNoPendingOrder},
		{"  Product Not Found  ", domain.ErrProductNotFound},
	}
	for _, tc := range cases {
		err := mapProcedureError(&mysql.MySQLError{Number: mysqlErrSignalException, Message: tc.message})
		if !errors.Is(err, tc.want) {
			t.Fatalf("signal %q: expected %v, got %v", tc.message, tc.want, err)
		}
	}
}

func TestMapProcedureErrorFallsBackToStorageFailure(t *testing.T) {
	err := mapProcedureError(&mysql.MySQLError{Number: mysqlErrSignalException, Message: "something else"})
	if !domain.IsStorageFailure(err) {
		t.Fatalf("unknown signal must map to storage failure, got %v", err)
	}

	err = mapProcedureError(&mysql.MySQLError{Number: mysqlErrDeadlock, Message: "deadlock"})
	if !domain.IsRetryable(err) {
		t.Fatalf("deadlock inside the procedure must stay retryable")
	}
}
