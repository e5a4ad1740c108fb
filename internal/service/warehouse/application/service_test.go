package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"depot/internal/pkg/config"
	"depot/internal/service/warehouse/domain"
)

// memStore 用内存结构模拟关系存储，互斥锁扮演行锁的角色：
// 匹配、履约、写入在同一临界区内完成，等价于单条事务。
type memStore struct {
	mu          sync.Mutex
	products    map[int64]decimal.Decimal
	warehouses  map[int64]struct{}
	orders      []*domain.Order
	allocations []*domain.Allocation
	nextID      int64
	calls       int
}

func newMemStore() *memStore {
	return &memStore{
		products:   map[int64]decimal.Decimal{},
		warehouses: map[int64]struct{}{},
	}
}

// seedExample 构造规格示例的初始状态：
// Product{1, 9.50}, Warehouse{1}, Order{ProductId:1, Amount:3, CreatedAt:2024-01-01}
func (s *memStore) seedExample() {
	s.products[1] = decimal.RequireFromString("9.50")
	s.warehouses[1] = struct{}{}
	s.orders = append(s.orders, &domain.Order{
		ID:        1,
		ProductID: 1,
		Amount:    3,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
}

func (s *memStore) allocate(cmd domain.AllocationCommand) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	unitPrice, ok := s.products[cmd.ProductID]
	if !ok {
		return 0, domain.ErrProductNotFound
	}
	if _, ok := s.warehouses[cmd.WarehouseID]; !ok {
		return 0, domain.ErrWarehouseNotFound
	}

	var candidate *domain.Order
	for _, o := range s.orders {
		if o.Matches(cmd) && (candidate == nil || o.CreatedAt.Before(candidate.CreatedAt)) {
			candidate = o
		}
	}
	if candidate == nil {
		return 0, domain.ErrNoPendingOrder
	}

	now := time.Now()
	if err := candidate.Fulfill(now); err != nil {
		return 0, err
	}
	alloc := domain.NewAllocation(cmd, candidate.ID, unitPrice, now)
	s.nextID++
	alloc.ID = s.nextID
	s.allocations = append(s.allocations, alloc)
	return alloc.ID, nil
}

func (s *memStore) pendingOrders() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, o := range s.orders {
		if o.Pending() {
			n++
		}
	}
	return n
}

type memAllocator struct {
	store *memStore
}

func (a *memAllocator) Allocate(ctx context.Context, cmd domain.AllocationCommand) (int64, error) {
	return a.store.allocate(cmd)
}

func newTestService(store *memStore) *AllocationService {
	alloc := &memAllocator{store: store}
	return NewAllocationService(alloc, alloc, config.StrategyTransaction, nil)
}

func exampleRequest(amount int) *AllocateRequest {
	return &AllocateRequest{
		ProductID:   1,
		WarehouseID: 1,
		Amount:      amount,
		CreatedAt:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}
}

func TestAllocateRejectsNonPositiveAmountWithoutStoreIO(t *testing.T) {
	store := newMemStore()
	store.seedExample()
	svc := newTestService(store)

	for _, amount := range []int{0, -3} {
		for _, call := range []func(context.Context, *AllocateRequest) (*AllocateResponse, error){
			svc.Allocate, svc.AllocateOrchestrated, svc.AllocateViaProcedure,
		} {
			if _, err := call(context.Background(), exampleRequest(amount)); !errors.Is(err, domain.ErrInvalidAmount) {
				t.Fatalf("amount %d: expected ErrInvalidAmount, got %v", amount, err)
			}
		}
	}
	if store.calls != 0 {
		t.Fatalf("validation failure must not reach the store, got %d calls", store.calls)
	}
}

func TestAllocateSucceedsOnExampleFixture(t *testing.T) {
	store := newMemStore()
	store.seedExample()
	svc := newTestService(store)

	resp, err := svc.Allocate(context.Background(), exampleRequest(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.NewID == 0 {
		t.Fatalf("expected a new allocation id")
	}
	if len(store.allocations) != 1 {
		t.Fatalf("expected exactly one allocation, got %d", len(store.allocations))
	}
	alloc := store.allocations[0]
	if !alloc.Price.Equal(decimal.RequireFromString("28.50")) {
		t.Fatalf("expected price 28.50, got %s", alloc.Price)
	}
	if alloc.OrderID != 1 {
		t.Fatalf("allocation must bind the consumed order, got %d", alloc.OrderID)
	}
	if store.pendingOrders() != 0 {
		t.Fatalf("consumed order must be fulfilled")
	}
}

func TestAllocateAmountMismatchLeavesStoreUnchanged(t *testing.T) {
	store := newMemStore()
	store.seedExample()
	svc := newTestService(store)

	_, err := svc.Allocate(context.Background(), exampleRequest(4))
	if !errors.Is(err, domain.ErrNoPendingOrder) {
		t.Fatalf("expected ErrNoPendingOrder, got %v", err)
	}
	if len(store.allocations) != 0 || store.pendingOrders() != 1 {
		t.Fatalf("failed call must leave the store unmodified")
	}
}

func TestAllocateMissingReferences(t *testing.T) {
	store := newMemStore()
	store.seedExample()
	svc := newTestService(store)

	req := exampleRequest(3)
	req.ProductID = 99
	if _, err := svc.Allocate(context.Background(), req); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}

	req = exampleRequest(3)
	req.WarehouseID = 99
	if _, err := svc.Allocate(context.Background(), req); !errors.Is(err, domain.ErrWarehouseNotFound) {
		t.Fatalf("expected ErrWarehouseNotFound, got %v", err)
	}

	if len(store.allocations) != 0 || store.pendingOrders() != 1 {
		t.Fatalf("failed calls must leave the store unmodified")
	}
}

func TestOldestMatchingOrderIsConsumedFirst(t *testing.T) {
	store := newMemStore()
	store.seedExample()
	// 更早创建的第二条订单，应当优先被消费
	store.orders = append(store.orders, &domain.Order{
		ID:        2,
		ProductID: 1,
		Amount:    3,
		CreatedAt: time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC),
	})
	svc := newTestService(store)

	if _, err := svc.Allocate(context.Background(), exampleRequest(3)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.allocations[0].OrderID != 2 {
		t.Fatalf("expected oldest order 2 to be consumed, got %d", store.allocations[0].OrderID)
	}
	if store.pendingOrders() != 1 {
		t.Fatalf("exactly one order must be consumed")
	}
}

// 两条执行路径是同一契约的两种实现：对相同输入和相同初始状态，
// 必须给出相同的成败分类；成功时入库记录的数量和价格也必须一致。
func TestBothPathsAreEquivalent(t *testing.T) {
	inputs := []*AllocateRequest{
		exampleRequest(3),
		exampleRequest(4),
		exampleRequest(-1),
		{ProductID: 99, WarehouseID: 1, Amount: 3, CreatedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{ProductID: 1, WarehouseID: 99, Amount: 3, CreatedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		// 请求时间早于订单创建时间，不构成匹配
		{ProductID: 1, WarehouseID: 1, Amount: 3, CreatedAt: time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)},
	}

	for _, req := range inputs {
		storeA := newMemStore()
		storeA.seedExample()
		storeB := newMemStore()
		storeB.seedExample()
		svcA := newTestService(storeA)
		svcB := newTestService(storeB)

		_, errA := svcA.AllocateOrchestrated(context.Background(), req)
		_, errB := svcB.AllocateViaProcedure(context.Background(), req)

		if Classify(errA) != Classify(errB) {
			t.Fatalf("input %+v: paths disagree: %q vs %q", req, Classify(errA), Classify(errB))
		}
		if errA == nil {
			a, b := storeA.allocations[0], storeB.allocations[0]
			if a.Amount != b.Amount || !a.Price.Equal(b.Price) {
				t.Fatalf("input %+v: allocations differ: %+v vs %+v", req, a, b)
			}
		}
	}
}

// 两个并发请求争夺同一条待履约订单：恰好一个成功，
// 另一个必须以 InvalidRequest 或可重试的 StorageFailure 失败。
func TestConcurrentAllocationsNeverConsumeOrderTwice(t *testing.T) {
	store := newMemStore()
	store.seedExample()
	svc := newTestService(store)

	results := make([]error, 2)
	var g errgroup.Group
	for i := 0; i < 2; i++ {
		i := i
		g.Go(func() error {
			_, err := svc.AllocateOrchestrated(context.Background(), exampleRequest(3))
			results[i] = err
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("errgroup: %v", err)
	}

	var succeeded, rejected int
	for _, err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrNoPendingOrder) || domain.IsRetryable(err):
			rejected++
		default:
			t.Fatalf("unexpected failure kind: %v", err)
		}
	}
	if succeeded != 1 || rejected != 1 {
		t.Fatalf("expected exactly one winner, got %d successes / %d rejections", succeeded, rejected)
	}
	if len(store.allocations) != 1 || store.pendingOrders() != 0 {
		t.Fatalf("the single order must be consumed exactly once")
	}
}

func TestStrategySelectsConfiguredPath(t *testing.T) {
	storeTx := newMemStore()
	storeTx.seedExample()
	storeProc := newMemStore()
	storeProc.seedExample()

	svc := NewAllocationService(
		&memAllocator{store: storeTx},
		&memAllocator{store: storeProc},
		config.StrategyProcedure,
		nil,
	)
	if _, err := svc.Allocate(context.Background(), exampleRequest(3)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if storeProc.calls != 1 || storeTx.calls != 0 {
		t.Fatalf("configured procedure strategy must dispatch to the procedure path")
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{domain.ErrInvalidAmount, "invalid_request"},
		{domain.ErrNoPendingOrder, "invalid_request"},
		{domain.ErrProductNotFound, "not_found"},
		{domain.ErrWarehouseNotFound, "not_found"},
		{&domain.StorageError{Err: errors.New("boom")}, "storage_failure"},
		{&domain.StorageError{Retryable: true, Err: errors.New("deadlock")}, "storage_failure"},
	}
	for _, tc := range cases {
		if got := Classify(tc.err); got != tc.want {
			t.Fatalf("Classify(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
