package replacement

import (
	"context"
	"errors"
	"sync"

	"github.com/hairun/fleetops/internal/domain/inventory"
	"github.com/hairun/fleetops/internal/domain/ledger"
	"github.com/hairun/fleetops/internal/domain/replacement"
	"github.com/hairun/fleetops/internal/domain/vessel"
	"github.com/hairun/fleetops/internal/domain/warehouse"
)

// 内存假实现,语义与mysql仓储实现保持一致

// fakeTx 直接执行回调,模拟事务透传
type fakeTx struct{}

func (fakeTx) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeItemRepo struct {
	mu        sync.Mutex
	items     map[uint]*inventory.Item
	movements []*inventory.StockMovement
}

func newFakeItemRepo(items ...*inventory.Item) *fakeItemRepo {
	m := make(map[uint]*inventory.Item)
	for _, it := range items {
		m[it.ID] = it
	}
	return &fakeItemRepo{items: m}
}

func (f *fakeItemRepo) Create(ctx context.Context, item *inventory.Item) error {
	f.items[item.ID] = item
	return nil
}

func (f *fakeItemRepo) FindByID(ctx context.Context, id uint) (*inventory.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[id]
	if !ok {
		return nil, inventory.ErrItemNotFound
	}
	cp := *item
	return &cp, nil
}

func (f *fakeItemRepo) FindByName(ctx context.Context, name string) (*inventory.Item, error) {
	return nil, inventory.ErrItemNotFound
}

func (f *fakeItemRepo) Update(ctx context.Context, item *inventory.Item) error {
	f.items[item.ID] = item
	return nil
}

func (f *fakeItemRepo) Delete(ctx context.Context, id uint) error {
	delete(f.items, id)
	return nil
}

func (f *fakeItemRepo) List(ctx context.Context, params inventory.ListParams) ([]*inventory.Item, int64, error) {
	return nil, 0, nil
}

func (f *fakeItemRepo) LockByID(ctx context.Context, id uint) (*inventory.Item, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeItemRepo) UpdateStock(ctx context.Context, id uint, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[id]
	if !ok {
		return inventory.ErrItemNotFound
	}
	if item.Quantity+delta < 0 {
		return inventory.ErrInsufficientStock
	}
	item.Quantity += delta
	item.Status = inventory.RecomputeStatus(item.Quantity, item.ReorderThreshold)
	return nil
}

func (f *fakeItemRepo) AppendMovement(ctx context.Context, m *inventory.StockMovement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.movements = append(f.movements, m)
	return nil
}

func (f *fakeItemRepo) ListMovements(ctx context.Context, itemID uint, page, pageSize int) ([]*inventory.StockMovement, int64, error) {
	return f.movements, int64(len(f.movements)), nil
}

type fakeReplacementRepo struct {
	mu           sync.Mutex
	replacements map[uint]*replacement.Replacement
	nextID       uint
}

func newFakeReplacementRepo() *fakeReplacementRepo {
	return &fakeReplacementRepo{replacements: make(map[uint]*replacement.Replacement), nextID: 1}
}

func (f *fakeReplacementRepo) Create(ctx context.Context, r *replacement.Replacement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.ID = f.nextID
	f.nextID++
	cp := *r
	f.replacements[r.ID] = &cp
	return nil
}

func (f *fakeReplacementRepo) FindByID(ctx context.Context, id uint) (*replacement.Replacement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.replacements[id]
	if !ok {
		return nil, replacement.ErrReplacementNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReplacementRepo) Update(ctx context.Context, r *replacement.Replacement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *r
	f.replacements[r.ID] = &cp
	return nil
}

// MarkReturned 模拟带WHERE status='confirmed'的条件更新
func (f *fakeReplacementRepo) MarkReturned(ctx context.Context, id uint, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.replacements[id]
	if !ok {
		return replacement.ErrReplacementNotFound
	}
	if r.Status != replacement.StatusConfirmed {
		return replacement.ErrAlreadyReturned
	}
	return r.MarkReturned(reason)
}

func (f *fakeReplacementRepo) Delete(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.replacements, id)
	return nil
}

func (f *fakeReplacementRepo) List(ctx context.Context, params replacement.ListParams) ([]*replacement.Replacement, int64, error) {
	return nil, 0, nil
}

func (f *fakeReplacementRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.replacements)
}

type fakeVesselRepo struct {
	vessels map[uint]*vessel.Vessel
}

func newFakeVesselRepo(vessels ...*vessel.Vessel) *fakeVesselRepo {
	m := make(map[uint]*vessel.Vessel)
	for _, v := range vessels {
		m[v.ID] = v
	}
	return &fakeVesselRepo{vessels: m}
}

func (f *fakeVesselRepo) FindByID(ctx context.Context, id uint) (*vessel.Vessel, error) {
	v, ok := f.vessels[id]
	if !ok {
		return nil, vessel.ErrVesselNotFound
	}
	return v, nil
}

func (f *fakeVesselRepo) List(ctx context.Context) ([]*vessel.Vessel, error) {
	return nil, nil
}

type fakeWarehouseRepo struct {
	mu          sync.Mutex
	warehouses  map[uint]*warehouse.Warehouse
	holdings    []*warehouse.Holding
	failHolding error // 非nil时CreateHolding失败
}

func newFakeWarehouseRepo(warehouses ...*warehouse.Warehouse) *fakeWarehouseRepo {
	m := make(map[uint]*warehouse.Warehouse)
	for _, w := range warehouses {
		m[w.ID] = w
	}
	return &fakeWarehouseRepo{warehouses: m}
}

func (f *fakeWarehouseRepo) FindByID(ctx context.Context, id uint) (*warehouse.Warehouse, error) {
	w, ok := f.warehouses[id]
	if !ok {
		return nil, warehouse.ErrWarehouseNotFound
	}
	return w, nil
}

func (f *fakeWarehouseRepo) List(ctx context.Context) ([]*warehouse.Warehouse, error) {
	return nil, nil
}

func (f *fakeWarehouseRepo) CreateHolding(ctx context.Context, holding *warehouse.Holding) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failHolding != nil {
		return f.failHolding
	}
	f.holdings = append(f.holdings, holding)
	return nil
}

func (f *fakeWarehouseRepo) RecordHolding(ctx context.Context, holding *warehouse.Holding) error {
	return f.CreateHolding(ctx, holding)
}

func (f *fakeWarehouseRepo) ListHoldings(ctx context.Context, warehouseID uint, page, pageSize int) ([]*warehouse.Holding, int64, error) {
	return f.holdings, int64(len(f.holdings)), nil
}

type fakeLedgerGateway struct {
	mu         sync.Mutex
	entries    map[uint]*ledger.CostEntry
	nextID     uint
	failCreate error
	failDelete error
}

func newFakeLedgerGateway() *fakeLedgerGateway {
	return &fakeLedgerGateway{entries: make(map[uint]*ledger.CostEntry), nextID: 1}
}

func (f *fakeLedgerGateway) CreateEntry(ctx context.Context, entry *ledger.CostEntry) (uint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate != nil {
		return 0, f.failCreate
	}
	entry.ID = f.nextID
	f.nextID++
	f.entries[entry.ID] = entry
	return entry.ID, nil
}

func (f *fakeLedgerGateway) DeleteEntry(ctx context.Context, entryID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete != nil {
		return f.failDelete
	}
	delete(f.entries, entryID)
	return nil
}

func (f *fakeLedgerGateway) FindEntry(ctx context.Context, entryID uint) (*ledger.CostEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.entries[entryID]
	if !ok {
		return nil, ledger.ErrEntryNotFound
	}
	return entry, nil
}

func (f *fakeLedgerGateway) ListEntries(ctx context.Context, params ledger.ListParams) ([]*ledger.CostEntry, int64, error) {
	return nil, 0, nil
}

func (f *fakeLedgerGateway) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []string
}

func (f *fakePublisher) Publish(routingKey string, message interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, routingKey)
	return nil
}

var errLedgerDown = errors.New("费用台账服务不可用")
var errWarehouseDown = errors.New("暂存库服务不可用")

func testItem(id uint, name string, quantity, threshold int, unitCost int64) *inventory.Item {
	item := inventory.NewItem(name, "", "个", quantity, threshold, unitCost, "")
	item.ID = id
	return item
}
