package issuance

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hairun/fleetops/internal/domain/inventory"
	"github.com/hairun/fleetops/internal/domain/issuance"
	"github.com/hairun/fleetops/internal/domain/ledger"
	"github.com/hairun/fleetops/internal/domain/vessel"
)

// 内存假实现:按仓储接口语义模拟MySQL行为,用于用例编排测试

type fakeItemRepo struct {
	mu        sync.Mutex
	items     map[uint]*inventory.Item
	movements []*inventory.StockMovement

	failAppend error // 非nil时AppendMovement失败

	// afterUpdate 在UpdateStock生效后对该物资调用,测试用它模拟并发变更
	afterUpdate func(item *inventory.Item)
}

func newFakeItemRepo(items ...*inventory.Item) *fakeItemRepo {
	m := make(map[uint]*inventory.Item)
	for _, it := range items {
		m[it.ID] = it
	}
	return &fakeItemRepo{items: m}
}

func (f *fakeItemRepo) Create(ctx context.Context, item *inventory.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
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
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range f.items {
		if item.Name == name {
			cp := *item
			return &cp, nil
		}
	}
	return nil, inventory.ErrItemNotFound
}

func (f *fakeItemRepo) Update(ctx context.Context, item *inventory.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[item.ID] = item
	return nil
}

func (f *fakeItemRepo) Delete(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, id)
	return nil
}

func (f *fakeItemRepo) List(ctx context.Context, params inventory.ListParams) ([]*inventory.Item, int64, error) {
	return nil, 0, nil
}

func (f *fakeItemRepo) LockByID(ctx context.Context, id uint) (*inventory.Item, error) {
	return f.FindByID(ctx, id)
}

// UpdateStock 模拟单条条件UPDATE:不足时不产生任何变更
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
	if f.afterUpdate != nil {
		f.afterUpdate(item)
	}
	return nil
}

func (f *fakeItemRepo) AppendMovement(ctx context.Context, m *inventory.StockMovement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAppend != nil {
		return f.failAppend
	}
	f.movements = append(f.movements, m)
	return nil
}

// itemRepoSnapshot 库存仓储的时间点快照,fakeTx用于回滚
type itemRepoSnapshot struct {
	items     map[uint]inventory.Item
	movements int
}

func (f *fakeItemRepo) snapshot() itemRepoSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := make(map[uint]inventory.Item, len(f.items))
	for id, item := range f.items {
		items[id] = *item
	}
	return itemRepoSnapshot{items: items, movements: len(f.movements)}
}

func (f *fakeItemRepo) restore(snap itemRepoSnapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = make(map[uint]*inventory.Item, len(snap.items))
	for id, item := range snap.items {
		cp := item
		f.items[id] = &cp
	}
	f.movements = f.movements[:snap.movements]
}

// fakeTx 模拟本地事务:回调失败时把库存仓储回滚到调用前的快照
type fakeTx struct {
	itemRepo *fakeItemRepo
}

func (f fakeTx) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := f.itemRepo.snapshot()
	if err := fn(ctx); err != nil {
		f.itemRepo.restore(snap)
		return err
	}
	return nil
}

func (f *fakeItemRepo) ListMovements(ctx context.Context, itemID uint, page, pageSize int) ([]*inventory.StockMovement, int64, error) {
	return f.movements, int64(len(f.movements)), nil
}

type fakeIssuanceRepo struct {
	mu      sync.Mutex
	records map[uint]*issuance.Record
	nextID  uint
}

func newFakeIssuanceRepo() *fakeIssuanceRepo {
	return &fakeIssuanceRepo{records: make(map[uint]*issuance.Record), nextID: 1}
}

func (f *fakeIssuanceRepo) Create(ctx context.Context, record *issuance.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	record.ID = f.nextID
	f.nextID++
	cp := *record
	f.records[record.ID] = &cp
	return nil
}

func (f *fakeIssuanceRepo) FindByID(ctx context.Context, id uint) (*issuance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[id]
	if !ok {
		return nil, issuance.ErrRecordNotFound
	}
	cp := *record
	return &cp, nil
}

// Delete 幂等删除:不存在时返回nil
func (f *fakeIssuanceRepo) Delete(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.records, id)
	return nil
}

func (f *fakeIssuanceRepo) List(ctx context.Context, params issuance.ListParams) ([]*issuance.Record, int64, error) {
	return nil, 0, nil
}

func (f *fakeIssuanceRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
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

type fakeLedgerGateway struct {
	mu         sync.Mutex
	entries    map[uint]*ledger.CostEntry
	nextID     uint
	failCreate error // 非nil时CreateEntry失败
	failDelete error // 非nil时DeleteEntry失败
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

// DeleteEntry 幂等删除:不存在时返回nil
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
	events []string // routing keys
}

func (f *fakePublisher) Publish(routingKey string, message interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, routingKey)
	return nil
}

var errLedgerDown = errors.New("费用台账服务不可用")

func testItem(id uint, name string, quantity, threshold int, unitCost int64) *inventory.Item {
	item := inventory.NewItem(name, "", "个", quantity, threshold, unitCost, "")
	item.ID = id
	return item
}

func testVessel(id uint, name string) *vessel.Vessel {
	return &vessel.Vessel{ID: id, Name: name, CreatedAt: time.Now()}
}
