package replacement

import (
	"context"
	"testing"

	"github.com/hairun/fleetops/internal/domain/inventory"
	"github.com/hairun/fleetops/internal/domain/replacement"
	"github.com/hairun/fleetops/internal/domain/vessel"
	"github.com/hairun/fleetops/internal/domain/warehouse"
)

type replaceFixture struct {
	itemRepo        *fakeItemRepo
	replacementRepo *fakeReplacementRepo
	warehouseRepo   *fakeWarehouseRepo
	gw              *fakeLedgerGateway
	pub             *fakePublisher
	replaceUC       *ReplaceUseCase
	returnUC        *ReturnUseCase
}

func newReplaceFixture() *replaceFixture {
	f := &replaceFixture{
		itemRepo:        newFakeItemRepo(testItem(7, "高压油泵", 2, 1, 128000)),
		replacementRepo: newFakeReplacementRepo(),
		warehouseRepo:   newFakeWarehouseRepo(&warehouse.Warehouse{ID: 3, Name: "码头1号仓"}),
		gw:              newFakeLedgerGateway(),
		pub:             &fakePublisher{},
	}
	vesselRepo := newFakeVesselRepo(&vessel.Vessel{ID: 1, Name: "海润1号"})
	f.replaceUC = NewReplaceUseCase(f.replacementRepo, f.itemRepo, f.warehouseRepo, f.warehouseRepo, vesselRepo, f.gw, fakeTx{}, nil, f.pub, nil)
	f.returnUC = NewReturnUseCase(f.replacementRepo, f.itemRepo, f.gw, f.pub, nil)
	return f
}

func validRequest() ReplaceRequest {
	return ReplaceRequest{
		VesselID:        1,
		EquipmentName:   "高压油泵",
		FailureReason:   "柱塞磨损",
		Source:          string(replacement.SourceInventory),
		ItemID:          7,
		ReplacementCost: 50000, // 500元
		LaborCost:       20000, // 200元
		Disposition:     string(replacement.DispositionSentToWarehouse),
		WarehouseID:     3,
		OperatorID:      1,
	}
}

// TestReplace_FromInventory 测试库存来源的更换:扣1个单位、费用700元、暂存估值70元
func TestReplace_FromInventory(t *testing.T) {
	f := newReplaceFixture()

	resp, err := f.replaceUC.Execute(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("更换失败: %v", err)
	}

	// 库存2→1
	item, _ := f.itemRepo.FindByID(context.Background(), 7)
	if item.Quantity != 1 {
		t.Errorf("库存错误: expected=1, got=%d", item.Quantity)
	}

	// 更换单confirmed状态,关联费用记录
	r, err := f.replacementRepo.FindByID(context.Background(), resp.ReplacementID)
	if err != nil {
		t.Fatalf("更换单不存在: %v", err)
	}
	if r.Status != replacement.StatusConfirmed {
		t.Errorf("状态错误: %s", r.Status)
	}
	if !r.HasCostEntry() {
		t.Fatal("更换单未关联费用记录")
	}

	// 费用记录金额 = 500+200 = 700元
	entry, err := f.gw.FindEntry(context.Background(), r.CostEntryID)
	if err != nil {
		t.Fatalf("费用记录不存在: %v", err)
	}
	if entry.Amount != 70000 {
		t.Errorf("费用金额错误: expected=70000, got=%d", entry.Amount)
	}

	// 暂存记录估值 = 总费用10% = 70元
	if !resp.HoldingWrote {
		t.Fatal("暂存记录应写入成功")
	}
	if len(f.warehouseRepo.holdings) != 1 {
		t.Fatalf("暂存记录数量错误: %d", len(f.warehouseRepo.holdings))
	}
	if f.warehouseRepo.holdings[0].EstimatedValue != 7000 {
		t.Errorf("暂存估值错误: expected=7000, got=%d", f.warehouseRepo.holdings[0].EstimatedValue)
	}
}

// TestReplace_ValidationError 测试校验失败时无任何写入
// 场景:去向为入库暂存但未指定仓库
func TestReplace_ValidationError(t *testing.T) {
	f := newReplaceFixture()

	req := validRequest()
	req.WarehouseID = 0
	_, err := f.replaceUC.Execute(context.Background(), req)
	if err != replacement.ErrWarehouseRequired {
		t.Fatalf("expected ErrWarehouseRequired, got %v", err)
	}

	// 无任何写入
	item, _ := f.itemRepo.FindByID(context.Background(), 7)
	if item.Quantity != 2 {
		t.Error("校验失败不应改变库存")
	}
	if f.replacementRepo.count() != 0 {
		t.Error("校验失败不应创建更换单")
	}
	if f.gw.count() != 0 {
		t.Error("校验失败不应创建费用记录")
	}
}

// TestReplace_PurchaseSource 测试采购来源:不消耗库存
func TestReplace_PurchaseSource(t *testing.T) {
	f := newReplaceFixture()

	req := validRequest()
	req.Source = string(replacement.SourcePurchase)
	req.ItemID = 0
	req.Disposition = string(replacement.DispositionScrapped)
	req.WarehouseID = 0

	resp, err := f.replaceUC.Execute(context.Background(), req)
	if err != nil {
		t.Fatalf("更换失败: %v", err)
	}

	item, _ := f.itemRepo.FindByID(context.Background(), 7)
	if item.Quantity != 2 {
		t.Errorf("采购来源不应扣减库存: got=%d", item.Quantity)
	}
	// 报废去向不写暂存记录
	if resp.HoldingWrote || len(f.warehouseRepo.holdings) != 0 {
		t.Error("报废去向不应写暂存记录")
	}
}

// TestReplace_LedgerFailureCompensates 测试费用记录创建失败:补偿删除更换单并恢复库存
func TestReplace_LedgerFailureCompensates(t *testing.T) {
	f := newReplaceFixture()
	f.gw.failCreate = errLedgerDown

	_, err := f.replaceUC.Execute(context.Background(), validRequest())
	if err == nil {
		t.Fatal("费用台账不可用时更换应失败")
	}

	item, _ := f.itemRepo.FindByID(context.Background(), 7)
	if item.Quantity != 2 {
		t.Errorf("补偿后库存应恢复: expected=2, got=%d", item.Quantity)
	}
	if f.replacementRepo.count() != 0 {
		t.Error("补偿后不应残留更换单")
	}
}

// TestReplace_HoldingFailureDoesNotFail 测试暂存写入失败不影响更换结果
func TestReplace_HoldingFailureDoesNotFail(t *testing.T) {
	f := newReplaceFixture()
	f.warehouseRepo.failHolding = errWarehouseDown

	resp, err := f.replaceUC.Execute(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("暂存失败不应导致更换失败: %v", err)
	}
	if resp.HoldingWrote {
		t.Error("暂存写入失败时HoldingWrote应为false")
	}

	// 更换本身完整生效
	item, _ := f.itemRepo.FindByID(context.Background(), 7)
	if item.Quantity != 1 {
		t.Errorf("库存错误: got=%d", item.Quantity)
	}
	if f.gw.count() != 1 {
		t.Error("费用记录应已创建")
	}
}

// TestReplace_InsufficientStock 测试库存来源但无库存:整体失败且补偿
func TestReplace_InsufficientStock(t *testing.T) {
	f := newReplaceFixture()
	// 把库存领到0
	if err := f.itemRepo.UpdateStock(context.Background(), 7, -2); err != nil {
		t.Fatal(err)
	}

	_, err := f.replaceUC.Execute(context.Background(), validRequest())
	if err != inventory.ErrInsufficientStock {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if f.replacementRepo.count() != 0 {
		t.Error("库存不足时不应残留更换单")
	}
	if f.gw.count() != 0 {
		t.Error("库存不足时不应创建费用记录")
	}
}
