package issuance

import (
	"context"
	"errors"
	"testing"

	"github.com/hairun/fleetops/internal/domain/inventory"
)

func newIssueUseCaseForTest(itemRepo *fakeItemRepo, issuanceRepo *fakeIssuanceRepo, gw *fakeLedgerGateway, pub *fakePublisher) *IssueUseCase {
	return NewIssueUseCase(itemRepo, issuanceRepo, newFakeVesselRepo(testVessel(1, "海润1号")), gw,
		fakeTx{itemRepo: itemRepo}, pub, nil)
}

// TestIssue_Success 测试正常领用:库存扣减、费用记录与领用单互相关联
func TestIssue_Success(t *testing.T) {
	itemRepo := newFakeItemRepo(testItem(1, "液压油", 20, 10, 5000))
	issuanceRepo := newFakeIssuanceRepo()
	gw := newFakeLedgerGateway()
	pub := &fakePublisher{}
	uc := newIssueUseCaseForTest(itemRepo, issuanceRepo, gw, pub)

	resp, err := uc.Execute(context.Background(), IssueRequest{
		ItemID: 1, VesselID: 1, Quantity: 4, OperatorID: 1, Remark: "主机保养",
	})
	if err != nil {
		t.Fatalf("领用失败: %v", err)
	}

	// 库存扣减
	if resp.StockAfter != 16 {
		t.Errorf("库存错误: expected=16, got=%d", resp.StockAfter)
	}
	// 未指定单价时使用物资单价快照
	if resp.UnitCost != 5000 {
		t.Errorf("单价快照错误: got=%d", resp.UnitCost)
	}
	// 金额 = 数量 × 单价
	if resp.TotalCost != 20000 {
		t.Errorf("总金额错误: expected=20000, got=%d", resp.TotalCost)
	}

	// 费用记录与领用单互相关联且金额一致
	record, err := issuanceRepo.FindByID(context.Background(), resp.IssuanceID)
	if err != nil {
		t.Fatalf("领用单不存在: %v", err)
	}
	entry, err := gw.FindEntry(context.Background(), record.CostEntryID)
	if err != nil {
		t.Fatalf("费用记录不存在: %v", err)
	}
	if entry.Amount != record.TotalCost {
		t.Errorf("费用记录金额与领用单不一致: entry=%d, record=%d", entry.Amount, record.TotalCost)
	}

	// 领用流水已记录
	if len(itemRepo.movements) != 1 || itemRepo.movements[0].ChangeType != inventory.ChangeTypeIssue {
		t.Error("领用流水未记录")
	}

	// 领用事件已发布
	if len(pub.events) == 0 || pub.events[0] != "inventory.issued" {
		t.Errorf("领用事件未发布: %v", pub.events)
	}
}

// TestIssue_InsufficientStock 测试库存不足:操作失败且无任何写入
// 场景:物资数量5、阈值3,领用4后数量1(低库存),再领2应失败且数量保持1
func TestIssue_InsufficientStock(t *testing.T) {
	itemRepo := newFakeItemRepo(testItem(1, "钢丝绳", 5, 3, 1500))
	issuanceRepo := newFakeIssuanceRepo()
	gw := newFakeLedgerGateway()
	uc := newIssueUseCaseForTest(itemRepo, issuanceRepo, gw, &fakePublisher{})

	// 第一次领用4个
	resp, err := uc.Execute(context.Background(), IssueRequest{ItemID: 1, VesselID: 1, Quantity: 4, OperatorID: 1})
	if err != nil {
		t.Fatalf("领用失败: %v", err)
	}
	if resp.StockAfter != 1 {
		t.Errorf("库存错误: expected=1, got=%d", resp.StockAfter)
	}
	if resp.StockStatus != string(inventory.StatusLowStock) {
		t.Errorf("状态错误: expected=low_stock, got=%s", resp.StockStatus)
	}

	// 再领2个应报库存不足
	_, err = uc.Execute(context.Background(), IssueRequest{ItemID: 1, VesselID: 1, Quantity: 2, OperatorID: 1})
	if err != inventory.ErrInsufficientStock {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// 失败的领用不产生任何写入
	item, _ := itemRepo.FindByID(context.Background(), 1)
	if item.Quantity != 1 {
		t.Errorf("失败领用不应改变库存: got=%d", item.Quantity)
	}
	if issuanceRepo.count() != 1 {
		t.Errorf("失败领用不应创建领用单: count=%d", issuanceRepo.count())
	}
	if gw.count() != 1 {
		t.Errorf("失败领用不应创建费用记录: count=%d", gw.count())
	}
}

// TestIssue_LedgerFailureCompensates 测试费用记录创建失败时补偿恢复库存
func TestIssue_LedgerFailureCompensates(t *testing.T) {
	itemRepo := newFakeItemRepo(testItem(1, "滤芯", 10, 3, 4500))
	issuanceRepo := newFakeIssuanceRepo()
	gw := newFakeLedgerGateway()
	gw.failCreate = errLedgerDown
	uc := newIssueUseCaseForTest(itemRepo, issuanceRepo, gw, &fakePublisher{})

	_, err := uc.Execute(context.Background(), IssueRequest{ItemID: 1, VesselID: 1, Quantity: 2, OperatorID: 1})
	if err == nil {
		t.Fatal("费用台账不可用时领用应失败")
	}

	// 补偿后库存恢复原值
	item, _ := itemRepo.FindByID(context.Background(), 1)
	if item.Quantity != 10 {
		t.Errorf("补偿后库存应恢复: expected=10, got=%d", item.Quantity)
	}
	if issuanceRepo.count() != 0 {
		t.Error("补偿后不应残留领用单")
	}
	// 流水应有领用和反向补偿两条
	if len(itemRepo.movements) != 2 {
		t.Errorf("补偿应写入反向流水: got=%d条", len(itemRepo.movements))
	}
}

// TestIssue_MovementFailureRollsBack 测试流水写入失败时库存扣减随本地事务回滚
// 扣减和流水在同一事务:不允许出现库存已减少但无任何单据可追溯的状态
func TestIssue_MovementFailureRollsBack(t *testing.T) {
	itemRepo := newFakeItemRepo(testItem(1, "液压油", 10, 3, 8000))
	itemRepo.failAppend = errors.New("流水表写入失败")
	issuanceRepo := newFakeIssuanceRepo()
	gw := newFakeLedgerGateway()
	uc := newIssueUseCaseForTest(itemRepo, issuanceRepo, gw, &fakePublisher{})

	_, err := uc.Execute(context.Background(), IssueRequest{ItemID: 1, VesselID: 1, Quantity: 4, OperatorID: 1})
	if err == nil {
		t.Fatal("流水写入失败时领用应失败")
	}

	// 扣减随事务回滚,库存保持原值
	item, _ := itemRepo.FindByID(context.Background(), 1)
	if item.Quantity != 10 {
		t.Errorf("扣减应随事务回滚: expected=10, got=%d", item.Quantity)
	}
	if len(itemRepo.movements) != 0 {
		t.Errorf("不应残留流水: got=%d条", len(itemRepo.movements))
	}
	if issuanceRepo.count() != 0 {
		t.Error("失败领用不应创建领用单")
	}
	if gw.count() != 0 {
		t.Error("失败领用不应创建费用记录")
	}
}

// TestIssue_InvalidParams 测试参数校验在任何写入前拒绝
func TestIssue_InvalidParams(t *testing.T) {
	itemRepo := newFakeItemRepo(testItem(1, "焊条", 10, 3, 800))
	uc := newIssueUseCaseForTest(itemRepo, newFakeIssuanceRepo(), newFakeLedgerGateway(), &fakePublisher{})

	// 数量为0
	if _, err := uc.Execute(context.Background(), IssueRequest{ItemID: 1, VesselID: 1, Quantity: 0}); err == nil {
		t.Error("数量为0应拒绝")
	}

	// 物资不存在
	if _, err := uc.Execute(context.Background(), IssueRequest{ItemID: 99, VesselID: 1, Quantity: 1}); err != inventory.ErrItemNotFound {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}

	item, _ := itemRepo.FindByID(context.Background(), 1)
	if item.Quantity != 10 {
		t.Error("校验失败不应改变库存")
	}
}

// TestIssue_LowStockEvent 测试领用后跌破阈值发布低库存告警
func TestIssue_LowStockEvent(t *testing.T) {
	itemRepo := newFakeItemRepo(testItem(1, "机油", 12, 10, 3000))
	pub := &fakePublisher{}
	uc := newIssueUseCaseForTest(itemRepo, newFakeIssuanceRepo(), newFakeLedgerGateway(), pub)

	if _, err := uc.Execute(context.Background(), IssueRequest{ItemID: 1, VesselID: 1, Quantity: 5, OperatorID: 1}); err != nil {
		t.Fatalf("领用失败: %v", err)
	}

	found := false
	for _, key := range pub.events {
		if key == "inventory.low_stock" {
			found = true
		}
	}
	if !found {
		t.Errorf("跌破阈值应发布低库存告警: %v", pub.events)
	}
}
