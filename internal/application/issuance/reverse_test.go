package issuance

import (
	"context"
	"testing"

	"github.com/hairun/fleetops/internal/domain/inventory"
	"github.com/hairun/fleetops/internal/domain/issuance"
	apperrors "github.com/hairun/fleetops/pkg/errors"
)

func newReverseUseCaseForTest(itemRepo *fakeItemRepo, issuanceRepo *fakeIssuanceRepo, gw *fakeLedgerGateway, pub *fakePublisher) *ReverseUseCase {
	return NewReverseUseCase(itemRepo, issuanceRepo, gw, pub, nil)
}

// TestReverse_RoundTrip 测试领用-冲销往返:库存恢复原值,费用记录和领用单不残留
func TestReverse_RoundTrip(t *testing.T) {
	itemRepo := newFakeItemRepo(testItem(1, "液压油", 20, 10, 5000))
	issuanceRepo := newFakeIssuanceRepo()
	gw := newFakeLedgerGateway()
	pub := &fakePublisher{}

	issueUC := newIssueUseCaseForTest(itemRepo, issuanceRepo, gw, pub)
	reverseUC := newReverseUseCaseForTest(itemRepo, issuanceRepo, gw, pub)

	resp, err := issueUC.Execute(context.Background(), IssueRequest{ItemID: 1, VesselID: 1, Quantity: 6, OperatorID: 1})
	if err != nil {
		t.Fatalf("领用失败: %v", err)
	}

	rresp, err := reverseUC.Execute(context.Background(), ReverseRequest{IssuanceID: resp.IssuanceID, OperatorID: 1})
	if err != nil {
		t.Fatalf("冲销失败: %v", err)
	}

	// 库存恢复原值
	if rresp.StockAfter != 20 {
		t.Errorf("冲销后库存应恢复: expected=20, got=%d", rresp.StockAfter)
	}
	// 费用记录和领用单均不残留
	if gw.count() != 0 {
		t.Errorf("冲销后不应残留费用记录: count=%d", gw.count())
	}
	if issuanceRepo.count() != 0 {
		t.Errorf("冲销后不应残留领用单: count=%d", issuanceRepo.count())
	}
	// 流水:领用一条+冲销一条
	if len(itemRepo.movements) != 2 || itemRepo.movements[1].ChangeType != inventory.ChangeTypeReverse {
		t.Error("冲销流水未记录")
	}
}

// TestReverse_OutOfStockItem 测试对无库存物资冲销:数量恢复且状态重算
// 场景:物资数量0(out_of_stock),冲销一笔3个的领用 → 数量3,阈值10 → low_stock
func TestReverse_OutOfStockItem(t *testing.T) {
	item := testItem(1, "密封圈", 3, 10, 200)
	itemRepo := newFakeItemRepo(item)
	issuanceRepo := newFakeIssuanceRepo()
	gw := newFakeLedgerGateway()

	issueUC := newIssueUseCaseForTest(itemRepo, issuanceRepo, gw, &fakePublisher{})
	reverseUC := newReverseUseCaseForTest(itemRepo, issuanceRepo, gw, &fakePublisher{})

	// 领完库存
	resp, err := issueUC.Execute(context.Background(), IssueRequest{ItemID: 1, VesselID: 1, Quantity: 3, OperatorID: 1})
	if err != nil {
		t.Fatalf("领用失败: %v", err)
	}
	got, _ := itemRepo.FindByID(context.Background(), 1)
	if got.Status != inventory.StatusOutOfStock {
		t.Fatalf("领完后应为无库存: %s", got.Status)
	}

	// 冲销恢复
	rresp, err := reverseUC.Execute(context.Background(), ReverseRequest{IssuanceID: resp.IssuanceID, OperatorID: 1})
	if err != nil {
		t.Fatalf("冲销失败: %v", err)
	}
	if rresp.StockAfter != 3 {
		t.Errorf("库存错误: expected=3, got=%d", rresp.StockAfter)
	}
	if rresp.StockStatus != string(inventory.StatusLowStock) {
		t.Errorf("状态错误: expected=low_stock, got=%s", rresp.StockStatus)
	}
}

// TestReverse_NotFound 测试冲销不存在的领用单
func TestReverse_NotFound(t *testing.T) {
	reverseUC := newReverseUseCaseForTest(newFakeItemRepo(), newFakeIssuanceRepo(), newFakeLedgerGateway(), &fakePublisher{})

	_, err := reverseUC.Execute(context.Background(), ReverseRequest{IssuanceID: 999, OperatorID: 1})
	if err != issuance.ErrRecordNotFound {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}
}

// TestReverse_PartialFailure 测试费用记录删除失败:库存已恢复,返回PartialFailure
func TestReverse_PartialFailure(t *testing.T) {
	itemRepo := newFakeItemRepo(testItem(1, "阀门", 10, 3, 12000))
	issuanceRepo := newFakeIssuanceRepo()
	gw := newFakeLedgerGateway()

	issueUC := newIssueUseCaseForTest(itemRepo, issuanceRepo, gw, &fakePublisher{})
	reverseUC := newReverseUseCaseForTest(itemRepo, issuanceRepo, gw, &fakePublisher{})

	resp, err := issueUC.Execute(context.Background(), IssueRequest{ItemID: 1, VesselID: 1, Quantity: 4, OperatorID: 1})
	if err != nil {
		t.Fatalf("领用失败: %v", err)
	}

	// 模拟费用台账故障
	gw.failDelete = errLedgerDown
	_, err = reverseUC.Execute(context.Background(), ReverseRequest{IssuanceID: resp.IssuanceID, OperatorID: 1})
	if err == nil {
		t.Fatal("费用记录删除失败应返回错误")
	}
	appErr := apperrors.GetAppError(err)
	if appErr.Code != apperrors.ErrCodePartialFailure {
		t.Errorf("expected PartialFailure code, got %d", appErr.Code)
	}

	// 库存已恢复(物理库存准确性优先)
	item, _ := itemRepo.FindByID(context.Background(), 1)
	if item.Quantity != 10 {
		t.Errorf("部分失败时库存应已恢复: expected=10, got=%d", item.Quantity)
	}
	// 领用单仍在(后续步骤未执行)
	if issuanceRepo.count() != 1 {
		t.Error("费用记录删除失败时领用单不应被删除")
	}

	// 故障恢复后,幂等删除可直接补完
	gw.failDelete = nil
	if err := gw.DeleteEntry(context.Background(), resp.CostEntryID); err != nil {
		t.Fatalf("重试删除费用记录失败: %v", err)
	}
	if err := issuanceRepo.Delete(context.Background(), resp.IssuanceID); err != nil {
		t.Fatalf("重试删除领用单失败: %v", err)
	}
}

// TestReverse_StockAfterReflectsConcurrentChange 测试响应快照取恢复后的实际库存
// 恢复库存和回查之间可能有其他并发变更,快照不能用恢复前的读数推算
func TestReverse_StockAfterReflectsConcurrentChange(t *testing.T) {
	itemRepo := newFakeItemRepo(testItem(1, "液压油", 10, 3, 5000))
	issuanceRepo := newFakeIssuanceRepo()
	gw := newFakeLedgerGateway()

	issueUC := newIssueUseCaseForTest(itemRepo, issuanceRepo, gw, &fakePublisher{})
	reverseUC := newReverseUseCaseForTest(itemRepo, issuanceRepo, gw, &fakePublisher{})

	resp, err := issueUC.Execute(context.Background(), IssueRequest{ItemID: 1, VesselID: 1, Quantity: 4, OperatorID: 1})
	if err != nil {
		t.Fatalf("领用失败: %v", err)
	}

	// 冲销恢复库存的同时有一笔并发入库+5
	itemRepo.afterUpdate = func(item *inventory.Item) {
		itemRepo.afterUpdate = nil
		item.Quantity += 5
		item.Status = inventory.RecomputeStatus(item.Quantity, item.ReorderThreshold)
	}

	rresp, err := reverseUC.Execute(context.Background(), ReverseRequest{IssuanceID: resp.IssuanceID, OperatorID: 1})
	if err != nil {
		t.Fatalf("冲销失败: %v", err)
	}

	// 6(领用后) + 4(恢复) + 5(并发入库) = 15
	if rresp.StockAfter != 15 {
		t.Errorf("快照应反映回查时的实际库存: expected=15, got=%d", rresp.StockAfter)
	}
	if rresp.StockStatus != string(inventory.StatusInStock) {
		t.Errorf("状态错误: expected=in_stock, got=%s", rresp.StockStatus)
	}
}
