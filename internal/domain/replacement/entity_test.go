package replacement

import (
	"testing"
	"time"
)

func newTestReplacement(source Source, itemID uint, disposition Disposition, warehouseID uint) *Replacement {
	return NewReplacement(
		1, "主机高压油泵", "柱塞磨损严重", time.Now(),
		source, itemID,
		50000, 20000,
		disposition, warehouseID,
		1, "",
	)
}

// TestValidate 测试更换单校验规则
func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(r *Replacement)
		wantErr error
	}{
		{"合法更换单", func(r *Replacement) {}, nil},
		{"设备名称为空", func(r *Replacement) { r.EquipmentName = "" }, ErrEquipmentNameRequired},
		{"故障原因为空", func(r *Replacement) { r.FailureReason = "" }, ErrFailureReasonRequired},
		{"非法来源", func(r *Replacement) { r.Source = "donation" }, ErrInvalidSource},
		{"非法去向", func(r *Replacement) { r.Disposition = "thrown_away" }, ErrInvalidDisposition},
		{"库存来源未指定物资", func(r *Replacement) { r.Source = SourceInventory; r.ItemID = 0 }, ErrItemRequired},
		{"采购来源指定了物资", func(r *Replacement) { r.Source = SourcePurchase; r.ItemID = 7 }, ErrItemNotAllowed},
		{"入库暂存未指定仓库", func(r *Replacement) { r.Disposition = DispositionSentToWarehouse; r.WarehouseID = 0 }, ErrWarehouseRequired},
		{"报废去向指定了仓库", func(r *Replacement) { r.Disposition = DispositionScrapped; r.WarehouseID = 3 }, ErrWarehouseNotAllowed},
		{"负费用", func(r *Replacement) { r.LaborCost = -1 }, ErrInvalidCost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestReplacement(SourcePurchase, 0, DispositionScrapped, 0)
			tt.modify(r)
			if err := r.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestMarkReturned 测试归还状态机
func TestMarkReturned(t *testing.T) {
	r := newTestReplacement(SourceInventory, 7, DispositionSentToWarehouse, 3)

	if r.Status != StatusConfirmed {
		t.Fatalf("初始状态错误: %s", r.Status)
	}
	if !r.CanReturn() {
		t.Fatal("confirmed状态应允许归还")
	}

	// 归还原因必填
	if err := r.MarkReturned(""); err != ErrReturnReasonRequired {
		t.Errorf("expected ErrReturnReasonRequired, got %v", err)
	}

	// 正常归还
	if err := r.MarkReturned("型号不匹配"); err != nil {
		t.Fatalf("MarkReturned失败: %v", err)
	}
	if r.Status != StatusReturned {
		t.Errorf("状态错误: expected=%s, got=%s", StatusReturned, r.Status)
	}
	if r.ReturnReason != "型号不匹配" {
		t.Errorf("归还原因错误: %s", r.ReturnReason)
	}
	if r.ReturnedAt == nil {
		t.Error("归还时间未记录")
	}

	// 重复归还应失败(终态)
	if err := r.MarkReturned("再退一次"); err != ErrAlreadyReturned {
		t.Errorf("expected ErrAlreadyReturned, got %v", err)
	}
	if r.ReturnReason != "型号不匹配" {
		t.Error("重复归还不应覆盖原归还原因")
	}
}

// TestTotalCostAndHoldingValue 测试费用与暂存估值计算
func TestTotalCostAndHoldingValue(t *testing.T) {
	r := newTestReplacement(SourcePurchase, 0, DispositionSentToWarehouse, 3)
	r.ReplacementCost = 50000 // 500元
	r.LaborCost = 20000       // 200元

	if got := r.TotalCost(); got != 70000 {
		t.Errorf("TotalCost错误: expected=70000, got=%d", got)
	}
	// 暂存估值 = 总费用的10%
	if got := r.HoldingEstimatedValue(); got != 7000 {
		t.Errorf("HoldingEstimatedValue错误: expected=7000, got=%d", got)
	}
}

// TestConsumesStock 测试来源与库存消耗的对应关系
func TestConsumesStock(t *testing.T) {
	if !newTestReplacement(SourceInventory, 7, DispositionScrapped, 0).ConsumesStock() {
		t.Error("库存来源应消耗库存")
	}
	if newTestReplacement(SourcePurchase, 0, DispositionScrapped, 0).ConsumesStock() {
		t.Error("采购来源不应消耗库存")
	}
	if newTestReplacement(SourceRepair, 0, DispositionScrapped, 0).ConsumesStock() {
		t.Error("返修来源不应消耗库存")
	}
}
