package inventory

import (
	"testing"
)

// TestRecomputeStatus 测试库存状态推导规则
func TestRecomputeStatus(t *testing.T) {
	tests := []struct {
		name      string
		quantity  int
		threshold int
		want      Status
	}{
		{"数量为0", 0, 10, StatusOutOfStock},
		{"数量为负(理论上不会出现)", -1, 10, StatusOutOfStock},
		{"数量等于阈值", 10, 10, StatusLowStock},
		{"数量低于阈值", 3, 10, StatusLowStock},
		{"数量高于阈值", 11, 10, StatusInStock},
		{"阈值为0时只区分有无", 1, 0, StatusInStock},
		{"阈值为0数量为0", 0, 0, StatusOutOfStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RecomputeStatus(tt.quantity, tt.threshold)
			if got != tt.want {
				t.Errorf("RecomputeStatus(%d, %d) = %s, want %s", tt.quantity, tt.threshold, got, tt.want)
			}
		})
	}
}

// TestNewItem 测试物资工厂方法
func TestNewItem(t *testing.T) {
	// 默认阈值
	item := NewItem("液压油泵", "HY-200", "台", 5, 0, 128000, "")
	if item.ReorderThreshold != DefaultReorderThreshold {
		t.Errorf("默认阈值错误: expected=%d, got=%d", DefaultReorderThreshold, item.ReorderThreshold)
	}
	// 5 <= 10,应为低库存
	if item.Status != StatusLowStock {
		t.Errorf("初始状态错误: expected=%s, got=%s", StatusLowStock, item.Status)
	}

	// 指定阈值
	item2 := NewItem("钢丝绳", "Φ20mm", "米", 500, 50, 1500, "")
	if item2.Status != StatusInStock {
		t.Errorf("初始状态错误: expected=%s, got=%s", StatusInStock, item2.Status)
	}
}

// TestApplyDelta 测试库存变更与状态联动
func TestApplyDelta(t *testing.T) {
	item := NewItem("焊条", "J422", "千克", 12, 10, 800, "")
	if item.Status != StatusInStock {
		t.Fatalf("初始状态错误: %s", item.Status)
	}

	// 领用3千克后数量9,跌破阈值
	if err := item.ApplyDelta(-3); err != nil {
		t.Fatalf("ApplyDelta失败: %v", err)
	}
	if item.Quantity != 9 {
		t.Errorf("数量错误: expected=9, got=%d", item.Quantity)
	}
	if item.Status != StatusLowStock {
		t.Errorf("状态错误: expected=%s, got=%s", StatusLowStock, item.Status)
	}

	// 领完
	if err := item.ApplyDelta(-9); err != nil {
		t.Fatalf("ApplyDelta失败: %v", err)
	}
	if item.Status != StatusOutOfStock {
		t.Errorf("状态错误: expected=%s, got=%s", StatusOutOfStock, item.Status)
	}

	// 超领应报库存不足,数量和状态不变
	if err := item.ApplyDelta(-1); err != ErrInsufficientStock {
		t.Errorf("expected ErrInsufficientStock, got %v", err)
	}
	if item.Quantity != 0 {
		t.Errorf("失败的变更不应修改数量: got=%d", item.Quantity)
	}

	// 入库恢复
	if err := item.ApplyDelta(20); err != nil {
		t.Fatalf("ApplyDelta失败: %v", err)
	}
	if item.Status != StatusInStock {
		t.Errorf("状态错误: expected=%s, got=%s", StatusInStock, item.Status)
	}
}

// TestUpdateThreshold 测试阈值变更后状态重算
func TestUpdateThreshold(t *testing.T) {
	item := NewItem("滤芯", "FX-100", "个", 15, 10, 4500, "")
	if item.Status != StatusInStock {
		t.Fatalf("初始状态错误: %s", item.Status)
	}

	// 阈值上调到20,当前数量15变为低库存
	if err := item.UpdateThreshold(20); err != nil {
		t.Fatalf("UpdateThreshold失败: %v", err)
	}
	if item.Status != StatusLowStock {
		t.Errorf("状态错误: expected=%s, got=%s", StatusLowStock, item.Status)
	}

	// 负阈值非法
	if err := item.UpdateThreshold(-1); err != ErrInvalidThreshold {
		t.Errorf("expected ErrInvalidThreshold, got %v", err)
	}
}

// TestNewMovement 测试流水记录变动前后数量
func TestNewMovement(t *testing.T) {
	m := NewMovement(7, ChangeTypeIssue, -3, 12, "issuance", 101, 1, "")
	if m.StockBefore != 12 || m.StockAfter != 9 {
		t.Errorf("流水数量错误: before=%d, after=%d", m.StockBefore, m.StockAfter)
	}
	if m.ChangeType != ChangeTypeIssue {
		t.Errorf("变动类型错误: %s", m.ChangeType)
	}
}
