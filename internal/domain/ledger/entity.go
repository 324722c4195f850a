package ledger

import (
	"time"
)

// 费用类别
// 库存/设备操作产生的费用记录使用固定类别,便于财务端按类别汇总
const (
	CategoryInventoryUsage       = "inventory_usage"       // 物资领用
	CategoryEquipmentReplacement = "equipment_replacement" // 设备更换
)

// CostEntry 费用记录实体
// 设计说明:
// 1. 费用台账归财务模块所有,本系统只创建和删除记录,从不原地修改
// 2. 金额使用int64存储"分",与库存单价口径一致
// 3. Vendor可选(采购类费用记录供应商,领用类为空)
type CostEntry struct {
	ID          uint
	Amount      int64     // 金额(分)
	OccurredAt  time.Time // 费用发生日期
	Category    string    // 费用类别
	Description string    // 费用说明
	Vendor      string    // 供应商(可选)
	CreatedAt   time.Time
}

// NewCostEntry 创建费用记录
func NewCostEntry(amount int64, occurredAt time.Time, category, description, vendor string) *CostEntry {
	return &CostEntry{
		Amount:      amount,
		OccurredAt:  occurredAt,
		Category:    category,
		Description: description,
		Vendor:      vendor,
		CreatedAt:   time.Now(),
	}
}
