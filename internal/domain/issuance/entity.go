package issuance

import (
	"time"
)

// Record 物资领用记录实体(聚合根)
// 设计说明:
// 1. 记录一次物资出库:哪条船、领了什么、领了多少
// 2. UnitCost是领用时刻的单价快照(后续改价不影响历史领用金额)
// 3. CostEntryID关联费用台账记录:领用成功后二者金额必须一致
// 4. 冲销操作直接删除本记录(历史审计依赖库存变动流水,不依赖本表)
type Record struct {
	ID          uint
	ItemID      uint      // 物资ID
	VesselID    uint      // 领用船舶/项目ID
	Quantity    int       // 领用数量(>0)
	UnitCost    int64     // 领用时单价(分)
	TotalCost   int64     // 总金额(分) = Quantity × UnitCost
	CostEntryID uint      // 关联的费用记录ID(0表示未关联)
	OperatorID  uint      // 操作人ID
	IssuedAt    time.Time // 领用日期
	Remark      string    // 用途说明
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewRecord 创建领用记录(工厂方法)
// 调用方保证quantity>0(由application层编排前校验)
func NewRecord(itemID, vesselID uint, quantity int, unitCost int64, operatorID uint, issuedAt time.Time, remark string) *Record {
	now := time.Now()
	return &Record{
		ItemID:     itemID,
		VesselID:   vesselID,
		Quantity:   quantity,
		UnitCost:   unitCost,
		TotalCost:  unitCost * int64(quantity),
		OperatorID: operatorID,
		IssuedAt:   issuedAt,
		Remark:     remark,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// LinkCostEntry 关联费用记录
func (r *Record) LinkCostEntry(entryID uint) {
	r.CostEntryID = entryID
	r.UpdatedAt = time.Now()
}

// HasCostEntry 是否已关联费用记录
func (r *Record) HasCostEntry() bool {
	return r.CostEntryID != 0
}
