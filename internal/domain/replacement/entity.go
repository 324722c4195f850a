package replacement

import (
	"time"
)

// Source 新设备来源
type Source string

const (
	SourceInventory Source = "inventory" // 库存领用(消耗1个单位库存)
	SourcePurchase  Source = "purchase"  // 外部采购
	SourceRepair    Source = "repair"    // 返修件
)

// IsValid 是否为合法来源
func (s Source) IsValid() bool {
	switch s {
	case SourceInventory, SourcePurchase, SourceRepair:
		return true
	}
	return false
}

// Disposition 旧设备去向
type Disposition string

const (
	DispositionScrapped        Disposition = "scrapped"          // 报废
	DispositionSentToWarehouse Disposition = "sent_to_warehouse" // 入库暂存
	DispositionRepaired        Disposition = "repaired"          // 送修
	DispositionSold            Disposition = "sold"              // 出售
	DispositionDisposed        Disposition = "disposed"          // 处置(废钢)
)

// IsValid 是否为合法去向
func (d Disposition) IsValid() bool {
	switch d {
	case DispositionScrapped, DispositionSentToWarehouse, DispositionRepaired, DispositionSold, DispositionDisposed:
		return true
	}
	return false
}

// Status 更换单状态
// 教学要点:
// 1. 状态机只有一条合法转移:confirmed → returned
// 2. returned是终态,归还后的更换单永不删除(历史审计记录)
type Status string

const (
	StatusConfirmed Status = "confirmed" // 已确认(默认状态)
	StatusReturned  Status = "returned"  // 已归还(终态)
)

// Replacement 设备更换单实体(聚合根)
// 设计说明:
// 1. 记录一次"坏件换新件":换的什么、为什么坏、新件从哪来、旧件去哪了
// 2. 来源为inventory时ItemID必填,确认时消耗1个单位库存
// 3. 去向为sent_to_warehouse时WarehouseID必填,确认后尽力写暂存记录
// 4. 金额使用int64存储"分"(ReplacementCost + LaborCost = 费用记录金额)
type Replacement struct {
	ID              uint
	VesselID        uint        // 船舶ID
	EquipmentName   string      // 旧设备名称
	FailureReason   string      // 故障原因
	FailedAt        time.Time   // 故障日期
	Source          Source      // 新设备来源
	ItemID          uint        // 库存物资ID(来源为inventory时必填,否则为0)
	ReplacementCost int64       // 更换费用(分)
	LaborCost       int64       // 人工费用(分)
	Disposition     Disposition // 旧设备去向
	WarehouseID     uint        // 暂存仓库ID(去向为sent_to_warehouse时必填,否则为0)
	Status          Status      // 更换单状态
	ReturnReason    string      // 归还原因(仅returned状态有值)
	ReturnedAt      *time.Time  // 归还时间(仅returned状态有值)
	CostEntryID     uint        // 关联的费用记录ID(0表示未关联)
	OperatorID      uint        // 操作人ID
	Remark          string      // 备注
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewReplacement 创建更换单(工厂方法)
// 初始状态为confirmed,调用方需先通过Validate校验
func NewReplacement(vesselID uint, equipmentName, failureReason string, failedAt time.Time, source Source, itemID uint, replacementCost, laborCost int64, disposition Disposition, warehouseID, operatorID uint, remark string) *Replacement {
	now := time.Now()
	return &Replacement{
		VesselID:        vesselID,
		EquipmentName:   equipmentName,
		FailureReason:   failureReason,
		FailedAt:        failedAt,
		Source:          source,
		ItemID:          itemID,
		ReplacementCost: replacementCost,
		LaborCost:       laborCost,
		Disposition:     disposition,
		WarehouseID:     warehouseID,
		Status:          StatusConfirmed,
		OperatorID:      operatorID,
		Remark:          remark,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Validate 校验更换单的业务规则
// 业务规则:
// - 旧设备名称、故障原因不能为空
// - 来源和去向必须为合法枚举值
// - 来源为inventory时必须指定物资,其他来源不允许指定
// - 去向为sent_to_warehouse时必须指定仓库,其他去向不允许指定
// - 费用不能为负
func (r *Replacement) Validate() error {
	if r.EquipmentName == "" {
		return ErrEquipmentNameRequired
	}
	if r.FailureReason == "" {
		return ErrFailureReasonRequired
	}
	if !r.Source.IsValid() {
		return ErrInvalidSource
	}
	if !r.Disposition.IsValid() {
		return ErrInvalidDisposition
	}
	if r.Source == SourceInventory && r.ItemID == 0 {
		return ErrItemRequired
	}
	if r.Source != SourceInventory && r.ItemID != 0 {
		return ErrItemNotAllowed
	}
	if r.Disposition == DispositionSentToWarehouse && r.WarehouseID == 0 {
		return ErrWarehouseRequired
	}
	if r.Disposition != DispositionSentToWarehouse && r.WarehouseID != 0 {
		return ErrWarehouseNotAllowed
	}
	if r.ReplacementCost < 0 || r.LaborCost < 0 {
		return ErrInvalidCost
	}
	return nil
}

// TotalCost 更换总费用(分) = 更换费用 + 人工费用
// 用于费用记录金额和暂存估值计算
func (r *Replacement) TotalCost() int64 {
	return r.ReplacementCost + r.LaborCost
}

// HoldingEstimatedValue 旧设备暂存估值(分)
// 业务规则:按更换总费用的10%估算残值
func (r *Replacement) HoldingEstimatedValue() int64 {
	return r.TotalCost() / 10
}

// CanReturn 是否允许归还
// 只有confirmed状态可以归还,returned是终态
func (r *Replacement) CanReturn() bool {
	return r.Status == StatusConfirmed
}

// MarkReturned 标记为已归还(领域行为)
// 业务规则:
// - 归还原因必填
// - 仅confirmed状态允许归还,重复归还返回ErrAlreadyReturned
func (r *Replacement) MarkReturned(reason string) error {
	if reason == "" {
		return ErrReturnReasonRequired
	}
	if !r.CanReturn() {
		return ErrAlreadyReturned
	}
	now := time.Now()
	r.Status = StatusReturned
	r.ReturnReason = reason
	r.ReturnedAt = &now
	r.UpdatedAt = now
	return nil
}

// LinkCostEntry 关联费用记录
func (r *Replacement) LinkCostEntry(entryID uint) {
	r.CostEntryID = entryID
	r.UpdatedAt = time.Now()
}

// HasCostEntry 是否已关联费用记录
func (r *Replacement) HasCostEntry() bool {
	return r.CostEntryID != 0
}

// ConsumesStock 确认时是否消耗库存
func (r *Replacement) ConsumesStock() bool {
	return r.Source == SourceInventory
}

// SendsToWarehouse 旧设备是否入库暂存
func (r *Replacement) SendsToWarehouse() bool {
	return r.Disposition == DispositionSentToWarehouse
}
