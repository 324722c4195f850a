package inventory

import (
	"time"
)

// DefaultReorderThreshold 默认补货阈值
// 物资创建时未指定阈值则使用该值
const DefaultReorderThreshold = 10

// Status 库存状态
// 设计说明:
// 1. 状态由数量和补货阈值推导,不由调用方直接设置
// 2. 使用string类型便于API直接输出和数据库索引查询
type Status string

const (
	StatusInStock    Status = "in_stock"     // 库存充足
	StatusLowStock   Status = "low_stock"    // 低于补货阈值
	StatusOutOfStock Status = "out_of_stock" // 无库存
)

// RecomputeStatus 根据数量和补货阈值推导库存状态
// 业务规则:
// - 数量<=0 → 无库存
// - 数量<=阈值 → 低库存(需补货)
// - 其他 → 库存充足
// 任何库存变更后必须重新推导,保证状态与数量一致
func RecomputeStatus(quantity, threshold int) Status {
	switch {
	case quantity <= 0:
		return StatusOutOfStock
	case quantity <= threshold:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// Item 库存物资实体(聚合根)
// DDD设计说明:
// 1. Item是库存聚合的根实体,船用物资/备件/耗材统一建模
// 2. 单价使用int64存储"分"为单位(避免浮点数精度问题)
// 3. Status是数量的派生字段,冗余存储便于列表按状态筛选
// 4. 同名物资由数据库唯一索引保证不重复
type Item struct {
	ID               uint
	Name             string // 物资名称
	Specification    string // 规格型号
	Unit             string // 计量单位(个/台/米/千克)
	Quantity         int    // 当前库存数量
	ReorderThreshold int    // 补货阈值
	UnitCost         int64  // 单价(单位:分,1元=100分)
	Status           Status // 库存状态(派生字段)
	Remark           string // 备注
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewItem 创建新物资(工厂方法)
// threshold为0时使用默认补货阈值
func NewItem(name, specification, unit string, quantity, threshold int, unitCost int64, remark string) *Item {
	if threshold <= 0 {
		threshold = DefaultReorderThreshold
	}
	now := time.Now()
	return &Item{
		Name:             name,
		Specification:    specification,
		Unit:             unit,
		Quantity:         quantity,
		ReorderThreshold: threshold,
		UnitCost:         unitCost,
		Status:           RecomputeStatus(quantity, threshold),
		Remark:           remark,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// ApplyDelta 变更库存数量(领域行为)
// delta为正表示入库/归还,为负表示领用/消耗
// 业务规则:变更后数量不能为负,状态随数量重新推导
func (i *Item) ApplyDelta(delta int) error {
	newQuantity := i.Quantity + delta
	if newQuantity < 0 {
		return ErrInsufficientStock
	}
	i.Quantity = newQuantity
	i.Status = RecomputeStatus(newQuantity, i.ReorderThreshold)
	i.UpdatedAt = time.Now()
	return nil
}

// UpdateThreshold 更新补货阈值
// 阈值变更后状态需重新推导(数量不变但低库存判定标准变了)
func (i *Item) UpdateThreshold(threshold int) error {
	if threshold < 0 {
		return ErrInvalidThreshold
	}
	if threshold == 0 {
		threshold = DefaultReorderThreshold
	}
	i.ReorderThreshold = threshold
	i.Status = RecomputeStatus(i.Quantity, threshold)
	i.UpdatedAt = time.Now()
	return nil
}

// UpdateInfo 更新物资基本信息
func (i *Item) UpdateInfo(name, specification, unit, remark string) {
	if name != "" {
		i.Name = name
	}
	if specification != "" {
		i.Specification = specification
	}
	if unit != "" {
		i.Unit = unit
	}
	if remark != "" {
		i.Remark = remark
	}
	i.UpdatedAt = time.Now()
}

// UpdateUnitCost 更新单价
// 业务规则:单价不能为负(赠品可以为0)
func (i *Item) UpdateUnitCost(unitCost int64) error {
	if unitCost < 0 {
		return ErrInvalidUnitCost
	}
	i.UnitCost = unitCost
	i.UpdatedAt = time.Now()
	return nil
}

// IsLowStock 是否需要补货
func (i *Item) IsLowStock() bool {
	return i.Status == StatusLowStock || i.Status == StatusOutOfStock
}
