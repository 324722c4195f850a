package inventory

import (
	"time"
)

// ChangeType 库存变动类型
type ChangeType string

const (
	ChangeTypeIssue   ChangeType = "ISSUE"   // 领用出库
	ChangeTypeReverse ChangeType = "REVERSE" // 领用冲销(恢复库存)
	ChangeTypeReplace ChangeType = "REPLACE" // 设备更换领用
	ChangeTypeReturn  ChangeType = "RETURN"  // 更换归还
	ChangeTypeRestock ChangeType = "RESTOCK" // 采购入库/盘盈
	ChangeTypeAdjust  ChangeType = "ADJUST"  // 人工调整/盘亏
)

// StockMovement 库存变动流水(仅追加)
// 设计说明:
// 1. 每次库存变更写一条流水,记录变动前后数量,用于审计和对账
// 2. 流水只插入不修改:冲销操作写一条反向流水而不是删除原流水
// 3. RefType/RefID关联业务单据(领用单、更换单),便于追溯变动来源
type StockMovement struct {
	ID          uint
	ItemID      uint       // 物资ID
	ChangeType  ChangeType // 变动类型
	Delta       int        // 变动数量(正为入库,负为出库)
	StockBefore int        // 变动前数量
	StockAfter  int        // 变动后数量
	RefType     string     // 关联单据类型(issuance/replacement)
	RefID       uint       // 关联单据ID
	OperatorID  uint       // 操作人ID
	Remark      string     // 备注
	CreatedAt   time.Time
}

// NewMovement 创建库存变动流水
func NewMovement(itemID uint, changeType ChangeType, delta, stockBefore int, refType string, refID, operatorID uint, remark string) *StockMovement {
	return &StockMovement{
		ItemID:      itemID,
		ChangeType:  changeType,
		Delta:       delta,
		StockBefore: stockBefore,
		StockAfter:  stockBefore + delta,
		RefType:     refType,
		RefID:       refID,
		OperatorID:  operatorID,
		Remark:      remark,
		CreatedAt:   time.Now(),
	}
}
