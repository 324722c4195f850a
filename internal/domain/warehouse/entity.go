package warehouse

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Warehouse 仓库实体
// 参照数据:由基础资料维护,本系统只读引用
type Warehouse struct {
	ID        uint
	Name      string // 仓库名称
	Location  string // 位置
	Remark    string // 备注
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Holding 仓库暂存记录
// 设计说明:
// 1. 设备更换后旧件入库暂存时写入,记录残值估算
// 2. 尽力写入(best-effort):写入失败只记日志和指标,不回滚更换操作
// 3. RefType/RefID关联来源单据,便于追溯
type Holding struct {
	ID             uint
	HoldingNo      string // 暂存单号,对外展示用
	WarehouseID    uint   // 所在仓库ID
	Name           string // 暂存物品名称(旧设备名称)
	EstimatedValue int64  // 估算残值(分)
	Description    string // 描述(故障原因、来源船舶等)
	RefType        string // 来源单据类型(replacement)
	RefID          uint   // 来源单据ID
	CreatedAt      time.Time
}

// GenerateHoldingNo 生成暂存单号
// 格式:HLD + 日期 + uuid前8位,全局唯一且可读
func GenerateHoldingNo() string {
	return fmt.Sprintf("HLD%s%s", time.Now().Format("20060102"), uuid.NewString()[:8])
}

// NewHolding 创建暂存记录
func NewHolding(warehouseID uint, name string, estimatedValue int64, description, refType string, refID uint) *Holding {
	return &Holding{
		HoldingNo:      GenerateHoldingNo(),
		WarehouseID:    warehouseID,
		Name:           name,
		EstimatedValue: estimatedValue,
		Description:    description,
		RefType:        refType,
		RefID:          refID,
		CreatedAt:      time.Now(),
	}
}
