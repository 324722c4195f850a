package mysql

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hairun/fleetops/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	// 1. 构建DSN连接字符串
	dsn := cfg.Database.DSN()

	// 2. 配置GORM日志
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	// 3. 连接数据库
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			// 使用UTC+8时间（配合MySQL的TZ=Asia/Shanghai）
			return time.Now()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 4. 配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// 5. 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Println("✓ 数据库连接成功")

	// 6. 自动迁移表结构（开发环境）
	// 注意：生产环境应使用专门的迁移工具（如golang-migrate）
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	// 7. 开发环境种子数据：船舶和仓库是基础资料,由行政维护,
	// 本系统没有建档接口,调试时预置几条方便联调
	if cfg.Server.Mode == "debug" {
		seedBaseData(db)
	}

	return db, nil
}

// seedBaseData 预置基础资料(按名称幂等,重复启动不会重复插入)
func seedBaseData(db *gorm.DB) {
	vessels := []VesselModel{
		{Name: "海润1号", RegNo: "HR-2019-001"},
		{Name: "海润2号", RegNo: "HR-2020-002"},
		{Name: "拆解作业平台", RegNo: "HR-P-003"},
	}
	for i := range vessels {
		db.Where("name = ?", vessels[i].Name).FirstOrCreate(&vessels[i])
	}

	warehouses := []WarehouseModel{
		{Name: "码头主仓库", Location: "1号码头"},
		{Name: "旧件暂存库", Location: "拆解区东侧"},
	}
	for i := range warehouses {
		db.Where("name = ?", warehouses[i].Name).FirstOrCreate(&warehouses[i])
	}
}

// autoMigrate 自动迁移表结构
// 注意：AutoMigrate只会创建表、添加字段，不会删除或修改现有字段
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&ItemModel{},
		&StockMovementModel{},
		&IssuanceModel{},
		&ReplacementModel{},
		&CostEntryModel{},
		&WarehouseModel{},
		&HoldingModel{},
		&VesselModel{},
	)
}

// UserModel GORM操作员模型
// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain/user/entity.go是领域实体，不依赖GORM
// 3. Repository负责两者之间的转换
type UserModel struct {
	ID        uint           `gorm:"primaryKey"`
	Email     string         `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password  string         `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	Nickname  string         `gorm:"size:50;not null;comment:昵称"`
	CreatedAt time.Time      `gorm:"comment:创建时间"`
	UpdatedAt time.Time      `gorm:"comment:更新时间"`
	DeletedAt gorm.DeletedAt `gorm:"index;comment:删除时间（软删除）"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// ItemModel GORM库存物资模型
// 设计说明:
// 1. 单价使用int64存储"分"为单位(避免浮点数精度问题)
// 2. Name有唯一索引,防止同名物资重复建档
// 3. Status是数量的派生字段,冗余存储并建索引,支持按状态筛选列表
// 4. 库存变更必须同时更新Quantity和Status(见item_repo.go的UpdateStock)
type ItemModel struct {
	ID               uint           `gorm:"primaryKey"`
	Name             string         `gorm:"uniqueIndex;size:100;not null;comment:物资名称"`
	Specification    string         `gorm:"size:200;comment:规格型号"`
	Unit             string         `gorm:"size:20;comment:计量单位"`
	Quantity         int            `gorm:"not null;default:0;comment:库存数量"`
	ReorderThreshold int            `gorm:"not null;default:10;comment:补货阈值"`
	UnitCost         int64          `gorm:"not null;default:0;comment:单价(分)"`
	Status           string         `gorm:"index;size:20;not null;comment:库存状态"`
	Remark           string         `gorm:"size:500;comment:备注"`
	CreatedAt        time.Time      `gorm:"index;comment:创建时间"`
	UpdatedAt        time.Time      `gorm:"comment:更新时间"`
	DeletedAt        gorm.DeletedAt `gorm:"index;comment:删除时间(软删除)"`
}

// TableName 指定表名
func (ItemModel) TableName() string {
	return "inventory_items"
}

// StockMovementModel GORM库存变动流水模型
// 设计说明:
// 1. 仅追加(append-only),没有Update和软删除
// 2. 复合索引(item_id, created_at)优化按物资查流水
type StockMovementModel struct {
	ID          uint      `gorm:"primaryKey"`
	ItemID      uint      `gorm:"index:idx_item_time;not null;comment:物资ID"`
	ChangeType  string    `gorm:"size:20;not null;comment:变动类型"`
	Delta       int       `gorm:"not null;comment:变动数量"`
	StockBefore int       `gorm:"not null;comment:变动前数量"`
	StockAfter  int       `gorm:"not null;comment:变动后数量"`
	RefType     string    `gorm:"size:20;comment:关联单据类型"`
	RefID       uint      `gorm:"index;comment:关联单据ID"`
	OperatorID  uint      `gorm:"comment:操作人ID"`
	Remark      string    `gorm:"size:500;comment:备注"`
	CreatedAt   time.Time `gorm:"index:idx_item_time;comment:创建时间"`
}

// TableName 指定表名
func (StockMovementModel) TableName() string {
	return "stock_movements"
}

// IssuanceModel GORM领用记录模型
// 设计说明:
// 1. 金额字段以"分"为单位
// 2. 冲销即硬删除:领用记录与其费用记录一同消失,库存流水保留审计痕迹
type IssuanceModel struct {
	ID          uint      `gorm:"primaryKey"`
	ItemID      uint      `gorm:"index;not null;comment:物资ID"`
	VesselID    uint      `gorm:"index;not null;comment:船舶ID"`
	Quantity    int       `gorm:"not null;comment:领用数量"`
	UnitCost    int64     `gorm:"not null;comment:领用时单价(分)"`
	TotalCost   int64     `gorm:"not null;comment:总金额(分)"`
	CostEntryID uint      `gorm:"index;comment:关联费用记录ID"`
	OperatorID  uint      `gorm:"comment:操作人ID"`
	IssuedAt    time.Time `gorm:"index;comment:领用日期"`
	Remark      string    `gorm:"size:500;comment:用途说明"`
	CreatedAt   time.Time `gorm:"comment:创建时间"`
	UpdatedAt   time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (IssuanceModel) TableName() string {
	return "issuance_records"
}

// ReplacementModel GORM设备更换单模型
// 设计说明:
// 1. Status只有confirmed/returned两个状态,归还用条件UPDATE防止并发重复归还
// 2. ItemID/WarehouseID按来源/去向可选,为0表示不关联
// 3. ReturnedAt可空:confirmed状态下为NULL
type ReplacementModel struct {
	ID              uint       `gorm:"primaryKey"`
	VesselID        uint       `gorm:"index;not null;comment:船舶ID"`
	EquipmentName   string     `gorm:"size:100;not null;comment:旧设备名称"`
	FailureReason   string     `gorm:"size:500;not null;comment:故障原因"`
	FailedAt        time.Time  `gorm:"comment:故障日期"`
	Source          string     `gorm:"size:20;not null;comment:新设备来源"`
	ItemID          uint       `gorm:"index;comment:库存物资ID"`
	ReplacementCost int64      `gorm:"not null;comment:更换费用(分)"`
	LaborCost       int64      `gorm:"not null;comment:人工费用(分)"`
	Disposition     string     `gorm:"size:30;not null;comment:旧设备去向"`
	WarehouseID     uint       `gorm:"comment:暂存仓库ID"`
	Status          string     `gorm:"index;size:20;not null;comment:更换单状态"`
	ReturnReason    string     `gorm:"size:500;comment:归还原因"`
	ReturnedAt      *time.Time `gorm:"comment:归还时间"`
	CostEntryID     uint       `gorm:"index;comment:关联费用记录ID"`
	OperatorID      uint       `gorm:"comment:操作人ID"`
	Remark          string     `gorm:"size:500;comment:备注"`
	CreatedAt       time.Time  `gorm:"index;comment:创建时间"`
	UpdatedAt       time.Time  `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (ReplacementModel) TableName() string {
	return "equipment_replacements"
}

// CostEntryModel GORM费用记录模型
// 设计说明:
// 1. 费用记录从不原地修改,冲正即删除(硬删除)
// 2. Category建索引支持财务按类别汇总
type CostEntryModel struct {
	ID          uint      `gorm:"primaryKey"`
	Amount      int64     `gorm:"not null;comment:金额(分)"`
	OccurredAt  time.Time `gorm:"index;comment:费用发生日期"`
	Category    string    `gorm:"index;size:50;not null;comment:费用类别"`
	Description string    `gorm:"size:500;comment:费用说明"`
	Vendor      string    `gorm:"size:100;comment:供应商"`
	CreatedAt   time.Time `gorm:"comment:创建时间"`
}

// TableName 指定表名
func (CostEntryModel) TableName() string {
	return "cost_entries"
}

// WarehouseModel GORM仓库模型(基础资料)
type WarehouseModel struct {
	ID        uint           `gorm:"primaryKey"`
	Name      string         `gorm:"uniqueIndex;size:100;not null;comment:仓库名称"`
	Location  string         `gorm:"size:200;comment:位置"`
	Remark    string         `gorm:"size:500;comment:备注"`
	CreatedAt time.Time      `gorm:"comment:创建时间"`
	UpdatedAt time.Time      `gorm:"comment:更新时间"`
	DeletedAt gorm.DeletedAt `gorm:"index;comment:删除时间(软删除)"`
}

// TableName 指定表名
func (WarehouseModel) TableName() string {
	return "warehouses"
}

// HoldingModel GORM仓库暂存记录模型
// 尽力写入(best-effort):写入失败不影响主流程,所以没有外键约束
type HoldingModel struct {
	ID             uint      `gorm:"primaryKey"`
	HoldingNo      string    `gorm:"uniqueIndex;size:32;not null;comment:暂存单号"`
	WarehouseID    uint      `gorm:"index;not null;comment:仓库ID"`
	Name           string    `gorm:"size:100;not null;comment:暂存物品名称"`
	EstimatedValue int64     `gorm:"not null;comment:估算残值(分)"`
	Description    string    `gorm:"size:500;comment:描述"`
	RefType        string    `gorm:"size:20;comment:来源单据类型"`
	RefID          uint      `gorm:"index;comment:来源单据ID"`
	CreatedAt      time.Time `gorm:"index;comment:创建时间"`
}

// TableName 指定表名
func (HoldingModel) TableName() string {
	return "warehouse_holdings"
}

// VesselModel GORM船舶模型(基础资料,只读引用)
type VesselModel struct {
	ID        uint           `gorm:"primaryKey"`
	Name      string         `gorm:"uniqueIndex;size:100;not null;comment:船名"`
	RegNo     string         `gorm:"size:50;comment:船舶登记号"`
	Remark    string         `gorm:"size:500;comment:备注"`
	CreatedAt time.Time      `gorm:"comment:创建时间"`
	UpdatedAt time.Time      `gorm:"comment:更新时间"`
	DeletedAt gorm.DeletedAt `gorm:"index;comment:删除时间(软删除)"`
}

// TableName 指定表名
func (VesselModel) TableName() string {
	return "vessels"
}
