package inventory

import (
	"context"
)

// Repository 库存仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 便于Mock测试,不依赖具体数据库实现
type Repository interface {
	// Create 创建物资
	Create(ctx context.Context, item *Item) error

	// FindByID 根据ID查找物资
	FindByID(ctx context.Context, id uint) (*Item, error)

	// FindByName 根据名称查找物资
	FindByName(ctx context.Context, name string) (*Item, error)

	// Update 更新物资信息
	Update(ctx context.Context, item *Item) error

	// Delete 删除物资(软删除)
	Delete(ctx context.Context, id uint) error

	// List 分页查询物资列表
	List(ctx context.Context, params ListParams) ([]*Item, int64, error)

	// LockByID 悲观锁查询物资(事务内使用)
	// 使用SELECT FOR UPDATE锁定行,防止并发场景下库存与状态不一致
	LockByID(ctx context.Context, id uint) (*Item, error)

	// UpdateStock 变更库存(原子操作)
	// delta为正表示增加,负表示减少
	// 单条条件UPDATE同时完成数量变更和状态重算:
	// 库存不足返回ErrInsufficientStock,物资不存在返回ErrItemNotFound
	UpdateStock(ctx context.Context, id uint, delta int) error

	// AppendMovement 追加库存变动流水
	AppendMovement(ctx context.Context, movement *StockMovement) error

	// ListMovements 查询物资的变动流水(按时间倒序)
	ListMovements(ctx context.Context, itemID uint, page, pageSize int) ([]*StockMovement, int64, error)
}

// ListParams 列表查询参数
type ListParams struct {
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量
	Keyword  string // 搜索关键词(名称、规格)
	Status   Status // 按库存状态筛选(空表示不筛选)
	SortBy   string // 排序字段(quantity_asc, quantity_desc, created_at_desc)
}
