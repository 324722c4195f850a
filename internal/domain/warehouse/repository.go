package warehouse

import (
	"context"
)

// Repository 仓库仓储接口(只读引用+暂存记录写入)
type Repository interface {
	// FindByID 根据ID查找仓库
	FindByID(ctx context.Context, id uint) (*Warehouse, error)

	// List 查询全部仓库(基础资料量小,不分页)
	List(ctx context.Context) ([]*Warehouse, error)

	// CreateHolding 写入暂存记录
	CreateHolding(ctx context.Context, holding *Holding) error

	// ListHoldings 分页查询仓库的暂存记录
	ListHoldings(ctx context.Context, warehouseID uint, page, pageSize int) ([]*Holding, int64, error)
}

// Sink 暂存记录写入接口(application层依赖的窄接口)
// 设计说明:
// 尽力写入语义由调用方实现(熔断器保护+失败只记日志),
// Sink本身只负责一次写入尝试。
type Sink interface {
	// RecordHolding 写入一条暂存记录
	RecordHolding(ctx context.Context, holding *Holding) error
}
