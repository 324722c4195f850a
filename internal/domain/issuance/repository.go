package issuance

import (
	"context"
)

// Repository 领用记录仓储接口
type Repository interface {
	// Create 创建领用记录
	Create(ctx context.Context, record *Record) error

	// FindByID 根据ID查找领用记录
	FindByID(ctx context.Context, id uint) (*Record, error)

	// Delete 删除领用记录(冲销路径)
	// 幂等:记录不存在时返回nil,保证冲销步骤可安全重试
	Delete(ctx context.Context, id uint) error

	// List 分页查询领用记录
	List(ctx context.Context, params ListParams) ([]*Record, int64, error)
}

// ListParams 列表查询参数
type ListParams struct {
	Page     int  // 页码(从1开始)
	PageSize int  // 每页数量
	ItemID   uint // 按物资筛选(0表示不筛选)
	VesselID uint // 按船舶筛选(0表示不筛选)
}
