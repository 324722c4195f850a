package replacement

import (
	"context"
)

// Repository 更换单仓储接口
type Repository interface {
	// Create 创建更换单
	Create(ctx context.Context, r *Replacement) error

	// FindByID 根据ID查找更换单
	FindByID(ctx context.Context, id uint) (*Replacement, error)

	// Update 更新更换单(关联费用记录等)
	Update(ctx context.Context, r *Replacement) error

	// MarkReturned 条件更新为已归还状态(原子操作)
	// 单条UPDATE带WHERE status='confirmed'条件,防止并发重复归还:
	// 影响行数为0时查询记录区分NotFound和AlreadyReturned
	MarkReturned(ctx context.Context, id uint, reason string) error

	// Delete 硬删除更换单(运维操作,归还路径不使用)
	Delete(ctx context.Context, id uint) error

	// List 分页查询更换单
	List(ctx context.Context, params ListParams) ([]*Replacement, int64, error)
}

// ListParams 列表查询参数
type ListParams struct {
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量
	VesselID uint   // 按船舶筛选(0表示不筛选)
	Status   Status // 按状态筛选(空表示不筛选)
	Keyword  string // 搜索关键词(设备名称、故障原因)
}
