package ledger

import (
	"context"
)

// Gateway 费用台账网关接口
// 设计说明:
// 1. 费用台账是外部协作方(财务模块),本系统通过窄接口与之交互
// 2. 只有创建和删除两个操作:费用记录从不原地修改,冲正即删除
// 3. Delete幂等:删除不存在的记录不报错,保证补偿/重试路径安全
type Gateway interface {
	// CreateEntry 创建费用记录,返回记录ID
	CreateEntry(ctx context.Context, entry *CostEntry) (uint, error)

	// DeleteEntry 删除费用记录(幂等)
	// 记录不存在时返回nil:冲销重试时不会因已删除而失败
	DeleteEntry(ctx context.Context, entryID uint) error

	// FindEntry 查询费用记录(对账、测试用)
	FindEntry(ctx context.Context, entryID uint) (*CostEntry, error)

	// ListEntries 分页查询费用记录
	ListEntries(ctx context.Context, params ListParams) ([]*CostEntry, int64, error)
}

// ListParams 列表查询参数
type ListParams struct {
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量
	Category string // 按类别筛选(空表示不筛选)
}
