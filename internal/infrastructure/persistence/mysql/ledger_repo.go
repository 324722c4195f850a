package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hairun/fleetops/internal/domain/ledger"
	apperrors "github.com/hairun/fleetops/pkg/errors"
)

// ledgerGateway 费用台账网关实现(MySQL)
// 设计说明:
// 1. 费用台账在部署上与本系统同库,但application层只通过ledger.Gateway
//    窄接口访问,便于将来拆成独立财务服务时替换为HTTP/RPC实现
// 2. 费用记录从不原地修改:冲正即删除(硬删除)
type ledgerGateway struct {
	db *gorm.DB
}

// NewLedgerGateway 创建费用台账网关
func NewLedgerGateway(db *gorm.DB) ledger.Gateway {
	return &ledgerGateway{db: db}
}

// CreateEntry 创建费用记录,返回记录ID
func (g *ledgerGateway) CreateEntry(ctx context.Context, entry *ledger.CostEntry) (uint, error) {
	model := &CostEntryModel{
		Amount:      entry.Amount,
		OccurredAt:  entry.OccurredAt,
		Category:    entry.Category,
		Description: entry.Description,
		Vendor:      entry.Vendor,
	}

	if err := g.getDB(ctx).Create(model).Error; err != nil {
		return 0, apperrors.Wrap(err, "创建费用记录失败")
	}

	entry.ID = model.ID
	entry.CreatedAt = model.CreatedAt
	return model.ID, nil
}

// DeleteEntry 删除费用记录(幂等)
// 记录不存在时返回nil:冲销重试时不会因已删除而失败
func (g *ledgerGateway) DeleteEntry(ctx context.Context, entryID uint) error {
	result := g.getDB(ctx).Delete(&CostEntryModel{}, entryID)

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除费用记录失败")
	}

	return nil
}

// FindEntry 查询费用记录(对账、测试用)
func (g *ledgerGateway) FindEntry(ctx context.Context, entryID uint) (*ledger.CostEntry, error) {
	var model CostEntryModel
	err := g.getDB(ctx).First(&model, entryID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrEntryNotFound
		}
		return nil, apperrors.Wrap(err, "查询费用记录失败")
	}

	return toCostEntryEntity(&model), nil
}

// ListEntries 分页查询费用记录
func (g *ledgerGateway) ListEntries(ctx context.Context, params ledger.ListParams) ([]*ledger.CostEntry, int64, error) {
	var models []CostEntryModel
	var total int64

	query := g.db.WithContext(ctx).Model(&CostEntryModel{})

	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询费用记录总数失败")
	}

	offset := (params.Page - 1) * params.PageSize
	err := query.Order("occurred_at DESC, id DESC").Limit(params.PageSize).Offset(offset).Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询费用记录列表失败")
	}

	entries := make([]*ledger.CostEntry, len(models))
	for i, model := range models {
		entries[i] = toCostEntryEntity(&model)
	}

	return entries, total, nil
}

// toCostEntryEntity GORM模型 → 领域实体
func toCostEntryEntity(model *CostEntryModel) *ledger.CostEntry {
	return &ledger.CostEntry{
		ID:          model.ID,
		Amount:      model.Amount,
		OccurredAt:  model.OccurredAt,
		Category:    model.Category,
		Description: model.Description,
		Vendor:      model.Vendor,
		CreatedAt:   model.CreatedAt,
	}
}

// getDB 从context获取事务DB,如果没有则使用默认DB
func (g *ledgerGateway) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return g.db
}
