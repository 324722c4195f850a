package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hairun/fleetops/internal/domain/issuance"
	apperrors "github.com/hairun/fleetops/pkg/errors"
)

// issuanceRepository 领用记录仓储实现(MySQL)
type issuanceRepository struct {
	db *gorm.DB
}

// NewIssuanceRepository 创建领用记录仓储
func NewIssuanceRepository(db *gorm.DB) issuance.Repository {
	return &issuanceRepository{db: db}
}

// Create 创建领用记录
func (r *issuanceRepository) Create(ctx context.Context, record *issuance.Record) error {
	model := &IssuanceModel{
		ItemID:      record.ItemID,
		VesselID:    record.VesselID,
		Quantity:    record.Quantity,
		UnitCost:    record.UnitCost,
		TotalCost:   record.TotalCost,
		CostEntryID: record.CostEntryID,
		OperatorID:  record.OperatorID,
		IssuedAt:    record.IssuedAt,
		Remark:      record.Remark,
	}

	if err := r.getDB(ctx).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建领用记录失败")
	}

	record.ID = model.ID
	record.CreatedAt = model.CreatedAt
	record.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找领用记录
func (r *issuanceRepository) FindByID(ctx context.Context, id uint) (*issuance.Record, error) {
	var model IssuanceModel
	err := r.getDB(ctx).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, issuance.ErrRecordNotFound
		}
		return nil, apperrors.Wrap(err, "查询领用记录失败")
	}

	return toIssuanceEntity(&model), nil
}

// Delete 删除领用记录(冲销路径)
// 幂等:记录不存在时返回nil,保证冲销步骤可安全重试
func (r *issuanceRepository) Delete(ctx context.Context, id uint) error {
	result := r.getDB(ctx).Delete(&IssuanceModel{}, id)

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除领用记录失败")
	}

	// RowsAffected==0说明记录已被删除,冲销重试时按成功处理
	return nil
}

// List 分页查询领用记录
func (r *issuanceRepository) List(ctx context.Context, params issuance.ListParams) ([]*issuance.Record, int64, error) {
	var models []IssuanceModel
	var total int64

	query := r.db.WithContext(ctx).Model(&IssuanceModel{})

	if params.ItemID > 0 {
		query = query.Where("item_id = ?", params.ItemID)
	}
	if params.VesselID > 0 {
		query = query.Where("vessel_id = ?", params.VesselID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询领用记录总数失败")
	}

	offset := (params.Page - 1) * params.PageSize
	err := query.Order("issued_at DESC, id DESC").Limit(params.PageSize).Offset(offset).Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询领用记录列表失败")
	}

	records := make([]*issuance.Record, len(models))
	for i, model := range models {
		records[i] = toIssuanceEntity(&model)
	}

	return records, total, nil
}

// toIssuanceEntity GORM模型 → 领域实体
func toIssuanceEntity(model *IssuanceModel) *issuance.Record {
	return &issuance.Record{
		ID:          model.ID,
		ItemID:      model.ItemID,
		VesselID:    model.VesselID,
		Quantity:    model.Quantity,
		UnitCost:    model.UnitCost,
		TotalCost:   model.TotalCost,
		CostEntryID: model.CostEntryID,
		OperatorID:  model.OperatorID,
		IssuedAt:    model.IssuedAt,
		Remark:      model.Remark,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// getDB 从context获取事务DB,如果没有则使用默认DB
func (r *issuanceRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db
}
