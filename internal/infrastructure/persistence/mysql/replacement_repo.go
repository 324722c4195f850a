package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/hairun/fleetops/internal/domain/replacement"
	apperrors "github.com/hairun/fleetops/pkg/errors"
)

// replacementRepository 设备更换单仓储实现(MySQL)
type replacementRepository struct {
	db *gorm.DB
}

// NewReplacementRepository 创建更换单仓储
func NewReplacementRepository(db *gorm.DB) replacement.Repository {
	return &replacementRepository{db: db}
}

// Create 创建更换单
func (r *replacementRepository) Create(ctx context.Context, rep *replacement.Replacement) error {
	model := toReplacementModel(rep)
	model.ID = 0

	if err := r.getDB(ctx).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建更换单失败")
	}

	rep.ID = model.ID
	rep.CreatedAt = model.CreatedAt
	rep.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找更换单
func (r *replacementRepository) FindByID(ctx context.Context, id uint) (*replacement.Replacement, error) {
	var model ReplacementModel
	err := r.getDB(ctx).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, replacement.ErrReplacementNotFound
		}
		return nil, apperrors.Wrap(err, "查询更换单失败")
	}

	return toReplacementEntity(&model), nil
}

// Update 更新更换单(关联费用记录等)
func (r *replacementRepository) Update(ctx context.Context, rep *replacement.Replacement) error {
	model := toReplacementModel(rep)

	if err := r.getDB(ctx).Save(model).Error; err != nil {
		return apperrors.Wrap(err, "更新更换单失败")
	}

	rep.UpdatedAt = model.UpdatedAt
	return nil
}

// MarkReturned 条件更新为已归还状态(原子操作)
// 单条UPDATE带WHERE status='confirmed'条件,防止并发重复归还:
// 两个归还请求同时到达时只有一个能命中该条件,另一个影响行数为0
func (r *replacementRepository) MarkReturned(ctx context.Context, id uint, reason string) error {
	db := r.getDB(ctx)
	now := time.Now()
	result := db.Model(&ReplacementModel{}).
		Where("id = ?", id).
		Where("status = ?", string(replacement.StatusConfirmed)).
		Updates(map[string]interface{}{
			"status":        string(replacement.StatusReturned),
			"return_reason": reason,
			"returned_at":   now,
		})

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新更换单状态失败")
	}

	if result.RowsAffected == 0 {
		// 可能是更换单不存在,或者已被归还
		// 再查一次确定原因
		var model ReplacementModel
		if err := db.First(&model, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return replacement.ErrReplacementNotFound
			}
			return apperrors.Wrap(err, "查询更换单失败")
		}
		// 更换单存在,说明已是returned状态
		return replacement.ErrAlreadyReturned
	}

	return nil
}

// Delete 硬删除更换单(运维操作和saga补偿路径使用)
// 幂等:记录不存在时返回nil
func (r *replacementRepository) Delete(ctx context.Context, id uint) error {
	result := r.getDB(ctx).Unscoped().Delete(&ReplacementModel{}, id)

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除更换单失败")
	}

	return nil
}

// List 分页查询更换单
func (r *replacementRepository) List(ctx context.Context, params replacement.ListParams) ([]*replacement.Replacement, int64, error) {
	var models []ReplacementModel
	var total int64

	query := r.db.WithContext(ctx).Model(&ReplacementModel{})

	if params.VesselID > 0 {
		query = query.Where("vessel_id = ?", params.VesselID)
	}
	if params.Status != "" {
		query = query.Where("status = ?", string(params.Status))
	}
	if params.Keyword != "" {
		keyword := "%" + params.Keyword + "%"
		query = query.Where("equipment_name LIKE ? OR failure_reason LIKE ?", keyword, keyword)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询更换单总数失败")
	}

	offset := (params.Page - 1) * params.PageSize
	err := query.Order("created_at DESC, id DESC").Limit(params.PageSize).Offset(offset).Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询更换单列表失败")
	}

	reps := make([]*replacement.Replacement, len(models))
	for i, model := range models {
		reps[i] = toReplacementEntity(&model)
	}

	return reps, total, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

func toReplacementModel(rep *replacement.Replacement) *ReplacementModel {
	return &ReplacementModel{
		ID:              rep.ID,
		VesselID:        rep.VesselID,
		EquipmentName:   rep.EquipmentName,
		FailureReason:   rep.FailureReason,
		FailedAt:        rep.FailedAt,
		Source:          string(rep.Source),
		ItemID:          rep.ItemID,
		ReplacementCost: rep.ReplacementCost,
		LaborCost:       rep.LaborCost,
		Disposition:     string(rep.Disposition),
		WarehouseID:     rep.WarehouseID,
		Status:          string(rep.Status),
		ReturnReason:    rep.ReturnReason,
		ReturnedAt:      rep.ReturnedAt,
		CostEntryID:     rep.CostEntryID,
		OperatorID:      rep.OperatorID,
		Remark:          rep.Remark,
		CreatedAt:       rep.CreatedAt,
	}
}

func toReplacementEntity(model *ReplacementModel) *replacement.Replacement {
	return &replacement.Replacement{
		ID:              model.ID,
		VesselID:        model.VesselID,
		EquipmentName:   model.EquipmentName,
		FailureReason:   model.FailureReason,
		FailedAt:        model.FailedAt,
		Source:          replacement.Source(model.Source),
		ItemID:          model.ItemID,
		ReplacementCost: model.ReplacementCost,
		LaborCost:       model.LaborCost,
		Disposition:     replacement.Disposition(model.Disposition),
		WarehouseID:     model.WarehouseID,
		Status:          replacement.Status(model.Status),
		ReturnReason:    model.ReturnReason,
		ReturnedAt:      model.ReturnedAt,
		CostEntryID:     model.CostEntryID,
		OperatorID:      model.OperatorID,
		Remark:          model.Remark,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

// getDB 从context获取事务DB,如果没有则使用默认DB
func (r *replacementRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db
}
