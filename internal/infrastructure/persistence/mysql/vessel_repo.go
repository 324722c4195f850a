package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hairun/fleetops/internal/domain/vessel"
	apperrors "github.com/hairun/fleetops/pkg/errors"
)

// vesselRepository 船舶仓储实现(MySQL,只读)
type vesselRepository struct {
	db *gorm.DB
}

// NewVesselRepository 创建船舶仓储
func NewVesselRepository(db *gorm.DB) vessel.Repository {
	return &vesselRepository{db: db}
}

// FindByID 根据ID查找船舶
func (r *vesselRepository) FindByID(ctx context.Context, id uint) (*vessel.Vessel, error) {
	var model VesselModel
	err := r.db.WithContext(ctx).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, vessel.ErrVesselNotFound
		}
		return nil, apperrors.Wrap(err, "查询船舶失败")
	}

	return toVesselEntity(&model), nil
}

// List 查询全部船舶(基础资料量小,不分页)
func (r *vesselRepository) List(ctx context.Context) ([]*vessel.Vessel, error) {
	var models []VesselModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询船舶列表失败")
	}

	vessels := make([]*vessel.Vessel, len(models))
	for i, model := range models {
		vessels[i] = toVesselEntity(&model)
	}

	return vessels, nil
}

func toVesselEntity(model *VesselModel) *vessel.Vessel {
	return &vessel.Vessel{
		ID:        model.ID,
		Name:      model.Name,
		RegNo:     model.RegNo,
		Remark:    model.Remark,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
