package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hairun/fleetops/internal/domain/warehouse"
	apperrors "github.com/hairun/fleetops/pkg/errors"
)

// warehouseRepository 仓库仓储实现(MySQL)
// 同时实现warehouse.Repository和warehouse.Sink:
// application层做尽力写入时只依赖窄的Sink接口
type warehouseRepository struct {
	db *gorm.DB
}

// NewWarehouseRepository 创建仓库仓储
func NewWarehouseRepository(db *gorm.DB) warehouse.Repository {
	return &warehouseRepository{db: db}
}

// NewWarehouseSink 创建暂存记录写入器(与Repository共用实现)
func NewWarehouseSink(db *gorm.DB) warehouse.Sink {
	return &warehouseRepository{db: db}
}

// FindByID 根据ID查找仓库
func (r *warehouseRepository) FindByID(ctx context.Context, id uint) (*warehouse.Warehouse, error) {
	var model WarehouseModel
	err := r.db.WithContext(ctx).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, warehouse.ErrWarehouseNotFound
		}
		return nil, apperrors.Wrap(err, "查询仓库失败")
	}

	return toWarehouseEntity(&model), nil
}

// List 查询全部仓库(基础资料量小,不分页)
func (r *warehouseRepository) List(ctx context.Context) ([]*warehouse.Warehouse, error) {
	var models []WarehouseModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询仓库列表失败")
	}

	warehouses := make([]*warehouse.Warehouse, len(models))
	for i, model := range models {
		warehouses[i] = toWarehouseEntity(&model)
	}

	return warehouses, nil
}

// CreateHolding 写入暂存记录
func (r *warehouseRepository) CreateHolding(ctx context.Context, holding *warehouse.Holding) error {
	model := &HoldingModel{
		HoldingNo:      holding.HoldingNo,
		WarehouseID:    holding.WarehouseID,
		Name:           holding.Name,
		EstimatedValue: holding.EstimatedValue,
		Description:    holding.Description,
		RefType:        holding.RefType,
		RefID:          holding.RefID,
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "写入暂存记录失败")
	}

	holding.ID = model.ID
	holding.CreatedAt = model.CreatedAt
	return nil
}

// RecordHolding 写入一条暂存记录(Sink接口)
// 尽力写入:失败由调用方记日志和指标,不回滚主流程
func (r *warehouseRepository) RecordHolding(ctx context.Context, holding *warehouse.Holding) error {
	return r.CreateHolding(ctx, holding)
}

// ListHoldings 分页查询仓库的暂存记录
func (r *warehouseRepository) ListHoldings(ctx context.Context, warehouseID uint, page, pageSize int) ([]*warehouse.Holding, int64, error) {
	var models []HoldingModel
	var total int64

	query := r.db.WithContext(ctx).Model(&HoldingModel{}).Where("warehouse_id = ?", warehouseID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询暂存记录总数失败")
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC, id DESC").Limit(pageSize).Offset(offset).Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询暂存记录列表失败")
	}

	holdings := make([]*warehouse.Holding, len(models))
	for i, model := range models {
		holdings[i] = toHoldingEntity(&model)
	}

	return holdings, total, nil
}

func toWarehouseEntity(model *WarehouseModel) *warehouse.Warehouse {
	return &warehouse.Warehouse{
		ID:        model.ID,
		Name:      model.Name,
		Location:  model.Location,
		Remark:    model.Remark,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func toHoldingEntity(model *HoldingModel) *warehouse.Holding {
	return &warehouse.Holding{
		ID:             model.ID,
		HoldingNo:      model.HoldingNo,
		WarehouseID:    model.WarehouseID,
		Name:           model.Name,
		EstimatedValue: model.EstimatedValue,
		Description:    model.Description,
		RefType:        model.RefType,
		RefID:          model.RefID,
		CreatedAt:      model.CreatedAt,
	}
}
