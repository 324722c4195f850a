package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hairun/fleetops/internal/domain/inventory"
	apperrors "github.com/hairun/fleetops/pkg/errors"
)

// itemRepository 库存物资仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/inventory/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 处理数据库特定的错误(如名称重复),转换为业务错误
type itemRepository struct {
	db *gorm.DB
}

// NewItemRepository 创建库存物资仓储
func NewItemRepository(db *gorm.DB) inventory.Repository {
	return &itemRepository{db: db}
}

// Create 创建物资
func (r *itemRepository) Create(ctx context.Context, item *inventory.Item) error {
	model := &ItemModel{
		Name:             item.Name,
		Specification:    item.Specification,
		Unit:             item.Unit,
		Quantity:         item.Quantity,
		ReorderThreshold: item.ReorderThreshold,
		UnitCost:         item.UnitCost,
		Status:           string(item.Status),
		Remark:           item.Remark,
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return inventory.ErrNameDuplicate
		}
		return apperrors.Wrap(err, "创建物资失败")
	}

	// 回填自增ID
	item.ID = model.ID
	item.CreatedAt = model.CreatedAt
	item.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID 根据ID查找物资
func (r *itemRepository) FindByID(ctx context.Context, id uint) (*inventory.Item, error) {
	var model ItemModel
	err := r.getDB(ctx).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, inventory.ErrItemNotFound
		}
		return nil, apperrors.Wrap(err, "查询物资失败")
	}

	return toItemEntity(&model), nil
}

// FindByName 根据名称查找物资
func (r *itemRepository) FindByName(ctx context.Context, name string) (*inventory.Item, error) {
	var model ItemModel
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, inventory.ErrItemNotFound
		}
		return nil, apperrors.Wrap(err, "查询物资失败")
	}

	return toItemEntity(&model), nil
}

// Update 更新物资信息
func (r *itemRepository) Update(ctx context.Context, item *inventory.Item) error {
	model := &ItemModel{
		ID:               item.ID,
		Name:             item.Name,
		Specification:    item.Specification,
		Unit:             item.Unit,
		Quantity:         item.Quantity,
		ReorderThreshold: item.ReorderThreshold,
		UnitCost:         item.UnitCost,
		Status:           string(item.Status),
		Remark:           item.Remark,
		CreatedAt:        item.CreatedAt,
	}

	if err := r.getDB(ctx).Save(model).Error; err != nil {
		if isDuplicateError(err) {
			return inventory.ErrNameDuplicate
		}
		return apperrors.Wrap(err, "更新物资失败")
	}

	item.UpdatedAt = model.UpdatedAt
	return nil
}

// Delete 删除物资(软删除)
func (r *itemRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&ItemModel{}, id)

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除物资失败")
	}

	if result.RowsAffected == 0 {
		return inventory.ErrItemNotFound
	}

	return nil
}

// List 分页查询物资列表
func (r *itemRepository) List(ctx context.Context, params inventory.ListParams) ([]*inventory.Item, int64, error) {
	var models []ItemModel
	var total int64

	query := r.db.WithContext(ctx).Model(&ItemModel{})

	// 关键词搜索(名称、规格)
	if params.Keyword != "" {
		keyword := "%" + params.Keyword + "%"
		query = query.Where("name LIKE ? OR specification LIKE ?", keyword, keyword)
	}

	// 按库存状态筛选
	if params.Status != "" {
		query = query.Where("status = ?", string(params.Status))
	}

	// 查询总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询物资总数失败")
	}

	// 排序
	switch params.SortBy {
	case "quantity_asc":
		query = query.Order("quantity ASC")
	case "quantity_desc":
		query = query.Order("quantity DESC")
	case "created_at_desc":
		query = query.Order("created_at DESC")
	default:
		query = query.Order("created_at DESC")
	}

	// 分页
	offset := (params.Page - 1) * params.PageSize
	query = query.Limit(params.PageSize).Offset(offset)

	if err := query.Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询物资列表失败")
	}

	items := make([]*inventory.Item, len(models))
	for i, model := range models {
		items[i] = toItemEntity(&model)
	}

	return items, total, nil
}

// LockByID 悲观锁查询物资(事务内使用)
func (r *itemRepository) LockByID(ctx context.Context, id uint) (*inventory.Item, error) {
	var model ItemModel
	// SELECT FOR UPDATE锁定行
	// 注意:必须使用getDB(ctx)从context获取事务DB
	db := r.getDB(ctx)
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, inventory.ErrItemNotFound
		}
		return nil, apperrors.Wrap(err, "锁定物资失败")
	}

	return toItemEntity(&model), nil
}

// UpdateStock 变更库存(原子操作)
// 单条条件UPDATE同时完成数量变更和状态重算:
//
//	UPDATE inventory_items
//	SET status = CASE ... END, quantity = quantity + delta
//	WHERE id = ? AND quantity + delta >= 0
//
// MySQL按SET子句从左到右求值,status必须写在quantity之前,
// 保证CASE表达式中的quantity仍是变更前的值。
func (r *itemRepository) UpdateStock(ctx context.Context, id uint, delta int) error {
	if delta == 0 {
		return nil
	}

	// 注意:必须使用getDB(ctx)参与事务
	db := r.getDB(ctx)
	result := db.Exec(`UPDATE inventory_items
		SET status = CASE
				WHEN quantity + ? <= 0 THEN 'out_of_stock'
				WHEN quantity + ? <= reorder_threshold THEN 'low_stock'
				ELSE 'in_stock'
			END,
			quantity = quantity + ?,
			updated_at = NOW()
		WHERE id = ? AND deleted_at IS NULL AND quantity + ? >= 0`,
		delta, delta, delta, id, delta)

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新库存失败")
	}

	if result.RowsAffected == 0 {
		// 可能是物资不存在,或者库存不足
		// 再查一次确定原因
		var model ItemModel
		if err := db.First(&model, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return inventory.ErrItemNotFound
			}
			return apperrors.Wrap(err, "查询物资失败")
		}
		// 物资存在,说明是库存不足
		return inventory.ErrInsufficientStock
	}

	return nil
}

// AppendMovement 追加库存变动流水
func (r *itemRepository) AppendMovement(ctx context.Context, movement *inventory.StockMovement) error {
	model := &StockMovementModel{
		ItemID:      movement.ItemID,
		ChangeType:  string(movement.ChangeType),
		Delta:       movement.Delta,
		StockBefore: movement.StockBefore,
		StockAfter:  movement.StockAfter,
		RefType:     movement.RefType,
		RefID:       movement.RefID,
		OperatorID:  movement.OperatorID,
		Remark:      movement.Remark,
	}

	if err := r.getDB(ctx).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "写入库存流水失败")
	}

	movement.ID = model.ID
	movement.CreatedAt = model.CreatedAt
	return nil
}

// ListMovements 查询物资的变动流水(按时间倒序)
func (r *itemRepository) ListMovements(ctx context.Context, itemID uint, page, pageSize int) ([]*inventory.StockMovement, int64, error) {
	var models []StockMovementModel
	var total int64

	query := r.db.WithContext(ctx).Model(&StockMovementModel{}).Where("item_id = ?", itemID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询流水总数失败")
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC, id DESC").Limit(pageSize).Offset(offset).Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询库存流水失败")
	}

	movements := make([]*inventory.StockMovement, len(models))
	for i, model := range models {
		movements[i] = toMovementEntity(&model)
	}

	return movements, total, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toItemEntity GORM模型 → 领域实体
func toItemEntity(model *ItemModel) *inventory.Item {
	return &inventory.Item{
		ID:               model.ID,
		Name:             model.Name,
		Specification:    model.Specification,
		Unit:             model.Unit,
		Quantity:         model.Quantity,
		ReorderThreshold: model.ReorderThreshold,
		UnitCost:         model.UnitCost,
		Status:           inventory.Status(model.Status),
		Remark:           model.Remark,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}

// toMovementEntity GORM模型 → 领域实体
func toMovementEntity(model *StockMovementModel) *inventory.StockMovement {
	return &inventory.StockMovement{
		ID:          model.ID,
		ItemID:      model.ItemID,
		ChangeType:  inventory.ChangeType(model.ChangeType),
		Delta:       model.Delta,
		StockBefore: model.StockBefore,
		StockAfter:  model.StockAfter,
		RefType:     model.RefType,
		RefID:       model.RefID,
		OperatorID:  model.OperatorID,
		Remark:      model.Remark,
		CreatedAt:   model.CreatedAt,
	}
}

// getDB 从context获取事务DB,如果没有则使用默认DB
func (r *itemRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db
}
