package inventory

import (
	"context"
	"strings"
)

// Service 库存领域服务接口
// 设计说明:
// 1. 封装物资台账的维护逻辑和业务规则校验
// 2. 库存的领用/归还变更不走这里,由application层编排(涉及跨聚合协作)
type Service interface {
	// CreateItem 新建物资
	// 业务规则:
	// - 名称不能为空且不能重复
	// - 初始数量>=0,单价>=0
	// - threshold为0时使用默认补货阈值
	CreateItem(ctx context.Context, name, specification, unit string, quantity, threshold int, unitCost int64, remark string) (*Item, error)

	// GetItemByID 根据ID获取物资详情
	GetItemByID(ctx context.Context, id uint) (*Item, error)

	// UpdateItemInfo 更新物资基本信息
	UpdateItemInfo(ctx context.Context, id uint, name, specification, unit, remark string) error

	// UpdateItemThreshold 更新补货阈值(状态随之重算)
	UpdateItemThreshold(ctx context.Context, id uint, threshold int) error

	// UpdateItemUnitCost 更新单价
	UpdateItemUnitCost(ctx context.Context, id uint, unitCost int64) error

	// Restock 采购入库
	// 记录RESTOCK流水并增加库存
	Restock(ctx context.Context, id uint, quantity int, operatorID uint, remark string) error

	// DeleteItem 删除物资
	DeleteItem(ctx context.Context, id uint) error

	// ListItems 分页查询物资列表
	ListItems(ctx context.Context, params ListParams) ([]*Item, int64, error)

	// ListMovements 查询物资的库存变动流水
	ListMovements(ctx context.Context, itemID uint, page, pageSize int) ([]*StockMovement, int64, error)
}

// service 领域服务实现
type service struct {
	repo Repository
}

// NewService 创建库存领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// CreateItem 新建物资
func (s *service) CreateItem(ctx context.Context, name, specification, unit string, quantity, threshold int, unitCost int64, remark string) (*Item, error) {
	// 1. 名称校验
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}

	// 2. 数量与单价校验
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}
	if unitCost < 0 {
		return nil, ErrInvalidUnitCost
	}
	if threshold < 0 {
		return nil, ErrInvalidThreshold
	}

	// 3. 名称查重(数据库唯一索引兜底)
	existing, err := s.repo.FindByName(ctx, name)
	if err == nil && existing != nil {
		return nil, ErrNameDuplicate
	}
	if err != nil && err != ErrItemNotFound {
		return nil, err
	}

	// 4. 创建并持久化
	item := NewItem(name, specification, unit, quantity, threshold, unitCost, remark)
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// GetItemByID 根据ID获取物资
func (s *service) GetItemByID(ctx context.Context, id uint) (*Item, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateItemInfo 更新物资基本信息
func (s *service) UpdateItemInfo(ctx context.Context, id uint, name, specification, unit, remark string) error {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	// 改名时需要查重
	name = strings.TrimSpace(name)
	if name != "" && name != item.Name {
		existing, err := s.repo.FindByName(ctx, name)
		if err == nil && existing != nil {
			return ErrNameDuplicate
		}
		if err != nil && err != ErrItemNotFound {
			return err
		}
	}

	item.UpdateInfo(name, specification, unit, remark)
	return s.repo.Update(ctx, item)
}

// UpdateItemThreshold 更新补货阈值
func (s *service) UpdateItemThreshold(ctx context.Context, id uint, threshold int) error {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := item.UpdateThreshold(threshold); err != nil {
		return err
	}
	return s.repo.Update(ctx, item)
}

// UpdateItemUnitCost 更新单价
func (s *service) UpdateItemUnitCost(ctx context.Context, id uint, unitCost int64) error {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := item.UpdateUnitCost(unitCost); err != nil {
		return err
	}
	return s.repo.Update(ctx, item)
}

// Restock 采购入库
func (s *service) Restock(ctx context.Context, id uint, quantity int, operatorID uint, remark string) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	// 读取变动前数量用于流水记录
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateStock(ctx, id, quantity); err != nil {
		return err
	}

	movement := NewMovement(id, ChangeTypeRestock, quantity, item.Quantity, "", 0, operatorID, remark)
	return s.repo.AppendMovement(ctx, movement)
}

// DeleteItem 删除物资
func (s *service) DeleteItem(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// ListItems 分页查询物资列表
func (s *service) ListItems(ctx context.Context, params ListParams) ([]*Item, int64, error) {
	return s.repo.List(ctx, params)
}

// ListMovements 查询库存变动流水
func (s *service) ListMovements(ctx context.Context, itemID uint, page, pageSize int) ([]*StockMovement, int64, error) {
	return s.repo.ListMovements(ctx, itemID, page, pageSize)
}
