package inventory

import (
	"context"

	"github.com/hairun/fleetops/internal/domain/inventory"
)

// UpdateItemUseCase 更新物资用例
// 基本信息、补货阈值、单价三类更新统一入口,
// 请求中的指针字段为nil表示不更新该项
type UpdateItemUseCase struct {
	itemService inventory.Service
}

// NewUpdateItemUseCase 创建更新物资用例
func NewUpdateItemUseCase(itemService inventory.Service) *UpdateItemUseCase {
	return &UpdateItemUseCase{itemService: itemService}
}

// UpdateItemRequest 更新物资请求DTO
type UpdateItemRequest struct {
	ID               uint
	Name             string // 空表示不更新
	Specification    string
	Unit             string
	Remark           string
	ReorderThreshold *int   // nil表示不更新
	UnitCost         *int64 // nil表示不更新
}

// Execute 执行更新
// 阈值更新会触发状态重算:数量不变但低库存判定标准变了
func (uc *UpdateItemUseCase) Execute(ctx context.Context, req UpdateItemRequest) (*ItemDetail, error) {
	if req.Name != "" || req.Specification != "" || req.Unit != "" || req.Remark != "" {
		if err := uc.itemService.UpdateItemInfo(ctx, req.ID, req.Name, req.Specification, req.Unit, req.Remark); err != nil {
			return nil, err
		}
	}

	if req.ReorderThreshold != nil {
		if err := uc.itemService.UpdateItemThreshold(ctx, req.ID, *req.ReorderThreshold); err != nil {
			return nil, err
		}
	}

	if req.UnitCost != nil {
		if err := uc.itemService.UpdateItemUnitCost(ctx, req.ID, *req.UnitCost); err != nil {
			return nil, err
		}
	}

	item, err := uc.itemService.GetItemByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	return &ItemDetail{
		ID:               item.ID,
		Name:             item.Name,
		Specification:    item.Specification,
		Unit:             item.Unit,
		Quantity:         item.Quantity,
		ReorderThreshold: item.ReorderThreshold,
		UnitCost:         item.UnitCost,
		Status:           string(item.Status),
		Remark:           item.Remark,
		CreatedAt:        item.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:        item.UpdatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}
