package inventory

import (
	"context"

	"github.com/hairun/fleetops/internal/domain/inventory"
)

// GetItemUseCase 物资详情用例
type GetItemUseCase struct {
	itemService inventory.Service
}

// NewGetItemUseCase 创建物资详情用例
func NewGetItemUseCase(itemService inventory.Service) *GetItemUseCase {
	return &GetItemUseCase{itemService: itemService}
}

// ItemDetail 物资详情
type ItemDetail struct {
	ID               uint   `json:"id"`
	Name             string `json:"name"`
	Specification    string `json:"specification"`
	Unit             string `json:"unit"`
	Quantity         int    `json:"quantity"`
	ReorderThreshold int    `json:"reorder_threshold"`
	UnitCost         int64  `json:"unit_cost"`
	Status           string `json:"status"`
	Remark           string `json:"remark"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
}

// Execute 执行详情查询
func (uc *GetItemUseCase) Execute(ctx context.Context, id uint) (*ItemDetail, error) {
	item, err := uc.itemService.GetItemByID(ctx, id)
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
