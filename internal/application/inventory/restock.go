package inventory

import (
	"context"

	"github.com/hairun/fleetops/internal/domain/inventory"
)

// RestockUseCase 采购入库用例
type RestockUseCase struct {
	itemService inventory.Service
}

// NewRestockUseCase 创建采购入库用例
func NewRestockUseCase(itemService inventory.Service) *RestockUseCase {
	return &RestockUseCase{itemService: itemService}
}

// RestockRequest 入库请求DTO
type RestockRequest struct {
	ItemID     uint
	Quantity   int // 入库数量(>0)
	OperatorID uint
	Remark     string
}

// RestockResponse 入库响应DTO
type RestockResponse struct {
	ItemID      uint   `json:"item_id"`
	Quantity    int    `json:"quantity"`
	StockAfter  int    `json:"stock_after"`
	StockStatus string `json:"stock_status"`
}

// Execute 执行入库
func (uc *RestockUseCase) Execute(ctx context.Context, req RestockRequest) (*RestockResponse, error) {
	if err := uc.itemService.Restock(ctx, req.ItemID, req.Quantity, req.OperatorID, req.Remark); err != nil {
		return nil, err
	}

	item, err := uc.itemService.GetItemByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	return &RestockResponse{
		ItemID:      item.ID,
		Quantity:    req.Quantity,
		StockAfter:  item.Quantity,
		StockStatus: string(item.Status),
	}, nil
}
