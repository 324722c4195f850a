package inventory

import (
	"context"

	"github.com/hairun/fleetops/internal/domain/inventory"
)

// CreateItemUseCase 新建物资用例
// 业务规则校验(名称查重、数量/单价范围)由领域服务负责,应用层只做编排
type CreateItemUseCase struct {
	itemService inventory.Service
}

// NewCreateItemUseCase 创建新建物资用例
func NewCreateItemUseCase(itemService inventory.Service) *CreateItemUseCase {
	return &CreateItemUseCase{itemService: itemService}
}

// CreateItemRequest 新建物资请求DTO
type CreateItemRequest struct {
	Name             string // 物资名称
	Specification    string // 规格型号
	Unit             string // 计量单位
	Quantity         int    // 初始库存
	ReorderThreshold int    // 补货阈值(0表示使用默认值)
	UnitCost         int64  // 单价(分)
	Remark           string // 备注
}

// CreateItemResponse 新建物资响应DTO
type CreateItemResponse struct {
	ID               uint   `json:"id"`
	Name             string `json:"name"`
	Specification    string `json:"specification"`
	Unit             string `json:"unit"`
	Quantity         int    `json:"quantity"`
	ReorderThreshold int    `json:"reorder_threshold"`
	UnitCost         int64  `json:"unit_cost"`
	Status           string `json:"status"`
	CreatedAt        string `json:"created_at"`
}

// Execute 执行新建物资
func (uc *CreateItemUseCase) Execute(ctx context.Context, req CreateItemRequest) (*CreateItemResponse, error) {
	item, err := uc.itemService.CreateItem(ctx, req.Name, req.Specification, req.Unit,
		req.Quantity, req.ReorderThreshold, req.UnitCost, req.Remark)
	if err != nil {
		return nil, err
	}

	return &CreateItemResponse{
		ID:               item.ID,
		Name:             item.Name,
		Specification:    item.Specification,
		Unit:             item.Unit,
		Quantity:         item.Quantity,
		ReorderThreshold: item.ReorderThreshold,
		UnitCost:         item.UnitCost,
		Status:           string(item.Status),
		CreatedAt:        item.CreatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}
