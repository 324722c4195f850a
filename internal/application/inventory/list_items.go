package inventory

import (
	"context"

	"github.com/hairun/fleetops/internal/domain/inventory"
)

// ListItemsUseCase 物资列表查询用例
type ListItemsUseCase struct {
	itemService inventory.Service
}

// NewListItemsUseCase 创建列表查询用例
func NewListItemsUseCase(itemService inventory.Service) *ListItemsUseCase {
	return &ListItemsUseCase{itemService: itemService}
}

// ListItemsRequest 列表查询请求DTO
type ListItemsRequest struct {
	Page     int    // 页码(从1开始,默认1)
	PageSize int    // 每页数量(默认20,最大100)
	Keyword  string // 搜索关键词
	Status   string // 按库存状态筛选
	SortBy   string // 排序字段
}

// ItemSummary 物资摘要
type ItemSummary struct {
	ID               uint   `json:"id"`
	Name             string `json:"name"`
	Specification    string `json:"specification"`
	Unit             string `json:"unit"`
	Quantity         int    `json:"quantity"`
	ReorderThreshold int    `json:"reorder_threshold"`
	UnitCost         int64  `json:"unit_cost"`
	Status           string `json:"status"`
}

// ListItemsResponse 列表查询响应DTO
type ListItemsResponse struct {
	Items []ItemSummary `json:"items"`
	Total int64         `json:"total"`
}

// Execute 执行列表查询
func (uc *ListItemsUseCase) Execute(ctx context.Context, req ListItemsRequest) (*ListItemsResponse, error) {
	// 分页参数兜底
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	items, total, err := uc.itemService.ListItems(ctx, inventory.ListParams{
		Page:     req.Page,
		PageSize: req.PageSize,
		Keyword:  req.Keyword,
		Status:   inventory.Status(req.Status),
		SortBy:   req.SortBy,
	})
	if err != nil {
		return nil, err
	}

	summaries := make([]ItemSummary, len(items))
	for i, item := range items {
		summaries[i] = ItemSummary{
			ID:               item.ID,
			Name:             item.Name,
			Specification:    item.Specification,
			Unit:             item.Unit,
			Quantity:         item.Quantity,
			ReorderThreshold: item.ReorderThreshold,
			UnitCost:         item.UnitCost,
			Status:           string(item.Status),
		}
	}

	return &ListItemsResponse{Items: summaries, Total: total}, nil
}
