package replacement

import (
	"context"

	"github.com/hairun/fleetops/internal/domain/replacement"
)

// ListUseCase 更换单列表用例
type ListUseCase struct {
	replacementRepo replacement.Repository
}

// NewListUseCase 创建更换单列表用例
func NewListUseCase(replacementRepo replacement.Repository) *ListUseCase {
	return &ListUseCase{replacementRepo: replacementRepo}
}

// ListRequest 列表请求DTO
type ListRequest struct {
	Page     int
	PageSize int
	VesselID uint   // 0表示不筛选
	Status   string // 空表示不筛选
	Keyword  string
}

// ReplacementItem 更换单列表项
type ReplacementItem struct {
	ID              uint   `json:"id"`
	VesselID        uint   `json:"vessel_id"`
	EquipmentName   string `json:"equipment_name"`
	FailureReason   string `json:"failure_reason"`
	FailedAt        string `json:"failed_at"`
	Source          string `json:"source"`
	ItemID          uint   `json:"item_id"`
	ReplacementCost int64  `json:"replacement_cost"`
	LaborCost       int64  `json:"labor_cost"`
	TotalCost       int64  `json:"total_cost"`
	Disposition     string `json:"disposition"`
	WarehouseID     uint   `json:"warehouse_id"`
	Status          string `json:"status"`
	ReturnReason    string `json:"return_reason,omitempty"`
	CostEntryID     uint   `json:"cost_entry_id"`
}

// ListResponse 列表响应DTO
type ListResponse struct {
	Replacements []ReplacementItem `json:"replacements"`
	Total        int64             `json:"total"`
}

// Execute 执行列表查询
func (uc *ListUseCase) Execute(ctx context.Context, req ListRequest) (*ListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	reps, total, err := uc.replacementRepo.List(ctx, replacement.ListParams{
		Page:     req.Page,
		PageSize: req.PageSize,
		VesselID: req.VesselID,
		Status:   replacement.Status(req.Status),
		Keyword:  req.Keyword,
	})
	if err != nil {
		return nil, err
	}

	items := make([]ReplacementItem, len(reps))
	for i, r := range reps {
		items[i] = ReplacementItem{
			ID:              r.ID,
			VesselID:        r.VesselID,
			EquipmentName:   r.EquipmentName,
			FailureReason:   r.FailureReason,
			FailedAt:        r.FailedAt.Format("2006-01-02"),
			Source:          string(r.Source),
			ItemID:          r.ItemID,
			ReplacementCost: r.ReplacementCost,
			LaborCost:       r.LaborCost,
			TotalCost:       r.TotalCost(),
			Disposition:     string(r.Disposition),
			WarehouseID:     r.WarehouseID,
			Status:          string(r.Status),
			ReturnReason:    r.ReturnReason,
			CostEntryID:     r.CostEntryID,
		}
	}

	return &ListResponse{Replacements: items, Total: total}, nil
}
