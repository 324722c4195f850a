package issuance

import (
	"context"

	"github.com/hairun/fleetops/internal/domain/issuance"
)

// ListUseCase 领用记录列表用例
type ListUseCase struct {
	issuanceRepo issuance.Repository
}

// NewListUseCase 创建领用记录列表用例
func NewListUseCase(issuanceRepo issuance.Repository) *ListUseCase {
	return &ListUseCase{issuanceRepo: issuanceRepo}
}

// ListRequest 列表请求DTO
type ListRequest struct {
	Page     int
	PageSize int
	ItemID   uint // 0表示不筛选
	VesselID uint // 0表示不筛选
}

// RecordItem 领用记录列表项
type RecordItem struct {
	ID          uint   `json:"id"`
	ItemID      uint   `json:"item_id"`
	VesselID    uint   `json:"vessel_id"`
	Quantity    int    `json:"quantity"`
	UnitCost    int64  `json:"unit_cost"`
	TotalCost   int64  `json:"total_cost"`
	CostEntryID uint   `json:"cost_entry_id"`
	IssuedAt    string `json:"issued_at"`
	Remark      string `json:"remark"`
}

// ListResponse 列表响应DTO
type ListResponse struct {
	Records []RecordItem `json:"records"`
	Total   int64        `json:"total"`
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

	records, total, err := uc.issuanceRepo.List(ctx, issuance.ListParams{
		Page:     req.Page,
		PageSize: req.PageSize,
		ItemID:   req.ItemID,
		VesselID: req.VesselID,
	})
	if err != nil {
		return nil, err
	}

	items := make([]RecordItem, len(records))
	for i, r := range records {
		items[i] = RecordItem{
			ID:          r.ID,
			ItemID:      r.ItemID,
			VesselID:    r.VesselID,
			Quantity:    r.Quantity,
			UnitCost:    r.UnitCost,
			TotalCost:   r.TotalCost,
			CostEntryID: r.CostEntryID,
			IssuedAt:    r.IssuedAt.Format("2006-01-02"),
			Remark:      r.Remark,
		}
	}

	return &ListResponse{Records: items, Total: total}, nil
}
