package inventory

import (
	"context"

	"github.com/hairun/fleetops/internal/domain/inventory"
)

// ListMovementsUseCase 库存流水查询用例
type ListMovementsUseCase struct {
	itemService inventory.Service
}

// NewListMovementsUseCase 创建库存流水查询用例
func NewListMovementsUseCase(itemService inventory.Service) *ListMovementsUseCase {
	return &ListMovementsUseCase{itemService: itemService}
}

// MovementItem 流水项
type MovementItem struct {
	ID          uint   `json:"id"`
	ChangeType  string `json:"change_type"`
	Delta       int    `json:"delta"`
	StockBefore int    `json:"stock_before"`
	StockAfter  int    `json:"stock_after"`
	RefType     string `json:"ref_type"`
	RefID       uint   `json:"ref_id"`
	OperatorID  uint   `json:"operator_id"`
	Remark      string `json:"remark"`
	CreatedAt   string `json:"created_at"`
}

// ListMovementsResponse 流水列表响应
type ListMovementsResponse struct {
	Movements []MovementItem `json:"movements"`
	Total     int64          `json:"total"`
}

// Execute 执行流水查询(按时间倒序)
func (uc *ListMovementsUseCase) Execute(ctx context.Context, itemID uint, page, pageSize int) (*ListMovementsResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	movements, total, err := uc.itemService.ListMovements(ctx, itemID, page, pageSize)
	if err != nil {
		return nil, err
	}

	items := make([]MovementItem, len(movements))
	for i, m := range movements {
		items[i] = MovementItem{
			ID:          m.ID,
			ChangeType:  string(m.ChangeType),
			Delta:       m.Delta,
			StockBefore: m.StockBefore,
			StockAfter:  m.StockAfter,
			RefType:     m.RefType,
			RefID:       m.RefID,
			OperatorID:  m.OperatorID,
			Remark:      m.Remark,
			CreatedAt:   m.CreatedAt.Format("2006-01-02 15:04:05"),
		}
	}

	return &ListMovementsResponse{Movements: items, Total: total}, nil
}
