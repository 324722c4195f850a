package inventory

import (
	"context"

	"github.com/hairun/fleetops/internal/domain/inventory"
)

// DeleteItemUseCase 物资删除用例
//
// 软删除:档案不再出现在列表和查询中,但历史领用/更换记录
// 仍然引用它的ID,流水不受影响
type DeleteItemUseCase struct {
	itemService inventory.Service
}

// NewDeleteItemUseCase 创建物资删除用例
func NewDeleteItemUseCase(itemService inventory.Service) *DeleteItemUseCase {
	return &DeleteItemUseCase{itemService: itemService}
}

// Execute 执行删除
func (uc *DeleteItemUseCase) Execute(ctx context.Context, id uint) error {
	return uc.itemService.DeleteItem(ctx, id)
}
