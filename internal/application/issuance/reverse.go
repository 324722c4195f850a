package issuance

import (
	"context"

	"go.uber.org/zap"

	"github.com/hairun/fleetops/internal/domain/inventory"
	"github.com/hairun/fleetops/internal/domain/issuance"
	"github.com/hairun/fleetops/internal/domain/ledger"
	apperrors "github.com/hairun/fleetops/pkg/errors"
	"github.com/hairun/fleetops/pkg/metrics"
)

// ReversedEvent 领用冲销完成事件
type ReversedEvent struct {
	IssuanceID uint `json:"issuance_id"`
	ItemID     uint `json:"item_id"`
	VesselID   uint `json:"vessel_id"`
	Quantity   int  `json:"quantity"`
}

// ReverseUseCase 领用冲销用例
// 设计说明:
// 冲销是领用的精确逆操作:恢复库存、删除费用记录、删除领用单。
// 步骤顺序经过刻意设计:先恢复库存(最重要的不变量是实物库存准确),
// 后续两步都是幂等删除,失败后可安全重试而不会二次加库存,
// 失败时返回PartialFailure指明失败环节。
type ReverseUseCase struct {
	itemRepo     inventory.Repository
	issuanceRepo issuance.Repository
	ledgerGw     ledger.Gateway
	publisher    EventPublisher
	logger       *zap.Logger
}

// NewReverseUseCase 创建冲销用例
func NewReverseUseCase(
	itemRepo inventory.Repository,
	issuanceRepo issuance.Repository,
	ledgerGw ledger.Gateway,
	publisher EventPublisher,
	logger *zap.Logger,
) *ReverseUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReverseUseCase{
		itemRepo:     itemRepo,
		issuanceRepo: issuanceRepo,
		ledgerGw:     ledgerGw,
		publisher:    publisher,
		logger:       logger,
	}
}

// ReverseRequest 冲销请求DTO
type ReverseRequest struct {
	IssuanceID uint // 领用单ID
	OperatorID uint // 操作人ID
}

// ReverseResponse 冲销响应DTO
type ReverseResponse struct {
	ItemID      uint   `json:"item_id"`
	Quantity    int    `json:"quantity"`
	StockAfter  int    `json:"stock_after"`
	StockStatus string `json:"stock_status"`
}

// Execute 执行冲销用例
//
// 步骤(顺序不可调换):
//  1. 读取领用单(不存在→NotFound,任何写入前拒绝)
//  2. 恢复库存(+quantity,无条件成功,不做数量上限检查)
//  3. 删除费用记录(幂等:记录已不存在不报错)
//  4. 删除领用单(幂等)
//
// 步骤3/4失败时库存已恢复正确,返回PartialFailure,
// 操作员可直接重试剩余的删除步骤(均幂等),不会重复加库存。
func (uc *ReverseUseCase) Execute(ctx context.Context, req ReverseRequest) (*ReverseResponse, error) {
	// 1. 读取领用单
	record, err := uc.issuanceRepo.FindByID(ctx, req.IssuanceID)
	if err != nil {
		return nil, err
	}

	// 读取冲销前库存用于流水记录
	item, err := uc.itemRepo.FindByID(ctx, record.ItemID)
	if err != nil {
		return nil, err
	}

	// 2. 恢复库存(物理库存准确性优先恢复)
	if err := uc.itemRepo.UpdateStock(ctx, record.ItemID, record.Quantity); err != nil {
		return nil, err
	}
	m := inventory.NewMovement(record.ItemID, inventory.ChangeTypeReverse, record.Quantity,
		item.Quantity, "issuance", record.ID, req.OperatorID, "领用冲销")
	if err := uc.itemRepo.AppendMovement(ctx, m); err != nil {
		// 流水写入失败不阻断冲销,但必须记录
		uc.logger.Error("冲销流水写入失败", zap.Uint("issuance_id", record.ID), zap.Error(err))
	}

	// 3. 删除费用记录(幂等删除,重试安全)
	if record.HasCostEntry() {
		if err := uc.ledgerGw.DeleteEntry(ctx, record.CostEntryID); err != nil {
			uc.logger.Error("冲销部分完成:费用记录删除失败",
				zap.Uint("issuance_id", record.ID),
				zap.Uint("cost_entry_id", record.CostEntryID),
				zap.Error(err))
			return nil, apperrors.PartialFailure("删除费用记录", err)
		}
	}

	// 4. 删除领用单(幂等删除)
	if err := uc.issuanceRepo.Delete(ctx, record.ID); err != nil {
		uc.logger.Error("冲销部分完成:领用单删除失败",
			zap.Uint("issuance_id", record.ID), zap.Error(err))
		return nil, apperrors.PartialFailure("删除领用单", err)
	}

	metrics.IncCounter(metrics.IssuanceReversalsTotal)

	// 5. 发布冲销事件(尽力而为)
	if uc.publisher != nil {
		event := ReversedEvent{
			IssuanceID: record.ID,
			ItemID:     record.ItemID,
			VesselID:   record.VesselID,
			Quantity:   record.Quantity,
		}
		if err := uc.publisher.Publish("inventory.issuance_reversed", event); err != nil {
			uc.logger.Warn("冲销事件发布失败", zap.Uint("issuance_id", record.ID), zap.Error(err))
		}
	}

	// 6. 回查恢复后的库存状态:期间可能有其他并发变更,
	// 响应里的快照以恢复后的实际值为准
	updated, err := uc.itemRepo.FindByID(ctx, record.ItemID)
	if err != nil {
		// 冲销已成功,查询失败只影响响应里的库存快照
		uc.logger.Warn("冲销成功但回查库存失败", zap.Uint("item_id", record.ItemID), zap.Error(err))
		updated = item
		updated.Quantity = item.Quantity + record.Quantity
		updated.Status = inventory.RecomputeStatus(updated.Quantity, updated.ReorderThreshold)
	}

	return &ReverseResponse{
		ItemID:      record.ItemID,
		Quantity:    record.Quantity,
		StockAfter:  updated.Quantity,
		StockStatus: string(updated.Status),
	}, nil
}
