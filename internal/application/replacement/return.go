package replacement

import (
	"context"

	"go.uber.org/zap"

	"github.com/hairun/fleetops/internal/domain/inventory"
	"github.com/hairun/fleetops/internal/domain/ledger"
	"github.com/hairun/fleetops/internal/domain/replacement"
	apperrors "github.com/hairun/fleetops/pkg/errors"
	"github.com/hairun/fleetops/pkg/metrics"
)

// ReturnedEvent 更换归还完成事件
type ReturnedEvent struct {
	ReplacementID uint   `json:"replacement_id"`
	VesselID      uint   `json:"vessel_id"`
	EquipmentName string `json:"equipment_name"`
	ReturnReason  string `json:"return_reason"`
}

// ReturnUseCase 更换归还用例(补偿操作)
// 设计说明:
// 新设备不合用时归还,精确抵消更换的库存和财务影响:
// 恢复1个单位库存、删除费用记录、更换单转入returned终态。
// 更换单永不删除:它是历史审计记录,归还后财务影响归零但轨迹保留。
type ReturnUseCase struct {
	replacementRepo replacement.Repository
	itemRepo        inventory.Repository
	ledgerGw        ledger.Gateway
	publisher       EventPublisher
	logger          *zap.Logger
}

// NewReturnUseCase 创建归还用例
func NewReturnUseCase(
	replacementRepo replacement.Repository,
	itemRepo inventory.Repository,
	ledgerGw ledger.Gateway,
	publisher EventPublisher,
	logger *zap.Logger,
) *ReturnUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReturnUseCase{
		replacementRepo: replacementRepo,
		itemRepo:        itemRepo,
		ledgerGw:        ledgerGw,
		publisher:       publisher,
		logger:          logger,
	}
}

// ReturnRequest 归还请求DTO
type ReturnRequest struct {
	ReplacementID uint   // 更换单ID
	Reason        string // 归还原因(必填)
	OperatorID    uint   // 操作人ID
}

// ReturnResponse 归还响应DTO
type ReturnResponse struct {
	ReplacementID uint   `json:"replacement_id"`
	Status        string `json:"status"`
	ReturnReason  string `json:"return_reason"`
	StockRestored bool   `json:"stock_restored"` // 是否恢复了库存(来源为inventory时)
}

// Execute 执行归还用例
//
// 步骤(顺序不可调换,与冲销同一套设计):
//  1. 读取更换单并校验状态(returned→InvalidState,原因为空→拒绝,任何写入前)
//  2. 来源为inventory时恢复1个单位库存
//  3. 删除费用记录(幂等)
//  4. 条件更新状态confirmed→returned(带WHERE条件防并发重复归还)
//
// 步骤3/4失败时返回PartialFailure:库存已恢复,剩余步骤幂等可重试
func (uc *ReturnUseCase) Execute(ctx context.Context, req ReturnRequest) (*ReturnResponse, error) {
	if req.Reason == "" {
		return nil, replacement.ErrReturnReasonRequired
	}

	// 1. 读取更换单,状态校验
	r, err := uc.replacementRepo.FindByID(ctx, req.ReplacementID)
	if err != nil {
		return nil, err
	}
	if !r.CanReturn() {
		return nil, replacement.ErrAlreadyReturned
	}

	// 2. 来源为库存时恢复1个单位(与确认路径的扣减严格对称)
	stockRestored := false
	if r.ConsumesStock() {
		item, err := uc.itemRepo.FindByID(ctx, r.ItemID)
		if err != nil {
			return nil, err
		}
		if err := uc.itemRepo.UpdateStock(ctx, r.ItemID, 1); err != nil {
			return nil, err
		}
		m := inventory.NewMovement(r.ItemID, inventory.ChangeTypeReturn, 1,
			item.Quantity, "replacement", r.ID, req.OperatorID, "更换归还")
		if err := uc.itemRepo.AppendMovement(ctx, m); err != nil {
			uc.logger.Error("归还流水写入失败", zap.Uint("replacement_id", r.ID), zap.Error(err))
		}
		stockRestored = true
	}

	// 3. 删除费用记录(幂等删除)
	if r.HasCostEntry() {
		if err := uc.ledgerGw.DeleteEntry(ctx, r.CostEntryID); err != nil {
			uc.logger.Error("归还部分完成:费用记录删除失败",
				zap.Uint("replacement_id", r.ID),
				zap.Uint("cost_entry_id", r.CostEntryID),
				zap.Error(err))
			return nil, apperrors.PartialFailure("删除费用记录", err)
		}
	}

	// 4. 状态转移confirmed→returned(条件更新,并发重复归还只有一个成功)
	if err := uc.replacementRepo.MarkReturned(ctx, r.ID, req.Reason); err != nil {
		if apperrors.GetAppError(err).Code == apperrors.ErrCodeInvalidState {
			// 并发场景:本次已恢复库存但别人先归还了,必须上报人工核对
			uc.logger.Error("并发归还冲突，库存可能多加1个单位",
				zap.Uint("replacement_id", r.ID))
			return nil, err
		}
		uc.logger.Error("归还部分完成:状态更新失败",
			zap.Uint("replacement_id", r.ID), zap.Error(err))
		return nil, apperrors.PartialFailure("更新更换单状态", err)
	}

	metrics.IncCounter(metrics.ReplacementReturnsTotal)

	// 5. 发布归还事件(尽力而为)
	if uc.publisher != nil {
		event := ReturnedEvent{
			ReplacementID: r.ID,
			VesselID:      r.VesselID,
			EquipmentName: r.EquipmentName,
			ReturnReason:  req.Reason,
		}
		if err := uc.publisher.Publish("equipment.replacement_returned", event); err != nil {
			uc.logger.Warn("归还事件发布失败", zap.Uint("replacement_id", r.ID), zap.Error(err))
		}
	}

	return &ReturnResponse{
		ReplacementID: r.ID,
		Status:        string(replacement.StatusReturned),
		ReturnReason:  req.Reason,
		StockRestored: stockRestored,
	}, nil
}
