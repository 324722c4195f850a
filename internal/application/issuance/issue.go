package issuance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hairun/fleetops/internal/domain/inventory"
	"github.com/hairun/fleetops/internal/domain/issuance"
	"github.com/hairun/fleetops/internal/domain/ledger"
	"github.com/hairun/fleetops/internal/domain/vessel"
	"github.com/hairun/fleetops/pkg/metrics"
	"github.com/hairun/fleetops/pkg/saga"
)

// EventPublisher 事件发布接口(消费方定义,pkg/mq.Publisher实现)
// 事件发布是尽力而为:失败只记日志,不影响业务结果
type EventPublisher interface {
	Publish(routingKey string, message interface{}) error
}

// Transactor 本地事务接口(消费方定义,mysql.TxManager实现)
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// IssuedEvent 物资领用完成事件
type IssuedEvent struct {
	IssuanceID uint   `json:"issuance_id"`
	ItemID     uint   `json:"item_id"`
	ItemName   string `json:"item_name"`
	VesselID   uint   `json:"vessel_id"`
	Quantity   int    `json:"quantity"`
	TotalCost  int64  `json:"total_cost"`
	IssuedAt   string `json:"issued_at"`
}

// IssueUseCase 物资领用用例
// 教学要点:这是本项目最核心的用例之一
// 领用涉及三个聚合的写入:库存扣减、费用记录创建、领用单创建
// 费用台账是外部协作方(财务模块),不能纳入本地事务,
// 因此使用Saga编排:任一步失败,按逆序补偿已完成的步骤
type IssueUseCase struct {
	itemRepo     inventory.Repository
	issuanceRepo issuance.Repository
	vesselRepo   vessel.Repository
	ledgerGw     ledger.Gateway
	tx           Transactor
	publisher    EventPublisher
	logger       *zap.Logger
}

// NewIssueUseCase 创建领用用例
func NewIssueUseCase(
	itemRepo inventory.Repository,
	issuanceRepo issuance.Repository,
	vesselRepo vessel.Repository,
	ledgerGw ledger.Gateway,
	tx Transactor,
	publisher EventPublisher,
	logger *zap.Logger,
) *IssueUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IssueUseCase{
		itemRepo:     itemRepo,
		issuanceRepo: issuanceRepo,
		vesselRepo:   vesselRepo,
		ledgerGw:     ledgerGw,
		tx:           tx,
		publisher:    publisher,
		logger:       logger,
	}
}

// IssueRequest 领用请求DTO
type IssueRequest struct {
	ItemID     uint      // 物资ID
	VesselID   uint      // 领用船舶ID
	Quantity   int       // 领用数量(>0)
	UnitCost   int64     // 单价(分),为0时使用物资当前单价
	IssuedAt   time.Time // 领用日期,零值时使用当前时间
	OperatorID uint      // 操作人ID(从JWT中提取)
	Remark     string    // 用途说明
}

// IssueResponse 领用响应DTO
type IssueResponse struct {
	IssuanceID  uint   `json:"issuance_id"`
	ItemID      uint   `json:"item_id"`
	ItemName    string `json:"item_name"`
	VesselID    uint   `json:"vessel_id"`
	Quantity    int    `json:"quantity"`
	UnitCost    int64  `json:"unit_cost"`
	TotalCost   int64  `json:"total_cost"`
	CostEntryID uint   `json:"cost_entry_id"`
	StockAfter  int    `json:"stock_after"`
	StockStatus string `json:"stock_status"`
	IssuedAt    string `json:"issued_at"`
}

// Execute 执行领用用例
//
// 核心流程(Saga编排):
//  1. 扣减库存(补偿:恢复库存)
//     扣减是单条条件UPDATE,库存不足时整个操作在任何写入前失败
//  2. 创建费用记录(补偿:删除费用记录)
//     金额 = 数量 × 单价,类别为物资领用
//  3. 创建领用单,关联费用记录ID
//
// 成功保证:库存恰好减少quantity,恰好新增一条费用记录和一条领用单,二者互相关联
func (uc *IssueUseCase) Execute(ctx context.Context, req IssueRequest) (*IssueResponse, error) {
	// 1. 参数校验(任何写入前)
	if req.Quantity <= 0 {
		return nil, issuance.ErrInvalidQuantity
	}
	if req.UnitCost < 0 {
		return nil, issuance.ErrInvalidUnitCost
	}

	// 2. 解析引用:物资、船舶必须存在
	item, err := uc.itemRepo.FindByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	vsl, err := uc.vesselRepo.FindByID(ctx, req.VesselID)
	if err != nil {
		return nil, err
	}

	unitCost := req.UnitCost
	if unitCost == 0 {
		unitCost = item.UnitCost // 领用时单价快照
	}
	issuedAt := req.IssuedAt
	if issuedAt.IsZero() {
		issuedAt = time.Now()
	}

	stockBefore := item.Quantity
	totalCost := unitCost * int64(req.Quantity)

	var entryID uint
	var record *issuance.Record

	// 3. Saga编排三步写入
	s := saga.NewSaga(30 * time.Second)
	s.OnCompensateError(func(step string, err error) {
		metrics.IncCounterVec(metrics.CompensationFailuresTotal, map[string]string{
			"operation": "issue", "step": step,
		})
		uc.logger.Error("领用补偿失败，需人工核对",
			zap.String("step", step),
			zap.Uint("item_id", req.ItemID),
			zap.Error(err))
	})

	// 步骤1:扣减库存
	// UpdateStock是原子条件更新:库存不足返回ErrInsufficientStock,不产生任何变更。
	// 扣减和流水写入在同一本地事务:流水失败时扣减一并回滚,
	// 不会留下库存已减少但无任何单据可追溯的状态
	s.AddStep("扣减库存",
		func(ctx context.Context) error {
			return uc.tx.Transaction(ctx, func(txCtx context.Context) error {
				if err := uc.itemRepo.UpdateStock(txCtx, req.ItemID, -req.Quantity); err != nil {
					if err == inventory.ErrInsufficientStock {
						metrics.IncCounter(metrics.InsufficientStockTotal)
					}
					return err
				}
				m := inventory.NewMovement(req.ItemID, inventory.ChangeTypeIssue, -req.Quantity,
					stockBefore, "issuance", 0, req.OperatorID, req.Remark)
				return uc.itemRepo.AppendMovement(txCtx, m)
			})
		},
		func(ctx context.Context) error {
			return uc.tx.Transaction(ctx, func(txCtx context.Context) error {
				if err := uc.itemRepo.UpdateStock(txCtx, req.ItemID, req.Quantity); err != nil {
					return err
				}
				m := inventory.NewMovement(req.ItemID, inventory.ChangeTypeReverse, req.Quantity,
					stockBefore-req.Quantity, "issuance", 0, req.OperatorID, "领用补偿")
				return uc.itemRepo.AppendMovement(txCtx, m)
			})
		},
	)

	// 步骤2:创建费用记录
	s.AddStep("创建费用记录",
		func(ctx context.Context) error {
			entry := ledger.NewCostEntry(
				totalCost,
				issuedAt,
				ledger.CategoryInventoryUsage,
				fmt.Sprintf("%s领用%s×%d", vsl.Name, item.Name, req.Quantity),
				"",
			)
			id, err := uc.ledgerGw.CreateEntry(ctx, entry)
			if err != nil {
				return err
			}
			entryID = id
			return nil
		},
		func(ctx context.Context) error {
			return uc.ledgerGw.DeleteEntry(ctx, entryID)
		},
	)

	// 步骤3:创建领用单
	s.AddStep("创建领用单",
		func(ctx context.Context) error {
			record = issuance.NewRecord(req.ItemID, req.VesselID, req.Quantity, unitCost,
				req.OperatorID, issuedAt, req.Remark)
			record.LinkCostEntry(entryID)
			return uc.issuanceRepo.Create(ctx, record)
		},
		func(ctx context.Context) error {
			return uc.issuanceRepo.Delete(ctx, record.ID)
		},
	)

	if err := s.Execute(ctx); err != nil {
		// 库存不足是业务拒绝而非编排故障:剥掉Saga的步骤包装,
		// 调用方按哨兵错误精确判别
		if errors.Is(err, inventory.ErrInsufficientStock) {
			return nil, inventory.ErrInsufficientStock
		}
		return nil, err
	}

	metrics.IncCounter(metrics.IssuancesTotal)

	// 4. 发布领用事件(尽力而为)
	uc.publishIssued(record, item.Name)

	// 5. 读取扣减后的库存状态,跌破阈值时发布低库存告警
	updated, err := uc.itemRepo.FindByID(ctx, req.ItemID)
	if err != nil {
		// 领用已成功,查询失败只影响响应里的库存快照
		uc.logger.Warn("领用成功但回查库存失败", zap.Uint("item_id", req.ItemID), zap.Error(err))
		updated = item
		updated.Quantity = stockBefore - req.Quantity
		updated.Status = inventory.RecomputeStatus(updated.Quantity, updated.ReorderThreshold)
	}
	if updated.IsLowStock() && uc.publisher != nil {
		if err := uc.publisher.Publish("inventory.low_stock", map[string]interface{}{
			"item_id":   updated.ID,
			"item_name": updated.Name,
			"quantity":  updated.Quantity,
			"threshold": updated.ReorderThreshold,
			"status":    string(updated.Status),
		}); err != nil {
			uc.logger.Warn("低库存告警事件发布失败", zap.Uint("item_id", updated.ID), zap.Error(err))
		}
	}

	return &IssueResponse{
		IssuanceID:  record.ID,
		ItemID:      req.ItemID,
		ItemName:    item.Name,
		VesselID:    req.VesselID,
		Quantity:    req.Quantity,
		UnitCost:    unitCost,
		TotalCost:   totalCost,
		CostEntryID: entryID,
		StockAfter:  updated.Quantity,
		StockStatus: string(updated.Status),
		IssuedAt:    issuedAt.Format("2006-01-02"),
	}, nil
}

// publishIssued 发布领用事件
func (uc *IssueUseCase) publishIssued(record *issuance.Record, itemName string) {
	if uc.publisher == nil {
		return
	}
	event := IssuedEvent{
		IssuanceID: record.ID,
		ItemID:     record.ItemID,
		ItemName:   itemName,
		VesselID:   record.VesselID,
		Quantity:   record.Quantity,
		TotalCost:  record.TotalCost,
		IssuedAt:   record.IssuedAt.Format("2006-01-02"),
	}
	if err := uc.publisher.Publish("inventory.issued", event); err != nil {
		uc.logger.Warn("领用事件发布失败", zap.Uint("issuance_id", record.ID), zap.Error(err))
	}
}
