package replacement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hairun/fleetops/internal/domain/inventory"
	"github.com/hairun/fleetops/internal/domain/ledger"
	"github.com/hairun/fleetops/internal/domain/replacement"
	"github.com/hairun/fleetops/internal/domain/vessel"
	"github.com/hairun/fleetops/internal/domain/warehouse"
	"github.com/hairun/fleetops/pkg/circuitbreaker"
	"github.com/hairun/fleetops/pkg/metrics"
	"github.com/hairun/fleetops/pkg/saga"
)

// Transactor 本地事务接口(消费方定义,mysql.TxManager实现)
// 更换单创建和库存扣减在同一数据库,用本地事务保证原子性
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher 事件发布接口(尽力而为语义)
type EventPublisher interface {
	Publish(routingKey string, message interface{}) error
}

// ReplacedEvent 设备更换完成事件
type ReplacedEvent struct {
	ReplacementID uint   `json:"replacement_id"`
	VesselID      uint   `json:"vessel_id"`
	EquipmentName string `json:"equipment_name"`
	Source        string `json:"source"`
	TotalCost     int64  `json:"total_cost"`
}

// ReplaceUseCase 设备更换用例
// 教学要点:混合一致性策略
// 1. 更换单+库存扣减:同库写入,本地事务保证原子
// 2. 费用记录:外部财务模块,Saga补偿保证最终一致
// 3. 旧件入库暂存:尽力而为的旁路写入,熔断器保护,失败只上报不重试
type ReplaceUseCase struct {
	replacementRepo replacement.Repository
	itemRepo        inventory.Repository
	warehouseRepo   warehouse.Repository
	holdingSink     warehouse.Sink
	vesselRepo      vessel.Repository
	ledgerGw        ledger.Gateway
	tx              Transactor
	holdingBreaker  *circuitbreaker.CircuitBreaker
	publisher       EventPublisher
	logger          *zap.Logger
}

// NewReplaceUseCase 创建更换用例
func NewReplaceUseCase(
	replacementRepo replacement.Repository,
	itemRepo inventory.Repository,
	warehouseRepo warehouse.Repository,
	holdingSink warehouse.Sink,
	vesselRepo vessel.Repository,
	ledgerGw ledger.Gateway,
	tx Transactor,
	holdingBreaker *circuitbreaker.CircuitBreaker,
	publisher EventPublisher,
	logger *zap.Logger,
) *ReplaceUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReplaceUseCase{
		replacementRepo: replacementRepo,
		itemRepo:        itemRepo,
		warehouseRepo:   warehouseRepo,
		holdingSink:     holdingSink,
		vesselRepo:      vesselRepo,
		ledgerGw:        ledgerGw,
		tx:              tx,
		holdingBreaker:  holdingBreaker,
		publisher:       publisher,
		logger:          logger,
	}
}

// ReplaceRequest 更换请求DTO
type ReplaceRequest struct {
	VesselID        uint      // 船舶ID
	EquipmentName   string    // 旧设备名称
	FailureReason   string    // 故障原因
	FailedAt        time.Time // 故障日期,零值时使用当前时间
	Source          string    // 新设备来源(inventory/purchase/repair)
	ItemID          uint      // 库存物资ID(来源为inventory时必填)
	ReplacementCost int64     // 更换费用(分)
	LaborCost       int64     // 人工费用(分)
	Disposition     string    // 旧设备去向
	WarehouseID     uint      // 暂存仓库ID(去向为sent_to_warehouse时必填)
	OperatorID      uint      // 操作人ID
	Remark          string    // 备注
}

// ReplaceResponse 更换响应DTO
type ReplaceResponse struct {
	ReplacementID uint   `json:"replacement_id"`
	VesselID      uint   `json:"vessel_id"`
	EquipmentName string `json:"equipment_name"`
	Source        string `json:"source"`
	Disposition   string `json:"disposition"`
	Status        string `json:"status"`
	TotalCost     int64  `json:"total_cost"`
	CostEntryID   uint   `json:"cost_entry_id"`
	HoldingWrote  bool   `json:"holding_wrote"` // 暂存记录是否写入成功(尽力而为)
}

// Execute 执行更换用例
//
// 流程:
//  1. 校验(名称、原因、来源/去向与子引用的配套关系),失败时无任何写入
//  2. 本地事务:创建更换单(confirmed状态)+ 来源为inventory时扣减1个单位库存
//     补偿:删除更换单+恢复库存
//  3. 创建费用记录(金额=更换费用+人工费用)并回写关联;补偿:删除费用记录
//  4. 去向为sent_to_warehouse时尽力写入暂存记录(估值=总费用10%)
//     此步失败不影响更换结果,只记日志和指标
func (uc *ReplaceUseCase) Execute(ctx context.Context, req ReplaceRequest) (*ReplaceResponse, error) {
	failedAt := req.FailedAt
	if failedAt.IsZero() {
		failedAt = time.Now()
	}

	// 1. 构造实体并校验(任何写入前)
	r := replacement.NewReplacement(
		req.VesselID, req.EquipmentName, req.FailureReason, failedAt,
		replacement.Source(req.Source), req.ItemID,
		req.ReplacementCost, req.LaborCost,
		replacement.Disposition(req.Disposition), req.WarehouseID,
		req.OperatorID, req.Remark,
	)
	if err := r.Validate(); err != nil {
		return nil, err
	}

	// 2. 解析引用:船舶必须存在;来源/去向的子引用必须可解析
	vsl, err := uc.vesselRepo.FindByID(ctx, req.VesselID)
	if err != nil {
		return nil, err
	}
	if r.ConsumesStock() {
		if _, err := uc.itemRepo.FindByID(ctx, req.ItemID); err != nil {
			return nil, err
		}
	}
	if r.SendsToWarehouse() {
		if _, err := uc.warehouseRepo.FindByID(ctx, req.WarehouseID); err != nil {
			return nil, err
		}
	}

	var entryID uint
	var stockBefore int

	// 3. Saga编排:本地事务步骤 + 费用记录步骤
	s := saga.NewSaga(30 * time.Second)
	s.OnCompensateError(func(step string, err error) {
		metrics.IncCounterVec(metrics.CompensationFailuresTotal, map[string]string{
			"operation": "replace", "step": step,
		})
		uc.logger.Error("更换补偿失败，需人工核对",
			zap.String("step", step),
			zap.Uint("vessel_id", req.VesselID),
			zap.Error(err))
	})

	// 步骤1:创建更换单,来源为库存时同事务扣减1个单位
	s.AddStep("创建更换单",
		func(ctx context.Context) error {
			return uc.tx.Transaction(ctx, func(txCtx context.Context) error {
				if r.ConsumesStock() {
					// 行锁读出扣减前库存,事务内流水的前值才准确
					locked, err := uc.itemRepo.LockByID(txCtx, req.ItemID)
					if err != nil {
						return err
					}
					stockBefore = locked.Quantity

					// 更换消耗恰好1个单位,与归还路径恢复1个单位严格对称
					// 先扣库存:不足时在更换单落库前失败
					if err := uc.itemRepo.UpdateStock(txCtx, req.ItemID, -1); err != nil {
						if err == inventory.ErrInsufficientStock {
							metrics.IncCounter(metrics.InsufficientStockTotal)
						}
						return err
					}
				}
				if err := uc.replacementRepo.Create(txCtx, r); err != nil {
					return err
				}
				if !r.ConsumesStock() {
					return nil
				}
				m := inventory.NewMovement(req.ItemID, inventory.ChangeTypeReplace, -1,
					stockBefore, "replacement", r.ID, req.OperatorID, req.EquipmentName)
				return uc.itemRepo.AppendMovement(txCtx, m)
			})
		},
		func(ctx context.Context) error {
			return uc.tx.Transaction(ctx, func(txCtx context.Context) error {
				if r.ConsumesStock() {
					if err := uc.itemRepo.UpdateStock(txCtx, req.ItemID, 1); err != nil {
						return err
					}
					m := inventory.NewMovement(req.ItemID, inventory.ChangeTypeReturn, 1,
						stockBefore-1, "replacement", r.ID, req.OperatorID, "更换补偿")
					if err := uc.itemRepo.AppendMovement(txCtx, m); err != nil {
						return err
					}
				}
				return uc.replacementRepo.Delete(txCtx, r.ID)
			})
		},
	)

	// 步骤2:创建费用记录并回写关联
	s.AddStep("创建费用记录",
		func(ctx context.Context) error {
			entry := ledger.NewCostEntry(
				r.TotalCost(),
				failedAt,
				ledger.CategoryEquipmentReplacement,
				fmt.Sprintf("%s更换%s（%s）", vsl.Name, req.EquipmentName, req.FailureReason),
				"",
			)
			id, err := uc.ledgerGw.CreateEntry(ctx, entry)
			if err != nil {
				return err
			}
			entryID = id
			r.LinkCostEntry(entryID)
			return uc.replacementRepo.Update(ctx, r)
		},
		func(ctx context.Context) error {
			return uc.ledgerGw.DeleteEntry(ctx, entryID)
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

	metrics.IncCounter(metrics.ReplacementsTotal)

	// 4. 旧件入库暂存(尽力而为,熔断器保护)
	holdingWrote := uc.recordHolding(ctx, r, vsl.Name)

	// 5. 发布更换事件(尽力而为)
	if uc.publisher != nil {
		event := ReplacedEvent{
			ReplacementID: r.ID,
			VesselID:      r.VesselID,
			EquipmentName: r.EquipmentName,
			Source:        string(r.Source),
			TotalCost:     r.TotalCost(),
		}
		if err := uc.publisher.Publish("equipment.replaced", event); err != nil {
			uc.logger.Warn("更换事件发布失败", zap.Uint("replacement_id", r.ID), zap.Error(err))
		}
	}

	return &ReplaceResponse{
		ReplacementID: r.ID,
		VesselID:      r.VesselID,
		EquipmentName: r.EquipmentName,
		Source:        string(r.Source),
		Disposition:   string(r.Disposition),
		Status:        string(r.Status),
		TotalCost:     r.TotalCost(),
		CostEntryID:   entryID,
		HoldingWrote:  holdingWrote,
	}, nil
}

// recordHolding 尽力写入旧件暂存记录
// 失败只记日志和指标,不影响更换操作的结果;
// 暂存库连续故障时熔断器打开,快速失败避免拖慢更换主流程
func (uc *ReplaceUseCase) recordHolding(ctx context.Context, r *replacement.Replacement, vesselName string) bool {
	if !r.SendsToWarehouse() {
		return false
	}

	holding := warehouse.NewHolding(
		r.WarehouseID,
		r.EquipmentName,
		r.HoldingEstimatedValue(),
		fmt.Sprintf("来自%s的更换旧件，故障原因：%s", vesselName, r.FailureReason),
		"replacement",
		r.ID,
	)

	write := func() error {
		return uc.holdingSink.RecordHolding(ctx, holding)
	}

	var err error
	if uc.holdingBreaker != nil {
		err = uc.holdingBreaker.Execute(write)
	} else {
		err = write()
	}
	if err != nil {
		metrics.IncCounter(metrics.HoldingWriteFailuresTotal)
		uc.logger.Error("旧件暂存记录写入失败（不影响更换结果）",
			zap.Uint("replacement_id", r.ID),
			zap.Uint("warehouse_id", r.WarehouseID),
			zap.Error(err))
		return false
	}
	return true
}
