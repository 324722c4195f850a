// Package saga 实现通用的Saga补偿事务框架
//
// 核心思想：
// 1. 将跨表/跨服务的长操作拆分为多个本地短步骤
// 2. 每个步骤有对应的补偿操作
// 3. 如果某步失败，按逆序执行已完成步骤的补偿操作
//
// 本项目的典型场景：物资领用 = 扣减库存 + 创建费用记录 + 创建领用单。
// 费用台账属于独立的财务模块，无法纳入同一数据库事务，
// 因此用Saga保证"要么全部生效、要么全部补偿还原"。
package saga

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.opentelemetry.io/otel/codes"

	"github.com/hairun/fleetops/pkg/metrics"
	"github.com/hairun/fleetops/pkg/tracing"
)

// Step 表示Saga中的一个步骤
//
// 设计要点：
// 1. Action是正向操作（如扣减库存、创建费用记录）
// 2. Compensate是补偿操作（如恢复库存、删除费用记录）
// 3. 每个操作都必须支持幂等（允许重试）
type Step struct {
	Name       string                          // 步骤名称（用于日志和调试）
	Action     func(ctx context.Context) error // 正向操作
	Compensate func(ctx context.Context) error // 补偿操作
}

// Saga 表示一个Saga事务
type Saga struct {
	steps    []Step        // 所有步骤
	executed []Step        // 已执行的步骤（用于补偿）
	timeout  time.Duration // 整体超时时间

	// onCompensateError 补偿失败回调（记录日志、计数告警）
	// 补偿失败不会中断后续补偿，但必须可追踪
	onCompensateError func(step string, err error)
}

// NewSaga 创建一个新的Saga事务
//
// 示例：
//
//	saga := NewSaga(30 * time.Second)
//	saga.AddStep("扣减库存", deductStock, restoreStock)
//	saga.AddStep("创建费用记录", createCostEntry, deleteCostEntry)
//	err := saga.Execute(ctx)
func NewSaga(timeout time.Duration) *Saga {
	return &Saga{
		steps:   make([]Step, 0),
		timeout: timeout,
	}
}

// AddStep 添加一个Saga步骤
//
// 设计原则：
// 1. 步骤顺序很重要（按添加顺序执行，按逆序补偿）
// 2. Action和Compensate都可以为nil（如最后一步通常无需补偿）
// 3. 补偿操作必须完全独立，不依赖后续步骤的结果
func (s *Saga) AddStep(name string, action, compensate func(ctx context.Context) error) {
	s.steps = append(s.steps, Step{
		Name:       name,
		Action:     action,
		Compensate: compensate,
	})
}

// OnCompensateError 注册补偿失败回调
// 未注册时默认写标准日志
func (s *Saga) OnCompensateError(fn func(step string, err error)) {
	s.onCompensateError = fn
}

// Execute 执行Saga事务
//
// 执行流程：
// 1. 按顺序执行每个步骤的Action
// 2. 如果某步失败，按逆序执行已完成步骤的Compensate
// 3. 返回首个失败步骤的错误
//
// 幂等性要求：Action和Compensate都必须支持幂等（网络故障可能导致重试）。
// 注意：补偿操作可能失败（通过OnCompensateError回调上报，需人工介入），
// Saga保证的是最终一致性，而非强一致性。
func (s *Saga) Execute(ctx context.Context) error {
	start := time.Now()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	for i, step := range s.steps {
		select {
		case <-ctx.Done():
			// 超时，触发补偿（使用新Context，避免补偿也超时）
			s.compensate(context.Background())
			s.report("failure", start)
			return fmt.Errorf("saga超时: %w", ctx.Err())
		default:
		}

		if step.Action != nil {
			// 每个步骤一个子Span:部分失败时链路上能直接看到卡在哪一步
			stepCtx, span := tracing.StartSpan(ctx, "saga", step.Name)
			err := step.Action(stepCtx)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				span.End()
				s.compensate(context.Background())
				s.report("failure", start)
				return fmt.Errorf("步骤[%d:%s]执行失败: %w", i, step.Name, err)
			}
			span.End()
		}

		s.executed = append(s.executed, step)
	}

	s.report("success", start)
	return nil
}

// report 上报执行结果和耗时指标
func (s *Saga) report(result string, start time.Time) {
	metrics.IncCounterVec(metrics.SagaExecutionsTotal, map[string]string{"result": result})
	metrics.ObserveHistogram(metrics.SagaExecutionDuration, time.Since(start).Seconds())
}

// compensate 执行补偿流程
//
// 补偿原则：
// 1. 按逆序执行已完成步骤的Compensate（后执行的步骤可能依赖先执行的步骤）
// 2. 即使某个Compensate失败，也继续执行后续补偿（尽最大努力）
// 3. 补偿失败通过回调上报
func (s *Saga) compensate(ctx context.Context) {
	for i := len(s.executed) - 1; i >= 0; i-- {
		step := s.executed[i]

		if step.Compensate != nil {
			if err := step.Compensate(ctx); err != nil {
				if s.onCompensateError != nil {
					s.onCompensateError(step.Name, err)
				} else {
					log.Printf("saga补偿失败[步骤:%s]: %v", step.Name, err)
				}
			}
		}
	}

	s.executed = nil
}
