package saga

import (
	"context"
	"errors"
	"testing"
	"time"
)

// TestSaga_Execute_Success 测试所有步骤成功的场景
func TestSaga_Execute_Success(t *testing.T) {
	executed := make([]string, 0)

	saga := NewSaga(5 * time.Second)

	saga.AddStep("扣减库存",
		func(ctx context.Context) error {
			executed = append(executed, "扣减库存")
			return nil
		},
		func(ctx context.Context) error {
			executed = append(executed, "恢复库存")
			return nil
		},
	)

	saga.AddStep("创建费用记录",
		func(ctx context.Context) error {
			executed = append(executed, "创建费用记录")
			return nil
		},
		func(ctx context.Context) error {
			executed = append(executed, "删除费用记录")
			return nil
		},
	)

	err := saga.Execute(context.Background())
	if err != nil {
		t.Fatalf("Saga执行失败: %v", err)
	}

	if len(executed) != 2 {
		t.Errorf("期望执行2个步骤，实际执行%d个", len(executed))
	}

	if executed[0] != "扣减库存" || executed[1] != "创建费用记录" {
		t.Errorf("执行顺序错误: %v", executed)
	}
}

// TestSaga_Execute_FailureAndCompensate 测试步骤失败触发补偿
func TestSaga_Execute_FailureAndCompensate(t *testing.T) {
	executed := make([]string, 0)

	saga := NewSaga(5 * time.Second)

	saga.AddStep("扣减库存",
		func(ctx context.Context) error {
			executed = append(executed, "扣减库存")
			return nil
		},
		func(ctx context.Context) error {
			executed = append(executed, "恢复库存")
			return nil
		},
	)

	saga.AddStep("创建费用记录",
		func(ctx context.Context) error {
			executed = append(executed, "创建费用记录")
			return nil
		},
		func(ctx context.Context) error {
			executed = append(executed, "删除费用记录")
			return nil
		},
	)

	saga.AddStep("创建领用单",
		func(ctx context.Context) error {
			executed = append(executed, "创建领用单")
			return errors.New("数据库写入失败")
		},
		nil,
	)

	err := saga.Execute(context.Background())
	if err == nil {
		t.Fatal("Saga应该失败但返回成功")
	}

	// 正向3步 + 补偿2步（逆序）
	expected := []string{"扣减库存", "创建费用记录", "创建领用单", "删除费用记录", "恢复库存"}

	if len(executed) != len(expected) {
		t.Fatalf("期望执行%d个步骤，实际执行%d个: %v", len(expected), len(executed), executed)
	}

	for i, step := range expected {
		if executed[i] != step {
			t.Errorf("步骤%d期望'%s'，实际'%s'", i, step, executed[i])
		}
	}
}

// TestSaga_Execute_Timeout 测试超时触发补偿
func TestSaga_Execute_Timeout(t *testing.T) {
	executed := make([]string, 0)

	saga := NewSaga(100 * time.Millisecond)

	saga.AddStep("快速步骤",
		func(ctx context.Context) error {
			executed = append(executed, "快速步骤")
			return nil
		},
		func(ctx context.Context) error {
			executed = append(executed, "快速步骤补偿")
			return nil
		},
	)

	saga.AddStep("慢速步骤",
		func(ctx context.Context) error {
			select {
			case <-time.After(200 * time.Millisecond):
				executed = append(executed, "慢速步骤")
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
		func(ctx context.Context) error {
			executed = append(executed, "慢速步骤补偿")
			return nil
		},
	)

	err := saga.Execute(context.Background())
	if err == nil {
		t.Fatal("Saga应该超时但返回成功")
	}

	if len(executed) < 2 {
		t.Errorf("超时后应该触发补偿，实际执行: %v", executed)
	}

	if executed[len(executed)-1] != "快速步骤补偿" {
		t.Errorf("期望最后一步是补偿，实际: %v", executed)
	}
}

// TestSaga_OnCompensateError 测试补偿失败回调
func TestSaga_OnCompensateError(t *testing.T) {
	var failedStep string

	saga := NewSaga(5 * time.Second)
	saga.OnCompensateError(func(step string, err error) {
		failedStep = step
	})

	saga.AddStep("扣减库存",
		func(ctx context.Context) error { return nil },
		func(ctx context.Context) error { return errors.New("恢复库存失败") },
	)
	saga.AddStep("创建费用记录",
		func(ctx context.Context) error { return errors.New("财务服务不可用") },
		nil,
	)

	err := saga.Execute(context.Background())
	if err == nil {
		t.Fatal("Saga应该失败但返回成功")
	}

	if failedStep != "扣减库存" {
		t.Errorf("期望补偿失败回调上报'扣减库存'，实际'%s'", failedStep)
	}
}

// BenchmarkSaga_Execute 性能基准测试
func BenchmarkSaga_Execute(b *testing.B) {
	saga := NewSaga(5 * time.Second)

	saga.AddStep("步骤1", func(ctx context.Context) error { return nil }, nil)
	saga.AddStep("步骤2", func(ctx context.Context) error { return nil }, nil)
	saga.AddStep("步骤3", func(ctx context.Context) error { return nil }, nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = saga.Execute(context.Background())
		saga.executed = nil
	}
}
