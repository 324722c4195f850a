package mysql

import (
	"context"

	"gorm.io/gorm"
)

// TxManager 事务管理器
// 设计说明:
// 1. 封装GORM的Transaction方法
// 2. 通过context传递事务DB(避免全局变量)
// 3. 支持嵌套事务(GORM自动使用Savepoint)
type TxManager struct {
	db *gorm.DB
}

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction 执行事务
// fn函数内的所有Repository操作都在同一事务中执行:
// fn返回error时自动ROLLBACK,返回nil时自动COMMIT
//
// 使用示例(设备更换落库):
//
//	err := txManager.Transaction(ctx, func(ctx context.Context) error {
//	    // 1. 扣减库存(条件UPDATE,不足则失败)
//	    if err := itemRepo.UpdateStock(ctx, itemID, -1); err != nil {
//	        return err // 自动回滚
//	    }
//	    // 2. 创建更换单
//	    if err := replacementRepo.Create(ctx, rep); err != nil {
//	        return err
//	    }
//	    // 3. 写库存流水
//	    return itemRepo.AppendMovement(ctx, movement)
//	})
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 将事务DB注入到Context中
		// Repository的getDB方法会从context提取事务DB
		txCtx := context.WithValue(ctx, "tx", tx)
		return fn(txCtx)
	})
}
