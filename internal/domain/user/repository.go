package user

import (
	"context"
)

// Repository 操作员仓储接口
// 接口定义在domain层（依赖倒置），实现在infrastructure/persistence/mysql
type Repository interface {
	// Create 创建操作员
	// 邮箱已存在时返回errors.ErrEmailDuplicate
	Create(ctx context.Context, user *User) error

	// FindByID 根据ID查找操作员
	// 不存在时返回errors.ErrUserNotFound
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByEmail 根据邮箱查找操作员
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Update 更新操作员信息
	Update(ctx context.Context, user *User) error

	// Delete 删除操作员（软删除）
	Delete(ctx context.Context, id uint) error
}
