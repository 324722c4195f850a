package inventory

import (
	apperrors "github.com/hairun/fleetops/pkg/errors"
)

// 库存领域错误定义
var (
	// ErrItemNotFound 物资不存在
	ErrItemNotFound = apperrors.New(apperrors.ErrCodeItemNotFound, "物资不存在")

	// ErrNameDuplicate 物资名称已存在
	ErrNameDuplicate = apperrors.New(apperrors.ErrCodeNameDuplicate, "同名物资已存在")

	// ErrInsufficientStock 库存不足
	ErrInsufficientStock = apperrors.New(apperrors.ErrCodeInsufficientStock, "库存不足")

	// ErrInvalidQuantity 无效的数量
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "数量必须大于0")

	// ErrInvalidThreshold 无效的补货阈值
	ErrInvalidThreshold = apperrors.New(apperrors.ErrCodeInvalidParams, "补货阈值不能为负数")

	// ErrInvalidUnitCost 无效的单价
	ErrInvalidUnitCost = apperrors.New(apperrors.ErrCodeInvalidParams, "单价不能为负数")

	// ErrInvalidName 无效的物资名称
	ErrInvalidName = apperrors.New(apperrors.ErrCodeInvalidParams, "物资名称不能为空")
)
