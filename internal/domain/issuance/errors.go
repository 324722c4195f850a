package issuance

import (
	apperrors "github.com/hairun/fleetops/pkg/errors"
)

// 领用领域错误定义
var (
	// ErrRecordNotFound 领用记录不存在
	ErrRecordNotFound = apperrors.New(apperrors.ErrCodeIssuanceNotFound, "领用记录不存在")

	// ErrInvalidQuantity 无效的领用数量
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "领用数量必须大于0")

	// ErrInvalidUnitCost 无效的单价
	ErrInvalidUnitCost = apperrors.New(apperrors.ErrCodeInvalidParams, "单价不能为负数")
)
