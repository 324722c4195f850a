package ledger

import (
	apperrors "github.com/hairun/fleetops/pkg/errors"
)

// 费用台账错误定义
var (
	// ErrEntryNotFound 费用记录不存在(仅FindEntry返回,DeleteEntry幂等不报)
	ErrEntryNotFound = apperrors.New(apperrors.ErrCodeNotFound, "费用记录不存在")

	// ErrInvalidAmount 无效的金额
	ErrInvalidAmount = apperrors.New(apperrors.ErrCodeInvalidParams, "费用金额不能为负数")
)
