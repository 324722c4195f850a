package warehouse

import (
	apperrors "github.com/hairun/fleetops/pkg/errors"
)

// 仓库领域错误定义
var (
	// ErrWarehouseNotFound 仓库不存在
	ErrWarehouseNotFound = apperrors.New(apperrors.ErrCodeWarehouseNotFound, "仓库不存在")
)
