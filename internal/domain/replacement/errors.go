package replacement

import (
	apperrors "github.com/hairun/fleetops/pkg/errors"
)

// 设备更换领域错误定义
var (
	// ErrReplacementNotFound 更换单不存在
	ErrReplacementNotFound = apperrors.New(apperrors.ErrCodeReplacementNotFound, "设备更换记录不存在")

	// ErrEquipmentNameRequired 旧设备名称为空
	ErrEquipmentNameRequired = apperrors.New(apperrors.ErrCodeInvalidParams, "设备名称不能为空")

	// ErrFailureReasonRequired 故障原因为空
	ErrFailureReasonRequired = apperrors.New(apperrors.ErrCodeInvalidParams, "故障原因不能为空")

	// ErrInvalidSource 无效的新设备来源
	ErrInvalidSource = apperrors.New(apperrors.ErrCodeInvalidParams, "无效的设备来源")

	// ErrInvalidDisposition 无效的旧设备去向
	ErrInvalidDisposition = apperrors.New(apperrors.ErrCodeInvalidParams, "无效的旧设备去向")

	// ErrItemRequired 来源为库存时未指定物资
	ErrItemRequired = apperrors.New(apperrors.ErrCodeInvalidParams, "来源为库存领用时必须指定物资")

	// ErrItemNotAllowed 非库存来源不允许指定物资
	ErrItemNotAllowed = apperrors.New(apperrors.ErrCodeInvalidParams, "非库存来源不允许指定物资")

	// ErrWarehouseRequired 去向为入库暂存时未指定仓库
	ErrWarehouseRequired = apperrors.New(apperrors.ErrCodeInvalidParams, "旧设备入库暂存时必须指定仓库")

	// ErrWarehouseNotAllowed 非入库去向不允许指定仓库
	ErrWarehouseNotAllowed = apperrors.New(apperrors.ErrCodeInvalidParams, "非入库暂存去向不允许指定仓库")

	// ErrInvalidCost 无效的费用
	ErrInvalidCost = apperrors.New(apperrors.ErrCodeInvalidParams, "费用不能为负数")

	// ErrReturnReasonRequired 归还原因为空
	ErrReturnReasonRequired = apperrors.New(apperrors.ErrCodeInvalidParams, "归还原因不能为空")

	// ErrAlreadyReturned 更换单已归还
	ErrAlreadyReturned = apperrors.New(apperrors.ErrCodeInvalidState, "更换单已归还，不能重复操作")
)
