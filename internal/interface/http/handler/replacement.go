package handler

import (
	"github.com/gin-gonic/gin"

	appreplacement "github.com/hairun/fleetops/internal/application/replacement"
	"github.com/hairun/fleetops/internal/interface/http/dto"
	"github.com/hairun/fleetops/internal/interface/http/middleware"
	"github.com/hairun/fleetops/pkg/response"
)

// ReplacementHandler 设备更换HTTP处理器
type ReplacementHandler struct {
	replaceUseCase *appreplacement.ReplaceUseCase
	returnUseCase  *appreplacement.ReturnUseCase
	listUseCase    *appreplacement.ListUseCase
}

// NewReplacementHandler 创建设备更换处理器
func NewReplacementHandler(
	replaceUseCase *appreplacement.ReplaceUseCase,
	returnUseCase *appreplacement.ReturnUseCase,
	listUseCase *appreplacement.ListUseCase,
) *ReplacementHandler {
	return &ReplacementHandler{
		replaceUseCase: replaceUseCase,
		returnUseCase:  returnUseCase,
		listUseCase:    listUseCase,
	}
}

// Replace 登记设备更换
// @Summary      登记设备更换
// @Description  创建更换单并生成费用记录;来源为库存时扣减1个单位;去向为入库暂存时尽力写入暂存记录
// @Tags         设备更换
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.ReplaceRequest true "更换信息"
// @Success      200 {object} response.Response{data=dto.ReplaceResponse}
// @Failure      400 {object} response.Response "参数错误或库存不足"
// @Failure      404 {object} response.Response "物资/仓库/船舶不存在"
// @Router       /api/v1/replacements [post]
func (h *ReplacementHandler) Replace(c *gin.Context) {
	var req dto.ReplaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	failedAt, err := parseDate(req.FailedAt)
	if err != nil {
		response.ErrorWithCode(c, 40900, "故障日期格式错误,应为YYYY-MM-DD")
		return
	}

	result, err := h.replaceUseCase.Execute(c.Request.Context(), appreplacement.ReplaceRequest{
		VesselID:        req.VesselID,
		EquipmentName:   req.EquipmentName,
		FailureReason:   req.FailureReason,
		FailedAt:        failedAt,
		Source:          req.Source,
		ItemID:          req.ItemID,
		ReplacementCost: req.ReplacementCost,
		LaborCost:       req.LaborCost,
		Disposition:     req.Disposition,
		WarehouseID:     req.WarehouseID,
		OperatorID:      middleware.MustGetUserID(c),
		Remark:          req.Remark,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.ReplaceResponse{
		ReplacementID: result.ReplacementID,
		VesselID:      result.VesselID,
		EquipmentName: result.EquipmentName,
		Source:        result.Source,
		Disposition:   result.Disposition,
		Status:        result.Status,
		TotalCost:     result.TotalCost,
		TotalCostYuan: dto.FormatYuan(result.TotalCost),
		CostEntryID:   result.CostEntryID,
		HoldingWrote:  result.HoldingWrote,
	})
}

// Return 更换归还
// @Summary      更换归还
// @Description  撤销更换补偿:来源为库存时恢复1个单位,删除费用记录,状态置为returned;已归还的更换单不允许重复归还
// @Tags         设备更换
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "更换单ID"
// @Param        request body dto.ReturnReplacementRequest true "归还原因"
// @Success      200 {object} response.Response{data=dto.ReturnReplacementResponse}
// @Failure      400 {object} response.Response "已归还或原因为空"
// @Failure      404 {object} response.Response "更换单不存在"
// @Failure      500 {object} response.Response "部分失败(50010)"
// @Router       /api/v1/replacements/{id}/return [post]
func (h *ReplacementHandler) Return(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.ErrorWithCode(c, 40900, "ID格式错误")
		return
	}

	var req dto.ReturnReplacementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.returnUseCase.Execute(c.Request.Context(), appreplacement.ReturnRequest{
		ReplacementID: id,
		Reason:        req.Reason,
		OperatorID:    middleware.MustGetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.ReturnReplacementResponse{
		ReplacementID: result.ReplacementID,
		Status:        result.Status,
		ReturnReason:  result.ReturnReason,
		StockRestored: result.StockRestored,
	})
}

// List 更换单列表
// @Summary      更换单列表
// @Tags         设备更换
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码"
// @Param        page_size query int false "每页数量"
// @Param        vessel_id query int false "按船舶筛选"
// @Param        status query string false "按状态筛选" Enums(confirmed, returned)
// @Param        keyword query string false "搜索关键词"
// @Success      200 {object} response.Response
// @Router       /api/v1/replacements [get]
func (h *ReplacementHandler) List(c *gin.Context) {
	var req dto.ListReplacementsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.listUseCase.Execute(c.Request.Context(), appreplacement.ListRequest{
		Page:     req.Page,
		PageSize: req.PageSize,
		VesselID: req.VesselID,
		Status:   req.Status,
		Keyword:  req.Keyword,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
