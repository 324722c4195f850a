package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	appissuance "github.com/hairun/fleetops/internal/application/issuance"
	"github.com/hairun/fleetops/internal/interface/http/dto"
	"github.com/hairun/fleetops/internal/interface/http/middleware"
	"github.com/hairun/fleetops/pkg/response"
)

// IssuanceHandler 物资领用HTTP处理器
type IssuanceHandler struct {
	issueUseCase   *appissuance.IssueUseCase
	reverseUseCase *appissuance.ReverseUseCase
	listUseCase    *appissuance.ListUseCase
}

// NewIssuanceHandler 创建领用处理器
func NewIssuanceHandler(
	issueUseCase *appissuance.IssueUseCase,
	reverseUseCase *appissuance.ReverseUseCase,
	listUseCase *appissuance.ListUseCase,
) *IssuanceHandler {
	return &IssuanceHandler{
		issueUseCase:   issueUseCase,
		reverseUseCase: reverseUseCase,
		listUseCase:    listUseCase,
	}
}

// Issue 物资领用
// @Summary      物资领用
// @Description  扣减库存、生成费用记录并创建领用单,三者要么全部生效要么全部回滚
// @Tags         领用
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.IssueRequest true "领用信息"
// @Success      200 {object} response.Response{data=dto.IssueResponse}
// @Failure      400 {object} response.Response "参数错误或库存不足"
// @Failure      404 {object} response.Response "物资或船舶不存在"
// @Router       /api/v1/issuances [post]
func (h *IssuanceHandler) Issue(c *gin.Context) {
	var req dto.IssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	issuedAt, err := parseDate(req.IssuedAt)
	if err != nil {
		response.ErrorWithCode(c, 40900, "领用日期格式错误,应为YYYY-MM-DD")
		return
	}

	result, err := h.issueUseCase.Execute(c.Request.Context(), appissuance.IssueRequest{
		ItemID:     req.ItemID,
		VesselID:   req.VesselID,
		Quantity:   req.Quantity,
		UnitCost:   req.UnitCost,
		IssuedAt:   issuedAt,
		OperatorID: middleware.MustGetUserID(c),
		Remark:     req.Remark,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.IssueResponse{
		IssuanceID:    result.IssuanceID,
		ItemID:        result.ItemID,
		ItemName:      result.ItemName,
		VesselID:      result.VesselID,
		Quantity:      result.Quantity,
		UnitCost:      result.UnitCost,
		TotalCost:     result.TotalCost,
		TotalCostYuan: dto.FormatYuan(result.TotalCost),
		CostEntryID:   result.CostEntryID,
		StockAfter:    result.StockAfter,
		StockStatus:   result.StockStatus,
		IssuedAt:      result.IssuedAt,
	})
}

// Reverse 领用冲销
// @Summary      领用冲销
// @Description  恢复库存、删除费用记录并删除领用单;部分失败时返回50010,剩余步骤可安全重试
// @Tags         领用
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "领用单ID"
// @Success      200 {object} response.Response{data=dto.ReverseResponse}
// @Failure      404 {object} response.Response "领用单不存在"
// @Failure      500 {object} response.Response "部分失败(50010)"
// @Router       /api/v1/issuances/{id}/reverse [post]
func (h *IssuanceHandler) Reverse(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.ErrorWithCode(c, 40900, "ID格式错误")
		return
	}

	result, err := h.reverseUseCase.Execute(c.Request.Context(), appissuance.ReverseRequest{
		IssuanceID: id,
		OperatorID: middleware.MustGetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.ReverseResponse{
		ItemID:      result.ItemID,
		Quantity:    result.Quantity,
		StockAfter:  result.StockAfter,
		StockStatus: result.StockStatus,
	})
}

// List 领用记录列表
// @Summary      领用记录列表
// @Tags         领用
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码"
// @Param        page_size query int false "每页数量"
// @Param        item_id query int false "按物资筛选"
// @Param        vessel_id query int false "按船舶筛选"
// @Success      200 {object} response.Response
// @Router       /api/v1/issuances [get]
func (h *IssuanceHandler) List(c *gin.Context) {
	var req dto.ListIssuancesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.listUseCase.Execute(c.Request.Context(), appissuance.ListRequest{
		Page:     req.Page,
		PageSize: req.PageSize,
		ItemID:   req.ItemID,
		VesselID: req.VesselID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// parseDate 解析YYYY-MM-DD日期,空串返回零值
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation("2006-01-02", s, time.Local)
}
