package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appinventory "github.com/hairun/fleetops/internal/application/inventory"
	"github.com/hairun/fleetops/internal/interface/http/dto"
	"github.com/hairun/fleetops/internal/interface/http/middleware"
	"github.com/hairun/fleetops/pkg/response"
)

// ItemHandler 库存物资HTTP处理器
// 设计说明:
// 1. Handler只负责HTTP相关的事情:解析请求、调用应用层、返回响应
// 2. 不包含业务逻辑(业务逻辑在domain和application层)
type ItemHandler struct {
	createItemUseCase    *appinventory.CreateItemUseCase
	getItemUseCase       *appinventory.GetItemUseCase
	updateItemUseCase    *appinventory.UpdateItemUseCase
	listItemsUseCase     *appinventory.ListItemsUseCase
	restockUseCase       *appinventory.RestockUseCase
	listMovementsUseCase *appinventory.ListMovementsUseCase
	deleteItemUseCase    *appinventory.DeleteItemUseCase
}

// NewItemHandler 创建库存物资处理器
func NewItemHandler(
	createItemUseCase *appinventory.CreateItemUseCase,
	getItemUseCase *appinventory.GetItemUseCase,
	updateItemUseCase *appinventory.UpdateItemUseCase,
	listItemsUseCase *appinventory.ListItemsUseCase,
	restockUseCase *appinventory.RestockUseCase,
	listMovementsUseCase *appinventory.ListMovementsUseCase,
	deleteItemUseCase *appinventory.DeleteItemUseCase,
) *ItemHandler {
	return &ItemHandler{
		createItemUseCase:    createItemUseCase,
		getItemUseCase:       getItemUseCase,
		updateItemUseCase:    updateItemUseCase,
		listItemsUseCase:     listItemsUseCase,
		restockUseCase:       restockUseCase,
		listMovementsUseCase: listMovementsUseCase,
		deleteItemUseCase:    deleteItemUseCase,
	}
}

// CreateItem 新建物资
// @Summary      新建物资
// @Description  建档船用物资/备件,同名物资不允许重复
// @Tags         库存
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateItemRequest true "物资信息"
// @Success      200 {object} response.Response{data=dto.ItemResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      409 {object} response.Response "名称已存在"
// @Router       /api/v1/items [post]
func (h *ItemHandler) CreateItem(c *gin.Context) {
	var req dto.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.createItemUseCase.Execute(c.Request.Context(), appinventory.CreateItemRequest{
		Name:             req.Name,
		Specification:    req.Specification,
		Unit:             req.Unit,
		Quantity:         req.Quantity,
		ReorderThreshold: req.ReorderThreshold,
		UnitCost:         req.UnitCost,
		Remark:           req.Remark,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetItem 物资详情
// @Summary      物资详情
// @Tags         库存
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "物资ID"
// @Success      200 {object} response.Response{data=dto.ItemResponse}
// @Failure      404 {object} response.Response "物资不存在"
// @Router       /api/v1/items/{id} [get]
func (h *ItemHandler) GetItem(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.ErrorWithCode(c, 40900, "ID格式错误")
		return
	}

	result, err := h.getItemUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateItem 更新物资
// @Summary      更新物资
// @Description  更新基本信息、补货阈值或单价;阈值变更会触发状态重算
// @Tags         库存
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "物资ID"
// @Param        request body dto.UpdateItemRequest true "更新字段"
// @Success      200 {object} response.Response{data=dto.ItemResponse}
// @Failure      404 {object} response.Response "物资不存在"
// @Router       /api/v1/items/{id} [put]
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.ErrorWithCode(c, 40900, "ID格式错误")
		return
	}

	var req dto.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.updateItemUseCase.Execute(c.Request.Context(), appinventory.UpdateItemRequest{
		ID:               id,
		Name:             req.Name,
		Specification:    req.Specification,
		Unit:             req.Unit,
		Remark:           req.Remark,
		ReorderThreshold: req.ReorderThreshold,
		UnitCost:         req.UnitCost,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListItems 物资列表
// @Summary      物资列表
// @Description  分页查询,支持关键词搜索和按库存状态筛选
// @Tags         库存
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码"
// @Param        page_size query int false "每页数量"
// @Param        keyword query string false "搜索关键词"
// @Param        status query string false "库存状态" Enums(in_stock, low_stock, out_of_stock)
// @Success      200 {object} response.Response{data=dto.ListItemsResponse}
// @Router       /api/v1/items [get]
func (h *ItemHandler) ListItems(c *gin.Context) {
	var req dto.ListItemsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.listItemsUseCase.Execute(c.Request.Context(), appinventory.ListItemsRequest{
		Page:     req.Page,
		PageSize: req.PageSize,
		Keyword:  req.Keyword,
		Status:   req.Status,
		SortBy:   req.SortBy,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Restock 采购入库
// @Summary      采购入库
// @Description  增加库存并写入RESTOCK流水,状态随数量重算
// @Tags         库存
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "物资ID"
// @Param        request body dto.RestockRequest true "入库信息"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "物资不存在"
// @Router       /api/v1/items/{id}/restock [post]
func (h *ItemHandler) Restock(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.ErrorWithCode(c, 40900, "ID格式错误")
		return
	}

	var req dto.RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.restockUseCase.Execute(c.Request.Context(), appinventory.RestockRequest{
		ItemID:     id,
		Quantity:   req.Quantity,
		OperatorID: middleware.MustGetUserID(c),
		Remark:     req.Remark,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListMovements 库存流水
// @Summary      库存流水
// @Description  按时间倒序查询物资的变动流水(领用/冲销/更换/归还/入库)
// @Tags         库存
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "物资ID"
// @Param        page query int false "页码"
// @Param        page_size query int false "每页数量"
// @Success      200 {object} response.Response
// @Router       /api/v1/items/{id}/movements [get]
func (h *ItemHandler) ListMovements(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.ErrorWithCode(c, 40900, "ID格式错误")
		return
	}

	var req dto.ListMovementsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.listMovementsUseCase.Execute(c.Request.Context(), id, req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteItem 删除物资
// @Summary      删除物资
// @Description  软删除物资档案,历史领用和流水记录不受影响
// @Tags         库存
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "物资ID"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "物资不存在"
// @Router       /api/v1/items/{id} [delete]
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.ErrorWithCode(c, 40900, "ID格式错误")
		return
	}

	if err := h.deleteItemUseCase.Execute(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// parseIDParam 解析路径中的ID参数
func parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
