package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/hairun/fleetops/internal/domain/vessel"
	"github.com/hairun/fleetops/internal/domain/warehouse"
	"github.com/hairun/fleetops/pkg/response"
)

// CatalogHandler 基础资料HTTP处理器(船舶、仓库)
// 基础资料只读且量小,不走application层,直接依赖仓储接口
type CatalogHandler struct {
	vesselRepo    vessel.Repository
	warehouseRepo warehouse.Repository
}

// NewCatalogHandler 创建基础资料处理器
func NewCatalogHandler(vesselRepo vessel.Repository, warehouseRepo warehouse.Repository) *CatalogHandler {
	return &CatalogHandler{
		vesselRepo:    vesselRepo,
		warehouseRepo: warehouseRepo,
	}
}

// ListVessels 船舶列表
// @Summary      船舶列表
// @Tags         基础资料
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response
// @Router       /api/v1/vessels [get]
func (h *CatalogHandler) ListVessels(c *gin.Context) {
	vessels, err := h.vesselRepo.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]gin.H, len(vessels))
	for i, v := range vessels {
		list[i] = gin.H{
			"id":     v.ID,
			"name":   v.Name,
			"reg_no": v.RegNo,
			"remark": v.Remark,
		}
	}

	response.Success(c, gin.H{"vessels": list})
}

// ListWarehouses 仓库列表
// @Summary      仓库列表
// @Tags         基础资料
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response
// @Router       /api/v1/warehouses [get]
func (h *CatalogHandler) ListWarehouses(c *gin.Context) {
	warehouses, err := h.warehouseRepo.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]gin.H, len(warehouses))
	for i, w := range warehouses {
		list[i] = gin.H{
			"id":       w.ID,
			"name":     w.Name,
			"location": w.Location,
			"remark":   w.Remark,
		}
	}

	response.Success(c, gin.H{"warehouses": list})
}

// ListHoldings 仓库暂存记录列表
// @Summary      仓库暂存记录列表
// @Description  设备更换后旧件入库暂存的记录,含残值估算
// @Tags         基础资料
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "仓库ID"
// @Param        page query int false "页码"
// @Param        page_size query int false "每页数量"
// @Success      200 {object} response.Response
// @Router       /api/v1/warehouses/{id}/holdings [get]
func (h *CatalogHandler) ListHoldings(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.ErrorWithCode(c, 40900, "ID格式错误")
		return
	}

	var req struct {
		Page     int `form:"page" binding:"omitempty,min=1"`
		PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}

	holdings, total, err := h.warehouseRepo.ListHoldings(c.Request.Context(), id, req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]gin.H, len(holdings))
	for i, holding := range holdings {
		list[i] = gin.H{
			"id":              holding.ID,
			"holding_no":      holding.HoldingNo,
			"warehouse_id":    holding.WarehouseID,
			"name":            holding.Name,
			"estimated_value": holding.EstimatedValue,
			"description":     holding.Description,
			"ref_type":        holding.RefType,
			"ref_id":          holding.RefID,
			"created_at":      holding.CreatedAt.Format("2006-01-02 15:04:05"),
		}
	}

	response.Success(c, gin.H{"holdings": list, "total": total})
}
