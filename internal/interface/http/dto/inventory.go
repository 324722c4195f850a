package dto

import "fmt"

// CreateItemRequest HTTP新建物资请求
// validator tag说明:
// - required: 必填字段
// - min/max: 数值范围校验
type CreateItemRequest struct {
	Name             string `json:"name" binding:"required,max=100" example:"高压油泵"`
	Specification    string `json:"specification" binding:"max=200" example:"HP-300 12V"`
	Unit             string `json:"unit" binding:"max=20" example:"台"`
	Quantity         int    `json:"quantity" binding:"min=0" example:"5"`
	ReorderThreshold int    `json:"reorder_threshold" binding:"min=0" example:"2"` // 0表示使用默认阈值
	UnitCost         int64  `json:"unit_cost" binding:"min=0" example:"128000"`    // 单价(分),1280.00元
	Remark           string `json:"remark" binding:"max=500" example:"主机配件"`
}

// UpdateItemRequest HTTP更新物资请求
// 所有字段可选,只更新传入的字段
type UpdateItemRequest struct {
	Name             string `json:"name" binding:"omitempty,max=100"`
	Specification    string `json:"specification" binding:"omitempty,max=200"`
	Unit             string `json:"unit" binding:"omitempty,max=20"`
	Remark           string `json:"remark" binding:"omitempty,max=500"`
	ReorderThreshold *int   `json:"reorder_threshold" binding:"omitempty,min=0"`
	UnitCost         *int64 `json:"unit_cost" binding:"omitempty,min=0"`
}

// RestockRequest HTTP采购入库请求
type RestockRequest struct {
	Quantity int    `json:"quantity" binding:"required,min=1" example:"10"`
	Remark   string `json:"remark" binding:"max=500" example:"7月采购入库"`
}

// ItemResponse HTTP物资响应
type ItemResponse struct {
	ID               uint   `json:"id" example:"1"`
	Name             string `json:"name" example:"高压油泵"`
	Specification    string `json:"specification" example:"HP-300 12V"`
	Unit             string `json:"unit" example:"台"`
	Quantity         int    `json:"quantity" example:"5"`
	ReorderThreshold int    `json:"reorder_threshold" example:"2"`
	UnitCost         int64  `json:"unit_cost" example:"128000"`
	UnitCostYuan     string `json:"unit_cost_yuan" example:"1280.00"` // 单价(元),方便前端显示
	Status           string `json:"status" example:"in_stock"`
	Remark           string `json:"remark" example:"主机配件"`
	CreatedAt        string `json:"created_at" example:"2026-07-15 10:30:00"`
	UpdatedAt        string `json:"updated_at" example:"2026-07-15 10:30:00"`
}

// ListItemsRequest HTTP物资列表请求
type ListItemsRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
	Keyword  string `form:"keyword" binding:"omitempty,max=100" example:"油泵"`
	Status   string `form:"status" binding:"omitempty,oneof=in_stock low_stock out_of_stock"`
	SortBy   string `form:"sort_by" binding:"omitempty,oneof=quantity_asc quantity_desc created_at_desc"`
}

// ListItemsResponse HTTP物资列表响应
type ListItemsResponse struct {
	List  interface{} `json:"list"`
	Total int64       `json:"total" example:"42"`
	Page  int         `json:"page" example:"1"`
	Size  int         `json:"size" example:"20"`
}

// ListMovementsRequest HTTP库存流水列表请求
type ListMovementsRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
}

// FormatYuan 格式化金额(分→元)
// 例如:128000分 → "1280.00"
func FormatYuan(fen int64) string {
	yuan := float64(fen) / 100.0
	return fmt.Sprintf("%.2f", yuan)
}
