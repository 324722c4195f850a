package dto

// IssueRequest HTTP物资领用请求
type IssueRequest struct {
	ItemID   uint   `json:"item_id" binding:"required" example:"1"`
	VesselID uint   `json:"vessel_id" binding:"required" example:"3"`
	Quantity int    `json:"quantity" binding:"required,min=1" example:"2"`
	UnitCost int64  `json:"unit_cost" binding:"omitempty,min=1" example:"128000"` // 不传时使用物资当前单价
	IssuedAt string `json:"issued_at" binding:"omitempty" example:"2026-07-20"`   // 不传时使用当前日期
	Remark   string `json:"remark" binding:"max=500" example:"海润1号主机维修"`
}

// IssueResponse HTTP领用响应
type IssueResponse struct {
	IssuanceID    uint   `json:"issuance_id" example:"15"`
	ItemID        uint   `json:"item_id" example:"1"`
	ItemName      string `json:"item_name" example:"高压油泵"`
	VesselID      uint   `json:"vessel_id" example:"3"`
	Quantity      int    `json:"quantity" example:"2"`
	UnitCost      int64  `json:"unit_cost" example:"128000"`
	TotalCost     int64  `json:"total_cost" example:"256000"`
	TotalCostYuan string `json:"total_cost_yuan" example:"2560.00"`
	CostEntryID   uint   `json:"cost_entry_id" example:"88"`
	StockAfter    int    `json:"stock_after" example:"3"`
	StockStatus   string `json:"stock_status" example:"low_stock"`
	IssuedAt      string `json:"issued_at" example:"2026-07-20"`
}

// ReverseResponse HTTP冲销响应
type ReverseResponse struct {
	ItemID      uint   `json:"item_id" example:"1"`
	Quantity    int    `json:"quantity" example:"2"`
	StockAfter  int    `json:"stock_after" example:"5"`
	StockStatus string `json:"stock_status" example:"in_stock"`
}

// ListIssuancesRequest HTTP领用记录列表请求
type ListIssuancesRequest struct {
	Page     int  `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int  `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
	ItemID   uint `form:"item_id" binding:"omitempty" example:"1"`
	VesselID uint `form:"vessel_id" binding:"omitempty" example:"3"`
}
