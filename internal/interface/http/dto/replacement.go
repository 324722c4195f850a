package dto

// ReplaceRequest HTTP设备更换请求
// Source为inventory时ItemID必填,Disposition为sent_to_warehouse时WarehouseID必填,
// 配套关系在application层统一校验
type ReplaceRequest struct {
	VesselID        uint   `json:"vessel_id" binding:"required" example:"3"`
	EquipmentName   string `json:"equipment_name" binding:"required,max=100" example:"高压油泵"`
	FailureReason   string `json:"failure_reason" binding:"required,max=500" example:"柱塞磨损,压力不足"`
	FailedAt        string `json:"failed_at" binding:"omitempty" example:"2026-07-18"`
	Source          string `json:"source" binding:"required,oneof=inventory purchase repair" example:"inventory"`
	ItemID          uint   `json:"item_id" binding:"omitempty" example:"1"`
	ReplacementCost int64  `json:"replacement_cost" binding:"min=0" example:"50000"`
	LaborCost       int64  `json:"labor_cost" binding:"min=0" example:"20000"`
	Disposition     string `json:"disposition" binding:"required,oneof=scrapped sent_to_warehouse repaired sold disposed" example:"sent_to_warehouse"`
	WarehouseID     uint   `json:"warehouse_id" binding:"omitempty" example:"2"`
	Remark          string `json:"remark" binding:"max=500"`
}

// ReplaceResponse HTTP更换响应
type ReplaceResponse struct {
	ReplacementID uint   `json:"replacement_id" example:"7"`
	VesselID      uint   `json:"vessel_id" example:"3"`
	EquipmentName string `json:"equipment_name" example:"高压油泵"`
	Source        string `json:"source" example:"inventory"`
	Disposition   string `json:"disposition" example:"sent_to_warehouse"`
	Status        string `json:"status" example:"confirmed"`
	TotalCost     int64  `json:"total_cost" example:"70000"`
	TotalCostYuan string `json:"total_cost_yuan" example:"700.00"`
	CostEntryID   uint   `json:"cost_entry_id" example:"89"`
	HoldingWrote  bool   `json:"holding_wrote" example:"true"` // 暂存记录是否写入成功(尽力而为)
}

// ReturnReplacementRequest HTTP更换归还请求
type ReturnReplacementRequest struct {
	Reason string `json:"reason" binding:"required,max=500" example:"误更换,原设备可修复"`
}

// ReturnReplacementResponse HTTP归还响应
type ReturnReplacementResponse struct {
	ReplacementID uint   `json:"replacement_id" example:"7"`
	Status        string `json:"status" example:"returned"`
	ReturnReason  string `json:"return_reason" example:"误更换,原设备可修复"`
	StockRestored bool   `json:"stock_restored" example:"true"`
}

// ListReplacementsRequest HTTP更换单列表请求
type ListReplacementsRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
	VesselID uint   `form:"vessel_id" binding:"omitempty" example:"3"`
	Status   string `form:"status" binding:"omitempty,oneof=confirmed returned"`
	Keyword  string `form:"keyword" binding:"omitempty,max=100"`
}
