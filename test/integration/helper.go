package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// 教学说明：测试辅助工具
// 这个文件包含集成测试的通用辅助函数，遵循DRY原则（Don't Repeat Yourself）
// 将重复的代码（HTTP请求、JSON解析）封装成可复用的函数

const (
	// BaseURL API基础URL
	BaseURL = "http://localhost:8080/api/v1"
	// PingURL 健康检查地址，用于判断服务是否启动
	PingURL = "http://localhost:8080/ping"
	// Timeout HTTP请求超时时间
	Timeout = 10 * time.Second
)

// Response 统一响应结构
type Response struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// RegisterData 注册响应数据
type RegisterData struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

// LoginData 登录响应数据
type LoginData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// ItemData 库存物资响应数据
type ItemData struct {
	ID               uint   `json:"id"`
	Name             string `json:"name"`
	Specification    string `json:"specification"`
	Unit             string `json:"unit"`
	Quantity         int    `json:"quantity"`
	ReorderThreshold int    `json:"reorder_threshold"`
	UnitCost         int64  `json:"unit_cost"`
	UnitCostYuan     string `json:"unit_cost_yuan"`
	Status           string `json:"status"`
	Remark           string `json:"remark"`
}

// ItemListData 物资列表响应数据
type ItemListData struct {
	List  []ItemData `json:"list"`
	Total int64      `json:"total"`
	Page  int        `json:"page"`
	Size  int        `json:"size"`
}

// IssueData 领用出库响应数据
type IssueData struct {
	IssuanceID    uint   `json:"issuance_id"`
	ItemID        uint   `json:"item_id"`
	ItemName      string `json:"item_name"`
	VesselID      uint   `json:"vessel_id"`
	Quantity      int    `json:"quantity"`
	UnitCost      int64  `json:"unit_cost"`
	TotalCost     int64  `json:"total_cost"`
	TotalCostYuan string `json:"total_cost_yuan"`
	CostEntryID   uint   `json:"cost_entry_id"`
	StockAfter    int    `json:"stock_after"`
	StockStatus   string `json:"stock_status"`
}

// ReverseData 领用冲销响应数据
type ReverseData struct {
	ItemID      uint   `json:"item_id"`
	Quantity    int    `json:"quantity"`
	StockAfter  int    `json:"stock_after"`
	StockStatus string `json:"stock_status"`
}

// ReplaceData 设备更换响应数据
type ReplaceData struct {
	ReplacementID uint   `json:"replacement_id"`
	VesselID      uint   `json:"vessel_id"`
	EquipmentName string `json:"equipment_name"`
	Source        string `json:"source"`
	Disposition   string `json:"disposition"`
	Status        string `json:"status"`
	TotalCost     int64  `json:"total_cost"`
	TotalCostYuan string `json:"total_cost_yuan"`
	CostEntryID   uint   `json:"cost_entry_id"`
	HoldingWrote  bool   `json:"holding_wrote"`
}

// ReturnData 设备退回响应数据
type ReturnData struct {
	ReplacementID uint   `json:"replacement_id"`
	Status        string `json:"status"`
	ReturnReason  string `json:"return_reason"`
	StockRestored bool   `json:"stock_restored"`
}

// VesselListData 船舶列表响应数据
type VesselListData struct {
	Vessels []struct {
		ID    uint   `json:"id"`
		Name  string `json:"name"`
		RegNo string `json:"reg_no"`
	} `json:"vessels"`
}

// WarehouseListData 仓库列表响应数据
type WarehouseListData struct {
	Warehouses []struct {
		ID       uint   `json:"id"`
		Name     string `json:"name"`
		Location string `json:"location"`
	} `json:"warehouses"`
}

// RequireServer 检查API服务是否已启动，未启动时跳过测试
//
// 教学说明：
// 集成测试依赖真实运行的服务（MySQL/Redis/API进程）。
// 在CI或本地未起服务时直接Skip，避免把环境问题报成测试失败。
func RequireServer(t *testing.T) {
	t.Helper()

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(PingURL)
	if err != nil {
		t.Skipf("API服务未启动，跳过集成测试: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Skipf("API服务健康检查失败: status=%d", resp.StatusCode)
	}
}

// PostJSON 发送POST请求并解析JSON响应
//
// 教学说明：
// - 使用*testing.T参数，可以在失败时立即终止测试
// - 使用require包进行断言，失败会立即停止（不继续执行）
// - 返回*Response而非error，简化调用方代码
func PostJSON(t *testing.T, url string, data interface{}, token string) *Response {
	jsonData, err := json.Marshal(data)
	require.NoError(t, err, "JSON序列化失败")

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	require.NoError(t, err, "创建HTTP请求失败")

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	err = json.Unmarshal(body, &result)
	require.NoError(t, err, "解析JSON响应失败: %s", string(body))

	return &result
}

// PutJSON 发送PUT请求并解析JSON响应
func PutJSON(t *testing.T, url string, data interface{}, token string) *Response {
	jsonData, err := json.Marshal(data)
	require.NoError(t, err, "JSON序列化失败")

	req, err := http.NewRequest("PUT", url, bytes.NewBuffer(jsonData))
	require.NoError(t, err, "创建HTTP请求失败")

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	err = json.Unmarshal(body, &result)
	require.NoError(t, err, "解析JSON响应失败: %s", string(body))

	return &result
}

// DeleteJSON 发送DELETE请求并解析JSON响应
func DeleteJSON(t *testing.T, url string, token string) *Response {
	req, err := http.NewRequest("DELETE", url, nil)
	require.NoError(t, err, "创建HTTP请求失败")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	err = json.Unmarshal(body, &result)
	require.NoError(t, err, "解析JSON响应失败: %s", string(body))

	return &result
}

// GetJSON 发送GET请求并解析JSON响应
func GetJSON(t *testing.T, url string, token string) *Response {
	req, err := http.NewRequest("GET", url, nil)
	require.NoError(t, err, "创建HTTP请求失败")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	err = json.Unmarshal(body, &result)
	require.NoError(t, err, "解析JSON响应失败: %s", string(body))

	return &result
}

// GenerateTestEmail 生成唯一的测试邮箱
//
// 教学说明：
// 使用时间戳确保邮箱唯一性，避免测试重复运行时邮箱冲突
func GenerateTestEmail(prefix string) string {
	return fmt.Sprintf("%s_%d@test.com", prefix, time.Now().UnixNano())
}

// GenerateTestItemName 生成唯一的测试物资名称
//
// 物资名称有唯一约束，重复运行测试时必须保证不冲突
func GenerateTestItemName(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}

// RegisterTestUser 注册测试操作员并返回Token
//
// 教学说明：
// 这是一个"高阶"辅助函数，封装了注册+登录的完整流程
// 简化了测试代码，让测试更关注业务逻辑而非基础设施
func RegisterTestUser(t *testing.T, nickname string) (email string, token string) {
	// 1. 注册
	email = GenerateTestEmail(nickname)
	registerReq := map[string]string{
		"email":    email,
		"password": "Test1234",
		"nickname": nickname,
	}

	registerResp := PostJSON(t, BaseURL+"/users/register", registerReq, "")
	require.Equal(t, 0, registerResp.Code, "注册失败: %s", registerResp.Message)

	// 2. 登录
	loginReq := map[string]string{
		"email":    email,
		"password": "Test1234",
	}

	loginResp := PostJSON(t, BaseURL+"/users/login", loginReq, "")
	require.Equal(t, 0, loginResp.Code, "登录失败: %s", loginResp.Message)

	var loginData LoginData
	err := json.Unmarshal(loginResp.Data, &loginData)
	require.NoError(t, err, "解析登录响应失败")

	return email, loginData.AccessToken
}

// CreateTestItem 建立测试物资档案并返回物资ID
//
// 单价统一为1280.00元，方便测试中核对成本金额
func CreateTestItem(t *testing.T, token string, name string, quantity int) uint {
	itemReq := map[string]interface{}{
		"name":              name,
		"specification":     "HR-TEST-01",
		"unit":              "台",
		"quantity":          quantity,
		"reorder_threshold": 2,
		"unit_cost":         128000, // 1280.00元
		"remark":            "集成测试用物资",
	}

	itemResp := PostJSON(t, BaseURL+"/items", itemReq, token)
	require.Equal(t, 0, itemResp.Code, "建立物资档案失败: %s", itemResp.Message)

	var itemData ItemData
	err := json.Unmarshal(itemResp.Data, &itemData)
	require.NoError(t, err, "解析物资响应失败")

	return itemData.ID
}

// GetTestItem 查询物资详情
func GetTestItem(t *testing.T, token string, itemID uint) ItemData {
	resp := GetJSON(t, fmt.Sprintf("%s/items/%d", BaseURL, itemID), token)
	require.Equal(t, 0, resp.Code, "查询物资失败: %s", resp.Message)

	var data ItemData
	err := json.Unmarshal(resp.Data, &data)
	require.NoError(t, err, "解析物资详情失败")

	return data
}

// FirstVesselID 取第一艘船舶的ID（依赖debug模式下的种子数据）
func FirstVesselID(t *testing.T, token string) uint {
	resp := GetJSON(t, BaseURL+"/vessels", token)
	require.Equal(t, 0, resp.Code, "查询船舶列表失败: %s", resp.Message)

	var data VesselListData
	err := json.Unmarshal(resp.Data, &data)
	require.NoError(t, err, "解析船舶列表失败")
	require.NotEmpty(t, data.Vessels, "船舶基础数据为空，请确认服务以debug模式启动")

	return data.Vessels[0].ID
}

// FirstWarehouseID 取第一个仓库的ID（依赖debug模式下的种子数据）
func FirstWarehouseID(t *testing.T, token string) uint {
	resp := GetJSON(t, BaseURL+"/warehouses", token)
	require.Equal(t, 0, resp.Code, "查询仓库列表失败: %s", resp.Message)

	var data WarehouseListData
	err := json.Unmarshal(resp.Data, &data)
	require.NoError(t, err, "解析仓库列表失败")
	require.NotEmpty(t, data.Warehouses, "仓库基础数据为空，请确认服务以debug模式启动")

	return data.Warehouses[0].ID
}
