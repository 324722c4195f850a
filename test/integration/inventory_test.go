package integration

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 教学说明：库存台账集成测试
//
// 库存模块的核心是"库存状态由数量派生"这个不变量：
//   数量<=0            → out_of_stock
//   数量<=补货阈值      → low_stock
//   其余               → in_stock
// 状态永远不由调用方传入，所有写路径（建档/入库/领用/冲销）都会重新计算

// TestItemCreate 测试物资建档
func TestItemCreate(t *testing.T) {
	RequireServer(t)

	_, token := RegisterTestUser(t, "item_creator")

	t.Run("正常建档", func(t *testing.T) {
		name := GenerateTestItemName("高压油泵")
		req := map[string]interface{}{
			"name":              name,
			"specification":     "HP-300 12V",
			"unit":              "台",
			"quantity":          5,
			"reorder_threshold": 2,
			"unit_cost":         128000,
			"remark":            "主机配件",
		}

		resp := PostJSON(t, BaseURL+"/items", req, token)
		assert.Equal(t, 0, resp.Code, "建档应该成功: %s", resp.Message)

		var data ItemData
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err, "解析响应数据失败")

		assert.NotZero(t, data.ID, "物资ID应该大于0")
		assert.Equal(t, name, data.Name)
		assert.Equal(t, 5, data.Quantity)
		assert.Equal(t, "in_stock", data.Status, "5件库存、阈值2，状态应该是in_stock")
		assert.Equal(t, "1280.00", data.UnitCostYuan, "单价应该格式化为元")

		t.Logf("✓ 建档成功, ID=%d, 状态=%s", data.ID, data.Status)
	})

	t.Run("名称重复应失败", func(t *testing.T) {
		name := GenerateTestItemName("重复物资")
		CreateTestItem(t, token, name, 3)

		req := map[string]interface{}{
			"name":     name,
			"quantity": 1,
		}

		resp := PostJSON(t, BaseURL+"/items", req, token)
		assert.Equal(t, 40004, resp.Code, "重复名称应该返回40004")

		t.Logf("✓ 重复名称正确被拒绝: %s", resp.Message)
	})

	t.Run("零库存建档状态为缺货", func(t *testing.T) {
		itemID := CreateTestItem(t, token, GenerateTestItemName("零库存"), 0)

		item := GetTestItem(t, token, itemID)
		assert.Equal(t, 0, item.Quantity)
		assert.Equal(t, "out_of_stock", item.Status, "0件库存应该是out_of_stock")

		t.Logf("✓ 零库存建档状态正确: %s", item.Status)
	})

	t.Run("负库存建档应失败", func(t *testing.T) {
		req := map[string]interface{}{
			"name":     GenerateTestItemName("负库存"),
			"quantity": -1,
		}

		resp := PostJSON(t, BaseURL+"/items", req, token)
		assert.NotEqual(t, 0, resp.Code, "负库存应该被参数校验拒绝")

		t.Logf("✓ 负库存正确被拒绝: %s", resp.Message)
	})
}

// TestItemRestock 测试采购入库与状态流转
func TestItemRestock(t *testing.T) {
	RequireServer(t)

	_, token := RegisterTestUser(t, "restocker")

	t.Run("入库后数量与状态同步更新", func(t *testing.T) {
		// 阈值为2，1件库存处于low_stock
		itemID := CreateTestItem(t, token, GenerateTestItemName("入库测试"), 1)

		before := GetTestItem(t, token, itemID)
		require.Equal(t, "low_stock", before.Status, "1件库存应该是low_stock")

		restockReq := map[string]interface{}{
			"quantity": 10,
			"remark":   "集成测试入库",
		}
		resp := PostJSON(t, fmt.Sprintf("%s/items/%d/restock", BaseURL, itemID), restockReq, token)
		assert.Equal(t, 0, resp.Code, "入库应该成功: %s", resp.Message)

		var data struct {
			StockAfter  int    `json:"stock_after"`
			StockStatus string `json:"stock_status"`
		}
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err, "解析入库响应失败")

		assert.Equal(t, 11, data.StockAfter, "1+10=11件")
		assert.Equal(t, "in_stock", data.StockStatus, "11件库存应该回到in_stock")

		t.Logf("✓ 入库成功, 库存=%d, 状态=%s", data.StockAfter, data.StockStatus)
	})

	t.Run("入库数量为0应失败", func(t *testing.T) {
		itemID := CreateTestItem(t, token, GenerateTestItemName("零入库"), 5)

		resp := PostJSON(t, fmt.Sprintf("%s/items/%d/restock", BaseURL, itemID), map[string]interface{}{
			"quantity": 0,
		}, token)
		assert.NotEqual(t, 0, resp.Code, "入库数量为0应该被拒绝")

		t.Logf("✓ 零入库正确被拒绝: %s", resp.Message)
	})

	t.Run("物资不存在应返回40402", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/items/999999/restock", map[string]interface{}{
			"quantity": 1,
		}, token)
		assert.Equal(t, 40402, resp.Code, "物资不存在应该返回40402")

		t.Logf("✓ 物资不存在正确返回错误: %s", resp.Message)
	})
}

// TestItemList 测试物资列表查询
func TestItemList(t *testing.T) {
	RequireServer(t)

	_, token := RegisterTestUser(t, "item_lister")

	// 准备一个可以精确命中的关键词
	name := GenerateTestItemName("柴油滤清器")
	CreateTestItem(t, token, name, 8)

	t.Run("关键词搜索", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/items?keyword="+name, token)
		assert.Equal(t, 0, resp.Code, "查询应该成功: %s", resp.Message)

		var data ItemListData
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err, "解析列表响应失败")

		require.Equal(t, int64(1), data.Total, "唯一名称应该只命中1条")
		assert.Equal(t, name, data.List[0].Name)

		t.Logf("✓ 关键词搜索命中: %s", data.List[0].Name)
	})

	t.Run("按状态过滤", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/items?status=in_stock&page=1&page_size=5", token)
		assert.Equal(t, 0, resp.Code, "状态过滤查询应该成功: %s", resp.Message)

		var data ItemListData
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err, "解析列表响应失败")

		for _, item := range data.List {
			assert.Equal(t, "in_stock", item.Status, "过滤结果中不应该出现其他状态")
		}

		t.Logf("✓ 状态过滤正确, 返回%d条", len(data.List))
	})

	t.Run("非法状态参数应失败", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/items?status=whatever", token)
		assert.NotEqual(t, 0, resp.Code, "非法状态应该被参数校验拒绝")

		t.Logf("✓ 非法状态正确被拒绝: %s", resp.Message)
	})
}

// TestItemDelete 测试物资删除
func TestItemDelete(t *testing.T) {
	RequireServer(t)

	_, token := RegisterTestUser(t, "item_deleter")

	t.Run("删除后物资不可查", func(t *testing.T) {
		itemID := CreateTestItem(t, token, GenerateTestItemName("待删除"), 3)

		resp := DeleteJSON(t, fmt.Sprintf("%s/items/%d", BaseURL, itemID), token)
		assert.Equal(t, 0, resp.Code, "删除应该成功: %s", resp.Message)

		getResp := GetJSON(t, fmt.Sprintf("%s/items/%d", BaseURL, itemID), token)
		assert.Equal(t, 40402, getResp.Code, "删除后查询应该返回40402")

		t.Logf("✓ 删除成功, 再查询返回: %s", getResp.Message)
	})

	t.Run("删除不存在的物资应返回40402", func(t *testing.T) {
		resp := DeleteJSON(t, BaseURL+"/items/999999", token)
		assert.Equal(t, 40402, resp.Code)

		t.Logf("✓ 物资不存在正确返回错误: %s", resp.Message)
	})
}

// TestItemMovements 测试库存流水
func TestItemMovements(t *testing.T) {
	RequireServer(t)

	_, token := RegisterTestUser(t, "movement_reader")

	itemID := CreateTestItem(t, token, GenerateTestItemName("流水测试"), 3)

	// 一次入库，产生一条RESTOCK流水
	resp := PostJSON(t, fmt.Sprintf("%s/items/%d/restock", BaseURL, itemID), map[string]interface{}{
		"quantity": 2,
		"remark":   "流水测试入库",
	}, token)
	require.Equal(t, 0, resp.Code, "入库失败: %s", resp.Message)

	t.Run("流水按时间倒序", func(t *testing.T) {
		listResp := GetJSON(t, fmt.Sprintf("%s/items/%d/movements", BaseURL, itemID), token)
		assert.Equal(t, 0, listResp.Code, "查询流水失败: %s", listResp.Message)

		var data struct {
			Movements []struct {
				ChangeType  string `json:"change_type"`
				Delta       int    `json:"delta"`
				StockBefore int    `json:"stock_before"`
				StockAfter  int    `json:"stock_after"`
			} `json:"movements"`
			Total int64 `json:"total"`
		}
		err := json.Unmarshal(listResp.Data, &data)
		require.NoError(t, err, "解析流水响应失败")

		require.NotEmpty(t, data.Movements, "入库后应该至少有1条流水")

		latest := data.Movements[0]
		assert.Equal(t, "RESTOCK", latest.ChangeType, "最新一条应该是入库流水")
		assert.Equal(t, 2, latest.Delta)
		assert.Equal(t, 3, latest.StockBefore)
		assert.Equal(t, 5, latest.StockAfter)

		t.Logf("✓ 流水记录正确: %s %d→%d", latest.ChangeType, latest.StockBefore, latest.StockAfter)
	})
}
