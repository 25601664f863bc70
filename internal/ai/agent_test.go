package ai

import (
	"testing"

	"solar-dealer-hub/internal/models"
	"solar-dealer-hub/internal/testutil"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckInventoryTool(t *testing.T) {
	db := testutil.OpenDB(t)
	fx := testutil.Seed(t, db)
	require.NoError(t, db.Omit("Brand", "State", "Cluster").Create(&[]models.InventoryItem{
		{BrandID: fx.Adani.ID, SKU: "AD-540", Technology: "Mono PERC", Wattage: 540, Quantity: 2, MaxLevel: 10},
		{BrandID: fx.Adani.ID, SKU: "AD-330", Technology: "Polycrystalline", Wattage: 330, Quantity: 8, MaxLevel: 8},
		{BrandID: fx.Waaree.ID, SKU: "WR-540", Technology: "Mono PERC", Wattage: 540, Quantity: 1, MaxLevel: 5},
	}).Error)

	out, err := ExecuteTool("check_inventory", map[string]any{"brand": "adani"})
	require.NoError(t, err)
	assert.Equal(t, 2, out["count"])

	out, err = ExecuteTool("check_inventory", map[string]any{"technology": "Mono PERC", "low_stock": true})
	require.NoError(t, err)
	rows := out["inventory"].([]stockRow)
	require.Len(t, rows, 2)
	assert.Equal(t, "Adani", rows[0].Brand)
	assert.Equal(t, "WR-540", rows[1].SKU)
}

func TestUpdateOrderStatusTool(t *testing.T) {
	db := testutil.OpenDB(t)
	fx := testutil.Seed(t, db)
	require.NoError(t, db.Create(&models.ProcurementOrder{OrderNumber: "PO-1", SupplierID: fx.Supplier.ID, Status: models.OrderPending}).Error)

	out, err := ExecuteTool("update_order_status", map[string]any{"order_number": "PO-1", "status": models.OrderApproved})
	require.NoError(t, err)
	assert.Equal(t, "Success", out["status"])

	var order models.ProcurementOrder
	require.NoError(t, db.Where("order_number = ?", "PO-1").First(&order).Error)
	assert.Equal(t, models.OrderApproved, order.Status)

	out, err = ExecuteTool("update_order_status", map[string]any{"order_number": "PO-404", "status": models.OrderApproved})
	require.NoError(t, err)
	assert.Equal(t, "Order not found", out["status"])

	_, err = ExecuteTool("update_order_status", map[string]any{"order_number": "PO-1", "status": "Shipped"})
	assert.ErrorIs(t, err, models.ErrInvalidOrderStatus)
}

func TestPipelineSummaryTool(t *testing.T) {
	db := testutil.OpenDB(t)
	require.NoError(t, db.Create(&[]models.Project{
		{ProjectID: "PRJ-1", StatusStage: string(models.StageLead), TotalKW: 3, CP: "SunCo"},
		{ProjectID: "PRJ-2", StatusStage: string(models.StageLead), TotalKW: 2, CP: "SunCo"},
	}).Error)

	out, err := ExecuteTool("pipeline_summary", nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, out["total"])
	assert.NotEmpty(t, out["topPartners"])
}

func TestUnknownTool(t *testing.T) {
	_, err := ExecuteTool("launch_rocket", nil)
	assert.ErrorContains(t, err, "unknown tool")
}

func TestResponseParts(t *testing.T) {
	_, err := printResponse(nil)
	assert.ErrorIs(t, err, ErrNoAnswer)

	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []genai.Part{
			genai.FunctionCall{Name: "procurement_summary"},
			genai.Text("3 orders pending"),
		}},
	}}}
	calls, err := functionCalls(resp)
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, "procurement_summary", calls[0].Name)

	text, err := printResponse(resp)
	require.NoError(t, err)
	assert.Equal(t, "3 orders pending", text)

	resp.Candidates[0].Content.Parts = []genai.Part{genai.FunctionCall{Name: "x"}}
	text, err = printResponse(resp)
	require.NoError(t, err)
	assert.Equal(t, "I completed the action.", text)
}
