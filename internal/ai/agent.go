package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"solar-dealer-hub/internal/database"
	"solar-dealer-hub/internal/models"
	"solar-dealer-hub/internal/views"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// maxToolRounds bounds how many tool calls one question may chain.
const maxToolRounds = 4

var ErrNoAnswer = errors.New("assistant returned no candidates")

var tools = []*genai.Tool{
	{
		FunctionDeclarations: []*genai.FunctionDeclaration{
			{
				Name:        "check_inventory",
				Description: "List stock rows with SKU, brand, technology, wattage, quantity, max level and price. Optional filters narrow the list.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"brand":      {Type: genai.TypeString, Description: "Brand name, e.g. Adani"},
						"technology": {Type: genai.TypeString, Description: "Panel technology, e.g. Mono PERC"},
						"search":     {Type: genai.TypeString, Description: "Free text matched against SKU, brand and technology"},
						"low_stock":  {Type: genai.TypeBoolean, Description: "Only rows below their max level"},
					},
				},
			},
			{
				Name:        "procurement_summary",
				Description: "Count and value of procurement orders, in total and per status.",
			},
			{
				Name:        "pipeline_summary",
				Description: "Project counts and kW per pipeline column, per category, plus the top channel partners.",
			},
			{
				Name:        "update_order_status",
				Description: "Set the status of a procurement order found by its order number.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"order_number": {Type: genai.TypeString, Description: "Order number, e.g. PO-20250101-AB12CD"},
						"status":       {Type: genai.TypeString, Description: "Pending, Approved, Completed or Cancelled"},
					},
					Required: []string{"order_number", "status"},
				},
			},
		},
	},
}

func systemPrompt(today string) string {
	return fmt.Sprintf(`Today is %s. You are the assistant of a solar dealer network admin console.

RULES:
1. STOCK: for any question about panels, brands, quantities or prices call 'check_inventory' and answer from its rows.
2. ORDERS: for order counts or spend call 'procurement_summary'. To change an order status call 'update_order_status' with the order number the user gave. Never guess an order number.
3. PROJECTS: for pipeline, kW or channel partner questions call 'pipeline_summary'.
Answer briefly with the numbers you were given.`, today)
}

// RunAgent answers one admin question, letting the model call tools against the database.
func RunAgent(ctx context.Context, userMessage, apiKey, modelName string) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel(modelName)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt(time.Now().Format("2006-01-02")))}}
	model.Tools = tools

	session := model.StartChat()
	resp, err := session.SendMessage(ctx, genai.Text(userMessage))
	if err != nil {
		return "", err
	}

	for round := 0; round < maxToolRounds; round++ {
		calls, err := functionCalls(resp)
		if err != nil {
			return "", err
		}
		if len(calls) == 0 {
			break
		}

		replies := make([]genai.Part, 0, len(calls))
		for _, call := range calls {
			result, err := ExecuteTool(call.Name, call.Args)
			if err != nil {
				result = map[string]any{"error": err.Error()}
			}
			replies = append(replies, genai.FunctionResponse{Name: call.Name, Response: result})
		}
		if resp, err = session.SendMessage(ctx, replies...); err != nil {
			return "", err
		}
	}

	return printResponse(resp)
}

func functionCalls(resp *genai.GenerateContentResponse) ([]genai.FunctionCall, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, ErrNoAnswer
	}
	var calls []genai.FunctionCall
	for _, part := range resp.Candidates[0].Content.Parts {
		if fc, ok := part.(genai.FunctionCall); ok {
			calls = append(calls, fc)
		}
	}
	return calls, nil
}

func printResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrNoAnswer
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt), nil
		}
	}
	return "I completed the action.", nil
}

// ExecuteTool runs one tool call against the database and returns the
// payload sent back to the model.
func ExecuteTool(name string, args map[string]any) (map[string]any, error) {
	switch name {
	case "check_inventory":
		return checkInventory(args)
	case "procurement_summary":
		summary, err := database.GetProcurementSummary()
		if err != nil {
			return nil, err
		}
		return asMap(summary)
	case "pipeline_summary":
		return pipelineSummary()
	case "update_order_status":
		return updateOrderStatus(args)
	default:
		return nil, fmt.Errorf("unknown tool %q", name)
	}
}

type stockRow struct {
	ID         uint    `json:"id"`
	SKU        string  `json:"sku"`
	Brand      string  `json:"brand"`
	Technology string  `json:"technology"`
	Wattage    int     `json:"wattage"`
	Quantity   int     `json:"quantity"`
	MaxLevel   int     `json:"maxLevel"`
	Price      float64 `json:"price"`
}

func checkInventory(args map[string]any) (map[string]any, error) {
	items, err := database.ListInventory()
	if err != nil {
		return nil, err
	}
	f := views.InventoryFilter{
		Brand:      stringArg(args, "brand"),
		Technology: stringArg(args, "technology"),
		Search:     stringArg(args, "search"),
	}
	items = views.FilterInventory(items, f)
	if low, _ := args["low_stock"].(bool); low {
		items = views.LowStock(items)
	}

	rows := make([]stockRow, 0, len(items))
	for _, it := range items {
		rows = append(rows, stockRow{
			ID:         it.ID,
			SKU:        it.SKU,
			Brand:      it.Brand.Name,
			Technology: it.Technology,
			Wattage:    it.Wattage,
			Quantity:   it.Quantity,
			MaxLevel:   it.MaxLevel,
			Price:      it.Price,
		})
	}
	return map[string]any{"count": len(rows), "inventory": rows}, nil
}

func pipelineSummary() (map[string]any, error) {
	projects, err := database.ListProjects()
	if err != nil {
		return nil, err
	}
	out, err := asMap(views.ProjectSummary(projects))
	if err != nil {
		return nil, err
	}
	out["topPartners"] = views.TopPerformers(projects, 5)
	return out, nil
}

func updateOrderStatus(args map[string]any) (map[string]any, error) {
	number := stringArg(args, "order_number")
	status := stringArg(args, "status")
	if !models.ValidOrderStatus(status) {
		return nil, models.ErrInvalidOrderStatus
	}
	result := database.DB.Model(&models.ProcurementOrder{}).Where("order_number = ?", number).Update("status", status)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return map[string]any{"status": "Order not found", "orderNumber": number}, nil
	}
	return map[string]any{"status": "Success", "orderNumber": number, "newStatus": status}, nil
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

// asMap round-trips v through JSON so the model sees the API field names.
func asMap(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}
