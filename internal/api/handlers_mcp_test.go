// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/mealplan/internal/catalog"
	"github.com/tomtom215/mealplan/internal/validation"
)

// toolResult mirrors the wire shape of a CallToolResult.
type toolResult struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func callTool(t *testing.T, h http.Handler, name string, args map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	return do(t, h, http.MethodPost, "/mcp/tools/call", map[string]interface{}{
		"name":      name,
		"arguments": args,
	})
}

func decodeToolText(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	var res toolResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if len(res.Content) != 1 || res.Content[0].Type != "text" {
		t.Fatalf("content = %+v, want one text item", res.Content)
	}
	if err := json.Unmarshal([]byte(res.Content[0].Text), v); err != nil {
		t.Fatalf("decode text payload: %v", err)
	}
}

func TestMCPToolCall_RecommendMeals(t *testing.T) {
	t.Parallel()

	router := newTestRouter(newFullDeps(t))

	var resp RecommendResponse
	decodeToolText(t, callTool(t, router, ToolRecommendMeals, map[string]interface{}{
		"history":   []int64{2},
		"n":         2,
		"meal_type": catalog.TypeLunch,
	}), &resp)

	if resp.Count != 1 || resp.Recommendations[0].Meal.ID != 4 {
		t.Errorf("recommendations = %+v, want only meal 4", resp.Recommendations)
	}
}

func TestMCPToolCall_GenerateSchedule(t *testing.T) {
	t.Parallel()

	router := newTestRouter(newFullDeps(t))

	var resp ScheduleResponse
	decodeToolText(t, callTool(t, router, ToolGenerateSchedule, map[string]interface{}{
		"history":      []int64{1},
		"max_calories": 1800,
		"days":         3,
	}), &resp)

	if got := len(resp.Schedule.Days); got != 3 {
		t.Errorf("days = %d, want 3", got)
	}
	if !resp.Persisted {
		t.Error("Persisted = false, want true")
	}
}

func TestMCPToolCall_Errors(t *testing.T) {
	t.Parallel()

	router := newTestRouter(newFullDeps(t))

	tests := []struct {
		name   string
		tool   string
		args   map[string]interface{}
		status int
		code   string
	}{
		{"unknown tool", "order_pizza", nil, http.StatusNotFound, ErrCodeUnknownTool},
		{"wrong argument type", ToolRecommendMeals, map[string]interface{}{"n": "three"}, http.StatusBadRequest, ErrCodeBadRequest},
		{"invalid arguments", ToolGenerateSchedule, map[string]interface{}{"days": -1}, http.StatusBadRequest, validation.CodeValidation},
		{"unknown meal type", ToolRecommendMeals, map[string]interface{}{"meal_type": "Brunch"}, http.StatusBadRequest, ErrCodeUnknownMealType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			expectError(t, callTool(t, router, tt.tool, tt.args), tt.status, tt.code)
		})
	}
}

func TestMCPToolCall_MalformedRequest(t *testing.T) {
	t.Parallel()

	router := newTestRouter(newFullDeps(t))
	expectError(t, do(t, router, http.MethodPost, "/mcp/tools/call", `{"name":`), http.StatusBadRequest, ErrCodeBadRequest)
}
