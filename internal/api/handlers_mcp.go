// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"github.com/goccy/go-json"

	"github.com/tomtom215/mealplan/internal/logging"
	"github.com/tomtom215/mealplan/internal/validation"
)

// MCP tool names.
const (
	ToolRecommendMeals   = "recommend_meals"
	ToolGenerateSchedule = "generate_schedule"
)

// toolArgumentError marks malformed tool arguments.
type toolArgumentError struct {
	err error
}

func (e *toolArgumentError) Error() string { return "invalid arguments: " + e.err.Error() }
func (e *toolArgumentError) Unwrap() error { return e.err }

// MCPToolCall handles POST /mcp/tools/call. Successful calls answer with a
// protocol.CallToolResult whose single text content is the JSON payload the
// matching REST endpoint would return in data. Failures use the API envelope.
func (h *Handler) MCPToolCall(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req protocol.CallToolRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		rw.BadRequest("Invalid MCP request: " + err.Error())
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	var (
		payload interface{}
		err     error
	)
	switch req.Name {
	case ToolRecommendMeals:
		payload, err = h.toolRecommendMeals(ctx, &req)
	case ToolGenerateSchedule:
		payload, err = h.toolGenerateSchedule(ctx, &req)
	default:
		rw.Error(http.StatusNotFound, ErrCodeUnknownTool, fmt.Sprintf("Unknown tool: %s", req.Name))
		return
	}

	if err != nil {
		var verr *validation.RequestValidationError
		var argErr *toolArgumentError
		switch {
		case errors.As(err, &verr):
			rw.Validation(verr)
		case errors.As(err, &argErr):
			rw.BadRequest(argErr.Error())
		default:
			rw.DomainError(err)
		}
		return
	}

	result, err := textResult(payload)
	if err != nil {
		rw.InternalError("Failed to encode tool result")
		return
	}
	logging.Ctx(r.Context()).Debug().Str("tool", req.Name).Msg("MCP tool call served")

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to encode MCP result")
	}
}

func (h *Handler) toolRecommendMeals(ctx context.Context, call *protocol.CallToolRequest) (interface{}, error) {
	var req RecommendRequest
	if err := extractArguments(call, &req); err != nil {
		return nil, err
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		return nil, verr
	}
	engine, err := h.deps.Engine.Get()
	if err != nil {
		return nil, err
	}
	return h.recommend(ctx, engine, &req)
}

func (h *Handler) toolGenerateSchedule(ctx context.Context, call *protocol.CallToolRequest) (interface{}, error) {
	var req ScheduleRequest
	if err := extractArguments(call, &req); err != nil {
		return nil, err
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		return nil, verr
	}
	return h.generateSchedule(ctx, &req)
}

// extractArguments re-encodes the argument map into target.
func extractArguments(call *protocol.CallToolRequest, target interface{}) error {
	raw, err := json.Marshal(call.Arguments)
	if err != nil {
		return &toolArgumentError{err: err}
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return &toolArgumentError{err: err}
	}
	return nil
}

func textResult(payload interface{}) (*protocol.CallToolResult, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tool result: %w", err)
	}
	return &protocol.CallToolResult{
		Content: []protocol.Content{
			protocol.TextContent{
				Type: "text",
				Text: string(data),
			},
		},
	}, nil
}
