// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package validation

import (
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()

	v1 := GetValidator()
	v2 := GetValidator()
	if v1 == nil {
		t.Fatal("GetValidator() returned nil")
	}
	if v1 != v2 {
		t.Error("GetValidator() should return the same instance")
	}
}

type scheduleRequest struct {
	UserID      string  `json:"user_id" validate:"omitempty,userid"`
	History     []int64 `json:"history" validate:"max=3,dive,gt=0"`
	MaxCalories float64 `json:"max_calories" validate:"gte=0,lte=20000"`
	Days        int     `json:"days" validate:"omitempty,min=1,max=31"`
	MealType    string  `json:"meal_type" validate:"omitempty,mealtype"`
	Internal    string  `json:"-"`
}

func TestValidateStruct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     scheduleRequest
		wantField string
		wantTag   string
		wantMsg   string
	}{
		{
			name:  "valid",
			input: scheduleRequest{UserID: "alice.b@x", History: []int64{45, 120}, MaxCalories: 2000, Days: 7, MealType: "Sarapan"},
		},
		{
			name:  "zero values",
			input: scheduleRequest{},
		},
		{
			name:      "bad user id",
			input:     scheduleRequest{UserID: "bob smith"},
			wantField: "user_id",
			wantTag:   "userid",
			wantMsg:   "user_id must be 1-64 characters",
		},
		{
			name:      "too many history items",
			input:     scheduleRequest{History: []int64{1, 2, 3, 4}},
			wantField: "history",
			wantTag:   "max",
			wantMsg:   "history must be at most 3 items",
		},
		{
			name:      "non-positive history id",
			input:     scheduleRequest{History: []int64{1, 0}},
			wantField: "history[1]",
			wantTag:   "gt",
			wantMsg:   "history[1] must be greater than 0",
		},
		{
			name:      "negative calories",
			input:     scheduleRequest{MaxCalories: -1},
			wantField: "max_calories",
			wantTag:   "gte",
			wantMsg:   "max_calories must be greater than or equal to 0",
		},
		{
			name:      "too many days",
			input:     scheduleRequest{Days: 40},
			wantField: "days",
			wantTag:   "max",
			wantMsg:   "days must be at most 31",
		},
		{
			name:      "padded meal type",
			input:     scheduleRequest{MealType: " Sarapan"},
			wantField: "meal_type",
			wantTag:   "mealtype",
			wantMsg:   "meal_type must be a non-blank meal type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			verr := ValidateStruct(&tt.input)
			if tt.wantTag == "" {
				if verr != nil {
					t.Fatalf("ValidateStruct() = %v, want nil", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			errs := verr.Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(errs), verr)
			}
			if errs[0].Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", errs[0].Field(), tt.wantField)
			}
			if errs[0].Tag() != tt.wantTag {
				t.Errorf("Tag() = %q, want %q", errs[0].Tag(), tt.wantTag)
			}
			if !strings.HasPrefix(errs[0].Error(), tt.wantMsg) {
				t.Errorf("Error() = %q, want prefix %q", errs[0].Error(), tt.wantMsg)
			}
		})
	}
}

func TestRequestValidationError_ToAPIError(t *testing.T) {
	t.Parallel()

	t.Run("single", func(t *testing.T) {
		t.Parallel()
		verr := ValidateStruct(&scheduleRequest{Days: 99})
		apiErr := verr.ToAPIError()
		if apiErr.Code != CodeValidation {
			t.Errorf("Code = %q, want %q", apiErr.Code, CodeValidation)
		}
		if apiErr.Details["field"] != "days" {
			t.Errorf("Details[field] = %v, want days", apiErr.Details["field"])
		}
	})

	t.Run("multiple", func(t *testing.T) {
		t.Parallel()
		verr := ValidateStruct(&scheduleRequest{Days: 99, MaxCalories: -5})
		apiErr := verr.ToAPIError()
		fields, ok := apiErr.Details["fields"].([]map[string]interface{})
		if !ok || len(fields) != 2 {
			t.Fatalf("Details[fields] = %v, want 2 entries", apiErr.Details["fields"])
		}
		if !strings.Contains(apiErr.Message, "; ") {
			t.Errorf("Message = %q, want joined messages", apiErr.Message)
		}
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		apiErr := (&RequestValidationError{}).ToAPIError()
		if apiErr.Message != "Validation failed" {
			t.Errorf("Message = %q", apiErr.Message)
		}
	})
}

func TestValidateVar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   interface{}
		tag     string
		wantErr bool
	}{
		{"valid user", "user_01", "required,userid", false},
		{"empty user", "", "required,userid", true},
		{"long user", strings.Repeat("a", 65), "required,userid", true},
		{"slash user", "a/b", "required,userid", true},
		{"positive id", int64(12), "gt=0", false},
		{"zero id", int64(0), "gt=0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			verr := ValidateVar("field", tt.value, tt.tag)
			if (verr != nil) != tt.wantErr {
				t.Fatalf("ValidateVar() = %v, wantErr %v", verr, tt.wantErr)
			}
			if verr != nil && verr.Errors()[0].Field() != "field" {
				t.Errorf("Field() = %q, want field", verr.Errors()[0].Field())
			}
		})
	}
}
