// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package api

import (
	"context"
	"errors"
	"net/http"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/mealplan/internal/catalog"
	"github.com/tomtom215/mealplan/internal/database"
	"github.com/tomtom215/mealplan/internal/logging"
	"github.com/tomtom215/mealplan/internal/preferences"
	"github.com/tomtom215/mealplan/internal/recommend"
	"github.com/tomtom215/mealplan/internal/schedule"
	"github.com/tomtom215/mealplan/internal/validation"
)

// errorStatus maps a domain error to an HTTP status and error code.
// Unrecognized errors map to 500.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, recommend.ErrUnknownMealType):
		return http.StatusBadRequest, ErrCodeUnknownMealType
	case errors.Is(err, recommend.ErrInvalidCount),
		errors.Is(err, schedule.ErrInvalidDays),
		errors.Is(err, preferences.ErrEmptyUserID):
		return http.StatusBadRequest, ErrCodeBadRequest
	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, database.ErrNotFound),
		errors.Is(err, preferences.ErrNotFound):
		return http.StatusNotFound, ErrCodeNotFound
	case errors.Is(err, recommend.ErrTrainingInProgress):
		return http.StatusConflict, ErrCodeConflict
	case errors.Is(err, recommend.ErrTrainingThrottled):
		return http.StatusTooManyRequests, ErrCodeTooManyRequests
	case errors.Is(err, recommend.ErrNotReady):
		return http.StatusServiceUnavailable, ErrCodeModelNotReady
	case errors.Is(err, gobreaker.ErrOpenState),
		errors.Is(err, gobreaker.ErrTooManyRequests):
		return http.StatusServiceUnavailable, ErrCodeServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrCodeTimeout
	default:
		return http.StatusInternalServerError, ErrCodeInternalError
	}
}

// DomainError writes err using errorStatus. Client errors echo the error
// text; server errors are logged and replaced by a generic message.
func (rw *ResponseWriter) DomainError(err error) {
	status, code := errorStatus(err)
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		logging.Ctx(rw.r.Context()).Error().Err(err).Str("code", code).Msg("request failed")
		rw.Error(status, code, http.StatusText(status))
		return
	}
	rw.Error(status, code, err.Error())
}

// Validation writes a validation failure.
func (rw *ResponseWriter) Validation(verr *validation.RequestValidationError) {
	apiErr := verr.ToAPIError()
	rw.ErrorWithDetails(http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
}
