/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package utils

import (
	"errors"

	"github.com/gin-gonic/gin"

	commonerrors "github.com/dinobot22/mineru-tianshu/pkg/errors"
)

// ApiError defines the unified error response, including HTTP code, error
// code, and error message.
type ApiError struct {
	HttpCode     int    `json:"-"`
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

// Error returns the error message string.
func (err *ApiError) Error() string {
	return err.ErrorMessage
}

// AbortWithApiError handles the error, converts it into a standardized error
// format, and returns it to the Gin framework. It processes the error and
// converts it to an ApiError response, then aborts the request with a JSON
// error response.
func AbortWithApiError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	rsp := convertToErrResponse(err)
	c.AbortWithStatusJSON(rsp.HttpCode, rsp)
}

// convertToErrResponse converts an error into a standardized ApiError.
// Errors that already carry a status are passed through; anything else is
// reported as an internal error.
func convertToErrResponse(err error) ApiError {
	var result *ApiError
	if errors.As(err, &result) {
		return *result
	}
	var statusErr *commonerrors.StatusError
	if !errors.As(err, &statusErr) {
		statusErr = commonerrors.NewInternalError(err.Error())
	}
	return ApiError{
		HttpCode:     int(statusErr.Status().Code),
		ErrorCode:    statusErr.Status().Reason,
		ErrorMessage: statusErr.Error(),
	}
}
