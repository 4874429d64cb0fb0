/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gotest.tools/assert"

	commonerrors "github.com/dinobot22/mineru-tianshu/pkg/errors"
)

func TestError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		errorCode string
		httpCode  int
	}{
		{
			"fmt.error",
			fmt.Errorf("test"),
			commonerrors.InternalError,
			http.StatusInternalServerError,
		},
		{
			"commonErrors.badRequest",
			commonerrors.NewBadRequest("test"),
			commonerrors.BadRequest,
			http.StatusBadRequest,
		},
		{
			"commonErrors.taskNotFound",
			commonerrors.NewTaskNotFound("t1"),
			commonerrors.TaskNotFound,
			http.StatusNotFound,
		},
		{
			"commonErrors.terminal",
			commonerrors.NewTaskTerminal("t1", "completed"),
			commonerrors.TaskTerminal,
			http.StatusConflict,
		},
	}
	gin.SetMode(gin.ReleaseMode)
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rsp := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rsp)
			AbortWithApiError(c, test.err)
			assert.Equal(t, rsp.Code, test.httpCode)

			apiErr := &ApiError{}
			err := json.Unmarshal(rsp.Body.Bytes(), apiErr)
			assert.NilError(t, err)
			assert.Equal(t, apiErr.ErrorCode, test.errorCode)
		})
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		name     string
		size     int64
		expected string
	}{
		{"bytes", 512, "512 B"},
		{"kilobytes", 1024, "1.00 KB"},
		{"megabytes", 1536 * 1024, "1.50 MB"},
		{"gigabytes", 1024 * 1024 * 1024, "1.00 GB"},
		{"zero", 0, "0 B"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, FormatFileSize(tt.size), tt.expected)
		})
	}
}

func TestGetContentType(t *testing.T) {
	assert.Equal(t, GetContentType("a/b/report.md"), "text/markdown")
	assert.Equal(t, GetContentType("x.JSON"), "application/json")
	assert.Equal(t, GetContentType("img.jpeg"), "image/jpeg")
	assert.Equal(t, GetContentType("blob.bin"), "application/octet-stream")
}
