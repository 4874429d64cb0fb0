/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		name     string
		err      *StatusError
		reason   string
		httpCode int32
		check    func(error) bool
	}{
		{"bad request", NewBadRequest("x"), BadRequest, http.StatusBadRequest, IsBadRequest},
		{"not found", NewNotFoundWithMessage("x"), NotFound, http.StatusNotFound, IsNotFound},
		{"task not found", NewTaskNotFound("t1"), TaskNotFound, http.StatusNotFound, IsNotFound},
		{"forbidden", NewForbidden("x"), Forbidden, http.StatusForbidden, IsForbidden},
		{"conflict", NewConflict("x"), Conflict, http.StatusConflict, IsConflict},
		{"terminal task", NewTaskTerminal("t1", "completed"), TaskTerminal, http.StatusConflict, IsConflict},
		{"claim mismatch", NewClaimMismatch("t1", "w1"), ClaimMismatch, http.StatusConflict, IsConflict},
		{"already exist", NewAlreadyExist("x"), AlreadyExist, http.StatusConflict, IsAlreadyExist},
		{"unauthorized", NewUnauthorized("x"), Unauthorized, http.StatusUnauthorized, IsUnauthorized},
		{"store unavailable", NewStoreUnavailable("x"), StoreUnavailable, http.StatusServiceUnavailable, IsStoreUnavailable},
		{"unknown backend", NewUnknownBackend("x"), UnknownBackend, http.StatusBadRequest, IsBadRequest},
		{"internal", NewInternalError("x"), InternalError, http.StatusInternalServerError, IsInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.reason, ReasonForError(tt.err))
			assert.Equal(t, tt.httpCode, tt.err.Status().Code)
			assert.True(t, tt.check(tt.err))
			assert.True(t, IsTianshu(tt.err))
		})
	}
}

func TestForeignError(t *testing.T) {
	err := fmt.Errorf("plain")
	assert.False(t, IsTianshu(err))
	assert.Equal(t, "", GetErrorCode(err))
	assert.Equal(t, http.StatusInternalServerError, CodeForError(err))
	assert.False(t, IsNotFound(err))
}

func TestWrappedError(t *testing.T) {
	inner := NewTaskNotFound("t9")
	wrapped := fmt.Errorf("lookup failed: %w", inner)
	assert.True(t, IsNotFound(wrapped))
	assert.Equal(t, TaskNotFound, GetErrorCode(wrapped))
	assert.NoError(t, IgnoreNotFound(wrapped))
	assert.Error(t, IgnoreNotFound(NewConflict("c")))
}
