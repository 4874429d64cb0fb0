/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Status carries the HTTP code, the machine-readable reason and the
// human-readable message of an API error.
type Status struct {
	Code    int32  `json:"code"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// StatusError is the unified error carrier of the platform. Every error that
// crosses a package boundary is either a *StatusError or gets wrapped into
// one at the HTTP edge.
type StatusError struct {
	ErrStatus Status
}

// Error returns the error message string.
func (e *StatusError) Error() string {
	return e.ErrStatus.Message
}

// Status returns the underlying status of the error.
func (e *StatusError) Status() Status {
	return e.ErrStatus
}

// ReasonForError returns the error code of the given error, or the empty
// string if the error does not carry one.
func ReasonForError(err error) string {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.ErrStatus.Reason
	}
	return ""
}

// CodeForError returns the HTTP status code of the given error, or 500 if
// the error does not carry one.
func CodeForError(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return int(statusErr.ErrStatus.Code)
	}
	return http.StatusInternalServerError
}

func NewBadRequest(message string) *StatusError {
	return &StatusError{ErrStatus: Status{
		Code:    http.StatusBadRequest,
		Reason:  BadRequest,
		Message: fmt.Sprintf("Bad request. %s", message),
	}}
}

func NewInternalError(message string) *StatusError {
	return &StatusError{ErrStatus: Status{
		Code:    http.StatusInternalServerError,
		Reason:  InternalError,
		Message: fmt.Sprintf("Internal error. %s", message),
	}}
}

func NewAlreadyExist(message string) *StatusError {
	return &StatusError{ErrStatus: Status{
		Code:    http.StatusConflict,
		Reason:  AlreadyExist,
		Message: message,
	}}
}

func NewForbidden(message string) *StatusError {
	return &StatusError{ErrStatus: Status{
		Code:    http.StatusForbidden,
		Reason:  Forbidden,
		Message: message,
	}}
}

func NewNotFoundWithMessage(message string) *StatusError {
	return &StatusError{ErrStatus: Status{
		Code:    http.StatusNotFound,
		Reason:  NotFound,
		Message: message,
	}}
}

func NewConflict(message string) *StatusError {
	return &StatusError{ErrStatus: Status{
		Code:    http.StatusConflict,
		Reason:  Conflict,
		Message: message,
	}}
}

func NewUnauthorized(message string) *StatusError {
	return &StatusError{ErrStatus: Status{
		Code:    http.StatusUnauthorized,
		Reason:  Unauthorized,
		Message: message,
	}}
}

func NewRequestEntityTooLargeError(message string) *StatusError {
	return &StatusError{ErrStatus: Status{
		Code:    http.StatusRequestEntityTooLarge,
		Reason:  RequestEntityTooLarge,
		Message: fmt.Sprintf("Request entity is too large: %s", message),
	}}
}

// NewStoreUnavailable signals that the task store cannot be reached. Callers
// are expected to retry.
func NewStoreUnavailable(message string) *StatusError {
	return &StatusError{ErrStatus: Status{
		Code:    http.StatusServiceUnavailable,
		Reason:  StoreUnavailable,
		Message: fmt.Sprintf("Store unavailable. %s", message),
	}}
}

func NewTaskNotFound(taskID string) *StatusError {
	return &StatusError{ErrStatus: Status{
		Code:    http.StatusNotFound,
		Reason:  TaskNotFound,
		Message: fmt.Sprintf("task %s not found", taskID),
	}}
}

// NewTaskTerminal signals a mutation attempt on a task that already reached
// a terminal state.
func NewTaskTerminal(taskID, status string) *StatusError {
	return &StatusError{ErrStatus: Status{
		Code:    http.StatusConflict,
		Reason:  TaskTerminal,
		Message: fmt.Sprintf("task %s is already %s", taskID, status),
	}}
}

func NewUnknownBackend(backend string) *StatusError {
	return &StatusError{ErrStatus: Status{
		Code:    http.StatusBadRequest,
		Reason:  UnknownBackend,
		Message: fmt.Sprintf("unknown backend %q", backend),
	}}
}

func NewClaimMismatch(taskID, workerID string) *StatusError {
	return &StatusError{ErrStatus: Status{
		Code:    http.StatusConflict,
		Reason:  ClaimMismatch,
		Message: fmt.Sprintf("task %s is not owned by worker %s", taskID, workerID),
	}}
}
