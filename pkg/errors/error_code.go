/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package errors

import "strings"

const TianshuPrefix = "Tianshu."

/*
   5-digit Error Code Convention: [xx][yyy]
   [xx] Business ID (00-99), used to distinguish errors from different business interfaces.
   00: General errors
   01: Task-related errors
   02: Queue/worker-related errors
   [yyy] Error code range (000-999)
*/

// public: 00xxx
const (
	InternalError         = TianshuPrefix + "00001"
	BadRequest            = TianshuPrefix + "00002"
	Forbidden             = TianshuPrefix + "00003"
	AlreadyExist          = TianshuPrefix + "00004"
	NotFound              = TianshuPrefix + "00005"
	RequestEntityTooLarge = TianshuPrefix + "00006"
	Unauthorized          = TianshuPrefix + "00007"
	Conflict              = TianshuPrefix + "00008"
	StoreUnavailable      = TianshuPrefix + "00009"
)

// task: 01xxx
const (
	TaskNotFound   = TianshuPrefix + "01001"
	TaskTerminal   = TianshuPrefix + "01002"
	UnknownBackend = TianshuPrefix + "01003"
)

// queue/worker: 02xxx
const (
	ClaimMismatch = TianshuPrefix + "02001"
)

// IsTianshu returns true if the specified error carries a platform error code.
func IsTianshu(err error) bool {
	if err == nil {
		return false
	}
	return strings.HasPrefix(ReasonForError(err), TianshuPrefix)
}

func IsAlreadyExist(err error) bool {
	return ReasonForError(err) == AlreadyExist
}

func IsBadRequest(err error) bool {
	reason := ReasonForError(err)
	return reason == BadRequest || reason == UnknownBackend
}

func IsInternal(err error) bool {
	return ReasonForError(err) == InternalError
}

func IsNotFound(err error) bool {
	reason := ReasonForError(err)
	return reason == NotFound || reason == TaskNotFound
}

func IsForbidden(err error) bool {
	return ReasonForError(err) == Forbidden
}

func IsUnauthorized(err error) bool {
	return ReasonForError(err) == Unauthorized
}

func IsConflict(err error) bool {
	reason := ReasonForError(err)
	return reason == Conflict || reason == TaskTerminal || reason == ClaimMismatch || reason == AlreadyExist
}

func IsStoreUnavailable(err error) bool {
	return ReasonForError(err) == StoreUnavailable
}

// IgnoreNotFound returns nil if the error is a not-found error, the error
// itself otherwise.
func IgnoreNotFound(err error) error {
	if err == nil || IsNotFound(err) {
		return nil
	}
	return err
}

// GetErrorCode returns the platform error code of the error, or the empty
// string for foreign errors.
func GetErrorCode(err error) string {
	if err == nil || !IsTianshu(err) {
		return ""
	}
	return ReasonForError(err)
}
