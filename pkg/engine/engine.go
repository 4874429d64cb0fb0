/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

// Package engine defines the adapter contract between the worker runtime and
// the external parsing engines, plus the registry the worker dispatches
// through. The core treats every engine as a black-box callable; the only
// semantics it relies on are the artifact paths an adapter reports and the
// transient/permanent classification of its failures.
package engine

import (
	"context"
	"errors"
	"fmt"
)

// Backend names of the built-in adapters.
const (
	BackendPipeline    = "pipeline"
	BackendPaddleOCRVL = "paddleocr-vl"
	BackendMarkitdown  = "markitdown"
	BackendSensevoice  = "sensevoice"
	BackendVideo       = "video"
	BackendFasta       = "fasta"
	BackendGenbank     = "genbank"
)

// Request carries everything an adapter needs for one parse run. Cancelled
// is the cooperative cancellation checkpoint supplied by the worker;
// adapters that cannot honor it run to completion and the runtime discards
// the result afterwards.
type Request struct {
	TaskID    string
	InputPath string
	OutputDir string
	Device    string
	Options   map[string]interface{}
	Cancelled func() bool
}

// Result reports the artifacts produced by a parse run, as paths relative
// to the request's OutputDir.
type Result struct {
	MarkdownFile string
	JSONFile     string
}

// Adapter is the engine contract. Implementations must be safe for
// concurrent Parse calls from different worker slots.
type Adapter interface {
	Name() string
	// Supports reports whether the adapter can handle the given file name,
	// judged by extension. Used by auto resolution.
	Supports(fileName string) bool
	Parse(ctx context.Context, req *Request) (*Result, error)
}

// ErrCancelled is returned by adapters that observed the cancellation
// checkpoint mid-run.
var ErrCancelled = errors.New("parse cancelled")

type classifiedError struct {
	err       error
	transient bool
}

func (e *classifiedError) Error() string { return e.err.Error() }
func (e *classifiedError) Unwrap() error { return e.err }

// Transient marks an engine failure as retryable: OOM, model warmup,
// crashes, I/O blips.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &classifiedError{err: err, transient: true}
}

// Transientf is Transient over a formatted error.
func Transientf(format string, args ...interface{}) error {
	return Transient(fmt.Errorf(format, args...))
}

// Permanent marks an engine failure as non-retryable: unsupported input,
// schema violations.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &classifiedError{err: err, transient: false}
}

// Permanentf is Permanent over a formatted error.
func Permanentf(format string, args ...interface{}) error {
	return Permanent(fmt.Errorf(format, args...))
}

// IsTransient reports whether the worker should retry the task. Unclassified
// errors default to transient so that engine bugs do not burn tasks.
func IsTransient(err error) bool {
	var classified *classifiedError
	if errors.As(err, &classified) {
		return classified.transient
	}
	return !errors.Is(err, ErrCancelled)
}
