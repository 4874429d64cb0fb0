/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package engine

import (
	"context"
	"fmt"
	"strings"

	"k8s.io/klog/v2"
)

// mineruAdapter drives the MinerU document CLI. One binary serves both the
// pipeline and the paddleocr-vl backends, selected through -b.
type mineruAdapter struct {
	backend string
	binary  string
}

// NewPipelineAdapter returns the adapter for the general document pipeline.
func NewPipelineAdapter() Adapter {
	return &mineruAdapter{backend: BackendPipeline, binary: "mineru"}
}

// NewPaddleOCRVLAdapter returns the adapter for the paddleocr-vl OCR model.
func NewPaddleOCRVLAdapter() Adapter {
	return &mineruAdapter{backend: BackendPaddleOCRVL, binary: "mineru"}
}

func (a *mineruAdapter) Name() string { return a.backend }

func (a *mineruAdapter) Supports(fileName string) bool {
	return ResolveAuto(fileName) == BackendPipeline
}

func (a *mineruAdapter) Parse(ctx context.Context, req *Request) (*Result, error) {
	args := []string{"-p", req.InputPath, "-o", req.OutputDir, "-b", a.backend}
	args = append(args, a.optionArgs(req.Options)...)

	klog.InfoS("invoking mineru", "taskId", req.TaskID, "backend", a.backend, "device", req.Device)
	output, err := runCommand(ctx, req, a.binary, args...)
	if err != nil {
		klog.ErrorS(err, "mineru run failed", "taskId", req.TaskID, "backend", a.backend,
			"outputTail", tail(output, 512))
		return nil, err
	}
	// MinerU nests artifacts under <stem>/auto/; normalize to task-id names.
	return collectArtifacts(req.OutputDir, req.TaskID)
}

// optionArgs translates the engine-opaque option map into mineru CLI flags.
// Unknown options are dropped: the submitter's option map is a superset
// shared by every backend.
func (a *mineruAdapter) optionArgs(options map[string]interface{}) []string {
	var args []string
	if lang := optString(options, "lang"); lang != "" {
		args = append(args, "-l", lang)
	}
	if method := optString(options, "method"); method != "" {
		args = append(args, "-m", method)
	}
	if optBool(options, "formula_enable", true) {
		args = append(args, "-f", "true")
	} else {
		args = append(args, "-f", "false")
	}
	if optBool(options, "table_enable", true) {
		args = append(args, "-t", "true")
	} else {
		args = append(args, "-t", "false")
	}
	return args
}

func optString(options map[string]interface{}, key string) string {
	if options == nil {
		return ""
	}
	if val, ok := options[key]; ok {
		return strings.TrimSpace(fmt.Sprintf("%v", val))
	}
	return ""
}

func optBool(options map[string]interface{}, key string, fallback bool) bool {
	if options == nil {
		return fallback
	}
	val, ok := options[key]
	if !ok {
		return fallback
	}
	switch v := val.(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true") || v == "1"
	default:
		return fallback
	}
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
