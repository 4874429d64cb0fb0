/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package engine

import (
	"context"
	"path/filepath"

	"k8s.io/klog/v2"
)

// markitdownAdapter converts Office documents, HTML, CSV and EPUB inputs
// through the markitdown CLI. CPU-only; it ignores the device binding.
type markitdownAdapter struct{}

// NewMarkitdownAdapter returns the adapter for office-style documents.
func NewMarkitdownAdapter() Adapter {
	return &markitdownAdapter{}
}

func (a *markitdownAdapter) Name() string { return BackendMarkitdown }

func (a *markitdownAdapter) Supports(fileName string) bool {
	return ResolveAuto(fileName) == BackendMarkitdown
}

func (a *markitdownAdapter) Parse(ctx context.Context, req *Request) (*Result, error) {
	outFile := filepath.Join(req.OutputDir, req.TaskID+".md")
	klog.InfoS("invoking markitdown", "taskId", req.TaskID, "input", req.InputPath)
	output, err := runCommand(ctx, req, "markitdown", req.InputPath, "-o", outFile)
	if err != nil {
		klog.ErrorS(err, "markitdown run failed", "taskId", req.TaskID, "outputTail", tail(output, 512))
		return nil, err
	}
	return &Result{MarkdownFile: req.TaskID + ".md"}, nil
}
