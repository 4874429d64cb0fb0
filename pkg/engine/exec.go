/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"k8s.io/klog/v2"
)

// cancelPollInterval is how often a running external engine is checked
// against the cooperative cancellation flag.
const cancelPollInterval = 2 * time.Second

var transientMarkers = []string{
	"out of memory", "oom", "cuda", "hip error", "device busy",
	"timeout", "timed out", "temporarily", "connection refused",
	"connection reset", "model is loading", "warming up",
}

var permanentMarkers = []string{
	"unsupported", "unrecognized format", "invalid input", "corrupt",
	"cannot identify", "no such file", "password", "encrypted",
}

// runCommand executes an external engine binary, pinning it to the request's
// device and watching the cancellation checkpoint. The combined output is
// returned for classification.
func runCommand(ctx context.Context, req *Request, name string, args ...string) (string, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	cmd := exec.CommandContext(runCtx, name, args...)
	cmd.Env = append(os.Environ(), deviceEnv(req.Device)...)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Start(); err != nil {
		return "", Transientf("failed to start %s: %v", name, err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	ticker := time.NewTicker(cancelPollInterval)
	defer ticker.Stop()
	for {
		select {
		case err := <-done:
			if err == nil {
				return output.String(), nil
			}
			return output.String(), classifyExecError(name, err, output.String())
		case <-ticker.C:
			if req.Cancelled != nil && req.Cancelled() {
				cancel()
				<-done
				return output.String(), ErrCancelled
			}
		case <-ctx.Done():
			<-done
			return output.String(), Transientf("%s interrupted: %v", name, ctx.Err())
		}
	}
}

// deviceEnv renders the device binding for an engine process. CPU workers
// hide every accelerator from the engine.
func deviceEnv(device string) []string {
	if device == "" {
		return nil
	}
	if strings.EqualFold(device, "cpu") {
		return []string{"CUDA_VISIBLE_DEVICES=", "HIP_VISIBLE_DEVICES="}
	}
	return []string{
		"CUDA_VISIBLE_DEVICES=" + device,
		"HIP_VISIBLE_DEVICES=" + device,
	}
}

// classifyExecError maps an engine process failure to the retry taxonomy.
// Output markers win over exit status; a crash with no recognizable marker
// is treated as transient so a flaky engine does not burn the task.
func classifyExecError(name string, err error, output string) error {
	lower := strings.ToLower(output)
	for _, marker := range permanentMarkers {
		if strings.Contains(lower, marker) {
			return Permanentf("%s failed (%s): %v", name, marker, err)
		}
	}
	for _, marker := range transientMarkers {
		if strings.Contains(lower, marker) {
			return Transientf("%s failed (%s): %v", name, marker, err)
		}
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == -1 {
		// Killed by signal.
		return Transientf("%s crashed: %v", name, err)
	}
	return Transientf("%s exited with error: %v", name, err)
}

// collectArtifacts locates the markdown and JSON files an engine left under
// outputDir (engines such as MinerU nest them under <name>/auto/) and
// normalizes them into <task_id>.md / <task_id>.json at the directory root.
func collectArtifacts(outputDir, taskID string) (*Result, error) {
	mdPath := findArtifact(outputDir, ".md")
	if mdPath == "" {
		return nil, Permanentf("engine produced no markdown under %s", outputDir)
	}
	result := &Result{MarkdownFile: taskID + ".md"}
	if err := moveArtifact(mdPath, filepath.Join(outputDir, result.MarkdownFile)); err != nil {
		return nil, Transient(err)
	}
	if jsonPath := findArtifact(outputDir, ".json"); jsonPath != "" {
		result.JSONFile = taskID + ".json"
		if err := moveArtifact(jsonPath, filepath.Join(outputDir, result.JSONFile)); err != nil {
			klog.ErrorS(err, "failed to normalize json artifact", "taskId", taskID)
			result.JSONFile = ""
		}
	}
	return result, nil
}

// findArtifact returns the first file with the given extension under root,
// walking breadth-last so shallower files win.
func findArtifact(root, ext string) string {
	var found string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ext) {
			if found == "" || len(path) < len(found) {
				found = path
			}
		}
		return nil
	})
	return found
}

func moveArtifact(from, to string) error {
	if from == to {
		return nil
	}
	if err := os.Rename(from, to); err != nil {
		return fmt.Errorf("failed to move artifact %s: %w", from, err)
	}
	return nil
}
