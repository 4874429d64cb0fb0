/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

// Package worker is the pull-based task consumer: each slot claims one task
// at a time from the store, drives the engine adapter and reports the
// outcome back. Slots never hold more than one claim so a crash loses at
// most one in-flight task, which the stale reset later recovers.
package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"k8s.io/klog/v2"

	dbclient "github.com/dinobot22/mineru-tianshu/pkg/database/client"
	"github.com/dinobot22/mineru-tianshu/pkg/engine"
	commonerrors "github.com/dinobot22/mineru-tianshu/pkg/errors"
	"github.com/dinobot22/mineru-tianshu/pkg/metrics"
)

// cancelCheckInterval rate-limits the store reads behind the cooperative
// cancellation checkpoint.
const cancelCheckInterval = 2 * time.Second

// Runner is one worker slot pinned to a device.
type Runner struct {
	store        dbclient.TaskStore
	workerID     string
	device       string
	backends     []string
	outputRoot   string
	pollInterval time.Duration
	poke         chan struct{}
	current      atomic.Value // task id in flight, "" when idle
}

// NewRunner creates one slot. backends empty means the slot claims any
// registered backend.
func NewRunner(store dbclient.TaskStore, workerID, device string, backends []string,
	outputRoot string, pollInterval time.Duration) *Runner {
	return &Runner{
		store:        store,
		workerID:     workerID,
		device:       device,
		backends:     backends,
		outputRoot:   outputRoot,
		pollInterval: pollInterval,
		poke:         make(chan struct{}, 1),
	}
}

// WorkerID returns the slot's worker identity.
func (r *Runner) WorkerID() string { return r.workerID }

// Device returns the slot's device binding.
func (r *Runner) Device() string { return r.device }

// Current returns the task id in flight, empty when the slot is idle.
func (r *Runner) Current() string {
	if v, ok := r.current.Load().(string); ok {
		return v
	}
	return ""
}

// Poke wakes the slot out of its poll sleep. Non-blocking; a slot that is
// already awake drops the signal.
func (r *Runner) Poke() {
	select {
	case r.poke <- struct{}{}:
	default:
	}
}

// Run drives the claim loop until the context ends.
func (r *Runner) Run(ctx context.Context) {
	klog.InfoS("worker slot started", "workerId", r.workerID,
		"device", r.device, "backends", r.backends)
	for {
		if ctx.Err() != nil {
			klog.InfoS("worker slot stopped", "workerId", r.workerID)
			return
		}
		task, err := r.store.ClaimNextTask(ctx, r.workerID, r.backends)
		if err != nil {
			if !commonerrors.IsNotFound(err) {
				klog.ErrorS(err, "claim failed", "workerId", r.workerID)
			}
			if !r.sleep(ctx) {
				klog.InfoS("worker slot stopped", "workerId", r.workerID)
				return
			}
			continue
		}
		r.processTask(ctx, task)
	}
}

// sleep waits for the poll interval, a poke or the context, reporting
// whether the loop should continue.
func (r *Runner) sleep(ctx context.Context) bool {
	timer := time.NewTimer(r.pollInterval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-r.poke:
		return true
	case <-timer.C:
		return true
	}
}

// processTask runs one claimed task end to end. Every exit path reports an
// outcome to the store; a panic inside the adapter is downgraded to a
// transient failure so the retry budget decides its fate.
func (r *Runner) processTask(ctx context.Context, task *dbclient.Task) {
	r.current.Store(task.TaskId)
	defer r.current.Store("")

	backend := task.Backend
	if backend == engine.BackendAuto {
		backend = engine.ResolveAuto(task.FileName)
		klog.InfoS("auto backend resolved", "taskId", task.TaskId,
			"fileName", task.FileName, "backend", backend)
	}
	metrics.TasksClaimed.WithLabelValues(backend).Inc()
	klog.InfoS("task claimed", "taskId", task.TaskId, "workerId", r.workerID,
		"backend", backend, "retryCount", task.RetryCount)

	adapter, ok := engine.Get(backend)
	if !ok {
		r.fail(ctx, task, backend, "",
			engine.Permanentf("no adapter registered for backend %s", backend))
		return
	}

	outputDir := filepath.Join(r.outputRoot, task.TaskId)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		r.fail(ctx, task, backend, outputDir, engine.Transientf("failed to create output dir: %v", err))
		return
	}

	req := &engine.Request{
		TaskID:    task.TaskId,
		InputPath: task.FilePath,
		OutputDir: outputDir,
		Device:    r.device,
		Options:   task.Options,
		Cancelled: r.cancelChecker(ctx, task.TaskId),
	}

	start := time.Now()
	result, err := r.parse(ctx, adapter, req)
	duration := time.Since(start)
	metrics.TaskDuration.WithLabelValues(backend).Observe(duration.Seconds())

	if err != nil {
		r.fail(ctx, task, backend, outputDir, err)
		return
	}

	mdFile := joinArtifact(outputDir, result.MarkdownFile)
	jsonFile := joinArtifact(outputDir, result.JSONFile)
	if err = r.store.CompleteTask(ctx, task.TaskId, r.workerID, outputDir, mdFile, jsonFile); err != nil {
		klog.ErrorS(err, "failed to report completion", "taskId", task.TaskId)
		return
	}
	metrics.TasksCompleted.WithLabelValues(backend).Inc()
	klog.InfoS("task completed", "taskId", task.TaskId, "workerId", r.workerID,
		"backend", backend, "duration", duration.String())
}

// parse invokes the adapter with panic containment.
func (r *Runner) parse(ctx context.Context, adapter engine.Adapter, req *engine.Request) (result *engine.Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			klog.ErrorS(nil, "adapter panicked", "taskId", req.TaskID,
				"backend", adapter.Name(), "panic", rec)
			result = nil
			err = engine.Transientf("adapter %s panicked: %v", adapter.Name(), rec)
		}
	}()
	result, err = adapter.Parse(ctx, req)
	if err == nil && result == nil {
		err = engine.Transientf("adapter %s returned no result", adapter.Name())
	}
	return result, err
}

func (r *Runner) fail(ctx context.Context, task *dbclient.Task, backend, outputDir string, parseErr error) {
	retryable := engine.IsTransient(parseErr)
	metrics.TasksFailed.WithLabelValues(backend, fmt.Sprintf("%t", retryable)).Inc()
	klog.ErrorS(parseErr, "task failed", "taskId", task.TaskId,
		"workerId", r.workerID, "backend", backend, "retryable", retryable)
	if err := r.store.FailTask(ctx, task.TaskId, r.workerID, parseErr.Error(), retryable); err != nil {
		klog.ErrorS(err, "failed to report failure", "taskId", task.TaskId)
		return
	}
	r.discardIfCancelled(ctx, task.TaskId, outputDir)
}

// discardIfCancelled removes the partial output of a task whose failure
// report landed as a cancellation, mirroring the post-hoc discard on the
// completion path.
func (r *Runner) discardIfCancelled(ctx context.Context, taskID, outputDir string) {
	if outputDir == "" {
		return
	}
	task, err := r.store.GetTask(ctx, taskID)
	if err != nil || task.Status != dbclient.TaskStatusCancelled {
		return
	}
	if err = os.RemoveAll(outputDir); err != nil {
		klog.ErrorS(err, "failed to remove discarded output dir", "taskId", taskID, "dir", outputDir)
		return
	}
	klog.InfoS("partial output discarded on cancellation", "taskId", taskID, "dir", outputDir)
}

// cancelChecker returns the cooperative cancellation checkpoint handed to
// adapters. It re-reads the task at most every cancelCheckInterval; once a
// cancellation is observed the answer sticks.
func (r *Runner) cancelChecker(ctx context.Context, taskID string) func() bool {
	var lastCheck time.Time
	cancelled := false
	return func() bool {
		if cancelled {
			return true
		}
		if time.Since(lastCheck) < cancelCheckInterval {
			return false
		}
		lastCheck = time.Now()
		task, err := r.store.GetTask(ctx, taskID)
		if err != nil {
			return false
		}
		cancelled = task.CancelRequested
		return cancelled
	}
}

func joinArtifact(outputDir, name string) string {
	if name == "" {
		return ""
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(outputDir, name)
}
