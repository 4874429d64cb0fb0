/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package client

import (
	"context"
	"time"
)

// TaskStore is the contract the queue service, the worker runtime and the
// maintenance jobs rely on. All multi-step mutations execute as a single
// transaction; the implementation is safe for concurrent callers.
type TaskStore interface {
	// InsertTask persists a brand-new pending task. A colliding task_id
	// yields an already-exist error.
	InsertTask(ctx context.Context, task *Task) error
	// GetTask returns the full row, or a task-not-found error.
	GetTask(ctx context.Context, taskID string) (*Task, error)
	// ClaimNextTask atomically transitions the best pending task to
	// processing on behalf of workerID. An empty backends slice claims
	// across every backend. A task-not-found error means the queue is
	// drained for this worker.
	ClaimNextTask(ctx context.Context, workerID string, backends []string) (*Task, error)
	// CompleteTask finishes a processing task owned by workerID. When a
	// cancellation was requested mid-run the result is discarded and the
	// task ends up cancelled instead of completed.
	CompleteTask(ctx context.Context, taskID, workerID, resultDir, markdownFile, jsonFile string) error
	// FailTask records a failure. Retryable failures below the retry budget
	// send the task back to pending; everything else is terminal.
	FailTask(ctx context.Context, taskID, workerID, errMsg string, retryable bool) error
	// CancelTask cancels a pending task outright, or flags a processing one
	// for cooperative cancellation (inFlight=true). Terminal tasks conflict.
	CancelTask(ctx context.Context, taskID string) (cancelled bool, inFlight bool, err error)
	// ResetStaleTasks requeues processing tasks whose started_at is older
	// than the threshold, charging one retry; exhausted tasks fail with
	// error "stale". Returns the number of tasks touched.
	ResetStaleTasks(ctx context.Context, threshold time.Duration) (int64, error)
	// PurgeOldTasks hard-deletes terminal tasks older than the retention
	// together with their artifact and upload directories.
	PurgeOldTasks(ctx context.Context, retention time.Duration, outputRoot, uploadRoot string) (int64, error)
	// CountTasksByStatus returns the per-status row counts.
	CountTasksByStatus(ctx context.Context) (map[string]int64, error)
	// SelectTasks returns one page of tasks plus the total match count.
	SelectTasks(ctx context.Context, filter *TaskFilter) ([]*Task, int64, error)
	// ListTransitions returns the audit trail of one task, oldest first.
	ListTransitions(ctx context.Context, taskID string) ([]*TaskTransition, error)
	// Ping checks store liveness.
	Ping(ctx context.Context) error
}

var _ TaskStore = &Client{}
