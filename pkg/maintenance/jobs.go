/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package maintenance

import (
	"context"
	"time"

	commonconfig "github.com/dinobot22/mineru-tianshu/pkg/config"
	dbclient "github.com/dinobot22/mineru-tianshu/pkg/database/client"
)

// staleReset requeues processing tasks whose worker went silent. The
// threshold and cadence come from configuration so operators can tune them
// to their longest expected parse.
type staleReset struct {
	store dbclient.TaskStore
}

// NewStaleReset creates the stale-task recovery job.
func NewStaleReset(store dbclient.TaskStore) Job {
	return &staleReset{store: store}
}

func (j *staleReset) Name() string { return "stale-reset" }

func (j *staleReset) Interval() time.Duration {
	return time.Duration(commonconfig.GetResetIntervalMinute()) * time.Minute
}

func (j *staleReset) Run(ctx context.Context) (int64, error) {
	threshold := time.Duration(commonconfig.GetStaleTimeoutMinute()) * time.Minute
	return j.store.ResetStaleTasks(ctx, threshold)
}

// retentionCleanup purges terminal tasks past retention together with their
// upload and output directories.
type retentionCleanup struct {
	store dbclient.TaskStore
}

// NewRetentionCleanup creates the retention purge job.
func NewRetentionCleanup(store dbclient.TaskStore) Job {
	return &retentionCleanup{store: store}
}

func (j *retentionCleanup) Name() string { return "retention-cleanup" }

func (j *retentionCleanup) Interval() time.Duration {
	return time.Duration(commonconfig.GetPurgeIntervalHour()) * time.Hour
}

func (j *retentionCleanup) Run(ctx context.Context) (int64, error) {
	retention := time.Duration(commonconfig.GetPurgeRetentionDays()) * 24 * time.Hour
	return j.store.PurgeOldTasks(ctx, retention,
		commonconfig.GetOutputRoot(), commonconfig.GetUploadRoot())
}
