/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

// Package maintenance runs the background janitor jobs of the apiserver:
// stale-task recovery, retention cleanup and worker health probing. Jobs are
// best effort; a failing run is logged and counted, never fatal.
package maintenance

import (
	"context"
	"math/rand"
	"time"

	"k8s.io/klog/v2"

	"github.com/dinobot22/mineru-tianshu/pkg/metrics"
)

const (
	// startupGrace delays the first run so jobs never race process startup.
	startupGrace = 30 * time.Second

	resultOK    = "ok"
	resultError = "error"
)

// Job is one periodic maintenance task.
type Job interface {
	Name() string
	Interval() time.Duration
	// Run executes one round and returns how many items it affected.
	Run(ctx context.Context) (int64, error)
}

// Runner drives a set of jobs, one goroutine each, until the context ends.
type Runner struct {
	jobs []Job
}

// NewRunner creates a runner over the given jobs. Nil jobs are skipped.
func NewRunner(jobs ...Job) *Runner {
	r := &Runner{}
	for _, job := range jobs {
		if job != nil {
			r.jobs = append(r.jobs, job)
		}
	}
	return r
}

// Start launches every job loop. It returns immediately; the loops stop when
// ctx is cancelled.
func (r *Runner) Start(ctx context.Context) {
	for _, job := range r.jobs {
		go r.loop(ctx, job)
	}
}

func (r *Runner) loop(ctx context.Context, job Job) {
	// Jitter spreads multiple apiservers hitting the store at once.
	grace := startupGrace + time.Duration(rand.Int63n(int64(startupGrace)))
	if !sleep(ctx, grace) {
		return
	}
	klog.InfoS("maintenance job started", "job", job.Name(), "interval", job.Interval().String())
	for {
		count, err := job.Run(ctx)
		if err != nil {
			metrics.MaintenanceRuns.WithLabelValues(job.Name(), resultError).Inc()
			klog.ErrorS(err, "maintenance job run failed", "job", job.Name())
		} else {
			metrics.MaintenanceRuns.WithLabelValues(job.Name(), resultOK).Inc()
			if count > 0 {
				klog.InfoS("maintenance job run finished", "job", job.Name(), "affected", count)
			}
		}
		if !sleep(ctx, job.Interval()) {
			klog.InfoS("maintenance job stopped", "job", job.Name())
			return
		}
	}
}

// sleep waits for d or the context, reporting whether the caller should
// continue.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
