/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

// Package metrics holds the prometheus collectors shared by the apiserver
// and the worker, plus the /metrics handler both processes mount.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TasksSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tianshu_tasks_submitted_total",
		Help: "Tasks accepted by the submission endpoint.",
	}, []string{"backend"})

	TasksCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tianshu_tasks_cancelled_total",
		Help: "Cancellations accepted, both direct and cooperative.",
	})

	TasksClaimed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tianshu_tasks_claimed_total",
		Help: "Tasks claimed by workers.",
	}, []string{"backend"})

	TasksCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tianshu_tasks_completed_total",
		Help: "Tasks completed successfully.",
	}, []string{"backend"})

	TasksFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tianshu_tasks_failed_total",
		Help: "Task failures reported by workers, by retry classification.",
	}, []string{"backend", "retryable"})

	QueueTasks = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tianshu_queue_tasks",
		Help: "Current task count per status, refreshed on stats reads.",
	}, []string{"status"})

	TaskDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tianshu_task_duration_seconds",
		Help:    "Wall time of engine parse runs.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
	}, []string{"backend"})

	MaintenanceRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tianshu_maintenance_runs_total",
		Help: "Maintenance job executions by result.",
	}, []string{"job", "result"})

	WorkerUp = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tianshu_worker_up",
		Help: "Result of the last worker health probe per endpoint.",
	}, []string{"endpoint"})
)

// Handler returns the HTTP handler serving the default prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
