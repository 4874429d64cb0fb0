/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

// Package queue is the semantic layer between the HTTP facade and the task
// store: principal checks, backend normalization, defaults, and the
// translation of store errors into the platform taxonomy.
package queue

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"k8s.io/klog/v2"

	commonconfig "github.com/dinobot22/mineru-tianshu/pkg/config"
	dbclient "github.com/dinobot22/mineru-tianshu/pkg/database/client"
	"github.com/dinobot22/mineru-tianshu/pkg/engine"
	commonerrors "github.com/dinobot22/mineru-tianshu/pkg/errors"
	"github.com/dinobot22/mineru-tianshu/pkg/handlers/authority"
	"github.com/dinobot22/mineru-tianshu/pkg/metrics"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// ClampPage normalizes list pagination: non-positive limits fall back to
// DefaultListLimit, limits above MaxListLimit are capped and negative
// offsets become zero.
func ClampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// SubmitRequest carries a validated upload into the queue. Options are
// opaque to the core and travel to the engine adapter untouched.
type SubmitRequest struct {
	// TaskId is normally empty; the facade pre-assigns it when the upload
	// path is keyed by task id before submission.
	TaskId      string
	OwnerUserId string
	FileName    string
	FilePath    string
	Backend     string
	Options     map[string]interface{}
	Priority    int
	// MaxRetries below zero means the configured default.
	MaxRetries int
}

// ListQuery narrows List. Zero values mean no constraint.
type ListQuery struct {
	Status   string
	Backend  string
	FileName string
	Limit    int
	Offset   int
}

// Stats is the per-status queue census.
type Stats struct {
	Pending    int64 `json:"pending"`
	Processing int64 `json:"processing"`
	Completed  int64 `json:"completed"`
	Failed     int64 `json:"failed"`
	Cancelled  int64 `json:"cancelled"`
	Total      int64 `json:"total"`
}

// Service wraps the task store with principal-aware queue semantics. All
// collaborators are constructor-injected; there is no package-level state.
type Service struct {
	store dbclient.TaskStore
}

// NewService creates a queue service over the given store.
func NewService(store dbclient.TaskStore) *Service {
	return &Service{store: store}
}

// Submit validates, defaults and enqueues a new pending task.
func (s *Service) Submit(ctx context.Context, principal *authority.Principal, req *SubmitRequest) (*dbclient.Task, error) {
	if !principal.Can(authority.PermTaskSubmit) {
		return nil, commonerrors.NewForbidden("task submission requires the task:submit permission")
	}
	if req == nil || req.FileName == "" || req.FilePath == "" {
		return nil, commonerrors.NewBadRequest("the upload file is empty")
	}
	backend := strings.ToLower(strings.TrimSpace(req.Backend))
	if backend == "" {
		backend = engine.BackendAuto
	}
	if !engine.IsRegistered(backend) {
		return nil, commonerrors.NewUnknownBackend(req.Backend)
	}
	maxRetries := req.MaxRetries
	if maxRetries < 0 {
		maxRetries = commonconfig.GetTaskMaxRetries()
	}

	taskID := req.TaskId
	if taskID == "" {
		taskID = uuid.New().String()
	}
	task := &dbclient.Task{
		TaskId:      taskID,
		OwnerUserId: req.OwnerUserId,
		FileName:    req.FileName,
		FilePath:    req.FilePath,
		Backend:     backend,
		Options:     req.Options,
		Priority:    req.Priority,
		Status:      dbclient.TaskStatusPending,
		MaxRetries:  maxRetries,
	}
	if err := s.store.InsertTask(ctx, task); err != nil {
		return nil, err
	}
	metrics.TasksSubmitted.WithLabelValues(backend).Inc()
	klog.InfoS("task submitted", "taskId", task.TaskId, "backend", backend,
		"owner", req.OwnerUserId, "priority", req.Priority, "fileName", req.FileName)
	return task, nil
}

// Get returns one task, enforcing owner isolation: a foreign task is
// indistinguishable from a missing one.
func (s *Service) Get(ctx context.Context, principal *authority.Principal, taskID string) (*dbclient.Task, error) {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !s.visible(principal, task) {
		return nil, commonerrors.NewTaskNotFound(taskID)
	}
	return task, nil
}

// Cancel cancels a visible task. The bool results mirror the store:
// (cancelled, inFlight).
func (s *Service) Cancel(ctx context.Context, principal *authority.Principal, taskID string) (bool, bool, error) {
	if _, err := s.Get(ctx, principal, taskID); err != nil {
		return false, false, err
	}
	cancelled, inFlight, err := s.store.CancelTask(ctx, taskID)
	if err != nil {
		return false, false, err
	}
	metrics.TasksCancelled.Inc()
	klog.InfoS("task cancel requested", "taskId", taskID, "cancelled", cancelled, "inFlight", inFlight)
	return cancelled, inFlight, nil
}

// List returns one page of tasks. Non-global principals only ever see their
// own tasks regardless of the query.
func (s *Service) List(ctx context.Context, principal *authority.Principal, query *ListQuery) ([]*dbclient.Task, int64, error) {
	if query == nil {
		query = &ListQuery{}
	}
	if principal == nil {
		return nil, 0, commonerrors.NewForbidden("listing tasks requires a principal")
	}
	if query.Status != "" && !dbclient.IsValidStatus(query.Status) {
		return nil, 0, commonerrors.NewBadRequest(fmt.Sprintf("unknown status %q", query.Status))
	}
	limit, offset := ClampPage(query.Limit, query.Offset)
	filter := &dbclient.TaskFilter{
		Backend:      strings.ToLower(query.Backend),
		FileNameLike: query.FileName,
		Limit:        limit,
		Offset:       offset,
	}
	if query.Status != "" {
		filter.Statuses = []string{query.Status}
	}
	if !principal.GlobalView() {
		filter.Owner = principal.UserId
	}
	return s.store.SelectTasks(ctx, filter)
}

// Stats returns the queue census and refreshes the depth gauges.
func (s *Service) Stats(ctx context.Context, principal *authority.Principal) (*Stats, error) {
	if !principal.Can(authority.PermQueueView) {
		return nil, commonerrors.NewForbidden("queue stats require the queue:view permission")
	}
	counts, err := s.store.CountTasksByStatus(ctx)
	if err != nil {
		return nil, err
	}
	stats := &Stats{
		Pending:    counts[dbclient.TaskStatusPending],
		Processing: counts[dbclient.TaskStatusProcessing],
		Completed:  counts[dbclient.TaskStatusCompleted],
		Failed:     counts[dbclient.TaskStatusFailed],
		Cancelled:  counts[dbclient.TaskStatusCancelled],
	}
	stats.Total = stats.Pending + stats.Processing + stats.Completed + stats.Failed + stats.Cancelled
	for status, count := range counts {
		metrics.QueueTasks.WithLabelValues(status).Set(float64(count))
	}
	return stats, nil
}

// ResetStale requeues abandoned processing tasks. Admin only; non-positive
// timeouts fall back to the configured default.
func (s *Service) ResetStale(ctx context.Context, principal *authority.Principal, timeoutMinutes int) (int64, error) {
	if !principal.Can(authority.PermAdmin) {
		return 0, commonerrors.NewForbidden("queue maintenance requires the admin role")
	}
	if timeoutMinutes <= 0 {
		timeoutMinutes = commonconfig.GetStaleTimeoutMinute()
	}
	return s.store.ResetStaleTasks(ctx, minutes(timeoutMinutes))
}

// Cleanup purges terminal tasks past retention. Admin only; non-positive
// retention falls back to the configured default.
func (s *Service) Cleanup(ctx context.Context, principal *authority.Principal, retentionDays int) (int64, error) {
	if !principal.Can(authority.PermAdmin) {
		return 0, commonerrors.NewForbidden("queue maintenance requires the admin role")
	}
	if retentionDays <= 0 {
		retentionDays = commonconfig.GetPurgeRetentionDays()
	}
	return s.store.PurgeOldTasks(ctx, days(retentionDays),
		commonconfig.GetOutputRoot(), commonconfig.GetUploadRoot())
}

// Ping reports store liveness for the health endpoint.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func minutes(n int) time.Duration { return time.Duration(n) * time.Minute }

func days(n int) time.Duration { return time.Duration(n) * 24 * time.Hour }

func (s *Service) visible(principal *authority.Principal, task *dbclient.Task) bool {
	if principal == nil {
		return false
	}
	if principal.GlobalView() {
		return true
	}
	return task.OwnerUserId == principal.UserId
}
