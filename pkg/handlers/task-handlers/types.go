/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package task_handlers

import (
	"time"

	dbclient "github.com/dinobot22/mineru-tianshu/pkg/database/client"
)

// SubmitTaskResponse acknowledges a new submission.
type SubmitTaskResponse struct {
	TaskId   string `json:"task_id"`
	Status   string `json:"status"`
	FileName string `json:"file_name"`
}

// TaskData carries inline artifact content for completed tasks.
type TaskData struct {
	// Content is the markdown artifact body; empty when missing or not
	// requested.
	Content      string `json:"content"`
	MarkdownFile string `json:"markdown_file,omitempty"`
	// JsonContent is the JSON artifact body, requested via format=json|both.
	JsonContent    string `json:"json_content,omitempty"`
	JsonFile       string `json:"json_file,omitempty"`
	JsonAvailable  bool   `json:"json_available"`
	ImagesUploaded bool   `json:"images_uploaded"`
}

// TaskResponseItem is the wire view of one task row.
type TaskResponseItem struct {
	TaskId       string                 `json:"task_id"`
	OwnerUserId  string                 `json:"owner_user_id,omitempty"`
	FileName     string                 `json:"file_name"`
	Backend      string                 `json:"backend"`
	Options      map[string]interface{} `json:"options,omitempty"`
	Priority     int                    `json:"priority"`
	Status       string                 `json:"status"`
	WorkerId     string                 `json:"worker_id,omitempty"`
	RetryCount   int                    `json:"retry_count"`
	MaxRetries   int                    `json:"max_retries"`
	ErrorMessage string                 `json:"error_message,omitempty"`
	CreatedAt    string                 `json:"created_at,omitempty"`
	StartedAt    string                 `json:"started_at,omitempty"`
	CompletedAt  string                 `json:"completed_at,omitempty"`
	Data         *TaskData              `json:"data,omitempty"`
}

// ListTasksQuery binds the queue listing filters.
type ListTasksQuery struct {
	// Status filters to one lifecycle status
	Status string `form:"status"`
	// Backend filters to one engine backend
	Backend string `form:"backend"`
	// FileName matches the original upload name, substring
	FileName string `form:"file_name"`
	// Limit caps the page size, default 50, max 500
	Limit int `form:"limit"`
	// Offset skips preceding rows
	Offset int `form:"offset"`
}

// ListTasksResponse is one page of tasks.
type ListTasksResponse struct {
	Tasks  []*TaskResponseItem `json:"tasks"`
	Total  int64               `json:"total"`
	Limit  int                 `json:"limit"`
	Offset int                 `json:"offset"`
}

// TransitionResponseItem is one audit record of a status transition.
type TransitionResponseItem struct {
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
	WorkerId   string `json:"worker_id,omitempty"`
	Detail     string `json:"detail,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
}

// ListTransitionsResponse is the audit trail of one task, oldest first.
type ListTransitionsResponse struct {
	TaskId      string                    `json:"task_id"`
	Transitions []*TransitionResponseItem `json:"transitions"`
}

// CancelTaskResponse reports the cancellation outcome: Cancelled for
// pending tasks, InFlight for cooperative cancellation of processing ones.
type CancelTaskResponse struct {
	TaskId    string `json:"task_id"`
	Cancelled bool   `json:"cancelled,omitempty"`
	InFlight  bool   `json:"in_flight,omitempty"`
}

// ResetStaleRequest configures the admin stale reset.
type ResetStaleRequest struct {
	TimeoutMinutes int `json:"timeout_minutes"`
}

// ResetStaleResponse reports how many tasks were recovered.
type ResetStaleResponse struct {
	ResetCount int64 `json:"reset_count"`
}

// CleanupRequest configures the admin retention cleanup.
type CleanupRequest struct {
	RetentionDays int `json:"retention_days"`
}

// CleanupResponse reports how many tasks were purged.
type CleanupResponse struct {
	DeletedCount int64 `json:"deleted_count"`
}

// HealthResponse is the liveness payload of the API process.
type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
	QueueStats interface{}       `json:"queue_stats,omitempty"`
}

// convertToTaskResponse maps a store row to its wire view.
func convertToTaskResponse(task *dbclient.Task, includeOwner bool) *TaskResponseItem {
	item := &TaskResponseItem{
		TaskId:       task.TaskId,
		FileName:     task.FileName,
		Backend:      task.Backend,
		Options:      task.Options,
		Priority:     task.Priority,
		Status:       task.Status,
		WorkerId:     task.WorkerId.String,
		RetryCount:   task.RetryCount,
		MaxRetries:   task.MaxRetries,
		ErrorMessage: task.ErrorMessage.String,
		CreatedAt:    formatTime(task.CreatedAt.Time, task.CreatedAt.Valid),
		StartedAt:    formatTime(task.StartedAt.Time, task.StartedAt.Valid),
		CompletedAt:  formatTime(task.CompletedAt.Time, task.CompletedAt.Valid),
	}
	if includeOwner {
		item.OwnerUserId = task.OwnerUserId
	}
	return item
}

func formatTime(t time.Time, valid bool) string {
	if !valid {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
