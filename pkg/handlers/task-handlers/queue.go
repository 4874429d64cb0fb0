/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package task_handlers

import (
	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	commonerrors "github.com/dinobot22/mineru-tianshu/pkg/errors"
	"github.com/dinobot22/mineru-tianshu/pkg/handlers/authority"
	"github.com/dinobot22/mineru-tianshu/pkg/queue"
)

// ListTasks returns one page of tasks. Non-admin callers only ever see
// their own submissions.
func (h *Handler) ListTasks(c *gin.Context) {
	handle(c, func(c *gin.Context) (interface{}, error) {
		principal := authority.FromContext(c)
		var query ListTasksQuery
		if err := c.ShouldBindQuery(&query); err != nil {
			return nil, commonerrors.NewBadRequest(err.Error())
		}
		tasks, total, err := h.queueSvc.List(c.Request.Context(), principal, &queue.ListQuery{
			Status:   query.Status,
			Backend:  query.Backend,
			FileName: query.FileName,
			Limit:    query.Limit,
			Offset:   query.Offset,
		})
		if err != nil {
			return nil, err
		}
		limit, offset := queue.ClampPage(query.Limit, query.Offset)
		items := make([]*TaskResponseItem, 0, len(tasks))
		for _, task := range tasks {
			items = append(items, convertToTaskResponse(task, principal.GlobalView()))
		}
		return &ListTasksResponse{
			Tasks:  items,
			Total:  total,
			Limit:  limit,
			Offset: offset,
		}, nil
	})
}

// QueueStats returns the per-status queue census.
func (h *Handler) QueueStats(c *gin.Context) {
	handle(c, func(c *gin.Context) (interface{}, error) {
		principal := authority.FromContext(c)
		return h.queueSvc.Stats(c.Request.Context(), principal)
	})
}

// ResetStale requeues processing tasks older than the given timeout.
// Admin only.
func (h *Handler) ResetStale(c *gin.Context) {
	handle(c, func(c *gin.Context) (interface{}, error) {
		principal := authority.FromContext(c)
		var req ResetStaleRequest
		if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
			return nil, commonerrors.NewBadRequest(err.Error())
		}
		count, err := h.queueSvc.ResetStale(c.Request.Context(), principal, req.TimeoutMinutes)
		if err != nil {
			return nil, err
		}
		klog.InfoS("stale reset requested", "user", principal.UserId,
			"timeoutMinutes", req.TimeoutMinutes, "resetCount", count)
		return &ResetStaleResponse{ResetCount: count}, nil
	})
}

// Cleanup purges terminal tasks past retention together with their
// artifacts. Admin only.
func (h *Handler) Cleanup(c *gin.Context) {
	handle(c, func(c *gin.Context) (interface{}, error) {
		principal := authority.FromContext(c)
		var req CleanupRequest
		if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
			return nil, commonerrors.NewBadRequest(err.Error())
		}
		count, err := h.queueSvc.Cleanup(c.Request.Context(), principal, req.RetentionDays)
		if err != nil {
			return nil, err
		}
		klog.InfoS("retention cleanup requested", "user", principal.UserId,
			"retentionDays", req.RetentionDays, "deletedCount", count)
		return &CleanupResponse{DeletedCount: count}, nil
	})
}
