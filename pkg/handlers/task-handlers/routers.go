/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package task_handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	commonconfig "github.com/dinobot22/mineru-tianshu/pkg/config"
	"github.com/dinobot22/mineru-tianshu/pkg/handlers/authority"
	"github.com/dinobot22/mineru-tianshu/pkg/metrics"
	"github.com/dinobot22/mineru-tianshu/pkg/utils"
)

// RegisterRouters mounts the task API. Health and metrics stay outside the
// authorized group so probes need no credentials.
func (h *Handler) RegisterRouters(engine *gin.Engine) {
	engine.GET("/api/v1/health", h.Health)
	engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	maxTimeout := time.Duration(commonconfig.GetMaxRequestTimeoutSecond()) * time.Second
	v1 := engine.Group("/api/v1", authority.Authorize(), utils.Timeout(maxTimeout))
	{
		v1.POST("/tasks/submit", h.SubmitTask)
		v1.GET("/tasks/:task_id", h.GetTask)
		v1.GET("/tasks/:task_id/transitions", h.GetTaskTransitions)
		v1.DELETE("/tasks/:task_id", h.CancelTask)

		v1.GET("/queue/tasks", h.ListTasks)
		v1.GET("/queue/stats", h.QueueStats)

		v1.POST("/admin/queue/reset-stale", h.ResetStale)
		v1.POST("/admin/queue/cleanup", h.Cleanup)
	}
}
