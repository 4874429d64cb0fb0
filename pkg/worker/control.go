/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package worker

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dinobot22/mineru-tianshu/pkg/engine"
	"github.com/dinobot22/mineru-tianshu/pkg/metrics"
	"github.com/dinobot22/mineru-tianshu/pkg/utils"
)

type slotStatus struct {
	WorkerId    string `json:"worker_id"`
	Device      string `json:"device"`
	Busy        bool   `json:"busy"`
	CurrentTask string `json:"current_task,omitempty"`
}

// controlHandler builds the worker control surface: the health endpoint the
// apiserver probes, the poll trigger that cuts claim latency after a burst
// of submissions, and the process metrics.
func (w *Worker) controlHandler() http.Handler {
	router := gin.New()
	router.Use(utils.Logger(), gin.Recovery())
	started := time.Now()

	router.GET("/health", func(c *gin.Context) {
		slots := make([]slotStatus, 0, len(w.runners))
		for _, runner := range w.runners {
			current := runner.Current()
			slots = append(slots, slotStatus{
				WorkerId:    runner.WorkerID(),
				Device:      runner.Device(),
				Busy:        current != "",
				CurrentTask: current,
			})
		}
		c.JSON(http.StatusOK, gin.H{
			"status":         "ok",
			"uptime_seconds": int64(time.Since(started).Seconds()),
			"backends":       engine.Names(),
			"slots":          slots,
		})
	})
	router.POST("/poll", func(c *gin.Context) {
		for _, runner := range w.runners {
			runner.Poke()
		}
		c.JSON(http.StatusOK, gin.H{"poked": len(w.runners)})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	return router
}
