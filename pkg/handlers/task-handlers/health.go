/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package task_handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	dbclient "github.com/dinobot22/mineru-tianshu/pkg/database/client"
)

const (
	healthHealthy   = "healthy"
	healthUnhealthy = "unhealthy"
)

// Health reports process liveness: store reachability, storage root
// writability and the current queue census. Unauthenticated by design so
// load balancers can poll it.
func (h *Handler) Health(c *gin.Context) {
	components := map[string]string{}
	healthy := true

	if err := h.queueSvc.Ping(c.Request.Context()); err != nil {
		components["database"] = err.Error()
		healthy = false
	} else {
		components["database"] = "connected"
	}
	for name, dir := range map[string]string{
		"uploads": h.uploadRoot,
		"output":  h.outputRoot,
	} {
		if err := checkWritable(dir); err != nil {
			components[name] = err.Error()
			healthy = false
		} else {
			components[name] = "writable"
		}
	}

	resp := &HealthResponse{Status: healthHealthy, Components: components}
	if counts, err := h.store.CountTasksByStatus(c.Request.Context()); err == nil {
		stats := map[string]int64{}
		for _, status := range dbclient.AllTaskStatuses {
			stats[status] = counts[status]
		}
		resp.QueueStats = stats
	}
	if !healthy {
		resp.Status = healthUnhealthy
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// checkWritable probes the directory with a throwaway file, creating the
// directory first if needed.
func checkWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	probe := filepath.Join(dir, ".probe-"+uuid.New().String())
	f, err := os.Create(probe)
	if err != nil {
		return err
	}
	_ = f.Close()
	return os.Remove(probe)
}
