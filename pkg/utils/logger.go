/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package utils

import (
	"time"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"
)

// Logger returns a gin middleware that logs one line per request through
// klog. Errors attached to the context by handlers are appended to the line.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		if len(c.Errors) > 0 {
			klog.ErrorS(c.Errors.Last().Err, "http request failed",
				"method", c.Request.Method, "path", path,
				"status", status, "latency", latency.String(),
				"client", c.ClientIP())
			return
		}
		klog.InfoS("http request",
			"method", c.Request.Method, "path", path,
			"status", status, "latency", latency.String(),
			"client", c.ClientIP())
	}
}
