/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package maintenance

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"k8s.io/klog/v2"

	commonconfig "github.com/dinobot22/mineru-tianshu/pkg/config"
	"github.com/dinobot22/mineru-tianshu/pkg/metrics"
)

const probeTimeout = 10 * time.Second

// workerProbe polls the control endpoint of every configured worker and
// publishes the result as the worker_up gauge. A deployment with no
// configured endpoints gets a no-op job.
type workerProbe struct {
	client    *resty.Client
	endpoints []string
}

// NewWorkerProbe creates the worker health probe job, or nil when no worker
// endpoints are configured.
func NewWorkerProbe() Job {
	endpoints := commonconfig.GetWorkerEndpoints()
	if len(endpoints) == 0 {
		return nil
	}
	return &workerProbe{
		client:    resty.New().SetTimeout(probeTimeout),
		endpoints: endpoints,
	}
}

func (j *workerProbe) Name() string { return "worker-probe" }

func (j *workerProbe) Interval() time.Duration {
	return time.Duration(commonconfig.GetWorkerProbeIntervalMinute()) * time.Minute
}

func (j *workerProbe) Run(ctx context.Context) (int64, error) {
	var up int64
	for _, endpoint := range j.endpoints {
		resp, err := j.client.R().SetContext(ctx).Get(endpoint + "/health")
		if err != nil || resp.StatusCode() != 200 {
			metrics.WorkerUp.WithLabelValues(endpoint).Set(0)
			klog.InfoS("worker probe failed", "endpoint", endpoint, "error", err)
			continue
		}
		metrics.WorkerUp.WithLabelValues(endpoint).Set(1)
		up++
	}
	return up, nil
}
