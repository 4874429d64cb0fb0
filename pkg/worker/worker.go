/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package worker

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	commonconfig "github.com/dinobot22/mineru-tianshu/pkg/config"
	dbclient "github.com/dinobot22/mineru-tianshu/pkg/database/client"
	"github.com/dinobot22/mineru-tianshu/pkg/engine"
	commonklog "github.com/dinobot22/mineru-tianshu/pkg/klog"
	"github.com/dinobot22/mineru-tianshu/pkg/options"
)

const shutdownTimeout = 15 * time.Second

// Worker is the worker process: a set of device-pinned runner slots plus
// the control endpoint the apiserver probes and pokes.
type Worker struct {
	opts          *options.Options
	runners       []*Runner
	controlServer *http.Server
	ctx           context.Context
	cancel        context.CancelFunc
	isInited      bool
}

// NewWorker creates and returns a new Worker instance.
func NewWorker() (*Worker, error) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	w := &Worker{
		opts:   &options.Options{},
		ctx:    ctx,
		cancel: cancel,
	}
	if err := w.init(); err != nil {
		cancel()
		return nil, err
	}
	return w, nil
}

func (w *Worker) init() error {
	gin.SetMode(gin.ReleaseMode)
	var err error
	if err = w.opts.InitFlags(); err != nil {
		klog.ErrorS(err, "failed to parse flags")
		return err
	}
	if err = commonklog.Init(w.opts.LogfilePath, w.opts.LogFileSize); err != nil {
		klog.ErrorS(err, "failed to init logs")
		return err
	}
	fullPath, err := filepath.Abs(w.opts.Config)
	if err != nil {
		return err
	}
	if err = commonconfig.LoadConfig(fullPath); err != nil {
		klog.ErrorS(err, "failed to init config", "path", fullPath)
		return err
	}
	engine.RegisterDefaults()
	w.isInited = true
	return nil
}

// Start runs every slot and the control endpoint until a stop signal
// arrives. In-flight parses finish before the process exits; the context
// only interrupts the poll sleeps and the adapters' own checkpoints.
func (w *Worker) Start() {
	if !w.isInited {
		klog.Errorf("please init worker first")
		return
	}

	store := dbclient.NewClient()
	if store == nil {
		klog.Errorf("the task store could not be opened")
		os.Exit(2)
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	pollInterval := time.Duration(commonconfig.GetWorkerPollIntervalMs()) * time.Millisecond
	backends := commonconfig.GetWorkerBackends()
	outputRoot := commonconfig.GetOutputRoot()

	var wg sync.WaitGroup
	for _, device := range commonconfig.GetWorkerDevices() {
		for slot := 0; slot < commonconfig.GetWorkersPerDevice(); slot++ {
			workerID := fmt.Sprintf("tianshu-worker-%s-%s-%d", hostname, device, os.Getpid())
			if commonconfig.GetWorkersPerDevice() > 1 {
				workerID = fmt.Sprintf("%s-%d", workerID, slot)
			}
			runner := NewRunner(store, workerID, device, backends, outputRoot, pollInterval)
			w.runners = append(w.runners, runner)
			wg.Add(1)
			go func() {
				defer wg.Done()
				runner.Run(w.ctx)
			}()
		}
	}
	klog.Infof("started %d worker slots", len(w.runners))

	go func() {
		if err := w.startControlServer(); err != nil && err != http.ErrServerClosed {
			klog.ErrorS(err, "failed to start control server")
			os.Exit(3)
		}
	}()

	<-w.ctx.Done()
	w.Stop()
	wg.Wait()
	klog.Info("worker is stopped")
	klog.Flush()
}

// Stop shuts down the control endpoint.
func (w *Worker) Stop() {
	defer w.cancel()
	if w.controlServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := w.controlServer.Shutdown(ctx); err != nil {
			klog.ErrorS(err, "failed to shutdown control server")
		}
	}
}

func (w *Worker) startControlServer() error {
	port := commonconfig.GetWorkerPort()
	if port <= 0 {
		return fmt.Errorf("the worker port is not defined")
	}
	w.controlServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: w.controlHandler(),
	}
	klog.Infof("worker control endpoint listen port: %d", port)
	return w.controlServer.ListenAndServe()
}
