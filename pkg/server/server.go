/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

// Package server bootstraps the tianshu apiserver: flags, logging, config,
// the task store, the HTTP facade and the maintenance loops.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	commonconfig "github.com/dinobot22/mineru-tianshu/pkg/config"
	dbclient "github.com/dinobot22/mineru-tianshu/pkg/database/client"
	"github.com/dinobot22/mineru-tianshu/pkg/engine"
	"github.com/dinobot22/mineru-tianshu/pkg/handlers"
	commonklog "github.com/dinobot22/mineru-tianshu/pkg/klog"
	"github.com/dinobot22/mineru-tianshu/pkg/maintenance"
	"github.com/dinobot22/mineru-tianshu/pkg/options"
)

const shutdownTimeout = 15 * time.Second

type Server struct {
	opts       *options.Options
	httpServer *http.Server
	ctx        context.Context
	cancel     context.CancelFunc
	isInited   bool
}

// NewServer creates and returns a new Server instance.
func NewServer() (*Server, error) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	s := &Server{
		opts:   &options.Options{},
		ctx:    ctx,
		cancel: cancel,
	}
	if err := s.init(); err != nil {
		cancel()
		return nil, err
	}
	return s, nil
}

// init performs the initial setup of the server including flag parsing,
// logging initialization, configuration loading and engine registration.
func (s *Server) init() error {
	gin.SetMode(gin.ReleaseMode)
	var err error
	if err = s.opts.InitFlags(); err != nil {
		klog.ErrorS(err, "failed to parse flags")
		return err
	}
	if err = commonklog.Init(s.opts.LogfilePath, s.opts.LogFileSize); err != nil {
		klog.ErrorS(err, "failed to init logs")
		return err
	}
	if err = s.initConfig(); err != nil {
		klog.ErrorS(err, "failed to init config")
		return err
	}
	engine.RegisterDefaults()
	s.isInited = true
	return nil
}

// Start runs the HTTP server and the maintenance loops until a stop signal
// arrives, then shuts down gracefully.
func (s *Server) Start() {
	if !s.isInited {
		klog.Errorf("please init api-server first")
		return
	}

	store := dbclient.NewClient()
	if store == nil {
		klog.Errorf("the task store could not be opened")
		os.Exit(2)
	}

	runner := maintenance.NewRunner(
		maintenance.NewStaleReset(store),
		maintenance.NewRetentionCleanup(store),
		maintenance.NewWorkerProbe(),
	)
	runner.Start(s.ctx)

	go func() {
		if err := s.startHttpServer(); err != nil && err != http.ErrServerClosed {
			klog.ErrorS(err, "failed to start http-server")
			os.Exit(3)
		}
	}()

	<-s.ctx.Done()
	s.Stop()
}

// Stop gracefully shuts down the HTTP server and flushes logs.
func (s *Server) Stop() {
	defer s.cancel()
	klog.Info("shutting down http server...")
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(ctx); err != nil {
			klog.ErrorS(err, "failed to shutdown httpserver")
		}
	}
	klog.Info("apiserver is stopped")
	klog.Flush()
}

// initConfig loads the server configuration from the specified config file path.
func (s *Server) initConfig() error {
	fullPath, err := filepath.Abs(s.opts.Config)
	if err != nil {
		return err
	}
	if err = commonconfig.LoadConfig(fullPath); err != nil {
		return fmt.Errorf("config path: %s, err: %v", fullPath, err)
	}
	return nil
}

// startHttpServer initializes and starts the HTTP server on the configured
// port.
func (s *Server) startHttpServer() error {
	if commonconfig.GetAPIServerPort() <= 0 {
		return fmt.Errorf("the apiserver port is not defined")
	}
	handler, err := handlers.InitHttpHandlers(s.ctx)
	if err != nil {
		return err
	}
	addr := fmt.Sprintf(":%d", commonconfig.GetAPIServerPort())
	s.httpServer = &http.Server{Addr: addr, Handler: handler}
	klog.Infof("http-server listen port: %d", commonconfig.GetAPIServerPort())
	return s.httpServer.ListenAndServe()
}
