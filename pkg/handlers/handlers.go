/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	commonconfig "github.com/dinobot22/mineru-tianshu/pkg/config"
	dbclient "github.com/dinobot22/mineru-tianshu/pkg/database/client"
	task_handlers "github.com/dinobot22/mineru-tianshu/pkg/handlers/task-handlers"
	"github.com/dinobot22/mineru-tianshu/pkg/s3"
	"github.com/dinobot22/mineru-tianshu/pkg/utils"
)

// InitHttpHandlers assembles the gin engine with the task API mounted.
func InitHttpHandlers(ctx context.Context) (*gin.Engine, error) {
	store := dbclient.NewClient()
	if store == nil {
		return nil, fmt.Errorf("the task store could not be opened")
	}

	// The image sink is optional; the API runs fine without it, only the
	// upload_images feature goes dark.
	var imageSink s3.Interface
	if commonconfig.IsS3Enable() {
		sink, err := s3.NewClient(ctx)
		if err != nil {
			klog.ErrorS(err, "image sink unavailable, upload_images disabled")
		} else {
			imageSink = sink
		}
	}

	engine := gin.New()
	engine.Use(utils.Logger(), gin.Recovery())
	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "route not found"})
	})

	handler := task_handlers.NewHandler(store, imageSink,
		commonconfig.GetUploadRoot(), commonconfig.GetOutputRoot())
	handler.RegisterRouters(engine)
	return engine, nil
}
