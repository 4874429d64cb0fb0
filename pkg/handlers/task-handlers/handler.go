/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package task_handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	dbclient "github.com/dinobot22/mineru-tianshu/pkg/database/client"
	"github.com/dinobot22/mineru-tianshu/pkg/queue"
	"github.com/dinobot22/mineru-tianshu/pkg/s3"
	apiutils "github.com/dinobot22/mineru-tianshu/pkg/utils"
)

// Handler serves the task API. The queue service is its only path to the
// store; engines are never touched from here.
type Handler struct {
	queueSvc   *queue.Service
	store      dbclient.TaskStore
	imageSink  s3.Interface
	uploadRoot string
	outputRoot string
}

// NewHandler creates a task API handler. imageSink may be nil, which
// silently disables the upload_images feature.
func NewHandler(store dbclient.TaskStore, imageSink s3.Interface, uploadRoot, outputRoot string) *Handler {
	return &Handler{
		queueSvc:   queue.NewService(store),
		store:      store,
		imageSink:  imageSink,
		uploadRoot: uploadRoot,
		outputRoot: outputRoot,
	}
}

type handleFunc func(*gin.Context) (interface{}, error)

// handle executes the provided handler function and renders its response,
// converting errors into the unified API error format.
func handle(c *gin.Context, fn handleFunc) {
	response, err := fn(c)
	if err != nil {
		apiutils.AbortWithApiError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}
