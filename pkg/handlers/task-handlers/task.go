/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package task_handlers

import (
	"database/sql"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"k8s.io/klog/v2"

	commonconfig "github.com/dinobot22/mineru-tianshu/pkg/config"
	dbclient "github.com/dinobot22/mineru-tianshu/pkg/database/client"
	commonerrors "github.com/dinobot22/mineru-tianshu/pkg/errors"
	"github.com/dinobot22/mineru-tianshu/pkg/handlers/authority"
	"github.com/dinobot22/mineru-tianshu/pkg/markdown"
	"github.com/dinobot22/mineru-tianshu/pkg/queue"
)

const (
	formatMarkdown = "markdown"
	formatJSON     = "json"
	formatBoth     = "both"

	// optionPrefix marks form fields forwarded verbatim to the engine
	// adapter, e.g. opt_start_page=2 becomes options["start_page"]="2".
	optionPrefix = "opt_"
)

// SubmitTask accepts a multipart upload, persists it under the upload root
// and enqueues a pending task.
func (h *Handler) SubmitTask(c *gin.Context) {
	handle(c, func(c *gin.Context) (interface{}, error) {
		principal := authority.FromContext(c)

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return nil, commonerrors.NewBadRequest("the upload file is empty")
		}
		maxBytes := commonconfig.GetMaxUploadSizeBytes()
		if maxBytes > 0 && fileHeader.Size > maxBytes {
			return nil, commonerrors.NewRequestEntityTooLargeError(
				fmt.Sprintf("file %s exceeds the %d byte upload limit", fileHeader.Filename, maxBytes))
		}

		taskID := uuid.New().String()
		fileName := filepath.Base(fileHeader.Filename)
		filePath := filepath.Join(h.uploadRoot, taskID, fileName)
		if err = saveUpload(fileHeader, filePath); err != nil {
			klog.ErrorS(err, "failed to save upload", "taskId", taskID, "fileName", fileName)
			return nil, commonerrors.NewInternalError("failed to save the uploaded file")
		}

		req := &queue.SubmitRequest{
			TaskId:      taskID,
			OwnerUserId: principal.UserId,
			FileName:    fileName,
			FilePath:    filePath,
			Backend:     c.PostForm("backend"),
			Options:     parseOptions(c),
			Priority:    intForm(c, "priority", 0),
			MaxRetries:  intForm(c, "max_retries", -1),
		}
		task, err := h.queueSvc.Submit(c.Request.Context(), principal, req)
		if err != nil {
			// The orphaned upload directory is cheap to remove here and
			// saves the retention purge a round.
			_ = os.RemoveAll(filepath.Dir(filePath))
			return nil, err
		}
		return &SubmitTaskResponse{
			TaskId:   task.TaskId,
			Status:   task.Status,
			FileName: task.FileName,
		}, nil
	})
}

// GetTask returns one task, inlining artifacts for completed tasks. The
// format query selects markdown, json or both; upload_images=true rewrites
// local image references to the configured image sink.
func (h *Handler) GetTask(c *gin.Context) {
	handle(c, func(c *gin.Context) (interface{}, error) {
		principal := authority.FromContext(c)
		format := strings.ToLower(c.DefaultQuery("format", formatMarkdown))
		switch format {
		case formatMarkdown, formatJSON, formatBoth:
		default:
			return nil, commonerrors.NewBadRequest(fmt.Sprintf("unknown format %q", format))
		}
		uploadImages := c.Query("upload_images") == "true"

		task, err := h.queueSvc.Get(c.Request.Context(), principal, c.Param("task_id"))
		if err != nil {
			return nil, err
		}
		item := convertToTaskResponse(task, principal.GlobalView())
		if task.Status == dbclient.TaskStatusCompleted {
			item.Data = h.loadTaskData(c, task, format, uploadImages)
		}
		return item, nil
	})
}

// CancelTask cancels a pending task or requests cooperative cancellation of
// a processing one.
func (h *Handler) CancelTask(c *gin.Context) {
	handle(c, func(c *gin.Context) (interface{}, error) {
		principal := authority.FromContext(c)
		taskID := c.Param("task_id")
		cancelled, inFlight, err := h.queueSvc.Cancel(c.Request.Context(), principal, taskID)
		if err != nil {
			return nil, err
		}
		return &CancelTaskResponse{
			TaskId:    taskID,
			Cancelled: cancelled,
			InFlight:  inFlight,
		}, nil
	})
}

// GetTaskTransitions returns the audit trail of one task, oldest first.
func (h *Handler) GetTaskTransitions(c *gin.Context) {
	handle(c, func(c *gin.Context) (interface{}, error) {
		principal := authority.FromContext(c)
		taskID := c.Param("task_id")
		// visibility first: foreign tasks look missing
		if _, err := h.queueSvc.Get(c.Request.Context(), principal, taskID); err != nil {
			return nil, err
		}
		transitions, err := h.store.ListTransitions(c.Request.Context(), taskID)
		if err != nil {
			return nil, err
		}
		items := make([]*TransitionResponseItem, 0, len(transitions))
		for _, tr := range transitions {
			items = append(items, &TransitionResponseItem{
				FromStatus: tr.FromStatus,
				ToStatus:   tr.ToStatus,
				WorkerId:   tr.WorkerId,
				Detail:     tr.Detail,
				CreatedAt:  formatTime(tr.CreatedAt.Time, tr.CreatedAt.Valid),
			})
		}
		return &ListTransitionsResponse{TaskId: taskID, Transitions: items}, nil
	})
}

// loadTaskData reads the requested artifacts from disk. Missing files never
// fail the request; the corresponding fields just stay empty.
func (h *Handler) loadTaskData(c *gin.Context, task *dbclient.Task, format string, uploadImages bool) *TaskData {
	data := &TaskData{
		MarkdownFile: task.MarkdownFile.String,
		JsonFile:     task.JsonFile.String,
	}
	if task.JsonFile.Valid && task.JsonFile.String != "" {
		if _, err := os.Stat(task.JsonFile.String); err == nil {
			data.JsonAvailable = true
		}
	}
	if format == formatMarkdown || format == formatBoth {
		content, err := readArtifact(task.MarkdownFile)
		if err != nil {
			klog.ErrorS(err, "failed to read markdown artifact", "taskId", task.TaskId)
		}
		data.Content = content
		if uploadImages && content != "" && h.imageSink != nil {
			rewritten, uploaded := markdown.RewriteImages(
				c.Request.Context(), content, task.ResultDir.String, h.imageSink)
			data.Content = rewritten
			data.ImagesUploaded = uploaded > 0
		}
	}
	if (format == formatJSON || format == formatBoth) && data.JsonAvailable {
		content, err := readArtifact(task.JsonFile)
		if err != nil {
			klog.ErrorS(err, "failed to read json artifact", "taskId", task.TaskId)
		}
		data.JsonContent = content
	}
	return data
}

func readArtifact(path sql.NullString) (string, error) {
	if !path.Valid || path.String == "" {
		return "", nil
	}
	content, err := os.ReadFile(path.String)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return string(content), nil
}

func saveUpload(fileHeader *multipart.FileHeader, dst string) error {
	src, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	if err = os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, src)
	return err
}

// parseOptions merges the well-known engine knobs with every opt_* form
// field into one options map.
func parseOptions(c *gin.Context) map[string]interface{} {
	options := map[string]interface{}{}
	for _, key := range []string{"lang", "method"} {
		if val := c.PostForm(key); val != "" {
			options[key] = val
		}
	}
	for _, key := range []string{"formula_enable", "table_enable"} {
		if val := c.PostForm(key); val != "" {
			options[key] = val == "true"
		}
	}
	for key, vals := range c.Request.PostForm {
		if strings.HasPrefix(key, optionPrefix) && len(vals) > 0 {
			options[strings.TrimPrefix(key, optionPrefix)] = vals[0]
		}
	}
	if c.Request.MultipartForm != nil {
		for key, vals := range c.Request.MultipartForm.Value {
			if strings.HasPrefix(key, optionPrefix) && len(vals) > 0 {
				options[strings.TrimPrefix(key, optionPrefix)] = vals[0]
			}
		}
	}
	if len(options) == 0 {
		return nil
	}
	return options
}

func intForm(c *gin.Context, key string, defaultValue int) int {
	val := c.PostForm(key)
	if val == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return n
}
