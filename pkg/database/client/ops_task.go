/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sqrl "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	sqlite3 "github.com/mattn/go-sqlite3"
	"k8s.io/klog/v2"

	commonerrors "github.com/dinobot22/mineru-tianshu/pkg/errors"
)

const (
	TTask       = "tasks"
	TTransition = "task_transitions"

	// StaleErrorMessage is recorded on tasks recovered or failed by the
	// stale-reset maintenance job.
	StaleErrorMessage = "stale"
)

var (
	getTaskCmd           = fmt.Sprintf(`SELECT * FROM %s WHERE task_id = ? LIMIT 1`, TTask)
	insertTaskFormat     = `INSERT INTO ` + TTask + ` (%s) VALUES (%s)`
	insertTransitionCmd  = fmt.Sprintf(`INSERT INTO %s (task_id, from_status, to_status, worker_id, detail, created_at) VALUES (?, ?, ?, ?, ?, ?)`, TTransition)
	listTransitionsCmd   = fmt.Sprintf(`SELECT * FROM %s WHERE task_id = ? ORDER BY id ASC`, TTransition)
	selectStaleCmd       = fmt.Sprintf(`SELECT * FROM %s WHERE status = ? AND started_at < ?`, TTask)
	selectExpiredCmd     = fmt.Sprintf(`SELECT task_id FROM %s WHERE status IN (?, ?, ?) AND completed_at IS NOT NULL AND completed_at < ?`, TTask)
	claimTaskDirectCmd   = claimTaskCmd("")
	claimTaskBackendsCmd = claimTaskCmd(" AND backend IN (?)")
)

// claimTaskCmd renders the single-statement atomic claim. The inner SELECT
// picks the best pending task in dequeue order; the guarded outer UPDATE
// makes the pending->processing transition exclusive even under concurrent
// claimers.
func claimTaskCmd(backendFilter string) string {
	return fmt.Sprintf(`UPDATE %s
		SET status = ?, worker_id = ?, started_at = ?, error_message = NULL
		WHERE task_id = (
			SELECT task_id FROM %s
			WHERE status = ? AND cancel_requested = 0%s
			ORDER BY priority DESC, created_at ASC, task_id ASC
			LIMIT 1)
		AND status = ?
		RETURNING *`, TTask, TTask, backendFilter)
}

// storeError passes platform errors through and downgrades everything else
// to a store-unavailable signal so callers know to retry.
func storeError(err error) error {
	if err == nil {
		return nil
	}
	var statusErr *commonerrors.StatusError
	if errors.As(err, &statusErr) {
		return err
	}
	return commonerrors.NewStoreUnavailable(err.Error())
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.requestTimeout)
}

func insertTransition(ctx context.Context, tx *sqlx.Tx, taskID, from, to, workerID, detail string, now time.Time) error {
	_, err := tx.ExecContext(ctx, insertTransitionCmd, taskID, from, to, workerID, detail, now)
	return err
}

func (c *Client) InsertTask(ctx context.Context, task *Task) error {
	db, err := c.getDB()
	if err != nil {
		return err
	}
	if task == nil || task.TaskId == "" {
		return commonerrors.NewBadRequest("the task id is empty")
	}
	now := time.Now().UTC()
	if !task.CreatedAt.Valid {
		task.CreatedAt = sql.NullTime{Time: now, Valid: true}
	}
	if task.Status == "" {
		task.Status = TaskStatusPending
	}
	if task.Options == nil {
		task.Options = ExtType{}
	}

	ctx2, cancel := c.withTimeout(ctx)
	defer cancel()
	tx, err := db.BeginTxx(ctx2, nil)
	if err != nil {
		return storeError(err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.NamedExecContext(ctx2, generateCommand(*task, insertTaskFormat, "-"), task); err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return commonerrors.NewAlreadyExist(fmt.Sprintf("task %s already exists", task.TaskId))
		}
		return storeError(err)
	}
	if err = insertTransition(ctx2, tx, task.TaskId, "", task.Status, "", "submitted", now); err != nil {
		return storeError(err)
	}
	return storeError(tx.Commit())
}

func (c *Client) GetTask(ctx context.Context, taskID string) (*Task, error) {
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}
	ctx2, cancel := c.withTimeout(ctx)
	defer cancel()
	task := &Task{}
	if err = db.GetContext(ctx2, task, getTaskCmd, taskID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, commonerrors.NewTaskNotFound(taskID)
		}
		return nil, storeError(err)
	}
	return task, nil
}

func (c *Client) ClaimNextTask(ctx context.Context, workerID string, backends []string) (*Task, error) {
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	cmd := claimTaskDirectCmd
	args := []interface{}{TaskStatusProcessing, workerID, now, TaskStatusPending, TaskStatusPending}
	if len(backends) > 0 {
		cmd = claimTaskBackendsCmd
		args = []interface{}{TaskStatusProcessing, workerID, now, TaskStatusPending, backends, TaskStatusPending}
	}
	cmd, expanded, err := sqlx.In(cmd, args...)
	if err != nil {
		return nil, storeError(err)
	}

	ctx2, cancel := c.withTimeout(ctx)
	defer cancel()
	tx, err := db.BeginTxx(ctx2, nil)
	if err != nil {
		return nil, storeError(err)
	}
	defer func() { _ = tx.Rollback() }()

	task := &Task{}
	if err = tx.QueryRowxContext(ctx2, cmd, expanded...).StructScan(task); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, commonerrors.NewNotFoundWithMessage("no pending task to claim")
		}
		return nil, storeError(err)
	}
	if err = insertTransition(ctx2, tx, task.TaskId, TaskStatusPending, TaskStatusProcessing, workerID, "claimed", now); err != nil {
		return nil, storeError(err)
	}
	if err = tx.Commit(); err != nil {
		return nil, storeError(err)
	}
	return task, nil
}

// getTaskForUpdate loads a task inside a transaction and verifies it is
// still processing under the given worker.
func getTaskForUpdate(ctx context.Context, tx *sqlx.Tx, taskID, workerID string) (*Task, error) {
	task := &Task{}
	if err := tx.GetContext(ctx, task, getTaskCmd, taskID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, commonerrors.NewTaskNotFound(taskID)
		}
		return nil, storeError(err)
	}
	if task.IsTerminal() {
		return nil, commonerrors.NewTaskTerminal(taskID, task.Status)
	}
	if task.Status != TaskStatusProcessing {
		return nil, commonerrors.NewConflict(fmt.Sprintf("task %s is %s, not processing", taskID, task.Status))
	}
	if workerID != "" && task.WorkerId.String != workerID {
		return nil, commonerrors.NewClaimMismatch(taskID, workerID)
	}
	return task, nil
}

func (c *Client) CompleteTask(ctx context.Context, taskID, workerID, resultDir, markdownFile, jsonFile string) error {
	db, err := c.getDB()
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	ctx2, cancel := c.withTimeout(ctx)
	defer cancel()
	tx, err := db.BeginTxx(ctx2, nil)
	if err != nil {
		return storeError(err)
	}
	defer func() { _ = tx.Rollback() }()

	task, err := getTaskForUpdate(ctx2, tx, taskID, workerID)
	if err != nil {
		return err
	}

	if task.CancelRequested {
		// A cancellation arrived mid-run: the result is discarded post-hoc.
		cmd := fmt.Sprintf(`UPDATE %s SET status = ?, completed_at = ?, cancel_requested = 0 WHERE task_id = ? AND status = ?`, TTask)
		if _, err = tx.ExecContext(ctx2, cmd, TaskStatusCancelled, now, taskID, TaskStatusProcessing); err != nil {
			return storeError(err)
		}
		if err = insertTransition(ctx2, tx, taskID, TaskStatusProcessing, TaskStatusCancelled, workerID, "result discarded on cancel", now); err != nil {
			return storeError(err)
		}
		if err = tx.Commit(); err != nil {
			return storeError(err)
		}
		if resultDir != "" {
			if rmErr := os.RemoveAll(resultDir); rmErr != nil {
				klog.ErrorS(rmErr, "failed to remove discarded result dir", "taskId", taskID, "dir", resultDir)
			}
		}
		klog.InfoS("task cancelled post-hoc, result discarded", "taskId", taskID, "workerId", workerID)
		return nil
	}

	cmd := fmt.Sprintf(`UPDATE %s
		SET status = ?, result_dir = ?, markdown_file = ?, json_file = ?, completed_at = ?
		WHERE task_id = ? AND status = ? AND worker_id = ?`, TTask)
	res, err := tx.ExecContext(ctx2, cmd, TaskStatusCompleted, resultDir, markdownFile, jsonFile, now,
		taskID, TaskStatusProcessing, workerID)
	if err != nil {
		return storeError(err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return commonerrors.NewClaimMismatch(taskID, workerID)
	}
	if err = insertTransition(ctx2, tx, taskID, TaskStatusProcessing, TaskStatusCompleted, workerID, "", now); err != nil {
		return storeError(err)
	}
	return storeError(tx.Commit())
}

func (c *Client) FailTask(ctx context.Context, taskID, workerID, errMsg string, retryable bool) error {
	db, err := c.getDB()
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	ctx2, cancel := c.withTimeout(ctx)
	defer cancel()
	tx, err := db.BeginTxx(ctx2, nil)
	if err != nil {
		return storeError(err)
	}
	defer func() { _ = tx.Rollback() }()

	task, err := getTaskForUpdate(ctx2, tx, taskID, workerID)
	if err != nil {
		return err
	}

	var toStatus, detail string
	switch {
	case task.CancelRequested:
		toStatus = TaskStatusCancelled
		detail = "cancelled during failure handling"
		cmd := fmt.Sprintf(`UPDATE %s SET status = ?, error_message = ?, completed_at = ?, cancel_requested = 0 WHERE task_id = ?`, TTask)
		_, err = tx.ExecContext(ctx2, cmd, toStatus, errMsg, now, taskID)
	case retryable && task.RetryCount < task.MaxRetries:
		toStatus = TaskStatusPending
		detail = fmt.Sprintf("retry %d/%d", task.RetryCount+1, task.MaxRetries)
		cmd := fmt.Sprintf(`UPDATE %s
			SET status = ?, worker_id = NULL, started_at = NULL, retry_count = retry_count + 1, error_message = ?
			WHERE task_id = ?`, TTask)
		_, err = tx.ExecContext(ctx2, cmd, toStatus, errMsg, taskID)
	default:
		toStatus = TaskStatusFailed
		detail = "retries exhausted"
		if !retryable {
			detail = "permanent failure"
		}
		cmd := fmt.Sprintf(`UPDATE %s SET status = ?, error_message = ?, completed_at = ? WHERE task_id = ?`, TTask)
		_, err = tx.ExecContext(ctx2, cmd, toStatus, errMsg, now, taskID)
	}
	if err != nil {
		return storeError(err)
	}
	if err = insertTransition(ctx2, tx, taskID, TaskStatusProcessing, toStatus, workerID, detail, now); err != nil {
		return storeError(err)
	}
	return storeError(tx.Commit())
}

func (c *Client) CancelTask(ctx context.Context, taskID string) (bool, bool, error) {
	db, err := c.getDB()
	if err != nil {
		return false, false, err
	}
	now := time.Now().UTC()
	ctx2, cancel := c.withTimeout(ctx)
	defer cancel()
	tx, err := db.BeginTxx(ctx2, nil)
	if err != nil {
		return false, false, storeError(err)
	}
	defer func() { _ = tx.Rollback() }()

	task := &Task{}
	if err = tx.GetContext(ctx2, task, getTaskCmd, taskID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, false, commonerrors.NewTaskNotFound(taskID)
		}
		return false, false, storeError(err)
	}

	switch task.Status {
	case TaskStatusPending:
		cmd := fmt.Sprintf(`UPDATE %s SET status = ?, completed_at = ? WHERE task_id = ? AND status = ?`, TTask)
		if _, err = tx.ExecContext(ctx2, cmd, TaskStatusCancelled, now, taskID, TaskStatusPending); err != nil {
			return false, false, storeError(err)
		}
		if err = insertTransition(ctx2, tx, taskID, TaskStatusPending, TaskStatusCancelled, "", "cancelled by user", now); err != nil {
			return false, false, storeError(err)
		}
		return true, false, storeError(tx.Commit())
	case TaskStatusProcessing:
		// Cooperative: the flag is observed by the worker at its next
		// checkpoint, or applied post-hoc at completion.
		cmd := fmt.Sprintf(`UPDATE %s SET cancel_requested = 1 WHERE task_id = ? AND status = ?`, TTask)
		if _, err = tx.ExecContext(ctx2, cmd, taskID, TaskStatusProcessing); err != nil {
			return false, false, storeError(err)
		}
		if err = insertTransition(ctx2, tx, taskID, TaskStatusProcessing, TaskStatusProcessing, task.WorkerId.String, "cancel requested", now); err != nil {
			return false, false, storeError(err)
		}
		return false, true, storeError(tx.Commit())
	default:
		return false, false, commonerrors.NewTaskTerminal(taskID, task.Status)
	}
}

func (c *Client) ResetStaleTasks(ctx context.Context, threshold time.Duration) (int64, error) {
	db, err := c.getDB()
	if err != nil {
		return 0, err
	}
	now := time.Now().UTC()
	cutoff := now.Add(-threshold)
	ctx2, cancel := c.withTimeout(ctx)
	defer cancel()
	tx, err := db.BeginTxx(ctx2, nil)
	if err != nil {
		return 0, storeError(err)
	}
	defer func() { _ = tx.Rollback() }()

	var stale []*Task
	if err = tx.SelectContext(ctx2, &stale, selectStaleCmd, TaskStatusProcessing, cutoff); err != nil {
		return 0, storeError(err)
	}

	var count int64
	for _, task := range stale {
		if task.RetryCount+1 <= task.MaxRetries {
			cmd := fmt.Sprintf(`UPDATE %s
				SET status = ?, worker_id = NULL, started_at = NULL, retry_count = retry_count + 1, error_message = ?
				WHERE task_id = ?`, TTask)
			if _, err = tx.ExecContext(ctx2, cmd, TaskStatusPending, StaleErrorMessage, task.TaskId); err != nil {
				return 0, storeError(err)
			}
			err = insertTransition(ctx2, tx, task.TaskId, TaskStatusProcessing, TaskStatusPending,
				task.WorkerId.String, "stale reset", now)
		} else {
			cmd := fmt.Sprintf(`UPDATE %s SET status = ?, error_message = ?, completed_at = ? WHERE task_id = ?`, TTask)
			if _, err = tx.ExecContext(ctx2, cmd, TaskStatusFailed, StaleErrorMessage, now, task.TaskId); err != nil {
				return 0, storeError(err)
			}
			err = insertTransition(ctx2, tx, task.TaskId, TaskStatusProcessing, TaskStatusFailed,
				task.WorkerId.String, "stale, retries exhausted", now)
		}
		if err != nil {
			return 0, storeError(err)
		}
		klog.InfoS("reset stale task", "taskId", task.TaskId, "workerId", task.WorkerId.String,
			"retryCount", task.RetryCount)
		count++
	}
	return count, storeError(tx.Commit())
}

func (c *Client) PurgeOldTasks(ctx context.Context, retention time.Duration, outputRoot, uploadRoot string) (int64, error) {
	db, err := c.getDB()
	if err != nil {
		return 0, err
	}
	cutoff := time.Now().UTC().Add(-retention)
	ctx2, cancel := c.withTimeout(ctx)
	defer cancel()

	var taskIDs []string
	if err = db.SelectContext(ctx2, &taskIDs, selectExpiredCmd,
		TaskStatusCompleted, TaskStatusFailed, TaskStatusCancelled, cutoff); err != nil {
		return 0, storeError(err)
	}
	if len(taskIDs) == 0 {
		return 0, nil
	}

	// Artifacts first: a purge interrupted mid-way leaves rows behind for
	// the next run rather than orphaned directories.
	for _, id := range taskIDs {
		for _, root := range []string{outputRoot, uploadRoot} {
			if root == "" {
				continue
			}
			if rmErr := os.RemoveAll(filepath.Join(root, id)); rmErr != nil {
				klog.ErrorS(rmErr, "failed to remove task directory", "taskId", id, "root", root)
			}
		}
	}

	tx, err := db.BeginTxx(ctx2, nil)
	if err != nil {
		return 0, storeError(err)
	}
	defer func() { _ = tx.Rollback() }()
	for _, table := range []string{TTransition, TTask} {
		cmd, args, inErr := sqlx.In(fmt.Sprintf(`DELETE FROM %s WHERE task_id IN (?)`, table), taskIDs)
		if inErr != nil {
			return 0, storeError(inErr)
		}
		if _, err = tx.ExecContext(ctx2, cmd, args...); err != nil {
			return 0, storeError(err)
		}
	}
	if err = tx.Commit(); err != nil {
		return 0, storeError(err)
	}
	klog.InfoS("purged old tasks", "count", len(taskIDs), "cutoff", cutoff)
	return int64(len(taskIDs)), nil
}

func (c *Client) CountTasksByStatus(ctx context.Context) (map[string]int64, error) {
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}
	cmd, args, err := sqrl.Select("status", "COUNT(*) AS cnt").From(TTask).GroupBy("status").ToSql()
	if err != nil {
		return nil, storeError(err)
	}
	ctx2, cancel := c.withTimeout(ctx)
	defer cancel()
	rows := []struct {
		Status string `db:"status"`
		Cnt    int64  `db:"cnt"`
	}{}
	if err = db.SelectContext(ctx2, &rows, cmd, args...); err != nil {
		return nil, storeError(err)
	}
	result := make(map[string]int64, len(AllTaskStatuses))
	for _, status := range AllTaskStatuses {
		result[status] = 0
	}
	for _, row := range rows {
		result[row.Status] = row.Cnt
	}
	return result, nil
}

func (c *Client) SelectTasks(ctx context.Context, filter *TaskFilter) ([]*Task, int64, error) {
	db, err := c.getDB()
	if err != nil {
		return nil, 0, err
	}
	if filter == nil {
		filter = &TaskFilter{}
	}
	conds := sqrl.And{}
	if filter.Owner != "" {
		conds = append(conds, sqrl.Eq{"owner_user_id": filter.Owner})
	}
	if len(filter.Statuses) > 0 {
		conds = append(conds, sqrl.Eq{"status": filter.Statuses})
	}
	if filter.Backend != "" {
		conds = append(conds, sqrl.Eq{"backend": filter.Backend})
	}
	if filter.FileNameLike != "" {
		conds = append(conds, sqrl.Like{"file_name": "%" + filter.FileNameLike + "%"})
	}

	ctx2, cancel := c.withTimeout(ctx)
	defer cancel()

	countCmd, countArgs, err := sqrl.Select("COUNT(*)").From(TTask).Where(conds).ToSql()
	if err != nil {
		return nil, 0, storeError(err)
	}
	var total int64
	if err = db.GetContext(ctx2, &total, countCmd, countArgs...); err != nil {
		return nil, 0, storeError(err)
	}

	builder := sqrl.Select("*").From(TTask).Where(conds).OrderBy("created_at DESC", "task_id DESC")
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}
	cmd, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, storeError(err)
	}
	var tasks []*Task
	if err = db.SelectContext(ctx2, &tasks, cmd, args...); err != nil {
		return nil, 0, storeError(err)
	}
	return tasks, total, nil
}

func (c *Client) ListTransitions(ctx context.Context, taskID string) ([]*TaskTransition, error) {
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}
	ctx2, cancel := c.withTimeout(ctx)
	defer cancel()
	var transitions []*TaskTransition
	if err = db.SelectContext(ctx2, &transitions, listTransitionsCmd, taskID); err != nil {
		return nil, storeError(err)
	}
	return transitions, nil
}

func (c *Client) Ping(ctx context.Context) error {
	db, err := c.getDB()
	if err != nil {
		return err
	}
	ctx2, cancel := c.withTimeout(ctx)
	defer cancel()
	if err = db.PingContext(ctx2); err != nil {
		return storeError(err)
	}
	return nil
}
