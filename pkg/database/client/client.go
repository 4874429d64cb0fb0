/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package client

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"k8s.io/klog/v2"

	commonconfig "github.com/dinobot22/mineru-tianshu/pkg/config"
	commonerrors "github.com/dinobot22/mineru-tianshu/pkg/errors"
)

var (
	once     sync.Once
	instance *Client
)

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
    task_id          TEXT PRIMARY KEY,
    owner_user_id    TEXT NOT NULL DEFAULT '',
    file_name        TEXT NOT NULL,
    file_path        TEXT NOT NULL,
    backend          TEXT NOT NULL,
    options          TEXT NOT NULL DEFAULT '{}',
    priority         INTEGER NOT NULL DEFAULT 0,
    status           TEXT NOT NULL DEFAULT 'pending',
    worker_id        TEXT,
    error_message    TEXT,
    result_dir       TEXT,
    markdown_file    TEXT,
    json_file        TEXT,
    retry_count      INTEGER NOT NULL DEFAULT 0,
    max_retries      INTEGER NOT NULL DEFAULT 3,
    cancel_requested INTEGER NOT NULL DEFAULT 0,
    created_at       TIMESTAMP NOT NULL,
    started_at       TIMESTAMP,
    completed_at     TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
CREATE INDEX IF NOT EXISTS idx_tasks_claim  ON tasks(status, priority DESC, created_at ASC);
CREATE INDEX IF NOT EXISTS idx_tasks_owner  ON tasks(owner_user_id);
CREATE INDEX IF NOT EXISTS idx_tasks_worker ON tasks(worker_id);

CREATE TABLE IF NOT EXISTS task_transitions (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    task_id     TEXT NOT NULL,
    from_status TEXT NOT NULL,
    to_status   TEXT NOT NULL,
    worker_id   TEXT NOT NULL DEFAULT '',
    detail      TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_transitions_task ON task_transitions(task_id);
`

// Client is the task-store client. It wraps a sqlx connection to the
// single-file SQLite database that holds the tasks table, the single source
// of truth of the orchestration core.
type Client struct {
	db             *sqlx.DB
	requestTimeout time.Duration
}

// NewClient creates a singleton instance of the task-store client from the
// system-wide configuration. The initialization happens only once even if
// called multiple times; a nil return means the store could not be opened.
func NewClient() *Client {
	once.Do(func() {
		cli, err := NewClientFromPath(commonconfig.GetDBPath())
		if err != nil {
			klog.ErrorS(err, "failed to init db-client")
			return
		}
		instance = cli
		klog.Infof("init db-client successfully! path: %s, request-timeout: %d(s)",
			commonconfig.GetDBPath(), commonconfig.GetDBRequestTimeoutSecond())
	})
	return instance
}

// NewClientFromPath opens the task store at the given location, creating the
// file and the schema on first use. Tests use this directly to get an
// isolated store per TempDir.
func NewClientFromPath(path string) (*Client, error) {
	if path == "" {
		return nil, fmt.Errorf("the db path is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d&_journal_mode=WAL&_foreign_keys=on&_loc=UTC",
		path, commonconfig.GetDBBusyTimeoutMs())
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(commonconfig.GetDBMaxOpenConns())
	db.SetMaxIdleConns(commonconfig.GetDBMaxIdleConns())
	if _, err = db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Client{
		db:             db,
		requestTimeout: time.Duration(commonconfig.GetDBRequestTimeoutSecond()) * time.Second,
	}, nil
}

// Close performs the Close operation.
func (c *Client) Close() {
	err := c.db.Close()
	if err != nil {
		klog.ErrorS(err, "failed to close db connection")
	}
}

// getDB retrieves DB for internal use.
func (c *Client) getDB() (*sqlx.DB, error) {
	if c == nil || c.db == nil {
		return nil, commonerrors.NewInternalError("The client of db has not been initialized")
	}
	return c.db.Unsafe(), nil
}
