/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package client

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

const (
	DESC = "desc"
	ASC  = "asc"

	CreatedAt = "created_at"
)

// Task statuses. Pending and processing are live; the rest are terminal.
const (
	TaskStatusPending    = "pending"
	TaskStatusProcessing = "processing"
	TaskStatusCompleted  = "completed"
	TaskStatusFailed     = "failed"
	TaskStatusCancelled  = "cancelled"
)

// AllTaskStatuses lists every status a task can hold, in lifecycle order.
var AllTaskStatuses = []string{
	TaskStatusPending,
	TaskStatusProcessing,
	TaskStatusCompleted,
	TaskStatusFailed,
	TaskStatusCancelled,
}

// IsTerminalStatus returns true for statuses that absorb the task: no field
// mutates afterwards except hard deletion.
func IsTerminalStatus(status string) bool {
	return status == TaskStatusCompleted || status == TaskStatusFailed || status == TaskStatusCancelled
}

// IsValidStatus returns true if the given string is a known task status.
func IsValidStatus(status string) bool {
	for _, s := range AllTaskStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// ExtType stores an opaque string-keyed map as a JSON text column. Engine
// options travel through the store without the core interpreting them.
type ExtType map[string]interface{}

// Value implements driver.Valuer.
func (e ExtType) Value() (driver.Value, error) {
	if e == nil {
		return "{}", nil
	}
	data, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (e *ExtType) Scan(value interface{}) error {
	if value == nil {
		*e = ExtType{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for ExtType", value)
	}
	if len(data) == 0 {
		*e = ExtType{}
		return nil
	}
	return json.Unmarshal(data, e)
}

// Task is the row type of the tasks table, the single source of truth for
// the orchestration core.
type Task struct {
	TaskId          string         `db:"task_id"`
	OwnerUserId     string         `db:"owner_user_id"`
	FileName        string         `db:"file_name"`
	FilePath        string         `db:"file_path"`
	Backend         string         `db:"backend"`
	Options         ExtType        `db:"options"`
	Priority        int            `db:"priority"`
	Status          string         `db:"status"`
	WorkerId        sql.NullString `db:"worker_id"`
	ErrorMessage    sql.NullString `db:"error_message"`
	ResultDir       sql.NullString `db:"result_dir"`
	MarkdownFile    sql.NullString `db:"markdown_file"`
	JsonFile        sql.NullString `db:"json_file"`
	RetryCount      int            `db:"retry_count"`
	MaxRetries      int            `db:"max_retries"`
	CancelRequested bool           `db:"cancel_requested"`
	CreatedAt       sql.NullTime   `db:"created_at"`
	StartedAt       sql.NullTime   `db:"started_at"`
	CompletedAt     sql.NullTime   `db:"completed_at"`
}

// IsTerminal returns true if the task reached an absorbing state.
func (t *Task) IsTerminal() bool {
	return IsTerminalStatus(t.Status)
}

// GetTaskFieldTags returns the TaskFieldTags value.
func GetTaskFieldTags() map[string]string {
	t := Task{}
	return getFieldTags(t)
}

// TaskTransition is one append-only audit record of a status transition.
type TaskTransition struct {
	Id         int64        `db:"id"`
	TaskId     string       `db:"task_id"`
	FromStatus string       `db:"from_status"`
	ToStatus   string       `db:"to_status"`
	WorkerId   string       `db:"worker_id"`
	Detail     string       `db:"detail"`
	CreatedAt  sql.NullTime `db:"created_at"`
}

// GetTaskTransitionFieldTags returns the TaskTransitionFieldTags value.
func GetTaskTransitionFieldTags() map[string]string {
	t := TaskTransition{}
	return getFieldTags(t)
}

// TaskFilter narrows SelectTasks and CountTasks. Zero values mean "no
// constraint"; Owner is enforced by the queue layer for non-admin callers.
type TaskFilter struct {
	Owner        string
	Statuses     []string
	Backend      string
	FileNameLike string
	Limit        int
	Offset       int
}

// getFieldTags retrieves FieldTags for internal use.
func getFieldTags(obj interface{}) map[string]string {
	result := make(map[string]string)
	t := reflect.TypeOf(obj)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		result[strings.ToLower(field.Name)] = field.Tag.Get("db")
	}
	return result
}

// generateCommand generates SQL command string using reflection
// Iterates through struct fields and builds column and value lists
// Skips fields with specified ignoreTag
// Returns formatted SQL command with columns and values
func generateCommand(obj interface{}, format, ignoreTag string) string {
	t := reflect.TypeOf(obj)
	columns := make([]string, 0, t.NumField())
	values := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("db")
		if tag == ignoreTag {
			continue
		}
		columns = append(columns, tag)
		values = append(values, fmt.Sprintf(":%s", tag))
	}
	cmd := fmt.Sprintf(format, strings.Join(columns, ", "), strings.Join(values, ", "))
	return cmd
}

// GetFieldTag returns the FieldTag value.
func GetFieldTag(tags map[string]string, name string) string {
	name = strings.ToLower(name)
	return tags[name]
}
