/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package worker

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbclient "github.com/dinobot22/mineru-tianshu/pkg/database/client"
	"github.com/dinobot22/mineru-tianshu/pkg/engine"
)

type fakeAdapter struct {
	name     string
	exts     []string
	parse    func(ctx context.Context, req *engine.Request) (*engine.Result, error)
	requests []*engine.Request
}

func (f *fakeAdapter) Name() string { return f.name }

func (f *fakeAdapter) Supports(fileName string) bool {
	ext := filepath.Ext(fileName)
	for _, e := range f.exts {
		if e == ext {
			return true
		}
	}
	return false
}

func (f *fakeAdapter) Parse(ctx context.Context, req *engine.Request) (*engine.Result, error) {
	f.requests = append(f.requests, req)
	return f.parse(ctx, req)
}

func newTestRunner(t *testing.T) (*Runner, dbclient.TaskStore, string) {
	t.Helper()
	engine.Reset()
	t.Cleanup(engine.Reset)

	store, err := dbclient.NewClientFromPath(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(store.Close)

	outputRoot := filepath.Join(t.TempDir(), "output")
	runner := NewRunner(store, "worker-1", "0", nil, outputRoot, 10*time.Millisecond)
	return runner, store, outputRoot
}

func insertTask(t *testing.T, store dbclient.TaskStore, taskID, fileName, backend string) *dbclient.Task {
	t.Helper()
	task := &dbclient.Task{
		TaskId:     taskID,
		FileName:   fileName,
		FilePath:   "/in/" + fileName,
		Backend:    backend,
		Status:     dbclient.TaskStatusPending,
		MaxRetries: 2,
	}
	require.NoError(t, store.InsertTask(context.Background(), task))
	return task
}

func claim(t *testing.T, store dbclient.TaskStore) *dbclient.Task {
	t.Helper()
	task, err := store.ClaimNextTask(context.Background(), "worker-1", nil)
	require.NoError(t, err)
	return task
}

func TestProcessTaskSuccess(t *testing.T) {
	runner, store, outputRoot := newTestRunner(t)
	adapter := &fakeAdapter{
		name: "fake",
		parse: func(_ context.Context, req *engine.Request) (*engine.Result, error) {
			mdPath := filepath.Join(req.OutputDir, req.TaskID+".md")
			require.NoError(t, os.WriteFile(mdPath, []byte("# out"), 0o644))
			return &engine.Result{MarkdownFile: req.TaskID + ".md"}, nil
		},
	}
	engine.Register(adapter)

	insertTask(t, store, "t1", "a.bin", "fake")
	runner.processTask(context.Background(), claim(t, store))

	task, err := store.GetTask(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, dbclient.TaskStatusCompleted, task.Status)
	assert.Equal(t, filepath.Join(outputRoot, "t1"), task.ResultDir.String)
	assert.Equal(t, filepath.Join(outputRoot, "t1", "t1.md"), task.MarkdownFile.String)
	require.Len(t, adapter.requests, 1)
	assert.Equal(t, "0", adapter.requests[0].Device)
	assert.Equal(t, "/in/a.bin", adapter.requests[0].InputPath)
}

func TestProcessTaskTransientFailureRequeues(t *testing.T) {
	runner, store, _ := newTestRunner(t)
	engine.Register(&fakeAdapter{
		name: "fake",
		parse: func(context.Context, *engine.Request) (*engine.Result, error) {
			return nil, engine.Transientf("engine crashed")
		},
	})

	insertTask(t, store, "t1", "a.bin", "fake")
	runner.processTask(context.Background(), claim(t, store))

	task, err := store.GetTask(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, dbclient.TaskStatusPending, task.Status)
	assert.Equal(t, 1, task.RetryCount)
	assert.Contains(t, task.ErrorMessage.String, "engine crashed")
}

func TestProcessTaskPermanentFailure(t *testing.T) {
	runner, store, _ := newTestRunner(t)
	engine.Register(&fakeAdapter{
		name: "fake",
		parse: func(context.Context, *engine.Request) (*engine.Result, error) {
			return nil, engine.Permanentf("unsupported input")
		},
	})

	insertTask(t, store, "t1", "a.bin", "fake")
	runner.processTask(context.Background(), claim(t, store))

	task, err := store.GetTask(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, dbclient.TaskStatusFailed, task.Status)
	assert.Equal(t, 0, task.RetryCount)
}

func TestProcessTaskMissingAdapter(t *testing.T) {
	runner, store, _ := newTestRunner(t)
	insertTask(t, store, "t1", "a.bin", "ghost")
	runner.processTask(context.Background(), claim(t, store))

	task, err := store.GetTask(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, dbclient.TaskStatusFailed, task.Status)
	assert.Contains(t, task.ErrorMessage.String, "no adapter registered")
}

func TestProcessTaskPanicIsTransient(t *testing.T) {
	runner, store, _ := newTestRunner(t)
	engine.Register(&fakeAdapter{
		name: "fake",
		parse: func(context.Context, *engine.Request) (*engine.Result, error) {
			panic("boom")
		},
	})

	insertTask(t, store, "t1", "a.bin", "fake")
	runner.processTask(context.Background(), claim(t, store))

	task, err := store.GetTask(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, dbclient.TaskStatusPending, task.Status)
	assert.Equal(t, 1, task.RetryCount)
	assert.Contains(t, task.ErrorMessage.String, "panicked")
}

func TestProcessTaskAutoResolution(t *testing.T) {
	runner, store, _ := newTestRunner(t)
	markitdown := &fakeAdapter{
		name: engine.BackendMarkitdown,
		parse: func(_ context.Context, req *engine.Request) (*engine.Result, error) {
			return &engine.Result{MarkdownFile: req.TaskID + ".md"}, nil
		},
	}
	engine.Register(markitdown)

	insertTask(t, store, "t1", "slides.docx", engine.BackendAuto)
	runner.processTask(context.Background(), claim(t, store))

	task, err := store.GetTask(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, dbclient.TaskStatusCompleted, task.Status)
	assert.Len(t, markitdown.requests, 1)
}

func TestProcessTaskCancellation(t *testing.T) {
	runner, store, _ := newTestRunner(t)
	engine.Register(&fakeAdapter{
		name: "fake",
		parse: func(_ context.Context, req *engine.Request) (*engine.Result, error) {
			if req.Cancelled() {
				return nil, engine.ErrCancelled
			}
			return &engine.Result{}, nil
		},
	})

	insertTask(t, store, "t1", "a.bin", "fake")
	task := claim(t, store)

	// request cancellation of the in-flight task before the adapter runs
	_, inFlight, err := store.CancelTask(context.Background(), "t1")
	require.NoError(t, err)
	require.True(t, inFlight)

	runner.processTask(context.Background(), task)

	task, err = store.GetTask(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, dbclient.TaskStatusCancelled, task.Status)
}

func TestProcessTaskCancellationDiscardsPartialOutput(t *testing.T) {
	runner, store, outputRoot := newTestRunner(t)
	engine.Register(&fakeAdapter{
		name: "fake",
		parse: func(_ context.Context, req *engine.Request) (*engine.Result, error) {
			partial := filepath.Join(req.OutputDir, "partial.md")
			require.NoError(t, os.WriteFile(partial, []byte("partial"), 0o644))
			if req.Cancelled() {
				return nil, engine.ErrCancelled
			}
			return &engine.Result{MarkdownFile: req.TaskID + ".md"}, nil
		},
	})

	insertTask(t, store, "t1", "a.bin", "fake")
	task := claim(t, store)

	_, inFlight, err := store.CancelTask(context.Background(), "t1")
	require.NoError(t, err)
	require.True(t, inFlight)

	runner.processTask(context.Background(), task)

	task, err = store.GetTask(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, dbclient.TaskStatusCancelled, task.Status)

	// The half-written output directory goes with the task.
	_, err = os.Stat(filepath.Join(outputRoot, "t1"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunLoopClaimsAndStops(t *testing.T) {
	runner, store, _ := newTestRunner(t)
	done := make(chan struct{})
	engine.Register(&fakeAdapter{
		name: "fake",
		parse: func(_ context.Context, req *engine.Request) (*engine.Result, error) {
			close(done)
			return &engine.Result{MarkdownFile: req.TaskID + ".md"}, nil
		},
	})
	insertTask(t, store, "t1", "a.bin", "fake")

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		runner.Run(ctx)
		close(stopped)
	}()
	runner.Poke()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("task was never processed")
	}
	cancel()
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not stop on context cancel")
	}
}
