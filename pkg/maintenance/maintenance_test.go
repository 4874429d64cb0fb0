/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package maintenance

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonconfig "github.com/dinobot22/mineru-tianshu/pkg/config"
	dbclient "github.com/dinobot22/mineru-tianshu/pkg/database/client"
	"github.com/dinobot22/mineru-tianshu/pkg/database/client/mock"
)

func newTestStore(t *testing.T) dbclient.TaskStore {
	t.Helper()
	store, err := dbclient.NewClientFromPath(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return store
}

func TestStaleResetJob(t *testing.T) {
	store := newTestStore(t)
	job := NewStaleReset(store)
	assert.Equal(t, "stale-reset", job.Name())
	assert.Equal(t, time.Duration(commonconfig.GetResetIntervalMinute())*time.Minute, job.Interval())

	count, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestRetentionCleanupJob(t *testing.T) {
	store := newTestStore(t)
	job := NewRetentionCleanup(store)
	assert.Equal(t, "retention-cleanup", job.Name())

	count, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestJobsPropagateStoreErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := mock.NewMockTaskStore(ctrl)
	store.EXPECT().ResetStaleTasks(gomock.Any(), gomock.Any()).
		Return(int64(0), errors.New("store down"))
	store.EXPECT().PurgeOldTasks(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(int64(0), errors.New("store down"))

	_, err := NewStaleReset(store).Run(context.Background())
	assert.Error(t, err)
	_, err = NewRetentionCleanup(store).Run(context.Background())
	assert.Error(t, err)
}

func TestWorkerProbeJob(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer healthy.Close()
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer broken.Close()

	commonconfig.SetValue("maintenance.worker_endpoints", healthy.URL+","+broken.URL)
	defer commonconfig.SetValue("maintenance.worker_endpoints", "")

	job := NewWorkerProbe()
	require.NotNil(t, job)
	up, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), up)
}

func TestWorkerProbeDisabledWithoutEndpoints(t *testing.T) {
	commonconfig.SetValue("maintenance.worker_endpoints", "")
	assert.Nil(t, NewWorkerProbe())
}

func TestRunnerStopsOnContextCancel(t *testing.T) {
	runner := NewRunner(NewStaleReset(newTestStore(t)), nil)
	ctx, cancel := context.WithCancel(context.Background())
	runner.Start(ctx)
	cancel()
	// the loops exit during the startup grace; nothing to assert beyond no
	// panic and no leaked goroutine blocking test exit
}
