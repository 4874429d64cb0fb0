/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	viper.Reset()
	assert.Equal(t, 8000, GetAPIServerPort())
	assert.Equal(t, 9000, GetWorkerPort())
	assert.Equal(t, []string{"0"}, GetWorkerDevices())
	assert.Equal(t, 1, GetWorkersPerDevice())
	assert.Equal(t, 500, GetWorkerPollIntervalMs())
	assert.Equal(t, 60, GetStaleTimeoutMinute())
	assert.Equal(t, 7, GetPurgeRetentionDays())
	assert.Equal(t, 5, GetResetIntervalMinute())
	assert.Equal(t, 6, GetPurgeIntervalHour())
	assert.Equal(t, 300, GetMaxRequestTimeoutSecond())
	assert.Equal(t, int64(500*1024*1024), GetMaxUploadSizeBytes())
	assert.Equal(t, 3, GetTaskMaxRetries())
	assert.False(t, IsUserTokenRequired())
	assert.False(t, IsS3Enable())
	assert.Empty(t, GetWorkerBackends())
	assert.Empty(t, GetWorkerEndpoints())
}

func TestLoadConfig(t *testing.T) {
	viper.Reset()
	content := []byte(`
apiserver:
  port: 8100
  token_required: true
  token_key: secret
worker:
  devices: "0, 1 ,cpu"
  workers_per_device: 2
  backends: "pipeline,markitdown"
storage:
  db_path: /var/lib/tianshu/tianshu.db
maintenance:
  stale_timeout_minutes: 30
  worker_endpoints: "http://w1:9000,http://w2:9000"
s3:
  enable: true
  endpoint: http://minio:9000
  bucket: imgs
`)
	path := filepath.Join(t.TempDir(), "config.yaml")
	assert.NoError(t, os.WriteFile(path, content, 0o644))
	assert.NoError(t, LoadConfig(path))

	assert.Equal(t, 8100, GetAPIServerPort())
	assert.True(t, IsUserTokenRequired())
	assert.Equal(t, "secret", GetTokenKey())
	assert.Equal(t, []string{"0", "1", "cpu"}, GetWorkerDevices())
	assert.Equal(t, 2, GetWorkersPerDevice())
	assert.Equal(t, []string{"pipeline", "markitdown"}, GetWorkerBackends())
	assert.Equal(t, "/var/lib/tianshu/tianshu.db", GetDBPath())
	assert.Equal(t, 30, GetStaleTimeoutMinute())
	assert.Equal(t, []string{"http://w1:9000", "http://w2:9000"}, GetWorkerEndpoints())
	assert.True(t, IsS3Enable())
	assert.Equal(t, "imgs", GetS3Bucket())
	// public_url falls back to the endpoint when unset
	assert.Equal(t, "http://minio:9000", GetS3PublicURL())
}

func TestLoadConfigMissingFile(t *testing.T) {
	viper.Reset()
	assert.Error(t, LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")))
}
