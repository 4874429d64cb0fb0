/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package config

import (
	"strings"

	"github.com/spf13/viper"
)

const (
	defaultAPIPort           = 8000
	defaultWorkerPort        = 9000
	defaultRequestTimeoutSec = 300
	defaultMaxUploadBytes    = 500 * 1024 * 1024
	defaultPollIntervalMs    = 500
	defaultStaleTimeoutMin   = 60
	defaultRetentionDays     = 7
	defaultResetIntervalMin  = 5
	defaultPurgeIntervalHour = 6
	defaultProbeIntervalMin  = 15
	defaultMaxRetries        = 3
)

func SetValue(key string, value interface{}) {
	viper.Set(key, value)
}

func LoadConfig(path string) error {
	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")
	return viper.ReadInConfig()
}

func getString(key, defaultValue string) string {
	if !viper.IsSet(key) {
		return defaultValue
	}
	return viper.GetString(key)
}

func getBool(key string, defaultValue bool) bool {
	if !viper.IsSet(key) {
		return defaultValue
	}
	return viper.GetBool(key)
}

func getInt(key string, defaultValue int) int {
	if !viper.IsSet(key) {
		return defaultValue
	}
	return viper.GetInt(key)
}

func getStrings(key string) []string {
	val := viper.GetString(key)
	return removeBlank(strings.Split(val, ","))
}

func removeBlank(slice []string) []string {
	var result []string
	for _, val := range slice {
		if trim := strings.TrimSpace(val); trim != "" {
			result = append(result, trim)
		}
	}
	return result
}

// GetAPIServerPort returns the port the HTTP API listens on.
func GetAPIServerPort() int {
	return getInt(apiserverPort, defaultAPIPort)
}

// GetMaxRequestTimeoutSecond returns the per-request timeout for API handlers.
func GetMaxRequestTimeoutSecond() int {
	return getInt(apiserverRequestTimeoutSec, defaultRequestTimeoutSec)
}

// GetMaxUploadSizeBytes returns the multipart upload size cap.
func GetMaxUploadSizeBytes() int64 {
	return int64(getInt(apiserverMaxUploadBytes, defaultMaxUploadBytes))
}

// IsUserTokenRequired reports whether API requests must carry a signed token.
// When false, the principal is resolved from plain identity headers, which is
// the mode used behind a trusted gateway.
func IsUserTokenRequired() bool {
	return getBool(apiserverTokenRequired, false)
}

// GetTokenKey returns the HMAC key used to sign and validate API tokens.
func GetTokenKey() string {
	return getString(apiserverTokenKey, "")
}

// GetWorkerPort returns the port of the worker control endpoint.
func GetWorkerPort() int {
	return getInt(workerPort, defaultWorkerPort)
}

// GetWorkerDevices returns the device bindings for worker slots, e.g.
// ["0","1"] for two GPUs or ["cpu"].
func GetWorkerDevices() []string {
	devices := getStrings(workerDevices)
	if len(devices) == 0 {
		devices = []string{"0"}
	}
	return devices
}

// GetWorkersPerDevice returns how many worker slots share one device.
func GetWorkersPerDevice() int {
	n := getInt(workerWorkersPerDevice, 1)
	if n < 1 {
		n = 1
	}
	return n
}

// GetWorkerPollIntervalMs returns the queue poll interval in milliseconds.
func GetWorkerPollIntervalMs() int {
	return getInt(workerPollIntervalMs, defaultPollIntervalMs)
}

// GetWorkerBackends returns the backends this worker claims, empty meaning
// every registered backend.
func GetWorkerBackends() []string {
	return getStrings(workerBackends)
}

// GetDBPath returns the SQLite database file location.
func GetDBPath() string {
	return getString(storageDBPath, "data/tianshu.db")
}

// GetUploadRoot returns the directory uploaded inputs are stored under.
func GetUploadRoot() string {
	return getString(storageUploadRoot, "data/uploads")
}

// GetOutputRoot returns the directory engine artifacts are written under.
func GetOutputRoot() string {
	return getString(storageOutputRoot, "data/output")
}

// GetStaleTimeoutMinute returns the processing age after which a task is
// considered abandoned.
func GetStaleTimeoutMinute() int {
	return getInt(maintenanceStaleTimeoutMin, defaultStaleTimeoutMin)
}

// GetPurgeRetentionDays returns how long terminal tasks are kept.
func GetPurgeRetentionDays() int {
	return getInt(maintenanceRetentionDays, defaultRetentionDays)
}

// GetResetIntervalMinute returns the stale-reset job cadence.
func GetResetIntervalMinute() int {
	return getInt(maintenanceResetIntervalMin, defaultResetIntervalMin)
}

// GetPurgeIntervalHour returns the retention-cleanup job cadence.
func GetPurgeIntervalHour() int {
	return getInt(maintenancePurgeIntervalHour, defaultPurgeIntervalHour)
}

// GetWorkerProbeIntervalMinute returns the worker health probe cadence.
func GetWorkerProbeIntervalMinute() int {
	return getInt(maintenanceProbeIntervalMin, defaultProbeIntervalMin)
}

// GetWorkerEndpoints returns the worker control endpoints probed by the
// maintenance loop, e.g. ["http://gpu-node-1:9000"].
func GetWorkerEndpoints() []string {
	return getStrings(maintenanceWorkerEndpoints)
}

// GetTaskMaxRetries returns the default retry budget for new tasks.
func GetTaskMaxRetries() int {
	return getInt(taskMaxRetries, defaultMaxRetries)
}

// IsS3Enable reports whether the image sink is configured.
func IsS3Enable() bool {
	return getBool(s3Enable, false)
}

func GetS3Endpoint() string {
	return getString(s3Endpoint, "")
}

func GetS3AccessKey() string {
	return getString(s3AccessKey, "")
}

func GetS3SecretKey() string {
	return getString(s3SecretKey, "")
}

func GetS3Bucket() string {
	return getString(s3Bucket, "tianshu-images")
}

// GetS3PublicURL returns the base URL rewritten image links point at,
// falling back to the endpoint itself.
func GetS3PublicURL() string {
	url := getString(s3PublicURL, "")
	if url == "" {
		return GetS3Endpoint()
	}
	return url
}

func IsS3Secure() bool {
	return getBool(s3Secure, false)
}

func GetS3Region() string {
	return getString(s3Region, "us-east-1")
}

// GetDBMaxOpenConns returns the maximum number of open database connections.
func GetDBMaxOpenConns() int {
	return getInt(dbMaxOpenConns, 10)
}

// GetDBMaxIdleConns returns the maximum number of idle database connections.
func GetDBMaxIdleConns() int {
	return getInt(dbMaxIdleConns, 5)
}

// GetDBRequestTimeoutSecond returns the database request timeout in seconds.
func GetDBRequestTimeoutSecond() int {
	return getInt(dbRequestTimeoutSec, 10)
}

// GetDBBusyTimeoutMs returns the SQLite busy handler timeout in milliseconds.
func GetDBBusyTimeoutMs() int {
	return getInt(dbBusyTimeoutMs, 5000)
}
