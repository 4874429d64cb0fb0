/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package config

const (
	// apiserver
	apiserverPrefix            = "apiserver."
	apiserverPort              = apiserverPrefix + "port"
	apiserverRequestTimeoutSec = apiserverPrefix + "max_request_timeout_seconds"
	apiserverMaxUploadBytes    = apiserverPrefix + "max_upload_size_bytes"
	apiserverTokenRequired     = apiserverPrefix + "token_required"
	apiserverTokenKey          = apiserverPrefix + "token_key"

	// worker
	workerPrefix           = "worker."
	workerPort             = workerPrefix + "port"
	workerDevices          = workerPrefix + "devices"
	workerWorkersPerDevice = workerPrefix + "workers_per_device"
	workerPollIntervalMs   = workerPrefix + "poll_interval_ms"
	workerBackends         = workerPrefix + "backends"

	// storage
	storagePrefix     = "storage."
	storageDBPath     = storagePrefix + "db_path"
	storageUploadRoot = storagePrefix + "upload_root"
	storageOutputRoot = storagePrefix + "output_root"

	// maintenance
	maintenancePrefix            = "maintenance."
	maintenanceStaleTimeoutMin   = maintenancePrefix + "stale_timeout_minutes"
	maintenanceRetentionDays     = maintenancePrefix + "purge_retention_days"
	maintenanceResetIntervalMin  = maintenancePrefix + "reset_interval_minutes"
	maintenancePurgeIntervalHour = maintenancePrefix + "purge_interval_hours"
	maintenanceProbeIntervalMin  = maintenancePrefix + "worker_probe_interval_minutes"
	maintenanceWorkerEndpoints   = maintenancePrefix + "worker_endpoints"

	// task defaults
	taskPrefix     = "task."
	taskMaxRetries = taskPrefix + "max_retries"

	// s3 image sink
	s3Prefix    = "s3."
	s3Enable    = s3Prefix + "enable"
	s3Endpoint  = s3Prefix + "endpoint"
	s3AccessKey = s3Prefix + "access_key"
	s3SecretKey = s3Prefix + "secret_key"
	s3Bucket    = s3Prefix + "bucket"
	s3PublicURL = s3Prefix + "public_url"
	s3Secure    = s3Prefix + "secure"
	s3Region    = s3Prefix + "region"

	// db tuning
	dbPrefix            = "db."
	dbMaxOpenConns      = dbPrefix + "max_open_conns"
	dbMaxIdleConns      = dbPrefix + "max_idle_conns"
	dbRequestTimeoutSec = dbPrefix + "request_timeout_seconds"
	dbBusyTimeoutMs     = dbPrefix + "busy_timeout_ms"
)
