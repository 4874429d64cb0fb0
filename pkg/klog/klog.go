/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package klog

import (
	"flag"
	"strconv"

	"k8s.io/klog/v2"
)

// Init initializes the klog logging system. When logfilePath is non-empty the
// process logs to that file and mirrors to stderr; otherwise it logs to
// stderr only, which is the mode the worker uses under a process supervisor.
func Init(logfilePath string, logFileSize int) error {
	klog.InitFlags(nil)
	if logfilePath != "" {
		flag.Set("log_file", logfilePath)
		flag.Set("alsologtostderr", "true")
		flag.Set("logtostderr", "false")
		if logFileSize != 0 {
			flag.Set("log_file_max_size", strconv.Itoa(logFileSize))
		}
	} else {
		flag.Set("logtostderr", "true")
	}
	flag.Set("skip_log_headers", "true")
	flag.Parse()
	return nil
}
