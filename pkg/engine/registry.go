/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package engine

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"k8s.io/klog/v2"
)

// BackendAuto resolves to a concrete backend by file extension at claim
// time; it is accepted at submission but never registered as an adapter.
const BackendAuto = "auto"

var (
	mu       sync.RWMutex
	adapters = make(map[string]Adapter)
)

// Register adds an adapter under its backend name. Later registrations of
// the same name win, which lets tests swap in fakes.
func Register(a Adapter) {
	mu.Lock()
	defer mu.Unlock()
	adapters[strings.ToLower(a.Name())] = a
	klog.Infof("registered engine adapter: %s", a.Name())
}

// Get returns the adapter for the given backend name.
func Get(name string) (Adapter, bool) {
	mu.RLock()
	defer mu.RUnlock()
	a, ok := adapters[strings.ToLower(name)]
	return a, ok
}

// IsRegistered reports whether the backend name resolves to an adapter.
// The auto pseudo-backend is always accepted.
func IsRegistered(name string) bool {
	if strings.ToLower(name) == BackendAuto {
		return true
	}
	_, ok := Get(name)
	return ok
}

// Names returns the registered backend names, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(adapters))
	for name := range adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reset drops every registered adapter. Test use only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	adapters = make(map[string]Adapter)
}

// ResolveAuto maps a file name to the backend that should parse it. Unknown
// extensions fall through to the document pipeline, which has the broadest
// input support.
func ResolveAuto(fileName string) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf", ".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff", ".webp":
		return BackendPipeline
	case ".doc", ".docx", ".ppt", ".pptx", ".xls", ".xlsx",
		".html", ".htm", ".csv", ".txt", ".epub", ".msg":
		return BackendMarkitdown
	case ".wav", ".mp3", ".m4a", ".flac", ".ogg", ".aac":
		return BackendSensevoice
	case ".mp4", ".mkv", ".avi", ".mov", ".webm":
		return BackendVideo
	case ".fa", ".fasta", ".fna", ".faa":
		return BackendFasta
	case ".gb", ".gbk", ".genbank":
		return BackendGenbank
	default:
		return BackendPipeline
	}
}
