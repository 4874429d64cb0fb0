/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassification(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		transient bool
	}{
		{name: "transient wrapper", err: Transientf("cuda OOM"), transient: true},
		{name: "permanent wrapper", err: Permanentf("unsupported format"), transient: false},
		{name: "unclassified defaults to transient", err: errors.New("boom"), transient: true},
		{name: "cancelled is not retryable", err: ErrCancelled, transient: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.transient, IsTransient(tt.err))
		})
	}
}

func TestClassifyExecError(t *testing.T) {
	baseErr := errors.New("exit status 1")
	tests := []struct {
		name      string
		output    string
		transient bool
	}{
		{name: "oom", output: "RuntimeError: CUDA out of memory", transient: true},
		{name: "model warmup", output: "model is loading, try again", transient: true},
		{name: "connection", output: "connection refused by inference server", transient: true},
		{name: "unsupported", output: "error: unsupported file type .xyz", transient: false},
		{name: "encrypted input", output: "PDF is password protected", transient: false},
		{name: "no marker", output: "segfault somewhere deep", transient: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyExecError("mineru", baseErr, tt.output)
			assert.Equal(t, tt.transient, IsTransient(err))
		})
	}
}

func TestRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)
	RegisterDefaults()

	assert.True(t, IsRegistered("pipeline"))
	assert.True(t, IsRegistered("PIPELINE"))
	assert.True(t, IsRegistered(BackendAuto))
	assert.False(t, IsRegistered("no-such-backend"))

	adapter, ok := Get("fasta")
	assert.True(t, ok)
	assert.Equal(t, BackendFasta, adapter.Name())

	assert.Equal(t, []string{
		BackendFasta, BackendGenbank, BackendMarkitdown, BackendPaddleOCRVL,
		BackendPipeline, BackendSensevoice, BackendVideo,
	}, Names())
}

func TestResolveAuto(t *testing.T) {
	tests := []struct {
		fileName string
		backend  string
	}{
		{"report.pdf", BackendPipeline},
		{"scan.PNG", BackendPipeline},
		{"slides.pptx", BackendMarkitdown},
		{"notes.csv", BackendMarkitdown},
		{"meeting.wav", BackendSensevoice},
		{"talk.mp3", BackendSensevoice},
		{"demo.mp4", BackendVideo},
		{"genome.fasta", BackendFasta},
		{"genome.fa", BackendFasta},
		{"plasmid.gb", BackendGenbank},
		{"mystery.bin", BackendPipeline},
	}
	for _, tt := range tests {
		t.Run(tt.fileName, func(t *testing.T) {
			assert.Equal(t, tt.backend, ResolveAuto(tt.fileName))
		})
	}
}

func TestDeviceEnv(t *testing.T) {
	assert.Nil(t, deviceEnv(""))
	assert.Equal(t, []string{"CUDA_VISIBLE_DEVICES=", "HIP_VISIBLE_DEVICES="}, deviceEnv("cpu"))
	assert.Equal(t, []string{"CUDA_VISIBLE_DEVICES=1", "HIP_VISIBLE_DEVICES=1"}, deviceEnv("1"))
}
