/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package engine

import (
	"context"

	"k8s.io/klog/v2"
)

// sensevoiceAdapter transcribes audio through the SenseVoice CLI. The
// engine writes a markdown transcript plus a JSON segment list.
type sensevoiceAdapter struct{}

// NewSensevoiceAdapter returns the audio transcription adapter.
func NewSensevoiceAdapter() Adapter {
	return &sensevoiceAdapter{}
}

func (a *sensevoiceAdapter) Name() string { return BackendSensevoice }

func (a *sensevoiceAdapter) Supports(fileName string) bool {
	return ResolveAuto(fileName) == BackendSensevoice
}

func (a *sensevoiceAdapter) Parse(ctx context.Context, req *Request) (*Result, error) {
	args := []string{"-i", req.InputPath, "-o", req.OutputDir}
	if optBool(req.Options, "enable_speaker_diarization", false) {
		args = append(args, "--diarize")
	}
	if lang := optString(req.Options, "lang"); lang != "" {
		args = append(args, "-l", lang)
	}
	klog.InfoS("invoking sensevoice", "taskId", req.TaskID, "device", req.Device)
	output, err := runCommand(ctx, req, "sensevoice", args...)
	if err != nil {
		klog.ErrorS(err, "sensevoice run failed", "taskId", req.TaskID, "outputTail", tail(output, 512))
		return nil, err
	}
	return collectArtifacts(req.OutputDir, req.TaskID)
}

// videoAdapter runs the video pipeline: audio extraction followed by
// transcription, one external binary.
type videoAdapter struct{}

// NewVideoAdapter returns the video transcription adapter.
func NewVideoAdapter() Adapter {
	return &videoAdapter{}
}

func (a *videoAdapter) Name() string { return BackendVideo }

func (a *videoAdapter) Supports(fileName string) bool {
	return ResolveAuto(fileName) == BackendVideo
}

func (a *videoAdapter) Parse(ctx context.Context, req *Request) (*Result, error) {
	args := []string{"-i", req.InputPath, "-o", req.OutputDir}
	if lang := optString(req.Options, "lang"); lang != "" {
		args = append(args, "-l", lang)
	}
	klog.InfoS("invoking video pipeline", "taskId", req.TaskID, "device", req.Device)
	output, err := runCommand(ctx, req, "video-parse", args...)
	if err != nil {
		klog.ErrorS(err, "video pipeline run failed", "taskId", req.TaskID, "outputTail", tail(output, 512))
		return nil, err
	}
	return collectArtifacts(req.OutputDir, req.TaskID)
}
