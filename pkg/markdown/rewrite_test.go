/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package markdown

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeUploader struct {
	uploads []string
	failOn  string
}

func (f *fakeUploader) UploadImage(_ context.Context, localPath string) (string, error) {
	if f.failOn != "" && filepath.Base(localPath) == f.failOn {
		return "", errors.New("upload failed")
	}
	f.uploads = append(f.uploads, localPath)
	return "https://cdn.example.com/images/" + filepath.Base(localPath), nil
}

func TestRewriteImages(t *testing.T) {
	content := "# Doc\n\n![figure one](images/fig1.png)\n\ntext\n\n![](images/fig2.jpg)\n"
	uploader := &fakeUploader{}

	rewritten, uploaded := RewriteImages(context.Background(), content, "/out/t1", uploader)
	assert.Equal(t, 2, uploaded)
	assert.Contains(t, rewritten, `<img src="https://cdn.example.com/images/fig1.png" alt="figure one">`)
	assert.Contains(t, rewritten, `<img src="https://cdn.example.com/images/fig2.jpg" alt="">`)
	assert.NotContains(t, rewritten, "![figure one]")
	assert.Equal(t, []string{
		filepath.Join("/out/t1", "images/fig1.png"),
		filepath.Join("/out/t1", "images/fig2.jpg"),
	}, uploader.uploads)
}

func TestRewriteImagesSkipsRemote(t *testing.T) {
	content := "![ext](https://elsewhere.example.com/x.png)\n"
	uploader := &fakeUploader{}
	rewritten, uploaded := RewriteImages(context.Background(), content, "/out", uploader)
	assert.Equal(t, 0, uploaded)
	assert.Equal(t, content, rewritten)
}

func TestRewriteImagesLeavesFailedUploads(t *testing.T) {
	content := "![a](a.png)\n\n![b](b.png)\n"
	uploader := &fakeUploader{failOn: "a.png"}
	rewritten, uploaded := RewriteImages(context.Background(), content, "/out", uploader)
	assert.Equal(t, 1, uploaded)
	assert.Contains(t, rewritten, "![a](a.png)")
	assert.Contains(t, rewritten, `<img src="https://cdn.example.com/images/b.png" alt="b">`)
}

func TestRewriteImagesNoImages(t *testing.T) {
	content := "# Plain\n\nno images here\n"
	rewritten, uploaded := RewriteImages(context.Background(), content, "/out", &fakeUploader{})
	assert.Equal(t, 0, uploaded)
	assert.Equal(t, content, rewritten)
}
