/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

// Package markdown rewrites local image references inside engine-produced
// markdown into public object-store URLs, so inline status responses render
// outside the worker filesystem.
package markdown

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"
	"k8s.io/klog/v2"
)

// Uploader pushes one local image and returns its public URL.
type Uploader interface {
	UploadImage(ctx context.Context, localPath string) (string, error)
}

type imageRef struct {
	alt  string
	dest string
}

// RewriteImages uploads every local image referenced by content (resolved
// relative to baseDir) and replaces the markdown reference with an HTML img
// tag pointing at the public URL. A failed upload leaves that reference
// untouched. Returns the rewritten content and how many images were
// uploaded.
func RewriteImages(ctx context.Context, content, baseDir string, uploader Uploader) (string, int) {
	refs := collectImageRefs(content)
	if len(refs) == 0 {
		return content, 0
	}
	uploaded := 0
	for _, ref := range refs {
		if isRemote(ref.dest) {
			continue
		}
		localPath := ref.dest
		if !filepath.IsAbs(localPath) {
			localPath = filepath.Join(baseDir, localPath)
		}
		url, err := uploader.UploadImage(ctx, localPath)
		if err != nil {
			klog.ErrorS(err, "failed to upload artifact image", "path", localPath)
			continue
		}
		original := fmt.Sprintf("![%s](%s)", ref.alt, ref.dest)
		replacement := fmt.Sprintf(`<img src="%s" alt="%s">`, url, ref.alt)
		content = strings.ReplaceAll(content, original, replacement)
		uploaded++
	}
	return content, uploaded
}

// collectImageRefs walks the markdown AST and returns every image node's
// alt text and destination, in document order.
func collectImageRefs(content string) []imageRef {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	doc := p.Parse([]byte(content))
	var refs []imageRef
	seen := make(map[string]bool)
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		img, ok := node.(*ast.Image)
		if !ok {
			return ast.GoToNext
		}
		ref := imageRef{dest: string(img.Destination), alt: childText(img)}
		key := ref.alt + "\x00" + ref.dest
		if !seen[key] {
			seen[key] = true
			refs = append(refs, ref)
		}
		return ast.GoToNext
	})
	return refs
}

func childText(node ast.Node) string {
	var sb strings.Builder
	ast.WalkFunc(node, func(child ast.Node, entering bool) ast.WalkStatus {
		if leaf, ok := child.(*ast.Text); ok && entering {
			sb.Write(leaf.Literal)
		}
		return ast.GoToNext
	})
	return sb.String()
}

func isRemote(dest string) bool {
	return strings.HasPrefix(dest, "http://") || strings.HasPrefix(dest, "https://") ||
		strings.HasPrefix(dest, "data:")
}
