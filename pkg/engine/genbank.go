/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package engine

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// GenbankRecord is one parsed GenBank entry.
type GenbankRecord struct {
	Locus        string  `json:"locus"`
	Definition   string  `json:"definition"`
	Accession    string  `json:"accession"`
	Organism     string  `json:"organism"`
	Length       int     `json:"length"`
	GCContent    float64 `json:"gc_content"`
	FeatureCount int     `json:"feature_count"`
	Sequence     string  `json:"sequence"`
}

// genbankAdapter parses GenBank flat files natively, the second in-process
// bioinformatics engine.
type genbankAdapter struct{}

// NewGenbankAdapter returns the GenBank format adapter.
func NewGenbankAdapter() Adapter {
	return &genbankAdapter{}
}

func (a *genbankAdapter) Name() string { return BackendGenbank }

func (a *genbankAdapter) Supports(fileName string) bool {
	return ResolveAuto(fileName) == BackendGenbank
}

func (a *genbankAdapter) Parse(ctx context.Context, req *Request) (*Result, error) {
	records, err := parseGenbank(req)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, Permanentf("no GenBank records in %s", filepath.Base(req.InputPath))
	}
	return writeGenbankArtifacts(req, records)
}

func parseGenbank(req *Request) ([]*GenbankRecord, error) {
	file, err := os.Open(req.InputPath)
	if err != nil {
		return nil, Transientf("failed to open input: %v", err)
	}
	defer file.Close()

	var records []*GenbankRecord
	var current *GenbankRecord
	var seq strings.Builder
	inOrigin := false
	inFeatures := false

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "LOCUS"):
			if req.Cancelled != nil && req.Cancelled() {
				return nil, ErrCancelled
			}
			fields := strings.Fields(line)
			current = &GenbankRecord{}
			if len(fields) > 1 {
				current.Locus = fields[1]
			}
			inOrigin, inFeatures = false, false
			seq.Reset()
		case current == nil:
			continue
		case strings.HasPrefix(line, "DEFINITION"):
			current.Definition = strings.TrimSpace(strings.TrimPrefix(line, "DEFINITION"))
		case strings.HasPrefix(line, "ACCESSION"):
			fields := strings.Fields(line)
			if len(fields) > 1 {
				current.Accession = fields[1]
			}
		case strings.Contains(line, "ORGANISM"):
			current.Organism = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "ORGANISM"))
		case strings.HasPrefix(line, "FEATURES"):
			inFeatures = true
		case strings.HasPrefix(line, "ORIGIN"):
			inFeatures = false
			inOrigin = true
		case strings.HasPrefix(line, "//"):
			current.Sequence = seq.String()
			current.Length = len(current.Sequence)
			current.GCContent = gcContent(current.Sequence)
			records = append(records, current)
			current = nil
		case inOrigin:
			// Sequence lines: "        1 gatcctccat ..." - strip offsets and blanks.
			for _, field := range strings.Fields(line) {
				if isSequenceChunk(field) {
					seq.WriteString(strings.ToUpper(field))
				}
			}
		case inFeatures:
			// Feature keys start at column 5; qualifiers are indented deeper.
			trimmed := strings.TrimLeft(line, " ")
			indent := len(line) - len(trimmed)
			if indent == 5 && trimmed != "" {
				current.FeatureCount++
			}
		}
	}
	if err = scanner.Err(); err != nil {
		return nil, Transientf("failed to read input: %v", err)
	}
	if current != nil {
		return nil, Permanentf("truncated GenBank record %s (missing //)", current.Locus)
	}
	return records, nil
}

func isSequenceChunk(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return s != ""
}

func writeGenbankArtifacts(req *Request, records []*GenbankRecord) (*Result, error) {
	var md strings.Builder
	fmt.Fprintf(&md, "# GenBank: %s\n\n", filepath.Base(req.InputPath))
	fmt.Fprintf(&md, "%d record(s)\n\n", len(records))
	md.WriteString("| Locus | Accession | Organism | Length | GC% | Features |\n|---|---|---|---|---|---|\n")
	for _, rec := range records {
		fmt.Fprintf(&md, "| %s | %s | %s | %d | %.2f | %d |\n",
			rec.Locus, rec.Accession, rec.Organism, rec.Length, rec.GCContent, rec.FeatureCount)
	}

	mdName := req.TaskID + ".md"
	if err := os.WriteFile(filepath.Join(req.OutputDir, mdName), []byte(md.String()), 0o644); err != nil {
		return nil, Transientf("failed to write markdown artifact: %v", err)
	}
	jsonName := req.TaskID + ".json"
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, Permanentf("failed to encode records: %v", err)
	}
	if err = os.WriteFile(filepath.Join(req.OutputDir, jsonName), data, 0o644); err != nil {
		return nil, Transientf("failed to write json artifact: %v", err)
	}
	return &Result{MarkdownFile: mdName, JSONFile: jsonName}, nil
}
