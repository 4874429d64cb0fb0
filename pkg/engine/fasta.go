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

// FastaRecord is one parsed sequence record.
type FastaRecord struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Length      int     `json:"length"`
	GCContent   float64 `json:"gc_content"`
	Sequence    string  `json:"sequence"`
}

// fastaAdapter parses FASTA sequence files natively. It runs in-process,
// honors the cancellation checkpoint between records, and needs no
// external binary.
type fastaAdapter struct{}

// NewFastaAdapter returns the FASTA format adapter.
func NewFastaAdapter() Adapter {
	return &fastaAdapter{}
}

func (a *fastaAdapter) Name() string { return BackendFasta }

func (a *fastaAdapter) Supports(fileName string) bool {
	return ResolveAuto(fileName) == BackendFasta
}

func (a *fastaAdapter) Parse(ctx context.Context, req *Request) (*Result, error) {
	records, err := parseFasta(req)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, Permanentf("no FASTA records in %s", filepath.Base(req.InputPath))
	}
	return writeSequenceArtifacts(req, "FASTA", records)
}

func parseFasta(req *Request) ([]*FastaRecord, error) {
	file, err := os.Open(req.InputPath)
	if err != nil {
		return nil, Transientf("failed to open input: %v", err)
	}
	defer file.Close()

	var records []*FastaRecord
	var current *FastaRecord
	var seq strings.Builder
	flush := func() {
		if current == nil {
			return
		}
		current.Sequence = seq.String()
		current.Length = len(current.Sequence)
		current.GCContent = gcContent(current.Sequence)
		records = append(records, current)
		current = nil
		seq.Reset()
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, ">") {
			if req.Cancelled != nil && req.Cancelled() {
				return nil, ErrCancelled
			}
			flush()
			header := strings.TrimPrefix(line, ">")
			id, desc := header, ""
			if idx := strings.IndexAny(header, " \t"); idx > 0 {
				id, desc = header[:idx], strings.TrimSpace(header[idx+1:])
			}
			current = &FastaRecord{ID: id, Description: desc}
			continue
		}
		if current == nil {
			return nil, Permanentf("sequence data before first header in %s", filepath.Base(req.InputPath))
		}
		seq.WriteString(strings.ToUpper(line))
	}
	if err = scanner.Err(); err != nil {
		return nil, Transientf("failed to read input: %v", err)
	}
	flush()
	return records, nil
}

func gcContent(seq string) float64 {
	if len(seq) == 0 {
		return 0
	}
	var gc int
	for _, base := range seq {
		if base == 'G' || base == 'C' || base == 'g' || base == 'c' {
			gc++
		}
	}
	return float64(gc) / float64(len(seq)) * 100
}

// writeSequenceArtifacts renders the record set as a markdown summary table
// plus a JSON dump, the artifact pair the status endpoint inlines.
func writeSequenceArtifacts(req *Request, format string, records []*FastaRecord) (*Result, error) {
	var md strings.Builder
	fmt.Fprintf(&md, "# %s: %s\n\n", format, filepath.Base(req.InputPath))
	fmt.Fprintf(&md, "%d sequence record(s)\n\n", len(records))
	md.WriteString("| ID | Description | Length | GC% |\n|---|---|---|---|\n")
	for _, rec := range records {
		fmt.Fprintf(&md, "| %s | %s | %d | %.2f |\n", rec.ID, rec.Description, rec.Length, rec.GCContent)
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
