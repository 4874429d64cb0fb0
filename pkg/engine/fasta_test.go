/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fastaSample = `>seq1 first sequence
GATCGATCGC
ATGC
>seq2
gggccc
`

func writeInput(t *testing.T, name, content string) *Request {
	t.Helper()
	dir := t.TempDir()
	inputPath := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(inputPath, []byte(content), 0o644))
	outputDir := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(outputDir, 0o755))
	return &Request{TaskID: "t1", InputPath: inputPath, OutputDir: outputDir}
}

func TestFastaParse(t *testing.T) {
	req := writeInput(t, "genome.fasta", fastaSample)
	result, err := NewFastaAdapter().Parse(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "t1.md", result.MarkdownFile)
	assert.Equal(t, "t1.json", result.JSONFile)

	records, err := parseFasta(req)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "seq1", records[0].ID)
	assert.Equal(t, "first sequence", records[0].Description)
	assert.Equal(t, 14, records[0].Length)
	assert.Equal(t, "GGGCCC", records[1].Sequence)
	assert.InDelta(t, 100.0, records[1].GCContent, 0.01)

	md, err := os.ReadFile(filepath.Join(req.OutputDir, result.MarkdownFile))
	require.NoError(t, err)
	assert.Contains(t, string(md), "| seq1 | first sequence | 14 |")
}

func TestFastaParseErrors(t *testing.T) {
	t.Run("empty input is permanent", func(t *testing.T) {
		req := writeInput(t, "empty.fa", "")
		_, err := NewFastaAdapter().Parse(context.Background(), req)
		assert.False(t, IsTransient(err))
	})
	t.Run("data before header is permanent", func(t *testing.T) {
		req := writeInput(t, "bad.fa", "GATC\n>seq1\nATGC\n")
		_, err := NewFastaAdapter().Parse(context.Background(), req)
		assert.False(t, IsTransient(err))
	})
	t.Run("cancellation observed between records", func(t *testing.T) {
		req := writeInput(t, "genome.fa", fastaSample)
		req.Cancelled = func() bool { return true }
		_, err := NewFastaAdapter().Parse(context.Background(), req)
		assert.ErrorIs(t, err, ErrCancelled)
	})
}

const genbankSample = `LOCUS       SCU49845     5028 bp    DNA             PLN       21-JUN-1999
DEFINITION  Saccharomyces cerevisiae TCP1-beta gene, partial cds.
ACCESSION   U49845
  ORGANISM  Saccharomyces cerevisiae
FEATURES             Location/Qualifiers
     source          1..5028
                     /organism="Saccharomyces cerevisiae"
     CDS             <1..206
                     /codon_start=3
ORIGIN
        1 gatcctccat atacaacggt atctccacct caggtttaga tctcaacaac ggaaccattg
       61 ccgacatgag acagttaggt atcgtcgaga gttacaagct aaaacgagca gtagtcagct
//
`

func TestGenbankParse(t *testing.T) {
	req := writeInput(t, "plasmid.gb", genbankSample)
	result, err := NewGenbankAdapter().Parse(context.Background(), req)
	require.NoError(t, err)

	records, err := parseGenbank(req)
	require.NoError(t, err)
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "SCU49845", rec.Locus)
	assert.Equal(t, "U49845", rec.Accession)
	assert.Equal(t, "Saccharomyces cerevisiae", rec.Organism)
	assert.Equal(t, 120, rec.Length)
	assert.Equal(t, 2, rec.FeatureCount)

	md, err := os.ReadFile(filepath.Join(req.OutputDir, result.MarkdownFile))
	require.NoError(t, err)
	assert.Contains(t, string(md), "| SCU49845 | U49845 |")
}

func TestGenbankTruncatedRecord(t *testing.T) {
	req := writeInput(t, "trunc.gb", "LOCUS       ABC 10 bp\nORIGIN\n        1 gatc\n")
	_, err := NewGenbankAdapter().Parse(context.Background(), req)
	assert.False(t, IsTransient(err))
}
