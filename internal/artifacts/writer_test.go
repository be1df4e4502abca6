package artifacts_test

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"dox/internal/artifacts"
	"dox/internal/chr"
	"dox/internal/embedding"
)

func sampleResult(t *testing.T) *chr.Result {
	t.Helper()
	units := []string{
		"Quarterly revenue exceeded expectations",
		"The fox crossed the river at dawn",
		"Interest rates were held steady",
		"A den of foxes was spotted upstream",
		"Analysts raised their price targets",
		"The cubs hunted through the night",
	}
	pipeline := chr.NewPipeline(embedding.NewChain(nil, embedding.NewHashingEmbedder()), nil)
	result, err := pipeline.Run(context.Background(), units, chr.DefaultParams())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return result
}

func TestWriteRowsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.csv")
	rows := []chr.Row{
		{Idx: 2, Constellation: 1, Radius: 0.987654321, Text: "first ranked", Page: 3},
		{Idx: 0, Constellation: 0, Radius: 0.5, Text: "second ranked", Page: 0},
	}
	if err := artifacts.WriteRowsCSV(path, rows); err != nil {
		t.Fatalf("WriteRowsCSV failed: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer file.Close()
	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}

	if !reflect.DeepEqual(records[0], artifacts.CSVColumns) {
		t.Fatalf("header = %#v, want %#v", records[0], artifacts.CSVColumns)
	}
	if !reflect.DeepEqual(records[1], []string{"2", "1", "0.987654", "first ranked", "3"}) {
		t.Fatalf("unexpected first record: %#v", records[1])
	}
	if records[2][4] != "" {
		t.Fatalf("page 0 must render as an empty cell, got %q", records[2][4])
	}
}

func TestWriteResultJSON(t *testing.T) {
	result := sampleResult(t)
	path := filepath.Join(t.TempDir(), "result.json")
	if err := artifacts.WriteResultJSON(path, result); err != nil {
		t.Fatalf("WriteResultJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read result json: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("parse result json: %v", err)
	}
	for _, field := range []string{
		"backend", "k", "mhep",
		"final_global_entropy", "final_spectral_entropy",
		"global_entropy", "spectral_entropy",
		"labels", "order", "rows",
	} {
		if _, ok := decoded[field]; !ok {
			t.Fatalf("result json missing field %q", field)
		}
	}
	if _, ok := decoded["embeddings"]; ok {
		t.Fatal("embeddings must not be serialized")
	}
}

func TestWriteAll(t *testing.T) {
	result := sampleResult(t)
	dir := filepath.Join(t.TempDir(), "run")
	paths, plotErr, err := artifacts.WriteAll(dir, result)
	if err != nil {
		t.Fatalf("WriteAll failed: %v", err)
	}
	if plotErr != nil {
		t.Fatalf("expected scatter plot to render, got %v", plotErr)
	}
	for _, path := range []string{paths.Rows, paths.JSON, paths.Plot} {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("missing artifact %s: %v", path, err)
		}
		if info.Size() == 0 {
			t.Fatalf("artifact %s is empty", path)
		}
	}
}

func TestWriteAllDegeneratePlot(t *testing.T) {
	// A single-unit result cannot be projected, but the numeric artifacts
	// still have to land.
	result := &chr.Result{
		Backend:    "hashing-4096",
		K:          1,
		Rows:       []chr.Row{{Idx: 0, Constellation: 0, Radius: 1, Text: "only"}},
		Labels:     []int{0},
		Order:      []int{0},
		Embeddings: [][]float64{{1, 0}},
	}
	dir := filepath.Join(t.TempDir(), "run")
	paths, plotErr, err := artifacts.WriteAll(dir, result)
	if err != nil {
		t.Fatalf("WriteAll failed: %v", err)
	}
	if plotErr == nil {
		t.Fatal("expected a plot error for a single point")
	}
	if _, err := os.Stat(paths.Rows); err != nil {
		t.Fatalf("rows.csv missing despite plot failure: %v", err)
	}
	if _, err := os.Stat(paths.Plot); err == nil {
		t.Fatal("scatter.png should not exist after a plot failure")
	}
}

func TestWriteScatterPNG(t *testing.T) {
	result := sampleResult(t)
	path := filepath.Join(t.TempDir(), "scatter.png")
	if err := artifacts.WriteScatterPNG(path, result); err != nil {
		t.Fatalf("WriteScatterPNG failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read png: %v", err)
	}
	if len(data) < 8 || string(data[1:4]) != "PNG" {
		t.Fatal("output is not a PNG file")
	}
}
