package artifacts

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"dox/internal/chr"
)

// CSVColumns is the exported row schema, in order.
var CSVColumns = []string{"idx", "constellation", "radius", "text", "page"}

// Paths locates the files one run writes.
type Paths struct {
	Dir  string
	Rows string
	JSON string
	Plot string
}

// PathsFor computes the artifact file locations for a run directory.
func PathsFor(dir string) Paths {
	return Paths{
		Dir:  dir,
		Rows: filepath.Join(dir, "rows.csv"),
		JSON: filepath.Join(dir, "result.json"),
		Plot: filepath.Join(dir, "scatter.png"),
	}
}

// WriteRowsCSV writes the ranked row list. Page 0 (unpaginated) renders as
// an empty cell.
func WriteRowsCSV(path string, rows []chr.Row) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create rows csv: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(CSVColumns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		page := ""
		if row.Page > 0 {
			page = strconv.Itoa(row.Page)
		}
		record := []string{
			strconv.Itoa(row.Idx),
			strconv.Itoa(row.Constellation),
			strconv.FormatFloat(row.Radius, 'f', 6, 64),
			row.Text,
			page,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteResultJSON writes the full run result snapshot.
func WriteResultJSON(path string, result *chr.Result) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write result json: %w", err)
	}
	return nil
}

// WriteAll writes the CSV and JSON artifacts and attempts the scatter plot.
// The returned plotErr is informational; the run's numeric artifacts are
// valid even when plotting failed.
func WriteAll(dir string, result *chr.Result) (paths Paths, plotErr error, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Paths{}, nil, fmt.Errorf("create artifact dir: %w", err)
	}
	paths = PathsFor(dir)

	if err := WriteRowsCSV(paths.Rows, result.Rows); err != nil {
		return paths, nil, err
	}
	if err := WriteResultJSON(paths.JSON, result); err != nil {
		return paths, nil, err
	}
	plotErr = WriteScatterPNG(paths.Plot, result)
	return paths, plotErr, nil
}
