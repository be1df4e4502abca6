package extraction

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoUnits is returned when a source file yields no usable text units.
var ErrNoUnits = errors.New("extraction: document produced no units")

// ErrUnsupportedFormat is returned for file types extraction cannot handle.
var ErrUnsupportedFormat = errors.New("extraction: unsupported file format")

// SupportedExtensions lists the formats Extract accepts.
func SupportedExtensions() []string {
	return []string{".txt", ".text", ".md", ".markdown", ".log", ".csv", ".html", ".htm"}
}

// Extract reads a source file and splits it into ordered units. The format
// is chosen by extension; unknown extensions are rejected rather than
// guessed at.
func Extract(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}

	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	doc := &Document{Title: title}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".text", ".log":
		doc.Units, doc.Pages = SplitPages(string(data))
	case ".md", ".markdown":
		doc.Units = SplitUnits(stripMarkdown(string(data)))
	case ".csv":
		units, err := csvUnits(string(data))
		if err != nil {
			return nil, err
		}
		doc.Units = units
	case ".html", ".htm":
		doc.Units = SplitUnits(stripHTML(string(data)))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}

	if len(doc.Units) == 0 {
		return nil, ErrNoUnits
	}
	return doc, nil
}

// csvUnits renders each data row as a "header: value" unit so column
// context survives into the embedding space.
func csvUnits(data string) ([]string, error) {
	reader := csv.NewReader(strings.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	var units []string
	for _, record := range records[1:] {
		var parts []string
		for col, value := range record {
			value = strings.TrimSpace(value)
			if value == "" {
				continue
			}
			if col < len(header) && strings.TrimSpace(header[col]) != "" {
				parts = append(parts, strings.TrimSpace(header[col])+": "+value)
			} else {
				parts = append(parts, value)
			}
		}
		if len(parts) > 0 {
			units = append(units, strings.Join(parts, "; "))
		}
	}
	return units, nil
}
