package extraction_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"dox/internal/extraction"
)

func writeSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write source file: %v", err)
	}
	return path
}

func TestExtractPlainText(t *testing.T) {
	path := writeSource(t, "notes.txt", "First paragraph\nstill first.\n\nSecond paragraph.\n")
	doc, err := extraction.Extract(path)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if doc.Title != "notes" {
		t.Fatalf("title = %q, want notes", doc.Title)
	}
	want := []string{"First paragraph still first.", "Second paragraph."}
	if !reflect.DeepEqual(doc.Units, want) {
		t.Fatalf("units = %#v, want %#v", doc.Units, want)
	}
	if doc.Pages != nil {
		t.Fatalf("single-page text should have no page map, got %#v", doc.Pages)
	}
}

func TestExtractPagedText(t *testing.T) {
	path := writeSource(t, "report.txt", "Page one para.\f\nPage two first.\n\nPage two second.\n")
	doc, err := extraction.Extract(path)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(doc.Units) != 3 {
		t.Fatalf("expected 3 units, got %#v", doc.Units)
	}
	wantPages := map[int]int{0: 1, 1: 2, 2: 2}
	if !reflect.DeepEqual(doc.Pages, wantPages) {
		t.Fatalf("pages = %#v, want %#v", doc.Pages, wantPages)
	}
}

func TestExtractMarkdown(t *testing.T) {
	content := "# Title\n\nSome *emphasized* text with a [link](https://example.com).\n\n```\ncode to drop\n```\n\nClosing thoughts.\n"
	path := writeSource(t, "readme.md", content)
	doc, err := extraction.Extract(path)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	joined := strings.Join(doc.Units, "\n")
	if strings.Contains(joined, "#") || strings.Contains(joined, "*") || strings.Contains(joined, "https://example.com") {
		t.Fatalf("markdown syntax leaked into units: %#v", doc.Units)
	}
	if strings.Contains(joined, "code to drop") {
		t.Fatalf("code fence content leaked into units: %#v", doc.Units)
	}
	if !strings.Contains(joined, "emphasized") || !strings.Contains(joined, "link") {
		t.Fatalf("expected prose to survive stripping, got %#v", doc.Units)
	}
}

func TestExtractCSV(t *testing.T) {
	path := writeSource(t, "metrics.csv", "region,revenue\nwest,120\neast,95\n")
	doc, err := extraction.Extract(path)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	want := []string{"region: west; revenue: 120", "region: east; revenue: 95"}
	if !reflect.DeepEqual(doc.Units, want) {
		t.Fatalf("units = %#v, want %#v", doc.Units, want)
	}
}

func TestExtractHTML(t *testing.T) {
	content := "<html><head><style>p{color:red}</style></head><body><p>First &amp; foremost.</p><p>Second paragraph.</p></body></html>"
	path := writeSource(t, "page.html", content)
	doc, err := extraction.Extract(path)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(doc.Units) != 2 {
		t.Fatalf("expected 2 units, got %#v", doc.Units)
	}
	if doc.Units[0] != "First & foremost." {
		t.Fatalf("entity decoding failed: %q", doc.Units[0])
	}
	for _, unit := range doc.Units {
		if strings.Contains(unit, "color:red") {
			t.Fatalf("style content leaked into units: %q", unit)
		}
	}
}

func TestExtractUnsupportedFormat(t *testing.T) {
	path := writeSource(t, "binary.pdf", "%PDF-1.4")
	if _, err := extraction.Extract(path); !errors.Is(err, extraction.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestExtractEmptyFile(t *testing.T) {
	path := writeSource(t, "empty.txt", "\n\n   \n")
	if _, err := extraction.Extract(path); !errors.Is(err, extraction.ErrNoUnits) {
		t.Fatalf("expected ErrNoUnits, got %v", err)
	}
}

func TestExtractMissingFile(t *testing.T) {
	if _, err := extraction.Extract(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSplitUnitsNormalizesLineEndings(t *testing.T) {
	units := extraction.SplitUnits("one\r\ntwo\r\n\r\nthree")
	want := []string{"one two", "three"}
	if !reflect.DeepEqual(units, want) {
		t.Fatalf("units = %#v, want %#v", units, want)
	}
}

func TestSplitPagesWithoutFormFeed(t *testing.T) {
	units, pages := extraction.SplitPages("only one page here")
	if len(units) != 1 || pages != nil {
		t.Fatalf("expected one unit and nil page map, got %#v / %#v", units, pages)
	}
}

func TestDocumentEncodeDecode(t *testing.T) {
	doc := &extraction.Document{
		Title: "report",
		Units: []string{"alpha", "beta"},
		Pages: map[int]int{1: 2},
	}
	encoded, err := doc.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	decoded, err := extraction.DecodeDocument(encoded)
	if err != nil {
		t.Fatalf("DecodeDocument failed: %v", err)
	}
	if !reflect.DeepEqual(doc, decoded) {
		t.Fatalf("round trip mismatch: %#v vs %#v", doc, decoded)
	}

	if _, err := extraction.DecodeDocument(""); err == nil {
		t.Fatal("expected error for empty payload")
	}
}
