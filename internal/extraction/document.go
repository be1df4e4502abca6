package extraction

import (
	"encoding/json"
	"fmt"
)

// Document is the extracted form of one source file: its ordered units and
// an optional unit-index to page map. The JSON encoding is what the queue
// persists between the extract and structure stages.
type Document struct {
	Title string      `json:"title"`
	Units []string    `json:"units"`
	Pages map[int]int `json:"pages,omitempty"`
}

// Encode serializes the document for queue storage.
func (d *Document) Encode() (string, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	return string(data), nil
}

// DecodeDocument parses a document previously produced by Encode.
func DecodeDocument(data string) (*Document, error) {
	if data == "" {
		return nil, fmt.Errorf("decode document: empty payload")
	}
	var doc Document
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &doc, nil
}
