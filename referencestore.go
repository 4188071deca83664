package litquiz

import (
	"encoding/json"
	"fmt"
	"os"
)

// ReferenceStore returns the pre-extracted text for a chapter. Missing
// chapters yield an empty ReferenceText, never an error.
type ReferenceStore interface {
	ChapterContext(chapterID string) ReferenceText
}

// ContentTable is a read-only, in-memory ReferenceStore
type ContentTable struct {
	content map[string]ReferenceText
}

// NewContentTable builds a table from a chapter ID keyed map. The map is
// copied so later changes by the caller are not observed.
func NewContentTable(content map[string]ReferenceText) *ContentTable {
	copied := make(map[string]ReferenceText, len(content))
	for id, text := range content {
		copied[id] = text
	}
	return &ContentTable{content: copied}
}

// LoadContentFile reads chapters_content.json, a map of chapter ID to
// {"book_content": ..., "pyq_content": ...}.
func LoadContentFile(path string) (*ContentTable, error) {
	content, err := ReadContentFile(path)
	if err != nil {
		return nil, err
	}
	return &ContentTable{content: content}, nil
}

// ReadContentFile decodes a chapters_content.json file
func ReadContentFile(path string) (map[string]ReferenceText, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read content file: %w", err)
	}
	var content map[string]ReferenceText
	if err := json.Unmarshal(data, &content); err != nil {
		return nil, fmt.Errorf("failed to parse content file %s: %w", path, err)
	}
	return content, nil
}

// ChapterContext implements ReferenceStore
func (t *ContentTable) ChapterContext(chapterID string) ReferenceText {
	if t == nil {
		return ReferenceText{}
	}
	return t.content[chapterID]
}

// Len returns the number of chapters with content
func (t *ContentTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.content)
}
