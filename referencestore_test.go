package litquiz

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadContentFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chapters_content.json")
	data := `{"ff_p1": {"book_content": "Lencho", "pyq_content": "Q1"}, "ff_po2": {"book_content": "Tiger"}}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	table, err := LoadContentFile(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("expected 2 chapters, got %d", table.Len())
	}
	if got := table.ChapterContext("ff_p1"); got.BookExcerpt != "Lencho" || got.PriorQuestions != "Q1" {
		t.Fatalf("unexpected content %+v", got)
	}
	if got := table.ChapterContext("ff_po2"); got.PriorQuestions != "" {
		t.Fatalf("expected missing pyq to be empty, got %+v", got)
	}
	if got := table.ChapterContext("fp_1"); got != (ReferenceText{}) {
		t.Fatalf("expected absent chapter to be empty, got %+v", got)
	}
}

func TestLoadContentFileErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadContentFile(filepath.Join(dir, "missing.json")); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not exist error, got %v", err)
	}

	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte("not json"), 0644)
	if _, err := LoadContentFile(bad); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestNewContentTableCopies(t *testing.T) {
	src := map[string]ReferenceText{"ff_p1": {BookExcerpt: "a"}}
	table := NewContentTable(src)
	src["ff_p1"] = ReferenceText{BookExcerpt: "b"}

	if got := table.ChapterContext("ff_p1"); got.BookExcerpt != "a" {
		t.Fatalf("expected table to be unaffected, got %+v", got)
	}

	var nilTable *ContentTable
	if got := nilTable.ChapterContext("ff_p1"); got != (ReferenceText{}) {
		t.Fatalf("expected nil table to be empty, got %+v", got)
	}
}
