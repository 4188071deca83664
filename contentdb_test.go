package litquiz

import (
	"path/filepath"
	"reflect"
	"testing"
)

func openTestDB(t *testing.T) *ContentDB {
	t.Helper()
	db, err := OpenContentDB(filepath.Join(t.TempDir(), "content.db"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.CreateTables(); err != nil {
		t.Fatalf("create tables failed: %v", err)
	}
	return db
}

func TestContentDBPutAndGet(t *testing.T) {
	db := openTestDB(t)

	if _, ok, err := db.GetChapterContext("ff_p1"); err != nil || ok {
		t.Fatalf("expected no row, got %v, %v", ok, err)
	}
	if got := db.ChapterContext("ff_p1"); got != (ReferenceText{}) {
		t.Fatalf("expected empty reference text, got %+v", got)
	}

	want := ReferenceText{BookExcerpt: "book", PriorQuestions: "pyq"}
	if err := db.PutChapterContext("ff_p1", want); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if got := db.ChapterContext("ff_p1"); got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}

	updated := ReferenceText{BookExcerpt: "new book"}
	if err := db.PutChapterContext("ff_p1", updated); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	got, ok, err := db.GetChapterContext("ff_p1")
	if err != nil || !ok || got != updated {
		t.Fatalf("expected upsert to replace content, got %+v, %v, %v", got, ok, err)
	}
}

func TestContentDBImport(t *testing.T) {
	db := openTestDB(t)

	imported, err := db.ImportContent(map[string]ReferenceText{
		"ff_po1":  {BookExcerpt: "Dust of Snow"},
		"fp_1":    {BookExcerpt: "Tricki", PriorQuestions: "Q"},
		"unknown": {BookExcerpt: "skip me"},
	})
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if imported != 2 {
		t.Fatalf("expected 2 chapters imported, got %d", imported)
	}

	ids, err := db.ChapterIDs()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"ff_po1", "fp_1"}) {
		t.Fatalf("unexpected chapter ids %v", ids)
	}

	var store ReferenceStore = db
	if got := store.ChapterContext("fp_1"); got.PriorQuestions != "Q" {
		t.Fatalf("unexpected content %+v", got)
	}
}
