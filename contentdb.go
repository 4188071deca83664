package litquiz

import (
	"database/sql"
	"fmt"
	"log"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ContentDB is a SQLite-backed ReferenceStore
type ContentDB struct {
	db *sql.DB
}

// OpenContentDB opens a new database connection
func OpenContentDB(dbPath string) (*ContentDB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &ContentDB{db: db}, nil
}

// Close closes the database connection
func (cdb *ContentDB) Close() error {
	return cdb.db.Close()
}

// CreateTables creates the necessary tables if they don't exist
func (cdb *ContentDB) CreateTables() error {
	query := `CREATE TABLE IF NOT EXISTS chapter_content (
		chapter_id TEXT PRIMARY KEY,
		book_content TEXT NOT NULL DEFAULT '',
		pyq_content TEXT NOT NULL DEFAULT '',
		updated_at DATETIME NOT NULL
	)`
	if _, err := cdb.db.Exec(query); err != nil {
		return fmt.Errorf("failed to execute %s: %w", query, err)
	}
	return nil
}

// PutChapterContext inserts or replaces the reference text for a chapter
func (cdb *ContentDB) PutChapterContext(chapterID string, text ReferenceText) error {
	_, err := cdb.db.Exec(
		`INSERT INTO chapter_content (chapter_id, book_content, pyq_content, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(chapter_id) DO UPDATE SET book_content = excluded.book_content, pyq_content = excluded.pyq_content, updated_at = excluded.updated_at`,
		chapterID, text.BookExcerpt, text.PriorQuestions, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to store content for %s: %w", chapterID, err)
	}
	return nil
}

// GetChapterContext retrieves the reference text for a chapter. The boolean
// reports whether a row exists.
func (cdb *ContentDB) GetChapterContext(chapterID string) (ReferenceText, bool, error) {
	var text ReferenceText
	err := cdb.db.QueryRow(
		"SELECT book_content, pyq_content FROM chapter_content WHERE chapter_id = ?",
		chapterID,
	).Scan(&text.BookExcerpt, &text.PriorQuestions)
	if err != nil {
		if err == sql.ErrNoRows {
			return ReferenceText{}, false, nil
		}
		return ReferenceText{}, false, fmt.Errorf("failed to get content: %w", err)
	}
	return text, true, nil
}

// ChapterContext implements ReferenceStore. Lookup failures are logged and
// treated as missing content.
func (cdb *ContentDB) ChapterContext(chapterID string) ReferenceText {
	text, _, err := cdb.GetChapterContext(chapterID)
	if err != nil {
		log.Printf("Failed to load reference text for %s: %v", chapterID, err)
		return ReferenceText{}
	}
	return text
}

// ImportContent stores every entry of content inside one transaction and
// returns the number of chapters written. Unknown chapter IDs are skipped.
func (cdb *ContentDB) ImportContent(content map[string]ReferenceText) (int, error) {
	ids := make([]string, 0, len(content))
	for id := range content {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	tx, err := cdb.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin import: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO chapter_content (chapter_id, book_content, pyq_content, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(chapter_id) DO UPDATE SET book_content = excluded.book_content, pyq_content = excluded.pyq_content, updated_at = excluded.updated_at`)
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("failed to prepare import: %w", err)
	}
	defer stmt.Close()

	imported := 0
	now := time.Now()
	for _, id := range ids {
		if _, ok := ChapterInfo(id); !ok {
			log.Printf("Skipping content for unknown chapter %s", id)
			continue
		}
		text := content[id]
		if _, err := stmt.Exec(id, text.BookExcerpt, text.PriorQuestions, now); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("failed to import %s: %w", id, err)
		}
		imported++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}
	return imported, nil
}

// ChapterIDs lists the chapters that have stored content
func (cdb *ContentDB) ChapterIDs() ([]string, error) {
	rows, err := cdb.db.Query("SELECT chapter_id FROM chapter_content ORDER BY chapter_id")
	if err != nil {
		return nil, fmt.Errorf("failed to list chapters: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan chapter: %w", err)
		}
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chapters: %w", err)
	}

	return ids, nil
}
