package main

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// The copy loop speaks a deliberately small SQL dialect (backtick-quoted
// identifiers, ? placeholders, SELECT *, multi-row INSERT), so tests run it
// against file-backed SQLite databases instead of live MySQL servers. The
// MySQL-specific pieces (INFORMATION_SCHEMA, SHOW CREATE TABLE, FK checks)
// are covered by the integration build tag.

func openTestDB(t *testing.T, name string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), name))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func mustExec(t *testing.T, db *sql.DB, query string, args ...any) {
	t.Helper()
	if _, err := db.Exec(query, args...); err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
}

func countRows(t *testing.T, db *sql.DB, table string) int64 {
	t.Helper()
	var n int64
	if err := db.QueryRow("SELECT COUNT(*) FROM " + mysqlIdent(table)).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func TestCopyTableRowsBatchBoundary(t *testing.T) {
	src := openTestDB(t, "src.db")
	dst := openTestDB(t, "dst.db")

	mustExec(t, src, "CREATE TABLE events (id INTEGER, payload TEXT)")
	mustExec(t, dst, "CREATE TABLE events (id INTEGER, payload TEXT)")

	tx, err := src.Begin()
	if err != nil {
		t.Fatal(err)
	}
	stmt, err := tx.Prepare("INSERT INTO events (id, payload) VALUES (?, ?)")
	if err != nil {
		t.Fatal(err)
	}
	// 2500 rows with a batch size of 1000 exercises two full batches plus a
	// partial final one.
	for i := 1; i <= 2500; i++ {
		if _, err := stmt.Exec(i, fmt.Sprintf("payload-%d", i)); err != nil {
			t.Fatal(err)
		}
	}
	stmt.Close()
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}

	total, err := copyTableRows(context.Background(), src, dst, "events", 1000)
	if err != nil {
		t.Fatalf("copyTableRows() error: %v", err)
	}
	if total != 2500 {
		t.Errorf("copied %d rows, want 2500", total)
	}
	if n := countRows(t, dst, "events"); n != 2500 {
		t.Errorf("destination has %d rows, want 2500", n)
	}
}

func TestCopyTableRowsPartialBatchPreservesContent(t *testing.T) {
	src := openTestDB(t, "src.db")
	dst := openTestDB(t, "dst.db")

	mustExec(t, src, "CREATE TABLE items (id INTEGER, name TEXT)")
	mustExec(t, dst, "CREATE TABLE items (id INTEGER, name TEXT)")
	for i := 1; i <= 7; i++ {
		mustExec(t, src, "INSERT INTO items (id, name) VALUES (?, ?)", i, fmt.Sprintf("item-%d", i))
	}

	total, err := copyTableRows(context.Background(), src, dst, "items", 3)
	if err != nil {
		t.Fatalf("copyTableRows() error: %v", err)
	}
	if total != 7 {
		t.Errorf("copied %d rows, want 7", total)
	}

	rows, err := dst.Query("SELECT id, name FROM items ORDER BY id")
	if err != nil {
		t.Fatal(err)
	}
	defer rows.Close()

	i := 0
	for rows.Next() {
		i++
		var id int
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			t.Fatal(err)
		}
		if id != i || name != fmt.Sprintf("item-%d", i) {
			t.Errorf("row %d = (%d, %q)", i, id, name)
		}
	}
	if err := rows.Err(); err != nil {
		t.Fatal(err)
	}
	if i != 7 {
		t.Errorf("destination has %d rows, want 7", i)
	}
}

func TestCopyTableRowsEmptyTable(t *testing.T) {
	src := openTestDB(t, "src.db")
	dst := openTestDB(t, "dst.db")

	mustExec(t, src, "CREATE TABLE empty_one (id INTEGER, note TEXT)")
	mustExec(t, dst, "CREATE TABLE empty_one (id INTEGER, note TEXT)")

	total, err := copyTableRows(context.Background(), src, dst, "empty_one", 1000)
	if err != nil {
		t.Fatalf("copyTableRows() error: %v", err)
	}
	if total != 0 {
		t.Errorf("copied %d rows, want 0", total)
	}
	if n := countRows(t, dst, "empty_one"); n != 0 {
		t.Errorf("destination has %d rows, want 0", n)
	}
}

func TestCopyTableRowsValueFidelity(t *testing.T) {
	src := openTestDB(t, "src.db")
	dst := openTestDB(t, "dst.db")

	ddl := "CREATE TABLE mixed (id INTEGER, name TEXT, data BLOB, score REAL, note TEXT)"
	mustExec(t, src, ddl)
	mustExec(t, dst, ddl)

	mustExec(t, src, "INSERT INTO mixed VALUES (?, ?, ?, ?, ?)",
		1, "Ümläut ✓", []byte{0x00, 0xff, 0x10}, 3.5, nil)
	mustExec(t, src, "INSERT INTO mixed VALUES (?, ?, ?, ?, ?)",
		2, "", nil, -0.25, "note")

	if _, err := copyTableRows(context.Background(), src, dst, "mixed", 1000); err != nil {
		t.Fatalf("copyTableRows() error: %v", err)
	}

	readAll := func(db *sql.DB) [][]sql.NullString {
		rows, err := db.Query("SELECT id, name, data, score, note FROM mixed ORDER BY id")
		if err != nil {
			t.Fatal(err)
		}
		defer rows.Close()
		var out [][]sql.NullString
		for rows.Next() {
			vals := make([]sql.NullString, 5)
			ptrs := make([]any, 5)
			for i := range vals {
				ptrs[i] = &vals[i]
			}
			if err := rows.Scan(ptrs...); err != nil {
				t.Fatal(err)
			}
			out = append(out, vals)
		}
		if err := rows.Err(); err != nil {
			t.Fatal(err)
		}
		return out
	}

	srcRows := readAll(src)
	dstRows := readAll(dst)

	if len(dstRows) != len(srcRows) {
		t.Fatalf("destination has %d rows, want %d", len(dstRows), len(srcRows))
	}
	for i := range srcRows {
		for j := range srcRows[i] {
			if srcRows[i][j] != dstRows[i][j] {
				t.Errorf("row %d col %d: destination %+v, source %+v", i, j, dstRows[i][j], srcRows[i][j])
			}
		}
	}
}

func TestCopyTableRowsEmptyStringStaysNonNull(t *testing.T) {
	src := openTestDB(t, "src.db")
	dst := openTestDB(t, "dst.db")

	ddl := "CREATE TABLE docs (id INTEGER, title TEXT NOT NULL, note TEXT)"
	mustExec(t, src, ddl)
	mustExec(t, dst, ddl)

	mustExec(t, src, "INSERT INTO docs VALUES (1, 'headline', 'x')")
	// Empty strings are values, not NULLs. The NOT NULL column makes the
	// copy fail outright if they degrade to NULL on the way over.
	mustExec(t, src, "INSERT INTO docs VALUES (2, '', '')")

	total, err := copyTableRows(context.Background(), src, dst, "docs", 1000)
	if err != nil {
		t.Fatalf("copyTableRows() error: %v", err)
	}
	if total != 2 {
		t.Errorf("copied %d rows, want 2", total)
	}

	var title, note sql.NullString
	err = dst.QueryRow("SELECT title, note FROM docs ORDER BY id LIMIT 1 OFFSET 1").Scan(&title, &note)
	if err != nil {
		t.Fatal(err)
	}
	if !title.Valid || title.String != "" {
		t.Errorf("title = %+v, want non-NULL empty string", title)
	}
	if !note.Valid || note.String != "" {
		t.Errorf("note = %+v, want non-NULL empty string", note)
	}
}

func TestCopyTableRowsMissingDestinationTable(t *testing.T) {
	src := openTestDB(t, "src.db")
	dst := openTestDB(t, "dst.db")

	mustExec(t, src, "CREATE TABLE only_here (id INTEGER)")
	mustExec(t, src, "INSERT INTO only_here VALUES (1)")

	if _, err := copyTableRows(context.Background(), src, dst, "only_here", 1000); err == nil {
		t.Fatal("expected error when destination table is missing")
	}
}
