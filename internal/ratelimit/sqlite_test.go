package ratelimit

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", "file:"+filepath.Join(t.TempDir(), "ratelimit.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func TestSQLiteLimit(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	l, err := NewSQLite(db, 2)
	if err != nil {
		t.Fatalf("NewSQLite() error = %v", err)
	}

	for i := 0; i < 2; i++ {
		ok, err := l.CheckAndRecord(ctx, "10.0.0.1")
		if err != nil {
			t.Fatalf("CheckAndRecord() error = %v", err)
		}
		if !ok {
			t.Fatalf("request %d rejected, want allowed", i+1)
		}
	}

	ok, err := l.CheckAndRecord(ctx, "10.0.0.1")
	if err != nil {
		t.Fatalf("CheckAndRecord() error = %v", err)
	}
	if ok {
		t.Error("third request allowed, want rejected")
	}

	var count int
	if err := db.QueryRow("select count(*) from rate_limit_entries").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("stored entries = %d, want 2 (rejection must not record)", count)
	}
}

func TestSQLitePrunesExpiredEntries(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	l, err := NewSQLite(db, 1)
	if err != nil {
		t.Fatal(err)
	}
	impl := l.(*implSQLite)

	// Inject an entry just past the window and one inside it.
	old := time.Now().Unix() - Window - 5
	if _, err := db.Exec(
		"insert into rate_limit_entries (source_addr, created_at) values ($1, $2)",
		"10.0.0.1", old); err != nil {
		t.Fatal(err)
	}

	ok, err := impl.CheckAndRecord(ctx, "10.0.0.1")
	if err != nil {
		t.Fatalf("CheckAndRecord() error = %v", err)
	}
	if !ok {
		t.Error("request rejected although the stored entry is expired")
	}

	var count int
	if err := db.QueryRow(
		"select count(*) from rate_limit_entries where created_at = $1", old).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Error("expired entry not pruned")
	}
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := "file:" + filepath.Join(dir, "ratelimit.db")

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatal(err)
	}
	l, err := NewSQLite(db, 1)
	if err != nil {
		t.Fatal(err)
	}
	if ok, _ := l.CheckAndRecord(ctx, "10.0.0.1"); !ok {
		t.Fatal("first request rejected")
	}
	db.Close()

	db2, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db2.Close()

	l2, err := NewSQLite(db2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if ok, _ := l2.CheckAndRecord(ctx, "10.0.0.1"); ok {
		t.Error("count did not survive reopen")
	}
}
