package database

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"github.com/kbukum/seedkit/component"
	"github.com/kbukum/seedkit/errors"
	"github.com/kbukum/seedkit/logger"
)

type testAuthor struct {
	ID   string `gorm:"primaryKey"`
	Name string
}

type testBook struct {
	ID       string `gorm:"primaryKey"`
	Title    string
	AuthorID string
	Author   testAuthor `gorm:"constraint:OnDelete:RESTRICT"`
}

func openTestDB(t *testing.T) *DB {
	t.Helper()
	cfg := Config{
		Name:       "test",
		DSN:        filepath.Join(t.TempDir(), "test.db") + "?_foreign_keys=on",
		MaxRetries: 1,
		LogLevel:   "silent",
	}
	db, err := Open(context.Background(), cfg, logger.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := db.AutoMigrate(&testAuthor{}, &testBook{}); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	return db
}

// TestOpen_UnknownDriver tests that drivers without a built-in dialector are configuration errors
func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: DriverMySQL, DSN: "x"}, logger.Nop())
	if !errors.IsConfiguration(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

// TestOpen_CanceledContext tests that a canceled context aborts the connect loop
func TestOpen_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Open(ctx, Config{DSN: filepath.Join(t.TempDir(), "x.db")}, logger.Nop())
	if err == nil {
		t.Fatal("expected error for canceled context")
	}
}

// TestDB_Dialect tests the dialect name of the built-in driver
func TestDB_Dialect(t *testing.T) {
	db := openTestDB(t)
	if got := db.Dialect(); got != DriverSQLite {
		t.Errorf("Dialect() = %q, want sqlite", got)
	}
	if db.SupportsTruncate() {
		t.Error("sqlite should not support truncate")
	}
	if db.Name() != "test" {
		t.Errorf("Name() = %q", db.Name())
	}
}

// TestDB_Tables tests table listing in name order
func TestDB_Tables(t *testing.T) {
	db := openTestDB(t)
	tables, err := db.Tables(context.Background())
	if err != nil {
		t.Fatalf("Tables: %v", err)
	}
	if len(tables) != 2 || tables[0] != "test_authors" || tables[1] != "test_books" {
		t.Errorf("Tables() = %v, want [test_authors test_books]", tables)
	}
}

// TestDB_SetForeignKeyChecks tests that disabling checks allows deleting referenced rows
func TestDB_SetForeignKeyChecks(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := db.WithContext(ctx).Create(&testAuthor{ID: "a1", Name: "Ann"}).Error; err != nil {
		t.Fatalf("create author: %v", err)
	}
	if err := db.WithContext(ctx).Create(&testBook{ID: "b1", Title: "Go", AuthorID: "a1"}).Error; err != nil {
		t.Fatalf("create book: %v", err)
	}

	if err := DeleteAll(db.WithContext(ctx), "test_authors"); err == nil {
		t.Fatal("expected foreign key violation with checks enabled")
	}

	if err := db.SetForeignKeyChecks(ctx, false); err != nil {
		t.Fatalf("disable checks: %v", err)
	}
	on, err := db.ForeignKeysEnabled(ctx)
	if err != nil || on {
		t.Fatalf("ForeignKeysEnabled = %v, %v; want false", on, err)
	}
	if err := DeleteAll(db.WithContext(ctx), "test_authors"); err != nil {
		t.Fatalf("delete with checks disabled: %v", err)
	}

	if err := db.SetForeignKeyChecks(ctx, true); err != nil {
		t.Fatalf("enable checks: %v", err)
	}
	if on, _ := db.ForeignKeysEnabled(ctx); !on {
		t.Error("expected checks re-enabled")
	}
}

// TestDB_TruncateTable_SQLite tests that sqlite reports truncate as unsupported
func TestDB_TruncateTable_SQLite(t *testing.T) {
	db := openTestDB(t)
	if err := db.TruncateTable(db.GormDB, "test_books"); err != ErrTruncateUnsupported {
		t.Errorf("TruncateTable() = %v, want ErrTruncateUnsupported", err)
	}
}

// TestDB_CountRows tests row counting by table name
func TestDB_CountRows(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	db.WithContext(ctx).Create(&testAuthor{ID: "a1"})
	db.WithContext(ctx).Create(&testAuthor{ID: "a2"})

	n, err := db.CountRows(ctx, "test_authors")
	if err != nil || n != 2 {
		t.Errorf("CountRows() = %d, %v; want 2", n, err)
	}
}

// TestDB_WithTransaction_Rollback tests that a failing callback rolls back
func TestDB_WithTransaction_Rollback(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	err := db.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&testAuthor{ID: "a1"}).Error; err != nil {
			return err
		}
		return fmt.Errorf("abort")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if n, _ := db.CountRows(ctx, "test_authors"); n != 0 {
		t.Errorf("expected rollback, found %d rows", n)
	}
}

// TestForeignKeyStatement tests the per-dialect integrity statements
func TestForeignKeyStatement(t *testing.T) {
	tests := []struct {
		dialect string
		enabled bool
		want    string
		ok      bool
	}{
		{DriverSQLite, false, "PRAGMA foreign_keys = OFF", true},
		{DriverMySQL, true, "SET FOREIGN_KEY_CHECKS = 1", true},
		{DriverPostgres, false, "SET session_replication_role = 'replica'", true},
		{"sqlserver", false, "", false},
	}
	for _, tc := range tests {
		got, ok := foreignKeyStatement(tc.dialect, tc.enabled)
		if got != tc.want || ok != tc.ok {
			t.Errorf("foreignKeyStatement(%q, %v) = %q, %v", tc.dialect, tc.enabled, got, ok)
		}
	}
}

// TestFromDatabase tests error translation
func TestFromDatabase(t *testing.T) {
	if FromDatabase(nil, "users") != nil {
		t.Error("nil error should map to nil")
	}
	if err := FromDatabase(gorm.ErrRecordNotFound, "users"); err.Code != errors.ErrCodeNotFound {
		t.Errorf("record not found code = %s", err.Code)
	}
	err := FromDatabase(fmt.Errorf("FOREIGN KEY constraint failed"), "posts")
	if err.Code != errors.ErrCodeDatabaseError || err.Detail("resource") != "posts" {
		t.Errorf("unexpected constraint mapping: %v", err)
	}
	err = FromDatabase(fmt.Errorf("dial tcp: connection refused"), "connection")
	if err.Detail("retryable") != "true" {
		t.Errorf("connection errors should be retryable: %v", err)
	}
}

// TestComponent_Lifecycle tests start, health and stop
func TestComponent_Lifecycle(t *testing.T) {
	cfg := Config{Name: "main", DSN: filepath.Join(t.TempDir(), "c.db"), MaxRetries: 1}
	comp := NewComponent(cfg, logger.Nop())
	ctx := context.Background()

	if comp.Name() != "database.main" {
		t.Errorf("Name() = %q", comp.Name())
	}
	if comp.DB() != nil {
		t.Error("DB() should be nil before Start")
	}
	if h := comp.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %s", h.Status)
	}

	if err := comp.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if h := comp.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy, got %s: %s", h.Status, h.Message)
	}
	if d := comp.Describe(); d.Details != "sqlite pool=1/1" {
		t.Errorf("Describe() = %+v", d)
	}
	if err := comp.Stop(ctx); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	// Close is idempotent.
	if err := comp.DB().Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
}
