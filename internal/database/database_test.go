package database

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/iliyamo/streaming-catalog/internal/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.Config{DBUser: "app", DBPass: "pw", DBHost: "db", DBPort: "3306", DBName: "catalog"})
	for _, want := range []string{"app:pw@tcp(db:3306)/catalog", "parseTime=true", "charset=utf8mb4"} {
		if !strings.Contains(dsn, want) {
			t.Errorf("DSN %q missing %q", dsn, want)
		}
	}
}

func TestStatementsCoverAllTables(t *testing.T) {
	stmts := Statements()
	if len(stmts) != 6 {
		t.Fatalf("got %d statements, want 6", len(stmts))
	}
	for i, table := range []string{"users", "contents", "categories", "content_categories", "favorites", "watch_history"} {
		if !strings.HasPrefix(stmts[i], "CREATE TABLE IF NOT EXISTS "+table+" ") {
			t.Errorf("statement %d does not create %s: %.60q", i, table, stmts[i])
		}
	}
}

// Recency ordering of favorites and history must survive several writes
// within one second.
func TestOrderingColumnsKeepMicroseconds(t *testing.T) {
	stmts := Statements()
	checks := []struct {
		stmt int
		col  string
	}{
		{4, "created_at"},
		{5, "last_watched"},
	}
	for _, c := range checks {
		re := regexp.MustCompile(c.col + `\s+DATETIME\(6\)\s+NOT NULL DEFAULT CURRENT_TIMESTAMP\(6\)`)
		if !re.MatchString(stmts[c.stmt]) {
			t.Errorf("%s in statement %d is not DATETIME(6)", c.col, c.stmt)
		}
	}
}

func TestMigrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	for range Statements() {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))
	}
	if err := Migrate(context.Background(), db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestSeedSkipsWhenCatalogPresent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM contents")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(8))
	mock.ExpectRollback()

	seeded, err := Seed(context.Background(), db, "hash")
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if seeded {
		t.Error("Seed should report false when content exists")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestSeedInsertsCatalog(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM contents")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	for range seedCategories {
		mock.ExpectExec("INSERT INTO categories").WillReturnResult(sqlmock.NewResult(1, 1))
	}
	for range seedContents {
		mock.ExpectExec("INSERT INTO contents").WillReturnResult(sqlmock.NewResult(1, 1))
	}
	links := len(seedContentCategories())
	if links != 17 {
		t.Fatalf("seed has %d links, want 17", links)
	}
	for i := 0; i < links; i++ {
		mock.ExpectExec("INSERT INTO content_categories").WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectExec("INSERT IGNORE INTO users").
		WithArgs(SeedUsername, SeedEmail, "hash").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	seeded, err := Seed(context.Background(), db, "hash")
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if !seeded {
		t.Error("Seed should report true on an empty catalog")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
