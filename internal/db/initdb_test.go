package db

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"clientportal/internal/observability"
)

func TestExtractDBName(t *testing.T) {
	cases := map[string]string{
		"postgres://u:p@localhost:5432/client_portal?sslmode=disable": "client_portal",
		"host=localhost dbname=portal user=x":                         "portal",
	}
	for in, want := range cases {
		got, err := extractDBName(in)
		if err != nil || got != want {
			t.Fatalf("extractDBName(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := extractDBName("postgres://localhost:5432"); err == nil {
		t.Fatalf("expected error for missing database name")
	}
}

func TestReplaceDBName(t *testing.T) {
	got, err := replaceDBName("postgres://u:p@localhost:5432/client_portal?sslmode=disable", "postgres")
	if err != nil {
		t.Fatalf("replaceDBName: %v", err)
	}
	if got != "postgres://u:p@localhost:5432/postgres?sslmode=disable" {
		t.Fatalf("unexpected url %q", got)
	}

	got, _ = replaceDBName("host=localhost dbname=portal", "postgres")
	if got != "host=localhost dbname=postgres" {
		t.Fatalf("unexpected dsn %q", got)
	}
}

func TestEnsureDatabaseCreatesMissing(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer sqlDB.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM pg_database WHERE datname = $1")).
		WithArgs("client_portal").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))
	mock.ExpectExec(regexp.QuoteMeta(`CREATE DATABASE "client_portal"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := ensureDatabase(context.Background(), sqlDB, "client_portal", observability.NewNop()); err != nil {
		t.Fatalf("ensureDatabase: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEnsureDatabaseToleratesRace(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer sqlDB.Close()

	mock.ExpectQuery("SELECT 1 FROM pg_database").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))
	mock.ExpectExec("CREATE DATABASE").
		WillReturnError(&pq.Error{Code: "42P04"})

	if err := ensureDatabase(context.Background(), sqlDB, "client_portal", observability.NewNop()); err != nil {
		t.Fatalf("expected duplicate database to be ignored, got %v", err)
	}
}

func TestEnsureDatabaseExisting(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer sqlDB.Close()

	mock.ExpectQuery("SELECT 1 FROM pg_database").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	if err := ensureDatabase(context.Background(), sqlDB, "client_portal", observability.NewNop()); err != nil {
		t.Fatalf("ensureDatabase: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
