package assessments

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := &PGRepo{DB: db}

	now := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO assessments")).
		WithArgs("a-1", "Acme 2026", "NIST CSF", now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Create(context.Background(), Assessment{
		ID:        "a-1",
		Name:      "Acme 2026",
		Framework: "NIST CSF",
		CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := &PGRepo{DB: db}

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "name", "framework", "created_at"}).
		AddRow("a-1", "Acme 2026", "NIST CSF", now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM assessments")).
		WithArgs("a-1").
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "a-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Acme 2026" || got.Framework != "NIST CSF" {
		t.Fatalf("unexpected assessment %+v", got)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := &PGRepo{DB: db}

	mock.ExpectQuery(regexp.QuoteMeta("FROM assessments")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "framework", "created_at"}))

	_, err = repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoList(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := &PGRepo{DB: db}

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "name", "framework", "created_at"}).
		AddRow("a-2", "Beta", "", now).
		AddRow("a-1", "Alpha", "", now.Add(-time.Hour))
	mock.ExpectQuery(regexp.QuoteMeta("FROM assessments")).
		WithArgs(50, 0).
		WillReturnRows(rows)

	out, err := repo.List(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(out) != 2 || out[0].ID != "a-2" {
		t.Fatalf("unexpected list %+v", out)
	}
}
