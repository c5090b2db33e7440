package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestClassifiers(t *testing.T) {
	unique := fmt.Errorf("insert admin: %w", &pgconn.PgError{Code: CodeUniqueViolation, ConstraintName: "admins_email_key"})
	check := fmt.Errorf("update: %w", &pgconn.PgError{Code: CodeCheckViolation, ConstraintName: "inschrijvingen_status_check"})

	if !IsDuplicateConstraintError(unique, "admins_email_key") {
		t.Error("wrapped unique violation not recognized")
	}
	if IsDuplicateConstraintError(unique, "other_key") {
		t.Error("unique violation matched the wrong constraint")
	}
	if IsDuplicateConstraintError(check, "admins_email_key") {
		t.Error("check violation reported as duplicate")
	}

	if !IsCheckViolation(check) || IsCheckViolation(unique) {
		t.Error("IsCheckViolation misclassified")
	}
	if IsCheckViolation(nil) || IsCheckViolation(errors.New("connection refused")) {
		t.Error("non-postgres errors are not check violations")
	}

	if !IsNoRows(fmt.Errorf("get: %w", pgx.ErrNoRows)) || IsNoRows(check) {
		t.Error("IsNoRows misclassified")
	}
}
