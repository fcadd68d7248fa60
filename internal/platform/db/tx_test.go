package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestTxFromContext_Empty(t *testing.T) {
	if tx := TxFromContext(context.Background()); tx != nil {
		t.Errorf("expected nil tx, got %v", tx)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert account: %w", &pgconn.PgError{Code: "23505", ConstraintName: "accounts_email_key"})

	if !IsUniqueViolation(err, "") {
		t.Error("expected unique violation for any constraint")
	}
	if !IsUniqueViolation(err, "accounts_email_key") {
		t.Error("expected unique violation for named constraint")
	}
	if IsUniqueViolation(err, "patient_profiles_document_id_key") {
		t.Error("did not expect match on a different constraint")
	}
	if IsUniqueViolation(errors.New("boom"), "") {
		t.Error("plain errors are not unique violations")
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	if !IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}) {
		t.Error("expected foreign key violation")
	}
	if IsForeignKeyViolation(&pgconn.PgError{Code: "23505"}) {
		t.Error("unique violation is not a foreign key violation")
	}
}
