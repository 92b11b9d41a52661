package repository

import (
	"errors"
	"fmt"
	"testing"

	"salesanalytics/internal/apperr"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		transient bool
	}{
		{name: "numeric overflow", err: &pgconn.PgError{Code: "22003", Message: "numeric field overflow"}},
		{name: "wrapped check violation", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23514"})},
		{name: "duplicate key", err: gorm.ErrDuplicatedKey},
		{name: "admin shutdown", err: &pgconn.PgError{Code: "57P01"}, transient: true},
		{name: "connection refused", err: errors.New("dial tcp: connection refused"), transient: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify("create order", tt.err)
			if apperr.IsTransient(err) != tt.transient {
				t.Fatalf("transient=%v, got %v", tt.transient, err)
			}
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected %v to wrap %v", err, tt.err)
			}
		})
	}
}
