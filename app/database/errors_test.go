package database

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestTranslateDBError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil passes through", nil, nil},
		{"no rows", sql.ErrNoRows, ErrNotFound},
		{"bad conn", driver.ErrBadConn, ErrConnectionFailed},
		{"unique violation", &pq.Error{Code: "23505"}, ErrDuplicateKey},
		{"fk violation", &pq.Error{Code: "23503"}, ErrForeignKey},
		{"connection exception", &pq.Error{Code: "08006"}, ErrConnectionFailed},
		{"wrapped no rows", fmt.Errorf("lookup: %w", sql.ErrNoRows), ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateDBError(tt.in)
			if !errors.Is(got, tt.want) && got != tt.want {
				t.Errorf("translateDBError(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTranslateDBErrorKeepsUnknownErrors(t *testing.T) {
	in := errors.New("some other failure")
	if got := translateDBError(in); got != in {
		t.Errorf("translateDBError(%v) = %v, want the original error", in, got)
	}
}
