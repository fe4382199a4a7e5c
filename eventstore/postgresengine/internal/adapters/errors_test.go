package adapters

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func Test_IsSerializationFailure(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "pgx serialization failure", err: &pgconn.PgError{Code: "40001"}, expected: true},
		{name: "wrapped pgx serialization failure", err: fmt.Errorf("exec: %w", &pgconn.PgError{Code: "40001"}), expected: true},
		{name: "pq serialization failure", err: &pq.Error{Code: "40001"}, expected: true},
		{name: "pgx unique violation", err: &pgconn.PgError{Code: "23505"}, expected: false},
		{name: "plain error", err: errors.New("boom"), expected: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsSerializationFailure(tc.err))
		})
	}
}
