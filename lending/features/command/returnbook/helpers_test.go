package returnbook_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func uuidOf(t *testing.T, id string) uuid.UUID {
	t.Helper()

	parsed, err := uuid.Parse(id)
	require.NoError(t, err)

	return parsed
}
