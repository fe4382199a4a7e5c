package catalogsearch_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending/lending/features/query/catalogsearch"
	. "github.com/AntonStoeckl/library-lending/testutil/lending/lendingtest" //nolint:revive
)

func Test_QueryHandler_Handle_SearchesTheStoredCatalog(t *testing.T) {
	// arrange
	store := GivenEventStore(t)
	GivenHistory(t, store, givenCatalog(t)...)
	handler := catalogsearch.NewQueryHandler(store)

	// act
	result, err := handler.Handle(context.Background(), catalogsearch.BuildQuery("hobbit", ""))

	// assert
	require.NoError(t, err)
	assert.Equal(t, []string{"The Hobbit"}, titles(result))
	assert.Equal(t, uint(5), result.SequenceNumber)
}
