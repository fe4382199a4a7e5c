package config_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/lending/shell/config"
	. "github.com/AntonStoeckl/library-lending/testutil/lending/lendingtest" //nolint:revive
)

func Test_OpenEventStore_Memory(t *testing.T) {
	// arrange
	cfg := config.Defaults().Store

	// act
	opened, err := config.OpenEventStore(context.Background(), cfg, config.StoreObservability{})

	// assert
	require.NoError(t, err)
	assert.Equal(t, config.DriverMemory, opened.Driver)
	assert.NotNil(t, opened.EventStore)
	assert.NoError(t, opened.Close())
}

func Test_OpenEventStore_SQLite_PersistsAcrossReopen(t *testing.T) {
	// arrange
	ctx := context.Background()
	cfg := config.Defaults().Store
	cfg.Driver = config.DriverSQLite
	cfg.SQLitePath = filepath.Join(t.TempDir(), "nested", "library.db")

	opened, err := config.OpenEventStore(ctx, cfg, config.StoreObservability{})
	require.NoError(t, err)

	bookID := GivenUniqueID(t)
	GivenHistory(t, opened.EventStore, BookAdded(bookID, "isbn-1", "Persistent", 1, FixedNow()))
	require.NoError(t, opened.Close())

	// act
	reopened, err := config.OpenEventStore(ctx, cfg, config.StoreObservability{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	events, maxSeq, err := reopened.EventStore.Query(ctx, eventstore.BuildEventFilter().MatchingAnyEvent())

	// assert
	require.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, uint(1), maxSeq)
}

func Test_OpenEventStore_Fails_ForAnUnknownDriver(t *testing.T) {
	// arrange
	cfg := config.Defaults().Store
	cfg.Driver = "mysql"

	// act
	opened, err := config.OpenEventStore(context.Background(), cfg, config.StoreObservability{})

	// assert
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
	assert.Nil(t, opened)
}
