package eventstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-lending/eventstore"
)

func Test_GetConsistencyLevel_DefaultsToStrong_WhenNothingIsSet(t *testing.T) {
	assert.Equal(t, eventstore.StrongConsistency, eventstore.GetConsistencyLevel(context.Background()))
}

func Test_GetConsistencyLevel_ReturnsTheLevelFromTheContext(t *testing.T) {
	// arrange
	eventualCtx := eventstore.WithEventualConsistency(context.Background())
	strongCtx := eventstore.WithStrongConsistency(eventualCtx)

	// act & assert
	assert.Equal(t, eventstore.EventualConsistency, eventstore.GetConsistencyLevel(eventualCtx))
	assert.Equal(t, eventstore.StrongConsistency, eventstore.GetConsistencyLevel(strongCtx))
	assert.Equal(t, "eventual", eventstore.EventualConsistency.String())
	assert.Equal(t, "strong", eventstore.StrongConsistency.String())
}
