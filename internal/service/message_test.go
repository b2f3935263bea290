package service

import (
	"context"
	"testing"

	"github.com/sakif/travel-together/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPost_ThenList(t *testing.T) {
	users, trips, messages, _ := newTestServices(t)
	ana := mustRegister(t, users, "Ana", "ana@example.com")
	trip := mustCreateTrip(t, trips, ana, "Sylhet", "2030-05-01T10:00")
	ctx := context.Background()

	msg, err := messages.Post(ctx, trip.ID, ana.ID, "  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Content)
	assert.False(t, msg.SentAt.IsZero())

	_, err = messages.Post(ctx, trip.ID, ana.ID, "second")
	require.NoError(t, err)

	got, err := messages.List(ctx, trip.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "hello", got[0].Content)
	assert.Equal(t, "second", got[1].Content)
	assert.Equal(t, "Ana", got[0].SenderName)
}

func TestPost_EmptyContent(t *testing.T) {
	for _, content := range []string{"", "   ", "\n\t"} {
		users, trips, messages, store := newTestServices(t)
		ana := mustRegister(t, users, "Ana", "ana@example.com")
		trip := mustCreateTrip(t, trips, ana, "Sylhet", "2030-05-01T10:00")

		_, err := messages.Post(context.Background(), trip.ID, ana.ID, content)

		assert.ErrorIs(t, err, apperror.ErrEmptyContent, "content %q", content)
		assert.Empty(t, store.messages)
	}
}

func TestPost_UnknownTrip(t *testing.T) {
	users, _, messages, _ := newTestServices(t)
	ana := mustRegister(t, users, "Ana", "ana@example.com")

	_, err := messages.Post(context.Background(), 404, ana.ID, "hi")

	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestList_EmptyIsNotNil(t *testing.T) {
	_, _, messages, _ := newTestServices(t)

	got, err := messages.List(context.Background(), 1)

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestList_StoreFailure(t *testing.T) {
	_, _, messages, store := newTestServices(t)
	store.failWith = errStoreDown

	_, err := messages.List(context.Background(), 1)

	assert.ErrorIs(t, err, errStoreDown)
}
