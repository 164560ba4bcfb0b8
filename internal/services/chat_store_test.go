package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/careerpulse/internal/services"
	"alfredoptarigan/careerpulse/mocks"
)

func newStore(t *testing.T) services.ConversationStore {
	t.Helper()

	gemini := new(mocks.MockGeminiService)
	gemini.On("StartChat", mock.Anything, mock.Anything).Return(new(mocks.MockChatHandle), nil)
	return services.NewConversationStore(gemini, services.WithContextLimit(500))
}

func TestConversationStore_Lifecycle(t *testing.T) {
	store := newStore(t)

	conv, err := store.Create(context.Background(), sampleResume)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())

	got, err := store.Get(conv.ID)
	require.NoError(t, err)
	assert.Same(t, conv, got)

	require.NoError(t, store.Delete(conv.ID))
	assert.Equal(t, services.StateClosed, conv.State())

	_, err = store.Get(conv.ID)
	assert.ErrorIs(t, err, services.ErrConversationNotFound)
	assert.ErrorIs(t, store.Delete(conv.ID), services.ErrConversationNotFound)
	assert.ErrorIs(t, store.Delete(uuid.New()), services.ErrConversationNotFound)
}

func TestConversationStore_EvictIdle(t *testing.T) {
	store := newStore(t)

	conv, err := store.Create(context.Background(), sampleResume)
	require.NoError(t, err)

	assert.Equal(t, 0, store.EvictIdle(time.Hour))

	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, 1, store.EvictIdle(time.Millisecond))
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, services.StateClosed, conv.State())
}

func TestConversationStore_KeepsTypingConversations(t *testing.T) {
	store := newStore(t)

	conv, err := store.Create(context.Background(), sampleResume)
	require.NoError(t, err)

	_, err = conv.SendTurn(context.Background(), "hello")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, 0, store.EvictIdle(time.Millisecond))
	assert.Equal(t, 1, store.Len())
}

func TestJanitor_EvictsIdleConversations(t *testing.T) {
	store := newStore(t)

	_, err := store.Create(context.Background(), sampleResume)
	require.NoError(t, err)

	janitor := services.NewJanitor(store, time.Millisecond, 5*time.Millisecond)
	janitor.Start(context.Background())
	defer janitor.Stop()

	assert.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestJanitor_StopIsIdempotent(t *testing.T) {
	janitor := services.NewJanitor(newStore(t), time.Minute, time.Minute)
	janitor.Start(context.Background())

	janitor.Stop()
	janitor.Stop()
}
