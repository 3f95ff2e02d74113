package chat_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portfolio-chat/backend/internal/model/chat"
	chatservice "github.com/portfolio-chat/backend/internal/service/chat"
)

func TestStoreCreatesOncePerSession(t *testing.T) {
	provider := &fakeProvider{}
	store := chatservice.NewStore(provider, staticSeeder{}, chatservice.StoreConfig{})
	ctx := context.Background()

	first, created, err := store.GetOrCreate(ctx, "visitor-1")
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := store.GetOrCreate(ctx, "visitor-1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Same(t, first, second)

	require.Equal(t, 1, provider.started())
	seed := provider.seeds[0]
	require.Len(t, seed, 2)
	assert.Equal(t, chat.RoleUser, seed[0].Role)
	assert.Equal(t, chat.RoleAssistant, seed[1].Role)
	assert.Equal(t, "greeting", seed[1].Text)
}

func TestStoreConcurrentFirstRequestsShareOneDialogue(t *testing.T) {
	provider := &fakeProvider{delay: 50 * time.Millisecond}
	store := chatservice.NewStore(provider, staticSeeder{}, chatservice.StoreConfig{})
	ctx := context.Background()

	const callers = 16
	var wg sync.WaitGroup
	sessions := make([]*chatservice.Session, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sessions[i], _, errs[i] = store.GetOrCreate(ctx, "same-new-id")
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Same(t, sessions[0], sessions[i])
	}
	assert.Equal(t, 1, provider.started())
	assert.Equal(t, 1, store.Len())
}

func TestStoreCreationFailureIsNotStored(t *testing.T) {
	provider := &fakeProvider{startErr: errors.New("API key not valid")}
	store := chatservice.NewStore(provider, staticSeeder{}, chatservice.StoreConfig{})

	_, _, err := store.GetOrCreate(context.Background(), "visitor")
	require.Error(t, err)
	assert.Equal(t, 0, store.Len())
}

func TestStoreRemoveListAndClear(t *testing.T) {
	store := chatservice.NewStore(&fakeProvider{}, staticSeeder{}, chatservice.StoreConfig{})
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		_, _, err := store.GetOrCreate(ctx, id)
		require.NoError(t, err)
	}

	ids := store.ListIDs()
	sort.Strings(ids)
	assert.Equal(t, []string{"a", "b", "c"}, ids)

	assert.True(t, store.Remove("b"))
	assert.False(t, store.Remove("b"))
	assert.False(t, store.Remove("never"))
	assert.NotContains(t, store.ListIDs(), "b")

	store.Clear()
	assert.Empty(t, store.ListIDs())
	assert.Equal(t, 0, store.Len())
}

func TestStoreEvictsLeastRecentlyUsed(t *testing.T) {
	provider := &fakeProvider{}
	store := chatservice.NewStore(provider, staticSeeder{}, chatservice.StoreConfig{MaxSessions: 2})
	ctx := context.Background()

	_, _, err := store.GetOrCreate(ctx, "old")
	require.NoError(t, err)
	_, _, err = store.GetOrCreate(ctx, "recent")
	require.NoError(t, err)
	_, _, err = store.GetOrCreate(ctx, "old")
	require.NoError(t, err)
	_, _, err = store.GetOrCreate(ctx, "newest")
	require.NoError(t, err)

	ids := store.ListIDs()
	sort.Strings(ids)
	assert.Equal(t, []string{"newest", "old"}, ids)
	assert.Equal(t, 3, provider.started())
}

func TestStoreIdleSessionsExpire(t *testing.T) {
	provider := &fakeProvider{}
	store := chatservice.NewStore(provider, staticSeeder{}, chatservice.StoreConfig{IdleTTL: 50 * time.Millisecond})
	ctx := context.Background()

	first, _, err := store.GetOrCreate(ctx, "idle")
	require.NoError(t, err)

	time.Sleep(120 * time.Millisecond)

	second, created, err := store.GetOrCreate(ctx, "idle")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotSame(t, first, second)
	assert.Equal(t, 2, provider.started())
}
