package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewStoreMemory(t *testing.T) {
	store, err := NewStore("memory", "")
	require.NoError(t, err)
	require.IsType(t, &MemoryStore{}, store)
	require.NoError(t, store.Init(context.Background()))
	require.NoError(t, CloseIfSupported(store), "memory store close should be a no-op")
	require.False(t, Persistent("memory"))
}

func TestNewStoreUnsupported(t *testing.T) {
	_, err := NewStore("postgres", "")
	require.Error(t, err)
}
