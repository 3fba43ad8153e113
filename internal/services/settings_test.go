package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuth bool

func (a stubAuth) Authenticate(context.Context) (bool, error) { return bool(a), nil }

func TestLockGate(t *testing.T) {
	ctx := context.Background()
	_, store := newTestLedger(t)

	settings := NewSettingsService(store, stubAuth(false))
	ok, err := settings.Unlock(ctx)
	require.NoError(t, err)
	assert.True(t, ok, "disabled lock always unlocks")

	require.NoError(t, settings.SetLockEnabled(ctx, true))
	enabled, err := settings.IsLockEnabled(ctx)
	require.NoError(t, err)
	assert.True(t, enabled)

	ok, err = settings.Unlock(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = NewSettingsService(store, stubAuth(true)).Unlock(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = NewSettingsService(store, nil).Unlock(ctx)
	assert.Error(t, err)
}
