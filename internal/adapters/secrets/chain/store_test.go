package chain

import (
	"context"
	"errors"
	"testing"

	passstore "github.com/bnema/dragon-hoard/internal/adapters/secrets/pass"
	"github.com/bnema/dragon-hoard/internal/ports"
	portmocks "github.com/bnema/dragon-hoard/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStoreGetUsesPrimaryWhenItSucceeds(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Get(mock.Anything, "hoard/gemini/api_key").Return("from-pass", nil).Once()

	value, err := store.Get(context.Background(), "hoard/gemini/api_key")
	require.NoError(t, err)
	assert.Equal(t, "from-pass", value)
}

func TestStoreGetFallsBackWhenPrimaryFails(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Get(mock.Anything, "hoard/gemini/api_key").Return("", errors.New("pass unavailable")).Once()
	fallback.EXPECT().Get(mock.Anything, "hoard/gemini/api_key").Return("from-file", nil).Once()

	value, err := store.Get(context.Background(), "hoard/gemini/api_key")
	require.NoError(t, err)
	assert.Equal(t, "from-file", value)
}

func TestStoreGetReturnsCombinedErrorWhenBothBackendsFail(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Get(mock.Anything, "hoard/gemini/api_key").Return("", errors.New("pass failed")).Once()
	fallback.EXPECT().Get(mock.Anything, "hoard/gemini/api_key").Return("", errors.New("file failed")).Once()

	_, err := store.Get(context.Background(), "hoard/gemini/api_key")
	require.Error(t, err)
	assert.ErrorContains(t, err, "primary backend")
	assert.ErrorContains(t, err, "fallback backend")
	assert.ErrorContains(t, err, "pass failed")
	assert.ErrorContains(t, err, "file failed")
}

func TestStorePutFallsBackWhenPrimaryFails(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Put(mock.Anything, "hoard/gemini/api_key", "secret").Return(errors.New("pass failed")).Once()
	fallback.EXPECT().Put(mock.Anything, "hoard/gemini/api_key", "secret").Return(nil).Once()

	err := store.Put(context.Background(), "hoard/gemini/api_key", "secret")
	require.NoError(t, err)
}

func TestStorePutDoesNotCallFallbackWhenPrimarySucceeds(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Put(mock.Anything, "hoard/gemini/api_key", "secret").Return(nil).Once()

	err := store.Put(context.Background(), "hoard/gemini/api_key", "secret")
	require.NoError(t, err)
}

func TestStoreDeleteFallsBackWhenPrimaryFails(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Delete(mock.Anything, "hoard/gemini/api_key").Return(errors.New("pass failed")).Once()
	fallback.EXPECT().Delete(mock.Anything, "hoard/gemini/api_key").Return(nil).Once()

	err := store.Delete(context.Background(), "hoard/gemini/api_key")
	require.NoError(t, err)
}

func TestStoreDeleteDoesNotCallFallbackWhenPrimarySucceeds(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Delete(mock.Anything, "hoard/gemini/api_key").Return(nil).Once()

	err := store.Delete(context.Background(), "hoard/gemini/api_key")
	require.NoError(t, err)
}

func TestStoreGetDoesNotFallbackOnCanceledContextError(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Get(mock.Anything, "hoard/gemini/api_key").Return("", context.Canceled).Once()

	_, err := store.Get(context.Background(), "hoard/gemini/api_key")
	require.ErrorIs(t, err, context.Canceled)
}

func TestStoreGetLogsFallbackAndKeepsNotFound(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback).WithLogger(zap.New(core))

	primary.EXPECT().Get(mock.Anything, "hoard/gemini/api_key").Return("", passstore.ErrUnavailable).Once()
	fallback.EXPECT().Get(mock.Anything, "hoard/gemini/api_key").Return("", ports.ErrSecretNotFound).Once()

	_, err := store.Get(context.Background(), "hoard/gemini/api_key")
	require.ErrorIs(t, err, ports.ErrSecretNotFound)
	require.ErrorIs(t, err, passstore.ErrUnavailable)

	entries := logs.FilterMessage("primary secret backend failed, trying fallback").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "get", entries[0].ContextMap()["op"])
}

func TestStoreDoesNotFallbackOnInvalidKey(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Put(mock.Anything, "email/work", "secret").Return(ports.ErrInvalidSecretKey).Once()

	err := store.Put(context.Background(), "email/work", "secret")
	require.ErrorIs(t, err, ports.ErrInvalidSecretKey)
}
