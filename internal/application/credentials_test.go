package application

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/dragon-hoard/internal/ports"
	"github.com/bnema/dragon-hoard/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func envWith(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}

func TestCredentialsPreferEnvironment(t *testing.T) {
	t.Parallel()

	store := mocks.NewMockSecretStore(t)
	creds := NewCredentials(store)
	creds.lookupEnv = envWith(map[string]string{APIKeyEnv: "  from-env \n"})

	key, err := creds.APIKey(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "from-env", key)
}

func TestCredentialsFallBackToSecretStore(t *testing.T) {
	t.Parallel()

	store := mocks.NewMockSecretStore(t)
	store.EXPECT().Get(mock.Anything, APIKeySecretKey).Return("from-store\n", nil).Once()

	creds := NewCredentials(store)
	creds.lookupEnv = envWith(map[string]string{APIKeyEnv: "   "})

	key, err := creds.APIKey(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "from-store", key)
}

func TestCredentialsMissingKey(t *testing.T) {
	t.Parallel()

	store := mocks.NewMockSecretStore(t)
	store.EXPECT().Get(mock.Anything, APIKeySecretKey).
		Return("", errors.Join(ports.ErrSecretNotFound, errors.New("no such file"))).Once()

	creds := NewCredentials(store)
	creds.lookupEnv = envWith(nil)

	_, err := creds.APIKey(context.Background())
	require.ErrorIs(t, err, ErrAPIKeyMissing)
}

func TestCredentialsStoreFailureIsNotMissingKey(t *testing.T) {
	t.Parallel()

	store := mocks.NewMockSecretStore(t)
	store.EXPECT().Get(mock.Anything, APIKeySecretKey).Return("", errors.New("gpg agent locked")).Once()

	creds := NewCredentials(store)
	creds.lookupEnv = envWith(nil)

	_, err := creds.APIKey(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAPIKeyMissing)
	assert.ErrorContains(t, err, "gpg agent locked")
}

func TestCredentialsSetAndRemove(t *testing.T) {
	t.Parallel()

	store := mocks.NewMockSecretStore(t)
	store.EXPECT().Put(mock.Anything, APIKeySecretKey, "abc123").Return(nil).Once()
	store.EXPECT().Delete(mock.Anything, APIKeySecretKey).Return(nil).Once()

	creds := NewCredentials(store)

	require.Error(t, creds.SetAPIKey(context.Background(), "  "))
	require.NoError(t, creds.SetAPIKey(context.Background(), " abc123 "))
	require.NoError(t, creds.RemoveAPIKey(context.Background()))
}
