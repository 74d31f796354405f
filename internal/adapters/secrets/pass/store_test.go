package pass

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/dragon-hoard/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorePutUsesPassInsert(t *testing.T) {
	t.Parallel()

	called := false
	store := &Store{
		run: func(ctx context.Context, input string, args ...string) (string, string, error) {
			called = true
			assert.Equal(t, context.Background(), ctx)
			assert.Equal(t, []string{"insert", "-m", "-f", "hoard/gemini/api_key"}, args)
			assert.Equal(t, "top-secret\n", input)
			return "", "", nil
		},
	}

	err := store.Put(context.Background(), "hoard/gemini/api_key", "top-secret")
	require.NoError(t, err)
	assert.True(t, called)
}

func TestStoreGetUsesPassShowAndTrimsTrailingNewline(t *testing.T) {
	t.Parallel()

	store := &Store{
		run: func(ctx context.Context, input string, args ...string) (string, string, error) {
			assert.Equal(t, []string{"show", "hoard/gemini/api_key"}, args)
			assert.Empty(t, input)
			return "top-secret\n", "", nil
		},
	}

	value, err := store.Get(context.Background(), "hoard/gemini/api_key")
	require.NoError(t, err)
	assert.Equal(t, "top-secret", value)
}

func TestStoreDeleteUsesPassRemove(t *testing.T) {
	t.Parallel()

	store := &Store{
		run: func(ctx context.Context, input string, args ...string) (string, string, error) {
			assert.Equal(t, []string{"rm", "-f", "hoard/gemini/api_key"}, args)
			assert.Empty(t, input)
			return "", "", nil
		},
	}

	err := store.Delete(context.Background(), "hoard/gemini/api_key")
	require.NoError(t, err)
}

func TestStoreGetReturnsClearError(t *testing.T) {
	t.Parallel()

	store := &Store{
		run: func(ctx context.Context, input string, args ...string) (string, string, error) {
			return "", "entry not found", errors.New("exit status 1")
		},
	}

	_, err := store.Get(context.Background(), "hoard/gemini/api_key")
	require.Error(t, err)
	assert.ErrorContains(t, err, "pass get")
	assert.ErrorContains(t, err, "hoard/gemini/api_key")
	assert.ErrorContains(t, err, "entry not found")
}

func TestStoreGetMissingEntryIsNotFound(t *testing.T) {
	t.Parallel()

	store := &Store{
		run: func(ctx context.Context, input string, args ...string) (string, string, error) {
			return "", "Error: hoard/gemini/api_key is not in the password store.", errors.New("exit status 1")
		},
	}

	_, err := store.Get(context.Background(), "hoard/gemini/api_key")
	require.ErrorIs(t, err, ports.ErrSecretNotFound)
}

func TestStoreGetKeepsOnlyFirstLine(t *testing.T) {
	t.Parallel()

	store := &Store{
		run: func(ctx context.Context, input string, args ...string) (string, string, error) {
			return "top-secret\nurl: https://aistudio.google.com\nnote: rotated\n", "", nil
		},
	}

	value, err := store.Get(context.Background(), ports.SecretKey("gemini", "api_key"))
	require.NoError(t, err)
	assert.Equal(t, "top-secret", value)
}

func TestStoreRejectsKeysOutsideNamespace(t *testing.T) {
	t.Parallel()

	store := &Store{
		run: func(ctx context.Context, input string, args ...string) (string, string, error) {
			t.Fatalf("pass should not run for an invalid key, got %v", args)
			return "", "", nil
		},
	}

	for _, key := range []string{"email/work", "hoard/../gpg", ""} {
		_, err := store.Get(context.Background(), key)
		require.ErrorIs(t, err, ports.ErrInvalidSecretKey)
		require.ErrorIs(t, store.Put(context.Background(), key, "v"), ports.ErrInvalidSecretKey)
		require.ErrorIs(t, store.Delete(context.Background(), key), ports.ErrInvalidSecretKey)
	}
}
