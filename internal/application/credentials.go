package application

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bnema/dragon-hoard/internal/ports"
)

const APIKeyEnv = "GEMINI_API_KEY"

var APIKeySecretKey = ports.SecretKey("gemini", "api_key")

var ErrAPIKeyMissing = errors.New("gemini api key is not configured")

// Credentials resolves the model API key from the environment first, then
// from the secret store.
type Credentials struct {
	store     ports.SecretStore
	lookupEnv func(string) (string, bool)
}

func NewCredentials(store ports.SecretStore) *Credentials {
	return &Credentials{store: store, lookupEnv: os.LookupEnv}
}

func (c *Credentials) APIKey(ctx context.Context) (string, error) {
	if value, ok := c.lookupEnv(APIKeyEnv); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value), nil
	}
	if c.store == nil {
		return "", ErrAPIKeyMissing
	}

	value, err := c.store.Get(ctx, APIKeySecretKey)
	if err != nil {
		if errors.Is(err, ports.ErrSecretNotFound) {
			return "", fmt.Errorf("%w: set %s or run `hoard auth set`", ErrAPIKeyMissing, APIKeyEnv)
		}
		return "", fmt.Errorf("read api key secret: %w", err)
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return "", ErrAPIKeyMissing
	}
	return value, nil
}

func (c *Credentials) SetAPIKey(ctx context.Context, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return errors.New("api key is empty")
	}

	if err := c.store.Put(ctx, APIKeySecretKey, value); err != nil {
		return fmt.Errorf("store api key secret: %w", err)
	}
	return nil
}

func (c *Credentials) RemoveAPIKey(ctx context.Context) error {
	if err := c.store.Delete(ctx, APIKeySecretKey); err != nil {
		return fmt.Errorf("delete api key secret: %w", err)
	}
	return nil
}
