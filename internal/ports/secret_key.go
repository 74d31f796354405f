package ports

import (
	"errors"
	"fmt"
	"strings"
)

// SecretNamespace prefixes every key the game writes to a secret backend so
// entries stay grouped under one folder in pass and on disk.
const SecretNamespace = "hoard"

var ErrInvalidSecretKey = errors.New("invalid secret key")

// SecretKey builds a namespaced key such as "hoard/gemini/api_key".
func SecretKey(provider, name string) string {
	return SecretNamespace + "/" + provider + "/" + name
}

// SplitSecretKey validates a key and returns its path segments, namespace
// included. Segments must be non-empty, must not be "." or "..", and must not
// contain whitespace or backslashes.
func SplitSecretKey(key string) ([]string, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: secret key is empty", ErrInvalidSecretKey)
	}

	segments := strings.Split(trimmed, "/")
	if segments[0] != SecretNamespace {
		return nil, fmt.Errorf("%w %q: must start with %q", ErrInvalidSecretKey, key, SecretNamespace+"/")
	}
	if len(segments) < 2 {
		return nil, fmt.Errorf("%w %q: missing name under %q", ErrInvalidSecretKey, key, SecretNamespace)
	}

	for _, segment := range segments[1:] {
		switch {
		case segment == "", segment == ".", segment == "..":
			return nil, fmt.Errorf("%w %q: bad segment %q", ErrInvalidSecretKey, key, segment)
		case strings.ContainsAny(segment, " \t\r\n\\"):
			return nil, fmt.Errorf("%w %q: segment %q has whitespace or backslash", ErrInvalidSecretKey, key, segment)
		}
	}

	return segments, nil
}
