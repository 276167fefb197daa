// Package keyring stores secrets in the OS keychain.
package keyring

import (
	"errors"
	"fmt"

	gokeyring "github.com/zalando/go-keyring"
)

const service = "timebox"

// Secret names.
const (
	LLMAPIKey   = "llm_api_key"
	SettingsDSN = "settings_dsn"
)

var (
	// ErrNotFound is returned when no secret is stored under the name.
	ErrNotFound = errors.New("secret not found in keyring")
	// ErrUnavailable is returned when the OS keyring cannot be reached.
	ErrUnavailable = errors.New("OS keyring is not available")
)

// Get returns the secret stored under name.
func Get(name string) (string, error) {
	v, err := gokeyring.Get(service, name)
	if errors.Is(err, gokeyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return v, nil
}

// Set stores value under name.
func Set(name, value string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", name)
	}
	if err := gokeyring.Set(service, name, value); err != nil {
		return fmt.Errorf("storing %s in keyring: %w", name, err)
	}
	return nil
}

// Delete removes name.
func Delete(name string) error {
	err := gokeyring.Delete(service, name)
	if errors.Is(err, gokeyring.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("deleting %s from keyring: %w", name, err)
	}
	return nil
}

// Lookup prefers a non-empty environment value and falls back to the
// keyring. A missing or unreachable keyring yields "".
func Lookup(name, envValue string) string {
	if envValue != "" {
		return envValue
	}
	v, err := Get(name)
	if err != nil {
		return ""
	}
	return v
}

// Store exposes the package functions as a value for callers that take
// the keyring as a dependency.
type Store struct{}

func (Store) Get(name string) (string, error) { return Get(name) }
func (Store) Set(name, value string) error    { return Set(name, value) }
func (Store) Delete(name string) error        { return Delete(name) }
