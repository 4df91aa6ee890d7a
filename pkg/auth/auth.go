// Package auth stores the Steam Web API key used by the credentialed
// achievement-list strategy. The key lives in the system keychain when one
// is available, with the STEAM_API_KEY environment variable as fallback.
package auth

import "errors"

var (
	// ErrKeyNotFound is returned when no API key is stored
	ErrKeyNotFound = errors.New("no API key found")
	// ErrStoreUnavailable is returned when a store cannot perform the operation
	ErrStoreUnavailable = errors.New("credential store unavailable")
	// ErrInvalidKey is returned for empty or malformed keys
	ErrInvalidKey = errors.New("invalid API key")
)

// KeyStore is the interface for storing and retrieving the API key
type KeyStore interface {
	// Store saves the API key
	Store(key string) error
	// Retrieve gets the stored API key
	Retrieve() (string, error)
	// Delete removes the stored API key
	Delete() error
	// Exists checks whether an API key is stored
	Exists() bool
}

// Manager resolves the API key across storage backends in priority order
type Manager struct {
	stores []KeyStore
}

// NewManager creates a credential manager with the available backends.
// The keyring is preferred; the environment variable is always consulted last.
func NewManager() *Manager {
	var stores []KeyStore

	if keyringStore, err := NewKeyringStore(); err == nil {
		stores = append(stores, keyringStore)
	}
	stores = append(stores, NewEnvironmentStore())

	return &Manager{stores: stores}
}

// NewManagerWithStores creates a manager over explicit backends (tests)
func NewManagerWithStores(stores ...KeyStore) *Manager {
	return &Manager{stores: stores}
}

// Store saves the API key using the first store that accepts it
func (m *Manager) Store(key string) error {
	if key == "" {
		return ErrInvalidKey
	}

	var lastErr error
	for _, store := range m.stores {
		if err := store.Store(key); err != nil {
			lastErr = err
			continue
		}
		return nil
	}

	if lastErr == nil {
		lastErr = ErrStoreUnavailable
	}
	return lastErr
}

// Retrieve returns the API key from the first store that has one
func (m *Manager) Retrieve() (string, error) {
	for _, store := range m.stores {
		key, err := store.Retrieve()
		if err == nil && key != "" {
			return key, nil
		}
	}
	return "", ErrKeyNotFound
}

// Delete removes the API key from every store that holds one
func (m *Manager) Delete() error {
	var lastErr error
	deleted := false

	for _, store := range m.stores {
		if !store.Exists() {
			continue
		}
		if err := store.Delete(); err != nil {
			if errors.Is(err, ErrStoreUnavailable) {
				continue
			}
			lastErr = err
			continue
		}
		deleted = true
	}

	if !deleted && lastErr == nil {
		return ErrKeyNotFound
	}
	return lastErr
}

// Exists checks whether any store holds an API key
func (m *Manager) Exists() bool {
	for _, store := range m.stores {
		if store.Exists() {
			return true
		}
	}
	return false
}
