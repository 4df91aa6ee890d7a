package auth

import "os"

// envKeyName is the conventional variable name for the Steam Web API key
const envKeyName = "STEAM_API_KEY"

// EnvironmentStore implements KeyStore using an environment variable.
// It is read-only; Store and Delete are unsupported.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(key string) error {
	return ErrStoreUnavailable
}

// Retrieve gets the API key from the environment
func (e *EnvironmentStore) Retrieve() (string, error) {
	key := os.Getenv(envKeyName)
	if key == "" {
		return "", ErrKeyNotFound
	}
	return key, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete() error {
	return ErrStoreUnavailable
}

// Exists checks if the environment variable is set
func (e *EnvironmentStore) Exists() bool {
	return os.Getenv(envKeyName) != ""
}
