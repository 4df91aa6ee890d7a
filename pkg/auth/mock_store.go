package auth

// MockStore is an in-memory KeyStore for tests
type MockStore struct {
	key      string
	storeErr error
}

// NewMockStore creates an empty in-memory store
func NewMockStore() *MockStore {
	return &MockStore{}
}

// FailStores makes Store return the given error
func (m *MockStore) FailStores(err error) {
	m.storeErr = err
}

// Store saves the key in memory
func (m *MockStore) Store(key string) error {
	if m.storeErr != nil {
		return m.storeErr
	}
	if key == "" {
		return ErrInvalidKey
	}
	m.key = key
	return nil
}

// Retrieve returns the in-memory key
func (m *MockStore) Retrieve() (string, error) {
	if m.key == "" {
		return "", ErrKeyNotFound
	}
	return m.key, nil
}

// Delete clears the in-memory key
func (m *MockStore) Delete() error {
	if m.key == "" {
		return ErrKeyNotFound
	}
	m.key = ""
	return nil
}

// Exists reports whether a key is held
func (m *MockStore) Exists() bool {
	return m.key != ""
}
