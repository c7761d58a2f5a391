package nvs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Store is a namespaced key-value store backed by one JSON file per
// namespace, mirroring the superseded ESP32 firmware's Preferences namespaces.
type Store struct {
	mu   sync.Mutex
	path string
	data map[string]string
}

// Open loads (or creates) the namespace file at path.
func Open(path string) (*Store, error) {
	s := &Store{path: path, data: map[string]string{}}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, err
	}
	return s, nil
}

// GetString returns the value for key, or def if the key isn't set.
func (s *Store) GetString(key, def string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.data[key]; ok {
		return v
	}
	return def
}

// GetBool returns the value for key interpreted as "true"/"false", or
// def if the key isn't set.
func (s *Store) GetBool(key string, def bool) bool {
	s.mu.Lock()
	v, ok := s.data[key]
	s.mu.Unlock()
	if !ok {
		return def
	}
	return v == "true"
}

// PutString stores a string value under key and persists it to disk.
func (s *Store) PutString(key, value string) error {
	s.mu.Lock()
	s.data[key] = value
	s.mu.Unlock()
	return s.save()
}

// PutBool stores a bool value under key and persists it to disk.
func (s *Store) PutBool(key string, value bool) error {
	v := "false"
	if value {
		v = "true"
	}
	return s.PutString(key, v)
}

// Remove deletes key, if present, and persists the change.
func (s *Store) Remove(key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return s.save()
}

// Clear removes every key in the namespace and persists the change.
func (s *Store) Clear() error {
	s.mu.Lock()
	s.data = map[string]string{}
	s.mu.Unlock()
	return s.save()
}

func (s *Store) save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0644)
}
