// Package tenants loads the per-client configuration file and answers lookups by client key.
package tenants

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"clientportal/internal/models"
)

var ErrUnknownTenant = errors.New("unknown client key")

type fileFormat struct {
	Tenants map[string]models.TenantConfig `json:"tenants"`
}

// Registry is safe for concurrent use. Keys are matched case-insensitively.
type Registry struct {
	mu      sync.RWMutex
	tenants map[string]models.TenantConfig
}

func NewRegistry(list ...models.TenantConfig) *Registry {
	r := &Registry{tenants: make(map[string]models.TenantConfig, len(list))}
	for _, t := range list {
		r.Put(t)
	}
	return r
}

// Load reads a registry from a JSON file of the form {"tenants": {"<key>": {...}}}.
// A missing file yields an empty registry.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewRegistry(), nil
		}
		return nil, fmt.Errorf("read tenants file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Registry, error) {
	var f fileFormat
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse tenants file: %w", err)
	}
	r := NewRegistry()
	for key, t := range f.Tenants {
		key = normalizeKey(key)
		if key == "" {
			return nil, errors.New("parse tenants file: empty client key")
		}
		if t.CooldownSeconds < 0 {
			return nil, fmt.Errorf("parse tenants file: tenant %q has negative cooldown", key)
		}
		t.Key = key
		r.Put(t)
	}
	return r, nil
}

func (r *Registry) Put(t models.TenantConfig) {
	t.Key = normalizeKey(t.Key)
	r.mu.Lock()
	r.tenants[t.Key] = t
	r.mu.Unlock()
}

func (r *Registry) Get(clientKey string) (models.TenantConfig, error) {
	r.mu.RLock()
	t, ok := r.tenants[normalizeKey(clientKey)]
	r.mu.RUnlock()
	if !ok {
		return models.TenantConfig{}, ErrUnknownTenant
	}
	return t, nil
}

// Keys returns the registered client keys in sorted order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	keys := make([]string, 0, len(r.tenants))
	for k := range r.tenants {
		keys = append(keys, k)
	}
	r.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tenants)
}

func normalizeKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}
