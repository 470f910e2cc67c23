// Package env wraps the process environment so commands can read and set
// variables without touching os directly in tests.
package env

import (
	"os"
	"sort"
	"strings"
	"sync"
)

// DefaultEnvironment is used when neither CMDR_ENV nor APP_ENV is set.
const DefaultEnvironment = "development"

// Key holds the active runtime environment name.
const Key = "CMDR_ENV"

// Lookup order for the active runtime environment. First non-blank wins.
var environmentVars = []string{Key, "APP_ENV"}

// Env is the process-wide key/value store commands read from and write to.
type Env interface {
	Get(key string) string
	Lookup(key string) (string, bool)
	Set(key, value string) error
	Environ() []string
}

// OS is the real process environment.
type OS struct{}

func (OS) Get(key string) string { return os.Getenv(key) }

func (OS) Lookup(key string) (string, bool) { return os.LookupEnv(key) }

func (OS) Set(key, value string) error { return os.Setenv(key, value) }

func (OS) Environ() []string { return os.Environ() }

// Map is an in-memory Env, mostly for tests.
type Map struct {
	mu   sync.Mutex
	vars map[string]string
}

// NewMap copies vars into a new Map.
func NewMap(vars map[string]string) *Map {
	m := &Map{vars: make(map[string]string, len(vars))}
	for k, v := range vars {
		m.vars[k] = v
	}
	return m
}

func (m *Map) Get(key string) string {
	v, _ := m.Lookup(key)
	return v
}

func (m *Map) Lookup(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vars[key]
	return v, ok
}

func (m *Map) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.vars == nil {
		m.vars = make(map[string]string)
	}
	m.vars[key] = value
	return nil
}

// Environ returns KEY=value pairs sorted by key.
func (m *Map) Environ() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.vars))
	for k, v := range m.vars {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

// Environment returns the active runtime environment name.
func Environment(e Env) string {
	for _, key := range environmentVars {
		if v := strings.TrimSpace(e.Get(key)); v != "" {
			return v
		}
	}
	return DefaultEnvironment
}

// SetEnvironment overwrites CMDR_ENV so child processes see the same environment.
func SetEnvironment(e Env, name string) error {
	return e.Set(Key, name)
}
