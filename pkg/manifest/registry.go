// manifest/registry.go
package manifest

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
)

// ErrNotRegistered is returned by Load for a key nothing registered.
var ErrNotRegistered = errors.New("module not registered")

// LoadError means a route file could not be turned into a Module.
type LoadError struct {
	Key string
	Err error
}

func (e *LoadError) Error() string { return fmt.Sprintf("load %s: %v", e.Key, e.Err) }
func (e *LoadError) Unwrap() error { return e.Err }

// Loader resolves a route file to its exports.
type Loader interface {
	Load(key string) (*Module, error)
}

type entry struct {
	once    sync.Once
	factory func() (Module, error)
	mod     *Module
	err     error
}

// Registry maps route file keys (slash separated, relative to the app
// root, e.g. "routes/test/[id].get.go") to module factories.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

func NewRegistry() *Registry {
	return &Registry{entries: map[string]*entry{}}
}

// Register stores m under key. Registering a key twice is an error.
func (r *Registry) Register(key string, m Module) error {
	return r.RegisterFunc(key, func() (Module, error) { return m, nil })
}

// RegisterFunc stores a factory evaluated on first Load.
func (r *Registry) RegisterFunc(key string, factory func() (Module, error)) error {
	key = Key(key)
	if key == "" || factory == nil {
		return fmt.Errorf("module key and factory required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[key]; ok {
		return fmt.Errorf("module %q already registered", key)
	}
	r.entries[key] = &entry{factory: factory}
	return nil
}

// Load returns the module for key. Factory errors and panics, as well as
// invalid modules, come back as *LoadError. The factory runs once.
func (r *Registry) Load(key string) (*Module, error) {
	key = Key(key)
	r.mu.RLock()
	e, ok := r.entries[key]
	r.mu.RUnlock()
	if !ok {
		return nil, &LoadError{Key: key, Err: ErrNotRegistered}
	}
	e.once.Do(func() {
		m, err := build(e.factory)
		if err == nil {
			err = m.Validate()
		}
		if err != nil {
			e.err = &LoadError{Key: key, Err: err}
			return
		}
		e.mod = &m
	})
	return e.mod, e.err
}

func (r *Registry) Has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[Key(key)]
	return ok
}

// Keys returns every registered key, sorted.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.entries))
	for k := range r.entries {
		out = append(out, k)
	}
	r.mu.RUnlock()
	sort.Strings(out)
	return out
}

func build(factory func() (Module, error)) (m Module, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic during load: %v", rec)
		}
	}()
	return factory()
}

// Key normalises a route file path into registry form.
func Key(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	if p == "" {
		return ""
	}
	return strings.TrimPrefix(path.Clean(p), "/")
}

// Default is the process-wide registry route files register into.
var Default = NewRegistry()

// Register adds m to Default and panics on a duplicate key; meant for init().
func Register(key string, m Module) {
	if err := Default.Register(key, m); err != nil {
		panic(err)
	}
}

// RegisterFunc adds a lazy factory to Default; meant for init().
func RegisterFunc(key string, factory func() (Module, error)) {
	if err := Default.RegisterFunc(key, factory); err != nil {
		panic(err)
	}
}
