// Package registry provides a global registry for engine backends.
// Backends register themselves in init() functions, allowing the tooling
// to discover and instantiate them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/frameforge/internal/engine"
)

// Options carries what a backend needs to bring up one isolated instance.
type Options struct {
	// Seed is the initial generator state for backends that start from
	// scratch. Backends that load it from the game ignore it.
	Seed uint32

	// Library is the path of the native engine shared library.
	Library string

	// Root is the game data directory (levels, sprites).
	Root string

	// LevelsFile overrides the levels data file name inside Root.
	LevelsFile string

	Logger *log.Logger
}

// BackendInfo contains metadata about a registered backend.
type BackendInfo struct {
	Name  string
	Title string
}

// Factory creates a new, isolated engine instance.
type Factory func(opts Options) (engine.Engine, error)

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a backend factory to the registry.
// Panics if a backend with the same name is already registered.
func Register(name, title string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("registry: backend %q already registered", name))
	}

	factories[name] = f
	titles[name] = title
}

// List returns information about all registered backends, sorted by name.
func List() []BackendInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]BackendInfo, 0, len(factories))
	for name := range factories {
		result = append(result, BackendInfo{
			Name:  name,
			Title: titles[name],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// Create brings up a new engine instance and wraps it in a Binding.
func Create(name string, opts Options) (*engine.Binding, error) {
	mu.RLock()
	f, ok := factories[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown backend %q", name)
	}

	e, err := f(opts)
	if err != nil {
		return nil, fmt.Errorf("registry: create %q: %w", name, err)
	}
	return engine.NewBinding(name, e), nil
}

// Exists checks if a backend with the given name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[name]
	return ok
}
