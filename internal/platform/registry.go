package platform

import (
	"sync"

	"github.com/thoreinstein/mcptoggle/internal/errors"
	"github.com/thoreinstein/mcptoggle/internal/paths"
)

// Sentinel errors for registry operations.
var (
	// ErrAdapterAlreadyRegistered is returned when attempting to register
	// an adapter with a name that is already in use.
	ErrAdapterAlreadyRegistered = errors.New("adapter already registered")

	// ErrInvalidToolName is returned when attempting to register an adapter
	// whose name is not a known tool.
	ErrInvalidToolName = errors.Mark(errors.New("invalid tool name"), errors.ErrUnknownTool)
)

// Registry holds the adapters available to a command.
// It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
}

// NewRegistry creates a new empty adapter registry.
func NewRegistry() *Registry {
	return &Registry{
		adapters: make(map[string]Adapter),
	}
}

// Register adds an adapter to the registry.
// Returns an error if:
//   - The adapter is nil or its name is not a known tool (per paths.ValidTool)
//   - An adapter with the same name is already registered
func (r *Registry) Register(a Adapter) error {
	if a == nil || !paths.ValidTool(a.Name()) {
		return ErrInvalidToolName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.adapters[a.Name()]; exists {
		return ErrAdapterAlreadyRegistered
	}

	r.adapters[a.Name()] = a
	return nil
}

// Get returns the adapter registered under name.
func (r *Registry) Get(name string) (Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.adapters[name]
	if !ok {
		return nil, errors.WithHintf(
			errors.Markf(errors.ErrUnknownTool, "unknown tool %q", name),
			"Supported tools: %v", paths.Tools(),
		)
	}
	return a, nil
}

// All returns all registered adapters in the order of paths.Tools().
func (r *Registry) All() []Adapter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var results []Adapter
	for _, name := range paths.Tools() {
		if a, ok := r.adapters[name]; ok {
			results = append(results, a)
		}
	}
	return results
}

// Names returns the registered tool names in the order of paths.Tools().
func (r *Registry) Names() []string {
	var names []string
	for _, a := range r.All() {
		names = append(names, a.Name())
	}
	return names
}

// Detected returns the registered adapters whose configuration is present.
func (r *Registry) Detected() []Adapter {
	var results []Adapter
	for _, a := range r.All() {
		if a.Detect() {
			results = append(results, a)
		}
	}
	return results
}
