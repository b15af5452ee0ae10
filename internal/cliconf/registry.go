package cliconf

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kestrelnet/cliconf/internal/transport"
)

// PlatformInfo holds information about a supported network platform.
type PlatformInfo struct {
	// Name is the network_os identifier (e.g., "ios", "eos").
	Name string

	// Description is a human-readable description of the platform.
	Description string

	// ScrapliPlatform is the scrapli platform string for this OS, or
	// empty when scrapli has no matching platform definition.
	ScrapliPlatform string

	// Factory creates a new adapter bound to the given transport.
	Factory func(t transport.Transport, logger zerolog.Logger) Cliconf
}

// PlatformRegistry manages registered platform adapters.
type PlatformRegistry struct {
	mu        sync.RWMutex
	platforms map[string]PlatformInfo
}

// NewPlatformRegistry creates a new platform registry.
func NewPlatformRegistry() *PlatformRegistry {
	return &PlatformRegistry{
		platforms: make(map[string]PlatformInfo),
	}
}

// Register adds a platform to the registry.
func (r *PlatformRegistry) Register(info PlatformInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if info.Name == "" {
		return fmt.Errorf("platform name cannot be empty")
	}
	if info.Factory == nil {
		return fmt.Errorf("platform factory cannot be nil")
	}
	if _, exists := r.platforms[info.Name]; exists {
		return fmt.Errorf("platform %q already registered", info.Name)
	}

	r.platforms[info.Name] = info
	return nil
}

// Get returns the platform info for the given network_os name.
func (r *PlatformRegistry) Get(name string) (PlatformInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	info, ok := r.platforms[name]
	return info, ok
}

// List returns all registered platform names.
func (r *PlatformRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.platforms))
	for name := range r.platforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global platform registry.
var DefaultRegistry = NewPlatformRegistry()

// Register is a convenience function to register a platform with the
// default registry.
func Register(info PlatformInfo) error {
	return DefaultRegistry.Register(info)
}
