package entropy

import (
	"fmt"
	"sort"
	"sync"

	"github.com/cocosip/go-subband-codec/codec"
)

// Registry maps coder names and codestream IDs to coders
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Coder
	byID   map[uint8]Coder
}

var defaultRegistry = NewRegistry()

func init() {
	Register(Identity{})
	Register(NewZstd())
	Register(S2{})
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]Coder),
		byID:   make(map[uint8]Coder),
	}
}

// Register adds a coder to the default registry
func Register(c Coder) {
	defaultRegistry.Register(c)
}

// Get retrieves a coder from the default registry by name
func Get(name string) (Coder, error) {
	return defaultRegistry.Get(name)
}

// GetByID retrieves a coder from the default registry by codestream ID
func GetByID(id uint8) (Coder, error) {
	return defaultRegistry.GetByID(id)
}

// List returns the coders of the default registry ordered by ID
func List() []Coder {
	return defaultRegistry.List()
}

// Register adds c under its name and ID, replacing any previous entry
func (r *Registry) Register(c Coder) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byName[c.Name()] = c
	r.byID[c.ID()] = c
}

// Get retrieves a coder by name
func (r *Registry) Get(name string) (Coder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: entropy coder %q", codec.ErrCodecNotFound, name)
	}
	return c, nil
}

// GetByID retrieves a coder by codestream ID
func (r *Registry) GetByID(id uint8) (Coder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: entropy coder id %d", codec.ErrCodecNotFound, id)
	}
	return c, nil
}

// List returns all registered coders ordered by ID
func (r *Registry) List() []Coder {
	r.mu.RLock()
	defer r.mu.RUnlock()

	coders := make([]Coder, 0, len(r.byID))
	for _, c := range r.byID {
		coders = append(coders, c)
	}
	sort.Slice(coders, func(i, j int) bool { return coders[i].ID() < coders[j].ID() })
	return coders
}
