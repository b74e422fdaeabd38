package indicator

import (
	"fmt"
	"sort"
	"sync"

	"github.com/mohamedkhairy/tvstore/internal/models"
)

// Registry maps indicator names to formulas
type Registry struct {
	mu       sync.RWMutex
	formulas map[string]Formula
}

// NewRegistry creates an empty indicator registry
func NewRegistry() *Registry {
	return &Registry{
		formulas: make(map[string]Formula),
	}
}

// Register registers a formula under a name
func (r *Registry) Register(name string, formula Formula) error {
	if name == "" {
		return fmt.Errorf("indicator name cannot be empty")
	}
	if formula.Build == nil {
		return fmt.Errorf("formula builder cannot be nil")
	}
	if formula.MinBars < 1 {
		return fmt.Errorf("formula must require at least one bar")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.formulas[name]; exists {
		return fmt.Errorf("indicator %q already registered", name)
	}

	r.formulas[name] = formula
	return nil
}

// Get retrieves a formula by name
func (r *Registry) Get(name string) (Formula, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	formula, exists := r.formulas[name]
	if !exists {
		return Formula{}, fmt.Errorf("%w: %q", models.ErrUnsupportedIndicator, name)
	}

	return formula, nil
}

// List returns the registered indicator names, ascending
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.formulas))
	for name := range r.formulas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
