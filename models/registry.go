package models

import (
	"sort"
	"strings"
	"sync"

	"github.com/YuminosukeSato/curvefit/pkg/errors"
)

var (
	registryMu sync.RWMutex
	registry   = map[string]Model{}
)

func init() {
	for _, m := range []Model{Linear, LinearThroughZero, Sqrt, LogNatural, Log10, Exponential, Log10Log10} {
		if err := Register(m); err != nil {
			panic(err)
		}
	}
}

// Register adds m to the registry under its lower-cased name.
// Registering a name twice is an error.
func Register(m Model) error {
	if !m.Valid() {
		return errors.NewValueError("models.Register", "model is not initialised")
	}
	key := strings.ToLower(m.Name())
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[key]; dup {
		return errors.NewValidationError("name", "model already registered", m.Name())
	}
	registry[key] = m
	return nil
}

// Lookup finds a registered model by name, ignoring case.
func Lookup(name string) (Model, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	m, ok := registry[strings.ToLower(name)]
	if !ok {
		return Model{}, errors.NewValidationError("model", "unknown model", name)
	}
	return m, nil
}

// All returns the registered models sorted by name.
func All() []Model {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]Model, 0, len(registry))
	for _, m := range registry {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Names returns the registered model names, sorted.
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, m := range all {
		names[i] = m.Name()
	}
	return names
}
