// Package model provides fit state and fit records shared by curve models.
package model

import (
	"sync"

	"github.com/YuminosukeSato/curvefit/pkg/errors"
)

// StateManager manages the fitted state of a curve in a thread-safe manner.
type StateManager struct {
	Fitted bool
	mu     sync.RWMutex

	// NSamples is the number of rows handed to the solver.
	NSamples int
	// NDropped is the number of rows removed as non-finite.
	NDropped int
}

// NewStateManager creates a new StateManager instance.
func NewStateManager() *StateManager {
	return &StateManager{}
}

// IsFitted returns whether the curve has been fitted.
func (s *StateManager) IsFitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Fitted
}

// SetFitted marks the curve as fitted with the given sample counts.
func (s *StateManager) SetFitted(nSamples, nDropped int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Fitted = true
	s.NSamples = nSamples
	s.NDropped = nDropped
}

// Reset resets the fitted state.
func (s *StateManager) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Fitted = false
	s.NSamples = 0
	s.NDropped = 0
}

// GetDimensions returns the sample counts seen during fitting.
func (s *StateManager) GetDimensions() (nSamples, nDropped int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.NSamples, s.NDropped
}

// RequireFitted returns a NotFittedError naming name and method if the curve
// has not been fitted.
func (s *StateManager) RequireFitted(name, method string) error {
	if !s.IsFitted() {
		return errors.NewNotFittedError(name, method)
	}
	return nil
}
