// Package memory is an in-memory SummaryWriter for tests and local runs
// without Google credentials.
package memory

import (
	"context"
	"fmt"
	"sync"

	"coown/internal/core"
)

type Export struct {
	ItemTitle string
	Summary   core.FinanceSummary
}

type Store struct {
	mu      sync.Mutex
	exports []Export
}

func New() *Store {
	return &Store{}
}

// WriteSummary stores the summary and returns a synthetic row reference.
func (s *Store) WriteSummary(_ context.Context, itemTitle string, summary core.FinanceSummary) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exports = append(s.exports, Export{ItemTitle: itemTitle, Summary: summary})
	return fmt.Sprintf("mem:%d", len(s.exports)), nil
}

// Exports returns a copy of everything written so far.
func (s *Store) Exports() []Export {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Export(nil), s.exports...)
}
