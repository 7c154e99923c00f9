// Copyright (c) 2026 John Dewey

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

package rule

import (
	"context"
	"sort"
	"sync"
)

// ensure MemoryStore implements Store at compile time.
var _ Store = (*MemoryStore)(nil)

// MemoryStore implements Store in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	rules []Rule
}

// NewMemoryStore creates a new MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// List returns all rules ordered by rule key.
func (s *MemoryStore) List(
	_ context.Context,
) ([]Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rules := make([]Rule, len(s.rules))
	copy(rules, s.rules)

	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Key < rules[j].Key
	})

	return rules, nil
}

// Update applies a partial update by ID.
func (s *MemoryStore) Update(
	_ context.Context,
	id string,
	patch Patch,
) (*Rule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.rules {
		if s.rules[i].ID != id {
			continue
		}

		if patch.Enabled != nil {
			s.rules[i].Enabled = *patch.Enabled
		}
		if patch.Severity != nil {
			s.rules[i].Severity = *patch.Severity
		}
		if patch.Params != nil {
			s.rules[i].Params = patch.Params
		}

		updated := s.rules[i]

		return &updated, nil
	}

	return nil, ErrNotFound
}

// Seed inserts the given rules when the registry is empty.
func (s *MemoryStore) Seed(
	_ context.Context,
	rules []Rule,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.rules) > 0 {
		return nil
	}

	s.rules = append(s.rules, rules...)

	return nil
}
