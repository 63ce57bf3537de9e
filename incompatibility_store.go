// Copyright 2024 The University of Queensland
// Copyright 2025 Contriboss
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pubgrub

// IncompatibilityStore indexes incompatibilities by the packages they
// mention. It is append-only: an incompatibility, once added, is never
// removed, even across backtracking — only the PartialSolution shrinks.
type IncompatibilityStore struct {
	byPackage map[PackageID][]*Incompatibility
	all       []*Incompatibility
}

// NewIncompatibilityStore creates an empty store.
func NewIncompatibilityStore() *IncompatibilityStore {
	return &IncompatibilityStore{byPackage: make(map[PackageID][]*Incompatibility)}
}

// Add records inc, indexing it under every package it mentions.
func (s *IncompatibilityStore) Add(inc *Incompatibility) {
	s.all = append(s.all, inc)
	for _, t := range inc.Terms {
		s.byPackage[t.Package] = append(s.byPackage[t.Package], inc)
	}
}

// ForPackage returns every incompatibility mentioning pkg, in insertion
// order (oldest first).
func (s *IncompatibilityStore) ForPackage(pkg PackageID) []*Incompatibility {
	return s.byPackage[pkg]
}

// ForPackageNewestFirst returns the same list as ForPackage but reversed,
// since the resolver loop checks learned (conflict-derived) clauses before
// older ones — they tend to be more general and prune the search faster.
func (s *IncompatibilityStore) ForPackageNewestFirst(pkg PackageID) []*Incompatibility {
	src := s.byPackage[pkg]
	out := make([]*Incompatibility, len(src))
	for i, inc := range src {
		out[len(src)-1-i] = inc
	}
	return out
}

// All returns every incompatibility ever learned, in insertion order.
func (s *IncompatibilityStore) All() []*Incompatibility {
	return s.all
}
