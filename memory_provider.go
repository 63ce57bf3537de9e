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

import (
	"context"
	"iter"
	"slices"
)

// memoryContainer is a Container backed by an in-memory slice of versions,
// kept sorted newest-first, and a map from version string to declared
// dependency terms.
type memoryContainer struct {
	pkg      PackageID
	versions []Version
	byKey    map[string][]Term
}

var _ Container = (*memoryContainer)(nil)

func (c *memoryContainer) Versions() iter.Seq[Version] {
	return func(yield func(Version) bool) {
		for _, v := range c.versions {
			if !yield(v) {
				return
			}
		}
	}
}

func (c *memoryContainer) Dependencies(at Version) ([]Term, error) {
	deps, ok := c.byKey[at.String()]
	if !ok {
		return nil, &PackageVersionNotFoundError{Package: c.pkg, Version: at}
	}
	return deps, nil
}

// MemoryProvider is a PackageContainerProvider backed entirely by data
// added in-process via AddVersion — no I/O, useful for tests and for
// embedding known-in-advance dependency graphs.
type MemoryProvider struct {
	packages map[PackageID]*memoryContainer
}

var _ PackageContainerProvider = (*MemoryProvider)(nil)

// NewMemoryProvider returns an empty provider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{packages: make(map[PackageID]*memoryContainer)}
}

// AddVersion registers one version of pkg and the dependency terms it
// declares. Calling it again with the same pkg and a version whose
// String() matches one already added overwrites that version's
// dependencies in place.
func (p *MemoryProvider) AddVersion(pkg PackageID, version Version, deps []Term) {
	c, ok := p.packages[pkg]
	if !ok {
		c = &memoryContainer{pkg: pkg, byKey: make(map[string][]Term)}
		p.packages[pkg] = c
	}
	key := version.String()
	if _, exists := c.byKey[key]; !exists {
		c.versions = append(c.versions, version)
	}
	c.byKey[key] = deps
	slices.SortFunc(c.versions, func(a, b Version) int { return b.Compare(a) })
}

// GetContainer implements PackageContainerProvider. skipUpdate is ignored:
// there is no upstream to refresh from.
func (p *MemoryProvider) GetContainer(_ context.Context, id PackageID, _ bool) (Container, error) {
	c, ok := p.packages[id]
	if !ok {
		return nil, &PackageNotFoundError{Package: id}
	}
	return c, nil
}
