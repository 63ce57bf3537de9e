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
	"sync"

	"golang.org/x/sync/errgroup"
)

// prefetchConcurrency bounds how many background fetches Prefetch runs at
// once; the provider contract says nothing about its own concurrency
// safety beyond being callable from multiple goroutines.
const prefetchConcurrency = 8

type containerResult struct {
	container Container
	err       error
}

// CacheStats reports ContainerCache hit/miss counters, useful for an
// embedder's own observability even though nothing in the solver consults
// them.
type CacheStats struct {
	Hits   int
	Misses int
}

// ContainerCache serialises metadata loads behind a single mutex. It
// memoises both successes and failures so a repeated request for the
// same package never re-invokes the provider.
type ContainerCache struct {
	provider PackageContainerProvider
	delegate Delegate

	mu          sync.Mutex
	cond        *sync.Cond
	memo        map[PackageID]containerResult
	prefetching map[PackageID]bool
	stats       CacheStats
}

// NewContainerCache wraps provider with the resolver's mandated cache
// discipline. A nil delegate is replaced with NoopDelegate.
func NewContainerCache(provider PackageContainerProvider, delegate Delegate) *ContainerCache {
	if delegate == nil {
		delegate = NoopDelegate{}
	}
	cc := &ContainerCache{
		provider:    provider,
		delegate:    delegate,
		memo:        make(map[PackageID]containerResult),
		prefetching: make(map[PackageID]bool),
	}
	cc.cond = sync.NewCond(&cc.mu)
	return cc
}

// GetContainer checks the memo, waits out any in-flight prefetch of the
// same id, then fetches synchronously — holding the lock across the
// provider call, which serialises unrelated cache clients behind a slow
// fetch in exchange for a much simpler locking contract.
func (cc *ContainerCache) GetContainer(ctx context.Context, id PackageID, skipUpdate bool) (Container, error) {
	cc.mu.Lock()
	for {
		if res, ok := cc.memo[id]; ok {
			cc.stats.Hits++
			cc.mu.Unlock()
			return res.container, res.err
		}
		if cc.prefetching[id] {
			cc.cond.Wait()
			continue
		}
		break
	}
	cc.stats.Misses++
	container, err := cc.fetchLocked(ctx, id, skipUpdate)
	cc.memo[id] = containerResult{container: container, err: err}
	cc.mu.Unlock()
	return container, err
}

// fetchLocked invokes the provider while cc.mu is held by the caller —
// named to make that precondition visible at every call site.
func (cc *ContainerCache) fetchLocked(ctx context.Context, id PackageID, skipUpdate bool) (Container, error) {
	cc.delegate.OnFetchStart(id)
	container, err := cc.provider.GetContainer(ctx, id, skipUpdate)
	err = wrapContainerFetch(id, err)
	cc.delegate.OnFetchDone(id, err)
	return container, err
}

// Prefetch fans a batch of background loads out across goroutines bounded
// by prefetchConcurrency, using the cache's own prefetching set for
// de-duplication — a synchronous GetContainer for an id already being
// prefetched waits on the condition variable instead of double-fetching.
// Individual fetch errors are memoised, matching GetContainer, rather than
// failing the whole batch; no goroutine returns an error, so Prefetch itself
// always returns nil. A cancelled ctx reaches the provider through each
// fetch, and the provider's resulting error is memoised like any other.
func (cc *ContainerCache) Prefetch(ctx context.Context, ids []PackageID) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(prefetchConcurrency)

	for _, id := range ids {
		cc.mu.Lock()
		_, memoized := cc.memo[id]
		alreadyPrefetching := cc.prefetching[id]
		if !memoized && !alreadyPrefetching {
			cc.prefetching[id] = true
		}
		cc.mu.Unlock()
		if memoized || alreadyPrefetching {
			continue
		}

		id := id
		g.Go(func() error {
			container, err := cc.fetchUnlocked(gctx, id)
			cc.mu.Lock()
			cc.memo[id] = containerResult{container: container, err: err}
			delete(cc.prefetching, id)
			cc.cond.Broadcast()
			cc.mu.Unlock()
			return nil
		})
	}
	return g.Wait()
}

func (cc *ContainerCache) fetchUnlocked(ctx context.Context, id PackageID) (Container, error) {
	cc.delegate.OnFetchStart(id)
	container, err := cc.provider.GetContainer(ctx, id, false)
	err = wrapContainerFetch(id, err)
	cc.delegate.OnFetchDone(id, err)
	return container, err
}

// Stats returns a snapshot of the cache's hit/miss counters.
func (cc *ContainerCache) Stats() CacheStats {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.stats
}
