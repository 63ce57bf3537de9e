package pubgrub

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingDelegate records how many fetches started, for asserting the
// cache actually memoizes rather than re-invoking the provider.
type countingDelegate struct {
	starts atomic.Int32
}

func (d *countingDelegate) OnFetchStart(PackageID)       { d.starts.Add(1) }
func (d *countingDelegate) OnFetchDone(PackageID, error) {}

func TestContainerCacheMemoizesSuccessfulFetch(t *testing.T) {
	provider := NewMemoryProvider()
	pkg := NewPackageID("b")
	provider.AddVersion(pkg, v("1.0.0"), nil)

	delegate := &countingDelegate{}
	cache := NewContainerCache(provider, delegate)

	_, err := cache.GetContainer(context.Background(), pkg, false)
	require.NoError(t, err)
	_, err = cache.GetContainer(context.Background(), pkg, false)
	require.NoError(t, err)

	assert.EqualValues(t, 1, delegate.starts.Load(), "a second lookup for the same package must hit the memo, not the provider")
	stats := cache.Stats()
	assert.Equal(t, 1, stats.Hits)
	assert.Equal(t, 1, stats.Misses)
}

func TestContainerCacheMemoizesFetchFailure(t *testing.T) {
	provider := NewMemoryProvider()
	cache := NewContainerCache(provider, nil)
	pkg := NewPackageID("missing")

	_, err1 := cache.GetContainer(context.Background(), pkg, false)
	require.Error(t, err1)
	_, err2 := cache.GetContainer(context.Background(), pkg, false)
	require.Error(t, err2)

	assert.Equal(t, err1, err2)
	stats := cache.Stats()
	assert.Equal(t, 1, stats.Misses)
	assert.Equal(t, 1, stats.Hits)
}

func TestContainerCachePrefetchPopulatesMemoForLaterGet(t *testing.T) {
	provider := NewMemoryProvider()
	b, c := NewPackageID("b"), NewPackageID("c")
	provider.AddVersion(b, v("1.0.0"), nil)
	provider.AddVersion(c, v("1.0.0"), nil)

	cache := NewContainerCache(provider, nil)
	require.NoError(t, cache.Prefetch(context.Background(), []PackageID{b, c}))

	_, err := cache.GetContainer(context.Background(), b, false)
	require.NoError(t, err)
	_, err = cache.GetContainer(context.Background(), c, false)
	require.NoError(t, err)

	stats := cache.Stats()
	assert.Equal(t, 2, stats.Hits, "both lookups after Prefetch should be served from the memo")
	assert.Equal(t, 0, stats.Misses)
}

func TestContainerCachePrefetchSkipsAlreadyMemoizedIDs(t *testing.T) {
	provider := NewMemoryProvider()
	pkg := NewPackageID("b")
	provider.AddVersion(pkg, v("1.0.0"), nil)

	delegate := &countingDelegate{}
	cache := NewContainerCache(provider, delegate)

	_, err := cache.GetContainer(context.Background(), pkg, false)
	require.NoError(t, err)
	require.NoError(t, cache.Prefetch(context.Background(), []PackageID{pkg}))

	assert.EqualValues(t, 1, delegate.starts.Load(), "prefetching an id already in the memo must not re-fetch it")
}

func TestContainerCacheGetContainerReturnsDeclaredVersions(t *testing.T) {
	provider := NewMemoryProvider()
	pkg := NewPackageID("b")
	provider.AddVersion(pkg, v("2.0.0"), nil)
	provider.AddVersion(pkg, v("1.0.0"), nil)

	cache := NewContainerCache(provider, nil)
	container, err := cache.GetContainer(context.Background(), pkg, false)
	require.NoError(t, err)

	var got []string
	for version := range container.Versions() {
		got = append(got, version.String())
	}
	assert.Equal(t, []string{"2.0.0", "1.0.0"}, got, "versions must be newest-first")
}
