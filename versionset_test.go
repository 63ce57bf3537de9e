package pubgrub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRange(t *testing.T, constraint string) VersionSet {
	t.Helper()
	set, err := ParseSemverRange(constraint)
	require.NoError(t, err)
	return set
}

func TestVersionSetContains(t *testing.T) {
	r := mustRange(t, ">=1.0.0, <2.0.0")
	assert.True(t, r.Contains(v("1.0.0")))
	assert.True(t, r.Contains(v("1.9.9")))
	assert.False(t, r.Contains(v("2.0.0")))
	assert.False(t, r.Contains(v("0.9.0")))
}

func TestVersionSetIntersectEmptyAbsorbs(t *testing.T) {
	r := mustRange(t, ">=1.0.0, <2.0.0")
	assert.True(t, r.Intersect(EmptySet()).IsEmpty())
	assert.True(t, EmptySet().Intersect(r).IsEmpty())
}

func TestVersionSetIntersectAnyIsIdentity(t *testing.T) {
	r := mustRange(t, ">=1.0.0, <2.0.0")
	assert.True(t, r.Intersect(AnySet()).Equals(r))
}

func TestVersionSetIntersectDisjointRangesIsEmpty(t *testing.T) {
	lo := mustRange(t, ">=1.0.0, <2.0.0")
	hi := mustRange(t, ">=3.0.0, <4.0.0")
	assert.True(t, lo.Intersect(hi).IsEmpty())
}

func TestVersionSetIntersectOverlappingRanges(t *testing.T) {
	lo := mustRange(t, ">=1.0.0, <2.0.0")
	hi := mustRange(t, ">=1.5.0, <3.0.0")
	got := lo.Intersect(hi)
	assert.True(t, got.Contains(v("1.5.0")))
	assert.False(t, got.Contains(v("1.0.0")))
	assert.False(t, got.Contains(v("3.0.0")))
}

func TestVersionSetUnionOfExactsWidensIntoRange(t *testing.T) {
	a := ExactSet(v("1.0.0"))
	b := ExactSet(v("1.0.1"))
	got := a.Union(b)
	assert.True(t, got.Contains(v("1.0.0")))
	assert.True(t, got.Contains(v("1.0.1")))
}

func TestVersionSetEqualsIgnoresPointerIdentity(t *testing.T) {
	a := ExactSet(MustParseSemverVersion("1.0.0"))
	b := ExactSet(MustParseSemverVersion("1.0.0"))
	assert.True(t, a.Equals(b))
}

func TestParseSemverRangeCaret(t *testing.T) {
	got := mustRange(t, "^1.2.3")
	assert.True(t, got.Contains(v("1.2.3")))
	assert.True(t, got.Contains(v("1.9.9")))
	assert.False(t, got.Contains(v("2.0.0")))
	assert.False(t, got.Contains(v("1.2.2")))
}

func TestParseSemverRangeCaretZeroMajor(t *testing.T) {
	got := mustRange(t, "^0.2.3")
	assert.True(t, got.Contains(v("0.2.3")))
	assert.False(t, got.Contains(v("0.3.0")))
}

func TestParseSemverRangeTilde(t *testing.T) {
	got := mustRange(t, "~1.2.3")
	assert.True(t, got.Contains(v("1.2.3")))
	assert.True(t, got.Contains(v("1.2.9")))
	assert.False(t, got.Contains(v("1.3.0")))
}

func TestParseSemverRangeRejectsOrGroups(t *testing.T) {
	_, err := ParseSemverRange("^1.0.0 || ^2.0.0")
	assert.Error(t, err)
}
