package pubgrub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func v(s string) SemverVersion { return MustParseSemverVersion(s) }

func rangeReq(t *testing.T, constraint string) Requirement {
	t.Helper()
	req, err := SemverRangeRequirement(constraint)
	require.NoError(t, err)
	return req
}

func TestTermSatisfiesVersionSets(t *testing.T) {
	pkg := NewPackageID("A")

	wide := NewTerm(pkg, rangeReq(t, ">=1.0.0, <2.0.0"))
	narrow := NewTerm(pkg, ExactRequirement(v("1.5.0")))

	assert.True(t, wide.Satisfies(narrow), "a wide positive range does not entail a narrower exact term")
	assert.False(t, narrow.Satisfies(wide), "an exact term must not entail a wider range")
}

func TestTermSatisfiesDifferentPackagesAlwaysFalse(t *testing.T) {
	a := NewTerm(NewPackageID("A"), AnyRequirement())
	b := NewTerm(NewPackageID("B"), AnyRequirement())
	assert.False(t, a.Satisfies(b))
}

func TestTermSatisfiesMixedKindsAlwaysFalse(t *testing.T) {
	pkg := NewPackageID("A")
	versioned := NewTerm(pkg, ExactRequirement(v("1.0.0")))
	revisioned := NewTerm(pkg, RevisionRequirement("deadbeef"))
	assert.False(t, versioned.Satisfies(revisioned))
	assert.False(t, revisioned.Satisfies(versioned))
}

func TestTermIntersectPositivePositive(t *testing.T) {
	pkg := NewPackageID("A")
	lo := NewTerm(pkg, rangeReq(t, ">=1.0.0, <2.0.0"))
	hi := NewTerm(pkg, rangeReq(t, ">=1.5.0, <3.0.0"))

	got, ok := lo.Intersect(hi)
	require.True(t, ok)
	assert.True(t, got.IsSatisfied(v("1.5.0")))
	assert.False(t, got.IsSatisfied(v("1.0.0")))
	assert.False(t, got.IsSatisfied(v("3.0.0")))
}

func TestTermIntersectPositiveNegativeClipsLowerEndpoint(t *testing.T) {
	pkg := NewPackageID("A")
	pos := NewTerm(pkg, rangeReq(t, ">=1.0.0, <2.0.0"))
	neg := NewNegativeTerm(pkg, ExactRequirement(v("1.0.0")))

	got, ok := pos.Intersect(neg)
	require.True(t, ok)
	assert.False(t, got.IsSatisfied(v("1.0.0")))
	assert.True(t, got.IsSatisfied(v("1.0.1")))
}

func TestTermIntersectDisjointPackagesFails(t *testing.T) {
	a := NewTerm(NewPackageID("A"), AnyRequirement())
	b := NewTerm(NewPackageID("B"), AnyRequirement())
	_, ok := a.Intersect(b)
	assert.False(t, ok)
}

func TestTermEqualIgnoresPointerIdentity(t *testing.T) {
	pkg := NewPackageID("A")
	t1 := NewTerm(pkg, ExactRequirement(MustParseSemverVersion("1.0.0")))
	t2 := NewTerm(pkg, ExactRequirement(MustParseSemverVersion("1.0.0")))
	assert.True(t, t1.Equal(t2), "two terms built from distinct *semver.Version instances of the same version must compare equal")
}

func TestTermInverseFlipsPolarityOnly(t *testing.T) {
	pkg := NewPackageID("A")
	term := NewTerm(pkg, ExactRequirement(v("1.0.0")))
	inv := term.Inverse()
	assert.False(t, inv.Positive)
	assert.True(t, inv.Equal(NewNegativeTerm(pkg, ExactRequirement(v("1.0.0")))))
}
