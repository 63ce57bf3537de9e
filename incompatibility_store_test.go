package pubgrub

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIncompatibilityStoreIndexesByEveryMentionedPackage(t *testing.T) {
	app, b, c := NewPackageID("app"), NewPackageID("b"), NewPackageID("c")
	store := NewIncompatibilityStore()

	depB := NewDependencyIncompatibility(app, v("1.0.0"), NewTerm(b, AnyRequirement()))
	depC := NewDependencyIncompatibility(app, v("1.0.0"), NewTerm(c, AnyRequirement()))
	store.Add(depB)
	store.Add(depC)

	assert.Equal(t, []*Incompatibility{depB, depC}, store.ForPackage(app))
	assert.Equal(t, []*Incompatibility{depB}, store.ForPackage(b))
	assert.Equal(t, []*Incompatibility{depC}, store.ForPackage(c))
	assert.Len(t, store.All(), 2)
}

func TestIncompatibilityStoreNewestFirstReversesInsertionOrder(t *testing.T) {
	app := NewPackageID("app")
	store := NewIncompatibilityStore()

	first := NewNoVersionsIncompatibility(NewTerm(app, rangeReq(t, "^1.0.0")))
	second := NewNoVersionsIncompatibility(NewTerm(app, rangeReq(t, "^2.0.0")))
	store.Add(first)
	store.Add(second)

	assert.Equal(t, []*Incompatibility{first, second}, store.ForPackage(app))
	assert.Equal(t, []*Incompatibility{second, first}, store.ForPackageNewestFirst(app))
}

func TestIncompatibilityStoreForUnknownPackageIsEmpty(t *testing.T) {
	store := NewIncompatibilityStore()
	assert.Empty(t, store.ForPackage(NewPackageID("ghost")))
	assert.Empty(t, store.ForPackageNewestFirst(NewPackageID("ghost")))
}
