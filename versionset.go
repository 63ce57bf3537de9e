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
	"fmt"
	"strings"
)

type versionSetKind int

const (
	vsEmpty versionSetKind = iota
	vsAny
	vsExact
	vsRange
)

// VersionSet is a closed algebra of constraint shapes: empty, any, an
// exact version, or a half-open range [lo, hi) with zero or more specific
// versions carved out of its interior. A nil Version on either end of a
// range means "unbounded" in that direction.
//
// VersionSet is an immutable value; every operation returns a new value.
type VersionSet struct {
	kind     versionSetKind
	exact    Version
	lo       Version
	hi       Version
	excluded []Version // only meaningful for vsRange; always within [lo, hi)
}

// EmptySet returns the version set that contains nothing.
func EmptySet() VersionSet { return VersionSet{kind: vsEmpty} }

// AnySet returns the version set that contains every version.
func AnySet() VersionSet { return VersionSet{kind: vsAny} }

// ExactSet returns the version set containing exactly v.
func ExactSet(v Version) VersionSet { return VersionSet{kind: vsExact, exact: v} }

// RangeSet returns the half-open version set [lo, hi). Either bound may be
// nil to mean unbounded; a set with both bounds nil normalizes to AnySet.
func RangeSet(lo, hi Version) VersionSet {
	if lo == nil && hi == nil {
		return AnySet()
	}
	if lo != nil && hi != nil && lo.Compare(hi) >= 0 {
		return EmptySet()
	}
	return VersionSet{kind: vsRange, lo: lo, hi: hi}
}

// rangeSetExcluding builds [lo, hi) with the given interior versions carved
// out. Exclusions outside the bounds are dropped as redundant; an
// exclusion landing exactly on lo is kept in the exclusion list like any
// other point, and the lower bound is not moved.
func rangeSetExcluding(lo, hi Version, excluded []Version) VersionSet {
	base := RangeSet(lo, hi)
	if base.kind != vsRange || len(excluded) == 0 {
		return base
	}
	var kept []Version
	for _, v := range excluded {
		if base.Contains(v) {
			kept = appendVersionSet(kept, v)
		}
	}
	if len(kept) == 0 {
		return base
	}
	base.excluded = kept
	return base
}

// appendVersionSet appends v to vs if it isn't already present.
func appendVersionSet(vs []Version, v Version) []Version {
	for _, e := range vs {
		if e.Compare(v) == 0 {
			return vs
		}
	}
	return append(vs, v)
}

func mergeExcluded(lists ...[]Version) []Version {
	var out []Version
	for _, list := range lists {
		for _, v := range list {
			out = appendVersionSet(out, v)
		}
	}
	return out
}

func (s VersionSet) IsEmpty() bool { return s.kind == vsEmpty }
func (s VersionSet) IsAny() bool   { return s.kind == vsAny }

// Bounds reports the half-open bounds of a range set. ok is false for any
// other kind.
func (s VersionSet) Bounds() (lo, hi Version, ok bool) {
	if s.kind != vsRange {
		return nil, nil, false
	}
	return s.lo, s.hi, true
}

// Exact reports the pinned version of an exact set. ok is false for any
// other kind.
func (s VersionSet) Exact() (v Version, ok bool) {
	if s.kind != vsExact {
		return nil, false
	}
	return s.exact, true
}

// Contains reports whether v lies in the set.
func (s VersionSet) Contains(v Version) bool {
	switch s.kind {
	case vsEmpty:
		return false
	case vsAny:
		return true
	case vsExact:
		return v.Compare(s.exact) == 0
	case vsRange:
		if s.lo != nil && v.Compare(s.lo) < 0 {
			return false
		}
		if s.hi != nil && v.Compare(s.hi) >= 0 {
			return false
		}
		for _, e := range s.excluded {
			if v.Compare(e) == 0 {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Overlaps reports whether the two sets share at least one version.
func (s VersionSet) Overlaps(other VersionSet) bool {
	return !s.Intersect(other).IsEmpty()
}

// Intersect computes the set-theoretic intersection. This is a total
// function over the closed algebra: the only failure mode elsewhere
// (Term.Intersect returning no Term) is a property of polarity and package
// identity, not of this operation.
func (s VersionSet) Intersect(other VersionSet) VersionSet {
	if s.kind == vsEmpty || other.kind == vsEmpty {
		return EmptySet()
	}
	if s.kind == vsAny {
		return other
	}
	if other.kind == vsAny {
		return s
	}
	if s.kind == vsExact {
		if other.Contains(s.exact) {
			return ExactSet(s.exact)
		}
		return EmptySet()
	}
	if other.kind == vsExact {
		return other.Intersect(s)
	}
	// both ranges
	newLo := maxLowerBound(s.lo, other.lo)
	newHi := minUpperBound(s.hi, other.hi)
	return rangeSetExcluding(newLo, newHi, mergeExcluded(s.excluded, other.excluded))
}

// Union returns the smallest single range covering both sets. It is only
// exact when the two sets actually overlap (or touch); callers that need to
// know whether the result is faithful should check Overlaps first — two
// disjoint ranges cannot be combined into a single range term without
// widening past what they actually cover.
func (s VersionSet) Union(other VersionSet) VersionSet {
	if s.kind == vsEmpty {
		return other
	}
	if other.kind == vsEmpty {
		return s
	}
	if s.kind == vsAny || other.kind == vsAny {
		return AnySet()
	}
	sLo, sHi := s.rangeBounds()
	oLo, oHi := other.rangeBounds()
	return RangeSet(minLowerBound(sLo, oLo), maxUpperBound(sHi, oHi))
}

// rangeBounds widens an exact set to a degenerate range for union purposes.
func (s VersionSet) rangeBounds() (lo, hi Version) {
	switch s.kind {
	case vsRange:
		return s.lo, s.hi
	case vsExact:
		return s.exact, successorSentinel{of: s.exact}
	default:
		return nil, nil
	}
}

// successorSentinel represents "just above v" as an upper bound without
// requiring the underlying Version type to support successors. It appears
// as the synthetic hi bound rangeBounds produces for an exact set, and as
// the lo bound clipVersionSet produces when it removes a range's own lower
// endpoint. It compares strictly greater than v and anything less than v,
// and less than anything greater than v.
type successorSentinel struct{ of Version }

func (s successorSentinel) String() string  { return fmt.Sprintf("succ(%s)", s.of) }
func (s successorSentinel) Compare(o Version) int {
	if other, ok := o.(successorSentinel); ok {
		return s.of.Compare(other.of)
	}
	cmp := s.of.Compare(o)
	if cmp == 0 {
		return 1
	}
	return cmp
}

func maxLowerBound(a, b Version) Version {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if a.Compare(b) >= 0 {
		return a
	}
	return b
}

func minLowerBound(a, b Version) Version {
	if a == nil || b == nil {
		return nil
	}
	if a.Compare(b) <= 0 {
		return a
	}
	return b
}

func minUpperBound(a, b Version) Version {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if a.Compare(b) <= 0 {
		return a
	}
	return b
}

func maxUpperBound(a, b Version) Version {
	if a == nil || b == nil {
		return nil
	}
	if a.Compare(b) >= 0 {
		return a
	}
	return b
}

// Equals reports whether the two sets contain exactly the same versions.
func (s VersionSet) Equals(other VersionSet) bool {
	if s.kind != other.kind {
		// Ranges and exacts can still coincide in degenerate cases, but the
		// solver never constructs those, so a kind mismatch is sufficient.
		return false
	}
	switch s.kind {
	case vsEmpty, vsAny:
		return true
	case vsExact:
		return s.exact.Compare(other.exact) == 0
	case vsRange:
		return boundsEqual(s.lo, other.lo) && boundsEqual(s.hi, other.hi) && excludedSetsEqual(s.excluded, other.excluded)
	default:
		return false
	}
}

// excludedSetsEqual compares two exclusion lists as sets, order-independent.
func excludedSetsEqual(a, b []Version) bool {
	if len(a) != len(b) {
		return false
	}
	for _, v := range a {
		found := false
		for _, o := range b {
			if v.Compare(o) == 0 {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func boundsEqual(a, b Version) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Compare(b) == 0
}

func (s VersionSet) String() string {
	switch s.kind {
	case vsEmpty:
		return "<empty>"
	case vsAny:
		return "*"
	case vsExact:
		return fmt.Sprintf("== %s", s.exact)
	case vsRange:
		lo, hi := "-inf", "+inf"
		if s.lo != nil {
			lo = s.lo.String()
		}
		if s.hi != nil {
			hi = s.hi.String()
		}
		if len(s.excluded) == 0 {
			return fmt.Sprintf(">=%s, <%s", lo, hi)
		}
		excl := make([]string, len(s.excluded))
		for i, e := range s.excluded {
			excl[i] = e.String()
		}
		return fmt.Sprintf(">=%s, <%s, !=%s", lo, hi, strings.Join(excl, ",!="))
	default:
		return "<invalid>"
	}
}
