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

import "fmt"

// Term is a predicate on a single package's chosen version: a positive term
// asserts the version lies in Requirement, a negative term asserts it does
// not.
type Term struct {
	Package     PackageID
	Requirement Requirement
	Positive    bool
}

// NewTerm builds a positive term.
func NewTerm(pkg PackageID, req Requirement) Term {
	return Term{Package: pkg, Requirement: req, Positive: true}
}

// NewNegativeTerm builds a negative term.
func NewNegativeTerm(pkg PackageID, req Requirement) Term {
	return Term{Package: pkg, Requirement: req, Positive: false}
}

func (t Term) String() string {
	if t.Positive {
		return fmt.Sprintf("%s %s", t.Package.Value(), t.Requirement)
	}
	return fmt.Sprintf("not %s %s", t.Package.Value(), t.Requirement)
}

// Inverse flips polarity only, leaving the package and requirement alone.
func (t Term) Inverse() Term {
	return Term{Package: t.Package, Requirement: t.Requirement, Positive: !t.Positive}
}

// Equal reports value equality, not implication — unlike Satisfies, which
// is one-directional. Used by conflict resolution to tell whether a
// satisfier's own (inverted) term already coincides with an
// incompatibility's term for that package.
func (t Term) Equal(other Term) bool {
	if t.Package != other.Package || t.Positive != other.Positive {
		return false
	}
	if t.Requirement.kind != other.Requirement.kind {
		return false
	}
	switch t.Requirement.kind {
	case reqRevision:
		return t.Requirement.revision == other.Requirement.revision
	case reqUnversioned:
		return true
	case reqVersionSet:
		return t.Requirement.set.Equals(other.Requirement.set)
	default:
		return false
	}
}

// IsSatisfied reports whether the given concrete version makes a positive
// version-set term hold. This is defined only for positive version-set
// terms; every other shape (negative terms, revisions, unversioned)
// reports false, even though a negative term's "real" truth value could
// be computed — callers that need that should use Satisfies against an
// equivalent term instead.
func (t Term) IsSatisfied(v Version) bool {
	if !t.Positive {
		return false
	}
	set, ok := t.Requirement.AsVersionSet()
	if !ok {
		return false
	}
	return set.Contains(v)
}

// Satisfies reports whether t being true forces other to be true. It
// returns false whenever the two terms name different packages.
func (t Term) Satisfies(other Term) bool {
	if t.Package != other.Package {
		return false
	}

	if !t.Requirement.sameKind(other.Requirement) {
		return false
	}

	same := t.Positive == other.Positive

	switch t.Requirement.kind {
	case reqRevision:
		tr, _ := t.Requirement.AsRevision()
		or, _ := other.Requirement.AsRevision()
		return tr == or
	case reqUnversioned:
		return false
	case reqVersionSet:
		s, _ := t.Requirement.AsVersionSet()
		o, _ := other.Requirement.AsVersionSet()
		return versionSetSatisfies(s, o, same)
	default:
		return false
	}
}

// versionSetSatisfies implements the version-set half of Term.Satisfies.
func versionSetSatisfies(s, o VersionSet, same bool) bool {
	switch {
	case s.kind == vsEmpty || o.kind == vsEmpty:
		return !same
	case s.kind == vsAny || o.kind == vsAny:
		return same
	case s.kind == vsExact && o.kind == vsExact:
		if s.exact.Compare(o.exact) == 0 {
			return same
		}
		return !same
	case s.kind == vsExact:
		contained := o.Contains(s.exact)
		if contained {
			return same
		}
		return !same
	case o.kind == vsExact:
		// The mirror image is not symmetric: knowing the actual version lies
		// somewhere in s never forces it to be the single value o.exact
		// (unless s and o name the same polarity and o's value is the only
		// one s admits, which this algebra never constructs as a range). It
		// can only force the negative — that the version is *not* o.exact —
		// and only when s doesn't contain it at all.
		if same {
			return false
		}
		return !s.Contains(o.exact)
	default: // both ranges
		c := s.Equals(o) || rangeContainsRange(s, o) || rangeContainsRange(o, s)
		return c == same
	}
}

// rangeContainsRange reports whether outer fully covers inner. Both must be
// vsRange sets.
func rangeContainsRange(outer, inner VersionSet) bool {
	if outer.kind != vsRange || inner.kind != vsRange {
		return false
	}
	loOK := outer.lo == nil || (inner.lo != nil && inner.lo.Compare(outer.lo) >= 0)
	hiOK := outer.hi == nil || (inner.hi != nil && inner.hi.Compare(outer.hi) <= 0)
	return loOK && hiOK
}

// Intersect returns the strongest term implied by both t and other, or
// ok=false when no single Term can represent that (different packages,
// non-version-set requirements, or a logically empty/unrepresentable
// result).
func (t Term) Intersect(other Term) (Term, bool) {
	if t.Package != other.Package {
		return Term{}, false
	}
	s, ok1 := t.Requirement.AsVersionSet()
	o, ok2 := other.Requirement.AsVersionSet()
	if !ok1 || !ok2 {
		return Term{}, false
	}

	switch {
	case t.Positive && other.Positive:
		result := s.Intersect(o)
		if result.IsEmpty() {
			return Term{}, false
		}
		return NewTerm(t.Package, VersionSetRequirement(result)), true

	case !t.Positive && !other.Positive:
		if !s.Overlaps(o) {
			return Term{}, false
		}
		return NewNegativeTerm(t.Package, VersionSetRequirement(s.Union(o))), true

	default:
		pos, neg := s, o
		if !t.Positive {
			pos, neg = o, s
		}
		clipped, ok := clipVersionSet(pos, neg)
		if !ok || clipped.IsEmpty() {
			return Term{}, false
		}
		return NewTerm(t.Package, VersionSetRequirement(clipped)), true
	}
}

// Difference is t minus other, i.e. Intersect(t, other.Inverse()).
func (t Term) Difference(other Term) (Term, bool) {
	return t.Intersect(other.Inverse())
}

// clipVersionSet removes neg from pos. Most shapes reduce to a plain
// range; removing a single interior exact point instead tracks it as a
// carve-out on the range (see DESIGN.md) rather than splitting it, since
// this algebra's VersionSet has no way to represent two disjoint ranges.
func clipVersionSet(pos, neg VersionSet) (VersionSet, bool) {
	if neg.IsEmpty() {
		return pos, true
	}
	if neg.IsAny() {
		return EmptySet(), true
	}

	if exact, ok := pos.Exact(); ok {
		if neg.Contains(exact) {
			return EmptySet(), true
		}
		return pos, true
	}

	if pos.kind == vsAny {
		// An unbounded range behaves identically to Any for everything
		// below: RangeSet(nil, nil) would collapse back to Any, so build
		// the range shape directly.
		pos = VersionSet{kind: vsRange}
	}
	if pos.kind != vsRange {
		return VersionSet{}, false
	}

	if negExact, ok := neg.Exact(); ok {
		if !pos.Contains(negExact) {
			return pos, true
		}
		if pos.lo != nil && negExact.Compare(pos.lo) == 0 {
			return RangeSet(successorSentinel{of: negExact}, pos.hi), true
		}
		// An interior point (neither bound) can't be removed by narrowing
		// lo/hi; track it as a carve-out instead of splitting the range.
		return rangeSetExcluding(pos.lo, pos.hi, mergeExcluded(pos.excluded, []Version{negExact})), true
	}

	if neg.kind != vsRange {
		return VersionSet{}, false
	}

	if !pos.Overlaps(neg) {
		return pos, true
	}
	if rangeContainsRange(neg, pos) {
		return EmptySet(), true
	}

	negLoInsidePos := neg.lo != nil && (pos.lo == nil || neg.lo.Compare(pos.lo) > 0) &&
		(pos.hi == nil || neg.lo.Compare(pos.hi) < 0)
	if negLoInsidePos {
		return rangeSetExcluding(pos.lo, neg.lo, pos.excluded), true
	}
	return rangeSetExcluding(neg.hi, pos.hi, pos.excluded), true
}
