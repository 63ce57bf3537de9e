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

// CauseKind distinguishes why an Incompatibility exists.
type CauseKind int

const (
	// CauseRoot marks the incompatibility asserting the root package must
	// be selected.
	CauseRoot CauseKind = iota
	// CauseDependency marks an incompatibility derived from a package
	// version's declared dependency.
	CauseDependency
	// CauseNoVersions marks an incompatibility recorded because no
	// available version satisfied a term — a dedicated variant rather than
	// reusing CauseRoot or CauseDependency, so a reporter can phrase it
	// distinctly ("no versions of X satisfy...").
	CauseNoVersions
	// CauseConflict marks an incompatibility derived from two parent
	// incompatibilities during conflict resolution.
	CauseConflict
)

// Cause records an Incompatibility's provenance. Left/Right are set only for
// CauseConflict. A CauseDependency cause does not record the depending
// package itself; that package is the first term of the incompatibility.
type Cause struct {
	Kind  CauseKind
	Left  *Incompatibility
	Right *Incompatibility
}

// IsConflict reports whether this cause is the derived (conflict) variant —
// the only kind formed from two parent incompatibilities.
func (c Cause) IsConflict() bool { return c.Kind == CauseConflict }

// Incompatibility is a set of terms declared to be jointly unsatisfiable.
// Incompatibilities are immutable once constructed and, once added to an
// IncompatibilityStore, are never removed — only the PartialSolution shrinks
// during backtracking.
type Incompatibility struct {
	Terms []Term
	Cause Cause

	// id is a construction-order serial number, distinct per
	// incompatibility. Nothing in this package reads it; the error
	// reporter's ancestor-counting pass keys on the pointer instead.
	id uint64
}

var incompatibilitySeq uint64

func nextIncompatibilityID() uint64 {
	incompatibilitySeq++
	return incompatibilitySeq
}

// NewIncompatibility constructs an incompatibility from a term set. Terms
// that repeat the same package are merged via Term.Intersect where
// possible. An empty term set is legal: it is the terminal "version
// solving has failed" incompatibility conflict resolution derives when two
// single-term clauses about the same package cancel out with nothing left.
func NewIncompatibility(terms []Term, cause Cause) *Incompatibility {
	return &Incompatibility{Terms: normalizeTerms(terms), Cause: cause, id: nextIncompatibilityID()}
}

// normalizeTerms merges terms that refer to the same package, since an
// incompatibility's terms are expected to name distinct packages.
func normalizeTerms(terms []Term) []Term {
	order := make([]PackageID, 0, len(terms))
	merged := make(map[PackageID]Term, len(terms))
	for _, t := range terms {
		if existing, ok := merged[t.Package]; ok {
			if combined, ok := existing.Intersect(t); ok {
				merged[t.Package] = combined
				continue
			}
			merged[t.Package] = t
			continue
		}
		merged[t.Package] = t
		order = append(order, t.Package)
	}
	out := make([]Term, 0, len(order))
	for _, pkg := range order {
		out = append(out, merged[pkg])
	}
	return out
}

// NewRootIncompatibility builds the incompatibility {¬root@any} that pins
// the solver's search to packages reachable from root.
func NewRootIncompatibility(root PackageID) *Incompatibility {
	return NewIncompatibility([]Term{NewNegativeTerm(root, AnyRequirement())}, Cause{Kind: CauseRoot})
}

// NewDependencyIncompatibility builds {pkg@exact(version), ¬dep} for a
// declared dependency edge: "pkg@version depends on dep".
func NewDependencyIncompatibility(pkg PackageID, version Version, dep Term) *Incompatibility {
	terms := []Term{NewTerm(pkg, ExactRequirement(version)), dep.Inverse()}
	return NewIncompatibility(terms, Cause{Kind: CauseDependency})
}

// NewNoVersionsIncompatibility builds the single-term incompatibility
// recorded when no available version satisfies term.
func NewNoVersionsIncompatibility(term Term) *Incompatibility {
	return NewIncompatibility([]Term{term}, Cause{Kind: CauseNoVersions})
}

// NewConflictIncompatibility builds a derived incompatibility learned
// during conflict resolution.
func NewConflictIncompatibility(terms []Term, left, right *Incompatibility) *Incompatibility {
	return NewIncompatibility(terms, Cause{Kind: CauseConflict, Left: left, Right: right})
}

// IsFailure reports whether this incompatibility is the terminal, empty (or
// root-only) clause that conflict resolution cannot resolve any further.
func (inc *Incompatibility) IsFailure() bool {
	if len(inc.Terms) == 0 {
		return true
	}
	if len(inc.Terms) == 1 && inc.Terms[0].Package == rootPackageID {
		return true
	}
	return false
}

// singleLineCause reports whether at least one of a conflict cause's two
// parents is not itself derived from a conflict — used only by the
// reporter's line-shape selection.
func (c Cause) singleLineCause() bool {
	if !c.IsConflict() {
		return false
	}
	return !c.Left.Cause.IsConflict() || !c.Right.Cause.IsConflict()
}

func (inc *Incompatibility) String() string {
	if len(inc.Terms) == 0 {
		return "version solving failed"
	}
	if len(inc.Terms) == 1 {
		return fmt.Sprintf("%s is forbidden", inc.Terms[0])
	}
	parts := make([]string, 0, len(inc.Terms))
	for _, t := range inc.Terms {
		parts = append(parts, t.String())
	}
	return strings.Join(parts, " and ")
}

// termFor returns the term this incompatibility holds for pkg, if any.
func (inc *Incompatibility) termFor(pkg PackageID) (Term, bool) {
	for _, t := range inc.Terms {
		if t.Package == pkg {
			return t, true
		}
	}
	return Term{}, false
}
