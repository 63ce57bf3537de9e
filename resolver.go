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
	"fmt"

	"github.com/sirupsen/logrus"
)

// BoundVersionKind discriminates the three shapes a solved binding can
// take.
type BoundVersionKind int

const (
	BoundVersionVersion BoundVersionKind = iota
	BoundVersionRevision
	BoundVersionUnversioned
)

// BoundVersion is the final binding a successful solve reports for one
// package.
type BoundVersion struct {
	Kind     BoundVersionKind
	Version  Version
	Revision RevisionID
}

func (b BoundVersion) String() string {
	switch b.Kind {
	case BoundVersionVersion:
		return b.Version.String()
	case BoundVersionRevision:
		return "@" + string(b.Revision)
	default:
		return "(unversioned)"
	}
}

// Resolution is the successful result of a solve: a binding for every
// package reachable from the root, root itself excluded.
type Resolution map[PackageID]BoundVersion

// rootVersion is the sole, synthetic version of the internal root package.
// It never reaches a provider or a Container — root's "dependencies" are
// the caller's own requirement terms, registered directly.
type rootVersion struct{}

func (rootVersion) String() string      { return "$root" }
func (rootVersion) Compare(Version) int { return 0 }

var rootSentinelVersion Version = rootVersion{}

// Resolver runs the propagate / resolve-conflict / decide loop over a
// PackageContainerProvider.
type Resolver struct {
	cache *ContainerCache
	opts  ResolverOptions
}

// NewResolver builds a Resolver over provider, reporting fetch activity to
// delegate (nil is fine — it becomes NoopDelegate).
func NewResolver(provider PackageContainerProvider, delegate Delegate, opts ...ResolverOption) *Resolver {
	o := defaultResolverOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return &Resolver{cache: NewContainerCache(provider, delegate), opts: o}
}

// Stats exposes the underlying container cache's hit/miss counters.
func (r *Resolver) Stats() CacheStats { return r.cache.Stats() }

func (r *Resolver) debug(fields logrus.Fields, msg string) {
	if logger := r.opts.logger(); logger != nil {
		logger.WithFields(fields).Debug(msg)
	}
}

// Solve resolves a set of top-level requirement terms against pins: there
// is no single distinguished root package, just a list of requirements an
// internal synthetic root depends on.
func (r *Resolver) Solve(ctx context.Context, requirements []Term, pins map[PackageID]BoundVersion) (Resolution, error) {
	ps := NewPartialSolution()
	store := NewIncompatibilityStore()

	store.Add(NewRootIncompatibility(rootPackageID))
	for _, dep := range applyPins(requirements, pins) {
		store.Add(NewDependencyIncompatibility(rootPackageID, rootSentinelVersion, dep))
	}

	ps.Decide(NewTerm(rootPackageID, ExactRequirement(rootSentinelVersion)))
	r.debug(logrus.Fields{"package": rootPackageID.Value()}, "seeded root")

	changed := []PackageID{rootPackageID}
	steps := 0
	for {
		if r.opts.MaxSteps > 0 && steps >= r.opts.MaxSteps {
			return nil, &StepLimitError{Steps: r.opts.MaxSteps}
		}
		steps++

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		conflict, err := r.propagate(ps, store, changed)
		if err != nil {
			return nil, err
		}
		changed = nil

		if conflict != nil {
			r.debug(logrus.Fields{"step": steps, "conflict": conflict.String()}, "resolving conflict")
			learned, resumePkg, err := r.resolveConflict(ps, store, conflict)
			if err != nil {
				return nil, err
			}
			if learned != conflict {
				store.Add(learned)
			}
			if ps.Satisfies(learned).Kind != SatisfactionAlmost {
				panicInvariant("learned clause %s does not almost-satisfy the partial solution after backtracking", learned)
			}
			changed = []PackageID{resumePkg}
			continue
		}

		nextPkg, done, err := r.makeDecision(ctx, ps, store)
		if err != nil {
			return nil, err
		}
		if done {
			return r.buildResolution(ps)
		}
		changed = []PackageID{nextPkg}
	}
}

// SolveFor resolves the whole tree reachable from a single real top-level
// package: sugar over Solve with a single unconstrained requirement on
// root.
func (r *Resolver) SolveFor(ctx context.Context, root PackageID, pins map[PackageID]BoundVersion) (Resolution, error) {
	return r.Solve(ctx, []Term{NewTerm(root, AnyRequirement())}, pins)
}

func boundToTerm(pkg PackageID, b BoundVersion) Term {
	switch b.Kind {
	case BoundVersionRevision:
		return NewTerm(pkg, RevisionRequirement(b.Revision))
	case BoundVersionUnversioned:
		return NewTerm(pkg, UnversionedRequirement())
	default:
		return NewTerm(pkg, ExactRequirement(b.Version))
	}
}

// applyPins appends a term per pin alongside the caller's own requirements.
// It does not try to merge a pin into an existing requirement for the same
// package itself — both are registered as independent dependency
// incompatibilities on the root, and propagation's own per-package term
// folding (PartialSolution.Positive) does the narrowing; a pin that
// genuinely contradicts an existing root requirement surfaces through
// ordinary conflict resolution rather than a dedicated error path.
func applyPins(requirements []Term, pins map[PackageID]BoundVersion) []Term {
	if len(pins) == 0 {
		return requirements
	}
	out := make([]Term, len(requirements), len(requirements)+len(pins))
	copy(out, requirements)
	for pkg, bound := range pins {
		out = append(out, boundToTerm(pkg, bound))
	}
	return out
}

// propagate drains the changed-package queue, and for each popped package
// checks every incompatibility mentioning it, newest-first.
func (r *Resolver) propagate(ps *PartialSolution, store *IncompatibilityStore, seeds []PackageID) (*Incompatibility, error) {
	queue := append([]PackageID{}, seeds...)
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, inc := range store.ForPackageNewestFirst(p) {
			switch sat := ps.Satisfies(inc); sat.Kind {
			case SatisfactionSatisfied:
				return inc, nil
			case SatisfactionAlmost:
				derived := sat.Term.Inverse()
				if cur, ok := ps.Positive(derived.Package); ok && cur.Satisfies(derived) {
					// Already implied by what's known about this package —
					// a single-term incompatibility like the root clause
					// would otherwise re-derive the same fact forever, since
					// its lone term can never classify as anything but
					// almost-satisfied once the package has any assignment.
					continue
				}
				ps.Derive(derived, inc)
				queue = append(queue, derived.Package)
			}
		}
	}
	return nil, nil
}

// resolveConflict walks the conflict back to a learnable clause, returning
// that clause and the package propagation should resume from.
func (r *Resolver) resolveConflict(ps *PartialSolution, store *IncompatibilityStore, conflict *Incompatibility) (*Incompatibility, PackageID, error) {
	incompatibility := conflict
	for {
		if incompatibility.IsFailure() {
			return nil, PackageID{}, NewUnresolvableError(incompatibility)
		}

		previous, satisfier := ps.EarliestSatisfiers(incompatibility)
		if satisfier == nil {
			panicInvariant("conflict resolution found no satisfier for %s", incompatibility)
		}
		term, ok := incompatibility.termFor(satisfier.Term.Package)
		if !ok {
			panicInvariant("conflict resolution: %s has no term for satisfier package %s", incompatibility, satisfier.Term.Package.Value())
		}

		previousLevel := 1
		if previous != nil {
			previousLevel = previous.DecisionLevel
		}

		if satisfier.IsDecision || previousLevel != satisfier.DecisionLevel {
			ps.Backtrack(previousLevel)
			return incompatibility, term.Package, nil
		}

		incompatibility = resolvent(incompatibility, satisfier, term)
	}
}

// resolvent handles the case where the satisfier and the conflicting
// incompatibility share a decision level: union the current
// incompatibility's terms with its satisfier's cause, drop every term about
// the satisfier's own package, and add the satisfier's own inverted term
// back unless it already equals the incompatibility's term for that
// package (in which case satisfier already fully explains it).
func resolvent(incompatibility *Incompatibility, satisfier *Assignment, term Term) *Incompatibility {
	pkg := satisfier.Term.Package
	order := make([]PackageID, 0, len(incompatibility.Terms)+4)
	merged := make(map[PackageID]Term, len(incompatibility.Terms)+4)
	add := func(t Term) {
		if t.Package == pkg {
			return
		}
		if existing, ok := merged[t.Package]; ok {
			if combined, ok := existing.Intersect(t); ok {
				merged[t.Package] = combined
				return
			}
		}
		if _, ok := merged[t.Package]; !ok {
			order = append(order, t.Package)
		}
		merged[t.Package] = t
	}
	for _, t := range incompatibility.Terms {
		add(t)
	}
	if satisfier.Cause != nil {
		for _, t := range satisfier.Cause.Terms {
			add(t)
		}
	}
	if !satisfier.Term.Satisfies(term) {
		inv := satisfier.Term.Inverse()
		if !inv.Equal(term) {
			add(inv)
		}
	}
	terms := make([]Term, 0, len(order))
	for _, p := range order {
		terms = append(terms, merged[p])
	}
	return NewConflictIncompatibility(terms, incompatibility, satisfier.Cause)
}

// makeDecision picks the next unsatisfied package and tries its
// highest-preference remaining candidate version.
func (r *Resolver) makeDecision(ctx context.Context, ps *PartialSolution, store *IncompatibilityStore) (PackageID, bool, error) {
	for _, candidate := range ps.Unsatisfied() {
		pkg := candidate.Package
		if !ps.IsValidDecision(candidate) {
			continue
		}

		term, ok := ps.VersionIntersection(pkg)
		if !ok {
			panicInvariant("version intersection for %s collapsed to no representable term", pkg.Value())
		}

		if rev, ok := term.Requirement.AsRevision(); ok {
			ps.Decide(NewTerm(pkg, RevisionRequirement(rev)))
			r.debug(logrus.Fields{"package": pkg.Value(), "revision": rev}, "decided revision")
			return pkg, false, nil
		}
		if term.Requirement.IsUnversioned() {
			ps.Decide(NewTerm(pkg, UnversionedRequirement()))
			r.debug(logrus.Fields{"package": pkg.Value()}, "decided unversioned")
			return pkg, false, nil
		}

		set, ok := term.Requirement.AsVersionSet()
		if !ok {
			panicInvariant("version intersection for %s is not a version-set requirement", pkg.Value())
		}

		versions, err := r.matchingVersions(ctx, pkg, set)
		if err != nil {
			return PackageID{}, false, err
		}
		if len(versions) == 0 {
			store.Add(NewNoVersionsIncompatibility(term))
			// Return straight to propagate instead of trying the next
			// candidate: propagate is what turns this clause into a
			// conflict against pkg's own current term. Falling through
			// to another candidate here risks reporting done=true with
			// pkg never decided, silently dropping it from the result.
			return pkg, false, nil
		}

		chosen := versions[0]
		deps, err := r.dependenciesFor(ctx, pkg, chosen)
		if err != nil {
			return PackageID{}, false, err
		}
		for _, dep := range deps {
			store.Add(NewDependencyIncompatibility(pkg, chosen, dep))
		}

		ps.Decide(NewTerm(pkg, ExactRequirement(chosen)))
		r.debug(logrus.Fields{
			"package":        pkg.Value(),
			"version":        chosen.String(),
			"decision_level": ps.DecisionLevel(),
		}, "decided version")
		return pkg, false, nil
	}
	return PackageID{}, true, nil
}

func (r *Resolver) matchingVersions(ctx context.Context, pkg PackageID, set VersionSet) ([]Version, error) {
	container, err := r.cache.GetContainer(ctx, pkg, false)
	if err != nil {
		return nil, err
	}
	var matches []Version
	for v := range container.Versions() {
		if set.Contains(v) {
			matches = append(matches, v)
		}
	}
	return r.opts.Preference(matches), nil
}

func (r *Resolver) dependenciesFor(ctx context.Context, pkg PackageID, v Version) ([]Term, error) {
	container, err := r.cache.GetContainer(ctx, pkg, false)
	if err != nil {
		return nil, err
	}
	return container.Dependencies(v)
}

// buildResolution maps decided terms to bindings:
// versionSet(exact v) -> version(v); revision(r) -> revision(r);
// unversioned | versionSet(any) -> unversioned. A decided range or empty
// version set is a solved-state invariant violation.
func (r *Resolver) buildResolution(ps *PartialSolution) (Resolution, error) {
	out := make(Resolution)
	for pkg, term := range ps.BuildSolution() {
		if pkg == rootPackageID {
			continue
		}
		if rev, ok := term.Requirement.AsRevision(); ok {
			out[pkg] = BoundVersion{Kind: BoundVersionRevision, Revision: rev}
			continue
		}
		if term.Requirement.IsUnversioned() {
			out[pkg] = BoundVersion{Kind: BoundVersionUnversioned}
			continue
		}
		set, ok := term.Requirement.AsVersionSet()
		if !ok {
			panicInvariant("solved state for %s has an invalid requirement kind", pkg.Value())
		}
		switch {
		case set.IsAny():
			out[pkg] = BoundVersion{Kind: BoundVersionUnversioned}
		case set.kind == vsExact:
			v, _ := set.Exact()
			out[pkg] = BoundVersion{Kind: BoundVersionVersion, Version: v}
		default:
			panicInvariant("solved state for %s carries a %s version set", pkg.Value(), versionSetKindName(set.kind))
		}
	}
	return out, nil
}

func versionSetKindName(k versionSetKind) string {
	switch k {
	case vsEmpty:
		return "empty"
	case vsRange:
		return "range"
	default:
		return fmt.Sprintf("kind(%d)", k)
	}
}
