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

	"github.com/Masterminds/semver/v3"
)

// ParseSemverRange parses a single AND-group of semver constraint clauses,
// e.g. "^1.2.3", ">=1.0.0, <2.0.0", "~1.4", into the half-open VersionSet
// range algebra, the same constraint syntax search.go's applyConstraint
// feeds to semver.NewConstraint. Unlike semver.NewConstraint, the result is
// a VersionSet rather than an opaque predicate, so it can participate in
// Intersect/Union/Difference. An OR group ("||") has no single-range
// representation and is rejected.
func ParseSemverRange(constraint string) (VersionSet, error) {
	if strings.Contains(constraint, "||") {
		return VersionSet{}, fmt.Errorf("parse semver range %q: OR groups are not representable as a single range", constraint)
	}
	result := AnySet()
	for _, clause := range strings.Split(constraint, ",") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		set, err := parseSemverClause(clause)
		if err != nil {
			return VersionSet{}, err
		}
		result = result.Intersect(set)
	}
	return result, nil
}

// parseSemverClause handles one comparator. Strict bounds (">" and "<=")
// are approximated at the next patch release rather than via an infinitely
// fine-grained successor, since Version only guarantees a total order, not
// a dense one with a well-defined "successor" across prerelease tags.
func parseSemverClause(clause string) (VersionSet, error) {
	switch {
	case strings.HasPrefix(clause, ">="):
		v, err := parseSemverLiteral(clause[2:])
		if err != nil {
			return VersionSet{}, err
		}
		return RangeSet(SemverVersion{v: v}, nil), nil
	case strings.HasPrefix(clause, "<="):
		v, err := parseSemverLiteral(clause[2:])
		if err != nil {
			return VersionSet{}, err
		}
		return RangeSet(nil, SemverVersion{v: bumpPatch(v)}), nil
	case strings.HasPrefix(clause, ">"):
		v, err := parseSemverLiteral(clause[1:])
		if err != nil {
			return VersionSet{}, err
		}
		return RangeSet(SemverVersion{v: bumpPatch(v)}, nil), nil
	case strings.HasPrefix(clause, "<"):
		v, err := parseSemverLiteral(clause[1:])
		if err != nil {
			return VersionSet{}, err
		}
		return RangeSet(nil, SemverVersion{v: v}), nil
	case strings.HasPrefix(clause, "^"):
		return caretRange(clause[1:])
	case strings.HasPrefix(clause, "~"):
		return tildeRange(clause[1:])
	case strings.HasPrefix(clause, "="):
		v, err := parseSemverLiteral(strings.TrimPrefix(clause, "="))
		if err != nil {
			return VersionSet{}, err
		}
		return ExactSet(SemverVersion{v: v}), nil
	default:
		v, err := parseSemverLiteral(clause)
		if err != nil {
			return VersionSet{}, err
		}
		return ExactSet(SemverVersion{v: v}), nil
	}
}

// caretRange implements npm-style caret semantics: the leftmost nonzero
// component is held fixed and everything to its right is free, e.g. ^1.2.3 => [1.2.3, 2.0.0), ^0.2.3 => [0.2.3, 0.3.0),
// ^0.0.3 => [0.0.3, 0.0.4).
func caretRange(vs string) (VersionSet, error) {
	v, err := parseSemverLiteral(vs)
	if err != nil {
		return VersionSet{}, err
	}
	var upper *semver.Version
	switch {
	case v.Major() > 0:
		upper = semver.New(v.Major()+1, 0, 0, "", "")
	case v.Minor() > 0:
		upper = semver.New(0, v.Minor()+1, 0, "", "")
	default:
		upper = semver.New(0, 0, v.Patch()+1, "", "")
	}
	return RangeSet(SemverVersion{v: v}, SemverVersion{v: upper}), nil
}

// tildeRange implements npm-style tilde semantics: the minor version is
// held fixed and the patch component is free, e.g. ~1.2.3 => [1.2.3, 1.3.0).
func tildeRange(vs string) (VersionSet, error) {
	v, err := parseSemverLiteral(vs)
	if err != nil {
		return VersionSet{}, err
	}
	upper := semver.New(v.Major(), v.Minor()+1, 0, "", "")
	return RangeSet(SemverVersion{v: v}, SemverVersion{v: upper}), nil
}

func bumpPatch(v *semver.Version) *semver.Version {
	return semver.New(v.Major(), v.Minor(), v.Patch()+1, "", "")
}

func parseSemverLiteral(s string) (*semver.Version, error) {
	s = strings.TrimSpace(s)
	v, err := semver.NewVersion(s)
	if err != nil {
		return nil, fmt.Errorf("parse semver range literal %q: %w", s, err)
	}
	return v, nil
}
