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

type requirementKind int

const (
	reqVersionSet requirementKind = iota
	reqRevision
	reqUnversioned
)

// Requirement is a tagged union: a constraint is either a VersionSet, an
// opaque revision identifier, or "unversioned" (a local/editable source
// that is always considered present).
type Requirement struct {
	kind     requirementKind
	set      VersionSet
	revision RevisionID
}

// VersionSetRequirement builds a Requirement from a VersionSet.
func VersionSetRequirement(set VersionSet) Requirement {
	return Requirement{kind: reqVersionSet, set: set}
}

// RevisionRequirement builds a Requirement pinned to an opaque revision id.
func RevisionRequirement(id RevisionID) Requirement {
	return Requirement{kind: reqRevision, revision: id}
}

// UnversionedRequirement builds a Requirement for a local/editable source.
func UnversionedRequirement() Requirement {
	return Requirement{kind: reqUnversioned}
}

// AnyRequirement is the unconstrained version-set requirement, the default
// for a term with no explicit condition.
func AnyRequirement() Requirement { return VersionSetRequirement(AnySet()) }

// ExactRequirement pins a single version.
func ExactRequirement(v Version) Requirement { return VersionSetRequirement(ExactSet(v)) }

// SemverRangeRequirement parses a semver constraint string (e.g. "^1.2.3",
// ">=1.0.0, <2.0.0") via ParseSemverRange and wraps the result as a
// version-set Requirement.
func SemverRangeRequirement(constraint string) (Requirement, error) {
	set, err := ParseSemverRange(constraint)
	if err != nil {
		return Requirement{}, err
	}
	return VersionSetRequirement(set), nil
}

func (r Requirement) String() string {
	switch r.kind {
	case reqVersionSet:
		return r.set.String()
	case reqRevision:
		return fmt.Sprintf("@%s", r.revision)
	case reqUnversioned:
		return "(unversioned)"
	default:
		return "<invalid requirement>"
	}
}

// sameKind reports whether two requirements can be compared/combined at all
// — mismatched kinds (e.g. a version set against a revision) are never
// compatible.
func (r Requirement) sameKind(other Requirement) bool {
	return r.kind == other.kind
}

// AsVersionSet reports the underlying VersionSet, if this is a
// version-set requirement.
func (r Requirement) AsVersionSet() (VersionSet, bool) {
	if r.kind != reqVersionSet {
		return VersionSet{}, false
	}
	return r.set, true
}

// AsRevision reports the underlying revision id, if this is a revision
// requirement.
func (r Requirement) AsRevision() (RevisionID, bool) {
	if r.kind != reqRevision {
		return "", false
	}
	return r.revision, true
}

// IsUnversioned reports whether this is the unversioned requirement.
func (r Requirement) IsUnversioned() bool { return r.kind == reqUnversioned }
