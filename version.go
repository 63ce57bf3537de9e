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

	"github.com/Masterminds/semver/v3"
)

// Version is a totally ordered value. The solver never inspects a Version's
// internal structure; it only ever calls Compare, so any scheme with a
// well-defined total order can be plugged in.
type Version interface {
	String() string

	// Compare returns a negative number if this version is less than other,
	// zero if they are equal, and a positive number if this version is
	// greater.
	Compare(other Version) int
}

// SemverVersion adapts a semantic version (github.com/Masterminds/semver/v3)
// to the Version interface. It is the version type most callers want: the
// resolver's preference for "latest matching version first" falls directly
// out of Compare's ordering.
type SemverVersion struct {
	v *semver.Version
}

var _ Version = SemverVersion{}

// ParseSemverVersion parses a semantic version string such as "1.2.3" or
// "v2.0.0-rc.1".
func ParseSemverVersion(s string) (SemverVersion, error) {
	v, err := semver.NewVersion(s)
	if err != nil {
		return SemverVersion{}, fmt.Errorf("parse version %q: %w", s, err)
	}
	return SemverVersion{v: v}, nil
}

// MustParseSemverVersion is ParseSemverVersion for literals known at compile
// time; it panics on a malformed string.
func MustParseSemverVersion(s string) SemverVersion {
	v, err := ParseSemverVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

func (v SemverVersion) String() string {
	if v.v == nil {
		return "<nil>"
	}
	return v.v.String()
}

func (v SemverVersion) Compare(other Version) int {
	if s, ok := other.(successorSentinel); ok {
		return -s.Compare(v)
	}
	o, ok := other.(SemverVersion)
	if !ok || v.v == nil || o.v == nil {
		return stringCompare(v.String(), other.String())
	}
	return v.v.Compare(o.v)
}

func stringCompare(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// RevisionID is an opaque identifier for a non-versioned source pinned to a
// specific revision (e.g. a VCS commit). The solver treats two revision
// requirements as satisfying one another only when their IDs are identical;
// comparing or resolving revisions against an actual repository is outside
// this package's scope.
type RevisionID string
