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

import "unique"

// PackageID identifies a package throughout the solver. It is hashable and
// totally ordered, which is all the solver ever requires of it: the rest of
// the system is written purely in terms of this type rather than against a
// concrete package-naming scheme.
//
// PackageID uses Go's value interning so repeated occurrences of the same
// name compare by pointer rather than by string content.
type PackageID = unique.Handle[string]

// NewPackageID interns s as a PackageID. Equal strings always produce equal
// PackageIDs.
func NewPackageID(s string) PackageID {
	return unique.Make(s)
}

// rootPackageID is the identifier the resolver assigns to the synthetic root
// package whose dependencies are the caller's initial requirements.
var rootPackageID = NewPackageID("$root")

// ComparePackageID gives PackageID a total order over its interned string
// value. Nothing in this package calls it; the error reporter and tests do
// not sort by package.
func ComparePackageID(a, b PackageID) int {
	if a == b {
		return 0
	}
	if a.Value() < b.Value() {
		return -1
	}
	return 1
}
