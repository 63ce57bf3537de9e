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

// Package pubgrub implements the PubGrub version-solving algorithm: given a
// root package and a provider of package metadata, it computes a single
// concrete version for every transitively required package, or explains why
// no such assignment exists.
//
// The algorithm is a conflict-driven, backtracking search over boolean
// "incompatibilities" (sets of terms that cannot all hold at once). Unit
// propagation derives forced assignments; when an incompatibility becomes
// fully satisfied, conflict resolution learns a new, more general
// incompatibility and backtracks past the offending decision. The process
// terminates either with every package decided, or with a terminal
// incompatibility that [Reporter] turns into a human-readable explanation.
//
// Package metadata is fetched through [PackageContainerProvider], the only
// collaborator this package calls into; everything else — manifest parsing,
// registry or git I/O, workspace layout, CLI flags — is left to the caller.
package pubgrub
