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

// Assignment is a single entry in a PartialSolution: a term recorded as
// true at a given decision level, either by decision (an explicit version
// pick) or derivation (forced by unit propagation over Cause).
//
// IsDecision implies Cause is nil; a derivation always carries the
// incompatibility that forced it.
type Assignment struct {
	Term          Term
	DecisionLevel int
	Cause         *Incompatibility
	IsDecision    bool

	// index orders assignments globally, independent of decision level.
	// EarliestSatisfiers scans the assignment log by position and does not
	// read it.
	index int
}

func (a Assignment) describe() string {
	if a.IsDecision {
		return "decide " + a.Term.String()
	}
	return "derive " + a.Term.String()
}
