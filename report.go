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

// Reporter renders a terminal incompatibility's derivation graph into a
// human-readable explanation. Reporting is presentation-only: it must never
// mutate solver state, and every implementation here only ever reads Terms
// and Cause.
type Reporter interface {
	Report(terminal *Incompatibility) string
}

// countAncestors walks the derivation DAG from terminal, counting how many
// times each incompatibility is reached — once per call site, including
// repeats through shared subderivations (diamonds). Recursion stops the
// first time a node is revisited, per DESIGN NOTES' "memoise ids per node
// to avoid exponential hashing".
func countAncestors(terminal *Incompatibility) map[*Incompatibility]int {
	counts := make(map[*Incompatibility]int)
	visited := make(map[*Incompatibility]bool)
	var walk func(n *Incompatibility)
	walk = func(n *Incompatibility) {
		counts[n]++
		if visited[n] {
			return
		}
		visited[n] = true
		if n.Cause.IsConflict() {
			walk(n.Cause.Left)
			walk(n.Cause.Right)
		}
	}
	walk(terminal)
	return counts
}

// reportState is the mutable scratchpad TreeReporter.Report threads through
// its recursive descent: a line log, plus which nodes have already been
// explained and which have been assigned a stable reference number.
type reportState struct {
	counts    map[*Incompatibility]int
	explained map[*Incompatibility]bool
	numbers   map[*Incompatibility]int
	lineIndex map[*Incompatibility]int
	lines     []string
	lineSeq   int
}

// ref renders the text a parent sentence uses to mention n: its own
// conclusion, suffixed with "(k)" once n has been assigned a line number.
func (st *reportState) ref(n *Incompatibility) string {
	if num, ok := st.numbers[n]; ok {
		return fmt.Sprintf("%s (%d)", n.String(), num)
	}
	return n.String()
}

// finish records n's own concluding line. Nodes whose ancestor count
// exceeds 1 get a number prefixed onto their own line, since some later
// sentence will need to refer back to them.
func (st *reportState) finish(n *Incompatibility, text string) {
	if st.counts[n] > 1 {
		st.lineSeq++
		st.numbers[n] = st.lineSeq
		text = fmt.Sprintf("(%d) %s", st.lineSeq, text)
	}
	st.lineIndex[n] = len(st.lines)
	st.lines = append(st.lines, text)
}

// forceNumber assigns n a line number even though its ancestor count alone
// wouldn't warrant one, retroactively prefixing its already-emitted line —
// used only when a later sentence needs to refer forward to both halves of
// an otherwise-unnumbered pair.
func (st *reportState) forceNumber(n *Incompatibility) int {
	if num, ok := st.numbers[n]; ok {
		return num
	}
	st.lineSeq++
	num := st.lineSeq
	st.numbers[n] = num
	if idx, ok := st.lineIndex[n]; ok {
		st.lines[idx] = fmt.Sprintf("(%d) %s", num, st.lines[idx])
	}
	return num
}

// explain renders the four conflict shapes a cause DAG can take. Non-conflict
// nodes (root, dependency, no-versions causes) need no explanation of
// their own — they're leaves, described inline by ref/String wherever a
// parent mentions them.
func (st *reportState) explain(n *Incompatibility) {
	if st.explained[n] {
		return
	}
	st.explained[n] = true
	if !n.Cause.IsConflict() {
		return
	}

	lhs, rhs := n.Cause.Left, n.Cause.Right
	st.explain(lhs)
	st.explain(rhs)

	lhsIsConflict := lhs.Cause.IsConflict()
	rhsIsConflict := rhs.Cause.IsConflict()
	result := n.String()

	var text string
	switch {
	case lhsIsConflict && rhsIsConflict:
		_, lhsHasNum := st.numbers[lhs]
		_, rhsHasNum := st.numbers[rhs]
		switch {
		case lhsHasNum && rhsHasNum:
			text = fmt.Sprintf("Because %s and %s, %s.", st.ref(lhs), st.ref(rhs), result)
		case lhsHasNum || rhsHasNum:
			numbered := lhs
			if rhsHasNum {
				numbered = rhs
			}
			text = fmt.Sprintf("And because %s, %s.", st.ref(numbered), result)
		default:
			if lhs.Cause.singleLineCause() || rhs.Cause.singleLineCause() {
				text = fmt.Sprintf("Thus, %s.", result)
			} else {
				st.forceNumber(lhs)
				st.forceNumber(rhs)
				st.lines = append(st.lines, "")
				text = fmt.Sprintf("Because %s and %s, %s.", st.ref(lhs), st.ref(rhs), result)
			}
		}

	case lhsIsConflict != rhsIsConflict:
		conflictSide, otherSide := lhs, rhs
		if rhsIsConflict {
			conflictSide, otherSide = rhs, lhs
		}
		if _, ok := st.numbers[conflictSide]; ok {
			text = fmt.Sprintf("Because %s and %s, %s.", st.ref(conflictSide), otherSide.String(), result)
		} else {
			text = fmt.Sprintf("And because %s and %s, %s.", conflictSide.String(), otherSide.String(), result)
		}

	default:
		text = fmt.Sprintf("Because %s and %s, %s.", lhs.String(), rhs.String(), result)
	}

	st.finish(n, text)
}

// TreeReporter is the numbered-line cascade describes.
type TreeReporter struct{}

var _ Reporter = TreeReporter{}

func (TreeReporter) Report(terminal *Incompatibility) string {
	if terminal == nil {
		return "no solution found"
	}
	if !terminal.Cause.IsConflict() {
		return terminal.String()
	}
	st := &reportState{
		counts:    countAncestors(terminal),
		explained: make(map[*Incompatibility]bool),
		numbers:   make(map[*Incompatibility]int),
		lineIndex: make(map[*Incompatibility]int),
	}
	st.explain(terminal)
	return strings.Join(st.lines, "\n")
}

// CollapsedReporter produces a flatter narrative for callers that want less
// visual nesting than TreeReporter's numbered cascade: one line per derived
// conclusion, parents before children, the first as "X." and each later one
// as "And because Y.". It shares no state with TreeReporter — both only read Terms and
// Cause.
type CollapsedReporter struct{}

var _ Reporter = CollapsedReporter{}

func (CollapsedReporter) Report(terminal *Incompatibility) string {
	if terminal == nil {
		return "no solution found"
	}
	var lines []string
	visited := make(map[*Incompatibility]bool)
	var collect func(n *Incompatibility)
	collect = func(n *Incompatibility) {
		if visited[n] {
			return
		}
		visited[n] = true
		if !n.Cause.IsConflict() {
			return
		}
		collect(n.Cause.Left)
		collect(n.Cause.Right)
		lines = append(lines, n.String())
	}
	collect(terminal)
	if len(lines) == 0 {
		return terminal.String() + "."
	}
	var b strings.Builder
	b.WriteString(lines[0])
	b.WriteString(".")
	for _, l := range lines[1:] {
		b.WriteString("\nAnd because ")
		b.WriteString(l)
		b.WriteString(".")
	}
	return b.String()
}
