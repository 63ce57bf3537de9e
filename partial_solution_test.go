package pubgrub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartialSolutionPositiveFoldsAcrossAssignments(t *testing.T) {
	ps := NewPartialSolution()
	pkg := NewPackageID("A")

	ps.Derive(NewTerm(pkg, rangeReq(t, ">=1.0.0, <2.0.0")), nil)
	ps.Derive(NewNegativeTerm(pkg, ExactRequirement(v("1.0.0"))), nil)

	term, ok := ps.Positive(pkg)
	require.True(t, ok)
	assert.False(t, term.IsSatisfied(v("1.0.0")))
	assert.True(t, term.IsSatisfied(v("1.5.0")))
}

func TestPartialSolutionPositiveUnassignedPackage(t *testing.T) {
	ps := NewPartialSolution()
	_, ok := ps.Positive(NewPackageID("ghost"))
	assert.False(t, ok)
}

func TestPartialSolutionDecideAdvancesDecisionLevel(t *testing.T) {
	ps := NewPartialSolution()
	assert.Equal(t, 0, ps.DecisionLevel())
	ps.Decide(NewTerm(NewPackageID("A"), ExactRequirement(v("1.0.0"))))
	assert.Equal(t, 1, ps.DecisionLevel())
	ps.Decide(NewTerm(NewPackageID("B"), ExactRequirement(v("1.0.0"))))
	assert.Equal(t, 2, ps.DecisionLevel())
}

func TestPartialSolutionBacktrackDropsHigherLevels(t *testing.T) {
	ps := NewPartialSolution()
	a, b := NewPackageID("A"), NewPackageID("B")

	ps.Decide(NewTerm(a, ExactRequirement(v("1.0.0"))))
	ps.Derive(NewTerm(b, AnyRequirement()), nil)
	ps.Decide(NewTerm(b, ExactRequirement(v("1.0.0"))))

	assert.Equal(t, 2, ps.DecisionLevel())
	ps.Backtrack(1)
	assert.Equal(t, 1, ps.DecisionLevel())
	assert.True(t, ps.HasDecision(a))
	assert.False(t, ps.HasDecision(b))
}

func TestPartialSolutionIsValidDecisionRejectsAfterExistingDecision(t *testing.T) {
	ps := NewPartialSolution()
	pkg := NewPackageID("A")
	ps.Decide(NewTerm(pkg, ExactRequirement(v("1.0.0"))))

	candidate := NewTerm(pkg, ExactRequirement(v("2.0.0")))
	assert.False(t, ps.IsValidDecision(candidate))
}

func TestPartialSolutionIsValidDecisionRequiresSatisfyingPriorTerms(t *testing.T) {
	ps := NewPartialSolution()
	pkg := NewPackageID("A")
	ps.Derive(NewTerm(pkg, rangeReq(t, ">=1.0.0, <2.0.0")), nil)

	assert.True(t, ps.IsValidDecision(NewTerm(pkg, ExactRequirement(v("1.5.0")))))
	assert.False(t, ps.IsValidDecision(NewTerm(pkg, ExactRequirement(v("3.0.0")))))
}

func TestPartialSolutionSatisfiesClassifiesAlmostAndSatisfied(t *testing.T) {
	ps := NewPartialSolution()
	a, b := NewPackageID("A"), NewPackageID("B")

	inc := NewIncompatibility([]Term{
		NewTerm(a, ExactRequirement(v("1.0.0"))),
		NewTerm(b, ExactRequirement(v("1.0.0"))),
	}, Cause{Kind: CauseDependency})

	assert.Equal(t, SatisfactionUnsatisfied, ps.Satisfies(inc).Kind)

	ps.Decide(NewTerm(a, ExactRequirement(v("1.0.0"))))
	sat := ps.Satisfies(inc)
	require.Equal(t, SatisfactionAlmost, sat.Kind)
	assert.Equal(t, b, sat.Term.Package)

	ps.Decide(NewTerm(b, ExactRequirement(v("1.0.0"))))
	assert.Equal(t, SatisfactionSatisfied, ps.Satisfies(inc).Kind)
}

func TestPartialSolutionEarliestSatisfiersSingleDecision(t *testing.T) {
	ps := NewPartialSolution()
	pkg := NewPackageID("A")

	inc := NewNoVersionsIncompatibility(NewTerm(pkg, ExactRequirement(v("1.0.0"))))
	decision := ps.Decide(NewTerm(pkg, ExactRequirement(v("1.0.0"))))

	previous, satisfier := ps.EarliestSatisfiers(inc)
	require.NotNil(t, satisfier)
	assert.Same(t, decision, satisfier)
	assert.Same(t, decision, previous, "with a single assignment, previous and satisfier are the same assignment")
}

// TestPartialSolutionEarliestSatisfiersNeverSatisfiesRootClause documents
// why the root incompatibility never appears as a genuine conflict: its
// lone term negates Any, which per Term.Satisfies' any-side rule can never
// be forced true by a real assignment, so classify can only ever report
// Almost for it, never Satisfied.
func TestPartialSolutionEarliestSatisfiersNeverSatisfiesRootClause(t *testing.T) {
	ps := NewPartialSolution()
	root := NewPackageID("$root")

	inc := NewRootIncompatibility(root)
	ps.Decide(NewTerm(root, ExactRequirement(rootSentinelVersion)))

	_, satisfier := ps.EarliestSatisfiers(inc)
	assert.Nil(t, satisfier)
}

func TestPartialSolutionEarliestSatisfiersTwoTermIncompatibility(t *testing.T) {
	ps := NewPartialSolution()
	a, b := NewPackageID("A"), NewPackageID("B")

	inc := NewIncompatibility([]Term{
		NewTerm(a, ExactRequirement(v("1.0.0"))),
		NewTerm(b, ExactRequirement(v("1.0.0"))),
	}, Cause{Kind: CauseDependency})

	first := ps.Decide(NewTerm(a, ExactRequirement(v("1.0.0"))))
	second := ps.Decide(NewTerm(b, ExactRequirement(v("1.0.0"))))

	previous, satisfier := ps.EarliestSatisfiers(inc)
	require.NotNil(t, satisfier)
	assert.Same(t, second, satisfier)
	require.NotNil(t, previous)
	assert.Same(t, first, previous)
}

func TestPartialSolutionBuildSolutionReturnsDecisionsOnly(t *testing.T) {
	ps := NewPartialSolution()
	pkg := NewPackageID("A")
	ps.Derive(NewTerm(pkg, rangeReq(t, ">=1.0.0")), nil)

	sol := ps.BuildSolution()
	assert.Empty(t, sol)

	ps.Decide(NewTerm(pkg, ExactRequirement(v("1.0.0"))))
	sol = ps.BuildSolution()
	require.Contains(t, sol, pkg)
	assert.True(t, sol[pkg].Equal(NewTerm(pkg, ExactRequirement(v("1.0.0")))))
}
