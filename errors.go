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

	"github.com/pkg/errors"
)

// UnresolvableError is returned when conflict resolution reaches a
// complete-failure incompatibility. Incompatibility is the root of the
// derivation graph the reporter renders into a human-readable explanation.
type UnresolvableError struct {
	Incompatibility *Incompatibility
	Reporter        Reporter
}

func (e *UnresolvableError) Error() string {
	if e.Incompatibility == nil {
		return "no solution found"
	}
	r := e.Reporter
	if r == nil {
		r = &TreeReporter{}
	}
	return r.Report(e.Incompatibility)
}

// WithReporter returns a copy of e that renders with r instead of the
// default TreeReporter.
func (e *UnresolvableError) WithReporter(r Reporter) *UnresolvableError {
	return &UnresolvableError{Incompatibility: e.Incompatibility, Reporter: r}
}

// NewUnresolvableError builds an UnresolvableError from the terminal
// incompatibility conflict resolution returned.
func NewUnresolvableError(terminal *Incompatibility) *UnresolvableError {
	return &UnresolvableError{Incompatibility: terminal, Reporter: &TreeReporter{}}
}

// ContainerFetchError wraps a failure from a PackageContainerProvider.
// The container cache memoises this identically to a success, so a
// repeated lookup for the same package surfaces the same wrapped error
// without re-invoking the provider.
type ContainerFetchError struct {
	Package PackageID
	Err     error
}

func (e *ContainerFetchError) Error() string {
	return fmt.Sprintf("fetch container for %s: %v", e.Package.Value(), e.Err)
}

func (e *ContainerFetchError) Unwrap() error { return e.Err }

// wrapContainerFetch attaches a stack trace to a provider error the first
// time it crosses into this package, via pkg/errors.Wrapf.
func wrapContainerFetch(pkg PackageID, err error) error {
	if err == nil {
		return nil
	}
	return &ContainerFetchError{Package: pkg, Err: errors.Wrapf(err, "package %s", pkg.Value())}
}

// InvariantError marks a condition classifies as a programmer
// error: a solved-state term carrying a range, or a learned clause that
// fails to almost-satisfy the post-backtrack solution. The solver panics
// with this type rather than returning it, since these cannot be recovered
// from inside a single solve.
type InvariantError struct {
	Detail string
}

func (e *InvariantError) Error() string { return "pubgrub: invariant violation: " + e.Detail }

func panicInvariant(format string, args ...any) {
	panic(&InvariantError{Detail: fmt.Sprintf(format, args...)})
}

// StepLimitError is returned when the resolver loop exceeds its configured
// MaxSteps ceiling, guarding against a pathological or adversarial input
// hanging the caller forever.
type StepLimitError struct {
	Steps int
}

func (e *StepLimitError) Error() string {
	return fmt.Sprintf("resolver exceeded %d steps without finding a solution", e.Steps)
}

// PackageNotFoundError indicates a provider has no container at all for a
// package id.
type PackageNotFoundError struct {
	Package PackageID
}

func (e *PackageNotFoundError) Error() string {
	return fmt.Sprintf("package %s not found", e.Package.Value())
}

// PackageVersionNotFoundError indicates a specific version is unavailable
// from an otherwise known package.
type PackageVersionNotFoundError struct {
	Package PackageID
	Version Version
}

func (e *PackageVersionNotFoundError) Error() string {
	return fmt.Sprintf("package %s version %s not found", e.Package.Value(), e.Version)
}

var (
	_ error = (*UnresolvableError)(nil)
	_ error = (*ContainerFetchError)(nil)
	_ error = (*InvariantError)(nil)
	_ error = (*StepLimitError)(nil)
	_ error = (*PackageNotFoundError)(nil)
	_ error = (*PackageVersionNotFoundError)(nil)
)
