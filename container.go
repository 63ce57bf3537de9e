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
	"iter"
)

// Container exposes everything the resolver needs to know about one
// package: its available versions, newest-first, and the dependency terms
// declared by each version.
type Container interface {
	// Versions returns the package's versions ordered newest-first. filter
	// is applied by the caller (the resolver), not the implementation;
	// Container is free to stream lazily via iter.Seq.
	Versions() iter.Seq[Version]

	// Dependencies returns the dependency terms declared by the package at
	// the given version.
	Dependencies(at Version) ([]Term, error)
}

// Delegate is an optional progress sink with no semantic role in solving —
// a resolver or cache may call it to report activity, but nothing it does
// can affect the outcome of a solve.
type Delegate interface {
	OnFetchStart(pkg PackageID)
	OnFetchDone(pkg PackageID, err error)
}

// NoopDelegate implements Delegate by doing nothing; it is the default when
// no Delegate is supplied.
type NoopDelegate struct{}

func (NoopDelegate) OnFetchStart(PackageID)       {}
func (NoopDelegate) OnFetchDone(PackageID, error) {}

// PackageContainerProvider fetches a Container for a package id. skipUpdate
// hints that the provider may serve a previously cached/local view instead
// of consulting its upstream source — the provider may ignore the hint.
type PackageContainerProvider interface {
	GetContainer(ctx context.Context, id PackageID, skipUpdate bool) (Container, error)
}
