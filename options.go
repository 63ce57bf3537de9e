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

import "github.com/sirupsen/logrus"

const defaultMaxSteps = 100000

// VersionPreference picks which of the versions iterated from a Container
// (already newest-first) the decision step should try first. The default
// policy simply takes the iteration's first match, i.e.
// latest-matching-version-first.
type VersionPreference func(versions []Version) []Version

func defaultVersionPreference(versions []Version) []Version { return versions }

// ResolverOptions configures a Resolver's behavior. Zero value is not
// meaningful; build one with defaultResolverOptions and ResolverOption
// functions.
type ResolverOptions struct {
	MaxSteps   int
	Logger     *logrus.Logger
	Preference VersionPreference
}

// ResolverOption is a functional option for NewResolver.
type ResolverOption func(*ResolverOptions)

func defaultResolverOptions() ResolverOptions {
	return ResolverOptions{
		MaxSteps:   defaultMaxSteps,
		Preference: defaultVersionPreference,
	}
}

// WithMaxSteps bounds the number of propagate/decide cycles. 0 disables the
// limit; not recommended for untrusted input.
func WithMaxSteps(steps int) ResolverOption {
	return func(o *ResolverOptions) {
		if steps <= 0 {
			o.MaxSteps = 0
		} else {
			o.MaxSteps = steps
		}
	}
}

// WithLogger attaches a logrus logger that receives Debug-level structured
// fields describing the root seeding, each decision, and each conflict.
// Individual propagation steps are not logged. A nil logger (the default)
// disables logging entirely.
func WithLogger(logger *logrus.Logger) ResolverOption {
	return func(o *ResolverOptions) { o.Logger = logger }
}

// WithVersionPreference overrides the order in which MakeDecision tries
// candidate versions. The input is already newest-first; an embedder might,
// for example, reorder to try an already-locked version first.
func WithVersionPreference(pref VersionPreference) ResolverOption {
	return func(o *ResolverOptions) {
		if pref != nil {
			o.Preference = pref
		}
	}
}

func (o *ResolverOptions) logger() *logrus.Logger {
	if o.Logger == nil {
		return nil
	}
	return o.Logger
}
