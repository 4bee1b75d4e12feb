// Copyright 2025 go-highway Authors
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

// Package testutil holds deterministic inputs and reference results shared
// by the package tests.
package testutil

import "math/rand"

// DeterministicNoise returns n values uniform in [-amplitude, amplitude)
// drawn from a fixed seed.
func DeterministicNoise(seed int64, amplitude float32, n int) []float32 {
	out := make([]float32, n)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float32()*2 - 1) * amplitude
	}
	return out
}

// Ramp returns 1, 2, ..., n.
func Ramp(n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(i + 1)
	}
	return out
}

// DC returns n copies of value.
func DC(value float32, n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = value
	}
	return out
}

// Ones returns a slice of length n filled with 1.
func Ones(n int) []float32 {
	return DC(1, n)
}

// Alternating returns +1, -1, +1, ... of length n.
func Alternating(n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = 1
		if i%2 == 1 {
			out[i] = -1
		}
	}
	return out
}

// Shuffled returns a permutation of 0..n-1 drawn from a fixed seed.
func Shuffled(seed int64, n int) []int {
	return rand.New(rand.NewSource(seed)).Perm(n)
}
