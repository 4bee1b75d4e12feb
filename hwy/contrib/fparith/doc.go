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

// Package fparith provides error-free transformations and cascaded
// (compensated) summation for float32 and float64.
//
// # Error-free transformations
//
// TwoSum and TwoProduct return the rounded result of a+b or a*b together
// with its exact rounding error, so that result+err equals the real-valued
// sum or product (barring overflow and underflow).
//
// # Cascaded sums
//
// A cascaded sum is a (sum, err) pair. Fold absorbs one value, Merge combines
// two independently accumulated pairs, and Reduce returns the final value.
// The lane forms (FoldLanes, MergeLanes, ReduceLanes) apply the same rules
// to every lane of a group; ReduceLanes keeps the compensation separate while
// it adds the lanes together and folds it in only at the very end.
//
// Algorithm 6.15 of the Handbook of Floating-Point Arithmetic (2nd ed.)
// accumulates products this way; results approach those of summing at twice
// the working precision.
//
// # Example Usage
//
//	sum, err := float32(0), float32(0)
//	for _, x := range xs {
//	    sum, err = fparith.Fold(x, sum, err)
//	}
//	total := fparith.Reduce(sum, err)
package fparith
