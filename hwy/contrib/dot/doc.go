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

// Package dot computes dot products of compressed operands with compensated
// accumulation, and a condition-number diagnostic for the same sums.
//
// # Dot Product Functions
//
// By convention the first operand is the weight w and the second the vector
// v; only w takes an offset.
//   - Dot(w, wOfs, v, num) - spans of any encoding, runtime vector width
//   - DotTag(d, w, wOfs, v, num) - explicit vector width
//   - DotUsing(k, d, w, wOfs, v, num) - explicit kernel
//   - DotRaw(wp, vp, num) - two pointers, no bounds checking
//   - DotSlices(w, v) - two slices of the plain element types
//   - DotCompressed(a, wOfs, v, num) - scaled weights, result times a.Scale()
//   - DotBatch(ws, vs) - independent pairs
//
// # Algorithm
//
// Elements are processed in groups of B lanes, where B depends on the tag
// and the kernel's lane type. Each iteration decodes 4B elements of both
// operands and feeds four groups to four independent accumulator chains.
// The last 0..4B-1 elements are decoded into zero-padded scratch and
// consumed B at a time by chain 0. The chains are then merged and reduced
// across lanes into one float32.
//
// Two kernels implement the accumulation:
//   - KernelDouble widens to float64 and accumulates with plain FMA. It is
//     chosen when compress.CanDecodeToDouble holds for the encoding pair.
//   - KernelCompensated accumulates float32 lanes as cascaded sums using
//     TwoProduct and TwoSum (Algorithm 6.15, Handbook of Floating-Point
//     Arithmetic). For BF16 x BF16 it multiplies adjacent bfloat16 pairs
//     into one float32 lane instead; those products are exact, so only the
//     summation error is tracked.
//
// Results are deterministic for a given B. Different B reduce in different
// orders and may differ in the last bits.
//
// # Condition Number
//
// ConditionNumber, ConditionNumberCompressed, ConditionNumberRaw and
// ConditionNumberSum return 2*sum(|t|)/|sum(t)| over the products (or
// elements). log2 of the result approximates the number of mantissa bits
// lost to cancellation; +Inf means the sum is exactly zero.
//
// # Example Usage
//
//	w := compress.MakeSpan(weightsBF16)
//	v := compress.MakeSpan(activations) // []float32
//	y := dot.Dot(w, 0, v, len(activations))
package dot
