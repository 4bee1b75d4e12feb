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

package testutil

import (
	"math"
	"math/big"
	"testing"

	"github.com/go-highway/compdot/hwy/contrib/compress"
)

// exactPrec is enough mantissa bits to hold any sum of products of float64
// values in the test ranges without rounding.
const exactPrec = 4096

// ExactDot returns sum(w[wOfs+i]*v[i]) for i < num, computed exactly and
// rounded once to float64.
func ExactDot(w compress.PackedSpan, wOfs int, v compress.PackedSpan, num int) float64 {
	sum := new(big.Float).SetPrec(exactPrec)
	prod := new(big.Float).SetPrec(exactPrec)
	x := new(big.Float).SetPrec(exactPrec)
	for i := range num {
		prod.SetFloat64(w.Value(wOfs + i))
		x.SetFloat64(v.Value(i))
		prod.Mul(prod, x)
		sum.Add(sum, prod)
	}
	f, _ := sum.Float64()
	return f
}

// ExactSum returns the exactly rounded float64 sum of xs.
func ExactSum(xs []float64) float64 {
	sum := new(big.Float).SetPrec(exactPrec)
	x := new(big.Float).SetPrec(exactPrec)
	for _, v := range xs {
		sum.Add(sum, x.SetFloat64(v))
	}
	f, _ := sum.Float64()
	return f
}

// DoubleDot accumulates float64 products left to right with FMA, the
// same arithmetic as the double kernel on one lane.
func DoubleDot(w compress.PackedSpan, wOfs int, v compress.PackedSpan, num int) float64 {
	var sum float64
	for i := range num {
		sum = math.FMA(w.Value(wOfs+i), v.Value(i), sum)
	}
	return sum
}

// NaiveDot accumulates float32 products left to right without
// compensation.
func NaiveDot(w compress.PackedSpan, wOfs int, v compress.PackedSpan, num int) float32 {
	var sum float32
	for i := range num {
		p := float32(float32(w.Value(wOfs+i)) * float32(v.Value(i)))
		sum = float32(sum + p)
	}
	return sum
}

// NaiveDotOrder is NaiveDot visiting the elements in the given order.
func NaiveDotOrder(w, v []float32, order []int) float32 {
	var sum float32
	for _, i := range order {
		sum = float32(sum + float32(w[i]*v[i]))
	}
	return sum
}

// RequireNearlyEqual fails t if got and want differ by more than eps.
func RequireNearlyEqual(t testing.TB, got, want, eps float64) {
	t.Helper()
	if diff := math.Abs(got - want); diff > eps || math.IsNaN(diff) {
		t.Fatalf("got %v, want %v (diff %v > eps %v)", got, want, diff, eps)
	}
}

// AbsDotBound returns sum(|w[wOfs+i]*v[i]|), the scale that dot product
// rounding errors are measured against.
func AbsDotBound(w compress.PackedSpan, wOfs int, v compress.PackedSpan, num int) float64 {
	var sum float64
	for i := range num {
		sum += math.Abs(w.Value(wOfs+i) * v.Value(i))
	}
	return sum
}
