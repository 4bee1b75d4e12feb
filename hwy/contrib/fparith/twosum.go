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

package fparith

import (
	"math"

	"github.com/go-highway/compdot/hwy"
)

// TwoSum returns fl(a+b) and the rounding error of that addition.
//
// This is Knuth's branch-free variant: it needs no |a| >= |b| ordering.
// Every intermediate is converted explicitly so the compiler cannot contract
// or reassociate the sequence.
func TwoSum[T hwy.Floats](a, b T) (sum, err T) {
	sum = T(a + b)
	bVirtual := T(sum - a)
	aVirtual := T(sum - bVirtual)
	bRound := T(b - bVirtual)
	aRound := T(a - aVirtual)
	err = T(aRound + bRound)
	return sum, err
}

// TwoProduct returns fl(a*b) and the rounding error of that product.
//
// The error is recovered with a fused multiply-add, which evaluates a*b-prod
// with a single rounding. For float32 inputs the product is exact in float64,
// and the error is always representable in float32.
func TwoProduct[T hwy.Floats](a, b T) (prod, err T) {
	prod = T(a * b)
	err = T(math.FMA(float64(a), float64(b), -float64(prod)))
	return prod, err
}
