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

import "github.com/go-highway/compdot/hwy"

// Fold absorbs v into the cascaded sum (sum, err).
func Fold[T hwy.Floats](v, sum, err T) (T, T) {
	s, e := TwoSum(v, sum)
	return s, T(err + e)
}

// Merge combines cascaded sum B into cascaded sum A and returns the result.
// B's compensation is added first so that folding B's sum cannot lose it.
func Merge[T hwy.Floats](sumA, errA, sumB, errB T) (T, T) {
	return Fold(sumB, sumA, T(errA+errB))
}

// Reduce returns the value represented by a cascaded sum.
func Reduce[T hwy.Floats](sum, err T) T {
	return T(sum + err)
}

// Sum returns the compensated sum of xs.
func Sum[T hwy.Floats](xs []T) T {
	var sum, err T
	for _, x := range xs {
		sum, err = Fold(x, sum, err)
	}
	return Reduce(sum, err)
}

// FoldLanes absorbs v[i] into (sum[i], err[i]) for every lane of sum.
// v and err must have at least len(sum) lanes.
func FoldLanes[T hwy.Floats](v, sum, err []T) {
	v = v[:len(sum)]
	err = err[:len(sum)]
	for i := range sum {
		s, e := TwoSum(v[i], sum[i])
		sum[i] = s
		err[i] = T(err[i] + e)
	}
}

// MergeLanes combines cascaded sum B into cascaded sum A, lane by lane.
// All four slices must have at least len(sumA) lanes.
func MergeLanes[T hwy.Floats](sumA, errA, sumB, errB []T) {
	errA = errA[:len(sumA)]
	sumB = sumB[:len(sumA)]
	errB = errB[:len(sumA)]
	for i := range sumA {
		sumA[i], errA[i] = Merge(sumA[i], errA[i], sumB[i], errB[i])
	}
}

// ReduceLanes returns the horizontal total of a lane-wise cascaded sum.
//
// Wide groups are first halved with MergeLanes until at most four lanes
// remain, so sum and err are clobbered. The remaining lane sums are folded
// into a scalar cascaded sum whose error term collects every lane's
// compensation; the compensation is added to the total only once, at the end.
func ReduceLanes[T hwy.Floats](sum, err []T) T {
	err = err[:len(sum)]
	n := len(sum)
	for n > 4 && n%2 == 0 {
		half := n / 2
		MergeLanes(sum[:half], err[:half], sum[half:n], err[half:n])
		n = half
	}

	var total, totalErr T
	for i := range n {
		totalErr = T(totalErr + err[i])
		total, totalErr = Fold(sum[i], total, totalErr)
	}
	return Reduce(total, totalErr)
}
