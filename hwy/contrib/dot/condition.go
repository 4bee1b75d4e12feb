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

package dot

import (
	"math"

	"github.com/go-highway/compdot/hwy"
	"github.com/go-highway/compdot/hwy/contrib/compress"
	"github.com/go-highway/compdot/hwy/contrib/fparith"
)

// ConditionNumber returns 2*sum(|w[i]*v[i]|) / |sum(w[i]*v[i])| over the
// first num elements, or +Inf if the signed sum is zero.
//
// Its log2 approximates the number of mantissa bits needed to compute the
// dot product of w and v accurately.
func ConditionNumber(w, v compress.PackedSpan, num int) float64 {
	return conditionNumber(hwy.ScalableTag[float32]{}, w, 0, v, num, true)
}

// ConditionNumberCompressed is ConditionNumber of num elements of a starting
// at wOfs and the first num elements of v. The scale of a cancels out.
func ConditionNumberCompressed(a *compress.CompressedArray, wOfs int, v compress.PackedSpan, num int) float64 {
	return conditionNumber(hwy.ScalableTag[float32]{}, a.Span(), wOfs, v, num, true)
}

// ConditionNumberSum is ConditionNumber of the plain sum of v: it returns
// 2*sum(|v[i]|) / |sum(v[i])|.
func ConditionNumberSum(v compress.PackedSpan, num int) float64 {
	return conditionNumber(hwy.ScalableTag[float32]{}, compress.PackedSpan{}, 0, v, num, false)
}

// ConditionNumberRaw is ConditionNumber of num elements starting at w and v.
// Nothing is checked.
func ConditionNumberRaw[W, V compress.Scalar](w *W, v *V, num int) float64 {
	if num <= 0 {
		return math.Inf(1)
	}
	ws := compress.MakeSpanFromPointer(w, num)
	vs := compress.MakeSpanFromPointer(v, num)
	return ConditionNumber(ws, vs, num)
}

// conditionNumber accumulates the signed and absolute terms in two cascaded
// sums over float32 lanes, two groups at a time. If products is false, w and
// wOfs are ignored and the terms are the elements of v.
func conditionNumber(d hwy.Tag, w compress.PackedSpan, wOfs int, v compress.PackedSpan, num int, products bool) float64 {
	lanes := hwy.LanesOf[float32](d)
	pair := 2 * lanes

	var sum, sumErr, sumAbs, sumAbsErr [maxStateLanes]float32
	var terms, abs [maxStateLanes]float32
	var wBuf, vBuf [2 * maxStateLanes]float32

	accumulate := func(wg, vg []float32) {
		t := terms[:lanes]
		a := abs[:lanes]
		for j := range t {
			x := vg[j]
			if products {
				x = float32(wg[j] * vg[j])
			}
			t[j] = x
			a[j] = float32(math.Abs(float64(x)))
		}
		fparith.FoldLanes(t, sum[:lanes], sumErr[:lanes])
		fparith.FoldLanes(a, sumAbs[:lanes], sumAbsErr[:lanes])
	}

	i := 0
	for ; i+pair <= num; i += pair {
		var wg []float32
		if products {
			wg = compress.DecodeF32(w, wOfs+i, wBuf[:pair])
		}
		vg := compress.DecodeF32(v, i, vBuf[:pair])
		accumulate(wg, vg[:lanes])
		if wg != nil {
			wg = wg[lanes:]
		}
		accumulate(wg, vg[lanes:])
	}

	remaining := num - i
	debugAssert(remaining < pair, "remainder must be shorter than two groups")
	if remaining != 0 {
		if products {
			compress.DecodeF32AndZeroPad(w, wOfs+i, wBuf[:pair], remaining)
		}
		compress.DecodeF32AndZeroPad(v, i, vBuf[:pair], remaining)
		for j := 0; j < remaining; j += lanes {
			accumulate(wBuf[j:j+lanes], vBuf[j:j+lanes])
		}
	}

	div := float32(math.Abs(float64(fparith.ReduceLanes(sum[:lanes], sumErr[:lanes]))))
	if div == 0 {
		return math.Inf(1)
	}
	cond := 2 * float64(fparith.ReduceLanes(sumAbs[:lanes], sumAbsErr[:lanes])) / float64(div)
	debugAssert(cond >= 0, "condition number must be non-negative")
	return cond
}
