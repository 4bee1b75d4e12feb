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
	"github.com/go-highway/compdot/hwy"
	"github.com/go-highway/compdot/hwy/contrib/compress"
)

// Dot returns the dot product of num elements of w starting at wOfs and the
// first num elements of v, using the runtime vector width and the kernel
// chosen by KernelFor.
//
// The caller guarantees wOfs+num <= w.Len() and num <= v.Len(). Dot returns
// 0 for num == 0.
func Dot(w compress.PackedSpan, wOfs int, v compress.PackedSpan, num int) float32 {
	return DotTag(hwy.ScalableTag[float32]{}, w, wOfs, v, num)
}

// DotTag is Dot with an explicit vector size. Only d.Width() matters.
func DotTag(d hwy.Tag, w compress.PackedSpan, wOfs int, v compress.PackedSpan, num int) float32 {
	return DotUsing(KernelFor(w.Encoding(), v.Encoding()), d, w, wOfs, v, num)
}

// DotUsing is DotTag with an explicit kernel.
//
// KernelCompensated over two bfloat16 spans multiplies in bfloat16 lanes;
// every other combination is decoded to float32.
func DotUsing(k Kernel, d hwy.Tag, w compress.PackedSpan, wOfs int, v compress.PackedSpan, num int) float32 {
	if num <= 0 {
		return 0
	}
	switch {
	case k == KernelDouble:
		return dotDouble(d, w, wOfs, v, num)
	case w.Encoding() == compress.BF16 && v.Encoding() == compress.BF16:
		return dotCompensatedBF16(d, w, wOfs, v, num)
	default:
		return dotCompensated(d, w, wOfs, v, num)
	}
}

// DotRaw returns the dot product of num elements starting at w and v.
// Nothing is checked.
func DotRaw[W, V compress.Scalar](w *W, v *V, num int) float32 {
	if num <= 0 {
		return 0
	}
	ws := compress.MakeSpanFromPointer(w, num)
	vs := compress.MakeSpanFromPointer(v, num)
	return Dot(ws, 0, vs, num)
}

// DotSlices returns the dot product of the first min(len(w), len(v))
// elements of w and v.
func DotSlices[W, V compress.Scalar](w []W, v []V) float32 {
	n := min(len(w), len(v))
	if n == 0 {
		return 0
	}
	return DotRaw(&w[0], &v[0], n)
}

// DotCompressed returns a.Scale() times the dot product of num elements of
// a starting at wOfs and the first num elements of v.
func DotCompressed(a *compress.CompressedArray, wOfs int, v compress.PackedSpan, num int) float32 {
	return a.Scale() * Dot(a.Span(), wOfs, v, num)
}

// The loops below are written per kernel, with concrete lane types, so that
// scratch and accumulators stay on the stack. Do not make them generic over
// the kernel: calls through a type parameter move them to the heap.

// dotDouble runs doubleKernel over num elements.
//
// Whole groups of four chains are decoded and passed to update4. Native
// spans are sliced rather than copied. The remainder, shorter than a group,
// is decoded into zero-padded scratch and consumed one chain-width at a time
// by update1; zero lanes add nothing to any sum.
func dotDouble(d hwy.Tag, w compress.PackedSpan, wOfs int, v compress.PackedSpan, num int) float32 {
	var k doubleKernel
	raw, state := k.lanes(d)
	group := numChains * raw

	var acc accumulators[float64]
	var wBuf, vBuf [numChains * maxStateLanes / 2]float64

	i := 0
	for ; i+group <= num; i += group {
		wg := k.decode(w, wOfs+i, wBuf[:group])
		vg := k.decode(v, i, vBuf[:group])
		k.update4(wg, vg, raw, state, &acc)
	}

	remaining := num - i
	debugAssert(remaining < group, "remainder must be shorter than a group")
	if remaining != 0 {
		k.decodeAndZeroPad(w, wOfs+i, wBuf[:group], remaining)
		k.decodeAndZeroPad(v, i, vBuf[:group], remaining)
		for j := 0; j < remaining; j += raw {
			k.update1(wBuf[j:j+raw], vBuf[j:j+raw], state, &acc)
		}
	}
	return k.reduce(&acc, state)
}

// dotCompensated runs compensatedKernel over num elements, as dotDouble.
func dotCompensated(d hwy.Tag, w compress.PackedSpan, wOfs int, v compress.PackedSpan, num int) float32 {
	var k compensatedKernel
	raw, state := k.lanes(d)
	group := numChains * raw

	var acc accumulators[float32]
	var wBuf, vBuf [numChains * maxStateLanes]float32

	i := 0
	for ; i+group <= num; i += group {
		wg := k.decode(w, wOfs+i, wBuf[:group])
		vg := k.decode(v, i, vBuf[:group])
		k.update4(wg, vg, raw, state, &acc)
	}

	remaining := num - i
	debugAssert(remaining < group, "remainder must be shorter than a group")
	if remaining != 0 {
		k.decodeAndZeroPad(w, wOfs+i, wBuf[:group], remaining)
		k.decodeAndZeroPad(v, i, vBuf[:group], remaining)
		for j := 0; j < remaining; j += raw {
			k.update1(wBuf[j:j+raw], vBuf[j:j+raw], state, &acc)
		}
	}
	return k.reduce(&acc, state)
}

// dotCompensatedBF16 runs compensatedBF16Kernel over num elements, as
// dotDouble. A group holds twice as many bf16 lanes as accumulator lanes.
func dotCompensatedBF16(d hwy.Tag, w compress.PackedSpan, wOfs int, v compress.PackedSpan, num int) float32 {
	var k compensatedBF16Kernel
	raw, state := k.lanes(d)
	group := numChains * raw

	var acc accumulators[float32]
	var wBuf, vBuf [numChains * maxRawLanes]hwy.BFloat16

	i := 0
	for ; i+group <= num; i += group {
		wg := k.decode(w, wOfs+i, wBuf[:group])
		vg := k.decode(v, i, vBuf[:group])
		k.update4(wg, vg, raw, state, &acc)
	}

	remaining := num - i
	debugAssert(remaining < group, "remainder must be shorter than a group")
	if remaining != 0 {
		k.decodeAndZeroPad(w, wOfs+i, wBuf[:group], remaining)
		k.decodeAndZeroPad(v, i, vBuf[:group], remaining)
		for j := 0; j < remaining; j += raw {
			k.update1(wBuf[j:j+raw], vBuf[j:j+raw], state, &acc)
		}
	}
	return k.reduce(&acc, state)
}
