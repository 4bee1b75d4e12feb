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
	"fmt"
	"math"
	"testing"

	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-highway/compdot/hwy"
	"github.com/go-highway/compdot/hwy/contrib/compress"
	"github.com/go-highway/compdot/internal/testutil"
)

// widthTag is a vector size of any number of bytes, so tests can run the
// kernels with group widths no real target has.
type widthTag int

func (t widthTag) Width() int   { return int(t) }
func (t widthTag) Name() string { return fmt.Sprintf("%dbyte", int(t)) }

var testTags = []hwy.Tag{
	widthTag(4),  // 1 float32 lane
	widthTag(12), // 3 float32 lanes
	hwy.FixedTag128[float32]{},
	hwy.FixedTag256[float32]{},
	hwy.FixedTag512[float32]{},
	hwy.ScalableTag[float32]{},
}

func span(t testing.TB, enc compress.Encoding, src []float32) compress.PackedSpan {
	t.Helper()
	return must.M1(compress.NewCompressedArray(enc, src)).Span()
}

func ulp32(x float32) float64 {
	x = float32(math.Abs(float64(x)))
	return float64(math.Nextafter32(x, float32(math.Inf(1))) - x)
}

// tolerance bounds the distance between a kernel's result and the exact dot
// product. Compensated results are within a couple of ulps of the rounded
// exact value; the bfloat16 kernel leaves the rounding of each pair sum
// uncompensated.
func tolerance(w, v compress.PackedSpan, wOfs, num int, exact float64) float64 {
	bound := testutil.AbsDotBound(w, wOfs, v, num)
	tol := 2*ulp32(float32(exact)) + 1e-9*bound
	if w.Encoding() == compress.BF16 && v.Encoding() == compress.BF16 {
		tol += 0x1p-23 * bound
	}
	return tol
}

func TestDotSlices(t *testing.T) {
	tests := []struct {
		name string
		a    []float32
		b    []float32
		want float32
	}{
		{
			name: "simple case",
			a:    []float32{1, 2, 3},
			b:    []float32{4, 5, 6},
			want: 32, // 1*4 + 2*5 + 3*6 = 32
		},
		{
			name: "exact AVX2 width (8 elements)",
			a:    []float32{1, 2, 3, 4, 5, 6, 7, 8},
			b:    []float32{8, 7, 6, 5, 4, 3, 2, 1},
			want: 120, // 8+14+18+20+20+18+14+8 = 120
		},
		{
			name: "larger than AVX2 width",
			a:    []float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
			b:    []float32{10, 9, 8, 7, 6, 5, 4, 3, 2, 1},
			want: 220, // 10+18+24+28+30+30+28+24+18+10 = 220
		},
		{
			name: "empty slices",
			a:    []float32{},
			b:    []float32{},
			want: 0,
		},
		{
			name: "different lengths",
			a:    []float32{1, 2, 3, 4, 5},
			b:    []float32{1, 2, 3},
			want: 14, // 1+4+9 = 14
		},
		{
			name: "zeros",
			a:    []float32{0, 0, 0, 0},
			b:    []float32{1, 2, 3, 4},
			want: 0,
		},
		{
			name: "negative values",
			a:    []float32{-1, -2, -3},
			b:    []float32{4, 5, 6},
			want: -32,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DotSlices(tt.a, tt.b); got != tt.want {
				t.Errorf("DotSlices() = %v, want %v", got, tt.want)
			}
			bf := hwy.BFloat16s(tt.a)
			if got := DotSlices(bf, tt.b); got != tt.want {
				t.Errorf("DotSlices(bf16, f32) = %v, want %v", got, tt.want)
			}
			if got := DotSlices(bf, hwy.BFloat16s(tt.b)); got != tt.want {
				t.Errorf("DotSlices(bf16, bf16) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKernelFor(t *testing.T) {
	assert.Equal(t, KernelDouble, KernelFor(compress.F32, compress.F32))
	assert.Equal(t, KernelDouble, KernelFor(compress.F16, compress.F32))
	assert.Equal(t, KernelDouble, KernelFor(compress.BF16, compress.F64))
	assert.Equal(t, KernelCompensated, KernelFor(compress.BF16, compress.BF16))
	assert.Equal(t, KernelCompensated, KernelFor(compress.Q8_0, compress.F32))
	assert.Equal(t, KernelCompensated, KernelFor(compress.F32, compress.Q4_0))
	assert.Equal(t, "compensated", KernelCompensated.String())
	assert.Equal(t, "double", KernelDouble.String())
	assert.Equal(t, "unknown", Kernel(7).String())
}

func TestDotEmpty(t *testing.T) {
	src := testutil.DeterministicNoise(1, 1, 40)
	for _, we := range compress.Encodings() {
		for _, ve := range compress.Encodings() {
			w, v := span(t, we, src), span(t, ve, src)
			assert.Zero(t, Dot(w, 0, v, 0), "%s x %s", we, ve)
			assert.Zero(t, Dot(w, 7, v, 0), "%s x %s", we, ve)
			assert.Zero(t, DotUsing(KernelCompensated, hwy.FixedTag128[float32]{}, w, 0, v, 0))
		}
	}
	assert.Zero(t, DotSlices([]float32{}, []hwy.BFloat16{}))
	var x float64
	assert.Zero(t, DotRaw(&x, &x, 0))
}

func TestDotMatchesExact(t *testing.T) {
	for _, we := range compress.Encodings() {
		for _, ve := range compress.Encodings() {
			t.Run(we.String()+"x"+ve.String(), func(t *testing.T) {
				for _, n := range []int{1, 3, 17, 100, 1000, 4097} {
					for _, wOfs := range []int{0, 5} {
						w := span(t, we, testutil.DeterministicNoise(int64(n), 4, n+wOfs))
						v := span(t, ve, testutil.DeterministicNoise(int64(n+1), 2, n))
						want := testutil.ExactDot(w, wOfs, v, n)
						got := Dot(w, wOfs, v, n)
						tol := tolerance(w, v, wOfs, n, want)
						require.InDeltaf(t, want, float64(got), tol, "n=%d wOfs=%d", n, wOfs)
					}
				}
			})
		}
	}
}

func TestCompensatedBeatsNaive(t *testing.T) {
	// Adding 0.1 a hundred thousand times loses about 1.4 in float32.
	const n = 100_000
	w := compress.MakeSpan(testutil.DC(0.1, n))
	v := compress.MakeSpan(testutil.Ones(n))
	want := testutil.ExactDot(w, 0, v, n)
	naiveErr := math.Abs(float64(testutil.NaiveDot(w, 0, v, n)) - want)
	for _, d := range testTags {
		got := DotUsing(KernelCompensated, d, w, 0, v, n)
		gotErr := math.Abs(float64(got) - want)
		assert.LessOrEqualf(t, gotErr, ulp32(float32(want)), "tag %s", d.Name())
		assert.Greaterf(t, naiveErr, 100*gotErr+0.1, "tag %s", d.Name())
	}
}

// cancellingData mixes a few large terms of both signs into small ones, so
// that the float32 rounding of a plain left-to-right sum depends on order.
func cancellingData(n int) (w, v []float32) {
	w = make([]float32, n)
	v = make([]float32, n)
	for i := range n {
		x := float32(float64((i*37)%101) / 17)
		if i%10 == 0 {
			x *= 1e5
		}
		if i%3 == 0 {
			x = -x
		}
		w[i] = x
		v[i] = float32(float64((i*53)%89) / 13)
	}
	return w, v
}

func reversed(xs []float32) []float32 {
	out := make([]float32, len(xs))
	for i, x := range xs {
		out[len(xs)-1-i] = x
	}
	return out
}

func TestCompensatedOrderInvariance(t *testing.T) {
	const n = 1000
	w, v := cancellingData(n)
	wr, vr := reversed(w), reversed(v)
	want := testutil.ExactDot(compress.MakeSpan(w), 0, compress.MakeSpan(v), n)
	bound := ulp32(float32(want))

	order := make([]int, n)
	for i := range order {
		order[i] = n - 1 - i
	}
	naiveDiff := math.Abs(float64(testutil.NaiveDotOrder(w, v, order) - testutil.NaiveDotOrder(wr, vr, order)))
	require.Greater(t, naiveDiff, bound, "plain float32 summation should depend on order")

	for _, d := range testTags {
		forward := DotUsing(KernelCompensated, d, compress.MakeSpan(w), 0, compress.MakeSpan(v), n)
		backward := DotUsing(KernelCompensated, d, compress.MakeSpan(wr), 0, compress.MakeSpan(vr), n)
		assert.LessOrEqualf(t, math.Abs(float64(forward-backward)), bound, "tag %s", d.Name())
		assert.InDeltaf(t, want, float64(forward), bound, "tag %s", d.Name())
	}
}

func TestOrderShuffle(t *testing.T) {
	const n = 3000
	w := testutil.DeterministicNoise(11, 100, n)
	v := testutil.DeterministicNoise(12, 100, n)
	perm := testutil.Shuffled(13, n)
	ws := make([]float32, n)
	vs := make([]float32, n)
	for i, j := range perm {
		ws[i], vs[i] = w[j], v[j]
	}
	want := testutil.ExactDot(compress.MakeSpan(w), 0, compress.MakeSpan(v), n)
	tol := 2*ulp32(float32(want)) + 1e-9*testutil.AbsDotBound(compress.MakeSpan(w), 0, compress.MakeSpan(v), n)
	for _, d := range testTags {
		a := DotUsing(KernelCompensated, d, compress.MakeSpan(w), 0, compress.MakeSpan(v), n)
		b := DotUsing(KernelCompensated, d, compress.MakeSpan(ws), 0, compress.MakeSpan(vs), n)
		assert.InDeltaf(t, float64(a), float64(b), 2*tol, "tag %s", d.Name())
	}
}

func TestDotTails(t *testing.T) {
	pairs := [][2]compress.Encoding{
		{compress.F32, compress.F32},
		{compress.BF16, compress.BF16},
		{compress.Q8_0, compress.BF16},
		{compress.F16, compress.F64},
		{compress.Q4_0, compress.F32},
	}
	for _, d := range testTags {
		lanes := hwy.LanesOf[float32](d)
		var sizes []int
		for _, b := range []int{lanes, 2 * lanes, 4 * lanes, 8 * lanes} {
			for n := max(b-lanes, 0); n <= b+lanes; n++ {
				sizes = append(sizes, n)
			}
		}
		for _, p := range pairs {
			for _, k := range []Kernel{KernelCompensated, KernelDouble} {
				name := fmt.Sprintf("%s/%sx%s/%s", d.Name(), p[0], p[1], k)
				t.Run(name, func(t *testing.T) {
					for _, n := range sizes {
						w := span(t, p[0], testutil.DeterministicNoise(int64(3*n), 3, n+1))
						v := span(t, p[1], testutil.DeterministicNoise(int64(3*n+1), 3, n))
						want := testutil.ExactDot(w, 1, v, n)
						got := DotUsing(k, d, w, 1, v, n)
						require.InDeltaf(t, want, float64(got), tolerance(w, v, 1, n, want), "n=%d", n)
					}
				})
			}
		}
	}
}

func TestDoublePathExact(t *testing.T) {
	// Values k/256 with |k| < 1024: every partial sum is exact in float64,
	// so the result is the exact sum rounded once to float32.
	for _, d := range testTags {
		n := 4 * hwy.LanesOf[float64](d)
		for num := 1; num <= n; num++ {
			w := make([]float32, num)
			v := make([]float64, num)
			for i := range num {
				w[i] = float32((i*389)%2047-1023) / 256
				v[i] = float64((i*631)%2039-1019) / 256
			}
			ws, vs := compress.MakeSpan(w), compress.MakeSpan(v)
			want := float32(testutil.DoubleDot(ws, 0, vs, num))
			require.Equal(t, want, DotTag(d, ws, 0, vs, num), "tag %s num=%d", d.Name(), num)
		}
	}
}

func TestF16TimesF32(t *testing.T) {
	src := []float32{0.5, -1.25, 3, 7.75, -0.125, 2, 1024, -9}
	w := span(t, compress.F16, src)
	v := compress.MakeSpan(testutil.Ramp(len(src)))
	require.Equal(t, KernelDouble, KernelFor(w.Encoding(), v.Encoding()))
	want := float32(testutil.DoubleDot(w, 0, v, len(src)))
	assert.Equal(t, want, Dot(w, 0, v, len(src)))
	assert.Equal(t, want, DotUsing(KernelCompensated, hwy.FixedTag128[float32]{}, w, 0, v, len(src)))
}

func TestDotRampTimesOnes(t *testing.T) {
	const n = 1000
	ramp, ones := testutil.Ramp(n), testutil.Ones(n)
	assert.Equal(t, float32(500500), DotSlices(ramp, ones))
	for _, enc := range []compress.Encoding{compress.F32, compress.F64, compress.BF16} {
		w := span(t, enc, ones)
		v := compress.MakeSpan(ramp)
		for _, d := range testTags {
			assert.Equalf(t, float32(500500), DotUsing(KernelCompensated, d, w, 0, v, n), "%s %s", enc, d.Name())
		}
	}
}

func TestDotCompressed(t *testing.T) {
	src := testutil.DeterministicNoise(21, 200_000, 300)
	a := must.M1(compress.NewCompressedArray(compress.F16, src))
	require.NotEqual(t, float32(1), a.Scale())
	v := compress.MakeSpan(testutil.DeterministicNoise(22, 1, 100))
	got := DotCompressed(a, 50, v, 100)
	assert.Equal(t, a.Scale()*Dot(a.Span(), 50, v, 100), got)

	want := testutil.ExactDot(compress.MakeSpan(src), 50, v, 100)
	bound := testutil.AbsDotBound(compress.MakeSpan(src), 50, v, 100)
	assert.InDelta(t, want, float64(got), 1e-3*bound)

	// A caller-owned span with a scale: bf16 ramp 1..64 against ones.
	owned := hwy.BFloat16s(testutil.Ramp(64))
	scaled := compress.NewScaledArray(compress.MakeSpan(owned), 0.25)
	ones := compress.MakeSpan(testutil.Ones(64))
	assert.Equal(t, float32(0.25*2080), DotCompressed(scaled, 0, ones, 64))
	assert.Equal(t, float32(0.25*(2080-1-2)), DotCompressed(scaled, 2, ones, 62))
	assert.Equal(t, 2.0, ConditionNumberCompressed(scaled, 0, ones, 64))
}

func TestDotBatch(t *testing.T) {
	ws := []compress.PackedSpan{
		compress.MakeSpan([]float32{1, 2, 3}),
		compress.MakeSpan(hwy.BFloat16s([]float32{1, 1, 1, 1})),
		compress.MakeSpan([]float64{2, 2}),
	}
	vs := []compress.PackedSpan{
		compress.MakeSpan([]float32{4, 5, 6}),
		compress.MakeSpan(hwy.BFloat16s([]float32{1, 2, 3, 4})),
	}
	got := DotBatch(ws, vs)
	assert.Equal(t, []float32{32, 10}, got)

	vs = append(vs, compress.MakeSpan([]float32{3, 3, 3}))
	got = DotBatch(ws, vs)
	assert.Equal(t, []float32{32, 10, 12}, got)
	assert.Empty(t, DotBatch(nil, vs))
}

func TestConditionNumber(t *testing.T) {
	for _, d := range testTags {
		t.Run(d.Name(), func(t *testing.T) {
			for _, n := range []int{1, 5, 16, 33, 1000} {
				pos := testutil.DeterministicNoise(int64(n), 1, n)
				for i := range pos {
					pos[i] = float32(math.Abs(float64(pos[i]))) + 0.5
				}
				s := compress.MakeSpan(pos)
				assert.Equal(t, 2.0, conditionNumber(d, s, 0, s, n, true), "w=v n=%d", n)
				assert.Equal(t, 2.0, conditionNumber(d, compress.PackedSpan{}, 0, s, n, false), "sum n=%d", n)
			}

			alt := compress.MakeSpan(testutil.Alternating(1000))
			ones := compress.MakeSpan(testutil.Ones(1000))
			assert.True(t, math.IsInf(conditionNumber(d, alt, 0, ones, 1000, true), 1))
			assert.True(t, math.IsInf(conditionNumber(d, compress.PackedSpan{}, 0, alt, 1000, false), 1))

			// |3| + |-1| over |3 - 1|.
			w := compress.MakeSpan([]float32{3, -1})
			assert.Equal(t, 4.0, conditionNumber(d, w, 0, ones, 2, true))
		})
	}
}

func TestConditionNumberPublic(t *testing.T) {
	const n = 1000
	alt := compress.MakeSpan(testutil.Alternating(n))
	ones := compress.MakeSpan(testutil.Ones(n))
	assert.Zero(t, Dot(alt, 0, ones, n))
	assert.True(t, math.IsInf(ConditionNumber(alt, ones, n), 1))
	assert.True(t, math.IsInf(ConditionNumberSum(alt, n), 1))
	assert.True(t, math.IsInf(ConditionNumber(alt, ones, 0), 1))
	assert.Equal(t, 2.0, ConditionNumberSum(ones, n))

	// 501 terms of +1 and 500 of -1: sum 1, absolute sum 1001.
	odd := compress.MakeSpan(testutil.Alternating(n + 1))
	assert.Equal(t, 2002.0, ConditionNumberSum(odd, n+1))

	bf := compress.MakeSpan(hwy.BFloat16s(testutil.Ramp(64)))
	assert.Equal(t, 2.0, ConditionNumber(bf, bf, 64))

	// Offsets into the weights shift which terms cancel.
	shifted := must.M1(compress.NewCompressedArray(compress.F32, testutil.Alternating(n+1)))
	assert.Equal(t, 2.0*float64(n-1), ConditionNumberCompressed(shifted, 1, ones, n-1))

	q := span(t, compress.Q8_0, testutil.DeterministicNoise(5, 1, 256))
	cond := ConditionNumber(q, ones, 256)
	assert.GreaterOrEqual(t, cond, 2.0)
	assert.False(t, math.IsNaN(cond))
}

func TestConditionNumberRaw(t *testing.T) {
	w := []float32{3, -1, 2, 5}
	v := []float64{1, 1, 0.5, 0}
	// |3| + |-1| + |1| over |3 - 1 + 1|.
	assert.Equal(t, 2.0*5/3, ConditionNumberRaw(&w[0], &v[0], 4))
	assert.Equal(t, ConditionNumber(compress.MakeSpan(w[1:]), compress.MakeSpan(v[1:]), 3),
		ConditionNumberRaw(&w[1], &v[1], 3))
	assert.True(t, math.IsInf(ConditionNumberRaw(&w[0], &v[0], 0), 1))
}

func TestConditionNumberMatchesExact(t *testing.T) {
	const n = 5000
	w := testutil.DeterministicNoise(31, 1, n)
	v := testutil.DeterministicNoise(32, 1, n)
	for i := range v {
		w[i] += 0.1
		v[i] += 0.1
	}

	terms := make([]float64, n)
	abs := make([]float64, n)
	for i, x := range v {
		terms[i] = float64(x)
		abs[i] = math.Abs(float64(x))
	}
	want := 2 * testutil.ExactSum(abs) / math.Abs(testutil.ExactSum(terms))
	testutil.RequireNearlyEqual(t, ConditionNumberSum(compress.MakeSpan(v), n), want, 1e-4*want)

	for i := range terms {
		terms[i] = float64(w[i]) * float64(v[i])
		abs[i] = math.Abs(terms[i])
	}
	want = 2 * testutil.ExactSum(abs) / math.Abs(testutil.ExactSum(terms))
	testutil.RequireNearlyEqual(t, ConditionNumberRaw(&w[0], &v[0], n), want, 1e-4*want)
}

func TestDotDoesNotAllocate(t *testing.T) {
	const n = 1000
	src := testutil.DeterministicNoise(41, 1, n)
	v := compress.MakeSpan(testutil.DeterministicNoise(42, 1, n))
	vBF16 := compress.MakeSpan(hwy.BFloat16s(testutil.DeterministicNoise(42, 1, n)))
	for _, enc := range compress.Encodings() {
		w := span(t, enc, src)
		for _, vs := range []compress.PackedSpan{v, vBF16} {
			name := fmt.Sprintf("%s x %s", enc, vs.Encoding())
			for _, k := range []Kernel{KernelCompensated, KernelDouble} {
				allocs := testing.AllocsPerRun(20, func() {
					DotUsing(k, hwy.FixedTag256[float32]{}, w, 3, vs, n-3)
				})
				assert.Zero(t, allocs, "%s %s", name, k)
			}
			allocs := testing.AllocsPerRun(20, func() {
				Dot(w, 0, vs, n)
				ConditionNumber(w, vs, n)
			})
			assert.Zero(t, allocs, name)
		}
	}
}

func BenchmarkDot(b *testing.B) {
	const n = 4096
	src := testutil.DeterministicNoise(1, 1, n)
	v := compress.MakeSpan(testutil.DeterministicNoise(2, 1, n))
	for _, enc := range compress.Encodings() {
		w := span(b, enc, src)
		b.Run(enc.String(), func(b *testing.B) {
			b.SetBytes(int64(n * 4))
			for b.Loop() {
				_ = Dot(w, 0, v, n)
			}
		})
	}
	bf := compress.MakeSpan(hwy.BFloat16s(src))
	b.Run("bf16xbf16", func(b *testing.B) {
		for b.Loop() {
			_ = Dot(bf, 0, bf, n)
		}
	})
}

func BenchmarkDotUsing(b *testing.B) {
	const n = 4096
	w := compress.MakeSpan(testutil.DeterministicNoise(1, 1, n))
	v := compress.MakeSpan(testutil.DeterministicNoise(2, 1, n))
	for _, k := range []Kernel{KernelCompensated, KernelDouble} {
		b.Run(k.String(), func(b *testing.B) {
			for b.Loop() {
				_ = DotUsing(k, hwy.ScalableTag[float32]{}, w, 0, v, n)
			}
		})
	}
}

func BenchmarkConditionNumber(b *testing.B) {
	const n = 4096
	w := compress.MakeSpan(testutil.DeterministicNoise(1, 1, n))
	v := compress.MakeSpan(testutil.DeterministicNoise(2, 1, n))
	for b.Loop() {
		_ = ConditionNumber(w, v, n)
	}
}
