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
	"github.com/go-highway/compdot/hwy/contrib/fparith"
)

// compensatedKernel multiplies float32 lanes with TwoProduct and adds the
// products with TwoSum; the compensation collects both errors.
type compensatedKernel struct{}

func (compensatedKernel) lanes(d hwy.Tag) (raw, state int) {
	n := hwy.LanesOf[float32](d)
	return n, n
}

func (compensatedKernel) decode(s compress.PackedSpan, ofs int, buf []float32) []float32 {
	return compress.DecodeF32(s, ofs, buf)
}

func (compensatedKernel) decodeAndZeroPad(s compress.PackedSpan, ofs int, buf []float32, num int) {
	compress.DecodeF32AndZeroPad(s, ofs, buf, num)
}

func (k compensatedKernel) update4(w, v []float32, raw, state int, acc *accumulators[float32]) {
	for c := range numChains {
		k.update(w[c*raw:(c+1)*raw], v[c*raw:(c+1)*raw], acc.sum[c][:state], acc.comp[c][:state])
	}
}

func (k compensatedKernel) update1(w, v []float32, state int, acc *accumulators[float32]) {
	k.update(w, v, acc.sum[0][:state], acc.comp[0][:state])
}

func (compensatedKernel) update(w, v, sum, comp []float32) {
	w = w[:len(sum)]
	v = v[:len(sum)]
	comp = comp[:len(sum)]
	for i := range sum {
		prod, perr := fparith.TwoProduct(w[i], v[i])
		s, serr := fparith.TwoSum(prod, sum[i])
		sum[i] = s
		comp[i] += perr + serr
	}
}

func (compensatedKernel) reduce(acc *accumulators[float32], state int) float32 {
	return reduceCascaded(acc, state)
}

// compensatedBF16Kernel handles bfloat16 x bfloat16. Each float32 lane
// receives the sum of two adjacent bfloat16 products, as a widening
// pairwise multiply-add would. A bfloat16 product has at most 16
// significant bits and is exact in float32, so TwoProduct is skipped; only
// the rounding of the pair sum and the summation error (tracked with
// TwoSum) remain.
type compensatedBF16Kernel struct{}

func (compensatedBF16Kernel) lanes(d hwy.Tag) (raw, state int) {
	n := hwy.LanesOf[float32](d)
	return 2 * n, n
}

func (compensatedBF16Kernel) decode(s compress.PackedSpan, ofs int, buf []hwy.BFloat16) []hwy.BFloat16 {
	return compress.DecodeBF16(s, ofs, buf)
}

func (compensatedBF16Kernel) decodeAndZeroPad(s compress.PackedSpan, ofs int, buf []hwy.BFloat16, num int) {
	compress.DecodeBF16AndZeroPad(s, ofs, buf, num)
}

func (k compensatedBF16Kernel) update4(w, v []hwy.BFloat16, raw, state int, acc *accumulators[float32]) {
	for c := range numChains {
		k.update(w[c*raw:(c+1)*raw], v[c*raw:(c+1)*raw], acc.sum[c][:state], acc.comp[c][:state])
	}
}

func (k compensatedBF16Kernel) update1(w, v []hwy.BFloat16, state int, acc *accumulators[float32]) {
	k.update(w, v, acc.sum[0][:state], acc.comp[0][:state])
}

func (compensatedBF16Kernel) update(w, v []hwy.BFloat16, sum, comp []float32) {
	w = w[:2*len(sum)]
	v = v[:2*len(sum)]
	comp = comp[:len(sum)]
	for i := range sum {
		prod := widenMulPairwiseAdd(w[2*i], v[2*i], w[2*i+1], v[2*i+1])
		s, serr := fparith.TwoSum(prod, sum[i])
		sum[i] = s
		comp[i] += serr
	}
}

func (compensatedBF16Kernel) reduce(acc *accumulators[float32], state int) float32 {
	return reduceCascaded(acc, state)
}

// widenMulPairwiseAdd returns w0*v0 + w1*v1 in float32. Both products are
// exact; only the addition rounds.
func widenMulPairwiseAdd(w0, v0, w1, v1 hwy.BFloat16) float32 {
	p0 := float32(w0.Float32() * v0.Float32())
	p1 := float32(w1.Float32() * v1.Float32())
	return p0 + p1
}

// reduceCascaded merges chain 1 into 0 and 3 into 2, then 2 into 0, and
// reduces chain 0 across lanes.
func reduceCascaded(acc *accumulators[float32], state int) float32 {
	fparith.MergeLanes(acc.sum[0][:state], acc.comp[0][:state], acc.sum[1][:state], acc.comp[1][:state])
	fparith.MergeLanes(acc.sum[2][:state], acc.comp[2][:state], acc.sum[3][:state], acc.comp[3][:state])
	fparith.MergeLanes(acc.sum[0][:state], acc.comp[0][:state], acc.sum[2][:state], acc.comp[2][:state])
	return fparith.ReduceLanes(acc.sum[0][:state], acc.comp[0][:state])
}
