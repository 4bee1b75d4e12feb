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
)

// doubleKernel promotes to float64 and accumulates with FMA. float64 has
// enough headroom over the float32 result that no compensation is needed.
// It runs at about half the lane rate of the float32 kernels.
type doubleKernel struct{}

func (doubleKernel) lanes(d hwy.Tag) (raw, state int) {
	n := hwy.LanesOf[float64](d)
	return n, n
}

func (doubleKernel) decode(s compress.PackedSpan, ofs int, buf []float64) []float64 {
	return compress.DecodeF64(s, ofs, buf)
}

func (doubleKernel) decodeAndZeroPad(s compress.PackedSpan, ofs int, buf []float64, num int) {
	compress.DecodeF64AndZeroPad(s, ofs, buf, num)
}

func (doubleKernel) update4(w, v []float64, raw, _ int, acc *accumulators[float64]) {
	for c := range numChains {
		wc := w[c*raw : (c+1)*raw]
		vc := v[c*raw : (c+1)*raw]
		sum := acc.sum[c][:raw]
		for i := range sum {
			sum[i] = math.FMA(wc[i], vc[i], sum[i])
		}
	}
}

func (doubleKernel) update1(w, v []float64, state int, acc *accumulators[float64]) {
	sum := acc.sum[0][:state]
	w = w[:state]
	v = v[:state]
	for i := range sum {
		sum[i] = math.FMA(w[i], v[i], sum[i])
	}
}

// reduce adds the chains pairwise, then the lanes, and rounds once to float32.
func (doubleKernel) reduce(acc *accumulators[float64], state int) float32 {
	s0 := acc.sum[0][:state]
	s1 := acc.sum[1][:state]
	s2 := acc.sum[2][:state]
	s3 := acc.sum[3][:state]
	var total float64
	for i := range s0 {
		total += (s0[i] + s1[i]) + (s2[i] + s3[i])
	}
	return float32(total)
}
