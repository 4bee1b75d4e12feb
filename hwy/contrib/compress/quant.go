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

package compress

import (
	"encoding/binary"
	"math"

	"github.com/x448/float16"
)

// Block sizes in bytes for the quantized encodings.
const (
	BlockSizeQ8_0 = 34 // fp16 scale (2) + 32 int8 quants
	BlockSizeQ4_0 = 18 // fp16 scale (2) + 16 nibble bytes
	QK            = 32 // Number of values per block
)

// BlockSize returns the size in bytes of one block of enc, or 0 if enc is
// not a block layout.
func BlockSize(enc Encoding) int {
	switch enc {
	case Q8_0:
		return BlockSizeQ8_0
	case Q4_0:
		return BlockSizeQ4_0
	default:
		return 0
	}
}

// NumBlocks returns the number of blocks holding num values.
func NumBlocks(num int) int {
	return (num + QK - 1) / QK
}

// blockScale reads the little-endian float16 scale at the start of a block.
func blockScale(blk []byte) float32 {
	return float16.Frombits(binary.LittleEndian.Uint16(blk)).Float32()
}

func putBlockScale(blk []byte, d float32) {
	binary.LittleEndian.PutUint16(blk, float16.Fromfloat32(d).Bits())
}

// nibble returns the 4-bit code of value k (0..31) in the packed bytes qs.
func nibble(qs []byte, k int) int {
	if k < QK/2 {
		return int(qs[k] & 0x0F)
	}
	return int(qs[k-QK/2] >> 4)
}

// QuantizeQ8_0 encodes src as Q8_0 blocks. A partial last block is padded
// with zeros.
//
// For each block of 32 values:
//
//	d = max(|x|) / 127
//	q = round(x / d) clamped to [-128, 127]
func QuantizeQ8_0(src []float32) []byte {
	nblocks := NumBlocks(len(src))
	out := make([]byte, nblocks*BlockSizeQ8_0)
	var x [QK]float32
	for b := range nblocks {
		clear(x[:])
		copy(x[:], src[b*QK:])
		blk := out[b*BlockSizeQ8_0 : (b+1)*BlockSizeQ8_0]

		var amax float32
		for _, v := range x {
			amax = max(amax, float32(math.Abs(float64(v))))
		}
		d := amax / 127
		var id float32
		if d > 0 {
			id = 127 / amax
		}
		putBlockScale(blk, d)

		qs := blk[2:]
		for i, v := range x {
			q := math.Round(float64(v * id))
			qs[i] = uint8(int8(max(-128, min(127, q))))
		}
	}
	return out
}

// QuantizeQ4_0 encodes src as Q4_0 blocks. A partial last block is padded
// with zeros.
//
// For each block of 32 values, m is the value of largest magnitude
// (keeping its sign):
//
//	d = m / -8
//	q = trunc(x/d + 8.5) clamped to [0, 15]
func QuantizeQ4_0(src []float32) []byte {
	nblocks := NumBlocks(len(src))
	out := make([]byte, nblocks*BlockSizeQ4_0)
	var x [QK]float32
	for b := range nblocks {
		clear(x[:])
		copy(x[:], src[b*QK:])
		blk := out[b*BlockSizeQ4_0 : (b+1)*BlockSizeQ4_0]

		var amax, m float32
		for _, v := range x {
			if a := float32(math.Abs(float64(v))); a > amax {
				amax = a
				m = v
			}
		}
		d := m / -8
		var id float32
		if d != 0 {
			id = 1 / d
		}
		putBlockScale(blk, d)

		qs := blk[2:]
		for j := range QK / 2 {
			lo := min(15, int8(x[j]*id+8.5))
			hi := min(15, int8(x[j+QK/2]*id+8.5))
			qs[j] = uint8(lo) | uint8(hi)<<4
		}
	}
	return out
}
