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
	"github.com/pkg/errors"

	"github.com/go-highway/compdot/hwy"
)

// chunk is the stack buffer size used when a conversion needs an
// intermediate float32 step.
const chunk = 64

// DecodeF32 decodes len(buf) elements of s starting at element ofs.
//
// If s already holds float32 the result aliases s and buf is untouched;
// otherwise the values are written to buf and buf is returned. The caller
// guarantees ofs+len(buf) <= s.Len().
func DecodeF32(s PackedSpan, ofs int, buf []float32) []float32 {
	if s.enc == F32 {
		return s.f32()[ofs : ofs+len(buf)]
	}
	decodeF32(s, ofs, buf)
	return buf
}

// DecodeF64 is DecodeF32 for float64 lanes.
func DecodeF64(s PackedSpan, ofs int, buf []float64) []float64 {
	if s.enc == F64 {
		return s.f64()[ofs : ofs+len(buf)]
	}
	decodeF64(s, ofs, buf)
	return buf
}

// DecodeBF16 is DecodeF32 for bfloat16 lanes. Wider encodings are rounded
// to nearest even.
func DecodeBF16(s PackedSpan, ofs int, buf []hwy.BFloat16) []hwy.BFloat16 {
	if s.enc == BF16 {
		return s.bf16()[ofs : ofs+len(buf)]
	}
	decodeBF16(s, ofs, buf)
	return buf
}

// DecodeF32AndZeroPad decodes num elements of s starting at ofs into
// buf[:num] and zeroes buf[num:]. Always writes to buf, also for float32
// spans, so that buf can be consumed in whole groups.
func DecodeF32AndZeroPad(s PackedSpan, ofs int, buf []float32, num int) {
	if s.enc == F32 {
		copy(buf[:num], s.f32()[ofs:ofs+num])
	} else {
		decodeF32(s, ofs, buf[:num])
	}
	clear(buf[num:])
}

// DecodeF64AndZeroPad is DecodeF32AndZeroPad for float64 lanes.
func DecodeF64AndZeroPad(s PackedSpan, ofs int, buf []float64, num int) {
	if s.enc == F64 {
		copy(buf[:num], s.f64()[ofs:ofs+num])
	} else {
		decodeF64(s, ofs, buf[:num])
	}
	clear(buf[num:])
}

// DecodeBF16AndZeroPad is DecodeF32AndZeroPad for bfloat16 lanes.
func DecodeBF16AndZeroPad(s PackedSpan, ofs int, buf []hwy.BFloat16, num int) {
	if s.enc == BF16 {
		copy(buf[:num], s.bf16()[ofs:ofs+num])
	} else {
		decodeBF16(s, ofs, buf[:num])
	}
	clear(buf[num:])
}

func decodeF32(s PackedSpan, ofs int, dst []float32) {
	switch s.enc {
	case F32:
		copy(dst, s.f32()[ofs:ofs+len(dst)])
	case F64:
		for i, x := range s.f64()[ofs : ofs+len(dst)] {
			dst[i] = float32(x)
		}
	case BF16:
		hwy.PromoteBF16ToF32(dst, s.bf16()[ofs:ofs+len(dst)])
	case F16:
		for i, x := range s.f16()[ofs : ofs+len(dst)] {
			dst[i] = x.Float32()
		}
	case Q8_0:
		decodeQ8_0(s.blocks(), ofs, dst)
	case Q4_0:
		decodeQ4_0(s.blocks(), ofs, dst)
	default:
		panic(errors.Errorf("invalid encoding %d", s.enc))
	}
}

func decodeF64(s PackedSpan, ofs int, dst []float64) {
	switch s.enc {
	case F64:
		copy(dst, s.f64()[ofs:ofs+len(dst)])
	case F32:
		for i, x := range s.f32()[ofs : ofs+len(dst)] {
			dst[i] = float64(x)
		}
	case BF16:
		for i, x := range s.bf16()[ofs : ofs+len(dst)] {
			dst[i] = x.Float64()
		}
	default:
		// Everything else decodes exactly through float32.
		var tmp [chunk]float32
		for i := 0; i < len(dst); i += chunk {
			n := min(chunk, len(dst)-i)
			decodeF32(s, ofs+i, tmp[:n])
			for j, x := range tmp[:n] {
				dst[i+j] = float64(x)
			}
		}
	}
}

func decodeBF16(s PackedSpan, ofs int, dst []hwy.BFloat16) {
	if s.enc == BF16 {
		copy(dst, s.bf16()[ofs:ofs+len(dst)])
		return
	}
	var tmp [chunk]float32
	for i := 0; i < len(dst); i += chunk {
		n := min(chunk, len(dst)-i)
		decodeF32(s, ofs+i, tmp[:n])
		for j, x := range tmp[:n] {
			dst[i+j] = hwy.Float32ToBFloat16(x)
		}
	}
}

// decodeQ8_0 decodes len(dst) values starting at element ofs, which may be
// inside a block. The scale is read once per block touched.
func decodeQ8_0(blocks []byte, ofs int, dst []float32) {
	for i := 0; i < len(dst); {
		pos := ofs + i
		blk := blocks[(pos/QK)*BlockSizeQ8_0:]
		d := blockScale(blk)
		qs := blk[2 : 2+QK]
		for k := pos % QK; k < QK && i < len(dst); k++ {
			dst[i] = d * float32(int8(qs[k]))
			i++
		}
	}
}

// decodeQ4_0 is decodeQ8_0 for 4-bit blocks.
func decodeQ4_0(blocks []byte, ofs int, dst []float32) {
	for i := 0; i < len(dst); {
		pos := ofs + i
		blk := blocks[(pos/QK)*BlockSizeQ4_0:]
		d := blockScale(blk)
		qs := blk[2 : 2+QK/2]
		for k := pos % QK; k < QK && i < len(dst); k++ {
			dst[i] = d * float32(nibble(qs, k)-8)
			i++
		}
	}
}
