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

package hwy

import "math"

// BFloat16 represents a Brain Float 16 (bfloat16) number.
// It has the same exponent range as float32 but reduced precision.
//
// Format: Sign (1 bit) | Exponent (8 bits) | Mantissa (7 bits)
//
//	S | EEEEEEEE | MMMMMMM
//
// BFloat16 is float32 with the lower 16 mantissa bits truncated, so widening
// is a shift and every value is exactly representable in float32 and
// float64. The product of two BFloat16 values has at most 16 significant
// bits and is therefore exact in float32.
type BFloat16 uint16

// BFloat16 constants for special values.
const (
	BFloat16Zero     BFloat16 = 0x0000 // Positive zero
	BFloat16NegZero  BFloat16 = 0x8000 // Negative zero
	BFloat16One      BFloat16 = 0x3F80 // 1.0
	BFloat16NegOne   BFloat16 = 0xBF80 // -1.0
	BFloat16MaxValue BFloat16 = 0x7F7F // ~3.39e38 (max finite value)
	BFloat16Inf      BFloat16 = 0x7F80 // Positive infinity
	BFloat16NegInf   BFloat16 = 0xFF80 // Negative infinity
	BFloat16NaN      BFloat16 = 0x7FC0 // Quiet NaN (canonical)
)

// BFloat16ToFloat32 converts a single BFloat16 to float32.
func BFloat16ToFloat32(b BFloat16) float32 {
	return math.Float32frombits(uint32(b) << 16)
}

// Float32ToBFloat16 converts a float32 to BFloat16 with round-to-nearest-even.
func Float32ToBFloat16(f float32) BFloat16 {
	bits := math.Float32bits(f)

	// NaN keeps its sign and becomes quiet.
	if bits&0x7FFFFFFF > 0x7F800000 {
		return BFloat16((bits >> 16) | 0x0040)
	}

	// Bit 15 is the first dropped bit; adding 0x7FFF plus the lowest kept
	// bit rounds half to even.
	rounding := uint32(0x7FFF) + ((bits >> 16) & 1)
	bits += rounding

	return BFloat16(bits >> 16)
}

// IsNaN returns true if b is a NaN value.
func (b BFloat16) IsNaN() bool {
	return b&0x7F80 == 0x7F80 && b&0x7F != 0
}

// IsInf returns true if b is positive or negative infinity.
func (b BFloat16) IsInf() bool {
	return b&0x7FFF == 0x7F80
}

// IsZero returns true if b is positive or negative zero.
func (b BFloat16) IsZero() bool {
	return b&0x7FFF == 0
}

// Float32 converts this BFloat16 to float32.
func (b BFloat16) Float32() float32 {
	return BFloat16ToFloat32(b)
}

// Float64 converts this BFloat16 to float64.
func (b BFloat16) Float64() float64 {
	return float64(BFloat16ToFloat32(b))
}

// NewBFloat16 creates a BFloat16 from a float32 value.
func NewBFloat16(f float32) BFloat16 {
	return Float32ToBFloat16(f)
}

// BFloat16s converts src to BFloat16 with round-to-nearest-even.
func BFloat16s(src []float32) []BFloat16 {
	dst := make([]BFloat16, len(src))
	for i, f := range src {
		dst[i] = Float32ToBFloat16(f)
	}
	return dst
}

// PromoteBF16ToF32 widens min(len(dst), len(src)) values into dst.
func PromoteBF16ToF32(dst []float32, src []BFloat16) {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = BFloat16ToFloat32(src[i])
	}
}
