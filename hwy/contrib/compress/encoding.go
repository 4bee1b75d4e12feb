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
	"strings"

	"github.com/pkg/errors"
	"github.com/x448/float16"

	"github.com/go-highway/compdot/hwy"
)

// Encoding identifies how the elements of a span are stored.
type Encoding uint8

const (
	// F32 is IEEE-754 single precision.
	F32 Encoding = iota
	// BF16 is bfloat16: float32 truncated to 7 mantissa bits.
	BF16
	// F64 is IEEE-754 double precision.
	F64
	// F16 is IEEE-754 half precision.
	F16
	// Q8_0 is 32-value blocks of int8 with a float16 scale.
	Q8_0
	// Q4_0 is 32-value blocks of 4-bit values with a float16 scale.
	Q4_0

	numEncodings
)

var encodingNames = [numEncodings]string{
	F32:  "f32",
	BF16: "bf16",
	F64:  "f64",
	F16:  "f16",
	Q8_0: "q8_0",
	Q4_0: "q4_0",
}

// String returns the short name of the encoding, e.g. "bf16".
func (e Encoding) String() string {
	if e < numEncodings {
		return encodingNames[e]
	}
	return "unknown"
}

// ParseEncoding is the inverse of Encoding.String. Matching ignores case.
func ParseEncoding(name string) (Encoding, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for e, n := range encodingNames {
		if n == lower {
			return Encoding(e), nil
		}
	}
	return 0, errors.Errorf("unknown encoding %q, want one of %s", name, strings.Join(encodingNames[:], ", "))
}

// Encodings returns all encodings in declaration order.
func Encodings() []Encoding {
	all := make([]Encoding, numEncodings)
	for i := range all {
		all[i] = Encoding(i)
	}
	return all
}

// IsQuantized reports whether e is a block layout.
func (e Encoding) IsQuantized() bool {
	return e == Q8_0 || e == Q4_0
}

// ElementSize returns the size in bytes of one element, or 0 for block
// layouts, whose elements are not individually addressable.
func (e Encoding) ElementSize() int {
	switch e {
	case F32:
		return 4
	case F64:
		return 8
	case BF16, F16:
		return 2
	default:
		return 0
	}
}

// ExactInFloat64 reports whether every element of e is exactly a float64
// and decoding to float64 is a plain widening.
//
// Block layouts report false: they are opaque to the dot kernels, which
// decode them through float32 lanes.
func (e Encoding) ExactInFloat64() bool {
	switch e {
	case F32, F64, BF16, F16:
		return true
	default:
		return false
	}
}

// CanDecodeToDouble is the capability predicate that selects the
// double-precision dot kernel for the operand pair (w, v).
//
// It holds when both encodings widen exactly to float64, except for the
// BF16 x BF16 pair: that pair has a dedicated compensated kernel whose
// bfloat16 products are already exact in float32.
func CanDecodeToDouble(w, v Encoding) bool {
	if !w.ExactInFloat64() || !v.ExactInFloat64() {
		return false
	}
	return w != BF16 || v != BF16
}

// Scalar is the set of Go element types a span can be built from directly.
type Scalar interface {
	float32 | float64 | hwy.BFloat16 | float16.Float16
}

// EncodingOf returns the encoding used for elements of type T.
func EncodingOf[T Scalar]() Encoding {
	var zero T
	switch any(zero).(type) {
	case float32:
		return F32
	case float64:
		return F64
	case hwy.BFloat16:
		return BF16
	default:
		return F16
	}
}
