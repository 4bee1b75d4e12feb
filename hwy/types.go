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

// Package hwy holds the small portable core shared by the contrib packages:
// the runtime vector width, vector-size tags and the lane element types.
//
// Kernels in hwy/contrib are written against an abstract group width B,
// the number of lanes of a given element type that fit in one register of
// the selected target. B is derived once per call from a Tag:
//
//	d := hwy.ScalableTag[float32]{}
//	lanes := hwy.LanesOf[float32](d) // 4 for sse2/neon, 8 for avx2, 16 for avx512
//
// Code must stay correct for any B >= 1, so tests also run kernels with
// narrow custom tags.
package hwy

// Floats is a constraint for floating-point types.
type Floats interface {
	~float32 | ~float64
}

// SignedInts is a constraint for signed integer types.
type SignedInts interface {
	~int8 | ~int16 | ~int32 | ~int64
}

// UnsignedInts is a constraint for unsigned integer types.
type UnsignedInts interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Integers is a constraint for all integer types.
type Integers interface {
	SignedInts | UnsignedInts
}

// Lanes is a constraint for all types that can be stored in SIMD lanes.
// BFloat16 qualifies through its uint16 representation.
type Lanes interface {
	Floats | Integers
}

// MaxWidth is the widest register, in bytes, any dispatch level selects
// (AVX-512). Kernels size their stack scratch buffers with it.
const MaxWidth = 64

// MaxLanesOf returns how many lanes of T fit in a MaxWidth register.
func MaxLanesOf[T Lanes]() int {
	return MaxWidth / sizeOf[T]()
}
