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
	"unsafe"

	"github.com/pkg/errors"
	"github.com/x448/float16"

	"github.com/go-highway/compdot/hwy"
)

// PackedSpan is a non-owning view over num encoded elements.
//
// The zero value is an empty F32 span. Spans are cheap to copy and are
// passed by value; the memory they point to must stay unmodified while a
// decode or dot product reads it.
type PackedSpan struct {
	data unsafe.Pointer
	num  int
	enc  Encoding
}

// MakeSpan returns a span over the elements of s.
func MakeSpan[T Scalar](s []T) PackedSpan {
	return PackedSpan{
		data: unsafe.Pointer(unsafe.SliceData(s)),
		num:  len(s),
		enc:  EncodingOf[T](),
	}
}

// MakeSpanFromPointer returns a span over num elements of type T starting at
// p. Nothing is checked: the caller guarantees that num elements are valid.
func MakeSpanFromPointer[T Scalar](p *T, num int) PackedSpan {
	return PackedSpan{data: unsafe.Pointer(p), num: num, enc: EncodingOf[T]()}
}

// MakeQuantizedSpan returns a span over num elements stored as blocks of
// the quantized encoding enc.
func MakeQuantizedSpan(enc Encoding, blocks []byte, num int) (PackedSpan, error) {
	if !enc.IsQuantized() {
		return PackedSpan{}, errors.Errorf("encoding %s is not a block layout", enc)
	}
	if num < 0 {
		return PackedSpan{}, errors.Errorf("negative element count %d", num)
	}
	need := NumBlocks(num) * BlockSize(enc)
	if len(blocks) < need {
		return PackedSpan{}, errors.Errorf("%d %s elements need %d bytes, got %d", num, enc, need, len(blocks))
	}
	return PackedSpan{data: unsafe.Pointer(unsafe.SliceData(blocks)), num: num, enc: enc}, nil
}

// Len returns the number of elements in the span.
func (s PackedSpan) Len() int {
	return s.num
}

// Encoding returns how the span's elements are stored.
func (s PackedSpan) Encoding() Encoding {
	return s.enc
}

// SizeBytes returns the number of bytes the span's elements occupy,
// including whole trailing blocks of quantized encodings.
func (s PackedSpan) SizeBytes() int {
	if s.enc.IsQuantized() {
		return NumBlocks(s.num) * BlockSize(s.enc)
	}
	return s.num * s.enc.ElementSize()
}

// Value decodes the single element i to float64. It is meant for
// references and debugging, not for inner loops.
func (s PackedSpan) Value(i int) float64 {
	switch s.enc {
	case F32:
		return float64(s.f32()[i])
	case F64:
		return s.f64()[i]
	case BF16:
		return s.bf16()[i].Float64()
	case F16:
		return float64(s.f16()[i].Float32())
	case Q8_0:
		blk := s.blocks()[(i/QK)*BlockSizeQ8_0:]
		return float64(blockScale(blk)) * float64(int8(blk[2+i%QK]))
	case Q4_0:
		blk := s.blocks()[(i/QK)*BlockSizeQ4_0:]
		return float64(blockScale(blk)) * float64(nibble(blk[2:], i%QK)-8)
	default:
		panic(errors.Errorf("invalid encoding %d", s.enc))
	}
}

func (s PackedSpan) f32() []float32 {
	return unsafe.Slice((*float32)(s.data), s.num)
}

func (s PackedSpan) f64() []float64 {
	return unsafe.Slice((*float64)(s.data), s.num)
}

func (s PackedSpan) bf16() []hwy.BFloat16 {
	return unsafe.Slice((*hwy.BFloat16)(s.data), s.num)
}

func (s PackedSpan) f16() []float16.Float16 {
	return unsafe.Slice((*float16.Float16)(s.data), s.num)
}

func (s PackedSpan) blocks() []byte {
	return unsafe.Slice((*byte)(s.data), s.SizeBytes())
}
