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
	"math"

	"github.com/pkg/errors"
	"github.com/x448/float16"
	"k8s.io/klog/v2"

	"github.com/go-highway/compdot/hwy"
)

// maxFloat16 is the largest finite float16 value.
const maxFloat16 = 65504

// CompressedArray owns encoded storage plus a scale factor.
//
// The decoded elements times Scale() approximate the original values. The
// scale is applied to results computed from the decoded elements, never to
// the elements themselves.
type CompressedArray struct {
	span  PackedSpan
	scale float32

	// storage keeps the encoded memory reachable from the array.
	storage any
}

// NewCompressedArray encodes src with enc.
//
// F16 arrays whose largest magnitude exceeds the float16 range are divided
// by a common factor before encoding, and that factor becomes the scale.
// All other encodings have scale 1.
func NewCompressedArray(enc Encoding, src []float32) (*CompressedArray, error) {
	a := &CompressedArray{scale: 1}
	switch enc {
	case F32:
		data := make([]float32, len(src))
		copy(data, src)
		a.storage, a.span = data, MakeSpan(data)
	case F64:
		data := make([]float64, len(src))
		for i, x := range src {
			data[i] = float64(x)
		}
		a.storage, a.span = data, MakeSpan(data)
	case BF16:
		data := hwy.BFloat16s(src)
		a.storage, a.span = data, MakeSpan(data)
	case F16:
		var amax float32
		for _, x := range src {
			amax = max(amax, float32(math.Abs(float64(x))))
		}
		inv := float32(1)
		if amax > maxFloat16 {
			a.scale = amax / maxFloat16
			inv = maxFloat16 / amax
			klog.V(1).Infof("compress: rescaling %d f16 values by %g (max magnitude %g)", len(src), a.scale, amax)
		}
		data := make([]float16.Float16, len(src))
		for i, x := range src {
			data[i] = float16.Fromfloat32(x * inv)
		}
		a.storage, a.span = data, MakeSpan(data)
	case Q8_0, Q4_0:
		var blocks []byte
		if enc == Q8_0 {
			blocks = QuantizeQ8_0(src)
		} else {
			blocks = QuantizeQ4_0(src)
		}
		span, err := MakeQuantizedSpan(enc, blocks, len(src))
		if err != nil {
			return nil, errors.Wrapf(err, "encoding %d values", len(src))
		}
		a.storage, a.span = blocks, span
	default:
		return nil, errors.Errorf("cannot compress to encoding %s", enc)
	}
	return a, nil
}

// NewScaledArray wraps an existing span. The caller keeps the span's memory
// alive and unmodified for the lifetime of the array.
func NewScaledArray(span PackedSpan, scale float32) *CompressedArray {
	return &CompressedArray{span: span, scale: scale}
}

// Span returns the encoded elements.
func (a *CompressedArray) Span() PackedSpan {
	return a.span
}

// Len returns the number of elements.
func (a *CompressedArray) Len() int {
	return a.span.num
}

// Encoding returns the element encoding.
func (a *CompressedArray) Encoding() Encoding {
	return a.span.enc
}

// Scale returns the factor to multiply into results.
func (a *CompressedArray) Scale() float32 {
	return a.scale
}

// SetScale replaces the scale factor.
func (a *CompressedArray) SetScale(scale float32) {
	a.scale = scale
}

// Matrix is a CompressedArray viewed as rows x cols in row-major order.
type Matrix struct {
	*CompressedArray
	rows, cols int
}

// NewMatrix views a as a rows x cols matrix.
func NewMatrix(a *CompressedArray, rows, cols int) (*Matrix, error) {
	if rows < 0 || cols < 0 {
		return nil, errors.Errorf("invalid matrix shape %dx%d", rows, cols)
	}
	if a.Len() < rows*cols {
		return nil, errors.Errorf("matrix %dx%d needs %d elements, array has %d", rows, cols, rows*cols, a.Len())
	}
	return &Matrix{CompressedArray: a, rows: rows, cols: cols}, nil
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int {
	return m.rows
}

// Cols returns the number of columns.
func (m *Matrix) Cols() int {
	return m.cols
}

// RowOffset returns the element offset of row r.
func (m *Matrix) RowOffset(r int) int {
	return r * m.cols
}
