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

package matvec

import (
	"k8s.io/klog/v2"

	"github.com/go-highway/compdot/hwy/contrib/compress"
	"github.com/go-highway/compdot/hwy/contrib/dot"
	"github.com/go-highway/compdot/hwy/contrib/workerpool"
)

// MatVec computes out[r] = m.Scale() * dot(row r of m, v[:m.Cols()]) for
// every row r.
//
// Panics if:
//   - v.Len() < m.Cols()
//   - len(out) < m.Rows()
func MatVec(m *compress.Matrix, v compress.PackedSpan, out []float32, pool *workerpool.Pool) {
	if v.Len() < m.Cols() {
		panic("vector slice too small")
	}
	if len(out) < m.Rows() {
		panic("result slice too small")
	}

	rows := func(start, end int) {
		for r := start; r < end; r++ {
			out[r] = dot.DotCompressed(m.CompressedArray, m.RowOffset(r), v, m.Cols())
		}
	}
	if sequential(pool, "MatVec", m) {
		rows(0, m.Rows())
		return
	}
	pool.ParallelFor(m.Rows(), rows)
}

// ConditionNumbers computes out[r] = dot.ConditionNumber of row r of m and
// v. The matrix scale does not affect the condition number.
//
// Panics if:
//   - v.Len() < m.Cols()
//   - len(out) < m.Rows()
func ConditionNumbers(m *compress.Matrix, v compress.PackedSpan, out []float64, pool *workerpool.Pool) {
	if v.Len() < m.Cols() {
		panic("vector slice too small")
	}
	if len(out) < m.Rows() {
		panic("result slice too small")
	}

	row := func(r int) {
		out[r] = dot.ConditionNumberCompressed(m.CompressedArray, m.RowOffset(r), v, m.Cols())
	}
	if sequential(pool, "ConditionNumbers", m) {
		for r := range m.Rows() {
			row(r)
		}
		return
	}
	pool.ParallelForAtomic(m.Rows(), row)
}

func sequential(pool *workerpool.Pool, op string, m *compress.Matrix) bool {
	if pool == nil || pool.Closed() {
		klog.V(2).Infof("matvec: %s over %dx%d %s matrix (%d bytes) runs sequentially",
			op, m.Rows(), m.Cols(), m.Encoding(), m.Span().SizeBytes())
		return true
	}
	return false
}
