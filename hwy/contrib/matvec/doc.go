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

// Package matvec multiplies a compressed matrix by a vector, one
// compensated dot product per output row.
//
// # Matrix-Vector Product
//
//   - MatVec(m, v, out, pool): out[r] = m.Scale() * dot(row r of m, v)
//   - ConditionNumbers(m, v, out, pool): the condition number of each row
//
// The matrix is a compress.Matrix: any encoding the compress package knows,
// viewed in row-major order, with the array's scale applied to each result.
// The vector is any compress.PackedSpan of at least Cols() elements.
//
// # Parallelism
//
// Rows are independent, so with a non-nil workerpool.Pool they are split
// across the pool's workers. With a nil or closed pool they run on the
// calling goroutine. Each row's result is the same either way.
//
// # Example Usage
//
//	// 3x4 matrix:
//	//   [1 2 3 4]
//	//   [5 6 7 8]
//	//   [9 0 1 2]
//	a, _ := compress.NewCompressedArray(compress.BF16, []float32{
//	    1, 2, 3, 4,
//	    5, 6, 7, 8,
//	    9, 0, 1, 2,
//	})
//	m, _ := compress.NewMatrix(a, 3, 4)
//	v := compress.MakeSpan([]float32{1, 2, 3, 4})
//	out := make([]float32, 3)
//
//	matvec.MatVec(m, v, out, pool)
//	// out = [30, 70, 20]
package matvec
