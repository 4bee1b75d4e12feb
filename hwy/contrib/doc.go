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

// Package contrib groups the feature packages built on the hwy core.
//
// # Subpackages
//
//   - fparith: error-free transforms (TwoSum, TwoProduct) and cascaded sums
//   - compress: encodings, packed spans, decoding and block quantization
//   - dot: compensated dot products and the condition number diagnostic
//   - matvec: row-parallel matrix-vector products over compressed matrices
//   - workerpool: the persistent worker pool matvec runs rows on
//
// # Dot Products (hwy/contrib/dot)
//
//	import "github.com/go-highway/compdot/hwy/contrib/dot"
//
//	w := compress.MakeSpan(weights)         // []hwy.BFloat16
//	v := compress.MakeSpan(activations)     // []float32
//	y := dot.Dot(w, 0, v, len(activations))
//
// # Matrix-Vector Products (hwy/contrib/matvec)
//
//	pool := workerpool.New(0)
//	defer pool.Close()
//	matvec.MatVec(m, v, out, pool)
package contrib
