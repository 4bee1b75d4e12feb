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

package dot

import "github.com/go-highway/compdot/hwy/contrib/compress"

// DotBatch computes multiple dot products.
// For each i, computes the dot product of ws[i] and vs[i] over their common
// length.
//
// Returns a slice of results with length min(len(ws), len(vs)).
func DotBatch(ws, vs []compress.PackedSpan) []float32 {
	n := min(len(ws), len(vs))
	results := make([]float32, n)

	for i := 0; i < n; i++ {
		results[i] = Dot(ws[i], 0, vs[i], min(ws[i].Len(), vs[i].Len()))
	}

	return results
}
