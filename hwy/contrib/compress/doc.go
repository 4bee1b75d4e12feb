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

// Package compress describes how dot-product operands are stored and
// decodes them into float32, float64 or bfloat16 lanes on demand.
//
// # Encodings
//
// The set of encodings is closed:
//   - F32, F64: IEEE single and double precision
//   - BF16: bfloat16 (hwy.BFloat16)
//   - F16: IEEE half precision (github.com/x448/float16)
//   - Q8_0: blocks of 32 int8 values sharing a float16 scale (34 bytes)
//   - Q4_0: blocks of 32 4-bit values sharing a float16 scale (18 bytes)
//
// The block layouts are the GGUF ones: value = d*q for Q8_0 and
// value = d*(nibble-8) for Q4_0, where the low nibbles of the 16 packed
// bytes hold values 0..15 of the block and the high nibbles values 16..31.
//
// # Spans
//
// A PackedSpan is a non-owning view over encoded elements. Offsets are
// element indices and may fall anywhere, including inside a quantized block:
//
//	w := compress.MakeSpan(weights)             // []hwy.BFloat16
//	buf := make([]float32, 16)
//	vals := compress.DecodeF32(w, 128, buf)     // elements 128..143
//
// Decode functions never allocate. When the span already holds the requested
// lane type the returned slice aliases the span; otherwise it is buf.
//
// # Scaled arrays
//
// CompressedArray owns its encoded storage and carries a scale factor that
// consumers multiply into results computed from the decoded values.
package compress
