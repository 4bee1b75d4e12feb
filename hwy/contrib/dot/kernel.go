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

import (
	"github.com/go-highway/compdot/hwy"
	"github.com/go-highway/compdot/hwy/contrib/compress"
)

// Kernel selects the accumulation strategy of a dot product.
type Kernel int

const (
	// KernelCompensated accumulates float32 lanes as cascaded sums.
	KernelCompensated Kernel = iota

	// KernelDouble widens both operands to float64 and uses plain FMA.
	KernelDouble
)

// String returns the kernel name.
func (k Kernel) String() string {
	switch k {
	case KernelCompensated:
		return "compensated"
	case KernelDouble:
		return "double"
	default:
		return "unknown"
	}
}

// KernelFor returns the default kernel for weights encoded as w and vectors
// encoded as v: KernelDouble iff compress.CanDecodeToDouble(w, v).
func KernelFor(w, v compress.Encoding) Kernel {
	if compress.CanDecodeToDouble(w, v) {
		return KernelDouble
	}
	return KernelCompensated
}

// Each kernel type has the same unexported method set: lanes, decode,
// decodeAndZeroPad, update4, update1 and reduce. A group holds the kernel's
// raw lanes and produces its state lanes. update4 consumes four consecutive
// groups, one per chain; update1 consumes one group into chain 0.

const (
	// numChains is the number of independent accumulators. Four chains
	// hide the latency of each sum's dependency on its previous value.
	numChains = 4

	// maxRawLanes bounds the group width of the narrowest lane type (bf16).
	maxRawLanes = hwy.MaxWidth / 2

	// maxStateLanes bounds the group width of float32 accumulators; float64
	// accumulators use at most half of it.
	maxStateLanes = hwy.MaxWidth / 4
)

// accumulators holds the (sum, compensation) pairs of all chains. Only the
// first stateLanes lanes of each are live.
type accumulators[S hwy.Floats] struct {
	sum  [numChains][maxStateLanes]S
	comp [numChains][maxStateLanes]S
}
