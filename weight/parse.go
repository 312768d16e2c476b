// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package weight

import (
	"strconv"
	"strings"

	"github.com/vgreg/pcnn/perr"
)

// parseFloats parses the whitespace-separated row-major float32 text the
// Specified weight config carries.
func parseFloats(s string) ([]float32, error) {
	fields := strings.Fields(s)
	out := make([]float32, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return nil, perr.Wrapf(perr.ErrInvalidConfig, "weight: specified value %q: %v", f, err)
		}
		out[i] = float32(v)
	}
	return out, nil
}
