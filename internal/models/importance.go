// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Importance is a numeric ranking used to order listings. Hand-edited JSON
// files carry it either as a number or as a numeric string, so decoding
// accepts both and falls back to zero for anything else, including NaN and
// the infinities.
type Importance float64

// UnmarshalJSON implements json.Unmarshaler.
func (i *Importance) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*i = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			*i = 0
			return nil
		}
		*i = finite(f)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		*i = 0
		return nil
	}
	*i = finite(f)
	return nil
}

func finite(f float64) Importance {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return Importance(f)
}
