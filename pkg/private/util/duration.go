// Copyright 2024 The mkrpki Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package util contains small helpers shared across the code base.
package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	day  = 24 * time.Hour
	week = 7 * day
	year = 365 * day
)

var units = map[string]time.Duration{
	"ns": time.Nanosecond,
	"us": time.Microsecond,
	"µs": time.Microsecond,
	"ms": time.Millisecond,
	"s":  time.Second,
	"m":  time.Minute,
	"h":  time.Hour,
	"d":  day,
	"w":  week,
	"y":  year,
}

// ParseDuration parses a duration string consisting of a decimal count and a
// single unit. In addition to the units supported by time.ParseDuration, d
// (days), w (weeks) and y (years) are understood. A bare number without a
// unit is an error.
func ParseDuration(input string) (time.Duration, error) {
	idx := strings.IndexFunc(input, func(r rune) bool {
		return !unicode.IsDigit(r) && r != '-' && r != '+'
	})
	if idx < 0 {
		return 0, fmt.Errorf("duration without unit: %q", input)
	}
	count, err := strconv.ParseInt(input[:idx], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration count: %q", input)
	}
	unit, ok := units[input[idx:]]
	if !ok {
		return 0, fmt.Errorf("invalid duration unit: %q", input)
	}
	return time.Duration(count) * unit, nil
}

// FmtDuration formats the duration using the largest unit that represents it
// exactly.
func FmtDuration(d time.Duration) string {
	switch {
	case d == 0:
		return "0s"
	case d%year == 0:
		return fmt.Sprintf("%dy", d/year)
	case d%week == 0:
		return fmt.Sprintf("%dw", d/week)
	case d%day == 0:
		return fmt.Sprintf("%dd", d/day)
	case d%time.Hour == 0:
		return fmt.Sprintf("%dh", d/time.Hour)
	case d%time.Minute == 0:
		return fmt.Sprintf("%dm", d/time.Minute)
	case d%time.Second == 0:
		return fmt.Sprintf("%ds", d/time.Second)
	case d%time.Millisecond == 0:
		return fmt.Sprintf("%dms", d/time.Millisecond)
	case d%time.Microsecond == 0:
		return fmt.Sprintf("%dus", d/time.Microsecond)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
