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

package util_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpkimake/mkrpki/pkg/private/util"
)

func TestParseDuration(t *testing.T) {
	testCases := map[string]struct {
		Input        string
		Expected     time.Duration
		ErrAssertion assert.ErrorAssertionFunc
	}{
		"seconds": {
			Input:        "30s",
			Expected:     30 * time.Second,
			ErrAssertion: assert.NoError,
		},
		"hours": {
			Input:        "12h",
			Expected:     12 * time.Hour,
			ErrAssertion: assert.NoError,
		},
		"days": {
			Input:        "10d",
			Expected:     10 * 24 * time.Hour,
			ErrAssertion: assert.NoError,
		},
		"weeks": {
			Input:        "2w",
			Expected:     2 * 7 * 24 * time.Hour,
			ErrAssertion: assert.NoError,
		},
		"years": {
			Input:        "1y",
			Expected:     365 * 24 * time.Hour,
			ErrAssertion: assert.NoError,
		},
		"negative": {
			Input:        "-5m",
			Expected:     -5 * time.Minute,
			ErrAssertion: assert.NoError,
		},
		"zero": {
			Input:        "0s",
			Expected:     0,
			ErrAssertion: assert.NoError,
		},
		"bare number": {
			Input:        "42",
			ErrAssertion: assert.Error,
		},
		"unknown unit": {
			Input:        "3fortnights",
			ErrAssertion: assert.Error,
		},
		"missing count": {
			Input:        "d",
			ErrAssertion: assert.Error,
		},
		"empty": {
			Input:        "",
			ErrAssertion: assert.Error,
		},
		"fractional": {
			Input:        "1.5h",
			ErrAssertion: assert.Error,
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			d, err := util.ParseDuration(tc.Input)
			tc.ErrAssertion(t, err)
			if err != nil {
				return
			}
			assert.Equal(t, tc.Expected, d)
		})
	}
}

func TestFmtDuration(t *testing.T) {
	testCases := map[string]struct {
		Input    time.Duration
		Expected string
	}{
		"zero":         {Input: 0, Expected: "0s"},
		"years":        {Input: 2 * 365 * 24 * time.Hour, Expected: "2y"},
		"weeks":        {Input: 3 * 7 * 24 * time.Hour, Expected: "3w"},
		"days":         {Input: 90 * 24 * time.Hour, Expected: "90d"},
		"hours":        {Input: 36 * time.Hour, Expected: "36h"},
		"minutes":      {Input: 90 * time.Minute, Expected: "90m"},
		"seconds":      {Input: 61 * time.Second, Expected: "61s"},
		"milliseconds": {Input: 1500 * time.Millisecond, Expected: "1500ms"},
		"nanoseconds":  {Input: 1001, Expected: "1001ns"},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.Expected, util.FmtDuration(tc.Input))
		})
	}
}

func TestDurWrapRoundTrip(t *testing.T) {
	var d util.DurWrap
	require.NoError(t, d.UnmarshalText([]byte("3d")))
	assert.Equal(t, 3*24*time.Hour, d.Duration)

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "3d", string(text))
	assert.Equal(t, "3d", d.String())
}
