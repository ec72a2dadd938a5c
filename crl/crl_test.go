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

package crl

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpkimake/mkrpki/pkg/scrypto/rpki"
)

func TestParseEntries(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	testCases := map[string]struct {
		Values       []string
		Expected     []rpki.CRLEntry
		ErrAssertion assert.ErrorAssertionFunc
	}{
		"empty": {
			Values:       nil,
			Expected:     nil,
			ErrAssertion: assert.NoError,
		},
		"bare serial": {
			Values: []string{"12"},
			Expected: []rpki.CRLEntry{
				{Serial: big.NewInt(12), RevocationTime: now},
			},
			ErrAssertion: assert.NoError,
		},
		"serial with time": {
			Values: []string{"13@2024-05-01T00:00:00Z"},
			Expected: []rpki.CRLEntry{
				{
					Serial:         big.NewInt(13),
					RevocationTime: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
				},
			},
			ErrAssertion: assert.NoError,
		},
		"hex serial": {
			Values: []string{"0xff"},
			Expected: []rpki.CRLEntry{
				{Serial: big.NewInt(255), RevocationTime: now},
			},
			ErrAssertion: assert.NoError,
		},
		"order preserved": {
			Values: []string{"2", "1"},
			Expected: []rpki.CRLEntry{
				{Serial: big.NewInt(2), RevocationTime: now},
				{Serial: big.NewInt(1), RevocationTime: now},
			},
			ErrAssertion: assert.NoError,
		},
		"bad serial": {
			Values:       []string{"twelve"},
			ErrAssertion: assert.Error,
		},
		"bad time": {
			Values:       []string{"12@tomorrow"},
			ErrAssertion: assert.Error,
		},
		"empty time": {
			Values:       []string{"12@"},
			ErrAssertion: assert.Error,
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			entries, err := parseEntries(tc.Values, now)
			tc.ErrAssertion(t, err)
			if err != nil {
				assert.ErrorIs(t, err, rpki.ErrParse)
				return
			}
			assert.Equal(t, tc.Expected, entries)
		})
	}
}

func TestParseEntriesTruncates(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 123456789, time.UTC)
	entries, err := parseEntries([]string{"1"}, now)
	require.NoError(t, err)
	assert.Equal(t, now.Truncate(time.Second), entries[0].RevocationTime)
}
