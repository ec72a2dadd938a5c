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

package rpki_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpkimake/mkrpki/pkg/scrypto/rpki"
)

func TestParseIPBlock(t *testing.T) {
	testCases := map[string]struct {
		Input        string
		Expected     string
		IsIPv4       bool
		ErrAssertion assert.ErrorAssertionFunc
	}{
		"v4 prefix": {
			Input:        "10.0.0.0/8",
			Expected:     "10.0.0.0/8",
			IsIPv4:       true,
			ErrAssertion: assert.NoError,
		},
		"v6 prefix": {
			Input:        "2001:db8::/32",
			Expected:     "2001:db8::/32",
			ErrAssertion: assert.NoError,
		},
		"v4 range": {
			Input:        "10.0.0.0-10.0.0.255",
			Expected:     "10.0.0.0-10.0.0.255",
			IsIPv4:       true,
			ErrAssertion: assert.NoError,
		},
		"v6 range": {
			Input:        "2001:db8::-2001:db8::ffff",
			Expected:     "2001:db8::-2001:db8::ffff",
			ErrAssertion: assert.NoError,
		},
		"bare address": {
			Input:        "10.0.0.1",
			ErrAssertion: assert.Error,
		},
		"bad prefix length": {
			Input:        "10.0.0.0/33",
			ErrAssertion: assert.Error,
		},
		"inverted range": {
			Input:        "10.0.0.255-10.0.0.0",
			ErrAssertion: assert.Error,
		},
		"empty": {
			Input:        "",
			ErrAssertion: assert.Error,
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			block, err := rpki.ParseIPBlock(tc.Input)
			tc.ErrAssertion(t, err)
			if err != nil {
				assert.ErrorIs(t, err, rpki.ErrParse)
				return
			}
			assert.Equal(t, tc.Expected, block.String())
			assert.Equal(t, tc.IsIPv4, block.IsIPv4())
		})
	}
}

func TestParseASBlock(t *testing.T) {
	testCases := map[string]struct {
		Input        string
		Min, Max     uint32
		ErrAssertion assert.ErrorAssertionFunc
	}{
		"single with prefix": {
			Input:        "AS64496",
			Min:          64496,
			Max:          64496,
			ErrAssertion: assert.NoError,
		},
		"single bare": {
			Input:        "64496",
			Min:          64496,
			Max:          64496,
			ErrAssertion: assert.NoError,
		},
		"range": {
			Input:        "AS64496-AS64511",
			Min:          64496,
			Max:          64511,
			ErrAssertion: assert.NoError,
		},
		"mixed range": {
			Input:        "64496-AS64511",
			Min:          64496,
			Max:          64511,
			ErrAssertion: assert.NoError,
		},
		"inverted range": {
			Input:        "AS64511-AS64496",
			ErrAssertion: assert.Error,
		},
		"32 bit max": {
			Input:        "AS4294967295",
			Min:          4294967295,
			Max:          4294967295,
			ErrAssertion: assert.NoError,
		},
		"overflow": {
			Input:        "AS4294967296",
			ErrAssertion: assert.Error,
		},
		"garbage": {
			Input:        "ASfoo",
			ErrAssertion: assert.Error,
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			block, err := rpki.ParseASBlock(tc.Input)
			tc.ErrAssertion(t, err)
			if err != nil {
				assert.ErrorIs(t, err, rpki.ErrParse)
				return
			}
			assert.Equal(t, tc.Min, block.Min)
			assert.Equal(t, tc.Max, block.Max)
		})
	}
}

func TestBuildIPResources(t *testing.T) {
	block, err := rpki.ParseIPBlock("10.0.0.0/8")
	require.NoError(t, err)

	testCases := map[string]struct {
		Inherit  bool
		Blocks   []rpki.IPBlock
		Expected rpki.ResourceState
	}{
		"absent":                 {Expected: rpki.Absent},
		"explicit":               {Blocks: []rpki.IPBlock{block}, Expected: rpki.Explicit},
		"inherit":                {Inherit: true, Expected: rpki.Inherit},
		"inherit wins over list": {Inherit: true, Blocks: []rpki.IPBlock{block}, Expected: rpki.Inherit},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			res := rpki.BuildIPResources(tc.Inherit, tc.Blocks)
			assert.Equal(t, tc.Expected, res.State)
			if tc.Expected == rpki.Explicit {
				assert.Equal(t, tc.Blocks, res.Blocks)
			} else {
				assert.Empty(t, res.Blocks)
			}
		})
	}
}

func TestBuildASResources(t *testing.T) {
	block := rpki.ASBlock{Min: 64496, Max: 64511}

	testCases := map[string]struct {
		Inherit  bool
		Blocks   []rpki.ASBlock
		Expected rpki.ResourceState
	}{
		"absent":                 {Expected: rpki.Absent},
		"explicit":               {Blocks: []rpki.ASBlock{block}, Expected: rpki.Explicit},
		"inherit":                {Inherit: true, Expected: rpki.Inherit},
		"inherit wins over list": {Inherit: true, Blocks: []rpki.ASBlock{block}, Expected: rpki.Inherit},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			res := rpki.BuildASResources(tc.Inherit, tc.Blocks)
			assert.Equal(t, tc.Expected, res.State)
		})
	}
}

func TestParseSerial(t *testing.T) {
	testCases := map[string]struct {
		Input        string
		Expected     int64
		ErrAssertion assert.ErrorAssertionFunc
	}{
		"decimal":     {Input: "42", Expected: 42, ErrAssertion: assert.NoError},
		"zero":        {Input: "0", Expected: 0, ErrAssertion: assert.NoError},
		"hexadecimal": {Input: "0x2a", Expected: 42, ErrAssertion: assert.NoError},
		"negative":    {Input: "-1", ErrAssertion: assert.Error},
		"garbage":     {Input: "forty-two", ErrAssertion: assert.Error},
		"empty":       {Input: "", ErrAssertion: assert.Error},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			serial, err := rpki.ParseSerial(tc.Input)
			tc.ErrAssertion(t, err)
			if err != nil {
				assert.ErrorIs(t, err, rpki.ErrParse)
				return
			}
			assert.Equal(t, tc.Expected, serial.Int64())
		})
	}
}
