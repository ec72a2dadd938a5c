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

package conf_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rpkimake/mkrpki/conf"
	"github.com/rpkimake/mkrpki/pkg/scrypto/rpki"
)

func TestPeriodEval(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	testCases := map[string]struct {
		Period       conf.Period
		NotBefore    time.Time
		NotAfter     time.Time
		ErrAssertion assert.ErrorAssertionFunc
	}{
		"explicit start and end": {
			Period:       conf.Period{NotBefore: start, NotAfter: end},
			NotBefore:    start,
			NotAfter:     end,
			ErrAssertion: assert.NoError,
		},
		"start defaults to now": {
			Period:       conf.Period{NotAfter: end},
			NotBefore:    now,
			NotAfter:     end,
			ErrAssertion: assert.NoError,
		},
		"days": {
			Period:       conf.Period{NotBefore: start, Days: 30},
			NotBefore:    start,
			NotAfter:     start.Add(30 * 24 * time.Hour),
			ErrAssertion: assert.NoError,
		},
		"end wins over days": {
			Period:       conf.Period{NotBefore: start, NotAfter: end, Days: 1},
			NotBefore:    start,
			NotAfter:     end,
			ErrAssertion: assert.NoError,
		},
		"span": {
			Period:       conf.Period{NotBefore: start, Span: 48 * time.Hour},
			NotBefore:    start,
			NotAfter:     start.Add(48 * time.Hour),
			ErrAssertion: assert.NoError,
		},
		"days win over span": {
			Period:       conf.Period{NotBefore: start, Days: 10, Span: time.Hour},
			NotBefore:    start,
			NotAfter:     start.Add(10 * 24 * time.Hour),
			ErrAssertion: assert.NoError,
		},
		"nothing set": {
			Period:       conf.Period{NotBefore: start},
			ErrAssertion: assert.Error,
		},
		"inverted": {
			Period:       conf.Period{NotBefore: end, NotAfter: start},
			ErrAssertion: assert.Error,
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			validity, err := tc.Period.Eval(now)
			tc.ErrAssertion(t, err)
			if err != nil {
				assert.ErrorIs(t, err, rpki.ErrConfiguration)
				return
			}
			assert.Equal(t, tc.NotBefore, validity.NotBefore)
			assert.Equal(t, tc.NotAfter, validity.NotAfter)
		})
	}
}
