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

// Package conf holds the configuration surface shared by the minting
// commands: validity period resolution and the optional issuance profile.
package conf

import (
	"time"

	"github.com/rpkimake/mkrpki/pkg/private/serrors"
	"github.com/rpkimake/mkrpki/pkg/scrypto/rpki"
)

// Period describes a validity period as given on the command line: an
// optional start, and either an explicit end, a day count or a duration
// span. The same shape covers certificate validities and CRL/manifest
// update windows.
type Period struct {
	NotBefore time.Time
	NotAfter  time.Time
	Days      uint
	Span      time.Duration
}

// Eval resolves the period. A zero start defaults to now. An explicit end
// takes precedence over the day count, which takes precedence over the
// span. With none of the three the period is unresolvable and a
// configuration error is returned.
func (p Period) Eval(now time.Time) (rpki.Validity, error) {
	notBefore := p.NotBefore
	if notBefore.IsZero() {
		notBefore = now
	}
	switch {
	case !p.NotAfter.IsZero():
		return rpki.NewValidity(notBefore, p.NotAfter)
	case p.Days > 0:
		return rpki.NewValidity(notBefore, notBefore.Add(time.Duration(p.Days)*24*time.Hour))
	case p.Span > 0:
		return rpki.NewValidity(notBefore, notBefore.Add(p.Span))
	default:
		return rpki.Validity{}, serrors.Join(rpki.ErrConfiguration,
			serrors.New("neither end time nor day count set"))
	}
}
