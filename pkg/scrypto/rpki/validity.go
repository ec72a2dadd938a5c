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

// Package rpki implements the to-be-signed content of RPKI objects:
// trust-anchor and CA certificates, CRLs, ROAs and manifests. The builders
// assemble value objects which are then signed and serialized to their
// canonical DER form.
package rpki

import (
	"fmt"
	"time"

	"github.com/rpkimake/mkrpki/pkg/private/serrors"
)

// Validity is a certificate validity period. The same type doubles as the
// this-update/next-update pair of CRLs and manifests.
type Validity struct {
	NotBefore time.Time
	NotAfter  time.Time
}

// NewValidity creates a validity period and checks its ordering invariant.
func NewValidity(notBefore, notAfter time.Time) (Validity, error) {
	v := Validity{
		NotBefore: notBefore.UTC().Truncate(time.Second),
		NotAfter:  notAfter.UTC().Truncate(time.Second),
	}
	if err := v.Validate(); err != nil {
		return Validity{}, err
	}
	return v, nil
}

// Validate checks that NotBefore is strictly before NotAfter.
func (v Validity) Validate() error {
	if !v.NotBefore.Before(v.NotAfter) {
		return serrors.Join(ErrConfiguration, nil,
			"reason", "NotBefore must be before NotAfter",
			"not_before", v.NotBefore,
			"not_after", v.NotAfter,
		)
	}
	return nil
}

// Contains indicates whether the provided time is inside the validity period.
func (v Validity) Contains(t time.Time) bool {
	return !t.Before(v.NotBefore) && !t.After(v.NotAfter)
}

// Covers indicates whether the other validity period is fully contained.
func (v Validity) Covers(other Validity) bool {
	return !other.NotBefore.Before(v.NotBefore) && !other.NotAfter.After(v.NotAfter)
}

func (v Validity) String() string {
	return fmt.Sprintf("[%s, %s]",
		v.NotBefore.Format(time.RFC3339),
		v.NotAfter.Format(time.RFC3339),
	)
}
