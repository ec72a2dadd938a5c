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

package rpki

import (
	"math/big"
	"strings"

	"github.com/rpkimake/mkrpki/pkg/private/serrors"
)

// ParseSerial parses a certificate serial or CRL/manifest number. Decimal by
// default, hexadecimal with a 0x prefix. Serials must not be negative.
func ParseSerial(s string) (*big.Int, error) {
	base := 10
	digits := s
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		base = 16
		digits = s[2:]
	}
	serial, ok := new(big.Int).SetString(digits, base)
	if !ok || serial.Sign() < 0 {
		return nil, serrors.Join(ErrParse, nil, "reason", "invalid serial", "input", s)
	}
	return serial, nil
}
