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

// Package certs implements the commands that mint RPKI certificates: the
// self-signed trust-anchor variant and subordinate CA certificates.
package certs

import (
	"github.com/rpkimake/mkrpki/pkg/private/serrors"
	"github.com/rpkimake/mkrpki/pkg/scrypto/rpki"
)

// parseIPBlocks parses the repeated IP resource flag values.
func parseIPBlocks(values []string) ([]rpki.IPBlock, error) {
	if len(values) == 0 {
		return nil, nil
	}
	blocks := make([]rpki.IPBlock, 0, len(values))
	for _, v := range values {
		block, err := rpki.ParseIPBlock(v)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}

// parseASBlocks parses the repeated AS resource flag values.
func parseASBlocks(values []string) ([]rpki.ASBlock, error) {
	if len(values) == 0 {
		return nil, nil
	}
	blocks := make([]rpki.ASBlock, 0, len(values))
	for _, v := range values {
		block, err := rpki.ParseASBlock(v)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}

// checkSet verifies that all required flags carry a value. The arguments
// alternate between flag name and value.
func checkSet(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			return serrors.Join(rpki.ErrConfiguration, nil,
				"reason", "missing required flag", "flag", pairs[i])
		}
	}
	return nil
}
