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

// Package scrypto provides the cryptographic capabilities consumed by the
// object builders: digest streams, key generation and signing. Signing is
// expressed through the standard crypto.Signer interface so that keys held in
// files, in memory or behind a KMS all look alike to the builders.
package scrypto

import (
	"crypto"
	"crypto/sha256"
	"encoding/asn1"
	"hash"

	"github.com/rpkimake/mkrpki/pkg/private/serrors"
)

// DigestAlgorithm identifies a digest algorithm used for manifest file
// hashes and signed object digests.
type DigestAlgorithm int

const (
	// SHA256 is the only digest algorithm currently used by RPKI signed
	// objects (RFC 7935).
	SHA256 DigestAlgorithm = iota
)

// DefaultDigest returns the digest algorithm used when nothing else is
// configured.
func DefaultDigest() DigestAlgorithm {
	return SHA256
}

// OID returns the ASN.1 object identifier of the algorithm.
func (a DigestAlgorithm) OID() asn1.ObjectIdentifier {
	// id-sha256
	return asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 1}
}

// Hash returns the corresponding crypto.Hash.
func (a DigestAlgorithm) Hash() crypto.Hash {
	return crypto.SHA256
}

// Start returns a fresh digest accumulator.
func (a DigestAlgorithm) Start() hash.Hash {
	return sha256.New()
}

// Digest computes the digest over the given bytes in one step.
func (a DigestAlgorithm) Digest(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

// ParseDigestAlgorithm parses the textual name of a digest algorithm.
func ParseDigestAlgorithm(name string) (DigestAlgorithm, error) {
	switch name {
	case "", "sha256", "SHA256", "sha-256", "SHA-256":
		return SHA256, nil
	default:
		return 0, serrors.New("unsupported digest algorithm", "name", name)
	}
}
