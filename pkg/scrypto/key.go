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

package scrypto

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"io"

	"github.com/rpkimake/mkrpki/pkg/private/serrors"
)

// RSAKeySize is the modulus size of generated RSA keys. RPKI resource
// certificates require RSA with 2048-bit keys (RFC 7935).
const RSAKeySize = 2048

// Signer is the signing capability handed to the object builders. It is
// satisfied by all private keys this tool loads or generates.
type Signer interface {
	crypto.Signer
}

// GenerateRSAKey generates a fresh RSA private key of the standard size.
func GenerateRSAKey() (*rsa.PrivateKey, error) {
	return rsa.GenerateKey(rand.Reader, RSAKeySize)
}

// IsSupportedSigner returns whether the given signer is usable to sign RPKI
// objects.
func IsSupportedSigner(signer crypto.Signer) bool {
	if signer == nil {
		return false
	}
	switch signer.Public().(type) {
	case *rsa.PublicKey, *ecdsa.PublicKey:
		return true
	default:
		return false
	}
}

// SignDigest signs the digest of data with the given key. The data is hashed
// with the provided digest algorithm before signing.
func SignDigest(rand io.Reader, signer crypto.Signer, alg DigestAlgorithm, data []byte) ([]byte, error) {
	if !IsSupportedSigner(signer) {
		return nil, serrors.New("unsupported signing key")
	}
	h := alg.Start()
	h.Write(data)
	return signer.Sign(rand, h.Sum(nil), alg.Hash())
}

// DecodePublicKey parses a public key in PKIX DER form.
func DecodePublicKey(der []byte) (crypto.PublicKey, error) {
	pub, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, serrors.Wrap("parsing public key", err)
	}
	return pub, nil
}

// EncodePublicKey encodes a public key into PKIX DER form. This is the
// subjectPublicKeyInfo encoding referenced by TAL files.
func EncodePublicKey(pub crypto.PublicKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, serrors.Wrap("encoding public key", err)
	}
	return der, nil
}
