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

package key

import (
	"crypto"
	"crypto/x509"
	"encoding/pem"
	"os"

	"github.com/rpkimake/mkrpki/pkg/private/serrors"
	"github.com/rpkimake/mkrpki/pkg/scrypto"
	"github.com/rpkimake/mkrpki/pkg/scrypto/rpki"
)

// LoadPrivateKey loads a private key from file. The file may contain the key
// in PEM form or as raw DER. PKCS #8, PKCS #1 and SEC 1 encodings are
// accepted.
func LoadPrivateKey(filename string) (scrypto.Signer, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, serrors.Join(rpki.ErrIO, err, "file", filename)
	}
	der := raw
	if block, _ := pem.Decode(raw); block != nil {
		der = block.Bytes
	}
	key, err := parsePrivateKey(der)
	if err != nil {
		return nil, serrors.Join(rpki.ErrKeyDecode, err, "file", filename)
	}
	if !scrypto.IsSupportedSigner(key) {
		return nil, serrors.Join(rpki.ErrKeyDecode,
			serrors.New("unsupported key type"), "file", filename)
	}
	return key, nil
}

func parsePrivateKey(der []byte) (scrypto.Signer, error) {
	if key, err := x509.ParsePKCS8PrivateKey(der); err == nil {
		signer, ok := key.(scrypto.Signer)
		if !ok {
			return nil, serrors.New("unsupported PKCS#8 key type")
		}
		return signer, nil
	}
	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return key, nil
	}
	if key, err := x509.ParseECPrivateKey(der); err == nil {
		return key, nil
	}
	return nil, serrors.New("unrecognized private key encoding")
}

// LoadPublicKey loads a PKIX public key from file, in PEM form or as raw DER.
func LoadPublicKey(filename string) (crypto.PublicKey, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, serrors.Join(rpki.ErrIO, err, "file", filename)
	}
	der := raw
	if block, _ := pem.Decode(raw); block != nil {
		der = block.Bytes
	}
	pub, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, serrors.Join(rpki.ErrKeyDecode, err, "file", filename)
	}
	return pub, nil
}
