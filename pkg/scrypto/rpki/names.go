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
	"crypto"
	"crypto/sha1"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"encoding/hex"

	"github.com/rpkimake/mkrpki/pkg/private/serrors"
)

// KeyIdentifier computes the RFC 5280 method-1 key identifier: the SHA-1
// digest over the subjectPublicKey bit string.
func KeyIdentifier(pub crypto.PublicKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, serrors.Join(ErrKeyDecode, err)
	}
	var spki struct {
		Algorithm pkix.AlgorithmIdentifier
		PublicKey asn1.BitString
	}
	if _, err := asn1.Unmarshal(der, &spki); err != nil {
		return nil, serrors.Join(ErrKeyDecode, err)
	}
	sum := sha1.Sum(spki.PublicKey.Bytes)
	return sum[:], nil
}

// SubjectName derives the RPKI subject name from a public key: a single
// common name holding the hex encoded key identifier.
func SubjectName(pub crypto.PublicKey) (pkix.Name, error) {
	keyID, err := KeyIdentifier(pub)
	if err != nil {
		return pkix.Name{}, err
	}
	return pkix.Name{CommonName: hex.EncodeToString(keyID)}, nil
}

// SubjectNameDER derives the subject name in its DER encoding, for use as
// the raw issuer of certificates signed with a bare key.
func SubjectNameDER(pub crypto.PublicKey) ([]byte, error) {
	name, err := SubjectName(pub)
	if err != nil {
		return nil, err
	}
	der, err := asn1.Marshal(name.ToRDNSequence())
	if err != nil {
		return nil, serrors.Join(ErrEncoding, err)
	}
	return der, nil
}
