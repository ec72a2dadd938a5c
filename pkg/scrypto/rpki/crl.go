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
	"crypto/x509"
	"io"
	"math/big"
	"time"

	"github.com/rpkimake/mkrpki/pkg/private/serrors"
	"github.com/rpkimake/mkrpki/pkg/scrypto"
)

// CRLEntry identifies one revoked certificate.
type CRLEntry struct {
	Serial         *big.Int
	RevocationTime time.Time
}

// TBSCertList is the to-be-signed content of a CRL. The entry list is
// emitted in the order given; callers are responsible for monotonically
// increasing CRL numbers across successive CRLs of the same issuer.
type TBSCertList struct {
	IssuerKey  crypto.PublicKey
	ThisUpdate time.Time
	NextUpdate time.Time
	Entries    []CRLEntry
	Number     *big.Int
}

// Encode signs the CRL with the issuer key and serializes it into its DER
// form.
func (c TBSCertList) Encode(rand io.Reader, issuer scrypto.Signer) ([]byte, error) {
	update := Validity{
		NotBefore: c.ThisUpdate.UTC().Truncate(time.Second),
		NotAfter:  c.NextUpdate.UTC().Truncate(time.Second),
	}
	if err := update.Validate(); err != nil {
		return nil, err
	}
	issuerName, err := SubjectNameDER(c.IssuerKey)
	if err != nil {
		return nil, err
	}
	akid, err := KeyIdentifier(c.IssuerKey)
	if err != nil {
		return nil, err
	}

	entries := make([]x509.RevocationListEntry, 0, len(c.Entries))
	for _, entry := range c.Entries {
		entries = append(entries, x509.RevocationListEntry{
			SerialNumber:   entry.Serial,
			RevocationTime: entry.RevocationTime.UTC().Truncate(time.Second),
		})
	}
	template := x509.RevocationList{
		Number:                    c.Number,
		ThisUpdate:                update.NotBefore,
		NextUpdate:                update.NotAfter,
		RevokedCertificateEntries: entries,
	}
	// The synthetic issuer carries the name, key identifier and the key
	// usage bit crypto/x509 insists on for CRL signing.
	parent := x509.Certificate{
		RawSubject:   issuerName,
		SubjectKeyId: akid,
		KeyUsage:     x509.KeyUsageCRLSign,
	}
	der, err := x509.CreateRevocationList(rand, &template, &parent, issuer)
	if err != nil {
		return nil, serrors.Join(ErrSigning, err, "object", "crl")
	}
	return der, nil
}
