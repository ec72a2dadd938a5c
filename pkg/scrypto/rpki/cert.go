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
	"crypto/x509/pkix"
	"io"
	"math/big"

	"github.com/rpkimake/mkrpki/pkg/private/serrors"
	"github.com/rpkimake/mkrpki/pkg/scrypto"
)

// TBSCert is the to-be-signed content of an RPKI CA certificate. Trust-anchor
// and subordinate CA certificates share the structure; the trust-anchor
// variant is self-signed and omits the CRL and CA issuer pointers.
type TBSCert struct {
	Serial     *big.Int
	Validity   Validity
	SubjectKey crypto.PublicKey
	IssuerKey  crypto.PublicKey

	// Repository pointers. CRL and CAIssuer are empty on trust anchors.
	CARepository string
	Manifest     string
	Notify       string
	CRL          string
	CAIssuer     string

	V4        IPResources
	V6        IPResources
	AS        ASResources
	Overclaim Overclaim
}

// NewTrustAnchorCert assembles the TBS content of a self-signed trust-anchor
// certificate. The subject key doubles as the issuer key and the overclaim
// policy is forced to refuse.
func NewTrustAnchorCert(serial *big.Int, validity Validity, key crypto.PublicKey,
	caRepository, manifest, notify string,
	v4, v6 IPResources, as ASResources) TBSCert {

	return TBSCert{
		Serial:       serial,
		Validity:     validity,
		SubjectKey:   key,
		IssuerKey:    key,
		CARepository: caRepository,
		Manifest:     manifest,
		Notify:       notify,
		V4:           v4,
		V6:           v6,
		AS:           as,
		Overclaim:    OverclaimRefuse,
	}
}

// NewCACert assembles the TBS content of a subordinate CA certificate. The
// subject key is supplied externally, the issuer identity is derived from the
// issuer's public key.
func NewCACert(serial *big.Int, validity Validity, subjectKey, issuerKey crypto.PublicKey,
	crlURI, caIssuer, caRepository, manifest, notify string, overclaim Overclaim,
	v4, v6 IPResources, as ASResources) TBSCert {

	return TBSCert{
		Serial:       serial,
		Validity:     validity,
		SubjectKey:   subjectKey,
		IssuerKey:    issuerKey,
		CRL:          crlURI,
		CAIssuer:     caIssuer,
		CARepository: caRepository,
		Manifest:     manifest,
		Notify:       notify,
		V4:           v4,
		V6:           v6,
		AS:           as,
		Overclaim:    overclaim,
	}
}

// Encode signs the certificate with the issuer key and serializes it into
// its DER form.
func (c TBSCert) Encode(rand io.Reader, issuer scrypto.Signer) ([]byte, error) {
	if err := c.Validity.Validate(); err != nil {
		return nil, err
	}
	subject, err := SubjectName(c.SubjectKey)
	if err != nil {
		return nil, err
	}
	skid, err := KeyIdentifier(c.SubjectKey)
	if err != nil {
		return nil, err
	}
	akid, err := KeyIdentifier(c.IssuerKey)
	if err != nil {
		return nil, err
	}
	issuerName, err := SubjectNameDER(c.IssuerKey)
	if err != nil {
		return nil, err
	}

	extensions, err := c.extensions()
	if err != nil {
		return nil, err
	}

	template := x509.Certificate{
		SerialNumber:          c.Serial,
		Subject:               subject,
		NotBefore:             c.Validity.NotBefore,
		NotAfter:              c.Validity.NotAfter,
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
		SubjectKeyId:          skid,
		AuthorityKeyId:        akid,
		ExtraExtensions:       extensions,
	}
	if c.CRL != "" {
		template.CRLDistributionPoints = []string{c.CRL}
	}
	if c.CAIssuer != "" {
		template.IssuingCertificateURL = []string{c.CAIssuer}
	}

	// The parent carries the issuer name and key identifier; only its raw
	// subject is consulted when signing with a bare key.
	parent := x509.Certificate{
		RawSubject:   issuerName,
		SubjectKeyId: akid,
	}
	der, err := x509.CreateCertificate(rand, &template, &parent, c.SubjectKey, issuer)
	if err != nil {
		return nil, serrors.Join(ErrSigning, err, "object", "certificate")
	}
	return der, nil
}

func (c TBSCert) extensions() ([]pkix.Extension, error) {
	policy, err := encodePolicy(c.Overclaim)
	if err != nil {
		return nil, err
	}
	access := []accessDescription{
		{Method: OIDAccessCARepository, Location: uriGeneralName(c.CARepository)},
		{Method: OIDAccessRPKIManifest, Location: uriGeneralName(c.Manifest)},
	}
	if c.Notify != "" {
		access = append(access, accessDescription{
			Method:   OIDAccessRPKINotify,
			Location: uriGeneralName(c.Notify),
		})
	}
	sia, err := encodeSIA(access)
	if err != nil {
		return nil, err
	}
	extensions := []pkix.Extension{policy, sia}

	ipExt, present, err := encodeIPResources(c.V4, c.V6, c.Overclaim)
	if err != nil {
		return nil, err
	}
	if present {
		extensions = append(extensions, ipExt)
	}
	asExt, present, err := encodeASResources(c.AS, c.Overclaim)
	if err != nil {
		return nil, err
	}
	if present {
		extensions = append(extensions, asExt)
	}
	return extensions, nil
}
