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

package rpki_test

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpkimake/mkrpki/pkg/scrypto"
	"github.com/rpkimake/mkrpki/pkg/scrypto/rpki"
)

// cmsObject is the parsed skeleton of a signed object, just deep enough for
// the assertions below.
type cmsObject struct {
	contentType asn1.ObjectIdentifier
	econtent    []byte
	eeCert      *x509.Certificate
	signerInfo  parsedSignerInfo
}

type parsedSignerInfo struct {
	Version            int64
	SID                asn1.RawValue
	DigestAlgorithm    pkix.AlgorithmIdentifier
	SignedAttrs        asn1.RawValue
	SignatureAlgorithm pkix.AlgorithmIdentifier
	Signature          []byte
}

func parseSignedObject(t *testing.T, der []byte) cmsObject {
	t.Helper()
	var info struct {
		ContentType asn1.ObjectIdentifier
		Content     asn1.RawValue
	}
	rest, err := asn1.Unmarshal(der, &info)
	require.NoError(t, err)
	require.Empty(t, rest)
	require.Equal(t, rpki.OIDContentTypeSignedData, info.ContentType)
	require.Equal(t, asn1.ClassContextSpecific, info.Content.Class)
	require.Equal(t, 0, info.Content.Tag)

	var sd struct {
		Version          int64
		DigestAlgorithms []pkix.AlgorithmIdentifier `asn1:"set"`
		EncapContent     struct {
			ContentType asn1.ObjectIdentifier
			Content     asn1.RawValue
		}
		Certificates asn1.RawValue
		SignerInfos  []parsedSignerInfo `asn1:"set"`
	}
	_, err = asn1.Unmarshal(info.Content.Bytes, &sd)
	require.NoError(t, err)
	require.Equal(t, int64(3), sd.Version)
	require.Len(t, sd.DigestAlgorithms, 1)
	require.Len(t, sd.SignerInfos, 1)

	var econtent []byte
	_, err = asn1.Unmarshal(sd.EncapContent.Content.Bytes, &econtent)
	require.NoError(t, err)

	eeCert, err := x509.ParseCertificate(sd.Certificates.Bytes)
	require.NoError(t, err)

	return cmsObject{
		contentType: sd.EncapContent.ContentType,
		econtent:    econtent,
		eeCert:      eeCert,
		signerInfo:  sd.SignerInfos[0],
	}
}

func testBuilder(t *testing.T) rpki.SignedObjectBuilder {
	return rpki.SignedObjectBuilder{
		Serial:       big.NewInt(5),
		Validity:     testValidity(t),
		CRL:          "rsync://example.net/repo/ca.crl",
		CAIssuer:     "rsync://example.net/repo/ca.cer",
		SignedObject: "rsync://example.net/repo/as64496.roa",
	}
}

func TestSignedObjectROA(t *testing.T) {
	issuerKey, err := scrypto.GenerateRSAKey()
	require.NoError(t, err)

	prefix, err := rpki.ParsePrefix("192.0.2.0/24-28")
	require.NoError(t, err)
	content := rpki.NewROA(64496, []rpki.Prefix{prefix})

	der, err := testBuilder(t).Finalize(rand.Reader, content, issuerKey)
	require.NoError(t, err)

	obj := parseSignedObject(t, der)
	assert.Equal(t, rpki.OIDContentTypeROA, obj.contentType)

	// The eContent is exactly the encoded ROA.
	expected, err := content.EncodeContent()
	require.NoError(t, err)
	assert.Equal(t, expected, obj.econtent)

	// The signer is identified by the subject key identifier of the one-off
	// end-entity key.
	assert.Equal(t, int64(3), obj.signerInfo.Version)
	assert.Equal(t, asn1.ClassContextSpecific, obj.signerInfo.SID.Class)
	assert.Equal(t, obj.eeCert.SubjectKeyId, obj.signerInfo.SID.Bytes)

	// The message digest attribute covers the eContent.
	attrs := parseAttributes(t, obj.signerInfo.SignedAttrs.Bytes)
	sum := sha256.Sum256(obj.econtent)
	assert.Equal(t, sum[:], attrs[rpki.OIDAttributeMessageDigest.String()])
	var attrContentType asn1.ObjectIdentifier
	_, err = asn1.Unmarshal(attrs[rpki.OIDAttributeContentType.String()], &attrContentType)
	require.NoError(t, err)
	assert.Equal(t, rpki.OIDContentTypeROA, attrContentType)

	// The signature verifies with the end-entity key over the SET encoding
	// of the signed attributes.
	set, err := asn1.Marshal(asn1.RawValue{
		Class:      asn1.ClassUniversal,
		Tag:        asn1.TagSet,
		IsCompound: true,
		Bytes:      obj.signerInfo.SignedAttrs.Bytes,
	})
	require.NoError(t, err)
	digest := sha256.Sum256(set)
	eePub, ok := obj.eeCert.PublicKey.(*rsa.PublicKey)
	require.True(t, ok)
	assert.NoError(t, rsa.VerifyPKCS1v15(eePub, crypto.SHA256, digest[:], obj.signerInfo.Signature))
}

func TestSignedObjectEECert(t *testing.T) {
	issuerKey, err := scrypto.GenerateRSAKey()
	require.NoError(t, err)

	prefix, err := rpki.ParsePrefix("192.0.2.0/24")
	require.NoError(t, err)
	content := rpki.NewROA(64496, []rpki.Prefix{prefix})

	der, err := testBuilder(t).Finalize(rand.Reader, content, issuerKey)
	require.NoError(t, err)
	obj := parseSignedObject(t, der)

	ee := obj.eeCert
	assert.Equal(t, int64(5), ee.SerialNumber.Int64())
	assert.Equal(t, x509.KeyUsageDigitalSignature, ee.KeyUsage)
	assert.False(t, ee.IsCA)
	assert.Equal(t, []string{"rsync://example.net/repo/ca.crl"}, ee.CRLDistributionPoints)
	assert.Equal(t, []string{"rsync://example.net/repo/ca.cer"}, ee.IssuingCertificateURL)

	// All resource families are inherited from the issuing CA.
	for _, oid := range []asn1.ObjectIdentifier{
		rpki.OIDExtensionIPResources, rpki.OIDExtensionASResources,
	} {
		found := false
		for _, ext := range ee.Extensions {
			if ext.Id.Equal(oid) {
				found = true
			}
		}
		assert.True(t, found, "extension %v", oid)
	}

	// The end-entity certificate is signed by the issuer key.
	issuerID, err := rpki.KeyIdentifier(issuerKey.Public())
	require.NoError(t, err)
	assert.Equal(t, issuerID, ee.AuthorityKeyId)

	ta := rpki.NewTrustAnchorCert(
		big.NewInt(1), testValidity(t), issuerKey.Public(),
		"rsync://example.net/repo/",
		"rsync://example.net/repo/ta.mft",
		"",
		rpki.BuildIPResources(true, nil),
		rpki.BuildIPResources(true, nil),
		rpki.BuildASResources(true, nil),
	)
	taDER, err := ta.Encode(rand.Reader, issuerKey)
	require.NoError(t, err)
	taCert, err := x509.ParseCertificate(taDER)
	require.NoError(t, err)
	assert.NoError(t, ee.CheckSignatureFrom(taCert))
}

func TestSignedObjectManifest(t *testing.T) {
	issuerKey, err := scrypto.GenerateRSAKey()
	require.NoError(t, err)

	thisUpdate := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	content := rpki.ManifestContent{
		Number:     big.NewInt(42),
		ThisUpdate: thisUpdate,
		NextUpdate: thisUpdate.Add(48 * time.Hour),
		Alg:        scrypto.DefaultDigest(),
		Files: []rpki.FileAndHash{
			{File: "ca.crl", Hash: make([]byte, 32)},
		},
	}
	der, err := testBuilder(t).Finalize(rand.Reader, content, issuerKey)
	require.NoError(t, err)

	obj := parseSignedObject(t, der)
	assert.Equal(t, rpki.OIDContentTypeManifest, obj.contentType)
	expected, err := content.EncodeContent()
	require.NoError(t, err)
	assert.Equal(t, expected, obj.econtent)
}

func TestSignedObjectBadValidity(t *testing.T) {
	issuerKey, err := scrypto.GenerateRSAKey()
	require.NoError(t, err)

	prefix, err := rpki.ParsePrefix("192.0.2.0/24")
	require.NoError(t, err)
	content := rpki.NewROA(64496, []rpki.Prefix{prefix})

	builder := testBuilder(t)
	builder.Validity = rpki.Validity{}
	_, err = builder.Finalize(rand.Reader, content, issuerKey)
	assert.ErrorIs(t, err, rpki.ErrConfiguration)
}

// parseAttributes splits the signed attributes into a map from attribute OID
// to the DER of the single attribute value.
func parseAttributes(t *testing.T, raw []byte) map[string][]byte {
	t.Helper()
	attrs := map[string][]byte{}
	rest := raw
	for len(rest) > 0 {
		var attr struct {
			Type   asn1.ObjectIdentifier
			Values asn1.RawValue `asn1:"set"`
		}
		var err error
		rest, err = asn1.Unmarshal(rest, &attr)
		require.NoError(t, err)
		attrs[attr.Type.String()] = attr.Values.Bytes
	}
	require.Len(t, attrs, 3)

	var digest []byte
	_, err := asn1.Unmarshal(attrs[rpki.OIDAttributeMessageDigest.String()], &digest)
	require.NoError(t, err)
	attrs[rpki.OIDAttributeMessageDigest.String()] = digest
	return attrs
}
