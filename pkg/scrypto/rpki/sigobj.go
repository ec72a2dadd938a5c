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
	"bytes"
	"crypto"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"io"
	"math/big"
	"sort"
	"time"

	"github.com/rpkimake/mkrpki/pkg/private/serrors"
	"github.com/rpkimake/mkrpki/pkg/scrypto"
)

// SignedContent is the object specific part of an RPKI signed object: its
// content type and the DER encoding of its eContent.
type SignedContent interface {
	ContentType() asn1.ObjectIdentifier
	EncodeContent() ([]byte, error)
}

// SignedObjectBuilder is the common envelope shared by ROAs and manifests:
// the serial and validity of the embedded end-entity certificate and the
// repository pointers it carries.
type SignedObjectBuilder struct {
	Serial       *big.Int
	Validity     Validity
	CRL          string
	CAIssuer     string
	SignedObject string
}

// Finalize wraps the content in a CMS signed-data structure (RFC 6488): a
// fresh one-off key signs the content, and the issuer key signs the embedded
// end-entity certificate vouching for the one-off key. The result is the
// DER encoded signed object.
func (b SignedObjectBuilder) Finalize(rand io.Reader, content SignedContent,
	issuer scrypto.Signer) ([]byte, error) {

	if err := b.Validity.Validate(); err != nil {
		return nil, err
	}
	econtent, err := content.EncodeContent()
	if err != nil {
		return nil, err
	}
	oneOff, err := scrypto.GenerateRSAKey()
	if err != nil {
		return nil, serrors.Join(ErrSigning, err, "reason", "generating one-off key")
	}
	eeCert, err := b.encodeEECert(rand, oneOff.Public(), issuer)
	if err != nil {
		return nil, err
	}
	skid, err := KeyIdentifier(oneOff.Public())
	if err != nil {
		return nil, err
	}

	alg := scrypto.DefaultDigest()
	signedAttrs, err := encodeSignedAttrs(content.ContentType(), alg.Digest(econtent))
	if err != nil {
		return nil, err
	}
	signature, err := scrypto.SignDigest(rand, oneOff, alg, signedAttrs.set)
	if err != nil {
		return nil, serrors.Join(ErrSigning, err, "object", "signed attributes")
	}

	return encodeSignedData(content.ContentType(), econtent, eeCert, skid, signedAttrs, signature)
}

// encodeEECert builds and signs the one-off end-entity certificate embedded
// in the signed object. All three resource families are marked inherit so
// the object is covered by whatever the issuing CA holds.
func (b SignedObjectBuilder) encodeEECert(rand io.Reader, subjectKey crypto.PublicKey,
	issuer scrypto.Signer) ([]byte, error) {

	subject, err := SubjectName(subjectKey)
	if err != nil {
		return nil, err
	}
	skid, err := KeyIdentifier(subjectKey)
	if err != nil {
		return nil, err
	}
	akid, err := KeyIdentifier(issuer.Public())
	if err != nil {
		return nil, err
	}
	issuerName, err := SubjectNameDER(issuer.Public())
	if err != nil {
		return nil, err
	}

	policy, err := encodePolicy(OverclaimRefuse)
	if err != nil {
		return nil, err
	}
	sia, err := encodeSIA([]accessDescription{
		{Method: OIDAccessSignedObject, Location: uriGeneralName(b.SignedObject)},
	})
	if err != nil {
		return nil, err
	}
	ipExt, _, err := encodeIPResources(
		IPResources{State: Inherit}, IPResources{State: Inherit}, OverclaimRefuse)
	if err != nil {
		return nil, err
	}
	asExt, _, err := encodeASResources(ASResources{State: Inherit}, OverclaimRefuse)
	if err != nil {
		return nil, err
	}

	template := x509.Certificate{
		SerialNumber:          b.Serial,
		Subject:               subject,
		NotBefore:             b.Validity.NotBefore,
		NotAfter:              b.Validity.NotAfter,
		KeyUsage:              x509.KeyUsageDigitalSignature,
		SubjectKeyId:          skid,
		AuthorityKeyId:        akid,
		CRLDistributionPoints: []string{b.CRL},
		IssuingCertificateURL: []string{b.CAIssuer},
		ExtraExtensions:       []pkix.Extension{policy, sia, ipExt, asExt},
	}
	parent := x509.Certificate{
		RawSubject:   issuerName,
		SubjectKeyId: akid,
	}
	der, err := x509.CreateCertificate(rand, &template, &parent, subjectKey, issuer)
	if err != nil {
		return nil, serrors.Join(ErrSigning, err, "object", "ee certificate")
	}
	return der, nil
}

// CMS wire structures (RFC 5652). Context tagged members are constructed as
// raw values; encoding/asn1 emits RawValue fields verbatim.

type contentInfo struct {
	ContentType asn1.ObjectIdentifier
	Content     asn1.RawValue
}

type signedData struct {
	Version          int64
	DigestAlgorithms []pkix.AlgorithmIdentifier `asn1:"set"`
	EncapContent     encapContentInfo
	Certificates     asn1.RawValue
	SignerInfos      []signerInfo `asn1:"set"`
}

type encapContentInfo struct {
	ContentType asn1.ObjectIdentifier
	Content     asn1.RawValue
}

type signerInfo struct {
	Version            int64
	SID                asn1.RawValue
	DigestAlgorithm    pkix.AlgorithmIdentifier
	SignedAttrs        asn1.RawValue
	SignatureAlgorithm pkix.AlgorithmIdentifier
	Signature          []byte
}

type attribute struct {
	Type   asn1.ObjectIdentifier
	Values asn1.RawValue
}

// attrs carries the signed attributes in both encodings: tagged for
// embedding in the SignerInfo, and as an explicit SET for signing.
type attrs struct {
	tagged asn1.RawValue
	set    []byte
}

// encodeSignedAttrs builds the signed attributes: content type, signing
// time and message digest. The signature is computed over the explicit SET
// encoding while the SignerInfo carries the implicit [0] form.
func encodeSignedAttrs(contentType asn1.ObjectIdentifier, digest []byte) (attrs, error) {
	values := []struct {
		oid   asn1.ObjectIdentifier
		value interface{}
	}{
		{OIDAttributeContentType, contentType},
		{OIDAttributeSigningTime, time.Now().UTC().Truncate(time.Second)},
		{OIDAttributeMessageDigest, digest},
	}
	encoded := make([][]byte, 0, len(values))
	for _, v := range values {
		inner, err := asn1.Marshal(v.value)
		if err != nil {
			return attrs{}, serrors.Join(ErrEncoding, err)
		}
		der, err := asn1.Marshal(attribute{
			Type: v.oid,
			Values: asn1.RawValue{
				Class:      asn1.ClassUniversal,
				Tag:        asn1.TagSet,
				IsCompound: true,
				Bytes:      inner,
			},
		})
		if err != nil {
			return attrs{}, serrors.Join(ErrEncoding, err)
		}
		encoded = append(encoded, der)
	}
	// DER SET OF ordering.
	sort.Slice(encoded, func(a, b int) bool {
		return bytes.Compare(encoded[a], encoded[b]) < 0
	})
	joined := bytes.Join(encoded, nil)

	set, err := asn1.Marshal(asn1.RawValue{
		Class:      asn1.ClassUniversal,
		Tag:        asn1.TagSet,
		IsCompound: true,
		Bytes:      joined,
	})
	if err != nil {
		return attrs{}, serrors.Join(ErrEncoding, err)
	}
	return attrs{
		tagged: asn1.RawValue{
			Class:      asn1.ClassContextSpecific,
			Tag:        0,
			IsCompound: true,
			Bytes:      joined,
		},
		set: set,
	}, nil
}

func encodeSignedData(contentType asn1.ObjectIdentifier, econtent, eeCert, skid []byte,
	signedAttrs attrs, signature []byte) ([]byte, error) {

	octets, err := asn1.Marshal(econtent)
	if err != nil {
		return nil, serrors.Join(ErrEncoding, err)
	}
	digestAlg := pkix.AlgorithmIdentifier{Algorithm: scrypto.DefaultDigest().OID()}
	sd := signedData{
		Version:          3,
		DigestAlgorithms: []pkix.AlgorithmIdentifier{digestAlg},
		EncapContent: encapContentInfo{
			ContentType: contentType,
			Content: asn1.RawValue{
				Class:      asn1.ClassContextSpecific,
				Tag:        0,
				IsCompound: true,
				Bytes:      octets,
			},
		},
		Certificates: asn1.RawValue{
			Class:      asn1.ClassContextSpecific,
			Tag:        0,
			IsCompound: true,
			Bytes:      eeCert,
		},
		SignerInfos: []signerInfo{{
			Version: 3,
			SID: asn1.RawValue{
				Class: asn1.ClassContextSpecific,
				Tag:   0,
				Bytes: skid,
			},
			DigestAlgorithm: digestAlg,
			SignedAttrs:     signedAttrs.tagged,
			SignatureAlgorithm: pkix.AlgorithmIdentifier{
				Algorithm:  OIDPublicKeyRSA,
				Parameters: asn1.NullRawValue,
			},
			Signature: signature,
		}},
	}
	inner, err := asn1.Marshal(sd)
	if err != nil {
		return nil, serrors.Join(ErrEncoding, err)
	}
	der, err := asn1.Marshal(contentInfo{
		ContentType: OIDContentTypeSignedData,
		Content: asn1.RawValue{
			Class:      asn1.ClassContextSpecific,
			Tag:        0,
			IsCompound: true,
			Bytes:      inner,
		},
	})
	if err != nil {
		return nil, serrors.Join(ErrEncoding, err)
	}
	return der, nil
}
