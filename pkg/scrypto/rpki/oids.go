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

import "encoding/asn1"

// Object identifiers used by RPKI certificates, CRLs and signed objects.
var (
	// X.509 extensions.
	OIDExtensionSubjectKeyID     = asn1.ObjectIdentifier{2, 5, 29, 14}
	OIDExtensionKeyUsage         = asn1.ObjectIdentifier{2, 5, 29, 15}
	OIDExtensionBasicConstraints = asn1.ObjectIdentifier{2, 5, 29, 19}
	OIDExtensionCRLDistPoints    = asn1.ObjectIdentifier{2, 5, 29, 31}
	OIDExtensionCertPolicies     = asn1.ObjectIdentifier{2, 5, 29, 32}
	OIDExtensionAuthorityKeyID   = asn1.ObjectIdentifier{2, 5, 29, 35}

	// PKIX extensions (RFC 5280, RFC 3779, RFC 8360).
	OIDExtensionAIA           = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 1, 1}
	OIDExtensionIPResources   = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 1, 7}
	OIDExtensionASResources   = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 1, 8}
	OIDExtensionSIA           = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 1, 11}
	OIDExtensionIPResourcesV2 = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 1, 28}
	OIDExtensionASResourcesV2 = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 1, 29}

	// Access methods for AIA and SIA.
	OIDAccessCAIssuers    = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 48, 2}
	OIDAccessCARepository = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 48, 5}
	OIDAccessRPKIManifest = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 48, 10}
	OIDAccessSignedObject = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 48, 11}
	OIDAccessRPKINotify   = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 48, 13}

	// Certificate policies (RFC 6484, RFC 8360).
	OIDPolicyIPAddrASNumber   = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 14, 2}
	OIDPolicyIPAddrASNumberV2 = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 14, 3}

	// CMS (RFC 5652) and signed object content types (RFC 6482, RFC 6486).
	OIDContentTypeSignedData = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 7, 2}
	OIDContentTypeROA        = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 16, 1, 24}
	OIDContentTypeManifest   = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 16, 1, 26}

	// CMS signed attributes.
	OIDAttributeContentType   = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 3}
	OIDAttributeMessageDigest = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 4}
	OIDAttributeSigningTime   = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 5}

	// Signature and digest algorithms.
	OIDSignatureSHA256WithRSA = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 11}
	OIDPublicKeyRSA           = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 1}
)
