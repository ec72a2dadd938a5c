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
	"crypto/x509/pkix"
	"encoding/asn1"
	"strings"

	"github.com/rpkimake/mkrpki/pkg/private/serrors"
)

// CheckRsyncURI validates that the given URI is an rsync URI as required for
// RPKI repository locations.
func CheckRsyncURI(uri string) error {
	if !strings.HasPrefix(uri, "rsync://") {
		return serrors.Join(ErrParse, nil, "uri", uri, "reason", "not an rsync URI")
	}
	return nil
}

// CheckHTTPSURI validates that the given URI is an https URI as required for
// RRDP notification locations.
func CheckHTTPSURI(uri string) error {
	if !strings.HasPrefix(uri, "https://") {
		return serrors.Join(ErrParse, nil, "uri", uri, "reason", "not an https URI")
	}
	return nil
}

// accessDescription is one entry of an AIA or SIA extension.
type accessDescription struct {
	Method   asn1.ObjectIdentifier
	Location asn1.RawValue
}

// uriGeneralName renders the URI as the uniformResourceIdentifier GeneralName
// alternative.
func uriGeneralName(uri string) asn1.RawValue {
	return asn1.RawValue{
		Class: asn1.ClassContextSpecific,
		Tag:   6,
		Bytes: []byte(uri),
	}
}

// encodeSIA builds the subject information access extension from the access
// method / location pairs.
func encodeSIA(access []accessDescription) (pkix.Extension, error) {
	val, err := asn1.Marshal(access)
	if err != nil {
		return pkix.Extension{}, serrors.Join(ErrEncoding, err)
	}
	return pkix.Extension{Id: OIDExtensionSIA, Value: val}, nil
}

// encodePolicy builds the critical certificate policies extension carrying
// the single RPKI policy for the given overclaim mode.
func encodePolicy(overclaim Overclaim) (pkix.Extension, error) {
	oid := OIDPolicyIPAddrASNumber
	if overclaim == OverclaimTrim {
		oid = OIDPolicyIPAddrASNumberV2
	}
	val, err := asn1.Marshal([]policyInformation{{Policy: oid}})
	if err != nil {
		return pkix.Extension{}, serrors.Join(ErrEncoding, err)
	}
	return pkix.Extension{Id: OIDExtensionCertPolicies, Critical: true, Value: val}, nil
}

type policyInformation struct {
	Policy asn1.ObjectIdentifier
}
