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
	"encoding/asn1"
	"net/netip"
	"strconv"
	"strings"

	"github.com/rpkimake/mkrpki/pkg/private/serrors"
)

// Prefix is one ROA prefix entry: an address prefix with an optional
// maximum length. Neither the relation of MaxLength to Length nor the host
// bit of the address are checked here; both are left to the encoder.
type Prefix struct {
	Addr      netip.Addr
	Length    uint8
	MaxLength uint8
	HasMax    bool
}

// IsIPv4 indicates the address family of the prefix.
func (p Prefix) IsIPv4() bool {
	return p.Addr.Is4()
}

func (p Prefix) String() string {
	var sb strings.Builder
	sb.WriteString(p.Addr.String())
	sb.WriteByte('/')
	sb.WriteString(strconv.Itoa(int(p.Length)))
	if p.HasMax {
		sb.WriteByte('-')
		sb.WriteString(strconv.Itoa(int(p.MaxLength)))
	}
	return sb.String()
}

// ParsePrefix parses a ROA prefix of the form `addr/len` or
// `addr/len-maxlen`.
func ParsePrefix(s string) (Prefix, error) {
	errParse := func() error {
		return serrors.Join(ErrParse, nil, "reason", "invalid ROA prefix", "input", s)
	}
	rest, maxPart, hasMax := strings.Cut(s, "-")
	addrPart, lenPart, found := strings.Cut(rest, "/")
	if !found {
		return Prefix{}, errParse()
	}
	addr, err := netip.ParseAddr(addrPart)
	if err != nil {
		return Prefix{}, errParse()
	}
	length, err := strconv.ParseUint(lenPart, 10, 8)
	if err != nil {
		return Prefix{}, errParse()
	}
	prefix := Prefix{Addr: addr, Length: uint8(length)}
	if hasMax {
		maxLength, err := strconv.ParseUint(maxPart, 10, 8)
		if err != nil {
			return Prefix{}, errParse()
		}
		prefix.MaxLength = uint8(maxLength)
		prefix.HasMax = true
	}
	return prefix, nil
}

// ROA is the unsigned content of a route origin authorization: one AS number
// plus the authorized prefixes, partitioned by address family.
type ROA struct {
	ASN uint32
	V4  []Prefix
	V6  []Prefix
}

// NewROA partitions the given prefixes by family, preserving their order
// within each family. No deduplication or overlap checks are performed.
func NewROA(asn uint32, prefixes []Prefix) ROA {
	roa := ROA{ASN: asn}
	for _, prefix := range prefixes {
		if prefix.IsIPv4() {
			roa.V4 = append(roa.V4, prefix)
		} else {
			roa.V6 = append(roa.V6, prefix)
		}
	}
	return roa
}

// ContentType returns the signed object content type of ROAs.
func (r ROA) ContentType() asn1.ObjectIdentifier {
	return OIDContentTypeROA
}

// RFC 6482 wire structures. The version field defaults to zero and is
// omitted in DER.

type roaContent struct {
	ASN    int64
	Blocks []roaIPFamily
}

type roaIPFamily struct {
	AFI       []byte
	Addresses []asn1.RawValue
}

type roaAddress struct {
	Address asn1.BitString
}

type roaAddressMax struct {
	Address   asn1.BitString
	MaxLength int64
}

// EncodeContent serializes the RouteOriginAttestation eContent.
func (r ROA) EncodeContent() ([]byte, error) {
	var blocks []roaIPFamily
	for _, fam := range []struct {
		v4       bool
		prefixes []Prefix
	}{{true, r.V4}, {false, r.V6}} {
		if len(fam.prefixes) == 0 {
			continue
		}
		addresses := make([]asn1.RawValue, 0, len(fam.prefixes))
		for _, prefix := range fam.prefixes {
			raw, err := encodeROAAddress(prefix)
			if err != nil {
				return nil, err
			}
			addresses = append(addresses, raw)
		}
		blocks = append(blocks, roaIPFamily{
			AFI:       afi[fam.v4],
			Addresses: addresses,
		})
	}
	der, err := asn1.Marshal(roaContent{ASN: int64(r.ASN), Blocks: blocks})
	if err != nil {
		return nil, serrors.Join(ErrEncoding, err, "object", "roa")
	}
	return der, nil
}

func encodeROAAddress(prefix Prefix) (asn1.RawValue, error) {
	if int(prefix.Length) > prefix.Addr.BitLen() {
		return asn1.RawValue{}, serrors.Join(ErrEncoding, nil,
			"prefix", prefix, "reason", "prefix length exceeds address width")
	}
	bits := addrBits(prefix.Addr, int(prefix.Length))
	var der []byte
	var err error
	if prefix.HasMax {
		der, err = asn1.Marshal(roaAddressMax{Address: bits, MaxLength: int64(prefix.MaxLength)})
	} else {
		der, err = asn1.Marshal(roaAddress{Address: bits})
	}
	if err != nil {
		return asn1.RawValue{}, serrors.Join(ErrEncoding, err, "prefix", prefix)
	}
	return asn1.RawValue{FullBytes: der}, nil
}
