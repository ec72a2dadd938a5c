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
	"fmt"
	"net/netip"
	"strconv"
	"strings"

	"go4.org/netipx"

	"github.com/rpkimake/mkrpki/pkg/private/serrors"
)

// Overclaim selects how resources exceeding the issuer's certified set are
// handled by validators. Refuse rejects the certificate, Trim clips the
// claimed set. The policy selects between the RFC 6484 and RFC 8360
// certificate policy and resource extension identifiers.
type Overclaim int

const (
	// OverclaimRefuse rejects certificates that overclaim.
	OverclaimRefuse Overclaim = iota
	// OverclaimTrim clips overclaimed resources.
	OverclaimTrim
)

// IPBlock is a block of IP addresses, either a prefix or an explicit
// min-max range.
type IPBlock struct {
	prefix   netip.Prefix
	ipRange  netipx.IPRange
	isPrefix bool
}

// IPBlockFromPrefix creates a block covering the given prefix.
func IPBlockFromPrefix(p netip.Prefix) IPBlock {
	return IPBlock{prefix: p, isPrefix: true}
}

// IPBlockFromRange creates a block covering the given range.
func IPBlockFromRange(r netipx.IPRange) IPBlock {
	return IPBlock{ipRange: r}
}

// ParseIPBlock parses a textual IP block. Accepted forms are a prefix
// `addr/len` or a closed range `lo-hi`.
func ParseIPBlock(s string) (IPBlock, error) {
	if strings.Contains(s, "/") {
		prefix, err := netip.ParsePrefix(s)
		if err != nil {
			return IPBlock{}, serrors.Join(ErrParse, err, "block", s)
		}
		return IPBlockFromPrefix(prefix), nil
	}
	if strings.Contains(s, "-") {
		r, err := netipx.ParseIPRange(s)
		if err != nil {
			return IPBlock{}, serrors.Join(ErrParse, err, "block", s)
		}
		return IPBlockFromRange(r), nil
	}
	return IPBlock{}, serrors.Join(ErrParse, nil,
		"block", s, "reason", "neither prefix nor range")
}

// IsIPv4 indicates the address family of the block.
func (b IPBlock) IsIPv4() bool {
	if b.isPrefix {
		return b.prefix.Addr().Is4()
	}
	return b.ipRange.From().Is4()
}

// Range returns the block as an address range.
func (b IPBlock) Range() netipx.IPRange {
	if b.isPrefix {
		return netipx.RangeOfPrefix(b.prefix.Masked())
	}
	return b.ipRange
}

func (b IPBlock) String() string {
	if b.isPrefix {
		return b.prefix.String()
	}
	return b.ipRange.String()
}

// ASBlock is a block of AS numbers, a closed range with Min == Max for a
// single AS.
type ASBlock struct {
	Min uint32
	Max uint32
}

// ParseASBlock parses a textual AS block. Accepted forms are a single AS
// number or a range `lo-hi`; numbers may carry an `AS` prefix.
func ParseASBlock(s string) (ASBlock, error) {
	lo, hi, isRange := strings.Cut(s, "-")
	min, err := parseASN(lo)
	if err != nil {
		return ASBlock{}, serrors.Join(ErrParse, err, "block", s)
	}
	if !isRange {
		return ASBlock{Min: min, Max: min}, nil
	}
	max, err := parseASN(hi)
	if err != nil {
		return ASBlock{}, serrors.Join(ErrParse, err, "block", s)
	}
	if max < min {
		return ASBlock{}, serrors.Join(ErrParse, nil,
			"block", s, "reason", "range upper bound below lower bound")
	}
	return ASBlock{Min: min, Max: max}, nil
}

// ParseASN parses a single AS number, with or without `AS` prefix.
func ParseASN(s string) (uint32, error) {
	asn, err := parseASN(s)
	if err != nil {
		return 0, serrors.Join(ErrParse, err, "asn", s)
	}
	return asn, nil
}

func parseASN(s string) (uint32, error) {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) >= 2 && strings.EqualFold(trimmed[:2], "AS") {
		trimmed = trimmed[2:]
	}
	asn, err := strconv.ParseUint(trimmed, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(asn), nil
}

func (b ASBlock) String() string {
	if b.Min == b.Max {
		return fmt.Sprintf("AS%d", b.Min)
	}
	return fmt.Sprintf("AS%d-AS%d", b.Min, b.Max)
}

// ResourceState is the tri-state of a per-family resource set.
type ResourceState int

const (
	// Absent omits the family from the resource extension.
	Absent ResourceState = iota
	// Inherit marks the family as inherited from the issuer.
	Inherit
	// Explicit carries an ordered list of blocks.
	Explicit
)

func (s ResourceState) String() string {
	switch s {
	case Absent:
		return "absent"
	case Inherit:
		return "inherit"
	case Explicit:
		return "explicit"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// IPResources is the resource set of one IP address family.
type IPResources struct {
	State  ResourceState
	Blocks []IPBlock
}

// BuildIPResources computes the family's resource set. Inherit wins over an
// explicit block list; an empty list without inherit yields Absent. Blocks
// are passed through in the given order, without sorting or merging.
func BuildIPResources(inherit bool, blocks []IPBlock) IPResources {
	switch {
	case inherit:
		return IPResources{State: Inherit}
	case len(blocks) > 0:
		return IPResources{State: Explicit, Blocks: blocks}
	default:
		return IPResources{State: Absent}
	}
}

// ASResources is the AS number resource set.
type ASResources struct {
	State  ResourceState
	Blocks []ASBlock
}

// BuildASResources computes the AS resource set with the same precedence as
// BuildIPResources.
func BuildASResources(inherit bool, blocks []ASBlock) ASResources {
	switch {
	case inherit:
		return ASResources{State: Inherit}
	case len(blocks) > 0:
		return ASResources{State: Explicit, Blocks: blocks}
	default:
		return ASResources{State: Absent}
	}
}

// RFC 3779 wire structures. The CHOICE members are constructed as raw values
// since encoding/asn1 has no native CHOICE support.

type ipAddressFamily struct {
	AddressFamily []byte
	Choice        asn1.RawValue
}

type ipAddressRange struct {
	Min asn1.BitString
	Max asn1.BitString
}

type asIdentifiers struct {
	ASNum asn1.RawValue
}

type asRange struct {
	Min int64
	Max int64
}

var afi = map[bool][]byte{
	true:  {0x00, 0x01}, // IPv4
	false: {0x00, 0x02}, // IPv6
}

var inheritNull = asn1.RawValue{Class: asn1.ClassUniversal, Tag: asn1.TagNull}

// encodeIPResources encodes the two IP families into the critical IPAddrBlocks
// extension. The second return value is false when both families are absent
// and the extension must be omitted.
func encodeIPResources(v4, v6 IPResources, overclaim Overclaim) (pkix.Extension, bool, error) {
	var families []ipAddressFamily
	for _, fam := range []struct {
		v4  bool
		res IPResources
	}{{true, v4}, {false, v6}} {
		if fam.res.State == Absent {
			continue
		}
		choice, err := encodeIPChoice(fam.res, fam.v4)
		if err != nil {
			return pkix.Extension{}, false, err
		}
		families = append(families, ipAddressFamily{
			AddressFamily: afi[fam.v4],
			Choice:        choice,
		})
	}
	if len(families) == 0 {
		return pkix.Extension{}, false, nil
	}
	val, err := asn1.Marshal(families)
	if err != nil {
		return pkix.Extension{}, false, serrors.Join(ErrEncoding, err)
	}
	oid := OIDExtensionIPResources
	if overclaim == OverclaimTrim {
		oid = OIDExtensionIPResourcesV2
	}
	return pkix.Extension{Id: oid, Critical: true, Value: val}, true, nil
}

func encodeIPChoice(res IPResources, v4 bool) (asn1.RawValue, error) {
	if res.State == Inherit {
		return inheritNull, nil
	}
	elems := make([]asn1.RawValue, 0, len(res.Blocks))
	for _, block := range res.Blocks {
		if block.IsIPv4() != v4 {
			return asn1.RawValue{}, serrors.Join(ErrEncoding, nil,
				"block", block, "reason", "address family mismatch")
		}
		raw, err := encodeIPBlock(block)
		if err != nil {
			return asn1.RawValue{}, err
		}
		elems = append(elems, raw)
	}
	der, err := asn1.Marshal(elems)
	if err != nil {
		return asn1.RawValue{}, serrors.Join(ErrEncoding, err)
	}
	return asn1.RawValue{FullBytes: der}, nil
}

func encodeIPBlock(block IPBlock) (asn1.RawValue, error) {
	var der []byte
	var err error
	if block.isPrefix {
		masked := block.prefix.Masked()
		der, err = asn1.Marshal(addrBits(masked.Addr(), masked.Bits()))
	} else {
		r := block.ipRange
		der, err = asn1.Marshal(ipAddressRange{
			Min: addrBits(r.From(), significantMinBits(r.From())),
			Max: addrBits(r.To(), significantMaxBits(r.To())),
		})
	}
	if err != nil {
		return asn1.RawValue{}, serrors.Join(ErrEncoding, err, "block", block)
	}
	return asn1.RawValue{FullBytes: der}, nil
}

// addrBits renders the leading count bits of the address as a DER BIT STRING
// with zeroed padding bits.
func addrBits(a netip.Addr, count int) asn1.BitString {
	raw := a.AsSlice()
	n := (count + 7) / 8
	bytes := make([]byte, n)
	copy(bytes, raw[:n])
	if rem := count % 8; rem != 0 {
		bytes[n-1] &= byte(0xFF << (8 - rem))
	}
	return asn1.BitString{Bytes: bytes, BitLength: count}
}

// significantMinBits computes the bit count of a range lower bound with
// trailing zero bits truncated (RFC 3779, section 2.1.2).
func significantMinBits(a netip.Addr) int {
	raw := a.AsSlice()
	count := len(raw) * 8
	for i := len(raw) - 1; i >= 0; i-- {
		if raw[i] == 0x00 {
			count -= 8
			continue
		}
		for b := raw[i]; b&0x01 == 0; b >>= 1 {
			count--
		}
		break
	}
	return count
}

// significantMaxBits computes the bit count of a range upper bound with
// trailing one bits truncated.
func significantMaxBits(a netip.Addr) int {
	raw := a.AsSlice()
	count := len(raw) * 8
	for i := len(raw) - 1; i >= 0; i-- {
		if raw[i] == 0xFF {
			count -= 8
			continue
		}
		for b := raw[i]; b&0x01 == 1; b >>= 1 {
			count--
		}
		break
	}
	return count
}

// encodeASResources encodes the AS number blocks into the critical
// ASIdentifiers extension. The second return value is false when the set is
// absent and the extension must be omitted.
func encodeASResources(res ASResources, overclaim Overclaim) (pkix.Extension, bool, error) {
	if res.State == Absent {
		return pkix.Extension{}, false, nil
	}
	choice := inheritNull
	if res.State == Explicit {
		elems := make([]asn1.RawValue, 0, len(res.Blocks))
		for _, block := range res.Blocks {
			var der []byte
			var err error
			if block.Min == block.Max {
				der, err = asn1.Marshal(int64(block.Min))
			} else {
				der, err = asn1.Marshal(asRange{Min: int64(block.Min), Max: int64(block.Max)})
			}
			if err != nil {
				return pkix.Extension{}, false, serrors.Join(ErrEncoding, err, "block", block)
			}
			elems = append(elems, asn1.RawValue{FullBytes: der})
		}
		der, err := asn1.Marshal(elems)
		if err != nil {
			return pkix.Extension{}, false, serrors.Join(ErrEncoding, err)
		}
		choice = asn1.RawValue{FullBytes: der}
	}
	// The choice is wrapped in the explicit [0] asnum tag of ASIdentifiers.
	inner, err := asn1.Marshal(choice)
	if err != nil {
		return pkix.Extension{}, false, serrors.Join(ErrEncoding, err)
	}
	val, err := asn1.Marshal(asIdentifiers{
		ASNum: asn1.RawValue{
			Class:      asn1.ClassContextSpecific,
			Tag:        0,
			IsCompound: true,
			Bytes:      inner,
		},
	})
	if err != nil {
		return pkix.Extension{}, false, serrors.Join(ErrEncoding, err)
	}
	oid := OIDExtensionASResources
	if overclaim == OverclaimTrim {
		oid = OIDExtensionASResourcesV2
	}
	return pkix.Extension{Id: oid, Critical: true, Value: val}, true, nil
}
