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

package conf

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/rpkimake/mkrpki/pkg/private/serrors"
	"github.com/rpkimake/mkrpki/pkg/private/util"
	"github.com/rpkimake/mkrpki/pkg/scrypto/rpki"
)

// Profile carries repository-wide defaults for the minting commands.
// Explicit flags always take precedence over profile values.
type Profile struct {
	Keys     KeyDefaults      `toml:"keys"`
	URIs     URIDefaults      `toml:"uris"`
	Validity ValidityDefaults `toml:"validity"`
}

// KeyDefaults points at the default key files.
type KeyDefaults struct {
	Issuer string `toml:"issuer"`
}

// URIDefaults holds the repository URIs shared by most objects.
type URIDefaults struct {
	CRL          string `toml:"crl"`
	CAIssuer     string `toml:"ca_issuer"`
	CARepository string `toml:"ca_repository"`
	Manifest     string `toml:"rpki_manifest"`
	Notify       string `toml:"rpki_notify"`
}

// ValidityDefaults holds the default validity spans, either as day counts
// or as durations with the extended unit suffixes (e.g. "1y", "2w").
type ValidityDefaults struct {
	Days       uint         `toml:"days"`
	NextDays   uint         `toml:"next_days"`
	Validity   util.DurWrap `toml:"validity"`
	NextUpdate util.DurWrap `toml:"next_update"`
}

// LoadProfile reads a profile from a TOML file.
func LoadProfile(filename string) (Profile, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return Profile{}, serrors.Join(rpki.ErrIO, err, "file", filename)
	}
	var p Profile
	if err := toml.Unmarshal(raw, &p); err != nil {
		return Profile{}, serrors.Join(rpki.ErrConfiguration, err, "file", filename)
	}
	return p, nil
}

// OptionalProfile loads the profile if a filename is given. An empty
// filename yields the zero profile.
func OptionalProfile(filename string) (Profile, error) {
	if filename == "" {
		return Profile{}, nil
	}
	return LoadProfile(filename)
}

// Default sets dst to def if dst is empty.
func Default(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}

// DefaultUint sets dst to def if dst is zero.
func DefaultUint(dst *uint, def uint) {
	if *dst == 0 {
		*dst = def
	}
}
