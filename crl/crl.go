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

// Package crl implements the command that mints certificate revocation
// lists.
package crl

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rpkimake/mkrpki/conf"
	"github.com/rpkimake/mkrpki/key"
	"github.com/rpkimake/mkrpki/pkg/file"
	"github.com/rpkimake/mkrpki/pkg/private/serrors"
	"github.com/rpkimake/mkrpki/pkg/scrypto/rpki"
	"github.com/rpkimake/mkrpki/private/app/command"
	"github.com/rpkimake/mkrpki/private/app/flag"
)

// NewCrlCmd returns a cobra command that mints a CRL.
func NewCrlCmd(pather command.Pather) *cobra.Command {
	now := time.Now().UTC()
	var flags struct {
		issuerKey  string
		thisUpdate flag.Time
		nextUpdate flag.Time
		nextDays   uint
		entries    []string
		number     string
		out        string
		profile    string
		force      bool
	}
	flags.thisUpdate = flag.Time{Current: now, Default: "now"}
	flags.nextUpdate = flag.Time{Current: now}

	cmd := &cobra.Command{
		Use:   "crl",
		Short: "Mint a certificate revocation list",
		Example: fmt.Sprintf(`  %[1]s crl --issuer-key ta.key --crl 7 --next-days 2 \
    --cert 12 --cert 13@2024-06-01T00:00:00Z \
    --output ta.crl`, pather.CommandPath()),
		Long: `'crl' mints a CRL signed with the issuer private key.

Revoked certificates are listed with the repeated '--cert' flag, either as a
bare serial number or as 'serial@time' with an RFC 3339 revocation time. A
bare serial is revoked as of now. Entries appear on the CRL in the order
given.

The update window is defined by '--this-update' (defaults to now) together
with either an explicit '--next-update' or a '--next-days' span. The CRL
number is given by the '--crl' flag; keeping it monotonically increasing
across successive CRLs is the caller's responsibility.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := conf.OptionalProfile(flags.profile)
			if err != nil {
				return err
			}
			conf.Default(&flags.issuerKey, profile.Keys.Issuer)
			conf.DefaultUint(&flags.nextDays, profile.Validity.NextDays)

			if flags.issuerKey == "" || flags.number == "" || flags.out == "" {
				return serrors.Join(rpki.ErrConfiguration, nil,
					"reason", "issuer-key, crl and output must be set")
			}
			cmd.SilenceUsage = true

			signer, err := key.LoadPrivateKey(flags.issuerKey)
			if err != nil {
				return err
			}
			number, err := rpki.ParseSerial(flags.number)
			if err != nil {
				return err
			}
			update, err := conf.Period{
				NotBefore: flags.thisUpdate.Time,
				NotAfter:  flags.nextUpdate.Time,
				Days:      flags.nextDays,
				Span:      profile.Validity.NextUpdate.Duration,
			}.Eval(now)
			if err != nil {
				return err
			}
			entries, err := parseEntries(flags.entries, now)
			if err != nil {
				return err
			}

			list := rpki.TBSCertList{
				IssuerKey:  signer.Public(),
				ThisUpdate: update.NotBefore,
				NextUpdate: update.NotAfter,
				Entries:    entries,
				Number:     number,
			}
			encoded, err := list.Encode(rand.Reader, signer)
			if err != nil {
				return err
			}
			if err := file.WriteFile(flags.out, encoded, 0644,
				file.WithForce(flags.force)); err != nil {
				return serrors.Join(rpki.ErrIO, err, "file", flags.out)
			}
			fmt.Printf("Crl: %s\n", flags.out)
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.issuerKey, "issuer-key", "",
		"Path to the private key of the issuer (required)",
	)
	cmd.Flags().Var(&flags.thisUpdate, "this-update",
		"Time of this update",
	)
	cmd.Flags().Var(&flags.nextUpdate, "next-update",
		"Time of the next update",
	)
	cmd.Flags().UintVar(&flags.nextDays, "next-days", 0,
		"Days until the next update",
	)
	cmd.Flags().StringArrayVarP(&flags.entries, "cert", "c", nil,
		"Revoked certificate as 'serial' or 'serial@time' (repeatable)",
	)
	cmd.Flags().StringVar(&flags.number, "crl", "",
		"CRL number (required)",
	)
	cmd.Flags().StringVar(&flags.out, "output", "",
		"Path to write the CRL to (required)",
	)
	cmd.Flags().StringVar(&flags.profile, "profile", "",
		"Path to a TOML profile with default values",
	)
	cmd.Flags().BoolVar(&flags.force, "force", false,
		"Force overwriting an existing output file",
	)
	return cmd
}

// parseEntries parses the revocation entry flag values. Entries without a
// revocation time are revoked as of now.
func parseEntries(values []string, now time.Time) ([]rpki.CRLEntry, error) {
	if len(values) == 0 {
		return nil, nil
	}
	entries := make([]rpki.CRLEntry, 0, len(values))
	for _, v := range values {
		serialPart, timePart, hasTime := strings.Cut(v, "@")
		serial, err := rpki.ParseSerial(serialPart)
		if err != nil {
			return nil, serrors.Join(rpki.ErrParse, err,
				"reason", "invalid CRL entry", "input", v)
		}
		revoked := now
		if hasTime {
			revoked, err = time.Parse(time.RFC3339, timePart)
			if err != nil {
				return nil, serrors.Join(rpki.ErrParse, err,
					"reason", "invalid CRL entry", "input", v)
			}
		}
		entries = append(entries, rpki.CRLEntry{
			Serial:         serial,
			RevocationTime: revoked.UTC().Truncate(time.Second),
		})
	}
	return entries, nil
}
