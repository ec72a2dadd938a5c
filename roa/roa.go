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

// Package roa implements the command that mints route origin attestations.
package roa

import (
	"crypto/rand"
	"fmt"
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

// NewRoaCmd returns a cobra command that mints a ROA.
func NewRoaCmd(pather command.Pather) *cobra.Command {
	now := time.Now().UTC()
	var flags struct {
		issuerKey    string
		serial       string
		notBefore    flag.Time
		notAfter     flag.Time
		days         uint
		crl          string
		caIssuer     string
		signedObject string
		asn          string
		prefixes     []string
		out          string
		profile      string
		force        bool
	}
	flags.notBefore = flag.Time{Current: now, Default: "now"}
	flags.notAfter = flag.Time{Current: now}

	cmd := &cobra.Command{
		Use:   "roa",
		Short: "Mint a route origin attestation",
		Example: fmt.Sprintf(`  %[1]s roa --issuer-key ca.key --serial 5 --days 365 \
    --crl rsync://example.net/repo/ca.crl \
    --ca-issuer rsync://example.net/repo/ca.cer \
    --signed-object rsync://example.net/repo/as64496.roa \
    --asn AS64496 --prefixes 192.0.2.0/24 --prefixes 2001:db8::/32-48 \
    --output as64496.roa`, pather.CommandPath()),
		Long: `'roa' mints a ROA attesting that an AS is authorized to originate routes
for a set of IP prefixes.

Prefixes are listed with the repeated '--prefixes' flag as 'addr/len' or, to
allow more specific announcements, 'addr/len-maxlen'. IPv4 and IPv6 prefixes
may be mixed; they are grouped by address family in the attestation.

The ROA is wrapped in a CMS signed object. A one-off key signs the content
and an embedded end-entity certificate, minted with the given serial and
validity and signed by the issuer key, vouches for the one-off key.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := conf.OptionalProfile(flags.profile)
			if err != nil {
				return err
			}
			conf.Default(&flags.issuerKey, profile.Keys.Issuer)
			conf.Default(&flags.crl, profile.URIs.CRL)
			conf.Default(&flags.caIssuer, profile.URIs.CAIssuer)
			conf.DefaultUint(&flags.days, profile.Validity.Days)

			if flags.issuerKey == "" || flags.serial == "" || flags.crl == "" ||
				flags.caIssuer == "" || flags.signedObject == "" ||
				flags.asn == "" || flags.out == "" {
				return serrors.Join(rpki.ErrConfiguration, nil, "reason",
					"issuer-key, serial, crl, ca-issuer, signed-object, asn "+
						"and output must be set")
			}
			for _, uri := range []string{flags.crl, flags.caIssuer, flags.signedObject} {
				if err := rpki.CheckRsyncURI(uri); err != nil {
					return err
				}
			}
			cmd.SilenceUsage = true

			signer, err := key.LoadPrivateKey(flags.issuerKey)
			if err != nil {
				return err
			}
			serial, err := rpki.ParseSerial(flags.serial)
			if err != nil {
				return err
			}
			asn, err := rpki.ParseASN(flags.asn)
			if err != nil {
				return err
			}
			validity, err := conf.Period{
				NotBefore: flags.notBefore.Time,
				NotAfter:  flags.notAfter.Time,
				Days:      flags.days,
				Span:      profile.Validity.Validity.Duration,
			}.Eval(now)
			if err != nil {
				return err
			}
			prefixes := make([]rpki.Prefix, 0, len(flags.prefixes))
			for _, p := range flags.prefixes {
				prefix, err := rpki.ParsePrefix(p)
				if err != nil {
					return err
				}
				prefixes = append(prefixes, prefix)
			}

			builder := rpki.SignedObjectBuilder{
				Serial:       serial,
				Validity:     validity,
				CRL:          flags.crl,
				CAIssuer:     flags.caIssuer,
				SignedObject: flags.signedObject,
			}
			encoded, err := builder.Finalize(rand.Reader, rpki.NewROA(asn, prefixes), signer)
			if err != nil {
				return err
			}
			if err := file.WriteFile(flags.out, encoded, 0644,
				file.WithForce(flags.force)); err != nil {
				return serrors.Join(rpki.ErrIO, err, "file", flags.out)
			}
			fmt.Printf("Roa: %s\n", flags.out)
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.issuerKey, "issuer-key", "",
		"Path to the private key of the issuer (required)",
	)
	cmd.Flags().StringVar(&flags.serial, "serial", "",
		"Serial number of the embedded certificate (required)",
	)
	cmd.Flags().Var(&flags.notBefore, "not-before",
		"Start of the validity period",
	)
	cmd.Flags().Var(&flags.notAfter, "not-after",
		"End of the validity period",
	)
	cmd.Flags().UintVar(&flags.days, "days", 0,
		"Validity of the embedded certificate in days",
	)
	cmd.Flags().StringVar(&flags.crl, "crl", "",
		"RPKI URI of the CRL (required)",
	)
	cmd.Flags().StringVar(&flags.caIssuer, "ca-issuer", "",
		"CA issuer URI (required)",
	)
	cmd.Flags().StringVar(&flags.signedObject, "signed-object", "",
		"Signed object URI (required)",
	)
	cmd.Flags().StringVar(&flags.asn, "asn", "",
		"Origin AS number (required)",
	)
	cmd.Flags().StringArrayVar(&flags.prefixes, "prefixes", nil,
		"IP prefix as 'addr/len' or 'addr/len-maxlen' (repeatable)",
	)
	cmd.Flags().StringVar(&flags.out, "output", "",
		"Path to write the ROA to (required)",
	)
	cmd.Flags().StringVar(&flags.profile, "profile", "",
		"Path to a TOML profile with default values",
	)
	cmd.Flags().BoolVar(&flags.force, "force", false,
		"Force overwriting an existing output file",
	)
	return cmd
}
