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

// Package mft implements the command that mints RPKI manifests.
package mft

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rpkimake/mkrpki/conf"
	"github.com/rpkimake/mkrpki/key"
	"github.com/rpkimake/mkrpki/pkg/file"
	"github.com/rpkimake/mkrpki/pkg/private/serrors"
	"github.com/rpkimake/mkrpki/pkg/scrypto"
	"github.com/rpkimake/mkrpki/pkg/scrypto/rpki"
	"github.com/rpkimake/mkrpki/private/app/command"
	"github.com/rpkimake/mkrpki/private/app/flag"
)

// NewMftCmd returns a cobra command that mints a manifest over a set of
// repository files.
func NewMftCmd(pather command.Pather) *cobra.Command {
	now := time.Now().UTC()
	var flags struct {
		issuerKey    string
		serial       string
		notBefore    flag.Time
		notAfter     flag.Time
		days         uint
		crl          string
		caIssuer     string
		number       string
		signedObject string
		thisUpdate   flag.Time
		nextUpdate   flag.Time
		nextDays     uint
		files        []string
		out          string
		profile      string
		force        bool
	}
	flags.notBefore = flag.Time{Current: now, Default: "now"}
	flags.notAfter = flag.Time{Current: now}
	flags.thisUpdate = flag.Time{Current: now, Default: "now"}
	flags.nextUpdate = flag.Time{Current: now}

	cmd := &cobra.Command{
		Use:   "mft",
		Short: "Mint a manifest over repository files",
		Example: fmt.Sprintf(`  %[1]s mft --issuer-key ca.key --serial 6 --days 7 \
    --crl rsync://example.net/repo/ca.crl \
    --ca-issuer rsync://example.net/repo/ca.cer \
    --signed-object rsync://example.net/repo/ca.mft \
    --number 42 --next-days 2 \
    --files ca.crl --files as64496.roa \
    --output ca.mft`, pather.CommandPath()),
		Long: `'mft' mints a manifest listing the current contents of a repository
publication point.

Each file given by the repeated '--files' flag is listed under its base name
together with its SHA-256 digest, in the order given. File names must be
ASCII.

The manifest update window is defined by '--this-update' (defaults to now)
together with either an explicit '--next-update' or a '--next-days' span. The
embedded end-entity certificate uses the separate '--not-before',
'--not-after' and '--days' flags. The manifest number given by '--number'
must increase with every manifest issued at the same publication point.

The manifest is wrapped in a CMS signed object, analogous to ROAs.
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
			conf.DefaultUint(&flags.nextDays, profile.Validity.NextDays)

			if flags.issuerKey == "" || flags.serial == "" || flags.crl == "" ||
				flags.caIssuer == "" || flags.signedObject == "" ||
				flags.number == "" || flags.out == "" {
				return serrors.Join(rpki.ErrConfiguration, nil, "reason",
					"issuer-key, serial, crl, ca-issuer, signed-object, number "+
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
			number, err := rpki.ParseSerial(flags.number)
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
			update, err := conf.Period{
				NotBefore: flags.thisUpdate.Time,
				NotAfter:  flags.nextUpdate.Time,
				Days:      flags.nextDays,
				Span:      profile.Validity.NextUpdate.Duration,
			}.Eval(now)
			if err != nil {
				return err
			}
			alg := scrypto.DefaultDigest()
			files, err := rpki.ListFiles(flags.files, alg)
			if err != nil {
				return err
			}

			content := rpki.ManifestContent{
				Number:     number,
				ThisUpdate: update.NotBefore,
				NextUpdate: update.NotAfter,
				Alg:        alg,
				Files:      files,
			}
			builder := rpki.SignedObjectBuilder{
				Serial:       serial,
				Validity:     validity,
				CRL:          flags.crl,
				CAIssuer:     flags.caIssuer,
				SignedObject: flags.signedObject,
			}
			encoded, err := builder.Finalize(rand.Reader, content, signer)
			if err != nil {
				return err
			}
			if err := file.WriteFile(flags.out, encoded, 0644,
				file.WithForce(flags.force)); err != nil {
				return serrors.Join(rpki.ErrIO, err, "file", flags.out)
			}
			fmt.Printf("Mft: %s\n", flags.out)
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
		"Start of the certificate validity period",
	)
	cmd.Flags().Var(&flags.notAfter, "not-after",
		"End of the certificate validity period",
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
	cmd.Flags().StringVar(&flags.number, "number", "",
		"Manifest number (required)",
	)
	cmd.Flags().StringVar(&flags.signedObject, "signed-object", "",
		"Signed object URI (required)",
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
	cmd.Flags().StringArrayVar(&flags.files, "files", nil,
		"File to list on the manifest (repeatable)",
	)
	cmd.Flags().StringVar(&flags.out, "output", "",
		"Path to write the manifest to (required)",
	)
	cmd.Flags().StringVar(&flags.profile, "profile", "",
		"Path to a TOML profile with default values",
	)
	cmd.Flags().BoolVar(&flags.force, "force", false,
		"Force overwriting an existing output file",
	)
	return cmd
}
