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

package certs

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

// NewCerCmd returns a cobra command that mints a subordinate CA certificate.
func NewCerCmd(pather command.Pather) *cobra.Command {
	now := time.Now().UTC()
	var flags struct {
		issuerKey    string
		subjectKey   string
		serial       string
		notBefore    flag.Time
		notAfter     flag.Time
		days         uint
		trim         bool
		crl          string
		caIssuer     string
		caRepository string
		manifest     string
		notify       string
		v4           []string
		inheritV4    bool
		v6           []string
		inheritV6    bool
		as           []string
		inheritAS    bool
		out          string
		profile      string
		force        bool
	}
	flags.notBefore = flag.Time{Current: now, Default: "now"}
	flags.notAfter = flag.Time{Current: now}

	cmd := &cobra.Command{
		Use:   "cer",
		Short: "Mint a CA certificate",
		Example: fmt.Sprintf(`  %[1]s cer --issuer-key ta.key --subject-key child.pub \
    --serial 2 --days 365 \
    --crl rsync://example.net/repo/ta.crl \
    --ca-issuer rsync://example.net/repo/ta.cer \
    --ca-repository rsync://example.net/repo/child/ \
    --rpki-manifest rsync://example.net/repo/child/child.mft \
    --inherit-v4 --inherit-v6 --inherit-as \
    --output child.cer`, pather.CommandPath()),
		Long: `'cer' mints a CA certificate for a subordinate key.

The certificate binds the public key given by '--subject-key' and is signed
with the issuer private key given by '--issuer-key'. Subject and issuer names
are derived from the respective keys per the RPKI naming convention.

Each resource family is either listed explicitly with the repeated '--v4',
'--v6' and '--as' flags, or inherited from the issuer with the corresponding
'--inherit-v4', '--inherit-v6' and '--inherit-as' flags. Inheriting overrides
any explicit listing for that family. A family with neither is absent from
the certificate.

By default, relying parties must refuse certificates that overclaim their
issuer's resources. With '--trim-resources' the certificate instead requests
that overclaimed resources are trimmed (RFC 8360).
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
			conf.Default(&flags.caRepository, profile.URIs.CARepository)
			conf.Default(&flags.manifest, profile.URIs.Manifest)
			conf.Default(&flags.notify, profile.URIs.Notify)
			conf.DefaultUint(&flags.days, profile.Validity.Days)

			if err := checkSet(
				"issuer-key", flags.issuerKey,
				"subject-key", flags.subjectKey,
				"serial", flags.serial,
				"crl", flags.crl,
				"ca-issuer", flags.caIssuer,
				"ca-repository", flags.caRepository,
				"rpki-manifest", flags.manifest,
				"output", flags.out,
			); err != nil {
				return err
			}
			for _, uri := range []string{
				flags.crl, flags.caIssuer, flags.caRepository, flags.manifest,
			} {
				if err := rpki.CheckRsyncURI(uri); err != nil {
					return err
				}
			}
			if flags.notify != "" {
				if err := rpki.CheckHTTPSURI(flags.notify); err != nil {
					return err
				}
			}
			cmd.SilenceUsage = true

			signer, err := key.LoadPrivateKey(flags.issuerKey)
			if err != nil {
				return err
			}
			subjectKey, err := key.LoadPublicKey(flags.subjectKey)
			if err != nil {
				return err
			}
			serial, err := rpki.ParseSerial(flags.serial)
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
			v4Blocks, err := parseIPBlocks(flags.v4)
			if err != nil {
				return err
			}
			v6Blocks, err := parseIPBlocks(flags.v6)
			if err != nil {
				return err
			}
			asBlocks, err := parseASBlocks(flags.as)
			if err != nil {
				return err
			}
			overclaim := rpki.OverclaimRefuse
			if flags.trim {
				overclaim = rpki.OverclaimTrim
			}

			cert := rpki.NewCACert(
				serial, validity, subjectKey, signer.Public(),
				flags.crl, flags.caIssuer,
				flags.caRepository, flags.manifest, flags.notify,
				overclaim,
				rpki.BuildIPResources(flags.inheritV4, v4Blocks),
				rpki.BuildIPResources(flags.inheritV6, v6Blocks),
				rpki.BuildASResources(flags.inheritAS, asBlocks),
			)
			encoded, err := cert.Encode(rand.Reader, signer)
			if err != nil {
				return err
			}
			if err := file.WriteFile(flags.out, encoded, 0644,
				file.WithForce(flags.force)); err != nil {
				return serrors.Join(rpki.ErrIO, err, "file", flags.out)
			}
			fmt.Printf("Cer: %s\n", flags.out)
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.issuerKey, "issuer-key", "",
		"Path to the private key of the issuer (required)",
	)
	cmd.Flags().StringVar(&flags.subjectKey, "subject-key", "",
		"Path to the public key of the subject (required)",
	)
	cmd.Flags().StringVar(&flags.serial, "serial", "",
		"Serial number of the certificate (required)",
	)
	cmd.Flags().Var(&flags.notBefore, "not-before",
		"Start of the validity period",
	)
	cmd.Flags().Var(&flags.notAfter, "not-after",
		"End of the validity period",
	)
	cmd.Flags().UintVar(&flags.days, "days", 0,
		"Validity of the certificate in days",
	)
	cmd.Flags().BoolVar(&flags.trim, "trim-resources", false,
		"Request trimming of overclaimed resources",
	)
	cmd.Flags().StringVar(&flags.crl, "crl", "",
		"RPKI URI of the CRL (required)",
	)
	cmd.Flags().StringVar(&flags.caIssuer, "ca-issuer", "",
		"CA issuer URI (required)",
	)
	cmd.Flags().StringVar(&flags.caRepository, "ca-repository", "",
		"CA repository URI (required)",
	)
	cmd.Flags().StringVar(&flags.manifest, "rpki-manifest", "",
		"RPKI manifest URI (required)",
	)
	cmd.Flags().StringVar(&flags.notify, "rpki-notify", "",
		"Optional RPKI notify URI",
	)
	cmd.Flags().StringArrayVar(&flags.v4, "v4", nil,
		"IPv4 resources (repeatable)",
	)
	cmd.Flags().BoolVar(&flags.inheritV4, "inherit-v4", false,
		"Inherit IPv4 resources from the issuer",
	)
	cmd.Flags().StringArrayVar(&flags.v6, "v6", nil,
		"IPv6 resources (repeatable)",
	)
	cmd.Flags().BoolVar(&flags.inheritV6, "inherit-v6", false,
		"Inherit IPv6 resources from the issuer",
	)
	cmd.Flags().StringArrayVar(&flags.as, "as", nil,
		"AS resources (repeatable)",
	)
	cmd.Flags().BoolVar(&flags.inheritAS, "inherit-as", false,
		"Inherit AS resources from the issuer",
	)
	cmd.Flags().StringVar(&flags.out, "output", "",
		"Path to write the certificate to (required)",
	)
	cmd.Flags().StringVar(&flags.profile, "profile", "",
		"Path to a TOML profile with default values",
	)
	cmd.Flags().BoolVar(&flags.force, "force", false,
		"Force overwriting an existing output file",
	)
	return cmd
}
