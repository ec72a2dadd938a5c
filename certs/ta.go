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
	"crypto"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
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

// NewTaCmd returns a cobra command that mints a trust-anchor certificate and
// optionally the matching TAL file.
func NewTaCmd(pather command.Pather) *cobra.Command {
	now := time.Now().UTC()
	var flags struct {
		key          string
		serial       string
		notBefore    flag.Time
		notAfter     flag.Time
		days         uint
		caRepository string
		manifest     string
		notify       string
		v4           []string
		v6           []string
		as           []string
		talRsyncURI  string
		talHTTPSURI  string
		out          string
		outTAL       string
		profile      string
		force        bool
	}
	flags.notBefore = flag.Time{Current: now, Default: "now"}
	flags.notAfter = flag.Time{Current: now}

	cmd := &cobra.Command{
		Use:   "ta",
		Short: "Mint a self-signed trust-anchor certificate",
		Example: fmt.Sprintf(`  %[1]s ta --key ta.key --serial 1 --days 3650 \
    --ca-repository rsync://example.net/repo/ \
    --rpki-manifest rsync://example.net/repo/ta.mft \
    --v4 10.0.0.0/8 --as AS64496-AS64511 \
    --output ta.cer`, pather.CommandPath()),
		Long: `'ta' mints the self-signed certificate at the root of a resource PKI.

The certificate is signed with the private key given by the '--key' flag and
carries the corresponding public key as its subject key. Subject and issuer
names are derived from that key per the RPKI naming convention.

The validity period is defined by '--not-before' (defaults to now) together
with either an explicit '--not-after' or a '--days' span. An explicit
'--not-after' wins if both are given.

Resources are listed with the repeated '--v4', '--v6' and '--as' flags. IP
resources accept prefixes ('10.0.0.0/8') and ranges ('10.0.0.0-10.255.255.255'),
AS resources accept single numbers and ranges, with or without the 'AS'
prefix.

With '--output-tal', the command additionally writes a TAL file pointing at
the certificate via '--tal-rsync-uri' and optionally '--tal-https-uri'.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := conf.OptionalProfile(flags.profile)
			if err != nil {
				return err
			}
			conf.Default(&flags.key, profile.Keys.Issuer)
			conf.Default(&flags.caRepository, profile.URIs.CARepository)
			conf.Default(&flags.manifest, profile.URIs.Manifest)
			conf.Default(&flags.notify, profile.URIs.Notify)
			conf.DefaultUint(&flags.days, profile.Validity.Days)

			if err := checkSet(
				"key", flags.key,
				"serial", flags.serial,
				"ca-repository", flags.caRepository,
				"rpki-manifest", flags.manifest,
				"output", flags.out,
			); err != nil {
				return err
			}
			if err := rpki.CheckRsyncURI(flags.caRepository); err != nil {
				return err
			}
			if err := rpki.CheckRsyncURI(flags.manifest); err != nil {
				return err
			}
			if flags.notify != "" {
				if err := rpki.CheckHTTPSURI(flags.notify); err != nil {
					return err
				}
			}
			if flags.outTAL != "" {
				if err := checkSet("tal-rsync-uri", flags.talRsyncURI); err != nil {
					return err
				}
				if err := rpki.CheckRsyncURI(flags.talRsyncURI); err != nil {
					return err
				}
				if flags.talHTTPSURI != "" {
					if err := rpki.CheckHTTPSURI(flags.talHTTPSURI); err != nil {
						return err
					}
				}
			}
			cmd.SilenceUsage = true

			signer, err := key.LoadPrivateKey(flags.key)
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

			cert := rpki.NewTrustAnchorCert(
				serial, validity, signer.Public(),
				flags.caRepository, flags.manifest, flags.notify,
				rpki.BuildIPResources(false, v4Blocks),
				rpki.BuildIPResources(false, v6Blocks),
				rpki.BuildASResources(false, asBlocks),
			)
			encoded, err := cert.Encode(rand.Reader, signer)
			if err != nil {
				return err
			}
			if err := file.WriteFile(flags.out, encoded, 0644,
				file.WithForce(flags.force)); err != nil {
				return serrors.Join(rpki.ErrIO, err, "file", flags.out)
			}
			fmt.Printf("TA:  %s\n", flags.out)

			if flags.outTAL == "" {
				return nil
			}
			tal, err := encodeTAL(flags.talRsyncURI, flags.talHTTPSURI, signer.Public())
			if err != nil {
				return err
			}
			if err := file.WriteFile(flags.outTAL, tal, 0644,
				file.WithForce(flags.force)); err != nil {
				return serrors.Join(rpki.ErrIO, err, "file", flags.outTAL)
			}
			fmt.Printf("TAL: %s\n", flags.outTAL)
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.key, "key", "",
		"Path to the private key of the trust anchor (required)",
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
	cmd.Flags().StringArrayVar(&flags.v6, "v6", nil,
		"IPv6 resources (repeatable)",
	)
	cmd.Flags().StringArrayVar(&flags.as, "as", nil,
		"AS resources (repeatable)",
	)
	cmd.Flags().StringVar(&flags.talRsyncURI, "tal-rsync-uri", "",
		"Rsync URI to include in the TAL file",
	)
	cmd.Flags().StringVar(&flags.talHTTPSURI, "tal-https-uri", "",
		"Optional HTTPS URI to include in the TAL file",
	)
	cmd.Flags().StringVar(&flags.out, "output", "",
		"Path to write the certificate to (required)",
	)
	cmd.Flags().StringVar(&flags.outTAL, "output-tal", "",
		"Path to write the TAL file to",
	)
	cmd.Flags().StringVar(&flags.profile, "profile", "",
		"Path to a TOML profile with default values",
	)
	cmd.Flags().BoolVar(&flags.force, "force", false,
		"Force overwriting existing output files",
	)
	return cmd
}

// encodeTAL renders the TAL text for the trust anchor: the certificate URIs,
// a blank line, and the base64 encoded subjectPublicKeyInfo.
func encodeTAL(rsyncURI, httpsURI string, pub crypto.PublicKey) ([]byte, error) {
	spki, err := scrypto.EncodePublicKey(pub)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	sb.WriteString(rsyncURI)
	sb.WriteString("\n")
	if httpsURI != "" {
		sb.WriteString(httpsURI)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(base64.StdEncoding.EncodeToString(spki))
	sb.WriteString("\n")
	return []byte(sb.String()), nil
}
