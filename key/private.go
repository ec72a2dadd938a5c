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

package key

import (
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rpkimake/mkrpki/pkg/file"
	"github.com/rpkimake/mkrpki/pkg/private/serrors"
	"github.com/rpkimake/mkrpki/pkg/scrypto"
	"github.com/rpkimake/mkrpki/private/app/command"
)

// NewPrivateCmd returns a cobra command that generates new private keys.
func NewPrivateCmd(pather command.Pather) *cobra.Command {
	var flags struct {
		force bool
	}
	cmd := &cobra.Command{
		Use:   "private [flags] <private-key-file>",
		Short: "Generate private key at the specified location",
		Example: fmt.Sprintf(`  %[1]s private ca.key
  %[1]s private --force ca.key`, pather.CommandPath()),
		Long: `'private' generates a PEM encoded RSA-2048 private key at the specified location.

RPKI resource certificates require RSA with 2048-bit keys, so that is what
this command produces. The key is written in PKCS #8 form.

The contents are the private key in PEM format. If the file already exists,
the command errors out, unless the '--force' flag is set.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			filename := args[0]
			if err := file.CheckDirExists(filepath.Dir(filename)); err != nil {
				return serrors.Wrap("checking that directory of private key exists", err)
			}
			key, err := scrypto.GenerateRSAKey()
			if err != nil {
				return serrors.Wrap("generating private key", err)
			}
			raw, err := x509.MarshalPKCS8PrivateKey(key)
			if err != nil {
				return serrors.Wrap("encoding private key", err)
			}
			encoded := pem.EncodeToMemory(&pem.Block{
				Type:  "PRIVATE KEY",
				Bytes: raw,
			})
			if encoded == nil {
				panic("PEM encoding failed")
			}
			if err := file.WriteFile(filename, encoded, 0600,
				file.WithForce(flags.force)); err != nil {
				return serrors.Wrap("writing private key", err)
			}
			fmt.Printf("Private key successfully written to %q\n", filename)
			return nil
		},
	}
	cmd.Flags().BoolVar(&flags.force, "force", false,
		"Force overwriting existing private key",
	)
	return cmd
}
