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
	"encoding/pem"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rpkimake/mkrpki/pkg/file"
	"github.com/rpkimake/mkrpki/pkg/private/serrors"
	"github.com/rpkimake/mkrpki/pkg/scrypto"
	"github.com/rpkimake/mkrpki/private/app/command"
)

// NewPublicCmd returns a cobra command that extracts the public key from a
// private key.
func NewPublicCmd(pather command.Pather) *cobra.Command {
	var flags struct {
		out   string
		force bool
	}
	cmd := &cobra.Command{
		Use:   "public [flags] <private-key-file>",
		Short: "Generate public key for the provided private key",
		Example: fmt.Sprintf(`  %[1]s public ca.key
  %[1]s public ca.key --out ca.pub`, pather.CommandPath()),
		Long: `'public' derives the public key from the provided private key.

The public key is PEM encoded in the subjectPublicKeyInfo form referenced by
TAL files. By default, the public key is written to standard out. With the
'--out' flag, it is written to a file instead. An existing file is only
overwritten if the '--force' flag is set.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			priv, err := LoadPrivateKey(args[0])
			if err != nil {
				return err
			}
			raw, err := scrypto.EncodePublicKey(priv.Public())
			if err != nil {
				return err
			}
			encoded := pem.EncodeToMemory(&pem.Block{
				Type:  "PUBLIC KEY",
				Bytes: raw,
			})
			if encoded == nil {
				panic("PEM encoding failed")
			}
			if flags.out == "" {
				fmt.Print(string(encoded))
				return nil
			}
			if err := file.WriteFile(flags.out, encoded, 0644,
				file.WithForce(flags.force)); err != nil {
				return serrors.Wrap("writing public key", err)
			}
			fmt.Printf("Public key successfully written to %q\n", flags.out)
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.out, "out", "",
		"Path to write public key",
	)
	cmd.Flags().BoolVar(&flags.force, "force", false,
		"Force overwriting existing public key",
	)
	return cmd
}
