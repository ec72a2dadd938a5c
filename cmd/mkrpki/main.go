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

// mkrpki mints the objects of a resource PKI: trust-anchor and CA
// certificates, CRLs, ROAs and manifests.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rpkimake/mkrpki/certs"
	"github.com/rpkimake/mkrpki/crl"
	"github.com/rpkimake/mkrpki/key"
	"github.com/rpkimake/mkrpki/mft"
	"github.com/rpkimake/mkrpki/private/app/command"
	"github.com/rpkimake/mkrpki/roa"
)

func main() {
	executable := "mkrpki"
	cmd := &cobra.Command{
		Use:           executable,
		Short:         "RPKI object minting tool",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
	}
	pather := command.StringPather(executable)
	cmd.AddCommand(
		certs.NewTaCmd(pather),
		certs.NewCerCmd(pather),
		crl.NewCrlCmd(pather),
		roa.NewRoaCmd(pather),
		mft.NewMftCmd(pather),
		key.Cmd(pather),
		command.NewCompletion(pather),
		command.NewGendocs(pather),
		newVersion(),
	)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
