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

package roa_test

import (
	"crypto/x509"
	"encoding/asn1"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpkimake/mkrpki/pkg/scrypto"
	"github.com/rpkimake/mkrpki/pkg/scrypto/rpki"
	"github.com/rpkimake/mkrpki/private/app/command"
	"github.com/rpkimake/mkrpki/roa"
)

func writeTestKey(t *testing.T, dir string) string {
	t.Helper()
	priv, err := scrypto.GenerateRSAKey()
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	require.NoError(t, err)
	name := filepath.Join(dir, "ca.key")
	raw := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
	require.NoError(t, os.WriteFile(name, raw, 0600))
	return name
}

func TestRoaCmd(t *testing.T) {
	dir := t.TempDir()
	keyFile := writeTestKey(t, dir)
	out := filepath.Join(dir, "as64496.roa")

	cmd := roa.NewRoaCmd(command.StringPather("test"))
	cmd.SetArgs([]string{
		"--issuer-key", keyFile,
		"--serial", "5",
		"--days", "365",
		"--crl", "rsync://example.net/repo/ca.crl",
		"--ca-issuer", "rsync://example.net/repo/ca.cer",
		"--signed-object", "rsync://example.net/repo/as64496.roa",
		"--asn", "AS64496",
		"--prefixes", "192.0.2.0/24-28",
		"--prefixes", "2001:db8::/32",
		"--output", out,
	})
	require.NoError(t, cmd.Execute())

	raw, err := os.ReadFile(out)
	require.NoError(t, err)

	var info struct {
		ContentType asn1.ObjectIdentifier
		Content     asn1.RawValue
	}
	rest, err := asn1.Unmarshal(raw, &info)
	require.NoError(t, err)
	assert.Empty(t, rest)
	assert.Equal(t, rpki.OIDContentTypeSignedData, info.ContentType)
}

func TestRoaCmdErrors(t *testing.T) {
	dir := t.TempDir()
	keyFile := writeTestKey(t, dir)
	out := filepath.Join(dir, "as64496.roa")

	base := func(override ...string) []string {
		args := []string{
			"--issuer-key", keyFile,
			"--serial", "5",
			"--days", "365",
			"--crl", "rsync://example.net/repo/ca.crl",
			"--ca-issuer", "rsync://example.net/repo/ca.cer",
			"--signed-object", "rsync://example.net/repo/as64496.roa",
			"--asn", "AS64496",
			"--prefixes", "192.0.2.0/24",
			"--output", out,
		}
		return append(args, override...)
	}

	testCases := map[string][]string{
		"bad asn":                base("--asn", "ASfoo"),
		"bad prefix":             base("--prefixes", "192.0.2.0"),
		"prefix length over bits": base("--prefixes", "192.0.2.0/42"),
		"non rsync object":        base("--signed-object", "https://example.net/a.roa"),
		"missing asn":             base("--asn", ""),
	}
	for name, args := range testCases {
		t.Run(name, func(t *testing.T) {
			cmd := roa.NewRoaCmd(command.StringPather("test"))
			cmd.SetArgs(args)
			cmd.SilenceErrors = true
			assert.Error(t, cmd.Execute())
			assert.NoFileExists(t, out)
		})
	}
}
