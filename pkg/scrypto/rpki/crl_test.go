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

package rpki_test

import (
	"crypto/rand"
	"crypto/x509"
	"encoding/hex"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpkimake/mkrpki/pkg/scrypto"
	"github.com/rpkimake/mkrpki/pkg/scrypto/rpki"
)

func TestCRLEncode(t *testing.T) {
	key, err := scrypto.GenerateRSAKey()
	require.NoError(t, err)

	thisUpdate := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	tbs := rpki.TBSCertList{
		IssuerKey:  key.Public(),
		ThisUpdate: thisUpdate,
		NextUpdate: thisUpdate.Add(48 * time.Hour),
		Entries: []rpki.CRLEntry{
			{Serial: big.NewInt(13), RevocationTime: thisUpdate.Add(-time.Hour)},
			{Serial: big.NewInt(12), RevocationTime: thisUpdate.Add(-2 * time.Hour)},
		},
		Number: big.NewInt(7),
	}
	der, err := tbs.Encode(rand.Reader, key)
	require.NoError(t, err)

	crl, err := x509.ParseRevocationList(der)
	require.NoError(t, err)

	keyID, err := rpki.KeyIdentifier(key.Public())
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(keyID), crl.Issuer.CommonName)
	assert.Equal(t, int64(7), crl.Number.Int64())
	assert.Equal(t, thisUpdate, crl.ThisUpdate)
	assert.Equal(t, thisUpdate.Add(48*time.Hour), crl.NextUpdate)

	// Entries keep the given order, duplicates and ordering are the
	// caller's business.
	require.Len(t, crl.RevokedCertificateEntries, 2)
	assert.Equal(t, int64(13), crl.RevokedCertificateEntries[0].SerialNumber.Int64())
	assert.Equal(t, int64(12), crl.RevokedCertificateEntries[1].SerialNumber.Int64())
}

func TestCRLEncodeEmpty(t *testing.T) {
	key, err := scrypto.GenerateRSAKey()
	require.NoError(t, err)

	thisUpdate := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	tbs := rpki.TBSCertList{
		IssuerKey:  key.Public(),
		ThisUpdate: thisUpdate,
		NextUpdate: thisUpdate.Add(24 * time.Hour),
		Number:     big.NewInt(1),
	}
	der, err := tbs.Encode(rand.Reader, key)
	require.NoError(t, err)

	crl, err := x509.ParseRevocationList(der)
	require.NoError(t, err)
	assert.Empty(t, crl.RevokedCertificateEntries)
}

func TestCRLEncodeBadWindow(t *testing.T) {
	key, err := scrypto.GenerateRSAKey()
	require.NoError(t, err)

	thisUpdate := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	tbs := rpki.TBSCertList{
		IssuerKey:  key.Public(),
		ThisUpdate: thisUpdate,
		NextUpdate: thisUpdate,
		Number:     big.NewInt(1),
	}
	_, err = tbs.Encode(rand.Reader, key)
	assert.ErrorIs(t, err, rpki.ErrConfiguration)
}
