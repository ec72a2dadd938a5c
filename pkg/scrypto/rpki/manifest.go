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

package rpki

import (
	"encoding/asn1"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"time"
	"unicode"

	"github.com/rpkimake/mkrpki/pkg/private/serrors"
	"github.com/rpkimake/mkrpki/pkg/scrypto"
)

// FileAndHash is one manifest entry: the file name (final path segment of
// the input file) and the digest over its content.
type FileAndHash struct {
	File string
	Hash []byte
}

// readChunkSize is the buffer size used when streaming files through the
// digest.
const readChunkSize = 4096

// ListFiles streams each input file through the digest algorithm and
// produces the manifest entry list in the order the paths were given. The
// whole listing aborts on the first unreadable file or non-ASCII file name.
func ListFiles(paths []string, alg scrypto.DigestAlgorithm) ([]FileAndHash, error) {
	files := make([]FileAndHash, 0, len(paths))
	for _, path := range paths {
		entry, err := hashFile(path, alg)
		if err != nil {
			return nil, err
		}
		files = append(files, entry)
	}
	return files, nil
}

func hashFile(path string, alg scrypto.DigestAlgorithm) (FileAndHash, error) {
	name := filepath.Base(path)
	if !isASCII(name) {
		return FileAndHash{}, serrors.Join(ErrInvalidFileName, nil, "file", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return FileAndHash{}, serrors.Join(ErrIO, err, "file", path)
	}
	defer f.Close()

	digest := alg.Start()
	buf := make([]byte, readChunkSize)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			digest.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return FileAndHash{}, serrors.Join(ErrIO, err, "file", path)
		}
	}
	return FileAndHash{File: name, Hash: digest.Sum(nil)}, nil
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// ManifestContent is the unsigned content of a manifest: the manifest
// number, the update window and the file list in its given order.
type ManifestContent struct {
	Number     *big.Int
	ThisUpdate time.Time
	NextUpdate time.Time
	Alg        scrypto.DigestAlgorithm
	Files      []FileAndHash
}

// ContentType returns the signed object content type of manifests.
func (m ManifestContent) ContentType() asn1.ObjectIdentifier {
	return OIDContentTypeManifest
}

// RFC 6486 wire structures. The version field defaults to zero and is
// omitted in DER.

type manifestContent struct {
	Number      *big.Int
	ThisUpdate  time.Time `asn1:"generalized"`
	NextUpdate  time.Time `asn1:"generalized"`
	FileHashAlg asn1.ObjectIdentifier
	FileList    []fileAndHash
}

type fileAndHash struct {
	File string `asn1:"ia5"`
	Hash asn1.BitString
}

// EncodeContent serializes the Manifest eContent.
func (m ManifestContent) EncodeContent() ([]byte, error) {
	update := Validity{
		NotBefore: m.ThisUpdate.UTC().Truncate(time.Second),
		NotAfter:  m.NextUpdate.UTC().Truncate(time.Second),
	}
	if err := update.Validate(); err != nil {
		return nil, err
	}
	fileList := make([]fileAndHash, 0, len(m.Files))
	for _, file := range m.Files {
		fileList = append(fileList, fileAndHash{
			File: file.File,
			Hash: asn1.BitString{Bytes: file.Hash, BitLength: len(file.Hash) * 8},
		})
	}
	der, err := asn1.Marshal(manifestContent{
		Number:      m.Number,
		ThisUpdate:  update.NotBefore,
		NextUpdate:  update.NotAfter,
		FileHashAlg: m.Alg.OID(),
		FileList:    fileList,
	})
	if err != nil {
		return nil, serrors.Join(ErrEncoding, err, "object", "manifest")
	}
	return der, nil
}
