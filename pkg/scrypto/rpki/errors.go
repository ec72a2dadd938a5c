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

import "errors"

// Error kinds surfaced by the object builders. They are attached to the
// detailed errors with serrors.Join, so callers can classify failures with
// errors.Is.
var (
	// ErrConfiguration indicates missing or conflicting inputs, e.g. neither
	// an explicit end time nor a day count was supplied.
	ErrConfiguration = errors.New("configuration error")
	// ErrParse indicates malformed textual input.
	ErrParse = errors.New("parse error")
	// ErrKeyDecode indicates key bytes that do not decode.
	ErrKeyDecode = errors.New("key decode error")
	// ErrIO indicates a file open, read or write failure.
	ErrIO = errors.New("io error")
	// ErrSigning indicates a failure of the signing capability.
	ErrSigning = errors.New("signing error")
	// ErrEncoding indicates a failure to serialize a finished object.
	ErrEncoding = errors.New("encoding error")
	// ErrInvalidFileName indicates a manifest entry whose file name is not
	// ASCII.
	ErrInvalidFileName = errors.New("illegal file name")
)
