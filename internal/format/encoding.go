// Copyright 2026 The multipass Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package format

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrMalformedEncoding is returned when input is not valid base64 data or does
// not decode to UTF-8 text.
var ErrMalformedEncoding = errors.New("malformed encoding")

// DecodeBase64URL decodes a base64url-encoded string (with or without padding).
func DecodeBase64URL(s string) ([]byte, error) {
	// Try without padding first (most common in JWTs)
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		// Try with padding
		b, err = base64.URLEncoding.DecodeString(s)
	}
	return b, err
}

// DecodeBase64Std decodes a standard base64-encoded string.
func DecodeBase64Std(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		b, err = base64.RawStdEncoding.DecodeString(s)
	}
	return b, err
}

// EncodeText encodes text as base64url without padding. The text is taken as
// its UTF-8 byte sequence, so accented letters and symbols survive the round
// trip through DecodeText.
func EncodeText(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

// DecodeText reverses EncodeText. Health authority tokens are not consistent
// about the alphabet, so both base64url and standard base64 are accepted,
// padded or not. The decoded bytes must form valid UTF-8.
func DecodeText(s string) (string, error) {
	var (
		b   []byte
		err error
	)
	if strings.ContainsAny(s, "+/") {
		b, err = DecodeBase64Std(s)
	} else {
		b, err = DecodeBase64URL(s)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedEncoding, err)
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w: decoded bytes are not UTF-8 text", ErrMalformedEncoding)
	}
	return string(b), nil
}
