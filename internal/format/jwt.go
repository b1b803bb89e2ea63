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
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidToken is returned when a token lacks the header.claims[.signature] structure.
	ErrInvalidToken = errors.New("invalid token")
	// ErrInvalidJSON is returned when the claims segment is not a JSON object.
	ErrInvalidJSON = errors.New("invalid JSON claims")
)

// DecodePayload splits a compact token on '.' and decodes the claims (second)
// segment into a JSON object. The header and signature segments are not
// inspected: the signature is never verified.
//
// Numbers are decoded as json.Number so identifiers such as a TAJ number keep
// every digit.
func DecodePayload(token string) (map[string]any, error) {
	parts := strings.SplitN(token, ".", 3)
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: expected at least 2 parts separated by '.', got %d", ErrInvalidToken, len(parts))
	}
	if parts[1] == "" {
		return nil, fmt.Errorf("%w: empty claims segment", ErrInvalidToken)
	}

	text, err := DecodeText(parts[1])
	if err != nil {
		return nil, fmt.Errorf("decoding claims: %w", err)
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var claims map[string]any
	if err := dec.Decode(&claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if claims == nil {
		return nil, fmt.Errorf("%w: claims are null", ErrInvalidJSON)
	}
	if strings.TrimSpace(text[dec.InputOffset():]) != "" {
		return nil, fmt.Errorf("%w: trailing data after claims object", ErrInvalidJSON)
	}

	return claims, nil
}
