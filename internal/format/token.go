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

import "strings"

// ExtractToken isolates the token from raw scanned text. It reports false only
// for blank input, which means there is no scan. Plastic cards encode a URL
// whose last path segment is the token; digital codes carry the bare token.
// A URL ending in "/" yields an empty token that DecodePayload rejects.
//
// No structural validation happens here; see DecodePayload.
func ExtractToken(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	if !hasScheme(raw) {
		return raw, true
	}

	// Stricter than taking everything after the last "/": query and fragment
	// are dropped so ".../TOKEN?lang=hu" still yields TOKEN.
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		raw = raw[:i]
	}
	return raw[strings.LastIndex(raw, "/")+1:], true
}

// hasScheme reports whether s starts with "scheme://" where scheme follows the
// RFC 3986 grammar.
func hasScheme(s string) bool {
	i := strings.Index(s, "://")
	if i <= 0 {
		return false
	}
	for j, c := range s[:i] {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case j > 0 && (c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return true
}
