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
	"fmt"
	"io"
	"os"
	"strings"
)

// stdin is the reader used for "-" input. Override in tests.
var stdin io.Reader = os.Stdin

// ReadInput reads scanned text from: "-" for stdin, a file path, or the raw
// string itself. URLs are returned as-is: a URL is what a plastic card QR code
// contains, not something to fetch.
func ReadInput(input string) (string, error) {
	input = strings.TrimSpace(input)

	if input == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}

	if input == "" {
		if f, ok := stdin.(*os.File); ok {
			stat, err := f.Stat()
			if err != nil {
				return "", fmt.Errorf("cannot read stdin: %w", err)
			}
			if (stat.Mode() & os.ModeCharDevice) != 0 {
				return "", fmt.Errorf("no input provided (use a file path, raw scan text, --qr, or pipe to stdin)")
			}
		}
		return ReadInput("-")
	}

	if hasScheme(input) {
		return input, nil
	}

	// Try as file path
	if st, err := os.Stat(input); err == nil && !st.IsDir() {
		b, err := os.ReadFile(input)
		if err != nil {
			return "", fmt.Errorf("reading file %s: %w", input, err)
		}
		return strings.TrimSpace(string(b)), nil
	}

	// Treat as raw scan text
	return input, nil
}
