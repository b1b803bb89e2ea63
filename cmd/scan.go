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

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/steindani/multipass/internal/format"
	"github.com/steindani/multipass/internal/qr"
	"github.com/steindani/multipass/internal/session"
)

// scanSource selects where scanned text comes from.
type scanSource struct {
	qrFile string
	screen bool
}

func (s *scanSource) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.qrFile, "qr", "", "Read the scan from a QR code image")
	cmd.Flags().BoolVar(&s.screen, "screen", false, "Interactive screen capture (macOS)")
}

// read returns the raw scanned text: a screen capture, a QR image, or the
// argument itself (file path, URL, token or "-" for stdin).
func (s *scanSource) read(args []string) (string, error) {
	if s.screen {
		content, err := qr.ScanScreen()
		if err != nil {
			return "", fmt.Errorf("scanning QR: %w", err)
		}
		return content, nil
	}
	if s.qrFile != "" {
		content, err := qr.ScanFile(s.qrFile)
		if err != nil {
			return "", fmt.Errorf("scanning QR: %w", err)
		}
		return content, nil
	}

	input := ""
	if len(args) > 0 {
		input = args[0]
	}
	return format.ReadInput(input)
}

// scan reads and decodes a scan into a fresh session state.
func (s *scanSource) scan(args []string) (session.State, error) {
	raw, err := s.read(args)
	if err != nil {
		return session.State{}, err
	}
	st, err := session.State{}.Scan(raw)
	if err != nil {
		return session.State{}, fmt.Errorf("%w. Please scan the QR code again", err)
	}
	if st.Token == "" {
		return session.State{}, fmt.Errorf("nothing scanned: provide a token, URL, file, --qr image or --screen")
	}
	return st, nil
}
