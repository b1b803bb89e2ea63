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
	"github.com/spf13/cobra"
	"github.com/steindani/multipass/internal/output"
)

var decodeSource scanSource

var decodeCmd = &cobra.Command{
	Use:   "decode [input]",
	Short: "Decode a vaccination QR code and show its claims",
	Long:  "Extracts the token from a scanned QR code, decodes its claims and reports whether it is a physical immunity card or a digital certificate. Input can be a file path, a card URL, a raw token, a QR image (--qr), a screen capture (--screen) or piped via stdin.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDecode,
}

func init() {
	decodeSource.addFlags(decodeCmd)
	rootCmd.AddCommand(decodeCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	st, err := decodeSource.scan(args)
	if err != nil {
		return err
	}
	output.PrintState(st, printOptions())
	return nil
}
