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
	"crypto/ecdsa"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/steindani/multipass/internal/keys"
	"github.com/steindani/multipass/internal/mock"
	"github.com/steindani/multipass/internal/output"
	"github.com/steindani/multipass/internal/qr"
)

const mockQRSize = 400

var (
	mockURL       bool
	mockBaseURL   string
	mockQRFile    string
	mockName      string
	mockTAJ       string
	mockFirstDose string
	mockIssuer    string
	mockKeyFile   string
)

var mockCmd = &cobra.Command{
	Use:       "mock physical|digital",
	Short:     "Generate sample vaccination QR code tokens",
	Long:      "Mints a token shaped like a physical immunity card or a digital certificate, signed with a throwaway key. Use --qr to also write it as a QR code image.",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"physical", "digital"},
	RunE:      runMock,
}

func init() {
	mockCmd.Flags().BoolVar(&mockURL, "url", false, "Wrap the token in a card URL")
	mockCmd.Flags().StringVar(&mockBaseURL, "base-url", mock.DefaultCardBaseURL, "URL prefix used with --url")
	mockCmd.Flags().StringVar(&mockQRFile, "qr", "", "Write a QR code PNG to this file")
	mockCmd.Flags().StringVar(&mockName, "name", "Minta János", "Name (digital)")
	mockCmd.Flags().StringVar(&mockTAJ, "taj", "123456788", "TAJ number (digital)")
	mockCmd.Flags().StringVar(&mockFirstDose, "first-dose", "2021-04-01", "Date of the first dose (digital)")
	mockCmd.Flags().StringVar(&mockIssuer, "issuer", mock.DefaultIssuer, "Issuer (physical)")
	mockCmd.Flags().StringVar(&mockKeyFile, "key", "", "EC private key (PEM or JWK) to sign with, a throwaway key by default")
	rootCmd.AddCommand(mockCmd)
}

func runMock(cmd *cobra.Command, args []string) error {
	token, err := mintToken(args[0])
	if err != nil {
		return err
	}
	if mockURL {
		token = mock.CardURL(mockBaseURL, token)
	}

	if mockQRFile != "" {
		f, err := os.Create(mockQRFile)
		if err != nil {
			return fmt.Errorf("creating %s: %w", mockQRFile, err)
		}
		defer f.Close()
		if err := qr.WritePNG(f, token, mockQRSize); err != nil {
			return err
		}
	}

	if jsonOutput {
		out := map[string]any{"kind": args[0], "token": token}
		if mockQRFile != "" {
			out["qr"] = mockQRFile
		}
		output.PrintJSON(out)
		return nil
	}
	fmt.Println(token)
	return nil
}

func mintToken(kind string) (string, error) {
	var key *ecdsa.PrivateKey
	if mockKeyFile != "" {
		k, err := keys.LoadPrivateKey(mockKeyFile)
		if err != nil {
			return "", err
		}
		key = k
	}

	switch kind {
	case "physical":
		return mock.Physical(mock.PhysicalConfig{Issuer: mockIssuer, Key: key})
	case "digital":
		return mock.Digital(mock.DigitalConfig{
			Name:       mockName,
			NationalID: mockTAJ,
			FirstDose:  mockFirstDose,
			Key:        key,
		})
	}
	return "", fmt.Errorf("unknown kind %q: use physical or digital", kind)
}
