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
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/steindani/multipass/internal/output"
	"github.com/steindani/multipass/internal/pass"
	"github.com/steindani/multipass/internal/session"
	"github.com/steindani/multipass/internal/signer"
)

var (
	passSource scanSource
	passSign   bool
	passOut    string
)

// overrideFlags maps flag names to the record field they edit.
var overrideFlags = []struct {
	flag  string
	field pass.Field
	usage string
}{
	{"name", pass.FieldName, "Full name"},
	{"taj", pass.FieldNationalID, "TAJ number (digital certificates)"},
	{"passport", pass.FieldPassportNumber, "Passport number (physical cards)"},
	{"id-card", pass.FieldIDCardNumber, "ID card number (physical cards)"},
	{"first-dose", pass.FieldFirstDose, "Date of the first dose (YYYY-MM-DD)"},
}

var passCmd = &cobra.Command{
	Use:   "pass [input]",
	Short: "Build a pass record from a scan and optionally sign it",
	Long:  "Decodes a scan, applies the personal details given as flags and shows the resulting pass record. With --sign the record is sent to the configured signing service and the pass is written to --out.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPass,
}

func init() {
	passSource.addFlags(passCmd)
	for _, o := range overrideFlags {
		passCmd.Flags().String(o.flag, "", o.usage)
	}
	passCmd.Flags().BoolVar(&passSign, "sign", false, "Send the record to the signing service")
	passCmd.Flags().StringVarP(&passOut, "out", "o", "", "Write the signed pass to this file (default multipass.pkpass, - for stdout)")
	rootCmd.AddCommand(passCmd)
}

func runPass(cmd *cobra.Command, args []string) error {
	st, err := passSource.scan(args)
	if err != nil {
		return err
	}

	overrides := make(map[pass.Field]string)
	for _, o := range overrideFlags {
		if cmd.Flags().Changed(o.flag) {
			v, _ := cmd.Flags().GetString(o.flag)
			overrides[o.field] = v
		}
	}
	st = applyOverrides(st, overrides)

	opts := printOptions()
	if !passSign || !opts.JSON {
		output.PrintState(st, opts)
	}
	if !passSign {
		return nil
	}

	if err := signable(st); err != nil {
		return err
	}
	if !opts.JSON {
		req, err := st.Record.SigningRequest()
		if err != nil {
			return err
		}
		output.PrintSigningRequest(req, st.Variant(), opts)
	}

	s := signer.New(cfg.Signer.URL, cfg.Signer.Token, cfg.Signer.Timeout)
	art, err := st.Submit(cmd.Context(), s)
	if err != nil {
		return err
	}

	path := artifactPath(passOut, art)
	if path == "-" {
		_, err := os.Stdout.Write(art.Data)
		return err
	}
	if err := os.WriteFile(path, art.Data, 0o600); err != nil {
		return fmt.Errorf("writing pass: %w", err)
	}
	if opts.JSON {
		output.PrintJSON(map[string]any{"path": path, "contentType": art.ContentType, "size": len(art.Data)})
		return nil
	}
	output.PrintArtifact(path, art)
	return nil
}

// applyOverrides edits the fields the scanned variant lets the user fill in.
// Values for other fields are ignored.
func applyOverrides(st session.State, overrides map[pass.Field]string) session.State {
	editable := st.Record.Editable()
	for _, f := range pass.Fields {
		v, ok := overrides[f]
		if !ok {
			continue
		}
		if !slices.Contains(editable, f) {
			slog.Warn("Field not used by this credential, ignoring", "field", f, "variant", st.Variant())
			continue
		}
		st = st.Edit(f, v)
	}
	return st
}

// signable reports what the user still has to fill in before signing.
func signable(st session.State) error {
	if st.Ready() {
		return nil
	}
	return fmt.Errorf("cannot sign yet, missing: %s", fieldList(st.Record.Missing()))
}

func artifactPath(out string, art session.Artifact) string {
	if out != "" {
		return out
	}
	if strings.HasPrefix(art.ContentType, "application/json") {
		return "multipass.json"
	}
	return "multipass.pkpass"
}

func fieldList(fields []pass.Field) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = output.FieldLabel(f)
	}
	return strings.Join(names, ", ")
}
