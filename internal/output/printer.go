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

package output

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/steindani/multipass/internal/pass"
	"github.com/steindani/multipass/internal/session"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	labelColor   = color.New(color.FgYellow)
	valueColor   = color.New(color.FgWhite)
	dimColor     = color.New(color.Faint)
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	warnColor    = color.New(color.FgYellow)
)

// Options controls how results are printed.
type Options struct {
	JSON    bool
	NoColor bool
	Verbose bool
}

// FieldLabel returns the form label of a record field.
func FieldLabel(f pass.Field) string {
	switch f {
	case pass.FieldName:
		return "Name"
	case pass.FieldNationalID:
		return "TAJ number"
	case pass.FieldPassportNumber:
		return "Passport number (optional)"
	case pass.FieldIDCardNumber:
		return "ID card number"
	case pass.FieldFirstDose:
		return "Date of first dose"
	}
	return string(f)
}

// Hint returns the message shown to the user after a scan.
func Hint(v pass.Variant) string {
	switch v {
	case pass.VariantPhysical:
		return "Physical immunity card scanned. Enter your details so they appear on the digital pass."
	case pass.VariantDigital:
		return "Digital QR code scanned. Check the prefilled details before downloading the pass."
	}
	return "Scan a physical immunity card or a digital QR code."
}

// BuildStateJSON returns the JSON-serializable map for a session state.
func BuildStateJSON(st session.State) map[string]any {
	missing := make([]string, 0)
	for _, f := range st.Record.Missing() {
		missing = append(missing, string(f))
	}
	fields := make([]string, 0)
	for _, f := range st.Record.Editable() {
		fields = append(fields, string(f))
	}
	out := map[string]any{
		"variant": st.Variant().String(),
		"record":  st.Record,
		"fields":  fields,
		"missing": missing,
		"ready":   st.Ready(),
		"hint":    Hint(st.Variant()),
	}
	if st.Claims != nil {
		out["claims"] = st.Claims
	}
	return out
}

// PrintState prints the decoded scan and the pass record to the terminal.
func PrintState(st session.State, opts Options) {
	if opts.JSON {
		PrintJSON(BuildStateJSON(st))
		return
	}

	headerColor.Println("Vaccination Credential")
	headerColor.Println(strings.Repeat("─", 50))
	dimColor.Printf("  %s\n", Hint(st.Variant()))

	if opts.Verbose && st.Token != "" {
		printSection("Token")
		fmt.Printf("  %s\n", st.Token)
	}

	if st.Claims != nil {
		printSection(fmt.Sprintf("Claims (%s)", st.Variant()))
		printMap(st.Claims, 1)
	}

	printRecord(st.Record)
	fmt.Println()
}

func printRecord(r pass.Record) {
	printSection("Pass Record")
	missing := make(map[pass.Field]bool)
	for _, f := range r.Missing() {
		missing[f] = true
	}
	for _, f := range r.Editable() {
		v := r.Get(f)
		switch {
		case v != "":
			printKV(FieldLabel(f), v, 1)
		case missing[f]:
			labelColor.Printf("  %s: ", FieldLabel(f))
			warnColor.Println("(required)")
		default:
			labelColor.Printf("  %s: ", FieldLabel(f))
			dimColor.Println("-")
		}
	}

	printSection("Readiness")
	if r.Ready() {
		successColor.Println("  ✓ Ready to request a signed pass")
		return
	}
	errorColor.Println("  ✗ Not ready")
	for _, f := range r.Missing() {
		warnColor.Printf("  ⚠ %s is required\n", FieldLabel(f))
	}
}

// PrintSigningRequest prints the data that is sent to the signing service.
// The variant only selects the label of the id number.
func PrintSigningRequest(req pass.SigningRequest, variant pass.Variant, opts Options) {
	if opts.JSON {
		PrintJSON(req)
		return
	}

	printSection("Signing Request")
	printKV("Name", req.Name, 1)
	if variant == pass.VariantDigital {
		printKV("TAJ number", req.IDNumber, 1)
	} else {
		printKV("ID card number", req.IDNumber, 1)
	}
	printKV("Date of first dose", req.FirstDose, 1)
	fmt.Println()
}

// PrintArtifact reports where a signed pass was written.
func PrintArtifact(path string, art session.Artifact) {
	successColor.Printf("✓ Pass written to %s ", path)
	dimColor.Printf("(%s, %d bytes)\n", art.ContentType, len(art.Data))
}

func printSection(title string) {
	fmt.Println()
	headerColor.Printf("┌ %s\n", title)
}

func printKV(key, value string, indent int) {
	prefix := strings.Repeat("  ", indent)
	labelColor.Printf("%s%s: ", prefix, key)
	valueColor.Println(value)
}

func printMap(m map[string]any, indent int) {
	prefix := strings.Repeat("  ", indent)
	for _, k := range sortedKeys(m) {
		labelColor.Printf("%s%s: ", prefix, k)
		fmt.Println(formatValue(m[k]))
	}
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	case bool:
		if val {
			return "true"
		}
		return "false"
	case nil:
		return "null"
	default:
		b, _ := json.Marshal(val)
		return string(b)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// PrintError prints an error message.
func PrintError(msg string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", errorColor.Sprint("Error:"), msg)
}
