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

package pass

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Field names a user-editable field of a Record.
type Field string

const (
	FieldName           Field = "name"
	FieldNationalID     Field = "nationalId"
	FieldPassportNumber Field = "passportNumber"
	FieldIDCardNumber   Field = "idCardNumber"
	FieldFirstDose      Field = "firstDose"
)

// Fields lists every editable field in display order.
var Fields = []Field{FieldName, FieldNationalID, FieldPassportNumber, FieldIDCardNumber, FieldFirstDose}

// ParseField validates a field name coming from a form or flag.
func ParseField(s string) (Field, error) {
	for _, f := range Fields {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown field %q", s)
}

// Record is the canonical in-progress pass record. It is a value: Seed and
// With return new records and never modify their receiver.
type Record struct {
	Variant        Variant `json:"variant"`
	Name           string  `json:"name"`
	NationalID     string  `json:"nationalId"`
	PassportNumber string  `json:"passportNumber"`
	IDCardNumber   string  `json:"idCardNumber"`
	FirstDose      string  `json:"firstDose"`
}

// Seed starts a record from a classified payload, discarding anything that
// came before.
func Seed(p Payload) Record {
	switch p := p.(type) {
	case DigitalCard:
		return Record{
			Variant:    VariantDigital,
			Name:       normalizeText(p.Name),
			NationalID: normalizeText(p.NationalID),
			FirstDose:  normalizeDate(p.FirstDose),
		}
	case PhysicalCard:
		return Record{Variant: VariantPhysical}
	default:
		return Record{}
	}
}

// With returns a copy of r with one field replaced. The variant is never
// changed.
func (r Record) With(f Field, value string) Record {
	value = normalizeText(value)
	switch f {
	case FieldName:
		r.Name = value
	case FieldNationalID:
		r.NationalID = value
	case FieldPassportNumber:
		r.PassportNumber = value
	case FieldIDCardNumber:
		r.IDCardNumber = value
	case FieldFirstDose:
		r.FirstDose = normalizeDate(value)
	}
	return r
}

// Editable returns the fields a user fills in for the record's variant, in
// display order. Digital codes carry a national id; physical cards are
// identified by passport or id card instead.
func (r Record) Editable() []Field {
	switch r.Variant {
	case VariantDigital:
		return []Field{FieldName, FieldNationalID, FieldFirstDose}
	case VariantPhysical:
		return []Field{FieldName, FieldPassportNumber, FieldIDCardNumber, FieldFirstDose}
	}
	return nil
}

// Get returns the value of one field.
func (r Record) Get(f Field) string {
	switch f {
	case FieldName:
		return r.Name
	case FieldNationalID:
		return r.NationalID
	case FieldPassportNumber:
		return r.PassportNumber
	case FieldIDCardNumber:
		return r.IDCardNumber
	case FieldFirstDose:
		return r.FirstDose
	}
	return ""
}

// normalizeText trims s and composes accented letters, so a name typed on
// one keyboard compares equal to the same name read from a QR code.
func normalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// dateLayouts are tried in order when normalizing a first-dose date.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006.01.02.",
	"2006.01.02",
	"2006. 01. 02.",
	"2006/01/02",
}

// normalizeDate renders recognised dates as YYYY-MM-DD and returns anything
// else trimmed but otherwise untouched.
func normalizeDate(s string) string {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}
