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

// Package pass classifies decoded vaccination credential claims and builds the
// canonical record that a wallet pass is signed from.
package pass

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrUnknownVariant is returned when claims match neither credential shape.
var ErrUnknownVariant = errors.New("unknown credential variant")

// Variant identifies which kind of credential seeded a record.
type Variant string

const (
	VariantUndetermined Variant = ""
	VariantPhysical     Variant = "physical"
	VariantDigital      Variant = "digital"
)

func (v Variant) String() string {
	if v == VariantUndetermined {
		return "undetermined"
	}
	return string(v)
}

// Claim keys used by the issuing authority.
const (
	claimIssuer      = "iss"
	claimSubject     = "sub"
	claimID          = "id"
	claimGeneratedAt = "ts"
	claimName        = "n"
	claimFirstDose   = "vd"
)

// Payload is a classified credential: either PhysicalCard or DigitalCard.
type Payload interface {
	Variant() Variant
	isPayload()
}

// PhysicalCard is the minimal payload printed on a plastic immunity card. It
// carries no personal data usable for prefilling a pass.
type PhysicalCard struct {
	Issuer   string `json:"iss"`
	Subject  string `json:"sub"`
	RecordID string `json:"id"`
}

// DigitalCard is the payload of a QR code issued by the health authority's
// portal. It is self-sufficient.
type DigitalCard struct {
	GeneratedAt string `json:"ts"`
	Name        string `json:"n"`
	NationalID  string `json:"id"`
	FirstDose   string `json:"vd"`
}

func (PhysicalCard) Variant() Variant { return VariantPhysical }
func (DigitalCard) Variant() Variant  { return VariantDigital }
func (PhysicalCard) isPayload()       {}
func (DigitalCard) isPayload()        {}

// Classify determines which credential shape the claims match.
//
// A non-null issuer claim selects the physical card and is checked first, so
// input carrying markers of both shapes classifies as physical. Otherwise the
// holder name or first-dose date selects the digital card.
func Classify(claims map[string]any) (Payload, error) {
	if present(claims, claimIssuer) {
		var (
			p   PhysicalCard
			err error
		)
		if p.Issuer, err = claimString(claims, claimIssuer); err != nil {
			return nil, err
		}
		if p.Subject, err = claimString(claims, claimSubject); err != nil {
			return nil, err
		}
		if p.RecordID, err = claimString(claims, claimID); err != nil {
			return nil, err
		}
		return p, nil
	}

	if present(claims, claimName) || present(claims, claimFirstDose) {
		var (
			d   DigitalCard
			err error
		)
		if d.GeneratedAt, err = claimString(claims, claimGeneratedAt); err != nil {
			return nil, err
		}
		if d.Name, err = claimString(claims, claimName); err != nil {
			return nil, err
		}
		if d.NationalID, err = claimString(claims, claimID); err != nil {
			return nil, err
		}
		if d.FirstDose, err = claimString(claims, claimFirstDose); err != nil {
			return nil, err
		}
		return d, nil
	}

	return nil, fmt.Errorf("%w: no %q, %q or %q claim", ErrUnknownVariant, claimIssuer, claimName, claimFirstDose)
}

func present(claims map[string]any, key string) bool {
	v, ok := claims[key]
	return ok && v != nil
}

// claimString coerces a primitive claim value to text. Missing and null
// values are blank.
func claimString(claims map[string]any, key string) (string, error) {
	switch v := claims[key].(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return "", fmt.Errorf("%w: claim %q has non-primitive type %T", ErrUnknownVariant, key, v)
	}
}
