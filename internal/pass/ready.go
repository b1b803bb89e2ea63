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
	"errors"
	"fmt"
)

// ErrNotReady is returned when a signing request is built from an incomplete
// record. Callers must check Ready first, so seeing it means a caller bug.
var ErrNotReady = errors.New("record is not ready for signing")

// SigningRequest is the minimal data the pass signer needs. IDNumber holds
// the national id of a digital code or the id card number of a physical card.
type SigningRequest struct {
	Name      string `json:"name"`
	IDNumber  string `json:"idNumber"`
	FirstDose string `json:"firstDose"`
}

// Required returns the fields that must be filled in before signing. The
// passport number is never required.
func (r Record) Required() []Field {
	switch r.Variant {
	case VariantDigital:
		return []Field{FieldName, FieldNationalID, FieldFirstDose}
	case VariantPhysical:
		return []Field{FieldName, FieldIDCardNumber, FieldFirstDose}
	}
	return nil
}

// Missing returns the required fields that are still blank.
func (r Record) Missing() []Field {
	var missing []Field
	for _, f := range r.Required() {
		if r.Get(f) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

// Ready reports whether the record holds everything needed to request a
// signed pass. A record without a variant is never ready.
func (r Record) Ready() bool {
	return r.Variant != VariantUndetermined && len(r.Missing()) == 0
}

// SigningRequest projects a ready record onto the fields the signer needs.
func (r Record) SigningRequest() (SigningRequest, error) {
	if !r.Ready() {
		return SigningRequest{}, fmt.Errorf("%w: variant %s, missing %v", ErrNotReady, r.Variant, r.Missing())
	}

	req := SigningRequest{
		Name:      r.Name,
		FirstDose: r.FirstDose,
	}
	if r.Variant == VariantDigital {
		req.IDNumber = r.NationalID
	} else {
		req.IDNumber = r.IDCardNumber
	}
	return req, nil
}
