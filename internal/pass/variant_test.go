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
	"encoding/json"
	"errors"
	"testing"
)

func TestClassify_Physical(t *testing.T) {
	p, err := Classify(map[string]any{"iss": "EESZT", "sub": "subject-1", "id": "rec-42"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	card, ok := p.(PhysicalCard)
	if !ok {
		t.Fatalf("Classify() = %T, want PhysicalCard", p)
	}
	want := PhysicalCard{Issuer: "EESZT", Subject: "subject-1", RecordID: "rec-42"}
	if card != want {
		t.Errorf("Classify() = %+v, want %+v", card, want)
	}
	if p.Variant() != VariantPhysical {
		t.Errorf("Variant() = %s, want physical", p.Variant())
	}
}

func TestClassify_Digital(t *testing.T) {
	p, err := Classify(map[string]any{
		"ts": "2021-05-01T10:00:00Z",
		"n":  "Jane Doe",
		"id": "123456789",
		"vd": "2021-04-01",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	card, ok := p.(DigitalCard)
	if !ok {
		t.Fatalf("Classify() = %T, want DigitalCard", p)
	}
	want := DigitalCard{GeneratedAt: "2021-05-01T10:00:00Z", Name: "Jane Doe", NationalID: "123456789", FirstDose: "2021-04-01"}
	if card != want {
		t.Errorf("Classify() = %+v, want %+v", card, want)
	}
}

func TestClassify_Markers(t *testing.T) {
	tests := []struct {
		name    string
		claims  map[string]any
		want    Variant
		wantErr bool
	}{
		{"issuer only", map[string]any{"iss": "x"}, VariantPhysical, false},
		{"both markers physical wins", map[string]any{"iss": "x", "n": "Jane", "vd": "2021-04-01"}, VariantPhysical, false},
		{"null issuer is absent", map[string]any{"iss": nil, "n": "Jane"}, VariantDigital, false},
		{"name only", map[string]any{"n": "Jane"}, VariantDigital, false},
		{"first dose only", map[string]any{"vd": "2021-04-01"}, VariantDigital, false},
		{"id only", map[string]any{"id": "1"}, "", true},
		{"null digital markers", map[string]any{"n": nil, "id": "1", "vd": nil}, "", true},
		{"null digital markers with timestamp", map[string]any{"ts": "1619827200", "n": nil, "vd": nil}, "", true},
		{"empty", map[string]any{}, "", true},
		{"nil map", nil, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Classify(tt.claims)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownVariant) {
					t.Fatalf("Classify() error = %v, want ErrUnknownVariant", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Variant() != tt.want {
				t.Errorf("Classify().Variant() = %s, want %s", p.Variant(), tt.want)
			}
		})
	}
}

func TestClassify_CoercesPrimitives(t *testing.T) {
	p, err := Classify(map[string]any{
		"n":  "Jane",
		"id": json.Number("123456789"),
		"ts": float64(1619827200),
		"vd": "2021-04-01",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	card := p.(DigitalCard)
	if card.NationalID != "123456789" {
		t.Errorf("NationalID = %q, want 123456789", card.NationalID)
	}
	if card.GeneratedAt != "1619827200" {
		t.Errorf("GeneratedAt = %q, want 1619827200", card.GeneratedAt)
	}
}

func TestClassify_NestedValueRejected(t *testing.T) {
	_, err := Classify(map[string]any{"n": map[string]any{"first": "Jane"}})
	if !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("Classify() error = %v, want ErrUnknownVariant", err)
	}
}

func TestVariantString(t *testing.T) {
	if got := VariantUndetermined.String(); got != "undetermined" {
		t.Errorf("VariantUndetermined.String() = %q", got)
	}
	if got := VariantDigital.String(); got != "digital" {
		t.Errorf("VariantDigital.String() = %q", got)
	}
}
