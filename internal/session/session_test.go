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

package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/steindani/multipass/internal/format"
	"github.com/steindani/multipass/internal/pass"
)

func makeToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	b, err := json.Marshal(claims)
	if err != nil {
		t.Fatal(err)
	}
	return format.EncodeText(`{"alg":"ES256"}`) + "." + format.EncodeText(string(b)) + ".c2ln"
}

func digitalToken(t *testing.T) string {
	return makeToken(t, map[string]any{"ts": "1619827200", "n": "Jane Doe", "id": "123456789", "vd": "2021-04-01"})
}

func physicalToken(t *testing.T) string {
	return makeToken(t, map[string]any{"iss": "EESZT", "sub": "subject", "id": "record"})
}

type fakeSigner struct {
	calls []pass.SigningRequest
	err   error
}

func (f *fakeSigner) Sign(_ context.Context, req pass.SigningRequest) (Artifact, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return Artifact{}, f.err
	}
	return Artifact{ContentType: "application/vnd.apple.pkpass", Data: []byte("pkpass")}, nil
}

func TestScan_Digital(t *testing.T) {
	s, err := State{}.Scan(digitalToken(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Variant() != pass.VariantDigital {
		t.Errorf("Variant() = %s, want digital", s.Variant())
	}
	if s.Record.Name != "Jane Doe" || s.Record.NationalID != "123456789" || s.Record.FirstDose != "2021-04-01" {
		t.Errorf("Record = %+v", s.Record)
	}
	if !s.Ready() {
		t.Error("digital scan should be ready")
	}
}

func TestScan_PhysicalURL(t *testing.T) {
	s, err := State{}.Scan("https://qr.example.invalid/card/" + physicalToken(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Variant() != pass.VariantPhysical {
		t.Errorf("Variant() = %s, want physical", s.Variant())
	}
	if s.Ready() {
		t.Error("physical scan should not be ready before edits")
	}

	s = s.Edit(pass.FieldName, "Jane Doe").
		Edit(pass.FieldIDCardNumber, "123456AB").
		Edit(pass.FieldFirstDose, "2021-04-01")
	if !s.Ready() {
		t.Errorf("record should be ready after edits: %+v", s.Record)
	}
}

func TestScan_EmptyClears(t *testing.T) {
	s, _ := State{}.Scan(digitalToken(t))
	s, err := s.Scan("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Variant() != pass.VariantUndetermined || s.Token != "" {
		t.Errorf("state not cleared: %+v", s)
	}
}

func TestScan_SameTokenKeepsEdits(t *testing.T) {
	token := physicalToken(t)
	s, _ := State{}.Scan(token)
	s = s.Edit(pass.FieldName, "Jane Doe")

	again, err := s.Scan(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.Record.Name != "Jane Doe" {
		t.Errorf("edit lost on rescan of same token: %+v", again.Record)
	}
}

func TestScan_NewTokenRestarts(t *testing.T) {
	s, _ := State{}.Scan(physicalToken(t))
	s = s.Edit(pass.FieldName, "Typed By Hand").Edit(pass.FieldPassportNumber, "PP1")

	s, err := s.Scan(digitalToken(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := pass.Record{Variant: pass.VariantDigital, Name: "Jane Doe", NationalID: "123456789", FirstDose: "2021-04-01"}
	if s.Record != want {
		t.Errorf("Record = %+v, want %+v", s.Record, want)
	}
}

func TestScan_URLWithoutTokenKeepsEdits(t *testing.T) {
	s, _ := State{}.Scan(physicalToken(t))
	s = s.Edit(pass.FieldName, "Jane Doe")

	got, err := s.Scan("https://host/path/")
	if !errors.Is(err, ErrNotUnderstood) {
		t.Fatalf("error = %v, want ErrNotUnderstood", err)
	}
	if got.Variant() != pass.VariantPhysical || got.Record.Name != "Jane Doe" {
		t.Errorf("record lost: %+v", got.Record)
	}

	if _, err := (State{}).Scan("https://host/path/"); !errors.Is(err, format.ErrInvalidToken) {
		t.Errorf("fresh state: error = %v, want ErrInvalidToken", err)
	}
}

func TestScan_FailureKeepsPreviousState(t *testing.T) {
	prev, _ := State{}.Scan(digitalToken(t))

	tests := []struct {
		name  string
		raw   string
		cause error
	}{
		{"single segment", "ABC123", format.ErrInvalidToken},
		{"url without token", "https://host/path/", format.ErrInvalidToken},
		{"bad encoding", "h.!!!.s", format.ErrMalformedEncoding},
		{"not json", "h." + format.EncodeText("hello") + ".s", format.ErrInvalidJSON},
		{"unknown shape", makeToken(t, map[string]any{"foo": "bar"}), pass.ErrUnknownVariant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := prev.Scan(tt.raw)
			if !errors.Is(err, ErrNotUnderstood) {
				t.Errorf("error = %v, want ErrNotUnderstood", err)
			}
			if !errors.Is(err, tt.cause) {
				t.Errorf("error = %v, want cause %v", err, tt.cause)
			}
			if got.Token != prev.Token || got.Record != prev.Record {
				t.Errorf("state changed on failure: %+v", got)
			}
		})
	}
}

func TestSubmit(t *testing.T) {
	s, _ := State{}.Scan(digitalToken(t))
	signer := &fakeSigner{}

	art, err := s.Submit(context.Background(), signer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(art.Data) != "pkpass" {
		t.Errorf("artifact = %q", art.Data)
	}
	if len(signer.calls) != 1 {
		t.Fatalf("signer called %d times, want 1", len(signer.calls))
	}
	want := pass.SigningRequest{Name: "Jane Doe", IDNumber: "123456789", FirstDose: "2021-04-01"}
	if signer.calls[0] != want {
		t.Errorf("request = %+v, want %+v", signer.calls[0], want)
	}
}

func TestSubmit_NotReadyNeverReachesSigner(t *testing.T) {
	s, _ := State{}.Scan(physicalToken(t))
	signer := &fakeSigner{}

	_, err := s.Submit(context.Background(), signer)
	if !errors.Is(err, pass.ErrNotReady) {
		t.Errorf("error = %v, want ErrNotReady", err)
	}
	if len(signer.calls) != 0 {
		t.Errorf("signer called %d times, want 0", len(signer.calls))
	}
}

func TestSubmit_SignerError(t *testing.T) {
	s, _ := State{}.Scan(digitalToken(t))
	boom := errors.New("boom")

	_, err := s.Submit(context.Background(), &fakeSigner{err: boom})
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want %v", err, boom)
	}
}
