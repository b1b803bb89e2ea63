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

// Package session drives the scan → edit → sign flow. A State is an immutable
// snapshot; every event produces a new State from the previous one.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/steindani/multipass/internal/format"
	"github.com/steindani/multipass/internal/pass"
)

// ErrNotUnderstood wraps every decode or classification failure of a scan.
// The user should be prompted to rescan.
var ErrNotUnderstood = errors.New("scan not understood")

// Artifact is the signed pass returned by a Signer.
type Artifact struct {
	ContentType string
	Data        []byte
}

// Signer turns a signing request into an installable wallet pass.
type Signer interface {
	Sign(ctx context.Context, req pass.SigningRequest) (Artifact, error)
}

// State is the session snapshot the presentation layer renders.
type State struct {
	Token   string
	Claims  map[string]any
	Payload pass.Payload
	Record  pass.Record
}

// Scan processes raw scanned text. An empty scan clears the session. A scan
// that yields the token already loaded keeps the record, user edits included;
// any other token that decodes restarts the record from the new payload. On
// failure the previous state is returned alongside an ErrNotUnderstood error.
func (s State) Scan(raw string) (State, error) {
	token, ok := format.ExtractToken(raw)
	if !ok {
		slog.Debug("Scan cleared")
		return State{}, nil
	}
	if token != "" && token == s.Token {
		slog.Debug("Same token scanned again, keeping record")
		return s, nil
	}

	claims, err := format.DecodePayload(token)
	if err != nil {
		return s, fmt.Errorf("%w: %w", ErrNotUnderstood, err)
	}
	payload, err := pass.Classify(claims)
	if err != nil {
		return s, fmt.Errorf("%w: %w", ErrNotUnderstood, err)
	}

	slog.Info("Scanned credential", "variant", payload.Variant())
	return State{
		Token:   token,
		Claims:  claims,
		Payload: payload,
		Record:  pass.Seed(payload),
	}, nil
}

// Edit merges one user-entered value into the record.
func (s State) Edit(f pass.Field, value string) State {
	s.Record = s.Record.With(f, value)
	return s
}

// Variant returns the variant of the loaded record.
func (s State) Variant() pass.Variant {
	return s.Record.Variant
}

// Ready reports whether the record can be submitted for signing.
func (s State) Ready() bool {
	return s.Record.Ready()
}

// Submit sends the record to the signer. Callers check Ready first; an
// incomplete record fails with pass.ErrNotReady without reaching the signer.
func (s State) Submit(ctx context.Context, signer Signer) (Artifact, error) {
	req, err := s.Record.SigningRequest()
	if err != nil {
		return Artifact{}, err
	}
	art, err := signer.Sign(ctx, req)
	if err != nil {
		return Artifact{}, fmt.Errorf("signing pass: %w", err)
	}
	slog.Info("Pass signed", "variant", s.Variant(), "bytes", len(art.Data))
	return art, nil
}
