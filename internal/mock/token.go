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

// Package mock mints sample credential tokens in the shapes issued for
// physical immunity cards and digital QR codes. The tokens are signed with a
// throwaway key; nothing in multipass verifies signatures.
package mock

import (
	"crypto/ecdsa"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/steindani/multipass/internal/keys"
)

// DefaultIssuer is the issuer claim printed on physical cards.
const DefaultIssuer = "EESZT"

// DefaultCardBaseURL is the URL prefix used by CardURL when none is given.
const DefaultCardBaseURL = "https://qr.example.invalid/card"

// DigitalConfig holds the claims of a digital QR code token.
type DigitalConfig struct {
	Name        string
	NationalID  string
	FirstDose   string
	GeneratedAt time.Time
	Key         *ecdsa.PrivateKey
}

// PhysicalConfig holds the claims of a physical card token. Empty Subject and
// RecordID are filled with random identifiers.
type PhysicalConfig struct {
	Issuer   string
	Subject  string
	RecordID string
	Key      *ecdsa.PrivateKey
}

// Digital mints a digital QR code token.
func Digital(cfg DigitalConfig) (string, error) {
	ts := cfg.GeneratedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	return sign(cfg.Key, jwt.MapClaims{
		"ts": ts.UTC().Format(time.RFC3339),
		"n":  cfg.Name,
		"id": cfg.NationalID,
		"vd": cfg.FirstDose,
	})
}

// Physical mints a physical card token.
func Physical(cfg PhysicalConfig) (string, error) {
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultIssuer
	}
	if cfg.Subject == "" {
		cfg.Subject = uuid.NewString()
	}
	if cfg.RecordID == "" {
		cfg.RecordID = uuid.NewString()
	}
	return sign(cfg.Key, jwt.MapClaims{
		"iss": cfg.Issuer,
		"sub": cfg.Subject,
		"id":  cfg.RecordID,
	})
}

// CardURL wraps a token the way plastic cards do: as the last path segment of
// a URL.
func CardURL(base, token string) string {
	if base == "" {
		base = DefaultCardBaseURL
	}
	return strings.TrimRight(base, "/") + "/" + token
}

// sign signs claims with key, or with a throwaway P-256 key when key is nil.
func sign(key *ecdsa.PrivateKey, claims jwt.MapClaims) (string, error) {
	if key == nil {
		k, err := keys.Generate()
		if err != nil {
			return "", err
		}
		key = k
	}
	method, err := keys.SigningMethod(key)
	if err != nil {
		return "", err
	}
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return token, nil
}
