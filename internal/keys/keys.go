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

// Package keys loads the EC keys used to sign sample tokens.
package keys

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"math/big"
	"os"

	"github.com/golang-jwt/jwt/v5"
	"github.com/steindani/multipass/internal/format"
)

// Generate creates a throwaway P-256 key.
func Generate() (*ecdsa.PrivateKey, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generating signing key: %w", err)
	}
	return key, nil
}

// LoadPrivateKey loads an EC private key from a PEM file or JWK JSON file.
func LoadPrivateKey(path string) (*ecdsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading key file: %w", err)
	}
	return ParsePrivateKey(data)
}

// ParsePrivateKey parses an EC private key from PEM (SEC 1 or PKCS #8) or
// JWK bytes.
func ParsePrivateKey(data []byte) (*ecdsa.PrivateKey, error) {
	if block, _ := pem.Decode(data); block != nil {
		key, err := jwt.ParseECPrivateKeyFromPEM(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", block.Type, err)
		}
		return key, nil
	}
	return ParseJWK(data)
}

// ParseJWK parses an EC JWK carrying the private scalar "d".
func ParseJWK(data []byte) (*ecdsa.PrivateKey, error) {
	var jwk map[string]any
	if err := json.Unmarshal(data, &jwk); err != nil {
		return nil, fmt.Errorf("not a valid PEM or JWK: %w", err)
	}

	if kty, _ := jwk["kty"].(string); kty != "EC" {
		return nil, fmt.Errorf("unsupported JWK key type: %s", kty)
	}

	crv, _ := jwk["crv"].(string)
	var curve elliptic.Curve
	switch crv {
	case "P-256":
		curve = elliptic.P256()
	case "P-384":
		curve = elliptic.P384()
	case "P-521":
		curve = elliptic.P521()
	default:
		return nil, fmt.Errorf("unsupported curve: %s", crv)
	}

	coords := make(map[string]*big.Int, 3)
	for _, name := range []string{"x", "y", "d"} {
		s, _ := jwk[name].(string)
		if s == "" {
			return nil, fmt.Errorf("JWK is missing %q", name)
		}
		b, err := format.DecodeBase64URL(s)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", name, err)
		}
		coords[name] = new(big.Int).SetBytes(b)
	}

	key := &ecdsa.PrivateKey{
		PublicKey: ecdsa.PublicKey{Curve: curve, X: coords["x"], Y: coords["y"]},
		D:         coords["d"],
	}
	if !curve.IsOnCurve(key.X, key.Y) {
		return nil, fmt.Errorf("JWK point is not on %s", crv)
	}
	return key, nil
}

// SigningMethod returns the JWS algorithm matching the key's curve.
func SigningMethod(key *ecdsa.PrivateKey) (jwt.SigningMethod, error) {
	switch key.Curve.Params().BitSize {
	case 256:
		return jwt.SigningMethodES256, nil
	case 384:
		return jwt.SigningMethodES384, nil
	case 521:
		return jwt.SigningMethodES512, nil
	}
	return nil, fmt.Errorf("unsupported curve: %s", key.Curve.Params().Name)
}
