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

// Package signer submits signing requests to the wallet pass signing service.
package signer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/steindani/multipass/internal/pass"
	"github.com/steindani/multipass/internal/session"
	"github.com/ubuntu/decorate"
)

// maxArtifactSize bounds the signed pass read from the service.
const maxArtifactSize = 10 << 20 // 10MB

// HTTP posts signing requests as JSON to a remote signing endpoint and returns
// the response body as the pass artifact.
type HTTP struct {
	URL    string
	Token  string
	Client *http.Client
}

// NewHTTP creates an HTTP signer with the given request timeout.
func NewHTTP(url, token string, timeout time.Duration) *HTTP {
	return &HTTP{
		URL:    url,
		Token:  token,
		Client: &http.Client{Timeout: timeout},
	}
}

// Sign implements session.Signer.
func (h *HTTP) Sign(ctx context.Context, req pass.SigningRequest) (art session.Artifact, err error) {
	requestID := uuid.NewString()
	defer decorate.OnError(&err, "signing request %s", requestID)

	body, err := json.Marshal(req)
	if err != nil {
		return session.Artifact{}, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.URL, bytes.NewReader(body))
	if err != nil {
		return session.Artifact{}, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if h.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+h.Token)
	}

	slog.Debug("Sending signing request", "url", h.URL, "request_id", requestID)
	resp, err := h.Client.Do(httpReq)
	if err != nil {
		return session.Artifact{}, fmt.Errorf("posting to signer: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxArtifactSize))
	if err != nil {
		return session.Artifact{}, fmt.Errorf("reading signer response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return session.Artifact{}, fmt.Errorf("signer returned HTTP %d: %s", resp.StatusCode, errorMessage(data))
	}
	if len(data) == 0 {
		return session.Artifact{}, fmt.Errorf("signer returned an empty pass")
	}

	return session.Artifact{
		ContentType: resp.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// errorMessage extracts {"error": "..."} from a JSON error body, falling back
// to the trimmed body text.
func errorMessage(body []byte) string {
	var e struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		if e.ErrorDescription != "" {
			return e.Error + ": " + e.ErrorDescription
		}
		return e.Error
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200] + "..."
	}
	return msg
}

// DryRun is used when no signing service is configured. It returns the
// signing request itself as a JSON artifact so the data that would be sent
// can be reviewed.
type DryRun struct{}

// Sign implements session.Signer.
func (DryRun) Sign(ctx context.Context, req pass.SigningRequest) (session.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return session.Artifact{}, err
	}
	data, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return session.Artifact{}, fmt.Errorf("marshaling request: %w", err)
	}
	return session.Artifact{ContentType: "application/json", Data: data}, nil
}

// New returns an HTTP signer for url, or DryRun when url is empty.
func New(url, token string, timeout time.Duration) session.Signer {
	if url == "" {
		return DryRun{}
	}
	return NewHTTP(url, token, timeout)
}
