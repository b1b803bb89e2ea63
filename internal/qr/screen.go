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

package qr

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// ScanScreen lets the user select a screen region on macOS (for example a
// QR code shown by the health authority's app in a simulator or browser) and
// decodes the QR code in it.
func ScanScreen() (string, error) {
	if runtime.GOOS != "darwin" {
		return "", fmt.Errorf("--screen is only supported on macOS; use --qr with an image file instead")
	}

	tmpDir, err := os.MkdirTemp("", "multipass-qr-*")
	if err != nil {
		return "", fmt.Errorf("creating temp dir: %w", err)
	}
	// The capture may show personal data: never leave it behind.
	defer os.RemoveAll(tmpDir)

	capture := filepath.Join(tmpDir, "capture.png")

	var stderr bytes.Buffer
	cmd := exec.Command("screencapture", "-i", capture)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if strings.Contains(msg, "cannot capture") || strings.Contains(msg, "image from rect") {
			return "", fmt.Errorf("screen recording permission denied: grant access to your terminal app in System Settings > Privacy & Security > Screen Recording")
		}
		return "", fmt.Errorf("screencapture failed: %s", msg)
	}

	// Escape cancels the selection without writing a file.
	if _, err := os.Stat(capture); err != nil {
		return "", fmt.Errorf("screen capture cancelled")
	}

	return ScanFile(capture)
}
