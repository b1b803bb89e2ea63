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

// Package metrics exposes Prometheus counters for the web UI.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Scan results.
const (
	ScanDecoded  = "decoded"
	ScanRejected = "rejected"
	ScanCleared  = "cleared"
)

// Sign results.
const (
	SignOK       = "ok"
	SignError    = "error"
	SignNotReady = "not_ready"
)

// Metrics holds the Prometheus collectors of the web UI.
type Metrics struct {
	Scans          *prometheus.CounterVec
	Edits          prometheus.Counter
	SignRequests   *prometheus.CounterVec
	ActiveSessions prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Scans: f.NewCounterVec(prometheus.CounterOpts{
			Name: "multipass_scans_total",
			Help: "Scans processed, by result",
		}, []string{"result", "variant"}),
		Edits: f.NewCounter(prometheus.CounterOpts{
			Name: "multipass_edits_total",
			Help: "Field edits applied to records",
		}),
		SignRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "multipass_sign_requests_total",
			Help: "Signing requests, by result",
		}, []string{"result"}),
		ActiveSessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "multipass_active_sessions",
			Help: "Sessions currently held in memory",
		}),
	}
}
