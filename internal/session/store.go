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
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrUnknownSession is returned for ids that never existed or have expired.
var ErrUnknownSession = errors.New("unknown session")

// timeNow is the function used to get the current time. Override in tests.
var timeNow = time.Now

type entry struct {
	state   State
	touched time.Time
}

// Store keeps interactive sessions in memory. Nothing is ever written to
// disk; idle sessions are dropped by Sweep.
type Store struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*entry
}

// NewStore creates a store whose sessions expire after ttl without activity.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:      ttl,
		sessions: make(map[string]*entry),
	}
}

// Create starts an empty session and returns its id.
func (s *Store) Create() string {
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = &entry{touched: timeNow()}
	s.mu.Unlock()
	return id
}

// Get returns a snapshot of the session state.
func (s *Store) Get(id string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return State{}, ErrUnknownSession
	}
	e.touched = timeNow()
	return e.state, nil
}

// Update replaces the session state with fn's result. fn must not block: it
// runs with the store locked. When fn fails the stored state is replaced
// with the state fn returned, which for Scan is the previous one.
func (s *Store) Update(id string, fn func(State) (State, error)) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return State{}, ErrUnknownSession
	}
	next, err := fn(e.state)
	e.state = next
	e.touched = timeNow()
	return next, err
}

// Delete forgets a session.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than the ttl and returns how many
// were removed.
func (s *Store) Sweep() int {
	cutoff := timeNow().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, e := range s.sessions {
		if e.touched.Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// Run sweeps expired sessions every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if n := s.Sweep(); n > 0 {
				slog.Debug("Expired sessions", "count", n)
			}
		}
	}
}
