// Package services – remote gate and fallback policy
//
// This file implements the process-wide remote-availability gate and the
// "try remote, else fallback" read policy shared by every data service.
// The policy is a plain function over closures so it can be unit tested
// without a database handle or a live remote: the remote attempt is only
// made while the gate is open, and any remote error degrades silently
// (logged at warn) to the fallback source. Remote errors never reach the
// caller.
package services

import (
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

// Remote is the process-wide availability gate for the hosted database.
// When closed, reads are served from the fallback store and writes become
// logged no-ops. The gate can be flipped at runtime (e.g. by a health
// probe); all methods are safe for concurrent use.
type Remote struct {
	available atomic.Bool
}

// NewRemote returns a gate in the given initial state.
func NewRemote(available bool) *Remote {
	r := &Remote{}
	r.available.Store(available)
	return r
}

// Available reports whether remote operations should be attempted.
// A nil gate reads as unavailable, which keeps every path on the fallback
// store, which is useful in tests.
func (r *Remote) Available() bool {
	if r == nil {
		return false
	}
	return r.available.Load()
}

// SetAvailable flips the gate.
func (r *Remote) SetAvailable(v bool) {
	r.available.Store(v)
}

// readThrough applies the fallback read policy: attempt remote while the
// gate is open, and on gate-closed or any remote error serve the fallback.
// The returned bool reports whether either source produced a value.
//
// op names the operation for the degradation log line.
func readThrough[T any](gate *Remote, op string, remote func() (T, error), fallback func() (T, bool)) (T, bool) {
	if gate.Available() {
		v, err := remote()
		if err == nil {
			return v, true
		}
		log.Warn().Err(err).Str("op", op).Msg("remote read failed, serving fallback")
	}
	return fallback()
}

// swallowWrite applies the write policy for remote-only mutations: skip
// silently while the gate is closed, and log (never surface) any remote
// error. The caller always observes success.
func swallowWrite(gate *Remote, op string, write func() error) {
	if !gate.Available() {
		log.Debug().Str("op", op).Msg("remote unavailable, write skipped")
		return
	}
	if err := write(); err != nil {
		log.Error().Err(err).Str("op", op).Msg("remote write failed")
	}
}
