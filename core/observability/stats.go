package observability

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/searchktools/headparse/core/http"
)

// ParseStats counts parse outcomes. All methods are safe for concurrent use.
type ParseStats struct {
	enabled  atomic.Bool
	outcomes [http.NumResults]atomic.Uint64
	unknown  atomic.Uint64

	totalDuration atomic.Uint64
	maxDuration   atomic.Uint64
	totalBytes    atomic.Uint64
}

// NewParseStats creates enabled stats
func NewParseStats() *ParseStats {
	ps := &ParseStats{}
	ps.enabled.Store(true)
	return ps
}

// SetEnabled turns recording on or off
func (ps *ParseStats) SetEnabled(on bool) {
	ps.enabled.Store(on)
}

// Record adds one parse of size bytes that took d.
func (ps *ParseStats) Record(res http.Result, size int, d time.Duration) {
	if !ps.enabled.Load() {
		return
	}

	if int(res) < len(ps.outcomes) {
		ps.outcomes[res].Add(1)
	} else {
		ps.unknown.Add(1)
	}

	ns := uint64(d.Nanoseconds())
	ps.totalDuration.Add(ns)
	ps.totalBytes.Add(uint64(size))
	for {
		cur := ps.maxDuration.Load()
		if ns <= cur || ps.maxDuration.CompareAndSwap(cur, ns) {
			break
		}
	}
}

// Snapshot is a point-in-time copy of ParseStats
type Snapshot struct {
	Total       uint64
	Failures    uint64
	ByResult    map[string]uint64
	AvgDuration time.Duration
	MaxDuration time.Duration
	Bytes       uint64
}

// Snapshot copies the counters. Outcomes never seen are omitted.
func (ps *ParseStats) Snapshot() Snapshot {
	s := Snapshot{
		ByResult:    make(map[string]uint64),
		MaxDuration: time.Duration(ps.maxDuration.Load()),
		Bytes:       ps.totalBytes.Load(),
	}

	for i := range ps.outcomes {
		n := ps.outcomes[i].Load()
		if n == 0 {
			continue
		}
		s.ByResult[http.Result(i).String()] = n
		s.Total += n
		if http.Result(i) != http.Success {
			s.Failures += n
		}
	}
	if n := ps.unknown.Load(); n > 0 {
		s.ByResult[http.ErrUnknownResult.Error()] = n
		s.Total += n
		s.Failures += n
	}

	if s.Total > 0 {
		s.AvgDuration = time.Duration(ps.totalDuration.Load() / s.Total)
	}
	return s
}

func (s Snapshot) String() string {
	keys := make([]string, 0, len(s.ByResult))
	for k := range s.ByResult {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, s.ByResult[k]))
	}

	return fmt.Sprintf("parses=%d failures=%d bytes=%d avg=%v max=%v [%s]",
		s.Total, s.Failures, s.Bytes, s.AvgDuration, s.MaxDuration, strings.Join(parts, " "))
}
