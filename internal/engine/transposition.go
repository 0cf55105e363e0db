package engine

import (
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/hailam/cellchess/internal/board"
)

// MoveCache stores the best move found for an exact search state. Entries
// are never evicted: a key fixes the position, the remaining depth and the
// side to move, so a stored move stays correct until Clear.
// Safe for concurrent use, which lets several engines share one cache.
type MoveCache struct {
	mu      sync.RWMutex
	entries map[string]Move

	// Statistics
	hits   atomic.Uint64
	probes atomic.Uint64
}

// NewMoveCache creates an empty cache.
func NewMoveCache() *MoveCache {
	return &MoveCache{entries: make(map[string]Move)}
}

// cacheKey encodes depth, fingerprint and side to move, e.g. "3:rnbq...:w".
func cacheKey(pos *board.Position, st SearchState) string {
	var sb strings.Builder
	sb.Grow(70)
	sb.WriteString(strconv.Itoa(st.Depth))
	sb.WriteByte(':')
	sb.WriteString(pos.Fingerprint())
	if st.Side == board.White {
		sb.WriteString(":w")
	} else {
		sb.WriteString(":b")
	}
	return sb.String()
}

// Probe looks up a search state.
func (mc *MoveCache) Probe(key string) (Move, bool) {
	mc.probes.Add(1)

	mc.mu.RLock()
	m, ok := mc.entries[key]
	mc.mu.RUnlock()

	if ok {
		mc.hits.Add(1)
	}
	return m, ok
}

// Store saves the best move for a search state.
func (mc *MoveCache) Store(key string, m Move) {
	mc.mu.Lock()
	mc.entries[key] = m
	mc.mu.Unlock()
}

// Clear removes all entries and resets the statistics.
func (mc *MoveCache) Clear() {
	mc.mu.Lock()
	mc.entries = make(map[string]Move)
	mc.mu.Unlock()
	mc.hits.Store(0)
	mc.probes.Store(0)
}

// Len returns the number of stored entries.
func (mc *MoveCache) Len() int {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return len(mc.entries)
}

// Hits returns the number of successful probes.
func (mc *MoveCache) Hits() uint64 {
	return mc.hits.Load()
}

// HitRate returns the cache hit rate as a percentage.
func (mc *MoveCache) HitRate() float64 {
	probes := mc.probes.Load()
	if probes == 0 {
		return 0
	}
	return float64(mc.hits.Load()) / float64(probes) * 100
}
