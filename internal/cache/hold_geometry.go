// Package cache holds process-local caches owned by the composition root.
package cache

import (
	"encoding/json"
	"time"

	"github.com/LibrelandCommunity/libreland-server/internal/metrics"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// HoldGeometry remembers the last hold geometry registered for a thing.
// It is bounded in size and entries expire. Safe for concurrent use.
type HoldGeometry struct {
	entries *expirable.LRU[string, json.RawMessage]
}

// NewHoldGeometry creates a cache holding at most maxEntries geometries for ttl each
func NewHoldGeometry(maxEntries int, ttl time.Duration) *HoldGeometry {
	return &HoldGeometry{
		entries: expirable.NewLRU[string, json.RawMessage](maxEntries, nil, ttl),
	}
}

// Put stores geometry for thingID. The last write wins.
func (h *HoldGeometry) Put(thingID string, geometry json.RawMessage) {
	stored := make(json.RawMessage, len(geometry))
	copy(stored, geometry)
	h.entries.Add(thingID, stored)
	metrics.SetHoldGeometryEntries(h.entries.Len())
}

// Get returns the geometry stored for thingID
func (h *HoldGeometry) Get(thingID string) (json.RawMessage, bool) {
	return h.entries.Get(thingID)
}

// Len reports the number of live entries
func (h *HoldGeometry) Len() int {
	return h.entries.Len()
}
