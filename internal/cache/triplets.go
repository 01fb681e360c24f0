package cache

import (
	"encoding/json"
	"time"

	"github.com/ppiankov/tripletcheck/pkg/model"
)

// TripletCache stores document decompositions keyed by document text.
// Scope should identify the provider, model and generation strategy that
// produced the triplets, so runs with different settings do not share
// entries.
type TripletCache struct {
	backend Cache
	scope   string
	ttl     time.Duration
}

// NewTripletCache wraps a byte-level cache as a decomposition store
func NewTripletCache(backend Cache, scope string, ttl time.Duration) *TripletCache {
	return &TripletCache{
		backend: backend,
		scope:   scope,
		ttl:     ttl,
	}
}

// Get returns the cached decomposition for a document, if present.
// Corrupt entries count as misses.
func (c *TripletCache) Get(text string) (model.TripletSet, bool) {
	data, found := c.backend.Get(Key(c.scope, text))
	if !found {
		return nil, false
	}

	var set model.TripletSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, false
	}
	return set, true
}

// Set stores a decomposition. Write failures are swallowed: the caller
// already holds the result, and a cold cache only costs a repeat call.
func (c *TripletCache) Set(text string, set model.TripletSet) {
	data, err := json.Marshal(set)
	if err != nil {
		return
	}
	_ = c.backend.Set(Key(c.scope, text), data, c.ttl)
}
