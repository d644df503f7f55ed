package refcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// SeedRecord is one entity in a seed document.
type SeedRecord struct {
	Collection string          `json:"collection"`
	ID         string          `json:"id"`
	Payload    json.RawMessage `json:"payload"`
	Delete     bool            `json:"delete,omitempty"`
}

// Seed applies a JSON array of SeedRecord to store and returns how many
// records were written or invalidated.
func Seed(ctx context.Context, store Store, r io.Reader) (int, error) {
	if store == nil {
		return 0, errors.New("cache store is required")
	}
	var records []SeedRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return 0, fmt.Errorf("decode seed: %w", err)
	}

	applied := 0
	for i, record := range records {
		collection := strings.TrimSpace(record.Collection)
		id := strings.TrimSpace(record.ID)
		if collection == "" || id == "" {
			return applied, fmt.Errorf("seed record %d: collection and id are required", i)
		}
		if record.Delete {
			if err := store.Invalidate(ctx, collection, id); err != nil {
				return applied, err
			}
			applied++
			continue
		}
		if !json.Valid(record.Payload) {
			return applied, fmt.Errorf("seed record %d (%s/%s): payload is not valid JSON", i, collection, id)
		}
		if err := store.Put(ctx, Entity{Collection: collection, ID: id, Payload: record.Payload}); err != nil {
			return applied, err
		}
		applied++
	}
	return applied, nil
}
