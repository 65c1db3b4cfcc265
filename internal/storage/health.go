package storage

import (
	"context"
	"strings"

	"github.com/ptt-dev/ptt/internal/entry"
	"github.com/ptt-dev/ptt/internal/pool"
	"github.com/ptt-dev/ptt/internal/record"
)

// StorageHealth represents the result of validating one stored blob
type StorageHealth struct {
	Key              string                // Key that was inspected
	Found            bool                  // false if the key was never written
	TotalLines       int                   // Number of non-blank lines in the blob
	ValidRecords     int                   // Number of records that survive parsing
	CorruptedRecords int                   // Number of lines that were skipped or repaired
	Warnings         []record.ParseWarning // Detailed information about each corrupted line
}

// Healthy reports whether every line parsed cleanly.
func (h StorageHealth) Healthy() bool {
	return h.CorruptedRecords == 0
}

// ValidateStorage checks the entry and pool blobs of b.
// A key that does not exist is reported as healthy and empty.
func ValidateStorage(ctx context.Context, b Backend) ([]StorageHealth, error) {
	entries, err := inspect(ctx, b, EntriesKey, func(content string) (int, []record.ParseWarning) {
		result := entry.Parse(content)
		return len(result.Entries), result.Warnings
	})
	if err != nil {
		return nil, err
	}

	pools, err := inspect(ctx, b, PoolsKey, func(content string) (int, []record.ParseWarning) {
		result := pool.Parse(content)
		return len(result.Pools), result.Warnings
	})
	if err != nil {
		return nil, err
	}

	return []StorageHealth{entries, pools}, nil
}

func inspect(ctx context.Context, b Backend, key string, parse func(string) (int, []record.ParseWarning)) (StorageHealth, error) {
	health := StorageHealth{
		Key:      key,
		Warnings: []record.ParseWarning{},
	}

	content, found, err := b.Get(ctx, key)
	if err != nil {
		return health, err
	}
	if !found || strings.TrimSpace(content) == "" {
		health.Found = found
		return health, nil
	}

	health.Found = true
	health.TotalLines = len(record.Lines(content))
	health.ValidRecords, health.Warnings = parse(content)
	health.CorruptedRecords = len(health.Warnings)
	return health, nil
}
