// Package vector persists vector records as per-id hashes under the
// collection's key prefix. Only id and vector are ever stored.
package vector

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/vecgate/vecgate/internal/db"
	"github.com/vecgate/vecgate/internal/domain"
)

// store is the consumer interface for vector records (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	DelMulti(ctx context.Context, keys []string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements vector record storage.
type Repo struct {
	store store
}

// New creates a vector record repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// InsertBatch writes ids and vectors pairwise in one pipelined round-trip.
// Engine writes are synchronous, so the batch is visible to reads and
// searches as soon as this returns.
func (r *Repo) InsertBatch(ctx context.Context, collection string, ids []int64, vectors [][]float32) error {
	if len(ids) != len(vectors) {
		return fmt.Errorf("ids/vectors length mismatch: %d != %d", len(ids), len(vectors))
	}

	items := make([]db.HashSetItem, len(ids))
	for i, id := range ids {
		items[i] = db.HashSetItem{
			Key:    recordKey(collection, id),
			Fields: map[string]string{"vector": vectorToBlob(vectors[i])},
		}
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("insert batch %s: %w", collection, err)
	}
	return nil
}

// Count returns the live number of stored records, read fresh from the
// engine keyspace on every call.
func (r *Repo) Count(ctx context.Context, collection string) (int, error) {
	keys, err := r.scanRecordKeys(ctx, collection)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

// FetchAll reads up to limit records ordered by id. A limit <= 0 fetches
// everything (used by the destructive id rebuild).
func (r *Repo) FetchAll(ctx context.Context, collection string, limit int) ([]domain.VectorRecord, error) {
	keys, err := r.scanRecordKeys(ctx, collection)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return []domain.VectorRecord{}, nil
	}

	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("fetch records %s: %w", collection, err)
	}

	records := make([]domain.VectorRecord, 0, len(keys))
	prefix := recordPrefix(collection)
	for i, m := range hashes {
		if len(m) == 0 {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimPrefix(keys[i], prefix), 10, 64)
		if err != nil {
			continue
		}
		vec, err := blobToVector(m["vector"])
		if err != nil {
			continue
		}
		records = append(records, domain.VectorRecord{ID: id, Vector: vec})
	}

	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// Delete removes records by id in a single round-trip. Missing ids are a
// no-op at the engine, matching delete-by-expression semantics.
func (r *Repo) Delete(ctx context.Context, collection string, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = recordKey(collection, id)
	}
	if err := r.store.DelMulti(ctx, keys); err != nil {
		return fmt.Errorf("delete records %s: %w", collection, err)
	}
	return nil
}

// scanRecordKeys lists record keys, excluding non-record keys that share the
// collection prefix (none today, but id parsing filters defensively).
func (r *Repo) scanRecordKeys(ctx context.Context, collection string) ([]string, error) {
	keys, err := r.store.Scan(ctx, recordPrefix(collection)+"*")
	if err != nil {
		return nil, fmt.Errorf("scan records %s: %w", collection, err)
	}
	prefix := recordPrefix(collection)
	records := keys[:0]
	for _, k := range keys {
		if _, err := strconv.ParseInt(strings.TrimPrefix(k, prefix), 10, 64); err == nil {
			records = append(records, k)
		}
	}
	return records, nil
}

func recordPrefix(collection string) string {
	return domain.KeyPrefix + collection + ":"
}

func recordKey(collection string, id int64) string {
	return recordPrefix(collection) + strconv.FormatInt(id, 10)
}
