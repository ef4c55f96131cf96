// Package collection persists the per-collection dimension/metric contract
// and manages the engine-side vector index that backs it.
package collection

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/vecgate/vecgate/internal/db"
	"github.com/vecgate/vecgate/internal/domain"
)

// store is the consumer interface for collection metadata (ISP).
//
//nolint:interfacebloat // collection repo needs hash + index management operations
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	DelMulti(ctx context.Context, keys []string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Repo implements usecase Repository contracts for collections.
type Repo struct {
	store store
}

// New creates a collection repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Create stores the collection contract (HSET metadata, then index creation).
// On index creation failure, the metadata write is rolled back via DEL.
func (r *Repo) Create(ctx context.Context, col domain.Collection) error {
	name := col.Name

	key := metaKey(name)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return domain.ErrAlreadyExists
	}

	indexDef := buildIndexDef(col)
	hashData, err := collectionToHash(col)
	if err != nil {
		return err
	}

	if err := r.store.HSet(ctx, key, hashData); err != nil {
		return fmt.Errorf("hset collection %s: %w", name, err)
	}

	if err := r.store.CreateIndex(ctx, indexDef); err != nil {
		cleanupErr := r.store.Del(ctx, key)
		return errors.Join(fmt.Errorf("create index %s: %w", indexDef.Name, err), cleanupErr)
	}

	return nil
}

// Load verifies that the collection's index is present and queryable. The
// engine serves indexes without an explicit load step, so this is a readiness
// probe rather than a state change.
func (r *Repo) Load(ctx context.Context, name string) error {
	ok, err := r.store.IndexExists(ctx, indexName(name))
	if err != nil {
		return fmt.Errorf("probe index %s: %w", indexName(name), err)
	}
	if !ok {
		return fmt.Errorf("index %s is not queryable: %w", indexName(name), db.ErrIndexNotFound)
	}
	return nil
}

// Get retrieves a collection contract by name. Metadata is re-read from the
// store on every call; nothing is cached across requests.
func (r *Repo) Get(ctx context.Context, name string) (domain.Collection, error) {
	m, err := r.store.HGetAll(ctx, metaKey(name))
	if err != nil {
		return domain.Collection{}, fmt.Errorf("hgetall collection %s: %w", name, err)
	}
	if len(m) == 0 {
		return domain.Collection{}, domain.ErrNotFound
	}

	return collectionFromHash(m), nil
}

// List returns all collection contracts sorted by creation time. A malformed
// metadata hash degrades that entry to UNKNOWN fields instead of failing the
// whole listing.
func (r *Repo) List(ctx context.Context) ([]domain.Collection, error) {
	keys, err := r.store.Scan(ctx, metaKey("*"))
	if err != nil {
		return nil, fmt.Errorf("scan collections: %w", err)
	}
	if len(keys) == 0 {
		return []domain.Collection{}, nil
	}

	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi collections: %w", err)
	}

	collections := make([]domain.Collection, 0, len(results))
	for i, m := range results {
		if len(m) == 0 {
			// Key vanished between SCAN and HGETALL.
			continue
		}
		col := collectionFromHash(m)
		if col.Name == "" {
			col.Name = strings.TrimPrefix(keys[i], metaKey(""))
		}
		collections = append(collections, col)
	}

	sort.Slice(collections, func(i, j int) bool {
		return collections[i].CreatedAt < collections[j].CreatedAt
	})

	return collections, nil
}

// Delete removes a collection: every stored record, the index, and the
// metadata hash last. The metadata key is the existence marker, so a failure
// partway through leaves the collection visible and the delete retryable.
// The data is gone irrecoverably.
func (r *Repo) Delete(ctx context.Context, name string) error {
	key := metaKey(name)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}

	recordKeys, err := r.store.Scan(ctx, recordPrefix(name)+"*")
	if err != nil {
		return fmt.Errorf("scan records %s: %w", name, err)
	}
	if err := r.store.DelMulti(ctx, recordKeysOnly(recordKeys, name)); err != nil {
		return fmt.Errorf("del records %s: %w", name, err)
	}

	if err := r.store.DropIndex(ctx, indexName(name)); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
		return fmt.Errorf("drop index %s: %w", indexName(name), err)
	}

	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del collection %s: %w", name, err)
	}

	return nil
}

// recordKeysOnly keeps per-id record keys: the scan glob matches every key
// sharing the collection prefix, so anything without an integer id suffix is
// not ours to delete.
func recordKeysOnly(keys []string, name string) []string {
	prefix := recordPrefix(name)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, err := strconv.ParseInt(strings.TrimPrefix(k, prefix), 10, 64); err == nil {
			out = append(out, k)
		}
	}
	return out
}

// buildIndexDef maps the declared index configuration onto the engine's
// algorithms. HNSW passes through with its tuning knobs; FLAT stays FLAT;
// the IVF family has no engine counterpart and is served by FLAT while the
// declared type remains authoritative in metadata.
func buildIndexDef(col domain.Collection) *db.IndexDefinition {
	field := db.IndexField{
		Name:           "vector",
		Type:           db.IndexFieldVector,
		VectorDim:      col.Dimension,
		VectorDistance: db.DistanceMetric(col.Metric),
	}

	if col.IndexType == domain.IndexHNSW {
		field.VectorAlgo = db.VectorHNSW
		field.VectorM = intParam(col.IndexParams, "M")
		field.VectorEFConstruct = intParam(col.IndexParams, "efConstruction")
	} else {
		field.VectorAlgo = db.VectorFlat
	}

	return &db.IndexDefinition{
		Name:     indexName(col.Name),
		Prefixes: []string{recordPrefix(col.Name)},
		Fields:   []db.IndexField{field},
	}
}

// intParam reads a numeric tuning knob that may arrive as int (in-process)
// or float64 (decoded JSON).
func intParam(params map[string]any, key string) int {
	switch v := params[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

// Engine key patterns: vecgate:collection:{name}, vecgate:{name}:idx, vecgate:{name}:{id}

func metaKey(name string) string {
	return domain.KeyPrefix + "collection:" + name
}

func indexName(name string) string {
	return domain.KeyPrefix + name + ":idx"
}

func recordPrefix(name string) string {
	return domain.KeyPrefix + name + ":"
}
