package redis

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	"github.com/redis/rueidis"

	"github.com/vecgate/vecgate/internal/db"
)

// distanceField is the alias FT.SEARCH assigns to the KNN distance.
const distanceField = "__vector_score"

// SearchKNN runs a KNN vector similarity search via FT.SEARCH.
func (s *Store) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if len(q.Vector) == 0 {
		return nil, fmt.Errorf("vector is required")
	}
	if q.K <= 0 {
		return nil, fmt.Errorf("k must be positive")
	}

	knn := fmt.Sprintf("*=>[KNN %d @vector $BLOB", q.K)
	params := []string{"BLOB", vectorToBlob(q.Vector)}
	if q.EFRuntime > 0 {
		knn += " EF_RUNTIME $EF"
		params = append(params, "EF", strconv.Itoa(q.EFRuntime))
	}
	knn += " AS " + distanceField + "]"

	args := []string{q.IndexName, knn, "SORTBY", distanceField}

	if len(q.ReturnFields) > 0 {
		args = append(args, "RETURN", strconv.Itoa(len(q.ReturnFields)+1))
		args = append(args, q.ReturnFields...)
		args = append(args, distanceField)
	}

	args = append(args, "LIMIT", "0", strconv.Itoa(q.K))
	args = append(args, "PARAMS", strconv.Itoa(len(params)))
	args = append(args, params...)
	args = append(args, "DIALECT", "2")

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: classify(err)}
	}

	return parseSearchReply(raw)
}

// parseSearchReply decodes the RESP2 FT.SEARCH reply:
// [total, key1, fields1, key2, fields2, ...]. The KNN distance arrives as a
// regular field under distanceField and is lifted into SearchEntry.Distance.
func parseSearchReply(raw []rueidis.RedisMessage) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.SearchResult{}, nil
	}

	entries := make([]db.SearchEntry, 0, total)
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}
		fieldsRaw, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}

		fields := parseFieldPairs(fieldsRaw)
		entry := db.SearchEntry{Key: key, Fields: fields}
		if scoreStr, ok := fields[distanceField]; ok {
			if score, err := strconv.ParseFloat(scoreStr, 64); err == nil {
				entry.Distance = score
			}
			delete(fields, distanceField)
		}
		entries = append(entries, entry)
	}

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}

// vectorToBlob encodes a vector as little-endian float32 bytes, the format
// the engine expects for KNN query blobs and stored vector hash fields.
func vectorToBlob(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
