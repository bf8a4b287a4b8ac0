// Package relations holds the relation/cluster store (spec §4.E): a
// keyed store over inferred logical links between markets, with TTL
// semantics, backed by an in-memory index for point lookups and
// enumeration plus a Postgres write-behind layer for durability.
package relations

import (
	"context"
	"database/sql"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/arbengine/predictarb/pkg/cache"
	"github.com/arbengine/predictarb/pkg/errs"
	"github.com/arbengine/predictarb/pkg/ids"
	"github.com/arbengine/predictarb/pkg/types"
)

// Store is the relation store. The in-memory index map is authoritative
// for Get/List/PruneExpired (ristretto has no enumeration API). hot, when
// set, mirrors each saved relation with its remaining TTL and is cleared
// on Delete and PruneExpired; no Store method reads from it, so Get is
// always served from the index. db is optional: a nil db runs the store
// memory-only (e.g. tests, dry-run mode).
type Store struct {
	mu     sync.RWMutex
	index  map[ids.RelationID]types.Relation
	hot    cache.Cache
	db     *sql.DB
	logger *zap.Logger
}

// New creates a relation store. hot may be nil to skip the mirror
// cache; db may be nil to skip durable persistence.
func New(hot cache.Cache, db *sql.DB, logger *zap.Logger) *Store {
	return &Store{
		index:  make(map[ids.RelationID]types.Relation),
		hot:    hot,
		db:     db,
		logger: logger,
	}
}

// Load populates the in-memory index from Postgres at startup. A no-op
// if the store has no db.
func (s *Store) Load(ctx context.Context) error {
	if s.db == nil {
		return nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, if_yes, then_yes, markets_json, confidence, reasoning, inferred_at, expires_at
		FROM relations`)
	if err != nil {
		return errs.Wrap(errs.KindDatabase, "load relations", err)
	}
	defer rows.Close()

	s.mu.Lock()
	defer s.mu.Unlock()

	for rows.Next() {
		var (
			r           types.Relation
			marketsJSON string
		)
		if err := rows.Scan(&r.ID, &r.Kind, &r.IfYes, &r.ThenYes, &marketsJSON, &r.Confidence, &r.Reasoning, &r.InferredAt, &r.ExpiresAt); err != nil {
			return errs.Wrap(errs.KindDatabase, "scan relation row", err)
		}
		if err := json.Unmarshal([]byte(marketsJSON), &r.Markets); err != nil {
			return errs.Wrap(errs.KindParse, "decode relation markets_json", err)
		}
		s.index[r.ID] = r
	}
	RelationsStored.Set(float64(len(s.index)))
	return rows.Err()
}

// Save upserts a relation by id. The in-memory index is updated
// unconditionally; a non-nil return means the durable write-behind
// failed (spec §7: database errors surface to status/health but never
// roll back the in-memory view, since detection cannot wait on it).
func (s *Store) Save(ctx context.Context, r types.Relation) error {
	s.mu.Lock()
	s.index[r.ID] = r
	RelationsStored.Set(float64(len(s.index)))
	s.mu.Unlock()

	if s.hot != nil {
		ttl := time.Until(r.ExpiresAt)
		if ttl > 0 {
			s.hot.Set(string(r.ID), r, ttl)
		}
	}

	if s.db == nil {
		return nil
	}
	if err := s.persist(ctx, r); err != nil {
		RelationsPersistErrorsTotal.WithLabelValues("save").Inc()
		s.logger.Error("relation-persist-failed", zap.String("relation-id", string(r.ID)), zap.Error(err))
		return err
	}
	return nil
}

func (s *Store) persist(ctx context.Context, r types.Relation) error {
	marketsJSON, err := json.Marshal(r.MarketSet())
	if err != nil {
		return errs.Wrap(errs.KindParse, "encode relation markets_json", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO relations (id, kind, if_yes, then_yes, markets_json, confidence, reasoning, inferred_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			kind = EXCLUDED.kind, if_yes = EXCLUDED.if_yes, then_yes = EXCLUDED.then_yes,
			markets_json = EXCLUDED.markets_json, confidence = EXCLUDED.confidence,
			reasoning = EXCLUDED.reasoning, inferred_at = EXCLUDED.inferred_at, expires_at = EXCLUDED.expires_at`,
		r.ID, r.Kind, r.IfYes, r.ThenYes, string(marketsJSON), r.Confidence, r.Reasoning, r.InferredAt, r.ExpiresAt)
	if err != nil {
		return errs.Wrap(errs.KindDatabase, "upsert relation", err)
	}
	return nil
}

// Get returns the relation for id, if present (regardless of expiry;
// callers that care use Expired themselves).
func (s *Store) Get(id ids.RelationID) (types.Relation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.index[id]
	return r, ok
}

// Delete removes a relation from memory, the hot cache, and Postgres.
func (s *Store) Delete(ctx context.Context, id ids.RelationID) error {
	s.mu.Lock()
	delete(s.index, id)
	RelationsStored.Set(float64(len(s.index)))
	s.mu.Unlock()

	if s.hot != nil {
		s.hot.Delete(string(id))
	}
	if s.db == nil {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM relations WHERE id = $1`, id); err != nil {
		RelationsPersistErrorsTotal.WithLabelValues("delete").Inc()
		return errs.Wrap(errs.KindDatabase, "delete relation", err)
	}
	return nil
}

// List returns every relation, optionally excluding expired ones.
func (s *Store) List(includeExpired bool) []types.Relation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	out := make([]types.Relation, 0, len(s.index))
	for _, r := range s.index {
		if !includeExpired && r.Expired(now) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// PruneExpired removes every relation whose TTL has elapsed and returns
// the count removed.
func (s *Store) PruneExpired(ctx context.Context) (int, error) {
	now := time.Now()

	s.mu.Lock()
	var expired []ids.RelationID
	for id, r := range s.index {
		if r.Expired(now) {
			expired = append(expired, id)
			delete(s.index, id)
		}
	}
	RelationsStored.Set(float64(len(s.index)))
	s.mu.Unlock()

	for _, id := range expired {
		if s.hot != nil {
			s.hot.Delete(string(id))
		}
	}

	RelationsPrunedTotal.Add(float64(len(expired)))

	if s.db == nil || len(expired) == 0 {
		return len(expired), nil
	}

	for _, id := range expired {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM relations WHERE id = $1`, id); err != nil {
			RelationsPersistErrorsTotal.WithLabelValues("prune").Inc()
			return len(expired), errs.Wrap(errs.KindDatabase, "prune relation", err)
		}
	}
	return len(expired), nil
}

// MarketsTouching returns every relation whose MarketSet includes market,
// for integrity scans (spec §4.E: listing without deserializing kind).
func (s *Store) MarketsTouching(market ids.MarketID) []types.Relation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []types.Relation
	for _, r := range s.index {
		for _, m := range r.MarketSet() {
			if m == market {
				out = append(out, r)
				break
			}
		}
	}
	return out
}
