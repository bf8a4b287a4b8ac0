package relations

import (
	"context"
	"database/sql"
	"sync"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/arbengine/predictarb/pkg/errs"
	"github.com/arbengine/predictarb/pkg/ids"
	"github.com/arbengine/predictarb/pkg/types"
)

// ClusterStore holds clusters built from the relation graph (spec
// §4.E/§4.F.3): simpler than Store since clusters carry no TTL and get
// no ristretto hot path, just an authoritative map plus postgres.
type ClusterStore struct {
	mu     sync.RWMutex
	index  map[ids.ClusterID]types.Cluster
	db     *sql.DB
	logger *zap.Logger
}

// NewClusterStore creates a cluster store. db may be nil to run memory-only.
func NewClusterStore(db *sql.DB, logger *zap.Logger) *ClusterStore {
	return &ClusterStore{
		index:  make(map[ids.ClusterID]types.Cluster),
		db:     db,
		logger: logger,
	}
}

// Load populates the in-memory index from Postgres at startup.
func (s *ClusterStore) Load(ctx context.Context) error {
	if s.db == nil {
		return nil
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, markets_json, relations_json FROM clusters`)
	if err != nil {
		return errs.Wrap(errs.KindDatabase, "load clusters", err)
	}
	defer rows.Close()

	s.mu.Lock()
	defer s.mu.Unlock()

	for rows.Next() {
		var (
			c                          types.Cluster
			marketsJSON, relationsJSON string
		)
		if err := rows.Scan(&c.ID, &marketsJSON, &relationsJSON); err != nil {
			return errs.Wrap(errs.KindDatabase, "scan cluster row", err)
		}
		if err := json.Unmarshal([]byte(marketsJSON), &c.Markets); err != nil {
			return errs.Wrap(errs.KindParse, "decode cluster markets_json", err)
		}
		if err := json.Unmarshal([]byte(relationsJSON), &c.RelationID); err != nil {
			return errs.Wrap(errs.KindParse, "decode cluster relations_json", err)
		}
		s.index[c.ID] = c
	}
	ClustersStored.Set(float64(len(s.index)))
	return rows.Err()
}

// Save upserts a cluster. As with relations, the in-memory index is
// authoritative and updated unconditionally; a persistence failure is
// logged, counted, and returned for status/health to surface.
func (s *ClusterStore) Save(ctx context.Context, c types.Cluster) error {
	s.mu.Lock()
	s.index[c.ID] = c
	ClustersStored.Set(float64(len(s.index)))
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	marketsJSON, err := json.Marshal(c.Markets)
	if err != nil {
		return errs.Wrap(errs.KindParse, "encode cluster markets_json", err)
	}
	relationsJSON, err := json.Marshal(c.RelationID)
	if err != nil {
		return errs.Wrap(errs.KindParse, "encode cluster relations_json", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO clusters (id, markets_json, relations_json)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			markets_json = EXCLUDED.markets_json, relations_json = EXCLUDED.relations_json`,
		c.ID, string(marketsJSON), string(relationsJSON))
	if err != nil {
		RelationsPersistErrorsTotal.WithLabelValues("cluster_save").Inc()
		s.logger.Error("cluster-persist-failed", zap.String("cluster-id", string(c.ID)), zap.Error(err))
		return errs.Wrap(errs.KindDatabase, "upsert cluster", err)
	}
	return nil
}

// Get returns the cluster for id, if present.
func (s *ClusterStore) Get(id ids.ClusterID) (types.Cluster, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.index[id]
	return c, ok
}

// Delete removes a cluster from memory and Postgres.
func (s *ClusterStore) Delete(ctx context.Context, id ids.ClusterID) error {
	s.mu.Lock()
	delete(s.index, id)
	ClustersStored.Set(float64(len(s.index)))
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM clusters WHERE id = $1`, id); err != nil {
		RelationsPersistErrorsTotal.WithLabelValues("cluster_delete").Inc()
		return errs.Wrap(errs.KindDatabase, "delete cluster", err)
	}
	return nil
}

// List returns every cluster currently held.
func (s *ClusterStore) List() []types.Cluster {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Cluster, 0, len(s.index))
	for _, c := range s.index {
		out = append(out, c)
	}
	return out
}

// ForMarket returns the cluster containing market, if any. A market
// belongs to at most one cluster by construction (clusters partition
// the relation graph's connected components).
func (s *ClusterStore) ForMarket(market ids.MarketID) (types.Cluster, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.index {
		if c.Contains(market) {
			return c, true
		}
	}
	return types.Cluster{}, false
}
