package storage

import (
	"context"
	"database/sql"
	"fmt"

	json "github.com/goccy/go-json"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/arbengine/predictarb/pkg/errs"
	"github.com/arbengine/predictarb/pkg/types"
)

// PostgresStorage implements Storage using PostgreSQL.
type PostgresStorage struct {
	db     *sql.DB
	logger *zap.Logger
}

// PostgresConfig holds PostgreSQL configuration.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
	Logger   *zap.Logger
}

// NewPostgresStorage creates a new PostgreSQL storage.
func NewPostgresStorage(cfg *PostgresConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	cfg.Logger.Info("postgres-storage-connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database))

	return &PostgresStorage{
		db:     db,
		logger: cfg.Logger,
	}, nil
}

// StoreOpportunity records a detected opportunity. Legs denormalize into a
// single legs_json column (the same integrity-scan-friendly shape
// internal/relations uses), since an opportunity's leg count varies with
// strategy (2 for single-condition, one per outcome for market-rebalancing,
// up to a cluster's size for combinatorial) and a fixed-column schema can't
// express that.
func (p *PostgresStorage) StoreOpportunity(ctx context.Context, opp *types.Opportunity) error {
	legsJSON, err := json.Marshal(opp.Legs)
	if err != nil {
		return errs.Wrap(errs.KindParse, "encode opportunity legs_json", err)
	}

	_, err = p.db.ExecContext(ctx, `
		INSERT INTO opportunities (
			id, market_id, question, strategy, legs_json,
			volume, payout, total_cost, edge, expected_profit, detected_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		) ON CONFLICT (id) DO NOTHING`,
		opp.ID, opp.MarketID, opp.Question, opp.Strategy, string(legsJSON),
		opp.Volume.Decimal.String(), opp.Payout.String(), opp.TotalCost().String(),
		opp.Edge().String(), opp.ExpectedProfit().String(), opp.DetectedAt,
	)
	if err != nil {
		return errs.Wrap(errs.KindDatabase, "insert opportunity", err)
	}

	p.logger.Debug("opportunity-stored",
		zap.String("opportunity-id", opp.ID),
		zap.String("market-id", string(opp.MarketID)),
		zap.String("strategy", string(opp.Strategy)),
		zap.Int("leg-count", len(opp.Legs)))

	return nil
}

// Close closes the database connection.
func (p *PostgresStorage) Close() error {
	p.logger.Info("closing-postgres-storage")
	return p.db.Close()
}
