package storage

import (
	"context"

	"github.com/arbengine/predictarb/pkg/types"
)

// Storage is the interface for recording detected opportunities (spec §6
// "Persistence (collaborator)"): a side channel for audit/analytics, never
// load-bearing for detection or execution.
type Storage interface {
	// StoreOpportunity records a detected opportunity.
	StoreOpportunity(ctx context.Context, opp *types.Opportunity) error

	// Close closes the storage connection.
	Close() error
}
