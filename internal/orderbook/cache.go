// Package orderbook holds the per-token order book cache (spec §4.B).
// The cache is multi-reader, single-writer per book: readers either
// observe a pre- or post-update book, never a partial one, because
// every read returns a copy taken under a read lock.
package orderbook

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/arbengine/predictarb/pkg/ids"
	"github.com/arbengine/predictarb/pkg/types"
)

// Cache maps TokenID to the latest OrderBook observed for that token.
type Cache struct {
	mu     sync.RWMutex
	books  map[ids.TokenID]types.OrderBook
	logger *zap.Logger

	notifyMu sync.Mutex
	notify   chan ids.TokenID
}

// New creates an order book cache with no change notifications.
func New(logger *zap.Logger) *Cache {
	return &Cache{
		books:  make(map[ids.TokenID]types.OrderBook),
		logger: logger,
	}
}

// WithNotifications enables a bounded, drop-oldest notification channel:
// every applied update publishes the token id for change-driven
// consumers. Safe to call once; a second call replaces the channel.
func (c *Cache) WithNotifications(capacity int) <-chan ids.TokenID {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	c.notify = make(chan ids.TokenID, capacity)
	return c.notify
}

// Update replaces the book for book.TokenID. Idempotent per sequence
// number: an update whose sequence is <= the stored one is dropped,
// so that out-of-order feed deliveries never regress the cache.
func (c *Cache) Update(book types.OrderBook) {
	start := time.Now()
	defer func() { UpdateDuration.Observe(time.Since(start).Seconds()) }()

	c.mu.Lock()
	existing, ok := c.books[book.TokenID]
	if ok && book.Sequence <= existing.Sequence {
		c.mu.Unlock()
		UpdatesTotal.WithLabelValues("dropped_stale").Inc()
		c.logger.Debug("orderbook-update-dropped-stale",
			zap.String("token-id", string(book.TokenID)),
			zap.Uint64("incoming-sequence", book.Sequence),
			zap.Uint64("stored-sequence", existing.Sequence))
		return
	}

	c.books[book.TokenID] = book
	BooksTracked.Set(float64(len(c.books)))
	c.mu.Unlock()

	UpdatesTotal.WithLabelValues("applied").Inc()

	c.notifyMu.Lock()
	ch := c.notify
	c.notifyMu.Unlock()
	if ch == nil {
		return
	}

	select {
	case ch <- book.TokenID:
	default:
		// Channel full: evict the oldest pending notification, then
		// enqueue this one.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- book.TokenID:
		default:
		}
		NotificationsDroppedTotal.Inc()
		c.logger.Warn("orderbook-notification-dropped",
			zap.String("token-id", string(book.TokenID)),
			zap.String("reason", "channel full, oldest dropped; downstream already has latest book in cache"))
	}
}

// Get returns a consistent copy of the current book for token, if any.
func (c *Cache) Get(token ids.TokenID) (types.OrderBook, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	book, ok := c.books[token]
	return book, ok
}

// Len returns the number of tokens currently tracked.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.books)
}
