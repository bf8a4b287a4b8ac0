package stream

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/arbengine/predictarb/pkg/errs"
	"github.com/arbengine/predictarb/pkg/ids"
	"github.com/arbengine/predictarb/pkg/types"
)

// wireLevel is a single price/size pair as the exchange sends it: strings,
// parsed lazily into decimal.Decimal only once received.
type wireLevel struct {
	Price string `json:"price"`
	Size  string `json:"size"`
}

// wireMessage is one element of the array the exchange's market channel sends.
type wireMessage struct {
	EventType string      `json:"event_type"`
	AssetID   string      `json:"asset_id"`
	Bids      []wireLevel `json:"bids,omitempty"`
	Asks      []wireLevel `json:"asks,omitempty"`
}

// CLOBConfig configures the exchange-specific inner stream.
type CLOBConfig struct {
	URL         string
	DialTimeout time.Duration
	PongTimeout time.Duration
	Logger      *zap.Logger
}

// CLOBStream is the inner, exchange-specific DataStream implementation:
// a single WebSocket session with no reconnection logic of its own (the
// Reconnecting wrapper in reconnecting.go supplies that, per spec §4.D).
type CLOBStream struct {
	cfg    CLOBConfig
	logger *zap.Logger
	seqGen atomic.Uint64

	mu         sync.Mutex
	conn       *websocket.Conn
	subscribed map[ids.TokenID]struct{}
}

// NewCLOBStream creates an unconnected inner stream.
func NewCLOBStream(cfg CLOBConfig) *CLOBStream {
	return &CLOBStream{
		cfg:        cfg,
		logger:     cfg.Logger,
		subscribed: make(map[ids.TokenID]struct{}),
	}
}

// Connect dials the exchange's WebSocket market channel.
func (s *CLOBStream) Connect(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: s.cfg.DialTimeout}

	conn, _, err := dialer.DialContext(ctx, s.cfg.URL, nil)
	if err != nil {
		return errs.Wrap(errs.KindConnection, "dial market stream", err)
	}

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(s.cfg.PongTimeout))
	})

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()

	ActiveConnections.Set(1)
	return nil
}

// Subscribe sends a subscribe message for the given tokens. The caller
// (the Reconnecting wrapper) is responsible for remembering the full
// subscription set across reconnects; CLOBStream only speaks the wire
// protocol for whatever it is told to subscribe to right now.
func (s *CLOBStream) Subscribe(ctx context.Context, tokenIDs []ids.TokenID) error {
	if len(tokenIDs) == 0 {
		return nil
	}

	s.mu.Lock()
	conn := s.conn
	assetIDs := make([]string, 0, len(tokenIDs))
	for _, t := range tokenIDs {
		if _, ok := s.subscribed[t]; ok {
			continue
		}
		assetIDs = append(assetIDs, string(t))
		s.subscribed[t] = struct{}{}
	}
	s.mu.Unlock()

	if conn == nil {
		return errs.New(errs.KindConnection, "subscribe called before connect")
	}
	if len(assetIDs) == 0 {
		return nil
	}

	if err := conn.WriteJSON(map[string]any{
		"assets_ids": assetIDs,
		"type":       "market",
	}); err != nil {
		return errs.Wrap(errs.KindConnection, "write subscribe message", err)
	}

	SubscriptionCount.Set(float64(len(s.subscribed)))
	return nil
}

// NextEvent reads the next wire message and decodes it into a MarketEvent.
// A read error surfaces as a Disconnected event rather than an error
// return, so that reconnection can stay internal to callers that want it.
func (s *CLOBStream) NextEvent(ctx context.Context) (MarketEvent, bool) {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()

	if conn == nil {
		return MarketEvent{Kind: Disconnected, Reason: "not connected"}, true
	}

	_, raw, err := conn.ReadMessage()
	if err != nil {
		ActiveConnections.Set(0)
		return MarketEvent{Kind: Disconnected, Reason: err.Error()}, true
	}

	var msgs []wireMessage
	if err := json.Unmarshal(raw, &msgs); err != nil || len(msgs) == 0 {
		// Heartbeats and control frames don't decode as a message array;
		// they are not protocol errors, just not book updates.
		return MarketEvent{}, false
	}

	msg := msgs[0]
	book, err := decodeBook(msg, s.seqGen.Add(1))
	if err != nil {
		s.logger.Debug("unparseable-book-message", zap.Error(err), zap.String("asset-id", msg.AssetID))
		return MarketEvent{}, false
	}

	kind := BookSnapshot
	if msg.EventType == "price_change" {
		kind = BookDelta
	}
	EventsReceivedTotal.WithLabelValues(kind.String()).Inc()

	return MarketEvent{Kind: kind, TokenID: book.TokenID, Book: book}, true
}

// Close releases the underlying connection.
func (s *CLOBStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	ActiveConnections.Set(0)
	return err
}

func decodeBook(msg wireMessage, sequence uint64) (types.OrderBook, error) {
	if msg.AssetID == "" {
		return types.OrderBook{}, fmt.Errorf("message missing asset_id")
	}

	bids, err := decodeLevels(msg.Bids)
	if err != nil {
		return types.OrderBook{}, err
	}
	asks, err := decodeLevels(msg.Asks)
	if err != nil {
		return types.OrderBook{}, err
	}

	book := types.OrderBook{
		TokenID:  ids.TokenID(msg.AssetID),
		Sequence: sequence,
		Bids:     bids,
		Asks:     asks,
	}
	if err := book.Validate(); err != nil {
		return types.OrderBook{}, err
	}
	return book, nil
}

func decodeLevels(wire []wireLevel) ([]types.Level, error) {
	levels := make([]types.Level, len(wire))
	for i, w := range wire {
		price, err := decimal.NewFromString(w.Price)
		if err != nil {
			return nil, fmt.Errorf("parse price %q: %w", w.Price, err)
		}
		size, err := decimal.NewFromString(w.Size)
		if err != nil {
			return nil, fmt.Errorf("parse size %q: %w", w.Size, err)
		}
		levels[i] = types.Level{Price: types.NewPrice(price), Size: types.NewVolume(size)}
	}
	return levels, nil
}
