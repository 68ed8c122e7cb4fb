package helius

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/gabrxgomes/ShadowStats/internal/observability"
)

// WatcherConfig configures WebSocket watcher behavior.
type WatcherConfig struct {
	// ReconnectDelay is initial delay before reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay is maximum delay between reconnect attempts.
	MaxReconnectDelay time.Duration
	// PingInterval is interval for sending ping frames.
	PingInterval time.Duration
	// ReadTimeout is timeout for reading messages.
	ReadTimeout time.Duration
	// WriteTimeout is timeout for writing messages.
	WriteTimeout time.Duration
}

// DefaultWatcherConfig returns default watcher configuration.
func DefaultWatcherConfig() WatcherConfig {
	return WatcherConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		PingInterval:      30 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

// WalletActivity is a confirmed transaction mentioning the watched wallet.
// The full transaction is fetched separately over HTTP; the notification only
// carries enough to know the wallet's cached analytics went stale.
type WalletActivity struct {
	Wallet    string
	Signature string
	Slot      int64
	Failed    bool
}

// Watcher holds a logsSubscribe stream for a single wallet and reconnects
// with exponential backoff when the connection drops.
type Watcher struct {
	endpoint string
	wallet   string
	config   WatcherConfig
	log      *logrus.Entry

	conn      *websocket.Conn
	connMu    sync.Mutex
	closed    atomic.Bool
	requestID atomic.Uint64

	events chan WalletActivity
	done   chan struct{}
	wg     sync.WaitGroup
}

// NewWatcher connects and subscribes to log notifications mentioning wallet.
// Events are delivered on Events until Close is called.
func NewWatcher(ctx context.Context, endpoint, wallet string, config *WatcherConfig, log *logrus.Logger) (*Watcher, error) {
	cfg := DefaultWatcherConfig()
	if config != nil {
		cfg = *config
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	w := &Watcher{
		endpoint: endpoint,
		wallet:   wallet,
		config:   cfg,
		log:      log.WithField("component", "watcher").WithField("wallet", wallet),
		events:   make(chan WalletActivity, 100),
		done:     make(chan struct{}),
	}

	if err := w.connect(ctx); err != nil {
		return nil, err
	}
	if err := w.subscribe(); err != nil {
		w.conn.Close()
		return nil, err
	}

	w.wg.Add(2)
	go w.readLoop()
	go w.pingLoop()

	return w, nil
}

// Events returns the activity channel. It is closed by Close.
func (w *Watcher) Events() <-chan WalletActivity {
	return w.events
}

// Close closes the connection and stops the watcher.
func (w *Watcher) Close() error {
	if w.closed.Swap(true) {
		return nil
	}
	close(w.done)

	w.connMu.Lock()
	if w.conn != nil {
		w.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		w.conn.Close()
	}
	w.connMu.Unlock()

	w.wg.Wait()
	close(w.events)
	return nil
}

func (w *Watcher) connect(ctx context.Context) error {
	w.connMu.Lock()
	defer w.connMu.Unlock()

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, w.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}

	w.conn = conn
	return nil
}

// subscribe sends a logsSubscribe request mentioning the wallet. The
// confirmation is consumed by the read loop.
func (w *Watcher) subscribe() error {
	req := wsRequest{
		JSONRPC: "2.0",
		ID:      w.requestID.Add(1),
		Method:  "logsSubscribe",
		Params: []interface{}{
			map[string]interface{}{"mentions": []string{w.wallet}},
			map[string]string{"commitment": "confirmed"},
		},
	}

	w.connMu.Lock()
	defer w.connMu.Unlock()
	if w.conn == nil {
		return fmt.Errorf("not connected")
	}
	w.conn.SetWriteDeadline(time.Now().Add(w.config.WriteTimeout))
	if err := w.conn.WriteJSON(req); err != nil {
		return fmt.Errorf("write subscribe: %w", err)
	}
	return nil
}

// readLoop reads messages and dispatches activity, reconnecting on error.
func (w *Watcher) readLoop() {
	defer w.wg.Done()

	reconnectDelay := w.config.ReconnectDelay

	for !w.closed.Load() {
		w.connMu.Lock()
		conn := w.conn
		w.connMu.Unlock()

		if conn == nil {
			select {
			case <-w.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		conn.SetReadDeadline(time.Now().Add(w.config.ReadTimeout))

		_, message, err := conn.ReadMessage()
		if err != nil {
			if w.closed.Load() {
				return
			}

			w.log.WithError(err).Warn("connection lost, reconnecting")
			w.reconnect(reconnectDelay)

			reconnectDelay *= 2
			if reconnectDelay > w.config.MaxReconnectDelay {
				reconnectDelay = w.config.MaxReconnectDelay
			}
			continue
		}

		reconnectDelay = w.config.ReconnectDelay
		w.handleMessage(message)
	}
}

// reconnect waits, redials and resubscribes.
func (w *Watcher) reconnect(delay time.Duration) {
	observability.RecordWSReconnect()
	select {
	case <-w.done:
		return
	case <-time.After(delay):
	}

	w.connMu.Lock()
	if w.conn != nil {
		w.conn.Close()
		w.conn = nil
	}
	w.connMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := w.connect(ctx); err != nil {
		w.log.WithError(err).Warn("reconnect failed")
		return
	}
	if err := w.subscribe(); err != nil {
		w.log.WithError(err).Warn("resubscribe failed")
	}
}

func (w *Watcher) handleMessage(message []byte) {
	var notif wsNotification
	if err := json.Unmarshal(message, &notif); err != nil || notif.Method != "logsNotification" || notif.Params == nil {
		return
	}

	value := notif.Params.Result.Value
	activity := WalletActivity{
		Wallet:    w.wallet,
		Signature: value.Signature,
		Failed:    value.Err != nil,
	}
	if notif.Params.Result.Context != nil {
		activity.Slot = notif.Params.Result.Context.Slot
	}

	select {
	case w.events <- activity:
	case <-w.done:
	}
}

// pingLoop sends periodic ping frames to keep connection alive.
func (w *Watcher) pingLoop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			w.connMu.Lock()
			if w.conn != nil {
				w.conn.SetWriteDeadline(time.Now().Add(w.config.WriteTimeout))
				w.conn.WriteMessage(websocket.PingMessage, nil)
			}
			w.connMu.Unlock()
		}
	}
}

// WebSocket message types.

type wsRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params,omitempty"`
}

type wsNotification struct {
	JSONRPC string                `json:"jsonrpc"`
	Method  string                `json:"method"`
	Params  *wsNotificationParams `json:"params"`
}

type wsNotificationParams struct {
	Subscription int64                `json:"subscription"`
	Result       wsNotificationResult `json:"result"`
}

type wsNotificationResult struct {
	Context *wsContext  `json:"context"`
	Value   wsLogsValue `json:"value"`
}

type wsContext struct {
	Slot int64 `json:"slot"`
}

type wsLogsValue struct {
	Signature string      `json:"signature"`
	Logs      []string    `json:"logs"`
	Err       interface{} `json:"err"`
}
