// Package live pushes menu changes to connected browsers over WebSocket.
// Every toggle broadcast from the admin area reaches all clients, so open
// menu pages update without polling.
package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nmaupu/cocktails/metric"
)

const (
	writeTimeout = 10 * time.Second
	readTimeout  = 60 * time.Second
	pingInterval = 30 * time.Second
)

// Metrics holds Prometheus metrics for the hub
type Metrics struct {
	clientsConnected   prometheus.Gauge
	connectionTotal    prometheus.Counter
	disconnectionTotal *prometheus.CounterVec
	messagesSent       prometheus.Counter
	errorsTotal        *prometheus.CounterVec
}

// newMetrics creates and registers hub metrics. A nil registry disables
// metrics entirely.
func newMetrics(registry *metric.MetricsRegistry) *Metrics {
	if registry == nil {
		return nil
	}

	metrics := &Metrics{
		clientsConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cocktail_menu",
			Subsystem: "websocket",
			Name:      "clients_connected",
			Help:      "Number of connected WebSocket clients",
		}),
		connectionTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cocktail_menu",
			Subsystem: "websocket",
			Name:      "connections_total",
			Help:      "Total number of WebSocket connections accepted",
		}),
		disconnectionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cocktail_menu",
			Subsystem: "websocket",
			Name:      "disconnections_total",
			Help:      "Total number of WebSocket disconnections by reason",
		}, []string{"reason"}),
		messagesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cocktail_menu",
			Subsystem: "websocket",
			Name:      "messages_sent_total",
			Help:      "Total number of events sent to clients",
		}),
		errorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cocktail_menu",
			Subsystem: "websocket",
			Name:      "errors_total",
			Help:      "Total number of WebSocket errors by type",
		}, []string{"type"}),
	}

	registry.PrometheusRegistry().MustRegister(
		metrics.clientsConnected,
		metrics.connectionTotal,
		metrics.disconnectionTotal,
		metrics.messagesSent,
		metrics.errorsTotal,
	)

	return metrics
}

// clientInfo holds per-connection bookkeeping
type clientInfo struct {
	conn        *websocket.Conn
	connectedAt time.Time
	lastPong    atomic.Value // stores time.Time
	closed      atomic.Bool
	closeOnce   sync.Once
	writeMutex  sync.Mutex // gorilla/websocket panics on concurrent writes
}

// Hub upgrades /ws requests and fans menu events out to every client.
type Hub struct {
	logger   *slog.Logger
	metrics  *Metrics
	upgrader websocket.Upgrader

	clientsMu sync.RWMutex
	clients   map[*websocket.Conn]*clientInfo

	shutdown     chan struct{}
	shutdownOnce sync.Once
	wg           sync.WaitGroup
}

// NewHub creates a hub. Both arguments may be nil, disabling metrics and
// falling back to the default logger respectively.
func NewHub(registry *metric.MetricsRegistry, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		logger:  logger.With("component", "live"),
		metrics: newMetrics(registry),
		upgrader: websocket.Upgrader{
			// The menu page and the socket share one origin; proxies and
			// local development get a pass.
			CheckOrigin:     func(_ *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		clients:  make(map[*websocket.Conn]*clientInfo),
		shutdown: make(chan struct{}),
	}
}

// ServeHTTP upgrades the request and keeps the connection until the client
// leaves or the hub shuts down.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	select {
	case <-h.shutdown:
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	default:
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		h.logger.Debug("websocket upgrade failed", "error", err)
		if h.metrics != nil {
			h.metrics.errorsTotal.WithLabelValues("connection_upgrade").Inc()
		}
		return
	}

	info := &clientInfo{conn: conn, connectedAt: time.Now()}
	info.lastPong.Store(time.Now())

	h.clientsMu.Lock()
	h.clients[conn] = info
	clientCount := len(h.clients)
	h.clientsMu.Unlock()

	if h.metrics != nil {
		h.metrics.connectionTotal.Inc()
		h.metrics.clientsConnected.Set(float64(clientCount))
	}
	h.logger.Debug("websocket client connected", "remote", r.RemoteAddr, "clients", clientCount)

	h.wg.Add(1)
	go h.readLoop(conn, info)
}

// readLoop drains client frames. Browsers only listen, so payloads are
// discarded; the loop exists to run the pong handler and notice closed
// connections.
func (h *Hub) readLoop(conn *websocket.Conn, info *clientInfo) {
	defer h.wg.Done()
	defer h.removeClient(conn, info, "read_closed")

	conn.SetPongHandler(func(string) error {
		info.lastPong.Store(time.Now())
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	for {
		select {
		case <-h.shutdown:
			return
		default:
		}

		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Broadcast sends the event to every connected client. Clients that fail
// the write are dropped.
func (h *Hub) Broadcast(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("encode event", "error", err)
		if h.metrics != nil {
			h.metrics.errorsTotal.WithLabelValues("json_marshal").Inc()
		}
		return
	}

	for conn, info := range h.snapshotClients() {
		if info.closed.Load() {
			continue
		}
		if err := h.sendToClient(conn, info, data); err != nil {
			h.logger.Debug("websocket send failed, dropping client", "error", err)
			h.removeClient(conn, info, "write_error")
			continue
		}
		if h.metrics != nil {
			h.metrics.messagesSent.Inc()
		}
	}
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// Run pings clients on an interval until ctx is done, then closes every
// connection and waits for their read loops to finish.
func (h *Hub) Run(ctx context.Context) error {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.close()
			return ctx.Err()
		case <-ticker.C:
			h.pingClients()
		}
	}
}

func (h *Hub) pingClients() {
	for conn, info := range h.snapshotClients() {
		if info.closed.Load() {
			continue
		}
		info.writeMutex.Lock()
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		err := conn.WriteMessage(websocket.PingMessage, nil)
		info.writeMutex.Unlock()
		if err != nil {
			h.removeClient(conn, info, "ping_failed")
		}
	}
}

func (h *Hub) sendToClient(conn *websocket.Conn, info *clientInfo, data []byte) error {
	info.writeMutex.Lock()
	defer info.writeMutex.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteMessage(websocket.TextMessage, data)
}

// snapshotClients copies the client map so senders never hold the lock
// during network writes.
func (h *Hub) snapshotClients() map[*websocket.Conn]*clientInfo {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	snapshot := make(map[*websocket.Conn]*clientInfo, len(h.clients))
	for conn, info := range h.clients {
		snapshot[conn] = info
	}
	return snapshot
}

// removeClient removes a client with once-only cleanup.
func (h *Hub) removeClient(conn *websocket.Conn, info *clientInfo, reason string) {
	info.closeOnce.Do(func() {
		info.closed.Store(true)

		h.clientsMu.Lock()
		delete(h.clients, conn)
		clientCount := len(h.clients)
		h.clientsMu.Unlock()

		if h.metrics != nil {
			h.metrics.disconnectionTotal.WithLabelValues(reason).Inc()
			h.metrics.clientsConnected.Set(float64(clientCount))
		}
		h.logger.Debug("websocket client disconnected", "reason", reason, "clients", clientCount)

		_ = conn.Close()
	})
}

// close shuts the hub down: new connections are refused, every client gets
// a close frame and the read loops are awaited.
func (h *Hub) close() {
	h.shutdownOnce.Do(func() {
		close(h.shutdown)

		for conn, info := range h.snapshotClients() {
			info.writeMutex.Lock()
			_ = conn.SetWriteDeadline(time.Now().Add(time.Second))
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			info.writeMutex.Unlock()
			h.removeClient(conn, info, "shutdown")
		}
		h.wg.Wait()
	})
}
