package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/yourusername/spatial-quiz-api/internal/events"
	"github.com/yourusername/spatial-quiz-api/internal/pkg/logger"
)

// Hub рассылает события сессий подключённым мониторам администратора.
// Все изменения набора клиентов происходят в горутине Run.
type Hub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	counts     chan chan int
	// done закрывается при выходе из Run
	done chan struct{}

	upgrader  websocket.Upgrader
	clientCfg ClientConfig
	metrics   *HubMetrics
	log       *logger.Logger
}

// NewHub создает хаб. allowedOrigins пуст - принимаются любые Origin.
func NewHub(clientCfg ClientConfig, allowedOrigins []string, log *logger.Logger) *Hub {
	h := &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		counts:     make(chan chan int),
		done:       make(chan struct{}),
		clientCfg:  clientCfg,
		metrics:    NewHubMetrics(),
		log:        log.Component("MonitorHub"),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     originChecker(allowedOrigins, h.log),
	}
	return h
}

func originChecker(allowed []string, log *logger.Logger) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		// Не браузерный клиент
		if origin == "" || len(set) == 0 {
			return true
		}
		if _, ok := set[origin]; ok {
			return true
		}
		log.Warn("Rejected websocket origin", "origin", origin)
		return false
	}
}

// Run обслуживает регистрацию и рассылку до отмены ctx
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				c.closeSend()
				delete(h.clients, c)
			}
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.metrics.IncrementTotalConnections()
			h.log.Info("Monitor connected", "conn_id", c.ConnectionID, "clients", len(h.clients))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				c.closeSend()
				h.metrics.DecrementActiveConnections()
				h.log.Info("Monitor disconnected", "conn_id", c.ConnectionID, "clients", len(h.clients))
			}
		case msg := <-h.broadcast:
			var sent, dropped int64
			for c := range h.clients {
				if c.trySend(msg) {
					sent++
				} else {
					dropped++
				}
			}
			h.metrics.AddBroadcast(messageType(msg), sent, dropped)
		case reply := <-h.counts:
			reply <- len(h.clients)
		}
	}
}

func messageType(msg []byte) string {
	var m struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(msg, &m); err != nil || m.Type == "" {
		return "unknown"
	}
	return m.Type
}

// BroadcastJSON ставит сообщение в очередь рассылки.
// При переполнении очереди сообщение отбрасывается с ошибкой.
func (h *Hub) BroadcastJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal broadcast message: %w", err)
	}
	select {
	case h.broadcast <- data:
		return nil
	default:
		return fmt.Errorf("broadcast queue is full")
	}
}

// HandleSessionEvent пересылает событие сессии мониторам
func (h *Hub) HandleSessionEvent(event events.SessionEvent) {
	if err := h.BroadcastJSON(Message{Type: SESSION_EVENT, Data: event}); err != nil {
		h.log.Warn("Failed to broadcast session event", "event_id", event.ID, "error", err)
	}
}

// ServeWS апгрейдит HTTP-соединение и регистрирует клиента
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("websocket upgrade failed: %w", err)
	}
	c := newClient(h, conn, h.clientCfg, h.log)

	hello, _ := json.Marshal(Message{Type: MONITOR_HELLO, Data: map[string]string{"conn_id": c.ConnectionID}})
	c.send <- hello

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return fmt.Errorf("monitor hub is stopped")
	case <-r.Context().Done():
		conn.Close()
		return r.Context().Err()
	}

	go c.writePump()
	go c.readPump()
	return nil
}

// ClientCount возвращает количество подключенных клиентов.
// После остановки Run клиентов нет.
func (h *Hub) ClientCount() int {
	reply := make(chan int, 1)
	select {
	case h.counts <- reply:
		return <-reply
	case <-h.done:
		return 0
	}
}

// GetMetrics возвращает метрики хаба
func (h *Hub) GetMetrics() map[string]interface{} {
	m := h.metrics.Snapshot()
	m["clients"] = h.ClientCount()
	return m
}
