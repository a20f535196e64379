package websocket

import (
	"sync"
	"time"
)

// HubMetrics - счётчики хаба монитора
type HubMetrics struct {
	totalConnections  int64
	activeConnections int64
	messagesSent      int64
	messagesDropped   int64
	startTime         time.Time

	// Счетчики рассылок по типам сообщений
	messageTypeCounts map[string]int64

	mu sync.RWMutex
}

// NewHubMetrics создает новый экземпляр метрик Hub
func NewHubMetrics() *HubMetrics {
	return &HubMetrics{
		startTime:         time.Now(),
		messageTypeCounts: make(map[string]int64),
	}
}

// IncrementTotalConnections увеличивает счетчик общего количества подключений
func (m *HubMetrics) IncrementTotalConnections() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalConnections++
	m.activeConnections++
}

// DecrementActiveConnections уменьшает счетчик активных подключений
func (m *HubMetrics) DecrementActiveConnections() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.activeConnections > 0 {
		m.activeConnections--
	}
}

// AddBroadcast учитывает одну рассылку: сколько клиентов получили и сколько пропустили
func (m *HubMetrics) AddBroadcast(msgType string, sent, dropped int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messagesSent += sent
	m.messagesDropped += dropped
	m.messageTypeCounts[msgType]++
}

// Snapshot возвращает копию метрик
func (m *HubMetrics) Snapshot() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	types := make(map[string]int64, len(m.messageTypeCounts))
	for k, v := range m.messageTypeCounts {
		types[k] = v
	}
	return map[string]interface{}{
		"total_connections":  m.totalConnections,
		"active_connections": m.activeConnections,
		"messages_sent":      m.messagesSent,
		"messages_dropped":   m.messagesDropped,
		"message_types":      types,
		"uptime_seconds":     int64(time.Since(m.startTime).Seconds()),
	}
}
