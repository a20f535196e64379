package websocket

// Типы сообщений монитора
const (
	// SESSION_EVENT пересылает событие сессии тестирования
	SESSION_EVENT = "SESSION_EVENT"

	// MONITOR_HELLO отправляется сразу после подключения
	MONITOR_HELLO = "MONITOR_HELLO"
)

// Message - конверт всех сообщений монитора
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}
