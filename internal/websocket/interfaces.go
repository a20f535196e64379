package websocket

// MetricsProvider определяет метод для получения метрик хаба.
type MetricsProvider interface {
	GetMetrics() map[string]interface{}
	ClientCount() int
}

// Broadcaster рассылает сообщение всем подключённым клиентам
type Broadcaster interface {
	BroadcastJSON(v interface{}) error
}
