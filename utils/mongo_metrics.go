package utils

import (
	"sync/atomic"
)

type MongoMetrics struct {
	ActiveConnections  int64
	CreatedConnections int64
	ClosedConnections  int64
}

var mongoMetrics MongoMetrics

func IncrementActiveConnections() {
	atomic.AddInt64(&mongoMetrics.ActiveConnections, 1)
}

func DecrementActiveConnections() {
	atomic.AddInt64(&mongoMetrics.ActiveConnections, -1)
}

func IncrementCreatedConnections() {
	atomic.AddInt64(&mongoMetrics.CreatedConnections, 1)
}

func IncrementClosedConnections() {
	atomic.AddInt64(&mongoMetrics.ClosedConnections, 1)
}

// GetMongoMetrics returns a snapshot of the connection pool counters
func GetMongoMetrics() MongoMetrics {
	return MongoMetrics{
		ActiveConnections:  atomic.LoadInt64(&mongoMetrics.ActiveConnections),
		CreatedConnections: atomic.LoadInt64(&mongoMetrics.CreatedConnections),
		ClosedConnections:  atomic.LoadInt64(&mongoMetrics.ClosedConnections),
	}
}
