package mongodb

import (
	"sync"

	"github.com/nsyszr/rcm/pkg/storage"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/event"
)

// monitor derives the store connection state from server heartbeats.
type monitor struct {
	mu   sync.Mutex
	st   storage.State
	shut bool
}

func newMonitor() *monitor {
	return &monitor{st: storage.StateConnecting}
}

func (m *monitor) serverMonitor() *event.ServerMonitor {
	return &event.ServerMonitor{
		ServerHeartbeatSucceeded: func(*event.ServerHeartbeatSucceededEvent) {
			m.succeeded()
		},
		ServerHeartbeatFailed: func(e *event.ServerHeartbeatFailedEvent) {
			log.WithError(e.Failure).Debug("MongoDB heartbeat failed")
			m.failed()
		},
		ServerClosed: func(*event.ServerClosedEvent) {
			m.failed()
		},
	}
}

func (m *monitor) state() storage.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st
}

func (m *monitor) succeeded() {
	m.transition(storage.StateConnected)
}

func (m *monitor) failed() {
	m.transition(storage.StateDisconnected)
}

// closing and closed win over heartbeats that race with Disconnect.
func (m *monitor) closing() {
	m.set(storage.StateDisconnecting)
}

func (m *monitor) closed() {
	m.set(storage.StateDisconnected)
}

func (m *monitor) transition(to storage.State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shut || m.st == to {
		return
	}
	from := m.st
	m.st = to

	entry := log.WithFields(log.Fields{"from": from.String(), "to": to.String()})
	if to == storage.StateConnected {
		entry.Info("MongoDB connected")
	} else {
		entry.Warn("MongoDB disconnected")
	}
}

func (m *monitor) set(to storage.State) {
	m.mu.Lock()
	m.shut = true
	m.st = to
	m.mu.Unlock()
}
