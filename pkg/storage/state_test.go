package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateString(t *testing.T) {
	assert.Equal(t, "disconnected", StateDisconnected.String())
	assert.Equal(t, "connected", StateConnected.String())
	assert.Equal(t, "connecting", StateConnecting.String())
	assert.Equal(t, "disconnecting", StateDisconnecting.String())
	assert.Equal(t, "unknown", State(42).String())
}

func TestStateTracker(t *testing.T) {
	tr := NewStateTracker(StateConnecting)
	assert.Equal(t, StateConnecting, tr.Load())

	prev := tr.Store(StateConnected)
	assert.Equal(t, StateConnecting, prev)
	assert.Equal(t, StateConnected, tr.Load())
}
