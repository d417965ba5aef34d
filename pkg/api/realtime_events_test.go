package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/nsyszr/rcm/pkg/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealtimeEvents(t *testing.T) {
	s := newTestServer(t, memory.NewStore(), false)
	srv := httptest.NewServer(s.e)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, br, _, err := ws.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/api/realtime-events")
	require.NoError(t, err)
	require.Nil(t, br)
	defer conn.Close()

	res, err := http.Post(srv.URL+"/api/events", "application/json", strings.NewReader(festival))
	require.NoError(t, err)
	var created struct {
		ID string `json:"_id"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&created))
	res.Body.Close()
	require.Equal(t, http.StatusCreated, res.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	data, err := wsutil.ReadServerText(conn)
	require.NoError(t, err)

	var frame struct {
		Topic string                 `json:"topic"`
		ID    string                 `json:"id"`
		Data  map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &frame))
	assert.Equal(t, "event.created", frame.Topic)
	assert.Equal(t, created.ID, frame.ID)
	assert.Equal(t, "Central", frame.Data["station"])

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/events/"+created.ID, http.NoBody)
	require.NoError(t, err)
	res, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()

	data, err = wsutil.ReadServerText(conn)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &frame))
	assert.Equal(t, "event.deleted", frame.Topic)
	assert.Equal(t, created.ID, frame.ID)
}

func TestRealtimeEventsRequiresUpgrade(t *testing.T) {
	s := newTestServer(t, memory.NewStore(), false)
	srv := httptest.NewServer(s.e)
	defer srv.Close()

	res, err := http.Get(srv.URL + "/api/realtime-events")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}
