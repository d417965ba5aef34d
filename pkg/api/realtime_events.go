package api

import (
	"encoding/json"
	"io"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/labstack/echo/v4"
	"github.com/nsyszr/rcm/pkg/api/resource"
	"github.com/nsyszr/rcm/pkg/notify"
	log "github.com/sirupsen/logrus"
)

// realtimeBacklog is the number of frames buffered per connection before
// changes are dropped for a slow client.
const realtimeBacklog = 64

func (h *Handler) realtimeEventsHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		frames := make(chan *resource.RealtimeEventResource, realtimeBacklog)

		// Subscribe before the handshake completes so that no change made
		// after the client sees the upgrade is missed.
		unsubscribe, err := h.notifier.Subscribe(func(ch *notify.Change) {
			select {
			case frames <- resource.NewRealtimeEvent(ch):
			default:
				log.WithField("id", ch.ID).Warn("api: realtime client too slow, dropping change")
			}
		})
		if err != nil {
			return err
		}
		defer unsubscribe()

		conn, _, _, err := ws.UpgradeHTTP(c.Request(), c.Response())
		if err != nil {
			log.Error("api: failed to upgrade to websocket: ", err)
			return nil
		}
		defer conn.Close()

		// The feed is one way. Client frames are discarded until the client
		// goes away.
		gone := make(chan struct{})
		go func() {
			defer close(gone)
			for {
				hdr, err := ws.ReadHeader(conn)
				if err != nil {
					return
				}
				if _, err := io.CopyN(io.Discard, conn, hdr.Length); err != nil {
					return
				}
				if hdr.OpCode == ws.OpClose {
					return
				}
			}
		}()

		for {
			select {
			case <-h.quit:
				return nil
			case <-gone:
				return nil
			case frame := <-frames:
				out, err := json.Marshal(frame)
				if err != nil {
					log.Error("api: failed to encode realtime event: ", err)
					continue
				}
				if err := wsutil.WriteServerMessage(conn, ws.OpText, out); err != nil {
					log.Error("api: failed to send realtime event: ", err)
					return nil
				}
			}
		}
	}
}
