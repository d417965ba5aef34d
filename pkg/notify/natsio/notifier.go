package natsio

import (
	"encoding/json"
	"fmt"
	"time"

	nats "github.com/nats-io/nats.go"
	"github.com/nsyszr/rcm/pkg/notify"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// BaseSubject prefixes every change subject.
const BaseSubject = "rcm.v1"

type natsNotifier struct {
	nc *nats.Conn
}

// New connects to the NATS server at url and returns a notify.Interface that
// publishes changes on "rcm.v1.<kind>.<action>".
func New(url string) (notify.Interface, error) {
	nc, err := nats.Connect(url,
		nats.Name("rcm"),
		nats.MaxReconnects(-1),
		nats.DrainTimeout(10*time.Second),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			log.WithError(err).Error("NATS error")
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.WithError(err).Warn("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.WithField("url", nc.ConnectedUrlRedacted()).Info("NATS reconnected")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			log.Debug("NATS connection closed")
		}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to nats")
	}

	log.WithField("url", nc.ConnectedUrlRedacted()).Info("Connected to NATS")

	return &natsNotifier{nc: nc}, nil
}

// Subject returns the NATS subject a change is published on.
func Subject(kind notify.Kind, action notify.Action) string {
	return fmt.Sprintf("%s.%s.%s", BaseSubject, kind, action)
}

func (n *natsNotifier) Publish(c *notify.Change) error {
	data, err := json.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to encode change")
	}

	return n.nc.Publish(Subject(c.Kind, c.Action), data)
}

func (n *natsNotifier) Subscribe(fn func(c *notify.Change)) (func(), error) {
	sub, err := n.nc.Subscribe(BaseSubject+".>", func(msg *nats.Msg) {
		c, err := decode(msg.Data)
		if err != nil {
			log.WithError(err).WithField("subject", msg.Subject).Warn("Dropping malformed change notification")
			return
		}
		fn(c)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to subscribe to changes")
	}

	return func() {
		if err := sub.Unsubscribe(); err != nil {
			log.WithError(err).Debug("NATS unsubscribe failed")
		}
	}, nil
}

func (n *natsNotifier) Close() {
	if err := n.nc.Drain(); err != nil {
		n.nc.Close()
	}
}

func decode(data []byte) (*notify.Change, error) {
	c := &notify.Change{}
	if err := json.Unmarshal(data, c); err != nil {
		return nil, err
	}
	if c.Kind == "" || c.Action == "" {
		return nil, fmt.Errorf("change without kind or action")
	}
	return c, nil
}
