package postgres

import (
	"context"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
	"github.com/nsyszr/rcm/pkg/storage"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const pingInterval = 10 * time.Second

// store contains all PostgreSQL based sub-stores for managing the models
type store struct {
	db     *sqlx.DB
	events *eventStore
	plans  *planStore
	state  *storage.StateTracker

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// OpenDB opens the PostgreSQL database at url. No connection is made until
// first use.
func OpenDB(url string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", url)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open postgres connection")
	}
	return db, nil
}

// NewStore creates a new PostgreSQL based Storage interface. The connection
// is verified in the background.
func NewStore(db *sqlx.DB) storage.Interface {
	s := &store{
		db:     db,
		events: newEventStore(db),
		plans:  newPlanStore(db),
		state:  storage.NewStateTracker(storage.StateConnecting),
		stopCh: make(chan struct{}),
	}

	s.wg.Add(1)
	go s.watch()

	return s
}

// Events returns a sub-store for managing the Event model
func (s *store) Events() storage.EventStore {
	return s.events
}

// Plans returns a sub-store for managing the Plan model
func (s *store) Plans() storage.PlanStore {
	return s.plans
}

func (s *store) State() storage.State {
	return s.state.Load()
}

func (s *store) Close(ctx context.Context) error {
	s.state.Store(storage.StateDisconnecting)
	close(s.stopCh)
	s.wg.Wait()

	err := s.db.Close()
	s.state.Store(storage.StateDisconnected)
	if err != nil {
		return errors.Wrap(err, "failed to close postgres connection")
	}
	return nil
}

// watch pings the database periodically and records the outcome.
func (s *store) watch() {
	defer s.wg.Done()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		s.ping()

		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
		}
	}
}

func (s *store) ping() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	to := storage.StateConnected
	err := s.db.PingContext(ctx)
	if err != nil {
		to = storage.StateDisconnected
	}

	select {
	case <-s.stopCh:
		return
	default:
	}

	if from := s.state.Store(to); from != to {
		entry := log.WithFields(log.Fields{"from": from.String(), "to": to.String()})
		if err != nil {
			entry.WithError(err).Warn("PostgreSQL disconnected")
		} else {
			entry.Info("PostgreSQL connected")
		}
	}
}
