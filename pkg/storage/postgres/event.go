package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/nsyszr/rcm/pkg/model"
	"github.com/nsyszr/rcm/pkg/storage"
	"github.com/pkg/errors"
)

func newEventStore(db *sqlx.DB) *eventStore {
	return &eventStore{
		db: db,
	}
}

type eventStore struct {
	db *sqlx.DB
}

type sqlDataEvent struct {
	ID        int64     `db:"id"`
	DateKey   string    `db:"date_key"`
	Type      string    `db:"type"`
	Station   string    `db:"station"`
	Zone      string    `db:"zone"`
	Division  string    `db:"division"`
	Crowd     int64     `db:"crowd"`
	Level     string    `db:"level"`
	CreatedAt time.Time `db:"created_at"`
}

var sqlParamsEvent = []string{
	"id",
	"date_key",
	"type",
	"station",
	"zone",
	"division",
	"crowd",
	"level",
	"created_at",
}

func (d *sqlDataEvent) Scan(m *model.Event) {
	d.DateKey = m.DateKey
	d.Type = string(m.Type)
	d.Station = m.Station
	d.Zone = m.Zone
	d.Division = m.Division
	d.Crowd = int64(m.Crowd)
	d.Level = string(m.Level)
	d.CreatedAt = m.CreatedAt
}

func (d *sqlDataEvent) Model() *model.Event {
	return &model.Event{
		ID:        strconv.FormatInt(d.ID, 10),
		DateKey:   d.DateKey,
		Type:      model.EventType(d.Type),
		Station:   d.Station,
		Zone:      d.Zone,
		Division:  d.Division,
		Crowd:     int(d.Crowd),
		Level:     model.Level(d.Level),
		CreatedAt: d.CreatedAt.UTC(),
	}
}

func (s *eventStore) FetchAll(ctx context.Context) ([]model.Event, error) {
	return fetchAllEvents(ctx, s.db)
}

func (s *eventStore) FindByID(ctx context.Context, id string) (*model.Event, error) {
	return findEventByID(ctx, s.db, id)
}

func (s *eventStore) Create(ctx context.Context, m *model.Event) error {
	return createEvent(ctx, s.db, m)
}

func (s *eventStore) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, s.db, "events", id)
}

func fetchAllEvents(ctx context.Context, db *sqlx.DB) ([]model.Event, error) {
	rows := make([]sqlDataEvent, 0)

	query := fmt.Sprintf("SELECT %s FROM events ORDER BY created_at DESC, id DESC", strings.Join(sqlParamsEvent, ", "))
	if err := db.SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.Wrap(err, "failed to fetch all events")
	}

	models := make([]model.Event, 0, len(rows))
	for i := range rows {
		models = append(models, *rows[i].Model())
	}

	return models, nil
}

func findEventByID(ctx context.Context, db *sqlx.DB, id string) (*model.Event, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, storage.ErrNotFound
	}

	d := sqlDataEvent{}
	query := fmt.Sprintf("SELECT %s FROM events WHERE id=$1", strings.Join(sqlParamsEvent, ", "))
	if err := db.GetContext(ctx, &d, query, n); err != nil {
		if err == sql.ErrNoRows {
			return nil, storage.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to find event")
	}

	return d.Model(), nil
}

func createEvent(ctx context.Context, db *sqlx.DB, m *model.Event) error {
	if err := m.Validate(); err != nil {
		return err
	}

	m.CreatedAt = now()

	d := sqlDataEvent{}
	d.Scan(m)

	id, err := insertReturningID(ctx, db, "events", sqlParamsEvent, d)
	if err != nil {
		return errors.Wrap(err, "failed to create event")
	}
	m.ID = strconv.FormatInt(id, 10)

	return nil
}
