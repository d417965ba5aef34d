package mongodb

import (
	"context"
	"time"

	"github.com/nsyszr/rcm/pkg/model"
	"github.com/nsyszr/rcm/pkg/storage"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func newEventStore(coll *mongo.Collection) *eventStore {
	return &eventStore{
		coll: coll,
	}
}

type eventStore struct {
	coll *mongo.Collection
}

type bsonDataEvent struct {
	ID        primitive.ObjectID `bson:"_id"`
	DateKey   string             `bson:"dateKey"`
	Type      string             `bson:"type"`
	Station   string             `bson:"station"`
	Zone      string             `bson:"zone,omitempty"`
	Division  string             `bson:"division,omitempty"`
	Crowd     int64              `bson:"crowd"`
	Level     string             `bson:"level"`
	CreatedAt time.Time          `bson:"createdAt"`
	Version   int32              `bson:"__v"`
}

func (d *bsonDataEvent) Scan(m *model.Event) error {
	id := primitive.NilObjectID
	if m.ID != "" {
		var err error
		if id, err = primitive.ObjectIDFromHex(m.ID); err != nil {
			return errors.Wrap(err, "invalid event id")
		}
	}

	d.ID = id
	d.DateKey = m.DateKey
	d.Type = string(m.Type)
	d.Station = m.Station
	d.Zone = m.Zone
	d.Division = m.Division
	d.Crowd = int64(m.Crowd)
	d.Level = string(m.Level)
	d.CreatedAt = m.CreatedAt

	return nil
}

func (d *bsonDataEvent) Model() *model.Event {
	return &model.Event{
		ID:        d.ID.Hex(),
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
	return fetchAllEvents(ctx, s.coll)
}

func (s *eventStore) FindByID(ctx context.Context, id string) (*model.Event, error) {
	return findEventByID(ctx, s.coll, id)
}

func (s *eventStore) Create(ctx context.Context, m *model.Event) error {
	return createEvent(ctx, s.coll, m)
}

func (s *eventStore) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, s.coll, id)
}

func fetchAllEvents(ctx context.Context, coll *mongo.Collection) ([]model.Event, error) {
	cur, err := coll.Find(ctx, bson.D{}, newestFirst())
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch all events")
	}

	rows := make([]bsonDataEvent, 0)
	if err := cur.All(ctx, &rows); err != nil {
		return nil, errors.Wrap(err, "failed to decode events")
	}

	models := make([]model.Event, 0, len(rows))
	for i := range rows {
		models = append(models, *rows[i].Model())
	}

	return models, nil
}

func findEventByID(ctx context.Context, coll *mongo.Collection, id string) (*model.Event, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, storage.ErrNotFound
	}

	d := bsonDataEvent{}
	if err := coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&d); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, storage.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to find event")
	}

	return d.Model(), nil
}

func createEvent(ctx context.Context, coll *mongo.Collection, m *model.Event) error {
	if err := m.Validate(); err != nil {
		return err
	}

	m.ID = primitive.NewObjectID().Hex()
	m.CreatedAt = now()

	d := bsonDataEvent{}
	if err := d.Scan(m); err != nil {
		return errors.Wrap(err, "failed to convert event model to BSON data")
	}

	if _, err := coll.InsertOne(ctx, d); err != nil {
		m.ID = ""
		return errors.Wrap(err, "failed to create event")
	}

	return nil
}

// deleteByID removes the document with the hex id. Malformed ids cannot
// exist in the collection and report ErrNotFound.
func deleteByID(ctx context.Context, coll *mongo.Collection, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return storage.ErrNotFound
	}

	res, err := coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return errors.Wrapf(err, "failed to delete from %s", coll.Name())
	}
	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{
		{Key: "createdAt", Value: -1},
		{Key: "_id", Value: -1},
	})
}

// now is truncated to the millisecond precision of BSON dates, so the
// returned model equals what is read back.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
