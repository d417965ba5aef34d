package mongodb

import (
	"context"
	"time"

	"github.com/nsyszr/rcm/pkg/storage"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

const (
	// DefaultDatabase is used when the connection string names no database.
	DefaultDatabase = "railway_db"

	eventsCollection = "events"
	plansCollection  = "plannings"

	serverSelectionTimeout = 5 * time.Second
	socketTimeout          = 45 * time.Second
)

// store contains all MongoDB based sub-stores for managing the models
type store struct {
	client *mongo.Client
	events *eventStore
	plans  *planStore
	mon    *monitor
}

// Connect creates a MongoDB based Storage interface. An unreachable server
// does not fail Connect: the store reports itself as connecting and
// operations fail until the server becomes available.
func Connect(ctx context.Context, uri string) (storage.Interface, error) {
	dbName, err := databaseName(uri)
	if err != nil {
		return nil, err
	}

	mon := newMonitor()
	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(serverSelectionTimeout).
		SetSocketTimeout(socketTimeout).
		SetServerMonitor(mon.serverMonitor())

	log.WithField("database", dbName).Info("Connecting to MongoDB")

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create mongo client")
	}

	db := client.Database(dbName)
	s := &store{
		client: client,
		events: newEventStore(db.Collection(eventsCollection)),
		plans:  newPlanStore(db.Collection(plansCollection)),
		mon:    mon,
	}

	go s.verify()

	return s, nil
}

// verify pings the server once and prepares the indexes. Failures are only
// logged; the server keeps running with limited functionality.
func (s *store) verify() {
	ctx, cancel := context.WithTimeout(context.Background(), serverSelectionTimeout+time.Second)
	defer cancel()

	if err := s.client.Ping(ctx, nil); err != nil {
		log.WithError(err).Error("MongoDB connection failed, serving with limited functionality")
		s.mon.failed()
		return
	}
	s.mon.succeeded()

	for _, coll := range []*mongo.Collection{s.events.coll, s.plans.coll} {
		if err := ensureIndexes(ctx, coll); err != nil {
			log.WithError(err).WithField("collection", coll.Name()).Warn("Create index failed")
		}
	}
}

func ensureIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("createdAt_desc"),
	})
	return err
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
	return s.mon.state()
}

func (s *store) Close(ctx context.Context) error {
	s.mon.closing()
	err := s.client.Disconnect(ctx)
	s.mon.closed()
	if err != nil {
		return errors.Wrap(err, "failed to disconnect from mongo")
	}
	log.Info("MongoDB disconnected")
	return nil
}

// databaseName returns the database named in the path of uri.
func databaseName(uri string) (string, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return "", errors.Wrap(err, "invalid mongo connection string")
	}
	if cs.Database == "" {
		return DefaultDatabase, nil
	}
	return cs.Database, nil
}
