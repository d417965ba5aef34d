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
)

func newPlanStore(coll *mongo.Collection) *planStore {
	return &planStore{
		coll: coll,
	}
}

type planStore struct {
	coll *mongo.Collection
}

type bsonDataPlan struct {
	ID              primitive.ObjectID `bson:"_id"`
	DateKey         string             `bson:"dateKey"`
	StationName     string             `bson:"stationName"`
	ExpectedCrowd   int64              `bson:"expectedCrowd"`
	GRPStaff        int64              `bson:"grpStaff"`
	RPFStaff        int64              `bson:"rpfStaff"`
	CommercialStaff int64              `bson:"commercialStaff"`
	TrainNumber     string             `bson:"trainNumber,omitempty"`
	TrainType       string             `bson:"trainType,omitempty"`
	TrainRoute      string             `bson:"trainRoute,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt"`
	Version         int32              `bson:"__v"`
}

func (d *bsonDataPlan) Scan(m *model.Plan) error {
	id := primitive.NilObjectID
	if m.ID != "" {
		var err error
		if id, err = primitive.ObjectIDFromHex(m.ID); err != nil {
			return errors.Wrap(err, "invalid plan id")
		}
	}

	d.ID = id
	d.DateKey = m.DateKey
	d.StationName = m.StationName
	d.ExpectedCrowd = int64(m.ExpectedCrowd)
	d.GRPStaff = int64(m.GRPStaff)
	d.RPFStaff = int64(m.RPFStaff)
	d.CommercialStaff = int64(m.CommercialStaff)
	d.TrainNumber = m.TrainNumber
	d.TrainType = m.TrainType
	d.TrainRoute = m.TrainRoute
	d.CreatedAt = m.CreatedAt

	return nil
}

func (d *bsonDataPlan) Model() *model.Plan {
	return &model.Plan{
		ID:              d.ID.Hex(),
		DateKey:         d.DateKey,
		StationName:     d.StationName,
		ExpectedCrowd:   int(d.ExpectedCrowd),
		GRPStaff:        int(d.GRPStaff),
		RPFStaff:        int(d.RPFStaff),
		CommercialStaff: int(d.CommercialStaff),
		TrainNumber:     d.TrainNumber,
		TrainType:       d.TrainType,
		TrainRoute:      d.TrainRoute,
		CreatedAt:       d.CreatedAt.UTC(),
	}
}

func (s *planStore) FetchAll(ctx context.Context) ([]model.Plan, error) {
	return fetchAllPlans(ctx, s.coll)
}

func (s *planStore) FindByID(ctx context.Context, id string) (*model.Plan, error) {
	return findPlanByID(ctx, s.coll, id)
}

func (s *planStore) Create(ctx context.Context, m *model.Plan) error {
	return createPlan(ctx, s.coll, m)
}

func (s *planStore) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, s.coll, id)
}

func fetchAllPlans(ctx context.Context, coll *mongo.Collection) ([]model.Plan, error) {
	cur, err := coll.Find(ctx, bson.D{}, newestFirst())
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch all plans")
	}

	rows := make([]bsonDataPlan, 0)
	if err := cur.All(ctx, &rows); err != nil {
		return nil, errors.Wrap(err, "failed to decode plans")
	}

	models := make([]model.Plan, 0, len(rows))
	for i := range rows {
		models = append(models, *rows[i].Model())
	}

	return models, nil
}

func findPlanByID(ctx context.Context, coll *mongo.Collection, id string) (*model.Plan, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, storage.ErrNotFound
	}

	d := bsonDataPlan{}
	if err := coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&d); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, storage.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to find plan")
	}

	return d.Model(), nil
}

func createPlan(ctx context.Context, coll *mongo.Collection, m *model.Plan) error {
	if err := m.Validate(); err != nil {
		return err
	}

	m.ID = primitive.NewObjectID().Hex()
	m.CreatedAt = now()

	d := bsonDataPlan{}
	if err := d.Scan(m); err != nil {
		return errors.Wrap(err, "failed to convert plan model to BSON data")
	}

	if _, err := coll.InsertOne(ctx, d); err != nil {
		m.ID = ""
		return errors.Wrap(err, "failed to create plan")
	}

	return nil
}
