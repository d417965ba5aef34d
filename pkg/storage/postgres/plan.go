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

func newPlanStore(db *sqlx.DB) *planStore {
	return &planStore{
		db: db,
	}
}

type planStore struct {
	db *sqlx.DB
}

type sqlDataPlan struct {
	ID              int64     `db:"id"`
	DateKey         string    `db:"date_key"`
	StationName     string    `db:"station_name"`
	ExpectedCrowd   int64     `db:"expected_crowd"`
	GRPStaff        int64     `db:"grp_staff"`
	RPFStaff        int64     `db:"rpf_staff"`
	CommercialStaff int64     `db:"commercial_staff"`
	TrainNumber     string    `db:"train_number"`
	TrainType       string    `db:"train_type"`
	TrainRoute      string    `db:"train_route"`
	CreatedAt       time.Time `db:"created_at"`
}

var sqlParamsPlan = []string{
	"id",
	"date_key",
	"station_name",
	"expected_crowd",
	"grp_staff",
	"rpf_staff",
	"commercial_staff",
	"train_number",
	"train_type",
	"train_route",
	"created_at",
}

func (d *sqlDataPlan) Scan(m *model.Plan) {
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
}

func (d *sqlDataPlan) Model() *model.Plan {
	return &model.Plan{
		ID:              strconv.FormatInt(d.ID, 10),
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
	return fetchAllPlans(ctx, s.db)
}

func (s *planStore) FindByID(ctx context.Context, id string) (*model.Plan, error) {
	return findPlanByID(ctx, s.db, id)
}

func (s *planStore) Create(ctx context.Context, m *model.Plan) error {
	return createPlan(ctx, s.db, m)
}

func (s *planStore) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, s.db, "plans", id)
}

func fetchAllPlans(ctx context.Context, db *sqlx.DB) ([]model.Plan, error) {
	rows := make([]sqlDataPlan, 0)

	query := fmt.Sprintf("SELECT %s FROM plans ORDER BY created_at DESC, id DESC", strings.Join(sqlParamsPlan, ", "))
	if err := db.SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.Wrap(err, "failed to fetch all plans")
	}

	models := make([]model.Plan, 0, len(rows))
	for i := range rows {
		models = append(models, *rows[i].Model())
	}

	return models, nil
}

func findPlanByID(ctx context.Context, db *sqlx.DB, id string) (*model.Plan, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, storage.ErrNotFound
	}

	d := sqlDataPlan{}
	query := fmt.Sprintf("SELECT %s FROM plans WHERE id=$1", strings.Join(sqlParamsPlan, ", "))
	if err := db.GetContext(ctx, &d, query, n); err != nil {
		if err == sql.ErrNoRows {
			return nil, storage.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to find plan")
	}

	return d.Model(), nil
}

func createPlan(ctx context.Context, db *sqlx.DB, m *model.Plan) error {
	if err := m.Validate(); err != nil {
		return err
	}

	m.CreatedAt = now()

	d := sqlDataPlan{}
	d.Scan(m)

	id, err := insertReturningID(ctx, db, "plans", sqlParamsPlan, d)
	if err != nil {
		return errors.Wrap(err, "failed to create plan")
	}
	m.ID = strconv.FormatInt(id, 10)

	return nil
}
