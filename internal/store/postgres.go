package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/valuation-cli/internal/model"
)

// PostgresStore implements Store using pgxpool. Used by teams that share a
// central appraisal database instead of per-machine SQLite files.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS appraisals (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	vehicle    JSONB NOT NULL,
	analysis   JSONB,
	status     TEXT NOT NULL DEFAULT 'draft',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS comparables (
	id           TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	appraisal_id TEXT NOT NULL REFERENCES appraisals(id) ON DELETE CASCADE,
	data         JSONB NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_appraisals_status ON appraisals(status);
CREATE INDEX IF NOT EXISTS idx_appraisals_vin ON appraisals((vehicle->>'vin'));
CREATE INDEX IF NOT EXISTS idx_comparables_appraisal_id ON comparables(appraisal_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) CreateAppraisal(ctx context.Context, vehicle model.Vehicle) (*model.Appraisal, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	vehicleJSON, err := json.Marshal(vehicle)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal vehicle")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO appraisals (id, vehicle, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		id, vehicleJSON, string(model.AppraisalStatusDraft), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert appraisal")
	}

	return &model.Appraisal{
		ID:        id,
		Vehicle:   vehicle,
		Status:    model.AppraisalStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *PostgresStore) GetAppraisal(ctx context.Context, id string) (*model.Appraisal, error) {
	var a model.Appraisal
	var vehicleJSON []byte
	var analysisNull *[]byte

	err := s.pool.QueryRow(ctx,
		`SELECT id, vehicle, analysis, status, created_at, updated_at FROM appraisals WHERE id = $1`,
		id,
	).Scan(&a.ID, &vehicleJSON, &analysisNull, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get appraisal %s", id)
	}

	if err := json.Unmarshal(vehicleJSON, &a.Vehicle); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal vehicle")
	}
	if analysisNull != nil {
		a.Analysis = &model.MarketAnalysis{}
		if err := json.Unmarshal(*analysisNull, a.Analysis); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal analysis")
		}
	}
	return &a, nil
}

func (s *PostgresStore) ListAppraisals(ctx context.Context, filter AppraisalFilter) ([]model.Appraisal, error) {
	query := `SELECT id, vehicle, analysis, status, created_at, updated_at FROM appraisals WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, argIdx)
		args = append(args, string(filter.Status))
		argIdx++
	}
	if filter.VIN != "" {
		query += fmt.Sprintf(` AND vehicle->>'vin' = $%d`, argIdx)
		args = append(args, filter.VIN)
		argIdx++
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list appraisals")
	}
	defer rows.Close()

	var appraisals []model.Appraisal
	for rows.Next() {
		var a model.Appraisal
		var vehicleJSON []byte
		var analysisNull *[]byte

		if err := rows.Scan(&a.ID, &vehicleJSON, &analysisNull, &a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan appraisal")
		}
		if err := json.Unmarshal(vehicleJSON, &a.Vehicle); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal vehicle")
		}
		if analysisNull != nil {
			a.Analysis = &model.MarketAnalysis{}
			if err := json.Unmarshal(*analysisNull, a.Analysis); err != nil {
				return nil, eris.Wrap(err, "postgres: unmarshal analysis")
			}
		}
		appraisals = append(appraisals, a)
	}
	return appraisals, eris.Wrap(rows.Err(), "postgres: list appraisals iterate")
}

func (s *PostgresStore) UpdateAppraisalStatus(ctx context.Context, id string, status model.AppraisalStatus) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE appraisals SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update appraisal status %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("appraisal not found: %s", id)
	}
	return nil
}

func (s *PostgresStore) UpdateAppraisalVehicle(ctx context.Context, id string, vehicle model.Vehicle) error {
	vehicleJSON, err := json.Marshal(vehicle)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal vehicle")
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE appraisals SET vehicle = $1, updated_at = $2 WHERE id = $3`,
		vehicleJSON, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update appraisal vehicle %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("appraisal not found: %s", id)
	}
	return nil
}

func (s *PostgresStore) UpdateAppraisalAnalysis(ctx context.Context, id string, analysis *model.MarketAnalysis) error {
	analysisJSON, err := json.Marshal(analysis)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal analysis")
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE appraisals SET analysis = $1, status = $2, updated_at = $3 WHERE id = $4`,
		analysisJSON, string(model.AppraisalStatusComplete), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update appraisal analysis %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("appraisal not found: %s", id)
	}
	return nil
}

func (s *PostgresStore) DeleteAppraisal(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM appraisals WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete appraisal %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("appraisal not found: %s", id)
	}
	return nil
}

func (s *PostgresStore) AddComparable(ctx context.Context, comp model.Comparable) (*model.Comparable, error) {
	if comp.ID == "" {
		comp.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	comp.CreatedAt = now
	comp.UpdatedAt = now

	dataJSON, err := json.Marshal(comp)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal comparable")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO comparables (id, appraisal_id, data, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		comp.ID, comp.AppraisalID, dataJSON, now, now,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: insert comparable for appraisal %s", comp.AppraisalID)
	}

	return &comp, nil
}

func (s *PostgresStore) GetComparable(ctx context.Context, id string) (*model.Comparable, error) {
	var dataJSON []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM comparables WHERE id = $1`,
		id,
	).Scan(&dataJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, eris.Errorf("comparable not found: %s", id)
		}
		return nil, eris.Wrap(err, "postgres: get comparable")
	}

	var comp model.Comparable
	if err := json.Unmarshal(dataJSON, &comp); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal comparable")
	}
	return &comp, nil
}

func (s *PostgresStore) ListComparables(ctx context.Context, appraisalID string) ([]model.Comparable, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT data FROM comparables WHERE appraisal_id = $1 ORDER BY created_at ASC`,
		appraisalID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list comparables")
	}
	defer rows.Close()

	var comps []model.Comparable
	for rows.Next() {
		var dataJSON []byte
		if err := rows.Scan(&dataJSON); err != nil {
			return nil, eris.Wrap(err, "postgres: scan comparable")
		}
		var comp model.Comparable
		if err := json.Unmarshal(dataJSON, &comp); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal comparable")
		}
		comps = append(comps, comp)
	}
	return comps, eris.Wrap(rows.Err(), "postgres: list comparables iterate")
}

func (s *PostgresStore) UpdateComparable(ctx context.Context, comp model.Comparable) error {
	comp.UpdatedAt = time.Now().UTC()

	dataJSON, err := json.Marshal(comp)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal comparable")
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE comparables SET data = $1, updated_at = $2 WHERE id = $3`,
		dataJSON, comp.UpdatedAt, comp.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update comparable %s", comp.ID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("comparable not found: %s", comp.ID)
	}
	return nil
}

func (s *PostgresStore) DeleteComparable(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM comparables WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete comparable %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("comparable not found: %s", id)
	}
	return nil
}
