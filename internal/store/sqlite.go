package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/valuation-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS appraisals (
	id         TEXT PRIMARY KEY,
	vehicle    TEXT NOT NULL,
	analysis   TEXT,
	status     TEXT NOT NULL DEFAULT 'draft',
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS comparables (
	id           TEXT PRIMARY KEY,
	appraisal_id TEXT NOT NULL REFERENCES appraisals(id) ON DELETE CASCADE,
	data         TEXT NOT NULL,
	created_at   DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_appraisals_status ON appraisals(status);
CREATE INDEX IF NOT EXISTS idx_appraisals_vin ON appraisals(json_extract(vehicle, '$.vin'));
CREATE INDEX IF NOT EXISTS idx_comparables_appraisal_id ON comparables(appraisal_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateAppraisal(ctx context.Context, vehicle model.Vehicle) (*model.Appraisal, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	vehicleJSON, err := json.Marshal(vehicle)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal vehicle")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO appraisals (id, vehicle, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id, string(vehicleJSON), string(model.AppraisalStatusDraft), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert appraisal")
	}

	return &model.Appraisal{
		ID:        id,
		Vehicle:   vehicle,
		Status:    model.AppraisalStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *SQLiteStore) GetAppraisal(ctx context.Context, id string) (*model.Appraisal, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, vehicle, analysis, status, created_at, updated_at FROM appraisals WHERE id = ?`,
		id,
	)
	return scanAppraisal(row)
}

func (s *SQLiteStore) ListAppraisals(ctx context.Context, filter AppraisalFilter) ([]model.Appraisal, error) {
	query := `SELECT id, vehicle, analysis, status, created_at, updated_at FROM appraisals WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.VIN != "" {
		query += ` AND json_extract(vehicle, '$.vin') = ?`
		args = append(args, filter.VIN)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list appraisals")
	}
	defer rows.Close()

	var appraisals []model.Appraisal
	for rows.Next() {
		a, err := scanAppraisal(rows)
		if err != nil {
			return nil, err
		}
		appraisals = append(appraisals, *a)
	}
	return appraisals, eris.Wrap(rows.Err(), "sqlite: list appraisals iterate")
}

func (s *SQLiteStore) UpdateAppraisalStatus(ctx context.Context, id string, status model.AppraisalStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE appraisals SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update appraisal status %s", id)
	}
	return checkRowsAffected(res, "appraisal", id)
}

func (s *SQLiteStore) UpdateAppraisalVehicle(ctx context.Context, id string, vehicle model.Vehicle) error {
	vehicleJSON, err := json.Marshal(vehicle)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal vehicle")
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE appraisals SET vehicle = ?, updated_at = ? WHERE id = ?`,
		string(vehicleJSON), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update appraisal vehicle %s", id)
	}
	return checkRowsAffected(res, "appraisal", id)
}

func (s *SQLiteStore) UpdateAppraisalAnalysis(ctx context.Context, id string, analysis *model.MarketAnalysis) error {
	analysisJSON, err := json.Marshal(analysis)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal analysis")
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE appraisals SET analysis = ?, status = ?, updated_at = ? WHERE id = ?`,
		string(analysisJSON), string(model.AppraisalStatusComplete), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update appraisal analysis %s", id)
	}
	return checkRowsAffected(res, "appraisal", id)
}

func (s *SQLiteStore) DeleteAppraisal(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM appraisals WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete appraisal %s", id)
	}
	return checkRowsAffected(res, "appraisal", id)
}

func (s *SQLiteStore) AddComparable(ctx context.Context, comp model.Comparable) (*model.Comparable, error) {
	if comp.ID == "" {
		comp.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	comp.CreatedAt = now
	comp.UpdatedAt = now

	dataJSON, err := json.Marshal(comp)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal comparable")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO comparables (id, appraisal_id, data, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		comp.ID, comp.AppraisalID, string(dataJSON), now, now,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: insert comparable for appraisal %s", comp.AppraisalID)
	}

	return &comp, nil
}

func (s *SQLiteStore) GetComparable(ctx context.Context, id string) (*model.Comparable, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT data FROM comparables WHERE id = ?`,
		id,
	)

	var dataJSON string
	err := row.Scan(&dataJSON)
	if err == sql.ErrNoRows {
		return nil, eris.Errorf("comparable not found: %s", id)
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get comparable")
	}

	var comp model.Comparable
	if err := json.Unmarshal([]byte(dataJSON), &comp); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal comparable")
	}
	return &comp, nil
}

func (s *SQLiteStore) ListComparables(ctx context.Context, appraisalID string) ([]model.Comparable, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM comparables WHERE appraisal_id = ? ORDER BY created_at ASC`,
		appraisalID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list comparables")
	}
	defer rows.Close()

	var comps []model.Comparable
	for rows.Next() {
		var dataJSON string
		if err := rows.Scan(&dataJSON); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan comparable")
		}
		var comp model.Comparable
		if err := json.Unmarshal([]byte(dataJSON), &comp); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal comparable")
		}
		comps = append(comps, comp)
	}
	return comps, eris.Wrap(rows.Err(), "sqlite: list comparables iterate")
}

func (s *SQLiteStore) UpdateComparable(ctx context.Context, comp model.Comparable) error {
	comp.UpdatedAt = time.Now().UTC()

	dataJSON, err := json.Marshal(comp)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal comparable")
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE comparables SET data = ?, updated_at = ? WHERE id = ?`,
		string(dataJSON), comp.UpdatedAt, comp.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update comparable %s", comp.ID)
	}
	return checkRowsAffected(res, "comparable", comp.ID)
}

func (s *SQLiteStore) DeleteComparable(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM comparables WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete comparable %s", id)
	}
	return checkRowsAffected(res, "comparable", id)
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanAppraisal(row scannable) (*model.Appraisal, error) {
	var a model.Appraisal
	var vehicleJSON string
	var analysisJSON sql.NullString

	err := row.Scan(&a.ID, &vehicleJSON, &analysisJSON, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.New("appraisal not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan appraisal")
	}

	if err := json.Unmarshal([]byte(vehicleJSON), &a.Vehicle); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal vehicle")
	}
	if analysisJSON.Valid {
		a.Analysis = &model.MarketAnalysis{}
		if err := json.Unmarshal([]byte(analysisJSON.String), a.Analysis); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal analysis")
		}
	}
	return &a, nil
}
