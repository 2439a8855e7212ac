package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/nandanugg/walkarea/module/core/domain"
	"github.com/nandanugg/walkarea/module/core/internal/repository/database"
)

var _ database.SampleRepository = (*SampleRepo)(nil)

// SampleRepo stores walk samples. The queries are plain SQL that both the
// postgres and sqlite drivers accept.
type SampleRepo struct {
	db *sql.DB
}

func NewSampleRepo(db *sql.DB) *SampleRepo {
	return &SampleRepo{db: db}
}

func (r *SampleRepo) Insert(ctx context.Context, s *domain.Sample) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO walk_samples (session_id, latitude, longitude, accuracy, distance, status, timestamp) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.SessionID, s.Location.Lat, s.Location.Lon, s.Location.Accuracy, s.Distance, string(s.Status), s.Location.Timestamp,
	)
	return err
}

func (r *SampleRepo) GetLatest(ctx context.Context, sessionID string) (*domain.Sample, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT session_id, latitude, longitude, accuracy, distance, status, timestamp FROM walk_samples WHERE session_id = $1 ORDER BY timestamp DESC LIMIT 1`,
		sessionID,
	)

	var s domain.Sample
	if err := scanSample(row, &s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNoSamples
		}
		return nil, err
	}
	return &s, nil
}

func (r *SampleRepo) GetHistory(ctx context.Context, query *domain.HistoryQuery) ([]domain.Sample, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT session_id, latitude, longitude, accuracy, distance, status, timestamp FROM walk_samples WHERE session_id = $1 AND timestamp >= $2 AND timestamp <= $3 ORDER BY timestamp ASC`,
		query.SessionID, query.Start, query.End,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.Sample
	for rows.Next() {
		var s domain.Sample
		if err := scanSample(rows, &s); err != nil {
			return nil, err
		}
		results = append(results, s)
	}
	return results, rows.Err()
}

func (r *SampleRepo) GetAllSessions(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT session_id FROM walk_samples ORDER BY session_id`,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		results = append(results, id)
	}
	return results, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSample(sc scanner, s *domain.Sample) error {
	var status string
	if err := sc.Scan(&s.SessionID, &s.Location.Lat, &s.Location.Lon, &s.Location.Accuracy, &s.Distance, &status, &s.Location.Timestamp); err != nil {
		return err
	}
	s.Status = domain.GeofenceStatus(status)
	return nil
}
