package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/resolveit/complaint-service/internal/domain"
)

// StatusHistoryRepository stores audit entries. Entries are append-only;
// the only delete path is whole-complaint removal.
type StatusHistoryRepository interface {
	Create(ctx context.Context, entry *domain.StatusHistory) error
	ListByComplaint(ctx context.Context, complaintID string) ([]domain.StatusHistory, error)
	DeleteByComplaint(ctx context.Context, complaintID string) error
}

type statusHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewStatusHistoryRepository builds the repository.
func NewStatusHistoryRepository(pool *pgxpool.Pool) StatusHistoryRepository {
	return &statusHistoryRepository{pool: pool}
}

func (r *statusHistoryRepository) Create(ctx context.Context, entry *domain.StatusHistory) error {
	const query = `
        INSERT INTO status_history (complaint_id, status, changed_by, notes, timestamp)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		entry.ComplaintID,
		entry.Status,
		entry.ChangedByID,
		entry.Notes,
		entry.Timestamp,
	).Scan(&entry.ID)
}

func (r *statusHistoryRepository) ListByComplaint(ctx context.Context, complaintID string) ([]domain.StatusHistory, error) {
	const query = `
        SELECT id, complaint_id, status, changed_by, notes, timestamp
        FROM status_history WHERE complaint_id=$1 ORDER BY timestamp ASC, id ASC`
	rows, err := r.pool.Query(ctx, query, complaintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StatusHistory
	for rows.Next() {
		var entry domain.StatusHistory
		if err := rows.Scan(
			&entry.ID,
			&entry.ComplaintID,
			&entry.Status,
			&entry.ChangedByID,
			&entry.Notes,
			&entry.Timestamp,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func (r *statusHistoryRepository) DeleteByComplaint(ctx context.Context, complaintID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM status_history WHERE complaint_id=$1`, complaintID)
	return err
}
