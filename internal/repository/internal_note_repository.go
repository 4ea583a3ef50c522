package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/resolveit/complaint-service/internal/domain"
)

// InternalNoteRepository stores staff annotations.
type InternalNoteRepository interface {
	Create(ctx context.Context, note *domain.InternalNote) error
	ListByComplaint(ctx context.Context, complaintID string, publicOnly bool) ([]domain.InternalNote, error)
	DeleteByComplaint(ctx context.Context, complaintID string) error
}

type internalNoteRepository struct {
	pool *pgxpool.Pool
}

// NewInternalNoteRepository builds the repository.
func NewInternalNoteRepository(pool *pgxpool.Pool) InternalNoteRepository {
	return &internalNoteRepository{pool: pool}
}

func (r *internalNoteRepository) Create(ctx context.Context, note *domain.InternalNote) error {
	const query = `
        INSERT INTO internal_notes (complaint_id, note, created_by, is_public, created_at)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		note.ComplaintID,
		note.Note,
		note.CreatedByID,
		note.IsPublic,
		note.CreatedAt,
	).Scan(&note.ID)
}

func (r *internalNoteRepository) ListByComplaint(ctx context.Context, complaintID string, publicOnly bool) ([]domain.InternalNote, error) {
	query := `
        SELECT id, complaint_id, note, created_by, is_public, created_at
        FROM internal_notes WHERE complaint_id=$1`
	if publicOnly {
		query += ` AND is_public=TRUE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, complaintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.InternalNote
	for rows.Next() {
		var note domain.InternalNote
		if err := rows.Scan(
			&note.ID,
			&note.ComplaintID,
			&note.Note,
			&note.CreatedByID,
			&note.IsPublic,
			&note.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, note)
	}
	return result, rows.Err()
}

func (r *internalNoteRepository) DeleteByComplaint(ctx context.Context, complaintID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM internal_notes WHERE complaint_id=$1`, complaintID)
	return err
}
