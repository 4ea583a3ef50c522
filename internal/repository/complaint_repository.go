package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/resolveit/complaint-service/internal/domain"
)

// ComplaintFilter captures listing and search parameters.
type ComplaintFilter struct {
	UserID       *string
	AssignedToID *string
	Statuses     []domain.ComplaintStatus
	Categories   []domain.ComplaintCategory
	Priorities   []domain.ComplaintPriority
	SearchTerm   *string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	Limit        int
	Offset       int
}

// CategoryCount is a grouped count row.
type CategoryCount struct {
	Category domain.ComplaintCategory
	Count    int64
}

// StatusCount is a grouped count row.
type StatusCount struct {
	Status domain.ComplaintStatus
	Count  int64
}

// PriorityCount is a grouped count row.
type PriorityCount struct {
	Priority domain.ComplaintPriority
	Count    int64
}

// ComplaintRepository encapsulates complaint persistence.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	Update(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	ListWithFilter(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.Complaint, error)
	ListUnresolved(ctx context.Context) ([]domain.Complaint, error)
	CountByStatus(ctx context.Context, status domain.ComplaintStatus) (int64, error)
	GroupCountByCategory(ctx context.Context) ([]CategoryCount, error)
	GroupCountByStatus(ctx context.Context) ([]StatusCount, error)
	GroupCountByPriority(ctx context.Context) ([]PriorityCount, error)
	AvgResolutionSeconds(ctx context.Context) (float64, error)
	Delete(ctx context.Context, id string) error
}

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiates the Postgres-backed repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

const complaintColumns = `id, title, description, category, priority, status,
               user_id, assigned_to, resolution, created_at, updated_at, resolved_at`

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (title, description, category, priority, status, user_id, assigned_to, resolution, created_at, updated_at, resolved_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		complaint.Title,
		complaint.Description,
		complaint.Category,
		complaint.Priority,
		complaint.Status,
		complaint.UserID,
		complaint.AssignedToID,
		complaint.Resolution,
		complaint.CreatedAt,
		complaint.UpdatedAt,
		complaint.ResolvedAt,
	).Scan(&complaint.ID)
}

func (r *complaintRepository) Update(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        UPDATE complaints SET title=$1, description=$2, category=$3, priority=$4, status=$5,
            assigned_to=$6, resolution=$7, updated_at=$8, resolved_at=$9
        WHERE id=$10`
	cmd, err := r.pool.Exec(ctx, query,
		complaint.Title,
		complaint.Description,
		complaint.Category,
		complaint.Priority,
		complaint.Status,
		complaint.AssignedToID,
		complaint.Resolution,
		complaint.UpdatedAt,
		complaint.ResolvedAt,
		complaint.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	query := fmt.Sprintf(`SELECT %s FROM complaints WHERE id=$1`, complaintColumns)
	var complaint domain.Complaint
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&complaint.ID,
		&complaint.Title,
		&complaint.Description,
		&complaint.Category,
		&complaint.Priority,
		&complaint.Status,
		&complaint.UserID,
		&complaint.AssignedToID,
		&complaint.Resolution,
		&complaint.CreatedAt,
		&complaint.UpdatedAt,
		&complaint.ResolvedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &complaint, nil
}

func (r *complaintRepository) ListWithFilter(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error) {
	base := fmt.Sprintf(`SELECT %s FROM complaints`, complaintColumns)
	clauses := []string{"1=1"}
	args := []any{}

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		clauses = append(clauses, fmt.Sprintf("user_id=$%d", len(args)))
	}
	if filter.AssignedToID != nil {
		args = append(args, *filter.AssignedToID)
		clauses = append(clauses, fmt.Sprintf("assigned_to=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Categories) > 0 {
		placeholders := make([]string, len(filter.Categories))
		for i, category := range filter.Categories {
			args = append(args, category)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("category IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, priority := range filter.Priorities {
			args = append(args, priority)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(description) LIKE %s)", placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

func (r *complaintRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.Complaint, error) {
	query := fmt.Sprintf(`SELECT %s FROM complaints WHERE created_at BETWEEN $1 AND $2 ORDER BY created_at DESC`, complaintColumns)
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

func (r *complaintRepository) ListUnresolved(ctx context.Context) ([]domain.Complaint, error) {
	query := fmt.Sprintf(`SELECT %s FROM complaints WHERE status NOT IN ($1,$2) ORDER BY created_at ASC`, complaintColumns)
	rows, err := r.pool.Query(ctx, query, domain.ComplaintStatusResolved, domain.ComplaintStatusClosed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

func (r *complaintRepository) CountByStatus(ctx context.Context, status domain.ComplaintStatus) (int64, error) {
	const query = `SELECT COUNT(*) FROM complaints WHERE status=$1`
	var count int64
	if err := r.pool.QueryRow(ctx, query, status).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *complaintRepository) GroupCountByCategory(ctx context.Context) ([]CategoryCount, error) {
	const query = `SELECT category, COUNT(*) FROM complaints GROUP BY category ORDER BY category`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []CategoryCount
	for rows.Next() {
		var row CategoryCount
		if err := rows.Scan(&row.Category, &row.Count); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *complaintRepository) GroupCountByStatus(ctx context.Context) ([]StatusCount, error) {
	const query = `SELECT status, COUNT(*) FROM complaints GROUP BY status ORDER BY status`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []StatusCount
	for rows.Next() {
		var row StatusCount
		if err := rows.Scan(&row.Status, &row.Count); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *complaintRepository) GroupCountByPriority(ctx context.Context) ([]PriorityCount, error) {
	const query = `SELECT priority, COUNT(*) FROM complaints GROUP BY priority ORDER BY priority`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []PriorityCount
	for rows.Next() {
		var row PriorityCount
		if err := rows.Scan(&row.Priority, &row.Count); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *complaintRepository) AvgResolutionSeconds(ctx context.Context) (float64, error) {
	const query = `
        SELECT COALESCE(AVG(EXTRACT(EPOCH FROM resolved_at - created_at)), 0)
        FROM complaints WHERE resolved_at IS NOT NULL`
	var avg float64
	if err := r.pool.QueryRow(ctx, query).Scan(&avg); err != nil {
		return 0, err
	}
	return avg, nil
}

func (r *complaintRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM complaints WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanComplaints(rows pgx.Rows) ([]domain.Complaint, error) {
	var result []domain.Complaint
	for rows.Next() {
		var complaint domain.Complaint
		if err := rows.Scan(
			&complaint.ID,
			&complaint.Title,
			&complaint.Description,
			&complaint.Category,
			&complaint.Priority,
			&complaint.Status,
			&complaint.UserID,
			&complaint.AssignedToID,
			&complaint.Resolution,
			&complaint.CreatedAt,
			&complaint.UpdatedAt,
			&complaint.ResolvedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, complaint)
	}
	return result, rows.Err()
}
