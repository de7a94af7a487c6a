package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-portal/internal/domain"
)

// ComplaintRepository encapsulates complaint persistence.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus) (*domain.Complaint, error)
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	ListAll(ctx context.Context) ([]domain.Complaint, error)
}

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiates the repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (owner_user_id, text, process_status)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		complaint.OwnerID,
		complaint.Text,
		complaint.Status,
	).Scan(&complaint.ID, &complaint.CreatedAt, &complaint.UpdatedAt)
}

func (r *complaintRepository) UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus) (*domain.Complaint, error) {
	const query = `
        UPDATE complaints SET process_status=$1, updated_at=NOW()
        WHERE id=$2
        RETURNING id, owner_user_id, text, process_status, created_at, updated_at`

	var complaint domain.Complaint
	if err := r.pool.QueryRow(ctx, query, status, id).Scan(
		&complaint.ID,
		&complaint.OwnerID,
		&complaint.Text,
		&complaint.Status,
		&complaint.CreatedAt,
		&complaint.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	const query = `
        SELECT id, owner_user_id, text, process_status, created_at, updated_at
        FROM complaints WHERE id=$1`

	var complaint domain.Complaint
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&complaint.ID,
		&complaint.OwnerID,
		&complaint.Text,
		&complaint.Status,
		&complaint.CreatedAt,
		&complaint.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *complaintRepository) ListAll(ctx context.Context) ([]domain.Complaint, error) {
	const query = `
        SELECT id, owner_user_id, text, process_status, created_at, updated_at
        FROM complaints ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

func scanComplaints(rows pgx.Rows) ([]domain.Complaint, error) {
	var result []domain.Complaint
	for rows.Next() {
		var complaint domain.Complaint
		if err := rows.Scan(
			&complaint.ID,
			&complaint.OwnerID,
			&complaint.Text,
			&complaint.Status,
			&complaint.CreatedAt,
			&complaint.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, complaint)
	}
	return result, rows.Err()
}
