package task

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Task struct {
	ID            string     `json:"id"`
	ReservationID string     `json:"reservationId"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Status        Status     `json:"status"`
	StartDatetime time.Time  `json:"startDatetime"`
	EndDatetime   time.Time  `json:"endDatetime"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
	CreatedBy     string     `json:"createdBy,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const taskColumns = `
id, reservation_id, title, COALESCE(description,''), status,
start_datetime, end_datetime, completed_at, COALESCE(created_by::text,''), created_at, updated_at
`

func scanTask(row interface{ Scan(...any) error }) (*Task, error) {
	t := &Task{}
	if err := row.Scan(
		&t.ID, &t.ReservationID, &t.Title, &t.Description, &t.Status,
		&t.StartDatetime, &t.EndDatetime, &t.CompletedAt, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return t, nil
}

func Insert(ctx context.Context, tx pgx.Tx, t *Task) error {
	const q = `
INSERT INTO tasks (id, reservation_id, title, description, status, start_datetime, end_datetime, created_by)
VALUES ($1, $2, $3, NULLIF($4,''), $5, $6, $7, NULLIF($8,'')::uuid)
RETURNING created_at, updated_at
`
	return tx.QueryRow(ctx, q,
		t.ID, t.ReservationID, t.Title, t.Description, t.Status, t.StartDatetime, t.EndDatetime, t.CreatedBy,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Task, error) {
	const q = `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	return scanTask(r.db.QueryRow(ctx, q, id))
}

func GetForUpdate(ctx context.Context, tx pgx.Tx, id string) (*Task, error) {
	const q = `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 FOR UPDATE`
	return scanTask(tx.QueryRow(ctx, q, id))
}

// Update rewrites the editable fields. Status changes go through SetStatus so
// the completion stamps stay consistent.
func Update(ctx context.Context, tx pgx.Tx, t *Task) error {
	const q = `
UPDATE tasks
SET title = $2, description = NULLIF($3,''), start_datetime = $4, end_datetime = $5, updated_at = NOW()
WHERE id = $1
`
	_, err := tx.Exec(ctx, q, t.ID, t.Title, t.Description, t.StartDatetime, t.EndDatetime)
	return err
}

// SetStatus applies a transition. Completion also stamps completed_at and
// pulls end_datetime up to the completion time.
func SetStatus(ctx context.Context, tx pgx.Tx, id string, next Status, completedAt *time.Time) error {
	if completedAt != nil {
		const q = `
UPDATE tasks SET status = $2, completed_at = $3, end_datetime = $3, updated_at = NOW() WHERE id = $1
`
		_, err := tx.Exec(ctx, q, id, next, *completedAt)
		return err
	}
	const q = `UPDATE tasks SET status = $2, updated_at = NOW() WHERE id = $1`
	_, err := tx.Exec(ctx, q, id, next)
	return err
}

func (r *Repository) ListByReservation(ctx context.Context, reservationID string) ([]Task, error) {
	const q = `SELECT ` + taskColumns + ` FROM tasks WHERE reservation_id = $1 ORDER BY start_datetime ASC`
	return r.queryTasks(ctx, q, reservationID)
}

func (r *Repository) ListByEmployee(ctx context.Context, employeeID string) ([]Task, error) {
	const q = `
SELECT ` + taskColumns + `
FROM tasks
WHERE id IN (SELECT task_id FROM assignments WHERE employee_id = $1)
ORDER BY start_datetime ASC
`
	return r.queryTasks(ctx, q, employeeID)
}

func (r *Repository) ListByStatus(ctx context.Context, status Status) ([]Task, error) {
	const q = `SELECT ` + taskColumns + ` FROM tasks WHERE status = $1 ORDER BY start_datetime ASC`
	return r.queryTasks(ctx, q, status)
}

func (r *Repository) queryTasks(ctx context.Context, q string, args ...any) ([]Task, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}
