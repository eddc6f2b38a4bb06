package assignment

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"eventbooking/internal/fault"
)

type Assignment struct {
	ID         string    `json:"id"`
	TaskID     string    `json:"taskId"`
	EmployeeID string    `json:"employeeId"`
	AssignedBy string    `json:"assignedBy,omitempty"`
	AssignedAt time.Time `json:"assignedAt"`
	Notes      string    `json:"notes,omitempty"`
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const assignmentColumns = `
id, task_id, employee_id, COALESCE(assigned_by::text,''), assigned_at, COALESCE(notes,'')
`

func scanAssignment(row interface{ Scan(...any) error }) (*Assignment, error) {
	a := &Assignment{}
	if err := row.Scan(&a.ID, &a.TaskID, &a.EmployeeID, &a.AssignedBy, &a.AssignedAt, &a.Notes); err != nil {
		return nil, err
	}
	return a, nil
}

// Insert relies on the unique (task_id, employee_id) index to reject
// duplicate assignments.
func Insert(ctx context.Context, tx pgx.Tx, a *Assignment) error {
	const q = `
INSERT INTO assignments (id, task_id, employee_id, assigned_by, notes)
VALUES ($1, $2, $3, NULLIF($4,'')::uuid, NULLIF($5,''))
RETURNING assigned_at
`
	err := tx.QueryRow(ctx, q, a.ID, a.TaskID, a.EmployeeID, a.AssignedBy, a.Notes).Scan(&a.AssignedAt)
	return fault.MapUnique(err, "employee is already assigned to this task")
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Assignment, error) {
	const q = `SELECT ` + assignmentColumns + ` FROM assignments WHERE id = $1`
	return scanAssignment(r.db.QueryRow(ctx, q, id))
}

func (r *Repository) ListByTask(ctx context.Context, taskID string) ([]Assignment, error) {
	const q = `SELECT ` + assignmentColumns + ` FROM assignments WHERE task_id = $1 ORDER BY assigned_at ASC`
	return r.queryAssignments(ctx, q, taskID)
}

func (r *Repository) ListByEmployee(ctx context.Context, employeeID string) ([]Assignment, error) {
	const q = `SELECT ` + assignmentColumns + ` FROM assignments WHERE employee_id = $1 ORDER BY assigned_at DESC`
	return r.queryAssignments(ctx, q, employeeID)
}

func (r *Repository) queryAssignments(ctx context.Context, q string, args ...any) ([]Assignment, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// Update swaps the assigned employee and/or rewrites the notes. The unique
// (task_id, employee_id) index still guards the swap target.
func Update(ctx context.Context, tx pgx.Tx, a *Assignment) error {
	const q = `UPDATE assignments SET employee_id = $2, notes = NULLIF($3,'') WHERE id = $1`
	ct, err := tx.Exec(ctx, q, a.ID, a.EmployeeID, a.Notes)
	if err != nil {
		return fault.MapUnique(err, "employee is already assigned to this task")
	}
	if ct.RowsAffected() == 0 {
		return fault.NotFound("assignment not found")
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM assignments WHERE id = $1`
	ct, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return fault.NotFound("assignment not found")
	}
	return nil
}
