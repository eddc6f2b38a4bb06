package employee

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Employee struct {
	ID           string       `json:"id"`
	UserID       string       `json:"userId,omitempty"`
	Name         string       `json:"name"`
	Document     string       `json:"document"`
	ContractType ContractType `json:"contractType"`
	Phone        string       `json:"phone,omitempty"`
	Email        string       `json:"email,omitempty"`
	Address      string       `json:"address,omitempty"`
	Status       Status       `json:"status"`
	CreatedBy    string       `json:"createdBy,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const employeeColumns = `
id, COALESCE(user_id::text,''), name, document, contract_type, COALESCE(phone,''), COALESCE(email,''),
COALESCE(address,''), status, COALESCE(created_by::text,''), created_at, updated_at
`

func scanEmployee(row interface{ Scan(...any) error }) (*Employee, error) {
	e := &Employee{}
	if err := row.Scan(
		&e.ID, &e.UserID, &e.Name, &e.Document, &e.ContractType, &e.Phone, &e.Email,
		&e.Address, &e.Status, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *Repository) Insert(ctx context.Context, e *Employee) error {
	const q = `
INSERT INTO employees (id, user_id, name, document, contract_type, phone, email, address, status, created_by)
VALUES ($1, NULLIF($2,'')::uuid, $3, $4, $5, $6, $7, $8, $9, NULLIF($10,'')::uuid)
RETURNING created_at, updated_at
`
	return r.db.QueryRow(ctx, q,
		e.ID, e.UserID, e.Name, e.Document, e.ContractType, e.Phone, e.Email, e.Address, e.Status, e.CreatedBy,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Employee, error) {
	q := fmt.Sprintf(`SELECT %s FROM employees WHERE id = $1`, employeeColumns)
	return scanEmployee(r.db.QueryRow(ctx, q, id))
}

func (r *Repository) FindByUserID(ctx context.Context, userID string) (*Employee, error) {
	q := fmt.Sprintf(`SELECT %s FROM employees WHERE user_id = $1`, employeeColumns)
	return scanEmployee(r.db.QueryRow(ctx, q, userID))
}

func (r *Repository) List(ctx context.Context) ([]Employee, error) {
	q := fmt.Sprintf(`SELECT %s FROM employees ORDER BY created_at DESC`, employeeColumns)
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *Repository) Update(ctx context.Context, e *Employee) error {
	const q = `
UPDATE employees
SET name = $2, document = $3, contract_type = $4, phone = $5, email = $6, address = $7, status = $8, updated_at = NOW()
WHERE id = $1
RETURNING updated_at
`
	return r.db.QueryRow(ctx, q,
		e.ID, e.Name, e.Document, e.ContractType, e.Phone, e.Email, e.Address, e.Status,
	).Scan(&e.UpdatedAt)
}
