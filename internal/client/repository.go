package client

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"eventbooking/internal/user"
)

type Client struct {
	ID            string     `json:"id"`
	UserID        string     `json:"userId,omitempty"`
	Name          string     `json:"name"`
	Document      string     `json:"document"`
	PersonType    PersonType `json:"personType"`
	Phone         string     `json:"phone,omitempty"`
	Email         string     `json:"email,omitempty"`
	Address       string     `json:"address,omitempty"`
	Status        Status     `json:"status"`
	CreatedBy     string     `json:"createdBy,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	DeactivatedAt *time.Time `json:"deactivatedAt,omitempty"`
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const clientColumns = `
id, COALESCE(user_id::text,''), name, document, person_type, COALESCE(phone,''), COALESCE(email,''),
COALESCE(address,''), status, COALESCE(created_by::text,''), created_at, updated_at, deactivated_at
`

func scanClient(row interface{ Scan(...any) error }) (*Client, error) {
	c := &Client{}
	if err := row.Scan(
		&c.ID, &c.UserID, &c.Name, &c.Document, &c.PersonType, &c.Phone, &c.Email,
		&c.Address, &c.Status, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt, &c.DeactivatedAt,
	); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *Repository) ExistsByDocument(ctx context.Context, document string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM clients WHERE document = $1)`
	var exists bool
	err := r.db.QueryRow(ctx, q, document).Scan(&exists)
	return exists, err
}

func (r *Repository) Insert(ctx context.Context, c *Client) error {
	const q = `
INSERT INTO clients (id, user_id, name, document, person_type, phone, email, address, status, created_by)
VALUES ($1, NULLIF($2,'')::uuid, $3, $4, $5, $6, $7, $8, $9, NULLIF($10,'')::uuid)
RETURNING created_at, updated_at
`
	return r.db.QueryRow(ctx, q,
		c.ID, c.UserID, c.Name, c.Document, c.PersonType, c.Phone, c.Email, c.Address, c.Status, c.CreatedBy,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Client, error) {
	q := fmt.Sprintf(`SELECT %s FROM clients WHERE id = $1`, clientColumns)
	return scanClient(r.db.QueryRow(ctx, q, id))
}

func (r *Repository) FindByUserID(ctx context.Context, userID string) (*Client, error) {
	q := fmt.Sprintf(`SELECT %s FROM clients WHERE user_id = $1`, clientColumns)
	return scanClient(r.db.QueryRow(ctx, q, userID))
}

func (r *Repository) List(ctx context.Context) ([]Client, error) {
	q := fmt.Sprintf(`SELECT %s FROM clients ORDER BY created_at DESC`, clientColumns)
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *Repository) Update(ctx context.Context, c *Client) error {
	const q = `
UPDATE clients
SET name = $2, document = $3, person_type = $4, phone = $5, email = $6, address = $7, status = $8, updated_at = NOW()
WHERE id = $1
RETURNING updated_at
`
	return r.db.QueryRow(ctx, q,
		c.ID, c.Name, c.Document, c.PersonType, c.Phone, c.Email, c.Address, c.Status,
	).Scan(&c.UpdatedAt)
}

func (r *Repository) SetStatus(ctx context.Context, id string, status Status, deactivatedAt *time.Time) error {
	const q = `
UPDATE clients
SET status = $2, deactivated_at = $3, updated_at = NOW()
WHERE id = $1
`
	_, err := r.db.Exec(ctx, q, id, status, deactivatedAt)
	return err
}

// GetOrCreateByUser resolves the client profile backing a user account,
// bootstrapping one on first use (my-quotes / my-reservations flows).
func (r *Repository) GetOrCreateByUser(ctx context.Context, u *user.User) (*Client, error) {
	if c, err := r.FindByUserID(ctx, u.ID); err == nil {
		return c, nil
	}

	name := u.Name
	if name == "" {
		name = u.Email
	}
	c := &Client{
		ID:         uuid.NewString(),
		UserID:     u.ID,
		Name:       name,
		Document:   fmt.Sprintf("AUTO-%d", time.Now().UnixMilli()),
		PersonType: PersonNatural,
		Email:      u.Email,
		Status:     StatusActive,
		CreatedBy:  u.ID,
	}
	if err := r.Insert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
