package request

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Status string

const (
	StatusActive   Status = "Activo"
	StatusInactive Status = "Inactivo"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusActive, StatusInactive:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown status: %s", s)
	}
}

type Request struct {
	ID                string    `json:"id"`
	ClientID          string    `json:"clientId"`
	EventName         string    `json:"eventName"`
	EventDate         string    `json:"eventDate"`
	Location          string    `json:"location"`
	RequestedServices []string  `json:"requestedServices"`
	Notes             string    `json:"notes,omitempty"`
	Status            Status    `json:"status"`
	CreatedBy         string    `json:"createdBy,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const requestColumns = `
id, client_id, COALESCE(event_name,''), COALESCE(event_date,''), COALESCE(location,''),
COALESCE(requested_services,''), COALESCE(notes,''), status, COALESCE(created_by::text,''), created_at, updated_at
`

func scanRequest(row interface{ Scan(...any) error }) (*Request, error) {
	rq := &Request{}
	var services string
	if err := row.Scan(
		&rq.ID, &rq.ClientID, &rq.EventName, &rq.EventDate, &rq.Location,
		&services, &rq.Notes, &rq.Status, &rq.CreatedBy, &rq.CreatedAt, &rq.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if services != "" {
		rq.RequestedServices = strings.Split(services, ",")
	}
	return rq, nil
}

func (r *Repository) Insert(ctx context.Context, rq *Request) error {
	const q = `
INSERT INTO requests (id, client_id, event_name, event_date, location, requested_services, notes, status, created_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9,'')::uuid)
RETURNING created_at, updated_at
`
	return r.db.QueryRow(ctx, q,
		rq.ID, rq.ClientID, rq.EventName, rq.EventDate, rq.Location,
		strings.Join(rq.RequestedServices, ","), rq.Notes, rq.Status, rq.CreatedBy,
	).Scan(&rq.CreatedAt, &rq.UpdatedAt)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Request, error) {
	q := fmt.Sprintf(`SELECT %s FROM requests WHERE id = $1`, requestColumns)
	return scanRequest(r.db.QueryRow(ctx, q, id))
}

func (r *Repository) ListByClient(ctx context.Context, clientID string) ([]Request, error) {
	q := fmt.Sprintf(`SELECT %s FROM requests WHERE client_id = $1 ORDER BY created_at DESC`, requestColumns)
	rows, err := r.db.Query(ctx, q, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Request
	for rows.Next() {
		rq, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rq)
	}
	return out, rows.Err()
}

func (r *Repository) List(ctx context.Context) ([]Request, error) {
	q := fmt.Sprintf(`SELECT %s FROM requests ORDER BY created_at DESC`, requestColumns)
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Request
	for rows.Next() {
		rq, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rq)
	}
	return out, rows.Err()
}

func (r *Repository) SetStatus(ctx context.Context, id string, status Status) error {
	const q = `UPDATE requests SET status = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, q, id, status)
	return err
}
