package invoice

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"eventbooking/internal/fault"
)

// An Invoice snapshots the quote's amounts at generation time, so later quote
// edits never change what was billed.
type Invoice struct {
	ID              string    `json:"id"`
	ReservationID   string    `json:"reservationId"`
	ClientID        string    `json:"clientId"`
	Subtotal        string    `json:"subtotal"`
	TaxTotal        string    `json:"taxTotal"`
	AdditionalCosts string    `json:"additionalCosts"`
	Total           string    `json:"total"`
	Status          Status    `json:"status"`
	IssuedAt        time.Time `json:"issuedAt"`
	CreatedBy       string    `json:"createdBy,omitempty"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const invoiceColumns = `
id, reservation_id, client_id, subtotal::text, tax_total::text, additional_costs::text, total::text,
status, issued_at, COALESCE(created_by::text,''), updated_at
`

func scanInvoice(row interface{ Scan(...any) error }) (*Invoice, error) {
	inv := &Invoice{}
	if err := row.Scan(
		&inv.ID, &inv.ReservationID, &inv.ClientID, &inv.Subtotal, &inv.TaxTotal,
		&inv.AdditionalCosts, &inv.Total, &inv.Status, &inv.IssuedAt, &inv.CreatedBy, &inv.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return inv, nil
}

// Insert relies on the unique reservation_id index to keep invoices
// one-per-reservation.
func Insert(ctx context.Context, tx pgx.Tx, inv *Invoice) error {
	const q = `
INSERT INTO invoices (id, reservation_id, client_id, subtotal, tax_total, additional_costs, total, status, created_by)
VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6::numeric, $7::numeric, $8, NULLIF($9,'')::uuid)
RETURNING issued_at, updated_at
`
	err := tx.QueryRow(ctx, q,
		inv.ID, inv.ReservationID, inv.ClientID, inv.Subtotal, inv.TaxTotal,
		inv.AdditionalCosts, inv.Total, inv.Status, inv.CreatedBy,
	).Scan(&inv.IssuedAt, &inv.UpdatedAt)
	return fault.MapUnique(err, "reservation already has an invoice")
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Invoice, error) {
	const q = `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	return scanInvoice(r.db.QueryRow(ctx, q, id))
}

func (r *Repository) FindByReservation(ctx context.Context, reservationID string) (*Invoice, error) {
	const q = `SELECT ` + invoiceColumns + ` FROM invoices WHERE reservation_id = $1`
	return scanInvoice(r.db.QueryRow(ctx, q, reservationID))
}

func (r *Repository) List(ctx context.Context) ([]Invoice, error) {
	const q = `SELECT ` + invoiceColumns + ` FROM invoices ORDER BY issued_at DESC`
	return r.queryInvoices(ctx, q)
}

func (r *Repository) ListByClient(ctx context.Context, clientID string) ([]Invoice, error) {
	const q = `SELECT ` + invoiceColumns + ` FROM invoices WHERE client_id = $1 ORDER BY issued_at DESC`
	return r.queryInvoices(ctx, q, clientID)
}

func (r *Repository) queryInvoices(ctx context.Context, q string, args ...any) ([]Invoice, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *inv)
	}
	return out, rows.Err()
}

func GetForUpdate(ctx context.Context, tx pgx.Tx, id string) (*Invoice, error) {
	const q = `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1 FOR UPDATE`
	return scanInvoice(tx.QueryRow(ctx, q, id))
}

func SetStatus(ctx context.Context, tx pgx.Tx, id string, next Status) error {
	const q = `UPDATE invoices SET status = $2, updated_at = NOW() WHERE id = $1`
	_, err := tx.Exec(ctx, q, id, next)
	return err
}
