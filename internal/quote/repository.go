package quote

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Quote struct {
	ID              string     `json:"id"`
	ClientID        string     `json:"clientId"`
	RequestID       string     `json:"requestId,omitempty"`
	EstimatedHours  int        `json:"estimatedHours,omitempty"`
	StartDate       *time.Time `json:"startDate,omitempty"`
	EndDate         *time.Time `json:"endDate,omitempty"`
	Subtotal        string     `json:"subtotal"`
	TaxTotal        string     `json:"taxTotal"`
	AdditionalCosts string     `json:"additionalCosts"`
	Total           string     `json:"total"`
	Status          Status     `json:"status"`
	DecisionNotes   string     `json:"decisionNotes,omitempty"`
	CreatedBy       string     `json:"createdBy,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

type Item struct {
	ID          string `json:"id"`
	QuoteID     string `json:"quoteId"`
	ServiceID   string `json:"serviceId,omitempty"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
	TaxRate     string `json:"taxRate"`
	Subtotal    string `json:"subtotal"`
	Total       string `json:"total"`
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const quoteColumns = `
id, client_id, COALESCE(request_id::text,''), COALESCE(estimated_hours,0), start_date, end_date,
subtotal::text, tax_total::text, additional_costs::text, total::text, status,
COALESCE(decision_notes,''), COALESCE(created_by::text,''), created_at, updated_at
`

func scanQuote(row interface{ Scan(...any) error }) (*Quote, error) {
	q := &Quote{}
	if err := row.Scan(
		&q.ID, &q.ClientID, &q.RequestID, &q.EstimatedHours, &q.StartDate, &q.EndDate,
		&q.Subtotal, &q.TaxTotal, &q.AdditionalCosts, &q.Total, &q.Status,
		&q.DecisionNotes, &q.CreatedBy, &q.CreatedAt, &q.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return q, nil
}

func Insert(ctx context.Context, tx pgx.Tx, q *Quote) error {
	const sql = `
INSERT INTO quotes (id, client_id, request_id, estimated_hours, start_date, end_date,
                    subtotal, tax_total, additional_costs, total, status, created_by)
VALUES ($1, $2, NULLIF($3,'')::uuid, $4, $5, $6, $7::numeric, $8::numeric, $9::numeric, $10::numeric, $11, NULLIF($12,'')::uuid)
RETURNING created_at, updated_at
`
	return tx.QueryRow(ctx, sql,
		q.ID, q.ClientID, q.RequestID, q.EstimatedHours, q.StartDate, q.EndDate,
		q.Subtotal, q.TaxTotal, q.AdditionalCosts, q.Total, q.Status, q.CreatedBy,
	).Scan(&q.CreatedAt, &q.UpdatedAt)
}

func InsertItem(ctx context.Context, tx pgx.Tx, it *Item) error {
	const sql = `
INSERT INTO quote_items (id, quote_id, service_id, description, quantity, unit_price, tax_rate, subtotal, total)
VALUES ($1, $2, NULLIF($3,'')::uuid, $4, $5::numeric, $6::numeric, $7::numeric, $8::numeric, $9::numeric)
`
	_, err := tx.Exec(ctx, sql,
		it.ID, it.QuoteID, it.ServiceID, it.Description, it.Quantity, it.UnitPrice, it.TaxRate, it.Subtotal, it.Total,
	)
	return err
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Quote, error) {
	q := fmt.Sprintf(`SELECT %s FROM quotes WHERE id = $1`, quoteColumns)
	return scanQuote(r.db.QueryRow(ctx, q, id))
}

func GetForUpdate(ctx context.Context, tx pgx.Tx, id string) (*Quote, error) {
	q := fmt.Sprintf(`SELECT %s FROM quotes WHERE id = $1 FOR UPDATE`, quoteColumns)
	return scanQuote(tx.QueryRow(ctx, q, id))
}

func (r *Repository) ListItems(ctx context.Context, quoteID string) ([]Item, error) {
	const q = `
SELECT id, quote_id, COALESCE(service_id::text,''), description,
       quantity::text, unit_price::text, tax_rate::text, subtotal::text, total::text
FROM quote_items
WHERE quote_id = $1
ORDER BY created_at ASC
`
	rows, err := r.db.Query(ctx, q, quoteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(
			&it.ID, &it.QuoteID, &it.ServiceID, &it.Description,
			&it.Quantity, &it.UnitPrice, &it.TaxRate, &it.Subtotal, &it.Total,
		); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *Repository) List(ctx context.Context) ([]Quote, error) {
	q := fmt.Sprintf(`SELECT %s FROM quotes ORDER BY created_at DESC`, quoteColumns)
	return r.queryQuotes(ctx, q)
}

// ListByClient filters by free text, status and a start-date range. Empty
// filter values match everything.
func (r *Repository) ListByClient(ctx context.Context, clientID, text, status, dateFrom, dateTo string) ([]Quote, error) {
	q := fmt.Sprintf(`
SELECT %s FROM quotes
WHERE client_id = $1
  AND ($2 = '' OR status = $2)
  AND ($3 = '' OR COALESCE(decision_notes,'') ILIKE '%%' || $3 || '%%'
       OR id IN (SELECT quote_id FROM quote_items WHERE description ILIKE '%%' || $3 || '%%'))
  AND ($4 = '' OR start_date >= $4::date)
  AND ($5 = '' OR start_date < ($5::date + 1))
ORDER BY created_at DESC
`, quoteColumns)
	return r.queryQuotes(ctx, q, clientID, status, text, dateFrom, dateTo)
}

func (r *Repository) queryQuotes(ctx context.Context, q string, args ...any) ([]Quote, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Quote
	for rows.Next() {
		qt, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *qt)
	}
	return out, rows.Err()
}

func SetStatus(ctx context.Context, tx pgx.Tx, id string, next Status) error {
	const q = `UPDATE quotes SET status = $2, updated_at = NOW() WHERE id = $1`
	_, err := tx.Exec(ctx, q, id, next)
	return err
}

func SetDecision(ctx context.Context, tx pgx.Tx, id string, next Status, notes string) error {
	const q = `UPDATE quotes SET status = $2, decision_notes = NULLIF($3,''), updated_at = NOW() WHERE id = $1`
	_, err := tx.Exec(ctx, q, id, next, notes)
	return err
}
