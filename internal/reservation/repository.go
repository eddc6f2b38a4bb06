package reservation

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"eventbooking/internal/fault"
)

// ScheduledForLayout is the storage format of a reservation's event date.
// Historical data may hold arbitrary text; the task window policy decides how
// strictly that is enforced.
const ScheduledForLayout = "2006-01-02 15:04:05"

type Reservation struct {
	ID                 string    `json:"id"`
	QuoteID            string    `json:"quoteId"`
	ClientID           string    `json:"clientId"`
	EventName          string    `json:"eventName"`
	Status             Status    `json:"status"`
	ScheduledFor       string    `json:"scheduledFor"`
	Location           string    `json:"location"`
	Notes              string    `json:"notes,omitempty"`
	ProgressPercentage string    `json:"progressPercentage"`
	CreatedBy          string    `json:"createdBy,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const reservationColumns = `
id, quote_id, client_id, event_name, status, scheduled_for, location, COALESCE(notes,''),
progress_percentage::text, COALESCE(created_by::text,''), created_at, updated_at
`

func scanReservation(row interface{ Scan(...any) error }) (*Reservation, error) {
	rv := &Reservation{}
	if err := row.Scan(
		&rv.ID, &rv.QuoteID, &rv.ClientID, &rv.EventName, &rv.Status, &rv.ScheduledFor,
		&rv.Location, &rv.Notes, &rv.ProgressPercentage, &rv.CreatedBy, &rv.CreatedAt, &rv.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return rv, nil
}

// CreateFromQuote inserts the reservation realizing an approved quote. The
// caller owns the transaction and the quote-status precondition; this enforces
// the at-most-one-reservation-per-quote invariant.
func CreateFromQuote(ctx context.Context, tx pgx.Tx, rv *Reservation) error {
	const existsQ = `SELECT EXISTS (SELECT 1 FROM reservations WHERE quote_id = $1)`
	var exists bool
	if err := tx.QueryRow(ctx, existsQ, rv.QuoteID).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return fault.Conflict("a reservation already exists for this quote")
	}

	const q = `
INSERT INTO reservations (id, quote_id, client_id, event_name, status, scheduled_for, location, notes, progress_percentage, created_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8,''), $9::numeric, NULLIF($10,'')::uuid)
RETURNING created_at, updated_at
`
	err := tx.QueryRow(ctx, q,
		rv.ID, rv.QuoteID, rv.ClientID, rv.EventName, rv.Status, rv.ScheduledFor,
		rv.Location, rv.Notes, rv.ProgressPercentage, rv.CreatedBy,
	).Scan(&rv.CreatedAt, &rv.UpdatedAt)
	return fault.MapUnique(err, "a reservation already exists for this quote")
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Reservation, error) {
	q := fmt.Sprintf(`SELECT %s FROM reservations WHERE id = $1`, reservationColumns)
	return scanReservation(r.db.QueryRow(ctx, q, id))
}

func GetForUpdate(ctx context.Context, tx pgx.Tx, id string) (*Reservation, error) {
	q := fmt.Sprintf(`SELECT %s FROM reservations WHERE id = $1 FOR UPDATE`, reservationColumns)
	return scanReservation(tx.QueryRow(ctx, q, id))
}

func (r *Repository) List(ctx context.Context) ([]Reservation, error) {
	q := fmt.Sprintf(`SELECT %s FROM reservations ORDER BY created_at DESC`, reservationColumns)
	return r.queryReservations(ctx, q)
}

// ListByClient filters by free text, status and a scheduled-date range.
// The date filter compares the leading date portion of scheduled_for; rows
// whose value doesn't parse are kept, matching the historical behavior.
func (r *Repository) ListByClient(ctx context.Context, clientID, text, status, dateFrom, dateTo string) ([]Reservation, error) {
	q := fmt.Sprintf(`
SELECT %s FROM reservations
WHERE client_id = $1
  AND ($2 = '' OR status = $2)
  AND ($3 = '' OR event_name ILIKE '%%' || $3 || '%%'
       OR location ILIKE '%%' || $3 || '%%'
       OR COALESCE(notes,'') ILIKE '%%' || $3 || '%%')
  AND ($4 = '' OR length(scheduled_for) < 10 OR substring(scheduled_for from 1 for 10) >= $4)
  AND ($5 = '' OR length(scheduled_for) < 10 OR substring(scheduled_for from 1 for 10) <= $5)
ORDER BY created_at DESC
`, reservationColumns)
	return r.queryReservations(ctx, q, clientID, status, text, dateFrom, dateTo)
}

func (r *Repository) queryReservations(ctx context.Context, q string, args ...any) ([]Reservation, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Reservation
	for rows.Next() {
		rv, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rv)
	}
	return out, rows.Err()
}

func SetStatus(ctx context.Context, tx pgx.Tx, id string, next Status) error {
	const q = `UPDATE reservations SET status = $2, updated_at = NOW() WHERE id = $1`
	_, err := tx.Exec(ctx, q, id, next)
	return err
}

func SetProgress(ctx context.Context, tx pgx.Tx, id string, percentage string, next Status) error {
	const q = `UPDATE reservations SET progress_percentage = $2::numeric, status = $3, updated_at = NOW() WHERE id = $1`
	_, err := tx.Exec(ctx, q, id, percentage, next)
	return err
}

// CountTasks reports how many tasks hang off the reservation, inside the
// caller's transaction (publish precondition).
func CountTasks(ctx context.Context, tx pgx.Tx, reservationID string) (int, error) {
	const q = `SELECT COUNT(*) FROM tasks WHERE reservation_id = $1`
	var n int
	err := tx.QueryRow(ctx, q, reservationID).Scan(&n)
	return n, err
}

// TaskStatuses loads the statuses of every task under the reservation, inside
// the caller's transaction (progress recomputation input).
func TaskStatuses(ctx context.Context, tx pgx.Tx, reservationID string) ([]string, error) {
	const q = `SELECT status FROM tasks WHERE reservation_id = $1`
	rows, err := tx.Query(ctx, q, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
