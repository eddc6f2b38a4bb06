package reservation

import (
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
)

type DetailResponse struct {
	Reservation
	Client   *DetailClient  `json:"client,omitempty"`
	Quote    *DetailQuote   `json:"quote,omitempty"`
	Request  *DetailRequest `json:"request,omitempty"`
	Services []DetailItem   `json:"services"`
	Tasks    []DetailTask   `json:"tasks"`
}

type DetailClient struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type DetailQuote struct {
	ID              string `json:"id"`
	Status          string `json:"status"`
	Subtotal        string `json:"subtotal"`
	TaxTotal        string `json:"taxTotal"`
	AdditionalCosts string `json:"additionalCosts"`
	Total           string `json:"total"`
}

type DetailRequest struct {
	ID        string `json:"id"`
	EventName string `json:"eventName"`
	EventDate string `json:"eventDate"`
	Location  string `json:"location"`
}

type DetailItem struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
	Subtotal    string `json:"subtotal"`
}

type DetailTask struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Status        string     `json:"status"`
	StartDatetime *time.Time `json:"startDatetime"`
	EndDatetime   *time.Time `json:"endDatetime"`
	CompletedAt   *time.Time `json:"completedAt"`
	Assignees     []string   `json:"assignees"`
}

// Tasks are inserted with NULLIF on description, so the read side must
// COALESCE it back into a plain string.
const detailTasksQuery = `
		SELECT t.id, t.title, COALESCE(t.description,''), t.status,
		       t.start_datetime, t.end_datetime, t.completed_at,
		       COALESCE(array_agg(e.name) FILTER (WHERE e.name IS NOT NULL), '{}')
		FROM tasks t
		LEFT JOIN assignments a ON a.task_id = t.id
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE t.reservation_id = $1
		GROUP BY t.id
		ORDER BY t.created_at`

// buildDetail assembles the reservation page in one pass: client and quote
// summaries, the quoted services, and the task board with assignee names.
func (h Handlers) buildDetail(r *http.Request, rv *Reservation) (*DetailResponse, error) {
	ctx := r.Context()
	out := &DetailResponse{Reservation: *rv, Services: []DetailItem{}, Tasks: []DetailTask{}}

	const clientQ = `SELECT id, name, phone, email FROM clients WHERE id = $1`
	var dc DetailClient
	if err := h.DB.QueryRow(ctx, clientQ, rv.ClientID).Scan(&dc.ID, &dc.Name, &dc.Phone, &dc.Email); err == nil {
		out.Client = &dc
	} else if err != pgx.ErrNoRows {
		return nil, err
	}

	const quoteQ = `
		SELECT id, status, subtotal::text, tax_total::text, additional_costs::text, total::text
		FROM quotes WHERE id = $1`
	var dq DetailQuote
	if err := h.DB.QueryRow(ctx, quoteQ, rv.QuoteID).Scan(
		&dq.ID, &dq.Status, &dq.Subtotal, &dq.TaxTotal, &dq.AdditionalCosts, &dq.Total); err == nil {
		out.Quote = &dq
	} else if err != pgx.ErrNoRows {
		return nil, err
	}

	const reqQ = `
		SELECT r.id, COALESCE(r.event_name,''), COALESCE(r.event_date,''), COALESCE(r.location,'')
		FROM requests r JOIN quotes q ON q.request_id = r.id
		WHERE q.id = $1`
	var dr DetailRequest
	if err := h.DB.QueryRow(ctx, reqQ, rv.QuoteID).Scan(&dr.ID, &dr.EventName, &dr.EventDate, &dr.Location); err == nil {
		out.Request = &dr
	} else if err != pgx.ErrNoRows {
		return nil, err
	}

	const itemsQ = `
		SELECT id, description, quantity::text, unit_price::text, subtotal::text
		FROM quote_items WHERE quote_id = $1 ORDER BY created_at`
	rows, err := h.DB.Query(ctx, itemsQ, rv.QuoteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var it DetailItem
		if err := rows.Scan(&it.ID, &it.Description, &it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, err
		}
		out.Services = append(out.Services, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	trows, err := h.DB.Query(ctx, detailTasksQuery, rv.ID)
	if err != nil {
		return nil, err
	}
	defer trows.Close()
	for trows.Next() {
		var dt DetailTask
		if err := trows.Scan(&dt.ID, &dt.Title, &dt.Description, &dt.Status,
			&dt.StartDatetime, &dt.EndDatetime, &dt.CompletedAt, &dt.Assignees); err != nil {
			return nil, err
		}
		if dt.Assignees == nil {
			dt.Assignees = []string{}
		}
		out.Tasks = append(out.Tasks, dt)
	}
	if err := trows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
