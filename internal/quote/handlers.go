package quote

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"eventbooking/internal/api"
	"eventbooking/internal/audit"
	"eventbooking/internal/client"
	"eventbooking/internal/fault"
	"eventbooking/internal/reservation"
	"eventbooking/pkg/db"
)

const dateLayout = "2006-01-02"

type Handlers struct {
	DB      *pgxpool.Pool
	Quotes  *Repository
	Clients *client.Repository
}

type CreateItem struct {
	ServiceID   string `json:"serviceId"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
}

type CreateRequest struct {
	ClientID        string       `json:"clientId"`
	RequestID       string       `json:"requestId"`
	EstimatedHours  int          `json:"estimatedHours"`
	StartDate       string       `json:"startDate"`
	EndDate         string       `json:"endDate"`
	AdditionalCosts string       `json:"additionalCosts"`
	Items           []CreateItem `json:"items"`
}

func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	if actor == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user identity")
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteFault(w, fault.Validation("invalid json"))
		return
	}
	if req.ClientID == "" {
		api.WriteFault(w, fault.Validation("clientId is required"))
		return
	}

	start, end, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		api.WriteFault(w, err)
		return
	}

	if _, err := h.Clients.GetByID(r.Context(), req.ClientID); err != nil {
		api.WriteFault(w, fault.NotFound("client not found"))
		return
	}
	if req.RequestID != "" {
		var exists bool
		const q = `SELECT EXISTS (SELECT 1 FROM requests WHERE id = $1)`
		if err := h.DB.QueryRow(r.Context(), q, req.RequestID).Scan(&exists); err != nil {
			api.WriteFault(w, err)
			return
		}
		if !exists {
			api.WriteFault(w, fault.NotFound("request not found"))
			return
		}
	}

	inputs := make([]ItemInput, 0, len(req.Items))
	for i, it := range req.Items {
		qty, perr := decimal.NewFromString(it.Quantity)
		if perr != nil {
			api.WriteFault(w, fault.Validationf("item %d: invalid quantity", i+1))
			return
		}
		price, perr := decimal.NewFromString(it.UnitPrice)
		if perr != nil {
			api.WriteFault(w, fault.Validationf("item %d: invalid unit price", i+1))
			return
		}
		inputs = append(inputs, ItemInput{
			ServiceID:   it.ServiceID,
			Description: it.Description,
			Quantity:    qty,
			UnitPrice:   price,
		})
	}
	additional := decimal.Zero
	if req.AdditionalCosts != "" {
		var perr error
		additional, perr = decimal.NewFromString(req.AdditionalCosts)
		if perr != nil {
			api.WriteFault(w, fault.Validation("invalid additional costs"))
			return
		}
	}
	priced, totals, err := PriceItems(inputs, additional)
	if err != nil {
		api.WriteFault(w, err)
		return
	}

	qt := &Quote{
		ID:              uuid.NewString(),
		ClientID:        req.ClientID,
		RequestID:       req.RequestID,
		EstimatedHours:  req.EstimatedHours,
		StartDate:       start,
		EndDate:         end,
		Subtotal:        totals.Subtotal.StringFixed(2),
		TaxTotal:        totals.TaxTotal.StringFixed(2),
		AdditionalCosts: totals.AdditionalCosts.StringFixed(2),
		Total:           totals.Total.StringFixed(2),
		Status:          StatusPending,
		CreatedBy:       actor.ID,
	}

	var items []Item
	err = db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		if err := Insert(r.Context(), tx, qt); err != nil {
			return err
		}
		for i, p := range priced {
			it := Item{
				ID:          uuid.NewString(),
				QuoteID:     qt.ID,
				ServiceID:   req.Items[i].ServiceID,
				Description: p.Description,
				Quantity:    p.Quantity.String(),
				UnitPrice:   p.UnitPrice.StringFixed(2),
				TaxRate:     TaxRate.String(),
				Subtotal:    p.Subtotal.StringFixed(2),
				Total:       p.Total.StringFixed(2),
			}
			if err := InsertItem(r.Context(), tx, &it); err != nil {
				return err
			}
			items = append(items, it)
		}
		return audit.Insert(r.Context(), tx, actor.ID, "quote", qt.ID, "QUOTE_CREATED",
			map[string]any{"total": qt.Total, "items": len(items)})
	})
	if err != nil {
		api.WriteFault(w, err)
		return
	}

	api.WriteJSON(w, http.StatusCreated, detail{Quote: *qt, Items: items})
}

func parseDateRange(startStr, endStr string) (start, end *time.Time, err error) {
	if startStr != "" {
		t, perr := time.Parse(dateLayout, startStr)
		if perr != nil {
			return nil, nil, fault.Validation("invalid startDate, expected YYYY-MM-DD")
		}
		start = &t
	}
	if endStr != "" {
		t, perr := time.Parse(dateLayout, endStr)
		if perr != nil {
			return nil, nil, fault.Validation("invalid endDate, expected YYYY-MM-DD")
		}
		end = &t
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, nil, fault.Validation("endDate must not be before startDate")
	}
	return start, end, nil
}

type detail struct {
	Quote
	Items []Item `json:"items"`
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	qt, err := h.Quotes.GetByID(r.Context(), id)
	if err != nil {
		api.WriteFault(w, fault.NotFound("quote not found"))
		return
	}
	items, err := h.Quotes.ListItems(r.Context(), id)
	if err != nil {
		api.WriteFault(w, err)
		return
	}
	if items == nil {
		items = []Item{}
	}
	api.WriteJSON(w, http.StatusOK, detail{Quote: *qt, Items: items})
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Quotes.List(r.Context())
	if err != nil {
		api.WriteFault(w, err)
		return
	}
	if items == nil {
		items = []Quote{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h Handlers) ByClient(w http.ResponseWriter, r *http.Request) {
	h.writeFiltered(w, r, chi.URLParam(r, "clientId"))
}

// MyQuotes lists quotes for the acting user's client profile, creating the
// profile on first use so a fresh account sees an empty list instead of 404.
func (h Handlers) MyQuotes(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	if actor == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user identity")
		return
	}
	c, err := h.Clients.GetOrCreateByUser(r.Context(), actor)
	if err != nil {
		api.WriteFault(w, err)
		return
	}
	h.writeFiltered(w, r, c.ID)
}

func (h Handlers) writeFiltered(w http.ResponseWriter, r *http.Request, clientID string) {
	qp := r.URL.Query()
	items, err := h.Quotes.ListByClient(r.Context(), clientID,
		qp.Get("q"), qp.Get("status"), qp.Get("dateFrom"), qp.Get("dateTo"))
	if err != nil {
		api.WriteFault(w, err)
		return
	}
	if items == nil {
		items = []Quote{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

type DecisionRequest struct {
	Action string `json:"action"`
	Notes  string `json:"notes"`
}

// Decide applies the client's APROBAR/RECHAZAR action. Approval also creates
// the reservation inside the same transaction, so a failed reservation insert
// rolls the decision back.
func (h Handlers) Decide(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	if actor == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user identity")
		return
	}
	id := chi.URLParam(r, "id")

	var req DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteFault(w, fault.Validation("invalid json"))
		return
	}
	action, err := ParseAction(req.Action)
	if err != nil {
		api.WriteFault(w, fault.Validation("action must be APROBAR or RECHAZAR"))
		return
	}

	var qt *Quote
	var rv *reservation.Reservation
	err = db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		var err error
		qt, err = GetForUpdate(r.Context(), tx, id)
		if err != nil {
			if err == pgx.ErrNoRows {
				return fault.NotFound("quote not found")
			}
			return err
		}
		if !CanDecide(qt.Status) {
			return fault.InvalidTransitionf("quote in status %s can no longer be decided", qt.Status)
		}

		if action == ActionReject {
			qt.Status = StatusRejected
			qt.DecisionNotes = req.Notes
			if err := SetDecision(r.Context(), tx, qt.ID, StatusRejected, req.Notes); err != nil {
				return err
			}
			return audit.Insert(r.Context(), tx, actor.ID, "quote", qt.ID, "QUOTE_REJECTED",
				map[string]any{"notes": req.Notes})
		}

		qt.Status = StatusApproved
		qt.DecisionNotes = req.Notes
		if err := SetDecision(r.Context(), tx, qt.ID, StatusApproved, req.Notes); err != nil {
			return err
		}

		rv, err = h.reservationFor(r, tx, qt)
		if err != nil {
			return err
		}
		if err := reservation.CreateFromQuote(r.Context(), tx, rv); err != nil {
			return err
		}
		return audit.Insert(r.Context(), tx, actor.ID, "quote", qt.ID, "QUOTE_APPROVED",
			map[string]any{"reservationId": rv.ID})
	})
	if err != nil {
		api.WriteFault(w, err)
		return
	}

	resp := map[string]any{"quote": qt}
	if rv != nil {
		resp["reservation"] = rv
	}
	api.WriteJSON(w, http.StatusOK, resp)
}

// reservationFor seeds the reservation from the quote and, when the quote came
// from a request, from the request's event details.
func (h Handlers) reservationFor(r *http.Request, tx pgx.Tx, qt *Quote) (*reservation.Reservation, error) {
	eventName := "Evento sin nombre"
	location := "Por definir"
	scheduledFor := time.Now().Format(reservation.ScheduledForLayout)
	if qt.StartDate != nil {
		scheduledFor = qt.StartDate.Format(reservation.ScheduledForLayout)
	}

	if qt.RequestID != "" {
		const q = `SELECT COALESCE(event_name,''), COALESCE(location,''), COALESCE(event_date,'') FROM requests WHERE id = $1`
		var name, loc, eventDate string
		if err := tx.QueryRow(r.Context(), q, qt.RequestID).Scan(&name, &loc, &eventDate); err != nil {
			if err != pgx.ErrNoRows {
				return nil, err
			}
		} else {
			if name != "" {
				eventName = name
			}
			if loc != "" {
				location = loc
			}
			if eventDate != "" && qt.StartDate == nil {
				if t, perr := time.Parse(dateLayout, eventDate); perr == nil {
					scheduledFor = t.Format(reservation.ScheduledForLayout)
				}
			}
		}
	}

	actor := api.ActorFromContext(r.Context())
	return &reservation.Reservation{
		ID:                 uuid.NewString(),
		QuoteID:            qt.ID,
		ClientID:           qt.ClientID,
		EventName:          eventName,
		Status:             reservation.StatusPlanning,
		ScheduledFor:       scheduledFor,
		Location:           location,
		ProgressPercentage: "0",
		CreatedBy:          actor.ID,
	}, nil
}

// Finish closes out an approved quote administratively.
func (h Handlers) Finish(w http.ResponseWriter, r *http.Request) {
	h.adminTransition(w, r, StatusFinished)
}

// Cancel withdraws a quote that has not reached a terminal state.
func (h Handlers) Cancel(w http.ResponseWriter, r *http.Request) {
	h.adminTransition(w, r, StatusCancelled)
}

type PatchStatusRequest struct {
	Status string `json:"status"`
}

// PatchStatus covers the remaining administrative moves (start processing).
// Approve/reject must go through Decide.
func (h Handlers) PatchStatus(w http.ResponseWriter, r *http.Request) {
	var req PatchStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteFault(w, fault.Validation("invalid json"))
		return
	}
	next, err := ParseStatus(req.Status)
	if err != nil {
		api.WriteFault(w, fault.Validation("invalid status"))
		return
	}
	if next == StatusApproved || next == StatusRejected {
		api.WriteFault(w, fault.Validation("approval and rejection go through the action endpoint"))
		return
	}
	h.adminTransition(w, r, next)
}

func (h Handlers) adminTransition(w http.ResponseWriter, r *http.Request, next Status) {
	actor := api.ActorFromContext(r.Context())
	if actor == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user identity")
		return
	}
	id := chi.URLParam(r, "id")

	var qt *Quote
	err := db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		var err error
		qt, err = GetForUpdate(r.Context(), tx, id)
		if err != nil {
			if err == pgx.ErrNoRows {
				return fault.NotFound("quote not found")
			}
			return err
		}
		if !CanTransition(qt.Status, next) {
			return fault.InvalidTransitionf("cannot move quote from %s to %s", qt.Status, next)
		}

		prev := qt.Status
		qt.Status = next
		if err := SetStatus(r.Context(), tx, qt.ID, next); err != nil {
			return err
		}
		return audit.Insert(r.Context(), tx, actor.ID, "quote", qt.ID, "STATUS_CHANGED",
			map[string]any{"from": prev, "to": next})
	})
	if err != nil {
		api.WriteFault(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, qt)
}
