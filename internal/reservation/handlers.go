package reservation

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
	"eventbooking/pkg/db"
)

type Handlers struct {
	DB           *pgxpool.Pool
	Reservations *Repository
	Clients      *client.Repository
}

type CreateRequest struct {
	QuoteID      string `json:"quoteId"`
	EventName    string `json:"eventName"`
	ScheduledFor string `json:"scheduledFor"`
	Location     string `json:"location"`
	Notes        string `json:"notes"`
}

// Create realizes an approved quote into a reservation directly (the approve
// action does the same inside its own transaction).
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
	if req.QuoteID == "" || req.EventName == "" {
		api.WriteFault(w, fault.Validation("quoteId and eventName are required"))
		return
	}
	if req.ScheduledFor == "" {
		req.ScheduledFor = time.Now().Format(ScheduledForLayout)
	}

	rv := &Reservation{
		ID:                 uuid.NewString(),
		QuoteID:            req.QuoteID,
		EventName:          req.EventName,
		Status:             StatusPlanning,
		ScheduledFor:       req.ScheduledFor,
		Location:           req.Location,
		Notes:              req.Notes,
		ProgressPercentage: "0",
		CreatedBy:          actor.ID,
	}

	err := db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		const q = `SELECT status, client_id FROM quotes WHERE id = $1 FOR UPDATE`
		var status, clientID string
		if err := tx.QueryRow(r.Context(), q, req.QuoteID).Scan(&status, &clientID); err != nil {
			if err == pgx.ErrNoRows {
				return fault.NotFound("quote not found")
			}
			return err
		}
		if status != "Aprobada" {
			return fault.PreconditionFailed("quote must be approved to create a reservation")
		}
		rv.ClientID = clientID

		if err := CreateFromQuote(r.Context(), tx, rv); err != nil {
			return err
		}
		return audit.Insert(r.Context(), tx, actor.ID, "reservation", rv.ID, "RESERVATION_CREATED",
			map[string]any{"quoteId": rv.QuoteID})
	})
	if err != nil {
		api.WriteFault(w, err)
		return
	}

	api.WriteJSON(w, http.StatusCreated, rv)
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rv, err := h.Reservations.GetByID(r.Context(), id)
	if err != nil {
		api.WriteFault(w, fault.NotFound("reservation not found"))
		return
	}

	detail, err := h.buildDetail(r, rv)
	if err != nil {
		api.WriteFault(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, detail)
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Reservations.List(r.Context())
	if err != nil {
		api.WriteFault(w, err)
		return
	}
	if items == nil {
		items = []Reservation{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h Handlers) ByClient(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "clientId")
	h.writeFiltered(w, r, clientID)
}

// MyReservations resolves the acting user's client profile (bootstrapping one
// on first use) and lists its reservations.
func (h Handlers) MyReservations(w http.ResponseWriter, r *http.Request) {
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
	items, err := h.Reservations.ListByClient(r.Context(), clientID,
		qp.Get("q"), qp.Get("status"), qp.Get("dateFrom"), qp.Get("dateTo"))
	if err != nil {
		api.WriteFault(w, err)
		return
	}
	if items == nil {
		items = []Reservation{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

// Publish moves a planned reservation to PROGRAMADA once it has at least one
// task.
func (h Handlers) Publish(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	if actor == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user identity")
		return
	}
	id := chi.URLParam(r, "id")

	var rv *Reservation
	err := db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		var err error
		rv, err = GetForUpdate(r.Context(), tx, id)
		if err != nil {
			return fault.NotFound("reservation not found")
		}
		n, err := CountTasks(r.Context(), tx, rv.ID)
		if err != nil {
			return err
		}
		if err := CanPublish(rv.Status, n); err != nil {
			return err
		}

		rv.Status = StatusScheduled
		if err := SetStatus(r.Context(), tx, rv.ID, StatusScheduled); err != nil {
			return err
		}
		return audit.Insert(r.Context(), tx, actor.ID, "reservation", rv.ID, "RESERVATION_PUBLISHED", nil)
	})
	if err != nil {
		api.WriteFault(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, rv)
}

type PatchProgressRequest struct {
	ProgressPercentage string `json:"progressPercentage"`
}

// PatchProgress is the manual override. A percentage at or above 100 also
// finishes the reservation.
func (h Handlers) PatchProgress(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	if actor == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user identity")
		return
	}
	id := chi.URLParam(r, "id")

	var req PatchProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteFault(w, fault.Validation("invalid json"))
		return
	}
	pct, err := decimal.NewFromString(req.ProgressPercentage)
	if err != nil || pct.IsNegative() {
		api.WriteFault(w, fault.Validation("invalid progress percentage"))
		return
	}

	var rv *Reservation
	err = db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		var err error
		rv, err = GetForUpdate(r.Context(), tx, id)
		if err != nil {
			return fault.NotFound("reservation not found")
		}

		next := rv.Status
		if pct.GreaterThanOrEqual(hundred) {
			next = StatusFinished
		}
		rv.Status = next
		rv.ProgressPercentage = pct.String()
		if err := SetProgress(r.Context(), tx, rv.ID, rv.ProgressPercentage, next); err != nil {
			return err
		}
		return audit.Insert(r.Context(), tx, actor.ID, "reservation", rv.ID, "PROGRESS_OVERRIDDEN",
			map[string]any{"percentage": pct.String()})
	})
	if err != nil {
		api.WriteFault(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, rv)
}

type PatchStatusRequest struct {
	Status string `json:"status"`
}

// PatchStatus is the administrative transition (cancel, mostly). Derived
// transitions happen through publish and the task propagation hook.
func (h Handlers) PatchStatus(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	if actor == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user identity")
		return
	}
	id := chi.URLParam(r, "id")

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

	var rv *Reservation
	err = db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		var err error
		rv, err = GetForUpdate(r.Context(), tx, id)
		if err != nil {
			return fault.NotFound("reservation not found")
		}
		if !CanTransition(rv.Status, next) {
			return fault.InvalidTransitionf("cannot move reservation from %s to %s", rv.Status, next)
		}

		prev := rv.Status
		rv.Status = next
		if err := SetStatus(r.Context(), tx, rv.ID, next); err != nil {
			return err
		}
		return audit.Insert(r.Context(), tx, actor.ID, "reservation", rv.ID, "STATUS_CHANGED",
			map[string]any{"from": prev, "to": next})
	})
	if err != nil {
		api.WriteFault(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, rv)
}
