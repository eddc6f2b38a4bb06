package invoice

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"eventbooking/internal/api"
	"eventbooking/internal/audit"
	"eventbooking/internal/fault"
	"eventbooking/internal/reservation"
	"eventbooking/pkg/db"
)

type Handlers struct {
	DB       *pgxpool.Pool
	Invoices *Repository
}

type GenerateRequest struct {
	ReservationID string `json:"reservationId"`
}

// Generate bills a finished reservation, copying the approved quote's amounts
// verbatim.
func (h Handlers) Generate(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	if actor == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user identity")
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteFault(w, fault.Validation("invalid json"))
		return
	}
	if req.ReservationID == "" {
		api.WriteFault(w, fault.Validation("reservationId is required"))
		return
	}

	inv := &Invoice{
		ID:        uuid.NewString(),
		Status:    StatusIssued,
		CreatedBy: actor.ID,
	}
	err := db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		rv, err := reservation.GetForUpdate(r.Context(), tx, req.ReservationID)
		if err != nil {
			return fault.NotFound("reservation not found")
		}
		if rv.Status != reservation.StatusFinished {
			return fault.PreconditionFailed("reservation must be FINALIZADA to be invoiced")
		}

		var exists bool
		const dupQ = `SELECT EXISTS (SELECT 1 FROM invoices WHERE reservation_id = $1)`
		if err := tx.QueryRow(r.Context(), dupQ, rv.ID).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return fault.Conflict("reservation already has an invoice")
		}

		const amountsQ = `
SELECT subtotal::text, tax_total::text, additional_costs::text, total::text
FROM quotes WHERE id = $1`
		if err := tx.QueryRow(r.Context(), amountsQ, rv.QuoteID).Scan(
			&inv.Subtotal, &inv.TaxTotal, &inv.AdditionalCosts, &inv.Total); err != nil {
			return err
		}

		inv.ReservationID = rv.ID
		inv.ClientID = rv.ClientID
		if err := Insert(r.Context(), tx, inv); err != nil {
			return err
		}
		return audit.Insert(r.Context(), tx, actor.ID, "invoice", inv.ID, "INVOICE_GENERATED",
			map[string]any{"reservationId": rv.ID, "total": inv.Total})
	})
	if err != nil {
		api.WriteFault(w, err)
		return
	}

	api.WriteJSON(w, http.StatusCreated, inv)
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	inv, err := h.Invoices.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.WriteFault(w, fault.NotFound("invoice not found"))
		return
	}
	api.WriteJSON(w, http.StatusOK, inv)
}

func (h Handlers) ByReservation(w http.ResponseWriter, r *http.Request) {
	inv, err := h.Invoices.FindByReservation(r.Context(), chi.URLParam(r, "reservationId"))
	if err != nil {
		api.WriteFault(w, fault.NotFound("no invoice for this reservation"))
		return
	}
	api.WriteJSON(w, http.StatusOK, inv)
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Invoices.List(r.Context())
	if err != nil {
		api.WriteFault(w, err)
		return
	}
	h.writeList(w, items)
}

func (h Handlers) ByClient(w http.ResponseWriter, r *http.Request) {
	items, err := h.Invoices.ListByClient(r.Context(), chi.URLParam(r, "clientId"))
	if err != nil {
		api.WriteFault(w, err)
		return
	}
	h.writeList(w, items)
}

func (h Handlers) writeList(w http.ResponseWriter, items []Invoice) {
	if items == nil {
		items = []Invoice{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

type PatchStatusRequest struct {
	Status string `json:"status"`
}

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

	var inv *Invoice
	err = db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		var err error
		inv, err = GetForUpdate(r.Context(), tx, id)
		if err != nil {
			return fault.NotFound("invoice not found")
		}
		if !CanTransition(inv.Status, next) {
			return fault.InvalidTransitionf("cannot move invoice from %s to %s", inv.Status, next)
		}

		prev := inv.Status
		inv.Status = next
		if err := SetStatus(r.Context(), tx, inv.ID, next); err != nil {
			return err
		}
		return audit.Insert(r.Context(), tx, actor.ID, "invoice", inv.ID, "STATUS_CHANGED",
			map[string]any{"from": prev, "to": next})
	})
	if err != nil {
		api.WriteFault(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, inv)
}
