package request

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"eventbooking/internal/api"
	"eventbooking/internal/audit"
	"eventbooking/internal/client"
	"eventbooking/internal/fault"
	"eventbooking/internal/quote"
	"eventbooking/pkg/db"
)

type Handlers struct {
	DB       *pgxpool.Pool
	Requests *Repository
	Clients  *client.Repository
}

type CreateRequest struct {
	ClientID          string   `json:"clientId"`
	EventName         string   `json:"eventName"`
	EventDate         string   `json:"eventDate"`
	Location          string   `json:"location"`
	RequestedServices []string `json:"requestedServices"`
	Notes             string   `json:"notes"`
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
	if req.EventName == "" {
		api.WriteFault(w, fault.Validation("eventName is required"))
		return
	}

	clientID := req.ClientID
	if clientID == "" {
		c, err := h.Clients.GetOrCreateByUser(r.Context(), actor)
		if err != nil {
			api.WriteFault(w, err)
			return
		}
		clientID = c.ID
	} else if _, err := h.Clients.GetByID(r.Context(), clientID); err != nil {
		api.WriteFault(w, fault.NotFound("client not found"))
		return
	}

	rq := &Request{
		ID:                uuid.NewString(),
		ClientID:          clientID,
		EventName:         req.EventName,
		EventDate:         req.EventDate,
		Location:          req.Location,
		RequestedServices: req.RequestedServices,
		Notes:             req.Notes,
		Status:            StatusActive,
		CreatedBy:         actor.ID,
	}
	if err := h.Requests.Insert(r.Context(), rq); err != nil {
		api.WriteFault(w, err)
		return
	}

	api.WriteJSON(w, http.StatusCreated, rq)
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	rq, err := h.Requests.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.WriteFault(w, fault.NotFound("request not found"))
		return
	}
	api.WriteJSON(w, http.StatusOK, rq)
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Requests.List(r.Context())
	if err != nil {
		api.WriteFault(w, err)
		return
	}
	if items == nil {
		items = []Request{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h Handlers) ByClient(w http.ResponseWriter, r *http.Request) {
	items, err := h.Requests.ListByClient(r.Context(), chi.URLParam(r, "clientId"))
	if err != nil {
		api.WriteFault(w, err)
		return
	}
	if items == nil {
		items = []Request{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

type PatchStatusRequest struct {
	Status string `json:"status"`
}

func (h Handlers) PatchStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req PatchStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteFault(w, fault.Validation("invalid json"))
		return
	}
	status, err := ParseStatus(req.Status)
	if err != nil {
		api.WriteFault(w, fault.Validation("status must be Activo or Inactivo"))
		return
	}

	rq, err := h.Requests.GetByID(r.Context(), id)
	if err != nil {
		api.WriteFault(w, fault.NotFound("request not found"))
		return
	}
	if err := h.Requests.SetStatus(r.Context(), id, status); err != nil {
		api.WriteFault(w, err)
		return
	}
	rq.Status = status
	api.WriteJSON(w, http.StatusOK, rq)
}

// StartQuote opens an empty pending quote off an active request. Items and
// totals come later through the quote endpoints.
func (h Handlers) StartQuote(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	if actor == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user identity")
		return
	}
	id := chi.URLParam(r, "id")

	rq, err := h.Requests.GetByID(r.Context(), id)
	if err != nil {
		api.WriteFault(w, fault.NotFound("request not found"))
		return
	}
	if rq.Status != StatusActive {
		api.WriteFault(w, fault.PreconditionFailed("request must be active to start a quote"))
		return
	}

	qt := &quote.Quote{
		ID:              uuid.NewString(),
		ClientID:        rq.ClientID,
		RequestID:       rq.ID,
		Subtotal:        "0",
		TaxTotal:        "0",
		AdditionalCosts: "0",
		Total:           "0",
		Status:          quote.StatusPending,
		CreatedBy:       actor.ID,
	}
	err = db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		if err := quote.Insert(r.Context(), tx, qt); err != nil {
			return err
		}
		return audit.Insert(r.Context(), tx, actor.ID, "quote", qt.ID, "QUOTE_STARTED",
			map[string]any{"requestId": rq.ID})
	})
	if err != nil {
		api.WriteFault(w, err)
		return
	}

	api.WriteJSON(w, http.StatusCreated, qt)
}
