package client

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"eventbooking/internal/api"
	"eventbooking/internal/fault"
)

type Handlers struct {
	Clients *Repository
}

type CreateRequest struct {
	Name       string `json:"name"`
	Document   string `json:"document"`
	PersonType string `json:"personType"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Address    string `json:"address"`
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
	if req.Name == "" || req.Document == "" {
		api.WriteFault(w, fault.Validation("name and document are required"))
		return
	}
	personType, err := ParsePersonType(req.PersonType)
	if err != nil {
		api.WriteFault(w, fault.Validation("invalid person type"))
		return
	}

	exists, err := h.Clients.ExistsByDocument(r.Context(), req.Document)
	if err != nil {
		api.WriteFault(w, err)
		return
	}
	if exists {
		api.WriteFault(w, fault.Conflict("document already registered"))
		return
	}

	c := &Client{
		ID:         uuid.NewString(),
		Name:       req.Name,
		Document:   req.Document,
		PersonType: personType,
		Phone:      req.Phone,
		Email:      req.Email,
		Address:    req.Address,
		Status:     StatusActive,
		CreatedBy:  actor.ID,
	}
	if err := h.Clients.Insert(r.Context(), c); err != nil {
		api.WriteFault(w, fault.MapUnique(err, "document already registered"))
		return
	}

	api.WriteJSON(w, http.StatusCreated, c)
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c, err := h.Clients.GetByID(r.Context(), id)
	if err != nil {
		api.WriteFault(w, fault.NotFound("client not found"))
		return
	}
	api.WriteJSON(w, http.StatusOK, c)
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Clients.List(r.Context())
	if err != nil {
		api.WriteFault(w, err)
		return
	}
	if items == nil {
		items = []Client{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h Handlers) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteFault(w, fault.Validation("invalid json"))
		return
	}
	personType, err := ParsePersonType(req.PersonType)
	if err != nil {
		api.WriteFault(w, fault.Validation("invalid person type"))
		return
	}

	c, err := h.Clients.GetByID(r.Context(), id)
	if err != nil {
		api.WriteFault(w, fault.NotFound("client not found"))
		return
	}

	if c.Document != req.Document {
		exists, err := h.Clients.ExistsByDocument(r.Context(), req.Document)
		if err != nil {
			api.WriteFault(w, err)
			return
		}
		if exists {
			api.WriteFault(w, fault.Conflict("document already registered"))
			return
		}
	}

	c.Name = req.Name
	c.Document = req.Document
	c.PersonType = personType
	c.Phone = req.Phone
	c.Email = req.Email
	c.Address = req.Address
	if err := h.Clients.Update(r.Context(), c); err != nil {
		api.WriteFault(w, fault.MapUnique(err, "document already registered"))
		return
	}

	api.WriteJSON(w, http.StatusOK, c)
}

// ToggleStatus flips a client between Activo and Inactivo, stamping
// deactivated_at when it goes inactive.
func (h Handlers) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	c, err := h.Clients.GetByID(r.Context(), id)
	if err != nil {
		api.WriteFault(w, fault.NotFound("client not found"))
		return
	}

	if c.Status == StatusActive {
		now := time.Now()
		c.Status = StatusInactive
		c.DeactivatedAt = &now
	} else {
		c.Status = StatusActive
		c.DeactivatedAt = nil
	}

	if err := h.Clients.SetStatus(r.Context(), c.ID, c.Status, c.DeactivatedAt); err != nil {
		api.WriteFault(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, c)
}
