package employee

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"eventbooking/internal/api"
	"eventbooking/internal/fault"
)

type Handlers struct {
	Employees *Repository
}

type UpsertRequest struct {
	UserID       string `json:"userId"`
	Name         string `json:"name"`
	Document     string `json:"document"`
	ContractType string `json:"contractType"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Address      string `json:"address"`
	Status       string `json:"status"`
}

func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	if actor == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user identity")
		return
	}

	var req UpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteFault(w, fault.Validation("invalid json"))
		return
	}
	if req.Name == "" || req.Document == "" {
		api.WriteFault(w, fault.Validation("name and document are required"))
		return
	}
	contractType, err := ParseContractType(req.ContractType)
	if err != nil {
		api.WriteFault(w, fault.Validation("invalid contract type"))
		return
	}

	e := &Employee{
		ID:           uuid.NewString(),
		UserID:       req.UserID,
		Name:         req.Name,
		Document:     req.Document,
		ContractType: contractType,
		Phone:        req.Phone,
		Email:        req.Email,
		Address:      req.Address,
		Status:       StatusActive,
		CreatedBy:    actor.ID,
	}
	if err := h.Employees.Insert(r.Context(), e); err != nil {
		api.WriteFault(w, fault.MapUnique(err, "document already registered"))
		return
	}
	api.WriteJSON(w, http.StatusCreated, e)
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	e, err := h.Employees.GetByID(r.Context(), id)
	if err != nil {
		api.WriteFault(w, fault.NotFound("employee not found"))
		return
	}
	api.WriteJSON(w, http.StatusOK, e)
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Employees.List(r.Context())
	if err != nil {
		api.WriteFault(w, err)
		return
	}
	if items == nil {
		items = []Employee{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h Handlers) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteFault(w, fault.Validation("invalid json"))
		return
	}
	contractType, err := ParseContractType(req.ContractType)
	if err != nil {
		api.WriteFault(w, fault.Validation("invalid contract type"))
		return
	}
	status, err := ParseStatus(req.Status)
	if err != nil {
		api.WriteFault(w, fault.Validation("invalid status"))
		return
	}

	e, err := h.Employees.GetByID(r.Context(), id)
	if err != nil {
		api.WriteFault(w, fault.NotFound("employee not found"))
		return
	}

	e.Name = req.Name
	e.Document = req.Document
	e.ContractType = contractType
	e.Phone = req.Phone
	e.Email = req.Email
	e.Address = req.Address
	e.Status = status
	if err := h.Employees.Update(r.Context(), e); err != nil {
		api.WriteFault(w, fault.MapUnique(err, "document already registered"))
		return
	}
	api.WriteJSON(w, http.StatusOK, e)
}
