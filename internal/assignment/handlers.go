package assignment

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"eventbooking/internal/api"
	"eventbooking/internal/audit"
	"eventbooking/internal/employee"
	"eventbooking/internal/fault"
	"eventbooking/pkg/db"
)

type Handlers struct {
	DB          *pgxpool.Pool
	Assignments *Repository
	Employees   *employee.Repository
}

type CreateRequest struct {
	TaskID     string `json:"taskId"`
	EmployeeID string `json:"employeeId"`
	Notes      string `json:"notes"`
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
	if req.TaskID == "" || req.EmployeeID == "" {
		api.WriteFault(w, fault.Validation("taskId and employeeId are required"))
		return
	}

	var taskExists bool
	const taskQ = `SELECT EXISTS (SELECT 1 FROM tasks WHERE id = $1)`
	if err := h.DB.QueryRow(r.Context(), taskQ, req.TaskID).Scan(&taskExists); err != nil {
		api.WriteFault(w, err)
		return
	}
	if !taskExists {
		api.WriteFault(w, fault.NotFound("task not found"))
		return
	}

	emp, err := h.Employees.GetByID(r.Context(), req.EmployeeID)
	if err != nil {
		api.WriteFault(w, fault.NotFound("employee not found"))
		return
	}
	if emp.Status != employee.StatusActive {
		api.WriteFault(w, fault.PreconditionFailed("employee is not active"))
		return
	}

	a := &Assignment{
		ID:         uuid.NewString(),
		TaskID:     req.TaskID,
		EmployeeID: req.EmployeeID,
		AssignedBy: actor.ID,
		Notes:      req.Notes,
	}
	err = db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		if err := Insert(r.Context(), tx, a); err != nil {
			return err
		}
		return audit.Insert(r.Context(), tx, actor.ID, "assignment", a.ID, "EMPLOYEE_ASSIGNED",
			map[string]any{"taskId": a.TaskID, "employeeId": a.EmployeeID})
	})
	if err != nil {
		api.WriteFault(w, err)
		return
	}

	api.WriteJSON(w, http.StatusCreated, a)
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.Assignments.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.WriteFault(w, fault.NotFound("assignment not found"))
		return
	}
	api.WriteJSON(w, http.StatusOK, a)
}

func (h Handlers) ByTask(w http.ResponseWriter, r *http.Request) {
	items, err := h.Assignments.ListByTask(r.Context(), chi.URLParam(r, "taskId"))
	if err != nil {
		api.WriteFault(w, err)
		return
	}
	if items == nil {
		items = []Assignment{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h Handlers) ByEmployee(w http.ResponseWriter, r *http.Request) {
	items, err := h.Assignments.ListByEmployee(r.Context(), chi.URLParam(r, "employeeId"))
	if err != nil {
		api.WriteFault(w, err)
		return
	}
	if items == nil {
		items = []Assignment{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

type UpdateRequest struct {
	EmployeeID string `json:"employeeId"`
	Notes      string `json:"notes"`
}

// Update reassigns the task to another employee and/or rewrites the notes.
func (h Handlers) Update(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	if actor == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user identity")
		return
	}
	id := chi.URLParam(r, "id")

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteFault(w, fault.Validation("invalid json"))
		return
	}

	a, err := h.Assignments.GetByID(r.Context(), id)
	if err != nil {
		api.WriteFault(w, fault.NotFound("assignment not found"))
		return
	}

	if req.EmployeeID != "" && req.EmployeeID != a.EmployeeID {
		emp, err := h.Employees.GetByID(r.Context(), req.EmployeeID)
		if err != nil {
			api.WriteFault(w, fault.NotFound("employee not found"))
			return
		}
		if emp.Status != employee.StatusActive {
			api.WriteFault(w, fault.PreconditionFailed("employee is not active"))
			return
		}
		a.EmployeeID = req.EmployeeID
	}
	a.Notes = req.Notes

	err = db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		if err := Update(r.Context(), tx, a); err != nil {
			return err
		}
		return audit.Insert(r.Context(), tx, actor.ID, "assignment", a.ID, "ASSIGNMENT_UPDATED",
			map[string]any{"employeeId": a.EmployeeID})
	})
	if err != nil {
		api.WriteFault(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, a)
}

func (h Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Assignments.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		api.WriteFault(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
