package task

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"eventbooking/internal/api"
	"eventbooking/internal/assignment"
	"eventbooking/internal/audit"
	"eventbooking/internal/employee"
	"eventbooking/internal/fault"
	"eventbooking/internal/reservation"
	"eventbooking/pkg/config"
	"eventbooking/pkg/db"
)

type Handlers struct {
	DB        *pgxpool.Pool
	Cfg       *config.Config
	Tasks     *Repository
	Employees *employee.Repository
}

type CreateRequest struct {
	ReservationID string    `json:"reservationId"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	StartDatetime time.Time `json:"startDatetime"`
	EndDatetime   time.Time `json:"endDatetime"`
	EmployeeID    string    `json:"employeeId"`
	Notes         string    `json:"notes"`
}

// Create adds a task to a reservation still in planning, optionally assigning
// an employee in the same transaction.
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
	if req.ReservationID == "" || req.Title == "" {
		api.WriteFault(w, fault.Validation("reservationId and title are required"))
		return
	}
	if req.StartDatetime.IsZero() || req.EndDatetime.IsZero() {
		api.WriteFault(w, fault.Validation("startDatetime and endDatetime are required"))
		return
	}

	if req.EmployeeID != "" {
		emp, err := h.Employees.GetByID(r.Context(), req.EmployeeID)
		if err != nil {
			api.WriteFault(w, fault.NotFound("employee not found"))
			return
		}
		if emp.Status != employee.StatusActive {
			api.WriteFault(w, fault.PreconditionFailed("employee is not active"))
			return
		}
	}

	t := &Task{
		ID:            uuid.NewString(),
		ReservationID: req.ReservationID,
		Title:         req.Title,
		Description:   req.Description,
		Status:        StatusPending,
		StartDatetime: req.StartDatetime,
		EndDatetime:   req.EndDatetime,
		CreatedBy:     actor.ID,
	}

	err := db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		rv, err := reservation.GetForUpdate(r.Context(), tx, req.ReservationID)
		if err != nil {
			return fault.NotFound("reservation not found")
		}
		if rv.Status != reservation.StatusPlanning {
			return fault.PreconditionFailed("tasks can only be added while the reservation is in planning")
		}
		if err := ValidateSchedule(time.Now(), t.StartDatetime, t.EndDatetime, rv.ScheduledFor, h.Cfg.TaskWindowPolicy); err != nil {
			return err
		}

		if err := Insert(r.Context(), tx, t); err != nil {
			return err
		}
		if req.EmployeeID != "" {
			a := &assignment.Assignment{
				ID:         uuid.NewString(),
				TaskID:     t.ID,
				EmployeeID: req.EmployeeID,
				AssignedBy: actor.ID,
				Notes:      req.Notes,
			}
			if err := assignment.Insert(r.Context(), tx, a); err != nil {
				return err
			}
		}
		return audit.Insert(r.Context(), tx, actor.ID, "task", t.ID, "TASK_CREATED",
			map[string]any{"reservationId": t.ReservationID})
	})
	if err != nil {
		api.WriteFault(w, err)
		return
	}

	api.WriteJSON(w, http.StatusCreated, t)
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.Tasks.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.WriteFault(w, fault.NotFound("task not found"))
		return
	}
	api.WriteJSON(w, http.StatusOK, t)
}

func (h Handlers) ByReservation(w http.ResponseWriter, r *http.Request) {
	items, err := h.Tasks.ListByReservation(r.Context(), chi.URLParam(r, "reservationId"))
	if err != nil {
		api.WriteFault(w, err)
		return
	}
	h.writeList(w, items)
}

func (h Handlers) ByEmployee(w http.ResponseWriter, r *http.Request) {
	items, err := h.Tasks.ListByEmployee(r.Context(), chi.URLParam(r, "employeeId"))
	if err != nil {
		api.WriteFault(w, err)
		return
	}
	h.writeList(w, items)
}

// MyTasks lists the acting user's assigned tasks. A user without an employee
// profile simply has none.
func (h Handlers) MyTasks(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	if actor == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user identity")
		return
	}

	emp, err := h.Employees.FindByUserID(r.Context(), actor.ID)
	if err != nil {
		h.writeList(w, nil)
		return
	}
	items, err := h.Tasks.ListByEmployee(r.Context(), emp.ID)
	if err != nil {
		api.WriteFault(w, err)
		return
	}
	h.writeList(w, items)
}

func (h Handlers) ByStatus(w http.ResponseWriter, r *http.Request) {
	status, err := ParseStatus(chi.URLParam(r, "status"))
	if err != nil {
		api.WriteFault(w, fault.Validation("invalid status"))
		return
	}
	items, err := h.Tasks.ListByStatus(r.Context(), status)
	if err != nil {
		api.WriteFault(w, err)
		return
	}
	h.writeList(w, items)
}

func (h Handlers) writeList(w http.ResponseWriter, items []Task) {
	if items == nil {
		items = []Task{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

type UpdateRequest struct {
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	StartDatetime time.Time `json:"startDatetime"`
	EndDatetime   time.Time `json:"endDatetime"`
}

// Update edits a task's details. Only allowed while the reservation is still
// in planning and the task is not terminal.
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
	if req.Title == "" {
		api.WriteFault(w, fault.Validation("title is required"))
		return
	}

	var t *Task
	err := db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		var err error
		t, err = GetForUpdate(r.Context(), tx, id)
		if err != nil {
			return fault.NotFound("task not found")
		}
		if IsTerminal(t.Status) {
			return fault.PreconditionFailed("completed or cancelled tasks cannot be edited")
		}

		rv, err := reservation.GetForUpdate(r.Context(), tx, t.ReservationID)
		if err != nil {
			return err
		}
		if rv.Status != reservation.StatusPlanning {
			return fault.PreconditionFailed("tasks can only be edited while the reservation is in planning")
		}

		t.Title = req.Title
		t.Description = req.Description
		if !req.StartDatetime.IsZero() {
			t.StartDatetime = req.StartDatetime
		}
		if !req.EndDatetime.IsZero() {
			t.EndDatetime = req.EndDatetime
		}
		if err := ValidateSchedule(time.Now(), t.StartDatetime, t.EndDatetime, rv.ScheduledFor, h.Cfg.TaskWindowPolicy); err != nil {
			return err
		}
		return Update(r.Context(), tx, t)
	})
	if err != nil {
		api.WriteFault(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, t)
}

type PatchStatusRequest struct {
	Status string `json:"status"`
}

type PatchStatusResponse struct {
	Task        *Task                    `json:"task"`
	Reservation *reservation.Reservation `json:"reservation,omitempty"`
}

// PatchStatus transitions a task and recomputes the owning reservation's
// progress in the same transaction. Starting the first task moves a scheduled
// reservation to ENCURSO; completing the last one finishes it.
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

	var t *Task
	var rv *reservation.Reservation
	err = db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		var err error
		t, err = GetForUpdate(r.Context(), tx, id)
		if err != nil {
			return fault.NotFound("task not found")
		}
		if !CanTransition(t.Status, next) {
			return fault.InvalidTransitionf("cannot move task from %s to %s", t.Status, next)
		}

		prev := t.Status
		var completedAt *time.Time
		if next == StatusCompleted {
			now := time.Now()
			completedAt = &now
			t.CompletedAt = &now
			t.EndDatetime = now
		}
		t.Status = next
		if err := SetStatus(r.Context(), tx, t.ID, next, completedAt); err != nil {
			return err
		}

		rv, err = reservation.GetForUpdate(r.Context(), tx, t.ReservationID)
		if err != nil {
			return err
		}
		statuses, err := reservation.TaskStatuses(r.Context(), tx, rv.ID)
		if err != nil {
			return err
		}
		if res, ok := reservation.Recompute(rv.Status, string(prev), string(next), statuses); ok {
			rv.Status = res.Status
			rv.ProgressPercentage = res.Percentage.StringFixed(2)
			if err := reservation.SetProgress(r.Context(), tx, rv.ID, rv.ProgressPercentage, rv.Status); err != nil {
				return err
			}
		}

		return audit.Insert(r.Context(), tx, actor.ID, "task", t.ID, "STATUS_CHANGED",
			map[string]any{"from": prev, "to": next, "reservationStatus": rv.Status})
	})
	if err != nil {
		api.WriteFault(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, PatchStatusResponse{Task: t, Reservation: rv})
}
