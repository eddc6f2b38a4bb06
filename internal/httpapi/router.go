package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"eventbooking/internal/api"
	"eventbooking/internal/assignment"
	"eventbooking/internal/client"
	"eventbooking/internal/employee"
	"eventbooking/internal/invoice"
	"eventbooking/internal/quote"
	"eventbooking/internal/request"
	"eventbooking/internal/reservation"
	"eventbooking/internal/task"
	"eventbooking/internal/user"
	"eventbooking/pkg/config"
)

type Dependencies struct {
	Cfg config.Config
	DB  *pgxpool.Pool
}

func NewRouter(deps Dependencies) http.Handler {
	users := user.NewRepository(deps.DB)
	clients := client.NewRepository(deps.DB)
	employees := employee.NewRepository(deps.DB)
	requests := request.NewRepository(deps.DB)
	quotes := quote.NewRepository(deps.DB)
	reservations := reservation.NewRepository(deps.DB)
	tasks := task.NewRepository(deps.DB)
	assignments := assignment.NewRepository(deps.DB)
	invoices := invoice.NewRepository(deps.DB)

	clientH := client.Handlers{Clients: clients}
	employeeH := employee.Handlers{Employees: employees}
	requestH := request.Handlers{DB: deps.DB, Requests: requests, Clients: clients}
	quoteH := quote.Handlers{DB: deps.DB, Quotes: quotes, Clients: clients}
	reservationH := reservation.Handlers{DB: deps.DB, Reservations: reservations, Clients: clients}
	taskH := task.Handlers{DB: deps.DB, Cfg: &deps.Cfg, Tasks: tasks, Employees: employees}
	assignmentH := assignment.Handlers{DB: deps.DB, Assignments: assignments, Employees: employees}
	invoiceH := invoice.Handlers{DB: deps.DB, Invoices: invoices}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/v1", func(r chi.Router) {
		r.Use(api.ActorAuth(deps.Cfg, users))

		r.Route("/clients", func(r chi.Router) {
			r.Post("/", clientH.Create)
			r.Get("/", clientH.List)
			r.Get("/{id}", clientH.Get)
			r.Put("/{id}", clientH.Update)
			r.Patch("/{id}/status", clientH.ToggleStatus)
		})

		r.Route("/employees", func(r chi.Router) {
			r.Post("/", employeeH.Create)
			r.Get("/", employeeH.List)
			r.Get("/{id}", employeeH.Get)
			r.Put("/{id}", employeeH.Update)
		})

		r.Route("/requests", func(r chi.Router) {
			r.Post("/", requestH.Create)
			r.Get("/", requestH.List)
			r.Get("/{id}", requestH.Get)
			r.Get("/client/{clientId}", requestH.ByClient)
			r.Patch("/{id}/status", requestH.PatchStatus)
			r.Post("/{id}/quote", requestH.StartQuote)
		})

		r.Route("/quotes", func(r chi.Router) {
			r.Post("/", quoteH.Create)
			r.Get("/", quoteH.List)
			r.Get("/my", quoteH.MyQuotes)
			r.Get("/{id}", quoteH.Get)
			r.Get("/client/{clientId}", quoteH.ByClient)
			r.Post("/{id}/action", quoteH.Decide)
			r.Put("/{id}/finish", quoteH.Finish)
			r.Put("/{id}/cancel", quoteH.Cancel)
			r.Patch("/{id}/status", quoteH.PatchStatus)
		})

		r.Route("/reservations", func(r chi.Router) {
			r.Post("/", reservationH.Create)
			r.Get("/", reservationH.List)
			r.Get("/my", reservationH.MyReservations)
			r.Get("/{id}", reservationH.Get)
			r.Get("/client/{clientId}", reservationH.ByClient)
			r.Post("/{id}/publish", reservationH.Publish)
			r.Patch("/{id}/progress", reservationH.PatchProgress)
			r.Patch("/{id}/status", reservationH.PatchStatus)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Post("/", taskH.Create)
			r.Get("/my", taskH.MyTasks)
			r.Get("/{id}", taskH.Get)
			r.Put("/{id}", taskH.Update)
			r.Get("/reservation/{reservationId}", taskH.ByReservation)
			r.Get("/employee/{employeeId}", taskH.ByEmployee)
			r.Get("/status/{status}", taskH.ByStatus)
			r.Patch("/{id}/status", taskH.PatchStatus)
		})

		r.Route("/assignments", func(r chi.Router) {
			r.Post("/", assignmentH.Create)
			r.Get("/{id}", assignmentH.Get)
			r.Get("/task/{taskId}", assignmentH.ByTask)
			r.Get("/employee/{employeeId}", assignmentH.ByEmployee)
			r.Put("/{id}", assignmentH.Update)
			r.Delete("/{id}", assignmentH.Delete)
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Post("/", invoiceH.Generate)
			r.Get("/", invoiceH.List)
			r.Get("/{id}", invoiceH.Get)
			r.Get("/reservation/{reservationId}", invoiceH.ByReservation)
			r.Get("/client/{clientId}", invoiceH.ByClient)
			r.Patch("/{id}/status", invoiceH.PatchStatus)
		})
	})

	return r
}
