package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/memoryschool/portal/internal/accounts"
	"github.com/memoryschool/portal/internal/handlers"
	"github.com/memoryschool/portal/internal/notify"
	"github.com/memoryschool/portal/internal/registration"
	"github.com/memoryschool/portal/internal/wizard"
)

// Deps is everything the router wires into handlers.
type Deps struct {
	Drafts       *wizard.Store
	Accounts     *accounts.Service
	Dispatcher   *notify.Dispatcher
	Orchestrator *registration.Orchestrator
	PhotoDir     string
}

func Router(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handlers.Health)

	// --- Registration wizard (invite-slug entry, 5 steps, submit) ---
	r.Route("/api/register", func(rr chi.Router) {
		rr.Post("/start", handlers.RegisterStart(d.Drafts))
		rr.Get("/{id}", handlers.RegisterShow(d.Drafts))
		rr.Post("/{id}/document", handlers.RegisterDocument(d.Drafts))
		rr.Post("/{id}/guardian", handlers.RegisterGuardian(d.Drafts))
		rr.Post("/{id}/dependents", handlers.RegisterAddDependent(d.Drafts))
		rr.Post("/{id}/dependents/remove", handlers.RegisterRemoveDependent(d.Drafts))
		rr.Post("/{id}/dependents/{idx}", handlers.RegisterUpdateDependent(d.Drafts))
		rr.Post("/{id}/dependents/{idx}/photo", handlers.RegisterDependentPhoto(d.Drafts))
		rr.Post("/{id}/plan", handlers.RegisterSelectPlan(d.Drafts))
		rr.Post("/{id}/products/toggle", handlers.RegisterToggleProduct(d.Drafts))
		rr.Post("/{id}/next", handlers.RegisterNext(d.Drafts))
		rr.Post("/{id}/back", handlers.RegisterBack(d.Drafts))
		rr.Post("/{id}/submit", handlers.RegisterSubmit(d.Drafts, d.Orchestrator))
	})

	// --- Boundary functions (cross-origin, pre-flight answered) ---
	r.Route("/functions", func(fr chi.Router) {
		fr.Options("/register-client-user", handlers.Preflight)
		fr.Post("/register-client-user", handlers.RegisterClientUser(d.Accounts))
		fr.Options("/send-whatsapp-message", handlers.Preflight)
		fr.Post("/send-whatsapp-message", handlers.SendWhatsAppMessage(d.Dispatcher))
	})

	// Client self-service
	r.Post("/api/signup", handlers.PublicSignup(d.Accounts))
	r.Get("/api/my/order", handlers.MyOrder)
	r.Get("/client/dashboard", handlers.ClientDashboard)

	// QR image for order codes
	r.Get("/qr/{code}.png", handlers.QR)

	// Uploaded dependent photos
	if d.PhotoDir != "" {
		fs := http.StripPrefix("/photos/", http.FileServer(http.Dir(d.PhotoDir)))
		r.Get("/photos/*", fs.ServeHTTP)
	}

	// --- Admin routes (with login + guard) ---
	r.Route("/admin", func(ar chi.Router) {
		ar.Post("/login", handlers.AdminLogin)
		ar.Post("/logout", handlers.AdminLogout)

		ar.Group(func(ag chi.Router) {
			ag.Use(handlers.RequireAdmin)
			ag.Post("/contracts", handlers.AdminCreateContract)
			ag.Get("/contracts", handlers.AdminListContracts)
			ag.Get("/registrations", handlers.AdminListRegistrations)
		})
	})

	return r
}
