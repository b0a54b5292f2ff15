package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/vncsmyrnk/clubvote/internal/core/services"
)

type Handlers struct {
	Auth          *AuthHandler
	Elections     *ElectionHandler
	Registrations *RegistrationHandler
	Codes         *CodeHandler
	Votes         *VoteHandler
	Results       *ResultsHandler
	Audit         *AuditHandler
}

func NewHandler(authService *services.AuthService, h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(Authenticate(authService))

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", h.Auth.Login)
		r.Post("/auth/logout", h.Auth.Logout)

		r.Route("/elections", func(r chi.Router) {
			r.Get("/code/{code}", h.Elections.FindByCode)
			r.Get("/{id}", h.Elections.GetElection)
			r.Get("/{id}/can-register", h.Registrations.CanRegister)
			r.Post("/{id}/codes/validate", h.Codes.ValidateCode)
			r.Get("/{id}/results", h.Results.GetResults)

			r.Group(func(r chi.Router) {
				r.Use(RequireIdentity)

				r.Get("/", h.Elections.ListElections)
				r.Post("/", h.Elections.CreateElection)
				r.Patch("/{id}/status", h.Elections.UpdateStatus)
				r.Patch("/{id}/registration-status", h.Elections.UpdateRegistrationStatus)
				r.Patch("/{id}/candidates/{candidateID}", h.Elections.RenameCandidate)
				r.Post("/{id}/sync-status", h.Elections.SyncStatus)

				r.Post("/{id}/registrations", h.Registrations.Register)
				r.Get("/{id}/registrations", h.Registrations.ListByElection)

				r.Post("/{id}/codes", h.Codes.GenerateCodes)
				r.Get("/{id}/codes", h.Codes.ListByElection)
				r.Get("/{id}/codes/export", h.Codes.ExportCSV)

				r.Post("/{id}/votes", h.Votes.CastVote)
				r.Get("/{id}/my-ballot", h.Votes.MyBallotStatus)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(RequireIdentity)

			r.Post("/codes/redeem", h.Codes.RedeemCode)
			r.Patch("/registrations/{registrationID}", h.Registrations.Review)
			r.Get("/audit", h.Audit.List)
		})
	})

	return r
}
