package api

import (
	"net/http"

	"financeio-server/src/config"
	database "financeio-server/src/db"
	"financeio-server/src/handlers"
	"financeio-server/src/lta"
	"financeio-server/src/middleware"
	"financeio-server/src/models"
	"financeio-server/src/util"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, q database.Querier, client *lta.Client, cache *database.IndexCache, tokens *util.TokenManager) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.DemoModeMiddleware(cfg.DemoMode))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", handlers.Login(q, tokens))
		r.Post("/register", handlers.Register(q, tokens))

		// Travel lookups are public
		r.Get("/travel/mrt", handlers.GetStations(client))
		r.Get("/travel/bus", handlers.GetBuses(client))
		r.Post("/travel/mrt/fare", handlers.GetFare(client, models.ModeMRT))
		r.Post("/travel/bus/fare", handlers.GetFare(client, models.ModeBus))
		r.Post("/travel/journey", handlers.PriceJourney(client))

		// Tenant scoped routes
		r.With(middleware.TenantMiddleware(tokens, cfg.RequireToken)).Group(func(r chi.Router) {
			// Finances
			r.Get("/finances", handlers.ListFinances(q))
			r.Get("/finances/summary", handlers.GetSummary(q))
			r.Get("/finances/{month}", handlers.ListFinancesByMonth(q))
			r.Post("/finances", handlers.CreateFinance(q))
			r.Put("/finances/{id}", handlers.UpdateFinance(q))
			r.Delete("/finances/{id}", handlers.DeleteFinance(q))

			// Categories
			r.Get("/categories", handlers.ListCategories(q))
			r.Post("/categories", handlers.CreateCategory(q))
			r.Put("/categories/{id}", handlers.UpdateCategory(q))
			r.Delete("/categories/{id}", handlers.DeleteCategory(q))

			// Presets
			r.Get("/presets", handlers.ListPresets(q))
			r.Post("/presets", handlers.CreatePreset(q))
			r.Put("/presets/{id}", handlers.UpdatePreset(q))
			r.Delete("/presets/{id}", handlers.DeletePreset(q))

			// Tags
			r.Get("/tags", handlers.ListTags(q))
			r.Post("/tags", handlers.CreateTag(q))
			r.Put("/tags/{id}", handlers.UpdateTag(q))
			r.Delete("/tags/{id}", handlers.DeleteTag(q))

			// User
			r.Post("/user/change-password", handlers.ChangePassword(q))
			r.Delete("/user", handlers.DeleteUser(q))

			r.Delete("/travel/cache", handlers.ClearTravelCache(cache))
		})
	})

	return r
}
