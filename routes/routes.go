package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Dosada05/competition-engine/docs"
	"github.com/Dosada05/competition-engine/handlers"
	"github.com/Dosada05/competition-engine/middleware"
	"github.com/Dosada05/competition-engine/services"
)

func SetupRoutes(
	router chi.Router,
	jwtSecret string,
	allowedOrigins []string,
	authHandler *handlers.AuthHandler,
	playerHandler *handlers.PlayerHandler,
	runHandler *handlers.RunHandler,
	duelHandler *handlers.DuelHandler,
	wsHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	organizerOnly := func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtSecret))
		r.Use(middleware.Authorize(services.RoleOrganizer))
	}

	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	router.Post("/auth/login", authHandler.Login)

	router.Route("/players", func(r chi.Router) {
		r.Get("/", playerHandler.ListPlayers)
		r.Group(func(r chi.Router) {
			organizerOnly(r)
			r.Post("/", playerHandler.CreatePlayer)
		})
	})

	router.Route("/runs", func(r chi.Router) {
		r.Get("/", runHandler.ListRuns)
		r.Get("/{runID}", runHandler.GetRun)
		r.Get("/{runID}/standings", runHandler.FinalStandings)
		r.Get("/{runID}/groups/standings", runHandler.GroupStandings)

		r.Group(func(r chi.Router) {
			organizerOnly(r)

			r.Post("/bracket", runHandler.BuildBracket)
			r.Post("/swiss", runHandler.StartSwiss)
			r.Post("/hybrid", runHandler.StartHybrid)

			r.Put("/{runID}/bracket/matches/{matchID}/winner", runHandler.SetBracketWinner)
			r.Post("/{runID}/bracket/reset", runHandler.ResetBracket)

			r.Put("/{runID}/swiss/matches/{matchID}/result", runHandler.SetSwissResult)
			r.Post("/{runID}/swiss/rounds", runHandler.NextSwissRound)
			r.Post("/{runID}/swiss/rounds/cancel", runHandler.CancelLastSwissRound)
			r.Post("/{runID}/swiss/rounds/reshuffle", runHandler.ReshuffleLastSwissRound)

			r.Put("/{runID}/hybrid/matches/{matchID}/result", runHandler.SetPreliminaryResult)
			r.Post("/{runID}/hybrid/advance", runHandler.AdvanceToBracket)
		})
	})

	router.Route("/ratings", func(r chi.Router) {
		r.Get("/", duelHandler.Ratings)
		r.Get("/duels", duelHandler.Records)

		r.Group(func(r chi.Router) {
			organizerOnly(r)
			r.Post("/players", duelHandler.RegisterPlayer)
			r.Post("/duels", duelHandler.RecordDuel)
			r.Post("/duels/{duelID}/cancel", duelHandler.CancelDuel)
		})
	})

	router.Get("/ws/runs/{runID}", wsHandler.ServeRun)
	router.Get("/ws/ratings", wsHandler.ServeRatings)
}
