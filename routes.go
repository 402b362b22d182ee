package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func InitRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// The dashboard front end is served from a different origin and the relay
	// endpoints are also called by the embeddable feedback widget, so CORS is
	// open to all origins.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Get("/", HandleHome)
	r.Get("/healthz", HandleHealth)

	r.Route("/dashboard/{userID}", func(r chi.Router) {
		r.Get("/summary", dashboardHandler.GetSummary)
		r.Get("/sales/by-day", dashboardHandler.GetSalesByDay)
		r.Get("/sales/by-channel", dashboardHandler.GetSalesByChannel)
		r.Get("/sales/by-status", dashboardHandler.GetCommissionByStatus)
		r.Get("/sales/7-days/{date}", dashboardHandler.GetLast7DaysSales)
		r.Get("/sales/30-days/{date}", dashboardHandler.GetLast30DaysSales)
	})

	r.Get("/sales/{userID}", salesHandler.List)

	r.Post("/get-instagram-avatar", avatarHandler.Lookup)
	r.Post("/send-whatsapp-report", whatsappHandler.SendReport)

	return r
}
