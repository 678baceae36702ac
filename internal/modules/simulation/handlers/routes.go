package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers simulation, sensitivity, chart and calculator routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/simulation", func(r chi.Router) {
		r.Get("/defaults", h.HandleGetDefaults)
		r.Post("/run", h.HandleRunSimulation)
	})

	r.Post("/sensitivity", h.HandleSensitivity)
	r.Post("/recommendation", h.HandleRecommendation)

	r.Route("/charts", func(r chi.Router) {
		r.Get("/capital", h.HandleCapitalChart)
		r.Post("/capital", h.HandleCapitalChart)
		r.Get("/sensitivity", h.HandleSensitivityChart)
		r.Post("/sensitivity", h.HandleSensitivityChart)
	})

	r.Get("/deposit/schedule", h.HandleDepositSchedule)
}
