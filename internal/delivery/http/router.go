package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/Aakashvish187/jalrakshak.ai/internal/observability/metrics"
)

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, handler *Handler) {
	// Health check and scrape endpoint
	app.Get("/health", handler.HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	// API v1 routes
	api := app.Group("/api/v1")
	{
		// Sensor feed and risk classification
		api.Get("/live-data", handler.GetLiveData)
		api.Post("/predict", handler.Predict)

		// Rescue fleet
		api.Post("/assign-rescue", handler.AssignRescue)
		api.Post("/reset-team-status", handler.ResetTeamStatus)
		api.Get("/rescue-status", handler.GetRescueStatus)

		// Citizen reports and routing
		api.Post("/report-issue", handler.ReportIssue)
		api.Get("/reports", handler.GetReports)
		api.Get("/flood-zones", handler.GetFloodZones)
		api.Get("/safe-route", handler.GetSafeRoute)

		// Alert history
		api.Get("/alerts", handler.GetAlerts)
		api.Get("/alerts/summary", handler.GetAlertSummary)
		api.Get("/alerts/:id", handler.GetAlert)
		api.Delete("/alerts/:id", handler.DeleteAlert)

		// Emergency SOS queue
		api.Post("/sos", handler.SubmitSOS)
		api.Get("/sos", handler.GetSOSList)
		api.Get("/sos/:id", handler.GetSOS)
		api.Post("/sos/:id/resolve", handler.ResolveSOS)

		// City monitoring
		api.Get("/cities", handler.GetCities)
		api.Get("/cities/snapshots", handler.GetCitySnapshots)
		api.Get("/cities/:name/history", handler.GetCityHistory)
		api.Post("/monitoring/start", handler.StartMonitoring)
		api.Post("/monitoring/stop", handler.StopMonitoring)
		api.Get("/monitoring/status", handler.GetMonitoringStatus)
	}
}
