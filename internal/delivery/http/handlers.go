package http

import (
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Aakashvish187/jalrakshak.ai/internal/domain"
	"github.com/Aakashvish187/jalrakshak.ai/internal/service"
	"github.com/Aakashvish187/jalrakshak.ai/internal/simulator"
	"github.com/Aakashvish187/jalrakshak.ai/pkg/utils"
)

// Handler contains all HTTP handlers
type Handler struct {
	predictionSvc *service.PredictionService
	rescueSvc     *service.RescueService
	sosSvc        *service.SOSService
	reportSvc     *service.ReportService
	routeSvc      *service.RouteService
	monitorSvc    *service.MonitorService
	generator     *simulator.Generator
	store         domain.Store
}

// NewHandler creates a new handler
func NewHandler(
	predictionSvc *service.PredictionService,
	rescueSvc *service.RescueService,
	sosSvc *service.SOSService,
	reportSvc *service.ReportService,
	routeSvc *service.RouteService,
	monitorSvc *service.MonitorService,
	generator *simulator.Generator,
	store domain.Store,
) *Handler {
	return &Handler{
		predictionSvc: predictionSvc,
		rescueSvc:     rescueSvc,
		sosSvc:        sosSvc,
		reportSvc:     reportSvc,
		routeSvc:      routeSvc,
		monitorSvc:    monitorSvc,
		generator:     generator,
		store:         store,
	}
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	status := "ok"
	database := "ok"
	if err := h.store.Health(c.Context()); err != nil {
		status = "degraded"
		database = err.Error()
	}
	return c.JSON(fiber.Map{
		"status":   status,
		"service":  "jalraksha-backend",
		"database": database,
		"version":  "1.0.0",
	})
}

// GetLiveData returns one synthetic station reading with its risk
// classification, mimicking an IoT feed.
func (h *Handler) GetLiveData(c *fiber.Ctx) error {
	reading := h.generator.Reading()
	prediction := h.predictionSvc.Predict(c.Context(), reading)

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       reading,
		"prediction": prediction,
	})
}

// Predict classifies a caller-supplied sensor reading
func (h *Handler) Predict(c *fiber.Ctx) error {
	var req domain.SensorReading
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	prediction := h.predictionSvc.Predict(c.Context(), req)

	return c.JSON(fiber.Map{
		"success": true,
		"data":    prediction,
	})
}

type assignRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// AssignRescue dispatches the nearest available unit to an incident
func (h *Handler) AssignRescue(c *fiber.Ctx) error {
	var req assignRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if !utils.ValidCoordinate(req.Lat, req.Lng) {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid coordinates")
	}

	result, err := h.rescueSvc.Assign(c.Context(), req.Lat, req.Lng)
	switch {
	case errors.Is(err, domain.ErrNoAvailableUnits):
		return fiber.NewError(fiber.StatusNotFound, "No rescue teams available")
	case errors.Is(err, domain.ErrRaceLost):
		return fiber.NewError(fiber.StatusConflict, "All nearby teams were claimed, retry")
	case err != nil:
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to assign rescue team")
	}

	zones, err := h.routeSvc.NearbyZones(c.Context(), req.Lat, req.Lng)
	if err != nil {
		// The dispatch already happened; warnings are best effort.
		log.Printf("Failed to load flood zones near incident: %v", err)
	}
	warnings := make([]string, 0, len(zones))
	for _, z := range zones {
		warnings = append(warnings, fmt.Sprintf("%s is a %s risk flood zone", z.ZoneName, z.RiskLevel))
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"data":          result,
		"zone_warnings": warnings,
	})
}

// ResetTeamStatus returns the whole fleet to available
func (h *Handler) ResetTeamStatus(c *fiber.Ctx) error {
	count, err := h.rescueSvc.ResetAll(c.Context())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to reset team status")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"reset":   count,
	})
}

// GetRescueStatus returns every unit regardless of state
func (h *Handler) GetRescueStatus(c *fiber.Ctx) error {
	units, err := h.rescueSvc.Status(c.Context())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch rescue status")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    units,
		"count":   len(units),
	})
}

// ReportIssue stores a citizen flood report
func (h *Handler) ReportIssue(c *fiber.Ctx) error {
	var req domain.Report
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Location == "" || req.Description == "" {
		return fiber.NewError(fiber.StatusBadRequest, "location and description are required")
	}

	report, err := h.reportSvc.Submit(c.Context(), req)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to save report")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    report,
	})
}

// GetReports returns the latest citizen reports
func (h *Handler) GetReports(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 5)

	reports, err := h.reportSvc.Recent(c.Context(), limit)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch reports")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    reports,
		"count":   len(reports),
	})
}

// GetFloodZones returns every known flood-prone area
func (h *Handler) GetFloodZones(c *fiber.Ctx) error {
	zones, err := h.routeSvc.Zones(c.Context())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch flood zones")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    zones,
		"count":   len(zones),
	})
}

// GetSafeRoute suggests an evacuation route between two locations
func (h *Handler) GetSafeRoute(c *fiber.Ctx) error {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		return fiber.NewError(fiber.StatusBadRequest, "from and to are required")
	}

	route, err := h.routeSvc.SafeRoute(c.Context(), from, to)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to compute route")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    route,
	})
}

// GetAlerts returns stored prediction alerts
func (h *Handler) GetAlerts(c *fiber.Ctx) error {
	filter := domain.AlertFilter{
		Limit:     c.QueryInt("limit", 50),
		Offset:    c.QueryInt("offset", 0),
		RiskLevel: c.Query("risk_level"),
	}

	alerts, err := h.predictionSvc.Alerts(c.Context(), filter)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch alerts")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    alerts,
		"count":   len(alerts),
	})
}

// GetAlertSummary aggregates alert counts per risk level
func (h *Handler) GetAlertSummary(c *fiber.Ctx) error {
	summary, err := h.predictionSvc.Summary(c.Context())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch alert summary")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    summary,
	})
}

// GetAlert returns one stored alert by id
func (h *Handler) GetAlert(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid alert id")
	}

	alert, err := h.predictionSvc.Alert(c.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Alert not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch alert")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    alert,
	})
}

// DeleteAlert removes one stored alert by id
func (h *Handler) DeleteAlert(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid alert id")
	}

	err = h.predictionSvc.DeleteAlert(c.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Alert not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete alert")
	}
	return c.JSON(fiber.Map{
		"success": true,
	})
}

// SubmitSOS accepts an emergency distress request
func (h *Handler) SubmitSOS(c *fiber.Ctx) error {
	var req domain.SOSRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Message == "" {
		return fiber.NewError(fiber.StatusBadRequest, "message is required")
	}
	if req.Source == "" {
		req.Source = "web"
	}
	if req.Lat != nil && req.Lng != nil && !utils.ValidCoordinate(*req.Lat, *req.Lng) {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid coordinates")
	}

	saved, err := h.sosSvc.Submit(c.Context(), req)
	switch {
	case errors.Is(err, domain.ErrNotDistress):
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Message does not look like a distress request")
	case err != nil:
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to save SOS request")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    saved,
	})
}

// GetSOSList returns distress requests, optionally filtered by status
func (h *Handler) GetSOSList(c *fiber.Ctx) error {
	status := c.Query("status")
	limit := c.QueryInt("limit", 50)

	requests, err := h.sosSvc.List(c.Context(), status, limit)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch SOS requests")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    requests,
		"count":   len(requests),
	})
}

// GetSOS returns one distress request by id
func (h *Handler) GetSOS(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid SOS id")
	}

	req, err := h.sosSvc.Get(c.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "SOS request not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch SOS request")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    req,
	})
}

type resolveSOSRequest struct {
	Notes string `json:"notes"`
}

// ResolveSOS closes a distress request with operator notes
func (h *Handler) ResolveSOS(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid SOS id")
	}

	var body resolveSOSRequest
	if err := c.BodyParser(&body); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	err = h.sosSvc.Resolve(c.Context(), id, body.Notes)
	if errors.Is(err, domain.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "SOS request not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to resolve SOS request")
	}
	return c.JSON(fiber.Map{
		"success": true,
	})
}

// GetCities returns the monitored city roster
func (h *Handler) GetCities(c *fiber.Ctx) error {
	cities := h.monitorSvc.Cities()
	return c.JSON(fiber.Map{
		"success": true,
		"data":    cities,
		"count":   len(cities),
	})
}

// GetCitySnapshots returns the latest observation per monitored city
func (h *Handler) GetCitySnapshots(c *fiber.Ctx) error {
	snaps, err := h.monitorSvc.LatestSnapshots(c.Context())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch city snapshots")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    snaps,
		"count":   len(snaps),
	})
}

// GetCityHistory returns recent observations for one city
func (h *Handler) GetCityHistory(c *fiber.Ctx) error {
	city := c.Params("name")
	limit := c.QueryInt("limit", 50)

	snaps, err := h.monitorSvc.CityHistory(c.Context(), city, limit)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch city history")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    snaps,
		"count":   len(snaps),
	})
}

// StartMonitoring schedules the background city sweep
func (h *Handler) StartMonitoring(c *fiber.Ctx) error {
	if err := h.monitorSvc.Start(); err != nil {
		return fiber.NewError(fiber.StatusConflict, "Monitoring already running")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"running": true,
	})
}

// StopMonitoring halts the background city sweep
func (h *Handler) StopMonitoring(c *fiber.Ctx) error {
	if err := h.monitorSvc.Stop(); err != nil {
		return fiber.NewError(fiber.StatusConflict, "Monitoring not running")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"running": false,
	})
}

// GetMonitoringStatus reports whether the sweep is scheduled
func (h *Handler) GetMonitoringStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"running": h.monitorSvc.Running(),
	})
}

func parseID(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}
