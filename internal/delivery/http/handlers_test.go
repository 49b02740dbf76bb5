package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/Aakashvish187/jalrakshak.ai/internal/domain"
	"github.com/Aakashvish187/jalrakshak.ai/internal/engine"
	"github.com/Aakashvish187/jalrakshak.ai/internal/notify"
	"github.com/Aakashvish187/jalrakshak.ai/internal/repository/memory"
	"github.com/Aakashvish187/jalrakshak.ai/internal/service"
	"github.com/Aakashvish187/jalrakshak.ai/internal/simulator"
)

func newTestApp(t *testing.T) (*fiber.App, *memory.Store) {
	t.Helper()

	store := memory.New(domain.DefaultRescueUnits(), domain.DefaultFloodZones())
	generator := simulator.NewSeeded(5)
	notifier := notify.Nop{}

	dispatcher := engine.NewDispatcher(store)
	predictionSvc := service.NewPredictionService(store)
	rescueSvc := service.NewRescueService(dispatcher, store, notifier)
	sosSvc := service.NewSOSService(store, notifier)
	reportSvc := service.NewReportService(store)
	routeSvc := service.NewRouteService(store)
	monitorSvc := service.NewMonitorService(nil, generator, store, notifier, "@every 1h")

	// Mirror the JSON error handler the server installs in
	// cmd/jalraksha/serve.go so error bodies decode like production.
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "Internal Server Error"
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				message = e.Message
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": message,
			})
		},
	})
	handler := NewHandler(predictionSvc, rescueSvc, sosSvc, reportSvc, routeSvc, monitorSvc, generator, store)
	SetupRoutes(app, handler)
	return app, store
}

func decodeBody(t *testing.T, body io.Reader, out any) {
	t.Helper()
	if err := json.NewDecoder(body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHealthEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Status  string `json:"status"`
		Service string `json:"service"`
	}
	decodeBody(t, resp.Body, &body)
	if body.Status != "ok" {
		t.Fatalf("status field = %q, want ok", body.Status)
	}
}

func TestPredictEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	payload := `{"water_level": 95, "rainfall": 110, "river_flow": 320}`
	req := httptest.NewRequest("POST", "/api/v1/predict", bytes.NewReader([]byte(payload)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Risk       string  `json:"risk_level"`
			Confidence float64 `json:"confidence"`
		} `json:"data"`
	}
	decodeBody(t, resp.Body, &body)
	if !body.Success {
		t.Fatal("success = false")
	}
	if body.Data.Risk != "High" {
		t.Fatalf("risk = %q, want High", body.Data.Risk)
	}
	if body.Data.Confidence < 0.75 || body.Data.Confidence > 0.95 {
		t.Fatalf("confidence = %v, outside [0.75, 0.95]", body.Data.Confidence)
	}
}

func TestPredictRejectsBadBody(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest("POST", "/api/v1/predict", bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestLiveDataEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/live-data", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Success    bool                 `json:"success"`
		Data       domain.SensorReading `json:"data"`
		Prediction struct {
			Risk string `json:"risk_level"`
		} `json:"prediction"`
	}
	decodeBody(t, resp.Body, &body)
	if body.Data.WaterLevel < 20 || body.Data.WaterLevel > 120 {
		t.Fatalf("water level %v outside the simulator range", body.Data.WaterLevel)
	}
	if body.Prediction.Risk == "" {
		t.Fatal("prediction missing from live data")
	}
}

func TestAssignRescueFlow(t *testing.T) {
	app, _ := newTestApp(t)

	assign := func() (*fiber.Map, int) {
		payload := `{"lat": 13.0, "lng": 80.3}`
		req := httptest.NewRequest("POST", "/api/v1/assign-rescue", bytes.NewReader([]byte(payload)))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		var body fiber.Map
		decodeBody(t, resp.Body, &body)
		return &body, resp.StatusCode
	}

	// Three of the seeded units are available; the nearest goes first.
	body, status := assign()
	if status != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	data := (*body)["data"].(map[string]any)
	if data["team"] != "Team Gamma-3" {
		t.Fatalf("assigned %v, want Team Gamma-3", data["team"])
	}
	if data["eta_minutes"].(float64) <= 0 {
		t.Fatalf("eta = %v, want > 0", data["eta_minutes"])
	}

	if _, status := assign(); status != fiber.StatusOK {
		t.Fatalf("second assign status = %d, want 200", status)
	}
	if _, status := assign(); status != fiber.StatusOK {
		t.Fatalf("third assign status = %d, want 200", status)
	}

	// Fleet exhausted.
	if _, status := assign(); status != fiber.StatusNotFound {
		t.Fatalf("exhausted assign status = %d, want 404", status)
	}

	// Reset and assign again.
	resp, err := app.Test(httptest.NewRequest("POST", "/api/v1/reset-team-status", nil))
	if err != nil {
		t.Fatalf("reset request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("reset status = %d, want 200", resp.StatusCode)
	}
	var reset struct {
		Reset int64 `json:"reset"`
	}
	decodeBody(t, resp.Body, &reset)
	if reset.Reset != 5 {
		t.Fatalf("reset wrote %d units, want 5", reset.Reset)
	}

	if _, status := assign(); status != fiber.StatusOK {
		t.Fatalf("assign after reset status = %d, want 200", status)
	}
}

func TestAssignRescueIncludesZoneWarnings(t *testing.T) {
	app, _ := newTestApp(t)

	// Incident at the Chennai Marina zone center.
	payload := `{"lat": 13.0827, "lng": 80.2707}`
	req := httptest.NewRequest("POST", "/api/v1/assign-rescue", bytes.NewReader([]byte(payload)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		ZoneWarnings []string `json:"zone_warnings"`
	}
	decodeBody(t, resp.Body, &body)
	if len(body.ZoneWarnings) != 1 || !strings.Contains(body.ZoneWarnings[0], "Chennai Marina") {
		t.Fatalf("zone_warnings = %v, want one Chennai Marina warning", body.ZoneWarnings)
	}
}

func TestAssignRescueRejectsBadCoordinates(t *testing.T) {
	app, _ := newTestApp(t)

	payload := `{"lat": 123.0, "lng": 80.3}`
	req := httptest.NewRequest("POST", "/api/v1/assign-rescue", bytes.NewReader([]byte(payload)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestRescueStatusEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/rescue-status", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	var body struct {
		Count int                 `json:"count"`
		Data  []domain.RescueUnit `json:"data"`
	}
	decodeBody(t, resp.Body, &body)
	if body.Count != 5 {
		t.Fatalf("count = %d, want the 5 seeded units", body.Count)
	}
}

func TestReportEndpoints(t *testing.T) {
	app, _ := newTestApp(t)

	payload := `{"location": "Sion Circle", "description": "waterlogging", "severity": "high"}`
	req := httptest.NewRequest("POST", "/api/v1/report-issue", bytes.NewReader([]byte(payload)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	// Missing fields are rejected.
	req = httptest.NewRequest("POST", "/api/v1/report-issue", bytes.NewReader([]byte(`{"location": "x"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/reports", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	var body struct {
		Count int `json:"count"`
	}
	decodeBody(t, resp.Body, &body)
	if body.Count != 1 {
		t.Fatalf("count = %d, want 1", body.Count)
	}
}

func TestFloodZonesEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/flood-zones", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	var body struct {
		Count int                `json:"count"`
		Data  []domain.FloodZone `json:"data"`
	}
	decodeBody(t, resp.Body, &body)
	if body.Count != 5 {
		t.Fatalf("count = %d, want the 5 seeded zones", body.Count)
	}
}

func TestSafeRouteEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/safe-route?from=Andheri&to=Dadar", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/safe-route?from=Andheri", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status without destination = %d, want 400", resp.StatusCode)
	}
}

func TestSOSEndpoints(t *testing.T) {
	app, _ := newTestApp(t)

	payload := `{"message": "SOS trapped on the roof", "username": "asha", "location": "Kurla East"}`
	req := httptest.NewRequest("POST", "/api/v1/sos", bytes.NewReader([]byte(payload)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var created struct {
		Data domain.SOSRequest `json:"data"`
	}
	decodeBody(t, resp.Body, &created)
	if created.Data.Priority != "HIGH" {
		t.Fatalf("priority = %q, want HIGH", created.Data.Priority)
	}
	if created.Data.Status != domain.SOSPending {
		t.Fatalf("status = %q, want %q", created.Data.Status, domain.SOSPending)
	}

	// Resolve it.
	resolveBody := bytes.NewReader([]byte(`{"notes": "rescued"}`))
	req = httptest.NewRequest("POST", fmt.Sprintf("/api/v1/sos/%d/resolve", created.Data.ID), resolveBody)
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("resolve status = %d, want 200", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest("GET", fmt.Sprintf("/api/v1/sos/%d", created.Data.ID), nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	var fetched struct {
		Data domain.SOSRequest `json:"data"`
	}
	decodeBody(t, resp.Body, &fetched)
	if fetched.Data.Status != domain.SOSResolved {
		t.Fatalf("status after resolve = %q, want %q", fetched.Data.Status, domain.SOSResolved)
	}

	// Unknown ids are 404.
	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/sos/999", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("unknown sos status = %d, want 404", resp.StatusCode)
	}
}

func TestSubmitSOSRejectsNonDistressMessage(t *testing.T) {
	app, _ := newTestApp(t)

	payload := `{"message": "is the bridge open today"}`
	req := httptest.NewRequest("POST", "/api/v1/sos", bytes.NewReader([]byte(payload)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
}

func TestAlertEndpoints(t *testing.T) {
	app, store := newTestApp(t)

	// Store alerts directly so the async predict path cannot race the
	// assertions below.
	for _, level := range []string{"High", "Low"} {
		if _, err := store.SaveAlert(context.Background(), domain.Alert{RiskLevel: level}); err != nil {
			t.Fatalf("seed alert: %v", err)
		}
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/alerts", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	var list struct {
		Count int            `json:"count"`
		Data  []domain.Alert `json:"data"`
	}
	decodeBody(t, resp.Body, &list)
	if list.Count != 2 {
		t.Fatalf("count = %d, want 2", list.Count)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/alerts?risk_level=High", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	decodeBody(t, resp.Body, &list)
	if list.Count != 1 || list.Data[0].RiskLevel != "High" {
		t.Fatalf("filtered list = %+v, want one High alert", list.Data)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/alerts/summary", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	var summary struct {
		Data domain.AlertSummary `json:"data"`
	}
	decodeBody(t, resp.Body, &summary)
	if summary.Data.Total != 2 || summary.Data.High != 1 || summary.Data.Low != 1 {
		t.Fatalf("summary = %+v, want total 2, high 1, low 1", summary.Data)
	}

	id := list.Data[0].ID
	resp, err = app.Test(httptest.NewRequest("DELETE", fmt.Sprintf("/api/v1/alerts/%d", id), nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("delete status = %d, want 200", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest("GET", fmt.Sprintf("/api/v1/alerts/%d", id), nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("deleted alert status = %d, want 404", resp.StatusCode)
	}
}

func TestMonitoringEndpoints(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/monitoring/status", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	var status struct {
		Running bool `json:"running"`
	}
	decodeBody(t, resp.Body, &status)
	if status.Running {
		t.Fatal("monitor reports running before start")
	}

	resp, err = app.Test(httptest.NewRequest("POST", "/api/v1/monitoring/start", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("start status = %d, want 200", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest("POST", "/api/v1/monitoring/start", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("double start status = %d, want 409", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest("POST", "/api/v1/monitoring/stop", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("stop status = %d, want 200", resp.StatusCode)
	}
}
