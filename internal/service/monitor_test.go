package service

import (
	"context"
	"strings"
	"testing"

	"github.com/Aakashvish187/jalrakshak.ai/internal/domain"
	"github.com/Aakashvish187/jalrakshak.ai/internal/notify"
	"github.com/Aakashvish187/jalrakshak.ai/internal/repository/memory"
	"github.com/Aakashvish187/jalrakshak.ai/internal/simulator"
)

func newTestMonitor(cities []domain.City, store *memory.Store, notifier notify.Notifier) *MonitorService {
	return NewMonitorService(cities, simulator.NewSeeded(11), store, notifier, "@every 1h")
}

func TestSweepRecordsOneSnapshotPerCity(t *testing.T) {
	store := memory.New(nil, nil)
	cities := []domain.City{
		{Name: "Mumbai", Lat: 19.0760, Lng: 72.8777, FloodRiskFactor: 0.9, MonsoonIntensity: 0.95, DrainageCapacity: 0.4},
		{Name: "Pune", Lat: 18.5204, Lng: 73.8567, FloodRiskFactor: 0.5, MonsoonIntensity: 0.7, DrainageCapacity: 0.6},
	}
	svc := newTestMonitor(cities, store, notify.Nop{})

	svc.Sweep()

	snaps, err := svc.LatestSnapshots(context.Background())
	if err != nil {
		t.Fatalf("LatestSnapshots returned error: %v", err)
	}
	if len(snaps) != len(cities) {
		t.Fatalf("got %d snapshots, want %d", len(snaps), len(cities))
	}
	for _, snap := range snaps {
		switch snap.Risk {
		case "Safe", "Moderate", "Critical":
		default:
			t.Fatalf("snapshot for %s has unknown risk %q", snap.City, snap.Risk)
		}
		if snap.WaterLevelM < 0.5 || snap.WaterLevelM > 8 {
			t.Fatalf("snapshot for %s has water level %v outside [0.5, 8]", snap.City, snap.WaterLevelM)
		}
	}

	// A second sweep appends history but keeps one latest row per city.
	svc.Sweep()
	snaps, err = svc.LatestSnapshots(context.Background())
	if err != nil {
		t.Fatalf("LatestSnapshots returned error: %v", err)
	}
	if len(snaps) != len(cities) {
		t.Fatalf("after second sweep got %d latest snapshots, want %d", len(snaps), len(cities))
	}

	history, err := svc.CityHistory(context.Background(), "Mumbai", 10)
	if err != nil {
		t.Fatalf("CityHistory returned error: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("Mumbai history has %d rows, want 2", len(history))
	}
}

func TestSweepAnnouncesCriticalCities(t *testing.T) {
	store := memory.New(nil, nil)
	notifier := &recordingNotifier{}
	// A worst-case profile turns critical often; many sweeps make a
	// complete miss vanishingly unlikely.
	cities := []domain.City{
		{Name: "Atlantis", Lat: 10, Lng: 76, FloodRiskFactor: 1, MonsoonIntensity: 1, DrainageCapacity: 0},
	}
	svc := newTestMonitor(cities, store, notifier)

	for i := 0; i < 300; i++ {
		svc.Sweep()
	}

	var critical bool
	for _, msg := range notifier.messages() {
		if strings.Contains(msg, "Atlantis") && strings.Contains(msg, "CRITICAL") {
			critical = true
			break
		}
	}
	if !critical {
		t.Fatal("no critical announcement after 300 sweeps of a worst-case city")
	}
}

func TestMonitorLifecycle(t *testing.T) {
	svc := newTestMonitor(nil, memory.New(nil, nil), notify.Nop{})

	if svc.Running() {
		t.Fatal("monitor reports running before Start")
	}
	if err := svc.Stop(); err == nil {
		t.Fatal("Stop of a stopped monitor did not error")
	}

	if err := svc.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if !svc.Running() {
		t.Fatal("monitor not running after Start")
	}
	if err := svc.Start(); err == nil {
		t.Fatal("second Start did not error")
	}

	if err := svc.Stop(); err != nil {
		t.Fatalf("Stop returned error: %v", err)
	}
	if svc.Running() {
		t.Fatal("monitor still running after Stop")
	}
}
