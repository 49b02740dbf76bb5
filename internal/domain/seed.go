package domain

// DefaultRescueUnits is the bootstrap roster loaded into an empty
// team registry.
func DefaultRescueUnits() []RescueUnit {
	return []RescueUnit{
		{Name: "Team Alpha-1", Lat: 20.5937, Lng: 78.9629, Status: UnitAvailable},
		{Name: "Team Beta-2", Lat: 22.5726, Lng: 88.3639, Status: UnitStandby},
		{Name: "Team Gamma-3", Lat: 13.0827, Lng: 80.2707, Status: UnitAvailable},
		{Name: "Team Delta-4", Lat: 12.9716, Lng: 77.5946, Status: UnitAvailable},
		{Name: "Team Echo-5", Lat: 17.3850, Lng: 78.4867, Status: UnitStandby},
	}
}

// DefaultFloodZones is the bootstrap set of known flood-prone areas.
func DefaultFloodZones() []FloodZone {
	return []FloodZone{
		{ZoneName: "Mumbai Coastal", Lat: 19.0760, Lng: 72.8777, RadiusKM: 2.0, RiskLevel: "high"},
		{ZoneName: "Kolkata Riverside", Lat: 22.5726, Lng: 88.3639, RadiusKM: 1.5, RiskLevel: "high"},
		{ZoneName: "Chennai Marina", Lat: 13.0827, Lng: 80.2707, RadiusKM: 1.0, RiskLevel: "medium"},
		{ZoneName: "Bangalore Lakes", Lat: 12.9716, Lng: 77.5946, RadiusKM: 0.8, RiskLevel: "low"},
		{ZoneName: "Hyderabad Tank", Lat: 17.3850, Lng: 78.4867, RadiusKM: 1.2, RiskLevel: "medium"},
	}
}
