package domain

import "time"

// Report is a citizen-submitted flood report.
type Report struct {
	ID          int64     `json:"id"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Severity    string    `json:"severity"`
	Contact     string    `json:"contact,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// FloodZone is a known flood-prone area used for route warnings.
type FloodZone struct {
	ID        int64   `json:"id"`
	ZoneName  string  `json:"zone_name"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	RadiusKM  float64 `json:"radius"`
	RiskLevel string  `json:"risk_level"`
}

// SOS request lifecycle states.
const (
	SOSPending  = "PENDING"
	SOSAssigned = "ASSIGNED"
	SOSResolved = "RESOLVED"
)

// SOSRequest is an emergency distress request from a citizen, arriving
// over the API or a messaging channel.
type SOSRequest struct {
	ID        int64     `json:"id"`
	Source    string    `json:"source"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Message   string    `json:"message"`
	Location  string    `json:"location,omitempty"`
	Lat       *float64  `json:"latitude,omitempty"`
	Lng       *float64  `json:"longitude,omitempty"`
	Priority  string    `json:"priority"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// SafeRoute is a suggested evacuation route between two locations.
type SafeRoute struct {
	RouteID      string   `json:"route_id"`
	BestRoute    string   `json:"best_route"`
	ETA          string   `json:"eta"`
	SafetyScore  string   `json:"safety_score"`
	Distance     string   `json:"distance"`
	Steps        []string `json:"steps"`
	Alternatives []string `json:"alternatives"`
	Warnings     []string `json:"warnings"`
}
