package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Aakashvish187/jalrakshak.ai/internal/domain"
	"github.com/Aakashvish187/jalrakshak.ai/internal/notify"
	"github.com/Aakashvish187/jalrakshak.ai/internal/observability/metrics"
)

// Distress keywords that mark a message as an emergency.
var sosKeywords = []string{"HELP", "SOS", "EMERGENCY", "FLOOD", "RESCUE", "DANGER", "URGENT"}

// Keywords that escalate a request to high priority.
var highPriorityKeywords = []string{"SOS", "EMERGENCY", "DANGER", "URGENT"}

// SOSService ingests and tracks emergency distress requests.
type SOSService struct {
	store    domain.SOSStore
	notifier notify.Notifier
}

// NewSOSService creates a new SOS service.
func NewSOSService(store domain.SOSStore, notifier notify.Notifier) *SOSService {
	return &SOSService{store: store, notifier: notifier}
}

// IsDistress reports whether a free-form message contains any of the
// distress keywords.
func IsDistress(message string) bool {
	upper := strings.ToUpper(message)
	for _, kw := range sosKeywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

// ClassifyPriority derives the request priority from its message.
func ClassifyPriority(message string) string {
	upper := strings.ToUpper(message)
	for _, kw := range highPriorityKeywords {
		if strings.Contains(upper, kw) {
			return "HIGH"
		}
	}
	if IsDistress(message) {
		return "MEDIUM"
	}
	return "LOW"
}

// Submit stores a new distress request and announces it. The request
// enters the queue as pending. Messages without any distress keyword
// are rejected unless the caller set an explicit priority.
func (s *SOSService) Submit(ctx context.Context, req domain.SOSRequest) (domain.SOSRequest, error) {
	if req.Priority == "" {
		if !IsDistress(req.Message) {
			return domain.SOSRequest{}, domain.ErrNotDistress
		}
		req.Priority = ClassifyPriority(req.Message)
	}
	req.Status = domain.SOSPending
	if req.Timestamp.IsZero() {
		req.Timestamp = time.Now().UTC()
	}

	id, err := s.store.SaveSOS(ctx, req)
	if err != nil {
		return domain.SOSRequest{}, fmt.Errorf("sos: save request: %w", err)
	}
	req.ID = id

	metrics.IncSOS(req.Priority)

	text := fmt.Sprintf("🆘 SOS #%d [%s]\nFrom: %s\n%s", req.ID, req.Priority, req.Username, req.Message)
	if req.Location != "" {
		text += "\nLocation: " + req.Location
	}
	if err := s.notifier.Notify(text); err != nil {
		metrics.IncNotify(metrics.ResultError)
		log.Printf("Failed to announce SOS #%d: %v", req.ID, err)
	} else {
		metrics.IncNotify(metrics.ResultSuccess)
	}

	return req, nil
}

// List returns distress requests, optionally filtered by status.
func (s *SOSService) List(ctx context.Context, status string, limit int) ([]domain.SOSRequest, error) {
	return s.store.ListSOS(ctx, status, limit)
}

// Get returns one distress request by id.
func (s *SOSService) Get(ctx context.Context, id int64) (domain.SOSRequest, error) {
	return s.store.GetSOS(ctx, id)
}

// Resolve closes a distress request with operator notes.
func (s *SOSService) Resolve(ctx context.Context, id int64, notes string) error {
	return s.store.ResolveSOS(ctx, id, notes)
}
