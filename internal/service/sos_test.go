package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Aakashvish187/jalrakshak.ai/internal/domain"
	"github.com/Aakashvish187/jalrakshak.ai/internal/repository/memory"
)

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (n *recordingNotifier) Notify(text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, text)
	return nil
}

func (n *recordingNotifier) messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.msgs))
	copy(out, n.msgs)
	return out
}

func TestIsDistress(t *testing.T) {
	tests := []struct {
		message string
		want    bool
	}{
		{"HELP we are trapped", true},
		{"please send rescue now", true},
		{"water entering the house, sos", true},
		{"flood on our street", true},
		{"good morning", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsDistress(tt.message); got != tt.want {
			t.Fatalf("IsDistress(%q) = %v, want %v", tt.message, got, tt.want)
		}
	}
}

func TestClassifyPriority(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"SOS trapped on roof", "HIGH"},
		{"urgent, water rising", "HIGH"},
		{"emergency at the school", "HIGH"},
		{"help, street is flooded", "MEDIUM"},
		{"rescue needed near the bridge", "MEDIUM"},
		{"just checking in", "LOW"},
	}
	for _, tt := range tests {
		if got := ClassifyPriority(tt.message); got != tt.want {
			t.Fatalf("ClassifyPriority(%q) = %q, want %q", tt.message, got, tt.want)
		}
	}
}

func TestSOSSubmit(t *testing.T) {
	store := memory.New(nil, nil)
	notifier := &recordingNotifier{}
	svc := NewSOSService(store, notifier)
	ctx := context.Background()

	saved, err := svc.Submit(ctx, domain.SOSRequest{
		Source:   "telegram",
		Username: "asha",
		Message:  "SOS water is at the first floor",
		Location: "Kurla East",
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if saved.ID == 0 {
		t.Fatal("Submit did not assign an id")
	}
	if saved.Status != domain.SOSPending {
		t.Fatalf("status = %q, want %q", saved.Status, domain.SOSPending)
	}
	if saved.Priority != "HIGH" {
		t.Fatalf("priority = %q, want HIGH", saved.Priority)
	}

	msgs := notifier.messages()
	if len(msgs) != 1 {
		t.Fatalf("got %d notifications, want 1", len(msgs))
	}

	got, err := svc.Get(ctx, saved.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Message != saved.Message {
		t.Fatalf("stored message = %q, want %q", got.Message, saved.Message)
	}
}

func TestSOSSubmitKeepsExplicitPriority(t *testing.T) {
	svc := NewSOSService(memory.New(nil, nil), &recordingNotifier{})

	saved, err := svc.Submit(context.Background(), domain.SOSRequest{
		Message:  "routine check",
		Priority: "HIGH",
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if saved.Priority != "HIGH" {
		t.Fatalf("priority = %q, want explicit HIGH preserved", saved.Priority)
	}
}

func TestSOSSubmitRejectsNonDistressMessage(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewSOSService(memory.New(nil, nil), notifier)

	_, err := svc.Submit(context.Background(), domain.SOSRequest{Message: "what time does the relief office open"})
	if !errors.Is(err, domain.ErrNotDistress) {
		t.Fatalf("Submit error = %v, want ErrNotDistress", err)
	}
	if msgs := notifier.messages(); len(msgs) != 0 {
		t.Fatalf("got %d notifications, want none for a rejected request", len(msgs))
	}
}

func TestSOSResolve(t *testing.T) {
	svc := NewSOSService(memory.New(nil, nil), &recordingNotifier{})
	ctx := context.Background()

	saved, err := svc.Submit(ctx, domain.SOSRequest{Message: "HELP"})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	if err := svc.Resolve(ctx, saved.ID, "rescued by Team Gamma-3"); err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	got, err := svc.Get(ctx, saved.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Status != domain.SOSResolved {
		t.Fatalf("status = %q, want %q", got.Status, domain.SOSResolved)
	}
	if got.Notes != "rescued by Team Gamma-3" {
		t.Fatalf("notes = %q, want resolution notes", got.Notes)
	}

	if err := svc.Resolve(ctx, 999, ""); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Resolve of unknown id error = %v, want ErrNotFound", err)
	}
}
