package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tuanasish/leave-request/internal/config"
)

type fakeService struct {
	name     string
	startErr error
	block    bool

	mu      sync.Mutex
	stopped bool
	order   *[]string
}

func (s *fakeService) Name() string {
	return s.name
}

func (s *fakeService) Start(ctx context.Context) error {
	if s.block {
		<-ctx.Done()
		return nil
	}
	return s.startErr
}

func (s *fakeService) Stop(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.order != nil {
		*s.order = append(*s.order, s.name)
	}
	return nil
}

func TestRunnerStopsAllWhenOneFails(t *testing.T) {
	var order []string
	first := &fakeService{name: "http", block: true, order: &order}
	second := &fakeService{name: "worker", startErr: errors.New("redis down"), order: &order}

	err := NewRunner(first, second).Run(context.Background(), time.Second, nil)
	if err == nil || err.Error() != "worker: redis down" {
		t.Fatalf("unexpected run error: %v", err)
	}
	if !first.stopped || !second.stopped {
		t.Fatalf("all services should be stopped")
	}
	if len(order) != 2 || order[0] != "worker" || order[1] != "http" {
		t.Fatalf("services should stop in reverse order, got %v", order)
	}
}

func TestRunnerReturnsNilOnCancel(t *testing.T) {
	svc := &fakeService{name: "reminder", block: true}
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	if err := NewRunner(svc).Run(ctx, time.Second, nil); err != nil {
		t.Fatalf("cancelled run should return nil, got %v", err)
	}
	if !svc.stopped {
		t.Fatalf("service should be stopped")
	}
}

func TestRunnerRejectsEmpty(t *testing.T) {
	if err := NewRunner().Run(context.Background(), time.Second, nil); err == nil {
		t.Fatalf("empty runner should fail")
	}
	if err := NewRunner(nil).Run(context.Background(), time.Second, nil); err == nil {
		t.Fatalf("nil service should fail")
	}
}

func TestBuildRunnerValidatesInput(t *testing.T) {
	if _, _, err := BuildRunner(nil, nil, ModeAll); err == nil {
		t.Fatalf("nil config should fail")
	}
	if _, _, err := BuildRunner(&config.Config{}, nil, ModeAll); err == nil {
		t.Fatalf("nil database should fail")
	}
}

func TestNormalizeOptionsDefaults(t *testing.T) {
	opts := normalizeOptions(Options{})
	if opts.Mode != ModeAll || opts.ShutdownTimeout != 10*time.Second || opts.Logger == nil {
		t.Fatalf("unexpected defaults: %+v", opts)
	}
}

func TestParseMode(t *testing.T) {
	cases := map[string]string{
		"":         ModeAll,
		" Worker ": ModeWorker,
		"api":      ModeAPI,
		"all":      ModeAll,
	}
	for raw, want := range cases {
		got, err := ParseMode(raw)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %q, %v; want %q", raw, got, err, want)
		}
	}
	if _, err := ParseMode("cron"); err == nil {
		t.Fatalf("unknown mode should fail")
	}
	if !servesHTTP(ModeAPI) || servesHTTP(ModeWorker) || !runsNotifications(ModeWorker) || runsNotifications(ModeAPI) {
		t.Fatalf("unexpected mode split")
	}
}
