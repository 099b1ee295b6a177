package scheduler

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestRegister(t *testing.T) {
	s := NewScheduler(newTestLogger())

	err := s.Register(Job{Name: "purge", Spec: "*/5 * * * *", Run: func(ctx context.Context) error { return nil }})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if s.Entries() != 1 {
		t.Errorf("Entries() = %d, want 1", s.Entries())
	}
}

func TestRegisterInvalidSpec(t *testing.T) {
	s := NewScheduler(newTestLogger())

	err := s.Register(Job{Name: "broken", Spec: "not a spec", Run: func(ctx context.Context) error { return nil }})
	if err == nil {
		t.Fatal("Register() error = nil, want error for invalid spec")
	}
	if s.Entries() != 0 {
		t.Errorf("Entries() = %d, want 0", s.Entries())
	}
}

func TestStartStop(t *testing.T) {
	s := NewScheduler(newTestLogger())
	s.Start()
	s.Stop()
}

func TestFields(t *testing.T) {
	f := fields([]interface{}{"entry", 3, "now", "x", "dangling"})
	if len(f) != 2 || f["entry"] != 3 || f["now"] != "x" {
		t.Errorf("fields() = %v", f)
	}
}
