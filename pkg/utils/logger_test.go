package utils

import "testing"

func TestNewLogger_debug(t *testing.T) {
	logger, err := NewLogger(true)
	if err != nil {
		t.Fatalf("NewLogger(true): %v", err)
	}
	if logger == nil {
		t.Fatal("logger is nil")
	}
	if !logger.Core().Enabled(-1) { // zap.DebugLevel
		t.Error("debug logger should enable debug level")
	}
}

func TestNewLogger_production(t *testing.T) {
	logger, err := NewLogger(false)
	if err != nil {
		t.Fatalf("NewLogger(false): %v", err)
	}
	if logger.Core().Enabled(-1) {
		t.Error("production logger should not enable debug level")
	}
}
