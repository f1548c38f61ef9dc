package shelfstore

import (
	"testing"

	"go.uber.org/zap"
)

func TestNoOpLogger(t *testing.T) {
	// Must be safe with any field shapes
	l := &NoOpLogger{}
	l.Debug("msg")
	l.Info("msg", "key", "value")
	l.Warn("msg", "key")
	l.Error("msg", "key", 42, "other", nil)
}

func TestStdLogger(t *testing.T) {
	l := NewStdLogger("test")
	l.Info("message", "key", "value")
	l.Warn("odd field count is tolerated", "dangling")
	l.Error("non-string values", "count", 3, "err", nil)
}

func TestZapLogger(t *testing.T) {
	l := NewZapLogger(zap.NewNop())
	l.Debug("msg", "key", "value")
	l.Info("msg", "key", "value")
	l.Warn("msg", "key", "value")
	l.Error("msg", "key", "value")
}

func TestZapLoggerConstructors(t *testing.T) {
	prod, err := NewProductionZapLogger()
	if err != nil {
		t.Fatalf("production logger: %v", err)
	}
	if prod == nil {
		t.Fatalf("expected logger")
	}

	dev, err := NewDevelopmentZapLogger()
	if err != nil {
		t.Fatalf("development logger: %v", err)
	}
	if dev == nil {
		t.Fatalf("expected logger")
	}

	sugar := NewZapLoggerFromSugar(zap.NewNop().Sugar())
	sugar.Info("msg")
}

func TestToString(t *testing.T) {
	if toString(nil) != "<nil>" {
		t.Errorf("nil formatting wrong")
	}
	if toString("s") != "s" {
		t.Errorf("string passthrough wrong")
	}
	if toString(42) != "42" {
		t.Errorf("int formatting wrong: %s", toString(42))
	}
}
