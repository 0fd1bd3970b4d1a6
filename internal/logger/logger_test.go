package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger_Environments(t *testing.T) {
	for _, env := range []string{"prod", "local", "dev", "docker"} {
		t.Run(env, func(t *testing.T) {
			l, err := NewLogger(env)
			if err != nil {
				t.Fatalf("NewLogger(%q): %v", env, err)
			}
			_ = l.Sync()
		})
	}
}

func TestNewLogger_UnknownEnv(t *testing.T) {
	if _, err := NewLogger("staging"); err == nil {
		t.Fatal("expected error for unknown environment")
	}
}

func TestNewLogger_LevelOverride(t *testing.T) {
	l, err := NewLogger("prod", WithLevel("warn"))
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if l.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
	if !l.Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn should be enabled")
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	if _, err := NewLogger("local", WithLevel("loud")); err == nil {
		t.Fatal("expected error for invalid level")
	}
}

func TestNewLogger_DefaultLevels(t *testing.T) {
	prod, err := NewLogger("prod")
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if prod.Core().Enabled(zapcore.DebugLevel) || !prod.Core().Enabled(zapcore.InfoLevel) {
		t.Error("prod should log at info")
	}

	local, err := NewLogger("local")
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if !local.Core().Enabled(zapcore.DebugLevel) {
		t.Error("local should log at debug")
	}
}

func TestNewLogger_OutputJSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewLogger("prod", WithOutput(&buf), WithName("cli"))
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	l.Info("evaluation finished", zap.Int("documents", 3))
	_ = l.Sync()

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("entry is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "evaluation finished" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["logger"] != "cli" {
		t.Errorf("logger = %v, want cli", entry["logger"])
	}
	if entry["documents"] != 3.0 {
		t.Errorf("documents = %v, want 3", entry["documents"])
	}
}

func TestNewLogger_CLILevelSuppressesInfo(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewLogger("local", WithLevel(CLILevel), WithOutput(&buf))
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	l.Info("quiet")
	l.Warn("loud")
	_ = l.Sync()

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Errorf("info entry written at %s level: %q", CLILevel, out)
	}
	if !strings.Contains(out, "loud") || !strings.Contains(out, "WARN") {
		t.Errorf("warn entry missing: %q", out)
	}
}

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext must never return nil")
	}

	l := zap.NewExample()
	ctx := ContextWithLogger(context.Background(), l)
	if FromContext(ctx) != l {
		t.Error("expected stored logger")
	}
}

func TestFromContextOr(t *testing.T) {
	fallback := zap.NewExample()
	if FromContextOr(context.Background(), fallback) != fallback {
		t.Error("expected fallback for empty context")
	}

	stored := zap.NewNop()
	ctx := ContextWithLogger(context.Background(), stored)
	if FromContextOr(ctx, fallback) != stored {
		t.Error("expected stored logger over fallback")
	}
}
