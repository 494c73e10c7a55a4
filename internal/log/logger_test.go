package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestNewTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelDebug, Component: ComponentStore, Output: &buf})

	l.Info("opened", FieldDBPath, "/tmp/x.db")

	out := buf.String()
	if !strings.Contains(out, "component=store") {
		t.Fatalf("output missing component tag: %q", out)
	}
	if !strings.Contains(out, "db_path=/tmp/x.db") {
		t.Fatalf("output missing field: %q", out)
	}
}

func TestOpLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelWarn, Component: ComponentLedger, Output: &buf})

	l.Op(context.Background(), OpAddMeal, nil, FieldMealID, 1)
	if buf.Len() != 0 {
		t.Fatalf("successful op logged at warn level: %q", buf.String())
	}

	l.Op(context.Background(), OpAddMeal, errors.New("disk full"))
	out := buf.String()
	if !strings.Contains(out, "add_meal failed") || !strings.Contains(out, "disk full") {
		t.Fatalf("failed op not logged: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
