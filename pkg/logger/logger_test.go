package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestInfoIncludesServiceAndFields(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "api", Output: &buf})

	ctx := logg.WithFields(context.Background(), map[string]any{"order_id": "ORD001"})
	logg.Info(ctx, "order created")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected json log line: %v", err)
	}
	if entry["service"] != "api" {
		t.Fatalf("expected service field, got %v", entry["service"])
	}
	if entry["order_id"] != "ORD001" {
		t.Fatalf("expected order_id field, got %v", entry["order_id"])
	}
	if entry["message"] != "order created" {
		t.Fatalf("expected message, got %v", entry["message"])
	}
}

func TestErrorCarriesErrAndStack(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "api", Output: &buf})

	logg.Error(context.Background(), "save failed", errors.New("boom"))

	line := buf.String()
	if !strings.Contains(line, `"error":"boom"`) {
		t.Fatalf("expected error field in %s", line)
	}
	if !strings.Contains(line, "stack") {
		t.Fatalf("expected stack field in %s", line)
	}
}

func TestParseLevel(t *testing.T) {
	if lvl := ParseLevel("debug"); lvl != zerolog.DebugLevel {
		t.Fatalf("expected debug, got %s", lvl)
	}
	if lvl := ParseLevel(""); lvl != zerolog.InfoLevel {
		t.Fatalf("expected info fallback, got %s", lvl)
	}
	if lvl := ParseLevel("nonsense"); lvl != zerolog.InfoLevel {
		t.Fatalf("expected info fallback for junk, got %s", lvl)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "api", Level: zerolog.WarnLevel, Output: &buf})

	logg.Info(context.Background(), "suppressed")
	if buf.Len() != 0 {
		t.Fatalf("expected info below warn level to be dropped, got %s", buf.String())
	}
}
