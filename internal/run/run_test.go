package run

import (
	"testing"
	"time"

	"github.com/OlivierVanGelder/format-images-to-socials/internal/mediakind"
)

func TestNew(t *testing.T) {
	r := New()

	if r.ID == "" {
		t.Error("expected run to have an ID")
	}
	if r.Status != StatusUnresolved {
		t.Errorf("expected status %s, got %s", StatusUnresolved, r.Status)
	}
	if r.Kind != mediakind.KindUnknown {
		t.Errorf("expected kind %s, got %s", mediakind.KindUnknown, r.Kind)
	}
	if r.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
	if r.UpdatedAt.IsZero() {
		t.Error("expected UpdatedAt to be set")
	}
	if r.Written == nil {
		t.Error("expected Written to be initialized")
	}
}

func TestNewWithID(t *testing.T) {
	id := "test-run-123"
	r := NewWithID(id)

	if r.ID != id {
		t.Errorf("expected ID %s, got %s", id, r.ID)
	}
	if r.Status != StatusUnresolved {
		t.Errorf("expected status %s, got %s", StatusUnresolved, r.Status)
	}
}

func TestRun_ValidTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		wantErr bool
	}{
		// Valid transitions from UNRESOLVED
		{"UNRESOLVED to KIND_RESOLVED", StatusUnresolved, StatusKindResolved, false},
		{"UNRESOLVED to FAILED", StatusUnresolved, StatusFailed, false},
		// Valid transitions from KIND_RESOLVED
		{"KIND_RESOLVED to TRANSFORMING", StatusKindResolved, StatusTransforming, false},
		{"KIND_RESOLVED to FAILED", StatusKindResolved, StatusFailed, false},
		// Valid transitions from TRANSFORMING
		{"TRANSFORMING to WRITTEN", StatusTransforming, StatusWritten, false},
		{"TRANSFORMING to FAILED", StatusTransforming, StatusFailed, false},
		// Valid transitions from WRITTEN
		{"WRITTEN to TRANSFORMING", StatusWritten, StatusTransforming, false},
		{"WRITTEN to DONE", StatusWritten, StatusDone, false},
		{"WRITTEN to FAILED", StatusWritten, StatusFailed, false},
		// Invalid transitions
		{"UNRESOLVED to TRANSFORMING", StatusUnresolved, StatusTransforming, true},
		{"UNRESOLVED to WRITTEN", StatusUnresolved, StatusWritten, true},
		{"UNRESOLVED to DONE", StatusUnresolved, StatusDone, true},
		{"KIND_RESOLVED to WRITTEN", StatusKindResolved, StatusWritten, true},
		{"KIND_RESOLVED to DONE", StatusKindResolved, StatusDone, true},
		{"TRANSFORMING to DONE", StatusTransforming, StatusDone, true},
		{"TRANSFORMING to KIND_RESOLVED", StatusTransforming, StatusKindResolved, true},
		{"WRITTEN to KIND_RESOLVED", StatusWritten, StatusKindResolved, true},
		{"DONE to TRANSFORMING", StatusDone, StatusTransforming, true},
		{"DONE to FAILED", StatusDone, StatusFailed, true},
		{"FAILED to KIND_RESOLVED", StatusFailed, StatusKindResolved, true},
		{"FAILED to DONE", StatusFailed, StatusDone, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewWithID("test")
			r.Status = tt.from

			err := r.TransitionTo(tt.to)

			if tt.wantErr && err == nil {
				t.Errorf("expected error for transition %s -> %s", tt.from, tt.to)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error for transition %s -> %s: %v", tt.from, tt.to, err)
			}
		})
	}
}

func TestRun_ResolveKind(t *testing.T) {
	r := New()

	err := r.ResolveKind(mediakind.KindImage, "work/input.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if r.Status != StatusKindResolved {
		t.Errorf("expected status %s, got %s", StatusKindResolved, r.Status)
	}
	if r.Kind != mediakind.KindImage {
		t.Errorf("expected kind %s, got %s", mediakind.KindImage, r.Kind)
	}
	if r.SourcePath != "work/input.png" {
		t.Errorf("expected source path work/input.png, got %s", r.SourcePath)
	}
}

func TestRun_RecordWrite_CyclesStates(t *testing.T) {
	r := New()
	_ = r.ResolveKind(mediakind.KindImage, "work/input.png")
	_ = r.BeginTransform()

	startedAt := r.StartedAt
	if startedAt.IsZero() {
		t.Fatal("expected StartedAt to be set")
	}

	if err := r.RecordWrite("out/output_tiktok.jpg"); err != nil {
		t.Fatalf("unexpected error on first write: %v", err)
	}
	if r.GetStatus() != StatusWritten {
		t.Errorf("expected status %s, got %s", StatusWritten, r.GetStatus())
	}

	// The second write re-enters TRANSFORMING internally.
	if err := r.RecordWrite("out/output_instagram.jpg"); err != nil {
		t.Fatalf("unexpected error on second write: %v", err)
	}
	if r.GetStatus() != StatusWritten {
		t.Errorf("expected status %s, got %s", StatusWritten, r.GetStatus())
	}

	if !r.StartedAt.Equal(startedAt) {
		t.Error("expected StartedAt to be set only once")
	}

	outputs := r.Outputs()
	want := []string{"out/output_tiktok.jpg", "out/output_instagram.jpg"}
	if len(outputs) != len(want) {
		t.Fatalf("expected %d outputs, got %d", len(want), len(outputs))
	}
	for i, path := range want {
		if outputs[i] != path {
			t.Errorf("output %d = %s, want %s", i, outputs[i], path)
		}
	}
}

func TestRun_RecordWrite_BeforeTransform(t *testing.T) {
	r := New()

	err := r.RecordWrite("out/output_tiktok.jpg")
	if err == nil {
		t.Fatal("expected error recording a write before transforming")
	}
	if len(r.Outputs()) != 0 {
		t.Errorf("expected no outputs, got %v", r.Outputs())
	}
}

func TestRun_Finish(t *testing.T) {
	r := New()
	_ = r.ResolveKind(mediakind.KindImage, "work/input.png")
	_ = r.BeginTransform()
	_ = r.RecordWrite("out/output_tiktok.jpg")

	err := r.Finish()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if r.Status != StatusDone {
		t.Errorf("expected status %s, got %s", StatusDone, r.Status)
	}
	if r.CompletedAt.IsZero() {
		t.Error("expected CompletedAt to be set")
	}
	if !r.IsTerminal() {
		t.Error("expected run to be terminal")
	}
}

func TestRun_Fail(t *testing.T) {
	r := New()
	_ = r.ResolveKind(mediakind.KindImage, "work/input.png")
	_ = r.BeginTransform()

	errMsg := "something went wrong"
	err := r.Fail(errMsg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if r.Status != StatusFailed {
		t.Errorf("expected status %s, got %s", StatusFailed, r.Status)
	}
	if r.Error != errMsg {
		t.Errorf("expected error %q, got %q", errMsg, r.Error)
	}
	if r.CompletedAt.IsZero() {
		t.Error("expected CompletedAt to be set on failure")
	}
	if !r.IsTerminal() {
		t.Error("expected run to be terminal")
	}
}

func TestRun_Fail_BeforeResolution(t *testing.T) {
	r := New()

	err := r.Fail("download failed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Status != StatusFailed {
		t.Errorf("expected status %s, got %s", StatusFailed, r.Status)
	}
}

func TestRun_Outputs_ReturnsCopy(t *testing.T) {
	r := New()
	_ = r.ResolveKind(mediakind.KindImage, "work/input.png")
	_ = r.BeginTransform()
	_ = r.RecordWrite("out/a.jpg")

	outputs := r.Outputs()
	outputs[0] = "mutated"

	if r.Outputs()[0] != "out/a.jpg" {
		t.Error("expected Outputs to return a copy")
	}
}

func TestRun_Timestamps(t *testing.T) {
	before := time.Now()
	r := New()

	if r.CreatedAt.Before(before.Add(-time.Second)) {
		t.Error("expected CreatedAt near creation time")
	}
	if !r.StartedAt.IsZero() {
		t.Error("expected StartedAt to be unset before transforming")
	}
	if !r.CompletedAt.IsZero() {
		t.Error("expected CompletedAt to be unset before completion")
	}
}
