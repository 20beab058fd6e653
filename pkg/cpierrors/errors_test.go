package cpierrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	e := New(KindNotFound, "worker i-123 not found")
	if got := e.Error(); got != "NOT_FOUND: worker i-123 not found" {
		t.Errorf("unexpected message: %s", got)
	}

	e = e.WithAction("get_worker")
	if got := e.Error(); got != "[get_worker] NOT_FOUND: worker i-123 not found" {
		t.Errorf("unexpected message with action: %s", got)
	}
}

func TestWithActionCopies(t *testing.T) {
	sentinel := New(KindConflict, "resource busy")

	stamped := sentinel.WithAction("delete_volume")
	if stamped.Action != "delete_volume" {
		t.Errorf("stamped action = %q", stamped.Action)
	}
	if sentinel.Action != "" {
		t.Errorf("receiver must stay untouched, got action %q", sentinel.Action)
	}
	if stamped == sentinel {
		t.Error("WithAction must return a distinct value")
	}
	if !errors.Is(stamped, sentinel) {
		t.Error("the copy still matches its sentinel by kind")
	}

	var nilErr *Error
	if nilErr.WithAction("x") != nil {
		t.Error("nil receiver should stay nil")
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("api error VolumeInUse: busy")
	e := Wrap(KindConflict, cause, "volume busy")

	if !errors.Is(e, cause) {
		t.Error("wrapped error should match its cause via errors.Is")
	}
	if e.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}

	if Wrap(KindConflict, nil, "no cause") != nil {
		t.Error("Wrap of nil cause should be nil")
	}
}

func TestIsMatchesByKind(t *testing.T) {
	err := fmt.Errorf("context: %w", Newf(KindRateLimited, "throttled after %d calls", 10))

	if !errors.Is(err, New(KindRateLimited, "")) {
		t.Error("errors.Is should match by kind through wrapping")
	}
	if errors.Is(err, New(KindNotFound, "")) {
		t.Error("errors.Is should not match a different kind")
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"classified", New(KindAuthentication, "bad creds"), KindAuthentication},
		{"wrapped classified", fmt.Errorf("outer: %w", New(KindConflict, "busy")), KindConflict},
		{"unclassified", errors.New("plain"), KindUnknownBackend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(New(KindNotFound, "gone")) {
		t.Error("expected NotFound to match")
	}
	if IsNotFound(New(KindConflict, "busy")) {
		t.Error("Conflict should not match IsNotFound")
	}
	if IsNotFound(nil) {
		t.Error("nil should not match IsNotFound")
	}
}
