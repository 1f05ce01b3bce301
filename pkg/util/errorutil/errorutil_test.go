package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestToDomainError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"domain error passes through", NewForbidden("nope"), CodeForbidden, http.StatusForbidden},
		{"wrapped domain error", fmt.Errorf("apply: %w", NewInvalidTransition("bad", nil)), CodeInvalidTransition, http.StatusConflict},
		{"no rows maps to not found", pgx.ErrNoRows, CodeNotFound, http.StatusNotFound},
		{"unknown error is internal", errors.New("boom"), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range cases {
		got := ToDomainError(tt.err)
		if got.Code != tt.code || got.HTTPStatus != tt.status {
			t.Fatalf("%s: got code=%s status=%d, want %s/%d", tt.name, got.Code, got.HTTPStatus, tt.code, tt.status)
		}
	}
	if ToDomainError(nil) != nil {
		t.Fatalf("nil error should map to nil")
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("scan: %w", NewNotFoundMessage("Card not registered", nil))
	if !HasCode(err, CodeNotFound) {
		t.Fatalf("expected NOT_FOUND code")
	}
	if HasCode(err, CodeForbidden) {
		t.Fatalf("unexpected FORBIDDEN code")
	}
	if HasCode(errors.New("plain"), CodeNotFound) {
		t.Fatalf("plain errors carry no code")
	}
}
