package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestIs_MatchesByKind(t *testing.T) {
	err := fmt.Errorf("resolve: %w", NotFound("삼성"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected errors.Is(err, ErrNotFound) for %v", err)
	}
	if errors.Is(err, ErrValidation) {
		t.Errorf("not-found error must not match validation")
	}
}

func TestUnwrap_KeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Provider("005930", cause)
	if !errors.Is(err, cause) {
		t.Errorf("expected cause in chain")
	}
	if !errors.Is(err, ErrProvider) {
		t.Errorf("expected provider kind")
	}
}

func TestKindOf(t *testing.T) {
	k, ok := KindOf(fmt.Errorf("wrap: %w", DirectoryUnavailable(errors.New("eof"))))
	if !ok || k != KindDirectoryUnavailable {
		t.Errorf("got %q %v", k, ok)
	}
	if _, ok := KindOf(errors.New("plain")); ok {
		t.Errorf("plain error should not be classified")
	}
}
