package cli

import (
	"errors"
	"fmt"
	"testing"
)

func TestCommandError(t *testing.T) {
	inner := errors.New("template not found")
	err := NewCommandError("lint", inner)

	if got := err.Error(); got != "command lint failed: template not found" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, inner) {
		t.Error("CommandError does not unwrap")
	}
}

func TestConfigError(t *testing.T) {
	err := NewConfigError("cache.ttl", "must be positive")
	want := "config error in cache.ttl: must be positive"
	if got := fmt.Sprint(err); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
