package modes

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/gigurra/scales/cmd/theory"
)

func TestRun_ListsEveryMode(t *testing.T) {
	var stdout bytes.Buffer
	if err := Run(&Params{Tonic: "c"}, &stdout); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	out := stdout.String()
	for _, name := range []string{"major", "ionian", "dorian", "phrygian", "lydian", "mixolydian", "minor", "aeolian", "locrian"} {
		if !strings.Contains(out, name) {
			t.Errorf("output is missing %s:\n%s", name, out)
		}
	}
	if !strings.Contains(out, "WWHWWWH") {
		t.Errorf("output is missing the major pattern:\n%s", out)
	}
}

func TestRun_UnknownTonic(t *testing.T) {
	var stdout bytes.Buffer
	if err := Run(&Params{Tonic: "h"}, &stdout); !errors.Is(err, theory.ErrUnknownPitch) {
		t.Errorf("expected ErrUnknownPitch, got %v", err)
	}
}
