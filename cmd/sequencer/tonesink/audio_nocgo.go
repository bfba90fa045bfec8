//go:build linux && !cgo

package tonesink

import (
	"log/slog"

	"github.com/gen2brain/beeep"
)

// beepMillis is how long each note beeps. The PC speaker cannot hold
// overlapping voices, so notes are short and never wait for a free.
const beepMillis = 150

type beepVoicer struct{}

func newVoicer() (voicer, error) {
	slog.Warn("audio requires CGO on Linux, falling back to system beeps")
	return beepVoicer{}, nil
}

func (beepVoicer) start(_ int, freq float64) error {
	go func() {
		if err := beeep.Beep(freq, beepMillis); err != nil {
			slog.Debug("beep failed", "error", err)
		}
	}()
	return nil
}

func (beepVoicer) free(int) {}

func drain() {}
