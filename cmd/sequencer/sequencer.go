// Package sequencer turns a scale into a timed series of synth server
// control messages.
package sequencer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/gigurra/scales/cmd/theory"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Server command addresses and argument constants.
const (
	AddressGroupNew     = "/g_new"
	AddressSynthNew     = "/s_new"
	AddressGroupFreeAll = "/g_freeAll"

	AddActionHead = 1
	AddActionTail = 1
	RootNodeID    = 0
	AutoNodeID    = -1
	FreqParam     = "freq"

	TailDuration = 500 * time.Millisecond
)

// Errors returned by Play. Both are wrapped with the offending value.
var (
	ErrInvalidConfig = errors.New("invalid playback config")
	ErrTransport     = errors.New("transport error")
)

// Options configure one playback session.
type Options struct {
	Tempo     float64 // beats per minute
	Octave    int
	SynthName string
	GroupID   int
}

// DefaultOptions mirror the server defaults of a stock scsynth setup.
func DefaultOptions() Options {
	return Options{
		Tempo:     140,
		Octave:    theory.DefaultOctave,
		SynthName: "default",
		GroupID:   1000,
	}
}

func (o Options) validate() error {
	if math.IsNaN(o.Tempo) || math.IsInf(o.Tempo, 0) || o.Tempo <= 0 {
		return fmt.Errorf("%w: tempo must be positive, got %v", ErrInvalidConfig, o.Tempo)
	}
	if 60.0/o.Tempo*float64(time.Second) >= math.MaxInt64 {
		return fmt.Errorf("%w: tempo %v is too slow to schedule", ErrInvalidConfig, o.Tempo)
	}
	if o.Octave < -1 || o.Octave > 9 {
		return fmt.Errorf("%w: octave must be in [-1, 9], got %d", ErrInvalidConfig, o.Octave)
	}
	if o.SynthName == "" {
		return fmt.Errorf("%w: synth name is empty", ErrInvalidConfig)
	}
	if o.GroupID <= RootNodeID {
		return fmt.Errorf("%w: group id must be above %d, got %d", ErrInvalidConfig, RootNodeID, o.GroupID)
	}
	return nil
}

// BeatDuration is the delay between consecutive notes.
func (o Options) BeatDuration() time.Duration {
	return time.Duration(60.0 / o.Tempo * float64(time.Second))
}

// Note is one resolved scale entry.
type Note struct {
	Name      string
	Spelling  theory.Spelling
	Octave    int
	Midi      int
	Frequency float64
}

// Session is the state of a single Play call.
type Session struct {
	ID      string
	Options Options
	Notes   []Note
}

// Result summarises a finished session.
type Result struct {
	Session  Session
	Messages int
	Elapsed  time.Duration
}

// Sequencer plays scales into a Sink. It keeps no state between calls.
type Sequencer struct {
	Sink   Sink
	Clock  Clock
	Logger *slog.Logger
}

func New(sink Sink) *Sequencer {
	return &Sequencer{
		Sink:   sink,
		Clock:  NewRealClock(),
		Logger: slog.Default(),
	}
}

// Resolve converts scale entries to notes. Entries without octave digits
// are placed in the given octave; entries with digits keep their own.
func Resolve(scale []string, octave int) ([]Note, error) {
	notes := make([]Note, 0, len(scale))
	for _, entry := range scale {
		name := entry
		if !theory.HasOctave(entry) {
			name = fmt.Sprintf("%s%d", entry, octave)
		}
		spelling, oct, err := theory.ParseNoteName(name, octave)
		if err != nil {
			return nil, err
		}
		midi, err := theory.ToMidi(spelling, oct)
		if err != nil {
			return nil, err
		}
		if midi < 0 || midi > 127 {
			return nil, fmt.Errorf("%w: %s is outside the MIDI range", ErrInvalidConfig, name)
		}
		notes = append(notes, Note{
			Name:      name,
			Spelling:  spelling,
			Octave:    oct,
			Midi:      midi,
			Frequency: theory.ToFrequency(midi),
		})
	}
	return notes, nil
}

// Play runs one session: create the group, start one synth per note a beat
// apart, wait for the tail and free the group. Input errors are reported
// before anything is sent. A failed send aborts the session without
// cleanup.
func (s *Sequencer) Play(ctx context.Context, scale []string, opts Options) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if len(scale) == 0 {
		return nil, fmt.Errorf("%w: scale is empty", ErrInvalidConfig)
	}
	notes, err := Resolve(scale, opts.Octave)
	if err != nil {
		return nil, err
	}

	clock := s.Clock
	if clock == nil {
		clock = NewRealClock()
	}
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	session := Session{
		ID:      uuid.NewString(),
		Options: opts,
		Notes:   notes,
	}
	logger = logger.With("session", session.ID, "group", opts.GroupID)
	result := &Result{Session: session}
	start := clock.Now()
	beat := opts.BeatDuration()

	send := func(address string, args ...any) error {
		if err := s.Sink.Send(address, args...); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrTransport, address, err)
		}
		result.Messages++
		return nil
	}

	logger.Info("creating synth group", "synth", opts.SynthName, "tempo", opts.Tempo)
	if err := send(AddressGroupNew, opts.GroupID, AddActionHead, RootNodeID); err != nil {
		return result, err
	}

	logger.Info("playing scale", "notes", lo.Map(notes, func(n Note, _ int) string { return n.Name }))
	for _, n := range notes {
		logger.Debug("note", "name", n.Name, "midi", n.Midi, "freq", n.Frequency)
		if err := send(AddressSynthNew, opts.SynthName, AutoNodeID, AddActionTail, opts.GroupID, FreqParam, n.Frequency); err != nil {
			return result, err
		}
		if err := clock.Sleep(ctx, beat); err != nil {
			return result, err
		}
	}

	if err := clock.Sleep(ctx, TailDuration); err != nil {
		return result, err
	}

	logger.Info("freeing synth group")
	if err := send(AddressGroupFreeAll, opts.GroupID); err != nil {
		return result, err
	}

	result.Elapsed = clock.Now() - start
	return result, nil
}
