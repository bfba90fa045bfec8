// Package midisink renders a playback session to a Standard MIDI File
// instead of a live synth server.
package midisink

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/gigurra/scales/cmd/sequencer"
	"github.com/gigurra/scales/cmd/theory"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	ticksPerQuarter = 960
	velocity        = 100
	channel         = 0
)

// Sink turns /s_new into note-ons and /g_freeAll into note-offs for every
// note still sounding. Message times come from the clock shared with the
// sequencer.
type Sink struct {
	clock sequencer.Clock
	tempo float64

	track    smf.Track
	last     time.Duration
	sounding []uint8
	started  bool
}

func New(clock sequencer.Clock, tempo float64) *Sink {
	return &Sink{clock: clock, tempo: tempo}
}

// Send records a message at the current clock time. Rejected messages
// leave the track and its timing untouched.
func (s *Sink) Send(address string, args ...any) error {
	switch address {
	case sequencer.AddressGroupNew:
		s.track.Add(s.advance(), smf.MetaTempo(s.tempo))
		s.started = true
	case sequencer.AddressSynthNew:
		if !s.started {
			return fmt.Errorf("%s before %s", address, sequencer.AddressGroupNew)
		}
		freq, err := frequencyArg(args)
		if err != nil {
			return err
		}
		key := uint8(theory.FrequencyToMidi(freq))
		s.track.Add(s.advance(), midi.NoteOn(channel, key, velocity))
		s.sounding = append(s.sounding, key)
	case sequencer.AddressGroupFreeAll:
		delta := s.advance()
		for i, key := range s.sounding {
			d := uint32(0)
			if i == 0 {
				d = delta
			}
			s.track.Add(d, midi.NoteOff(channel, key))
		}
		s.sounding = nil
	default:
		return fmt.Errorf("unsupported address %s", address)
	}
	return nil
}

// advance returns the ticks elapsed since the previous message.
func (s *Sink) advance() uint32 {
	now := s.clock.Now()
	elapsed := now - s.last
	s.last = now
	beats := elapsed.Seconds() * s.tempo / 60.0
	return uint32(math.Round(beats * ticksPerQuarter))
}

func frequencyArg(args []any) (float64, error) {
	for i := 0; i+1 < len(args); i++ {
		if args[i] != sequencer.FreqParam {
			continue
		}
		switch v := args[i+1].(type) {
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		}
	}
	return 0, fmt.Errorf("no %s argument in %v", sequencer.FreqParam, args)
}

func (s *Sink) file() (*smf.SMF, error) {
	file := smf.New()
	file.TimeFormat = smf.MetricTicks(ticksPerQuarter)

	track := append(smf.Track(nil), s.track...)
	track.Close(0)
	if err := file.Add(track); err != nil {
		return nil, fmt.Errorf("error adding track: %w", err)
	}
	return file, nil
}

// WriteTo encodes everything received so far as a single-track SMF.
func (s *Sink) WriteTo(w io.Writer) (int64, error) {
	file, err := s.file()
	if err != nil {
		return 0, err
	}
	return file.WriteTo(w)
}

// WriteFile writes the rendered session to path.
func (s *Sink) WriteFile(path string) error {
	file, err := s.file()
	if err != nil {
		return err
	}
	if err := file.WriteFile(path); err != nil {
		return fmt.Errorf("error writing MIDI file: %w", err)
	}
	return nil
}
