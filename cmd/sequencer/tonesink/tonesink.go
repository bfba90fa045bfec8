// Package tonesink previews a session on the local sound card instead of a
// synth server.
package tonesink

import (
	"fmt"

	"github.com/gigurra/scales/cmd/sequencer"
)

const (
	sampleRate = 44100
	amplitude  = 0.2
)

// voicer is the platform specific part: start a voice, free a group.
type voicer interface {
	start(group int, freq float64) error
	free(group int)
}

// Sink plays one sine voice per /s_new until its group is freed.
type Sink struct {
	v voicer
}

func New() (*Sink, error) {
	v, err := newVoicer()
	if err != nil {
		return nil, err
	}
	return &Sink{v: v}, nil
}

func (s *Sink) Send(address string, args ...any) error {
	switch address {
	case sequencer.AddressGroupNew:
		return nil
	case sequencer.AddressSynthNew:
		if len(args) < 6 {
			return fmt.Errorf("%s: expected 6 arguments, got %d", address, len(args))
		}
		group, ok := args[3].(int)
		if !ok {
			return fmt.Errorf("%s: group id is %T", address, args[3])
		}
		freq, ok := args[5].(float64)
		if !ok {
			return fmt.Errorf("%s: frequency is %T", address, args[5])
		}
		return s.v.start(group, freq)
	case sequencer.AddressGroupFreeAll:
		if len(args) < 1 {
			return fmt.Errorf("%s: missing group id", address)
		}
		group, ok := args[0].(int)
		if !ok {
			return fmt.Errorf("%s: group id is %T", address, args[0])
		}
		s.v.free(group)
		return nil
	default:
		return fmt.Errorf("unsupported address %s", address)
	}
}

// Close lets released voices fade out.
func (s *Sink) Close() {
	drain()
}
