// Package oscsink sends sequencer messages to a synth server over UDP as
// Open Sound Control packets.
package oscsink

import (
	"fmt"

	"github.com/hypebeast/go-osc/osc"
)

const (
	DefaultHost = "127.0.0.1"
	DefaultPort = 57110
)

type sender interface {
	Send(packet osc.Packet) error
}

// Sink is a fire-and-forget OSC client. Replies from the server are never
// read.
type Sink struct {
	client sender
}

func New(host string, port int) *Sink {
	return &Sink{client: osc.NewClient(host, port)}
}

func (s *Sink) Send(address string, args ...any) error {
	msg := osc.NewMessage(address)
	for _, arg := range args {
		v, err := toOSC(arg)
		if err != nil {
			return fmt.Errorf("%s: %w", address, err)
		}
		msg.Append(v)
	}
	return s.client.Send(msg)
}

// toOSC narrows Go values to the 32-bit type tags scsynth understands.
func toOSC(arg any) (any, error) {
	switch v := arg.(type) {
	case int:
		return int32(v), nil
	case int32, float32, string, bool:
		return v, nil
	case int64:
		return int32(v), nil
	case float64:
		return float32(v), nil
	default:
		return nil, fmt.Errorf("unsupported OSC argument %T", arg)
	}
}
