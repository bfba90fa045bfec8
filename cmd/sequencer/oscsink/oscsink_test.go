package oscsink

import (
	"errors"
	"testing"

	"github.com/hypebeast/go-osc/osc"
)

type fakeClient struct {
	packets []osc.Packet
	err     error
}

func (f *fakeClient) Send(p osc.Packet) error {
	if f.err != nil {
		return f.err
	}
	f.packets = append(f.packets, p)
	return nil
}

func TestSend_ConvertsArguments(t *testing.T) {
	fc := &fakeClient{}
	s := &Sink{client: fc}

	if err := s.Send("/s_new", "default", -1, 1, 1000, "freq", 261.6255653005986); err != nil {
		t.Fatal(err)
	}
	if len(fc.packets) != 1 {
		t.Fatalf("expected 1 packet, got %d", len(fc.packets))
	}
	msg, ok := fc.packets[0].(*osc.Message)
	if !ok {
		t.Fatalf("packet is %T", fc.packets[0])
	}
	if msg.Address != "/s_new" {
		t.Errorf("address = %s", msg.Address)
	}

	expected := []any{"default", int32(-1), int32(1), int32(1000), "freq", float32(261.6255653005986)}
	if len(msg.Arguments) != len(expected) {
		t.Fatalf("arguments = %v", msg.Arguments)
	}
	for i := range expected {
		if msg.Arguments[i] != expected[i] {
			t.Errorf("argument %d = %v (%T), want %v (%T)", i, msg.Arguments[i], msg.Arguments[i], expected[i], expected[i])
		}
	}
}

func TestSend_UnsupportedArgument(t *testing.T) {
	fc := &fakeClient{}
	s := &Sink{client: fc}

	if err := s.Send("/g_new", struct{}{}); err == nil {
		t.Error("expected error for struct argument")
	}
	if len(fc.packets) != 0 {
		t.Errorf("sent %d packets", len(fc.packets))
	}
}

func TestSend_PropagatesClientError(t *testing.T) {
	boom := errors.New("network unreachable")
	s := &Sink{client: &fakeClient{err: boom}}

	if err := s.Send("/g_freeAll", 1000); !errors.Is(err, boom) {
		t.Errorf("expected client error, got %v", err)
	}
}
