package sequencer

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/gigurra/scales/cmd/theory"
)

func newTestSequencer(rec *Recorder, clock *VirtualClock) *Sequencer {
	rec.Clock = clock
	return &Sequencer{
		Sink:   rec,
		Clock:  clock,
		Logger: slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
	}
}

func cMajor(t *testing.T) []string {
	t.Helper()
	scale, err := theory.Generate("c", "major")
	if err != nil {
		t.Fatal(err)
	}
	return scale.Strings()
}

func TestPlay_MessageOrderAndTiming(t *testing.T) {
	clock := &VirtualClock{}
	rec := &Recorder{}
	seq := newTestSequencer(rec, clock)

	opts := DefaultOptions()
	opts.Tempo = 140
	result, err := seq.Play(context.Background(), cMajor(t), opts)
	if err != nil {
		t.Fatalf("Play returned error: %v", err)
	}

	msgs := rec.Messages()
	if len(msgs) != 10 || result.Messages != 10 {
		t.Fatalf("expected 10 messages, got %d (result says %d)", len(msgs), result.Messages)
	}

	expected := append([]string{AddressGroupNew}, slices.Repeat([]string{AddressSynthNew}, 8)...)
	expected = append(expected, AddressGroupFreeAll)
	if !slices.Equal(rec.Addresses(), expected) {
		t.Errorf("addresses = %v", rec.Addresses())
	}

	beat := time.Duration(60.0 / 140.0 * float64(time.Second))
	if msgs[0].At != 0 || msgs[1].At != 0 {
		t.Errorf("group and first note should be sent immediately, got %v and %v", msgs[0].At, msgs[1].At)
	}
	for i := 2; i <= 8; i++ {
		if gap := msgs[i].At - msgs[i-1].At; gap != beat {
			t.Errorf("gap before message %d = %v, want %v", i, gap, beat)
		}
	}
	if gap := msgs[9].At - msgs[8].At; gap != beat+TailDuration {
		t.Errorf("gap before /g_freeAll = %v, want %v", gap, beat+TailDuration)
	}
	if result.Elapsed != 8*beat+TailDuration {
		t.Errorf("elapsed = %v", result.Elapsed)
	}
}

func TestPlay_Arguments(t *testing.T) {
	clock := &VirtualClock{}
	rec := &Recorder{}
	seq := newTestSequencer(rec, clock)

	opts := Options{Tempo: 120, Octave: 4, SynthName: "sine", GroupID: 42}
	if _, err := seq.Play(context.Background(), cMajor(t), opts); err != nil {
		t.Fatal(err)
	}
	msgs := rec.Messages()

	if !slices.Equal(msgs[0].Args, []any{42, AddActionHead, RootNodeID}) {
		t.Errorf("/g_new args = %v", msgs[0].Args)
	}
	if !slices.Equal(msgs[9].Args, []any{42}) {
		t.Errorf("/g_freeAll args = %v", msgs[9].Args)
	}

	first := msgs[1].Args
	if len(first) != 6 {
		t.Fatalf("/s_new has %d args", len(first))
	}
	if first[0] != "sine" || first[1] != AutoNodeID || first[2] != AddActionTail || first[3] != 42 || first[4] != FreqParam {
		t.Errorf("/s_new args = %v", first)
	}
	if f := first[5].(float64); math.Abs(f-261.6256) > 1e-4 {
		t.Errorf("first frequency = %f", f)
	}
	last := msgs[8].Args[5].(float64)
	if math.Abs(last-523.2511) > 1e-4 {
		t.Errorf("octave frequency = %f", last)
	}
}

func TestPlay_ExplicitOctavesPassThrough(t *testing.T) {
	rec := &Recorder{}
	seq := newTestSequencer(rec, &VirtualClock{})

	opts := DefaultOptions()
	opts.Octave = 3
	result, err := seq.Play(context.Background(), []string{"a", "a4", "C5"}, opts)
	if err != nil {
		t.Fatal(err)
	}
	midis := []int{}
	for _, n := range result.Session.Notes {
		midis = append(midis, n.Midi)
	}
	if !slices.Equal(midis, []int{57, 69, 72}) {
		t.Errorf("midi notes = %v", midis)
	}
	if len(rec.Messages()) != 5 {
		t.Errorf("expected 5 messages, got %d", len(rec.Messages()))
	}
}

func TestPlay_InvalidConfigSendsNothing(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"zero tempo", Options{Tempo: 0, Octave: 4, SynthName: "default", GroupID: 1}},
		{"negative tempo", Options{Tempo: -10, Octave: 4, SynthName: "default", GroupID: 1}},
		{"nan tempo", Options{Tempo: math.NaN(), Octave: 4, SynthName: "default", GroupID: 1}},
		{"tempo too slow to schedule", Options{Tempo: 1e-9, Octave: 4, SynthName: "default", GroupID: 1}},
		{"infinite tempo", Options{Tempo: math.Inf(1), Octave: 4, SynthName: "default", GroupID: 1}},
		{"octave too high", Options{Tempo: 100, Octave: 10, SynthName: "default", GroupID: 1}},
		{"no synth", Options{Tempo: 100, Octave: 4, SynthName: "", GroupID: 1}},
		{"root group", Options{Tempo: 100, Octave: 4, SynthName: "default", GroupID: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &Recorder{}
			seq := newTestSequencer(rec, &VirtualClock{})
			_, err := seq.Play(context.Background(), cMajor(t), tt.opts)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
			if len(rec.Messages()) != 0 {
				t.Errorf("sent %d messages before failing", len(rec.Messages()))
			}
		})
	}
}

func TestPlay_BadNoteSendsNothing(t *testing.T) {
	rec := &Recorder{}
	seq := newTestSequencer(rec, &VirtualClock{})

	_, err := seq.Play(context.Background(), []string{"c", "d", "q"}, DefaultOptions())
	if !errors.Is(err, theory.ErrInvalidNoteName) {
		t.Errorf("expected ErrInvalidNoteName, got %v", err)
	}
	if len(rec.Messages()) != 0 {
		t.Errorf("sent %d messages before failing", len(rec.Messages()))
	}

	_, err = seq.Play(context.Background(), []string{"c", "a9"}, DefaultOptions())
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for a9, got %v", err)
	}

	_, err = seq.Play(context.Background(), nil, DefaultOptions())
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for empty scale, got %v", err)
	}
}

func TestPlay_TransportFailureAbandonsSession(t *testing.T) {
	rec := &Recorder{FailAt: 4}
	seq := newTestSequencer(rec, &VirtualClock{})

	result, err := seq.Play(context.Background(), cMajor(t), DefaultOptions())
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	if !strings.Contains(err.Error(), AddressSynthNew) {
		t.Errorf("error should name the failing address: %v", err)
	}
	if result == nil || result.Messages != 3 {
		t.Errorf("result = %+v", result)
	}
	for _, addr := range rec.Addresses() {
		if addr == AddressGroupFreeAll {
			t.Errorf("group was freed after a transport failure")
		}
	}
}

func TestPlay_GroupCreationFailure(t *testing.T) {
	rec := &Recorder{FailAt: 1}
	clock := &VirtualClock{}
	seq := newTestSequencer(rec, clock)

	result, err := seq.Play(context.Background(), cMajor(t), DefaultOptions())
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	if !strings.Contains(err.Error(), AddressGroupNew) {
		t.Errorf("error should name the failing address: %v", err)
	}
	if result == nil || result.Messages != 0 {
		t.Errorf("result = %+v", result)
	}
	if len(rec.Messages()) != 0 {
		t.Errorf("recorded %v after a failed /g_new", rec.Addresses())
	}
	if clock.Now() != 0 {
		t.Errorf("clock advanced to %v after a failed /g_new", clock.Now())
	}
}

func TestPlay_CancelledContext(t *testing.T) {
	rec := &Recorder{}
	seq := newTestSequencer(rec, &VirtualClock{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := seq.Play(ctx, cMajor(t), DefaultOptions())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if got := rec.Addresses(); !slices.Equal(got, []string{AddressGroupNew, AddressSynthNew}) {
		t.Errorf("addresses = %v", got)
	}
}

func TestRealClock_Sleep(t *testing.T) {
	clock := NewRealClock()
	if err := clock.Sleep(context.Background(), 5*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if clock.Now() < 5*time.Millisecond {
		t.Errorf("clock advanced only %v", clock.Now())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := clock.Sleep(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestBeatDuration(t *testing.T) {
	if d := (Options{Tempo: 60}).BeatDuration(); d != time.Second {
		t.Errorf("60 bpm beat = %v", d)
	}
	if d := (Options{Tempo: 120}).BeatDuration(); d != 500*time.Millisecond {
		t.Errorf("120 bpm beat = %v", d)
	}
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	sink := LogSink{Logger: slog.New(slog.NewTextHandler(&buf, nil))}
	if err := sink.Send(AddressGroupFreeAll, 7); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "/g_freeAll") {
		t.Errorf("log output = %q", buf.String())
	}
}
