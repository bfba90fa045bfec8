package play

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/scales/cmd/common"
	"github.com/gigurra/scales/cmd/common/config"
	"github.com/gigurra/scales/cmd/sequencer"
	"github.com/gigurra/scales/cmd/sequencer/midisink"
	"github.com/gigurra/scales/cmd/sequencer/oscsink"
	"github.com/gigurra/scales/cmd/sequencer/tonesink"
	"github.com/gigurra/scales/cmd/theory"
	"github.com/spf13/cobra"
)

const (
	SinkOSC  = "osc"
	SinkLog  = "log"
	SinkMIDI = "midi"
	SinkTone = "tone"
)

var ErrUnknownSink = errors.New("unknown sink")

type Params struct {
	Tonic   string                `pos:"true" optional:"true" help:"Tonic of the scale. Defaults to the configured tonic."`
	Mode    string                `pos:"true" optional:"true" help:"Mode name. Defaults to the configured mode." alts:"major,ionian,dorian,phrygian,lydian,mixolydian,minor,aeolian,locrian" strict:"false"`
	Host    boa.Optional[string]  `help:"Synth server host."`
	Port    boa.Optional[int]     `short:"p" help:"Synth server UDP port."`
	Synth   boa.Optional[string]  `short:"s" help:"SynthDef to instantiate per note."`
	Group   boa.Optional[int]     `short:"g" help:"Group node id for the session."`
	Tempo   boa.Optional[float64] `short:"t" help:"Beats per minute."`
	Octave  boa.Optional[int]     `short:"o" help:"Octave for notes without digits."`
	Sink    boa.Optional[string]  `help:"Where messages go." alts:"osc,log,midi,tone"`
	Out     string                `help:"Output path for --sink midi." optional:"true"`
	Verbose bool                  `short:"v" help:"Log every message." default:"false"`
	Save    bool                  `name:"save-defaults" help:"Store the resolved settings in the config file before playing." default:"false"`
}

// overrides holds the flags that were set on the command line.
type overrides struct {
	Tonic, Mode string
	Host        *string
	Port        *int
	Synth       *string
	Group       *int
	Tempo       *float64
	Octave      *int
	Sink        *string
}

// playConfig is a fully resolved play invocation.
type playConfig struct {
	Host    string
	Port    int
	Tonic   string
	Mode    string
	Sink    string
	Out     string
	Verbose bool
	Options sequencer.Options
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:         "play",
		Short:       "Play a scale on a synth server",
		Long:        "Generate a scale and play it note by note on a SuperCollider server over OSC, or render it to a log, a MIDI file or the local sound card.",
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			cfg, err := config.Load()
			if err != nil {
				fmt.Fprintf(os.Stderr, "play: %v\n", err)
				os.Exit(1)
			}
			pc := resolve(fromParams(params), cfg)
			pc.Out = params.Out
			pc.Verbose = params.Verbose

			if params.Save {
				if err := config.Save(defaultsFrom(pc)); err != nil {
					fmt.Fprintf(os.Stderr, "play: error saving config: %v\n", err)
					os.Exit(1)
				}
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			if err := run(ctx, pc, os.Stdout, os.Stderr); err != nil {
				fmt.Fprintf(os.Stderr, "play: %v\n", err)
				os.Exit(1)
			}
		},
	}.ToCobra()
}

func fromParams(params *Params) overrides {
	o := overrides{Tonic: params.Tonic, Mode: params.Mode}
	if params.Host.HasValue() {
		o.Host = params.Host.Value()
	}
	if params.Port.HasValue() {
		o.Port = params.Port.Value()
	}
	if params.Synth.HasValue() {
		o.Synth = params.Synth.Value()
	}
	if params.Group.HasValue() {
		o.Group = params.Group.Value()
	}
	if params.Tempo.HasValue() {
		o.Tempo = params.Tempo.Value()
	}
	if params.Octave.HasValue() {
		o.Octave = params.Octave.Value()
	}
	if params.Sink.HasValue() {
		o.Sink = params.Sink.Value()
	}
	return o
}

// resolve layers command line flags over the config file. cfg is expected
// to come from config.LoadFrom, which fills every section.
func resolve(o overrides, cfg *config.Config) playConfig {
	pb := cfg.Playback
	pc := playConfig{
		Host:  cfg.Server.Host,
		Port:  cfg.Server.Port,
		Tonic: pb.Tonic,
		Mode:  pb.Mode,
		Sink:  pb.Sink,
		Options: sequencer.Options{
			Tempo:     pb.Tempo,
			Octave:    theory.DefaultOctave,
			SynthName: pb.Synth,
			GroupID:   pb.Group,
		},
	}
	if pb.Octave != nil {
		pc.Options.Octave = *pb.Octave
	}

	if o.Tonic != "" {
		pc.Tonic = o.Tonic
	}
	if o.Mode != "" {
		pc.Mode = o.Mode
	}
	if o.Host != nil {
		pc.Host = *o.Host
	}
	if o.Port != nil {
		pc.Port = *o.Port
	}
	if o.Synth != nil {
		pc.Options.SynthName = *o.Synth
	}
	if o.Group != nil {
		pc.Options.GroupID = *o.Group
	}
	if o.Tempo != nil {
		pc.Options.Tempo = *o.Tempo
	}
	if o.Octave != nil {
		pc.Options.Octave = *o.Octave
	}
	if o.Sink != nil {
		pc.Sink = *o.Sink
	}
	return pc
}

// defaultsFrom turns a resolved invocation back into a config file.
func defaultsFrom(pc playConfig) *config.Config {
	octave := pc.Options.Octave
	return &config.Config{
		Server: &config.ServerConfig{
			Host: pc.Host,
			Port: pc.Port,
		},
		Playback: &config.PlaybackConfig{
			Synth:  pc.Options.SynthName,
			Group:  pc.Options.GroupID,
			Tempo:  pc.Options.Tempo,
			Octave: &octave,
			Tonic:  pc.Tonic,
			Mode:   pc.Mode,
			Sink:   pc.Sink,
		},
	}
}

func run(ctx context.Context, pc playConfig, stdout, stderr io.Writer) error {
	scale, err := theory.Generate(pc.Tonic, pc.Mode)
	if err != nil {
		return err
	}

	logger := common.NewLogger(stderr, pc.Verbose)
	var (
		sink   sequencer.Sink
		clock  sequencer.Clock
		finish func(*sequencer.Result) error
	)

	switch strings.ToLower(pc.Sink) {
	case SinkOSC:
		sink = oscsink.New(pc.Host, pc.Port)
		clock = sequencer.NewRealClock()
	case SinkLog:
		sink = sequencer.LogSink{Logger: common.NewLogger(stdout, true)}
		clock = &sequencer.VirtualClock{}
	case SinkMIDI:
		clock = &sequencer.VirtualClock{}
		ms := midisink.New(clock, pc.Options.Tempo)
		sink = ms
		out := pc.Out
		if out == "" {
			out = filepath.Join(common.CacheDir(), fmt.Sprintf("%s-%s.mid", theory.NormalizeSpelling(pc.Tonic), strings.ToLower(pc.Mode)))
		}
		finish = func(*sequencer.Result) error {
			if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
				return fmt.Errorf("error creating output directory: %w", err)
			}
			if err := ms.WriteFile(out); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "wrote %s\n", out)
			return nil
		}
	case SinkTone:
		ts, err := tonesink.New()
		if err != nil {
			return fmt.Errorf("error opening audio output: %w", err)
		}
		defer ts.Close()
		sink = ts
		clock = sequencer.NewRealClock()
	default:
		return fmt.Errorf("%w: %q (want %s, %s, %s or %s)", ErrUnknownSink, pc.Sink, SinkOSC, SinkLog, SinkMIDI, SinkTone)
	}

	seq := &sequencer.Sequencer{Sink: sink, Clock: clock, Logger: logger}
	fmt.Fprintf(stdout, "%s %s: %s\n", theory.NormalizeSpelling(pc.Tonic), strings.ToLower(pc.Mode), scale)

	result, err := seq.Play(ctx, scale.Strings(), pc.Options)
	if err != nil {
		return err
	}
	if finish != nil {
		if err := finish(result); err != nil {
			return err
		}
	}
	fmt.Fprintf(stdout, "session %s: %d messages in %s\n", result.Session.ID, result.Messages, result.Elapsed)
	return nil
}
