package note

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/scales/cmd/common"
	"github.com/gigurra/scales/cmd/theory"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

type Params struct {
	Names  []string `pos:"true" required:"true" help:"Note names such as c4, F#3 or bb."`
	Octave int      `short:"o" help:"Octave for names without digits." default:"4"`
	JSON   bool     `short:"j" help:"Output as JSON." default:"false"`
}

type noteInfo struct {
	Name      string  `json:"name"`
	Spelling  string  `json:"spelling"`
	Octave    int     `json:"octave"`
	Midi      int     `json:"midi"`
	Frequency float64 `json:"frequency"`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:         "note",
		Short:       "Convert note names to MIDI numbers and frequencies",
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			if err := Run(params, os.Stdout); err != nil {
				fmt.Fprintf(os.Stderr, "note: %v\n", err)
				os.Exit(1)
			}
		},
	}.ToCobra()
}

func Run(params *Params, stdout io.Writer) error {
	infos := make([]noteInfo, 0, len(params.Names))
	for _, name := range params.Names {
		midi, freq, err := theory.NoteNameToFrequency(name, params.Octave)
		if err != nil {
			return err
		}
		spelling, octave, _ := theory.ParseNoteName(name, params.Octave)
		infos = append(infos, noteInfo{
			Name:      name,
			Spelling:  string(spelling),
			Octave:    octave,
			Midi:      midi,
			Frequency: freq,
		})
	}

	if params.JSON {
		data, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, string(data))
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Name", "Spelling", "Octave", "MIDI", "Hz"})
	for _, n := range infos {
		t.AppendRow(table.Row{n.Name, n.Spelling, n.Octave, n.Midi, fmt.Sprintf("%.4f", n.Frequency)})
	}
	t.Render()
	return nil
}
