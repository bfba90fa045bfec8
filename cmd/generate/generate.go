package generate

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/gigurra/scales/cmd/common"
	"github.com/gigurra/scales/cmd/theory"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

type Params struct {
	Tonic string `pos:"true" optional:"true" help:"Tonic to build the scale on (e.g. c, f#, Eb)." default:"c"`
	Mode  string `pos:"true" optional:"true" help:"Mode name." default:"major" alts:"major,ionian,dorian,phrygian,lydian,mixolydian,minor,aeolian,locrian" strict:"false"`
	All   bool   `short:"a" help:"Show the mode on every tonic in the enharmonic table." default:"false"`
	JSON  bool   `short:"j" help:"Output as JSON." default:"false"`
	Copy  bool   `short:"c" help:"Copy the scale to the clipboard." default:"false"`
}

type scaleJSON struct {
	Tonic       string   `json:"tonic"`
	Mode        string   `json:"mode"`
	Notes       []string `json:"notes"`
	WellSpelled bool     `json:"well_spelled"`
}

var (
	tonicStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	degreeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	modeStyle   = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("245"))
)

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:         "generate",
		Aliases:     []string{"gen"},
		Short:       "Spell a diatonic scale",
		Long:        "Spell the scale of a mode on a tonic, giving every degree its own letter where the enharmonic table allows it.",
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			if err := Run(params, os.Stdout); err != nil {
				fmt.Fprintf(os.Stderr, "generate: %v\n", err)
				os.Exit(1)
			}
		},
	}.ToCobra()
}

func Run(params *Params, stdout io.Writer) error {
	if params.All {
		return runAll(params, stdout)
	}

	scale, err := theory.Generate(params.Tonic, params.Mode)
	if err != nil {
		return err
	}
	mode, _ := theory.LookupMode(params.Mode)

	if params.Copy {
		if err := clipboard.WriteAll(scale.String()); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
	}

	if params.JSON {
		return writeJSON(stdout, toJSON(scale, mode))
	}

	if common.IsTerminal(stdout) {
		fmt.Fprintln(stdout, styled(scale, mode))
	} else {
		fmt.Fprintln(stdout, scale.String())
	}
	return nil
}

func runAll(params *Params, stdout io.Writer) error {
	mode, err := theory.LookupMode(params.Mode)
	if err != nil {
		return err
	}

	var rows []scaleJSON
	for _, tonic := range theory.Tonics() {
		scale, err := theory.Generate(string(tonic), mode.Name)
		if err != nil {
			return err
		}
		rows = append(rows, toJSON(scale, mode))
	}

	if params.JSON {
		return writeJSON(stdout, rows)
	}

	t := table.NewWriter()
	t.SetOutputMirror(stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Tonic", mode.Name, "Spelling"})
	for _, r := range rows {
		mark := text.FgGreen.Sprint("ok")
		if !r.WellSpelled {
			mark = text.FgHiRed.Sprint("repeats")
		}
		t.AppendRow(table.Row{r.Tonic, strings.Join(r.Notes, " "), mark})
	}
	t.Render()
	return nil
}

func toJSON(scale theory.Scale, mode theory.Mode) scaleJSON {
	return scaleJSON{
		Tonic:       string(scale[0]),
		Mode:        mode.Name,
		Notes:       scale.Strings(),
		WellSpelled: scale.WellSpelled(),
	}
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func styled(scale theory.Scale, mode theory.Mode) string {
	parts := make([]string, len(scale))
	for i, s := range scale {
		if i == 0 || i == len(scale)-1 {
			parts[i] = tonicStyle.Render(string(s))
		} else {
			parts[i] = degreeStyle.Render(string(s))
		}
	}
	return strings.Join(parts, " ") + "  " + modeStyle.Render(mode.Name)
}
