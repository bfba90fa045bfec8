package modes

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/scales/cmd/common"
	"github.com/gigurra/scales/cmd/theory"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

type Params struct {
	Tonic string `short:"t" help:"Tonic used for the example column." default:"c"`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:         "modes",
		Short:       "List the supported modes",
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			if err := Run(params, os.Stdout); err != nil {
				fmt.Fprintf(os.Stderr, "modes: %v\n", err)
				os.Exit(1)
			}
		},
	}.ToCobra()
}

func Run(params *Params, stdout io.Writer) error {
	if _, err := theory.Lookup(params.Tonic); err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Mode", "Aliases", "Steps", "Pattern", "On " + strings.ToLower(params.Tonic)})

	for _, m := range theory.Modes() {
		scale, err := theory.Generate(params.Tonic, m.Name)
		if err != nil {
			return err
		}
		steps := lo.Map(m.Steps[:], func(s int, _ int) string { return fmt.Sprint(s) })
		t.AppendRow(table.Row{
			m.Name,
			strings.Join(m.Aliases, ", "),
			strings.Join(steps, " "),
			m.Pattern(),
			scale.String(),
		})
	}

	t.Render()
	return nil
}
