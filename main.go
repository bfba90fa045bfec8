package main

import (
	"runtime/debug"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/scales/cmd/generate"
	"github.com/gigurra/scales/cmd/modes"
	"github.com/gigurra/scales/cmd/note"
	"github.com/gigurra/scales/cmd/play"
	"github.com/spf13/cobra"
)

func main() {
	boa.CmdT[boa.NoParams]{
		Use:     "scales",
		Short:   "Spell diatonic scales and play them on a synth server",
		Version: appVersion(),
		SubCmds: []*cobra.Command{
			generate.Cmd(),
			play.Cmd(),
			note.Cmd(),
			modes.Cmd(),
		},
	}.Run()
}

func appVersion() string {
	bi, hasBuildInfo := debug.ReadBuildInfo()
	if !hasBuildInfo {
		return "unknown-(no build info)"
	}

	versionString := bi.Main.Version
	if versionString == "" {
		versionString = "unknown-(no version)"
	}

	return versionString
}
