package theory

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Mode is a named rotation of the major scale step pattern.
type Mode struct {
	Name    string
	Aliases []string
	Steps   [7]int
}

var modes = []Mode{
	{Name: "major", Aliases: []string{"ionian"}, Steps: [7]int{2, 2, 1, 2, 2, 2, 1}},
	{Name: "dorian", Steps: [7]int{2, 1, 2, 2, 2, 1, 2}},
	{Name: "phrygian", Steps: [7]int{1, 2, 2, 2, 1, 2, 2}},
	{Name: "lydian", Steps: [7]int{2, 2, 2, 1, 2, 2, 1}},
	{Name: "mixolydian", Steps: [7]int{2, 2, 1, 2, 2, 1, 2}},
	{Name: "minor", Aliases: []string{"aeolian"}, Steps: [7]int{2, 1, 2, 2, 1, 2, 2}},
	{Name: "locrian", Steps: [7]int{1, 2, 2, 1, 2, 2, 2}},
}

var modeByName = func() map[string]Mode {
	m := make(map[string]Mode, 9)
	for _, mode := range modes {
		m[mode.Name] = mode
		for _, alias := range mode.Aliases {
			m[alias] = mode
		}
	}
	return m
}()

// Modes returns the supported modes in scale-degree order (ionian first).
func Modes() []Mode {
	return lo.Map(modes, func(m Mode, _ int) Mode {
		m.Aliases = append([]string(nil), m.Aliases...)
		return m
	})
}

// ModeNames returns every accepted mode name, aliases included.
func ModeNames() []string {
	return lo.FlatMap(modes, func(m Mode, _ int) []string {
		return append([]string{m.Name}, m.Aliases...)
	})
}

// LookupMode finds a mode by name or alias, ignoring case.
func LookupMode(name string) (Mode, error) {
	mode, ok := modeByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Mode{}, fmt.Errorf("%w: %q (known: %s)", ErrUnknownMode, name, strings.Join(ModeNames(), ", "))
	}
	return mode, nil
}

// Span is the total number of semitones covered by the step pattern.
func (m Mode) Span() int {
	return lo.Sum(m.Steps[:])
}

// Pattern renders the steps as whole (W) and half (H) steps.
func (m Mode) Pattern() string {
	var sb strings.Builder
	for _, step := range m.Steps {
		switch step {
		case 1:
			sb.WriteByte('H')
		case 2:
			sb.WriteByte('W')
		default:
			fmt.Fprintf(&sb, "%d", step)
		}
	}
	return sb.String()
}
