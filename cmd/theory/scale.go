package theory

import (
	"strings"

	"github.com/samber/lo"
)

// Scale is a tonic, six further degrees and the tonic again.
type Scale []Spelling

// Generate spells the scale of the given mode starting on tonic.
//
// Each degree takes the only spelling of its pitch class, or the first
// candidate whose letter is still unused. The seventh step is never
// walked: the octave repeats the tonic spelling as given.
func Generate(tonic, modeName string) (Scale, error) {
	mode, err := LookupMode(modeName)
	if err != nil {
		return nil, err
	}
	pc, err := Lookup(tonic)
	if err != nil {
		return nil, err
	}

	root := NormalizeSpelling(tonic)
	scale := make(Scale, 0, 8)
	scale = append(scale, root)
	used := map[byte]bool{root.Letter(): true}
	index := int(pc)

	for _, step := range mode.Steps[:6] {
		index = mod12(index + step)
		chosen := pickSpelling(enharmonics[index], used)
		scale = append(scale, chosen)
		used[chosen.Letter()] = true
	}

	return append(scale, root), nil
}

// pickSpelling chooses between enharmonic candidates. When every
// candidate letter is already used it falls back to the first one.
func pickSpelling(candidates []Spelling, used map[byte]bool) Spelling {
	if len(candidates) == 1 {
		return candidates[0]
	}

	var chosen Spelling
	found := false
	for _, c := range candidates {
		if !used[c.Letter()] {
			chosen = c
			found = true
			break
		}
	}
	if !found {
		chosen = candidates[0]
	}
	return chosen
}

// Letters returns the leading letter of each degree.
func (s Scale) Letters() []byte {
	return lo.Map(s, func(sp Spelling, _ int) byte { return sp.Letter() })
}

// WellSpelled reports whether the seven degrees use each letter a..g once
// and the octave repeats the tonic.
func (s Scale) WellSpelled() bool {
	if len(s) != 8 || s[0] != s[7] {
		return false
	}
	return len(lo.Uniq(s.Letters()[:7])) == 7
}

func (s Scale) Strings() []string {
	return lo.Map(s, func(sp Spelling, _ int) string { return string(sp) })
}

func (s Scale) String() string {
	return strings.Join(s.Strings(), " ")
}
