// Package theory spells diatonic scales and converts note names to MIDI
// numbers and frequencies.
package theory

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Lookup errors. Callers match them with errors.Is.
var (
	ErrUnknownPitch    = errors.New("unknown pitch")
	ErrUnknownMode     = errors.New("unknown mode")
	ErrInvalidNoteName = errors.New("invalid note name")
)

// PitchClass is the semitone distance from C, in [0, 11].
type PitchClass int

// Spelling is a lower case letter a..g with an optional '#' or 'b'.
// It never carries an octave.
type Spelling string

// Letter returns the leading letter of the spelling.
func (s Spelling) Letter() byte {
	if s == "" {
		return 0
	}
	return s[0]
}

func (s Spelling) String() string {
	return string(s)
}

// enharmonics holds, for every pitch class, the spellings that denote it.
// Order matters: the first entry wins ties when generating scales.
var enharmonics = [12][]Spelling{
	{"b#", "c"},
	{"c#", "db"},
	{"d"},
	{"d#", "eb"},
	{"e", "fb"},
	{"e#", "f"},
	{"f#", "gb"},
	{"g"},
	{"g#", "ab"},
	{"a"},
	{"a#", "bb"},
	{"b", "cb"},
}

var pitchOf = func() map[Spelling]PitchClass {
	m := make(map[Spelling]PitchClass, 21)
	for pc, set := range enharmonics {
		for _, s := range set {
			m[s] = PitchClass(pc)
		}
	}
	return m
}()

// NormalizeSpelling lower-cases and trims a spelling and drops any
// trailing octave digits.
func NormalizeSpelling(text string) Spelling {
	s := strings.ToLower(strings.TrimSpace(text))
	return Spelling(strings.TrimRight(s, "0123456789"))
}

// Lookup returns the pitch class of a spelling such as "C#", "eb" or "bb3".
func Lookup(spelling string) (PitchClass, error) {
	s := NormalizeSpelling(spelling)
	pc, ok := pitchOf[s]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownPitch, spelling)
	}
	return pc, nil
}

// Spellings returns a copy of the enharmonic set for pc.
func Spellings(pc PitchClass) []Spelling {
	return append([]Spelling(nil), enharmonics[mod12(int(pc))]...)
}

// Tonics lists every spelling in the table, ordered by pitch class and
// then by tie-break priority.
func Tonics() []Spelling {
	return lo.Flatten(enharmonics[:])
}

func mod12(i int) int {
	return ((i % 12) + 12) % 12
}
