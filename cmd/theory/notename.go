package theory

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// DefaultOctave is used when a note name carries no octave digits.
const DefaultOctave = 4

var noteNameRe = regexp.MustCompile(`^([a-g][#b]?)(\d*)`)

// ParseNoteName splits text such as "C#3", "eb" or "a4" into its spelling
// and octave. Only the leading characters have to match; anything after
// the octave digits is ignored.
func ParseNoteName(text string, defaultOctave int) (Spelling, int, error) {
	m := noteNameRe.FindStringSubmatch(strings.ToLower(strings.TrimSpace(text)))
	if m == nil {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidNoteName, text)
	}

	octave := defaultOctave
	if m[2] != "" {
		o, err := strconv.Atoi(m[2])
		if err != nil {
			return "", 0, fmt.Errorf("%w: %q: %v", ErrInvalidNoteName, text, err)
		}
		octave = o
	}
	return Spelling(m[1]), octave, nil
}

// HasOctave reports whether text carries explicit octave digits.
func HasOctave(text string) bool {
	return strings.ContainsAny(text, "0123456789")
}

// ToMidi returns 12*(octave+1) plus the pitch class of spelling, so c4 is
// 60. Spellings that cross the octave boundary (b#, cb) keep the octave
// they are written in.
func ToMidi(spelling Spelling, octave int) (int, error) {
	pc, err := Lookup(string(spelling))
	if err != nil {
		return 0, err
	}
	return 12*(octave+1) + int(pc), nil
}

// ToFrequency converts a MIDI note number to Hz in equal temperament with
// A4 = 440 Hz.
func ToFrequency(midi int) float64 {
	return 440.0 * math.Pow(2, float64(midi-69)/12.0)
}

// FrequencyToMidi returns the MIDI note number nearest to freq.
func FrequencyToMidi(freq float64) int {
	if freq <= 0 {
		return 0
	}
	return int(math.Round(69 + 12*math.Log2(freq/440.0)))
}

// NoteNameToFrequency parses text and returns its MIDI number and
// frequency.
func NoteNameToFrequency(text string, defaultOctave int) (int, float64, error) {
	spelling, octave, err := ParseNoteName(text, defaultOctave)
	if err != nil {
		return 0, 0, err
	}
	midi, err := ToMidi(spelling, octave)
	if err != nil {
		return 0, 0, err
	}
	return midi, ToFrequency(midi), nil
}
