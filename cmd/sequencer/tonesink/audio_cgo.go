//go:build (linux && cgo) || windows || darwin

package tonesink

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

var (
	speakerOnce sync.Once
	speakerErr  error
)

type speakerVoicer struct {
	mu     sync.Mutex
	groups map[int][]*voice
}

func newVoicer() (voicer, error) {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(beep.SampleRate(sampleRate), sampleRate/10)
	})
	if speakerErr != nil {
		return nil, speakerErr
	}
	return &speakerVoicer{groups: map[int][]*voice{}}, nil
}

func (sv *speakerVoicer) start(group int, freq float64) error {
	v := &voice{freq: freq}
	sv.mu.Lock()
	sv.groups[group] = append(sv.groups[group], v)
	sv.mu.Unlock()
	speaker.Play(v)
	return nil
}

func (sv *speakerVoicer) free(group int) {
	sv.mu.Lock()
	voices := sv.groups[group]
	delete(sv.groups, group)
	sv.mu.Unlock()

	speaker.Lock()
	for _, v := range voices {
		v.release()
	}
	speaker.Unlock()
}

// releaseSamples is a short fade to avoid clicks when a group is freed.
const releaseSamples = sampleRate / 50

// voice is a sine oscillator that sounds until released. Its fields are
// touched by the speaker goroutine, so release must hold the speaker lock.
type voice struct {
	freq     float64
	position int
	fade     int // samples left in the release
	released bool
}

func (v *voice) release() {
	if !v.released {
		v.released = true
		v.fade = releaseSamples
	}
}

func (v *voice) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if v.released && v.fade <= 0 {
			return i, false
		}

		value := math.Sin(2*math.Pi*v.freq*float64(v.position)/float64(sampleRate)) * amplitude

		// Fade in over the first few milliseconds.
		if v.position < releaseSamples {
			value *= float64(v.position) / float64(releaseSamples)
		}
		if v.released {
			value *= float64(v.fade) / float64(releaseSamples)
			v.fade--
		}

		samples[i][0] = value
		samples[i][1] = value
		v.position++
	}
	return len(samples), true
}

func (v *voice) Err() error {
	return nil
}

// drain gives released voices time to fade before the process exits.
func drain() {
	time.Sleep(time.Second * releaseSamples / sampleRate * 2)
}
