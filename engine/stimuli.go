package engine

import "math"

// Carrier frequencies of the eight syllable stand-ins (A4 up to G6).
var carrierFrequencies = []float64{440, 523, 659, 784, 880, 1047, 1319, 1568}

// envelopeMS is the linear fade-in/fade-out length that removes onset and
// offset clicks.
const envelopeMS = 50

// Stimulus is one synthesized syllable: interleaved stereo float32 samples in
// [-1, 1] at the session sample rate. Stimuli are immutable once generated
// and live for the whole session.
type Stimulus struct {
	Index   int
	Freq    float64
	Samples []float32
}

// BankSize is the number of stimuli the bank generates.
func BankSize() int { return len(carrierFrequencies) }

// GenerateSyllables synthesizes the stimulus bank. Each stimulus is a sine
// tone of SyllableMS at its carrier frequency, faded in and out over
// envelopeMS (skipped when the tone is too short to hold both ramps), scaled
// by AudioVolume and duplicated into both channels. The output is fully
// determined by the parameters.
func GenerateSyllables(p *Params) ([]Stimulus, error) {
	n := p.SampleRate * p.SyllableMS / 1000
	if n <= 0 {
		return nil, &ConfigError{Param: "syllable_ms", Reason: "yields no audio samples"}
	}
	env := p.SampleRate * envelopeMS / 1000

	bank := make([]Stimulus, len(carrierFrequencies))
	for i, freq := range carrierFrequencies {
		mono := make([]float64, n)
		for t := range mono {
			mono[t] = math.Sin(2 * math.Pi * freq * float64(t) / float64(p.SampleRate))
		}
		if n > 2*env {
			for t := 0; t < env; t++ {
				g := float64(t) / float64(env)
				mono[t] *= g
				mono[n-1-t] *= g
			}
		}

		samples := make([]float32, 2*n)
		for t, v := range mono {
			s := float32(v * p.AudioVolume)
			samples[2*t] = s
			samples[2*t+1] = s
		}
		bank[i] = Stimulus{Index: i, Freq: freq, Samples: samples}
	}
	return bank, nil
}
