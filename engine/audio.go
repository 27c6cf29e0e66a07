package engine

import (
	"sync"
	"unsafe"

	"github.com/Zyko0/go-sdl3/sdl"
)

const audioScratchBytes = 4096

// AudioPlayer feeds the SDL audio stream from a single active stimulus.
// Phases are strictly sequential, so one voice suffices; Stop cuts playback
// so no stimulus carries over into the next phase.
type AudioPlayer struct {
	mu      sync.Mutex
	samples []float32
	pos     int
	active  bool
	scratch []byte
}

func NewAudioPlayer() *AudioPlayer {
	return &AudioPlayer{
		scratch: make([]byte, audioScratchBytes),
	}
}

// Callback runs on the SDL audio thread and fills the stream with the active
// stimulus, or silence, in scratch-sized chunks.
func (p *AudioPlayer) Callback(stream *sdl.AudioStream, additionalAmount, totalAmount int32) {
	remaining := int(additionalAmount)
	for remaining > 0 {
		chunk := remaining
		if chunk > audioScratchBytes {
			chunk = audioScratchBytes
		}
		chunk -= chunk % 4 // whole float32 samples only
		if chunk == 0 {
			break
		}

		for i := 0; i < chunk; i++ {
			p.scratch[i] = 0
		}

		p.mu.Lock()
		if p.active {
			dst := unsafe.Slice((*float32)(unsafe.Pointer(&p.scratch[0])), chunk/4)
			n := copy(dst, p.samples[p.pos:])
			p.pos += n
			if p.pos >= len(p.samples) {
				p.active = false
			}
		}
		p.mu.Unlock()

		stream.PutData(p.scratch[:chunk])
		remaining -= chunk
	}
}

// Play starts a stimulus from its first sample, replacing any active one.
func (p *AudioPlayer) Play(s *Stimulus) {
	p.mu.Lock()
	p.samples = s.Samples
	p.pos = 0
	p.active = true
	p.mu.Unlock()
}

// Stop silences playback immediately.
func (p *AudioPlayer) Stop() {
	p.mu.Lock()
	p.active = false
	p.mu.Unlock()
}
