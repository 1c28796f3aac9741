package sound

import (
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gordonklaus/portaudio"
	"github.com/patrickmn/go-cache"

	"github.com/d1nch8g/animalese/audio"
	"github.com/d1nch8g/animalese/log"
)

const outputChannels = 2

type PlayerConfig struct {
	FramesPerBuffer int
	// CacheTTL is how long a decoded clip stays cached after its last use.
	CacheTTL time.Duration
}

func GetDefaultConfig() PlayerConfig {
	return PlayerConfig{
		FramesPerBuffer: 512,
		CacheTTL:        10 * time.Minute,
	}
}

// outputStream is the part of *portaudio.Stream the player drives.
type outputStream interface {
	Start() error
	Write() error
	Stop() error
	Close() error
}

type openFunc func(sampleRate float64, framesPerBuffer int, buffer []float32) (outputStream, error)

func openDefaultStream(sampleRate float64, framesPerBuffer int, buffer []float32) (outputStream, error) {
	return portaudio.OpenDefaultStream(0, outputChannels, sampleRate, framesPerBuffer, buffer)
}

// PortaudioPlayer decodes payloads and plays each request on its own
// portaudio output stream, so overlapping requests mix in the device.
// Opening, starting, stopping and closing streams is serialized; only the
// write loops run concurrently.
type PortaudioPlayer struct {
	config PlayerConfig
	clips  *cache.Cache
	open   openFunc
	active sync.WaitGroup

	device sync.Mutex
}

var _ Player = (*PortaudioPlayer)(nil)

func NewPortaudioPlayer(config PlayerConfig) *PortaudioPlayer {
	if config.FramesPerBuffer <= 0 {
		config.FramesPerBuffer = GetDefaultConfig().FramesPerBuffer
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = GetDefaultConfig().CacheTTL
	}
	return &PortaudioPlayer{
		config: config,
		clips:  cache.New(config.CacheTTL, 2*config.CacheTTL),
		open:   openDefaultStream,
	}
}

func (p *PortaudioPlayer) Initialize() error {
	return portaudio.Initialize()
}

func (p *PortaudioPlayer) Terminate() {
	p.active.Wait()
	if err := portaudio.Terminate(); err != nil {
		log.Debug(log.CatAudio, "Failed to terminate portaudio", "error", err)
	}
}

// Play decodes the payload (or reuses the cached clip) and starts playback
// in the background.
func (p *PortaudioPlayer) Play(req Request) {
	clip, err := p.clip(req)
	if err != nil {
		log.Debug(log.CatAudio, "Failed to decode sound", "key", req.Key, "error", err)
		return
	}

	p.active.Add(1)
	go func() {
		defer p.active.Done()
		if err := p.render(clip, req.Volume); err != nil {
			log.Debug(log.CatAudio, "Audio playback failed", "key", req.Key, "error", err)
		}
	}()
}

func (p *PortaudioPlayer) clip(req Request) (*audio.Clip, error) {
	if req.Key != "" {
		if cached, ok := p.clips.Get(req.Key); ok {
			// Touch so frequently typed keys stay cached.
			p.clips.SetDefault(req.Key, cached)
			return cached.(*audio.Clip), nil
		}
	}

	clip, err := audio.Decode(req.Payload)
	if err != nil {
		return nil, err
	}
	if req.Key != "" {
		p.clips.SetDefault(req.Key, clip)
	}
	return clip, nil
}

// render plays clip to completion at the given linear level.
func (p *PortaudioPlayer) render(clip *audio.Clip, volume float64) error {
	frames := p.config.FramesPerBuffer
	buffer := make([]float32, frames*outputChannels)

	stream, err := p.startStream(float64(clip.Format().SampleRate), frames, buffer)
	if err != nil {
		return err
	}
	defer p.closeStream(stream)

	return pump(levelled(clip.Streamer(), volume), buffer, stream.Write)
}

func (p *PortaudioPlayer) startStream(sampleRate float64, frames int, buffer []float32) (outputStream, error) {
	p.device.Lock()
	defer p.device.Unlock()

	stream, err := p.open(sampleRate, frames, buffer)
	if err != nil {
		return nil, err
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		return nil, err
	}
	return stream, nil
}

func (p *PortaudioPlayer) closeStream(stream outputStream) {
	p.device.Lock()
	defer p.device.Unlock()

	if err := stream.Stop(); err != nil {
		log.Debug(log.CatAudio, "Failed to stop stream", "error", err)
	}
	if err := stream.Close(); err != nil {
		log.Debug(log.CatAudio, "Failed to close stream", "error", err)
	}
}

// levelled scales s linearly; effects.Gain multiplies by 1+Gain.
func levelled(s beep.Streamer, volume float64) beep.Streamer {
	return &effects.Gain{Streamer: s, Gain: clampVolume(volume) - 1}
}

// pump copies s into the interleaved buffer one block at a time and calls
// write after each block. The last block is zero padded.
func pump(s beep.Streamer, buffer []float32, write func() error) error {
	samples := make([][2]float64, len(buffer)/outputChannels)
	for {
		n, ok := s.Stream(samples)
		if !ok {
			return s.Err()
		}

		for i := range samples {
			if i < n {
				buffer[2*i] = float32(samples[i][0])
				buffer[2*i+1] = float32(samples[i][1])
			} else {
				buffer[2*i] = 0
				buffer[2*i+1] = 0
			}
		}

		if err := write(); err != nil {
			return err
		}
	}
}
