package audio

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// mixRate is the sample rate the speaker mixes at. Clips recorded at
// another rate are resampled on playback.
const mixRate = beep.SampleRate(44100)

// clip is a fully decoded sound held in memory.
type clip struct {
	buffer  *beep.Buffer
	modTime time.Time
}

// Player decodes sound files into memory and plays them through the
// speaker. Clips are cached per path and reloaded when the file on
// disk is newer than the cached copy, so a stale cache entry heals
// itself even without the watcher.
type Player struct {
	mu     sync.Mutex
	logger *slog.Logger

	volume       float64 // 0.0 to 1.0
	speakerReady bool

	clipMu sync.RWMutex
	clips  map[string]*clip
}

// NewPlayer creates a player at full volume with an empty cache.
func NewPlayer(logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	return &Player{
		logger: logger,
		volume: 1.0,
		clips:  make(map[string]*clip),
	}
}

// SetVolume sets the playback volume, clamped to the 0 to 1 range.
func (p *Player) SetVolume(volume float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = math.Min(1, math.Max(0, volume))
}

// GetVolume returns the current volume.
func (p *Player) GetVolume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// Play plays a sound file. WAV, OGG and MP3 are supported.
func (p *Player) Play(path string) error {
	if path == "" {
		return nil
	}

	c, err := p.fetch(path)
	if err != nil {
		p.logger.Warn("failed to load sound", "path", path, "error", err)
		return err
	}
	return p.playClip(c)
}

// Preload decodes a sound file into the cache ahead of playback.
func (p *Player) Preload(path string) error {
	if path == "" {
		return nil
	}

	if _, err := p.fetch(path); err != nil {
		return err
	}
	p.logger.Debug("preloaded sound", "path", path)
	return nil
}

// fetch returns the cached clip for a path, decoding or refreshing it
// as needed.
func (p *Player) fetch(path string) (*clip, error) {
	p.clipMu.RLock()
	c, ok := p.clips[path]
	p.clipMu.RUnlock()

	if ok {
		if info, err := os.Stat(path); err != nil || !info.ModTime().After(c.modTime) {
			return c, nil
		}
		p.logger.Debug("sound file newer than cache, reloading", "path", path)
	}

	c, err := p.load(path)
	if err != nil {
		return nil, err
	}

	p.clipMu.Lock()
	p.clips[path] = c
	p.clipMu.Unlock()
	return c, nil
}

// load decodes a sound file into a buffered clip.
func (p *Player) load(path string) (*clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sound file: %w", err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	streamer, format, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode sound: %w", err)
	}
	defer func() { _ = streamer.Close() }()

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)

	return &clip{buffer: buffer, modTime: info.ModTime()}, nil
}

// decode picks a decoder from the file extension.
func decode(f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
	switch ext := strings.ToLower(filepath.Ext(f.Name())); ext {
	case ".wav":
		return wav.Decode(f)
	case ".ogg":
		return vorbis.Decode(f)
	case ".mp3":
		return mp3.Decode(f)
	default:
		return nil, beep.Format{}, fmt.Errorf("unsupported sound format %q", ext)
	}
}

// playClip queues a clip on the speaker at the current volume.
func (p *Player) playClip(c *clip) error {
	p.mu.Lock()
	if !p.speakerReady {
		if err := speaker.Init(mixRate, mixRate.N(100*time.Millisecond)); err != nil {
			p.mu.Unlock()
			return fmt.Errorf("initialize speaker: %w", err)
		}
		p.speakerReady = true
		p.logger.Debug("speaker initialized", "sample_rate", mixRate)
	}
	volume := p.volume
	p.mu.Unlock()

	var streamer beep.Streamer = c.buffer.Streamer(0, c.buffer.Len())
	if rate := c.buffer.Format().SampleRate; rate != mixRate {
		streamer = beep.Resample(4, rate, mixRate, streamer)
	}
	if volume < 1 {
		streamer = &effects.Volume{
			Streamer: streamer,
			Base:     2,
			Volume:   gainDB(volume),
			Silent:   volume == 0,
		}
	}

	speaker.Play(streamer)
	return nil
}

// Evict removes one path from the clip cache.
func (p *Player) Evict(path string) {
	p.clipMu.Lock()
	defer p.clipMu.Unlock()
	delete(p.clips, path)
}

// Reset drops every cached clip.
func (p *Player) Reset() {
	p.clipMu.Lock()
	defer p.clipMu.Unlock()
	p.clips = make(map[string]*clip)
}

// Close releases the speaker and the clip cache.
func (p *Player) Close() {
	p.mu.Lock()
	if p.speakerReady {
		speaker.Close()
		p.speakerReady = false
	}
	p.mu.Unlock()

	p.Reset()
	p.logger.Debug("audio player closed")
}

// gainDB converts a linear volume in the 0 to 1 range to decibels.
// Half volume is about -6dB; zero maps to an inaudible floor.
func gainDB(volume float64) float64 {
	if volume <= 0 {
		return -100
	}
	return 20 * math.Log10(volume)
}
