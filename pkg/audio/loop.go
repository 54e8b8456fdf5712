package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/hajimehoshi/go-mp3"
)

const (
	beepSampleRate = 44100
	channels       = 2
	bytesPerFrame  = channels * 2
)

// oto allows one context per process.
var (
	ctxOnce sync.Once
	otoCtx  *oto.Context
	ctxRate int
	ctxErr  error
)

func device(sampleRate int) (*oto.Context, error) {
	ctxOnce.Do(func() {
		c, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channels,
			Format:       oto.FormatSignedInt16LE,
		})
		if err != nil {
			ctxErr = fmt.Errorf("audio: open device: %w", err)
			return
		}
		<-ready
		otoCtx, ctxRate = c, sampleRate
	})
	if ctxErr != nil {
		return nil, ctxErr
	}
	if ctxRate != sampleRate {
		return nil, fmt.Errorf("audio: device opened at %dHz, sound needs %dHz", ctxRate, sampleRate)
	}
	return otoCtx, nil
}

// Loop rings by looping PCM through the audio device. Without a device it
// falls back to writing the terminal bell once a second.
type Loop struct {
	soundPath string
	bell      io.Writer

	mu      sync.Mutex
	player  *oto.Player
	stopBel chan struct{}
}

// NewLoop plays soundPath (an mp3) or a generated beep when empty. The bell
// writer defaults to stderr.
func NewLoop(soundPath string, bell io.Writer) *Loop {
	if bell == nil {
		bell = os.Stderr
	}
	return &Loop{soundPath: soundPath, bell: bell}
}

func (l *Loop) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.player != nil || l.stopBel != nil {
		return nil
	}
	pcm, rate, err := l.load()
	if err == nil {
		var c *oto.Context
		if c, err = device(rate); err == nil {
			l.player = c.NewPlayer(&loopReader{data: pcm})
			l.player.Play()
			return nil
		}
	}
	slog.Warn("audio: falling back to terminal bell", "error", err)
	l.stopBel = make(chan struct{})
	go ringBell(l.bell, l.stopBel)
	return nil
}

func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.player != nil {
		l.player.Pause()
		if err := l.player.Close(); err != nil {
			slog.Debug("audio: close player", "error", err)
		}
		l.player = nil
	}
	if l.stopBel != nil {
		close(l.stopBel)
		l.stopBel = nil
	}
}

func (l *Loop) load() ([]byte, int, error) {
	if l.soundPath == "" {
		return Beep(beepSampleRate), beepSampleRate, nil
	}
	data, err := os.ReadFile(l.soundPath)
	if err != nil {
		return nil, 0, fmt.Errorf("audio: read sound: %w", err)
	}
	return DecodeMP3(bytes.NewReader(data))
}

// DecodeMP3 returns 16-bit stereo PCM and its sample rate.
func DecodeMP3(r io.Reader) ([]byte, int, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, 0, fmt.Errorf("audio: decode mp3: %w", err)
	}
	pcm, err := io.ReadAll(dec)
	if err != nil {
		return nil, 0, fmt.Errorf("audio: decode mp3: %w", err)
	}
	if len(pcm) == 0 {
		return nil, 0, errors.New("audio: decode mp3: no samples")
	}
	return pcm, dec.SampleRate(), nil
}

// Beep renders one second of alarm pattern: two short tones then silence.
func Beep(sampleRate int) []byte {
	frames := sampleRate
	buf := make([]byte, frames*bytesPerFrame)
	tone := func(from, to int, freq float64) {
		for i := from; i < to && i < frames; i++ {
			// Short linear fade at both ends avoids clicks.
			env := math.Min(1, math.Min(float64(i-from), float64(to-i))/200)
			v := int16(0.4 * env * math.MaxInt16 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate)))
			for ch := 0; ch < channels; ch++ {
				binary.LittleEndian.PutUint16(buf[i*bytesPerFrame+ch*2:], uint16(v))
			}
		}
	}
	step := sampleRate / 8
	tone(0, step, 880)
	tone(2*step, 3*step, 880)
	return buf
}

// loopReader replays data forever.
type loopReader struct {
	data []byte
	pos  int
}

func (r *loopReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	n := 0
	for n < len(p) {
		c := copy(p[n:], r.data[r.pos:])
		n += c
		r.pos = (r.pos + c) % len(r.data)
	}
	return n, nil
}

func ringBell(w io.Writer, stop <-chan struct{}) {
	t := time.NewTicker(time.Second)
	defer t.Stop()
	for {
		fmt.Fprint(w, "\a")
		select {
		case <-stop:
			return
		case <-t.C:
		}
	}
}
