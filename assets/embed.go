package assets

import (
	"embed"
	"encoding/binary"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
)

const sampleRate = 44100

//go:embed *.kage
var assetsFS embed.FS

var (
	audioOnce    sync.Once
	audioContext *audio.Context
)

// AudioContext returns the process-wide audio context, creating it on first use.
func AudioContext() *audio.Context {
	audioOnce.Do(func() {
		audioContext = audio.NewContext(sampleRate)
	})
	return audioContext
}

// LoadFile loads an embedded asset by assets-relative path.
func LoadFile(path string) ([]byte, error) {
	return assetsFS.ReadFile(cleanAssetPath(path))
}

// LoadShader compiles an embedded Kage shader.
func LoadShader(path string) (*ebiten.Shader, error) {
	src, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	shader, err := ebiten.NewShader(src)
	if err != nil {
		return nil, fmt.Errorf("compile shader %q: %w", path, err)
	}
	return shader, nil
}

// NewTonePlayer synthesizes a decaying sine burst and wraps it in a player.
func NewTonePlayer(frequency, seconds, volume float64) *audio.Player {
	player := AudioContext().NewPlayerFromBytes(Tone(frequency, seconds))
	player.SetVolume(volume)
	return player
}

// Tone returns 16-bit little-endian stereo PCM at the context sample rate.
func Tone(frequency, seconds float64) []byte {
	if frequency <= 0 || seconds <= 0 {
		return nil
	}
	n := int(seconds * sampleRate)
	out := make([]byte, n*4)
	for i := 0; i < n; i++ {
		t := float64(i) / sampleRate
		decay := 1 - float64(i)/float64(n)
		s := int16(math.Sin(2*math.Pi*frequency*t) * decay * decay * math.MaxInt16)
		binary.LittleEndian.PutUint16(out[i*4:], uint16(s))
		binary.LittleEndian.PutUint16(out[i*4+2:], uint16(s))
	}
	return out
}

func cleanAssetPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if strings.HasPrefix(s, "assets/") {
		return strings.TrimPrefix(s, "assets/")
	}
	return s
}
