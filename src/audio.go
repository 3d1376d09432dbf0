package libreorama

import (
	"io"
	"sync/atomic"

	"github.com/gordonklaus/portaudio"
)

/*------------------------------------------------------------------
 *
 * Purpose:	The audio engine contract (§1/§6): load a buffer from a
 *		path, start playback, query whether playback is still
 *		active.
 *
 * Description:	The original used OpenAL (alutCreateBufferFromFile,
 *		alSourcePlay, AL_SOURCE_STATE polling in player.c). This
 *		module's dependency stack instead carries portaudio (never
 *		wired into any of the original's own binaries), so the same
 *		three operations are implemented against that: LoadFile
 *		parses the WAV container, Play opens an output stream and
 *		starts a feeder goroutine, IsPlaying reports whether the
 *		feeder is still running.
 *
 *------------------------------------------------------------------*/

// AudioSource is the audio engine contract the player depends on.
type AudioSource interface {
	LoadFile(path string) error
	Play() error
	IsPlaying() bool
	Close() error
}

const audioFramesPerBuffer = 1024

// PortAudioSource streams a WAV file's PCM data to the default output
// device via portaudio.
type PortAudioSource struct {
	wav    *wavFile
	stream *portaudio.Stream
	playing atomic.Bool
}

// NewPortAudioSource constructs an unloaded audio source.
func NewPortAudioSource() *PortAudioSource {
	return &PortAudioSource{}
}

// LoadFile parses path as a WAV container, replacing any previously loaded
// buffer (mirrors player_load_audio_file's unqueue-then-load sequence).
func (a *PortAudioSource) LoadFile(path string) error {
	if a.wav != nil {
		a.wav.Close()
		a.wav = nil
	}

	wav, err := parseWAV(path)
	if err != nil {
		return err
	}
	a.wav = wav
	return nil
}

// Play opens an output stream sized to the loaded file's format and starts
// streaming PCM frames on a feeder goroutine.
func (a *PortAudioSource) Play() error {
	if a.wav == nil {
		return newErr(KindAudioError, "Play called with no buffer loaded")
	}

	buffer := make([]int16, audioFramesPerBuffer*int(a.wav.Channels))

	stream, err := portaudio.OpenDefaultStream(0, int(a.wav.Channels), float64(a.wav.SampleRate), len(buffer)/int(a.wav.Channels), &buffer)
	if err != nil {
		return wrapErr(KindAudioError, "opening output stream", err)
	}

	if err := stream.Start(); err != nil {
		return wrapErr(KindAudioError, "starting output stream", err)
	}

	a.stream = stream
	a.playing.Store(true)

	go a.feed(buffer)

	return nil
}

func (a *PortAudioSource) feed(buffer []int16) {
	defer func() {
		a.playing.Store(false)
		_ = a.stream.Stop()
		_ = a.stream.Close()
	}()

	for {
		n, err := a.wav.ReadInt16(buffer)
		if n < len(buffer) {
			for i := n; i < len(buffer); i++ {
				buffer[i] = 0
			}
		}
		if n > 0 {
			if writeErr := a.stream.Write(); writeErr != nil {
				return
			}
		}
		if err == io.EOF {
			return
		}
		if err != nil {
			return
		}
	}
}

// IsPlaying reports whether the feeder goroutine is still streaming frames.
func (a *PortAudioSource) IsPlaying() bool {
	return a.playing.Load()
}

// Close releases the loaded buffer, if any.
func (a *PortAudioSource) Close() error {
	if a.wav != nil {
		err := a.wav.Close()
		a.wav = nil
		return err
	}
	return nil
}
