package libreorama

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

/*------------------------------------------------------------------
 *
 * Purpose:	Show iteration, audio lifecycle, tick loop, transport
 *		callback (§4.I).
 *
 * Description:	Direct port of player.c's player_init/player_has_next/
 *		player_start/player_advance/player_free. The original's
 *		process-wide globals (sequence_files_cur, al_source,
 *		current_al_buffer, show_loop_counter) become fields on
 *		Player/Playback, passed by reference rather than file-scope
 *		statics, per §9's design notes.
 *
 *------------------------------------------------------------------*/

// Playback bundles the collaborators a running show needs: structured
// logging, the audio engine, and the serial transport. One Playback is
// constructed by main and threaded through for the life of the process.
type Playback struct {
	Logger    *log.Logger
	Audio     AudioSource
	Transport Transport
	Config    *Config
}

// Player drives one show: a sequence of .lms files read from a show file,
// played in order, looping per LoopCount.
type Player struct {
	pb *Playback

	sequenceFiles   []string
	cur             int
	loopCount       LoopCount
	showLoopCounter uint32

	buf   *OutputBuffer
	state *OutputStateTable

	LastRun RunSummary
}

// RunSummary describes the sequence most recently played by Start, for a
// caller that wants to append a run-log entry (runlog.go).
type RunSummary struct {
	SequenceFile string
	AudioFile    string
	StepTimeMs   uint16
	FrameCount   uint32
	ChannelCount int
}

// NewPlayer opens showPath and reads one sequence file path per line.
// Rejects an empty show file (EmptyShow).
func NewPlayer(pb *Playback, showPath string, loopCount LoopCount) (*Player, error) {
	f, err := os.Open(showPath)
	if err != nil {
		return nil, wrapErr(KindSystemError, "opening show file", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, wrapErr(KindSystemError, "reading show file", err)
	}

	if len(lines) == 0 {
		return nil, newErr(KindEmptyShow, "show file contains no sequence entries")
	}

	return &Player{
		pb:        pb,
		sequenceFiles: lines,
		loopCount: loopCount,
	}, nil
}

// HasNext reports whether there is a sequence left to play (B3: with an
// Infinite loop count this is always true once the show is non-empty).
func (p *Player) HasNext() bool {
	return p.cur < len(p.sequenceFiles)
}

// advance moves to the next show entry. The loop count gates whether a
// full pass through sequenceFiles wraps back to the start or the show
// ends (player_advance, EOF-of-show-file semantics: the wrap/stop decision
// is made once per completed pass, not once per sequence).
func (p *Player) advance() {
	p.cur++

	if len(p.sequenceFiles) == 0 || p.cur < len(p.sequenceFiles) {
		return
	}

	allow := p.loopCount.Infinite()
	if !allow {
		p.showLoopCounter++
		allow = p.showLoopCounter < p.loopCount.n
	}

	if allow {
		p.cur = 0
	}
}

// distinctUnits lists, in first-seen order, the controller units addressed
// by table's channels.
func distinctUnits(table *ChannelTable) []uint8 {
	var units []uint8
	seen := make(map[uint8]bool)
	for _, c := range table.All() {
		if !seen[c.Unit] {
			seen[c.Unit] = true
			units = append(units, c.Unit)
		}
	}
	return units
}

// resolveAudioPath uses the sequence's musicFilename hint if that file
// exists, then the hint's base name in the sequence file's directory,
// otherwise falls back to "<sequence path>.wav" (§4.I step 2).
func resolveAudioPath(sequencePath string, hint string) string {
	if hint != "" {
		if _, err := os.Stat(hint); err == nil {
			return hint
		}
		dir := filepath.Dir(sequencePath)
		candidate := filepath.Join(dir, filepath.Base(hint))
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return sequencePath + ".wav"
}

// Start runs one sequence file to completion: loads the score, resolves
// and plays its audio, then drives the tick loop until audio stops
// playing, per §4.I step-by-step.
func (p *Player) Start(timeCorrectionMs uint16) error {
	sequencePath := p.sequenceFiles[p.cur]

	seq, err := LoadSequence(sequencePath)
	if err != nil {
		return err
	}

	p.pb.Logger.Info("sequence loaded",
		"path", sequencePath,
		"step_time_ms", seq.StepTimeMs,
		"frame_count", seq.FrameCount,
		"channels", seq.Channels.Len())

	if p.pb.Config != nil {
		for _, unit := range distinctUnits(seq.Channels) {
			p.pb.Logger.Debug("controller", "unit", unit, "label", p.pb.Config.Label(unit))
		}
	}

	audioPath := resolveAudioPath(sequencePath, seq.AudioHint)
	p.pb.Logger.Info("audio resolved", "path", audioPath)

	p.LastRun = RunSummary{
		SequenceFile: sequencePath,
		AudioFile:    audioPath,
		StepTimeMs:   seq.StepTimeMs,
		FrameCount:   seq.FrameCount,
		ChannelCount: seq.Channels.Len(),
	}

	if err := p.pb.Audio.LoadFile(audioPath); err != nil {
		return err
	}
	if err := p.pb.Audio.Play(); err != nil {
		return err
	}

	interval := NewIntervalTimer(time.Duration(seq.StepTimeMs) * time.Millisecond)

	tick := uint32(timeCorrectionMs) / uint32(seq.StepTimeMs)

	p.buf = NewOutputBuffer()
	p.state = NewOutputStateTable()
	defer p.buf.Free()

	if err := p.resetAndFlush(seq.StepTimeMs); err != nil {
		return err
	}

	for {
		interval.Wake()

		if err := MinifierTick(p.buf, seq.Channels, p.state, seq.FrameCount, tick, seq.StepTimeMs); err != nil {
			return err
		}

		if err := p.flush(seq.StepTimeMs); err != nil {
			return err
		}

		tick++

		if !p.pb.Audio.IsPlaying() {
			break
		}

		interval.Sleep()
	}

	if err := p.resetAndFlush(seq.StepTimeMs); err != nil {
		return err
	}

	p.advance()

	return nil
}

// resetAndFlush appends a reset frame and immediately flushes it to the
// transport (used both before and after the tick loop, per player_start's
// two symmetric calls to player_reset_encode_buffer).
func (p *Player) resetAndFlush(stepTimeMs uint16) error {
	if err := EncodeReset(p.buf); err != nil {
		return err
	}
	return p.flush(stepTimeMs)
}

// flush is the tick callback contract (§4.I): write the output buffer's
// current contents to the transport with a step_time_ms/2 timeout, then
// reset the buffer.
func (p *Player) flush(stepTimeMs uint16) error {
	timeout := time.Duration(stepTimeMs/2) * time.Millisecond

	if _, err := p.pb.Transport.BlockingWrite(p.buf.Bytes(), timeout); err != nil {
		return err
	}

	p.buf.Reset()
	return nil
}

// Close releases the audio engine's loaded buffer, if any. Cleanup
// failures here are logged but never escalated (§7 policy).
func (p *Player) Close() {
	if err := p.pb.Audio.Close(); err != nil {
		p.pb.Logger.Warn("audio cleanup failed", "err", err)
	}
}
