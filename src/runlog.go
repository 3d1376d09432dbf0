package libreorama

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"github.com/lestrrat-go/strftime"
)

/*------------------------------------------------------------------
 *
 * Purpose:	A per-show CSV run log: one row per sequence played,
 *		recording the resolved paths and timing so an operator can
 *		audit a run after the fact.
 *
 * Description:	Adapted from log.go's log_init/log_write (CSV header
 *		written once, appended thereafter). The original hardcodes
 *		its daily filename format ("2006-01-02.log"); this keeps the
 *		same "name the file from the current time" idea but makes
 *		the pattern itself a user-configurable strftime string
 *		(DefaultRunLogPattern) via lestrrat-go/strftime, a dependency
 *		the original declared but only used internally by one of its
 *		own time-stamping options, never for log file naming.
 *
 *------------------------------------------------------------------*/

// DefaultRunLogPattern names the run log file from the process start time.
const DefaultRunLogPattern = "show-%Y%m%d-%H%M%S.csv"

var runLogHeader = []string{"sequence_file", "audio_file", "step_time_ms", "frame_count", "channel_count", "started_at", "stopped_at"}

// RunLog appends one row per sequence to a CSV file named by pattern.
type RunLog struct {
	f *os.File
	w *csv.Writer
}

// OpenRunLog formats pattern (an strftime pattern) against t and opens that
// file for append, writing the header if it didn't already exist.
func OpenRunLog(pattern string, t time.Time) (*RunLog, error) {
	f, err := strftime.New(pattern)
	if err != nil {
		return nil, wrapErr(KindSystemError, "parsing run log pattern", err)
	}

	name := f.FormatString(t)

	_, statErr := os.Stat(name)
	alreadyThere := statErr == nil

	file, err := os.OpenFile(name, os.O_RDWR|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		return nil, wrapErr(KindSystemError, "opening run log "+name, err)
	}

	w := csv.NewWriter(file)
	if !alreadyThere {
		if err := w.Write(runLogHeader); err != nil {
			file.Close()
			return nil, wrapErr(KindSystemError, "writing run log header", err)
		}
		w.Flush()
	}

	return &RunLog{f: file, w: w}, nil
}

// WriteEntry appends one row describing a completed sequence run.
func (rl *RunLog) WriteEntry(sequenceFile, audioFile string, stepTimeMs uint16, frameCount uint32, channelCount int, started, stopped time.Time) error {
	row := []string{
		sequenceFile,
		audioFile,
		strconv.Itoa(int(stepTimeMs)),
		strconv.Itoa(int(frameCount)),
		strconv.Itoa(channelCount),
		started.UTC().Format(time.RFC3339),
		stopped.UTC().Format(time.RFC3339),
	}

	if err := rl.w.Write(row); err != nil {
		return wrapErr(KindSystemError, "writing run log entry", err)
	}
	rl.w.Flush()
	return rl.w.Error()
}

// Close flushes and closes the underlying file.
func (rl *RunLog) Close() error {
	rl.w.Flush()
	return rl.f.Close()
}
