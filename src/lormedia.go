package libreorama

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
)

/*------------------------------------------------------------------
 *
 * Purpose:	Load a LOR Media (.lms) score into a Sequence.
 *
 * Description:	A 3-pass port of lormedia.c's lormedia_sequence_load:
 *		infer step_time_ms from the smallest positive effect width,
 *		infer frame_count from the longest track duration, then
 *		populate channels. Uses encoding/xml in place of libxml2;
 *		the traversal shape (sequence > channels > channel > effect,
 *		sequence > tracks > track) is unchanged.
 *
 *------------------------------------------------------------------*/

type lmsEffect struct {
	Type             string `xml:"type,attr"`
	Intensity        *int64 `xml:"intensity,attr"`
	StartIntensity   *int64 `xml:"startIntensity,attr"`
	EndIntensity     *int64 `xml:"endIntensity,attr"`
	StartCentisecond int64  `xml:"startCentisecond,attr"`
	EndCentisecond   int64  `xml:"endCentisecond,attr"`
}

type lmsChannel struct {
	Unit    uint8       `xml:"unit,attr"`
	Circuit int64       `xml:"circuit,attr"`
	Effects []lmsEffect `xml:"effect"`
}

type lmsTrack struct {
	TotalCentiseconds int64 `xml:"totalCentiseconds,attr"`
}

type lmsDocument struct {
	XMLName       xml.Name     `xml:"sequence"`
	MusicFilename string       `xml:"musicFilename,attr"`
	Channels      []lmsChannel `xml:"channels>channel"`
	Tracks        []lmsTrack   `xml:"tracks>track"`
}

const lormediaMaxIntensity = 100

// LoadSequence loads a .lms score file at path. Rejects any other extension
// with BadExt/UnsupportedExt per §4.E step 1.
func LoadSequence(path string) (*Sequence, error) {
	ext := filepath.Ext(path)
	if ext == "" || ext == path {
		return nil, newErr(KindBadExt, "sequence file has no extension: "+path)
	}
	if !strings.EqualFold(ext, ".lms") {
		return nil, newErr(KindUnsupportedExt, "unsupported sequence extension: "+ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wrapErr(KindSystemError, "reading sequence file", err)
	}

	var doc lmsDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, wrapErr(KindMalformedData, "parsing sequence XML", err)
	}

	seq := NewSequence()
	seq.AudioHint = doc.MusicFilename

	// First pass: infer step_time_ms from the smallest positive effect width.
	for _, ch := range doc.Channels {
		for _, fx := range ch.Effects {
			width := (fx.EndCentisecond - fx.StartCentisecond) * 10
			if width > 0 && uint16(width) < seq.StepTimeMs {
				seq.StepTimeMs = uint16(width)
			}
		}
	}

	// Second pass: infer frame_count from the longest track duration.
	var highestTotalCs int64
	for _, tr := range doc.Tracks {
		if tr.TotalCentiseconds > highestTotalCs {
			highestTotalCs = tr.TotalCentiseconds
		}
	}
	seq.FrameCount = uint32((highestTotalCs * 10) / int64(seq.StepTimeMs))

	// Third pass: populate channels.
	for _, ch := range doc.Channels {
		circuit := uint8(ch.Circuit - 1)
		channel, err := seq.Channels.Request(ch.Unit, circuit)
		if err != nil {
			return nil, err
		}

		for _, fx := range ch.Effects {
			frame, err := translateEffect(fx)
			if err != nil {
				return nil, err
			}

			tick := uint32((fx.StartCentisecond * 10) / int64(seq.StepTimeMs))
			if err := channel.Set(tick, frame); err != nil {
				return nil, err
			}
		}
	}

	if seq.Channels.Len() == 0 {
		return nil, newErr(KindNoChannels, "sequence has no channels")
	}
	if seq.FrameCount == 0 {
		return nil, newErr(KindNoFrames, "sequence has no frames")
	}

	return seq, nil
}

func translateEffect(fx lmsEffect) (Frame, error) {
	if fx.Type == "" {
		return FrameEmpty, newErr(KindMalformedData, "effect missing type attribute")
	}

	switch {
	case strings.EqualFold(fx.Type, "intensity"):
		if fx.Intensity != nil {
			intensity := *fx.Intensity
			if intensity == lormediaMaxIntensity {
				return FrameOn, nil
			}
			return Frame{Action: ActionSetBrightness, Level: effectBrightness(intensity)}, nil
		}

		if fx.StartIntensity != nil && fx.EndIntensity != nil {
			durationSeconds := float64(fx.EndCentisecond-fx.StartCentisecond) / 100.0
			return Frame{
				Action:           ActionFade,
				From:             effectBrightness(*fx.StartIntensity),
				To:               effectBrightness(*fx.EndIntensity),
				DurationHalfSecs: EncodeDuration(durationSeconds),
			}, nil
		}

	case strings.EqualFold(fx.Type, "shimmer"):
		return FrameShimmer, nil

	case strings.EqualFold(fx.Type, "twinkle"):
		return FrameTwinkle, nil
	}

	return FrameEmpty, newErr(KindUnsupportedData, "unsupported effect type: "+fx.Type)
}

// effectBrightness rescales a score's 0..100 intensity to a 0..255 level.
func effectBrightness(intensity int64) uint8 {
	return uint8((float64(intensity) / 100.0) * 255)
}
