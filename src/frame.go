package libreorama

/*------------------------------------------------------------------
 *
 * Purpose:	A single channel action scheduled for one tick.
 *
 * Description:	The original C encodes this as a tagged union
 *		(struct frame_t, see lorinterface/frame.h) sharing storage
 *		between the set_brightness and fade payloads. That packing
 *		buys nothing in Go and the encoder historically read the
 *		wrong union member for one action (see encode.c), so each
 *		variant gets its own named field instead of aliased memory.
 *
 *------------------------------------------------------------------*/

// Action tags a Frame's variant.
type Action int

const (
	ActionEmpty Action = iota
	ActionSetBrightness
	ActionFade
	ActionOn
	ActionShimmer
	ActionTwinkle
)

// EqMode selects which equality rule Equals applies.
type EqMode int

const (
	// EqStrict decides "same as last sent?". Fades are never strict-equal
	// to themselves since re-sending one retriggers the hardware fade.
	EqStrict EqMode = iota
	// EqValue decides "can these be packed into one bitmask message?".
	EqValue
)

// Frame describes one channel action for one tick. The zero value is
// ActionEmpty, matching the "nothing scheduled" sentinel used throughout
// the channel table and minifier.
type Frame struct {
	Action Action

	// SetBrightness payload.
	Level uint8

	// Fade payload.
	From             uint8
	To               uint8
	DurationHalfSecs uint8
}

// FrameEmpty is the zero sentinel meaning "nothing scheduled at this tick".
var FrameEmpty = Frame{Action: ActionEmpty}

// FrameOn, FrameShimmer, FrameTwinkle are the payload-less variants.
var (
	FrameOn      = Frame{Action: ActionOn}
	FrameShimmer = Frame{Action: ActionShimmer}
	FrameTwinkle = Frame{Action: ActionTwinkle}
)

// IsSet reports whether the frame schedules anything (action != Empty).
func (f Frame) IsSet() bool {
	return f.Action != ActionEmpty
}

// Equals compares two frames under the requested mode. See P1 and §3/§4.A:
// differing action tags are never equal; Empty is only equal to Empty;
// On/Shimmer/Twinkle compare equal by tag alone; SetBrightness compares
// Level; Fade compares all three payload bytes in Value mode but is always
// unequal to itself in Strict mode.
func Equals(a, b Frame, mode EqMode) bool {
	if a.Action != b.Action {
		return false
	}

	switch a.Action {
	case ActionEmpty:
		return true
	case ActionSetBrightness:
		return a.Level == b.Level
	case ActionFade:
		if mode == EqStrict {
			return false
		}
		return a.From == b.From && a.To == b.To && a.DurationHalfSecs == b.DurationHalfSecs
	case ActionOn, ActionShimmer, ActionTwinkle:
		return true
	default:
		panic("libreorama: unknown frame action in Equals")
	}
}
