package libreorama

import "math"

/*------------------------------------------------------------------
 *
 * Purpose:	The LOR wire protocol primitive emitter: one function per
 *		message kind, each writing into a caller-provided 16-byte
 *		slice and returning the number of bytes written.
 *
 * Description:	§4.D treats this as an external dependency (liblightorama
 *		in the original, via lor_write_channel_set_brightness and
 *		friends in encode.c). No such Go package exists in the
 *		dependency stack, so it is implemented here directly; the
 *		function shapes mirror the original's lightorama/io.h API
 *		one-for-one (unit, channel kind, channel-or-mask, payload).
 *
 *------------------------------------------------------------------*/

// ChanKind is one of the LOR channel-kind tags.
type ChanKind uint8

const (
	ChanSingle ChanKind = iota
	ChanMask8
	ChanMask16
)

// UnitBroadcast is the reserved unit id meaning "every controller".
const UnitBroadcast uint8 = 0xFF

// UnitAction identifies a unit-wide (not per-channel) action.
type UnitAction uint8

// UnitOff resets every channel on the addressed unit(s).
const UnitOff UnitAction = 1

const (
	opHeartbeat             = 0x00
	opChannelSetBrightness  = 0x01
	opChannelFade           = 0x02
	opChannelAction         = 0x03
	opUnitAction            = 0x04
	maxMessageLen           = 16
	actionCodeOn            = 1
	actionCodeShimmer       = 2
	actionCodeTwinkle       = 3
)

// BrightnessCurveSquared rescales a linear 0..255 level through LOR's
// squared brightness response curve, matching
// lor_brightness_curve_squared(level/255) in the original encoder.
func BrightnessCurveSquared(level uint8) uint8 {
	x := float64(level) / 255.0
	y := x * x
	return uint8(math.Round(y * 255))
}

// EncodeDuration converts a fade length in seconds to LOR's own duration
// unit (half-seconds), clamped to the u8 range the wire format allows.
func EncodeDuration(seconds float64) uint8 {
	halfSeconds := math.Round(seconds * 2)
	if halfSeconds < 0 {
		return 0
	}
	if halfSeconds > 255 {
		return 255
	}
	return uint8(halfSeconds)
}

func lorWriteHeartbeat(dst []byte) int {
	dst[0] = opHeartbeat
	return 1
}

func lorWriteChannelSetBrightness(unit uint8, kind ChanKind, chanOrMask uint16, brightness uint8, dst []byte) int {
	dst[0] = opChannelSetBrightness
	dst[1] = unit
	dst[2] = byte(kind)
	dst[3] = byte(chanOrMask)
	dst[4] = byte(chanOrMask >> 8)
	dst[5] = brightness
	return 6
}

func lorWriteChannelFade(unit uint8, kind ChanKind, chanOrMask uint16, from, to, duration uint8, dst []byte) int {
	dst[0] = opChannelFade
	dst[1] = unit
	dst[2] = byte(kind)
	dst[3] = byte(chanOrMask)
	dst[4] = byte(chanOrMask >> 8)
	dst[5] = from
	dst[6] = to
	dst[7] = duration
	return 8
}

func lorWriteChannelAction(unit uint8, kind ChanKind, chanOrMask uint16, action Action, dst []byte) int {
	var code byte
	switch action {
	case ActionOn:
		code = actionCodeOn
	case ActionShimmer:
		code = actionCodeShimmer
	case ActionTwinkle:
		code = actionCodeTwinkle
	default:
		code = 0
	}

	dst[0] = opChannelAction
	dst[1] = unit
	dst[2] = byte(kind)
	dst[3] = byte(chanOrMask)
	dst[4] = byte(chanOrMask >> 8)
	dst[5] = code
	return 6
}

func lorWriteUnitAction(unit uint8, action UnitAction, dst []byte) int {
	dst[0] = opUnitAction
	dst[1] = unit
	dst[2] = byte(action)
	return 3
}
