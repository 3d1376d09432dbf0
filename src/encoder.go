package libreorama

/*------------------------------------------------------------------
 *
 * Purpose:	Translate a Frame action into LOR wire bytes appended to an
 *		OutputBuffer, via the primitive emitter in lorproto.go.
 *
 * Description:	Grounded on encode.c's encode_frame/encode_heartbeat_frame/
 *		encode_reset_frame, using a 16-byte scratch slice exactly
 *		like the original's encode_flip_buffer before copying into
 *		the growable buffer.
 *
 *------------------------------------------------------------------*/

// EncodeFrame dispatches frame to the matching primitive and appends the
// result to buf. Fails UnsupportedAction for Empty or unknown actions, and
// BlobTooSmall if the primitive ever reports more than 16 bytes (I5).
func EncodeFrame(buf *OutputBuffer, unit uint8, kind ChanKind, chanOrMask uint16, frame Frame) error {
	var scratch [maxMessageLen]byte
	var written int

	switch frame.Action {
	case ActionSetBrightness:
		written = lorWriteChannelSetBrightness(unit, kind, chanOrMask, BrightnessCurveSquared(frame.Level), scratch[:])
	case ActionFade:
		from := BrightnessCurveSquared(frame.From)
		to := BrightnessCurveSquared(frame.To)
		written = lorWriteChannelFade(unit, kind, chanOrMask, from, to, frame.DurationHalfSecs, scratch[:])
	case ActionOn, ActionShimmer, ActionTwinkle:
		written = lorWriteChannelAction(unit, kind, chanOrMask, frame.Action, scratch[:])
	default:
		return newErr(KindUnsupportedAction, "encode_frame: empty or unknown frame action")
	}

	if written > maxMessageLen {
		return newErr(KindBlobTooSmall, "encode_frame: primitive wrote more than 16 bytes")
	}

	buf.Reserve(maxMessageLen)
	buf.Append(scratch[:written])
	return nil
}

// EncodeHeartbeat appends a heartbeat message only when tick lands on a
// 500ms boundary; no-op otherwise (P6).
func EncodeHeartbeat(buf *OutputBuffer, tick uint32, stepTimeMs uint16) error {
	period := uint32(500 / uint32(stepTimeMs))
	if period == 0 {
		period = 1
	}
	if tick%period != 0 {
		return nil
	}

	var scratch [maxMessageLen]byte
	written := lorWriteHeartbeat(scratch[:])

	buf.Reserve(maxMessageLen)
	buf.Append(scratch[:written])
	return nil
}

// EncodeReset appends a single broadcast unit-off message, used to clear
// any active light states before and after a sequence runs.
func EncodeReset(buf *OutputBuffer) error {
	var scratch [maxMessageLen]byte
	written := lorWriteUnitAction(UnitBroadcast, UnitOff, scratch[:])

	buf.Reserve(maxMessageLen)
	buf.Append(scratch[:written])
	return nil
}
