package libreorama

import "sort"

/*------------------------------------------------------------------
 *
 * Purpose:	Per-tick diff against last-sent state, per-unit bitmask
 *		grouping, and emission to the output buffer.
 *
 * Description:	Grounded on minify.c: minify_channel_compare (sort by unit
 *		then circuit), minify_channels_fit_bitmask (mask eligibility),
 *		minify_write_frames_optimized/_unoptimized, and minify_unit's
 *		commit-every-slot-in-the-group behavior (even unchanged ones).
 *
 *------------------------------------------------------------------*/

const maxMaskCircuit = 16

// MinifierTick is the per-tick entry point (§4.G). It appends zero or more
// wire messages to buf for the channels in table at the given tick, then
// appends a heartbeat if due.
func MinifierTick(buf *OutputBuffer, table *ChannelTable, state *OutputStateTable, frameCount uint32, tick uint32, stepTimeMs uint16) error {
	sorted := append([]*Channel(nil), table.All()...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Unit != sorted[j].Unit {
			return sorted[i].Unit < sorted[j].Unit
		}
		return sorted[i].Circuit < sorted[j].Circuit
	})

	upcoming := make([]Frame, len(sorted))
	for i, ch := range sorted {
		if tick >= frameCount {
			upcoming[i] = FrameEmpty
		} else {
			upcoming[i] = ch.Get(tick)
		}
	}

	lo := 0
	for lo < len(sorted) {
		hi := lo + 1
		for hi < len(sorted) && sorted[hi].Unit == sorted[lo].Unit {
			hi++
		}

		if err := minifyUnit(buf, state, sorted, upcoming, lo, hi); err != nil {
			return err
		}

		lo = hi
	}

	return EncodeHeartbeat(buf, tick, stepTimeMs)
}

func minifyUnit(buf *OutputBuffer, state *OutputStateTable, sorted []*Channel, upcoming []Frame, lo, hi int) error {
	unit := sorted[lo].Unit

	changedAny := false
	for i := lo; i < hi; i++ {
		slot := state.For(sorted[i])
		if upcoming[i].IsSet() && !Equals(slot.LastSent, upcoming[i], EqStrict) {
			changedAny = true
			slot.Pending = upcoming[i]
		}
	}

	if changedAny {
		maskEligible := (hi-lo) <= maxMaskCircuit
		if maskEligible {
			for i := lo; i < hi; i++ {
				if sorted[i].Circuit >= maxMaskCircuit {
					maskEligible = false
					break
				}
			}
		}

		if maskEligible {
			if err := minifyWriteOptimized(buf, state, sorted, unit, lo, hi); err != nil {
				return err
			}
		} else {
			if err := minifyWriteUnoptimized(buf, state, sorted, unit, lo, hi); err != nil {
				return err
			}
		}
	}

	// Commit runs for the whole group regardless of changedAny: an
	// unchanged gap tick still re-baselines last_sent, so a later effect
	// that re-asserts the same value is strict-unequal and gets resent.
	for i := lo; i < hi; i++ {
		slot := state.For(sorted[i])
		if slot.Pending.IsSet() {
			return newErr(KindUnconsumedData, "minifier: pending frame left unconsumed after emission")
		}
		slot.LastSent = upcoming[i]
	}

	return nil
}

func minifyWriteOptimized(buf *OutputBuffer, state *OutputStateTable, sorted []*Channel, unit uint8, lo, hi int) error {
	for i := lo; i < hi; i++ {
		base := state.For(sorted[i])
		if !base.Pending.IsSet() {
			continue
		}

		var mask uint32
		for j := lo; j < hi; j++ {
			slotJ := state.For(sorted[j])
			if slotJ.Pending.IsSet() && Equals(base.Pending, slotJ.Pending, EqValue) {
				mask |= 1 << sorted[j].Circuit
			}
		}

		kind := ChanMask8
		if mask > 0xFF {
			kind = ChanMask16
		}

		if err := EncodeFrame(buf, unit, kind, uint16(mask), base.Pending); err != nil {
			return err
		}

		for j := lo; j < hi; j++ {
			slotJ := state.For(sorted[j])
			if slotJ.Pending.IsSet() && Equals(base.Pending, slotJ.Pending, EqValue) {
				slotJ.Pending = FrameEmpty
			}
		}
	}

	return nil
}

func minifyWriteUnoptimized(buf *OutputBuffer, state *OutputStateTable, sorted []*Channel, unit uint8, lo, hi int) error {
	for i := lo; i < hi; i++ {
		slot := state.For(sorted[i])
		if !slot.Pending.IsSet() {
			continue
		}

		if err := EncodeFrame(buf, unit, ChanSingle, uint16(sorted[i].Circuit), slot.Pending); err != nil {
			return err
		}

		slot.Pending = FrameEmpty
	}

	return nil
}
