package libreorama

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestBrightnessCurveSquared_endpoints(t *testing.T) {
	assert.Equal(t, uint8(0), BrightnessCurveSquared(0))
	assert.Equal(t, uint8(255), BrightnessCurveSquared(255))
}

func TestBrightnessCurveSquared_monotonic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.Uint8().Draw(t, "a")
		b := rapid.Uint8().Draw(t, "b")
		if a > b {
			a, b = b, a
		}
		assert.LessOrEqual(t, BrightnessCurveSquared(a), BrightnessCurveSquared(b))
	})
}

func TestEncodeDuration_clampsToByteRange(t *testing.T) {
	assert.Equal(t, uint8(0), EncodeDuration(-5))
	assert.Equal(t, uint8(255), EncodeDuration(1000))
	assert.Equal(t, uint8(4), EncodeDuration(2.0))
}

func TestEncodeFrame_neverExceedsMaxMessageLen(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		buf := NewOutputBuffer()
		action := Action(rapid.IntRange(int(ActionSetBrightness), int(ActionTwinkle)).Draw(t, "action"))
		f := Frame{Action: action, Level: rapid.Uint8().Draw(t, "level"), From: rapid.Uint8().Draw(t, "from"), To: rapid.Uint8().Draw(t, "to"), DurationHalfSecs: rapid.Uint8().Draw(t, "dur")}
		unit := rapid.Uint8().Draw(t, "unit")
		chanOrMask := uint16(rapid.IntRange(0, 0xFFFF).Draw(t, "mask"))

		before := buf.Written()
		err := EncodeFrame(buf, unit, ChanMask16, chanOrMask, f)
		require.NoError(t, err)
		assert.LessOrEqual(t, buf.Written()-before, maxMessageLen)
	})
}

func TestEncodeFrame_emptyActionRejected(t *testing.T) {
	buf := NewOutputBuffer()
	err := EncodeFrame(buf, 1, ChanSingle, 0, FrameEmpty)
	require.Error(t, err)

	var lbErr *Error
	require.ErrorAs(t, err, &lbErr)
	assert.Equal(t, KindUnsupportedAction, lbErr.Kind)
}

func TestEncodeHeartbeat_onlyOnPeriodBoundary(t *testing.T) {
	buf := NewOutputBuffer()
	const stepTimeMs = uint16(50) // period = 10 ticks

	require.NoError(t, EncodeHeartbeat(buf, 0, stepTimeMs))
	assert.Equal(t, 1, buf.Written())

	buf.Reset()
	require.NoError(t, EncodeHeartbeat(buf, 3, stepTimeMs))
	assert.Equal(t, 0, buf.Written())

	buf.Reset()
	require.NoError(t, EncodeHeartbeat(buf, 10, stepTimeMs))
	assert.Equal(t, 1, buf.Written())
}

func TestEncodeReset_isBroadcastUnitOff(t *testing.T) {
	buf := NewOutputBuffer()
	require.NoError(t, EncodeReset(buf))

	bytes := buf.Bytes()
	require.Len(t, bytes, 3)
	assert.Equal(t, byte(opUnitAction), bytes[0])
	assert.Equal(t, UnitBroadcast, bytes[1])
	assert.Equal(t, byte(UnitOff), bytes[2])
}
