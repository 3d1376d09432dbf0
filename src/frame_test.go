package libreorama

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestEquals_differingActionsNeverEqual(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := genFrame(t, "a")
		b := genFrame(t, "b")
		mode := EqMode(rapid.IntRange(0, 1).Draw(t, "mode"))

		if a.Action != b.Action {
			assert.False(t, Equals(a, b, mode))
		}
	})
}

func TestEquals_emptyOnlyEqualsEmpty(t *testing.T) {
	assert.True(t, Equals(FrameEmpty, FrameEmpty, EqStrict))
	assert.True(t, Equals(FrameEmpty, FrameEmpty, EqValue))
	assert.False(t, Equals(FrameEmpty, FrameOn, EqStrict))
	assert.False(t, Equals(FrameOn, FrameEmpty, EqValue))
}

func TestEquals_fadeNeverStrictEqualToItself(t *testing.T) {
	f := Frame{Action: ActionFade, From: 10, To: 200, DurationHalfSecs: 4}
	assert.False(t, Equals(f, f, EqStrict))
	assert.True(t, Equals(f, f, EqValue))
}

func TestEquals_fadeValueComparesAllBytes(t *testing.T) {
	a := Frame{Action: ActionFade, From: 10, To: 200, DurationHalfSecs: 4}
	b := a
	b.To = 201
	assert.False(t, Equals(a, b, EqValue))
}

func TestEquals_setBrightnessComparesLevelOnly(t *testing.T) {
	a := Frame{Action: ActionSetBrightness, Level: 100}
	b := Frame{Action: ActionSetBrightness, Level: 100}
	assert.True(t, Equals(a, b, EqStrict))
	assert.True(t, Equals(a, b, EqValue))

	b.Level = 101
	assert.False(t, Equals(a, b, EqStrict))
}

func TestEquals_payloadlessVariantsEqualByTag(t *testing.T) {
	assert.True(t, Equals(FrameOn, FrameOn, EqStrict))
	assert.True(t, Equals(FrameShimmer, FrameShimmer, EqValue))
	assert.True(t, Equals(FrameTwinkle, FrameTwinkle, EqStrict))
}

func TestIsSet(t *testing.T) {
	assert.False(t, FrameEmpty.IsSet())
	assert.True(t, FrameOn.IsSet())
	assert.True(t, Frame{Action: ActionSetBrightness, Level: 1}.IsSet())
}

func genFrame(t *rapid.T, label string) Frame {
	action := Action(rapid.IntRange(int(ActionEmpty), int(ActionTwinkle)).Draw(t, label+"_action"))
	switch action {
	case ActionSetBrightness:
		return Frame{Action: action, Level: rapid.Uint8().Draw(t, label+"_level")}
	case ActionFade:
		return Frame{
			Action:           action,
			From:             rapid.Uint8().Draw(t, label+"_from"),
			To:               rapid.Uint8().Draw(t, label+"_to"),
			DurationHalfSecs: rapid.Uint8().Draw(t, label+"_dur"),
		}
	default:
		return Frame{Action: action}
	}
}
