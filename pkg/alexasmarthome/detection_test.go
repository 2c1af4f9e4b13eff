package alexasmarthome

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapDetectionState(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		present bool
		want    BinaryState
	}{
		{"detected", "DETECTED", true, StateOn},
		{"not detected", "NOT_DETECTED", true, StateOff},
		{"garbage maps to off", "GARBAGE", true, StateOff},
		{"empty string maps to off", "", true, StateOff},
		{"absent maps to unknown", "", false, StateUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapDetectionState(tt.value, tt.present))
		})
	}
}

func TestBinaryStateString(t *testing.T) {
	assert.Equal(t, "on", StateOn.String())
	assert.Equal(t, "off", StateOff.String())
	assert.Equal(t, "unknown", StateUnknown.String())
}

func TestMapContactState(t *testing.T) {
	resolver := NewResolver(nil)
	states := EntityStateMap{
		"door": {
			{Namespace: InterfaceContactSensor, Name: "detectionState", Value: "DETECTED"},
		},
		"window": {
			{Namespace: InterfaceMotionSensor, Name: "detectionState", Value: "DETECTED"},
		},
	}

	contact := MapContactState(states, "door", resolver)
	assert.Equal(t, StateOn, contact.State)
	assert.False(t, contact.Assumed)

	// Entity in the snapshot but without a contact record: known, not assumed.
	contact = MapContactState(states, "window", resolver)
	assert.Equal(t, StateUnknown, contact.State)
	assert.False(t, contact.Assumed)

	// Entity missing from the snapshot entirely: assumed state.
	contact = MapContactState(states, "gone", resolver)
	assert.Equal(t, StateUnknown, contact.State)
	assert.True(t, contact.Assumed)
}
