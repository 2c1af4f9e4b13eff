package alexasmarthome

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePropertyFirstMatchWins(t *testing.T) {
	resolver := NewResolver(nil)
	states := EntityStateMap{
		"e1": {
			{Namespace: InterfacePowerController, Name: "powerState", Value: "ON"},
			{Namespace: InterfacePowerController, Name: "powerState", Value: "OFF"},
		},
	}

	value, ok := resolver.ResolveProperty(states, "e1", InterfacePowerController, "powerState", ResolveOptions{})
	require.True(t, ok)
	assert.Equal(t, "ON", value)
}

func TestResolvePropertyInstanceFilter(t *testing.T) {
	resolver := NewResolver(nil)
	states := EntityStateMap{
		"e1": {
			{Namespace: InterfaceRangeController, Name: "rangeValue", Instance: "9", Value: 4.0},
			{Namespace: InterfaceRangeController, Name: "rangeValue", Instance: "10", Value: 112.0},
		},
	}

	value, ok := resolver.AirQuality(states, "e1", "10", nil)
	require.True(t, ok)
	assert.Equal(t, 112.0, value)

	_, ok = resolver.AirQuality(states, "e1", "11", nil)
	assert.False(t, ok)

	// Without an instance filter the first record wins regardless of instance.
	raw, ok := resolver.ResolveProperty(states, "e1", InterfaceRangeController, "rangeValue", ResolveOptions{})
	require.True(t, ok)
	assert.Equal(t, 4.0, raw)
}

func TestResolvePropertyStaleness(t *testing.T) {
	resolver := NewResolver(nil)
	sampled := time.Date(2026, 3, 1, 10, 15, 0, 123000000, time.FixedZone("", 3600))
	states := EntityStateMap{
		"e1": {
			{Namespace: InterfaceTemperatureSensor, Name: "temperature",
				Value:        map[string]any{"value": 21.5, "scale": "CELSIUS"},
				TimeOfSample: "2026-03-01T10:15:00.123+0100"},
		},
	}

	before := sampled.Add(-time.Second)
	_, ok := resolver.Temperature(states, "e1", &before)
	assert.True(t, ok, "cutoff one second before the sample keeps the value")

	after := sampled.Add(time.Second)
	_, ok = resolver.Temperature(states, "e1", &after)
	assert.False(t, ok, "cutoff one second after the sample rejects the value")
}

func TestResolvePropertyStaleMatchStopsScan(t *testing.T) {
	resolver := NewResolver(nil)
	cutoff := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	states := EntityStateMap{
		"e1": {
			{Namespace: InterfacePowerController, Name: "powerState", Value: "ON",
				TimeOfSample: "2026-03-01T10:00:00.000+0000"},
			{Namespace: InterfacePowerController, Name: "powerState", Value: "OFF",
				TimeOfSample: "2026-03-01T13:00:00.000+0000"},
		},
	}

	// The first record matches and is stale; the fresher duplicate behind it
	// must not be consulted.
	_, ok := resolver.PowerState(states, "e1", &cutoff)
	assert.False(t, ok)
}

func TestResolvePropertyUnparseableTimestampKeepsValue(t *testing.T) {
	resolver := NewResolver(nil)
	cutoff := time.Now()
	states := EntityStateMap{
		"e1": {
			{Namespace: InterfacePowerController, Name: "powerState", Value: "ON",
				TimeOfSample: "not-a-timestamp"},
		},
	}

	value, ok := resolver.PowerState(states, "e1", &cutoff)
	require.True(t, ok)
	assert.Equal(t, "ON", value)
}

func TestResolvePropertyColonOffsetTimestamp(t *testing.T) {
	resolver := NewResolver(nil)
	cutoff := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	states := EntityStateMap{
		"e1": {
			{Namespace: InterfacePowerController, Name: "powerState", Value: "ON",
				TimeOfSample: "2026-03-01T10:15:00.123+01:00"},
		},
	}

	_, ok := resolver.PowerState(states, "e1", &cutoff)
	assert.True(t, ok)
}

func TestResolvePropertyMissingEntity(t *testing.T) {
	resolver := NewResolver(nil)

	_, ok := resolver.ResolveProperty(EntityStateMap{}, "nope", InterfacePowerController, "powerState", ResolveOptions{})
	assert.False(t, ok)
}

func TestTemperatureValueAndScale(t *testing.T) {
	resolver := NewResolver(nil)
	states := EntityStateMap{
		"e1": {
			{Namespace: InterfaceTemperatureSensor, Name: "temperature",
				Value: map[string]any{"value": 72.1, "scale": "FAHRENHEIT"}},
		},
	}

	temperature, ok := resolver.Temperature(states, "e1", nil)
	require.True(t, ok)
	assert.Equal(t, 72.1, temperature.Value)
	assert.Equal(t, "FAHRENHEIT", temperature.Scale)
}

func TestColorDefaults(t *testing.T) {
	resolver := NewResolver(nil)
	states := EntityStateMap{
		"e1": {
			{Namespace: InterfaceColorController, Name: "color",
				Value: map[string]any{"hue": 210.0}},
		},
	}

	color, ok := resolver.Color(states, "e1", nil)
	require.True(t, ok)
	assert.Equal(t, 210.0, color.Hue)
	assert.Equal(t, 0.0, color.Saturation)
	assert.Equal(t, 1.0, color.Brightness)
}

func TestAcousticEventUnwrapsNestedValue(t *testing.T) {
	resolver := NewResolver(nil)
	states := EntityStateMap{
		"e1": {
			{Namespace: InterfaceAcousticEventSensor, Name: "babyCryDetectionState",
				Value: map[string]any{"value": "DETECTED"}},
			{Namespace: InterfaceAcousticEventSensor, Name: "smokeAlarmDetectionState",
				Value: "NOT_DETECTED"},
		},
	}

	value, ok := resolver.AcousticEvent(states, "e1", "babyCryDetectionState", nil)
	require.True(t, ok)
	assert.Equal(t, "DETECTED", value)

	value, ok = resolver.AcousticEvent(states, "e1", "smokeAlarmDetectionState", nil)
	require.True(t, ok)
	assert.Equal(t, "NOT_DETECTED", value)
}

func TestGuardArmState(t *testing.T) {
	resolver := NewResolver(nil)
	states := EntityStateMap{
		"e1": {
			{Namespace: InterfaceSecurityPanelController, Name: "armState", Value: "ARMED_AWAY"},
		},
	}

	state, ok := resolver.GuardArmState(states, "e1")
	require.True(t, ok)
	assert.Equal(t, "ARMED_AWAY", state)
}

func TestParseEntityStateResponse(t *testing.T) {
	payload := []byte(`{
		"deviceStates": [
			{
				"entity": {"entityId": "e1"},
				"capabilityStates": [
					"{\"namespace\":\"Alexa.PowerController\",\"name\":\"powerState\",\"value\":\"ON\",\"timeOfSample\":\"2026-03-01T10:15:00.123+0100\"}",
					"this is not json",
					"{\"namespace\":\"Alexa.BrightnessController\",\"name\":\"brightness\",\"value\":55}"
				]
			},
			{
				"entity": {"entityId": ""},
				"capabilityStates": []
			}
		]
	}`)

	states, err := ParseEntityStateResponse(payload)
	require.NoError(t, err)
	require.Len(t, states, 1)
	require.Len(t, states["e1"], 2)
	assert.Equal(t, "powerState", states["e1"][0].Name)

	resolver := NewResolver(nil)
	brightness, ok := resolver.Brightness(states, "e1", nil)
	require.True(t, ok)
	assert.Equal(t, 55.0, brightness)
}
