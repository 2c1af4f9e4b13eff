package events

import (
	"time"

	. "alexasensors2mqtt/internal/core/domain"
	"alexasensors2mqtt/pkg/alexasmarthome"
)

// SnapshotToUpdateEvents resolves every classified entity against a state
// snapshot and produces the sensor update events for one poll cycle. A
// missing or stale reading yields no event for float/text channels and an
// unknown event for binary channels.
func SnapshotToUpdateEvents(entities alexasmarthome.Entities, states alexasmarthome.EntityStateMap,
	resolver *alexasmarthome.Resolver, since *time.Time) []any {
	var events []any

	for _, entity := range entities.Temperature {
		events = append(events, TemperatureToUpdateEvents(resolver, states, entity, since)...)
	}
	for _, entity := range entities.LightSensor {
		events = append(events, IlluminanceToUpdateEvents(resolver, states, entity, since)...)
	}
	for _, entity := range entities.Guard {
		events = append(events, GuardToUpdateEvents(resolver, states, entity)...)
	}
	for _, entity := range entities.ContactSensor {
		events = append(events, ContactToUpdateEvents(resolver, states, entity, since)...)
	}
	for _, entity := range entities.MotionSensor {
		events = append(events, MotionToUpdateEvents(resolver, states, entity, since)...)
	}
	for _, entity := range entities.SmartSwitch {
		events = append(events, PowerStateToUpdateEvents(resolver, states, entity, since)...)
	}
	for _, entity := range entities.Light {
		events = append(events, PowerStateToUpdateEvents(resolver, states, entity.Entity, since)...)
	}
	for _, entity := range entities.AcousticEventSensor {
		events = append(events, AcousticEventsToUpdateEvents(resolver, states, entity, since)...)
	}
	for _, entity := range entities.AirQuality {
		events = append(events, AirQualityToUpdateEvents(resolver, states, entity, since)...)
	}

	return events
}

func TemperatureToUpdateEvents(resolver *alexasmarthome.Resolver, states alexasmarthome.EntityStateMap,
	entity alexasmarthome.Entity, since *time.Time) []any {
	temperature, ok := resolver.Temperature(states, entity.ID, since)
	if !ok {
		return nil
	}
	return []any{FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SensorId(entity, SENSOR_SUFFIX_TEMPERATURE),
		},
		Value:    toCelsius(temperature),
		Decimals: 1,
	}}
}

func IlluminanceToUpdateEvents(resolver *alexasmarthome.Resolver, states alexasmarthome.EntityStateMap,
	entity alexasmarthome.Entity, since *time.Time) []any {
	illuminance, ok := resolver.Illuminance(states, entity.ID, since)
	if !ok {
		return nil
	}
	return []any{FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SensorId(entity, SENSOR_SUFFIX_ILLUMINANCE),
		},
		Value:    illuminance,
		Decimals: 0,
	}}
}

func GuardToUpdateEvents(resolver *alexasmarthome.Resolver, states alexasmarthome.EntityStateMap,
	entity alexasmarthome.Entity) []any {
	armState, ok := resolver.GuardArmState(states, entity.ID)
	if !ok {
		return nil
	}
	return []any{TextSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SensorId(entity, SENSOR_SUFFIX_GUARD),
		},
		Value: armState,
	}}
}

func ContactToUpdateEvents(resolver *alexasmarthome.Resolver, states alexasmarthome.EntityStateMap,
	entity alexasmarthome.Entity, since *time.Time) []any {
	value, ok := resolver.DetectionState(states, entity.ID, alexasmarthome.InterfaceContactSensor, since)
	return binaryEvents(SensorId(entity, SENSOR_SUFFIX_CONTACT), alexasmarthome.MapDetectionState(value, ok))
}

func MotionToUpdateEvents(resolver *alexasmarthome.Resolver, states alexasmarthome.EntityStateMap,
	entity alexasmarthome.Entity, since *time.Time) []any {
	value, ok := resolver.DetectionState(states, entity.ID, alexasmarthome.InterfaceMotionSensor, since)
	return binaryEvents(SensorId(entity, SENSOR_SUFFIX_MOTION), alexasmarthome.MapDetectionState(value, ok))
}

func PowerStateToUpdateEvents(resolver *alexasmarthome.Resolver, states alexasmarthome.EntityStateMap,
	entity alexasmarthome.Entity, since *time.Time) []any {
	value, ok := resolver.PowerState(states, entity.ID, since)
	if !ok {
		return binaryEvents(SensorId(entity, SENSOR_SUFFIX_POWER), alexasmarthome.StateUnknown)
	}
	state := alexasmarthome.StateOff
	if value == alexasmarthome.PowerStateOn {
		state = alexasmarthome.StateOn
	}
	return binaryEvents(SensorId(entity, SENSOR_SUFFIX_POWER), state)
}

func AcousticEventsToUpdateEvents(resolver *alexasmarthome.Resolver, states alexasmarthome.EntityStateMap,
	entity alexasmarthome.Entity, since *time.Time) []any {
	var events []any
	for _, spec := range AcousticEventSensorSpecs {
		value, ok := resolver.AcousticEvent(states, entity.ID, spec.Property, since)
		if !ok {
			// Echo models differ in which events they report; silence is
			// not an unknown state here.
			continue
		}
		events = append(events, binaryEvents(SensorId(entity, spec.IdSuffix),
			alexasmarthome.MapDetectionState(value, true))...)
	}
	return events
}

func AirQualityToUpdateEvents(resolver *alexasmarthome.Resolver, states alexasmarthome.EntityStateMap,
	entity alexasmarthome.AirQualityEntity, since *time.Time) []any {
	var events []any
	for _, channel := range entity.Sensors {
		value, ok := resolver.AirQuality(states, entity.ID, channel.Instance, since)
		if !ok {
			continue
		}
		events = append(events, FloatSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: SensorId(entity.Entity, AirQualitySensorSuffix(channel)),
			},
			Value:    value,
			Decimals: 1,
		})
	}
	return events
}

func binaryEvents(sensorId string, state alexasmarthome.BinaryState) []any {
	switch state {
	case alexasmarthome.StateOn:
		return []any{BinarySensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{Id: sensorId},
			Value:                  true,
		}}
	case alexasmarthome.StateOff:
		return []any{BinarySensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{Id: sensorId},
			Value:                  false,
		}}
	default:
		return []any{UnknownBinarySensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{Id: sensorId},
		}}
	}
}

// toCelsius normalizes a vendor temperature reading to the declared °C unit.
func toCelsius(t alexasmarthome.Temperature) float64 {
	switch t.Scale {
	case "FAHRENHEIT":
		return (t.Value - 32) * 5 / 9
	case "KELVIN":
		return t.Value - 273.15
	default:
		return t.Value
	}
}
