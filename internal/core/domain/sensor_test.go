package domain

import (
	"testing"

	"alexasensors2mqtt/pkg/alexasmarthome"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAirQualitySensorSuffix(t *testing.T) {
	assert.Equal(t, "particulate_matter", AirQualitySensorSuffix(alexasmarthome.AirQualitySubSensor{
		SensorType: "Alexa.AirQuality.ParticulateMatter",
	}))
	assert.Equal(t, "volatile_organic_compounds", AirQualitySensorSuffix(alexasmarthome.AirQualitySubSensor{
		SensorType: "Alexa.AirQuality.VolatileOrganicCompounds",
	}))
	assert.Equal(t, "humidity", AirQualitySensorSuffix(alexasmarthome.AirQualitySubSensor{
		SensorType: "Alexa.AirQuality.Humidity",
	}))
}

func TestAirQualityChannelName(t *testing.T) {
	assert.Equal(t, "Volatile Organic Compounds", AirQualityChannelName("Alexa.AirQuality.VolatileOrganicCompounds"))
	assert.Equal(t, "Indoor Air Quality", AirQualityChannelName("Alexa.AirQuality.IndoorAirQuality"))
}

func TestUnitSymbol(t *testing.T) {
	assert.Equal(t, "µg/m³", UnitSymbol("Alexa.Unit.Density.MicroGramsPerCubicMeter"))
	assert.Equal(t, "ppb", UnitSymbol("Alexa.Unit.PartsPerBillion"))
	assert.Equal(t, "%", UnitSymbol("Alexa.Unit.Percent"))
	// unknown ids pass through
	assert.Equal(t, "Alexa.Unit.Weird", UnitSymbol("Alexa.Unit.Weird"))
}

func TestAcousticEventSensors(t *testing.T) {
	entity := alexasmarthome.Entity{ID: "entity-echo", Name: "Kitchen Echo", DeviceSerial: "ECHOSERIAL1"}
	device := EntityDevice(entity, "Amazon", "Echo Dot")

	sensors := AcousticEventSensors(device, entity)
	require.Len(t, sensors, len(AcousticEventSensorSpecs))

	for i, sensor := range sensors {
		spec := AcousticEventSensorSpecs[i]
		assert.Equal(t, SensorId(entity, spec.IdSuffix), sensor.Id)
		assert.Equal(t, "Kitchen Echo "+spec.Name, sensor.Name)
		assert.Equal(t, SENSOR_TYPE_BINARY, sensor.SensorType)
		assert.Equal(t, DEVICE_CLASS_SOUND, sensor.DeviceClass)
		assert.Equal(t, spec.Icon, sensor.Icon)
		require.NotNil(t, sensor.EnabledByDefault)
		assert.False(t, *sensor.EnabledByDefault)
	}
}

func TestAirQualitySensors(t *testing.T) {
	entity := alexasmarthome.AirQualityEntity{
		Entity: alexasmarthome.Entity{ID: "entity-aiaqm", Name: "Air Monitor", DeviceSerial: "AQSERIAL"},
		Sensors: []alexasmarthome.AirQualitySubSensor{
			{SensorType: "Alexa.AirQuality.ParticulateMatter", Instance: "9", Unit: "Alexa.Unit.Density.MicroGramsPerCubicMeter"},
			{SensorType: "Alexa.AirQuality.VolatileOrganicCompounds", Instance: "10", Unit: "Alexa.Unit.PartsPerBillion"},
		},
	}
	device := EntityDevice(entity.Entity, "Amazon", "AIAQM")

	sensors := AirQualitySensors(device, entity)
	require.Len(t, sensors, 2)

	assert.Equal(t, "Air Monitor Particulate Matter", sensors[0].Name)
	assert.Equal(t, "pm25", sensors[0].DeviceClass)
	assert.Equal(t, "µg/m³", sensors[0].UnitOfMeasurement)
	assert.Equal(t, STATE_CLASS_MEASUREMENT, sensors[0].StateClass)

	assert.Equal(t, "Air Monitor Volatile Organic Compounds", sensors[1].Name)
	assert.Equal(t, "volatile_organic_compounds_parts", sensors[1].DeviceClass)
	assert.Equal(t, "ppb", sensors[1].UnitOfMeasurement)
}

func TestEntityDeviceIdStability(t *testing.T) {
	entity := alexasmarthome.Entity{ID: "entity-1", Name: "Front Door", DeviceSerial: "SERIAL1"}
	a := EntityDevice(entity, "Amazon", "Contact Sensor")
	b := EntityDevice(entity, "Amazon", "Contact Sensor")
	assert.Equal(t, a.Id, b.Id)
	assert.Contains(t, a.Id, "alexa_")

	contact := ContactBinarySensor(a, entity)
	assert.True(t, contact.AssumedState)
	assert.Equal(t, a.Id+"_"+contact.Id, contact.UniqueId)
}
