package domain

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"

	"alexasensors2mqtt/pkg/alexasmarthome"

	"github.com/carlmjohnson/versioninfo"
)

const (
	SENSOR_ID_BRIDGE_STATE = "bridge"

	SENSOR_SUFFIX_TEMPERATURE = "temperature"
	SENSOR_SUFFIX_ILLUMINANCE = "illuminance"
	SENSOR_SUFFIX_GUARD       = "guard_state"
	SENSOR_SUFFIX_CONTACT     = "contact"
	SENSOR_SUFFIX_MOTION      = "motion"
	SENSOR_SUFFIX_POWER       = "power_state"

	STATE_CLASS_MEASUREMENT   = "measurement"
	DEVICE_CLASS_TEMPERATURE  = "temperature"
	DEVICE_CLASS_ILLUMINANCE  = "illuminance"
	DEVICE_CLASS_SOUND        = "sound"
	DEVICE_CLASS_DOOR         = "door"
	DEVICE_CLASS_MOTION       = "motion"
	DEVICE_CLASS_POWER        = "power"
	DEVICE_CLASS_CONNECTIVITY = "connectivity"
	ENTITY_CLASS_DIAGNOSTIC   = "diagnostic"
	SENSOR_TYPE_SENSOR        = "sensor"
	SENSOR_TYPE_BINARY        = "binary_sensor"
)

// AcousticEventSensorSpec describes one acoustic event channel: which
// detection property feeds it and how it shows up in the host platform.
type AcousticEventSensorSpec struct {
	Property string
	IdSuffix string
	Name     string
	Icon     string
}

// AcousticEventSensorSpecs is the full set of acoustic event channels an Echo
// can report, in display order.
var AcousticEventSensorSpecs = []AcousticEventSensorSpec{
	{"babyCryDetectionState", "baby_cry", "Baby Cry", "mdi:baby"},
	{"beepingApplianceDetectionState", "beeping_appliance", "Beeping Appliance", "mdi:alert"},
	{"carbonMonoxideSirenDetectionState", "co_siren", "Carbon Monoxide Siren", "mdi:alert-octagon"},
	{"coughDetectionState", "cough", "Cough", "mdi:emoticon-frown"},
	{"dogBarkDetectionState", "dog_bark", "Dog Bark", "mdi:dog"},
	{"glassBreakDetectionState", "glass_break", "Glass Break", "mdi:glass-fragile"},
	{"humanPresenceDetectionState", "presence", "Presence", "mdi:human"},
	{"runningWaterDetectionState", "running_water", "Running Water", "mdi:water"},
	{"smokeAlarmDetectionState", "smoke_alarm", "Smoke Alarm", "mdi:smoke-detector"},
	{"smokeSirenDetectionState", "smoke_siren", "Smoke Siren", "mdi:smoke-detector"},
	{"snoreDetectionState", "snore", "Snore", "mdi:sleep"},
	{"waterSoundsDetectionState", "water_sounds", "Water Sounds", "mdi:water"},
}

type airQualityChannelSpec struct {
	DeviceClass string
	Icon        string
}

// Vendor air quality asset ids mapped to host platform metadata.
var airQualityChannelSpecs = map[string]airQualityChannelSpec{
	"Alexa.AirQuality.ParticulateMatter":        {DeviceClass: "pm25", Icon: "mdi:air-filter"},
	"Alexa.AirQuality.VolatileOrganicCompounds": {DeviceClass: "volatile_organic_compounds_parts", Icon: "mdi:chemical-weapon"},
	"Alexa.AirQuality.CarbonMonoxide":           {DeviceClass: "carbon_monoxide", Icon: "mdi:molecule-co"},
	"Alexa.AirQuality.Humidity":                 {DeviceClass: "humidity", Icon: "mdi:water-percent"},
	"Alexa.AirQuality.IndoorAirQuality":         {Icon: "mdi:numeric"},
}

// Vendor unit-of-measure ids mapped to display units.
var unitOfMeasureSymbols = map[string]string{
	"Alexa.Unit.Density.MicroGramsPerCubicMeter": "µg/m³",
	"Alexa.Unit.PartsPerBillion":                 "ppb",
	"Alexa.Unit.PartsPerMillion":                 "ppm",
	"Alexa.Unit.Percent":                         "%",
}

func BridgeDevice(baseTopic string) Device {
	return Device{
		Id:           fmt.Sprintf("alexasensors_bridge_%s", md5HashShort(baseTopic)),
		Manufacturer: "alexasensors2mqtt",
		Model:        "Alexa Sensors Bridge",
		Version:      versioninfo.Short(),
		Name:         fmt.Sprintf("Alexa Sensors %s", md5HashShort(baseTopic)),
	}
}

func BridgeSensors(bridgeDevice Device) []GenericSensor {
	return []GenericSensor{
		{
			Device:         bridgeDevice,
			Id:             SENSOR_ID_BRIDGE_STATE,
			SensorType:     SENSOR_TYPE_BINARY,
			Name:           "Bridge state",
			DeviceClass:    DEVICE_CLASS_CONNECTIVITY,
			EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
			UniqueId:       uniqueId(bridgeDevice.Id, SENSOR_ID_BRIDGE_STATE),
		},
	}
}

// EntityDevice builds the host platform device record for a classified
// entity. The device serial keys the device id so re-discovery is stable.
func EntityDevice(entity alexasmarthome.Entity, manufacturer, model string) Device {
	return Device{
		Id:           fmt.Sprintf("alexa_%s", md5HashShort(entity.DeviceSerial)),
		Manufacturer: manufacturer,
		Model:        model,
		Name:         entity.Name,
	}
}

func IdDevice(device Device) Device {
	return Device{
		Id:   device.Id,
		Name: device.Name,
	}
}

// SensorId derives the MQTT-level sensor id of one entity channel.
func SensorId(entity alexasmarthome.Entity, suffix string) string {
	return fmt.Sprintf("%s_%s", md5HashShort(entity.ID), suffix)
}

func TemperatureSensor(device Device, entity alexasmarthome.Entity) GenericSensor {
	id := SensorId(entity, SENSOR_SUFFIX_TEMPERATURE)
	return GenericSensor{
		Device:            device,
		Id:                id,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              fmt.Sprintf("%s Temperature", entity.Name),
		StateClass:        STATE_CLASS_MEASUREMENT,
		DeviceClass:       DEVICE_CLASS_TEMPERATURE,
		UnitOfMeasurement: "°C",
		UniqueId:          uniqueId(device.Id, id),
	}
}

func IlluminanceSensor(device Device, entity alexasmarthome.Entity) GenericSensor {
	id := SensorId(entity, SENSOR_SUFFIX_ILLUMINANCE)
	return GenericSensor{
		Device:            device,
		Id:                id,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              fmt.Sprintf("%s Illuminance", entity.Name),
		StateClass:        STATE_CLASS_MEASUREMENT,
		DeviceClass:       DEVICE_CLASS_ILLUMINANCE,
		UnitOfMeasurement: "lx",
		UniqueId:          uniqueId(device.Id, id),
	}
}

func GuardSensor(device Device, entity alexasmarthome.Entity) GenericSensor {
	id := SensorId(entity, SENSOR_SUFFIX_GUARD)
	return GenericSensor{
		Device:     device,
		Id:         id,
		SensorType: SENSOR_TYPE_SENSOR,
		Name:       fmt.Sprintf("%s Guard", entity.Name),
		Icon:       "mdi:shield-home",
		UniqueId:   uniqueId(device.Id, id),
	}
}

func ContactBinarySensor(device Device, entity alexasmarthome.Entity) GenericSensor {
	id := SensorId(entity, SENSOR_SUFFIX_CONTACT)
	return GenericSensor{
		Device:       device,
		Id:           id,
		SensorType:   SENSOR_TYPE_BINARY,
		Name:         entity.Name,
		DeviceClass:  DEVICE_CLASS_DOOR,
		UniqueId:     uniqueId(device.Id, id),
		AssumedState: true,
	}
}

func MotionBinarySensor(device Device, entity alexasmarthome.Entity) GenericSensor {
	id := SensorId(entity, SENSOR_SUFFIX_MOTION)
	return GenericSensor{
		Device:      device,
		Id:          id,
		SensorType:  SENSOR_TYPE_BINARY,
		Name:        entity.Name,
		DeviceClass: DEVICE_CLASS_MOTION,
		UniqueId:    uniqueId(device.Id, id),
	}
}

// PowerStateBinarySensor mirrors the on/off state of a light or smart plug.
// Commands are out of scope, so even controllable appliances surface as
// read-only binary sensors.
func PowerStateBinarySensor(device Device, entity alexasmarthome.Entity, icon string) GenericSensor {
	id := SensorId(entity, SENSOR_SUFFIX_POWER)
	return GenericSensor{
		Device:      device,
		Id:          id,
		SensorType:  SENSOR_TYPE_BINARY,
		Name:        entity.Name,
		DeviceClass: DEVICE_CLASS_POWER,
		Icon:        icon,
		UniqueId:    uniqueId(device.Id, id),
	}
}

// AcousticEventSensors expands one Echo into a binary sensor per acoustic
// event channel.
func AcousticEventSensors(device Device, entity alexasmarthome.Entity) []GenericSensor {
	sensors := make([]GenericSensor, 0, len(AcousticEventSensorSpecs))
	disabled := false
	for _, spec := range AcousticEventSensorSpecs {
		id := SensorId(entity, spec.IdSuffix)
		sensors = append(sensors, GenericSensor{
			Device:           device,
			Id:               id,
			SensorType:       SENSOR_TYPE_BINARY,
			Name:             fmt.Sprintf("%s %s", entity.Name, spec.Name),
			DeviceClass:      DEVICE_CLASS_SOUND,
			Icon:             spec.Icon,
			UniqueId:         uniqueId(device.Id, id),
			EnabledByDefault: &disabled,
		})
	}
	return sensors
}

// AirQualitySensors expands an air quality monitor into one measurement
// sensor per discovered channel.
func AirQualitySensors(device Device, entity alexasmarthome.AirQualityEntity) []GenericSensor {
	sensors := make([]GenericSensor, 0, len(entity.Sensors))
	for _, channel := range entity.Sensors {
		spec := airQualityChannelSpecs[channel.SensorType]
		id := SensorId(entity.Entity, AirQualitySensorSuffix(channel))
		sensors = append(sensors, GenericSensor{
			Device:            device,
			Id:                id,
			SensorType:        SENSOR_TYPE_SENSOR,
			Name:              fmt.Sprintf("%s %s", entity.Name, AirQualityChannelName(channel.SensorType)),
			StateClass:        STATE_CLASS_MEASUREMENT,
			DeviceClass:       spec.DeviceClass,
			Icon:              spec.Icon,
			UnitOfMeasurement: UnitSymbol(channel.Unit),
			UniqueId:          uniqueId(device.Id, id),
		})
	}
	return sensors
}

// AirQualitySensorSuffix derives a stable per-channel sensor id suffix from
// the asset id, e.g. "Alexa.AirQuality.ParticulateMatter" -> "particulate_matter".
func AirQualitySensorSuffix(channel alexasmarthome.AirQualitySubSensor) string {
	name := strings.TrimPrefix(channel.SensorType, "Alexa.AirQuality.")
	return strings.ToLower(strings.ReplaceAll(camelToSpaced(name), " ", "_"))
}

// AirQualityChannelName turns the vendor asset id into a display name:
// "Alexa.AirQuality.VolatileOrganicCompounds" -> "Volatile Organic Compounds".
func AirQualityChannelName(sensorType string) string {
	return camelToSpaced(strings.TrimPrefix(sensorType, "Alexa.AirQuality."))
}

// UnitSymbol maps a vendor unit-of-measure id to its display symbol. Unknown
// ids pass through untouched.
func UnitSymbol(unit string) string {
	if symbol, ok := unitOfMeasureSymbols[unit]; ok {
		return symbol
	}
	return unit
}

func camelToSpaced(value string) string {
	var b strings.Builder
	for i, r := range value {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func uniqueId(deviceId, sensorId string) string {
	return fmt.Sprintf("%s_%s", deviceId, sensorId)
}

func md5HashShort(value string) string {
	hash := md5.Sum([]byte(value))
	return hex.EncodeToString(hash[:])[:8]
}
