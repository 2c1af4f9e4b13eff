package alexasmarthome

import (
	"errors"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"
)

const (
	InterfaceSecurityPanelController    = "Alexa.SecurityPanelController"
	InterfaceTemperatureSensor          = "Alexa.TemperatureSensor"
	InterfaceRangeController            = "Alexa.RangeController"
	InterfacePowerController            = "Alexa.PowerController"
	InterfaceBrightnessController       = "Alexa.BrightnessController"
	InterfaceColorController            = "Alexa.ColorController"
	InterfaceColorTemperatureController = "Alexa.ColorTemperatureController"
	InterfaceContactSensor              = "Alexa.ContactSensor"
	InterfaceMotionSensor               = "Alexa.MotionSensor"
	InterfaceLightSensor                = "Alexa.LightSensor"
	InterfaceAcousticEventSensor        = "Alexa.AcousticEventSensor"
)

const (
	airQualityMonitorDescription = "Amazon Indoor Air Quality Monitor"
	airQualityAssetPrefix        = "Alexa.AirQuality"
	guardPanelModelName          = "REDROCK_GUARD_PANEL"
	skillDriverNamespace         = "SKILL"
)

// AcousticEventDetectionProperties lists every per-event detection state an
// acoustic event sensor can report, in display order.
var AcousticEventDetectionProperties = []string{
	"babyCryDetectionState",
	"beepingApplianceDetectionState",
	"carbonMonoxideSirenDetectionState",
	"coughDetectionState",
	"dogBarkDetectionState",
	"glassBreakDetectionState",
	"humanPresenceDetectionState",
	"runningWaterDetectionState",
	"smokeAlarmDetectionState",
	"smokeSirenDetectionState",
	"snoreDetectionState",
	"waterSoundsDetectionState",
}

// knownHostBridgeManufacturers are bridges that re-export entities from the
// host platform back into Alexa. Appliances behind them must never be picked
// up again or we would build a control loop.
var knownHostBridgeManufacturers = []string{"t0bst4r", "Matterbridge"}

// localManufacturers are brands whose devices connect through an Echo
// (bluetooth or first party) without a reliable connectedVia marker.
var localManufacturers = []string{"Ledvance", "Sengled", "Amazon"}

// Zigbee devices are guaranteed local and carry a MAC-address style id.
var zigbeeAppliancePattern = regexp.MustCompile(`(?i)^AAA_SonarCloudService_([0-9A-F]{2}:){7}[0-9A-F]{2}$`)

// Appliances behind a Matter-style bridge look like
// "AAA_SonarCloudService_UUID#DEVICENUM"; the bridge shares the UUID prefix.
var bridgedAppliancePattern = regexp.MustCompile(`(?i)^(AAA_SonarCloudService_[a-f0-9\-]+)#[0-9]+$`)

// ErrMalformedAppliance marks an appliance record missing its load-bearing
// identifiers. The classifier skips such records and keeps going.
var ErrMalformedAppliance = errors.New("malformed appliance record")

// Entity is the descriptor handed to the entity-construction layer.
type Entity struct {
	ID           string `json:"id"`
	ApplianceID  string `json:"appliance_id"`
	Name         string `json:"name"`
	IsHueV1      bool   `json:"is_hue_v1"`
	DeviceSerial string `json:"device_serial"`
}

// LightEntity extends Entity with the controller capabilities the light
// actually supports.
type LightEntity struct {
	Entity
	Brightness       bool `json:"brightness"`
	Color            bool `json:"color"`
	ColorTemperature bool `json:"color_temperature"`
}

// AirQualitySubSensor identifies one measurement channel of an air quality
// monitor. Instance ids disambiguate the range controller readings.
type AirQualitySubSensor struct {
	SensorType string `json:"sensorType"`
	Instance   string `json:"instance"`
	Unit       string `json:"unit"`
}

// AirQualityEntity extends Entity with the discovered sub-sensor channels.
type AirQualityEntity struct {
	Entity
	Sensors []AirQualitySubSensor `json:"sensors"`
}

// Entities groups classified entity descriptors by category. An appliance may
// appear in several lists; an air quality monitor is also a temperature
// sensor by design.
type Entities struct {
	Light               []LightEntity      `json:"light"`
	Guard               []Entity           `json:"guard"`
	Temperature         []Entity           `json:"temperature"`
	AirQuality          []AirQualityEntity `json:"air_quality"`
	ContactSensor       []Entity           `json:"contact_sensor"`
	MotionSensor        []Entity           `json:"motion_sensor"`
	SmartSwitch         []Entity           `json:"smart_switch"`
	LightSensor         []Entity           `json:"light_sensor"`
	AcousticEventSensor []Entity           `json:"acoustic_event_sensor"`
}

// HasCapability reports whether an appliance offers an interface with enough
// support to be worth exposing: the capability must be retrievable or
// proactively reported and list the property among its supported names.
func HasCapability(appliance Appliance, interfaceName, propertyName string) bool {
	for _, cap := range appliance.Capabilities {
		props := cap.Properties
		if cap.InterfaceName != interfaceName || props == nil {
			continue
		}
		if !props.Retrievable && !props.ProactivelyReported {
			continue
		}
		for _, prop := range props.Supported {
			if prop.Name == propertyName {
				return true
			}
		}
	}
	return false
}

// IsHueV1 detects appliances managed by a Philips Hue v1 hub. This also
// catches devices pretending to be old Hue bulbs, such as entities the host
// platform itself exposes through hue emulation.
func IsHueV1(appliance Appliance) bool {
	return appliance.ManufacturerName == "Royal Philips Electronics"
}

// IsSkill reports whether the appliance comes from a smart home skill rather
// than a locally connected device.
func IsSkill(appliance Appliance) bool {
	return appliance.DriverIdentity != nil && appliance.DriverIdentity.Namespace == skillDriverNamespace
}

// IsKnownHostBridge tests whether a bridge appliance re-exports host platform
// entities. Nil means the appliance has no bridge.
func IsKnownHostBridge(bridge *Appliance) bool {
	if bridge == nil {
		return false
	}
	for _, name := range knownHostBridgeManufacturers {
		if bridge.ManufacturerName == name {
			return true
		}
	}
	return false
}

// DeviceBridge finds the controlling bridge appliance for a bridged device.
// Only appliances that connect through an Echo and match the bridged id
// pattern can have one.
func DeviceBridge(appliance Appliance, appliances map[string]Appliance) *Appliance {
	if appliance.ConnectedVia == "" {
		return nil
	}
	match := bridgedAppliancePattern.FindStringSubmatch(appliance.ApplianceID)
	if match == nil {
		return nil
	}
	if bridge, ok := appliances[match[1]]; ok {
		return &bridge
	}
	return nil
}

// IsLocal tests whether an appliance is locally connected to an Echo. This is
// mainly here to prevent loops with devices the host platform itself exposes
// to Alexa. The checks run in priority order.
func IsLocal(appliance Appliance) bool {
	// connectedVia names the Echo that holds the connection. It is blank for
	// skill derived devices.
	if appliance.ConnectedVia != "" {
		return true
	}

	// Echo/AVS devices: connectedVia is unreliable here, only the first
	// device of an account appears to get it set.
	if containsString(appliance.ApplianceTypes, "ALEXA_VOICE_ENABLED") {
		return !IsSkill(appliance)
	}

	// Ledvance/Sengled bulbs over bluetooth are hard to detect as local.
	// Amazon devices are not local but bypassing the check allows control.
	if containsString(localManufacturers, appliance.ManufacturerName) {
		return !IsSkill(appliance)
	}

	// Made for Amazon by Third Reality accessories (Echo Flex night light).
	if appliance.ManufacturerName == "Third Reality" && appliance.FriendlyDescription == "Third Reality smart device" {
		return true
	}

	// Amazon Smart Plug.
	if appliance.ManufacturerName == "Amazon" && appliance.FriendlyDescription == "Amazon Smart Plug" {
		return true
	}

	return zigbeeAppliancePattern.MatchString(appliance.ApplianceID)
}

// IsGuard tests for the guard alarm panel of an Echo.
func IsGuard(appliance Appliance) bool {
	return appliance.ModelName == guardPanelModelName &&
		HasCapability(appliance, InterfaceSecurityPanelController, "armState")
}

// IsTemperatureSensor tests for the temperature sensor of an Echo. The air
// quality monitor reports temperature too but is handled by its own rule.
func IsTemperatureSensor(appliance Appliance) bool {
	return IsLocal(appliance) &&
		HasCapability(appliance, InterfaceTemperatureSensor, "temperature") &&
		appliance.FriendlyDescription != airQualityMonitorDescription
}

// IsAirQualitySensor tests for the Amazon indoor air quality monitor.
func IsAirQualitySensor(appliance Appliance) bool {
	return appliance.FriendlyDescription == airQualityMonitorDescription &&
		containsString(appliance.ApplianceTypes, "AIR_QUALITY_MONITOR") &&
		HasCapability(appliance, InterfaceTemperatureSensor, "temperature") &&
		HasCapability(appliance, InterfaceRangeController, "rangeValue")
}

// IsLight tests for a light controlled locally by an Echo. Smart plugs the
// customer redeclared as lights count as lights.
func IsLight(appliance Appliance) bool {
	return IsLocal(appliance) &&
		(containsString(appliance.ApplianceTypes, "LIGHT") ||
			(containsString(appliance.ApplianceTypes, "SMARTPLUG") &&
				appliance.CustomerDefinedDeviceType == "LIGHT")) &&
		HasCapability(appliance, InterfacePowerController, "powerState")
}

// IsContactSensor tests for a contact sensor controlled locally by an Echo.
func IsContactSensor(appliance Appliance) bool {
	return IsLocal(appliance) &&
		(containsString(appliance.ApplianceTypes, "CONTACT_SENSOR") ||
			HasCapability(appliance, InterfaceContactSensor, "detectionState"))
}

// IsMotionSensor tests for a motion sensor controlled locally by an Echo.
func IsMotionSensor(appliance Appliance) bool {
	return IsLocal(appliance) &&
		(containsString(appliance.ApplianceTypes, "MOTION_SENSOR") ||
			HasCapability(appliance, InterfaceMotionSensor, "detectionState"))
}

// IsSmartSwitch tests for a switch controlled locally by an Echo which is not
// redeclared as a light.
func IsSmartSwitch(appliance Appliance) bool {
	return IsLocal(appliance) &&
		(containsString(appliance.ApplianceTypes, "SMARTPLUG") ||
			containsString(appliance.ApplianceTypes, "SWITCH")) &&
		appliance.CustomerDefinedDeviceType != "LIGHT" &&
		HasCapability(appliance, InterfacePowerController, "powerState")
}

// IsLightSensor tests for the light sensor of an Echo.
func IsLightSensor(appliance Appliance) bool {
	return IsLocal(appliance) && HasCapability(appliance, InterfaceLightSensor, "illuminance")
}

// IsAcousticEventSensor tests for an Echo acoustic event sensor: it must
// expose detectionModes plus at least one per-event detection state.
func IsAcousticEventSensor(appliance Appliance) bool {
	if !IsLocal(appliance) || !HasCapability(appliance, InterfaceAcousticEventSensor, "detectionModes") {
		return false
	}
	for _, property := range AcousticEventDetectionProperties {
		if HasCapability(appliance, InterfaceAcousticEventSensor, property) {
			return true
		}
	}
	return false
}

// FriendliestName picks the best display name. Alexa stores manual renames in
// aliases, so the first non-empty alias name wins.
func FriendliestName(appliance Appliance) string {
	for _, alias := range appliance.Aliases {
		if alias.FriendlyName != "" {
			return alias.FriendlyName
		}
	}
	return appliance.FriendlyName
}

// DeviceSerial finds the device serial, falling back to the entity id when
// the identifier list carries none.
func DeviceSerial(appliance Appliance) string {
	for _, identifier := range appliance.AlexaDeviceIdentifierList {
		if identifier.DMSDeviceSerialNumber != "" {
			return identifier.DMSDeviceSerialNumber
		}
	}
	return appliance.EntityID
}

// Classifier turns a flattened device graph into categorized entity
// descriptors. Classification is a pure function of the snapshot; the
// classifier itself only carries a logger.
type Classifier struct {
	logger *zap.Logger
}

func NewClassifier(logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{logger: logger}
}

// ParseEntities flattens a network details graph and classifies every
// appliance in it.
func (c *Classifier) ParseEntities(details *NetworkDetails) Entities {
	return c.Classify(FlattenAppliances(details))
}

// Classify walks the flattened appliance map in stable id order and places
// every appliance in zero or more category lists. Running it twice on the
// same snapshot yields identical output.
func (c *Classifier) Classify(appliances map[string]Appliance) Entities {
	var entities Entities

	ids := make([]string, 0, len(appliances))
	for id := range appliances {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		appliance := appliances[id]

		if err := validateAppliance(appliance); err != nil {
			c.logger.Warn("skipping appliance", zap.String("applianceId", id), zap.Error(err))
			continue
		}

		if bridge := DeviceBridge(appliance, appliances); IsKnownHostBridge(bridge) {
			c.logger.Debug("found host platform bridge, skipping appliance",
				zap.String("applianceId", appliance.ApplianceID))
			continue
		}

		serial := DeviceSerial(appliance)
		descriptor := Entity{
			ID:           appliance.EntityID,
			ApplianceID:  appliance.ApplianceID,
			Name:         FriendliestName(appliance),
			IsHueV1:      IsHueV1(appliance),
			DeviceSerial: serial,
		}

		supported := false
		if IsGuard(appliance) {
			entities.Guard = append(entities.Guard, descriptor)
			supported = true
		}
		if IsTemperatureSensor(appliance) {
			entities.Temperature = append(entities.Temperature, descriptor)
			supported = true
		}
		if IsAirQualitySensor(appliance) {
			airQuality := AirQualityEntity{
				Entity:  descriptor,
				Sensors: airQualitySubSensors(appliance, c.logger),
			}
			// The monitor doubles as a temperature sensor.
			entities.AirQuality = append(entities.AirQuality, airQuality)
			entities.Temperature = append(entities.Temperature, descriptor)
			supported = true
		}
		if IsSmartSwitch(appliance) {
			entities.SmartSwitch = append(entities.SmartSwitch, descriptor)
			supported = true
		}
		if IsLight(appliance) {
			entities.Light = append(entities.Light, LightEntity{
				Entity:           descriptor,
				Brightness:       HasCapability(appliance, InterfaceBrightnessController, "brightness"),
				Color:            HasCapability(appliance, InterfaceColorController, "color"),
				ColorTemperature: HasCapability(appliance, InterfaceColorTemperatureController, "colorTemperatureInKelvin"),
			})
			supported = true
		}
		if IsContactSensor(appliance) {
			entities.ContactSensor = append(entities.ContactSensor, descriptor)
			supported = true
		}
		if IsMotionSensor(appliance) {
			entities.MotionSensor = append(entities.MotionSensor, descriptor)
			supported = true
		}
		if IsLightSensor(appliance) {
			entities.LightSensor = append(entities.LightSensor, descriptor)
			supported = true
		}
		if IsAcousticEventSensor(appliance) {
			entities.AcousticEventSensor = append(entities.AcousticEventSensor, descriptor)
			supported = true
		}

		if !supported {
			c.logger.Debug("found unsupported appliance",
				zap.String("applianceId", appliance.ApplianceID),
				zap.String("manufacturer", appliance.ManufacturerName),
				zap.String("model", appliance.ModelName))
		}
	}

	return entities
}

// airQualitySubSensors scans the instance-bearing capabilities of an air
// quality monitor and maps each air quality asset to its range controller
// instance and unit.
func airQualitySubSensors(appliance Appliance, logger *zap.Logger) []AirQualitySubSensor {
	var sensors []AirQualitySubSensor
	for _, cap := range appliance.Capabilities {
		if cap.Instance == "" || cap.Resources == nil {
			continue
		}
		for _, entry := range cap.Resources.FriendlyNames {
			assetID := entry.Value.AssetID
			if assetID == "" || !strings.HasPrefix(assetID, airQualityAssetPrefix) {
				continue
			}
			var unit string
			if cap.Configuration != nil {
				unit = cap.Configuration.UnitOfMeasure
			}
			sensor := AirQualitySubSensor{
				SensorType: assetID,
				Instance:   cap.Instance,
				Unit:       unit,
			}
			sensors = append(sensors, sensor)
			logger.Debug("air quality sub-sensor detected",
				zap.String("sensorType", sensor.SensorType),
				zap.String("instance", sensor.Instance),
				zap.String("unit", sensor.Unit))
		}
	}
	return sensors
}

func validateAppliance(appliance Appliance) error {
	if appliance.ApplianceID == "" || appliance.EntityID == "" {
		return ErrMalformedAppliance
	}
	return nil
}

func containsString(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
