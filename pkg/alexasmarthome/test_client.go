package alexasmarthome

import (
	"context"
	"time"
)

func CreateTestSmartHomeClient() SmartHomeClient {
	return TestSmartHomeClient{}
}

// TestSmartHomeClient serves a canned account: an Echo with temperature,
// light and acoustic event sensors, a guard panel, a Sengled bulb, a smart
// plug, contact and motion sensors, an air quality monitor, a skill device
// and a Matterbridge pair.
type TestSmartHomeClient struct {
}

func (c TestSmartHomeClient) GetNetworkDetails(ctx context.Context) (*NetworkDetails, error) {
	return &NetworkDetails{
		LocationDetails: NetworkLocations{
			LocationDetails: map[string]LocationDetail{
				"Home": {
					AmazonBridgeDetails: AmazonBridges{
						AmazonBridgeDetails: map[string]BridgeDetail{
							"SonarCloudService": {
								ApplianceDetails: ApplianceDetails{
									ApplianceDetails: testAppliances(),
								},
							},
						},
					},
				},
			},
		},
	}, nil
}

func (c TestSmartHomeClient) GetEntityState(ctx context.Context, entityIDs []string) (EntityStateMap, error) {
	now := time.Now().Format("2006-01-02T15:04:05.000-0700")
	all := EntityStateMap{
		TestEchoEntityID: {
			{Namespace: InterfaceTemperatureSensor, Name: "temperature",
				Value: map[string]any{"value": 21.5, "scale": "CELSIUS"}, TimeOfSample: now},
			{Namespace: InterfaceLightSensor, Name: "illuminance", Value: 106.0, TimeOfSample: now},
			{Namespace: InterfaceAcousticEventSensor, Name: "babyCryDetectionState",
				Value: map[string]any{"value": "NOT_DETECTED"}, TimeOfSample: now},
			{Namespace: InterfaceAcousticEventSensor, Name: "smokeAlarmDetectionState",
				Value: map[string]any{"value": "NOT_DETECTED"}, TimeOfSample: now},
		},
		TestGuardEntityID: {
			{Namespace: InterfaceSecurityPanelController, Name: "armState", Value: "ARMED_STAY", TimeOfSample: now},
		},
		TestLightEntityID: {
			{Namespace: InterfacePowerController, Name: "powerState", Value: "ON", TimeOfSample: now},
			{Namespace: InterfaceBrightnessController, Name: "brightness", Value: 80.0, TimeOfSample: now},
			{Namespace: InterfaceColorController, Name: "color",
				Value: map[string]any{"hue": 120.0, "saturation": 0.5, "brightness": 0.8}, TimeOfSample: now},
		},
		TestPlugEntityID: {
			{Namespace: InterfacePowerController, Name: "powerState", Value: "OFF", TimeOfSample: now},
		},
		TestContactEntityID: {
			{Namespace: InterfaceContactSensor, Name: "detectionState", Value: "NOT_DETECTED", TimeOfSample: now},
		},
		TestMotionEntityID: {
			{Namespace: InterfaceMotionSensor, Name: "detectionState", Value: "DETECTED", TimeOfSample: now},
		},
		TestAirQualityEntityID: {
			{Namespace: InterfaceTemperatureSensor, Name: "temperature",
				Value: map[string]any{"value": 72.1, "scale": "FAHRENHEIT"}, TimeOfSample: now},
			{Namespace: InterfaceRangeController, Name: "rangeValue", Instance: "9", Value: 4.0, TimeOfSample: now},
			{Namespace: InterfaceRangeController, Name: "rangeValue", Instance: "10", Value: 112.0, TimeOfSample: now},
		},
	}
	if entityIDs == nil {
		return all, nil
	}
	result := make(EntityStateMap, len(entityIDs))
	for _, id := range entityIDs {
		if states, ok := all[id]; ok {
			result[id] = states
		}
	}
	return result, nil
}

const (
	TestEchoEntityID       = "entity-echo"
	TestGuardEntityID      = "entity-guard"
	TestLightEntityID      = "entity-light"
	TestPlugEntityID       = "entity-plug"
	TestContactEntityID    = "entity-contact"
	TestMotionEntityID     = "entity-motion"
	TestAirQualityEntityID = "entity-aiaqm"
	TestSkillEntityID      = "entity-skill-bulb"
	TestBridgedEntityID    = "entity-bridged"
)

func testAppliances() map[string]Appliance {
	detection := func(interfaceName string, properties ...string) Capability {
		supported := make([]SupportedProperty, 0, len(properties))
		for _, p := range properties {
			supported = append(supported, SupportedProperty{Name: p})
		}
		return Capability{
			InterfaceName: interfaceName,
			Properties:    &CapabilityProperties{Retrievable: true, Supported: supported},
		}
	}

	return map[string]Appliance{
		"AAA_SonarCloudService_echo-1": {
			ApplianceID:         "AAA_SonarCloudService_echo-1",
			EntityID:            TestEchoEntityID,
			FriendlyName:        "Kitchen Echo",
			FriendlyDescription: "Amazon smart device",
			ManufacturerName:    "Amazon",
			ModelName:           "Echo Dot",
			ApplianceTypes:      []string{"ALEXA_VOICE_ENABLED"},
			Capabilities: []Capability{
				detection(InterfaceTemperatureSensor, "temperature"),
				detection(InterfaceLightSensor, "illuminance"),
				detection(InterfaceAcousticEventSensor,
					"detectionModes", "babyCryDetectionState", "smokeAlarmDetectionState"),
			},
			AlexaDeviceIdentifierList: []DeviceIdentifier{{DMSDeviceSerialNumber: "ECHOSERIAL1"}},
		},
		"AAA_SonarCloudService_guard-1": {
			ApplianceID:         "AAA_SonarCloudService_guard-1",
			EntityID:            TestGuardEntityID,
			FriendlyName:        "Alexa Guard",
			FriendlyDescription: "Amazon security panel",
			ManufacturerName:    "Amazon",
			ModelName:           "REDROCK_GUARD_PANEL",
			Capabilities: []Capability{
				detection(InterfaceSecurityPanelController, "armState"),
			},
		},
		"AAA_SonarCloudService_AB:CD:EF:01:23:45:67:89": {
			ApplianceID:         "AAA_SonarCloudService_AB:CD:EF:01:23:45:67:89",
			EntityID:            TestLightEntityID,
			FriendlyName:        "Desk Lamp",
			Aliases:             []Alias{{FriendlyName: "Reading Light"}},
			FriendlyDescription: "Sengled bulb",
			ManufacturerName:    "Sengled",
			ModelName:           "E11-G13",
			ApplianceTypes:      []string{"LIGHT"},
			Capabilities: []Capability{
				detection(InterfacePowerController, "powerState"),
				detection(InterfaceBrightnessController, "brightness"),
				detection(InterfaceColorController, "color"),
				detection(InterfaceColorTemperatureController, "colorTemperatureInKelvin"),
			},
		},
		"AAA_SonarCloudService_plug-1": {
			ApplianceID:         "AAA_SonarCloudService_plug-1",
			EntityID:            TestPlugEntityID,
			FriendlyName:        "Heater Plug",
			FriendlyDescription: "Amazon Smart Plug",
			ManufacturerName:    "Amazon",
			ModelName:           "Smart Plug",
			ApplianceTypes:      []string{"SMARTPLUG"},
			Capabilities: []Capability{
				detection(InterfacePowerController, "powerState"),
			},
		},
		"AAA_SonarCloudService_01:23:45:67:89:AB:CD:EF": {
			ApplianceID:         "AAA_SonarCloudService_01:23:45:67:89:AB:CD:EF",
			EntityID:            TestContactEntityID,
			FriendlyName:        "Front Door",
			FriendlyDescription: "Contact sensor",
			ManufacturerName:    "Third Reality",
			ModelName:           "3RDS17BZ",
			ApplianceTypes:      []string{"CONTACT_SENSOR"},
			Capabilities: []Capability{
				detection(InterfaceContactSensor, "detectionState"),
			},
		},
		"AAA_SonarCloudService_FE:DC:BA:98:76:54:32:10": {
			ApplianceID:         "AAA_SonarCloudService_FE:DC:BA:98:76:54:32:10",
			EntityID:            TestMotionEntityID,
			FriendlyName:        "Hallway Motion",
			FriendlyDescription: "Motion sensor",
			ManufacturerName:    "Third Reality",
			ModelName:           "3RMS16BZ",
			ApplianceTypes:      []string{"MOTION_SENSOR"},
			Capabilities: []Capability{
				detection(InterfaceMotionSensor, "detectionState"),
			},
		},
		"AAA_SonarCloudService_aiaqm-1": {
			ApplianceID:         "AAA_SonarCloudService_aiaqm-1",
			EntityID:            TestAirQualityEntityID,
			FriendlyName:        "Air Quality Monitor",
			FriendlyDescription: "Amazon Indoor Air Quality Monitor",
			ManufacturerName:    "Amazon",
			ModelName:           "AIAQM",
			ApplianceTypes:      []string{"AIR_QUALITY_MONITOR"},
			Capabilities: []Capability{
				detection(InterfaceTemperatureSensor, "temperature"),
				{
					InterfaceName: InterfaceRangeController,
					Instance:      "9",
					Properties:    &CapabilityProperties{Retrievable: true, Supported: []SupportedProperty{{Name: "rangeValue"}}},
					Resources: &CapabilityResources{FriendlyNames: []FriendlyNameResource{
						{Value: FriendlyNameValue{AssetID: "Alexa.AirQuality.ParticulateMatter"}},
					}},
					Configuration: &CapabilityConfiguration{UnitOfMeasure: "Alexa.Unit.Density.MicroGramsPerCubicMeter"},
				},
				{
					InterfaceName: InterfaceRangeController,
					Instance:      "10",
					Properties:    &CapabilityProperties{Retrievable: true, Supported: []SupportedProperty{{Name: "rangeValue"}}},
					Resources: &CapabilityResources{FriendlyNames: []FriendlyNameResource{
						{Value: FriendlyNameValue{AssetID: "Alexa.AirQuality.VolatileOrganicCompounds"}},
					}},
					Configuration: &CapabilityConfiguration{UnitOfMeasure: "Alexa.Unit.PartsPerBillion"},
				},
			},
			ConnectedVia: "Kitchen Echo",
		},
		"AAA_SonarCloudService_skill-bulb-1": {
			ApplianceID:         "AAA_SonarCloudService_skill-bulb-1",
			EntityID:            TestSkillEntityID,
			FriendlyName:        "Cloud Bulb",
			FriendlyDescription: "Skill connected bulb",
			ManufacturerName:    "Sengled",
			ModelName:           "W31-N11",
			ApplianceTypes:      []string{"LIGHT"},
			DriverIdentity:      &DriverIdentity{Namespace: "SKILL"},
			Capabilities: []Capability{
				detection(InterfacePowerController, "powerState"),
			},
		},
		"AAA_SonarCloudService_9c8d7e6f-0a1b-2c3d-4e5f-6a7b8c9d0e1f": {
			ApplianceID:         "AAA_SonarCloudService_9c8d7e6f-0a1b-2c3d-4e5f-6a7b8c9d0e1f",
			EntityID:            "entity-matterbridge",
			FriendlyName:        "Matterbridge Hub",
			FriendlyDescription: "Matter bridge",
			ManufacturerName:    "Matterbridge",
			ModelName:           "Matterbridge",
		},
		"AAA_SonarCloudService_9c8d7e6f-0a1b-2c3d-4e5f-6a7b8c9d0e1f#2": {
			ApplianceID:         "AAA_SonarCloudService_9c8d7e6f-0a1b-2c3d-4e5f-6a7b8c9d0e1f#2",
			EntityID:            TestBridgedEntityID,
			FriendlyName:        "Bridged Lamp",
			FriendlyDescription: "Matter bridged light",
			ManufacturerName:    "Matterbridge",
			ModelName:           "Light",
			ApplianceTypes:      []string{"LIGHT"},
			ConnectedVia:        "Kitchen Echo",
			Capabilities: []Capability{
				detection(InterfacePowerController, "powerState"),
			},
		},
	}
}
