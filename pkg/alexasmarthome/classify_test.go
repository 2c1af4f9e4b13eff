package alexasmarthome

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGraph(t *testing.T) map[string]Appliance {
	t.Helper()
	client := CreateTestSmartHomeClient()
	details, err := client.GetNetworkDetails(context.Background())
	require.NoError(t, err)
	return FlattenAppliances(details)
}

func TestClassifyTestAccount(t *testing.T) {
	classifier := NewClassifier(nil)
	entities := classifier.Classify(testGraph(t))

	// Echo: temperature + light sensor + acoustic events.
	require.Len(t, entities.Temperature, 2)
	assert.Equal(t, TestAirQualityEntityID, entities.Temperature[0].ID)
	assert.Equal(t, TestEchoEntityID, entities.Temperature[1].ID)
	assert.Equal(t, "ECHOSERIAL1", entities.Temperature[1].DeviceSerial)

	require.Len(t, entities.LightSensor, 1)
	assert.Equal(t, TestEchoEntityID, entities.LightSensor[0].ID)

	require.Len(t, entities.AcousticEventSensor, 1)
	assert.Equal(t, TestEchoEntityID, entities.AcousticEventSensor[0].ID)

	require.Len(t, entities.Guard, 1)
	assert.Equal(t, TestGuardEntityID, entities.Guard[0].ID)

	// The Sengled bulb is local and fully featured; the alias wins the name.
	require.Len(t, entities.Light, 1)
	light := entities.Light[0]
	assert.Equal(t, TestLightEntityID, light.ID)
	assert.Equal(t, "Reading Light", light.Name)
	assert.True(t, light.Brightness)
	assert.True(t, light.Color)
	assert.True(t, light.ColorTemperature)
	// No serial in the identifier list, so the entity id stands in.
	assert.Equal(t, TestLightEntityID, light.DeviceSerial)

	require.Len(t, entities.SmartSwitch, 1)
	assert.Equal(t, TestPlugEntityID, entities.SmartSwitch[0].ID)

	require.Len(t, entities.ContactSensor, 1)
	require.Len(t, entities.MotionSensor, 1)

	// The air quality monitor joins both lists and carries its channels.
	require.Len(t, entities.AirQuality, 1)
	monitor := entities.AirQuality[0]
	assert.Equal(t, TestAirQualityEntityID, monitor.ID)
	require.Len(t, monitor.Sensors, 2)
	assert.Equal(t, AirQualitySubSensor{
		SensorType: "Alexa.AirQuality.ParticulateMatter",
		Instance:   "9",
		Unit:       "Alexa.Unit.Density.MicroGramsPerCubicMeter",
	}, monitor.Sensors[0])
	assert.Equal(t, AirQualitySubSensor{
		SensorType: "Alexa.AirQuality.VolatileOrganicCompounds",
		Instance:   "10",
		Unit:       "Alexa.Unit.PartsPerBillion",
	}, monitor.Sensors[1])
}

func TestClassifyIsIdempotent(t *testing.T) {
	classifier := NewClassifier(nil)
	graph := testGraph(t)

	first := classifier.Classify(graph)
	second := classifier.Classify(graph)

	assert.Equal(t, first, second)
}

func TestClassifySkipsHostBridgedAppliances(t *testing.T) {
	classifier := NewClassifier(nil)
	entities := classifier.Classify(testGraph(t))

	for _, light := range entities.Light {
		assert.NotEqual(t, TestBridgedEntityID, light.ID)
	}
}

func TestClassifySkillDeviceIsNotLocal(t *testing.T) {
	classifier := NewClassifier(nil)
	entities := classifier.Classify(testGraph(t))

	for _, light := range entities.Light {
		assert.NotEqual(t, TestSkillEntityID, light.ID)
	}
}

func TestClassifySkipsMalformedAppliance(t *testing.T) {
	classifier := NewClassifier(nil)
	graph := testGraph(t)
	graph["broken"] = Appliance{FriendlyName: "No ids at all"}

	entities := classifier.Classify(graph)

	assert.Len(t, entities.Light, 1)
	assert.Len(t, entities.SmartSwitch, 1)
}

func TestIsLocalPriorities(t *testing.T) {
	tests := []struct {
		name      string
		appliance Appliance
		local     bool
	}{
		{
			name:      "connectedVia wins",
			appliance: Appliance{ApplianceID: "x", ConnectedVia: "Echo", DriverIdentity: &DriverIdentity{Namespace: "SKILL"}},
			local:     true,
		},
		{
			name:      "voice enabled and not skill",
			appliance: Appliance{ApplianceID: "x", ApplianceTypes: []string{"ALEXA_VOICE_ENABLED"}},
			local:     true,
		},
		{
			name:      "voice enabled but skill",
			appliance: Appliance{ApplianceID: "x", ApplianceTypes: []string{"ALEXA_VOICE_ENABLED"}, DriverIdentity: &DriverIdentity{Namespace: "SKILL"}},
			local:     false,
		},
		{
			name:      "sengled without skill",
			appliance: Appliance{ApplianceID: "x", ManufacturerName: "Sengled"},
			local:     true,
		},
		{
			name:      "sengled via skill",
			appliance: Appliance{ApplianceID: "x", ManufacturerName: "Sengled", DriverIdentity: &DriverIdentity{Namespace: "SKILL"}},
			local:     false,
		},
		{
			name:      "third reality night light",
			appliance: Appliance{ApplianceID: "x", ManufacturerName: "Third Reality", FriendlyDescription: "Third Reality smart device"},
			local:     true,
		},
		{
			name:      "zigbee id",
			appliance: Appliance{ApplianceID: "AAA_SonarCloudService_ab:cd:ef:01:23:45:67:89"},
			local:     true,
		},
		{
			name:      "cloud only",
			appliance: Appliance{ApplianceID: "x", ManufacturerName: "TP-Link"},
			local:     false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.local, IsLocal(tt.appliance))
		})
	}
}

func TestDeviceBridge(t *testing.T) {
	graph := testGraph(t)

	bridged := graph["AAA_SonarCloudService_9c8d7e6f-0a1b-2c3d-4e5f-6a7b8c9d0e1f#2"]
	bridge := DeviceBridge(bridged, graph)
	require.NotNil(t, bridge)
	assert.Equal(t, "Matterbridge", bridge.ManufacturerName)
	assert.True(t, IsKnownHostBridge(bridge))

	// Without connectedVia there is never a bridge, pattern match or not.
	orphan := bridged
	orphan.ConnectedVia = ""
	assert.Nil(t, DeviceBridge(orphan, graph))

	plain := graph["AAA_SonarCloudService_plug-1"]
	assert.Nil(t, DeviceBridge(plain, graph))
	assert.False(t, IsKnownHostBridge(nil))
}

func TestHasCapabilityRequiresReachableProperty(t *testing.T) {
	appliance := Appliance{
		ApplianceID: "x",
		Capabilities: []Capability{
			{
				InterfaceName: InterfaceTemperatureSensor,
				Properties: &CapabilityProperties{
					Retrievable: false,
					Supported:   []SupportedProperty{{Name: "temperature"}},
				},
			},
		},
	}
	assert.False(t, HasCapability(appliance, InterfaceTemperatureSensor, "temperature"))

	appliance.Capabilities[0].Properties.ProactivelyReported = true
	assert.True(t, HasCapability(appliance, InterfaceTemperatureSensor, "temperature"))
	assert.False(t, HasCapability(appliance, InterfaceTemperatureSensor, "humidity"))
}

func TestFlattenAppliancesOverwritesDuplicates(t *testing.T) {
	details := &NetworkDetails{
		LocationDetails: NetworkLocations{
			LocationDetails: map[string]LocationDetail{
				"loc": {
					AmazonBridgeDetails: AmazonBridges{
						AmazonBridgeDetails: map[string]BridgeDetail{
							"bridge": {
								ApplianceDetails: ApplianceDetails{
									ApplianceDetails: map[string]Appliance{
										"a": {ApplianceID: "dup", EntityID: "first"},
										"b": {ApplianceID: "dup", EntityID: "second"},
									},
								},
							},
						},
					},
				},
			},
		},
	}
	flat := FlattenAppliances(details)
	assert.Len(t, flat, 1)
	assert.Contains(t, []string{"first", "second"}, flat["dup"].EntityID)
}
