package actor

import (
	"context"
	"testing"

	"alexasensors2mqtt/internal/core/domain"
	"alexasensors2mqtt/internal/util"
	"alexasensors2mqtt/pkg/alexasmarthome"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntities(t *testing.T) alexasmarthome.Entities {
	t.Helper()
	client := alexasmarthome.CreateTestSmartHomeClient()
	details, err := client.GetNetworkDetails(context.Background())
	require.NoError(t, err)
	return alexasmarthome.NewClassifier(nil).Classify(alexasmarthome.FlattenAppliances(details))
}

func countSensorType(sensors []domain.GenericSensor, sensorType string) int {
	count := 0
	for _, sensor := range sensors {
		if sensor.SensorType == sensorType {
			count++
		}
	}
	return count
}

func TestBuildDiscoverySensors(t *testing.T) {

	cfg := util.LoadTestConfig()
	entities := testEntities(t)

	sensors := BuildDiscoverySensors(&cfg, entities)

	// bridge + 2 temperature + illuminance + guard + 2 air quality channels
	// as sensors; contact + motion + 12 acoustic channels + light + plug as
	// binary sensors
	assert.Len(t, sensors, 23)
	assert.Equal(t, 6, countSensorType(sensors, domain.SENSOR_TYPE_SENSOR))
	assert.Equal(t, 17, countSensorType(sensors, domain.SENSOR_TYPE_BINARY))

	// every sensor has a device and a unique id
	seen := make(map[string]struct{})
	for _, sensor := range sensors {
		assert.NotEmpty(t, sensor.Device.Id)
		require.NotEmpty(t, sensor.UniqueId)
		_, dup := seen[sensor.UniqueId]
		assert.False(t, dup, "duplicate unique id %s", sensor.UniqueId)
		seen[sensor.UniqueId] = struct{}{}
	}
}

func TestBuildDiscoverySensorsWithoutExtendedDiscovery(t *testing.T) {

	cfg := util.LoadTestConfig()
	cfg.Account.ExtendedEntityDiscovery = false
	entities := testEntities(t)

	sensors := BuildDiscoverySensors(&cfg, entities)

	// the light and plug power sensors disappear
	assert.Len(t, sensors, 21)
}

func TestBuildDiscoverySensorsAppliesDeviceFilter(t *testing.T) {

	cfg := util.LoadTestConfig()
	cfg.Account.ExcludeDevices = []string{"Hallway Motion"}
	entities := testEntities(t)

	sensors := BuildDiscoverySensors(&cfg, entities)

	for _, sensor := range sensors {
		assert.NotEqual(t, "Hallway Motion", sensor.Device.Name)
	}
}
