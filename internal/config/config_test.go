package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeviceIncluded(t *testing.T) {

	assert := assert.New(t)

	// no filters: everything in
	cfg := AccountConfig{}
	assert.True(cfg.DeviceIncluded("Kitchen Echo"))

	// exclude list
	cfg = AccountConfig{ExcludeDevices: []string{"Cloud Bulb"}}
	assert.True(cfg.DeviceIncluded("Kitchen Echo"))
	assert.False(cfg.DeviceIncluded("Cloud Bulb"))
	assert.False(cfg.DeviceIncluded("cloud bulb"))

	// include list wins over exclude list
	cfg = AccountConfig{
		IncludeDevices: []string{"Kitchen Echo"},
		ExcludeDevices: []string{"Kitchen Echo"},
	}
	assert.True(cfg.DeviceIncluded("Kitchen Echo"))
	assert.False(cfg.DeviceIncluded("Front Door"))
}

func TestCheckMQTTTopic(t *testing.T) {

	assert := assert.New(t)

	topic, err := CheckMQTTTopic("AlexaSensors")
	assert.NoError(err)
	assert.Equal("alexasensors", topic)

	_, err = CheckMQTTTopic("bad/topic")
	assert.Error(err)

	_, err = CheckMQTTTopic("")
	assert.Error(err)
}
