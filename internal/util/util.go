package util

import (
	"alexasensors2mqtt/internal/config"

	"go.uber.org/zap"
)

func LoadTestConfig() config.Config {
	return config.Config{
		LogLevel: zap.DebugLevel,
		Account: config.AccountConfig{
			ScanIntervalMillis:      5000,
			ExtendedEntityDiscovery: true,
			DemoMode:                true,
		},
		MQTT: config.MQTTConfig{
			Host:             "localhost",
			Port:             1883,
			BaseTopic:        "alexasensors",
			HADiscoveryTopic: "homeassistant",
		},
		Port: 8080,
	}
}
