package config

import (
	"errors"
	"regexp"
	"strings"

	"go.uber.org/zap/zapcore"
)

type Config struct {
	LogLevel zapcore.Level
	Account  AccountConfig `mapstructure:"account"`
	MQTT     MQTTConfig    `mapstructure:"mqtt"`

	Port    uint `mapstructure:"port"`
	HttpLog bool `mapstructure:"http_log"`
}

type AccountConfig struct {
	ScanIntervalMillis      uint32   `mapstructure:"scan_interval_millis"`
	ExtendedEntityDiscovery bool     `mapstructure:"extended_entity_discovery"`
	IncludeDevices          []string `mapstructure:"include_devices"`
	ExcludeDevices          []string `mapstructure:"exclude_devices"`
	DemoMode                bool     `mapstructure:"demo_mode"`
}

type MQTTConfig struct {
	Host              string
	Port              int
	Username          string
	Password          string
	BaseTopic         string `mapstructure:"base_topic"`
	HADiscoveryEnable bool   `mapstructure:"ha_discovery_enable"`
	HADiscoveryTopic  string `mapstructure:"ha_discovery_topic"`
}

// DeviceIncluded applies the account filters to a device display name.
// An include list, when present, wins over the exclude list.
func (c AccountConfig) DeviceIncluded(name string) bool {
	if len(c.IncludeDevices) > 0 {
		return containsName(c.IncludeDevices, name)
	}
	return !containsName(c.ExcludeDevices, name)
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

func CheckMQTTTopic(baseTopic string) (string, error) {
	// check and fix base topic
	lowerBaseTopic := strings.ToLower(baseTopic)
	baseTopicRegexp := regexp.MustCompile("^[a-z0-9_]+$")
	matches := baseTopicRegexp.FindAllStringSubmatch(lowerBaseTopic, 1)
	if len(matches) <= 0 {
		return "", errors.New("invalid topic. can only contain letters, numbers and underscores")
	}
	return lowerBaseTopic, nil
}
