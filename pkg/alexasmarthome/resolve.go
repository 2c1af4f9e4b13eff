package alexasmarthome

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// The vendor stamps capability states with fractional seconds and a numeric
// zone offset, with or without a colon: "2024-03-01T10:15:00.123+01:00" and
// "2024-03-01T10:15:00.123+0100" both occur.
var timeOfSampleLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999Z0700",
}

func parseTimeOfSample(value string) (time.Time, error) {
	var err error
	for _, layout := range timeOfSampleLayouts {
		var t time.Time
		if t, err = time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// PowerStateOn and friends are the raw string values of the vendor power and
// guard interfaces.
const (
	PowerStateOn  = "ON"
	PowerStateOff = "OFF"
)

// Temperature is a value+scale pair as delivered by Alexa.TemperatureSensor.
type Temperature struct {
	Value float64
	Scale string
}

// Color is an HSB triple from Alexa.ColorController.
type Color struct {
	Hue        float64
	Saturation float64
	Brightness float64
}

// Resolver answers point queries against an entity state snapshot. It never
// mutates the snapshot and holds no state beyond a logger, so a single
// resolver can serve concurrent readers.
type Resolver struct {
	logger *zap.Logger
}

func NewResolver(logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{logger: logger}
}

// ResolveOptions narrow a property lookup. A zero Instance matches records
// regardless of instance; Since rejects records sampled strictly before it.
type ResolveOptions struct {
	Instance string
	Since    *time.Time
}

// ResolveProperty scans an entity's capability states in delivery order and
// returns the value of the first record matching namespace and name. When the
// first match carries a parseable timestamp older than opts.Since the result
// is absent; the scan does not continue past a stale match.
func (r *Resolver) ResolveProperty(states EntityStateMap, entityID, namespace, name string, opts ResolveOptions) (any, bool) {
	for _, state := range states[entityID] {
		if state.Namespace != namespace || state.Name != name {
			continue
		}
		if opts.Instance != "" && state.Instance != opts.Instance {
			continue
		}
		if opts.Since != nil && state.TimeOfSample != "" {
			sampled, err := parseTimeOfSample(state.TimeOfSample)
			if err != nil {
				r.logger.Debug("unparseable timeOfSample, keeping value",
					zap.String("entityId", entityID),
					zap.String("timeOfSample", state.TimeOfSample))
			} else if sampled.Before(*opts.Since) {
				r.logger.Debug("discarding stale capability state",
					zap.String("entityId", entityID),
					zap.String("namespace", namespace),
					zap.String("name", name),
					zap.Time("sampled", sampled))
				return nil, false
			}
		}
		return state.Value, true
	}
	return nil, false
}

// PowerState returns the raw power state string ("ON"/"OFF").
func (r *Resolver) PowerState(states EntityStateMap, entityID string, since *time.Time) (string, bool) {
	value, ok := r.ResolveProperty(states, entityID, InterfacePowerController, "powerState", ResolveOptions{Since: since})
	if !ok {
		return "", false
	}
	return asString(value)
}

// GuardArmState returns the guard panel arm state (e.g. "ARMED_AWAY").
func (r *Resolver) GuardArmState(states EntityStateMap, entityID string) (string, bool) {
	value, ok := r.ResolveProperty(states, entityID, InterfaceSecurityPanelController, "armState", ResolveOptions{})
	if !ok {
		return "", false
	}
	return asString(value)
}

// Temperature returns the sensor reading with its scale. The vendor encodes
// it as an object {"value": n, "scale": "CELSIUS"}.
func (r *Resolver) Temperature(states EntityStateMap, entityID string, since *time.Time) (Temperature, bool) {
	value, ok := r.ResolveProperty(states, entityID, InterfaceTemperatureSensor, "temperature", ResolveOptions{Since: since})
	if !ok {
		return Temperature{}, false
	}
	obj, ok := value.(map[string]any)
	if !ok {
		return Temperature{}, false
	}
	reading, ok := asFloat(obj["value"])
	if !ok {
		return Temperature{}, false
	}
	scale, _ := asString(obj["scale"])
	return Temperature{Value: reading, Scale: scale}, true
}

// AirQuality returns one range controller reading of an air quality monitor,
// selected by capability instance.
func (r *Resolver) AirQuality(states EntityStateMap, entityID, instance string, since *time.Time) (float64, bool) {
	value, ok := r.ResolveProperty(states, entityID, InterfaceRangeController, "rangeValue",
		ResolveOptions{Instance: instance, Since: since})
	if !ok {
		return 0, false
	}
	return asFloat(value)
}

// Brightness returns a light's brightness percentage.
func (r *Resolver) Brightness(states EntityStateMap, entityID string, since *time.Time) (float64, bool) {
	value, ok := r.ResolveProperty(states, entityID, InterfaceBrightnessController, "brightness", ResolveOptions{Since: since})
	if !ok {
		return 0, false
	}
	return asFloat(value)
}

// ColorTemperatureKelvin returns a light's color temperature.
func (r *Resolver) ColorTemperatureKelvin(states EntityStateMap, entityID string, since *time.Time) (float64, bool) {
	value, ok := r.ResolveProperty(states, entityID, InterfaceColorTemperatureController, "colorTemperatureInKelvin",
		ResolveOptions{Since: since})
	if !ok {
		return 0, false
	}
	return asFloat(value)
}

// Color returns a light's HSB color. Missing components fall back to hue 0,
// saturation 0, brightness 1.
func (r *Resolver) Color(states EntityStateMap, entityID string, since *time.Time) (Color, bool) {
	value, ok := r.ResolveProperty(states, entityID, InterfaceColorController, "color", ResolveOptions{Since: since})
	if !ok {
		return Color{}, false
	}
	obj, ok := value.(map[string]any)
	if !ok {
		return Color{}, false
	}
	color := Color{Hue: 0, Saturation: 0, Brightness: 1}
	if hue, ok := asFloat(obj["hue"]); ok {
		color.Hue = hue
	}
	if saturation, ok := asFloat(obj["saturation"]); ok {
		color.Saturation = saturation
	}
	if brightness, ok := asFloat(obj["brightness"]); ok {
		color.Brightness = brightness
	}
	return color, true
}

// DetectionState returns the raw detection string of a sensor interface such
// as Alexa.ContactSensor or Alexa.MotionSensor.
func (r *Resolver) DetectionState(states EntityStateMap, entityID, namespace string, since *time.Time) (string, bool) {
	value, ok := r.ResolveProperty(states, entityID, namespace, "detectionState", ResolveOptions{Since: since})
	if !ok {
		return "", false
	}
	return asString(value)
}

// Illuminance returns the light sensor reading in lux.
func (r *Resolver) Illuminance(states EntityStateMap, entityID string, since *time.Time) (float64, bool) {
	value, ok := r.ResolveProperty(states, entityID, InterfaceLightSensor, "illuminance", ResolveOptions{Since: since})
	if !ok {
		return 0, false
	}
	return asFloat(value)
}

// AcousticEvent returns one per-event detection string of an acoustic event
// sensor. Some firmware versions nest the string inside {"value": ...}.
func (r *Resolver) AcousticEvent(states EntityStateMap, entityID, property string, since *time.Time) (string, bool) {
	value, ok := r.ResolveProperty(states, entityID, InterfaceAcousticEventSensor, property, ResolveOptions{Since: since})
	if !ok {
		return "", false
	}
	if obj, isObj := value.(map[string]any); isObj {
		value = obj["value"]
	}
	return asString(value)
}

func asString(value any) (string, bool) {
	s, ok := value.(string)
	return s, ok
}

// asFloat widens the numeric shapes encoding/json produces plus plain ints
// from hand-built snapshots.
func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
