package actor

import (
	"errors"
	"fmt"
	"time"

	"alexasensors2mqtt/internal/config"
	"alexasensors2mqtt/internal/core/domain"
	"alexasensors2mqtt/internal/util/actorutil"
	"alexasensors2mqtt/pkg/alexasmarthome"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

// HADiscoveryActor runs once on boot: it waits until the smart home and MQTT
// actors are healthy, classifies the account's device graph and announces
// every surviving sensor to the host platform.
type HADiscoveryActor struct {
	config                *config.Config
	behavior              actor.Behavior
	stash                 *actorutil.Stash
	smarthomeActor        *actor.PID
	mqttActor             *actor.PID
	smarthomeActorHealthy bool
	mqttActorHealthy      bool
	healthyRecv           int

	logger *zap.Logger
}

func NewHADiscoveryActor(config *config.Config, smarthomeActor *actor.PID, mqttActor *actor.PID, logger *zap.Logger) *HADiscoveryActor {
	act := &HADiscoveryActor{
		config:         config,
		smarthomeActor: smarthomeActor,
		mqttActor:      mqttActor,
		behavior:       actor.NewBehavior(),
		stash:          &actorutil.Stash{},
		logger:         actorutil.ActorLogger(domain.ACTOR_ID_HA_DISCOVERY, logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *HADiscoveryActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *HADiscoveryActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("hadiscovery@starting started")

		// Check SmartHome and MQTT actor healthy
		state.healthyRecv = 0
		state.smarthomeActorHealthy = false
		state.mqttActorHealthy = false
		// SmartHome Actor Request
		actorutil.PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.smarthomeActor, domain.ActorHealthRequest{}, 2*time.Second), func(err error) any {
			return domain.ActorHealthResponse{
				Id:      domain.ACTOR_ID_SMARTHOME,
				Healthy: false,
			}
		})
		// MQTT Actor Request
		actorutil.PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.mqttActor, domain.ActorHealthRequest{}, 2*time.Second), func(err error) any {
			return domain.ActorHealthResponse{
				Id:      domain.ACTOR_ID_MQTT,
				Healthy: false,
			}
		})
		state.behavior.Become(state.WaitingHealthyReceive)
	case *actor.Restarting:
	default:
		state.logger.Debug("hadiscovery@starting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *HADiscoveryActor) WaitingHealthyReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthResponse:
		state.logger.Debug("hadiscovery@healthcheck ActorHealthResponse", zap.String("sender", msg.Id), zap.Bool("healthy", msg.Healthy))
		state.healthyRecv++
		if msg.Healthy {
			switch msg.Id {
			case domain.ACTOR_ID_SMARTHOME:
				state.smarthomeActorHealthy = true
			case domain.ACTOR_ID_MQTT:
				state.mqttActorHealthy = true
			}
		}
		if state.healthyRecv == 2 {

			if state.smarthomeActorHealthy && state.mqttActorHealthy {
				// Ask SmartHome GetDeviceGraphRequest
				actorutil.PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.smarthomeActor, domain.GetDeviceGraphRequest{}, 20*time.Second), func(err error) any {
					return domain.GetDeviceGraphResponse{
						ActorResponseMixIn: domain.ActorResponseMixIn{
							ResponseError: err,
						},
					}
				})
				state.behavior.Become(state.WaitingGraphReceive)
				state.stash.UnstashAll(ctx)
			} else {
				panic(errors.New("MQTT Actor or SmartHome Actor are not healthy"))
			}
		}
	default:
		state.logger.Debug("hadiscovery@healthcheck: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *HADiscoveryActor) Done(ctx actor.Context) {

}

func (state *HADiscoveryActor) WaitingGraphReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.GetDeviceGraphResponse:
		if msg.HasResponseError() {
			panic(msg.GetResponseError())
		}
		state.logger.Debug("hadiscovery@graph: GetDeviceGraphResponse", zap.Int("appliances", msg.ApplianceCount))

		sensors := BuildDiscoverySensors(state.config, msg.Entities)

		ctx.Send(state.mqttActor, domain.PublishDiscoveryRequest{
			Sensors: sensors,
		})
		state.behavior.Become(state.Done)

	default:
		state.logger.Debug("hadiscovery@graph: default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

// BuildDiscoverySensors maps the classified entities to host platform sensor
// declarations, honoring the account include/exclude filters. Lights and
// smart plugs only surface when extended entity discovery is on.
func BuildDiscoverySensors(cfg *config.Config, entities alexasmarthome.Entities) []domain.GenericSensor {
	var sensors []domain.GenericSensor

	bridgeDevice := domain.BridgeDevice(cfg.MQTT.BaseTopic)
	sensors = append(sensors, domain.BridgeSensors(bridgeDevice)...)

	included := func(entity alexasmarthome.Entity) bool {
		return cfg.Account.DeviceIncluded(entity.Name)
	}
	entityDevice := func(entity alexasmarthome.Entity, model string) domain.Device {
		device := domain.EntityDevice(entity, "Amazon", model)
		device.ViaDevice = bridgeDevice.Id
		return device
	}

	for _, entity := range entities.Temperature {
		if included(entity) {
			sensors = append(sensors, domain.TemperatureSensor(entityDevice(entity, "Temperature Sensor"), entity))
		}
	}
	for _, entity := range entities.LightSensor {
		if included(entity) {
			sensors = append(sensors, domain.IlluminanceSensor(entityDevice(entity, "Light Sensor"), entity))
		}
	}
	for _, entity := range entities.Guard {
		if included(entity) {
			sensors = append(sensors, domain.GuardSensor(entityDevice(entity, "Guard"), entity))
		}
	}
	for _, entity := range entities.ContactSensor {
		if included(entity) {
			sensors = append(sensors, domain.ContactBinarySensor(entityDevice(entity, "Contact Sensor"), entity))
		}
	}
	for _, entity := range entities.MotionSensor {
		if included(entity) {
			sensors = append(sensors, domain.MotionBinarySensor(entityDevice(entity, "Motion Sensor"), entity))
		}
	}
	for _, entity := range entities.AcousticEventSensor {
		if included(entity) {
			device := entityDevice(entity, "Acoustic Event Sensor")
			acoustic := domain.AcousticEventSensors(device, entity)
			for i := range acoustic {
				if i > 0 {
					acoustic[i].Device = domain.IdDevice(device)
				}
				sensors = append(sensors, acoustic[i])
			}
		}
	}
	for _, entity := range entities.AirQuality {
		if included(entity.Entity) {
			device := entityDevice(entity.Entity, "Air Quality Monitor")
			airQuality := domain.AirQualitySensors(device, entity)
			for i := range airQuality {
				if i > 0 {
					airQuality[i].Device = domain.IdDevice(device)
				}
				sensors = append(sensors, airQuality[i])
			}
		}
	}

	if cfg.Account.ExtendedEntityDiscovery {
		for _, entity := range entities.Light {
			if included(entity.Entity) {
				sensors = append(sensors, domain.PowerStateBinarySensor(entityDevice(entity.Entity, "Light"), entity.Entity, "mdi:lightbulb"))
			}
		}
		for _, entity := range entities.SmartSwitch {
			if included(entity) {
				sensors = append(sensors, domain.PowerStateBinarySensor(entityDevice(entity, "Smart Plug"), entity, "mdi:power-plug"))
			}
		}
	}

	return sensors
}
