package domain

import "alexasensors2mqtt/pkg/alexasmarthome"

const (
	ACTOR_ID_MASTER       = "master"
	ACTOR_ID_SMARTHOME    = "smarthome"
	ACTOR_ID_COORDINATOR  = "coordinator"
	ACTOR_ID_MQTT         = "mqtt"
	ACTOR_ID_HA_DISCOVERY = "hadiscovery"
)

type GetDeviceGraphRequest struct {
	ActorRequestMixIn
}

type GetDeviceGraphResponse struct {
	ActorResponseMixIn
	Entities       alexasmarthome.Entities
	ApplianceCount int
}

type GetEntityStateRequest struct {
	ActorRequestMixIn
	EntityIDs []string
}

type GetEntityStateResponse struct {
	ActorResponseMixIn
	States alexasmarthome.EntityStateMap
}

type PublishMessageRequest struct {
	ActorRequestMixIn
	Topic   string
	Payload string
	Retain  bool
}

type PublishMessageResponse struct {
	ActorResponseMixIn
}

type PublishSensorUpdateRequest struct {
	ActorRequestMixIn
	Retain bool
	Event  SensorUpdateEvent
}

type PublishSensorUpdateResponse struct {
	ActorResponseMixIn
}

type PublishDiscoveryRequest struct {
	ActorRequestMixIn
	Sensors []GenericSensor
}

type PublishDiscoveryResponse struct {
	ActorResponseMixIn
}

type ActorHealthRequest struct {
	ActorRequestMixIn
}

type ActorHealthResponse struct {
	ActorResponseMixIn
	Id      string
	Healthy bool
	State   string
}
