package actor

import (
	"testing"
	"time"

	"alexasensors2mqtt/internal/core/domain"
	"alexasensors2mqtt/internal/mqtt"
	"alexasensors2mqtt/internal/util"
	"alexasensors2mqtt/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMQTTActor(t *testing.T) {

	cfg := util.LoadTestConfig()

	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)

	context := as.Root

	es := eventstream.EventStream{}

	props := actor.PropsFromProducer(func() actor.Actor { return NewTestMQTTActor(&cfg, &es, logger) })
	pid := context.Spawn(props)

	time.Sleep(2 * time.Second)

	msg := domain.ActorHealthRequest{}
	result, err := context.RequestFuture(pid, msg, 2*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp, ok := result.(domain.ActorHealthResponse)
	assert.True(t, ok)
	assert.NotNil(t, resp)

	es.Publish(domain.FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: domain.SensorUpdateEventMixIn{
			Id: "abcd1234_temperature",
		},
		Value:    21.53,
		Decimals: 1,
	})
	es.Publish(domain.BinarySensorUpdateEvent{
		SensorUpdateEventMixIn: domain.SensorUpdateEventMixIn{
			Id: "abcd1234_motion",
		},
		Value: true,
	})

	time.Sleep(1 * time.Second)

	context.Stop(pid)

	time.Sleep(1 * time.Second)

	as.Shutdown()
}

func TestEvent2MQTTMessage(t *testing.T) {

	cfg := util.LoadTestConfig()
	logger := zap.NewNop()
	es := eventstream.EventStream{}

	state := NewMQTTActor(&cfg, &es, logger)
	state.client = mqtt.CreateMQTTClient(&cfg, mqtt.OptsFromConfig(&cfg), nil, nil)

	msg := state.event2MQTTMessage(domain.FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: domain.SensorUpdateEventMixIn{Id: "abcd1234_temperature"},
		Value:                  21.57,
		Decimals:               1,
	})
	if assert.NotNil(t, msg) {
		assert.Equal(t, "alexasensors/sensor/abcd1234_temperature/state", msg.topic)
		assert.Equal(t, "21.6", msg.message)
	}

	msg = state.event2MQTTMessage(domain.BinarySensorUpdateEvent{
		SensorUpdateEventMixIn: domain.SensorUpdateEventMixIn{Id: "abcd1234_contact"},
		Value:                  false,
	})
	if assert.NotNil(t, msg) {
		assert.Equal(t, "alexasensors/binary_sensor/abcd1234_contact/state", msg.topic)
		assert.Equal(t, "off", msg.message)
	}

	msg = state.event2MQTTMessage(domain.UnknownBinarySensorUpdateEvent{
		SensorUpdateEventMixIn: domain.SensorUpdateEventMixIn{Id: "abcd1234_contact"},
	})
	assert.Nil(t, msg)

	msg = state.event2MQTTMessage(domain.TextSensorUpdateEvent{
		SensorUpdateEventMixIn: domain.SensorUpdateEventMixIn{Id: "abcd1234_guard_state"},
		Value:                  "ARMED_STAY",
	})
	if assert.NotNil(t, msg) {
		assert.Equal(t, "alexasensors/sensor/abcd1234_guard_state/state", msg.topic)
		assert.Equal(t, "ARMED_STAY", msg.message)
	}
}
