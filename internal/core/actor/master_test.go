package actor

import (
	"fmt"
	"testing"
	"time"

	adactor "alexasensors2mqtt/internal/adapter/actor"
	"alexasensors2mqtt/internal/core/domain"
	"alexasensors2mqtt/internal/util"
	"alexasensors2mqtt/pkg/alexasmarthome"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMasterActor(t *testing.T) {

	as := actor.NewActorSystem()
	context := as.Root

	cfg := util.LoadTestConfig()
	logCfg := zap.NewDevelopmentConfig()
	logCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	logger := zap.Must(logCfg.Build())

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewMasterOfPuppetsActor(cfg, func() *adactor.SmartHomeActor {
			return adactor.NewSmartHomeActor(alexasmarthome.CreateTestSmartHomeClient(), logger)
		}, func(es *eventstream.EventStream) *adactor.MQTTActor {
			return adactor.NewTestMQTTActor(&cfg, es, logger)
		}, logger)
	})
	pid, err := context.SpawnNamed(props, "master")
	if err != nil {
		t.Error(err)
		return
	}

	time.Sleep(2 * time.Second)

	res, err := context.RequestFuture(pid, domain.ActorHealthRequest{}, 10*time.Second).Result()
	if err != nil {
		t.Error(err)
	}
	healthResp, ok := res.(domain.ActorHealthResponse)
	assert.True(t, ok)
	fmt.Printf("Health response: %+v\n", healthResp)
	assert.NotNil(t, healthResp)

	assert.True(t, healthResp.Healthy, "healthy is true")

	res, err = context.RequestFuture(pid, domain.GetDeviceGraphRequest{}, 10*time.Second).Result()
	if err != nil {
		t.Error(err)
	}
	graphResp, ok := res.(domain.GetDeviceGraphResponse)
	assert.True(t, ok)
	assert.False(t, graphResp.HasResponseError())
	assert.NotEmpty(t, graphResp.Entities.Temperature)
	assert.Greater(t, graphResp.ApplianceCount, 0)

	context.Stop(pid)

	as.Shutdown()
}
