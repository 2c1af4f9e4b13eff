package actor

import (
	"fmt"
	"sort"
	"time"

	"alexasensors2mqtt/internal/config"
	"alexasensors2mqtt/internal/core/domain"
	"alexasensors2mqtt/internal/core/events"
	. "alexasensors2mqtt/internal/util/actorutil"
	"alexasensors2mqtt/pkg/alexasmarthome"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/asynkron/protoactor-go/scheduler"
	"go.uber.org/zap"
)

// CoordinatorActor drives the single logical update loop: fetch the device
// graph once on boot, then poll capability state snapshots on a timer and
// turn each snapshot into sensor update events. It also serves the latest
// classification to anyone who asks.
type CoordinatorActor struct {
	behavior  actor.Behavior
	stash     *Stash
	scheduler *scheduler.TimerScheduler

	smarthomeActor *actor.PID
	config         *config.Config
	eventStream    *eventstream.EventStream
	resolver       *alexasmarthome.Resolver

	entities       alexasmarthome.Entities
	entityIDs      []string
	applianceCount int

	logger *zap.Logger
}

type coordinatorTick struct {
}

func NewCoordinatorActor(config *config.Config, smarthomeActor *actor.PID, eventStream *eventstream.EventStream, logger *zap.Logger) *CoordinatorActor {
	act := &CoordinatorActor{
		config:         config,
		smarthomeActor: smarthomeActor,
		behavior:       actor.NewBehavior(),
		stash:          &Stash{},
		logger:         ActorLogger(domain.ACTOR_ID_COORDINATOR, logger),
		eventStream:    eventStream,
		resolver:       alexasmarthome.NewResolver(ActorLogger(domain.ACTOR_ID_COORDINATOR, logger)),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *CoordinatorActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *CoordinatorActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("coordinator@starting started")

		if state.config.Account.ScanIntervalMillis > 0 {
			state.scheduler = scheduler.NewTimerScheduler(ctx)
		}

		PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.smarthomeActor, domain.GetDeviceGraphRequest{}, 20*time.Second), func(err error) any {
			return domain.GetDeviceGraphResponse{
				ActorResponseMixIn: domain.ActorResponseMixIn{
					ResponseError: err,
				},
			}
		})
		state.behavior.Become(state.WaitingGraphReceive)
	case *actor.Restarting:
	default:
		state.logger.Debug("coordinator@starting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *CoordinatorActor) WaitingGraphReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.GetDeviceGraphResponse:
		if msg.HasResponseError() {
			state.logger.Error("coordinator@waitingGraph GetDeviceGraphResponse", zap.Error(msg.GetResponseError()))
			state.behavior.Become(state.DefaultReceive)
			state.stash.UnstashAll(ctx)
			return
		}
		state.logger.Debug("coordinator@waitingGraph GetDeviceGraphResponse",
			zap.Int("appliances", msg.ApplianceCount))
		state.entities = msg.Entities
		state.applianceCount = msg.ApplianceCount
		state.entityIDs = pollableEntityIDs(msg.Entities)

		if state.scheduler != nil && len(state.entityIDs) > 0 {
			state.scheduler.RequestOnce(time.Duration(state.config.Account.ScanIntervalMillis)*time.Millisecond, ctx.Self(), coordinatorTick{})
		}

		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("coordinator@waitingGraph: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *CoordinatorActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("coordinator@default: ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_COORDINATOR,
			Healthy: true,
			State:   "idle",
		})
	case domain.GetDeviceGraphRequest:
		// serve the classification from the last boot-time fetch
		state.logger.Debug("coordinator@default: GetDeviceGraphRequest")
		ForRequest(msg).Respond(ctx, domain.GetDeviceGraphResponse{
			Entities:       state.entities,
			ApplianceCount: state.applianceCount,
		})
	case coordinatorTick:
		state.logger.Debug("coordinator@default tick")
		PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.smarthomeActor, domain.GetEntityStateRequest{
			EntityIDs: state.entityIDs,
		}, 20*time.Second), func(err error) any {
			return domain.GetEntityStateResponse{
				ActorResponseMixIn: domain.ActorResponseMixIn{
					ResponseError: err,
				},
			}
		})

		// schedule next tick
		state.scheduler.RequestOnce(time.Duration(state.config.Account.ScanIntervalMillis)*time.Millisecond, ctx.Self(), coordinatorTick{})
		state.behavior.BecomeStacked(state.WaitingSnapshotReceive)
	default:
		state.logger.Debug("coordinator@default: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *CoordinatorActor) WaitingSnapshotReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.GetEntityStateResponse:
		if msg.HasResponseError() {
			state.logger.Error("coordinator@waitingSnapshot GetEntityStateResponse error", zap.Error(msg.GetResponseError()))
			state.behavior.UnbecomeStacked()
			state.stash.UnstashAll(ctx)
			return
		}
		state.logger.Debug("coordinator@waitingSnapshot GetEntityStateResponse",
			zap.Int("entities", len(msg.States)))

		evs := events.SnapshotToUpdateEvents(state.entities, msg.States, state.resolver, nil)
		for _, ev := range evs {
			state.eventStream.Publish(ev)
		}

		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("coordinator@waitingSnapshot: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

// pollableEntityIDs collects the distinct entity ids of every classified
// descriptor, sorted for stable request payloads.
func pollableEntityIDs(entities alexasmarthome.Entities) []string {
	seen := make(map[string]struct{})
	collect := func(list []alexasmarthome.Entity) {
		for _, entity := range list {
			seen[entity.ID] = struct{}{}
		}
	}
	collect(entities.Guard)
	collect(entities.Temperature)
	collect(entities.ContactSensor)
	collect(entities.MotionSensor)
	collect(entities.SmartSwitch)
	collect(entities.LightSensor)
	collect(entities.AcousticEventSensor)
	for _, entity := range entities.Light {
		seen[entity.ID] = struct{}{}
	}
	for _, entity := range entities.AirQuality {
		seen[entity.ID] = struct{}{}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
