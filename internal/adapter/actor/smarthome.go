package actor

import (
	"context"
	"fmt"
	"time"

	"alexasensors2mqtt/internal/core/domain"
	"alexasensors2mqtt/internal/util"
	"alexasensors2mqtt/internal/util/actorutil"
	"alexasensors2mqtt/pkg/alexasmarthome"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

// SmartHomeActor owns the vendor API client. Calls run as background tasks
// so a slow API never blocks the mailbox; the retry combinator shields the
// poll loop from transient API hiccups.
type SmartHomeActor struct {
	behavior   actor.Behavior
	stash      *actorutil.Stash
	client     alexasmarthome.SmartHomeClient
	classifier *alexasmarthome.Classifier
	logger     *zap.Logger
}

type backgroundTaskResult struct {
	message any
	replyTo *actor.PID
}

func NewSmartHomeActor(client alexasmarthome.SmartHomeClient, logger *zap.Logger) *SmartHomeActor {
	act := &SmartHomeActor{
		client:     client,
		classifier: alexasmarthome.NewClassifier(actorutil.ActorLogger(domain.ACTOR_ID_SMARTHOME, logger)),
		behavior:   actor.NewBehavior(),
		stash:      &actorutil.Stash{},
		logger:     actorutil.ActorLogger(domain.ACTOR_ID_SMARTHOME, logger),
	}
	act.behavior.Become(act.DefaultReceive)
	return act
}

func (state *SmartHomeActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *SmartHomeActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("smarthome@default: ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_SMARTHOME,
			Healthy: true,
			State:   "idle",
		})
	case domain.GetDeviceGraphRequest:
		state.logger.Debug("smarthome@default: GetDeviceGraphRequest")
		sender := actorutil.ForRequest(msg).ReplyTo(ctx)

		actorutil.MapBackgroundTask(actorutil.NewBackgroundTask(ctx, state.getDeviceGraph),
			mapTaskResult[domain.GetDeviceGraphResponse](sender)).Recover(func(err error) backgroundTaskResult {
			return backgroundTaskResult{
				message: domain.GetDeviceGraphResponse{
					ActorResponseMixIn: domain.ActorResponseMixIn{
						ResponseError: err,
					},
				},
				replyTo: sender,
			}
		}).WithTimeout(15 * time.Second).PipeTo(ctx.Self())
		state.behavior.BecomeStacked(state.WaitingAPI)
	case domain.GetEntityStateRequest:
		state.logger.Debug("smarthome@default: GetEntityStateRequest", zap.Int("entities", len(msg.EntityIDs)))
		sender := actorutil.ForRequest(msg).ReplyTo(ctx)
		entityIDs := msg.EntityIDs

		actorutil.MapBackgroundTask(actorutil.NewBackgroundTask(ctx, func() (*domain.GetEntityStateResponse, error) {
			return state.getEntityState(entityIDs)
		}),
			mapTaskResult[domain.GetEntityStateResponse](sender)).Recover(func(err error) backgroundTaskResult {
			return backgroundTaskResult{
				message: domain.GetEntityStateResponse{
					ActorResponseMixIn: domain.ActorResponseMixIn{
						ResponseError: err,
					},
				},
				replyTo: sender,
			}
		}).WithTimeout(15 * time.Second).PipeTo(ctx.Self())
		state.behavior.BecomeStacked(state.WaitingAPI)
	default:
		state.logger.Debug("smarthome@default default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *SmartHomeActor) WaitingAPI(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case backgroundTaskResult:
		state.logger.Debug("smarthome@waiting backgroundTaskResult", zap.String("type", fmt.Sprintf("%T", msg.message)))
		ctx.Send(msg.replyTo, msg.message)
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("smarthome@waiting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (a *SmartHomeActor) getDeviceGraph() (*domain.GetDeviceGraphResponse, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	details, err := util.Retry(ctx, 3, 500*time.Millisecond, a.client.GetNetworkDetails)
	if err != nil {
		a.logger.Error("smarthome: device graph fetch failed", zap.Error(err))
		return nil, err
	}
	appliances := alexasmarthome.FlattenAppliances(details)
	return &domain.GetDeviceGraphResponse{
		Entities:       a.classifier.Classify(appliances),
		ApplianceCount: len(appliances),
	}, nil
}

func (a *SmartHomeActor) getEntityState(entityIDs []string) (*domain.GetEntityStateResponse, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	states, err := util.Retry(ctx, 3, 500*time.Millisecond, func(ctx context.Context) (alexasmarthome.EntityStateMap, error) {
		return a.client.GetEntityState(ctx, entityIDs)
	})
	if err != nil {
		a.logger.Error("smarthome: entity state fetch failed", zap.Error(err))
		return nil, err
	}
	return &domain.GetEntityStateResponse{
		States: states,
	}, nil
}

func mapTaskResult[T any](sender *actor.PID) func(t *T) *backgroundTaskResult {
	return func(t *T) *backgroundTaskResult {
		return &backgroundTaskResult{
			message: *t,
			replyTo: sender,
		}
	}
}
