package service

import (
	"context"

	"ai-planner-be/internal/pkg/logger"
	"ai-planner-be/internal/websocket"
	"ai-planner-be/pkg/events"
)

// INotifierService bridges planner events to connected websocket clients:
// every mutation the planner publishes is pushed out as a notification.
type INotifierService interface {
	Consume(ctx context.Context) error
}

type notifierService struct {
	bus *events.Bus
	hub *websocket.Hub
	log logger.ILogger
}

func NewNotifierService(bus *events.Bus, hub *websocket.Hub, log logger.ILogger) INotifierService {
	return &notifierService{
		bus: bus,
		hub: hub,
		log: log,
	}
}

func (ns *notifierService) Consume(ctx context.Context) error {
	envelopes, err := ns.bus.Subscribe(ctx, events.TopicPlannerEvents)
	if err != nil {
		return err
	}

	go func() {
		for env := range envelopes {
			ns.log.Debug("NotifierService", "forwarding planner event", map[string]interface{}{
				"type": env.Type,
			})
			ns.hub.Broadcast(env.Type, env.Data)
		}
	}()

	return nil
}
