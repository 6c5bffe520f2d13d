package observability

import (
	"context"

	"go.uber.org/zap"

	"github.com/gira-airport/complaint-service/internal/events"
)

var observedEvents = []events.EventType{
	events.EventComplaintCreated,
	events.EventStatusChanged,
	events.EventPriorityChanged,
	events.EventAgentAssigned,
	events.EventEvaluationReceived,
	events.EventComplaintEscalated,
	events.EventSlaBreached,
}

// RegisterEventLogger subscribes a logging and metrics handler to every
// lifecycle event type.
func RegisterEventLogger(dispatcher events.Dispatcher, logger *zap.Logger, metrics *Metrics) {
	handler := func(_ context.Context, event events.Event) error {
		metrics.RecordEvent(string(event.Type))
		fields := []zap.Field{
			zap.String("event_id", event.ID.String()),
			zap.String("complaint_id", event.ComplaintID.String()),
		}
		if event.ActorID != nil {
			fields = append(fields, zap.String("actor_id", event.ActorID.String()))
		}
		logger.Info(string(event.Type), fields...)
		return nil
	}
	for _, eventType := range observedEvents {
		dispatcher.Subscribe(eventType, handler)
	}
}
