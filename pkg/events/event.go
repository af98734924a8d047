package events

import "time"

// Topic the planner publishes mutation events on.
const TopicPlannerEvents = "planner.events"

// Event types emitted by the schedule store.
const (
	TypeDailyTaskCreated  = "DAILY_TASK_CREATED"
	TypeDailyTaskUpdated  = "DAILY_TASK_UPDATED"
	TypeDailyTaskRemoved  = "DAILY_TASK_REMOVED"
	TypeWeeklyTaskCreated = "WEEKLY_TASK_CREATED"
	TypeWeeklyTaskUpdated = "WEEKLY_TASK_UPDATED"
	TypeWeeklyTaskRemoved = "WEEKLY_TASK_REMOVED"
	TypeChatReply         = "CHAT_REPLY"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "DAILY_TASK_CREATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the plain implementation used for all planner events.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// DailyTaskEvent builds a mutation event for a date-keyed task.
func DailyTaskEvent(eventType, name, date string) BaseEvent {
	return BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"name": name,
			"date": date,
		},
		OccurredAt: time.Now(),
	}
}

// ChatReplyEvent announces a finished assistant reply so push channels can
// deliver it without polling.
func ChatReplyEvent(sessionId, reply string) BaseEvent {
	return BaseEvent{
		Type: TypeChatReply,
		Data: map[string]interface{}{
			"session_id": sessionId,
			"reply":      reply,
		},
		OccurredAt: time.Now(),
	}
}

// WeeklyTaskEvent builds a mutation event for a week-keyed task.
func WeeklyTaskEvent(eventType, name string, weekNumber int) BaseEvent {
	return BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"name":        name,
			"week_number": weekNumber,
		},
		OccurredAt: time.Now(),
	}
}
