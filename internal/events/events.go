package events

import (
	"context"
	"time"
)

// JobEvent is the message published for job activity.
type JobEvent struct {
	Type       string    `json:"type"`
	JobID      uint      `json:"job_id"`
	ActorID    uint      `json:"actor_id"`
	Details    string    `json:"details"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Handler processes one event.
type Handler func(ctx context.Context, event JobEvent) error

// Publisher hands events to whatever processes them.
type Publisher interface {
	Publish(ctx context.Context, event JobEvent) error
}

// Inline delivers events synchronously to a handler in the same process.
// Used when no broker is configured.
type Inline struct {
	Handler Handler
}

func (p *Inline) Publish(ctx context.Context, event JobEvent) error {
	if p.Handler == nil {
		return nil
	}
	return p.Handler(ctx, event)
}
