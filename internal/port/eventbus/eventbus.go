package eventbus

import (
	"context"

	"github.com/alanyang/llm-roles/internal/domain/event"
)

//go:generate mockgen -destination=../../mocks/mock_eventbus.go -package=mocks github.com/alanyang/llm-roles/internal/port/eventbus EventBus

type Handler func(ctx context.Context, e event.Event)

type Subscription interface {
	Unsubscribe()
}

// EventBus fans record change events out to subscribers of a channel.
// [LSP] Postgres LISTEN/NOTIFY and the in-process bus are interchangeable.
type EventBus interface {
	Publish(ctx context.Context, e event.Event) error
	Subscribe(ctx context.Context, ch event.Channel, handler Handler) (Subscription, error)
}
