package event

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeRoleCreated            Type = "role_created"
	TypeRoleUpdated            Type = "role_updated"
	TypeRoleDeleted            Type = "role_deleted"
	TypeTemplateCreated        Type = "template_created"
	TypeTemplateUpdated        Type = "template_updated"
	TypeTemplateDeleted        Type = "template_deleted"
	TypeDefaultTemplateSet     Type = "default_template_set"
	TypeDefaultTemplateRemoved Type = "default_template_removed"
)

// Channel is a domain-scoped Postgres NOTIFY channel.
// All event types within a domain share one LISTEN connection.
type Channel string

const (
	ChannelRole     Channel = "role"
	ChannelTemplate Channel = "template"
)

// Channels lists every channel in publication order.
var Channels = []Channel{ChannelRole, ChannelTemplate}

var typeToChannel = map[Type]Channel{
	TypeRoleCreated:            ChannelRole,
	TypeRoleUpdated:            ChannelRole,
	TypeRoleDeleted:            ChannelRole,
	TypeDefaultTemplateSet:     ChannelRole,
	TypeDefaultTemplateRemoved: ChannelRole,
	TypeTemplateCreated:        ChannelTemplate,
	TypeTemplateUpdated:        ChannelTemplate,
	TypeTemplateDeleted:        ChannelTemplate,
}

// ChannelFor returns the domain channel for a given event type.
func ChannelFor(t Type) Channel { return typeToChannel[t] }

// Event carries identifiers only, not full state.
// Subscribers fetch fresh state through the REST API.
type Event struct {
	Type      Type       `json:"type"`
	EntityID  uuid.UUID  `json:"entity_id"`
	RelatedID *uuid.UUID `json:"related_id,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

func New(eventType Type, entityID uuid.UUID) Event {
	return Event{
		Type:      eventType,
		EntityID:  entityID,
		Timestamp: time.Now().UTC(),
	}
}

// NewRelated builds an event about a (role, template) association.
func NewRelated(eventType Type, entityID, relatedID uuid.UUID) Event {
	e := New(eventType, entityID)
	e.RelatedID = &relatedID
	return e
}
