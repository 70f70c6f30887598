package services

import (
	"time"

	"github.com/camden-git/persongraph/realtime"
)

const (
	EventPersonCreated  = "person.created"
	EventPersonUpdated  = "person.updated"
	EventPersonDeleted  = "person.deleted"
	EventAddressRemoved = "person.address_removed"
	EventAddressDeleted = "address.deleted"
	EventPhoneRemoved   = "phone.removed"
)

// EventPublisher receives an event for every committed mutation.
// *realtime.Hub implements it.
type EventPublisher interface {
	Broadcast(event realtime.Event)
}

type nopPublisher struct{}

func (nopPublisher) Broadcast(realtime.Event) {}

func publisherOrNop(p EventPublisher) EventPublisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}

func newEvent(eventType, entity string, id interface{}, extra map[string]interface{}) realtime.Event {
	return realtime.Event{
		Type:      eventType,
		Entity:    entity,
		ID:        id,
		Extra:     extra,
		Timestamp: time.Now().Unix(),
	}
}
