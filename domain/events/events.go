package events

import (
	"time"
)

// SourceBackend is the event source name used on the bus
const SourceBackend = "meetgraph.backend"

// Event type names
const (
	TypeConnectionRequested = "connection.requested"
	TypeConnectionAccepted  = "connection.accepted"
	TypePremiumUpgraded     = "user.premium_upgraded"
)

// DomainEvent is the base interface for all domain events.
// Events represent something that has happened in the past.
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }

// ConnectionRequested is raised when a user sends a connection request
type ConnectionRequested struct {
	BaseEvent
	ConnectionID string `json:"connection_id"`
	FromUserID   string `json:"from_user_id"`
	ToUserID     string `json:"to_user_id"`
	Status       string `json:"status"`
}

// NewConnectionRequested creates a ConnectionRequested event
func NewConnectionRequested(connectionID, fromUserID, toUserID, status string) ConnectionRequested {
	return ConnectionRequested{
		BaseEvent: BaseEvent{
			AggregateID: connectionID,
			EventType:   TypeConnectionRequested,
			Timestamp:   time.Now(),
		},
		ConnectionID: connectionID,
		FromUserID:   fromUserID,
		ToUserID:     toUserID,
		Status:       status,
	}
}

// ConnectionAccepted is raised when a recipient accepts a request
type ConnectionAccepted struct {
	BaseEvent
	ConnectionID string `json:"connection_id"`
	FromUserID   string `json:"from_user_id"`
	ToUserID     string `json:"to_user_id"`
}

// NewConnectionAccepted creates a ConnectionAccepted event
func NewConnectionAccepted(connectionID, fromUserID, toUserID string) ConnectionAccepted {
	return ConnectionAccepted{
		BaseEvent: BaseEvent{
			AggregateID: connectionID,
			EventType:   TypeConnectionAccepted,
			Timestamp:   time.Now(),
		},
		ConnectionID: connectionID,
		FromUserID:   fromUserID,
		ToUserID:     toUserID,
	}
}

// PremiumUpgraded is raised when a payment webhook confirms an upgrade
type PremiumUpgraded struct {
	BaseEvent
	UserID         string `json:"user_id"`
	MembershipType string `json:"membership_type"`
}

// NewPremiumUpgraded creates a PremiumUpgraded event
func NewPremiumUpgraded(userID, membershipType string) PremiumUpgraded {
	return PremiumUpgraded{
		BaseEvent: BaseEvent{
			AggregateID: userID,
			EventType:   TypePremiumUpgraded,
			Timestamp:   time.Now(),
		},
		UserID:         userID,
		MembershipType: membershipType,
	}
}
