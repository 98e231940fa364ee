// Package ports defines the interfaces the application layer depends on.
// Infrastructure packages provide the implementations; services consume
// only these contracts.
package ports

import (
	"context"

	"meetgraph/domain/chat"
	"meetgraph/domain/connection"
	"meetgraph/domain/events"
	"meetgraph/domain/user"
)

// UserRepository provides canonical reads and writes for user profiles
type UserRepository interface {
	// FindByID returns the full user record or a NotFound error
	FindByID(ctx context.Context, userID string) (*user.User, error)

	// FindUsersExcluding returns public profiles of users whose IDs are not
	// in excludeIDs, ordered deterministically, skipping skip records and
	// returning at most limit
	FindUsersExcluding(ctx context.Context, excludeIDs map[string]struct{}, skip, limit int) ([]user.PublicProfile, error)

	// UpdateProfile applies the allowed profile fields and returns the
	// updated record
	UpdateProfile(ctx context.Context, userID string, update user.ProfileUpdate) (*user.User, error)

	// SetPremium marks a user as premium with the given membership type
	SetPremium(ctx context.Context, userID string, membership user.MembershipType) error

	// Save persists a new user record
	Save(ctx context.Context, u *user.User) error
}

// ConnectionRepository provides canonical reads and writes for connection
// edges. Pair-uniqueness is enforced at creation inside Create.
type ConnectionRepository interface {
	// Create atomically persists the edge, failing with a DuplicateEdge
	// conflict if any edge already exists between the pair
	Create(ctx context.Context, conn *connection.Connection) error

	// FindByID returns the edge or a NotFound error
	FindByID(ctx context.Context, connectionID string) (*connection.Connection, error)

	// FindAllForUser returns every edge touching the user, any status.
	// Feed exclusion sets are built from this unfiltered view.
	FindAllForUser(ctx context.Context, userID string) ([]*connection.Connection, error)

	// FindAcceptedForUser returns accepted edges touching the user
	FindAcceptedForUser(ctx context.Context, userID string) ([]*connection.Connection, error)

	// FindPendingForUser returns edges pointed at the user that are still
	// awaiting review
	FindPendingForUser(ctx context.Context, userID string) ([]*connection.Connection, error)

	// UpdateStatus persists a reviewed status for the edge
	UpdateStatus(ctx context.Context, connectionID string, status connection.Status) error
}

// ChatRepository provides persistence for chat threads
type ChatRepository interface {
	// GetThread returns the messages between two users, oldest first
	GetThread(ctx context.Context, userID, targetUserID string, limit int) ([]*chat.Message, error)

	// Append persists a new message on the thread
	Append(ctx context.Context, msg *chat.Message) error
}

// EventPublisher delivers domain events to the bus. Publishing is
// best-effort relative to the triggering operation.
type EventPublisher interface {
	Publish(ctx context.Context, event events.DomainEvent) error
}
