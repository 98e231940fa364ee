package services

import (
	"context"

	"meetgraph/application/ports"
	"meetgraph/domain/connection"
	"meetgraph/domain/events"
	"meetgraph/domain/user"
	"meetgraph/infrastructure/cache"
	apperrors "meetgraph/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConnectionWithProfile pairs an edge with the counterpart's public
// profile, the shape list endpoints return.
type ConnectionWithProfile struct {
	Connection *connection.Connection `json:"connection"`
	Profile    user.PublicProfile     `json:"profile"`
}

// ConnectionService manages the connection graph: sending requests,
// reviewing them, and listing a user's edges.
type ConnectionService struct {
	userRepo    ports.UserRepository
	connRepo    ports.ConnectionRepository
	engine      *cache.Engine
	invalidator *cache.Invalidator
	publisher   ports.EventPublisher
	logger      *zap.Logger
}

// NewConnectionService creates a new connection service
func NewConnectionService(
	userRepo ports.UserRepository,
	connRepo ports.ConnectionRepository,
	engine *cache.Engine,
	invalidator *cache.Invalidator,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *ConnectionService {
	return &ConnectionService{
		userRepo:    userRepo,
		connRepo:    connRepo,
		engine:      engine,
		invalidator: invalidator,
		publisher:   publisher,
		logger:      logger,
	}
}

// SendRequest creates an edge from fromUserID to toUserID with an
// 'interested' or 'ignored' status. The store rejects a second edge for
// the pair in either direction.
func (s *ConnectionService) SendRequest(ctx context.Context, fromUserID, toUserID string, status connection.Status) (*connection.Connection, error) {
	conn, err := connection.New(uuid.New().String(), fromUserID, toUserID, status)
	if err != nil {
		return nil, err
	}

	// The target must exist before any edge is written.
	if _, err := s.userRepo.FindByID(ctx, toUserID); err != nil {
		return nil, err
	}

	if err := s.connRepo.Create(ctx, conn); err != nil {
		return nil, err
	}

	// Invalidation runs only after the write has committed, and never
	// fails the request.
	s.invalidator.OnConnectionMutated(ctx, fromUserID, toUserID)

	if status == connection.StatusInterested {
		s.publishEvent(ctx, events.NewConnectionRequested(conn.ID, fromUserID, toUserID, string(status)))
	}

	return conn, nil
}

// ReviewRequest moves a request to 'accepted' or 'rejected'. Only the
// recipient of an 'interested' edge may review it.
func (s *ConnectionService) ReviewRequest(ctx context.Context, reviewerID, requestID string, status connection.Status) (*connection.Connection, error) {
	conn, err := s.getConnection(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if err := conn.Review(reviewerID, status); err != nil {
		return nil, err
	}

	if err := s.connRepo.UpdateStatus(ctx, conn.ID, conn.Status); err != nil {
		return nil, err
	}

	s.invalidator.ForgetConnection(ctx, conn.ID)
	s.invalidator.OnConnectionMutated(ctx, conn.FromUserID, conn.ToUserID)

	if status == connection.StatusAccepted {
		s.publishEvent(ctx, events.NewConnectionAccepted(conn.ID, conn.FromUserID, conn.ToUserID))
	}

	return conn, nil
}

// GetReceivedRequests lists pending requests addressed to the user, each
// with the sender's public profile.
func (s *ConnectionService) GetReceivedRequests(ctx context.Context, userID string) ([]ConnectionWithProfile, error) {
	return cache.ReadThrough(ctx, s.engine, cache.UserRequests(userID),
		func(ctx context.Context) ([]ConnectionWithProfile, error) {
			edges, err := s.connRepo.FindPendingForUser(ctx, userID)
			if err != nil {
				return nil, err
			}
			return s.withCounterpartProfiles(ctx, userID, edges)
		})
}

// GetConnections lists the user's accepted connections with the
// counterpart's public profile.
func (s *ConnectionService) GetConnections(ctx context.Context, userID string) ([]ConnectionWithProfile, error) {
	return cache.ReadThrough(ctx, s.engine, cache.UserConnections(userID),
		func(ctx context.Context) ([]ConnectionWithProfile, error) {
			edges, err := s.connRepo.FindAcceptedForUser(ctx, userID)
			if err != nil {
				return nil, err
			}
			return s.withCounterpartProfiles(ctx, userID, edges)
		})
}

// AreConnected reports whether two users share an accepted edge
func (s *ConnectionService) AreConnected(ctx context.Context, userID, otherUserID string) (bool, error) {
	edges, err := s.connRepo.FindAcceptedForUser(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, edge := range edges {
		if edge.Involves(otherUserID) {
			return true, nil
		}
	}
	return false, nil
}

func (s *ConnectionService) getConnection(ctx context.Context, connectionID string) (*connection.Connection, error) {
	return cache.ReadThrough(ctx, s.engine, cache.ConnectionByID(connectionID),
		func(ctx context.Context) (*connection.Connection, error) {
			return s.connRepo.FindByID(ctx, connectionID)
		})
}

// withCounterpartProfiles resolves the other side of each edge. A
// counterpart whose profile has vanished is dropped from the list rather
// than failing the whole read.
func (s *ConnectionService) withCounterpartProfiles(ctx context.Context, userID string, edges []*connection.Connection) ([]ConnectionWithProfile, error) {
	out := make([]ConnectionWithProfile, 0, len(edges))
	for _, edge := range edges {
		counterpart, err := s.userRepo.FindByID(ctx, edge.Counterpart(userID))
		if err != nil {
			if apperrors.IsNotFound(err) {
				s.logger.Warn("Dropping edge with missing counterpart",
					zap.String("connectionID", edge.ID),
					zap.String("counterpartID", edge.Counterpart(userID)),
				)
				continue
			}
			return nil, err
		}
		out = append(out, ConnectionWithProfile{
			Connection: edge,
			Profile:    counterpart.Public(),
		})
	}
	return out, nil
}

func (s *ConnectionService) publishEvent(ctx context.Context, event events.DomainEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish event",
			zap.String("eventType", event.GetEventType()),
			zap.Error(err),
		)
	}
}
