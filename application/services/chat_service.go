package services

import (
	"context"

	"meetgraph/application/ports"
	"meetgraph/domain/chat"
	"meetgraph/infrastructure/cache"
	apperrors "meetgraph/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultThreadLimit = 50

// ChatService persists and reads message threads between connected users.
// Both directions require an accepted connection.
type ChatService struct {
	chatRepo    ports.ChatRepository
	connections *ConnectionService
	engine      *cache.Engine
	invalidator *cache.Invalidator
	logger      *zap.Logger
}

// NewChatService creates a new chat service
func NewChatService(
	chatRepo ports.ChatRepository,
	connections *ConnectionService,
	engine *cache.Engine,
	invalidator *cache.Invalidator,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		chatRepo:    chatRepo,
		connections: connections,
		engine:      engine,
		invalidator: invalidator,
		logger:      logger,
	}
}

// GetThread returns the recent messages between the viewer and target,
// oldest first, cached per viewer.
func (s *ChatService) GetThread(ctx context.Context, userID, targetUserID string) ([]*chat.Message, error) {
	if err := s.requireConnection(ctx, userID, targetUserID); err != nil {
		return nil, err
	}

	return cache.ReadThrough(ctx, s.engine, cache.ChatThread(userID, targetUserID),
		func(ctx context.Context) ([]*chat.Message, error) {
			msgs, err := s.chatRepo.GetThread(ctx, userID, targetUserID, defaultThreadLimit)
			if err != nil {
				return nil, err
			}
			if msgs == nil {
				msgs = []*chat.Message{}
			}
			return msgs, nil
		})
}

// SendMessage appends a message on the thread and drops both cached views
// of it.
func (s *ChatService) SendMessage(ctx context.Context, senderID, recipientID, text string) (*chat.Message, error) {
	msg, err := chat.NewMessage(uuid.New().String(), senderID, recipientID, text)
	if err != nil {
		return nil, err
	}

	if err := s.requireConnection(ctx, senderID, recipientID); err != nil {
		return nil, err
	}

	if err := s.chatRepo.Append(ctx, msg); err != nil {
		return nil, err
	}

	s.invalidator.OnChatMessage(ctx, senderID, recipientID)
	return msg, nil
}

func (s *ChatService) requireConnection(ctx context.Context, userID, otherUserID string) error {
	connected, err := s.connections.AreConnected(ctx, userID, otherUserID)
	if err != nil {
		return err
	}
	if !connected {
		return apperrors.NewForbiddenError("you can only chat with accepted connections")
	}
	return nil
}
