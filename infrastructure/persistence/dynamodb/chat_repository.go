package dynamodb

import (
	"context"
	"fmt"
	"time"

	"meetgraph/application/ports"
	"meetgraph/domain/chat"
	apperrors "meetgraph/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

const (
	chatPKPrefix  = "CHAT#"
	chatMsgPrefix = "MSG#"
	entityMessage = "MESSAGE"
)

// ChatRepository implements ports.ChatRepository on DynamoDB. A thread is
// one partition keyed by the order-independent pair; messages sort by send
// time within it.
type ChatRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewChatRepository creates a new ChatRepository
func NewChatRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.ChatRepository {
	return &ChatRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

type messageItem struct {
	PK          string `dynamodbav:"PK"`
	SK          string `dynamodbav:"SK"`
	EntityType  string `dynamodbav:"EntityType"`
	MessageID   string `dynamodbav:"MessageID"`
	SenderID    string `dynamodbav:"SenderID"`
	RecipientID string `dynamodbav:"RecipientID"`
	Text        string `dynamodbav:"Text"`
	SentAt      string `dynamodbav:"SentAt"`
}

// Append persists a new message on the thread
func (r *ChatRepository) Append(ctx context.Context, msg *chat.Message) error {
	// SentAt leads the sort key so a time-ordered query needs no
	// client-side sort; the ID breaks same-instant ties.
	item := messageItem{
		PK:          chatPKPrefix + chat.ThreadKey(msg.SenderID, msg.RecipientID),
		SK:          fmt.Sprintf("%s%s#%s", chatMsgPrefix, msg.SentAt.UTC().Format(time.RFC3339Nano), msg.ID),
		EntityType:  entityMessage,
		MessageID:   msg.ID,
		SenderID:    msg.SenderID,
		RecipientID: msg.RecipientID,
		Text:        msg.Text,
		SentAt:      msg.SentAt.UTC().Format(time.RFC3339Nano),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		r.logger.Error("Failed to append chat message",
			zap.Error(err),
			zap.String("messageID", msg.ID),
		)
		return apperrors.NewDatabaseError("append message", err)
	}
	return nil
}

// GetThread returns the newest messages between two users in
// chronological order. The query walks backwards to find the tail of the
// thread, then the page is reversed to oldest-first.
func (r *ChatRepository) GetThread(ctx context.Context, userID, targetUserID string, limit int) ([]*chat.Message, error) {
	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :msg)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":  &types.AttributeValueMemberS{Value: chatPKPrefix + chat.ThreadKey(userID, targetUserID)},
			":msg": &types.AttributeValueMemberS{Value: chatMsgPrefix},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(int32(limit)),
	})
	if err != nil {
		return nil, apperrors.NewDatabaseError("query chat thread", err)
	}

	messages := make([]*chat.Message, 0, len(result.Items))
	for i := len(result.Items) - 1; i >= 0; i-- {
		var item messageItem
		if err := attributevalue.UnmarshalMap(result.Items[i], &item); err != nil {
			r.logger.Warn("Skipping undecodable message item", zap.Error(err))
			continue
		}
		sentAt, _ := time.Parse(time.RFC3339Nano, item.SentAt)
		messages = append(messages, &chat.Message{
			ID:          item.MessageID,
			SenderID:    item.SenderID,
			RecipientID: item.RecipientID,
			Text:        item.Text,
			SentAt:      sentAt,
		})
	}
	return messages, nil
}
