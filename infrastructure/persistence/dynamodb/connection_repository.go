package dynamodb

import (
	"context"
	"fmt"
	"sort"
	"time"

	"meetgraph/application/ports"
	"meetgraph/domain/connection"
	apperrors "meetgraph/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

const (
	connPKPrefix     = "CONN#"
	connMetadataSK   = "METADATA"
	connPairPKPrefix = "CONNPAIR#"
	connPairGuardSK  = "GUARD"
	entityConnection = "CONNECTION"
)

// ConnectionRepository implements ports.ConnectionRepository on DynamoDB.
// Each edge is two items written transactionally: the edge record and a
// pair-guard item keyed by the order-independent pair, whose existence
// check enforces one edge per pair.
type ConnectionRepository struct {
	client    *dynamodb.Client
	tableName string
	gsi1Name  string
	gsi2Name  string
	logger    *zap.Logger
}

// NewConnectionRepository creates a new ConnectionRepository. gsi1 indexes
// edges by sender, gsi2 by recipient.
func NewConnectionRepository(client *dynamodb.Client, tableName, gsi1, gsi2 string, logger *zap.Logger) ports.ConnectionRepository {
	return &ConnectionRepository{
		client:    client,
		tableName: tableName,
		gsi1Name:  gsi1,
		gsi2Name:  gsi2,
		logger:    logger,
	}
}

// connectionItem is the DynamoDB item shape for a connection edge
type connectionItem struct {
	PK           string `dynamodbav:"PK"`
	SK           string `dynamodbav:"SK"`
	GSI1PK       string `dynamodbav:"GSI1PK"` // USER#<from>
	GSI1SK       string `dynamodbav:"GSI1SK"` // CONN#<id>
	GSI2PK       string `dynamodbav:"GSI2PK"` // USER#<to>
	GSI2SK       string `dynamodbav:"GSI2SK"` // CONN#<id>
	EntityType   string `dynamodbav:"EntityType"`
	ConnectionID string `dynamodbav:"ConnectionID"`
	FromUserID   string `dynamodbav:"FromUserID"`
	ToUserID     string `dynamodbav:"ToUserID"`
	Status       string `dynamodbav:"Status"`
	PairKey      string `dynamodbav:"PairKey"`
	CreatedAt    string `dynamodbav:"CreatedAt"`
	UpdatedAt    string `dynamodbav:"UpdatedAt"`
}

func connectionToItem(c *connection.Connection) connectionItem {
	return connectionItem{
		PK:           connPKPrefix + c.ID,
		SK:           connMetadataSK,
		GSI1PK:       userPKPrefix + c.FromUserID,
		GSI1SK:       connPKPrefix + c.ID,
		GSI2PK:       userPKPrefix + c.ToUserID,
		GSI2SK:       connPKPrefix + c.ID,
		EntityType:   entityConnection,
		ConnectionID: c.ID,
		FromUserID:   c.FromUserID,
		ToUserID:     c.ToUserID,
		Status:       string(c.Status),
		PairKey:      connection.PairKey(c.FromUserID, c.ToUserID),
		CreatedAt:    c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    c.UpdatedAt.Format(time.RFC3339),
	}
}

func (it connectionItem) toConnection() *connection.Connection {
	createdAt, _ := time.Parse(time.RFC3339, it.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339, it.UpdatedAt)
	return &connection.Connection{
		ID:         it.ConnectionID,
		FromUserID: it.FromUserID,
		ToUserID:   it.ToUserID,
		Status:     connection.Status(it.Status),
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}
}

// Create atomically writes the edge and its pair guard. A guard that
// already exists means an edge already joins the pair in either direction,
// so the whole transaction fails with a DuplicateEdge conflict.
func (r *ConnectionRepository) Create(ctx context.Context, conn *connection.Connection) error {
	edgeAV, err := attributevalue.MarshalMap(connectionToItem(conn))
	if err != nil {
		return fmt.Errorf("failed to marshal connection: %w", err)
	}

	pairKey := connection.PairKey(conn.FromUserID, conn.ToUserID)
	guardAV := map[string]types.AttributeValue{
		"PK":           &types.AttributeValueMemberS{Value: connPairPKPrefix + pairKey},
		"SK":           &types.AttributeValueMemberS{Value: connPairGuardSK},
		"EntityType":   &types.AttributeValueMemberS{Value: "CONNPAIR"},
		"ConnectionID": &types.AttributeValueMemberS{Value: conn.ID},
	}

	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:           aws.String(r.tableName),
					Item:                edgeAV,
					ConditionExpression: aws.String("attribute_not_exists(PK)"),
				},
			},
			{
				Put: &types.Put{
					TableName:           aws.String(r.tableName),
					Item:                guardAV,
					ConditionExpression: aws.String("attribute_not_exists(PK)"),
				},
			},
		},
	})
	if err != nil {
		var txErr *types.TransactionCanceledException
		if asType(err, &txErr) {
			for _, reason := range txErr.CancellationReasons {
				if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
					return apperrors.NewDuplicateEdgeError(conn.FromUserID, conn.ToUserID)
				}
			}
		}
		r.logger.Error("Failed to create connection",
			zap.Error(err),
			zap.String("connectionID", conn.ID),
		)
		return apperrors.NewDatabaseError("create connection", err)
	}

	r.logger.Info("Created connection",
		zap.String("connectionID", conn.ID),
		zap.String("fromUserID", conn.FromUserID),
		zap.String("toUserID", conn.ToUserID),
		zap.String("status", string(conn.Status)),
	)
	return nil
}

// FindByID returns the edge or a NotFound error
func (r *ConnectionRepository) FindByID(ctx context.Context, connectionID string) (*connection.Connection, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: connPKPrefix + connectionID},
			"SK": &types.AttributeValueMemberS{Value: connMetadataSK},
		},
	})
	if err != nil {
		return nil, apperrors.NewDatabaseError("get connection", err)
	}
	if result.Item == nil {
		return nil, apperrors.NewNotFoundError("connection")
	}

	var item connectionItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal connection: %w", err)
	}
	return item.toConnection(), nil
}

func (r *ConnectionRepository) queryIndex(ctx context.Context, indexName, pkAttr, userID string, statusFilter connection.Status) ([]*connection.Connection, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(indexName),
		KeyConditionExpression: aws.String(fmt.Sprintf("%s = :pk", pkAttr)),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: userPKPrefix + userID},
		},
	}
	if statusFilter != "" {
		input.FilterExpression = aws.String("#st = :status")
		input.ExpressionAttributeNames = map[string]string{"#st": "Status"}
		input.ExpressionAttributeValues[":status"] = &types.AttributeValueMemberS{Value: string(statusFilter)}
	}

	var out []*connection.Connection
	for {
		result, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, apperrors.NewDatabaseError("query connections", err)
		}
		for _, raw := range result.Items {
			var item connectionItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.logger.Warn("Skipping undecodable connection item", zap.Error(err))
				continue
			}
			out = append(out, item.toConnection())
		}
		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
	return out, nil
}

// FindAllForUser returns every edge touching the user regardless of
// status. Both index directions are queried and merged; a user never
// appears on both sides of one edge, so no dedup is needed.
func (r *ConnectionRepository) FindAllForUser(ctx context.Context, userID string) ([]*connection.Connection, error) {
	sent, err := r.queryIndex(ctx, r.gsi1Name, "GSI1PK", userID, "")
	if err != nil {
		return nil, err
	}
	received, err := r.queryIndex(ctx, r.gsi2Name, "GSI2PK", userID, "")
	if err != nil {
		return nil, err
	}

	all := append(sent, received...)
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

// FindAcceptedForUser returns accepted edges touching the user
func (r *ConnectionRepository) FindAcceptedForUser(ctx context.Context, userID string) ([]*connection.Connection, error) {
	sent, err := r.queryIndex(ctx, r.gsi1Name, "GSI1PK", userID, connection.StatusAccepted)
	if err != nil {
		return nil, err
	}
	received, err := r.queryIndex(ctx, r.gsi2Name, "GSI2PK", userID, connection.StatusAccepted)
	if err != nil {
		return nil, err
	}

	all := append(sent, received...)
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

// FindPendingForUser returns edges pointed at the user still awaiting
// review
func (r *ConnectionRepository) FindPendingForUser(ctx context.Context, userID string) ([]*connection.Connection, error) {
	return r.queryIndex(ctx, r.gsi2Name, "GSI2PK", userID, connection.StatusInterested)
}

// UpdateStatus persists a reviewed status for the edge
func (r *ConnectionRepository) UpdateStatus(ctx context.Context, connectionID string, status connection.Status) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: connPKPrefix + connectionID},
			"SK": &types.AttributeValueMemberS{Value: connMetadataSK},
		},
		UpdateExpression:    aws.String("SET #st = :status, UpdatedAt = :updatedAt"),
		ConditionExpression: aws.String("attribute_exists(PK)"),
		ExpressionAttributeNames: map[string]string{
			"#st": "Status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status":    &types.AttributeValueMemberS{Value: string(status)},
			":updatedAt": &types.AttributeValueMemberS{Value: time.Now().Format(time.RFC3339)},
		},
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if asType(err, &condErr) {
			return apperrors.NewNotFoundError("connection")
		}
		return apperrors.NewDatabaseError("update connection status", err)
	}

	r.logger.Info("Updated connection status",
		zap.String("connectionID", connectionID),
		zap.String("status", string(status)),
	)
	return nil
}
