// Package dynamodb implements the repository ports on a single DynamoDB
// table. All entities share the table and are discriminated by key prefix
// and an EntityType attribute.
package dynamodb

import (
	"context"
	"fmt"
	"sort"
	"time"

	"meetgraph/application/ports"
	"meetgraph/domain/user"
	apperrors "meetgraph/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

const (
	userPKPrefix  = "USER#"
	userProfileSK = "PROFILE"
	entityUser    = "USER"
)

// UserRepository implements ports.UserRepository on DynamoDB
type UserRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.UserRepository {
	return &UserRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// userItem is the DynamoDB item shape for a user profile
type userItem struct {
	PK             string   `dynamodbav:"PK"`
	SK             string   `dynamodbav:"SK"`
	EntityType     string   `dynamodbav:"EntityType"`
	UserID         string   `dynamodbav:"UserID"`
	FirstName      string   `dynamodbav:"FirstName"`
	LastName       string   `dynamodbav:"LastName"`
	Email          string   `dynamodbav:"Email"`
	Age            int      `dynamodbav:"Age,omitempty"`
	Gender         string   `dynamodbav:"Gender,omitempty"`
	PhotoURL       string   `dynamodbav:"PhotoURL,omitempty"`
	About          string   `dynamodbav:"About,omitempty"`
	Skills         []string `dynamodbav:"Skills,omitempty"`
	IsPremium      bool     `dynamodbav:"IsPremium"`
	MembershipType string   `dynamodbav:"MembershipType,omitempty"`
	CreatedAt      string   `dynamodbav:"CreatedAt"`
	UpdatedAt      string   `dynamodbav:"UpdatedAt"`
}

func userToItem(u *user.User) userItem {
	return userItem{
		PK:             userPKPrefix + u.ID,
		SK:             userProfileSK,
		EntityType:     entityUser,
		UserID:         u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Email:          u.Email,
		Age:            u.Age,
		Gender:         u.Gender,
		PhotoURL:       u.PhotoURL,
		About:          u.About,
		Skills:         u.Skills,
		IsPremium:      u.IsPremium,
		MembershipType: string(u.MembershipType),
		CreatedAt:      u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      u.UpdatedAt.Format(time.RFC3339),
	}
}

func (it userItem) toUser() *user.User {
	createdAt, _ := time.Parse(time.RFC3339, it.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339, it.UpdatedAt)
	return &user.User{
		ID:             it.UserID,
		FirstName:      it.FirstName,
		LastName:       it.LastName,
		Email:          it.Email,
		Age:            it.Age,
		Gender:         it.Gender,
		PhotoURL:       it.PhotoURL,
		About:          it.About,
		Skills:         it.Skills,
		IsPremium:      it.IsPremium,
		MembershipType: user.MembershipType(it.MembershipType),
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
	}
}

// Save persists a new user record
func (r *UserRepository) Save(ctx context.Context, u *user.User) error {
	av, err := attributevalue.MarshalMap(userToItem(u))
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		r.logger.Error("Failed to save user", zap.Error(err), zap.String("userID", u.ID))
		return apperrors.NewDatabaseError("save user", err)
	}
	return nil
}

// FindByID returns the full user record or a NotFound error
func (r *UserRepository) FindByID(ctx context.Context, userID string) (*user.User, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userPKPrefix + userID},
			"SK": &types.AttributeValueMemberS{Value: userProfileSK},
		},
	})
	if err != nil {
		return nil, apperrors.NewDatabaseError("get user", err)
	}
	if result.Item == nil {
		return nil, apperrors.NewNotFoundError("user")
	}

	var item userItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return item.toUser(), nil
}

// FindUsersExcluding scans user profiles, drops the excluded IDs, and
// returns one page ordered by UserID. Scan-and-filter keeps ordering
// deterministic; exclusion sets are too dynamic for an index.
func (r *UserRepository) FindUsersExcluding(ctx context.Context, excludeIDs map[string]struct{}, skip, limit int) ([]user.PublicProfile, error) {
	expr, err := expression.NewBuilder().
		WithFilter(expression.Name("EntityType").Equal(expression.Value(entityUser))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build filter expression: %w", err)
	}

	var candidates []user.PublicProfile
	var lastKey map[string]types.AttributeValue
	for {
		result, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:                 aws.String(r.tableName),
			FilterExpression:          expr.Filter(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         lastKey,
		})
		if err != nil {
			return nil, apperrors.NewDatabaseError("scan users", err)
		}

		for _, raw := range result.Items {
			var item userItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.logger.Warn("Skipping undecodable user item", zap.Error(err))
				continue
			}
			if _, excluded := excludeIDs[item.UserID]; excluded {
				continue
			}
			candidates = append(candidates, item.toUser().Public())
		}

		lastKey = result.LastEvaluatedKey
		if lastKey == nil {
			break
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].ID < candidates[j].ID
	})

	if skip >= len(candidates) {
		return []user.PublicProfile{}, nil
	}
	end := skip + limit
	if end > len(candidates) {
		end = len(candidates)
	}
	return candidates[skip:end], nil
}

// UpdateProfile applies the allowed profile fields and returns the
// updated record
func (r *UserRepository) UpdateProfile(ctx context.Context, userID string, update user.ProfileUpdate) (*user.User, error) {
	u, err := r.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	update.Apply(u)

	av, err := attributevalue.MarshalMap(userToItem(u))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal user: %w", err)
	}

	// Conditional on existence so a concurrent delete does not resurrect
	// the profile.
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if ok := asType(err, &condErr); ok {
			return nil, apperrors.NewNotFoundError("user")
		}
		r.logger.Error("Failed to update profile", zap.Error(err), zap.String("userID", userID))
		return nil, apperrors.NewDatabaseError("update profile", err)
	}
	return u, nil
}

// SetPremium marks a user as premium with the given membership type
func (r *UserRepository) SetPremium(ctx context.Context, userID string, membership user.MembershipType) error {
	expr, err := expression.NewBuilder().
		WithUpdate(expression.
			Set(expression.Name("IsPremium"), expression.Value(true)).
			Set(expression.Name("MembershipType"), expression.Value(string(membership))).
			Set(expression.Name("UpdatedAt"), expression.Value(time.Now().Format(time.RFC3339)))).
		WithCondition(expression.Name("PK").AttributeExists()).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build update expression: %w", err)
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userPKPrefix + userID},
			"SK": &types.AttributeValueMemberS{Value: userProfileSK},
		},
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if ok := asType(err, &condErr); ok {
			return apperrors.NewNotFoundError("user")
		}
		return apperrors.NewDatabaseError("set premium", err)
	}

	r.logger.Info("Upgraded user membership",
		zap.String("userID", userID),
		zap.String("membership", string(membership)),
	)
	return nil
}
